package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

type txKey struct{}

// txState бронирования, созданные внутри транзакции и еще не закоммиченные
type txState struct {
	pending []*domain.Booking
}

func txFrom(ctx context.Context) *txState {
	st, _ := ctx.Value(txKey{}).(*txState)
	return st
}

// DoSerializable выполняет fn атомарно: либо все созданные бронирования видны, либо ни одного
// Транзакции выполняются строго по одной
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	st := &txState{}
	if err := fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		return err
	}

	s.mu.Lock()
	s.bookings = append(s.bookings, st.pending...)
	s.mu.Unlock()
	return nil
}

// view возвращает закоммиченные бронирования плюс незакоммиченные из транзакции в ctx
// Вызывать под s.mu
func (s *Store) view(ctx context.Context) []*domain.Booking {
	st := txFrom(ctx)
	if st == nil || len(st.pending) == 0 {
		return s.bookings
	}
	all := make([]*domain.Booking, 0, len(s.bookings)+len(st.pending))
	all = append(all, s.bookings...)
	return append(all, st.pending...)
}

func (s *Store) inSlot(ctx context.Context, date time.Time, blockID int64) []*domain.Booking {
	date = domain.DateOnly(date)
	var result []*domain.Booking
	for _, b := range s.view(ctx) {
		if b.BlockID == blockID && b.Date.Equal(date) {
			result = append(result, b)
		}
	}
	return result
}

// Create сохраняет бронирование и присваивает ID
// Вне транзакции бронирование сразу становится видимым
func (s *Store) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *booking
	cp.Date = domain.DateOnly(booking.Date)
	if cp.MachineID != nil {
		id := *cp.MachineID
		cp.MachineID = &id
	}

	if err := s.checkUnique(ctx, &cp); err != nil {
		return nil, err
	}

	cp.ID = s.id("booking", 0)
	cp.CreatedAt = s.now()

	if st := txFrom(ctx); st != nil {
		st.pending = append(st.pending, &cp)
	} else {
		s.bookings = append(s.bookings, &cp)
	}

	out := cp
	return &out, nil
}

// checkUnique повторяет уникальные индексы таблицы bookings
func (s *Store) checkUnique(ctx context.Context, b *domain.Booking) error {
	for _, existing := range s.view(ctx) {
		if !existing.Date.Equal(b.Date) {
			continue
		}
		if existing.PatientID == b.PatientID {
			return domain.ErrSlotConflict
		}
		if existing.BlockID != b.BlockID {
			continue
		}
		if existing.SpaceID == b.SpaceID {
			return domain.ErrSlotConflict
		}
		if existing.MachineID != nil && b.MachineID != nil && *existing.MachineID == *b.MachineID {
			return domain.ErrSlotConflict
		}
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.view(ctx) {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBookingNotFound
}

// GetByPatient возвращает бронирования пациента по дате
func (s *Store) GetByPatient(ctx context.Context, patientID int64) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range s.view(ctx) {
		if b.PatientID == patientID {
			cp := *b
			result = append(result, &cp)
		}
	}
	sortByDate(result)
	return result, nil
}

// GetByTherapistWithFilter возвращает бронирования терапевта в диапазоне дат
func (s *Store) GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range s.view(ctx) {
		if b.TherapistID != filter.TherapistID {
			continue
		}
		if filter.From != nil && b.Date.Before(domain.DateOnly(*filter.From)) {
			continue
		}
		if filter.To != nil && b.Date.After(domain.DateOnly(*filter.To)) {
			continue
		}
		cp := *b
		result = append(result, &cp)
	}
	sortByDate(result)
	return result, nil
}

// Count количество закоммиченных бронирований
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func sortByDate(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].Date.Equal(bookings[j].Date) {
			return bookings[i].Date.Before(bookings[j].Date)
		}
		if bookings[i].BlockID != bookings[j].BlockID {
			return bookings[i].BlockID < bookings[j].BlockID
		}
		return bookings[i].ID < bookings[j].ID
	})
}
