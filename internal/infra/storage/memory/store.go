// Package memory хранилище в памяти: справочники, бронирования и транзакции.
// Используется в тестах и для локального запуска без postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// Store реализует ResourceQuery, BookingStore, CatalogLookup и TransactionManager
type Store struct {
	// txMu сериализует транзакции целиком, аналог SERIALIZABLE
	txMu sync.Mutex

	mu         sync.RWMutex
	patients   map[int64]*domain.Patient
	therapists map[int64]*domain.Therapist
	spaces     map[int64]*domain.Space
	machines   map[int64]*domain.Machine
	blocks     map[int64]*domain.TimeBlock
	bookings   []*domain.Booking
	nextID     map[string]int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		patients:   make(map[int64]*domain.Patient),
		therapists: make(map[int64]*domain.Therapist),
		spaces:     make(map[int64]*domain.Space),
		machines:   make(map[int64]*domain.Machine),
		blocks:     make(map[int64]*domain.TimeBlock),
		nextID:     make(map[string]int64),
		now:        time.Now,
	}
}

// NewClinic создает хранилище с полным пулом ресурсов:
// domain.SpaceCapacity кабинетов, domain.MachineCapacity аппаратов и переданными блоками
func NewClinic(therapists int, blocks ...*domain.TimeBlock) *Store {
	s := NewStore()
	for i := 1; i <= domain.SpaceCapacity; i++ {
		s.AddSpace(&domain.Space{Name: spaceName(i)})
	}
	for i := 1; i <= domain.MachineCapacity; i++ {
		s.AddMachine(&domain.Machine{Name: machineName(i)})
	}
	for i := 1; i <= therapists; i++ {
		s.AddTherapist(&domain.Therapist{Name: therapistName(i)})
	}
	for _, b := range blocks {
		s.AddTimeBlock(b)
	}
	return s
}

func (s *Store) id(kind string, given int64) int64 {
	if given > 0 {
		if given > s.nextID[kind] {
			s.nextID[kind] = given
		}
		return given
	}
	s.nextID[kind]++
	return s.nextID[kind]
}

// AddPatient добавляет пациента, присваивая ID если он не задан
func (s *Store) AddPatient(p *domain.Patient) *domain.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.ID = s.id("patient", p.ID)
	s.patients[cp.ID] = &cp
	return &cp
}

func (s *Store) AddTherapist(t *domain.Therapist) *domain.Therapist {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	cp.ID = s.id("therapist", t.ID)
	s.therapists[cp.ID] = &cp
	return &cp
}

func (s *Store) AddSpace(sp *domain.Space) *domain.Space {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sp
	cp.ID = s.id("space", sp.ID)
	s.spaces[cp.ID] = &cp
	return &cp
}

func (s *Store) AddMachine(m *domain.Machine) *domain.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	cp.ID = s.id("machine", m.ID)
	s.machines[cp.ID] = &cp
	return &cp
}

func (s *Store) AddTimeBlock(b *domain.TimeBlock) *domain.TimeBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	cp.ID = s.id("block", b.ID)
	s.blocks[cp.ID] = &cp
	return &cp
}

// =============================================================================
// CATALOG
// =============================================================================

func (s *Store) GetPatient(_ context.Context, id int64) (*domain.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patients[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) GetTherapist(_ context.Context, id int64) (*domain.Therapist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.therapists[id]
	if !ok {
		return nil, domain.ErrTherapistNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) GetTimeBlock(_ context.Context, id int64) (*domain.TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blocks[id]
	if !ok {
		return nil, domain.ErrTimeBlockNotFound
	}
	cp := *b
	return &cp, nil
}

// ListTimeBlocks возвращает блоки по времени начала, при равенстве по ID
func (s *Store) ListTimeBlocks(_ context.Context) ([]*domain.TimeBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.TimeBlock, 0, len(s.blocks))
	for _, b := range s.blocks {
		cp := *b
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// ListSpaces возвращает кабинеты по возрастанию ID
func (s *Store) ListSpaces(_ context.Context) ([]*domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.Space, 0, len(s.spaces))
	for _, sp := range s.spaces {
		cp := *sp
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *Store) machineIDs() []int64 {
	ids := make([]int64, 0, len(s.machines))
	for id := range s.machines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func spaceName(i int) string     { return fmt.Sprintf("Space %d", i) }
func machineName(i int) string   { return fmt.Sprintf("Machine %d", i) }
func therapistName(i int) string { return fmt.Sprintf("Therapist %d", i) }
