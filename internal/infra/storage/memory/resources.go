package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// OccupiedSpaces ID занятых кабинетов в слоте по возрастанию
func (s *Store) OccupiedSpaces(ctx context.Context, date time.Time, blockID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, b := range s.inSlot(ctx, date, blockID) {
		if _, ok := seen[b.SpaceID]; ok {
			continue
		}
		seen[b.SpaceID] = struct{}{}
		ids = append(ids, b.SpaceID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) TherapistBookingCount(ctx context.Context, date time.Time, blockID, therapistID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.inSlot(ctx, date, blockID) {
		if b.TherapistID == therapistID {
			count++
		}
	}
	return count, nil
}

func (s *Store) TherapistHasSpecialHandlingOccupant(ctx context.Context, date time.Time, blockID, therapistID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.inSlot(ctx, date, blockID) {
		if b.TherapistID != therapistID {
			continue
		}
		if p, ok := s.patients[b.PatientID]; ok && p.RequiresSpecialHandling {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MachinesInUse(ctx context.Context, date time.Time, blockID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.inSlot(ctx, date, blockID) {
		if b.MachineID != nil {
			count++
		}
	}
	return count, nil
}

// FirstFreeMachine аппарат с наименьшим ID, не занятый в слоте, или nil
func (s *Store) FirstFreeMachine(ctx context.Context, date time.Time, blockID int64) (*int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	used := make(map[int64]struct{})
	for _, b := range s.inSlot(ctx, date, blockID) {
		if b.MachineID != nil {
			used[*b.MachineID] = struct{}{}
		}
	}
	for _, id := range s.machineIDs() {
		if _, ok := used[id]; !ok {
			free := id
			return &free, nil
		}
	}
	return nil, nil
}

// PatientBookedOn есть ли у пациента бронирование на дату в любом блоке
func (s *Store) PatientBookedOn(ctx context.Context, patientID int64, date time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	date = domain.DateOnly(date)
	for _, b := range s.view(ctx) {
		if b.PatientID == patientID && b.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}
