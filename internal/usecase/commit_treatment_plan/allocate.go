package commit_treatment_plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// allocation контекст одного коммита, общий для всех дат плана
type allocation struct {
	plan    domain.TreatmentPlan
	patient *domain.Patient
	spaces  []*domain.Space
}

// allocateDate проверяет правила для одной даты, выбирает ресурсы и сохраняет бронирование
// Первая ошибка прерывает весь план
func (uc *UseCase) allocateDate(ctx context.Context, a *allocation, date time.Time) (*domain.Booking, error) {
	blockID := a.plan.BlockID

	// 1. Пациент не может иметь две сессии в один день
	booked, err := uc.resources.PatientBookedOn(ctx, a.plan.PatientID, date)
	if err != nil {
		return nil, persistenceError("patient booked on", err)
	}
	if booked {
		return nil, newValidationError(ErrPatientAlreadyBooked, date, blockID)
	}

	// 2. Кабинет с наименьшим ID, не занятый в слоте
	spaceID, err := uc.pickSpace(ctx, a.spaces, date, blockID)
	if err != nil {
		return nil, err
	}

	// 3. Правила терапевта
	if err := uc.checkTherapist(ctx, a, date); err != nil {
		return nil, err
	}

	// 4. Аппарат, если нужен
	var machineID *int64
	if a.plan.UsesMachine {
		machineID, err = uc.pickMachine(ctx, date, blockID)
		if err != nil {
			return nil, err
		}
	}

	// 5. Сохраняем бронирование в рамках транзакции
	created, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		PatientID:   a.plan.PatientID,
		TherapistID: a.plan.TherapistID,
		SpaceID:     spaceID,
		BlockID:     blockID,
		MachineID:   machineID,
		Date:        date,
	})
	if err != nil {
		return nil, persistenceError("create booking", err)
	}

	return created, nil
}

func (uc *UseCase) pickSpace(ctx context.Context, spaces []*domain.Space, date time.Time, blockID int64) (int64, error) {
	occupiedIDs, err := uc.resources.OccupiedSpaces(ctx, date, blockID)
	if err != nil {
		return 0, persistenceError("occupied spaces", err)
	}
	// Вместимость клиники ограничена независимо от размера справочника
	if len(occupiedIDs) >= domain.SpaceCapacity {
		return 0, newValidationError(ErrNoSpaceAvailable, date, blockID)
	}

	occupied := make(map[int64]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}

	for _, space := range spaces {
		if _, taken := occupied[space.ID]; !taken {
			return space.ID, nil
		}
	}

	return 0, newValidationError(ErrNoSpaceAvailable, date, blockID)
}

func (uc *UseCase) checkTherapist(ctx context.Context, a *allocation, date time.Time) error {
	blockID, therapistID := a.plan.BlockID, a.plan.TherapistID

	count, err := uc.resources.TherapistBookingCount(ctx, date, blockID, therapistID)
	if err != nil {
		return persistenceError("therapist booking count", err)
	}

	special, err := uc.resources.TherapistHasSpecialHandlingOccupant(ctx, date, blockID, therapistID)
	if err != nil {
		return persistenceError("therapist special occupant", err)
	}

	switch {
	case a.patient.RequiresSpecialHandling && count > 0:
		return newValidationError(ErrTherapistBusy, date, blockID)
	case special:
		return newValidationError(ErrTherapistReserved, date, blockID)
	case count >= domain.TherapistCapacity:
		return newValidationError(ErrTherapistCapacityExceeded, date, blockID)
	}

	return nil
}

func (uc *UseCase) pickMachine(ctx context.Context, date time.Time, blockID int64) (*int64, error) {
	inUse, err := uc.resources.MachinesInUse(ctx, date, blockID)
	if err != nil {
		return nil, persistenceError("machines in use", err)
	}
	if inUse >= domain.MachineCapacity {
		return nil, newValidationError(ErrNoMachineAvailable, date, blockID)
	}

	// Счетчик мог устареть относительно выбора, тогда аппарата тоже нет
	machineID, err := uc.resources.FirstFreeMachine(ctx, date, blockID)
	if err != nil {
		return nil, persistenceError("first free machine", err)
	}
	if machineID == nil {
		return nil, newValidationError(ErrNoMachineAvailable, date, blockID)
	}

	return machineID, nil
}

// persistenceError оборачивает ошибку хранилища, сохраняя исходную цепочку для errors.Is
func persistenceError(op string, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
