package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/ptr"
)

// evaluateSlot проверяет доступность одного слота (дата, блок)
// Возвращает nil, если слот недоступен
func (uc *UseCase) evaluateSlot(
	ctx context.Context,
	date time.Time,
	block *domain.TimeBlock,
	therapistID *int64,
	needsMachine bool,
) (*Slot, error) {
	// 1. Свободные кабинеты
	occupied, err := uc.resources.OccupiedSpaces(ctx, date, block.ID)
	if err != nil {
		return nil, fmt.Errorf("occupied spaces: %w", err)
	}

	spacesFree := domain.SpaceCapacity - len(occupied)
	if spacesFree <= 0 {
		return nil, nil
	}

	// 2. Занятость терапевта
	if therapistID != nil {
		ok, err := uc.therapistAvailable(ctx, date, block.ID, *therapistID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	// 3. Аппараты учитываются только если они нужны пациенту
	var machinesFree *int
	if needsMachine {
		inUse, err := uc.resources.MachinesInUse(ctx, date, block.ID)
		if err != nil {
			return nil, fmt.Errorf("machines in use: %w", err)
		}

		free := domain.MachineCapacity - inUse
		if free <= 0 {
			return nil, nil
		}
		machinesFree = ptr.Ptr(free)
	}

	return &Slot{
		Date:         date,
		BlockID:      block.ID,
		HourStart:    block.StartTime,
		HourEnd:      block.EndTime,
		SpacesFree:   spacesFree,
		MachinesFree: machinesFree,
	}, nil
}

// therapistAvailable терапевт свободен, если в слоте нет пациента с особым режимом
// и у него меньше domain.TherapistCapacity бронирований
func (uc *UseCase) therapistAvailable(ctx context.Context, date time.Time, blockID, therapistID int64) (bool, error) {
	special, err := uc.resources.TherapistHasSpecialHandlingOccupant(ctx, date, blockID, therapistID)
	if err != nil {
		return false, fmt.Errorf("therapist special occupant: %w", err)
	}
	if special {
		return false, nil
	}

	count, err := uc.resources.TherapistBookingCount(ctx, date, blockID, therapistID)
	if err != nil {
		return false, fmt.Errorf("therapist booking count: %w", err)
	}

	return count < domain.TherapistCapacity, nil
}
