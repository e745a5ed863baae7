package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// UseCase use case расчета доступных слотов на диапазон дат
// Работает только на чтение, результат может устареть к моменту бронирования
type UseCase struct {
	resources    ResourceQuery
	catalog      CatalogLookup
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// maxRangeDays <= 0 заменяется на domain.DefaultMaxRangeDays
func NewUseCase(
	resources ResourceQuery,
	catalog CatalogLookup,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.DefaultMaxRangeDays
	}

	return &UseCase{
		resources:    resources,
		catalog:      catalog,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: start=%s, end=%s, patient=%s, therapist=%s",
		req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat),
		formatOptionalID(req.PatientID), formatOptionalID(req.TherapistID))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxRangeDays); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	start := domain.DateOnly(req.StartDate)
	end := domain.DateOnly(req.EndDate)

	// 2. Пациент определяет, нужно ли учитывать аппараты
	needsMachine := false
	if req.PatientID != nil {
		patient, err := uc.catalog.GetPatient(ctx, *req.PatientID)
		if err != nil {
			if errors.Is(err, domain.ErrPatientNotFound) {
				uc.logger.Warn("GetAvailability: patient id=%d not found", *req.PatientID)
				return nil, ErrPatientNotFound
			}
			uc.logger.Error("GetAvailability: failed to get patient id=%d: %v", *req.PatientID, err)
			return nil, fmt.Errorf("%w: failed to get patient: %v", ErrInternal, err)
		}
		needsMachine = patient.UsesMachine
	}

	// 3. Проверяем существование терапевта
	if req.TherapistID != nil {
		if _, err := uc.catalog.GetTherapist(ctx, *req.TherapistID); err != nil {
			if errors.Is(err, domain.ErrTherapistNotFound) {
				uc.logger.Warn("GetAvailability: therapist id=%d not found", *req.TherapistID)
				return nil, ErrTherapistNotFound
			}
			uc.logger.Error("GetAvailability: failed to get therapist id=%d: %v", *req.TherapistID, err)
			return nil, fmt.Errorf("%w: failed to get therapist: %v", ErrInternal, err)
		}
	}

	// 4. Получаем каталог блоков
	blocks, err := uc.catalog.ListTimeBlocks(ctx)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to list time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to list time blocks: %v", ErrInternal, err)
	}

	// 5. Обходим каждый день диапазона и каждый блок
	slots := make([]Slot, 0)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("GetAvailability: aborted at date=%s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		for _, block := range blocks {
			slot, err := uc.evaluateSlot(ctx, date, block, req.TherapistID, needsMachine)
			if err != nil {
				uc.logger.Error("GetAvailability: failed to evaluate slot date=%s block=%d: %v",
					date.Format(domain.DateFormat), block.ID, err)
				return nil, fmt.Errorf("%w: %v", ErrInternal, err)
			}
			if slot != nil {
				slots = append(slots, *slot)
			}
		}
	}

	uc.logger.Info("GetAvailability: found %d available slots in %d blocks between %s and %s",
		len(slots), len(blocks), start.Format(domain.DateFormat), end.Format(domain.DateFormat))

	return &Response{
		StartDate: start,
		EndDate:   end,
		Slots:     slots,
		Total:     len(slots),
	}, nil
}

func formatOptionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}
