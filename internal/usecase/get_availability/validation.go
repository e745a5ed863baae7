package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxRangeDays int) error {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.PatientID != nil && *req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.TherapistID != nil && *req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	start := domain.DateOnly(req.StartDate)
	end := domain.DateOnly(req.EndDate)

	if start.After(end) {
		return fmt.Errorf("%w: startDate %s is after endDate %s",
			ErrInvalidRange, start.Format(domain.DateFormat), end.Format(domain.DateFormat))
	}

	if days := domain.DaysBetween(start, end) + 1; days > maxRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds limit of %d", ErrInvalidRange, days, maxRangeDays)
	}

	return nil
}
