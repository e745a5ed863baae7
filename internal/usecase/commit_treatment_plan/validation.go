package commit_treatment_plan

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, maxSessions int) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.TherapistID <= 0 {
		return fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.BlockID <= 0 {
		return fmt.Errorf("%w: blockID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.TotalSessions < 1 || req.TotalSessions > maxSessions {
		return fmt.Errorf("%w: totalSessions must be in 1..%d, got %d", ErrInvalidInput, maxSessions, req.TotalSessions)
	}

	return nil
}

// validateStartDate проверяет, что план не начинается в прошлом
func validateStartDate(start, now time.Time) error {
	if domain.DateOnly(start).Before(domain.DateOnly(now)) {
		return fmt.Errorf("%w: %s", ErrInvalidDate, start.Format(domain.DateFormat))
	}
	return nil
}
