package commit_treatment_plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("commit_treatment_plan: invalid input data")

	// ErrInvalidDate возвращается, когда дата начала плана в прошлом
	ErrInvalidDate = errors.New("commit_treatment_plan: start date is in the past")

	// ErrNotFound общая ошибка для отсутствующих сущностей, возвращается до начала аллокации
	ErrNotFound = errors.New("commit_treatment_plan: not found")

	ErrPatientNotFound   = fmt.Errorf("%w: patient", ErrNotFound)
	ErrTherapistNotFound = fmt.Errorf("%w: therapist", ErrNotFound)
	ErrTimeBlockNotFound = fmt.Errorf("%w: time block", ErrNotFound)

	// ErrValidation нарушено правило вместимости или эксклюзивности ресурса
	ErrValidation = errors.New("commit_treatment_plan: validation failed")

	// ErrPersistence ошибка хранилища, транзакция откатывается
	ErrPersistence = errors.New("commit_treatment_plan: persistence error")
)

// Правила, нарушение которых отклоняет план
var (
	ErrNoSpaceAvailable          = errors.New("no space available")
	ErrTherapistBusy             = errors.New("therapist already has a patient in this slot")
	ErrTherapistReserved         = errors.New("therapist is reserved by a special-handling patient")
	ErrTherapistCapacityExceeded = errors.New("therapist capacity exceeded")
	ErrNoMachineAvailable        = errors.New("no machine available")
	ErrPatientAlreadyBooked      = errors.New("patient already has a session on this date")
)

var ruleNames = map[error]string{
	ErrNoSpaceAvailable:          "no_space_available",
	ErrTherapistBusy:             "therapist_busy",
	ErrTherapistReserved:         "therapist_reserved",
	ErrTherapistCapacityExceeded: "therapist_capacity_exceeded",
	ErrNoMachineAvailable:        "no_machine_available",
	ErrPatientAlreadyBooked:      "patient_already_booked",
}

// ValidationError нарушение правила на конкретной дате и блоке
// errors.Is срабатывает и для ErrValidation, и для конкретного правила
type ValidationError struct {
	Err     error
	Date    time.Time
	BlockID int64
}

func newValidationError(rule error, date time.Time, blockID int64) *ValidationError {
	return &ValidationError{Err: rule, Date: date, BlockID: blockID}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v on %s block %d", ErrValidation, e.Err, e.Date.Format(domain.DateFormat), e.BlockID)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// Rule машиночитаемое имя нарушенного правила
func (e *ValidationError) Rule() string {
	if name, ok := ruleNames[e.Err]; ok {
		return name
	}
	return "unknown"
}

// rejectionReason метка для метрик по ошибке коммита
func rejectionReason(err error) string {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Rule()
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidDate):
		return "invalid_input"
	default:
		return "persistence"
	}
}
