package get_availability

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInvalidRange возвращается, когда начало диапазона позже конца или диапазон слишком длинный
	ErrInvalidRange = errors.New("get_availability: invalid date range")

	// ErrNotFound общая ошибка для отсутствующих сущностей
	ErrNotFound = errors.New("get_availability: not found")

	ErrPatientNotFound   = fmt.Errorf("%w: patient", ErrNotFound)
	ErrTherapistNotFound = fmt.Errorf("%w: therapist", ErrNotFound)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
