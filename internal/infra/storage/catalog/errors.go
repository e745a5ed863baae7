package catalog

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

var (
	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = fmt.Errorf("catalog.repository: %w", domain.ErrPatientNotFound)

	// ErrTherapistNotFound возвращается, когда терапевт не найден
	ErrTherapistNotFound = fmt.Errorf("catalog.repository: %w", domain.ErrTherapistNotFound)

	// ErrTimeBlockNotFound возвращается, когда временной блок не найден
	ErrTimeBlockNotFound = fmt.Errorf("catalog.repository: %w", domain.ErrTimeBlockNotFound)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
