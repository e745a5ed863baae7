package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// ResourceQuery интерфейс запросов занятости ресурсов в слоте (дата, блок)
type ResourceQuery interface {
	OccupiedSpaces(ctx context.Context, date time.Time, blockID int64) ([]int64, error)
	TherapistBookingCount(ctx context.Context, date time.Time, blockID, therapistID int64) (int, error)
	TherapistHasSpecialHandlingOccupant(ctx context.Context, date time.Time, blockID, therapistID int64) (bool, error)
	MachinesInUse(ctx context.Context, date time.Time, blockID int64) (int, error)
}

// CatalogLookup интерфейс справочников
type CatalogLookup interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	// ListTimeBlocks возвращает блоки, отсортированные по времени начала
	ListTimeBlocks(ctx context.Context) ([]*domain.TimeBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
