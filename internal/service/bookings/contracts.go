package bookings

import (
	"context"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByPatient(ctx context.Context, patientID int64) ([]*domain.Booking, error)
	GetByTherapistWithFilter(ctx context.Context, filter domain.TherapistBookingsFilter) ([]*domain.Booking, error)
}

// CatalogLookup интерфейс справочников
type CatalogLookup interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	GetTimeBlock(ctx context.Context, id int64) (*domain.TimeBlock, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
