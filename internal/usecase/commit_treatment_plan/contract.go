package commit_treatment_plan

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
	FirstFreeMachine(ctx context.Context, date time.Time, blockID int64) (*int64, error)
	PatientBookedOn(ctx context.Context, patientID int64, date time.Time) (bool, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// CatalogLookup интерфейс справочников
type CatalogLookup interface {
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)
	GetTherapist(ctx context.Context, id int64) (*domain.Therapist, error)
	GetTimeBlock(ctx context.Context, id int64) (*domain.TimeBlock, error)
	// ListSpaces возвращает кабинеты по возрастанию ID
	ListSpaces(ctx context.Context) ([]*domain.Space, error)
}

// RecurrencePlanner раскладывает план по датам
type RecurrencePlanner interface {
	Expand(start time.Time, total int) ([]time.Time, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// CalendarPublisher публикует закоммиченные сессии во внешний календарь
type CalendarPublisher interface {
	PublishSessions(ctx context.Context, patient *domain.Patient, bookings []*domain.Booking, block *domain.TimeBlock) ([]string, error)
}

// MetricsRecorder учитывает результаты коммита планов
type MetricsRecorder interface {
	ObservePlanCommitted(sessions int)
	ObservePlanRejected(rule string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

type noopCalendar struct{}

func (noopCalendar) PublishSessions(context.Context, *domain.Patient, []*domain.Booking, *domain.TimeBlock) ([]string, error) {
	return nil, nil
}

type noopMetrics struct{}

func (noopMetrics) ObservePlanCommitted(int)   {}
func (noopMetrics) ObservePlanRejected(string) {}
