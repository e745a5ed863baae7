package commit_treatment_plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// UseCase use case атомарного коммита плана лечения
// Все сессии плана создаются в одной сериализуемой транзакции либо не создается ни одна
type UseCase struct {
	resources    ResourceQuery
	bookingRepo  BookingRepository
	catalog      CatalogLookup
	planner      RecurrencePlanner
	txManager    TransactionManager
	calendar     CalendarPublisher
	metrics      MetricsRecorder
	maxSessions  int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// calendar и metrics могут быть nil
func NewUseCase(
	resources ResourceQuery,
	bookingRepo BookingRepository,
	catalog CatalogLookup,
	planner RecurrencePlanner,
	txManager TransactionManager,
	calendar CalendarPublisher,
	metrics MetricsRecorder,
	maxSessions int,
	logger Logger,
) *UseCase {
	if calendar == nil {
		calendar = noopCalendar{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if maxSessions < 1 {
		maxSessions = domain.DefaultMaxPlanSessions
	}

	return &UseCase{
		resources:    resources,
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		planner:      planner,
		txManager:    txManager,
		calendar:     calendar,
		metrics:      metrics,
		maxSessions:  maxSessions,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case коммита плана лечения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.ObservePlanRejected(rejectionReason(err))
		return nil, err
	}
	uc.metrics.ObservePlanCommitted(resp.Total)
	return resp, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitTreatmentPlan: patient=%d, therapist=%d, block=%d, start=%s, sessions=%d, machine=%t",
		req.PatientID, req.TherapistID, req.BlockID, req.StartDate.Format(domain.DateFormat), req.TotalSessions, req.UsesMachine)

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.maxSessions); err != nil {
		uc.logger.Warn("CommitTreatmentPlan: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата начала не в прошлом
	if err := validateStartDate(req.StartDate, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CommitTreatmentPlan: %v", err)
		return nil, err
	}

	// 3. Справочники проверяются до любой аллокации
	patient, block, err := uc.lookup(ctx, req)
	if err != nil {
		return nil, err
	}

	// 4. Аппарат нужен, если его запросили или он нужен пациенту всегда
	plan := req.ToPlan(req.UsesMachine || patient.UsesMachine)

	// 5. Раскладываем план по датам
	dates, err := uc.planner.Expand(plan.StartDate, plan.TotalSessions)
	if err != nil {
		uc.logger.Warn("CommitTreatmentPlan: failed to expand plan: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 6. Аллоцируем все даты в одной сериализуемой транзакции
	var created []*domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		spaces, err := uc.catalog.ListSpaces(txCtx)
		if err != nil {
			return persistenceError("list spaces", err)
		}

		a := &allocation{plan: plan, patient: patient, spaces: spaces}
		bookings := make([]*domain.Booking, 0, len(dates))

		// Строго последовательно и в порядке планировщика
		for _, date := range dates {
			booking, err := uc.allocateDate(txCtx, a, date)
			if err != nil {
				return err
			}
			bookings = append(bookings, booking)
		}

		created = bookings
		return nil
	})

	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			uc.logger.Warn("CommitTreatmentPlan: plan rejected for patient=%d: %v", req.PatientID, err)
			return nil, err
		}
		uc.logger.Error("CommitTreatmentPlan: transaction failed for patient=%d: %v", req.PatientID, err)
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return nil, err
	}

	uc.logger.Info("CommitTreatmentPlan: committed %d sessions for patient=%d", len(created), req.PatientID)

	// 7. Публикация в календарь не влияет на результат коммита
	uc.publish(ctx, patient, created, block)

	return buildResponse(plan, created, block), nil
}

func (uc *UseCase) lookup(ctx context.Context, req *Request) (*domain.Patient, *domain.TimeBlock, error) {
	patient, err := uc.catalog.GetPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			uc.logger.Warn("CommitTreatmentPlan: patient id=%d not found", req.PatientID)
			return nil, nil, ErrPatientNotFound
		}
		uc.logger.Error("CommitTreatmentPlan: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, nil, persistenceError("get patient", err)
	}

	if _, err := uc.catalog.GetTherapist(ctx, req.TherapistID); err != nil {
		if errors.Is(err, domain.ErrTherapistNotFound) {
			uc.logger.Warn("CommitTreatmentPlan: therapist id=%d not found", req.TherapistID)
			return nil, nil, ErrTherapistNotFound
		}
		uc.logger.Error("CommitTreatmentPlan: failed to get therapist id=%d: %v", req.TherapistID, err)
		return nil, nil, persistenceError("get therapist", err)
	}

	block, err := uc.catalog.GetTimeBlock(ctx, req.BlockID)
	if err != nil {
		if errors.Is(err, domain.ErrTimeBlockNotFound) {
			uc.logger.Warn("CommitTreatmentPlan: time block id=%d not found", req.BlockID)
			return nil, nil, ErrTimeBlockNotFound
		}
		uc.logger.Error("CommitTreatmentPlan: failed to get time block id=%d: %v", req.BlockID, err)
		return nil, nil, persistenceError("get time block", err)
	}

	return patient, block, nil
}

func (uc *UseCase) publish(ctx context.Context, patient *domain.Patient, bookings []*domain.Booking, block *domain.TimeBlock) {
	eventIDs, err := uc.calendar.PublishSessions(ctx, patient, bookings, block)
	if err != nil {
		uc.logger.Error("CommitTreatmentPlan: failed to publish %d sessions to calendar for patient=%d: %v",
			len(bookings), patient.ID, err)
		return
	}
	if len(eventIDs) > 0 {
		uc.logger.Info("CommitTreatmentPlan: published %d calendar events for patient=%d", len(eventIDs), patient.ID)
	}
}

func buildResponse(plan domain.TreatmentPlan, bookings []*domain.Booking, block *domain.TimeBlock) *Response {
	sessions := make([]Session, 0, len(bookings))
	for _, b := range bookings {
		sessions = append(sessions, Session{
			ID:        b.ID,
			Date:      b.Date,
			BlockID:   b.BlockID,
			SpaceID:   b.SpaceID,
			MachineID: b.MachineID,
			HourStart: block.StartTime,
			HourEnd:   block.EndTime,
		})
	}

	return &Response{
		PatientID:   plan.PatientID,
		TherapistID: plan.TherapistID,
		UsesMachine: plan.UsesMachine,
		Sessions:    sessions,
		Total:       len(sessions),
	}
}
