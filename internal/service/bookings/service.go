package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings/models"
)

// Service сервис чтения закоммиченных бронирований
type Service struct {
	bookingRepo BookingRepository
	catalog     CatalogLookup
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalog CatalogLookup,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	if id <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	blocks, err := s.resolveBlocks(ctx, []*domain.Booking{booking})
	if err != nil {
		s.logger.Error("GetByID: failed to resolve time block for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - catalog error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, blocks[booking.BlockID]), nil
}

// GetPatientBookings получает все сессии пациента по дате
func (s *Service) GetPatientBookings(ctx context.Context, patientID int64) (*models.BookingListResponse, error) {
	s.logger.Info("GetPatientBookings: fetching bookings for patient=%d", patientID)

	if patientID <= 0 {
		return nil, fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if _, err := s.catalog.GetPatient(ctx, patientID); err != nil {
		if errors.Is(err, domain.ErrPatientNotFound) {
			s.logger.Warn("GetPatientBookings: patient id=%d not found", patientID)
			return nil, ErrPatientNotFound
		}
		s.logger.Error("GetPatientBookings: catalog error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetPatientBookings - catalog error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByPatient(ctx, patientID)
	if err != nil {
		s.logger.Error("GetPatientBookings: repository error for patient=%d: %v", patientID, err)
		return nil, fmt.Errorf("%w: GetPatientBookings - repository error: %v", ErrInternal, err)
	}

	return s.buildList(ctx, "GetPatientBookings", bookings)
}

// GetTherapistBookings получает сессии терапевта, опционально за период
func (s *Service) GetTherapistBookings(ctx context.Context, req *models.GetTherapistBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetTherapistBookings: fetching bookings for therapist=%d", req.TherapistID)
	if req.From != nil {
		logMsg += fmt.Sprintf(", from=%s", req.From.Format(domain.DateFormat))
	}
	if req.To != nil {
		logMsg += fmt.Sprintf(", to=%s", req.To.Format(domain.DateFormat))
	}
	s.logger.Info(logMsg)

	if req.TherapistID <= 0 {
		return nil, fmt.Errorf("%w: therapistID must be positive", ErrInvalidInput)
	}

	if req.From != nil && req.To != nil && domain.DateOnly(*req.From).After(domain.DateOnly(*req.To)) {
		s.logger.Warn("GetTherapistBookings: from is after to for therapist=%d", req.TherapistID)
		return nil, ErrInvalidTimeRange
	}

	if _, err := s.catalog.GetTherapist(ctx, req.TherapistID); err != nil {
		if errors.Is(err, domain.ErrTherapistNotFound) {
			s.logger.Warn("GetTherapistBookings: therapist id=%d not found", req.TherapistID)
			return nil, ErrTherapistNotFound
		}
		s.logger.Error("GetTherapistBookings: catalog error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetTherapistBookings - catalog error: %v", ErrInternal, err)
	}

	bookings, err := s.bookingRepo.GetByTherapistWithFilter(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("GetTherapistBookings: repository error for therapist=%d: %v", req.TherapistID, err)
		return nil, fmt.Errorf("%w: GetTherapistBookings - repository error: %v", ErrInternal, err)
	}

	return s.buildList(ctx, "GetTherapistBookings", bookings)
}

func (s *Service) buildList(ctx context.Context, op string, bookings []*domain.Booking) (*models.BookingListResponse, error) {
	blocks, err := s.resolveBlocks(ctx, bookings)
	if err != nil {
		s.logger.Error("%s: failed to resolve time blocks: %v", op, err)
		return nil, fmt.Errorf("%w: %s - catalog error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: successfully fetched %d bookings", op, len(bookings))
	return models.FromDomainBookingList(bookings, blocks), nil
}

// resolveBlocks загружает блоки, на которые ссылаются бронирования
// Удаленный из справочника блок не считается ошибкой, часы просто не заполняются
func (s *Service) resolveBlocks(ctx context.Context, bookings []*domain.Booking) (map[int64]*domain.TimeBlock, error) {
	blocks := make(map[int64]*domain.TimeBlock)
	for _, b := range bookings {
		if _, ok := blocks[b.BlockID]; ok {
			continue
		}
		block, err := s.catalog.GetTimeBlock(ctx, b.BlockID)
		if err != nil {
			if errors.Is(err, domain.ErrTimeBlockNotFound) {
				blocks[b.BlockID] = nil
				continue
			}
			return nil, err
		}
		blocks[b.BlockID] = block
	}
	return blocks, nil
}
