package get_therapist_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
)

const (
	msgInvalidTherapistID = "некорректный ID терапевта"
	msgInvalidParams      = "некорректные параметры запроса, даты ожидаются в формате YYYY-MM-DD"
	msgInvalidTimeRange   = "дата начала периода позже даты окончания"
	msgTherapistNotFound  = "терапевт не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/therapists/{therapistId}/bookings
// Query params: from, to (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapistIDStr := vars["therapistId"]

	therapistID, err := strconv.ParseInt(therapistIDStr, 10, 64)
	if err != nil || therapistID <= 0 {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid therapist ID: %q", therapistIDStr)
		handlers.RespondBadRequest(w, msgInvalidTherapistID)
		return
	}

	serviceReq, err := ToServiceRequest(therapistID, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /therapists/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetTherapistBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidTimeRange):
			h.logger.Warn("GET /therapists/{id}/bookings - Invalid time range: therapist_id=%d", therapistID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, bookings.ErrTherapistNotFound):
			h.logger.Warn("GET /therapists/{id}/bookings - Therapist not found: therapist_id=%d", therapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("GET /therapists/{id}/bookings - Failed to get bookings: therapist_id=%d, error=%v",
				therapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /therapists/{id}/bookings - Bookings retrieved successfully: therapist_id=%d, count=%d",
		therapistID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
