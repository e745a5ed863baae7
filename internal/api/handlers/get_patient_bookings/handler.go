package get_patient_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/service/bookings"
)

const (
	msgInvalidPatientID = "некорректный ID пациента"
	msgPatientNotFound  = "пациент не найден"
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

// Handle GET /api/v1/patients/{patientId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	patientIDStr := vars["patientId"]

	patientID, err := strconv.ParseInt(patientIDStr, 10, 64)
	if err != nil || patientID <= 0 {
		h.logger.Warn("GET /patients/{patientId}/bookings - Invalid patient ID: %q", patientIDStr)
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	result, err := h.service.GetPatientBookings(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrPatientNotFound):
			h.logger.Warn("GET /patients/{patientId}/bookings - Patient not found: patient_id=%d", patientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		default:
			h.logger.Error("GET /patients/{patientId}/bookings - Failed to get bookings: patient_id=%d, error=%v",
				patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /patients/{patientId}/bookings - Bookings retrieved successfully: patient_id=%d, count=%d",
		patientID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
