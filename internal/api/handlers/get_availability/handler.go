package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_availability"
)

const (
	msgMissingDates      = "параметры startDate и endDate обязательны"
	msgInvalidParams     = "некорректные параметры запроса, даты ожидаются в формате YYYY-MM-DD"
	msgInvalidRange      = "некорректный диапазон дат"
	msgPatientNotFound   = "пациент не найден"
	msgTherapistNotFound = "терапевт не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
// Query params: startDate, endDate (required, YYYY-MM-DD), patientId, therapistId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDateStr := query.Get("startDate")
	endDateStr := query.Get("endDate")

	if startDateStr == "" || endDateStr == "" {
		h.logger.Warn("GET /availability - Missing dates")
		handlers.RespondBadRequest(w, msgMissingDates)
		return
	}

	useCaseReq, err := ToUseCaseRequest(startDateStr, endDateStr, query.Get("patientId"), query.Get("therapistId"))
	if err != nil {
		h.logger.Warn("GET /availability - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidRange):
			h.logger.Warn("GET /availability - Invalid range: start=%s, end=%s", startDateStr, endDateStr)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, getAvailability.ErrPatientNotFound):
			h.logger.Warn("GET /availability - Patient not found: patient_id=%s", query.Get("patientId"))
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, getAvailability.ErrTherapistNotFound):
			h.logger.Warn("GET /availability - Therapist not found: therapist_id=%s", query.Get("therapistId"))
			handlers.RespondNotFound(w, msgTherapistNotFound)

		default:
			h.logger.Error("GET /availability - Failed to compute availability: start=%s, end=%s, error=%v",
				startDateStr, endDateStr, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /availability - Availability computed: start=%s, end=%s, slots_count=%d",
		startDateStr, endDateStr, result.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
