package commit_treatment_plan

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TherapyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	commitPlan "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/commit_treatment_plan"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/txmanager"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты начала, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные параметры плана лечения"
	msgStartDateInPast    = "дата начала плана в прошлом"
	msgPatientNotFound    = "пациент не найден"
	msgTherapistNotFound  = "терапевт не найден"
	msgTimeBlockNotFound  = "временной блок не найден"
	msgConcurrentConflict = "слот был занят параллельным запросом, повторите попытку"
)

// Сообщения по нарушенному правилу
var ruleMessages = map[error]string{
	commitPlan.ErrNoSpaceAvailable:          "нет свободного кабинета",
	commitPlan.ErrTherapistBusy:             "у терапевта уже есть пациент в этом слоте",
	commitPlan.ErrTherapistReserved:         "терапевт занят пациентом с особым режимом",
	commitPlan.ErrTherapistCapacityExceeded: "превышена вместимость терапевта",
	commitPlan.ErrNoMachineAvailable:        "нет свободного аппарата",
	commitPlan.ErrPatientAlreadyBooked:      "у пациента уже есть сессия в эту дату",
}

type Handler struct {
	useCase CommitTreatmentPlanUseCase
	logger  Logger
}

func NewHandler(useCase CommitTreatmentPlanUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/treatment-plans
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CommitTreatmentPlanRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /treatment-plans - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /treatment-plans - Failed to parse start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var vErr *commitPlan.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.logger.Warn("POST /treatment-plans - Plan rejected: patient_id=%d, date=%s, block_id=%d, rule=%s",
				req.PatientID, vErr.Date.Format(domain.DateFormat), vErr.BlockID, vErr.Rule())
			h.respondValidation(w, vErr)

		case errors.Is(err, commitPlan.ErrInvalidDate):
			h.logger.Warn("POST /treatment-plans - Start date in past: patient_id=%d, start=%s", req.PatientID, req.StartDate)
			handlers.RespondBadRequest(w, msgStartDateInPast)

		case errors.Is(err, commitPlan.ErrInvalidInput):
			h.logger.Warn("POST /treatment-plans - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, commitPlan.ErrPatientNotFound):
			h.logger.Warn("POST /treatment-plans - Patient not found: patient_id=%d", req.PatientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, commitPlan.ErrTherapistNotFound):
			h.logger.Warn("POST /treatment-plans - Therapist not found: therapist_id=%d", req.TherapistID)
			handlers.RespondNotFound(w, msgTherapistNotFound)

		case errors.Is(err, commitPlan.ErrTimeBlockNotFound):
			h.logger.Warn("POST /treatment-plans - Time block not found: block_id=%d", req.BlockID)
			handlers.RespondNotFound(w, msgTimeBlockNotFound)

		case errors.Is(err, txmanager.ErrSerializationFailure), errors.Is(err, domain.ErrSlotConflict):
			h.logger.Warn("POST /treatment-plans - Concurrent commit conflict: patient_id=%d, block_id=%d: %v",
				req.PatientID, req.BlockID, err)
			handlers.RespondConflict(w, msgConcurrentConflict)

		default:
			h.logger.Error("POST /treatment-plans - Failed to commit plan: patient_id=%d, therapist_id=%d, error=%v",
				req.PatientID, req.TherapistID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /treatment-plans - Plan committed: patient_id=%d, therapist_id=%d, sessions=%d",
		result.PatientID, result.TherapistID, result.Total)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondValidation(w http.ResponseWriter, vErr *commitPlan.ValidationError) {
	message, ok := ruleMessages[vErr.Err]
	if !ok {
		message = vErr.Err.Error()
	}

	handlers.RespondJSON(w, http.StatusConflict, ValidationErrorResponse{
		Code:    http.StatusConflict,
		Message: message,
		Date:    vErr.Date.Format(domain.DateFormat),
		BlockID: vErr.BlockID,
		Rule:    vErr.Rule(),
	})
}
