package commit_treatment_plan

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	commitPlan "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/commit_treatment_plan"
)

// CommitTreatmentPlanRequest HTTP request model
type CommitTreatmentPlanRequest struct {
	PatientID     int64  `json:"patientId"`
	TherapistID   int64  `json:"therapistId"`
	BlockID       int64  `json:"blockId"`
	StartDate     string `json:"startDate"` // "2025-10-15"
	TotalSessions int    `json:"totalSessions"`
	UsesMachine   bool   `json:"usesMachine"`
}

// TreatmentPlanResponse HTTP response model
type TreatmentPlanResponse struct {
	PatientID   int64             `json:"patientId"`
	TherapistID int64             `json:"therapistId"`
	UsesMachine bool              `json:"usesMachine"`
	Sessions    []SessionResponse `json:"sessions"`
	Total       int               `json:"total"`
}

// SessionResponse модель созданной сессии
type SessionResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	BlockID   int64  `json:"blockId"`
	SpaceID   int64  `json:"spaceId"`
	MachineID *int64 `json:"machineId,omitempty"`
	HourStart string `json:"hourStart"`
	HourEnd   string `json:"hourEnd"`
}

// ValidationErrorResponse ответ при нарушении правила на конкретной дате
type ValidationErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Date    string `json:"date"`
	BlockID int64  `json:"blockId"`
	Rule    string `json:"rule"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CommitTreatmentPlanRequest) ToUseCaseRequest() (*commitPlan.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, err
	}

	return &commitPlan.Request{
		PatientID:     r.PatientID,
		TherapistID:   r.TherapistID,
		BlockID:       r.BlockID,
		StartDate:     startDate,
		TotalSessions: r.TotalSessions,
		UsesMachine:   r.UsesMachine,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *commitPlan.Response) *TreatmentPlanResponse {
	sessions := make([]SessionResponse, len(resp.Sessions))
	for i, s := range resp.Sessions {
		sessions[i] = SessionResponse{
			ID:        s.ID,
			Date:      s.Date.Format(domain.DateFormat),
			BlockID:   s.BlockID,
			SpaceID:   s.SpaceID,
			MachineID: s.MachineID,
			HourStart: s.HourStart.String(),
			HourEnd:   s.HourEnd.String(),
		}
	}

	return &TreatmentPlanResponse{
		PatientID:   resp.PatientID,
		TherapistID: resp.TherapistID,
		UsesMachine: resp.UsesMachine,
		Sessions:    sessions,
		Total:       resp.Total,
	}
}
