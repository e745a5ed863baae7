package get_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-TherapyBookingService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Slots     []AvailableSlot `json:"slots"`
	Total     int             `json:"total"`
}

// AvailableSlot модель доступного слота
type AvailableSlot struct {
	Date         string `json:"date"`
	BlockID      int64  `json:"blockId"`
	HourStart    string `json:"hourStart"`
	HourEnd      string `json:"hourEnd"`
	SpacesFree   int    `json:"spacesFree"`
	MachinesFree *int   `json:"machinesFree,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			Date:         slot.Date.Format(domain.DateFormat),
			BlockID:      slot.BlockID,
			HourStart:    slot.HourStart.String(),
			HourEnd:      slot.HourEnd.String(),
			SpacesFree:   slot.SpacesFree,
			MachinesFree: slot.MachinesFree,
		}
	}

	return &AvailabilityResponse{
		StartDate: resp.StartDate.Format(domain.DateFormat),
		EndDate:   resp.EndDate.Format(domain.DateFormat),
		Slots:     slots,
		Total:     resp.Total,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(startDateStr, endDateStr, patientIDStr, therapistIDStr string) (*getAvailability.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}

	endDate, err := time.Parse(domain.DateFormat, endDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate: %w", err)
	}

	req := &getAvailability.Request{
		StartDate: startDate,
		EndDate:   endDate,
	}

	if patientIDStr != "" {
		patientID, err := strconv.ParseInt(patientIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid patientId: %w", err)
		}
		req.PatientID = &patientID
	}

	if therapistIDStr != "" {
		therapistID, err := strconv.ParseInt(therapistIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid therapistId: %w", err)
		}
		req.TherapistID = &therapistID
	}

	return req, nil
}
