package models

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
)

// Request модели

// GetTherapistBookingsRequest запрос на получение бронирований терапевта
type GetTherapistBookingsRequest struct {
	TherapistID int64      `json:"therapistId"`
	From        *time.Time `json:"from,omitempty"` // Начало периода (опционально)
	To          *time.Time `json:"to,omitempty"`   // Конец периода (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTherapistBookingsRequest) ToDomainFilter() domain.TherapistBookingsFilter {
	return domain.TherapistBookingsFilter{
		TherapistID: r.TherapistID,
		From:        r.From,
		To:          r.To,
	}
}

// Response модели

// BookingResponse ответ с данными сессии
type BookingResponse struct {
	ID          int64     `json:"id"`
	PatientID   int64     `json:"patientId"`
	TherapistID int64     `json:"therapistId"`
	SpaceID     int64     `json:"spaceId"`
	BlockID     int64     `json:"blockId"`
	MachineID   *int64    `json:"machineId,omitempty"`
	Date        string    `json:"date"`                // "2025-10-15"
	HourStart   string    `json:"hourStart,omitempty"` // "09:00"
	HourEnd     string    `json:"hourEnd,omitempty"`   // "09:40"
	CreatedAt   time.Time `json:"createdAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// block может быть nil, тогда часы не заполняются
func FromDomainBooking(b *domain.Booking, block *domain.TimeBlock) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID,
		PatientID:   b.PatientID,
		TherapistID: b.TherapistID,
		SpaceID:     b.SpaceID,
		BlockID:     b.BlockID,
		MachineID:   b.MachineID,
		Date:        b.Date.Format(domain.DateFormat),
		CreatedAt:   b.CreatedAt,
	}

	if block != nil {
		resp.HourStart = block.StartTime.String()
		resp.HourEnd = block.EndTime.String()
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
// blocks - справочник блоков по ID
func FromDomainBookingList(bookings []*domain.Booking, blocks map[int64]*domain.TimeBlock) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b, blocks[b.BlockID]))
	}
	resp.Total = len(resp.Bookings)

	return resp
}
