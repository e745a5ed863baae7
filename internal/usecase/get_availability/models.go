package get_availability

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// Request модель запроса доступности на диапазон дат
type Request struct {
	StartDate   time.Time // Начало диапазона включительно
	EndDate     time.Time // Конец диапазона включительно
	PatientID   *int64    // Пациент (опционально, влияет на учет аппаратов)
	TherapistID *int64    // Терапевт (опционально, влияет на проверку занятости терапевта)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	StartDate time.Time
	EndDate   time.Time
	Slots     []Slot
	Total     int
}

// Slot модель доступного слота
type Slot struct {
	Date         time.Time
	BlockID      int64
	HourStart    types.TimeString
	HourEnd      types.TimeString
	SpacesFree   int
	MachinesFree *int // nil, если аппараты не учитывались
}
