package commit_treatment_plan

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/internal/domain"
	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// Request модель запроса на коммит плана лечения
type Request struct {
	PatientID     int64     // ID пациента
	TherapistID   int64     // ID терапевта
	BlockID       int64     // ID временного блока, одинаковый для всех сессий
	StartDate     time.Time // Дата первой сессии
	TotalSessions int       // Количество сессий в плане
	UsesMachine   bool      // Нужен ли аппарат (дополняет флаг пациента)
}

// ToPlan конвертирует запрос в доменный план
func (r *Request) ToPlan(usesMachine bool) domain.TreatmentPlan {
	return domain.TreatmentPlan{
		PatientID:     r.PatientID,
		TherapistID:   r.TherapistID,
		BlockID:       r.BlockID,
		StartDate:     domain.DateOnly(r.StartDate),
		TotalSessions: r.TotalSessions,
		UsesMachine:   usesMachine,
	}
}

// Response модель ответа с созданными сессиями
type Response struct {
	PatientID   int64
	TherapistID int64
	UsesMachine bool
	Sessions    []Session
	Total       int
}

// Session модель созданной сессии
type Session struct {
	ID        int64
	Date      time.Time
	BlockID   int64
	SpaceID   int64
	MachineID *int64
	HourStart types.TimeString
	HourEnd   types.TimeString
}
