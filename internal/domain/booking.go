package domain

import "time"

// Booking represents one committed therapy session
type Booking struct {
	ID          int64
	PatientID   int64
	TherapistID int64
	SpaceID     int64
	BlockID     int64
	MachineID   *int64 // nil when the session needs no machine
	Date        time.Time
	CreatedAt   time.Time
}

// UsesMachine returns true if a machine is held for this session
func (b *Booking) UsesMachine() bool {
	return b.MachineID != nil
}

// TherapistBookingsFilter фильтр для получения бронирований терапевта
type TherapistBookingsFilter struct {
	TherapistID int64      // Обязательный параметр
	From        *time.Time // Начало периода включительно (опционально)
	To          *time.Time // Конец периода включительно (опционально)
}
