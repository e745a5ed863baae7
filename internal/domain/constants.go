package domain

// Resource capacity constants
const (
	SpaceCapacity   = 9 // treatment spaces per slot
	MachineCapacity = 3 // machines per slot

	// TherapistCapacity bookings per therapist per slot when no special-handling patient is present
	TherapistCapacity = 2
	// SpecialHandlingCapacity bookings per therapist per slot when the occupant requires special handling
	SpecialHandlingCapacity = 1
)

// Availability constants
const (
	// DefaultMaxRangeDays длина диапазона доступности по умолчанию, включая обе границы
	DefaultMaxRangeDays = 366
)

// Recurrence constants
const (
	MaxSessionsPerWeek     = 3
	DefaultMaxPlanSessions = 50
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
