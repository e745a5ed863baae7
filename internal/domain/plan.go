package domain

import "time"

// TreatmentPlan is an unpersisted request for a series of weekly sessions
type TreatmentPlan struct {
	PatientID     int64
	TherapistID   int64
	BlockID       int64
	StartDate     time.Time
	TotalSessions int
	UsesMachine   bool
}
