package domain

import "errors"

// Storage-level lookup errors shared by all store adapters
var (
	ErrPatientNotFound   = errors.New("patient not found")
	ErrTherapistNotFound = errors.New("therapist not found")
	ErrTimeBlockNotFound = errors.New("time block not found")
	ErrBookingNotFound   = errors.New("booking not found")

	// ErrSlotConflict a write would break space, machine or patient-per-day exclusivity
	ErrSlotConflict = errors.New("booking conflicts with an existing booking")
)
