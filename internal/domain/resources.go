package domain

import (
	"errors"

	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

var ErrInvalidTimeBlock = errors.New("domain: time block start must be before end")

// Patient carries the flags relevant to allocation
type Patient struct {
	ID                      int64
	Name                    string
	Email                   string
	UsesMachine             bool
	RequiresSpecialHandling bool
}

// Therapist is one of the fixed pool of therapists
type Therapist struct {
	ID   int64
	Name string
}

// Space is a treatment space; hosts at most one booking per slot
type Space struct {
	ID   int64
	Name string
}

// Machine is a treatment machine; held by at most one booking per slot
type Machine struct {
	ID   int64
	Name string
}

// TimeBlock is a fixed daily interval used as the scheduling granularity
type TimeBlock struct {
	ID        int64
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Validate checks that both bounds are valid and start < end
func (b *TimeBlock) Validate() error {
	if err := b.StartTime.Validate(); err != nil {
		return err
	}
	if err := b.EndTime.Validate(); err != nil {
		return err
	}
	if !b.StartTime.IsBefore(b.EndTime) {
		return ErrInvalidTimeBlock
	}
	return nil
}

// DurationMinutes returns the length of the block
func (b *TimeBlock) DurationMinutes() int {
	return b.EndTime.Minutes() - b.StartTime.Minutes()
}
