package domain

import (
	"time"

	"github.com/m04kA/SMC-TherapyBookingService/pkg/types"
)

// AvailableSlot represents a (date, block) pair with free capacity
type AvailableSlot struct {
	Date         time.Time
	BlockID      int64
	HourStart    types.TimeString
	HourEnd      types.TimeString
	SpacesFree   int
	MachinesFree *int // nil when machines were not considered
}

// OccupancyRate returns the space occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	occupied := SpaceCapacity - s.SpacesFree
	return float64(occupied) / float64(SpaceCapacity) * 100
}
