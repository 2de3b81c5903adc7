package elevfsm

import (
	"buildingsim/common"
)

// Behaviour reports what the car is doing right now.
func (c *Car) Behaviour() CarBehaviour {
	return c.behaviour
}

// Snapshot returns a copy of the car's state for reporting.
func (c *Car) Snapshot() common.ElevatorSnapshot {
	stops := make([]bool, len(c.stops))
	copy(stops, c.stops)
	return common.ElevatorSnapshot{
		ID:             c.id,
		CurrentFloor:   c.floor,
		Direction:      c.dirn,
		DoorOpen:       c.behaviour == CB_DoorOpen,
		OutOfService:   c.outOfService,
		TakingRequests: c.IsAcceptingRequests(),
		MaxOccupancy:   c.capacity,
		Stops:          stops,
	}
}

var _ common.ElevatorUnit = (*Car)(nil)
