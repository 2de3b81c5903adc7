package building

import (
	"buildingsim/common"
)

// GetElevatorSystemStatus returns a fresh report. Nothing in it aliases the
// building's queues or the units' state.
func (b *Building) GetElevatorSystemStatus() common.BuildingReport {
	elevators := make([]common.ElevatorSnapshot, len(b.units))
	for i, u := range b.units {
		elevators[i] = common.CopySnapshot(u.Snapshot())
	}
	return common.BuildingReport{
		NumFloors:        b.config.NumFloors,
		NumElevators:     b.config.NumElevators,
		ElevatorCapacity: b.config.ElevatorCapacity,
		SystemStatus:     b.status,
		UpRequests:       b.up.Items(),
		DownRequests:     b.down.Items(),
		Elevators:        elevators,
	}
}
