package elevassigner

import (
	"buildingsim/common"
	"buildingsim/logger"
)

var Log = logger.GetLogger()

// Assignment is one batch handed to one unit during a dispatch round.
type Assignment struct {
	Unit      int
	Direction common.Direction
	Batch     []common.Request
}

// AssignRequests runs one dispatch round. Units are visited in index order;
// an accepting unit at ground takes a prefix of the up queue, one at the top
// floor takes a prefix of the down queue. A unit gets at most one batch.
func AssignRequests(units []common.ElevatorUnit, up, down *common.RequestQueue, capacity, numFloors int) []Assignment {
	var assignments []Assignment
	if up.Empty() && down.Empty() {
		return nil
	}
	topFloor := numFloors - 1

	for i, unit := range units {
		if up.Empty() && down.Empty() {
			break
		}
		if !unit.IsAcceptingRequests() {
			continue
		}

		limit := min(unit.MaxOccupancy(), capacity)
		floor := unit.CurrentFloor()

		var queue *common.RequestQueue
		var dirn common.Direction
		switch {
		case floor == 0 && !up.Empty():
			queue, dirn = up, common.DirUp
		case floor == topFloor && !down.Empty():
			queue, dirn = down, common.DirDown
		default:
			continue
		}

		batch := queue.TakePrefix(limit)
		if len(batch) == 0 {
			continue
		}
		unit.AssignBatch(batch)
		Log.Debug().Msgf("dispatch: unit %d at floor %d takes %d %s request(s) %v", i, floor, len(batch), dirn, batch)
		assignments = append(assignments, Assignment{Unit: i, Direction: dirn, Batch: batch})
	}
	return assignments
}
