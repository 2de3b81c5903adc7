package elevfsm

import (
	"strings"
	"testing"

	"buildingsim/common"
	"buildingsim/logger"

	"github.com/rs/zerolog"
)

func init() {
	logger.GetLoggerConfigured(zerolog.Disabled)
}

func newRunningCar(t *testing.T, floors int) *Car {
	t.Helper()
	car := NewCar(0, floors, 3, common.DefaultCarConfig())
	car.Begin()
	if !car.IsAcceptingRequests() {
		t.Fatalf("Expected a started car at ground to accept requests")
	}
	return car
}

type expectedTick struct {
	floor    int
	dirn     common.Direction
	doorOpen bool
}

func checkTicks(t *testing.T, car *Car, steps []expectedTick) {
	t.Helper()
	for i, want := range steps {
		car.Tick()
		snap := car.Snapshot()
		if snap.CurrentFloor != want.floor || snap.Direction != want.dirn || snap.DoorOpen != want.doorOpen {
			t.Fatalf("tick %d: Expected floor=%d dirn=%s door=%v, got floor=%d dirn=%s door=%v",
				i+1, want.floor, want.dirn, want.doorOpen, snap.CurrentFloor, snap.Direction, snap.DoorOpen)
		}
	}
}

func TestNewCarIsParkedOutOfService(t *testing.T) {
	car := NewCar(4, 5, 3, common.DefaultCarConfig())
	snap := car.Snapshot()

	if snap.ID != 4 || snap.CurrentFloor != 0 {
		t.Errorf("Expected car 4 at floor 0, got car %d at floor %d", snap.ID, snap.CurrentFloor)
	}
	if !snap.OutOfService || !snap.DoorOpen || snap.TakingRequests {
		t.Errorf("Expected out of service with door open, got %+v", snap)
	}
	if len(snap.Stops) != 5 {
		t.Errorf("Expected 5 stop slots, got %d", len(snap.Stops))
	}

	// ticking an idle recalled car at ground changes nothing
	car.Tick()
	if !car.Snapshot().DoorOpen || car.CurrentFloor() != 0 {
		t.Errorf("Expected door held open at ground, got %+v", car.Snapshot())
	}
}

func TestSingleTripTimeline(t *testing.T) {
	car := newRunningCar(t, 5)
	car.AssignBatch([]common.Request{{Origin: 1, Destination: 2}})

	if car.IsAcceptingRequests() {
		t.Errorf("Expected car with a batch to stop accepting requests")
	}

	checkTicks(t, car, []expectedTick{
		{1, common.DirUp, false},
		{1, common.DirUp, true},
		{1, common.DirUp, true},
		{1, common.DirUp, true},
		{1, common.DirUp, false},
		{2, common.DirUp, false},
		{2, common.DirUp, true},
		{2, common.DirUp, true},
		{2, common.DirUp, true},
		// nothing left, sweep on to the top
		{2, common.DirUp, false},
		{3, common.DirUp, false},
		{4, common.DirStop, false},
	})

	if !car.IsAcceptingRequests() {
		t.Errorf("Expected car parked at the top to accept requests")
	}
}

func TestParkedCarSweepsAfterTimeout(t *testing.T) {
	car := newRunningCar(t, 4)

	for i := 1; i < common.DefaultCarConfig().ParkTicks; i++ {
		car.Tick()
		if !car.IsAcceptingRequests() || car.Behaviour() != CB_Idle {
			t.Fatalf("tick %d: Expected car to stay parked, got %s", i, car.Behaviour())
		}
	}

	car.Tick()
	if car.IsAcceptingRequests() || car.Behaviour() != CB_Moving || car.CurrentFloor() != 0 {
		t.Fatalf("Expected car to leave ground on the park timeout, got %+v", car.Snapshot())
	}

	checkTicks(t, car, []expectedTick{
		{1, common.DirUp, false},
		{2, common.DirUp, false},
		{3, common.DirStop, false},
	})
	if !car.IsAcceptingRequests() {
		t.Errorf("Expected car to park at the top")
	}
}

func TestDownBatchFromTop(t *testing.T) {
	car := newRunningCar(t, 3)
	for car.CurrentFloor() != 2 || !car.IsAcceptingRequests() {
		car.Tick()
	}
	car.AssignBatch([]common.Request{{Origin: 1, Destination: 0}})

	checkTicks(t, car, []expectedTick{
		{1, common.DirDown, false},
		{1, common.DirDown, true},
		{1, common.DirDown, true},
		{1, common.DirDown, true},
		{1, common.DirDown, false},
		{0, common.DirDown, false},
		{0, common.DirDown, true},
	})
}

func TestRecallWhileMoving(t *testing.T) {
	car := newRunningCar(t, 6)
	car.AssignBatch([]common.Request{{Origin: 4, Destination: 5}})
	checkTicks(t, car, []expectedTick{
		{1, common.DirUp, false},
		{2, common.DirUp, false},
	})

	car.TakeOutOfService()
	snap := car.Snapshot()
	if !snap.OutOfService || snap.TakingRequests {
		t.Errorf("Expected recalled car to be out of service, got %+v", snap)
	}
	for f, s := range snap.Stops {
		if s {
			t.Errorf("Expected stop at floor %d to be cleared", f)
		}
	}

	checkTicks(t, car, []expectedTick{
		{1, common.DirDown, false},
		{0, common.DirDown, false},
		{0, common.DirStop, true},
		{0, common.DirStop, true},
	})
}

func TestRecallFinishesDoorCycle(t *testing.T) {
	car := newRunningCar(t, 5)
	car.AssignBatch([]common.Request{{Origin: 1, Destination: 3}})
	checkTicks(t, car, []expectedTick{
		{1, common.DirUp, false},
		{1, common.DirUp, true},
	})

	car.TakeOutOfService()
	checkTicks(t, car, []expectedTick{
		{1, common.DirUp, true},
		{1, common.DirUp, true},
		{1, common.DirUp, false},
		{0, common.DirDown, false},
		{0, common.DirStop, true},
	})
}

func TestBeginAwayFromGroundReturnsDown(t *testing.T) {
	car := newRunningCar(t, 5)
	car.AssignBatch([]common.Request{{Origin: 0, Destination: 3}})
	for car.CurrentFloor() != 3 {
		car.Tick()
	}
	car.TakeOutOfService()
	car.Begin()

	if car.IsAcceptingRequests() {
		t.Errorf("Expected car away from ground not to accept requests")
	}
	checkTicks(t, car, []expectedTick{
		{2, common.DirDown, false},
		{1, common.DirDown, false},
		{0, common.DirStop, false},
	})
	if !car.IsAcceptingRequests() {
		t.Errorf("Expected car back at ground to accept requests")
	}
}

func TestAssignBatchIgnoredWhenOutOfService(t *testing.T) {
	car := NewCar(0, 5, 3, common.DefaultCarConfig())
	car.AssignBatch([]common.Request{{Origin: 1, Destination: 2}})

	for f, s := range car.Snapshot().Stops {
		if s {
			t.Errorf("Expected no stop at floor %d", f)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	car := newRunningCar(t, 5)
	car.AssignBatch([]common.Request{{Origin: 2, Destination: 4}})

	snap := car.Snapshot()
	snap.Stops[2] = false
	if !car.Snapshot().Stops[2] {
		t.Errorf("Expected snapshot mutation not to reach the car")
	}
	if snap.MaxOccupancy != 3 {
		t.Errorf("Expected max occupancy 3, got %d", snap.MaxOccupancy)
	}
}

func TestCarStringShowsStops(t *testing.T) {
	car := newRunningCar(t, 4)
	car.AssignBatch([]common.Request{{Origin: 2, Destination: 3}})

	out := car.String()
	if !strings.Contains(out, "|car   = 0 ") || !strings.Contains(out, "| 2|  #") || !strings.Contains(out, "| 1|  -") {
		t.Errorf("Unexpected car dump:\n%s", out)
	}
}
