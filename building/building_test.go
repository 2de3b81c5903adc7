package building

import (
	"errors"
	"reflect"
	"testing"

	"buildingsim/common"
	"buildingsim/logger"

	"github.com/rs/zerolog"
)

func init() {
	logger.GetLoggerConfigured(zerolog.Disabled)
}

func mustBuilding(t *testing.T, floors, elevators, capacity int) *Building {
	t.Helper()
	b, err := New(floors, elevators, capacity)
	if err != nil {
		t.Fatalf("New(%d, %d, %d) failed: %v", floors, elevators, capacity, err)
	}
	return b
}

func mustStart(t *testing.T, b *Building) {
	t.Helper()
	if err := b.StartElevatorSystem(); err != nil {
		t.Fatalf("StartElevatorSystem failed: %v", err)
	}
}

func mustAdd(t *testing.T, b *Building, origin, destination int) {
	t.Helper()
	if err := b.AddRequest(common.NewRequest(origin, destination)); err != nil {
		t.Fatalf("AddRequest(%d, %d) failed: %v", origin, destination, err)
	}
}

func steps(b *Building, n int) {
	for i := 0; i < n; i++ {
		b.Step()
	}
}

func unitReport(b *Building, i int) common.ElevatorSnapshot {
	return b.GetElevatorSystemStatus().Elevators[i]
}

func TestNew(t *testing.T) {
	b := mustBuilding(t, 11, 8, 3)
	if b.NumberOfFloors() != 11 || b.NumberOfElevators() != 8 || b.ElevatorCapacity() != 3 {
		t.Errorf("Expected 11/8/3, got %d/%d/%d", b.NumberOfFloors(), b.NumberOfElevators(), b.ElevatorCapacity())
	}
	if b.Status() != common.StatusOutOfService {
		t.Errorf("Expected a new building to be out of service, got %s", b.Status())
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	cases := []struct {
		name                        string
		floors, elevators, capacity int
	}{
		{"floors below 3", 1, 8, 3},
		{"floors above 30", 31, 8, 3},
		{"negative floors", -1, 8, 3},
		{"capacity below 3", 11, 8, 2},
		{"capacity above 20", 11, 8, 21},
		{"negative capacity", 11, 8, -1},
		{"negative elevators", 11, -1, 3},
		{"zero elevators", 11, 0, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := New(c.floors, c.elevators, c.capacity)
			if !errors.Is(err, common.ErrInvalidArgument) {
				t.Errorf("Expected ErrInvalidArgument, got %v", err)
			}
			if b != nil {
				t.Errorf("Expected no building on error")
			}
		})
	}
}

func TestNew_Bounds(t *testing.T) {
	for _, dims := range [][3]int{{3, 1, 3}, {30, 1, 20}} {
		if _, err := New(dims[0], dims[1], dims[2]); err != nil {
			t.Errorf("Expected %v to be accepted, got %v", dims, err)
		}
	}
}

func TestNew_InvalidCarConfig(t *testing.T) {
	_, err := New(5, 1, 3, WithCarConfig(common.CarConfig{DoorOpenTicks: 0, ParkTicks: 5}))
	if !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestDefaultReport(t *testing.T) {
	b := mustBuilding(t, 11, 8, 20)
	r := b.GetElevatorSystemStatus()

	if r.NumFloors != 11 || r.NumElevators != 8 || r.ElevatorCapacity != 20 {
		t.Errorf("Expected 11/8/20, got %d/%d/%d", r.NumFloors, r.NumElevators, r.ElevatorCapacity)
	}
	if r.SystemStatus != common.StatusOutOfService {
		t.Errorf("Expected outOfService, got %s", r.SystemStatus)
	}
	if len(r.UpRequests) != 0 || len(r.DownRequests) != 0 {
		t.Errorf("Expected empty queues, got %v %v", r.UpRequests, r.DownRequests)
	}
	if len(r.Elevators) != 8 {
		t.Fatalf("Expected 8 elevator reports, got %d", len(r.Elevators))
	}
	for i, e := range r.Elevators {
		if e.ID != i || e.CurrentFloor != 0 || !e.OutOfService || !e.DoorOpen || e.MaxOccupancy != 20 {
			t.Errorf("Expected elevator %d parked out of service at ground, got %+v", i, e)
		}
	}
}

func TestReportStatus(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)

	mustStart(t, b)
	r := b.GetElevatorSystemStatus()
	if r.SystemStatus != common.StatusRunning || len(r.Elevators) != 1 {
		t.Errorf("Expected running with 1 elevator, got %s with %d", r.SystemStatus, len(r.Elevators))
	}
	if r.Elevators[0].OutOfService {
		t.Errorf("Expected elevator in service after start")
	}

	if err := b.StopElevatorSystem(); err != nil {
		t.Fatalf("StopElevatorSystem failed: %v", err)
	}
	r = b.GetElevatorSystemStatus()
	if r.SystemStatus != common.StatusStopping {
		t.Errorf("Expected stopping, got %s", r.SystemStatus)
	}
	if len(r.UpRequests) != 0 || len(r.DownRequests) != 0 {
		t.Errorf("Expected empty queues")
	}
}

func TestReportIsDetached(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)

	r := b.GetElevatorSystemStatus()
	r.UpRequests[0] = common.Request{Origin: 9, Destination: 10}
	r.Elevators[0].Stops[3] = true

	again := b.GetElevatorSystemStatus()
	if again.UpRequests[0].String() != "1->2" {
		t.Errorf("Expected queue unaffected by report mutation, got %s", again.UpRequests[0])
	}
	if again.Elevators[0].Stops[3] {
		t.Errorf("Expected elevator stops unaffected by report mutation")
	}
}

func TestAddRequest_Errors(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)

	if err := b.AddRequest(common.NewRequest(1, 2)); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState while out of service, got %v", err)
	}

	mustStart(t, b)
	if err := b.AddRequest(nil); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil, got %v", err)
	}
	for _, r := range [][2]int{{-1, 2}, {11, 2}, {1, -1}, {1, 11}, {1, 1}} {
		if err := b.AddRequest(common.NewRequest(r[0], r[1])); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("Expected ErrInvalidArgument for %v, got %v", r, err)
		}
	}
	r := b.GetElevatorSystemStatus()
	if len(r.UpRequests) != 0 || len(r.DownRequests) != 0 {
		t.Errorf("Expected rejected requests to leave the queues empty")
	}

	if err := b.StopElevatorSystem(); err != nil {
		t.Fatalf("StopElevatorSystem failed: %v", err)
	}
	if err := b.AddRequest(common.NewRequest(1, 2)); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState while stopping, got %v", err)
	}
	// nil is checked before status
	if err := b.AddRequest(nil); !errors.Is(err, common.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument for nil while stopping, got %v", err)
	}
}

func TestAddRequest_Queues(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 2, 1)
	mustAdd(t, b, 3, 7)
	mustAdd(t, b, 4, 8)
	mustAdd(t, b, 7, 2)

	r := b.GetElevatorSystemStatus()
	var up, down []string
	for _, req := range r.UpRequests {
		up = append(up, req.String())
	}
	for _, req := range r.DownRequests {
		down = append(down, req.String())
	}
	if !reflect.DeepEqual(up, []string{"1->2", "3->7", "4->8"}) {
		t.Errorf("Expected up queue [1->2 3->7 4->8], got %v", up)
	}
	if !reflect.DeepEqual(down, []string{"2->1", "7->2"}) {
		t.Errorf("Expected down queue [2->1 7->2], got %v", down)
	}
}

func TestAddRequest_CallerCopyIsIndependent(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	req := common.NewRequest(1, 2)
	if err := b.AddRequest(req); err != nil {
		t.Fatal(err)
	}
	req.Destination = 9

	for _, q := range b.GetElevatorSystemStatus().UpRequests {
		if q.Destination != 2 {
			t.Errorf("Expected queued request to keep destination 2, got %s", q)
		}
	}
}

func TestStartElevatorSystem_Errors(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	if err := b.StartElevatorSystem(); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState when already running, got %v", err)
	}
	if err := b.StopElevatorSystem(); err != nil {
		t.Fatal(err)
	}
	if err := b.StartElevatorSystem(); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState while stopping, got %v", err)
	}
	if b.Status() != common.StatusStopping {
		t.Errorf("Expected failed start to keep status stopping, got %s", b.Status())
	}
}

func TestStopElevatorSystem_Errors(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	if err := b.StopElevatorSystem(); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState while out of service, got %v", err)
	}
	mustStart(t, b)
	if err := b.StopElevatorSystem(); err != nil {
		t.Fatal(err)
	}
	if err := b.StopElevatorSystem(); !errors.Is(err, common.ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState while stopping, got %v", err)
	}
}

func TestStopElevatorSystem(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 2, 3)
	mustAdd(t, b, 2, 1)
	steps(b, 2)
	if err := b.StopElevatorSystem(); err != nil {
		t.Fatal(err)
	}
	steps(b, 2)

	r := b.GetElevatorSystemStatus()
	if r.SystemStatus != common.StatusStopping {
		t.Errorf("Expected stopping, got %s", r.SystemStatus)
	}
	if len(r.UpRequests) != 0 || len(r.DownRequests) != 0 {
		t.Errorf("Expected queues cleared on stop")
	}
	if !r.Elevators[0].OutOfService || r.Elevators[0].IsDoorClosed() {
		t.Errorf("Expected elevator out of service with door open, got %+v", r.Elevators[0])
	}
}

func TestStep_Running(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 2, 3)

	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 1 || e.Direction != common.DirUp {
		t.Errorf("step 1: Expected floor 1 going up, got floor %d %s", e.CurrentFloor, e.Direction)
	}
	for i := 2; i <= 4; i++ {
		b.Step()
		if e := unitReport(b, 0); e.CurrentFloor != 1 || e.IsDoorClosed() {
			t.Errorf("step %d: Expected door open at floor 1, got floor %d door open=%v", i, e.CurrentFloor, e.DoorOpen)
		}
	}
	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 1 || !e.IsDoorClosed() {
		t.Errorf("step 5: Expected door closed at floor 1, got %+v", e)
	}
	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 2 || e.Direction != common.DirUp {
		t.Errorf("step 6: Expected floor 2 going up, got floor %d %s", e.CurrentFloor, e.Direction)
	}
}

func TestStep_OutOfService(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 0 || !e.OutOfService {
		t.Errorf("Expected elevator out of service at ground, got %+v", e)
	}
}

func TestStep_Stopping(t *testing.T) {
	b := mustBuilding(t, 11, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 2, 3)
	steps(b, 10)
	if err := b.StopElevatorSystem(); err != nil {
		t.Fatal(err)
	}

	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 1 {
		t.Errorf("step 11: Expected floor 1, got %d", e.CurrentFloor)
	}
	b.Step()
	if e := unitReport(b, 0); e.CurrentFloor != 0 {
		t.Errorf("step 12: Expected floor 0, got %d", e.CurrentFloor)
	}
	if b.Status() != common.StatusStopping {
		t.Errorf("step 12: Expected still stopping, got %s", b.Status())
	}
	b.Step()
	e := unitReport(b, 0)
	if e.CurrentFloor != 0 || e.Direction != common.DirStop || e.IsDoorClosed() {
		t.Errorf("step 13: Expected stopped at ground with door open, got %+v", e)
	}
	if b.Status() != common.StatusOutOfService {
		t.Errorf("step 13: Expected outOfService, got %s", b.Status())
	}

	// a fresh start is allowed again
	mustStart(t, b)
}

func doorsOpen(b *Building) []bool {
	r := b.GetElevatorSystemStatus()
	out := make([]bool, len(r.Elevators))
	for i, e := range r.Elevators {
		out[i] = e.DoorOpen
	}
	return out
}

func TestAllocation_UpAndDown(t *testing.T) {
	b := mustBuilding(t, 5, 3, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 3, 4)
	mustAdd(t, b, 4, 2)
	mustAdd(t, b, 3, 1)

	steps(b, 2)
	if got := doorsOpen(b); !reflect.DeepEqual(got, []bool{true, false, false}) {
		t.Errorf("step 2: Expected doors [open shut shut], got %v", got)
	}
	steps(b, 5)
	if got := doorsOpen(b); !reflect.DeepEqual(got, []bool{true, false, false}) {
		t.Errorf("step 7: Expected doors [open shut shut], got %v", got)
	}
	steps(b, 5)
	if got := doorsOpen(b); !reflect.DeepEqual(got, []bool{true, true, false}) {
		t.Errorf("step 12: Expected doors [open open shut], got %v", got)
	}
}

func TestAllocation_MaxCapacity(t *testing.T) {
	b := mustBuilding(t, 5, 3, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)
	mustAdd(t, b, 1, 3)
	mustAdd(t, b, 2, 3)
	mustAdd(t, b, 3, 4)

	steps(b, 2)
	if got := doorsOpen(b); !got[0] || got[1] {
		t.Errorf("step 2: Expected unit 0 open and unit 1 shut, got %v", got)
	}
	steps(b, 2)
	if got := doorsOpen(b); !got[0] || !got[1] {
		t.Errorf("step 4: Expected units 0 and 1 open, got %v", got)
	}
}

func TestAllocation_OneElevatorOneRequest(t *testing.T) {
	b := mustBuilding(t, 5, 1, 3)
	mustStart(t, b)
	mustAdd(t, b, 1, 2)

	steps(b, 2)
	if unitReport(b, 0).IsDoorClosed() {
		t.Errorf("step 2: Expected door open")
	}
	steps(b, 3)
	if !unitReport(b, 0).IsDoorClosed() {
		t.Errorf("step 5: Expected door closed")
	}
}
