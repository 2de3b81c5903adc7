// Package elevtest provides a scriptable stand-in for common.ElevatorUnit.
package elevtest

import (
	"fmt"
	"sync"

	"buildingsim/common"
)

// Journal records calls made on a group of units in the order they happened.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) record(format string, args ...any) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the recorded calls, e.g. "0:tick" or "2:assign[1->2]".
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// FakeUnit does exactly what its fields say. Tests set Floor and Accepting
// directly to put it where they want it.
type FakeUnit struct {
	ID        int
	Floor     int
	Accepting bool
	Capacity  int
	DoorOpen  bool
	Recalled  bool

	Batches   [][]common.Request
	Ticks     int
	Begins    int
	Recalls   int
	OnTick    func(u *FakeUnit)
	journal   *Journal
	numFloors int
}

func NewFakeUnit(id, numFloors, capacity int, journal *Journal) *FakeUnit {
	return &FakeUnit{
		ID:        id,
		Capacity:  capacity,
		Recalled:  true,
		DoorOpen:  true,
		journal:   journal,
		numFloors: numFloors,
	}
}

// Factory returns a unit constructor that shares one journal, suitable for
// building.WithUnitFactory. Created units are appended to *units.
func Factory(journal *Journal, units *[]*FakeUnit) func(id, numFloors, capacity int) common.ElevatorUnit {
	return func(id, numFloors, capacity int) common.ElevatorUnit {
		u := NewFakeUnit(id, numFloors, capacity, journal)
		if units != nil {
			*units = append(*units, u)
		}
		return u
	}
}

func (u *FakeUnit) Begin() {
	u.Begins++
	u.Recalled = false
	u.DoorOpen = false
	u.Accepting = u.Floor == 0
	u.journal.record("%d:begin", u.ID)
}

func (u *FakeUnit) TakeOutOfService() {
	u.Recalls++
	u.Recalled = true
	u.Accepting = false
	u.journal.record("%d:recall", u.ID)
}

func (u *FakeUnit) IsAcceptingRequests() bool { return u.Accepting }

func (u *FakeUnit) CurrentFloor() int { return u.Floor }

func (u *FakeUnit) MaxOccupancy() int { return u.Capacity }

func (u *FakeUnit) AssignBatch(requests []common.Request) {
	batch := make([]common.Request, len(requests))
	copy(batch, requests)
	u.Batches = append(u.Batches, batch)
	u.Accepting = false
	u.journal.record("%d:assign%v", u.ID, batch)
}

func (u *FakeUnit) Tick() {
	u.Ticks++
	u.journal.record("%d:tick", u.ID)
	if u.OnTick != nil {
		u.OnTick(u)
	}
}

func (u *FakeUnit) Snapshot() common.ElevatorSnapshot {
	return common.ElevatorSnapshot{
		ID:             u.ID,
		CurrentFloor:   u.Floor,
		DoorOpen:       u.DoorOpen,
		OutOfService:   u.Recalled,
		TakingRequests: u.Accepting,
		MaxOccupancy:   u.Capacity,
		Stops:          make([]bool, u.numFloors),
	}
}

var _ common.ElevatorUnit = (*FakeUnit)(nil)
