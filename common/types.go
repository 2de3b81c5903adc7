package common

import (
	"fmt"
	"strings"
)

// Direction of travel as reported by a car.
type Direction int

const (
	DirDown Direction = -1
	DirStop Direction = 0
	DirUp   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirStop:
		return "stop"
	default:
		return "undefined"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "up":
		*d = DirUp
	case "down":
		*d = DirDown
	case "stop":
		*d = DirStop
	default:
		return fmt.Errorf("unknown direction %q", string(text))
	}
	return nil
}

// SystemStatus is the building-wide lifecycle state.
type SystemStatus int

const (
	StatusOutOfService SystemStatus = iota
	StatusRunning
	StatusStopping
)

func (s SystemStatus) String() string {
	switch s {
	case StatusOutOfService:
		return "outOfService"
	case StatusRunning:
		return "running"
	case StatusStopping:
		return "stopping"
	default:
		return "undefined"
	}
}

func (s SystemStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SystemStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "outOfService":
		*s = StatusOutOfService
	case "running":
		*s = StatusRunning
	case "stopping":
		*s = StatusStopping
	default:
		return fmt.Errorf("unknown system status %q", string(text))
	}
	return nil
}

// Request is a rider's trip from Origin to Destination.
// It is passed and stored by value, so a queued Request never changes.
type Request struct {
	Origin      int `json:"origin"`
	Destination int `json:"destination"`
}

func NewRequest(origin, destination int) *Request {
	return &Request{Origin: origin, Destination: destination}
}

func (r Request) Direction() Direction {
	if r.Destination > r.Origin {
		return DirUp
	}
	return DirDown
}

func (r Request) String() string {
	return fmt.Sprintf("%d->%d", r.Origin, r.Destination)
}

// ElevatorSnapshot is the read-only report a car produces on demand.
type ElevatorSnapshot struct {
	ID             int       `json:"id"`
	CurrentFloor   int       `json:"currentFloor"`
	Direction      Direction `json:"direction"`
	DoorOpen       bool      `json:"doorOpen"`
	OutOfService   bool      `json:"outOfService"`
	TakingRequests bool      `json:"takingRequests"`
	MaxOccupancy   int       `json:"maxOccupancy"`
	Stops          []bool    `json:"stops"`
}

func (s ElevatorSnapshot) IsDoorClosed() bool {
	return !s.DoorOpen
}

// ElevatorUnit is everything the dispatcher needs from a car.
type ElevatorUnit interface {
	Begin()
	TakeOutOfService()
	IsAcceptingRequests() bool
	CurrentFloor() int
	MaxOccupancy() int
	AssignBatch(requests []Request)
	Tick()
	Snapshot() ElevatorSnapshot
}
