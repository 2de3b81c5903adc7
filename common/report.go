package common

import (
	"fmt"
	"strings"
)

// BuildingReport is a point-in-time view of the whole building.
type BuildingReport struct {
	NumFloors        int                `json:"numFloors"`
	NumElevators     int                `json:"numElevators"`
	ElevatorCapacity int                `json:"elevatorCapacity"`
	SystemStatus     SystemStatus       `json:"systemStatus"`
	UpRequests       []Request          `json:"upRequests"`
	DownRequests     []Request          `json:"downRequests"`
	Elevators        []ElevatorSnapshot `json:"elevators"`
}

func requestsToString(requests []Request) string {
	parts := make([]string, len(requests))
	for i, r := range requests {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}

func stopsToString(stops []bool) string {
	var floors []string
	for f, set := range stops {
		if set {
			floors = append(floors, fmt.Sprintf("%d", f))
		}
	}
	if len(floors) == 0 {
		return "-"
	}
	return strings.Join(floors, " ")
}

func (r BuildingReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Building: %d floors, %d elevators, capacity %d\n",
		r.NumFloors, r.NumElevators, r.ElevatorCapacity)
	fmt.Fprintf(&sb, "Status: %s\n", r.SystemStatus)
	fmt.Fprintf(&sb, "Up requests (%d): %s\n", len(r.UpRequests), requestsToString(r.UpRequests))
	fmt.Fprintf(&sb, "Down requests (%d): %s\n", len(r.DownRequests), requestsToString(r.DownRequests))
	sb.WriteString("  +----+-------+------+------+-----+--------\n")
	sb.WriteString("  | id | floor | dirn | door | oos | stops\n")
	sb.WriteString("  +----+-------+------+------+-----+--------\n")
	for _, e := range r.Elevators {
		door := "shut"
		if e.DoorOpen {
			door = "open"
		}
		oos := " - "
		if e.OutOfService {
			oos = " # "
		}
		fmt.Fprintf(&sb, "  | %-2d | %-5d | %-4s | %-4s | %s | %s\n",
			e.ID, e.CurrentFloor, e.Direction, door, oos, stopsToString(e.Stops))
	}
	sb.WriteString("  +----+-------+------+------+-----+--------\n")
	return sb.String()
}
