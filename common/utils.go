// utils.go
// Purpose: Copy helpers for reports handed out of the simulation, so no
// caller ever holds a slice that the Building or a car still writes to.
package common

import (
	"github.com/tiendc/go-deepcopy"
)

func CopyRequests(requests []Request) []Request {
	out := make([]Request, len(requests))
	copy(out, requests)
	return out
}

func CopySnapshot(s ElevatorSnapshot) ElevatorSnapshot {
	cp := s
	if s.Stops != nil {
		cp.Stops = make([]bool, len(s.Stops))
		copy(cp.Stops, s.Stops)
	}
	return cp
}

// DeepCopyReport returns a report that shares no memory with r.
func DeepCopyReport(r BuildingReport) (BuildingReport, error) {
	var out BuildingReport
	if err := deepcopy.Copy(&out, &r); err != nil {
		return BuildingReport{}, err
	}
	return out, nil
}
