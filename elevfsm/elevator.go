package elevfsm

import (
	"fmt"
	"strings"

	"buildingsim/common"
	"buildingsim/logger"
)

var Log = logger.GetLogger()

// enums

type CarBehaviour int

const (
	CB_Idle CarBehaviour = iota
	CB_DoorOpen
	CB_Moving
)

func (cb CarBehaviour) String() string {
	switch cb {
	case CB_Idle:
		return "CB_Idle"
	case CB_DoorOpen:
		return "CB_DoorOpen"
	case CB_Moving:
		return "CB_Moving"
	default:
		return "CB_UNDEFINED"
	}
}

// Car is the simulated elevator. It satisfies common.ElevatorUnit and is
// only ever mutated by its own methods, one tick at a time.
type Car struct {
	id        int
	numFloors int
	capacity  int
	config    common.CarConfig

	floor        int
	dirn         common.Direction
	behaviour    CarBehaviour
	stops        []bool
	outOfService bool
	accepting    bool

	doorTimer tickTimer
	parkTimer tickTimer
}

// NewCar returns a car parked at ground floor, out of service with its door held open.
func NewCar(id, numFloors, capacity int, config common.CarConfig) *Car {
	return &Car{
		id:           id,
		numFloors:    numFloors,
		capacity:     capacity,
		config:       config,
		floor:        0,
		dirn:         common.DirStop,
		behaviour:    CB_DoorOpen,
		stops:        make([]bool, numFloors),
		outOfService: true,
	}
}

func (c *Car) ID() int { return c.id }

func (c *Car) topFloor() int { return c.numFloors - 1 }

func (c *Car) atExtremity() bool {
	return c.floor == 0 || c.floor == c.topFloor()
}

func (c *Car) String() string {
	var sb strings.Builder
	sb.WriteString("  +--------------------+\n")
	fmt.Fprintf(&sb,
		"  |car   = %-2d          |\n"+
			"  |floor = %-2d          |\n"+
			"  |dirn  = %-12.12s|\n"+
			"  |behav = %-12.12s|\n",
		c.id,
		c.floor,
		c.dirn.String(),
		c.behaviour.String(),
	)
	sb.WriteString("  +--------------------+\n")
	sb.WriteString("  |  | stop            |\n")
	for f := c.topFloor(); f >= 0; f-- {
		mark := "-"
		if c.stops[f] {
			mark = "#"
		}
		fmt.Fprintf(&sb, "  |%2d|  %s              |\n", f, mark)
	}
	sb.WriteString("  +--------------------+\n")
	return sb.String()
}
