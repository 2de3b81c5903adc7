package elevfsm

import (
	"buildingsim/common"
)

func (c *Car) stopsAbove() bool {
	for f := c.floor + 1; f < c.numFloors; f++ {
		if c.stops[f] {
			return true
		}
	}
	return false
}

func (c *Car) stopsBelow() bool {
	for f := range c.floor {
		if c.stops[f] {
			return true
		}
	}
	return false
}

func (c *Car) stopHere() bool {
	return c.stops[c.floor]
}

func (c *Car) anyStops() bool {
	for _, s := range c.stops {
		if s {
			return true
		}
	}
	return false
}

// chooseDirection keeps the current direction while stops remain ahead.
func (c *Car) chooseDirection() common.Direction {
	switch c.dirn {
	case common.DirUp:
		if c.stopsAbove() {
			return common.DirUp
		} else if c.stopsBelow() {
			return common.DirDown
		}
	case common.DirDown:
		if c.stopsBelow() {
			return common.DirDown
		} else if c.stopsAbove() {
			return common.DirUp
		}
	default:
		if c.stopsAbove() {
			return common.DirUp
		} else if c.stopsBelow() {
			return common.DirDown
		}
	}
	return common.DirStop
}

// sweepDirection is where an empty car heads: on to the extremity in front of it.
func (c *Car) sweepDirection() common.Direction {
	switch {
	case c.floor == 0:
		return common.DirUp
	case c.floor == c.topFloor():
		return common.DirDown
	case c.dirn == common.DirUp:
		return common.DirUp
	default:
		return common.DirDown
	}
}

func (c *Car) clearStopAtCurrentFloor() {
	c.stops[c.floor] = false
}

func (c *Car) clearAllStops() {
	for f := range c.stops {
		c.stops[f] = false
	}
}

func (c *Car) countStops() int {
	n := 0
	for _, s := range c.stops {
		if s {
			n++
		}
	}
	return n
}
