package elevfsm

import (
	"buildingsim/common"
)

// Begin puts the car into service. A car at ground parks there and takes
// work; anywhere else it first returns to ground.
func (c *Car) Begin() {
	c.outOfService = false
	c.doorTimer.stop()
	if c.floor == 0 {
		c.park()
	} else {
		c.accepting = false
		c.dirn = common.DirDown
		c.behaviour = CB_Moving
	}
	Log.Debug().Msgf("car %d: begin (floor=%d behav=%s)", c.id, c.floor, c.behaviour)
}

// TakeOutOfService recalls the car to ground. Safe at any point of a trip.
func (c *Car) TakeOutOfService() {
	c.outOfService = true
	c.accepting = false
	c.parkTimer.stop()
	c.clearAllStops()
	Log.Debug().Msgf("car %d: recalled (floor=%d behav=%s)", c.id, c.floor, c.behaviour)
}

func (c *Car) IsAcceptingRequests() bool {
	return c.accepting && !c.outOfService
}

func (c *Car) CurrentFloor() int {
	return c.floor
}

func (c *Car) MaxOccupancy() int {
	return c.capacity
}

// AssignBatch marks the origin and destination of every request as a stop.
func (c *Car) AssignBatch(requests []common.Request) {
	if len(requests) == 0 {
		return
	}
	if c.outOfService {
		Log.Warn().Msgf("car %d: batch of %d ignored while out of service", c.id, len(requests))
		return
	}
	for _, r := range requests {
		if r.Origin < 0 || r.Origin >= c.numFloors || r.Destination < 0 || r.Destination >= c.numFloors {
			Log.Warn().Msgf("car %d: request %s outside floors 0..%d ignored", c.id, r, c.topFloor())
			continue
		}
		c.stops[r.Origin] = true
		c.stops[r.Destination] = true
	}
	c.accepting = false
	c.parkTimer.stop()
	Log.Debug().Msgf("car %d: batch of %d assigned at floor %d (stops=%d)", c.id, len(requests), c.floor, c.countStops())
}

// Tick advances the car by one time unit.
func (c *Car) Tick() {
	if c.outOfService {
		c.onRecallTick()
		return
	}

	switch c.behaviour {
	case CB_DoorOpen:
		if c.doorTimer.tick() {
			c.onDoorTimeout()
		}
	case CB_Idle:
		c.onIdleTick()
	case CB_Moving:
		c.move()
	}
}

func (c *Car) openDoor() {
	c.behaviour = CB_DoorOpen
	c.clearStopAtCurrentFloor()
	c.doorTimer.start(c.config.DoorOpenTicks)
	Log.Debug().Msgf("car %d: door open at floor %d", c.id, c.floor)
}

func (c *Car) park() {
	c.behaviour = CB_Idle
	c.dirn = common.DirStop
	c.accepting = true
	c.parkTimer.start(c.config.ParkTicks)
}

func (c *Car) depart() {
	c.accepting = false
	c.dirn = c.sweepDirection()
	c.behaviour = CB_Moving
	Log.Debug().Msgf("car %d: leaving floor %d going %s", c.id, c.floor, c.dirn)
}

func (c *Car) onDoorTimeout() {
	Log.Debug().Msgf("car %d: door timeout at floor %d (stops=%d)", c.id, c.floor, c.countStops())

	switch {
	case c.stopHere():
		c.openDoor()
	case c.anyStops():
		c.dirn = c.chooseDirection()
		c.behaviour = CB_Moving
	case c.atExtremity():
		c.park()
	default:
		c.dirn = c.sweepDirection()
		c.behaviour = CB_Moving
	}
}

func (c *Car) onIdleTick() {
	switch {
	case c.stopHere():
		c.openDoor()
	case c.anyStops():
		c.dirn = c.chooseDirection()
		c.behaviour = CB_Moving
		c.move()
	case c.atExtremity():
		if !c.accepting {
			c.park()
			return
		}
		if c.parkTimer.tick() {
			c.depart()
		}
	default:
		c.dirn = c.sweepDirection()
		c.behaviour = CB_Moving
		c.move()
	}
}

func (c *Car) move() {
	next := c.floor + int(c.dirn)
	if c.dirn == common.DirStop || next < 0 || next > c.topFloor() {
		c.behaviour = CB_Idle
		return
	}
	c.floor = next
	c.onFloorArrival()
}

func (c *Car) onFloorArrival() {
	switch {
	case c.stopHere():
		// doors open on the next tick
		c.behaviour = CB_Idle
	case !c.anyStops():
		if c.atExtremity() {
			c.park()
			Log.Debug().Msgf("car %d: parked at floor %d", c.id, c.floor)
		}
	case c.chooseDirection() != c.dirn:
		c.behaviour = CB_Idle
	}
}

// onRecallTick drives an out-of-service car: finish any door cycle, then
// go down floor by floor and hold the door open at ground.
func (c *Car) onRecallTick() {
	switch {
	case c.floor == 0:
		c.doorTimer.stop()
		c.behaviour = CB_DoorOpen
		c.dirn = common.DirStop
	case c.behaviour == CB_DoorOpen:
		if c.doorTimer.tick() {
			c.behaviour = CB_Idle
		}
	default:
		c.dirn = common.DirDown
		c.behaviour = CB_Moving
		c.floor--
	}
}
