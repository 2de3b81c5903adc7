// timer.go
// Purpose: Tick countdowns used by the car for door dwell and parking.
// Simulated time only moves when the building steps, so there is no wall clock here.
package elevfsm

type tickTimer struct {
	remaining int
	active    bool
}

func (t *tickTimer) start(ticks int) {
	t.remaining = ticks
	t.active = true
}

func (t *tickTimer) stop() {
	t.active = false
	t.remaining = 0
}

// tick consumes one tick and reports whether the timer ran out on it.
func (t *tickTimer) tick() bool {
	if !t.active {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.stop()
		return true
	}
	return false
}
