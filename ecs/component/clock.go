package component

import "time"

// Clock is the simulation clock singleton. ClockSystem advances Now by Step
// at the start of every tick.
type Clock struct {
	Now  time.Duration
	Step time.Duration
	Tick uint64

	// Issued counts scheduled requests so that requests due at the same
	// instant fire in submission order.
	Issued uint64
}

var ClockComponent = NewComponent[Clock]()
