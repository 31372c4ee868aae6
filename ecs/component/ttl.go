package component

import "time"

// TTL destroys its entity once Remaining simulated time has elapsed. If the
// entity carries a Channel, the channel's voice is stopped and closed first.
type TTL struct {
	Remaining time.Duration
}

var TTLComponent = NewComponent[TTL]()
