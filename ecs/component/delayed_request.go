package component

import "time"

// DelayedRequest is a one-shot deferred action. It lives on its own entity,
// which DelaySystem destroys right before running Action.
type DelayedRequest struct {
	Action func()
	FireAt time.Duration
	Seq    uint64
	Label  string
}

var DelayedRequestComponent = NewComponent[DelayedRequest]()
