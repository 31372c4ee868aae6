package component

import "time"

// Fade interpolates a channel's volume from From to To over Duration,
// starting at Start. A channel carries at most one fade; adding a new one
// replaces whatever was running.
type Fade struct {
	From     float64
	To       float64
	Start    time.Duration
	Duration time.Duration
}

var FadeComponent = NewComponent[Fade]()
