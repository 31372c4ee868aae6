package component

import (
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/voice"
)

// Channel is one playback slot. The entity carrying it is the channel's
// stable id; the pool and the loop registry only ever hold that id.
type Channel struct {
	Voice voice.Voice

	// Origin is the entity the channel follows (ecs.Entity is uint64). It is
	// only meaningful when HasOrigin is set and is never kept alive by the
	// channel: a destroyed origin simply stops position updates.
	Origin    uint64
	HasOrigin bool
	Offset    common.Vec3

	SpatialBlend float64

	// CompletionTime is configure time plus clip duration, recomputed on
	// every configure.
	CompletionTime time.Duration

	Looping bool
	Pooled  bool
}

var ChannelComponent = NewComponent[Channel]()
