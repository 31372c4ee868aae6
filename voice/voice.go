// Package voice defines the playback primitive that sound channels drive.
package voice

import (
	"time"

	"github.com/milk9111/soundpool/common"
)

// Clip is an opaque content handle. Only its duration matters to the pool.
type Clip interface {
	Name() string
	Duration() time.Duration
}

// Voice is one playback resource. It is owned by exactly one channel.
type Voice interface {
	SetClip(c Clip)
	Clip() Clip

	SetVolume(v float64)
	Volume() float64
	SetPitch(p float64)
	SetSpatialBlend(b float64)
	SetPosition(p common.Vec3)
	Position() common.Vec3
	SetLoop(loop bool)

	Play()
	Stop()
	IsPlaying() bool

	Close() error
}

// Factory creates fresh voices for new channels.
type Factory interface {
	NewVoice() (Voice, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func() (Voice, error)

func (f FactoryFunc) NewVoice() (Voice, error) {
	return f()
}

// Listener is implemented by factories whose voices attenuate by distance.
type Listener interface {
	SetListener(p common.Vec3)
}
