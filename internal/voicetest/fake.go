// Package voicetest provides in-memory voices for tests. Nothing here makes
// sound; every call is recorded so tests can inspect channel state.
package voicetest

import (
	"errors"
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/voice"
)

// Clip is a named clip with a fixed duration.
type Clip struct {
	ClipName string
	Length   time.Duration
}

// NewClip creates a clip lasting d.
func NewClip(name string, d time.Duration) *Clip {
	return &Clip{ClipName: name, Length: d}
}

func (c *Clip) Name() string            { return c.ClipName }
func (c *Clip) Duration() time.Duration { return c.Length }

// Voice records the state a real backend would render.
type Voice struct {
	ID int

	clip     voice.Clip
	volume   float64
	pitch    float64
	blend    float64
	position common.Vec3
	loop     bool
	playing  bool
	closed   bool

	plays int
	stops int
}

func (v *Voice) SetClip(c voice.Clip)      { v.clip = c }
func (v *Voice) Clip() voice.Clip          { return v.clip }
func (v *Voice) SetVolume(vol float64)     { v.volume = vol }
func (v *Voice) Volume() float64           { return v.volume }
func (v *Voice) SetPitch(p float64)        { v.pitch = p }
func (v *Voice) Pitch() float64            { return v.pitch }
func (v *Voice) SetSpatialBlend(b float64) { v.blend = b }
func (v *Voice) SpatialBlend() float64     { return v.blend }
func (v *Voice) SetPosition(p common.Vec3) { v.position = p }
func (v *Voice) Position() common.Vec3     { return v.position }
func (v *Voice) SetLoop(loop bool)         { v.loop = loop }
func (v *Voice) Looping() bool             { return v.loop }
func (v *Voice) IsPlaying() bool           { return v.playing }
func (v *Voice) Closed() bool              { return v.closed }
func (v *Voice) PlayCount() int            { return v.plays }
func (v *Voice) StopCount() int            { return v.stops }

// ClipName returns the current clip name, or "" when no clip is set.
func (v *Voice) ClipName() string {
	if v.clip == nil {
		return ""
	}
	return v.clip.Name()
}

func (v *Voice) Play() {
	v.playing = true
	v.plays++
}

func (v *Voice) Stop() {
	v.playing = false
	v.stops++
}

func (v *Voice) Close() error {
	v.playing = false
	v.closed = true
	return nil
}

// ErrFactoryExhausted is returned once a Factory reaches its Limit.
var ErrFactoryExhausted = errors.New("voicetest: factory exhausted")

// Factory hands out Voices and remembers them in creation order.
type Factory struct {
	Voices []*Voice
	// Limit caps how many voices may be created; zero means unlimited.
	Limit int
}

func (f *Factory) NewVoice() (voice.Voice, error) {
	if f.Limit > 0 && len(f.Voices) >= f.Limit {
		return nil, ErrFactoryExhausted
	}
	v := &Voice{ID: len(f.Voices), volume: 1, pitch: 1}
	f.Voices = append(f.Voices, v)
	return v, nil
}

// Find returns the first voice whose clip has the given name.
func (f *Factory) Find(name string) *Voice {
	for _, v := range f.Voices {
		if v.ClipName() == name {
			return v
		}
	}
	return nil
}

// Listener records the last listener position it was given.
type Listener struct {
	Position common.Vec3
	Calls    int
}

func (l *Listener) SetListener(p common.Vec3) {
	l.Position = p
	l.Calls++
}
