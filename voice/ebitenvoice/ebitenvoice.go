// Package ebitenvoice renders voices through an ebiten audio context.
package ebitenvoice

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/voice"
)

// PCMClip is a Clip whose samples are already decoded to the ebiten context
// format (16-bit little-endian stereo at the context sample rate).
type PCMClip interface {
	voice.Clip
	PCM() []byte
}

const defaultRolloff = 240.0

// Factory creates ebiten-backed voices.
//
// Ebiten has no pitch or panning control: pitch is recorded but not applied,
// and spatial blend is rendered as distance attenuation against the
// listener.
type Factory struct {
	ctx *audio.Context

	mu       sync.RWMutex
	listener common.Vec3
	rolloff  float64
	onError  func(err error)
}

func NewFactory(ctx *audio.Context) *Factory {
	return &Factory{ctx: ctx, rolloff: defaultRolloff}
}

// SetRolloff sets the distance at which a fully positional voice is at half
// volume.
func (f *Factory) SetRolloff(d float64) {
	if d <= 0 {
		return
	}
	f.mu.Lock()
	f.rolloff = d
	f.mu.Unlock()
}

// OnError installs a callback for player errors, which voices cannot return
// from their setters.
func (f *Factory) OnError(fn func(err error)) {
	f.mu.Lock()
	f.onError = fn
	f.mu.Unlock()
}

func (f *Factory) SetListener(p common.Vec3) {
	f.mu.Lock()
	f.listener = p
	f.mu.Unlock()
}

func (f *Factory) NewVoice() (voice.Voice, error) {
	if f == nil || f.ctx == nil {
		return nil, fmt.Errorf("ebitenvoice: audio context is nil")
	}
	return &ebitenVoice{factory: f, volume: 1, pitch: 1}, nil
}

func (f *Factory) gain(blend float64, p common.Vec3) float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return gain(blend, p.Sub(f.listener).Len(), f.rolloff)
}

func (f *Factory) report(err error) {
	if err == nil {
		return
	}
	f.mu.RLock()
	fn := f.onError
	f.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// gain mixes an unattenuated signal with one that halves at rolloff, by
// blend.
func gain(blend, distance, rolloff float64) float64 {
	blend = common.Clamp01(blend)
	if rolloff <= 0 {
		rolloff = defaultRolloff
	}
	return 1 - blend + blend/(1+distance/rolloff)
}

type ebitenVoice struct {
	factory *Factory
	player  *audio.Player
	dirty   bool

	clip     voice.Clip
	volume   float64
	pitch    float64
	blend    float64
	position common.Vec3
	loop     bool
}

func (v *ebitenVoice) SetClip(c voice.Clip) {
	if v.clip == c {
		return
	}
	v.clip = c
	v.dirty = true
}

func (v *ebitenVoice) Clip() voice.Clip { return v.clip }

func (v *ebitenVoice) SetVolume(vol float64) {
	v.volume = common.Clamp01(vol)
	v.apply()
}

func (v *ebitenVoice) Volume() float64 { return v.volume }

func (v *ebitenVoice) SetPitch(p float64) { v.pitch = p }

func (v *ebitenVoice) SetSpatialBlend(b float64) {
	v.blend = common.Clamp01(b)
	v.apply()
}

func (v *ebitenVoice) SetPosition(p common.Vec3) {
	v.position = p
	v.apply()
}

func (v *ebitenVoice) Position() common.Vec3 { return v.position }

func (v *ebitenVoice) SetLoop(loop bool) {
	if v.loop == loop {
		return
	}
	v.loop = loop
	v.dirty = true
}

func (v *ebitenVoice) Play() {
	if v.dirty || v.player == nil {
		if err := v.rebuild(); err != nil {
			v.factory.report(err)
			return
		}
	}
	if v.player == nil || v.player.IsPlaying() {
		return
	}
	v.apply()
	v.player.Play()
}

func (v *ebitenVoice) Stop() {
	if v.player == nil {
		return
	}
	v.player.Pause()
	v.factory.report(v.player.Rewind())
}

func (v *ebitenVoice) IsPlaying() bool {
	return v.player != nil && v.player.IsPlaying()
}

func (v *ebitenVoice) Close() error {
	if v.player == nil {
		return nil
	}
	err := v.player.Close()
	v.player = nil
	return err
}

// rebuild replaces the player after the clip or loop mode changed.
func (v *ebitenVoice) rebuild() error {
	v.dirty = false
	if v.player != nil {
		_ = v.player.Close()
		v.player = nil
	}
	if v.clip == nil {
		return nil
	}
	pcm, ok := v.clip.(PCMClip)
	if !ok {
		return fmt.Errorf("ebitenvoice: clip %q carries no PCM data", v.clip.Name())
	}
	data := pcm.PCM()
	if !v.loop {
		v.player = v.factory.ctx.NewPlayerFromBytes(data)
		return nil
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(data), int64(len(data)))
	player, err := v.factory.ctx.NewPlayer(loop)
	if err != nil {
		return fmt.Errorf("ebitenvoice: loop player for %q: %w", v.clip.Name(), err)
	}
	v.player = player
	return nil
}

func (v *ebitenVoice) apply() {
	if v.player == nil {
		return
	}
	v.player.SetVolume(v.volume * v.factory.gain(v.blend, v.position))
}
