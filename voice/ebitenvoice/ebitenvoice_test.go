package ebitenvoice

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/milk9111/soundpool/common"
)

type namedClip string

func (c namedClip) Name() string            { return string(c) }
func (c namedClip) Duration() time.Duration { return time.Second }

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGain(t *testing.T) {
	tests := []struct {
		name     string
		blend    float64
		distance float64
		rolloff  float64
		want     float64
	}{
		{name: "flat ignores distance", blend: 0, distance: 5000, rolloff: 100, want: 1},
		{name: "positional at listener", blend: 1, distance: 0, rolloff: 100, want: 1},
		{name: "half at rolloff", blend: 1, distance: 100, rolloff: 100, want: 0.5},
		{name: "quarter at three rolloffs", blend: 1, distance: 300, rolloff: 100, want: 0.25},
		{name: "half blend mixes", blend: 0.5, distance: 100, rolloff: 100, want: 0.75},
		{name: "blend clamped", blend: 3, distance: 100, rolloff: 100, want: 0.5},
		{name: "negative blend clamped", blend: -1, distance: 100, rolloff: 100, want: 1},
		{name: "zero rolloff uses default", blend: 1, distance: defaultRolloff, rolloff: 0, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gain(tt.blend, tt.distance, tt.rolloff); !approx(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFactoryGainUsesListenerAndRolloff(t *testing.T) {
	f := NewFactory(nil)
	f.SetListener(common.Vec3{X: 100})
	f.SetRolloff(50)
	f.SetRolloff(-1)

	if got := f.gain(1, common.Vec3{X: 150}); !approx(got, 0.5) {
		t.Fatalf("expected 0.5 one rolloff from the listener, got %v", got)
	}
	if got := f.gain(1, common.Vec3{X: 100}); !approx(got, 1) {
		t.Fatalf("expected 1 at the listener, got %v", got)
	}
}

func TestNewVoiceRequiresContext(t *testing.T) {
	if _, err := NewFactory(nil).NewVoice(); err == nil {
		t.Fatalf("expected error without an audio context")
	}
	var f *Factory
	if _, err := f.NewVoice(); err == nil {
		t.Fatalf("expected error from nil factory")
	}
}

func TestVoiceRebuildState(t *testing.T) {
	f := NewFactory(nil)
	var reported []error
	f.OnError(func(err error) { reported = append(reported, err) })
	v := &ebitenVoice{factory: f, volume: 1, pitch: 1}

	v.SetClip(namedClip("blip"))
	if !v.dirty {
		t.Fatalf("expected new clip to mark the voice dirty")
	}

	// namedClip has no PCM, so the rebuild fails and is reported.
	v.Play()
	if len(reported) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(reported))
	}
	if v.dirty || v.player != nil || v.IsPlaying() {
		t.Fatalf("expected clean voice without a player after failed rebuild")
	}

	v.SetClip(namedClip("blip"))
	if v.dirty {
		t.Fatalf("expected same clip to leave the voice clean")
	}
	v.SetLoop(true)
	if !v.dirty {
		t.Fatalf("expected loop change to mark the voice dirty")
	}
	v.dirty = false
	v.SetLoop(true)
	if v.dirty {
		t.Fatalf("expected unchanged loop to leave the voice clean")
	}

	v.SetClip(nil)
	v.Play()
	if len(reported) != 1 {
		t.Fatalf("expected no error for an empty voice, got %d", len(reported))
	}
	v.Stop()
	if err := v.Close(); err != nil {
		t.Fatalf("expected Close without player to succeed, got %v", err)
	}
}

func TestVoiceSettersClamp(t *testing.T) {
	v := &ebitenVoice{factory: NewFactory(nil)}

	v.SetVolume(2)
	if v.Volume() != 1 {
		t.Fatalf("expected volume clamped to 1, got %v", v.Volume())
	}
	v.SetVolume(-1)
	if v.Volume() != 0 {
		t.Fatalf("expected volume clamped to 0, got %v", v.Volume())
	}
	v.SetSpatialBlend(4)
	if v.blend != 1 {
		t.Fatalf("expected blend clamped to 1, got %v", v.blend)
	}
	v.SetPosition(common.Vec3{X: 1, Y: 2})
	if v.Position() != (common.Vec3{X: 1, Y: 2}) {
		t.Fatalf("expected position kept, got %v", v.Position())
	}
}

func TestOnErrorSwapsWhileReporting(t *testing.T) {
	f := NewFactory(nil)
	var calls atomic.Int32
	count := func(error) { calls.Add(1) }
	f.OnError(count)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.report(errors.New("player failed"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f.OnError(count)
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 400 {
		t.Fatalf("expected 400 reported errors, got %d", got)
	}
	f.report(nil)
	if got := calls.Load(); got != 400 {
		t.Fatalf("expected nil error to be ignored, got %d", got)
	}
}
