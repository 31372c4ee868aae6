package sound

import (
	"testing"
	"time"
)

func loopContent(name string, volume float64) Content {
	c := clip(name, 4)
	c.Volume = volume
	return c
}

func TestLoopCrossfade(t *testing.T) {
	m, f := newTestManager(t, 4)
	half := 500 * time.Millisecond

	if err := m.PlayLooping(loopContent("L1", 0.8), time.Second, 7, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	if len(f.Voices) != 2 {
		t.Fatalf("expected slot to create 2 channels, got %d", len(f.Voices))
	}
	for i, v := range f.Voices {
		if !v.IsPlaying() || !v.Looping() {
			t.Fatalf("voice %d: expected playing looping channel", i)
		}
	}
	l1 := f.Find("L1")
	if l1 == nil || l1.Volume() != 0 {
		t.Fatalf("expected L1 to start silent")
	}

	advance(t, m, half)
	if !approx(l1.Volume(), 0.4) {
		t.Fatalf("expected L1 at 0.4 half way, got %v", l1.Volume())
	}
	advance(t, m, half)
	if !approx(l1.Volume(), 0.8) {
		t.Fatalf("expected L1 at 0.8, got %v", l1.Volume())
	}
	advance(t, m, time.Second)

	if err := m.PlayLooping(loopContent("L2", 0.5), time.Second, 7, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	l2 := f.Find("L2")
	if l2 == nil || l2 == l1 {
		t.Fatalf("expected L2 on the other channel")
	}

	steps := []struct {
		name   string
		l1, l2 float64
	}{
		{"half_way", 0.4, 0.25},
		{"done", 0, 0.5},
	}
	for _, step := range steps {
		advance(t, m, half)
		if !approx(l1.Volume(), step.l1) || !approx(l2.Volume(), step.l2) {
			t.Fatalf("%s: expected L1=%v L2=%v, got L1=%v L2=%v",
				step.name, step.l1, step.l2, l1.Volume(), l2.Volume())
		}
	}

	s := snapshot(t, m)
	if len(s.Pool) != 0 {
		t.Fatalf("expected loop channels to stay out of the pool, got %d", len(s.Pool))
	}
	if len(s.Loops) != 1 || s.Loops[0].Active.Clip != "L2" || s.Loops[0].Fading.Clip != "L1" {
		t.Fatalf("unexpected loop roles %+v", s.Loops)
	}
}

func TestLoopRapidRetriggerLastFadeWins(t *testing.T) {
	m, f := newTestManager(t, 4)
	half := 500 * time.Millisecond

	if err := m.PlayLooping(loopContent("L1", 1), time.Second, 1, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	advance(t, m, half)
	if err := m.PlayLooping(loopContent("L2", 1), time.Second, 1, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}

	a := f.Find("L1")
	b := f.Find("L2")
	advance(t, m, half)
	if !approx(a.Volume(), 0.25) {
		t.Fatalf("expected fade-out from 0.5 to replace fade-in, got %v", a.Volume())
	}

	// Third call lands while the pair is still mid-crossfade.
	if err := m.PlayLooping(loopContent("L3", 1), time.Second, 1, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	if a.ClipName() != "L3" || b.ClipName() != "L2" {
		t.Fatalf("expected L3 on the previous fading member, got %q and %q", a.ClipName(), b.ClipName())
	}

	advance(t, m, time.Second)
	if !approx(a.Volume(), 1) || !approx(b.Volume(), 0) {
		t.Fatalf("expected L3=1 L2=0, got %v %v", a.Volume(), b.Volume())
	}
	s := snapshot(t, m)
	if s.Loops[0].Active.Clip != "L3" {
		t.Fatalf("expected L3 active, got %q", s.Loops[0].Active.Clip)
	}
}

func TestLoopZeroFadeHasNoSilenceGap(t *testing.T) {
	m, f := newTestManager(t, 4)
	content := loopContent("hum", 0.7)

	for i := 0; i < 2; i++ {
		if err := m.PlayLooping(content, 0, 3, 0); err != nil {
			t.Fatalf("PlayLooping #%d: %v", i, err)
		}
		s := snapshot(t, m)
		active := s.Loops[0].Active
		if active.Clip != "hum" || !approx(active.Volume, 0.7) || !active.Playing {
			t.Fatalf("call %d: expected active member audible at 0.7, got %+v", i, active)
		}
		if active.Fading {
			t.Fatalf("call %d: expected zero fade to leave no fade running", i)
		}
		if outgoing := s.Loops[0].Fading; !approx(outgoing.Volume, 0) || outgoing.Fading {
			t.Fatalf("call %d: expected outgoing member pinned at 0, got %+v", i, outgoing)
		}
	}

	if len(f.Voices) != 2 {
		t.Fatalf("expected the slot to reuse its 2 channels, got %d", len(f.Voices))
	}
	// The second call hands the content back to the first member.
	if !approx(f.Voices[0].Volume(), 0.7) || !approx(f.Voices[1].Volume(), 0) {
		t.Fatalf("expected volumes 0.7 and 0, got %v and %v", f.Voices[0].Volume(), f.Voices[1].Volume())
	}
	for _, v := range f.Voices {
		if !v.IsPlaying() {
			t.Fatalf("expected both members playing")
		}
	}
}

func TestLoopSlotsIgnoreCapacity(t *testing.T) {
	m, f := newTestManager(t, 1)

	for slot := uint32(0); slot < 3; slot++ {
		if err := m.PlayLooping(loopContent("bed", 1), 0, slot, 0); err != nil {
			t.Fatalf("PlayLooping(%d): %v", slot, err)
		}
	}
	if err := m.PlayLooping(loopContent("bed2", 1), 0, 0, 0); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	if err := m.Play(clip("shot", 1), 0); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if len(f.Voices) != 7 {
		t.Fatalf("expected 6 loop voices and 1 pool voice, got %d", len(f.Voices))
	}

	created := 0
	for _, evt := range m.World().Events().Drain() {
		if evt.Type == EventLoopSlotCreated {
			created++
		}
	}
	if created != 3 {
		t.Fatalf("expected 3 slot creations, got %d", created)
	}

	s := snapshot(t, m)
	if len(s.Loops) != 3 || len(s.Pool) != 1 {
		t.Fatalf("expected 3 loops and 1 pooled channel, got %d and %d", len(s.Loops), len(s.Pool))
	}
	for i, l := range s.Loops {
		if l.Slot != uint32(i) {
			t.Fatalf("expected loops ordered by slot, got %d at %d", l.Slot, i)
		}
	}
}

func TestLoopDelayed(t *testing.T) {
	m, f := newTestManager(t, 1)

	if err := m.PlayLooping(loopContent("late", 1), 0, 9, time.Second); err != nil {
		t.Fatalf("PlayLooping: %v", err)
	}
	if len(f.Voices) != 0 {
		t.Fatalf("expected registry untouched before the delay")
	}
	advance(t, m, time.Second)
	if f.Find("late") == nil {
		t.Fatalf("expected loop to start after the delay")
	}
}
