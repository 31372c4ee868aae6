package sound

import (
	"slices"
	"testing"
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

func TestPoolOrderAndEviction(t *testing.T) {
	cases := []struct {
		name     string
		capacity int
		plays    []Content
		want     []string
		voices   int
		evicted  []string
	}{
		{
			name:     "sorted_by_completion",
			capacity: 2,
			plays:    []Content{clip("A", 5), clip("B", 3)},
			want:     []string{"B", "A"},
			voices:   2,
		},
		{
			name:     "full_pool_steals_head",
			capacity: 2,
			plays:    []Content{clip("A", 5), clip("B", 3), clip("C", 2)},
			want:     []string{"C", "A"},
			voices:   2,
			evicted:  []string{"B"},
		},
		{
			name:     "equal_completion_keeps_order",
			capacity: 3,
			plays:    []Content{clip("A", 2), clip("B", 2), clip("C", 2)},
			want:     []string{"A", "B", "C"},
			voices:   3,
		},
		{
			name:     "capacity_never_exceeded",
			capacity: 3,
			plays:    []Content{clip("A", 9), clip("B", 8), clip("C", 7), clip("D", 6), clip("E", 5)},
			want:     []string{"E", "B", "A"},
			voices:   3,
			evicted:  []string{"C", "D"},
		},
		{
			name:     "zero_capacity_means_one",
			capacity: 0,
			plays:    []Content{clip("A", 1), clip("B", 1)},
			want:     []string{"B"},
			voices:   1,
			evicted:  []string{"A"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, f := newTestManager(t, c.capacity)
			for _, p := range c.plays {
				if err := m.Play(p, 0); err != nil {
					t.Fatalf("Play(%s): %v", p.Clip.Name(), err)
				}
			}

			got := poolClips(snapshot(t, m))
			if !slices.Equal(got, c.want) {
				t.Fatalf("expected pool %v, got %v", c.want, got)
			}
			if len(f.Voices) != c.voices {
				t.Fatalf("expected %d voices, got %d", c.voices, len(f.Voices))
			}

			var evicted []string
			for _, evt := range m.World().Events().Drain() {
				if evt.Type != EventChannelEvicted {
					continue
				}
				evicted = append(evicted, evt.Data.(ChannelEvicted).Clip)
			}
			if !slices.Equal(evicted, c.evicted) {
				t.Fatalf("expected evictions %v, got %v", c.evicted, evicted)
			}
		})
	}
}

func TestPoolReusesFinishedHead(t *testing.T) {
	m, f := newTestManager(t, 4)

	if err := m.Play(clip("A", 1), 0); err != nil {
		t.Fatalf("Play: %v", err)
	}
	advance(t, m, time.Second)
	if err := m.Play(clip("B", 2), 0); err != nil {
		t.Fatalf("Play: %v", err)
	}

	if len(f.Voices) != 1 {
		t.Fatalf("expected finished channel to be reused, got %d voices", len(f.Voices))
	}
	v := f.Voices[0]
	if v.ClipName() != "B" || !v.IsPlaying() {
		t.Fatalf("expected voice to play B, got %q playing=%v", v.ClipName(), v.IsPlaying())
	}
	if v.StopCount() == 0 {
		t.Fatalf("expected voice to be stopped before reconfigure")
	}

	s := snapshot(t, m)
	if s.Pool[0].CompletionTime != 3*time.Second {
		t.Fatalf("expected completion 3s, got %s", s.Pool[0].CompletionTime)
	}
}

func TestPoolEvictionCutsPlayingChannel(t *testing.T) {
	m, f := newTestManager(t, 1)

	if err := m.Play(clip("long", 10), 0); err != nil {
		t.Fatalf("Play: %v", err)
	}
	advance(t, m, time.Second)
	if err := m.Play(clip("short", 1), 0); err != nil {
		t.Fatalf("Play: %v", err)
	}

	v := f.Voices[0]
	if v.ClipName() != "short" {
		t.Fatalf("expected evicted channel to carry new clip, got %q", v.ClipName())
	}
	evts := m.World().Events().Drain()
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}
	info := evts[0].Data.(ChannelEvicted)
	if info.Clip != "long" || info.Remaining != 9*time.Second {
		t.Fatalf("unexpected eviction payload %+v", info)
	}
}

func TestDelayedRequests(t *testing.T) {
	t.Run("zero_delay_is_synchronous", func(t *testing.T) {
		m, f := newTestManager(t, 2)
		if err := m.Play(clip("now", 1), 0); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if len(f.Voices) != 1 || !f.Voices[0].IsPlaying() {
			t.Fatalf("expected playback within the call")
		}
	})

	t.Run("waits_exactly_delay", func(t *testing.T) {
		m, f := newTestManager(t, 2)
		if err := m.Play(clip("later", 1), 2*time.Second); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if s := snapshot(t, m); len(s.Pool) != 0 || s.PendingDelays != 1 {
			t.Fatalf("expected untouched pool and 1 pending, got %d/%d", len(s.Pool), s.PendingDelays)
		}

		advance(t, m, time.Second)
		if len(f.Voices) != 0 {
			t.Fatalf("expected nothing before the deadline")
		}

		advance(t, m, time.Second)
		s := snapshot(t, m)
		if len(s.Pool) != 1 || s.PendingDelays != 0 {
			t.Fatalf("expected request to fire at 2s, got pool=%d pending=%d", len(s.Pool), s.PendingDelays)
		}
		if s.Pool[0].CompletionTime != 3*time.Second {
			t.Fatalf("expected completion from fire time, got %s", s.Pool[0].CompletionTime)
		}
	})

	t.Run("deadline_order_not_submission_order", func(t *testing.T) {
		m, _ := newTestManager(t, 4)
		if err := m.Play(clip("slow", 5), 2*time.Second); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if err := m.Play(clip("fast", 5), time.Second); err != nil {
			t.Fatalf("Play: %v", err)
		}

		advance(t, m, time.Second)
		if got := poolClips(snapshot(t, m)); !slices.Equal(got, []string{"fast"}) {
			t.Fatalf("expected fast first, got %v", got)
		}
		advance(t, m, time.Second)
		if got := poolClips(snapshot(t, m)); !slices.Equal(got, []string{"fast", "slow"}) {
			t.Fatalf("expected fast then slow, got %v", got)
		}
	})

	t.Run("content_chosen_at_request_time", func(t *testing.T) {
		m, f := newTestManager(t, 1)
		calls := 0
		p := ProviderFunc(func() (Content, error) {
			calls++
			return clip("picked", 1), nil
		})
		if err := m.Play(p, time.Second); err != nil {
			t.Fatalf("Play: %v", err)
		}
		if calls != 1 {
			t.Fatalf("expected provider to be asked once at request time, got %d", calls)
		}
		advance(t, m, time.Second)
		if calls != 1 || f.Find("picked") == nil {
			t.Fatalf("expected stored content to play without asking again")
		}
	})
}

func TestProviderFailureSkipsRequest(t *testing.T) {
	cases := []struct {
		name string
		p    Provider
	}{
		{"nil_provider", nil},
		{"provider_error", ProviderFunc(func() (Content, error) { return Content{}, errBoom })},
		{"nil_clip", Content{Volume: 1}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, f := newTestManager(t, 2)
			if err := m.Play(c.p, 0); err != nil {
				t.Fatalf("expected skipped request to return nil, got %v", err)
			}
			if len(f.Voices) != 0 {
				t.Fatalf("expected no channel to be created")
			}
		})
	}
}

func TestPositionalAndParented(t *testing.T) {
	t.Run("positional_is_fixed", func(t *testing.T) {
		m, f := newTestManager(t, 2)
		pos := common.Vec3{X: 3, Y: 4}
		if err := m.PlayPositional(clip("boom", 5), pos, 0); err != nil {
			t.Fatalf("PlayPositional: %v", err)
		}
		v := f.Voices[0]
		if v.Position() != pos || v.SpatialBlend() != 1 {
			t.Fatalf("expected pos %v blend 1, got %v blend %v", pos, v.Position(), v.SpatialBlend())
		}
		advance(t, m, time.Second)
		if v.Position() != pos {
			t.Fatalf("expected positional channel not to move, got %v", v.Position())
		}
	})

	t.Run("follows_origin_without_lag", func(t *testing.T) {
		m, f := newTestManager(t, 2)
		w := m.World()
		origin := ecs.CreateEntity(w)
		tr := &component.Transform{}
		if err := ecs.Add(w, origin, component.TransformComponent.Kind(), tr); err != nil {
			t.Fatalf("add transform: %v", err)
		}

		offset := common.Vec3{X: 1}
		if err := m.PlayParented(clip("engine", 10), origin, offset, 0); err != nil {
			t.Fatalf("PlayParented: %v", err)
		}
		v := f.Voices[0]
		if v.Position() != offset {
			t.Fatalf("expected initial position %v, got %v", offset, v.Position())
		}

		tr.X = 5
		advance(t, m, 100*time.Millisecond)
		if want := (common.Vec3{X: 6}); v.Position() != want {
			t.Fatalf("expected %v, got %v", want, v.Position())
		}

		ecs.DestroyEntity(w, origin)
		advance(t, m, 100*time.Millisecond)
		if want := (common.Vec3{X: 6}); v.Position() != want {
			t.Fatalf("expected last position kept after origin died, got %v", v.Position())
		}
		if !v.IsPlaying() {
			t.Fatalf("expected channel to keep playing after origin died")
		}
	})
}
