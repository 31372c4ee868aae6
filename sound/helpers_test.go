package sound

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milk9111/soundpool/internal/voicetest"
)

func newTestManager(t *testing.T, capacity int) (*Manager, *voicetest.Factory) {
	t.Helper()
	f := &voicetest.Factory{}
	cfg := DefaultConfig()
	cfg.Capacity = capacity
	cfg.TickRate = 10
	m, err := NewManager(Options{Config: cfg, Factory: f})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, f
}

func clip(name string, seconds float64) Content {
	return Content{
		Clip:   voicetest.NewClip(name, time.Duration(seconds*float64(time.Second))),
		Volume: 1,
		Pitch:  1,
	}
}

func advance(t *testing.T, m *Manager, d time.Duration) {
	t.Helper()
	if err := m.Advance(d); err != nil {
		t.Fatalf("Advance(%s): %v", d, err)
	}
}

func snapshot(t *testing.T, m *Manager) Snapshot {
	t.Helper()
	s, err := m.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return s
}

func poolClips(s Snapshot) []string {
	out := make([]string, 0, len(s.Pool))
	for _, ch := range s.Pool {
		out = append(out, ch.Clip)
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var errBoom = errors.New("boom")
