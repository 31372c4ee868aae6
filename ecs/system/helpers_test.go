package system

import (
	"math"
	"testing"
	"time"

	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/internal/voicetest"
)

func newTestWorld(t *testing.T, step time.Duration) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	if _, err := NewClock(w, step); err != nil {
		t.Fatalf("NewClock: %v", err)
	}
	return w
}

// tick runs one frame: the clock first, then systems in order.
func tick(w *ecs.World, systems ...ecs.System) {
	ecs.NewScheduler(append([]ecs.System{NewClockSystem()}, systems...)...).Update(w)
}

func addChannel(t *testing.T, w *ecs.World) (ecs.Entity, *voicetest.Voice) {
	t.Helper()
	v := &voicetest.Voice{}
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.ChannelComponent.Kind(), &component.Channel{Voice: v}); err != nil {
		t.Fatalf("add channel: %v", err)
	}
	return e, v
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
