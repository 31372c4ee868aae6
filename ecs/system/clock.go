package system

import (
	"time"

	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

// ClockSystem advances the simulation clock. It must run first in a tick so
// every later system sees the new time.
type ClockSystem struct{}

func NewClockSystem() *ClockSystem {
	return &ClockSystem{}
}

func (c *ClockSystem) Update(w *ecs.World) {
	clock := Clock(w)
	if clock == nil {
		return
	}
	clock.Now += clock.Step
	clock.Tick++
}

// NewClock creates the clock singleton with the given tick step.
func NewClock(w *ecs.World, step time.Duration) (ecs.Entity, error) {
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.ClockComponent.Kind(), &component.Clock{Step: step}); err != nil {
		return 0, err
	}
	return ent, nil
}

// Clock returns the clock singleton, or nil when the world has none.
func Clock(w *ecs.World) *component.Clock {
	ent, ok := ecs.First(w, component.ClockComponent.Kind())
	if !ok {
		return nil
	}
	clock, _ := ecs.Get(w, ent, component.ClockComponent.Kind())
	return clock
}

// Now returns the current simulation time.
func Now(w *ecs.World) time.Duration {
	if clock := Clock(w); clock != nil {
		return clock.Now
	}
	return 0
}

// Step returns the step of the tick in progress.
func Step(w *ecs.World) time.Duration {
	if clock := Clock(w); clock != nil {
		return clock.Step
	}
	return 0
}
