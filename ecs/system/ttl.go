package system

import (
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

// TTLSystem counts TTL components down by the tick step and destroys the
// entity when the TTL runs out, releasing its voice if it has one.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	step := Step(w)

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Remaining -= step
		if ttl.Remaining > 0 {
			return
		}

		if ch, ok := ecs.Get(w, e, component.ChannelComponent.Kind()); ok && ch.Voice != nil {
			ch.Voice.Stop()
			_ = ch.Voice.Close()
		}
		ecs.DestroyEntity(w, e)
	})
}
