package system

import (
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/voice"
)

// PositionSystem moves every channel bound to an origin to origin + offset.
// Channels without an origin, or whose origin has been destroyed, keep their
// last position. When a listener is set it also receives the position of the
// ListenerTag entity.
type PositionSystem struct {
	listener voice.Listener
}

func NewPositionSystem(listener voice.Listener) *PositionSystem {
	return &PositionSystem{listener: listener}
}

func (p *PositionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	if p.listener != nil {
		if ent, ok := ecs.First(w, component.ListenerTagComponent.Kind()); ok {
			if t, ok := ecs.Get(w, ent, component.TransformComponent.Kind()); ok {
				p.listener.SetListener(t.Position())
			}
		}
	}

	ecs.ForEach(w, component.ChannelComponent.Kind(), func(_ ecs.Entity, ch *component.Channel) {
		if !ch.HasOrigin || ch.Voice == nil {
			return
		}
		t, ok := ecs.Get(w, ecs.Entity(ch.Origin), component.TransformComponent.Kind())
		if !ok {
			return
		}
		ch.Voice.SetPosition(t.Position().Add(ch.Offset))
	})
}
