package sound

import (
	"fmt"
	"slices"
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/voice"
)

// pool is the ordered list of one-shot channels, earliest completion first.
// It never holds more than capacity channels and never shrinks.
type pool struct {
	capacity int
	channels []ecs.Entity
}

func newPool(capacity int) *pool {
	return &pool{capacity: capacity, channels: make([]ecs.Entity, 0, capacity)}
}

// acquire returns the channel the next one-shot should use. A free head is
// reused; otherwise a new channel is appended while below capacity; otherwise
// the head is stolen and evicted is true.
func (p *pool) acquire(w *ecs.World, factory voice.Factory, now time.Duration) (ent ecs.Entity, evicted bool, err error) {
	if len(p.channels) > 0 && completionTime(w, p.channels[0]) <= now {
		return p.channels[0], false, nil
	}
	if len(p.channels) < p.capacity {
		ent, err := newChannel(w, factory, true)
		if err != nil {
			return 0, false, err
		}
		p.channels = append(p.channels, ent)
		return ent, false, nil
	}
	return p.channels[0], true, nil
}

// resort moves ent to sit before the first channel finishing strictly later,
// so channels with equal completion times keep their relative order.
func (p *pool) resort(w *ecs.World, ent ecs.Entity) {
	idx := slices.Index(p.channels, ent)
	if idx < 0 {
		return
	}
	p.channels = slices.Delete(p.channels, idx, idx+1)

	end := completionTime(w, ent)
	at := len(p.channels)
	for i, other := range p.channels {
		if completionTime(w, other) > end {
			at = i
			break
		}
	}
	p.channels = slices.Insert(p.channels, at, ent)
}

func (p *pool) entities() []ecs.Entity {
	return slices.Clone(p.channels)
}

func (p *pool) clear() {
	p.channels = p.channels[:0]
}

func completionTime(w *ecs.World, ent ecs.Entity) time.Duration {
	ch, ok := ecs.Get(w, ent, component.ChannelComponent.Kind())
	if !ok {
		return 0
	}
	return ch.CompletionTime
}

// newChannel creates a channel entity with a fresh voice from factory.
func newChannel(w *ecs.World, factory voice.Factory, pooled bool) (ecs.Entity, error) {
	v, err := factory.NewVoice()
	if err != nil {
		return 0, fmt.Errorf("new voice: %w", err)
	}
	if v == nil {
		return 0, fmt.Errorf("new voice: factory returned nil")
	}

	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.ChannelComponent.Kind(), &component.Channel{
		Voice:  v,
		Pooled: pooled,
	}); err != nil {
		_ = v.Close()
		ecs.DestroyEntity(w, ent)
		return 0, err
	}
	return ent, nil
}

// placement is where a one-shot plays: unpositioned, at a fixed point, or
// following an origin entity.
type placement struct {
	blend     float64
	origin    ecs.Entity
	hasOrigin bool
	offset    common.Vec3
}

// configure stops whatever ent was doing and starts content on it.
func configure(w *ecs.World, ent ecs.Entity, c Content, at placement, now time.Duration) {
	ch, ok := ecs.Get(w, ent, component.ChannelComponent.Kind())
	if !ok || ch.Voice == nil {
		return
	}
	ecs.Remove(w, ent, component.FadeComponent.Kind())

	v := ch.Voice
	v.Stop()
	v.SetClip(c.Clip)
	v.SetVolume(c.Volume)
	v.SetPitch(c.Pitch)
	v.SetSpatialBlend(at.blend)
	v.SetLoop(false)

	ch.Origin = uint64(at.origin)
	ch.HasOrigin = at.hasOrigin
	ch.Offset = at.offset
	ch.SpatialBlend = at.blend
	ch.Looping = false

	pos := at.offset
	if at.hasOrigin {
		if t, ok := ecs.Get(w, at.origin, component.TransformComponent.Kind()); ok {
			pos = t.Position().Add(at.offset)
		}
	}
	v.SetPosition(pos)

	ch.CompletionTime = now + c.Clip.Duration()
	v.Play()
}

func clipName(v voice.Voice) string {
	if v == nil || v.Clip() == nil {
		return ""
	}
	return v.Clip().Name()
}
