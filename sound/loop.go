package sound

import (
	"slices"
	"time"

	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/ecs/system"
	"github.com/milk9111/soundpool/voice"
)

// loopRegistry maps slot keys to LoopSlot entities. Slots are created on
// first use and live until the manager resets.
type loopRegistry struct {
	slots map[uint32]ecs.Entity
}

func newLoopRegistry() *loopRegistry {
	return &loopRegistry{slots: make(map[uint32]ecs.Entity)}
}

// play crossfades slot key to c over fade. It reports whether the slot had
// to be created first.
func (r *loopRegistry) play(w *ecs.World, factory voice.Factory, key uint32, c Content, fade time.Duration) (created bool, err error) {
	slot, created, err := r.slot(w, factory, key)
	if err != nil {
		return false, err
	}

	outgoing := ecs.Entity(slot.Active)
	incoming := ecs.Entity(slot.Fading)

	out, ok := ecs.Get(w, outgoing, component.ChannelComponent.Kind())
	if !ok {
		return created, nil
	}
	in, ok := ecs.Get(w, incoming, component.ChannelComponent.Kind())
	if !ok {
		return created, nil
	}

	system.StartFade(w, outgoing, out.Voice.Volume(), 0, fade)

	in.Voice.Stop()
	in.Voice.SetClip(c.Clip)
	in.Voice.SetPitch(c.Pitch)
	in.Voice.SetLoop(true)
	system.StartFade(w, incoming, 0, c.Volume, fade)

	slot.Active, slot.Fading = slot.Fading, slot.Active

	in.Voice.Play()
	if !out.Voice.IsPlaying() {
		out.Voice.Play()
	}
	return created, nil
}

func (r *loopRegistry) slot(w *ecs.World, factory voice.Factory, key uint32) (*component.LoopSlot, bool, error) {
	if ent, ok := r.slots[key]; ok {
		if slot, ok := ecs.Get(w, ent, component.LoopSlotComponent.Kind()); ok {
			return slot, false, nil
		}
		delete(r.slots, key)
	}

	first, err := newLoopChannel(w, factory)
	if err != nil {
		return nil, false, err
	}
	second, err := newLoopChannel(w, factory)
	if err != nil {
		releaseChannel(w, first)
		return nil, false, err
	}

	slot := &component.LoopSlot{Key: key, Active: uint64(first), Fading: uint64(second)}
	ent := ecs.CreateEntity(w)
	if err := ecs.Add(w, ent, component.LoopSlotComponent.Kind(), slot); err != nil {
		releaseChannel(w, first)
		releaseChannel(w, second)
		return nil, false, err
	}
	r.slots[key] = ent
	return slot, true, nil
}

func newLoopChannel(w *ecs.World, factory voice.Factory) (ecs.Entity, error) {
	ent, err := newChannel(w, factory, false)
	if err != nil {
		return 0, err
	}
	ch, _ := ecs.Get(w, ent, component.ChannelComponent.Kind())
	ch.Looping = true
	ch.Voice.SetLoop(true)
	ch.Voice.SetVolume(0)
	return ent, nil
}

// keys returns the registered slot keys in ascending order.
func (r *loopRegistry) keys() []uint32 {
	keys := make([]uint32, 0, len(r.slots))
	for key := range r.slots {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (r *loopRegistry) get(w *ecs.World, key uint32) (*component.LoopSlot, bool) {
	ent, ok := r.slots[key]
	if !ok {
		return nil, false
	}
	return ecs.Get(w, ent, component.LoopSlotComponent.Kind())
}

func (r *loopRegistry) clear() {
	clear(r.slots)
}

// releaseChannel stops and closes the voice on ent and destroys it.
func releaseChannel(w *ecs.World, ent ecs.Entity) error {
	var err error
	if ch, ok := ecs.Get(w, ent, component.ChannelComponent.Kind()); ok && ch.Voice != nil {
		ch.Voice.Stop()
		err = ch.Voice.Close()
	}
	ecs.DestroyEntity(w, ent)
	return err
}
