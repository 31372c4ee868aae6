package sound

import (
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/ecs/system"
)

// ChannelInfo is a copy of one channel's state.
type ChannelInfo struct {
	Channel        ecs.Entity
	Clip           string
	Volume         float64
	Position       common.Vec3
	CompletionTime time.Duration
	Playing        bool
	Looping        bool
	Fading         bool
}

type LoopInfo struct {
	Slot   uint32
	Active ChannelInfo
	Fading ChannelInfo
}

// Snapshot is a point-in-time copy of the manager. Pool is in pool order,
// earliest completion first; Loops are ordered by slot.
type Snapshot struct {
	Now           time.Duration
	Tick          uint64
	Capacity      int
	Pool          []ChannelInfo
	Loops         []LoopInfo
	PendingDelays int
}

func (m *Manager) Snapshot() (Snapshot, error) {
	if err := m.lock(); err != nil {
		return Snapshot{}, err
	}
	defer m.mu.Unlock()

	snap := Snapshot{
		Now:           system.Now(m.world),
		Capacity:      m.cfg.Capacity,
		PendingDelays: system.Pending(m.world),
	}
	if clock := system.Clock(m.world); clock != nil {
		snap.Tick = clock.Tick
	}
	for _, ent := range m.pool.entities() {
		snap.Pool = append(snap.Pool, m.channelInfo(ent))
	}
	for _, key := range m.loops.keys() {
		slot, ok := m.loops.get(m.world, key)
		if !ok {
			continue
		}
		snap.Loops = append(snap.Loops, LoopInfo{
			Slot:   key,
			Active: m.channelInfo(ecs.Entity(slot.Active)),
			Fading: m.channelInfo(ecs.Entity(slot.Fading)),
		})
	}
	return snap, nil
}

func (m *Manager) channelInfo(ent ecs.Entity) ChannelInfo {
	info := ChannelInfo{Channel: ent}
	ch, ok := ecs.Get(m.world, ent, component.ChannelComponent.Kind())
	if !ok || ch.Voice == nil {
		return info
	}
	info.Clip = clipName(ch.Voice)
	info.Volume = ch.Voice.Volume()
	info.Position = ch.Voice.Position()
	info.CompletionTime = ch.CompletionTime
	info.Playing = ch.Voice.IsPlaying()
	info.Looping = ch.Looping
	info.Fading = ecs.Has(m.world, ent, component.FadeComponent.Kind())
	return info
}

// Playing returns how many pool channels have not reached their completion
// time.
func (s Snapshot) Playing() int {
	n := 0
	for _, ch := range s.Pool {
		if ch.CompletionTime > s.Now {
			n++
		}
	}
	return n
}

func (s Snapshot) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t=%s tick=%d pool=%d/%d playing=%d pending=%d\n",
		s.Now, s.Tick, len(s.Pool), s.Capacity, s.Playing(), s.PendingDelays)
	for i, ch := range s.Pool {
		fmt.Fprintf(&b, "  [%d] ch=%s clip=%q vol=%.2f ends=%s pos=(%.1f,%.1f,%.1f)\n",
			i, ch.Channel, ch.Clip, ch.Volume, ch.CompletionTime, ch.Position.X, ch.Position.Y, ch.Position.Z)
	}
	for _, l := range s.Loops {
		fmt.Fprintf(&b, "  loop %d active=%q %.2f fading=%q %.2f\n",
			l.Slot, l.Active.Clip, l.Active.Volume, l.Fading.Clip, l.Fading.Volume)
	}
	return b.String()
}
