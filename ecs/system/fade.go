package system

import (
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

// FadeSystem drives channel volumes along their Fade component.
type FadeSystem struct{}

func NewFadeSystem() *FadeSystem {
	return &FadeSystem{}
}

// StartFade fades channel e from `from` to `to` over d, replacing any fade
// already running on it. The start volume is applied immediately; a
// non-positive duration pins the end volume without creating a fade.
func StartFade(w *ecs.World, e ecs.Entity, from, to float64, d time.Duration) {
	ch, ok := ecs.Get(w, e, component.ChannelComponent.Kind())
	if !ok || ch.Voice == nil {
		return
	}
	if d <= 0 {
		ecs.Remove(w, e, component.FadeComponent.Kind())
		ch.Voice.SetVolume(to)
		return
	}
	ch.Voice.SetVolume(from)
	_ = ecs.Add(w, e, component.FadeComponent.Kind(), &component.Fade{
		From:     from,
		To:       to,
		Start:    Now(w),
		Duration: d,
	})
}

func (f *FadeSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := Now(w)

	ecs.ForEach(w, component.FadeComponent.Kind(), func(e ecs.Entity, fade *component.Fade) {
		ch, ok := ecs.Get(w, e, component.ChannelComponent.Kind())
		if !ok || ch.Voice == nil {
			ecs.Remove(w, e, component.FadeComponent.Kind())
			return
		}

		elapsed := now - fade.Start
		if fade.Duration <= 0 || elapsed >= fade.Duration {
			ch.Voice.SetVolume(fade.To)
			ecs.Remove(w, e, component.FadeComponent.Kind())
			return
		}

		t := common.Clamp01(float64(elapsed) / float64(fade.Duration))
		ch.Voice.SetVolume(common.Lerp(fade.From, fade.To, t))
	})
}
