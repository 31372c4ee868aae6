package system

import (
	"sort"
	"time"

	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

// DelaySystem fires every DelayedRequest whose time has come. Requests due
// on the same tick fire by deadline, then by submission order.
type DelaySystem struct {
	due []dueRequest
}

type dueRequest struct {
	ent ecs.Entity
	req component.DelayedRequest
}

func NewDelaySystem() *DelaySystem {
	return &DelaySystem{}
}

// Schedule runs action after delay. A non-positive delay runs it right away,
// inside this call.
func Schedule(w *ecs.World, label string, delay time.Duration, action func()) {
	if action == nil {
		return
	}
	if delay <= 0 {
		action()
		return
	}
	if w == nil {
		return
	}

	var seq uint64
	now := time.Duration(0)
	if clock := Clock(w); clock != nil {
		clock.Issued++
		seq = clock.Issued
		now = clock.Now
	}

	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.DelayedRequestComponent.Kind(), &component.DelayedRequest{
		Action: action,
		FireAt: now + delay,
		Seq:    seq,
		Label:  label,
	})
}

// Pending returns how many delayed requests have not fired yet.
func Pending(w *ecs.World) int {
	return ecs.Count(w, component.DelayedRequestComponent.Kind())
}

func (d *DelaySystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := Now(w)

	d.due = d.due[:0]
	ecs.ForEach(w, component.DelayedRequestComponent.Kind(), func(e ecs.Entity, req *component.DelayedRequest) {
		if req.FireAt <= now {
			d.due = append(d.due, dueRequest{ent: e, req: *req})
		}
	})
	if len(d.due) == 0 {
		return
	}

	sort.Slice(d.due, func(i, j int) bool {
		if d.due[i].req.FireAt != d.due[j].req.FireAt {
			return d.due[i].req.FireAt < d.due[j].req.FireAt
		}
		return d.due[i].req.Seq < d.due[j].req.Seq
	})

	for _, item := range d.due {
		// Destroy before running so an action that schedules again cannot
		// observe its own stale request.
		ecs.DestroyEntity(w, item.ent)
		if item.req.Action != nil {
			item.req.Action()
		}
	}
}
