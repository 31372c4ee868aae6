package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
)

// PhysicsSystem moves sound origins with Chipmunk2D. It creates a body for
// every PhysicsBody+Transform entity it has not seen yet, steps the space by
// the tick step and writes body positions back into the transforms.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*cp.Body
}

func NewPhysicsSystem(gravityY float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: 0, Y: gravityY})
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*cp.Body),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.cleanupEntities(w)
	ps.syncEntities(w)

	if dt := Step(w).Seconds(); dt > 0 {
		ps.space.Step(dt)
	}

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody) {
		if bodyComp.Body != nil {
			return
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}

		var body *cp.Body
		if bodyComp.Kinematic {
			body = cp.NewKinematicBody()
		} else {
			mass := bodyComp.Mass
			if mass <= 0 {
				mass = 1
			}
			radius := bodyComp.Radius
			if radius <= 0 {
				radius = 1
			}
			body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
		}
		body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
		body.SetVelocityVector(cp.Vector{X: bodyComp.VelocityX, Y: bodyComp.VelocityY})

		ps.space.AddBody(body)
		bodyComp.Body = body
		ps.bodies[e] = body
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody) {
		if bodyComp.Body == nil {
			return
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, body := range ps.bodies {
		if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.space.RemoveBody(body)
		delete(ps.bodies, e)
	}
}
