package main

import (
	"context"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/soundpool/assets"
	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/prefabs"
	"github.com/milk9111/soundpool/sound"
)

func managerConfig(spec *prefabs.SoundSpec) sound.Config {
	cfg := sound.DefaultConfig()
	if spec.Capacity > 0 {
		cfg.Capacity = spec.Capacity
	}
	if spec.TickRate > 0 {
		cfg.TickRate = spec.TickRate
	}
	cfg.PersistAcrossReload = spec.PersistAcrossReload
	cfg.Listener = common.Vec3{X: spec.Listener.X, Y: spec.Listener.Y, Z: spec.Listener.Z}
	return cfg
}

func bankEntries(spec *prefabs.SoundSpec) []assets.Entry {
	entries := make([]assets.Entry, 0, len(spec.Bank))
	for _, b := range spec.Bank {
		entries = append(entries, assets.Entry{Name: b.Name, File: b.File, Volume: b.Volume, Pitch: b.Pitch})
	}
	return entries
}

// emitter is a scripted cue placed in the scene.
type emitter struct {
	name string
	ent  ecs.Entity
}

// buildScene creates the listener and one entity per cue. Anything built by
// an earlier call is destroyed first.
func buildScene(w *ecs.World, spec *prefabs.SoundSpec, old []emitter, listener ecs.Entity) ([]emitter, ecs.Entity) {
	for _, e := range old {
		ecs.DestroyEntity(w, e.ent)
	}
	ecs.DestroyEntity(w, listener)

	listener = ecs.CreateEntity(w)
	_ = ecs.Add(w, listener, component.TransformComponent.Kind(), &component.Transform{X: spec.Listener.X, Y: spec.Listener.Y, Z: spec.Listener.Z})
	_ = ecs.Add(w, listener, component.ListenerTagComponent.Kind(), &component.ListenerTag{})

	emitters := make([]emitter, 0, len(spec.Cues))
	for _, cue := range spec.Cues {
		ent := ecs.CreateEntity(w)
		_ = ecs.Add(w, ent, component.TransformComponent.Kind(), &component.Transform{X: cue.X, Y: cue.Y})
		_ = ecs.Add(w, ent, component.OriginTagComponent.Kind(), &component.OriginTag{Name: cue.Name})
		_ = ecs.Add(w, ent, component.CueScriptComponent.Kind(), &component.CueScript{Path: cue.Script, Name: cue.Name})
		if cue.Moving() {
			_ = ecs.Add(w, ent, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
				Mass:      1,
				Radius:    8,
				VelocityX: cue.VelocityX,
				VelocityY: cue.VelocityY,
				Kinematic: cue.Kinematic,
			})
		}
		emitters = append(emitters, emitter{name: cue.Name, ent: ent})
	}
	return emitters, listener
}

// wrapEmitters moves bodies that left the screen back to the opposite edge.
func wrapEmitters(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, body *component.PhysicsBody) {
		if body.Body == nil {
			return
		}
		pos := body.Body.Position()
		switch {
		case pos.X > common.BaseWidth:
			pos.X = 0
		case pos.X < 0:
			pos.X = common.BaseWidth
		default:
			if pos.Y >= 0 && pos.Y <= common.BaseHeight {
				return
			}
		}
		if pos.Y > common.BaseHeight || pos.Y < 0 {
			pos.Y = common.BaseHeight / 2
		}
		body.Body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	})
}

func reloadBank(ctx context.Context, m *sound.Manager, spec *prefabs.SoundSpec) error {
	bank, err := assets.LoadBank(ctx, bankEntries(spec), nil)
	if err != nil {
		return err
	}
	return m.SetBank(bank)
}
