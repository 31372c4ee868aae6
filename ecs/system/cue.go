package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/rs/zerolog"
)

// CueHandler receives the sound requests issued by cue scripts.
type CueHandler interface {
	PlayCue(name string, delay time.Duration) error
	PlayCueAt(name string, pos common.Vec3, delay time.Duration) error
	PlayCueParented(name string, origin ecs.Entity, offset common.Vec3, delay time.Duration) error
	PlayCueLooping(name string, fade time.Duration, slot uint32, delay time.Duration) error
}

// ScriptLoader returns the source of a cue script.
type ScriptLoader func(path string) ([]byte, error)

// CueSystem runs every CueScript once per tick. A script must define
// `update := func(engine, state) { ... }`; state is a map that survives
// between ticks.
type CueSystem struct {
	handler CueHandler
	load    ScriptLoader
	log     zerolog.Logger

	cache map[ecs.Entity]*cueRuntime
}

type cueRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

const cueDispatchScript = `
update(__engine, __state)
`

func NewCueSystem(handler CueHandler, load ScriptLoader, log zerolog.Logger) *CueSystem {
	return &CueSystem{
		handler: handler,
		load:    load,
		log:     log,
		cache:   make(map[ecs.Entity]*cueRuntime),
	}
}

// Invalidate drops compiled scripts whose path matches, or every script when
// path is empty. They are recompiled on the next tick with fresh state.
func (c *CueSystem) Invalidate(path string) {
	if c == nil {
		return
	}
	for ent, rt := range c.cache {
		if path == "" || rt.path == path || strings.HasSuffix(path, rt.path) {
			delete(c.cache, ent)
		}
	}
}

func (c *CueSystem) Update(w *ecs.World) {
	if c == nil || w == nil || c.handler == nil || c.load == nil {
		return
	}

	for ent := range c.cache {
		if !ecs.Has(w, ent, component.CueScriptComponent.Kind()) {
			delete(c.cache, ent)
		}
	}

	ecs.ForEach(w, component.CueScriptComponent.Kind(), func(e ecs.Entity, cue *component.CueScript) {
		rt, err := c.runtime(e, cue)
		if err != nil {
			c.log.Warn().Err(err).Str("script", cue.Path).Stringer("entity", e).Msg("cue: load script")
			return
		}
		if err := rt.run(buildCueEngine(w, e, c.handler, c.log)); err != nil {
			c.log.Warn().Err(err).Str("script", cue.Path).Stringer("entity", e).Msg("cue: update")
		}
	})
}

func (c *CueSystem) runtime(e ecs.Entity, cue *component.CueScript) (*cueRuntime, error) {
	path := strings.TrimSpace(cue.Path)
	if path == "" {
		return nil, fmt.Errorf("empty script path")
	}
	if rt, ok := c.cache[e]; ok && rt.path == path {
		return rt, nil
	}

	src, err := c.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + cueDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	rt := &cueRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	c.cache[e] = rt
	return rt, nil
}

// run executes one update. tengo panics on Go runtime errors such as integer
// division by zero; those come back as errors.
func (rt *cueRuntime) run(engine *tengo.ImmutableMap) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cue script panicked: %v", r)
		}
	}()

	if err = rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err = rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildCueEngine(w *ecs.World, self ecs.Entity, h CueHandler, log zerolog.Logger) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	report := func(fn string, err error) tengo.Object {
		if err != nil {
			log.Warn().Err(err).Str("fn", fn).Stringer("entity", self).Msg("cue: request failed")
			return tengo.FalseValue
		}
		return tengo.TrueValue
	}

	values["now"] = &tengo.UserFunction{Name: "now", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: Now(w).Seconds()}, nil
	}}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var tick uint64
		if clock := Clock(w); clock != nil {
			tick = clock.Tick
		}
		return &tengo.Int{Value: int64(tick)}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var pos common.Vec3
		if t, ok := ecs.Get(w, self, component.TransformComponent.Kind()); ok {
			pos = t.Position()
		}
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: pos.X},
			&tengo.Float{Value: pos.Y},
			&tengo.Float{Value: pos.Z},
		}}, nil
	}}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return report("play", h.PlayCue(objectAsString(args[0]), argSeconds(args, 1))), nil
	}}

	values["play_at"] = &tengo.UserFunction{Name: "play_at", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return tengo.FalseValue, nil
		}
		pos := common.Vec3{X: argFloat(args, 1), Y: argFloat(args, 2), Z: argFloat(args, 3)}
		return report("play_at", h.PlayCueAt(objectAsString(args[0]), pos, argSeconds(args, 4))), nil
	}}

	values["play_here"] = &tengo.UserFunction{Name: "play_here", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return report("play_here", h.PlayCueParented(objectAsString(args[0]), self, common.Vec3{}, argSeconds(args, 1))), nil
	}}

	values["play_looping"] = &tengo.UserFunction{Name: "play_looping", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return tengo.FalseValue, nil
		}
		slot := argFloat(args, 2)
		if slot < 0 {
			return tengo.FalseValue, nil
		}
		return report("play_looping", h.PlayCueLooping(objectAsString(args[0]), argSeconds(args, 1), uint32(slot), argSeconds(args, 3))), nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return strings.TrimSpace(v.Value)
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func argFloat(args []tengo.Object, i int) float64 {
	if i >= len(args) {
		return 0
	}
	f, ok := tengo.ToFloat64(args[i])
	if !ok {
		return 0
	}
	return f
}

func argSeconds(args []tengo.Object, i int) time.Duration {
	return time.Duration(argFloat(args, i) * float64(time.Second))
}
