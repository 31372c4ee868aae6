// Package sound implements a pooled audio channel manager: one-shot requests
// share a bounded pool with time-to-completion eviction, looping requests
// crossfade inside keyed two-channel slots, and everything is driven by a
// simulation tick.
package sound

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/ecs/system"
	"github.com/milk9111/soundpool/voice"
	"github.com/rs/zerolog"
)

// Event types pushed onto the world event queue.
const (
	EventChannelEvicted  = "sound.channel_evicted"
	EventLoopSlotCreated = "sound.loop_slot_created"
)

// ChannelEvicted is the payload of EventChannelEvicted.
type ChannelEvicted struct {
	Channel   ecs.Entity
	Clip      string
	Remaining time.Duration
}

// LoopSlotCreated is the payload of EventLoopSlotCreated.
type LoopSlotCreated struct {
	Slot uint32
}

type Options struct {
	Config  Config
	Factory voice.Factory
	Bank    Bank
	Logger  *zerolog.Logger
	// Scripts loads cue scripts. Without it CueScript entities are ignored.
	Scripts system.ScriptLoader
	// GravityY is applied to origins with a PhysicsBody.
	GravityY float64
}

// Manager owns the channel pool, the loop slots and the world they live in.
// All methods are safe for concurrent use; the tick and every request are
// serialized behind one lock.
type Manager struct {
	mu sync.Mutex

	cfg       Config
	world     *ecs.World
	scheduler *ecs.Scheduler
	factory   voice.Factory
	bank      Bank
	log       zerolog.Logger

	pool    *pool
	loops   *loopRegistry
	cues    *system.CueSystem
	physics *system.PhysicsSystem

	closed bool
}

func NewManager(opts Options) (*Manager, error) {
	if opts.Factory == nil {
		return nil, ErrNoFactory
	}
	cfg := opts.Config.normalized()

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = opts.Logger.With().Str("component", "sound").Logger()
	}

	w := ecs.NewWorld()
	if _, err := system.NewClock(w, cfg.TickStep()); err != nil {
		return nil, fmt.Errorf("sound: create clock: %w", err)
	}

	var listener voice.Listener
	if l, ok := opts.Factory.(voice.Listener); ok {
		listener = l
		l.SetListener(cfg.Listener)
	}

	m := &Manager{
		cfg:     cfg,
		world:   w,
		factory: opts.Factory,
		bank:    opts.Bank,
		log:     log,
		pool:    newPool(cfg.Capacity),
		loops:   newLoopRegistry(),
		physics: system.NewPhysicsSystem(opts.GravityY),
	}
	m.cues = system.NewCueSystem(cueRouter{m: m}, opts.Scripts, log)
	m.scheduler = ecs.NewScheduler(
		system.NewClockSystem(),
		m.cues,
		system.NewDelaySystem(),
		m.physics,
		system.NewPositionSystem(listener),
		system.NewFadeSystem(),
		system.NewTTLSystem(),
	)

	log.Info().
		Int("capacity", cfg.Capacity).
		Int("tick_rate", cfg.TickRate).
		Bool("persist_across_reload", cfg.PersistAcrossReload).
		Msg("sound manager ready")
	return m, nil
}

func (m *Manager) lock() error {
	if m == nil {
		return ErrNotInitialized
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrNotInitialized
	}
	return nil
}

// Config returns the normalized configuration.
func (m *Manager) Config() Config {
	if m == nil {
		return Config{}
	}
	return m.cfg
}

// World exposes the world so callers can add origins, the listener and cue
// scripts. It must only be touched from the goroutine that calls Update, or
// inside WithWorld.
func (m *Manager) World() *ecs.World {
	if m == nil {
		return nil
	}
	return m.world
}

// WithWorld runs fn with the manager locked.
func (m *Manager) WithWorld(fn func(w *ecs.World)) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	fn(m.world)
	return nil
}

// Now returns the current simulation time.
func (m *Manager) Now() time.Duration {
	if err := m.lock(); err != nil {
		return 0
	}
	defer m.mu.Unlock()
	return system.Now(m.world)
}

// Update advances one tick of 1/TickRate.
func (m *Manager) Update() error {
	if m == nil {
		return ErrNotInitialized
	}
	return m.Advance(m.cfg.TickStep())
}

// Advance runs one tick covering dt of simulated time: the clock moves, cue
// scripts run, due delayed requests fire, origins move, channels follow them
// and fades step.
func (m *Manager) Advance(dt time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	if clock := system.Clock(m.world); clock != nil {
		clock.Step = dt
	}
	m.scheduler.Update(m.world)
	return nil
}

// SetBank replaces the bank used by the name-based requests.
func (m *Manager) SetBank(b Bank) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.bank = b
	return nil
}

// InvalidateScript forces cue scripts loaded from path to recompile. An empty
// path invalidates all of them.
func (m *Manager) InvalidateScript(path string) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	m.cues.Invalidate(path)
	return nil
}

// Play starts content with no spatialization.
func (m *Manager) Play(p Provider, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.play(p, delay)
}

// PlayPositional starts fully spatialized content fixed at pos.
func (m *Manager) PlayPositional(p Provider, pos common.Vec3, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.playPositional(p, pos, delay)
}

// PlayParented starts fully spatialized content that follows origin at offset
// for as long as origin lives.
func (m *Manager) PlayParented(p Provider, origin ecs.Entity, offset common.Vec3, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.playParented(p, origin, offset, delay)
}

// PlayLooping crossfades loop slot to the provider's content over fade.
func (m *Manager) PlayLooping(p Provider, fade time.Duration, slot uint32, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	return m.playLooping(p, fade, slot, delay)
}

func (m *Manager) PlayCue(name string, delay time.Duration) error {
	return m.PlayCueAt(name, nil, delay)
}

// PlayCueAt plays a bank cue. A nil pos plays it unspatialized.
func (m *Manager) PlayCueAt(name string, pos *common.Vec3, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	p, err := m.lookup(name)
	if err != nil {
		return err
	}
	if pos == nil {
		return m.play(p, delay)
	}
	return m.playPositional(p, *pos, delay)
}

func (m *Manager) PlayCueParented(name string, origin ecs.Entity, offset common.Vec3, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	p, err := m.lookup(name)
	if err != nil {
		return err
	}
	return m.playParented(p, origin, offset, delay)
}

func (m *Manager) PlayCueLooping(name string, fade time.Duration, slot uint32, delay time.Duration) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()
	p, err := m.lookup(name)
	if err != nil {
		return err
	}
	return m.playLooping(p, fade, slot, delay)
}

// PlayTest plays content on a channel outside the pool and releases it once
// the clip's duration has elapsed. It is meant for auditioning clips.
func (m *Manager) PlayTest(c Content) error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()

	if c.Clip == nil {
		return ErrNoContent
	}
	ent, err := newChannel(m.world, m.factory, false)
	if err != nil {
		return fmt.Errorf("sound: play test: %w", err)
	}
	ch, _ := ecs.Get(m.world, ent, component.ChannelComponent.Kind())
	ch.CompletionTime = system.Now(m.world) + c.Clip.Duration()
	ch.Voice.SetClip(c.Clip)
	ch.Voice.SetVolume(c.Volume)
	ch.Voice.SetPitch(c.Pitch)
	ch.Voice.SetLoop(false)
	ch.Voice.Play()

	return ecs.Add(m.world, ent, component.TTLComponent.Kind(), &component.TTL{Remaining: c.Clip.Duration()})
}

// SceneReloaded tells the manager the host scene was replaced. Unless the
// manager persists across reloads, every channel, loop slot and pending
// delayed request is released.
func (m *Manager) SceneReloaded() error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()

	if m.cfg.PersistAcrossReload {
		m.log.Debug().Msg("scene reloaded, keeping channels")
		return nil
	}
	err := m.reset()
	m.log.Info().Msg("scene reloaded, channels released")
	return err
}

// Close releases every voice. Any later call returns ErrNotInitialized.
func (m *Manager) Close() error {
	if err := m.lock(); err != nil {
		return err
	}
	defer m.mu.Unlock()

	err := m.reset()
	m.closed = true
	return err
}

func (m *Manager) reset() error {
	var errs []error
	ecs.ForEach(m.world, component.ChannelComponent.Kind(), func(e ecs.Entity, _ *component.Channel) {
		if err := releaseChannel(m.world, e); err != nil {
			errs = append(errs, err)
		}
	})
	ecs.ForEach(m.world, component.LoopSlotComponent.Kind(), func(e ecs.Entity, _ *component.LoopSlot) {
		ecs.DestroyEntity(m.world, e)
	})
	ecs.ForEach(m.world, component.DelayedRequestComponent.Kind(), func(e ecs.Entity, _ *component.DelayedRequest) {
		ecs.DestroyEntity(m.world, e)
	})
	m.pool.clear()
	m.loops.clear()
	m.cues.Invalidate("")
	return errors.Join(errs...)
}

func (m *Manager) lookup(name string) (Provider, error) {
	if m.bank == nil {
		return nil, fmt.Errorf("%w: %q (no bank)", ErrUnknownCue, name)
	}
	p, ok := m.bank.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCue, name)
	}
	return p, nil
}

// The unexported request paths assume the lock is held. Delayed actions run
// from inside Advance, so they must use these and never the exported ones.

func (m *Manager) play(p Provider, delay time.Duration) error {
	return m.submit("play", p, delay, func(c Content) error {
		return m.playOneShot(c, placement{})
	})
}

func (m *Manager) playPositional(p Provider, pos common.Vec3, delay time.Duration) error {
	return m.submit("play_positional", p, delay, func(c Content) error {
		return m.playOneShot(c, placement{blend: 1, offset: pos})
	})
}

func (m *Manager) playParented(p Provider, origin ecs.Entity, offset common.Vec3, delay time.Duration) error {
	return m.submit("play_parented", p, delay, func(c Content) error {
		return m.playOneShot(c, placement{blend: 1, origin: origin, hasOrigin: true, offset: offset})
	})
}

func (m *Manager) playLooping(p Provider, fade time.Duration, slot uint32, delay time.Duration) error {
	return m.submit("play_looping", p, delay, func(c Content) error {
		created, err := m.loops.play(m.world, m.factory, slot, c, fade)
		if err != nil {
			return fmt.Errorf("sound: loop slot %d: %w", slot, err)
		}
		if created {
			m.log.Debug().Uint32("slot", slot).Msg("loop slot created")
			m.world.Events().Push(ecs.Event{Type: EventLoopSlotCreated, Data: LoopSlotCreated{Slot: slot}})
		}
		return nil
	})
}

// submit resolves content now and runs the request after delay. Errors from
// an immediate request are returned; errors from a delayed one are logged
// when it fires.
func (m *Manager) submit(label string, p Provider, delay time.Duration, run func(Content) error) error {
	c, ok := m.resolve(label, p)
	if !ok {
		return nil
	}

	var runErr error
	system.Schedule(m.world, label, delay, func() {
		err := run(c)
		if err == nil {
			return
		}
		if delay <= 0 {
			runErr = err
			return
		}
		m.log.Warn().Err(err).Str("request", label).Msg("delayed request failed")
	})
	return runErr
}

func (m *Manager) resolve(label string, p Provider) (Content, bool) {
	if p == nil {
		m.log.Warn().Str("request", label).Msg("request without provider skipped")
		return Content{}, false
	}
	c, err := p.Content()
	if err == nil && c.Clip == nil {
		err = ErrNoContent
	}
	if err != nil {
		m.log.Warn().Err(err).Str("request", label).Msg("request skipped")
		return Content{}, false
	}
	return c, true
}

func (m *Manager) playOneShot(c Content, at placement) error {
	now := system.Now(m.world)
	ent, evicted, err := m.pool.acquire(m.world, m.factory, now)
	if err != nil {
		return fmt.Errorf("sound: acquire channel: %w", err)
	}

	if evicted {
		ch, _ := ecs.Get(m.world, ent, component.ChannelComponent.Kind())
		info := ChannelEvicted{Channel: ent, Clip: clipName(ch.Voice), Remaining: ch.CompletionTime - now}
		m.log.Debug().
			Stringer("channel", ent).
			Str("clip", info.Clip).
			Dur("remaining", info.Remaining).
			Msg("evicting channel")
		m.world.Events().Push(ecs.Event{Type: EventChannelEvicted, Data: info})
	}

	configure(m.world, ent, c, at, now)
	m.pool.resort(m.world, ent)
	return nil
}

// cueRouter forwards cue script requests. Scripts run inside Advance, which
// already holds the lock.
type cueRouter struct {
	m *Manager
}

func (r cueRouter) PlayCue(name string, delay time.Duration) error {
	p, err := r.m.lookup(name)
	if err != nil {
		return err
	}
	return r.m.play(p, delay)
}

func (r cueRouter) PlayCueAt(name string, pos common.Vec3, delay time.Duration) error {
	p, err := r.m.lookup(name)
	if err != nil {
		return err
	}
	return r.m.playPositional(p, pos, delay)
}

func (r cueRouter) PlayCueParented(name string, origin ecs.Entity, offset common.Vec3, delay time.Duration) error {
	p, err := r.m.lookup(name)
	if err != nil {
		return err
	}
	return r.m.playParented(p, origin, offset, delay)
}

func (r cueRouter) PlayCueLooping(name string, fade time.Duration, slot uint32, delay time.Duration) error {
	p, err := r.m.lookup(name)
	if err != nil {
		return err
	}
	return r.m.playLooping(p, fade, slot, delay)
}
