package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/soundpool/assets"
	"github.com/milk9111/soundpool/common"
	"github.com/milk9111/soundpool/ecs"
	"github.com/milk9111/soundpool/ecs/component"
	"github.com/milk9111/soundpool/prefabs"
	"github.com/milk9111/soundpool/sound"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

// Keys 1-9 play the bank in name order at the mouse.
var cueKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

const (
	musicSlot = 2
	musicFade = 1500 * time.Millisecond
)

type Game struct {
	frames int
	paused bool

	manager *sound.Manager
	spec    *prefabs.SoundSpec
	bank    []string
	watcher *prefabs.Watcher
	log     zerolog.Logger

	emitters []emitter
	listener ecs.Entity

	mixer     *ebitenui.UI
	mixerView *mixerView
	snapshot  sound.Snapshot
	lastEvent string
	music     int

	clipboardOK bool
}

func NewGame(m *sound.Manager, spec *prefabs.SoundSpec, watcher *prefabs.Watcher, log zerolog.Logger) *Game {
	g := &Game{
		manager: m,
		spec:    spec,
		watcher: watcher,
		log:     log,
	}
	g.bank = bankNames(spec)
	g.buildScene()
	g.mixer, g.mixerView = NewMixerUI(g, spec.Mixer)

	if err := clipboard.Init(); err != nil {
		log.Warn().Err(err).Msg("clipboard unavailable")
	} else {
		g.clipboardOK = true
	}
	return g
}

func bankNames(spec *prefabs.SoundSpec) []string {
	names := make([]string, 0, len(spec.Bank))
	for _, b := range spec.Bank {
		names = append(names, b.Name)
	}
	return names
}

func (g *Game) buildScene() {
	_ = g.manager.WithWorld(func(w *ecs.World) {
		g.emitters, g.listener = buildScene(w, g.spec, g.emitters, g.listener)
	})
}

func (g *Game) Update() error {
	g.frames++
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}
	g.mixer.Update()
	if g.paused {
		return nil
	}

	g.handleInput()

	_ = g.manager.WithWorld(wrapEmitters)
	if err := g.manager.Update(); err != nil {
		return err
	}
	g.drainEvents()

	snap, err := g.manager.Snapshot()
	if err == nil {
		g.snapshot = snap
		g.mixerView.Refresh(snap, g.lastEvent)
	}
	return nil
}

func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	mouse := common.Vec3{X: float64(mx), Y: float64(my)}

	for i, key := range cueKeys {
		if i >= len(g.bank) || !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if err := g.manager.PlayCueAt(g.bank[i], &mouse, 0); err != nil {
			g.log.Warn().Err(err).Str("cue", g.bank[i]).Msg("play cue")
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && mx < common.BaseWidth-mixerWidth {
		if len(g.bank) > 0 {
			_ = g.manager.PlayCueAt(g.bank[0], &mouse, 0)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		g.nextMusic()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.playTest()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reloadScene()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySnapshot()
	}
}

// nextMusic crossfades the music slot to the next bank entry.
func (g *Game) nextMusic() {
	if len(g.bank) == 0 {
		return
	}
	g.music = (g.music + 1) % len(g.bank)
	name := g.bank[g.music]
	if err := g.manager.PlayCueLooping(name, musicFade, musicSlot, 0); err != nil {
		g.log.Warn().Err(err).Str("cue", name).Msg("music")
	}
}

func (g *Game) playTest() {
	if len(g.bank) == 0 {
		return
	}
	name := g.bank[len(g.bank)-1]
	clip, err := assets.LoadClip(g.specFile(name))
	if err != nil {
		g.log.Warn().Err(err).Str("cue", name).Msg("play test")
		return
	}
	if err := g.manager.PlayTest(sound.Content{Clip: clip, Volume: 1, Pitch: 1}); err != nil {
		g.log.Warn().Err(err).Msg("play test")
	}
}

func (g *Game) specFile(name string) string {
	for _, b := range g.spec.Bank {
		if b.Name == name {
			return b.File
		}
	}
	return ""
}

func (g *Game) reloadScene() {
	if err := g.manager.SceneReloaded(); err != nil {
		g.log.Warn().Err(err).Msg("scene reload")
	}
	g.buildScene()
	g.lastEvent = "scene reloaded"
}

func (g *Game) copySnapshot() {
	if !g.clipboardOK {
		g.lastEvent = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.snapshot.String()))
	g.lastEvent = "snapshot copied"
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	g.mixerView.SetPaused(g.paused)
}

func (g *Game) drainEvents() {
	for _, evt := range g.manager.World().Events().Drain() {
		switch data := evt.Data.(type) {
		case sound.ChannelEvicted:
			g.lastEvent = fmt.Sprintf("evicted %s (%s left)", data.Clip, data.Remaining.Round(10 * time.Millisecond))
		case sound.LoopSlotCreated:
			g.lastEvent = fmt.Sprintf("loop slot %d created", data.Slot)
		}
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err := <-g.watcher.Errors:
			g.log.Warn().Err(err).Msg("watcher")
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	g.log.Info().Str("path", change.Path).Stringer("kind", change.Kind).Msg("reloading")

	switch change.Kind {
	case prefabs.ChangeScript:
		_ = g.manager.InvalidateScript(prefabs.ScriptName(change.Path))
	case prefabs.ChangeSpec:
		spec, err := prefabs.LoadSoundSpec()
		if err != nil {
			g.log.Warn().Err(err).Msg("reload spec")
			return
		}
		g.spec = spec
		g.bank = bankNames(spec)
		if err := reloadBank(context.Background(), g.manager, spec); err != nil {
			g.log.Warn().Err(err).Msg("reload bank")
		}
		g.buildScene()
	case prefabs.ChangeClip:
		if err := reloadBank(context.Background(), g.manager, g.spec); err != nil {
			g.log.Warn().Err(err).Msg("reload bank")
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 0x11, G: 0x11, B: 0x1b, A: 0xff})

	w := g.manager.World()
	if t, ok := ecs.Get(w, g.listener, component.TransformComponent.Kind()); ok {
		vector.StrokeRect(screen, float32(t.X-10), float32(t.Y-10), 20, 20, 2, color.RGBA{G: 0xd0, B: 0xff, A: 0xff}, false)
	}
	for _, e := range g.emitters {
		t, ok := ecs.Get(w, e.ent, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		vector.FillRect(screen, float32(t.X-6), float32(t.Y-6), 12, 12, color.RGBA{R: 0xf9, G: 0xe2, B: 0xaf, A: 0xff}, false)
		ebitenutil.DebugPrintAt(screen, e.name, int(t.X)+10, int(t.Y)-8)
	}
	for _, ch := range g.snapshot.Pool {
		if ch.CompletionTime <= g.snapshot.Now {
			continue
		}
		vector.StrokeRect(screen, float32(ch.Position.X-4), float32(ch.Position.Y-4), 8, 8, 1, color.RGBA{R: 0xa6, G: 0xe3, B: 0xa1, A: 0xff}, false)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.1f  t=%s\n1-%d cue at mouse  M music  T test  R reload  C copy  P pause",
		ebiten.ActualFPS(), g.snapshot.Now.Round(10 * time.Millisecond), len(g.bank)))

	g.mixer.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
