package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/soundpool/assets"
	"github.com/milk9111/soundpool/prefabs"
	"github.com/milk9111/soundpool/sound"
	"github.com/milk9111/soundpool/voice/ebitenvoice"
	"github.com/rs/zerolog"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	capacity := flag.Int("capacity", 0, "override the pool capacity from sound.yaml")
	persist := flag.Bool("persist", false, "keep channels across scene reloads")
	watch := flag.Bool("watch", true, "hot reload prefabs/ and assets/ from disk")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	spec, err := prefabs.LoadSoundSpec()
	if err != nil {
		log.Fatal().Err(err).Msg("load sound spec")
	}
	if *capacity > 0 {
		spec.Capacity = *capacity
	}
	if *persist {
		spec.PersistAcrossReload = true
	}

	factory := ebitenvoice.NewFactory(audio.NewContext(assets.SampleRate))
	factory.SetRolloff(spec.Rolloff)
	factory.OnError(func(err error) {
		log.Warn().Err(err).Msg("voice error")
	})

	bank, err := assets.LoadBank(context.Background(), bankEntries(spec), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("load bank")
	}

	manager, err := sound.NewManager(sound.Options{
		Config:   managerConfig(spec),
		Factory:  factory,
		Bank:     bank,
		Logger:   &log,
		Scripts:  prefabs.LoadScript,
		GravityY: spec.GravityY,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create sound manager")
	}
	defer manager.Close()

	var watcher *prefabs.Watcher
	if *watch {
		watcher, err = prefabs.NewWatcher(existingDirs("prefabs", "prefabs/scripts", "assets/sfx")...)
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("soundpool")
	ebiten.SetTPS(manager.Config().TickRate)

	game := NewGame(manager, spec, watcher, log)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}

func existingDirs(dirs ...string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out = append(out, dir)
		}
	}
	return out
}
