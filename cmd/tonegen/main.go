// Command tonegen writes the synthesized WAV clips embedded by package
// assets.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

func main() {
	out := flag.String("out", "assets/sfx", "output directory")
	rate := flag.Int("rate", 22050, "sample rate")
	only := flag.String("only", "", "generate a single tone by name")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *out).Msg("create output dir")
	}

	for _, t := range tones {
		if *only != "" && t.name != *only {
			continue
		}
		path := filepath.Join(*out, t.name+".wav")
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("create file")
		}
		if err := writeTone(f, t, *rate); err != nil {
			_ = f.Close()
			log.Fatal().Err(err).Str("path", path).Msg("write tone")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("close file")
		}
		log.Info().Str("path", path).Dur("length", t.length).Msg("wrote tone")
	}
}
