package assets

import (
	"context"
	"fmt"
	"sort"

	"github.com/milk9111/soundpool/sound"
	"golang.org/x/sync/errgroup"
)

// maxDecoders bounds how many clips decode at once.
const maxDecoders = 4

// Entry names one bank sound. Zero volume or pitch mean 1.
type Entry struct {
	Name   string
	File   string
	Volume float64
	Pitch  float64
}

// Bank maps cue names to decoded clips with a fixed volume and pitch.
type Bank struct {
	entries map[string]sound.Content
}

// Loader returns the bytes of a bank file.
type Loader func(path string) ([]byte, error)

// LoadBank decodes every entry concurrently. Any failure fails the whole
// bank. A nil loader reads through LoadFile.
func LoadBank(ctx context.Context, entries []Entry, load Loader) (*Bank, error) {
	if load == nil {
		load = LoadFile
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("bank entry for %q has no name", e.File)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("bank entry %q defined twice", e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	clips := make([]*Clip, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDecoders)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := load(e.File)
			if err != nil {
				return fmt.Errorf("bank %q: %w", e.Name, err)
			}
			clip, err := DecodeClip(e.File, data)
			if err != nil {
				return fmt.Errorf("bank %q: %w", e.Name, err)
			}
			clips[i] = clip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &Bank{entries: make(map[string]sound.Content, len(entries))}
	for i, e := range entries {
		b.entries[e.Name] = sound.Content{
			Clip:   clips[i],
			Volume: orOne(e.Volume),
			Pitch:  orOne(e.Pitch),
		}
	}
	return b, nil
}

func (b *Bank) Lookup(name string) (sound.Provider, bool) {
	if b == nil {
		return nil, false
	}
	c, ok := b.entries[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// Content returns the content stored under name.
func (b *Bank) Content(name string) (sound.Content, bool) {
	if b == nil {
		return sound.Content{}, false
	}
	c, ok := b.entries[name]
	return c, ok
}

// Names returns every cue name in sorted order.
func (b *Bank) Names() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.entries))
	for name := range b.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
