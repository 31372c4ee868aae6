package sound

import "github.com/milk9111/soundpool/voice"

// Content is what a provider hands the manager: which clip to play and at
// what volume and pitch.
type Content struct {
	Clip   voice.Clip
	Volume float64
	Pitch  float64
}

// Content lets a literal Content be used wherever a Provider is expected.
func (c Content) Content() (Content, error) {
	if c.Clip == nil {
		return Content{}, ErrNoContent
	}
	return c, nil
}

// Provider decides what to play. It is asked once per request, when the
// request is made rather than when a delayed request fires.
type Provider interface {
	Content() (Content, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() (Content, error)

func (f ProviderFunc) Content() (Content, error) {
	return f()
}

// Bank resolves cue names to providers.
type Bank interface {
	Lookup(name string) (Provider, bool)
}

// MapBank is a fixed name to provider table.
type MapBank map[string]Provider

func (b MapBank) Lookup(name string) (Provider, bool) {
	p, ok := b[name]
	return p, ok
}
