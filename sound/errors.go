package sound

import "errors"

var (
	// ErrNotInitialized is returned by every request on a nil or closed
	// Manager.
	ErrNotInitialized = errors.New("sound: manager not initialized")
	// ErrNoContent marks a provider that could not supply playable content.
	// Requests that hit it are skipped, not failed.
	ErrNoContent = errors.New("sound: no content available")
	// ErrUnknownCue is returned by name-based requests for a name the bank
	// does not know.
	ErrUnknownCue = errors.New("sound: unknown cue")
	// ErrNoFactory is returned by NewManager without a voice factory.
	ErrNoFactory = errors.New("sound: voice factory is nil")
)
