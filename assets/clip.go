package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// SampleRate is the rate every clip is decoded to. The audio context that
// plays them must use the same rate.
const SampleRate = 44100

// 16-bit little endian stereo.
const bytesPerFrame = 4

var ErrUnsupportedFormat = errors.New("assets: unsupported audio format")

// Clip is decoded PCM ready for an ebiten player.
type Clip struct {
	name     string
	pcm      []byte
	duration time.Duration
}

// NewClip wraps already decoded PCM.
func NewClip(name string, pcm []byte) *Clip {
	frames := len(pcm) / bytesPerFrame
	return &Clip{
		name:     name,
		pcm:      pcm,
		duration: time.Duration(frames) * time.Second / SampleRate,
	}
}

func (c *Clip) Name() string            { return c.name }
func (c *Clip) Duration() time.Duration { return c.duration }
func (c *Clip) PCM() []byte             { return c.pcm }

// LoadClip loads and decodes an asset. The format is picked by extension.
func LoadClip(path string) (*Clip, error) {
	data, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load clip %q: %w", path, err)
	}
	return DecodeClip(path, data)
}

// DecodeClip decodes wav, ogg or mp3 data, or takes .pcm data as is.
func DecodeClip(name string, data []byte) (*Clip, error) {
	var (
		stream io.Reader
		err    error
	)
	reader := bytes.NewReader(data)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(SampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(SampleRate, reader)
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(SampleRate, reader)
	case ".pcm":
		stream = reader
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return NewClip(name, pcm), nil
}
