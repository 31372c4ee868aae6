package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SoundSpec configures the sound manager, its bank and the scripted cue
// emitters of the demo scene.
type SoundSpec struct {
	Capacity            int             `yaml:"capacity"`
	PersistAcrossReload bool            `yaml:"persist_across_reload"`
	TickRate            int             `yaml:"tick_rate"`
	GravityY            float64         `yaml:"gravity_y"`
	Rolloff             float64         `yaml:"rolloff"`
	Listener            Vec3Spec        `yaml:"listener"`
	Bank                []BankEntrySpec `yaml:"bank"`
	Cues                []CueSpec       `yaml:"cues"`
	Mixer               MixerSpec       `yaml:"mixer"`
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type BankEntrySpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
	Pitch  float64 `yaml:"pitch"`
}

// CueSpec places a scripted emitter. A non-zero velocity, or Kinematic, gives
// it a physics body.
type CueSpec struct {
	Name      string  `yaml:"name"`
	Script    string  `yaml:"script"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VelocityX float64 `yaml:"velocity_x"`
	VelocityY float64 `yaml:"velocity_y"`
	Kinematic bool    `yaml:"kinematic"`
}

func (c CueSpec) Moving() bool {
	return c.Kinematic || c.VelocityX != 0 || c.VelocityY != 0
}

type MixerSpec struct {
	Background YAMLColor `yaml:"background"`
	Accent     YAMLColor `yaml:"accent"`
	Text       YAMLColor `yaml:"text"`
}

const SoundSpecFile = "sound.yaml"

func LoadSoundSpec() (*SoundSpec, error) {
	spec, err := LoadSpec[SoundSpec](SoundSpecFile)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", SoundSpecFile, err)
	}
	return &spec, nil
}

// Validate reports every problem in the spec at once.
func (s *SoundSpec) Validate() error {
	var errs []error
	if s.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity must not be negative, got %d", s.Capacity))
	}
	if s.TickRate < 0 {
		errs = append(errs, fmt.Errorf("tick_rate must not be negative, got %d", s.TickRate))
	}

	names := make(map[string]struct{}, len(s.Bank))
	for i, b := range s.Bank {
		switch {
		case b.Name == "":
			errs = append(errs, fmt.Errorf("bank[%d]: missing name", i))
		case b.File == "":
			errs = append(errs, fmt.Errorf("bank %q: missing file", b.Name))
		case b.Volume < 0 || b.Volume > 1:
			errs = append(errs, fmt.Errorf("bank %q: volume %v outside [0,1]", b.Name, b.Volume))
		}
		if _, dup := names[b.Name]; dup && b.Name != "" {
			errs = append(errs, fmt.Errorf("bank %q: defined twice", b.Name))
		}
		names[b.Name] = struct{}{}
	}

	cues := make(map[string]struct{}, len(s.Cues))
	for i, c := range s.Cues {
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("cues[%d]: missing name", i))
		}
		if c.Script == "" {
			errs = append(errs, fmt.Errorf("cue %q: missing script", c.Name))
		}
		if _, dup := cues[c.Name]; dup && c.Name != "" {
			errs = append(errs, fmt.Errorf("cue %q: defined twice", c.Name))
		}
		cues[c.Name] = struct{}{}
	}
	return errors.Join(errs...)
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed color, or fallback when the field was left out.
func (c YAMLColor) Or(fallback color.Color) color.Color {
	if c.Color == nil {
		return fallback
	}
	return c.Color
}
