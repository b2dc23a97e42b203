package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/prefab/internal/core/editmode"
	"github.com/zeusync/prefab/internal/core/input"
	"github.com/zeusync/prefab/internal/core/observability/log"
	"github.com/zeusync/prefab/internal/core/storage"
)

// Actions that can be bound to a key.
const (
	ActionTranslate = "translate"
	ActionRotate    = "rotate"
	ActionScale     = "scale"
	ActionAxisX     = "axis_x"
	ActionAxisY     = "axis_y"
	ActionAxisZ     = "axis_z"
	ActionFraction  = "fraction"
	ActionCommit    = "commit"
	ActionCamera    = "camera"
	ActionSave      = "save"
	// ActionModifier must be held for ActionSave to fire.
	ActionModifier = "modifier"
)

var actions = []string{
	ActionTranslate, ActionRotate, ActionScale,
	ActionAxisX, ActionAxisY, ActionAxisZ,
	ActionFraction, ActionCommit, ActionCamera, ActionSave, ActionModifier,
}

var ErrInvalid = errors.New("config: invalid")

// Config holds editor configuration
type Config struct {
	// Root is the directory the persisted files are resolved against.
	Root  string        `yaml:"root"`
	Paths storage.Files `yaml:"paths"`

	Log   Log   `yaml:"log"`
	Input Input `yaml:"input"`

	Bindings map[string]input.Key `yaml:"bindings"`

	// Assets lists the asset paths the headless loader can resolve.
	Assets []string `yaml:"assets"`
}

type Log struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Output   []string `yaml:"output"`
}

// Input tunes pointer drag.
type Input struct {
	Multiplier float32 `yaml:"multiplier"`
	Floor      float32 `yaml:"floor"`
	LineStep   float32 `yaml:"line_step"`
	PixelStep  float32 `yaml:"pixel_step"`
}

func Default() *Config {
	b := editmode.DefaultBindings()
	t := editmode.DefaultTuning()
	return &Config{
		Root:  ".",
		Paths: storage.DefaultFiles(),
		Log: Log{
			Level:    "info",
			Encoding: "console",
			Output:   []string{"stderr"},
		},
		Input: Input{
			Multiplier: t.Multiplier,
			Floor:      t.Floor,
			LineStep:   t.LineStep,
			PixelStep:  t.PixelStep,
		},
		Bindings: map[string]input.Key{
			ActionTranslate: b.Translate,
			ActionRotate:    b.Rotate,
			ActionScale:     b.Scale,
			ActionAxisX:     b.AxisX,
			ActionAxisY:     b.AxisY,
			ActionAxisZ:     b.AxisZ,
			ActionFraction:  b.Fraction,
			ActionCommit:    b.Commit,
			ActionCamera:    input.KeyQ,
			ActionSave:      input.KeyS,
			ActionModifier:  input.KeyLControl,
		},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// LoadYAML loads config from YAML reader. Keys absent from r keep their defaults.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges and that every action has a distinct key.
func (c *Config) Validate() error {
	var errs []error
	if c.Paths.Scene == "" || c.Paths.Bundles == "" || c.Paths.Properties == "" {
		errs = append(errs, fmt.Errorf("%w: every file path must be set", ErrInvalid))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%w: log encoding %q", ErrInvalid, c.Log.Encoding))
	}
	if c.Input.Floor <= 0 {
		errs = append(errs, fmt.Errorf("%w: input floor must be positive", ErrInvalid))
	}
	if c.Input.Multiplier < c.Input.Floor {
		errs = append(errs, fmt.Errorf("%w: input multiplier below floor", ErrInvalid))
	}
	if c.Input.LineStep <= 0 || c.Input.PixelStep <= 0 {
		errs = append(errs, fmt.Errorf("%w: wheel steps must be positive", ErrInvalid))
	}

	known := make(map[string]bool, len(actions))
	for _, a := range actions {
		known[a] = true
		if c.Bindings[a] == "" {
			errs = append(errs, fmt.Errorf("%w: action %q is not bound", ErrInvalid, a))
		}
	}
	for a := range c.Bindings {
		if !known[a] {
			errs = append(errs, fmt.Errorf("%w: unknown action %q", ErrInvalid, a))
		}
	}
	// scale and save share S in the default layout; save also needs the modifier
	seen := make(map[input.Key]string)
	for _, a := range []string{ActionTranslate, ActionRotate, ActionScale, ActionAxisX, ActionAxisY, ActionAxisZ, ActionFraction, ActionCommit, ActionCamera} {
		k := c.Bindings[a]
		if k == "" {
			continue
		}
		if prev, ok := seen[k]; ok {
			errs = append(errs, fmt.Errorf("%w: %s and %s both bound to %s", ErrInvalid, prev, a, k))
		}
		seen[k] = a
	}
	return errors.Join(errs...)
}

// EditBindings returns the edit machine key map.
func (c *Config) EditBindings() editmode.Bindings {
	return editmode.Bindings{
		Translate: c.Bindings[ActionTranslate],
		Rotate:    c.Bindings[ActionRotate],
		Scale:     c.Bindings[ActionScale],
		AxisX:     c.Bindings[ActionAxisX],
		AxisY:     c.Bindings[ActionAxisY],
		AxisZ:     c.Bindings[ActionAxisZ],
		Fraction:  c.Bindings[ActionFraction],
		Commit:    c.Bindings[ActionCommit],
	}
}

// Tuning returns the pointer drag parameters.
func (c *Config) Tuning() editmode.Tuning {
	return editmode.Tuning{
		Multiplier: c.Input.Multiplier,
		Floor:      c.Input.Floor,
		LineStep:   c.Input.LineStep,
		PixelStep:  c.Input.PixelStep,
	}
}

// LogOptions converts the log section for log.New.
func (c *Config) LogOptions() (log.Options, error) {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.Options{}, err
	}
	return log.Options{Level: level, Encoding: c.Log.Encoding, Output: c.Log.Output}, nil
}
