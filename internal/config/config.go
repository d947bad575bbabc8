// Package config holds the game's tunables. Defaults are the prototype's
// hardcoded values; a YAML file can override any subset.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Window Window `yaml:"window"`
	Assets Assets `yaml:"assets"`
	Log    Log    `yaml:"log"`
	Ship   Ship   `yaml:"ship"`
	Debug  bool   `yaml:"debug"`
}

type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// Assets.Dir, when set, replaces the embedded asset bundle with a directory.
type Assets struct {
	Dir string `yaml:"dir"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type Ship struct {
	Texture       string     `yaml:"texture"`
	Position      [3]float64 `yaml:"position"`
	Speed         [3]float64 `yaml:"speed"`
	Radius        float64    `yaml:"radius"`
	HalfSegment   float64    `yaml:"half_segment"`
	Friction      float64    `yaml:"friction"`
	Density       float64    `yaml:"density"`
	StopOnRelease bool       `yaml:"stop_on_release"`
}

// Default returns the prototype's hardcoded values.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "starship",
			TPS:    60,
		},
		Log: Log{
			Level:    "info",
			Encoding: "console",
		},
		Ship: Ship{
			Texture:     "ship.png",
			Position:    [3]float64{-480, 0, 0},
			Speed:       [3]float64{0, 128, 0},
			Radius:      18,
			HalfSegment: 8,
			Friction:    1.0,
			Density:     10.0,
		},
	}
}

// Load reads the YAML file at path over Default. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r over Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.Window.TPS)
	case c.Ship.Texture == "":
		return fmt.Errorf("%w: ship texture is empty", ErrInvalid)
	case c.Ship.Radius <= 0:
		return fmt.Errorf("%w: ship radius %v", ErrInvalid, c.Ship.Radius)
	case c.Ship.HalfSegment < 0:
		return fmt.Errorf("%w: ship half segment %v", ErrInvalid, c.Ship.HalfSegment)
	case c.Ship.Density <= 0:
		return fmt.Errorf("%w: ship density %v", ErrInvalid, c.Ship.Density)
	case c.Ship.Friction < 0:
		return fmt.Errorf("%w: ship friction %v", ErrInvalid, c.Ship.Friction)
	}

	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log encoding %q", ErrInvalid, c.Log.Encoding)
	}
	return nil
}
