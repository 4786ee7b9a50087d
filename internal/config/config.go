package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/judge"
)

// Config is the settings file shared by the command-line tools.
type Config struct {
	Difficulty string        `yaml:"difficulty"`
	EditorMode bool          `yaml:"editor_mode"`
	Camera     CameraConfig  `yaml:"camera"`
	Track      TrackConfig   `yaml:"track"`
	Sample     SampleConfig  `yaml:"sample"`
	Preview    PreviewConfig `yaml:"preview"`
}

type CameraConfig struct {
	ChaseRate float64 `yaml:"chase_rate"`
	LookAhead float64 `yaml:"look_ahead"`
}

// TrackConfig overrides the chart's own fade windows when set.
type TrackConfig struct {
	BeatsAhead  *float64 `yaml:"beats_ahead"`
	BeatsBehind *float64 `yaml:"beats_behind"`
}

type SampleConfig struct {
	FPS     int     `yaml:"fps"`
	Seconds float64 `yaml:"seconds"`
}

type PreviewConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	TileSize   float64 `yaml:"tile_size"`
	Metronome  bool    `yaml:"metronome"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

func DefaultConfig() Config {
	return Config{
		Difficulty: judge.Normal.String(),
		Camera: CameraConfig{
			ChaseRate: 6,
			LookAhead: 0.25,
		},
		Sample: SampleConfig{
			FPS:     60,
			Seconds: 10,
		},
		Preview: PreviewConfig{
			Width:      960,
			Height:     540,
			TileSize:   48,
			Metronome:  true,
			SampleRate: 48000,
			Volume:     0.4,
		},
	}
}

// Load reads path over the defaults. Fields the file leaves out keep their
// default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := c.JudgeDifficulty(); err != nil {
		return err
	}
	if c.Camera.ChaseRate <= 0 {
		return errors.New("camera.chase_rate must be positive")
	}
	if c.Sample.FPS <= 0 {
		return errors.New("sample.fps must be positive")
	}
	if c.Preview.SampleRate <= 0 {
		return errors.New("preview.sample_rate must be positive")
	}
	return nil
}

func (c Config) JudgeDifficulty() (judge.Difficulty, error) {
	d, ok := judge.ParseDifficulty(c.Difficulty)
	if !ok {
		return 0, fmt.Errorf("unknown difficulty %q", c.Difficulty)
	}
	return d, nil
}

// ApplyTrack writes the fade overrides into s.
func (c Config) ApplyTrack(s *chart.Settings) {
	if c.Track.BeatsAhead != nil {
		s.BeatsAhead = *c.Track.BeatsAhead
	}
	if c.Track.BeatsBehind != nil {
		s.BeatsBehind = *c.Track.BeatsBehind
	}
}
