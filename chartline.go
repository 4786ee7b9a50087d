// Package chartline loads tile-path rhythm charts, resolves them into a
// time-addressable timeline and answers point-in-time queries about tiles,
// camera, tempo and hit timing.
package chartline

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
	"github.com/cbegin/chartline-go/internal/judge"
	"github.com/cbegin/chartline-go/internal/timeline"
)

type (
	Chart           = chart.Chart
	Settings        = chart.Settings
	Event           = event.Event
	Vec2            = event.Vec2
	Timeline        = timeline.Timeline
	TileRenderState = timeline.TileRenderState
	CameraPose      = timeline.CameraPose
	Difficulty      = judge.Difficulty
	Margin          = judge.Margin
	Tally           = judge.Tally
)

const (
	Lenient = judge.Lenient
	Normal  = judge.Normal
	Strict  = judge.Strict
)

const (
	TooEarly     = judge.TooEarly
	VeryEarly    = judge.VeryEarly
	EarlyPerfect = judge.EarlyPerfect
	Perfect      = judge.Perfect
	LatePerfect  = judge.LatePerfect
	VeryLate     = judge.VeryLate
	TooLate      = judge.TooLate
)

var (
	ErrMalformedDocument    = chart.ErrMalformedDocument
	ErrMissingRequiredField = chart.ErrMissingRequiredField
	ErrUnknownEnumValue     = chart.ErrUnknownEnumValue
	ErrIndexOutOfRange      = event.ErrIndexOutOfRange
	ErrQueryBeforeResolve   = timeline.ErrQueryBeforeResolve
	ErrStaleTimeline        = timeline.ErrStaleTimeline
)

type Option func(*config)

type config struct {
	timeline timeline.Options
	logger   *slog.Logger
}

func defaultConfig() config {
	return config{timeline: timeline.DefaultOptions()}
}

// WithEditorMode applies editor-only track offsets, as the editor shows them.
func WithEditorMode(enabled bool) Option {
	return func(cfg *config) {
		cfg.timeline.EditorMode = enabled
	}
}

// WithLogger overrides the package logger for one timeline.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

func WithChaseRate(rate float64) Option {
	return func(cfg *config) {
		cfg.timeline.ChaseRate = rate
	}
}

// WithStrict makes Resolve fail when a track event reaches outside the
// chain. Without it such ranges are clamped and reported by
// Timeline.Diagnostics.
func WithStrict(strict bool) Option {
	return func(cfg *config) {
		cfg.timeline.Strict = strict
	}
}

func WithLookAhead(fraction float64) Option {
	return func(cfg *config) {
		cfg.timeline.LookAhead = fraction
	}
}

// Load decodes a chart document.
func Load(data []byte) (*Chart, error) {
	c, err := chart.Decode(data)
	if err != nil {
		return nil, err
	}
	Logger().Debug("chart loaded", "tiles", c.TileCount(), "events", c.EventCount(), "bpm", c.Settings().BPM)
	return c, nil
}

func LoadFile(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chartline: %w", err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Resolve builds a timeline for c. After any edit to c the timeline rejects
// queries until its Resolve method is called again.
func Resolve(c *Chart, opts ...Option) (*Timeline, error) {
	if c == nil {
		return nil, fmt.Errorf("chartline: resolve nil chart")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.timeline.Logger = cfg.logger
	if cfg.timeline.Logger == nil {
		cfg.timeline.Logger = Logger()
	}
	return timeline.Resolve(c, cfg.timeline)
}

// Save encodes c with the schema Load reads.
func Save(c *Chart) ([]byte, error) {
	return chart.Encode(c)
}

func SaveFile(c *Chart, path string) error {
	data, err := Save(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("chartline: %w", err)
	}
	return nil
}

// HitMargin classifies an input at ms (from audio start) aimed at tile index.
func HitMargin(tl *Timeline, index int, ms float64, d Difficulty) (Margin, error) {
	return judge.HitMargin(tl, index, ms, d)
}
