package chart

import (
	"fmt"
	"math"
	"slices"

	"github.com/cbegin/chartline-go/internal/event"
)

// Settings are the chart-wide defaults. They never change while a timeline
// is being resolved.
type Settings struct {
	Version    int
	Artist     string
	Song       string
	Author     string
	Difficulty int

	BPM    float64
	Offset float64 // ms from audio start to beat 0
	Pitch  float64 // percent

	TrackColorType    event.TrackColorType
	TrackColor        event.Color
	SecondaryColor    event.Color
	TrackAnimDuration float64
	TrackStyle        event.TrackStyle
	TrackAppear       event.AppearAnimation
	BeatsAhead        float64
	TrackDisappear    event.DisappearAnimation
	BeatsBehind       float64
	StickToFloors     bool

	CameraFrame    event.CameraFrame
	CameraPosition event.Vec2
	CameraRotation float64
	CameraZoom     float64

	// raw is the settings object as read, so fields this package does not
	// model survive a save.
	raw string
}

// DefaultSettings mirrors what the editor writes into a new chart.
func DefaultSettings() Settings {
	return Settings{
		Version:           15,
		BPM:               100,
		Pitch:             100,
		TrackColorType:    event.ColorSingle,
		TrackColor:        event.Color{R: 0xde, G: 0xbb, B: 0x7b, A: 0xff},
		SecondaryColor:    event.White,
		TrackAnimDuration: 2,
		TrackStyle:        event.StyleStandard,
		TrackAppear:       event.AppearNone,
		BeatsAhead:        3,
		TrackDisappear:    event.DisappearNone,
		BeatsBehind:       4,
		CameraFrame:       event.FramePlayer,
		CameraZoom:        100,
	}
}

// Chart is the document model. It owns the angle chain and the author
// events; every structural edit bumps the revision so timelines resolved
// from an older state can detect it.
type Chart struct {
	settings Settings
	angles   []float64
	events   []event.Event
	revision uint64
}

// New returns a chart with tiles for the given angles (tile 0, the origin,
// is implicit) and no events.
func New(settings Settings, angles []float64) *Chart {
	return &Chart{settings: settings, angles: slices.Clone(angles)}
}

func (c *Chart) Settings() Settings { return c.settings }

// UpdateSettings applies fn to the settings and invalidates resolved
// timelines.
func (c *Chart) UpdateSettings(fn func(*Settings)) {
	fn(&c.settings)
	c.revision++
}

func (c *Chart) Revision() uint64 { return c.revision }

// TileCount includes the origin tile.
func (c *Chart) TileCount() int { return len(c.angles) + 1 }

// Angle returns the angle of tile i. The origin faces 0 degrees.
func (c *Chart) Angle(i int) float64 {
	if i <= 0 || i > len(c.angles) {
		return 0
	}
	return c.angles[i-1]
}

// Angles returns a copy of the angles of tiles 1..N-1.
func (c *Chart) Angles() []float64 { return slices.Clone(c.angles) }

// Events returns copies of the author events in document order.
func (c *Chart) Events() []event.Event {
	out := make([]event.Event, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Clone()
	}
	return out
}

func (c *Chart) EventCount() int { return len(c.events) }

// SetAngle changes the angle of tile floor (>= 1).
func (c *Chart) SetAngle(floor int, angle float64) error {
	if floor < 1 || floor > len(c.angles) {
		return fmt.Errorf("chart: set angle on floor %d of %d: %w", floor, c.TileCount(), event.ErrIndexOutOfRange)
	}
	if err := checkAngle(angle); err != nil {
		return err
	}
	c.angles[floor-1] = angle
	c.revision++
	return nil
}

// InsertTile inserts a tile at floor (1..TileCount). Events on floors at or
// after it move up by one.
func (c *Chart) InsertTile(floor int, angle float64) error {
	if floor < 1 || floor > len(c.angles)+1 {
		return fmt.Errorf("chart: insert tile at floor %d of %d: %w", floor, c.TileCount(), event.ErrIndexOutOfRange)
	}
	if err := checkAngle(angle); err != nil {
		return err
	}
	c.angles = slices.Insert(c.angles, floor-1, angle)
	for i := range c.events {
		if c.events[i].Floor >= floor {
			c.events[i].Floor++
		}
	}
	c.revision++
	return nil
}

// RemoveTile deletes tile floor (>= 1) together with its events. Later
// events move down by one.
func (c *Chart) RemoveTile(floor int) error {
	if floor < 1 || floor > len(c.angles) {
		return fmt.Errorf("chart: remove tile at floor %d of %d: %w", floor, c.TileCount(), event.ErrIndexOutOfRange)
	}
	c.angles = slices.Delete(c.angles, floor-1, floor)
	c.events = slices.DeleteFunc(c.events, func(ev event.Event) bool { return ev.Floor == floor })
	for i := range c.events {
		if c.events[i].Floor > floor {
			c.events[i].Floor--
		}
	}
	c.revision++
	return nil
}

// AddEvent appends an author event. Generated events are rejected: they
// belong to a resolved timeline, not to the document.
func (c *Chart) AddEvent(ev event.Event) error {
	if ev.Floor < 0 || ev.Floor >= c.TileCount() {
		return fmt.Errorf("chart: add %s on floor %d of %d: %w", ev.Kind(), ev.Floor, c.TileCount(), event.ErrIndexOutOfRange)
	}
	if ev.Payload == nil {
		return fmt.Errorf("chart: add event without payload: %w", ErrMissingRequiredField)
	}
	if ev.Generated {
		return fmt.Errorf("chart: add generated %s: generated events are owned by the timeline", ev.Kind())
	}
	if rep, ok := ev.Payload.(event.RepeatEvents); ok {
		if rep.Repetitions < 0 || rep.Repetitions > MaxRepeatCount || rep.FloorCount < 0 || rep.FloorCount > MaxRepeatCount {
			return fmt.Errorf("chart: add RepeatEvents with %d repetitions over %d floors: %w", rep.Repetitions, rep.FloorCount, ErrMalformedDocument)
		}
	}
	c.events = append(c.events, ev.Clone())
	c.revision++
	return nil
}

// RemoveEvent deletes the i-th author event.
func (c *Chart) RemoveEvent(i int) error {
	if i < 0 || i >= len(c.events) {
		return fmt.Errorf("chart: remove event %d of %d: %w", i, len(c.events), event.ErrIndexOutOfRange)
	}
	c.events = slices.Delete(c.events, i, i+1)
	c.revision++
	return nil
}

func checkAngle(angle float64) error {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return fmt.Errorf("chart: angle %v: %w", angle, ErrMalformedDocument)
	}
	return nil
}
