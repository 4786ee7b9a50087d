package tile

import (
	"fmt"
	"math"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
)

// Orbit is the direction the player circles the current tile.
type Orbit int

const (
	Clockwise Orbit = iota
	Counter
)

func (o Orbit) Flip() Orbit {
	if o == Clockwise {
		return Counter
	}
	return Clockwise
}

func (o Orbit) String() string {
	if o == Clockwise {
		return "Clockwise"
	}
	return "Counter"
}

// Appearance is the track look a tile inherits from its predecessor until a
// ColorTrack or AnimateTrack on its floor replaces part of it.
type Appearance struct {
	ColorType    event.TrackColorType
	Color        event.Color
	Secondary    event.Color
	AnimDuration float64
	Style        event.TrackStyle

	Appear      event.AppearAnimation
	BeatsAhead  float64
	Disappear   event.DisappearAnimation
	BeatsBehind float64
}

// Tile is one node of the chain with its base timing, geometry and
// appearance. Events is filled by the resolver.
type Tile struct {
	Index int
	Angle float64
	Orbit Orbit
	Beat  float64
	Turn  float64 // degrees travelled from the previous tile

	Position event.Vec2
	Rotation float64
	Scale    event.Vec2 // percent
	Opacity  float64    // percent
	Sticky   bool

	Appearance

	Events []event.Event
}

func (t *Tile) Midspin() bool { return chart.IsMidspin(t.Angle) }

// Config controls chain construction.
type Config struct {
	// EditorMode applies editor-only position offsets.
	EditorMode bool
}

func DefaultConfig() Config {
	return Config{}
}

// statics groups the active static events of one floor.
type statics struct {
	twirl    bool
	pause    float64
	hold     int
	color    *event.ColorTrack
	animate  *event.AnimateTrack
	position *event.PositionTrack
}

// Build lays out the tile chain of c. The origin tile sits at (0,0) with
// beat -Inf; floor 1 is the first beat-addressable tile. The returned slice
// is complete or nil.
func Build(c *chart.Chart, cfg Config) ([]Tile, error) {
	n := c.TileCount()
	floors := make([]statics, n)
	for i, ev := range c.Events() {
		if ev.Floor < 0 || ev.Floor >= n {
			return nil, fmt.Errorf("tile: event %d (%s) on floor %d of %d: %w", i, ev.Kind(), ev.Floor, n, event.ErrIndexOutOfRange)
		}
		if !ev.Active {
			continue
		}
		s := &floors[ev.Floor]
		switch p := ev.Payload.(type) {
		case event.Twirl:
			s.twirl = !s.twirl
		case event.Pause:
			s.pause += p.Duration
		case event.Hold:
			s.hold += p.Duration
		case event.ColorTrack:
			s.color = &p
		case event.AnimateTrack:
			s.animate = &p
		case event.PositionTrack:
			s.position = &p
		}
	}

	set := c.Settings()
	tiles := make([]Tile, n)
	tiles[0] = Tile{
		Beat:    math.Inf(-1),
		Orbit:   Clockwise,
		Scale:   event.Vec2{X: 100, Y: 100},
		Opacity: 100,
		Sticky:  set.StickToFloors,
		Appearance: Appearance{
			ColorType:    set.TrackColorType,
			Color:        set.TrackColor,
			Secondary:    set.SecondaryColor,
			AnimDuration: set.TrackAnimDuration,
			Style:        set.TrackStyle,
			Appear:       set.TrackAppear,
			BeatsAhead:   set.BeatsAhead,
			Disappear:    set.TrackDisappear,
			BeatsBehind:  set.BeatsBehind,
		},
	}
	applyAppearance(&tiles[0], floors[0])
	carry := applyPosition(&tiles[0], floors[0], cfg)

	for i := 1; i < n; i++ {
		prev := &tiles[i-1]
		t := &tiles[i]
		t.Index = i
		t.Angle = c.Angle(i)
		if math.IsNaN(t.Angle) || math.IsInf(t.Angle, 0) {
			return nil, fmt.Errorf("tile: floor %d angle %v: %w", i, t.Angle, chart.ErrMalformedDocument)
		}
		t.Orbit = prev.Orbit
		if floors[i].twirl {
			t.Orbit = t.Orbit.Flip()
		}

		base := prev.Beat
		if i == 1 {
			base = 0
		}
		if t.Midspin() {
			t.Beat = base
		} else {
			t.Turn = turn(tiles, i)
			t.Beat = base + t.Turn/180 + floors[i-1].pause + 2*float64(floors[i-1].hold)
		}

		t.Position = prev.Position.Sub(carry)
		if !t.Midspin() {
			rad := t.Angle * math.Pi / 180
			t.Position = t.Position.Add(event.Vec2{X: math.Cos(rad), Y: math.Sin(rad)})
		}
		t.Scale = event.Vec2{X: 100, Y: 100}
		t.Opacity = 100
		t.Sticky = set.StickToFloors
		t.Appearance = prev.Appearance
		applyAppearance(t, floors[i])
		carry = applyPosition(t, floors[i], cfg)
	}
	return tiles, nil
}

// turn returns the degrees the player sweeps from tile i-1 to tile i.
func turn(tiles []Tile, i int) float64 {
	ref := 0.0
	for j := i - 1; j > 0; j-- {
		if !tiles[j].Midspin() {
			ref = tiles[j].Angle
			break
		}
	}
	a := ref - 180 - tiles[i].Angle
	if tiles[i-1].Orbit == Counter {
		a = -a
	}
	a = normalize(a)
	if i == 1 {
		// The player starts facing the origin's exit, so the first turn
		// loses half a rotation.
		a -= 180
		if a < 0 {
			a += 360
		}
	}
	return a
}

// normalize maps a into (0, 360].
func normalize(a float64) float64 {
	a = math.Mod(a, 360)
	if a <= 0 {
		a += 360
	}
	return a
}

func applyAppearance(t *Tile, s statics) {
	if ct := s.color; ct != nil {
		t.ColorType = ct.ColorType
		t.Color = ct.Color
		t.Secondary = ct.Secondary
		t.AnimDuration = ct.AnimDuration
		t.Style = ct.Style
	}
	if at := s.animate; at != nil {
		if at.Appear != event.AppearUnset {
			t.Appear = at.Appear
		}
		if at.BeatsAhead.Set {
			t.BeatsAhead = at.BeatsAhead.V
		}
		if at.Disappear != event.DisappearUnset {
			t.Disappear = at.Disappear
		}
		if at.BeatsBehind.Set {
			t.BeatsBehind = at.BeatsBehind.V
		}
	}
}

// applyPosition applies a PositionTrack and returns the offset the next tile
// must take back out (justThisTile).
func applyPosition(t *Tile, s statics, cfg Config) event.Vec2 {
	p := s.position
	if p == nil {
		return event.Vec2{}
	}
	t.Rotation = p.Rotation.Blend(t.Rotation, 1)
	t.Scale = p.Scale.Blend(t.Scale, 1)
	t.Opacity = p.Opacity.Blend(t.Opacity, 1)
	if p.StickToFloor {
		t.Sticky = true
	}
	if p.EditorOnly && !cfg.EditorMode {
		return event.Vec2{}
	}
	t.Position = t.Position.Add(p.Offset)
	if p.JustThisTile {
		return p.Offset
	}
	return event.Vec2{}
}
