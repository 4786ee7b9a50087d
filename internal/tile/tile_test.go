package tile

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
)

func build(t *testing.T, c *chart.Chart, cfg Config) []Tile {
	t.Helper()
	tiles, err := Build(c, cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tiles
}

func add(t *testing.T, c *chart.Chart, floor int, p event.Payload) {
	t.Helper()
	if err := c.AddEvent(event.Event{Floor: floor, Active: true, Payload: p}); err != nil {
		t.Fatalf("add %s: %v", p.Kind(), err)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStraightLineBeats(t *testing.T) {
	tiles := build(t, chart.New(chart.DefaultSettings(), []float64{0, 0, 0}), DefaultConfig())
	if !math.IsInf(tiles[0].Beat, -1) || tiles[0].Orbit != Clockwise {
		t.Fatalf("origin = %+v", tiles[0])
	}
	want := []float64{0, 1, 2}
	for i, w := range want {
		if got := tiles[i+1].Beat; !near(got, w) {
			t.Fatalf("beat[%d] = %v, want %v", i+1, got, w)
		}
	}
	if p := tiles[3].Position; !near(p.X, 3) || !near(p.Y, 0) {
		t.Fatalf("position[3] = %+v, want (3,0)", p)
	}
}

func TestTurnAngles(t *testing.T) {
	cases := []struct {
		name   string
		angles []float64
		twirl  int
		want   float64 // beat of the last tile
	}{
		{"right angle", []float64{0, 90}, 0, 0.5},
		{"reverse right angle", []float64{0, 270}, 0, 1.5},
		{"full turn", []float64{0, 180}, 0, 2},
		{"twirled right angle", []float64{0, 90}, 1, 1.5},
		{"midspin is skipped as reference", []float64{0, chart.Midspin, 90}, 0, 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := chart.New(chart.DefaultSettings(), tc.angles)
			if tc.twirl > 0 {
				add(t, c, tc.twirl, event.Twirl{})
			}
			tiles := build(t, c, DefaultConfig())
			if got := tiles[len(tiles)-1].Beat; !near(got, tc.want) {
				t.Fatalf("last beat = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBeatsAreMonotonic(t *testing.T) {
	angles := []float64{0, 45, chart.Midspin, 300, 15, 180, chart.Midspin, chart.Midspin, 90, 270, 0}
	c := chart.New(chart.DefaultSettings(), angles)
	add(t, c, 3, event.Twirl{})
	add(t, c, 5, event.Pause{Duration: 2})
	add(t, c, 8, event.Twirl{})
	tiles := build(t, c, DefaultConfig())
	for i := 2; i < len(tiles); i++ {
		if tiles[i].Midspin() {
			if tiles[i].Beat != tiles[i-1].Beat {
				t.Fatalf("midspin beat[%d] = %v, want %v", i, tiles[i].Beat, tiles[i-1].Beat)
			}
			continue
		}
		if tiles[i].Beat < tiles[i-1].Beat {
			t.Fatalf("beat[%d] = %v < beat[%d] = %v", i, tiles[i].Beat, i-1, tiles[i-1].Beat)
		}
	}
}

func TestMidspinSharesPosition(t *testing.T) {
	angles := []float64{0, 90, chart.Midspin, 180, chart.Midspin, chart.Midspin, 0}
	tiles := build(t, chart.New(chart.DefaultSettings(), angles), DefaultConfig())
	want := []event.Vec2{{}, {X: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {Y: 1}, {Y: 1}, {Y: 1}, {X: 1, Y: 1}}
	for i, w := range want {
		if p := tiles[i].Position; !near(p.X, w.X) || !near(p.Y, w.Y) {
			t.Fatalf("position[%d] = %+v, want %+v", i, p, w)
		}
	}
}

func TestPauseAndHoldExtendTravel(t *testing.T) {
	c := chart.New(chart.DefaultSettings(), []float64{0, 0, 0})
	add(t, c, 1, event.Pause{Duration: 1.5})
	add(t, c, 2, event.Hold{Duration: 1})
	tiles := build(t, c, DefaultConfig())
	if !near(tiles[2].Beat, 2.5) {
		t.Fatalf("beat[2] = %v, want 2.5", tiles[2].Beat)
	}
	if !near(tiles[3].Beat, 5.5) {
		t.Fatalf("beat[3] = %v, want 5.5", tiles[3].Beat)
	}
}

func TestInactiveEventsAreIgnored(t *testing.T) {
	c := chart.New(chart.DefaultSettings(), []float64{0, 0})
	if err := c.AddEvent(event.Event{Floor: 1, Payload: event.Pause{Duration: 4}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	tiles := build(t, c, DefaultConfig())
	if !near(tiles[2].Beat, 1) {
		t.Fatalf("beat[2] = %v, want 1", tiles[2].Beat)
	}
}

func TestPositionTrackOffsets(t *testing.T) {
	c := chart.New(chart.DefaultSettings(), []float64{0, 0, 0, 0})
	add(t, c, 1, event.PositionTrack{Offset: event.Vec2{Y: 2}, JustThisTile: true, Opacity: event.Some(40)})
	add(t, c, 3, event.PositionTrack{Offset: event.Vec2{X: 5}, EditorOnly: true})

	tiles := build(t, c, DefaultConfig())
	if p := tiles[1].Position; !near(p.X, 1) || !near(p.Y, 2) {
		t.Fatalf("position[1] = %+v, want (1,2)", p)
	}
	if tiles[1].Opacity != 40 || tiles[2].Opacity != 100 {
		t.Fatalf("opacity = %v, %v, want 40, 100", tiles[1].Opacity, tiles[2].Opacity)
	}
	if p := tiles[2].Position; !near(p.X, 2) || !near(p.Y, 0) {
		t.Fatalf("position[2] = %+v, want (2,0)", p)
	}
	if p := tiles[4].Position; !near(p.X, 4) {
		t.Fatalf("editor-only offset applied outside the editor: %+v", p)
	}

	tiles = build(t, c, Config{EditorMode: true})
	if p := tiles[4].Position; !near(p.X, 9) {
		t.Fatalf("position[4] in editor = %+v, want x=9", p)
	}
}

func TestAppearancePropagates(t *testing.T) {
	set := chart.DefaultSettings()
	c := chart.New(set, []float64{0, 0, 0, 0})
	red := event.Color{R: 255, A: 255}
	add(t, c, 2, event.ColorTrack{ColorType: event.ColorGlow, Color: red, Secondary: event.White, Style: event.StyleNeon})
	add(t, c, 3, event.AnimateTrack{Appear: event.AppearFade, BeatsBehind: event.Some(1)})
	tiles := build(t, c, DefaultConfig())

	if tiles[1].Color != set.TrackColor {
		t.Fatalf("color[1] = %+v, want settings color", tiles[1].Color)
	}
	for i := 2; i <= 4; i++ {
		if tiles[i].Color != red || tiles[i].Style != event.StyleNeon {
			t.Fatalf("tile %d appearance = %+v", i, tiles[i].Appearance)
		}
	}
	if tiles[2].Appear != set.TrackAppear || tiles[3].Appear != event.AppearFade || tiles[4].Appear != event.AppearFade {
		t.Fatalf("appear = %v %v %v", tiles[2].Appear, tiles[3].Appear, tiles[4].Appear)
	}
	if tiles[4].BeatsBehind != 1 || tiles[4].BeatsAhead != set.BeatsAhead {
		t.Fatalf("windows = %v/%v", tiles[4].BeatsAhead, tiles[4].BeatsBehind)
	}
}

func TestBuildRejectsBadAngle(t *testing.T) {
	c := chart.New(chart.DefaultSettings(), []float64{0, math.NaN()})
	if _, err := Build(c, DefaultConfig()); !errors.Is(err, chart.ErrMalformedDocument) {
		t.Fatalf("error = %v, want ErrMalformedDocument", err)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{0: 360, 360: 360, -90: 270, 450: 90, -720: 360, 1: 1}
	for in, want := range cases {
		if got := normalize(in); got != want {
			t.Fatalf("normalize(%v) = %v, want %v", in, got, want)
		}
	}
}
