package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
)

func straight(tiles int) *chart.Chart {
	return chart.New(chart.DefaultSettings(), make([]float64, tiles-1))
}

func addEvent(t *testing.T, c *chart.Chart, ev event.Event) {
	t.Helper()
	ev.Active = true
	if err := c.AddEvent(ev); err != nil {
		t.Fatalf("add %s: %v", ev.Kind(), err)
	}
}

func resolve(t *testing.T, c *chart.Chart) *Timeline {
	t.Helper()
	tl, err := Resolve(c, DefaultOptions())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	return tl
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEndToEndFirstBeat(t *testing.T) {
	tl := resolve(t, straight(3))
	beat, err := tl.TileBeat(1)
	if err != nil {
		t.Fatalf("tile beat: %v", err)
	}
	if beat != 0 {
		t.Fatalf("beat[1] = %v, want 0", beat)
	}
	ms, err := tl.BeatToTime(1)
	if err != nil {
		t.Fatalf("beat to time: %v", err)
	}
	if ms != 600 {
		t.Fatalf("BeatToTime(1) = %v, want 600", ms)
	}
	d, _ := tl.Duration()
	if d != 600 {
		t.Fatalf("duration = %v, want 600", d)
	}
}

func TestQueryGating(t *testing.T) {
	c := straight(3)
	tl := New(c, DefaultOptions())
	if _, err := tl.BPMAt(0, true); !errors.Is(err, ErrQueryBeforeResolve) {
		t.Fatalf("unresolved query error = %v, want ErrQueryBeforeResolve", err)
	}
	if err := tl.Resolve(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := tl.TileStatesAt(0); err != nil {
		t.Fatalf("resolved query: %v", err)
	}

	addEvent(t, c, event.Event{Floor: 1, Payload: event.Twirl{}})
	_, err := tl.CameraPoseAt(0)
	if !errors.Is(err, ErrQueryBeforeResolve) || !errors.Is(err, ErrStaleTimeline) {
		t.Fatalf("stale query error = %v, want ErrQueryBeforeResolve and ErrStaleTimeline", err)
	}
	if err := tl.Resolve(); err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if _, err := tl.CameraPoseAt(0); err != nil {
		t.Fatalf("query after re-resolve: %v", err)
	}
}

func TestFailedResolveRejectsQueries(t *testing.T) {
	opts := DefaultOptions()
	opts.ChaseRate = 0
	tl := New(straight(3), opts)
	if err := tl.Resolve(); err == nil {
		t.Fatalf("expected error for zero chase rate")
	}
	if _, err := tl.TimeToBeat(0); !errors.Is(err, ErrQueryBeforeResolve) {
		t.Fatalf("error = %v, want ErrQueryBeforeResolve", err)
	}
}

func TestDynamicBeats(t *testing.T) {
	c := straight(4)
	addEvent(t, c, event.Event{Floor: 2, AngleOffset: 90, Payload: event.MoveCamera{}})
	addEvent(t, c, event.Event{Floor: 0, AngleOffset: -180, Payload: event.MoveCamera{}})
	tl := resolve(t, c)
	evs, _ := tl.Events()
	if len(evs) != 2 {
		t.Fatalf("scheduled = %d, want 2", len(evs))
	}
	if evs[0].Beat != -1 || evs[1].Beat != 1.5 {
		t.Fatalf("beats = %v, %v, want -1, 1.5", evs[0].Beat, evs[1].Beat)
	}
	tiles, _ := tl.Tiles()
	if len(tiles[2].Events) != 1 || tiles[2].Events[0].Beat != 1.5 {
		t.Fatalf("floor 2 bound events = %+v", tiles[2].Events)
	}
}

func TestStableOrderForEqualBeats(t *testing.T) {
	c := straight(3)
	addEvent(t, c, event.Event{Floor: 1, Payload: event.MoveCamera{Zoom: event.Some(1)}})
	addEvent(t, c, event.Event{Floor: 1, Payload: event.MoveCamera{Zoom: event.Some(2)}})
	addEvent(t, c, event.Event{Floor: 1, Payload: event.MoveCamera{Zoom: event.Some(3)}})
	tl := resolve(t, c)
	moves, _ := tl.CameraMoves()
	for i, ev := range moves {
		if z := ev.Payload.(event.MoveCamera).Zoom.V; z != float64(i+1) {
			t.Fatalf("move %d zoom = %v, want %d", i, z, i+1)
		}
	}
}

func TestRepeatByBeat(t *testing.T) {
	c := straight(4)
	// floor 2 sits at beat 1; 720 degrees later is beat 5.
	addEvent(t, c, event.Event{Floor: 2, AngleOffset: 720, Tags: []string{"x"}, Payload: event.SetSpeed{SpeedType: event.SpeedBPM, BPM: 120}})
	addEvent(t, c, event.Event{Floor: 2, Tags: []string{"y"}, Payload: event.MoveCamera{}})
	addEvent(t, c, event.Event{Floor: 2, Payload: event.RepeatEvents{Type: event.RepeatBeat, Repetitions: 3, Interval: 2, Tags: []string{"x"}}})
	tl := resolve(t, c)

	check := func() {
		t.Helper()
		gen, err := tl.Generated()
		if err != nil {
			t.Fatalf("generated: %v", err)
		}
		if len(gen) != 3 {
			t.Fatalf("generated = %d, want 3", len(gen))
		}
		for i, want := range []float64{7, 9, 11} {
			if !gen[i].Generated || gen[i].Beat != want || gen[i].Kind() != event.KindSetSpeed {
				t.Fatalf("clone %d = %+v, want generated SetSpeed at %v", i, gen[i], want)
			}
		}
		tempo, _ := tl.TempoChanges()
		if len(tempo) != 4 || tempo[0].Generated || tempo[0].Beat != 5 {
			t.Fatalf("tempo list = %+v", tempo)
		}
		if c.EventCount() != 3 {
			t.Fatalf("author events = %d, want 3", c.EventCount())
		}
	}
	check()
	if err := tl.Resolve(); err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	check()
}

func TestRepeatByFloor(t *testing.T) {
	cases := []struct {
		name    string
		current bool
		count   int
		want    []int
	}{
		{"following floors", false, 2, []int{2, 3}},
		{"window includes current floor", true, 3, []int{2, 3}},
		{"clipped at chain end", false, 9, []int{2, 3, 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := straight(5)
			addEvent(t, c, event.Event{Floor: 1, AngleOffset: 90, Tags: []string{"cam"}, Payload: event.MoveCamera{}})
			addEvent(t, c, event.Event{Floor: 1, Payload: event.RepeatEvents{
				Type: event.RepeatFloor, FloorCount: tc.count, Tags: []string{"cam"}, ExecuteOnCurrentFloor: tc.current,
			}})
			tl := resolve(t, c)
			gen, _ := tl.Generated()
			if len(gen) != len(tc.want) {
				t.Fatalf("generated = %d, want %d", len(gen), len(tc.want))
			}
			for i, floor := range tc.want {
				beat, _ := tl.TileBeat(floor)
				if gen[i].Floor != floor || gen[i].Beat != beat+0.5 {
					t.Fatalf("clone %d on floor %d beat %v, want floor %d beat %v", i, gen[i].Floor, gen[i].Beat, floor, beat+0.5)
				}
			}
			tiles, _ := tl.Tiles()
			for _, floor := range tc.want {
				if evs := tiles[floor].Events; len(evs) != 1 || !evs[0].Generated {
					t.Fatalf("floor %d bound events = %+v, want one clone", floor, evs)
				}
			}
		})
	}
}

func TestRepeatSkipsInactiveAndUntagged(t *testing.T) {
	c := straight(3)
	if err := c.AddEvent(event.Event{Floor: 1, Tags: []string{"x"}, Payload: event.MoveCamera{}}); err != nil {
		t.Fatalf("add: %v", err)
	}
	addEvent(t, c, event.Event{Floor: 1, Tags: []string{"z"}, Payload: event.MoveCamera{}})
	addEvent(t, c, event.Event{Floor: 1, Payload: event.RepeatEvents{Repetitions: 4, Interval: 1, Tags: []string{"x"}}})
	tl := resolve(t, c)
	gen, _ := tl.Generated()
	if len(gen) != 0 {
		t.Fatalf("generated = %d, want 0", len(gen))
	}
	evs, _ := tl.Events()
	if len(evs) != 1 {
		t.Fatalf("scheduled = %d, want 1 (inactive events are not scheduled)", len(evs))
	}
}

func TestTrackRangeDiagnostics(t *testing.T) {
	c := straight(4)
	rel := func(off int) event.RelativeIndex { return event.RelativeIndex{Offset: off, Anchor: event.AnchorThisTile} }
	addEvent(t, c, event.Event{Floor: 1, Payload: event.MoveTrack{Start: rel(10), End: rel(20), Opacity: event.Some(0)}})
	addEvent(t, c, event.Event{Floor: 2, Payload: event.RecolorTrack{Start: rel(0), End: rel(5)}})
	addEvent(t, c, event.Event{Floor: 2, Payload: event.MoveTrack{Start: rel(0), End: rel(1)}})

	tl := resolve(t, c)
	diags, err := tl.Diagnostics()
	if err != nil {
		t.Fatalf("diagnostics: %v", err)
	}
	if len(diags) != 2 {
		t.Fatalf("diagnostics = %v, want 2", diags)
	}
	for _, d := range diags {
		if !errors.Is(d, event.ErrIndexOutOfRange) {
			t.Fatalf("diagnostic %v does not wrap ErrIndexOutOfRange", d)
		}
	}
	if _, err := tl.TileStatesAt(5); err != nil {
		t.Fatalf("lenient query: %v", err)
	}

	opts := DefaultOptions()
	opts.Strict = true
	strict := New(c, opts)
	if err := strict.Resolve(); !errors.Is(err, event.ErrIndexOutOfRange) {
		t.Fatalf("strict resolve error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := strict.TileStatesAt(5); !errors.Is(err, ErrQueryBeforeResolve) {
		t.Fatalf("query after failed strict resolve = %v, want ErrQueryBeforeResolve", err)
	}
}
