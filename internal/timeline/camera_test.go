package timeline

import (
	"testing"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
	"github.com/cbegin/chartline-go/internal/tile"
)

func poseAt(t *testing.T, tl *Timeline, beat float64) CameraPose {
	t.Helper()
	pose, err := tl.CameraPoseAt(beat)
	if err != nil {
		t.Fatalf("CameraPoseAt(%v): %v", beat, err)
	}
	return pose
}

func nearVec(a, b event.Vec2) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func TestCameraDefaultsFollowPlayer(t *testing.T) {
	c := straight(4)
	c.UpdateSettings(func(s *chart.Settings) {
		s.CameraPosition = event.Vec2{X: 1, Y: 2}
		s.CameraZoom = 150
		s.CameraRotation = 10
	})
	tl := resolve(t, c)
	pose := poseAt(t, tl, 1.25)
	want := tl.chaseAt(1.25).Add(event.Vec2{X: 1, Y: 2})
	if pose.Frame != event.FramePlayer || pose.Position != want {
		t.Fatalf("pose = %+v, want player frame at %+v", pose, want)
	}
	if pose.Zoom != 150 || pose.Rotation != 10 {
		t.Fatalf("zoom/rotation = %v/%v", pose.Zoom, pose.Rotation)
	}
}

func TestCameraGlobalMove(t *testing.T) {
	c := straight(4)
	addEvent(t, c, event.Event{Floor: 1, Payload: event.MoveCamera{
		Duration: 2, Frame: event.FrameGlobal,
		Position: event.Vec2Opt{X: event.Some(3), Y: event.Some(4)}, Zoom: event.Some(50),
	}})
	tl := resolve(t, c)
	pose := poseAt(t, tl, 2)
	if pose.Frame != event.FrameGlobal || !nearVec(pose.Position, event.Vec2{X: 3, Y: 4}) || pose.Zoom != 50 {
		t.Fatalf("pose = %+v", pose)
	}
	half := poseAt(t, tl, 1)
	if !near(half.Zoom, 75) {
		t.Fatalf("zoom halfway = %v, want 75", half.Zoom)
	}
}

func TestCameraFrameSwitchIsContinuous(t *testing.T) {
	c := chart.New(chart.DefaultSettings(), []float64{0, 90, 90, 180, 270})
	// floor 2 plays at beat 0.5.
	addEvent(t, c, event.Event{Floor: 2, Payload: event.MoveCamera{Duration: 1, Frame: event.FrameTile}})
	tl := resolve(t, c)
	at := tl.tiles[2].Beat
	before := tl.chaseAt(at)

	pose := poseAt(t, tl, at)
	if pose.Frame != event.FrameTile || !nearVec(pose.Position, before) {
		t.Fatalf("pose at switch = %+v, want world %+v", pose, before)
	}
	// Anchored to the tile now, so the camera stops following the player.
	later := poseAt(t, tl, at+2)
	if !nearVec(later.Position, before) {
		t.Fatalf("pose after switch = %+v, want %+v", later.Position, before)
	}
}

func TestCameraLastPosition(t *testing.T) {
	c := straight(5)
	addEvent(t, c, event.Event{Floor: 2, Payload: event.MoveCamera{Frame: event.FrameGlobal, Duration: 0, Position: event.Vec2Opt{X: event.Some(5)}}})
	addEvent(t, c, event.Event{Floor: 3, Payload: event.MoveCamera{Frame: event.FrameLastPosition, Duration: 0, Position: event.Vec2Opt{Y: event.Some(1)}}})
	tl := resolve(t, c)
	pose := poseAt(t, tl, 3)
	if pose.Frame != event.FrameLastPosition {
		t.Fatalf("frame = %v, want LastPosition", pose.Frame)
	}
	if !nearVec(pose.Offset, event.Vec2{Y: 1}) || !nearVec(pose.Position, event.Vec2{X: 5, Y: 1}) {
		t.Fatalf("pose = %+v", pose)
	}
}

// replayChase rebuilds the player trajectory from the origin for every query.
func replayChase(tiles []tile.Tile, rate, lookAhead, beat float64) event.Vec2 {
	pos := tiles[0].Position
	k := 0
	for k+1 < len(tiles) && tiles[k+1].Beat <= beat {
		pos = chaseStep(pos, chaseTarget(tiles, k, lookAhead), rate, tiles[k+1].Beat-tiles[k].Beat)
		k++
	}
	return chaseStep(pos, chaseTarget(tiles, k, lookAhead), rate, beat-tiles[k].Beat)
}

func TestChaseMemoMatchesReplay(t *testing.T) {
	angles := []float64{0, 45, chart.Midspin, 300, 15, 180, 90, 90, 270, 0, 135}
	c := chart.New(chart.DefaultSettings(), angles)
	addEvent(t, c, event.Event{Floor: 4, Payload: event.Twirl{}})
	addEvent(t, c, event.Event{Floor: 6, Payload: event.Pause{Duration: 1}})
	opts := DefaultOptions()
	tl, err := Resolve(c, opts)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for b := -2.0; b < 20; b += 0.13 {
		got := tl.chaseAt(b)
		want := replayChase(tl.tiles, opts.ChaseRate, opts.LookAhead, b)
		if got != want {
			t.Fatalf("chase at %v = %+v, replay %+v", b, got, want)
		}
	}
}
