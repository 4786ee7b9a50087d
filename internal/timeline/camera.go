package timeline

import (
	"math"
	"sort"

	"github.com/cbegin/chartline-go/internal/ease"
	"github.com/cbegin/chartline-go/internal/event"
	"github.com/cbegin/chartline-go/internal/tile"
)

// CameraPose is the camera at one beat. Offset is measured in Frame; Position
// is the resulting world position.
type CameraPose struct {
	Frame    event.CameraFrame
	Offset   event.Vec2
	Position event.Vec2
	Rotation float64
	Zoom     float64 // percent
}

// camFrame is a reference frame plus what it is anchored to.
type camFrame struct {
	kind  event.CameraFrame
	floor int        // Tile
	fixed event.Vec2 // LastPosition
}

func (t *Timeline) origin(f camFrame, beat float64) event.Vec2 {
	switch f.kind {
	case event.FrameTile:
		return t.tiles[f.floor].Position
	case event.FrameGlobal:
		return event.Vec2{}
	case event.FrameLastPosition:
		return f.fixed
	default:
		return t.chaseAt(beat)
	}
}

// CameraPoseAt blends every camera move scheduled at or before beat in order,
// each on top of the result of the ones before it. A move that names a frame
// rebases the current offset into that frame first, so the camera does not
// jump at the switch.
func (t *Timeline) CameraPoseAt(beat float64) (CameraPose, error) {
	if err := t.check(); err != nil {
		return CameraPose{}, err
	}
	set := t.settings
	frame := camFrame{kind: set.CameraFrame}
	if frame.kind == event.FrameUnset {
		frame.kind = event.FramePlayer
	}
	offset := set.CameraPosition
	rot, zoom := set.CameraRotation, set.CameraZoom

	for _, ev := range t.camera {
		if ev.Beat > beat {
			break
		}
		p := ev.Payload.(event.MoveCamera)
		if p.Frame != event.FrameUnset {
			world := t.origin(frame, ev.Beat).Add(offset)
			frame = camFrame{kind: p.Frame, floor: ev.Floor, fixed: world}
			offset = world.Sub(t.origin(frame, ev.Beat))
		}
		y := ease.Apply(p.Ease, progress(beat, ev.Beat, p.Duration))
		offset = p.Position.Blend(offset, y)
		rot = p.Rotation.Blend(rot, y)
		zoom = p.Zoom.Blend(zoom, y)
	}
	return CameraPose{
		Frame:    frame.kind,
		Offset:   offset,
		Position: t.origin(frame, beat).Add(offset),
		Rotation: rot,
		Zoom:     zoom,
	}, nil
}

// chaseTarget is where the player camera heads while on tile k: a little of
// the way toward the next tile.
func chaseTarget(tiles []tile.Tile, k int, lookAhead float64) event.Vec2 {
	pos := tiles[k].Position
	if k+1 >= len(tiles) {
		return pos
	}
	return pos.Lerp(tiles[k+1].Position, lookAhead)
}

// chaseStep follows target from from for dt beats of exponential decay.
func chaseStep(from, target event.Vec2, rate, dt float64) event.Vec2 {
	return from.Add(target.Sub(from).Scale(1 - math.Exp(-rate*dt)))
}

// buildChase samples the player camera at every tile beat. Between samples
// the trajectory is a single chaseStep from the last one, so any beat can be
// answered from the memo without replaying the chain.
func buildChase(tiles []tile.Tile, rate, lookAhead float64) []event.Vec2 {
	chase := make([]event.Vec2, len(tiles))
	chase[0] = tiles[0].Position
	for k := 1; k < len(tiles); k++ {
		dt := tiles[k].Beat - tiles[k-1].Beat
		chase[k] = chaseStep(chase[k-1], chaseTarget(tiles, k-1, lookAhead), rate, dt)
	}
	return chase
}

func (t *Timeline) chaseAt(beat float64) event.Vec2 {
	k := sort.Search(len(t.tiles), func(i int) bool { return t.tiles[i].Beat > beat }) - 1
	if k < 0 {
		k = 0
	}
	target := chaseTarget(t.tiles, k, t.opts.LookAhead)
	return chaseStep(t.chase[k], target, t.opts.ChaseRate, beat-t.tiles[k].Beat)
}
