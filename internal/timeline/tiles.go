package timeline

import (
	"math"

	"github.com/cbegin/chartline-go/internal/ease"
	"github.com/cbegin/chartline-go/internal/event"
	"github.com/cbegin/chartline-go/internal/tile"
)

// Phase is a tile's visibility phase at a queried beat.
type Phase int

const (
	ToShow Phase = iota
	Showing
	Shown
)

func (p Phase) String() string {
	switch p {
	case ToShow:
		return "ToShow"
	case Showing:
		return "Showing"
	case Shown:
		return "Shown"
	}
	return ""
}

// TileRenderState is what a renderer needs to draw one tile at one beat.
type TileRenderState struct {
	Index     int
	Phase     Phase
	Position  event.Vec2
	Rotation  float64
	Scale     event.Vec2
	Opacity   float64 // 0..100
	ColorType event.TrackColorType
	Color     event.Color
	Secondary event.Color
	Style     event.TrackStyle
}

// TileStatesAt recomputes every tile from its base values, then blends the
// track events scheduled at or before beat on top, each from the result of
// the ones before it. Track opacity is blended before the appear and
// disappear fade is applied, so a move never makes a hidden tile visible.
func (t *Timeline) TileStatesAt(beat float64) ([]TileRenderState, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	n := len(t.tiles)
	states := make([]TileRenderState, n)
	fades := make([]float64, n)
	for i := range t.tiles {
		tl := &t.tiles[i]
		next := math.Inf(1)
		if i+1 < n {
			next = t.tiles[i+1].Beat
		}
		phase, fade := visibility(tl, next, beat)
		fades[i] = fade
		states[i] = TileRenderState{
			Index:     i,
			Phase:     phase,
			Position:  tl.Position,
			Rotation:  tl.Rotation,
			Scale:     tl.Scale,
			Opacity:   tl.Opacity,
			ColorType: tl.ColorType,
			Color:     tl.Color,
			Secondary: tl.Secondary,
			Style:     tl.Style,
		}
	}

	for _, ev := range t.track {
		if ev.Beat > beat {
			break
		}
		switch p := ev.Payload.(type) {
		case event.MoveTrack:
			y := ease.Apply(p.Ease, progress(beat, ev.Beat, p.Duration))
			t.eachInRange(ev, p.Start, p.End, func(i int) {
				s, base := &states[i], &t.tiles[i]
				s.Position = event.Vec2Opt{
					X: shift(p.Offset.X, base.Position.X),
					Y: shift(p.Offset.Y, base.Position.Y),
				}.Blend(s.Position, y)
				s.Rotation = shift(p.Rotation, base.Rotation).Blend(s.Rotation, y)
				s.Scale = p.Scale.Blend(s.Scale, y)
				s.Opacity = clamp(p.Opacity.Blend(s.Opacity, y), 0, 100)
			})
		case event.RecolorTrack:
			y := ease.Apply(p.Ease, progress(beat, ev.Beat, p.Duration))
			t.eachInRange(ev, p.Start, p.End, func(i int) {
				s := &states[i]
				s.ColorType = p.ColorType
				s.Style = p.Style
				s.Color = s.Color.Lerp(p.Color, y)
				s.Secondary = s.Secondary.Lerp(p.Secondary, y)
			})
		}
	}
	for i := range states {
		states[i].Opacity = clamp(states[i].Opacity*fades[i]/100, 0, 100)
	}
	return states, nil
}

func (t *Timeline) eachInRange(ev event.Event, start, end event.RelativeIndex, fn func(int)) {
	lo, hi, _, ok := event.Range(start, end, ev.Floor, len(t.tiles))
	if !ok {
		return
	}
	for i := lo; i <= hi; i++ {
		fn(i)
	}
}

// visibility returns the phase of tl and its fade factor in percent.
func visibility(tl *tile.Tile, next, beat float64) (Phase, float64) {
	phase := ToShow
	switch {
	case beat >= next+tl.BeatsBehind:
		phase = Shown
	case beat >= tl.Beat-tl.BeatsAhead:
		phase = Showing
	}

	appear, disappear := 100.0, 100.0
	if tl.Appear.Fade() == event.FadeLinear {
		appear = 100 * ramp(beat, tl.Beat-tl.BeatsAhead, tl.Beat)
	}
	if tl.Disappear.Fade() == event.FadeLinear {
		disappear = 100 * (1 - ramp(beat, next, next+tl.BeatsBehind))
	}
	return phase, math.Min(appear, disappear)
}

// ramp is 0 before from, 1 after to and linear in between. A zero-width
// window steps at to.
func ramp(beat, from, to float64) float64 {
	if beat >= to {
		return 1
	}
	if beat < from || !(to > from) {
		return 0
	}
	return (beat - from) / (to - from)
}

// progress is the linear progress of an event at beat; a zero duration
// completes immediately.
func progress(beat, start, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return clamp((beat-start)/duration, 0, 1)
}

// shift turns an offset option into a target relative to base.
func shift(o event.Opt, base float64) event.Opt {
	if !o.Set {
		return o
	}
	return event.Some(base + o.V)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
