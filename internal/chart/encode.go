package chart

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/cbegin/chartline-go/internal/event"
)

// Encode serializes the chart with the same schema Decode reads. The tile
// chain is always written as angleData. Settings fields this package does
// not model are carried over from the decoded document.
func Encode(c *Chart) ([]byte, error) {
	settings, err := encodeSettings(c.settings)
	if err != nil {
		return nil, err
	}
	angles := c.angles
	if angles == nil {
		angles = []float64{}
	}
	w := &writer{doc: "{}"}
	w.set("angleData", angles)
	w.setRaw("settings", settings)
	w.setRaw("actions", "[]")
	for i, ev := range c.events {
		obj, err := encodeEvent(ev)
		if err != nil {
			return nil, fmt.Errorf("chart: encode action %d: %w", i, err)
		}
		w.setRaw("actions.-1", obj)
	}
	if w.err != nil {
		return nil, fmt.Errorf("chart: encode: %w", w.err)
	}
	return []byte(w.doc), nil
}

type writer struct {
	doc string
	err error
}

func (w *writer) set(path string, v any) {
	if w.err != nil {
		return
	}
	w.doc, w.err = sjson.Set(w.doc, path, v)
}

func (w *writer) setRaw(path, raw string) {
	if w.err != nil {
		return
	}
	w.doc, w.err = sjson.SetRaw(w.doc, path, raw)
}

func (w *writer) opt(path string, o event.Opt) {
	if o.Set {
		w.set(path, o.V)
		return
	}
	w.set(path, nil)
}

func (w *writer) vec2Opt(path string, o event.Vec2Opt) {
	w.set(path, []any{optValue(o.X), optValue(o.Y)})
}

func (w *writer) vec2(path string, v event.Vec2) {
	w.set(path, []float64{v.X, v.Y})
}

func (w *writer) relIndex(path string, r event.RelativeIndex) {
	w.set(path, []any{r.Offset, r.Anchor.String()})
}

// token writes a named enum value, skipping unset values whose String is
// empty.
func (w *writer) token(path string, s fmt.Stringer) {
	if tok := s.String(); tok != "" {
		w.set(path, tok)
	}
}

func optValue(o event.Opt) any {
	if !o.Set {
		return nil
	}
	return o.V
}

func encodeSettings(s Settings) (string, error) {
	base := s.raw
	if base == "" {
		base = "{}"
	}
	w := &writer{doc: base}
	w.set("version", s.Version)
	w.set("artist", s.Artist)
	w.set("song", s.Song)
	w.set("author", s.Author)
	w.set("difficulty", s.Difficulty)
	w.set("bpm", s.BPM)
	w.set("offset", s.Offset)
	w.set("pitch", s.Pitch)
	w.token("trackColorType", s.TrackColorType)
	w.set("trackColor", s.TrackColor.Hex())
	w.set("secondaryTrackColor", s.SecondaryColor.Hex())
	w.set("trackColorAnimDuration", s.TrackAnimDuration)
	w.token("trackStyle", s.TrackStyle)
	w.token("trackAnimation", s.TrackAppear)
	w.set("beatsAhead", s.BeatsAhead)
	w.token("trackDisappearAnimation", s.TrackDisappear)
	w.set("beatsBehind", s.BeatsBehind)
	w.set("stickToFloors", s.StickToFloors)
	w.token("relativeTo", s.CameraFrame)
	w.vec2("position", s.CameraPosition)
	w.set("rotation", s.CameraRotation)
	w.set("zoom", s.CameraZoom)
	return w.doc, w.err
}

func encodeEvent(ev event.Event) (string, error) {
	w := &writer{doc: "{}"}
	w.set("floor", ev.Floor)
	w.set("eventType", ev.Kind().String())
	if !ev.Active {
		w.set("active", false)
	}
	if ev.Dynamic() {
		w.set("angleOffset", ev.AngleOffset)
		w.set("eventTag", strings.Join(ev.Tags, " "))
	}
	switch p := ev.Payload.(type) {
	case event.SetSpeed:
		w.token("speedType", p.SpeedType)
		w.set("beatsPerMinute", p.BPM)
		w.set("bpmMultiplier", p.Multiplier)
	case event.Twirl, event.Bookmark:
	case event.Pause:
		w.set("duration", p.Duration)
		w.set("countdownTicks", p.CountdownTicks)
	case event.Hold:
		w.set("duration", p.Duration)
		w.set("distanceMultiplier", p.DistanceMultiplier)
	case event.ColorTrack:
		w.token("trackColorType", p.ColorType)
		w.set("trackColor", p.Color.Hex())
		w.set("secondaryTrackColor", p.Secondary.Hex())
		w.set("trackColorAnimDuration", p.AnimDuration)
		w.token("trackStyle", p.Style)
	case event.AnimateTrack:
		w.token("trackAnimation", p.Appear)
		w.opt("beatsAhead", p.BeatsAhead)
		w.token("trackDisappearAnimation", p.Disappear)
		w.opt("beatsBehind", p.BeatsBehind)
	case event.PositionTrack:
		w.vec2("positionOffset", p.Offset)
		w.opt("rotation", p.Rotation)
		w.vec2Opt("scale", p.Scale)
		w.opt("opacity", p.Opacity)
		w.set("justThisTile", p.JustThisTile)
		w.set("editorOnly", p.EditorOnly)
		w.set("stickToFloors", p.StickToFloor)
	case event.MoveTrack:
		w.relIndex("startTile", p.Start)
		w.relIndex("endTile", p.End)
		w.set("duration", p.Duration)
		w.vec2Opt("positionOffset", p.Offset)
		w.opt("rotationOffset", p.Rotation)
		w.vec2Opt("scale", p.Scale)
		w.opt("opacity", p.Opacity)
		w.token("ease", p.Ease)
	case event.RecolorTrack:
		w.relIndex("startTile", p.Start)
		w.relIndex("endTile", p.End)
		w.set("duration", p.Duration)
		w.token("trackColorType", p.ColorType)
		w.set("trackColor", p.Color.Hex())
		w.set("secondaryTrackColor", p.Secondary.Hex())
		w.token("trackStyle", p.Style)
		w.token("ease", p.Ease)
	case event.MoveCamera:
		w.set("duration", p.Duration)
		w.token("relativeTo", p.Frame)
		w.vec2Opt("position", p.Position)
		w.opt("rotation", p.Rotation)
		w.opt("zoom", p.Zoom)
		w.token("ease", p.Ease)
	case event.RepeatEvents:
		w.token("repeatType", p.Type)
		w.set("repetitions", p.Repetitions)
		w.set("interval", p.Interval)
		w.set("floorCount", p.FloorCount)
		w.set("tag", strings.Join(p.Tags, " "))
		w.set("executeOnCurrentFloor", p.ExecuteOnCurrentFloor)
	case event.Checkpoint:
		w.set("tileOffset", p.TileOffset)
	default:
		return "", fmt.Errorf("event on floor %d has no payload: %w", ev.Floor, ErrMissingRequiredField)
	}
	return w.doc, w.err
}
