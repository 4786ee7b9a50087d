package chart

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/cbegin/chartline-go/internal/ease"
	"github.com/cbegin/chartline-go/internal/event"
)

// MaxRepeatCount bounds the repetitions and floorCount of a RepeatEvents
// modifier.
const MaxRepeatCount = 10000

// Decode parses a chart document. A UTF-8 or UTF-16 byte order mark is
// honored and trailing commas are tolerated, since editors write both.
func Decode(data []byte) (*Chart, error) {
	text, err := normalize(data)
	if err != nil {
		return nil, err
	}
	root := gjson.ParseBytes(text)
	if !root.IsObject() {
		return nil, fmt.Errorf("chart: document root is not an object: %w", ErrMalformedDocument)
	}

	settings, err := decodeSettings(root.Get("settings"))
	if err != nil {
		return nil, err
	}

	var angles []float64
	if ad := root.Get("angleData"); ad.Exists() {
		angles, err = decodeAngles(ad)
	} else if pd := root.Get("pathData"); pd.Exists() {
		angles, err = AnglesFromPath(pd.String())
	} else {
		err = &FieldError{Event: -1, Field: "angleData/pathData", Err: ErrMissingRequiredField}
	}
	if err != nil {
		return nil, err
	}

	c := &Chart{settings: settings, angles: angles}
	actions := root.Get("actions")
	if actions.Exists() && !actions.IsArray() {
		return nil, &FieldError{Event: -1, Field: "actions", Err: ErrMalformedDocument}
	}
	for i, a := range actions.Array() {
		ev, err := decodeEvent(i, a)
		if err != nil {
			return nil, err
		}
		if ev.Floor < 0 || ev.Floor >= c.TileCount() {
			return nil, &FieldError{Event: i, Kind: ev.Kind().String(), Field: "floor", Token: fmt.Sprint(ev.Floor), Err: event.ErrIndexOutOfRange}
		}
		c.events = append(c.events, ev)
	}
	return c, nil
}

func normalize(data []byte) ([]byte, error) {
	utf16 := bytes.HasPrefix(data, []byte{0xfe, 0xff}) || bytes.HasPrefix(data, []byte{0xff, 0xfe})
	if !utf16 && !utf8.Valid(data) {
		return nil, fmt.Errorf("chart: invalid UTF-8: %w", ErrMalformedDocument)
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("chart: decode text: %v: %w", err, ErrMalformedDocument)
	}
	if gjson.ValidBytes(text) {
		return text, nil
	}
	text = stripTrailingCommas(text)
	if !gjson.ValidBytes(text) {
		return nil, fmt.Errorf("chart: invalid JSON: %w", ErrMalformedDocument)
	}
	return text, nil
}

// stripTrailingCommas drops commas that directly precede a closing bracket,
// ignoring string contents.
func stripTrailingCommas(src []byte) []byte {
	out := make([]byte, 0, len(src))
	inString, escaped := false, false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
		}
		if ch == ',' {
			j := i + 1
			for j < len(src) && isJSONSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				continue
			}
		}
		out = append(out, ch)
	}
	return out
}

func isJSONSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func decodeAngles(r gjson.Result) ([]float64, error) {
	if !r.IsArray() {
		return nil, &FieldError{Event: -1, Field: "angleData", Err: ErrMalformedDocument}
	}
	items := r.Array()
	angles := make([]float64, 0, len(items))
	for i, v := range items {
		if v.Type != gjson.Number || math.IsInf(v.Float(), 0) {
			return nil, &FieldError{Event: -1, Field: fmt.Sprintf("angleData[%d]", i), Token: v.Raw, Err: ErrMalformedDocument}
		}
		angles = append(angles, v.Float())
	}
	return angles, nil
}

func decodeSettings(r gjson.Result) (Settings, error) {
	s := DefaultSettings()
	if !r.Exists() {
		return s, &FieldError{Event: -1, Field: "settings", Err: ErrMissingRequiredField}
	}
	if !r.IsObject() {
		return s, &FieldError{Event: -1, Field: "settings", Err: ErrMalformedDocument}
	}
	f := &fields{obj: r, event: -1}
	s.Version = f.integer("version", s.Version)
	s.Artist = f.str("artist", "")
	s.Song = f.str("song", "")
	s.Author = f.str("author", "")
	s.Difficulty = f.integer("difficulty", 0)
	s.BPM = f.positive("bpm", f.reqNum("bpm"))
	s.Offset = f.num("offset", 0)
	s.Pitch = f.positive("pitch", f.num("pitch", s.Pitch))
	s.TrackColorType = enumField(f, "trackColorType", s.TrackColorType, event.ParseTrackColorType)
	s.TrackColor = f.color("trackColor", s.TrackColor)
	s.SecondaryColor = f.color("secondaryTrackColor", s.SecondaryColor)
	s.TrackAnimDuration = f.num("trackColorAnimDuration", s.TrackAnimDuration)
	s.TrackStyle = enumField(f, "trackStyle", s.TrackStyle, event.ParseTrackStyle)
	s.TrackAppear = enumField(f, "trackAnimation", s.TrackAppear, event.ParseAppearAnimation)
	s.BeatsAhead = f.num("beatsAhead", s.BeatsAhead)
	s.TrackDisappear = enumField(f, "trackDisappearAnimation", s.TrackDisappear, event.ParseDisappearAnimation)
	s.BeatsBehind = f.num("beatsBehind", s.BeatsBehind)
	s.StickToFloors = f.flag("stickToFloors", false)
	s.CameraFrame = enumField(f, "relativeTo", s.CameraFrame, event.ParseCameraFrame)
	s.CameraPosition = f.vec2("position", s.CameraPosition)
	s.CameraRotation = f.num("rotation", 0)
	s.CameraZoom = f.num("zoom", s.CameraZoom)
	s.raw = r.Raw
	return s, f.err
}

func decodeEvent(i int, r gjson.Result) (event.Event, error) {
	if !r.IsObject() {
		return event.Event{}, &FieldError{Event: i, Field: "action", Token: r.Raw, Err: ErrMalformedDocument}
	}
	tok := r.Get("eventType")
	if !tok.Exists() {
		return event.Event{}, &FieldError{Event: i, Field: "eventType", Err: ErrMissingRequiredField}
	}
	kind, ok := event.ParseKind(tok.String())
	if !ok {
		return event.Event{}, &FieldError{Event: i, Field: "eventType", Token: tok.String(), Err: ErrUnknownEnumValue}
	}
	f := &fields{obj: r, event: i, kind: kind.String()}
	ev := event.Event{
		Floor:  f.reqInt("floor"),
		Active: f.flag("active", true),
	}
	if kind.Dynamic() {
		ev.AngleOffset = f.num("angleOffset", 0)
		ev.Tags = strings.Fields(f.str("eventTag", ""))
	}
	ev.Payload = decodePayload(kind, f)
	return ev, f.err
}

func decodePayload(kind event.Kind, f *fields) event.Payload {
	def := DefaultSettings()
	switch kind {
	case event.KindSetSpeed:
		p := event.SetSpeed{SpeedType: enumField(f, "speedType", event.SpeedBPM, event.ParseSpeedType)}
		if p.SpeedType == event.SpeedBPM {
			p.BPM = f.positive("beatsPerMinute", f.reqNum("beatsPerMinute"))
			p.Multiplier = f.num("bpmMultiplier", 1)
		} else {
			p.BPM = f.num("beatsPerMinute", def.BPM)
			p.Multiplier = f.positive("bpmMultiplier", f.reqNum("bpmMultiplier"))
		}
		return p
	case event.KindTwirl:
		return event.Twirl{}
	case event.KindPause:
		return event.Pause{
			Duration:       f.nonNegative("duration", f.reqNum("duration")),
			CountdownTicks: f.integer("countdownTicks", 0),
		}
	case event.KindHold:
		return event.Hold{
			Duration:           int(f.nonNegative("duration", float64(f.reqInt("duration")))),
			DistanceMultiplier: f.num("distanceMultiplier", 100),
		}
	case event.KindColorTrack:
		return event.ColorTrack{
			ColorType:    enumField(f, "trackColorType", def.TrackColorType, event.ParseTrackColorType),
			Color:        f.color("trackColor", def.TrackColor),
			Secondary:    f.color("secondaryTrackColor", def.SecondaryColor),
			AnimDuration: f.num("trackColorAnimDuration", def.TrackAnimDuration),
			Style:        enumField(f, "trackStyle", def.TrackStyle, event.ParseTrackStyle),
		}
	case event.KindAnimateTrack:
		return event.AnimateTrack{
			Appear:      enumField(f, "trackAnimation", event.AppearUnset, event.ParseAppearAnimation),
			BeatsAhead:  f.opt("beatsAhead"),
			Disappear:   enumField(f, "trackDisappearAnimation", event.DisappearUnset, event.ParseDisappearAnimation),
			BeatsBehind: f.opt("beatsBehind"),
		}
	case event.KindPositionTrack:
		return event.PositionTrack{
			Offset:       f.vec2("positionOffset", event.Vec2{}),
			Rotation:     f.opt("rotation"),
			Scale:        f.vec2Opt("scale"),
			Opacity:      f.opt("opacity"),
			JustThisTile: f.flag("justThisTile", false),
			EditorOnly:   f.flag("editorOnly", false),
			StickToFloor: f.flag("stickToFloors", false),
		}
	case event.KindMoveTrack:
		return event.MoveTrack{
			Start:    f.relIndex("startTile"),
			End:      f.relIndex("endTile"),
			Duration: f.nonNegative("duration", f.num("duration", 1)),
			Offset:   f.vec2Opt("positionOffset"),
			Rotation: f.opt("rotationOffset"),
			Scale:    f.vec2Opt("scale"),
			Opacity:  f.opt("opacity"),
			Ease:     enumField(f, "ease", ease.Linear, ease.Parse),
		}
	case event.KindRecolorTrack:
		return event.RecolorTrack{
			Start:     f.relIndex("startTile"),
			End:       f.relIndex("endTile"),
			Duration:  f.nonNegative("duration", f.num("duration", 0)),
			ColorType: enumField(f, "trackColorType", def.TrackColorType, event.ParseTrackColorType),
			Color:     f.color("trackColor", def.TrackColor),
			Secondary: f.color("secondaryTrackColor", def.SecondaryColor),
			Style:     enumField(f, "trackStyle", def.TrackStyle, event.ParseTrackStyle),
			Ease:      enumField(f, "ease", ease.Linear, ease.Parse),
		}
	case event.KindMoveCamera:
		return event.MoveCamera{
			Duration: f.nonNegative("duration", f.num("duration", 1)),
			Frame:    enumField(f, "relativeTo", event.FrameUnset, event.ParseCameraFrame),
			Position: f.vec2Opt("position"),
			Rotation: f.opt("rotation"),
			Zoom:     f.opt("zoom"),
			Ease:     enumField(f, "ease", ease.Linear, ease.Parse),
		}
	case event.KindRepeatEvents:
		return event.RepeatEvents{
			Type:                  enumField(f, "repeatType", event.RepeatBeat, event.ParseRepeatType),
			Repetitions:           f.count("repetitions", f.reqNum("repetitions")),
			Interval:              f.num("interval", 1),
			FloorCount:            f.count("floorCount", f.num("floorCount", 1)),
			Tags:                  strings.Fields(f.str("tag", "")),
			ExecuteOnCurrentFloor: f.flag("executeOnCurrentFloor", false),
		}
	case event.KindCheckpoint:
		return event.Checkpoint{TileOffset: f.integer("tileOffset", 0)}
	case event.KindBookmark:
		return event.Bookmark{}
	}
	return nil
}
