package event

import (
	"slices"

	"github.com/cbegin/chartline-go/internal/ease"
)

// Event is a value: copying it yields an independent event, which is all the
// repeat expansion needs to clone one.
type Event struct {
	Floor  int
	Active bool

	// Dynamic kinds only.
	AngleOffset float64
	Beat        float64
	Tags        []string
	Generated   bool

	Payload Payload
}

// Payload is the closed set of event variants.
type Payload interface {
	Kind() Kind
	isPayload()
}

func (e Event) Kind() Kind {
	if e.Payload == nil {
		return 0
	}
	return e.Payload.Kind()
}

func (e Event) Dynamic() bool { return e.Kind().Dynamic() }

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event {
	c := e
	c.Tags = slices.Clone(e.Tags)
	if r, ok := e.Payload.(RepeatEvents); ok {
		r.Tags = slices.Clone(r.Tags)
		c.Payload = r
	}
	return c
}

// HasAnyTag reports whether e carries at least one of tags.
func (e Event) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if slices.Contains(e.Tags, t) {
			return true
		}
	}
	return false
}

type SetSpeed struct {
	SpeedType  SpeedType
	BPM        float64
	Multiplier float64
}

type Twirl struct{}

// Pause stretches the travel after its floor by Duration beats.
type Pause struct {
	Duration       float64
	CountdownTicks int
}

// Hold keeps the player on its floor for Duration full rotations.
type Hold struct {
	Duration           int
	DistanceMultiplier float64
}

type ColorTrack struct {
	ColorType    TrackColorType
	Color        Color
	Secondary    Color
	AnimDuration float64
	Style        TrackStyle
}

type AnimateTrack struct {
	Appear      AppearAnimation
	BeatsAhead  Opt
	Disappear   DisappearAnimation
	BeatsBehind Opt
}

type PositionTrack struct {
	Offset       Vec2
	Rotation     Opt
	Scale        Vec2Opt
	Opacity      Opt
	JustThisTile bool
	EditorOnly   bool
	StickToFloor bool
}

type MoveTrack struct {
	Start    RelativeIndex
	End      RelativeIndex
	Duration float64
	Offset   Vec2Opt
	Rotation Opt
	Scale    Vec2Opt
	Opacity  Opt
	Ease     ease.Ease
}

type RecolorTrack struct {
	Start     RelativeIndex
	End       RelativeIndex
	Duration  float64
	ColorType TrackColorType
	Color     Color
	Secondary Color
	Style     TrackStyle
	Ease      ease.Ease
}

type MoveCamera struct {
	Duration float64
	Frame    CameraFrame
	Position Vec2Opt
	Rotation Opt
	Zoom     Opt
	Ease     ease.Ease
}

// RepeatEvents re-schedules the tagged dynamic events of its floor.
type RepeatEvents struct {
	Type                  RepeatType
	Repetitions           int
	Interval              float64
	FloorCount            int
	Tags                  []string
	ExecuteOnCurrentFloor bool
}

type Checkpoint struct{ TileOffset int }

type Bookmark struct{}

func (SetSpeed) Kind() Kind      { return KindSetSpeed }
func (Twirl) Kind() Kind         { return KindTwirl }
func (Pause) Kind() Kind         { return KindPause }
func (Hold) Kind() Kind          { return KindHold }
func (ColorTrack) Kind() Kind    { return KindColorTrack }
func (AnimateTrack) Kind() Kind  { return KindAnimateTrack }
func (PositionTrack) Kind() Kind { return KindPositionTrack }
func (MoveTrack) Kind() Kind     { return KindMoveTrack }
func (RecolorTrack) Kind() Kind  { return KindRecolorTrack }
func (MoveCamera) Kind() Kind    { return KindMoveCamera }
func (RepeatEvents) Kind() Kind  { return KindRepeatEvents }
func (Checkpoint) Kind() Kind    { return KindCheckpoint }
func (Bookmark) Kind() Kind      { return KindBookmark }

func (SetSpeed) isPayload()      {}
func (Twirl) isPayload()         {}
func (Pause) isPayload()         {}
func (Hold) isPayload()          {}
func (ColorTrack) isPayload()    {}
func (AnimateTrack) isPayload()  {}
func (PositionTrack) isPayload() {}
func (MoveTrack) isPayload()     {}
func (RecolorTrack) isPayload()  {}
func (MoveCamera) isPayload()    {}
func (RepeatEvents) isPayload()  {}
func (Checkpoint) isPayload()    {}
func (Bookmark) isPayload()      {}
