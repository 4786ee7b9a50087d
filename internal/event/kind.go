package event

// Kind identifies an event variant.
type Kind int

const (
	KindSetSpeed Kind = iota + 1
	KindTwirl
	KindPause
	KindHold
	KindColorTrack
	KindAnimateTrack
	KindPositionTrack
	KindMoveTrack
	KindRecolorTrack
	KindMoveCamera
	KindRepeatEvents
	KindCheckpoint
	KindBookmark
)

// String returns the document token of the kind.
func (k Kind) String() string {
	switch k {
	case KindSetSpeed:
		return "SetSpeed"
	case KindTwirl:
		return "Twirl"
	case KindPause:
		return "Pause"
	case KindHold:
		return "Hold"
	case KindColorTrack:
		return "ColorTrack"
	case KindAnimateTrack:
		return "AnimateTrack"
	case KindPositionTrack:
		return "PositionTrack"
	case KindMoveTrack:
		return "MoveTrack"
	case KindRecolorTrack:
		return "RecolorTrack"
	case KindMoveCamera:
		return "MoveCamera"
	case KindRepeatEvents:
		return "RepeatEvents"
	case KindCheckpoint:
		return "Checkpoint"
	case KindBookmark:
		return "Bookmark"
	}
	return ""
}

// Dynamic reports whether events of this kind carry a resolved beat.
// Static kinds only act on their floor while the chain is built.
func (k Kind) Dynamic() bool {
	switch k {
	case KindSetSpeed, KindMoveTrack, KindRecolorTrack, KindMoveCamera:
		return true
	}
	return false
}

func ParseKind(token string) (Kind, bool) {
	return parseToken(token, KindSetSpeed, KindBookmark)
}

// parseToken scans the contiguous constant range [first, last] for a value
// whose String matches token.
func parseToken[T interface {
	~int
	String() string
}](token string, first, last T) (T, bool) {
	for v := first; v <= last; v++ {
		if v.String() == token {
			return v, true
		}
	}
	var zero T
	return zero, false
}
