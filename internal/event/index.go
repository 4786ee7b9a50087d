package event

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange reports a tile reference outside the chain.
var ErrIndexOutOfRange = errors.New("tile index out of range")

type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorThisTile
	AnchorEnd
)

func (a Anchor) String() string {
	switch a {
	case AnchorStart:
		return "Start"
	case AnchorThisTile:
		return "ThisTile"
	case AnchorEnd:
		return "End"
	}
	return ""
}

func ParseAnchor(token string) (Anchor, bool) {
	return parseToken(token, AnchorStart, AnchorEnd)
}

// RelativeIndex addresses a tile relative to the chain start, the chain end
// or the floor of the event holding it.
type RelativeIndex struct {
	Offset int
	Anchor Anchor
}

// Abs resolves the index without range checks.
func (r RelativeIndex) Abs(floor, count int) int {
	switch r.Anchor {
	case AnchorThisTile:
		return floor + r.Offset
	case AnchorEnd:
		return count - 1 + r.Offset
	default:
		return r.Offset
	}
}

// Resolve returns the absolute index or ErrIndexOutOfRange.
func (r RelativeIndex) Resolve(floor, count int) (int, error) {
	i := r.Abs(floor, count)
	if i < 0 || i >= count {
		return 0, fmt.Errorf("%d %s from floor %d in %d tiles: %w", r.Offset, r.Anchor, floor, count, ErrIndexOutOfRange)
	}
	return i, nil
}

// Range resolves [start, end] against a chain of count tiles, ordering the
// ends and clamping them into the chain. ok is false when the range lies
// entirely outside; clamped reports whether either end was moved.
func Range(start, end RelativeIndex, floor, count int) (lo, hi int, clamped, ok bool) {
	lo, hi = start.Abs(floor, count), end.Abs(floor, count)
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi < 0 || lo >= count {
		return 0, 0, true, false
	}
	if lo < 0 {
		lo, clamped = 0, true
	}
	if hi >= count {
		hi, clamped = count-1, true
	}
	return lo, hi, clamped, true
}
