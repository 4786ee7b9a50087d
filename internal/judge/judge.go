package judge

import (
	"fmt"
	"math"

	"github.com/cbegin/chartline-go/internal/event"
)

// Difficulty caps the tempo used to size the timing windows, so fast charts
// do not shrink them without bound.
type Difficulty int

const (
	Lenient Difficulty = iota
	Normal
	Strict
)

func (d Difficulty) String() string {
	switch d {
	case Lenient:
		return "Lenient"
	case Normal:
		return "Normal"
	case Strict:
		return "Strict"
	}
	return ""
}

func ParseDifficulty(token string) (Difficulty, bool) {
	for d := Lenient; d <= Strict; d++ {
		if d.String() == token {
			return d, true
		}
	}
	return 0, false
}

// BPMCap is the highest tempo whose windows d still scales with.
func (d Difficulty) BPMCap() float64 {
	switch d {
	case Lenient:
		return 210
	case Strict:
		return 330
	default:
		return 270
	}
}

// Margin is a hit classification, ordered from earliest to latest.
type Margin int

const (
	TooEarly Margin = iota
	VeryEarly
	EarlyPerfect
	Perfect
	LatePerfect
	VeryLate
	TooLate
)

func (m Margin) String() string {
	switch m {
	case TooEarly:
		return "TooEarly"
	case VeryEarly:
		return "VeryEarly"
	case EarlyPerfect:
		return "EarlyPerfect"
	case Perfect:
		return "Perfect"
	case LatePerfect:
		return "LatePerfect"
	case VeryLate:
		return "VeryLate"
	case TooLate:
		return "TooLate"
	}
	return ""
}

// Accuracy is the score a margin earns, in percent.
func (m Margin) Accuracy() float64 {
	switch m {
	case Perfect:
		return 100
	case EarlyPerfect, LatePerfect:
		return 75
	case VeryEarly, VeryLate:
		return 40
	default:
		return 20
	}
}

// Timeline is the part of a resolved timeline judgement reads.
type Timeline interface {
	TileBeat(index int) (float64, error)
	BeatToTime(beat float64) (float64, error)
	BPMAt(beat float64, inclusive bool) (float64, error)
}

// Thresholds are the half-widths of the timing windows in ms.
type Thresholds struct {
	Perfect float64
	Near    float64
	Far     float64
}

// ThresholdsAt sizes the windows for a hit on tile index.
func ThresholdsAt(tl Timeline, index int, d Difficulty) (Thresholds, error) {
	beat, err := tileBeat(tl, index)
	if err != nil {
		return Thresholds{}, err
	}
	bpm, err := tl.BPMAt(beat, false)
	if err != nil {
		return Thresholds{}, err
	}
	ms := 60000 / math.Min(d.BPMCap(), bpm)
	return Thresholds{Perfect: ms / 6, Near: ms / 4, Far: ms / 3}, nil
}

// Timing returns how far ms is from tile index's scheduled time; positive is
// late.
func Timing(tl Timeline, index int, ms float64) (float64, error) {
	beat, err := tileBeat(tl, index)
	if err != nil {
		return 0, err
	}
	at, err := tl.BeatToTime(beat)
	if err != nil {
		return 0, err
	}
	return ms - at, nil
}

// HitMargin classifies an input at ms aimed at tile index.
func HitMargin(tl Timeline, index int, ms float64, d Difficulty) (Margin, error) {
	timing, err := Timing(tl, index, ms)
	if err != nil {
		return 0, err
	}
	th, err := ThresholdsAt(tl, index, d)
	if err != nil {
		return 0, err
	}
	return Classify(timing, th), nil
}

// Classify buckets a timing offset. Each window includes its boundary.
func Classify(timing float64, th Thresholds) Margin {
	switch {
	case math.Abs(timing) <= th.Perfect:
		return Perfect
	case timing > 0 && timing <= th.Near:
		return LatePerfect
	case timing < 0 && -timing <= th.Near:
		return EarlyPerfect
	case timing > 0 && timing <= th.Far:
		return VeryLate
	case timing < 0 && -timing <= th.Far:
		return VeryEarly
	case timing > 0:
		return TooLate
	default:
		return TooEarly
	}
}

// The origin tile has no beat and cannot be hit.
func tileBeat(tl Timeline, index int) (float64, error) {
	if index < 1 {
		return 0, fmt.Errorf("judge: tile %d cannot be hit: %w", index, event.ErrIndexOutOfRange)
	}
	return tl.TileBeat(index)
}

// Tally counts the margins of a played run.
type Tally struct {
	Counts [TooLate + 1]int
}

func (t *Tally) Add(m Margin) {
	if m >= TooEarly && m <= TooLate {
		t.Counts[m]++
	}
}

func (t *Tally) Total() int {
	n := 0
	for _, c := range t.Counts {
		n += c
	}
	return n
}

// Accuracy is the mean accuracy of every counted hit, or 0 with none.
func (t *Tally) Accuracy() float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	sum := 0.0
	for m, c := range t.Counts {
		sum += Margin(m).Accuracy() * float64(c)
	}
	return sum / float64(total)
}
