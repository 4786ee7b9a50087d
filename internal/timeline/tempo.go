package timeline

import (
	"sort"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
)

// segment is a stretch of constant tempo starting at beat, which plays at
// time ms.
type segment struct {
	beat float64
	time float64
	bpm  float64
}

func (s segment) msPerBeat() float64 { return 60000 / s.bpm }

func applySpeed(bpm float64, p event.SetSpeed) float64 {
	if p.SpeedType == event.SpeedMultiplier {
		return bpm * p.Multiplier
	}
	return p.BPM
}

func pitchScale(s chart.Settings) float64 {
	if s.Pitch > 0 {
		return s.Pitch / 100
	}
	return 1
}

// buildSegments integrates the beat-ordered tempo list. Tempo is scaled by
// the chart's pitch, and times are shifted so that beat 0 plays at the
// chart offset.
func buildSegments(tempo []event.Event, s chart.Settings) []segment {
	scale := pitchScale(s)
	start := 0.0
	if len(tempo) > 0 && tempo[0].Beat < start {
		start = tempo[0].Beat
	}
	bpm := s.BPM
	segs := []segment{{beat: start, bpm: bpm * scale}}
	for _, ev := range tempo {
		bpm = applySpeed(bpm, ev.Payload.(event.SetSpeed))
		last := &segs[len(segs)-1]
		if ev.Beat == last.beat {
			last.bpm = bpm * scale
			continue
		}
		segs = append(segs, segment{
			beat: ev.Beat,
			time: last.time + (ev.Beat-last.beat)*last.msPerBeat(),
			bpm:  bpm * scale,
		})
	}
	shift := s.Offset - timeAt(segs, 0)
	for i := range segs {
		segs[i].time += shift
	}
	return segs
}

func timeAt(segs []segment, beat float64) float64 {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].beat > beat }) - 1
	if i < 0 {
		i = 0
	}
	s := segs[i]
	return s.time + (beat-s.beat)*s.msPerBeat()
}

func beatAt(segs []segment, ms float64) float64 {
	i := sort.Search(len(segs), func(i int) bool { return segs[i].time > ms }) - 1
	if i < 0 {
		i = 0
	}
	s := segs[i]
	return s.beat + (ms-s.time)/s.msPerBeat()
}

func (t *Timeline) beatToTime(beat float64) float64 { return timeAt(t.segments, beat) }

// BeatToTime converts a beat to ms from audio start.
func (t *Timeline) BeatToTime(beat float64) (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return t.beatToTime(beat), nil
}

// TimeToBeat converts ms from audio start to a beat.
func (t *Timeline) TimeToBeat(ms float64) (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return beatAt(t.segments, ms), nil
}

// BPMAt returns the effective tempo at beat. With inclusive set, a tempo
// change exactly at beat already applies.
func (t *Timeline) BPMAt(beat float64, inclusive bool) (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	bpm := t.settings.BPM
	for _, ev := range t.tempo {
		if ev.Beat > beat || !inclusive && ev.Beat == beat {
			break
		}
		bpm = applySpeed(bpm, ev.Payload.(event.SetSpeed))
	}
	return bpm * pitchScale(t.settings), nil
}
