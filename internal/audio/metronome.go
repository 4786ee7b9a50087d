package audio

import (
	"math"
	"sort"
	"sync/atomic"
)

const (
	clickHz      = 1760.0
	clickSeconds = 0.03
	tailSeconds  = 0.25
)

// Metronome clicks once at every scheduled time, in ms relative to the chart
// time the stream starts at.
type Metronome struct {
	sampleRate int
	gain       float32
	ticks      []int64 // frame of each click, ascending
	clickLen   int64
	end        int64

	frame    atomic.Int64
	next     int
	lastTick int64
}

// NewMetronome clicks at each of tickMS, measured from startMS. Ticks before
// startMS are dropped.
func NewMetronome(sampleRate int, startMS float64, tickMS []float64, gain float64) *Metronome {
	m := &Metronome{
		sampleRate: sampleRate,
		gain:       float32(gain),
		clickLen:   int64(math.Round(clickSeconds * float64(sampleRate))),
		lastTick:   math.MinInt64,
	}
	for _, ms := range tickMS {
		if ms < startMS {
			continue
		}
		m.ticks = append(m.ticks, int64(math.Round((ms-startMS)*float64(sampleRate)/1000)))
	}
	sort.Slice(m.ticks, func(i, j int) bool { return m.ticks[i] < m.ticks[j] })
	if n := len(m.ticks); n > 0 {
		m.end = m.ticks[n-1]
	}
	m.end += m.clickLen + int64(math.Round(tailSeconds*float64(sampleRate)))
	return m
}

func (m *Metronome) Process(dst []float32) {
	frame := m.frame.Load()
	for i := 0; i+1 < len(dst); i += 2 {
		for m.next < len(m.ticks) && m.ticks[m.next] <= frame {
			m.lastTick = m.ticks[m.next]
			m.next++
		}
		var s float32
		if d := frame - m.lastTick; m.lastTick != math.MinInt64 && d < m.clickLen {
			t := float64(d) / float64(m.sampleRate)
			env := 1 - float64(d)/float64(m.clickLen)
			s = m.gain * float32(env*math.Sin(2*math.Pi*clickHz*t))
		}
		dst[i], dst[i+1] = s, s
		frame++
	}
	m.frame.Store(frame)
}

// Finished reports whether the last click and its tail have played.
func (m *Metronome) Finished() bool {
	return m.frame.Load() >= m.end
}

// Frames is the number of frames rendered so far.
func (m *Metronome) Frames() int64 {
	return m.frame.Load()
}
