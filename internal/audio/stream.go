package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// Source fills interleaved stereo float32 frames.
type Source interface {
	Process(dst []float32)
}

// Finisher is a Source that knows when it has nothing more to play. The
// stream ends with io.EOF once Finished reports true.
type Finisher interface {
	Source
	Finished() bool
}

// readFunc adapts a method to io.Reader.
type readFunc func(p []byte) (int, error)

func (f readFunc) Read(p []byte) (int, error) { return f(p) }

var (
	contextOnce sync.Once
	context     *ebitaudio.Context
	contextRate int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		context = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context already running at %d Hz (requested %d Hz)", contextRate, sampleRate)
	}
	return context, nil
}

// Clock plays a Source and reports the chart time the listener is hearing,
// which is the time inputs are judged against.
type Clock struct {
	player  *ebitaudio.Player
	startMS float64

	// Only the player's reader goroutine touches these.
	src     Source
	samples []float32
}

// NewClock starts src at chart time startMS once Play is called.
func NewClock(sampleRate int, src Source, startMS float64) (*Clock, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	c := &Clock{startMS: startMS, src: src}
	c.player, err = ctx.NewPlayerF32(readFunc(c.render))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// render fills p with whole little-endian float32 stereo frames from the
// source. A finished source ends the stream.
func (c *Clock) render(p []byte) (int, error) {
	if f, ok := c.src.(Finisher); ok && f.Finished() {
		return 0, io.EOF
	}
	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	c.samples = slices.Grow(c.samples[:0], 2*frames)[:2*frames]
	c.src.Process(c.samples)
	n, err := binary.Encode(p, binary.LittleEndian, c.samples)
	if err != nil {
		return 0, err
	}
	if f, ok := c.src.(Finisher); ok && f.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (c *Clock) Play()         { c.player.Play() }
func (c *Clock) Pause()        { c.player.Pause() }
func (c *Clock) Playing() bool { return c.player.IsPlaying() }

// Millis is the chart time in ms at the current playback position.
func (c *Clock) Millis() float64 {
	return c.startMS + float64(c.player.Position())/float64(time.Millisecond)
}

func (c *Clock) Close() error {
	c.player.Pause()
	return c.player.Close()
}
