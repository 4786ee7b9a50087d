package chartline

import (
	"encoding/binary"
	"errors"
	"math"
)

// Frame is the engine state at one sampled instant.
type Frame struct {
	Time   float64 // ms from audio start
	Beat   float64
	BPM    float64
	Tiles  []TileRenderState
	Camera CameraPose
}

// SampleFrames queries tl at a fixed frame rate from startMS for seconds,
// the way a renderer would drive it.
func SampleFrames(tl *Timeline, fps int, startMS, seconds float64) ([]Frame, error) {
	if fps <= 0 {
		return nil, errors.New("fps must be positive")
	}
	count := int(float64(fps) * seconds)
	frames := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		ms := startMS + float64(i)*1000/float64(fps)
		f, err := SampleAt(tl, ms)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// SampleAt runs every query for time ms.
func SampleAt(tl *Timeline, ms float64) (Frame, error) {
	beat, err := tl.TimeToBeat(ms)
	if err != nil {
		return Frame{}, err
	}
	bpm, err := tl.BPMAt(beat, true)
	if err != nil {
		return Frame{}, err
	}
	tiles, err := tl.TileStatesAt(beat)
	if err != nil {
		return Frame{}, err
	}
	cam, err := tl.CameraPoseAt(beat)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Time: ms, Beat: beat, BPM: bpm, Tiles: tiles, Camera: cam}, nil
}

// EncodeFrames packs frames as little-endian float64 records so runs can be
// compared bit for bit.
func EncodeFrames(frames []Frame) []byte {
	var out []byte
	put := func(vs ...float64) {
		for _, v := range vs {
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
		}
	}
	for _, f := range frames {
		put(f.Time, f.Beat, f.BPM)
		c := f.Camera
		put(float64(c.Frame), c.Offset.X, c.Offset.Y, c.Position.X, c.Position.Y, c.Rotation, c.Zoom)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(f.Tiles)))
		for _, s := range f.Tiles {
			put(float64(s.Phase), s.Position.X, s.Position.Y, s.Rotation, s.Scale.X, s.Scale.Y, s.Opacity,
				float64(s.ColorType), s.Color.R, s.Color.G, s.Color.B, s.Color.A,
				s.Secondary.R, s.Secondary.G, s.Secondary.B, s.Secondary.A, float64(s.Style))
		}
	}
	return out
}
