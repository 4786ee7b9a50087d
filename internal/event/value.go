package event

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Vec2 struct{ X, Y float64 }

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{v.X * f, v.Y * f}
}

func (v Vec2) Lerp(to Vec2, t float64) Vec2 {
	return Vec2{Lerp(v.X, to.X, t), Lerp(v.Y, to.Y, t)}
}

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Opt is an optional scalar. Documents may leave a component null to mean
// "leave this channel alone".
type Opt struct {
	V   float64
	Set bool
}

func Some(v float64) Opt { return Opt{V: v, Set: true} }

// Blend moves cur toward the option's value by t, or returns cur unchanged
// when the option is unset.
func (o Opt) Blend(cur, t float64) float64 {
	if !o.Set {
		return cur
	}
	return Lerp(cur, o.V, t)
}

type Vec2Opt struct{ X, Y Opt }

func (o Vec2Opt) Blend(cur Vec2, t float64) Vec2 {
	return Vec2{o.X.Blend(cur.X, t), o.Y.Blend(cur.Y, t)}
}

func (o Vec2Opt) Any() bool { return o.X.Set || o.Y.Set }

// Color is an RGBA color with 0..255 float channels so blends compound
// without intermediate rounding.
type Color struct{ R, G, B, A float64 }

var White = Color{255, 255, 255, 255}

// ParseColor reads "rrggbb" or "rrggbbaa", with or without a leading '#'.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return Color{}, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %v", s, err)
	}
	return Color{
		R: float64((v >> 24) & 0xff),
		G: float64((v >> 16) & 0xff),
		B: float64((v >> 8) & 0xff),
		A: float64(v & 0xff),
	}, nil
}

// Hex renders the color the way documents store it: six digits when opaque,
// eight otherwise.
func (c Color) Hex() string {
	r, g, b, a := channel(c.R), channel(c.G), channel(c.B), channel(c.A)
	if a == 0xff {
		return fmt.Sprintf("%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", r, g, b, a)
}

func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: Lerp(c.R, to.R, t),
		G: Lerp(c.G, to.G, t),
		B: Lerp(c.B, to.B, t),
		A: Lerp(c.A, to.A, t),
	}
}

// RGBA8 rounds the channels for display.
func (c Color) RGBA8() (uint8, uint8, uint8, uint8) {
	return channel(c.R), channel(c.G), channel(c.B), channel(c.A)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
