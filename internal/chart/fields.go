package chart

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/cbegin/chartline-go/internal/event"
)

// fields reads typed values out of one JSON object and keeps the first
// failure, so payload decoders can read every field before checking.
type fields struct {
	obj   gjson.Result
	event int
	kind  string
	err   error
}

func (f *fields) fail(field, token string, err error) {
	if f.err == nil {
		f.err = &FieldError{Event: f.event, Kind: f.kind, Field: field, Token: token, Err: err}
	}
}

// get returns the value and whether it is present and not null.
func (f *fields) get(name string) (gjson.Result, bool) {
	v := f.obj.Get(name)
	return v, v.Exists() && v.Type != gjson.Null
}

func (f *fields) num(name string, def float64) float64 {
	v, ok := f.get(name)
	if !ok {
		return def
	}
	if v.Type != gjson.Number {
		f.fail(name, v.Raw, ErrMalformedDocument)
		return def
	}
	return v.Float()
}

func (f *fields) reqNum(name string) float64 {
	if _, ok := f.get(name); !ok {
		f.fail(name, "", ErrMissingRequiredField)
		return 0
	}
	return f.num(name, 0)
}

func (f *fields) integer(name string, def int) int {
	return int(math.Round(f.num(name, float64(def))))
}

func (f *fields) reqInt(name string) int {
	return int(math.Round(f.reqNum(name)))
}

func (f *fields) positive(name string, v float64) float64 {
	if f.err == nil && !(v > 0) {
		f.fail(name, fmt.Sprint(v), fmt.Errorf("%w: must be positive", ErrMalformedDocument))
	}
	return v
}

func (f *fields) nonNegative(name string, v float64) float64 {
	if f.err == nil && v < 0 {
		f.fail(name, fmt.Sprint(v), fmt.Errorf("%w: must not be negative", ErrMalformedDocument))
	}
	return v
}

// count rounds v to a whole count, failing outside [0, MaxRepeatCount].
func (f *fields) count(name string, v float64) int {
	if f.err != nil {
		return 0
	}
	if v < 0 || v > MaxRepeatCount {
		f.fail(name, fmt.Sprint(v), fmt.Errorf("%w: must be between 0 and %d", ErrMalformedDocument, MaxRepeatCount))
		return 0
	}
	return int(math.Round(v))
}

func (f *fields) str(name, def string) string {
	v, ok := f.get(name)
	if !ok {
		return def
	}
	if v.Type != gjson.String {
		f.fail(name, v.Raw, ErrMalformedDocument)
		return def
	}
	return v.String()
}

// flag accepts JSON booleans and the older "Enabled"/"Disabled" strings.
func (f *fields) flag(name string, def bool) bool {
	v, ok := f.get(name)
	if !ok {
		return def
	}
	switch v.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.String:
		switch v.String() {
		case "Enabled":
			return true
		case "Disabled":
			return false
		}
		f.fail(name, v.String(), ErrUnknownEnumValue)
		return def
	}
	f.fail(name, v.Raw, ErrMalformedDocument)
	return def
}

func (f *fields) opt(name string) event.Opt {
	v, ok := f.get(name)
	if !ok {
		return event.Opt{}
	}
	if v.Type != gjson.Number {
		f.fail(name, v.Raw, ErrMalformedDocument)
		return event.Opt{}
	}
	return event.Some(v.Float())
}

// vec2Opt reads [x, y] where either component may be null. A bare number
// sets both components.
func (f *fields) vec2Opt(name string) event.Vec2Opt {
	v, ok := f.get(name)
	if !ok {
		return event.Vec2Opt{}
	}
	if v.Type == gjson.Number {
		return event.Vec2Opt{X: event.Some(v.Float()), Y: event.Some(v.Float())}
	}
	items := v.Array()
	if !v.IsArray() || len(items) != 2 {
		f.fail(name, v.Raw, ErrMalformedDocument)
		return event.Vec2Opt{}
	}
	var out event.Vec2Opt
	for i, it := range items {
		var o event.Opt
		switch it.Type {
		case gjson.Null:
		case gjson.Number:
			o = event.Some(it.Float())
		default:
			f.fail(name, v.Raw, ErrMalformedDocument)
			return event.Vec2Opt{}
		}
		if i == 0 {
			out.X = o
		} else {
			out.Y = o
		}
	}
	return out
}

func (f *fields) vec2(name string, def event.Vec2) event.Vec2 {
	o := f.vec2Opt(name)
	if o.X.Set {
		def.X = o.X.V
	}
	if o.Y.Set {
		def.Y = o.Y.V
	}
	return def
}

func (f *fields) color(name string, def event.Color) event.Color {
	s := f.str(name, "")
	if s == "" {
		return def
	}
	c, err := event.ParseColor(s)
	if err != nil {
		f.fail(name, s, fmt.Errorf("%w: %v", ErrMalformedDocument, err))
		return def
	}
	return c
}

// relIndex reads [offset, "Anchor"]. Absent means the event's own floor.
func (f *fields) relIndex(name string) event.RelativeIndex {
	idx := event.RelativeIndex{Anchor: event.AnchorThisTile}
	v, ok := f.get(name)
	if !ok {
		return idx
	}
	items := v.Array()
	if !v.IsArray() || len(items) != 2 || items[0].Type != gjson.Number || items[1].Type != gjson.String {
		f.fail(name, v.Raw, ErrMalformedDocument)
		return idx
	}
	anchor, ok := event.ParseAnchor(items[1].String())
	if !ok {
		f.fail(name, items[1].String(), ErrUnknownEnumValue)
		return idx
	}
	return event.RelativeIndex{Offset: int(items[0].Int()), Anchor: anchor}
}

// enumField reads a token field through parse. Unknown tokens fail with
// ErrUnknownEnumValue and the offending token.
func enumField[T any](f *fields, name string, def T, parse func(string) (T, bool)) T {
	tok := f.str(name, "")
	if tok == "" {
		return def
	}
	v, ok := parse(tok)
	if !ok {
		f.fail(name, tok, ErrUnknownEnumValue)
		return def
	}
	return v
}
