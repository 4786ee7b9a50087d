package chart

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

func TestEncodeRoundTrip(t *testing.T) {
	first, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data, err := Encode(first)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("decode of encoded chart failed: %v\n%s", err, data)
	}

	if !reflect.DeepEqual(first.Angles(), second.Angles()) {
		t.Fatalf("angles = %v, want %v", second.Angles(), first.Angles())
	}
	a, b := first.Settings(), second.Settings()
	a.raw, b.raw = "", ""
	if a != b {
		t.Fatalf("settings = %+v, want %+v", b, a)
	}
	if !reflect.DeepEqual(first.Events(), second.Events()) {
		t.Fatalf("events differ after round trip\nfirst:  %+v\nsecond: %+v", first.Events(), second.Events())
	}
}

func TestEncodeKeepsUnknownSettings(t *testing.T) {
	c, err := Decode([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	data, err := Encode(c)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if got := gjson.GetBytes(data, "settings.customField").String(); got != "kept" {
		t.Fatalf("customField = %q, want kept", got)
	}
	if got := gjson.GetBytes(data, "actions.#").Int(); got != 5 {
		t.Fatalf("actions = %d, want 5", got)
	}
	if gjson.GetBytes(data, "actions.0.active").Exists() {
		t.Fatalf("active flag should be omitted for active events")
	}
}

func TestEncodeEmptyChart(t *testing.T) {
	data, err := Encode(New(DefaultSettings(), nil))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v\n%s", err, data)
	}
	if c.TileCount() != 1 || c.EventCount() != 0 {
		t.Fatalf("tiles %d events %d, want 1 and 0", c.TileCount(), c.EventCount())
	}
}
