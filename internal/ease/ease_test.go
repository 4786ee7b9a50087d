package ease

import (
	"math"
	"testing"
)

func TestEndpointsAreFixed(t *testing.T) {
	for e := Linear; e <= InOutFlash; e++ {
		if got := Apply(e, 0); got != 0 {
			t.Fatalf("%s(0) = %v, want 0", e, got)
		}
		if got := Apply(e, 1); got != 1 {
			t.Fatalf("%s(1) = %v, want 1", e, got)
		}
	}
}

func TestApplyClampsProgress(t *testing.T) {
	if got := Apply(OutBack, -3); got != 0 {
		t.Fatalf("clamped low = %v, want 0", got)
	}
	if got := Apply(InQuad, 7); got != 1 {
		t.Fatalf("clamped high = %v, want 1", got)
	}
}

func TestKnownMidpoints(t *testing.T) {
	cases := []struct {
		e    Ease
		x    float64
		want float64
	}{
		{Linear, 0.25, 0.25},
		{InQuad, 0.5, 0.25},
		{OutQuad, 0.5, 0.75},
		{InOutQuad, 0.5, 0.5},
		{InCubic, 0.5, 0.125},
		{InOutSine, 0.5, 0.5},
		{OutBounce, 1 / bounceD1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.e.String(), func(t *testing.T) {
			got := Apply(tc.e, tc.x)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Fatalf("%s(%v) = %v, want %v", tc.e, tc.x, got, tc.want)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	for e := Linear; e <= InOutFlash; e++ {
		got, ok := Parse(e.String())
		if !ok || got != e {
			t.Fatalf("Parse(%q) = %v, %v", e.String(), got, ok)
		}
	}
	if _, ok := Parse("Wobble"); ok {
		t.Fatalf("expected unknown token to fail")
	}
}
