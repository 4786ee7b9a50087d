package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/judge"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chartline.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
difficulty: Strict
camera:
  look_ahead: 0.5
track:
  beats_behind: 0
preview:
  metronome: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	d, _ := cfg.JudgeDifficulty()
	if d != judge.Strict {
		t.Fatalf("difficulty = %v, want Strict", d)
	}
	if cfg.Camera.LookAhead != 0.5 || cfg.Camera.ChaseRate != 6 {
		t.Fatalf("camera = %+v", cfg.Camera)
	}
	if cfg.Preview.Metronome || cfg.Preview.Width != 960 {
		t.Fatalf("preview = %+v", cfg.Preview)
	}

	s := chart.DefaultSettings()
	cfg.ApplyTrack(&s)
	if s.BeatsBehind != 0 || s.BeatsAhead != chart.DefaultSettings().BeatsAhead {
		t.Fatalf("track windows = %v/%v, want 3/0", s.BeatsAhead, s.BeatsBehind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"difficulty": "difficulty: Impossible\n",
		"chase rate": "camera:\n  chase_rate: 0\n",
		"fps":        "sample:\n  fps: -1\n",
		"syntax":     "camera: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeFile(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
