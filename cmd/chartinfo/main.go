package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cbegin/chartline-go"
	"github.com/cbegin/chartline-go/internal/config"
	"github.com/cbegin/chartline-go/internal/judge"
)

const defaultChart = `{
	"pathData": "RRRRURRRDRRRLLLL",
	"settings": {"bpm": 150, "song": "demo"},
	"actions": [
		{"floor": 4, "eventType": "SetSpeed", "speedType": "Multiplier", "bpmMultiplier": 2},
		{"floor": 8, "eventType": "Twirl"},
		{"floor": 12, "eventType": "SetSpeed", "speedType": "Bpm", "beatsPerMinute": 150}
	]
}`

func main() {
	var (
		chartPath  = flag.String("file", "", "path to a chart file (default: built-in demo)")
		configPath = flag.String("config", "", "path to a YAML config file")
		difficulty = flag.String("difficulty", "", "judgement difficulty: Lenient|Normal|Strict (overrides config)")
		editor     = flag.Bool("editor", false, "apply editor-only track offsets")
		strict     = flag.Bool("strict", false, "fail on track events that reach outside the chain")
		hits       = flag.String("hits", "", "comma-separated input times in ms, judged against tiles 1, 2, ...")
		tempoMap   = flag.Bool("tempo", false, "print the tempo map")
		hash       = flag.Bool("hash", false, "print a fingerprint of sampled frames")
		savePath   = flag.String("save", "", "write the chart back out to this path")
		verbose    = flag.Bool("v", false, "log resolve diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		chartline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *difficulty != "" {
		cfg.Difficulty = *difficulty
	}
	diff, err := cfg.JudgeDifficulty()
	if err != nil {
		log.Fatal(err)
	}

	c, err := loadChart(*chartPath)
	if err != nil {
		log.Fatal(err)
	}
	c.UpdateSettings(cfg.ApplyTrack)

	tl, err := chartline.Resolve(c,
		chartline.WithEditorMode(*editor || cfg.EditorMode),
		chartline.WithStrict(*strict),
		chartline.WithChaseRate(cfg.Camera.ChaseRate),
		chartline.WithLookAhead(cfg.Camera.LookAhead))
	if err != nil {
		log.Fatal(err)
	}

	if err := printSummary(tl); err != nil {
		log.Fatal(err)
	}
	if *tempoMap {
		if err := printTempo(tl); err != nil {
			log.Fatal(err)
		}
	}
	if strings.TrimSpace(*hits) != "" {
		if err := printJudgements(tl, *hits, diff); err != nil {
			log.Fatal(err)
		}
	}
	if *hash {
		frames, err := chartline.SampleFrames(tl, cfg.Sample.FPS, 0, cfg.Sample.Seconds)
		if err != nil {
			log.Fatal(err)
		}
		sum := sha256.Sum256(chartline.EncodeFrames(frames))
		fmt.Printf("frames:     %d (%s)\n", len(frames), hex.EncodeToString(sum[:]))
	}
	if *savePath != "" {
		if err := chartline.SaveFile(c, *savePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("saved %s\n", *savePath)
	}
}

func loadChart(path string) (*chartline.Chart, error) {
	if strings.TrimSpace(path) == "" {
		return chartline.Load([]byte(defaultChart))
	}
	return chartline.LoadFile(path)
}

func printSummary(tl *chartline.Timeline) error {
	s, err := tl.Settings()
	if err != nil {
		return err
	}
	tiles, err := tl.TileCount()
	if err != nil {
		return err
	}
	scheduled, err := tl.Events()
	if err != nil {
		return err
	}
	generated, err := tl.Generated()
	if err != nil {
		return err
	}
	ms, err := tl.Duration()
	if err != nil {
		return err
	}
	title := s.Song
	if s.Artist != "" {
		title = s.Artist + " - " + title
	}
	if title != "" {
		fmt.Printf("chart:      %s\n", title)
	}
	fmt.Printf("tiles:      %d\n", tiles)
	fmt.Printf("events:     %d author, %d scheduled, %d generated\n", tl.Chart().EventCount(), len(scheduled), len(generated))
	fmt.Printf("bpm:        %g (pitch %g%%, offset %g ms)\n", s.BPM, s.Pitch, s.Offset)
	fmt.Printf("duration:   %s\n", formatMS(ms))
	diags, err := tl.Diagnostics()
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Printf("warning:    %v\n", d)
	}
	return nil
}

func printTempo(tl *chartline.Timeline) error {
	changes, err := tl.TempoChanges()
	if err != nil {
		return err
	}
	start, err := tl.BPMAt(0, false)
	if err != nil {
		return err
	}
	at, err := tl.BeatToTime(0)
	if err != nil {
		return err
	}
	fmt.Printf("tempo:      beat %8.3f  %s  %g bpm\n", 0.0, formatMS(at), start)
	for _, ev := range changes {
		bpm, err := tl.BPMAt(ev.Beat, true)
		if err != nil {
			return err
		}
		if at, err = tl.BeatToTime(ev.Beat); err != nil {
			return err
		}
		tag := ""
		if ev.Generated {
			tag = " (repeat)"
		}
		fmt.Printf("            beat %8.3f  %s  %g bpm%s\n", ev.Beat, formatMS(at), bpm, tag)
	}
	return nil
}

func printJudgements(tl *chartline.Timeline, list string, d judge.Difficulty) error {
	var tally judge.Tally
	for i, field := range strings.Split(list, ",") {
		ms, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("invalid -hits entry %q: %w", field, err)
		}
		m, err := chartline.HitMargin(tl, i+1, ms, d)
		if err != nil {
			return err
		}
		timing, err := judge.Timing(tl, i+1, ms)
		if err != nil {
			return err
		}
		tally.Add(m)
		fmt.Printf("tile %3d:   %+8.1f ms  %s\n", i+1, timing, m)
	}
	fmt.Printf("accuracy:   %.2f%% over %d hits (%s)\n", tally.Accuracy(), tally.Total(), d)
	return nil
}

func formatMS(ms float64) string {
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	total := int(ms)
	return fmt.Sprintf("%s%d:%02d.%03d", sign, total/60000, total/1000%60, total%1000)
}
