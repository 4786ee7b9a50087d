package timeline

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/cbegin/chartline-go/internal/chart"
	"github.com/cbegin/chartline-go/internal/event"
	"github.com/cbegin/chartline-go/internal/tile"
)

var (
	ErrQueryBeforeResolve = errors.New("timeline: query before resolve")
	ErrStaleTimeline      = errors.New("timeline: chart changed since resolve")
)

type Options struct {
	// EditorMode applies editor-only position offsets.
	EditorMode bool
	// ChaseRate is how quickly the player camera catches up, per beat.
	ChaseRate float64
	// LookAhead is the fraction of the way toward the next tile the player
	// camera aims for.
	LookAhead float64
	// Strict makes Resolve fail when a track event addresses tiles outside
	// the chain instead of clamping the range.
	Strict bool
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		ChaseRate: 6,
		LookAhead: 0.25,
	}
}

// Timeline is a resolved chart. Queries fail until Resolve has succeeded and
// again once the chart has been edited, until the next Resolve.
type Timeline struct {
	chart *chart.Chart
	opts  Options
	log   *slog.Logger

	resolved bool
	revision uint64
	settings chart.Settings

	tiles     []tile.Tile
	generated []event.Event
	master    []event.Event
	tempo     []event.Event
	camera    []event.Event
	track     []event.Event

	segments    []segment
	chase       []event.Vec2
	diagnostics []error
}

// New returns an unresolved timeline for c.
func New(c *chart.Chart, opts Options) *Timeline {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Timeline{chart: c, opts: opts, log: log}
}

// Resolve builds the tile chain, schedules every dynamic event and expands
// repeat modifiers. Clones from a previous pass are released first; author
// events in the chart are never touched.
func Resolve(c *chart.Chart, opts Options) (*Timeline, error) {
	t := New(c, opts)
	if err := t.Resolve(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Timeline) Resolve() error {
	t.resolved = false
	t.generated = nil
	t.master, t.tempo, t.camera, t.track = nil, nil, nil, nil
	t.segments, t.chase, t.diagnostics = nil, nil, nil

	if !(t.opts.ChaseRate > 0) {
		return fmt.Errorf("timeline: chase rate %v must be positive", t.opts.ChaseRate)
	}
	tiles, err := tile.Build(t.chart, tile.Config{EditorMode: t.opts.EditorMode})
	if err != nil {
		return err
	}
	t.tiles = tiles
	t.settings = t.chart.Settings()

	author := t.chart.Events()
	for i := range author {
		ev := &author[i]
		if ev.Floor < 0 || ev.Floor >= len(tiles) {
			return fmt.Errorf("timeline: event %d (%s) on floor %d of %d: %w", i, ev.Kind(), ev.Floor, len(tiles), event.ErrIndexOutOfRange)
		}
		if ev.Dynamic() {
			ev.Beat = t.floorBeat(ev.Floor) + ev.AngleOffset/180
		}
		tiles[ev.Floor].Events = append(tiles[ev.Floor].Events, *ev)
	}

	t.generated = t.expandRepeats(author)
	for _, ev := range t.generated {
		tiles[ev.Floor].Events = append(tiles[ev.Floor].Events, ev)
	}

	for _, ev := range author {
		if ev.Active && ev.Dynamic() {
			t.master = append(t.master, ev)
		}
	}
	t.master = append(t.master, t.generated...)
	slices.SortStableFunc(t.master, func(a, b event.Event) int { return cmp.Compare(a.Beat, b.Beat) })

	for _, ev := range t.master {
		switch p := ev.Payload.(type) {
		case event.SetSpeed:
			t.tempo = append(t.tempo, ev)
		case event.MoveCamera:
			t.camera = append(t.camera, ev)
		case event.MoveTrack:
			t.track = append(t.track, ev)
			t.checkRange(ev, p.Start, p.End)
		case event.RecolorTrack:
			t.track = append(t.track, ev)
			t.checkRange(ev, p.Start, p.End)
		}
	}
	if t.opts.Strict && len(t.diagnostics) > 0 {
		return errors.Join(t.diagnostics...)
	}

	t.segments = buildSegments(t.tempo, t.settings)
	t.chase = buildChase(tiles, t.opts.ChaseRate, t.opts.LookAhead)
	t.revision = t.chart.Revision()
	t.resolved = true

	t.log.Debug("timeline resolved",
		"tiles", len(tiles),
		"author_events", len(author),
		"generated", len(t.generated),
		"scheduled", len(t.master),
		"tempo_segments", len(t.segments),
		"duration_ms", t.beatToTime(math.Max(0, tiles[len(tiles)-1].Beat)))
	return nil
}

// floorBeat is the beat dynamic events on floor are measured from. The
// origin has no beat of its own, so it shares floor 1's anchor.
func (t *Timeline) floorBeat(floor int) float64 {
	if floor == 0 {
		return 0
	}
	return t.tiles[floor].Beat
}

// checkRange records a diagnostic when either end of a track event's range
// falls outside the chain. Queries clamp such ranges, or skip them when they
// miss the chain entirely.
func (t *Timeline) checkRange(ev event.Event, start, end event.RelativeIndex) {
	n := len(t.tiles)
	_, errStart := start.Resolve(ev.Floor, n)
	_, errEnd := end.Resolve(ev.Floor, n)
	err := errors.Join(errStart, errEnd)
	if err == nil {
		return
	}
	t.diagnostics = append(t.diagnostics, fmt.Errorf("timeline: %s on floor %d at beat %v: %w", ev.Kind(), ev.Floor, ev.Beat, err))
	if _, _, _, ok := event.Range(start, end, ev.Floor, n); !ok {
		t.log.Warn("track event range outside the chain", "kind", ev.Kind(), "floor", ev.Floor, "beat", ev.Beat)
		return
	}
	t.log.Warn("track event range clamped", "kind", ev.Kind(), "floor", ev.Floor, "beat", ev.Beat)
}

func (t *Timeline) check() error {
	if !t.resolved {
		return ErrQueryBeforeResolve
	}
	if t.chart.Revision() != t.revision {
		return fmt.Errorf("%w: %w", ErrQueryBeforeResolve, ErrStaleTimeline)
	}
	return nil
}

// Chart returns the chart the timeline resolves.
func (t *Timeline) Chart() *chart.Chart { return t.chart }

func (t *Timeline) Settings() (chart.Settings, error) {
	if err := t.check(); err != nil {
		return chart.Settings{}, err
	}
	return t.settings, nil
}

func (t *Timeline) TileCount() (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	return len(t.tiles), nil
}

// Tiles returns a copy of the resolved tile chain.
func (t *Timeline) Tiles() ([]tile.Tile, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	out := slices.Clone(t.tiles)
	for i := range out {
		out[i].Events = cloneEvents(out[i].Events)
	}
	return out, nil
}

// TileBeat returns the beat of tile index.
func (t *Timeline) TileBeat(index int) (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	if index < 0 || index >= len(t.tiles) {
		return 0, fmt.Errorf("timeline: tile %d of %d: %w", index, len(t.tiles), event.ErrIndexOutOfRange)
	}
	return t.tiles[index].Beat, nil
}

// Events returns the scheduled dynamic events, author and generated, in beat
// order.
func (t *Timeline) Events() ([]event.Event, error) { return t.list(t.master) }

// Generated returns the clones produced by repeat expansion.
func (t *Timeline) Generated() ([]event.Event, error) { return t.list(t.generated) }

func (t *Timeline) TempoChanges() ([]event.Event, error) { return t.list(t.tempo) }

func (t *Timeline) CameraMoves() ([]event.Event, error) { return t.list(t.camera) }

// TrackEvents returns the MoveTrack and RecolorTrack events in beat order.
func (t *Timeline) TrackEvents() ([]event.Event, error) { return t.list(t.track) }

func (t *Timeline) list(evs []event.Event) ([]event.Event, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return cloneEvents(evs), nil
}

// Diagnostics returns the problems the last Resolve tolerated: track event
// ranges reaching outside the chain. Each wraps event.ErrIndexOutOfRange.
func (t *Timeline) Diagnostics() ([]error, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	return slices.Clone(t.diagnostics), nil
}

// Duration is the time in ms from audio start to the last tile.
func (t *Timeline) Duration() (float64, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	last := t.tiles[len(t.tiles)-1].Beat
	if math.IsInf(last, -1) {
		last = 0
	}
	return t.beatToTime(last), nil
}

func cloneEvents(evs []event.Event) []event.Event {
	if evs == nil {
		return nil
	}
	out := make([]event.Event, len(evs))
	for i, ev := range evs {
		out[i] = ev.Clone()
	}
	return out
}
