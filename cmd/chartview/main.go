package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/chartline-go"
	"github.com/cbegin/chartline-go/internal/audio"
	"github.com/cbegin/chartline-go/internal/config"
	"github.com/cbegin/chartline-go/internal/judge"
	"github.com/cbegin/chartline-go/internal/watch"
)

const (
	textScale = 2
	charW     = 7 * textScale
	lineH     = 16 * textScale
	statusH   = lineH + 16
)

var (
	bgColor     = color.RGBA{0x18, 0x1c, 0x24, 0xff}
	panelColor  = color.RGBA{0xc0, 0xc0, 0xc0, 0xff}
	bevelLight  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	bevelDarker = color.RGBA{0x40, 0x40, 0x40, 0xff}
	borderColor = color.RGBA{0x80, 0x80, 0x80, 0xff}
	errorColor  = color.RGBA{0xa0, 0x20, 0x20, 0xff}
	planetColor = color.RGBA{0xe0, 0x40, 0x40, 0xff}
)

// clock is the time source the preview runs against.
type clock interface {
	Play()
	Pause()
	Playing() bool
	Millis() float64
	Close() error
}

// wallClock is used when the metronome is off.
type wallClock struct {
	startMS float64
	started time.Time
	elapsed time.Duration
	running bool
}

func (c *wallClock) Play() {
	if !c.running {
		c.started = time.Now()
		c.running = true
	}
}

func (c *wallClock) Pause() {
	if c.running {
		c.elapsed += time.Since(c.started)
		c.running = false
	}
}

func (c *wallClock) Playing() bool { return c.running }

func (c *wallClock) Millis() float64 {
	d := c.elapsed
	if c.running {
		d += time.Since(c.started)
	}
	return c.startMS + float64(d)/float64(time.Millisecond)
}

func (c *wallClock) Close() error { return nil }

type game struct {
	cfg  config.Config
	diff judge.Difficulty
	path string

	tl      *chartline.Timeline
	tiles   []float64 // tile beats
	clock   clock
	watcher *watch.Watcher

	frame chartline.Frame
	tally judge.Tally
	last  string

	status    string
	statusErr bool

	tileImg   *ebiten.Image
	textCache map[string]*ebiten.Image
	viewW     int
	viewH     int
}

func newGame(cfg config.Config, path string) (*game, error) {
	diff, err := cfg.JudgeDifficulty()
	if err != nil {
		return nil, err
	}
	g := &game{
		cfg:       cfg,
		diff:      diff,
		path:      path,
		textCache: make(map[string]*ebiten.Image, 256),
		viewW:     cfg.Preview.Width,
		viewH:     cfg.Preview.Height,
	}
	tl, err := g.load()
	if err != nil {
		return nil, err
	}
	if err := g.setTimeline(tl); err != nil {
		return nil, err
	}
	if err := g.restart(0); err != nil {
		return nil, err
	}
	if path != "" {
		if g.watcher, err = watch.New(path); err != nil {
			return nil, err
		}
	}
	g.setStatus("Ready")
	return g, nil
}

func (g *game) load() (*chartline.Timeline, error) {
	c, err := chartline.LoadFile(g.path)
	if err != nil {
		return nil, err
	}
	c.UpdateSettings(g.cfg.ApplyTrack)
	return chartline.Resolve(c,
		chartline.WithEditorMode(g.cfg.EditorMode),
		chartline.WithChaseRate(g.cfg.Camera.ChaseRate),
		chartline.WithLookAhead(g.cfg.Camera.LookAhead))
}

func (g *game) setTimeline(tl *chartline.Timeline) error {
	tiles, err := tl.Tiles()
	if err != nil {
		return err
	}
	beats := make([]float64, len(tiles))
	for i, t := range tiles {
		beats[i] = t.Beat
	}
	g.tl = tl
	g.tiles = beats
	return nil
}

// restart rebuilds the clock at chart time startMS, paused.
func (g *game) restart(startMS float64) error {
	if g.clock != nil {
		_ = g.clock.Close()
		g.clock = nil
	}
	g.tally = judge.Tally{}
	g.last = ""
	if !g.cfg.Preview.Metronome {
		g.clock = &wallClock{startMS: startMS}
		return nil
	}
	ticks := make([]float64, 0, len(g.tiles))
	for _, b := range g.tiles[1:] {
		ms, err := g.tl.BeatToTime(b)
		if err != nil {
			return err
		}
		ticks = append(ticks, ms)
	}
	m := audio.NewMetronome(g.cfg.Preview.SampleRate, startMS, ticks, g.cfg.Preview.Volume)
	c, err := audio.NewClock(g.cfg.Preview.SampleRate, m, startMS)
	if err != nil {
		return err
	}
	g.clock = c
	return nil
}

func (g *game) Update() error {
	g.pollWatch()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePlayPause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.restart(0); err != nil {
			g.setError(err.Error())
		} else {
			g.setStatus("Restarted")
		}
	}

	f, err := chartline.SampleAt(g.tl, g.clock.Millis())
	if err != nil {
		g.setError(err.Error())
		return nil
	}
	g.frame = f

	if g.clock.Playing() && (inpututil.IsKeyJustPressed(ebiten.KeyZ) || inpututil.IsKeyJustPressed(ebiten.KeyX)) {
		g.judgeHit(f.Time, f.Beat)
	}
	return nil
}

func (g *game) togglePlayPause() {
	if g.clock.Playing() {
		g.clock.Pause()
		g.setStatus("Paused")
		return
	}
	g.clock.Play()
	g.setStatus("Playing")
}

func (g *game) pollWatch() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case _, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload()
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.setError(err.Error())
			}
			return
		default:
			return
		}
	}
}

// reload re-resolves the chart and resumes from the current time. A chart
// that fails to load leaves the previous timeline in place.
func (g *game) reload() {
	tl, err := g.load()
	if err != nil {
		g.setError("reload: " + err.Error())
		return
	}
	ms, playing := g.clock.Millis(), g.clock.Playing()
	if err := g.setTimeline(tl); err != nil {
		g.setError("reload: " + err.Error())
		return
	}
	if err := g.restart(ms); err != nil {
		g.setError("reload: " + err.Error())
		return
	}
	if playing {
		g.clock.Play()
	}
	g.setStatus("Reloaded " + filepath.Base(g.path))
}

// judgeHit grades an input against the tile whose beat is nearest.
func (g *game) judgeHit(ms, beat float64) {
	if len(g.tiles) < 2 {
		return
	}
	i := sort.SearchFloat64s(g.tiles, beat)
	switch {
	case i >= len(g.tiles):
		i = len(g.tiles) - 1
	case i > 1 && beat-g.tiles[i-1] < g.tiles[i]-beat:
		i--
	case i < 1:
		i = 1
	}
	m, err := chartline.HitMargin(g.tl, i, ms, g.diff)
	if err != nil {
		g.setError(err.Error())
		return
	}
	g.tally.Add(m)
	g.last = fmt.Sprintf("tile %d %s", i, m)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	if g.tileImg == nil {
		g.tileImg = ebiten.NewImage(1, 1)
		g.tileImg.Fill(color.White)
	}

	for _, s := range g.frame.Tiles {
		g.drawTile(screen, s)
	}
	if k := g.currentTile(); k >= 0 && k < len(g.frame.Tiles) {
		g.drawPlanet(screen, g.frame.Tiles[k].Position)
	}

	status := image.Rect(0, g.viewH-statusH, g.viewW, g.viewH)
	g.drawPanel(screen, status)
	g.drawText(screen, g.infoLine(), 8, status.Min.Y+8)
	msg := g.status
	if g.last != "" && !g.statusErr {
		msg = g.last
	}
	if msg != "" {
		x := g.viewW - len([]rune(msg))*charW - 12
		if g.statusErr {
			ebitenutil.DrawRect(screen, float64(x-4), float64(status.Min.Y+4), float64(g.viewW-x), float64(statusH-8), errorColor)
		}
		g.drawText(screen, msg, x, status.Min.Y+8)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = outsideW
	g.viewH = outsideH
	return outsideW, outsideH
}

func (g *game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.clock != nil {
		_ = g.clock.Close()
	}
}

func (g *game) currentTile() int {
	return sort.Search(len(g.tiles), func(i int) bool { return g.tiles[i] > g.frame.Beat }) - 1
}

func (g *game) infoLine() string {
	return fmt.Sprintf("%s  beat %7.2f  %5.1f bpm  acc %5.1f%%",
		formatMS(g.frame.Time), g.frame.Beat, g.frame.BPM, g.tally.Accuracy())
}

// view maps a world position (y up) onto the screen through the camera.
func (g *game) view(m *ebiten.GeoM) {
	cam := g.frame.Camera
	k := g.cfg.Preview.TileSize * cam.Zoom / 100
	m.Translate(-cam.Position.X, -cam.Position.Y)
	m.Rotate(cam.Rotation * math.Pi / 180)
	m.Scale(k, -k)
	m.Translate(float64(g.viewW)/2, float64(g.viewH-statusH)/2)
}

func (g *game) drawTile(screen *ebiten.Image, s chartline.TileRenderState) {
	if s.Opacity <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(0.9*s.Scale.X/100, 0.9*s.Scale.Y/100)
	op.GeoM.Rotate(-s.Rotation * math.Pi / 180)
	op.GeoM.Translate(s.Position.X, s.Position.Y)
	g.view(&op.GeoM)

	r, gr, b, a := s.Color.RGBA8()
	alpha := float32(a) / 255 * float32(s.Opacity/100)
	op.ColorScale.Scale(float32(r)/255*alpha, float32(gr)/255*alpha, float32(b)/255*alpha, alpha)
	screen.DrawImage(g.tileImg, op)
}

func (g *game) drawPlanet(screen *ebiten.Image, pos chartline.Vec2) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-0.5, -0.5)
	op.GeoM.Scale(0.4, 0.4)
	op.GeoM.Translate(pos.X, pos.Y)
	g.view(&op.GeoM)
	op.ColorScale.ScaleWithColor(planetColor)
	screen.DrawImage(g.tileImg, op)
}

func (g *game) setError(msg string) {
	g.status = msg
	g.statusErr = true
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusErr = false
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w, h, panelColor)
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		img = ebiten.NewImage(max(1, len([]rune(msg))*7), 16)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 1000 {
			g.textCache = make(map[string]*ebiten.Image, 256)
		}
		g.textCache[msg] = img
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x+2), float64(y+2))
	op.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, op)
	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func formatMS(ms float64) string {
	sign := ""
	if ms < 0 {
		sign, ms = "-", -ms
	}
	total := int(ms)
	return fmt.Sprintf("%s%d:%02d.%03d", sign, total/60000, total/1000%60, total%1000)
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		verbose    = flag.Bool("v", false, "log resolve diagnostics to stderr")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: chartview [flags] <chart>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

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
	path, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		log.Fatalf("resolve %q: %v", flag.Arg(0), err)
	}

	g, err := newGame(cfg, path)
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(cfg.Preview.Width, cfg.Preview.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("chartview - " + filepath.Base(path))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
