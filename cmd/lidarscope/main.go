package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gekko3d/lidar"
	"github.com/gekko3d/lidar/scan"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	tickStep   = 16 * time.Millisecond // ~60 FPS
	mapScale   = 2.0                   // terminal cells per world unit on x
	sampleRate = beep.SampleRate(44100)

	// Terminals report no key releases; a held key repeats faster than this.
	moveHold          = 200 * time.Millisecond
	defaultPresetPath = "lidarscope-preset.yaml"
)

type scope struct {
	app    *lidar.App
	screen tcell.Screen
	lidar  *lidar.Lidar
	input  *lidar.InputQueue
	gauge  *lidar.EnergyGauge
	scene  *lidar.Scene
	vfx    *lidar.BeamRenderer

	presetPath string
	scanning   bool
	audioInit  bool

	// Written by the event goroutine, read after each tick.
	moveUntil     atomic.Int64
	saveRequested atomic.Bool
}

func buildApp(cfg lidar.LidarConfig, def lidar.SceneDef, debug bool, logOut io.Writer) *lidar.App {
	return lidar.NewApp().UseModules(
		lidar.LoggingModule{Prefix: "lidarscope", Debug: debug, Output: logOut},
		lidar.TimeModule{FixedStep: tickStep},
		lidar.SceneModule{Def: def},
		lidar.PhysicsModule{},
		lidar.ReactiveModule{},
		lidar.VfxModule{LineWidth: cfg.LineWidth},
		lidar.LidarModule{Config: cfg},
	)
}

func newScope(app *lidar.App, presetPath string) (*scope, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &scope{app: app, screen: screen, presetPath: presetPath}
	s.lidar, _ = lidar.Resource[lidar.Lidar](app)
	s.input, _ = lidar.Resource[lidar.InputQueue](app)
	s.gauge, _ = lidar.Resource[lidar.EnergyGauge](app)
	s.scene, _ = lidar.Resource[lidar.Scene](app)
	s.vfx, _ = lidar.Resource[lidar.BeamRenderer](app)

	if err := s.initAudio(); err != nil {
		// Non-fatal, the scope runs without sound
		app.Logger().Warnf("audio initialization failed: %v", err)
	}
	s.vfx.OnBurst = func(batch scan.ParticleBatch) { s.ping(batch) }
	return s, nil
}

func (s *scope) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		s.audioInit = true
	}
	return err
}

// ping plays a short tone, higher for more energetic bursts.
func (s *scope) ping(batch scan.ParticleBatch) {
	if !s.audioInit {
		return
	}
	var energy float32
	for _, it := range batch.Items {
		energy += it.Energy
	}
	freq := 440 + 20*float64(energy)/float64(batch.Count())
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(20*time.Millisecond), sine))
}

var moveKeys = map[rune]mgl32.Vec2{
	'w': {0, 1},
	's': {0, -1},
	'a': {-1, 0},
	'd': {1, 0},
}

// handleInput runs on the event goroutine and only touches the input queue
// and atomics.
func (s *scope) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		if axis, ok := moveKeys[ev.Rune()]; ok {
			s.input.SetMove(axis)
			s.moveUntil.Store(time.Now().Add(moveHold).UnixNano())
			return true
		}
		switch ev.Rune() {
		case ' ':
			if s.scanning {
				s.input.Push(lidar.ScanReleased)
			} else {
				s.input.Push(lidar.ScanPressed)
			}
			s.scanning = !s.scanning
		case 'm':
			s.input.Push(lidar.SwitchMode)
		case 'e':
			s.input.Push(lidar.NextEnergyLevel)
		case 'p':
			s.saveRequested.Store(true)
		case 'q':
			return false
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return true
}

// afterTick stops a released move, saves a requested preset and redraws.
func (s *scope) afterTick() {
	if until := s.moveUntil.Load(); until != 0 && time.Now().UnixNano() > until {
		s.input.SetMove(mgl32.Vec2{})
		s.moveUntil.Store(0)
	}
	if s.saveRequested.Swap(false) {
		if err := lidar.SavePreset(s.scene, s.presetPath); err != nil {
			s.app.Logger().Errorf("save preset: %v", err)
		} else {
			s.app.Logger().Infof("saved preset %s", s.presetPath)
		}
	}
	s.draw()
}

func (s *scope) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

// plot maps world x/z onto the screen below the status lines, caster at the
// bottom centre looking up.
func (s *scope) plot(x, z float32, r rune, style tcell.Style) {
	w, h := s.screen.Size()
	rig := s.lidar.Rig.Position
	col := w/2 + int((x-rig.X())*mapScale)
	row := h - 2 + int(z-rig.Z())
	if col < 0 || col >= w || row < 3 || row >= h {
		return
	}
	s.screen.SetContent(col, row, r, nil, style)
}

func (s *scope) draw() {
	s.screen.Clear()
	w, _ := s.screen.Size()

	sched := s.lidar.Scheduler
	status := fmt.Sprintf("mode: %-7s level: %-6s state: %-8s last: %s",
		sched.Mode(), sched.Level(), sched.State(), sched.LastEnd())
	s.drawText(0, 0, tcell.StyleDefault, status)

	barWidth := max(w-12, 1)
	filled := int(s.gauge.Fraction() * float32(barWidth))
	bar := tcell.StyleDefault.Foreground(tcell.ColorRed)
	for i := 0; i < barWidth; i++ {
		ch := '░'
		if i < filled {
			ch = '█'
		}
		s.screen.SetContent(i, 1, ch, nil, bar)
	}
	s.drawText(barWidth+1, 1, tcell.StyleDefault, fmt.Sprintf("%4d/%d", s.gauge.Value, s.gauge.Max))

	for _, obj := range s.scene.Objects() {
		box := obj.AABB()
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		if obj.Light.Intensity > 0 {
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		if obj.Material.Alpha() < 0.5 {
			style = style.Dim(true)
		}
		for x := box.Min.X(); x <= box.Max.X(); x += 1 / mapScale {
			s.plot(x, box.Min.Z(), '▒', style)
			s.plot(x, box.Max.Z(), '▒', style)
		}
	}

	for _, p := range s.vfx.Particles() {
		fade := 1 - p.Age/p.Lifetime
		c := int32(255 * fade)
		s.plot(p.Position.X(), p.Position.Z(), '·', tcell.StyleDefault.Foreground(tcell.NewRGBColor(c, c/8, c/8)))
	}

	pose := s.lidar.Caster.Pose
	for _, beam := range s.vfx.Beams() {
		end := pose.Position.Add(pose.ToWorldDir(beam.End))
		s.plot(end.X(), end.Z(), '*', tcell.StyleDefault.Foreground(tcell.ColorRed))
	}
	s.plot(pose.Position.X(), pose.Position.Z(), '@', tcell.StyleDefault.Foreground(tcell.ColorGreen))

	s.screen.Show()
}

func (s *scope) run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil || !s.handleInput(ev) {
				cancel()
				return
			}
		}
	}()

	return s.app.Run(ctx, tickStep, s.afterTick)
}

func (s *scope) cleanup() {
	if s.audioInit {
		speaker.Close()
	}
	s.screen.Fini()
}

// runHeadless holds the trigger for ticks ticks and reports the outcome.
// The clock is fixed-step, so it ticks as fast as the ticker allows.
func runHeadless(app *lidar.App, ticks int) error {
	input, _ := lidar.Resource[lidar.InputQueue](app)
	l, _ := lidar.Resource[lidar.Lidar](app)
	vfx, _ := lidar.Resource[lidar.BeamRenderer](app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input.Push(lidar.ScanPressed)
	start := app.Ticks()
	err := app.Run(ctx, time.Millisecond, func() {
		if app.Ticks()-start >= uint64(max(ticks, 0)) {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	if info, ok := l.Scheduler.Session(); ok {
		app.Logger().Infof("still scanning: %d batches fired", info.Batches)
	}
	app.Logger().Infof("energy %d/%d, %d live particles, %d bursts, last end: %s",
		l.Scheduler.Reservoir().Current(), l.Scheduler.Reservoir().Capacity(),
		vfx.ParticleCount(), vfx.Bursts(), l.Scheduler.LastEnd())
	return nil
}

// loadPreset replaces the scene with a saved preset when path exists.
func loadPreset(app *lidar.App, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	scene, _ := lidar.Resource[lidar.Scene](app)
	cmd := app.Commands()
	for _, obj := range scene.Objects() {
		cmd.Despawn(obj)
	}
	handles, err := lidar.LoadPreset(cmd, path)
	if err != nil {
		return err
	}
	app.Logger().Infof("loaded %d objects from preset %s", len(handles), path)
	return nil
}

func main() {
	configPath := flag.String("config", "", "lidar config YAML (defaults when empty)")
	scenePath := flag.String("scene", "", "scene YAML (built-in room when empty)")
	headless := flag.Bool("headless", false, "run without a terminal UI")
	ticks := flag.Int("ticks", 600, "ticks to simulate in headless mode")
	debug := flag.Bool("debug", false, "enable debug logging")
	logPath := flag.String("log", "", "log file for the terminal UI (discarded when empty)")
	presetPath := flag.String("preset", "", "scene preset to load if present; 'p' saves to it")
	flag.Parse()

	cfg := lidar.DefaultLidarConfig()
	if *configPath != "" {
		var err error
		if cfg, err = lidar.LoadLidarConfig(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	def := lidar.DefaultSceneDef()
	if *scenePath != "" {
		var err error
		if def, err = lidar.LoadSceneDef(*scenePath); err != nil {
			log.Fatalf("scene: %v", err)
		}
	}

	if *headless {
		app := buildApp(cfg, def, *debug, nil)
		if err := loadPreset(app, *presetPath); err != nil {
			log.Fatalf("preset: %v", err)
		}
		if err := runHeadless(app, *ticks); err != nil {
			log.Fatalf("run: %v", err)
		}
		return
	}

	// The screen owns stdout while the UI runs.
	logOut := io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("log: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	app := buildApp(cfg, def, *debug, logOut)
	if err := loadPreset(app, *presetPath); err != nil {
		log.Fatalf("preset: %v", err)
	}

	savePath := *presetPath
	if savePath == "" {
		savePath = defaultPresetPath
	}
	s, err := newScope(app, savePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer s.cleanup()

	if err := s.run(); err != nil {
		app.Logger().Errorf("run: %v", err)
	}
}
