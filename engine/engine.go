// Package engine hosts the game: it owns the ECS world, the core clock, the
// physics space, input and rendering, and drives the game hooks from the
// ebiten loop.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/adventuretycoon/clock"
	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/system"
	"github.com/milk9111/adventuretycoon/event"
	"github.com/milk9111/adventuretycoon/input"
	"github.com/milk9111/adventuretycoon/prefabs"
	"golang.org/x/image/colornames"
)

const CoreClockName = "core"

type Options struct {
	// ConfigName is the default config file, relative to prefabs/.
	ConfigName string
	Debug      bool
	// Watch reloads the config when files under prefabs/ change.
	Watch bool
	// Reader overrides device polling; nil means ebiten.
	Reader input.Reader
}

type Engine struct {
	hooks Hooks
	opts  Options
	state State

	config *prefabs.Config
	world  *ecs.World
	clock  *clock.Clock
	bus    *event.Bus
	input  *input.Manager
	reader input.Reader

	physics  *system.PhysicsSystem
	renderer *system.RenderSystem

	objects   []*Object
	cameras   map[string]*Camera
	viewports []*Viewport

	watcher *prefabs.Watcher
	hud     *HUD

	closeRequested bool
}

func New(hooks Hooks, opts Options) *Engine {
	if opts.ConfigName == "" {
		opts.ConfigName = prefabs.DefaultConfigFile
	}
	reader := opts.Reader
	if reader == nil {
		reader = &input.EbitenReader{}
	}
	e := &Engine{
		hooks:    hooks,
		opts:     opts,
		world:    ecs.NewWorld(),
		clock:    clock.New(CoreClockName, 0),
		bus:      event.NewBus(),
		input:    input.NewManager(),
		reader:   reader,
		renderer: system.NewRenderSystem(),
		cameras:  make(map[string]*Camera),
	}
	event.Subscribe(e.bus, func(event.SystemClose) {
		e.closeRequested = true
	})
	return e
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) World() *ecs.World {
	return e.world
}

// CoreClock is the clock ticked once per frame.
func (e *Engine) CoreClock() *clock.Clock {
	return e.clock
}

func (e *Engine) Bus() *event.Bus {
	return e.bus
}

func (e *Engine) Input() *input.Manager {
	return e.input
}

func (e *Engine) Physics() *system.PhysicsSystem {
	return e.physics
}

func (e *Engine) Config() *prefabs.Config {
	return e.config
}

// SetConfig installs cfg. It is meant for Bootstrap; later calls only
// replace the stored config and are not re-applied.
func (e *Engine) SetConfig(cfg *prefabs.Config) {
	e.config = cfg
}

// RequestClose publishes a SystemClose event.
func (e *Engine) RequestClose() {
	event.Publish(e.bus, event.SystemClose{})
}

// Start runs Bootstrap, loads and applies the config, then runs Init. On
// success the engine is Running.
func (e *Engine) Start() error {
	if e.state != StateUninitialized {
		return ErrAlreadyStarted
	}

	if err := e.hooks.Bootstrap(e); err != nil {
		log.Printf("engine: bootstrap: %v; skipping default config", err)
	} else if e.config == nil {
		cfg, err := prefabs.LoadConfig(e.opts.ConfigName)
		if err != nil {
			e.shutdown()
			return fmt.Errorf("engine: %w", err)
		}
		e.config = cfg
	}
	if e.config == nil {
		cfg, err := prefabs.ParseConfig(nil)
		if err != nil {
			e.shutdown()
			return fmt.Errorf("engine: %w", err)
		}
		e.config = cfg
	}

	e.physics = system.NewPhysicsSystem(e.config.Physics)
	if err := e.applyConfig(e.config); err != nil {
		e.shutdown()
		return err
	}
	e.clock.RegisterNamed("physics", clock.TickFunc(func(info clock.Info) {
		e.physics.Update(e.world, info.DT)
	}), clock.PriorityLower)

	e.state = StateInitialized
	log.Printf("engine: initialized with %q", e.opts.ConfigName)

	if err := e.hooks.Init(e); err != nil {
		e.shutdown()
		return fmt.Errorf("engine: init: %w", err)
	}

	if e.opts.Watch {
		if err := e.startWatcher(); err != nil {
			log.Printf("engine: config watch disabled: %v", err)
		}
	}
	if e.opts.Debug {
		e.hud = NewHUD()
	}

	e.state = StateRunning
	return nil
}

func (e *Engine) applyConfig(cfg *prefabs.Config) error {
	if err := e.input.SetBindings(cfg.Input); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.clock.SetMaxDT(cfg.Clock.MaxDT)
	e.physics.Configure(cfg.Physics)
	return nil
}

// TickDT is the fixed tick length derived from the clock frequency.
func (e *Engine) TickDT() float64 {
	freq := 60
	if e.config != nil && e.config.Clock.Frequency > 0 {
		freq = e.config.Clock.Frequency
	}
	return 1 / float64(freq)
}

// Step runs one tick: poll input, apply pending reloads, tick the core
// clock, then call Run. It returns false once the engine has exited.
func (e *Engine) Step(dt float64) bool {
	if e.state != StateRunning {
		return false
	}

	e.input.Update(e.reader)
	e.pollReload()
	e.clock.Update(dt)

	if err := e.hooks.Run(); err != nil {
		log.Printf("engine: run: %v", err)
		e.closeRequested = true
	}

	if e.closeRequested {
		e.shutdown()
		return false
	}
	return true
}

// Close shuts the engine down if it has not already exited.
func (e *Engine) Close() {
	e.shutdown()
}

func (e *Engine) shutdown() {
	if e.state == StateExited {
		return
	}
	e.state = StateExited
	e.hooks.Exit()
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			log.Printf("engine: close watcher: %v", err)
		}
		e.watcher = nil
	}
	log.Printf("engine: exited")
}

// Execute starts the engine and runs the ebiten loop until shutdown.
func (e *Engine) Execute() error {
	if err := e.Start(); err != nil {
		return err
	}
	defer e.shutdown()

	display := e.config.Display
	ebiten.SetWindowTitle(display.Title)
	ebiten.SetWindowSize(display.Width, display.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(e.config.Clock.Frequency)

	if err := ebiten.RunGame(e); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("engine: run game: %w", err)
	}
	return nil
}

func (e *Engine) Update() error {
	if !e.Step(e.TickDT()) {
		return ebiten.Termination
	}
	if e.hud != nil {
		e.hud.SetLines(e.debugLines(ebiten.ActualFPS()))
		e.hud.Update()
	}
	return nil
}

func (e *Engine) Draw(screen *ebiten.Image) {
	if e.state != StateRunning {
		return
	}
	for _, vp := range e.viewports {
		var cam ecs.Entity
		if vp.Camera != nil {
			cam = vp.Camera.Entity()
		}
		area := vp.Area(screen.Bounds())
		if area.Empty() {
			continue
		}
		target := screen.SubImage(area).(*ebiten.Image)
		e.renderer.Draw(e.world, target, cam, vp.Background)
		if e.opts.Debug {
			system.DrawPhysicsDebug(e.physics.Space(), e.world, target, cam)
		}
	}
	if e.hud != nil {
		e.hud.Draw(screen)
	}
}

func (e *Engine) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	w, h := e.displaySize()
	return float64(w), float64(h)
}

func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	return e.displaySize()
}

func (e *Engine) displaySize() (int, int) {
	if e.config == nil {
		return 1280, 720
	}
	return e.config.Display.Width, e.config.Display.Height
}

func backgroundOf(c *prefabs.YAMLColor) color.Color {
	if c == nil || c.Color == nil {
		return colornames.Black
	}
	return c.Color
}
