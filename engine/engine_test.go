package engine

import (
	"errors"
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/event"
	"github.com/milk9111/adventuretycoon/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	keys map[ebiten.Key]bool
}

func (r *fakeReader) KeyPressed(k ebiten.Key) bool {
	return r.keys[k]
}

func (r *fakeReader) GamepadButtonPressed(ebiten.StandardGamepadButton) bool {
	return false
}

type fakeHooks struct {
	bootstrap func(e *Engine) error
	init      func(e *Engine) error
	run       func() error

	initState State
	runs      int
	exits     int
}

func (h *fakeHooks) Bootstrap(e *Engine) error {
	if h.bootstrap != nil {
		return h.bootstrap(e)
	}
	return nil
}

func (h *fakeHooks) Init(e *Engine) error {
	h.initState = e.State()
	if h.init != nil {
		return h.init(e)
	}
	return nil
}

func (h *fakeHooks) Run() error {
	h.runs++
	if h.run != nil {
		return h.run()
	}
	return nil
}

func (h *fakeHooks) Exit() {
	h.exits++
}

func newTestEngine(h *fakeHooks) (*Engine, *fakeReader) {
	r := &fakeReader{keys: make(map[ebiten.Key]bool)}
	return New(h, Options{Reader: r}), r
}

func TestStartLifecycle(t *testing.T) {
	h := &fakeHooks{}
	e, _ := newTestEngine(h)
	require.Equal(t, StateUninitialized, e.State())

	require.NoError(t, e.Start())

	assert.Equal(t, StateInitialized, h.initState)
	assert.Equal(t, StateRunning, e.State())
	require.NotNil(t, e.Config())
	assert.Equal(t, "AdventureTycoon", e.Config().Display.Title)
	assert.Equal(t, 1, e.CoreClock().Len(), "physics is registered on the core clock")
	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)

	assert.True(t, e.Step(e.TickDT()))
	assert.Equal(t, 1, h.runs)
	assert.Equal(t, uint64(1), e.CoreClock().Info().Frame)
}

func TestInitErrorAbortsStart(t *testing.T) {
	initErr := errors.New("no level")
	h := &fakeHooks{init: func(*Engine) error { return initErr }}
	e, _ := newTestEngine(h)

	err := e.Start()

	assert.ErrorIs(t, err, initErr)
	assert.Equal(t, StateExited, e.State())
	assert.Equal(t, 1, h.exits)
	assert.False(t, e.Step(0.1))
	assert.Equal(t, 0, h.runs)
}

func TestBootstrapErrorSkipsDefaultConfig(t *testing.T) {
	tests := []struct {
		name      string
		install   bool
		wantTitle string
	}{
		{name: "installed_config_kept", install: true, wantTitle: "Custom"},
		{name: "falls_back_to_defaults", install: false, wantTitle: "AdventureTycoon"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := &fakeHooks{bootstrap: func(e *Engine) error {
				if tc.install {
					cfg, err := prefabs.ParseConfig([]byte("display:\n  title: Custom\n"))
					if err != nil {
						return err
					}
					e.SetConfig(cfg)
				}
				return errors.New("bootstrap failed")
			}}
			e, _ := newTestEngine(h)

			require.NoError(t, e.Start())

			assert.Equal(t, StateRunning, e.State())
			assert.Equal(t, tc.wantTitle, e.Config().Display.Title)
			assert.Empty(t, e.Config().Objects, "default config file must not be loaded")

			_, err := e.CreateObject("PlayerObject")
			assert.ErrorIs(t, err, prefabs.ErrSectionNotFound)
		})
	}
}

func TestRunErrorRequestsShutdown(t *testing.T) {
	h := &fakeHooks{run: func() error { return errors.New("boom") }}
	e, _ := newTestEngine(h)
	require.NoError(t, e.Start())

	assert.False(t, e.Step(e.TickDT()))
	assert.Equal(t, StateExited, e.State())
	assert.Equal(t, 1, h.exits)

	assert.False(t, e.Step(e.TickDT()))
	e.Close()
	assert.Equal(t, 1, h.exits)
}

func TestSystemCloseStopsEngine(t *testing.T) {
	h := &fakeHooks{}
	e, _ := newTestEngine(h)
	require.NoError(t, e.Start())

	e.RequestClose()

	assert.False(t, e.Step(e.TickDT()))
	assert.Equal(t, 1, h.runs, "run still happens on the closing tick")
	assert.Equal(t, StateExited, e.State())
	assert.Equal(t, 1, h.exits)
}

func TestCloseBeforeStart(t *testing.T) {
	h := &fakeHooks{}
	e, _ := newTestEngine(h)

	e.Close()

	assert.Equal(t, StateExited, e.State())
	assert.Equal(t, 1, h.exits)
	assert.ErrorIs(t, e.Start(), ErrAlreadyStarted)
}

func TestCreateBeforeStart(t *testing.T) {
	e, _ := newTestEngine(&fakeHooks{})

	_, err := e.CreateObject("PlayerObject")
	assert.ErrorIs(t, err, ErrNotRunning)
	_, err = e.CreateViewport("MainViewport")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestCreateHandles(t *testing.T) {
	e, _ := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())

	vp, err := e.CreateViewport("MainViewport")
	require.NoError(t, err)
	require.NotNil(t, vp.Camera)
	assert.Equal(t, "Camera", vp.Camera.Name())

	cam, err := e.CreateCamera("Camera")
	require.NoError(t, err)
	assert.Same(t, vp.Camera, cam)
	assert.Equal(t, 1, e.Cameras())
	assert.Equal(t, 5.0, cam.FollowGain())
	assert.True(t, cam.ClampStep())
	assert.Equal(t, 1.0, cam.Zoom())

	_, err = e.CreateCamera("PlayerObject")
	assert.Error(t, err)
	_, err = e.CreateCamera("Nope")
	assert.ErrorIs(t, err, prefabs.ErrSectionNotFound)

	bg, err := e.CreateObject("BackgroundObject")
	require.NoError(t, err)
	assert.False(t, bg.ApplyImpulse(cp.Vector{X: 30}), "objects without a body ignore impulses")
	assert.Len(t, e.Objects(), 1)
}

func TestObjectPhysics(t *testing.T) {
	e, _ := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())

	player, err := e.CreateObject("PlayerObject")
	require.NoError(t, err)
	require.True(t, player.Alive())

	require.True(t, player.ApplyImpulse(cp.Vector{X: 30}))
	assert.InDelta(t, 30, player.Velocity().X, 1e-9)

	require.True(t, e.Step(0.05))
	assert.Greater(t, player.Position().X, 0.0)
	assert.InDelta(t, 0, player.Position().Y, 1e-9)

	player.SetPosition(cp.Vector{X: -5, Y: 5})
	assert.Equal(t, cp.Vector{X: -5, Y: 5}, player.Position())
}

func TestStepClampsToMaxDT(t *testing.T) {
	e, _ := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())

	require.True(t, e.Step(5))

	assert.InDelta(t, 0.1, e.CoreClock().Info().DT, 1e-9)
}

func TestApplyConfigUpdatesCameras(t *testing.T) {
	e, r := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())
	cam, err := e.CreateCamera("Camera")
	require.NoError(t, err)

	var reloaded []event.ConfigReloaded
	event.Subscribe(e.Bus(), func(evt event.ConfigReloaded) { reloaded = append(reloaded, evt) })

	cfg, err := prefabs.ParseConfig([]byte(`
input:
  Jump:
    keys: [Space]
objects:
  Camera:
    components:
      camera:
        follow:
          gain: 9
          clamp: false
`))
	require.NoError(t, err)
	require.NoError(t, e.ApplyConfig(cfg))

	assert.Equal(t, 9.0, cam.FollowGain())
	assert.False(t, cam.ClampStep())
	assert.Same(t, cfg, e.Config())
	require.Len(t, reloaded, 1)
	assert.Same(t, cfg, reloaded[0].Config)

	r.keys[ebiten.KeySpace] = true
	require.True(t, e.Step(e.TickDT()))
	assert.True(t, e.Input().HasBeenActivated("Jump"))
}

func TestApplyConfigRejectsBadBindings(t *testing.T) {
	e, _ := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())
	before := e.Config()

	cfg, err := prefabs.ParseConfig([]byte("input:\n  Quit:\n    keys: [NotAKey]\n"))
	require.NoError(t, err)

	assert.Error(t, e.ApplyConfig(cfg))
	assert.Same(t, before, e.Config())
	assert.Contains(t, e.Input().Signals(), "Left")
}

func TestApplyConfigRejectsBadCameraSection(t *testing.T) {
	e, r := newTestEngine(&fakeHooks{})
	require.NoError(t, e.Start())
	cam, err := e.CreateCamera("Camera")
	require.NoError(t, err)
	before := e.Config()
	signals := e.Input().Signals()

	cfg, err := prefabs.ParseConfig([]byte(`
clock:
  max_dt: 0.5
input:
  Jump:
    keys: [Space]
objects:
  Camera:
    components:
      camera:
        zoom: abc
        follow:
          gain: 9
`))
	require.NoError(t, err)

	assert.Error(t, e.ApplyConfig(cfg))

	assert.Same(t, before, e.Config())
	assert.Equal(t, signals, e.Input().Signals())
	assert.Equal(t, 5.0, cam.FollowGain())

	r.keys[ebiten.KeySpace] = true
	require.True(t, e.Step(5))
	assert.InDelta(t, 0.1, e.CoreClock().Info().DT, 1e-9, "max dt must stay at the old value")
	assert.False(t, e.Input().HasBeenActivated("Jump"))
}

func TestViewportArea(t *testing.T) {
	h := &fakeHooks{bootstrap: func(e *Engine) error {
		cfg, err := prefabs.ParseConfig([]byte(`
viewports:
  Full:
    camera: Cam
  Minimap:
    camera: Cam
    rect: {x: 1080, y: 0, width: 400, height: 200}
objects:
  Cam:
    components:
      camera: {}
`))
		if err != nil {
			return err
		}
		e.SetConfig(cfg)
		return nil
	}}
	e, _ := newTestEngine(h)
	require.NoError(t, e.Start())

	full, err := e.CreateViewport("Full")
	require.NoError(t, err)
	mini, err := e.CreateViewport("Minimap")
	require.NoError(t, err)
	assert.Same(t, full.Camera, mini.Camera)

	screen := image.Rect(0, 0, 1280, 720)
	assert.Equal(t, screen, full.Area(screen))
	assert.Equal(t, image.Rect(1080, 0, 1280, 200), mini.Area(screen))
	assert.True(t, mini.Area(image.Rect(0, 0, 640, 360)).Empty())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "exited", StateExited.String())
	assert.Equal(t, "unknown", State(42).String())
}
