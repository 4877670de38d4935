package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/clock"
	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keyReader struct {
	keys map[ebiten.Key]bool
}

func (r *keyReader) KeyPressed(k ebiten.Key) bool {
	return r.keys[k]
}

func (r *keyReader) GamepadButtonPressed(ebiten.StandardGamepadButton) bool {
	return false
}

// countingApp records which hooks ran on top of the real game.
type countingApp struct {
	*App
	ticksBeforeInit uint64
	exits           int
}

func (a *countingApp) Init(e *engine.Engine) error {
	a.ticksBeforeInit = e.CoreClock().Info().Frame
	return a.App.Init(e)
}

func (a *countingApp) Exit() {
	a.exits++
	a.App.Exit()
}

func startApp(t *testing.T) (*engine.Engine, *countingApp, *keyReader) {
	t.Helper()
	app := &countingApp{App: NewApp()}
	r := &keyReader{keys: make(map[ebiten.Key]bool)}
	e := engine.New(app, engine.Options{Reader: r})
	require.NoError(t, e.Start())
	return e, app, r
}

func TestBootstrapCreatesScene(t *testing.T) {
	e, app, _ := startApp(t)
	w := e.World()

	assert.Equal(t, engine.StateRunning, e.State())
	assert.Equal(t, uint64(0), app.ticksBeforeInit)
	assert.Equal(t, 3, e.CoreClock().Len(), "controller, follower and physics")

	assert.Len(t, w.Query(component.PlayerTagComponent.Kind()), 1)
	assert.Len(t, w.Query(component.CameraComponent.Kind()), 1)
	assert.Equal(t, 1, e.Cameras())
	assert.Len(t, e.Objects(), 2)
	assert.Len(t, e.Viewports(), 1)

	require.NotNil(t, app.Viewport)
	assert.Equal(t, SectionViewport, app.Viewport.Name)
	assert.Same(t, app.Camera, app.Viewport.Camera)
	assert.Equal(t, SectionPlayer, app.Player.Name())
	assert.Equal(t, SectionBackground, app.Scene.Name())

	stats := e.CoreClock().Stats()
	require.Len(t, stats, 3)
	assert.Equal(t, "Controller", stats[0].Name)
	assert.Equal(t, "Follower", stats[1].Name)
	assert.Equal(t, "physics", stats[2].Name)
}

func TestHeldMovementPushesPlayer(t *testing.T) {
	e, app, r := startApp(t)
	r.keys[ebiten.KeyD] = true

	require.True(t, e.Step(e.TickDT()))

	assert.Greater(t, app.Player.Velocity().X, 0.0)
	assert.Greater(t, app.Player.Position().X, 0.0)

	bg, ok := ecs.Get(e.World(), app.Scene.Entity(), component.TransformComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 0.0, bg.X)
}

func TestCameraEasesTowardsPlayer(t *testing.T) {
	e, app, _ := startApp(t)
	app.Player.SetPosition(cp.Vector{X: 120})

	require.True(t, e.Step(0.1))

	pos := app.Camera.Position()
	assert.InDelta(t, 60, pos.X, 1e-9)
	assert.InDelta(t, 0, pos.Y, 1e-9)

	for i := 0; i < 240; i++ {
		require.True(t, e.Step(e.TickDT()))
	}
	assert.InDelta(t, 120, app.Camera.Position().X, 1e-3)
}

func TestQuitExitsOnce(t *testing.T) {
	e, app, r := startApp(t)
	require.True(t, e.Step(e.TickDT()))

	r.keys[ebiten.KeyEscape] = true
	assert.False(t, e.Step(e.TickDT()))
	assert.False(t, e.Step(e.TickDT()))

	assert.Equal(t, engine.StateExited, e.State())
	assert.Equal(t, 1, app.exits)
}

type failingInit struct {
	*App
}

func (a failingInit) Init(e *engine.Engine) error {
	if err := a.App.Init(e); err != nil {
		return err
	}
	return errors.New("refuse to start")
}

func TestInitFailureStopsEngine(t *testing.T) {
	e := engine.New(failingInit{App: NewApp()}, engine.Options{Reader: &keyReader{}})

	assert.Error(t, e.Start())
	assert.Equal(t, engine.StateExited, e.State())
}

func TestClockOrderRunsGameplayBeforePhysics(t *testing.T) {
	e, app, _ := startApp(t)
	var seen cp.Vector
	e.CoreClock().RegisterNamed("probe", clock.TickFunc(func(clock.Info) {
		seen = app.Player.Position()
	}), clock.PriorityLowest)

	app.Player.SetPosition(cp.Vector{X: 40})
	require.True(t, app.Player.ApplyImpulse(cp.Vector{X: 30}))
	require.True(t, e.Step(0.1))

	assert.Greater(t, seen.X, 40.0, "physics steps before lower priority callbacks")
}
