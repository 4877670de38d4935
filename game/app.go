// Package game is the AdventureTycoon gameplay: a player pushed around by
// impulses and a camera that eases after it.
package game

import (
	"fmt"
	"log"

	"github.com/milk9111/adventuretycoon/clock"
	"github.com/milk9111/adventuretycoon/engine"
)

// Config section names.
const (
	SectionViewport   = "MainViewport"
	SectionPlayer     = "PlayerObject"
	SectionCamera     = "Camera"
	SectionBackground = "BackgroundObject"
)

// App holds the game's handles. The engine owns the entities behind them.
type App struct {
	Viewport *engine.Viewport
	Player   *engine.Object
	Camera   *engine.Camera
	Scene    *engine.Object

	controller *Controller
	follower   *Follower
}

func NewApp() *App {
	return &App{}
}

func (a *App) Bootstrap(_ *engine.Engine) error {
	return nil
}

// Init registers the controller and the camera follower on the core clock,
// then creates the viewport, player, camera and background.
func (a *App) Init(e *engine.Engine) error {
	a.controller = &Controller{Input: e.Input(), Bus: e.Bus()}
	a.follower = &Follower{}

	core := e.CoreClock()
	core.Register(a.controller, clock.PriorityNormal)
	core.Register(a.follower, clock.PriorityNormal)

	vp, err := e.CreateViewport(SectionViewport)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	player, err := e.CreateObject(SectionPlayer)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	cam, err := e.CreateCamera(SectionCamera)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	scene, err := e.CreateObject(SectionBackground)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	a.Viewport, a.Player, a.Camera, a.Scene = vp, player, cam, scene
	a.controller.Player = player
	a.follower.Camera = cam
	a.follower.Target = player
	return nil
}

func (a *App) Run() error {
	return nil
}

func (a *App) Exit() {
	log.Printf("game: exit")
	a.controller = nil
	a.follower = nil
}
