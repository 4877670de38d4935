package game

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/clock"
	"github.com/milk9111/adventuretycoon/event"
)

const (
	SignalQuit    = "Quit"
	SignalLeft    = "Left"
	SignalRight   = "Right"
	SignalForward = "Forward"
	SignalDown    = "Down"
)

// ImpulseMagnitude is the per-tick impulse of a held movement signal.
const ImpulseMagnitude = 30.0

// Signals is the subset of the input manager the controller reads.
type Signals interface {
	IsActive(name string) bool
	HasBeenActivated(name string) bool
}

// Impulser receives impulses.
type Impulser interface {
	ApplyImpulse(impulse cp.Vector) bool
}

// Y grows downwards, so Forward pushes towards negative Y.
var movements = []struct {
	signal  string
	impulse cp.Vector
}{
	{SignalLeft, cp.Vector{X: -ImpulseMagnitude}},
	{SignalRight, cp.Vector{X: ImpulseMagnitude}},
	{SignalForward, cp.Vector{Y: -ImpulseMagnitude}},
	{SignalDown, cp.Vector{Y: ImpulseMagnitude}},
}

// Impulses returns the impulses the held movement signals ask for this
// tick, in Left, Right, Forward, Down order.
func Impulses(in Signals) []cp.Vector {
	var out []cp.Vector
	for _, m := range movements {
		if in.IsActive(m.signal) {
			out = append(out, m.impulse)
		}
	}
	return out
}

// Controller maps input to the player each tick. Movement is level
// triggered: a held signal pushes on every tick. Quit is edge triggered.
type Controller struct {
	Input  Signals
	Player Impulser
	Bus    *event.Bus
}

func (c *Controller) Tick(_ clock.Info) {
	if c.Input == nil {
		return
	}
	if c.Input.HasBeenActivated(SignalQuit) {
		event.Publish(c.Bus, event.SystemClose{})
	}
	if c.Player == nil {
		return
	}
	for _, impulse := range Impulses(c.Input) {
		c.Player.ApplyImpulse(impulse)
	}
}
