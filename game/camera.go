package game

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/clock"
	"github.com/milk9111/adventuretycoon/common"
)

// FollowGain is the camera follow rate, in 1/s, for cameras that do not
// configure one.
const FollowGain = 5.0

type Positioner interface {
	Position() cp.Vector
}

type Mover interface {
	Positioner
	SetPosition(pos cp.Vector)
}

// followTuning is implemented by cameras that carry their own follow
// parameters (engine.Camera does).
type followTuning interface {
	FollowGain() float64
	ClampStep() bool
}

// Follow moves c towards p by gain*dt of the remaining distance. With clamp
// the factor is limited to [0, 1]; without it a factor above 1 overshoots
// and one of 2 or more diverges.
func Follow(c, p cp.Vector, gain, dt float64, clamp bool) cp.Vector {
	t := gain * dt
	if clamp {
		t = common.Clamp(t, 0, 1)
	}
	return c.Add(p.Sub(c).Mult(t))
}

// Follower eases Camera towards Target every tick. It never assigns the
// target position directly; the only exact landing is a clamped step with
// gain*dt >= 1, which the default max_dt keeps out of reach.
type Follower struct {
	Camera Mover
	Target Positioner
}

func (f *Follower) Tick(info clock.Info) {
	if f.Camera == nil || f.Target == nil {
		return
	}
	gain, clamp := FollowGain, true
	if t, ok := f.Camera.(followTuning); ok {
		gain, clamp = t.FollowGain(), t.ClampStep()
	}
	f.Camera.SetPosition(Follow(f.Camera.Position(), f.Target.Position(), gain, info.DT, clamp))
}
