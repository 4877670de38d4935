package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/prefabs"
)

type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(spec prefabs.PhysicsSpec) *PhysicsSystem {
	ps := &PhysicsSystem{
		space:    cp.NewSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
	ps.Configure(spec)
	return ps
}

// Configure applies gravity, damping and solver iterations to the space.
func (ps *PhysicsSystem) Configure(spec prefabs.PhysicsSpec) {
	if ps == nil || ps.space == nil {
		return
	}
	iterations := spec.Iterations
	if iterations <= 0 {
		iterations = 10
	}
	damping := spec.Damping
	if damping <= 0 {
		damping = 1
	}
	ps.space.Iterations = uint(iterations)
	ps.space.SetGravity(cp.Vector{X: spec.Gravity.X, Y: spec.Gravity.Y})
	ps.space.SetDamping(damping)
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Update adds bodies for new physics components, steps the space by dt and
// copies body positions back into transforms.
func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}

	ps.syncEntities(w)
	if dt > 0 {
		ps.space.Step(dt)
	}
	ps.syncTransforms(w)
}

// EnsureBody creates the Chipmunk body for e right away, so impulses applied
// before the next step are not lost.
func (ps *PhysicsSystem) EnsureBody(w *ecs.World, e ecs.Entity) bool {
	if ps == nil || w == nil || !w.IsAlive(e) {
		return false
	}
	if _, ok := ps.entities[e]; ok {
		return true
	}
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return false
	}
	transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	info := ps.createBodyInfo(transform, bodyComp)
	ps.entities[e] = info
	bodyComp.Body = info.body
	bodyComp.Shape = info.shape
	return true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		ps.EnsureBody(w, e)
	}
}

func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius

	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 32
		height = 32
	}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: transform.X, Y: transform.Y})
		} else {
			bb := cp.BB{
				L: transform.X - width/2,
				B: transform.Y - height/2,
				R: transform.X + width/2,
				T: transform.Y + height/2,
			}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}
	if bodyComp.FixedRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
	body.SetAngle(transform.Rotation)

	if ld := bodyComp.LinearDamping; ld > 0 {
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping/(1+dt*ld), dt)
		})
	}

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	return &bodyInfo{body: body, shape: shape}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = info.body.Angle()
	}
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.removeBody(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeBody(info *bodyInfo) {
	if info == nil {
		return
	}
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if !info.static && info.body != nil {
		ps.space.RemoveBody(info.body)
	}
}

// ApplyImpulse adds an instantaneous momentum change at the body's centre of
// gravity. It reports false when e has no dynamic body.
func (ps *PhysicsSystem) ApplyImpulse(e ecs.Entity, impulse cp.Vector) bool {
	if ps == nil {
		return false
	}
	info, ok := ps.entities[e]
	if !ok || info.static {
		return false
	}
	info.body.ApplyImpulseAtWorldPoint(impulse, info.body.Position())
	return true
}

// Velocity returns the body's linear velocity, or zero without a body.
func (ps *PhysicsSystem) Velocity(e ecs.Entity) cp.Vector {
	if ps == nil {
		return cp.Vector{}
	}
	info, ok := ps.entities[e]
	if !ok || info.static {
		return cp.Vector{}
	}
	return info.body.Velocity()
}

// SetPosition moves a dynamic body. Transforms of entities without a body
// are the caller's business.
func (ps *PhysicsSystem) SetPosition(e ecs.Entity, pos cp.Vector) bool {
	if ps == nil {
		return false
	}
	info, ok := ps.entities[e]
	if !ok || info.static {
		return false
	}
	info.body.SetPosition(pos)
	return true
}

// Position returns the body position of e.
func (ps *PhysicsSystem) Position(e ecs.Entity) (cp.Vector, bool) {
	if ps == nil {
		return cp.Vector{}, false
	}
	info, ok := ps.entities[e]
	if !ok || info.static {
		return cp.Vector{}, false
	}
	return info.body.Position(), true
}
