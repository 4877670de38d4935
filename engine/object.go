package engine

import (
	"fmt"
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/ecs/entity"
)

// Object is a handle to an engine-owned entity. The engine keeps the entity
// alive for its whole lifetime; a handle never frees it.
type Object struct {
	engine *Engine
	entity ecs.Entity
	name   string
}

// CreateObject builds an entity from the named objects section.
func (e *Engine) CreateObject(name string) (*Object, error) {
	ent, err := e.buildSection(name)
	if err != nil {
		return nil, fmt.Errorf("engine: create object %q: %w", name, err)
	}
	obj := &Object{engine: e, entity: ent, name: name}
	e.objects = append(e.objects, obj)
	return obj, nil
}

func (e *Engine) buildSection(name string) (ecs.Entity, error) {
	if e.state != StateInitialized && e.state != StateRunning {
		return 0, ErrNotRunning
	}
	spec, err := e.config.Object(name)
	if err != nil {
		return 0, err
	}
	ent, err := entity.BuildEntity(e.world, spec)
	if err != nil {
		return 0, err
	}
	e.physics.EnsureBody(e.world, ent)
	log.Printf("engine: created %q as entity %s", name, ent)
	return ent, nil
}

// Objects returns the created objects in creation order.
func (e *Engine) Objects() []*Object {
	return append([]*Object(nil), e.objects...)
}

func (o *Object) Name() string {
	return o.name
}

func (o *Object) Entity() ecs.Entity {
	return o.entity
}

func (o *Object) Alive() bool {
	return o.engine.world.IsAlive(o.entity)
}

// Position is the body position for physical objects, otherwise the
// transform position.
func (o *Object) Position() cp.Vector {
	if pos, ok := o.engine.physics.Position(o.entity); ok {
		return pos
	}
	return transformPosition(o.engine.world, o.entity)
}

func (o *Object) SetPosition(pos cp.Vector) {
	o.engine.physics.SetPosition(o.entity, pos)
	setTransformPosition(o.engine.world, o.entity, pos)
}

func (o *Object) Velocity() cp.Vector {
	return o.engine.physics.Velocity(o.entity)
}

// ApplyImpulse changes the object's momentum at its centre of gravity. It
// does nothing and returns false for objects without a dynamic body.
func (o *Object) ApplyImpulse(impulse cp.Vector) bool {
	return o.engine.physics.ApplyImpulse(o.entity, impulse)
}

// Camera is a handle to a camera entity.
type Camera struct {
	engine *Engine
	entity ecs.Entity
	name   string
}

// CreateCamera builds the named camera section. Camera names are unique:
// asking for an existing name returns the camera already created.
func (e *Engine) CreateCamera(name string) (*Camera, error) {
	if cam, ok := e.cameras[name]; ok {
		return cam, nil
	}
	spec, err := e.config.Object(name)
	if err != nil {
		return nil, fmt.Errorf("engine: create camera %q: %w", name, err)
	}
	if _, ok := spec.Components["camera"]; !ok {
		return nil, fmt.Errorf("engine: create camera %q: section has no camera component", name)
	}
	ent, err := e.buildSection(name)
	if err != nil {
		return nil, fmt.Errorf("engine: create camera %q: %w", name, err)
	}
	cam := &Camera{engine: e, entity: ent, name: name}
	e.cameras[name] = cam
	return cam, nil
}

// Cameras returns the number of cameras created.
func (e *Engine) Cameras() int {
	return len(e.cameras)
}

func (c *Camera) Name() string {
	return c.name
}

func (c *Camera) Entity() ecs.Entity {
	return c.entity
}

func (c *Camera) Position() cp.Vector {
	return transformPosition(c.engine.world, c.entity)
}

func (c *Camera) SetPosition(pos cp.Vector) {
	setTransformPosition(c.engine.world, c.entity, pos)
}

func (c *Camera) FollowGain() float64 {
	if cam, ok := ecs.Get(c.engine.world, c.entity, component.CameraComponent.Kind()); ok {
		return cam.FollowGain
	}
	return entity.DefaultFollowGain
}

func (c *Camera) ClampStep() bool {
	if cam, ok := ecs.Get(c.engine.world, c.entity, component.CameraComponent.Kind()); ok {
		return cam.ClampStep
	}
	return true
}

func (c *Camera) Zoom() float64 {
	if cam, ok := ecs.Get(c.engine.world, c.entity, component.CameraComponent.Kind()); ok && cam.Zoom > 0 {
		return cam.Zoom
	}
	return 1
}

func transformPosition(w *ecs.World, e ecs.Entity) cp.Vector {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}
	}
	return cp.Vector{X: t.X, Y: t.Y}
}

func setTransformPosition(w *ecs.World, e ecs.Entity, pos cp.Vector) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	t.X = pos.X
	t.Y = pos.Y
}
