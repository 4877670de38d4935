package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/prefabs"
)

type entityPrefabSpec = prefabs.EntityBuildSpec

type buildContext struct {
	Section string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":   addPlayerTag,
	"camera_tag":   addCameraTag,
	"transform":    addTransform,
	"sprite":       addSprite,
	"render_layer": addRenderLayer,
	"camera":       addCamera,
	"physics_body": addPhysicsBody,
}

// Builders that read other components (physics_body scales with transform)
// must come after them.
var componentBuildOrder = []string{
	"player_tag",
	"camera_tag",
	"transform",
	"sprite",
	"render_layer",
	"camera",
	"physics_body",
}

// BuildEntity creates an entity from a config section. The entity is
// destroyed again if any component fails to build.
func BuildEntity(w *ecs.World, spec entityPrefabSpec) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: section %q does not define components", spec.Name)
	}

	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", spec.Name, name)
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{Section: spec.Name}

	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: add name: %w", spec.Name, err)
	}

	for _, name := range componentBuildOrder {
		raw, ok := spec.Components[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", spec.Name, name, err)
		}
	}

	if !ecs.Has(w, e, component.TransformComponent.Kind()) {
		if err := SetEntityTransform(w, e, 0, 0, 0); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: default transform: %w", spec.Name, err)
		}
	}

	return e, nil
}

// ApplyComponent rebuilds a single component on a live entity from a raw
// component section.
func ApplyComponent(w *ecs.World, e ecs.Entity, name string, raw any) error {
	builder, ok := componentRegistry[name]
	if !ok {
		return fmt.Errorf("apply component: no builder for component %q", name)
	}
	section := ""
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		section = n.Value
	}
	return builder(w, e, raw, &buildContext{Section: section})
}

// ComponentNames lists the known component keys, sorted.
func ComponentNames() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}
	if spec.Image == "" && spec.Color == "" {
		return fmt.Errorf("sprite needs an image or a color")
	}

	sprite := &component.Sprite{
		ImagePath:    spec.Image,
		Width:        spec.Width,
		Height:       spec.Height,
		OriginX:      spec.OriginX,
		OriginY:      spec.OriginY,
		CenterOrigin: spec.CenterOriginIfZero && spec.OriginX == 0 && spec.OriginY == 0,
		FacingLeft:   spec.FacingLeft,
	}
	if spec.Image == "" {
		if spec.Width <= 0 || spec.Height <= 0 {
			return fmt.Errorf("color sprite needs a positive width and height")
		}
		c, err := prefabs.ParseHexColor(spec.Color)
		if err != nil {
			return fmt.Errorf("sprite color: %w", err)
		}
		sprite.Color = c
	}

	return ecs.Add(w, e, component.SpriteComponent.Kind(), sprite)
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

// DefaultFollowGain is the camera follow rate used when a camera section
// leaves follow.gain unset.
const DefaultFollowGain = 5.0

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	cam, err := DecodeCamera(raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &cam)
}

// DecodeCamera turns a camera section into a component with defaults
// filled in, without touching any world.
func DecodeCamera(raw any) (component.Camera, error) {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return component.Camera{}, fmt.Errorf("decode camera spec: %w", err)
	}
	if spec.Zoom <= 0 {
		spec.Zoom = 1
	}
	gain := spec.Follow.Gain
	if gain <= 0 {
		gain = DefaultFollowGain
	}
	clamp := true
	if spec.Follow.Clamp != nil {
		clamp = *spec.Follow.Clamp
	}
	return component.Camera{
		Zoom:       spec.Zoom,
		FollowGain: gain,
		ClampStep:  clamp,
	}, nil
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	width := spec.Width
	height := spec.Height
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok && tr != nil {
		width *= tr.ScaleX
		height *= tr.ScaleY
	}
	if spec.Radius <= 0 {
		if width <= 0 {
			width = 32
		}
		if height <= 0 {
			height = 32
		}
	}
	if !spec.Static && spec.Mass <= 0 {
		spec.Mass = 1
	}
	if spec.LinearDamping < 0 {
		return fmt.Errorf("linear_damping must not be negative")
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         width,
		Height:        height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		LinearDamping: spec.LinearDamping,
		Static:        spec.Static,
		FixedRotation: spec.FixedRotation,
	})
}
