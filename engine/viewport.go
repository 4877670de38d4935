package engine

import (
	"fmt"
	"image"
	"image/color"

	"github.com/milk9111/adventuretycoon/prefabs"
)

// Viewport shows the world through a camera. Viewports are drawn in
// creation order, so a later full-screen viewport hides earlier ones.
type Viewport struct {
	Name       string
	Camera     *Camera
	Background color.Color
	// Rect is the screen area in pixels. The zero rectangle means the
	// whole screen.
	Rect image.Rectangle
}

// Area returns the part of screen the viewport draws into.
func (vp *Viewport) Area(screen image.Rectangle) image.Rectangle {
	if vp.Rect.Empty() {
		return screen
	}
	return vp.Rect.Intersect(screen)
}

func rectOf(r *prefabs.RectSpec) image.Rectangle {
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// CreateViewport builds the named viewport and the camera it names.
func (e *Engine) CreateViewport(name string) (*Viewport, error) {
	if e.state != StateInitialized && e.state != StateRunning {
		return nil, fmt.Errorf("engine: create viewport %q: %w", name, ErrNotRunning)
	}
	spec, err := e.config.Viewport(name)
	if err != nil {
		return nil, fmt.Errorf("engine: create viewport %q: %w", name, err)
	}
	vp := &Viewport{Name: name, Background: backgroundOf(spec.BackgroundColor), Rect: rectOf(spec.Rect)}
	if spec.Camera != "" {
		cam, err := e.CreateCamera(spec.Camera)
		if err != nil {
			return nil, fmt.Errorf("engine: create viewport %q: %w", name, err)
		}
		vp.Camera = cam
	}
	e.viewports = append(e.viewports, vp)
	return vp, nil
}

// Viewports returns the created viewports in draw order.
func (e *Engine) Viewports() []*Viewport {
	return append([]*Viewport(nil), e.viewports...)
}
