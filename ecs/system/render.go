package system

import (
	"image"
	"image/color"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/adventuretycoon/ecs"
	"github.com/milk9111/adventuretycoon/ecs/component"
	"github.com/milk9111/adventuretycoon/ecs/render"
)

type RenderSystem struct {
	failed map[string]bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{failed: make(map[string]bool)}
}

// Draw fills the screen with background and draws every sprite, ordered by
// render layer, as seen from camEntity. The camera transform is the world
// point drawn at the centre of the screen.
func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image, camEntity ecs.Entity, background color.Color) {
	if r == nil || w == nil || screen == nil {
		return
	}

	if background != nil {
		screen.Fill(background)
	}

	camX, camY := 0.0, 0.0
	zoom := 1.0
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		camX = camTransform.X
		camY = camTransform.Y
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		if camComp.Zoom > 0 {
			zoom = camComp.Zoom
		}
	}

	halfW, halfH := ScreenCenter(screen.Bounds())

	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent.Kind()); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent.Kind()); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		if e == camEntity {
			continue
		}

		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			continue
		}
		img := r.resolve(s)
		if img == nil {
			// Missing art still shows where the sprite would be.
			if s.ImagePath != "" {
				x := (t.X-camX)*zoom + halfW
				y := (t.Y-camY)*zoom + halfH
				ebitenutil.DebugPrintAt(screen, s.ImagePath, int(x), int(y))
			}
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}

		if s.FacingLeft {
			sx = -sx
			op.GeoM.Translate(float64(-img.Bounds().Dx()), 0)
		}

		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate((t.X-camX)*zoom+halfW, (t.Y-camY)*zoom+halfH)

		screen.DrawImage(img, op)
	}
}

// ScreenCenter is the point the camera is drawn at. Sub-images keep their
// parent's coordinates, so the offset of b counts.
func ScreenCenter(b image.Rectangle) (float64, float64) {
	return float64(b.Min.X) + float64(b.Dx())/2, float64(b.Min.Y) + float64(b.Dy())/2
}

func (r *RenderSystem) resolve(s *component.Sprite) *ebiten.Image {
	if s.Image == nil {
		switch {
		case s.ImagePath != "":
			if r.failed[s.ImagePath] {
				return nil
			}
			img, err := render.LoadImage(s.ImagePath)
			if err != nil {
				log.Printf("render: %v", err)
				r.failed[s.ImagePath] = true
				return nil
			}
			s.Image = img
		case s.Color != nil:
			s.Image = render.SolidImage(s.Width, s.Height, s.Color)
		}
		if s.Image == nil {
			return nil
		}
	}
	if s.CenterOrigin {
		b := s.Image.Bounds()
		s.OriginX = float64(b.Dx()) / 2
		s.OriginY = float64(b.Dy()) / 2
		s.CenterOrigin = false
	}
	return s.Image
}
