package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite is either an image file or a solid rectangle. Image is resolved
// lazily by the render system.
type Sprite struct {
	Image     *ebiten.Image
	ImagePath string
	Color     color.Color
	Width     int
	Height    int
	OriginX   float64
	OriginY   float64
	// CenterOrigin places the origin at the image centre once it is known.
	CenterOrigin bool
	FacingLeft   bool
}

var SpriteComponent = NewComponent[Sprite]()
