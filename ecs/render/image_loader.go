package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/adventuretycoon/assets"
)

// LoadImage loads an image from assets or filesystem and caches it by key.
func LoadImage(key string) (*ebiten.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("empty image key")
	}
	if img := GetImage(key); img != nil {
		return img, nil
	}
	img, err := loadImageFromAssetsOrFS(key)
	if err != nil {
		return nil, err
	}
	RegisterImage(key, img)
	return img, nil
}

// SolidImage returns a cached single-colour image of the given size.
func SolidImage(width, height int, c color.Color) *ebiten.Image {
	if width <= 0 || height <= 0 {
		return nil
	}
	r, g, b, a := c.RGBA()
	key := fmt.Sprintf("solid:%dx%d:%04x%04x%04x%04x", width, height, r, g, b, a)
	if img := GetImage(key); img != nil {
		return img
	}
	img := ebiten.NewImage(width, height)
	img.Fill(c)
	RegisterImage(key, img)
	return img
}

func loadImageFromAssetsOrFS(path string) (*ebiten.Image, error) {
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			if im, _, err := image.Decode(bytes.NewReader(b)); err == nil {
				return ebiten.NewImageFromImage(im), nil
			}
		}
	}
	return nil, fmt.Errorf("failed to load image %s", path)
}
