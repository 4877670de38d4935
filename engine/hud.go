package engine

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// HUD is the debug overlay shown with -debug.
type HUD struct {
	ui   *ebitenui.UI
	text *widget.Text
}

func NewHUD() *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 160})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	text := widget.NewText(
		widget.TextOpts.Text("", &face, colornames.White),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	panel.AddChild(text)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &HUD{ui: &ebitenui.UI{Container: root}, text: text}
}

func (h *HUD) SetLines(lines []string) {
	h.text.Label = strings.Join(lines, "\n")
}

func (h *HUD) Update() {
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}

func (e *Engine) debugLines(fps float64) []string {
	info := e.clock.Info()
	lines := []string{
		fmt.Sprintf("FPS %.1f  frame %d  t %.2fs", fps, info.Frame, info.Time),
	}
	for _, vp := range e.viewports {
		if vp.Camera == nil {
			continue
		}
		p := vp.Camera.Position()
		lines = append(lines, fmt.Sprintf("%s/%s (%.1f, %.1f)", vp.Name, vp.Camera.Name(), p.X, p.Y))
	}
	for _, o := range e.objects {
		p := o.Position()
		lines = append(lines, fmt.Sprintf("%s (%.1f, %.1f)", o.Name(), p.X, p.Y))
	}
	for _, s := range e.clock.Stats() {
		lines = append(lines, fmt.Sprintf("%s x%d %s", s.Name, s.Count, s.LastDuration))
	}
	return lines
}
