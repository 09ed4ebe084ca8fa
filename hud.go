package main

import (
	"fmt"
	"image"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/roboticarm/sim"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// HUD is the debug toggle button plus a plain-text status readout.
type HUD struct {
	sim    *sim.Simulation
	ui     *ebitenui.UI
	button *widget.Button
	help   string
}

func NewHUD(s *sim.Simulation) *HUD {
	h := &HUD{sim: s}

	btnImg := imageui.NewNineSliceColor(colornames.Lightsteelblue)
	btnPressed := imageui.NewNineSliceColor(colornames.Steelblue)

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	btnTextColor := &widget.ButtonTextColor{Idle: colornames.Black, Hover: colornames.Black, Pressed: colornames.White}

	h.button = widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnImg, Pressed: btnPressed}),
		widget.ButtonOpts.Text(debugLabel(s.Debug), &face, btnTextColor),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(140, 28)),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			s.Debug = !s.Debug
		}),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Left: 12}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	panel.AddChild(h.button)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)
	h.ui = &ebitenui.UI{Container: root}

	h.help = helpText(s)
	return h
}

func debugLabel(on bool) string {
	if on {
		return "Debug Mode: On"
	}
	return "Debug Mode: Off"
}

func helpText(s *sim.Simulation) string {
	var b strings.Builder
	for _, bind := range s.Controls.Bindings() {
		label := bind.Label
		if label == "" {
			label = fmt.Sprintf("%s %s", bind.Joint, bind.Direction)
		}
		fmt.Fprintf(&b, "%-10s %s\n", bind.Key, label)
	}
	return b.String()
}

// Refresh rebuilds the key help after the bindings change.
func (h *HUD) Refresh() {
	h.help = helpText(h.sim)
}

// Hovered reports whether the screen point is over the toggle button.
func (h *HUD) Hovered(x, y int) bool {
	if h == nil || h.button == nil {
		return false
	}
	return image.Pt(x, y).In(h.button.GetWidget().Rect)
}

func (h *HUD) Update() {
	if text := h.button.Text(); text != nil {
		text.Label = debugLabel(h.sim.Debug)
	}
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)

	status := fmt.Sprintf("FPS: %.1f  t=%.2fs", ebiten.ActualFPS(), h.sim.World.Elapsed())
	if p, ok := h.sim.Picker.Point(); ok {
		status += fmt.Sprintf("  pointer=(%.2f, %.2f)", p.X, p.Y)
	}
	if b := h.sim.Picker.Grabbed(); b != nil {
		status += "  dragging " + b.Name()
	}
	if name := h.sim.ScriptName(); name != "" {
		status += "  program " + name
	}
	w := screen.Bounds().Dx()
	ebitenutil.DebugPrintAt(screen, status, w-len(status)*6-12, 12)
	if h.sim.Debug {
		ebitenutil.DebugPrintAt(screen, h.help, 12, 52)
	}
}
