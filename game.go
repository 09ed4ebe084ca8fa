package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/sim"
	"golang.design/x/clipboard"
)

type Game struct {
	sim     *sim.Simulation
	clock   *sim.FrameClock
	hud     *HUD
	watcher *prefabs.Watcher

	fullscreenKey string
	debugKey      string
	copyKey       string
	clipboardOK   bool

	keys    []ebiten.Key
	panning bool
	lastMX  int
	lastMY  int
	width   int
	height  int
}

func NewGame(s *sim.Simulation, watcher *prefabs.Watcher) *Game {
	g := &Game{
		sim:     s,
		clock:   sim.NewFrameClock(),
		watcher: watcher,
	}
	g.hud = NewHUD(s)
	g.loadToggleKeys()

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard: %v, copy disabled", err)
	} else {
		g.clipboardOK = true
	}
	return g
}

func (g *Game) loadToggleKeys() {
	g.fullscreenKey, g.debugKey, g.copyKey = "F11", "F3", "C"
	spec, err := prefabs.LoadControlsSpec()
	if err != nil {
		log.Printf("controls: %v", err)
		return
	}
	if spec.Fullscreen != "" {
		g.fullscreenKey = spec.Fullscreen
	}
	if spec.Debug != "" {
		g.debugKey = spec.Debug
	}
	if spec.Copy != "" {
		g.copyKey = spec.Copy
	}
}

func (g *Game) Update() error {
	g.applyReloads()
	g.handleKeys()
	g.handleMouse()
	g.hud.Update()

	g.sim.Tick(g.clock.Elapsed())
	return nil
}

func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Drain() {
		if err := g.sim.Reload(name); err != nil {
			log.Printf("prefabs: %v", err)
			continue
		}
		if name == prefabs.ControlsFile {
			g.loadToggleKeys()
			g.hud.Refresh()
		}
		log.Printf("prefabs: reloaded %s", name)
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("prefabs: watch: %v", err)
	default:
	}
}

func (g *Game) handleKeys() {
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		switch name := k.String(); name {
		case g.fullscreenKey:
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		case g.debugKey:
			g.sim.Debug = !g.sim.Debug
		case g.copyKey:
			g.copyPointer()
		default:
			g.sim.Controls.Press(name)
		}
	}

	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.sim.Controls.Release(k.String())
	}
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		if g.panning {
			g.sim.Camera.Pan(float64(mx-g.lastMX), float64(my-g.lastMY), g.width, g.height)
		}
		g.panning = true
	} else {
		g.panning = false
	}
	g.lastMX, g.lastMY = mx, my

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.sim.Camera.ZoomAt(float64(mx), float64(my), wy, g.width, g.height)
	}

	dragging := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && !g.hud.Hovered(mx, my)
	g.sim.SetPointer(float64(mx), float64(my), dragging)
}

func (g *Game) copyPointer() {
	if !g.clipboardOK {
		return
	}
	p, ok := g.sim.Picker.Point()
	if !ok {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(fmt.Sprintf("%.3f, %.3f", p.X, p.Y)))
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.Draw(screen)
	g.hud.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	g.sim.SetCanvas(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
