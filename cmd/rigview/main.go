// Command rigview draws the rig prefab in its rest pose, without stepping
// physics, so sprite offsets and scales can be tuned against the collision
// outlines. The rig is rebuilt whenever prefabs/rig.yaml changes.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/roboticarm/camera"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/physics"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/render"
	"github.com/milk9111/roboticarm/rig"
	"golang.org/x/image/colornames"
)

type viewer struct {
	world   *physics.World
	rig     *rig.Rig
	camera  *camera.Camera
	images  *render.Images
	overlay *render.Overlay
	watcher *prefabs.Watcher

	outlines bool
	width    int
	height   int
}

func (v *viewer) rebuild() {
	w := physics.NewWorld(physics.DefaultConfig())
	r, err := rig.Load(w)
	if err != nil {
		// keep showing the last good rig
		log.Printf("rigview: %v", err)
		return
	}
	v.world, v.rig = w, r
}

func (v *viewer) Update() error {
	if v.watcher != nil {
		for _, name := range v.watcher.Drain() {
			if name == prefabs.RigFile {
				v.rebuild()
				log.Printf("rigview: reloaded %s", name)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		v.outlines = !v.outlines
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		mx, my := ebiten.CursorPosition()
		v.camera.ZoomAt(float64(mx), float64(my), wy, v.width, v.height)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.White)
	cam := v.camera.ComputeTransform(v.width, v.height)
	render.DrawSprites(screen, v.rig.Parts(), v.images, cam)
	if v.outlines {
		v.overlay.DrawDebug(screen, v.world.Bodies(), cam, colornames.Blue)
	}
	ebitenutil.DebugPrint(screen, "O: toggle outlines  wheel: zoom")
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width, v.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func main() {
	watch := flag.Bool("watch", true, "rebuild when prefabs/rig.yaml changes")
	flag.Parse()

	v := &viewer{
		camera:   camera.NewCamera(common.BaseWidth, common.BaseHeight),
		images:   render.NewImages(),
		overlay:  render.NewOverlay(),
		outlines: true,
	}
	v.rebuild()
	if v.rig == nil {
		log.Fatal("rigview: no rig to show")
	}

	if *watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			log.Printf("rigview: watch: %v", err)
		} else {
			defer w.Close()
			v.watcher = w
		}
	}

	ebiten.SetWindowSize(common.BaseWidth/2, common.BaseHeight/2)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("Robotic Arm Rig Preview")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
