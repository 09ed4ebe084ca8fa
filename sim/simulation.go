// Package sim ties the physics world, the arm, its controls and the camera
// into one frame loop.
package sim

import (
	"fmt"
	"image/color"
	"log"
	"runtime/debug"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/camera"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/control"
	"github.com/milk9111/roboticarm/physics"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/render"
	"github.com/milk9111/roboticarm/rig"
	"github.com/milk9111/roboticarm/script"
	"golang.org/x/image/colornames"
)

const defaultMaxFrameDelta = 0.25

type Options struct {
	Debug   bool
	Verbose bool
	// Script names a motion program under prefabs/scripts. Empty disables it.
	Script string
}

// Simulation is the explicit context every frame phase reads and writes.
type Simulation struct {
	World    *physics.World
	Rig      *rig.Rig
	Controls *control.Controller
	Camera   *camera.Camera
	Picker   *camera.Picker
	Images   *render.Images
	Overlay  *render.Overlay

	// Debug draws fixture outlines over the sprites. It never affects physics.
	Debug bool

	program       *script.Program
	maxFrameDelta float64
	background    color.Color
	debugColor    color.Color

	width, height int
	transform     ebiten.GeoM

	pointerX, pointerY float64
	dragging           bool

	faults int
	// beforeStep runs inside the step phase; tests use it to inject faults.
	beforeStep func()
}

// New builds a simulation from the prefab specs. Errors building the arm are
// fatal to the caller: there is no useful partial rig.
func New(opts Options) (*Simulation, error) {
	simSpec, err := prefabs.LoadSimulationSpec()
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	cfg := physics.DefaultConfig()
	if simSpec.Gravity != 0 {
		cfg.Gravity = cp.Vector{X: 0, Y: simSpec.Gravity}
	}
	cfg.Iterations = simSpec.Iterations
	cfg.Substep = simSpec.Substep
	world := physics.NewWorld(cfg)

	r, err := rig.Load(world)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	controlsSpec, err := prefabs.LoadControlsSpec()
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	controls, err := control.New(r, controlsSpec)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	controls.Verbose = opts.Verbose

	cam := camera.NewCamera(common.BaseWidth, common.BaseHeight)
	if cameraSpec, err := prefabs.LoadCameraSpec(); err != nil {
		log.Printf("sim: camera spec: %v, using defaults", err)
	} else {
		cam.ApplySpec(cameraSpec)
	}

	s := &Simulation{
		World:         world,
		Rig:           r,
		Controls:      controls,
		Camera:        cam,
		Picker:        camera.NewPicker(physics.NewGrabber(world)),
		Images:        render.NewImages(),
		Overlay:       render.NewOverlay(),
		Debug:         opts.Debug,
		maxFrameDelta: simSpec.MaxFrameDelta,
		background:    colornames.White,
		debugColor:    colornames.Blue,
	}
	// no canvas yet: the transform is singular and picks report no result
	s.transform = cam.ComputeTransform(0, 0)
	if !(s.maxFrameDelta > 0) {
		s.maxFrameDelta = defaultMaxFrameDelta
	}
	if simSpec.Background != nil {
		s.background = simSpec.Background.Color
	}
	if simSpec.DebugColor != nil {
		s.debugColor = simSpec.DebugColor.Color
	}

	if opts.Script != "" {
		p, err := script.Load(opts.Script)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		s.program = p
	}
	return s, nil
}

// SetCanvas records the canvas size and recomputes the camera transform for
// it.
func (s *Simulation) SetCanvas(w, h int) {
	s.width, s.height = w, h
	s.transform = s.Camera.ComputeTransform(w, h)
}

// SetPointer records the pointer's screen position and whether it is
// dragging.
func (s *Simulation) SetPointer(x, y float64, dragging bool) {
	s.pointerX, s.pointerY = x, y
	s.dragging = dragging
}

// Transform is the camera transform computed by the last tick.
func (s *Simulation) Transform() ebiten.GeoM {
	return s.transform
}

// Faults counts the tick and draw phases that panicked and were skipped.
func (s *Simulation) Faults() int {
	return s.faults
}

// Tick runs one frame: pointer pick, physics step, camera recompute. elapsed
// is clamped to the max frame delta so a stalled window does not explode the
// solver. A panic in any phase is logged and the rest of the frame skipped.
func (s *Simulation) Tick(elapsed float64) {
	defer s.recoverPhase("tick")

	if !(elapsed > 0) || !common.Finite(elapsed) {
		elapsed = 0
	}
	if elapsed > s.maxFrameDelta {
		elapsed = s.maxFrameDelta
	}

	s.Picker.Update(s.pointerX, s.pointerY, s.transform, s.dragging)

	if elapsed > 0 {
		s.runProgram(elapsed)
		if s.beforeStep != nil {
			s.beforeStep()
		}
		s.World.Step(elapsed)
	}

	s.transform = s.Camera.ComputeTransform(s.width, s.height)
}

func (s *Simulation) runProgram(dt float64) {
	if s.program == nil {
		return
	}
	if err := s.program.Update(s.World.Elapsed()+dt, dt, s.Controls.SetSpeed); err != nil {
		log.Printf("sim: %v, motion program stopped", err)
		s.program = nil
	}
}

// Draw renders the sprites and, in debug mode, the fixture outlines.
func (s *Simulation) Draw(screen *ebiten.Image) {
	defer s.recoverPhase("draw")

	screen.Fill(s.background)
	render.DrawSprites(screen, s.Rig.Parts(), s.Images, s.transform)
	if s.Debug {
		s.Overlay.DrawDebug(screen, s.World.Bodies(), s.transform, s.debugColor)
	}
}

func (s *Simulation) recoverPhase(phase string) {
	if r := recover(); r != nil {
		s.faults++
		log.Printf("sim: %s panic: %v\n%s", phase, r, debug.Stack())
	}
}

// ApplyControls swaps in new speeds and key bindings. On error the previous
// bindings stay active.
func (s *Simulation) ApplyControls(spec *prefabs.ControlsSpec) error {
	if err := s.Controls.ApplySpec(spec); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	return nil
}

// ApplyCamera updates zoom limits and reference size. Pan is kept.
func (s *Simulation) ApplyCamera(spec *prefabs.CameraSpec) {
	s.Camera.ApplySpec(spec)
}

// Reload re-applies a prefab reported changed by the watcher. The rig and the
// solver settings only take effect on restart.
func (s *Simulation) Reload(name string) error {
	switch {
	case name == prefabs.ControlsFile:
		spec, err := prefabs.LoadControlsSpec()
		if err != nil {
			return fmt.Errorf("sim: reload: %w", err)
		}
		return s.ApplyControls(spec)
	case name == prefabs.CameraFile:
		spec, err := prefabs.LoadCameraSpec()
		if err != nil {
			return fmt.Errorf("sim: reload: %w", err)
		}
		s.ApplyCamera(spec)
		return nil
	case strings.HasPrefix(name, "scripts/"):
		if s.program == nil || !sameScript(s.program.Name(), name) {
			return nil
		}
		p, err := script.Load(name)
		if err != nil {
			return fmt.Errorf("sim: reload: %w", err)
		}
		s.program = p
		return nil
	case name == prefabs.RigFile || name == prefabs.SimulationFile:
		log.Printf("sim: %s changed, restart to apply", name)
		return nil
	default:
		return nil
	}
}

func sameScript(a, b string) bool {
	norm := func(s string) string {
		s = strings.TrimPrefix(s, "prefabs/")
		s = strings.TrimPrefix(s, "scripts/")
		return strings.TrimSuffix(s, ".tengo")
	}
	return norm(a) == norm(b)
}

// ScriptName is the running motion program, if any.
func (s *Simulation) ScriptName() string {
	return s.program.Name()
}
