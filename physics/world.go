package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/common"
)

const (
	defaultIterations  = 20
	defaultSubstep     = 1.0 / 120.0
	defaultMaxSubsteps = 600
	defaultFriction    = 0.8
)

// Config tunes the solver. Zero fields fall back to defaults.
type Config struct {
	Gravity     cp.Vector
	Iterations  uint
	Substep     float64
	MaxSubsteps int
}

func DefaultConfig() Config {
	return Config{
		Gravity:     cp.Vector{X: 0, Y: common.Gravity},
		Iterations:  defaultIterations,
		Substep:     defaultSubstep,
		MaxSubsteps: defaultMaxSubsteps,
	}
}

// World owns the Chipmunk space together with the bodies and joints built on
// top of it.
type World struct {
	space *cp.Space
	cfg   Config

	bodies      []*Body
	joints      []Joint
	shapeToBody map[*cp.Shape]*Body
	elapsed     float64
}

func NewWorld(cfg Config) *World {
	if cfg.Iterations == 0 {
		cfg.Iterations = defaultIterations
	}
	if !(cfg.Substep > 0) {
		cfg.Substep = defaultSubstep
	}
	if cfg.MaxSubsteps <= 0 {
		cfg.MaxSubsteps = defaultMaxSubsteps
	}

	space := cp.NewSpace()
	space.Iterations = cfg.Iterations
	space.SetGravity(cfg.Gravity)

	return &World{
		space:       space,
		cfg:         cfg,
		shapeToBody: make(map[*cp.Shape]*Body),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

// Elapsed is the total simulated time in seconds.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// AddBody creates a body with its fixtures and registers it with the space.
func (w *World) AddBody(def BodyDef) (*Body, error) {
	if w == nil || w.space == nil {
		return nil, fmt.Errorf("physics: add body %q: nil world", def.Name)
	}
	if len(def.Fixtures) == 0 {
		return nil, fmt.Errorf("physics: add body %q: no fixtures", def.Name)
	}
	for i, f := range def.Fixtures {
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("physics: add body %q fixture %d: %w", def.Name, i, err)
		}
	}

	var cpBody *cp.Body
	switch def.Mass {
	case MassInfinite:
		cpBody = cp.NewStaticBody()
	default:
		density := def.Density
		if density <= 0 {
			density = 1
		}
		mass, moment := 0.0, 0.0
		for _, f := range def.Fixtures {
			m := density * f.area()
			mass += m
			moment += f.moment(m)
		}
		if def.FixedRotation {
			moment = math.Inf(1)
		}
		cpBody = cp.NewBody(mass, moment)
	}
	cpBody.SetPosition(def.Position)
	cpBody.SetAngle(def.Angle)
	w.space.AddBody(cpBody)

	b := &Body{
		name:     def.Name,
		body:     cpBody,
		mass:     def.Mass,
		fixtures: make([]Fixture, 0, len(def.Fixtures)),
	}

	filter := cp.NewShapeFilter(def.Group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)
	for _, f := range def.Fixtures {
		shape, err := f.newShape(cpBody)
		if err != nil {
			return nil, fmt.Errorf("physics: add body %q: %w", def.Name, err)
		}
		shape.SetFriction(defaultFriction)
		shape.SetFilter(filter)
		w.space.AddShape(shape)
		f.shape = shape
		b.fixtures = append(b.fixtures, f)
		w.shapeToBody[shape] = b
	}

	w.bodies = append(w.bodies, b)
	return b, nil
}

// AddJoint attaches the joint's constraints to the space. Both bodies must
// already belong to this world.
func (w *World) AddJoint(j Joint) error {
	if w == nil || w.space == nil {
		return fmt.Errorf("physics: add joint: nil world")
	}
	if j == nil {
		return fmt.Errorf("physics: add joint: nil joint")
	}
	if !w.owns(j.BodyA()) || !w.owns(j.BodyB()) {
		return fmt.Errorf("physics: add joint %q: bodies not in world", j.Name())
	}
	if err := j.attach(w.space); err != nil {
		return fmt.Errorf("physics: add joint %q: %w", j.Name(), err)
	}
	w.joints = append(w.joints, j)
	return nil
}

// Step advances the simulation by dt seconds, split into equal substeps no
// longer than the configured substep. A non-positive dt is a no-op.
func (w *World) Step(dt float64) {
	if w == nil || w.space == nil {
		return
	}
	if !(dt > 0) || !common.Finite(dt) {
		return
	}

	n := int(math.Ceil(dt / w.cfg.Substep))
	if n < 1 {
		n = 1
	}
	if n > w.cfg.MaxSubsteps {
		n = w.cfg.MaxSubsteps
	}
	h := dt / float64(n)
	for i := 0; i < n; i++ {
		for _, j := range w.joints {
			j.preStep(h)
		}
		w.space.Step(h)
	}
	w.elapsed += dt
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*Body {
	if w == nil {
		return nil
	}
	return append([]*Body(nil), w.bodies...)
}

// Joints returns the joints in insertion order.
func (w *World) Joints() []Joint {
	if w == nil {
		return nil
	}
	return append([]Joint(nil), w.joints...)
}

// BodyAt returns the movable body whose fixtures are nearest to point within
// radius world units.
func (w *World) BodyAt(point cp.Vector, radius float64) (*Body, bool) {
	if w == nil || w.space == nil {
		return nil, false
	}
	info := w.space.PointQueryNearest(point, radius, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return nil, false
	}
	b, ok := w.shapeToBody[info.Shape]
	if !ok || b.Static() {
		return nil, false
	}
	return b, true
}

func (w *World) owns(b *Body) bool {
	if b == nil {
		return false
	}
	for _, candidate := range w.bodies {
		if candidate == b {
			return true
		}
	}
	return false
}
