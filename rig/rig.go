// Package rig assembles the robotic arm from its prefab description.
package rig

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/physics"
	"github.com/milk9111/roboticarm/prefabs"
)

// JointID names the arm's five actuated joints, base first.
type JointID int

const (
	JointBase JointID = iota
	JointLarge
	JointMedium
	JointSmall
	JointHead

	JointCount
)

var jointNames = [JointCount]string{"base", "large", "medium", "small", "head"}

func (id JointID) String() string {
	if id < 0 || id >= JointCount {
		return fmt.Sprintf("joint(%d)", int(id))
	}
	return jointNames[id]
}

func ParseJointID(s string) (JointID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range jointNames {
		if name == s {
			return JointID(i), true
		}
	}
	return 0, false
}

// AllJoints lists every joint in chain order.
func AllJoints() []JointID {
	ids := make([]JointID, 0, JointCount)
	for id := JointBase; id < JointCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

const (
	bodyCount = 6
	rigGroup  = 1
)

// Part is a body together with how it should be drawn.
type Part struct {
	Body   *physics.Body
	Sprite prefabs.SpriteSpec
}

// Rig is the assembled arm.
type Rig struct {
	Name   string
	parts  []Part
	joints [JointCount]physics.Joint
	byName map[string]*physics.Body
}

// Build validates spec and creates the arm's bodies and joints in w.
func Build(w *physics.World, spec *prefabs.RigSpec) (*Rig, error) {
	if w == nil {
		return nil, fmt.Errorf("rig: nil world")
	}
	if spec == nil {
		return nil, fmt.Errorf("rig: nil spec")
	}
	if err := validate(spec); err != nil {
		return nil, err
	}

	r := &Rig{
		Name:   spec.Name,
		parts:  make([]Part, 0, len(spec.Bodies)),
		byName: make(map[string]*physics.Body, len(spec.Bodies)),
	}

	for _, bs := range spec.Bodies {
		def, err := bodyDef(bs, spec.Density)
		if err != nil {
			return nil, err
		}
		body, err := w.AddBody(def)
		if err != nil {
			return nil, fmt.Errorf("rig: %w", err)
		}
		sprite := bs.Sprite
		if sprite.Scale == 0 {
			sprite.Scale = 1
		}
		r.parts = append(r.parts, Part{Body: body, Sprite: sprite})
		r.byName[bs.Name] = body
	}

	for i, js := range spec.Joints {
		joint, err := r.newJoint(JointID(i), js, spec.MaxForce)
		if err != nil {
			return nil, err
		}
		if err := w.AddJoint(joint); err != nil {
			return nil, fmt.Errorf("rig: %w", err)
		}
		r.joints[i] = joint
	}

	return r, nil
}

// Load builds the arm described by the rig prefab.
func Load(w *physics.World) (*Rig, error) {
	spec, err := prefabs.LoadRigSpec()
	if err != nil {
		return nil, fmt.Errorf("rig: %w", err)
	}
	return Build(w, spec)
}

func validate(spec *prefabs.RigSpec) error {
	if len(spec.Bodies) != bodyCount {
		return fmt.Errorf("rig: expected %d bodies, got %d", bodyCount, len(spec.Bodies))
	}
	if len(spec.Joints) != int(JointCount) {
		return fmt.Errorf("rig: expected %d joints, got %d", JointCount, len(spec.Joints))
	}
	if !strings.EqualFold(spec.Bodies[0].Mass, "infinite") {
		return fmt.Errorf("rig: first body %q must have infinite mass", spec.Bodies[0].Name)
	}

	seen := make(map[string]bool, len(spec.Bodies))
	for i, b := range spec.Bodies {
		if b.Name == "" {
			return fmt.Errorf("rig: body %d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("rig: duplicate body %q", b.Name)
		}
		seen[b.Name] = true
		if i > 0 && strings.EqualFold(b.Mass, "infinite") {
			return fmt.Errorf("rig: body %q: only the base may have infinite mass", b.Name)
		}
	}

	// joint i joins body i to body i+1
	for i, j := range spec.Joints {
		id := JointID(i)
		if j.Name != "" && !strings.EqualFold(j.Name, id.String()) {
			return fmt.Errorf("rig: joint %d is %q, want %q", i, j.Name, id)
		}
		parent, child := spec.Bodies[i].Name, spec.Bodies[i+1].Name
		if j.Parent != parent || j.Child != child {
			return fmt.Errorf("rig: joint %q must join %q to %q, got %q to %q", id, parent, child, j.Parent, j.Child)
		}
		wantKind := "rotational"
		if id == JointBase {
			wantKind = "sliding"
		}
		if j.Kind != wantKind {
			return fmt.Errorf("rig: joint %q must be %s, got %q", id, wantKind, j.Kind)
		}
	}
	return nil
}

func bodyDef(bs prefabs.BodySpec, density float64) (physics.BodyDef, error) {
	def := physics.BodyDef{
		Name:     bs.Name,
		Position: cp.Vector{X: bs.X, Y: bs.Y},
		Density:  density,
		Group:    rigGroup,
	}
	if strings.EqualFold(bs.Mass, "infinite") {
		def.Mass = physics.MassInfinite
	}

	switch strings.ToLower(bs.Shape) {
	case "circle":
		def.Fixtures = []physics.Fixture{physics.CircleFixture(cp.Vector{}, bs.Radius)}
	case "rectangle", "rect", "box":
		def.Fixtures = []physics.Fixture{physics.RectangleFixture(bs.Width, bs.Height)}
	default:
		return physics.BodyDef{}, fmt.Errorf("rig: body %q: %w %q", bs.Name, physics.ErrUnsupportedShape, bs.Shape)
	}
	return def, nil
}

func (r *Rig) newJoint(id JointID, js prefabs.JointSpec, maxForce float64) (physics.Joint, error) {
	parent, child := r.byName[js.Parent], r.byName[js.Child]

	limits := physics.Limits{Enabled: js.Limit.Enabled, Lower: js.Limit.Lower, Upper: js.Limit.Upper}
	motor := physics.Motor{Enabled: js.Motor.Enabled, Speed: js.Motor.Speed, MaxForce: js.Motor.MaxForce}
	if motor.MaxForce == 0 {
		motor.MaxForce = maxForce
	}

	// every joint anchors at the child's center
	anchor := child.Position()

	var (
		joint physics.Joint
		err   error
	)
	if id == JointBase {
		axis := cp.Vector{X: js.AxisX, Y: js.AxisY}
		joint, err = physics.NewSlidingJoint(id.String(), parent, child, anchor, axis, limits, motor)
	} else {
		joint, err = physics.NewRotationalJoint(id.String(), parent, child, anchor, limits, motor)
	}
	if err != nil {
		return nil, fmt.Errorf("rig: %w", err)
	}
	return joint, nil
}

// Parts returns the bodies in chain order, base first.
func (r *Rig) Parts() []Part {
	if r == nil {
		return nil
	}
	return append([]Part(nil), r.parts...)
}

func (r *Rig) Joint(id JointID) physics.Joint {
	if r == nil || id < 0 || id >= JointCount {
		return nil
	}
	return r.joints[id]
}

func (r *Rig) Body(name string) *physics.Body {
	if r == nil {
		return nil
	}
	return r.byName[name]
}
