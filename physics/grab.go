package physics

import (
	"math"

	"github.com/jakecoffman/cp"
)

const (
	grabRadius   = 0.05
	grabMaxForce = 500.0
)

// Grabber drags a body toward the pointer with a soft pivot to a kinematic
// pointer body.
type Grabber struct {
	world   *World
	pointer *cp.Body
	joint   *cp.Constraint
	grabbed *Body
}

func NewGrabber(w *World) *Grabber {
	return &Grabber{world: w}
}

// Grabbed returns the body currently held, if any.
func (g *Grabber) Grabbed() *Body {
	if g == nil {
		return nil
	}
	return g.grabbed
}

// Update moves the pointer to point, grabbing the body under it when nothing
// is held yet. It reports whether a body is held afterwards.
func (g *Grabber) Update(point cp.Vector) bool {
	if g == nil || g.world == nil || g.world.space == nil {
		return false
	}
	space := g.world.space
	if g.pointer == nil {
		g.pointer = cp.NewKinematicBody()
		space.AddBody(g.pointer)
	}
	g.pointer.SetPosition(point)

	if g.grabbed != nil {
		return true
	}

	body, ok := g.world.BodyAt(point, grabRadius)
	if !ok {
		return false
	}
	joint := cp.NewPivotJoint2(g.pointer, body.CP(), cp.Vector{}, body.CP().WorldToLocal(point))
	joint.SetMaxForce(grabMaxForce)
	joint.SetErrorBias(math.Pow(1.0-0.15, 60.0))
	g.joint = space.AddConstraint(joint)
	g.grabbed = body
	return true
}

// Release drops the held body.
func (g *Grabber) Release() {
	if g == nil {
		return
	}
	if g.joint != nil && g.world != nil && g.world.space != nil {
		g.world.space.RemoveConstraint(g.joint)
	}
	g.joint = nil
	g.grabbed = nil
}
