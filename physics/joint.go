package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrInvalidLimits = errors.New("physics: lower limit exceeds upper limit")

// unlimitedTravel is the half length of the groove used when a sliding joint
// has its limit disabled.
const unlimitedTravel = 1e4

// Limits bound a joint's translation (sliding) or angle (rotational)
// relative to its rest pose.
type Limits struct {
	Enabled      bool
	Lower, Upper float64
}

// Motor drives a joint at Speed, pushing with at most MaxForce (force for
// sliding joints, torque for rotational joints).
type Motor struct {
	Enabled  bool
	Speed    float64
	MaxForce float64
}

// Joint constrains exactly two bodies. Only motor speed changes after the
// joint has been added to a World.
type Joint interface {
	Name() string
	BodyA() *Body
	BodyB() *Body
	Limits() Limits
	MotorEnabled() bool
	MaxMotorForce() float64
	MotorSpeed() float64
	SetMotorSpeed(speed float64)
	// Value is the current translation or angle relative to the rest pose.
	Value() float64

	attach(space *cp.Space) error
	preStep(dt float64)
}

type jointBase struct {
	name   string
	a, b   *Body
	limits Limits
	motor  Motor
}

func newJointBase(name string, a, b *Body, limits Limits, motor Motor) (jointBase, error) {
	if a == nil || b == nil {
		return jointBase{}, fmt.Errorf("physics: joint %q: nil body", name)
	}
	if a == b {
		return jointBase{}, fmt.Errorf("physics: joint %q: body joined to itself", name)
	}
	if limits.Lower > limits.Upper {
		return jointBase{}, fmt.Errorf("%w: joint %q [%v, %v]", ErrInvalidLimits, name, limits.Lower, limits.Upper)
	}
	if motor.MaxForce < 0 {
		return jointBase{}, fmt.Errorf("physics: joint %q: negative max motor force %v", name, motor.MaxForce)
	}
	return jointBase{name: name, a: a, b: b, limits: limits, motor: motor}, nil
}

func (j *jointBase) Name() string           { return j.name }
func (j *jointBase) BodyA() *Body           { return j.a }
func (j *jointBase) BodyB() *Body           { return j.b }
func (j *jointBase) Limits() Limits         { return j.limits }
func (j *jointBase) MotorEnabled() bool     { return j.motor.Enabled }
func (j *jointBase) MaxMotorForce() float64 { return j.motor.MaxForce }
func (j *jointBase) MotorSpeed() float64    { return j.motor.Speed }

func (j *jointBase) SetMotorSpeed(speed float64) {
	j.motor.Speed = speed
}

// SlidingJoint lets body B translate along an axis fixed in body A and keeps
// their relative rotation. Chipmunk has no prismatic joint, so it is a groove
// for the axis and travel limits, a rotary lock, and a pivot servo whose
// anchor runs ahead of B for the motor.
type SlidingJoint struct {
	jointBase

	anchorA cp.Vector
	anchorB cp.Vector
	axisA   cp.Vector
	refRot  float64

	groove *cp.Constraint
	lock   *cp.Constraint
	servo  *cp.PivotJoint
}

// NewSlidingJoint joins a and b at the world point anchor, sliding along the
// world direction axis.
func NewSlidingJoint(name string, a, b *Body, anchor, axis cp.Vector, limits Limits, motor Motor) (*SlidingJoint, error) {
	base, err := newJointBase(name, a, b, limits, motor)
	if err != nil {
		return nil, err
	}
	if axis.Length() == 0 {
		return nil, fmt.Errorf("physics: joint %q: zero axis", name)
	}
	axis = axis.Normalize()

	anchorA := a.worldToLocal(anchor)
	return &SlidingJoint{
		jointBase: base,
		anchorA:   anchorA,
		anchorB:   b.worldToLocal(anchor),
		axisA:     a.worldToLocal(anchor.Add(axis)).Sub(anchorA),
		refRot:    b.Angle() - a.Angle(),
	}, nil
}

func (j *SlidingJoint) attach(space *cp.Space) error {
	lower, upper := -unlimitedTravel, unlimitedTravel
	if j.limits.Enabled {
		lower, upper = j.limits.Lower, j.limits.Upper
		if lower == upper {
			// a zero-length groove has no direction
			lower -= 1e-9
			upper += 1e-9
		}
	}
	a, b := j.a.CP(), j.b.CP()

	j.groove = space.AddConstraint(cp.NewGrooveJoint(a, b,
		j.anchorA.Add(j.axisA.Mult(lower)),
		j.anchorA.Add(j.axisA.Mult(upper)),
		j.anchorB))
	j.lock = space.AddConstraint(cp.NewRotaryLimitJoint(a, b, j.refRot, j.refRot))

	servo := space.AddConstraint(cp.NewPivotJoint2(a, b, j.anchorA, j.anchorB))
	servo.SetMaxForce(0)
	servo.SetMaxBias(0)
	pivot, ok := servo.Class.(*cp.PivotJoint)
	if !ok {
		return fmt.Errorf("unexpected servo constraint %T", servo.Class)
	}
	j.servo = pivot
	return nil
}

// Value is B's travel along the axis from the rest position.
func (j *SlidingJoint) Value() float64 {
	pa := j.a.localToWorld(j.anchorA)
	pb := j.b.localToWorld(j.anchorB)
	axis := j.a.localToWorld(j.anchorA.Add(j.axisA)).Sub(pa)
	return pb.Sub(pa).Dot(axis)
}

func (j *SlidingJoint) preStep(dt float64) {
	if j.servo == nil {
		return
	}
	if !j.motor.Enabled {
		j.servo.SetMaxForce(0)
		return
	}

	current := j.Value()
	target := current
	speed := j.motor.Speed
	switch {
	case speed > 0:
		target = current + speed
		if j.limits.Enabled {
			target = j.limits.Upper
		}
	case speed < 0:
		target = current + speed
		if j.limits.Enabled {
			target = j.limits.Lower
		}
	}

	// With zero bias the servo only brakes B's velocity relative to A.
	j.servo.AnchorA = j.anchorA.Add(j.axisA.Mult(target))
	j.servo.SetMaxBias(math.Abs(speed))
	j.servo.SetMaxForce(j.motor.MaxForce)
}

// RotationalJoint pins body B to body A at a point and limits and drives their
// relative angle.
type RotationalJoint struct {
	jointBase

	anchor cp.Vector
	refAng float64

	pivot *cp.Constraint
	limit *cp.Constraint
	drive *cp.SimpleMotor
}

// NewRotationalJoint joins a and b at the world point anchor.
func NewRotationalJoint(name string, a, b *Body, anchor cp.Vector, limits Limits, motor Motor) (*RotationalJoint, error) {
	base, err := newJointBase(name, a, b, limits, motor)
	if err != nil {
		return nil, err
	}
	return &RotationalJoint{
		jointBase: base,
		anchor:    anchor,
		refAng:    b.Angle() - a.Angle(),
	}, nil
}

func (j *RotationalJoint) attach(space *cp.Space) error {
	a, b := j.a.CP(), j.b.CP()

	j.pivot = space.AddConstraint(cp.NewPivotJoint(a, b, j.anchor))
	if j.limits.Enabled {
		j.limit = space.AddConstraint(cp.NewRotaryLimitJoint(a, b, j.refAng+j.limits.Lower, j.refAng+j.limits.Upper))
	}
	if j.motor.Enabled {
		motor := space.AddConstraint(cp.NewSimpleMotor(a, b, 0))
		motor.SetMaxForce(j.motor.MaxForce)
		drive, ok := motor.Class.(*cp.SimpleMotor)
		if !ok {
			return fmt.Errorf("unexpected motor constraint %T", motor.Class)
		}
		j.drive = drive
	}
	return nil
}

// Value is B's angle relative to A, measured from the rest pose.
func (j *RotationalJoint) Value() float64 {
	return j.b.Angle() - j.a.Angle() - j.refAng
}

func (j *RotationalJoint) preStep(dt float64) {
	if j.drive == nil {
		return
	}
	speed := j.motor.Speed
	if j.limits.Enabled && dt > 0 {
		// never ask for more than the remaining travel in one substep
		v := j.Value()
		switch {
		case speed > 0:
			speed = math.Min(speed, math.Max(0, (j.limits.Upper-v)/dt))
		case speed < 0:
			speed = math.Max(speed, math.Min(0, (j.limits.Lower-v)/dt))
		}
	}
	// SimpleMotor drives wB - wA toward -Rate.
	j.drive.Rate = -speed
}
