// Package control turns key presses into joint motor speeds.
package control

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/milk9111/roboticarm/physics"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/rig"
)

var ErrUnknownJoint = errors.New("control: unknown joint")

const (
	defaultBaseSpeed     = 5.0
	defaultRotationSpeed = 2.0
)

type Direction int

const (
	Negative Direction = -1
	Positive Direction = 1
)

func (d Direction) String() string {
	if d == Negative {
		return "negative"
	}
	return "positive"
}

func parseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "+":
		return Positive, nil
	case "negative", "neg", "-":
		return Negative, nil
	default:
		return 0, fmt.Errorf("control: unknown direction %q", s)
	}
}

// Binding drives one joint in one direction while its key is held.
type Binding struct {
	Key       string
	Joint     rig.JointID
	Direction Direction
	Label     string
}

// JointSource resolves the joints a Controller drives.
type JointSource interface {
	Joint(id rig.JointID) physics.Joint
}

// Controller tracks which keys are held and sets each joint's motor speed to
// the sum of its held directions.
type Controller struct {
	joints JointSource

	baseSpeed     float64
	rotationSpeed float64

	bindings map[string][]Binding
	// pressed holds the keys currently driving each joint, per direction.
	pressed [rig.JointCount]map[Direction]map[string]bool

	Verbose bool
}

func New(joints JointSource, spec *prefabs.ControlsSpec) (*Controller, error) {
	if joints == nil {
		return nil, fmt.Errorf("control: nil joint source")
	}
	c := &Controller{joints: joints}
	c.resetPressed()
	if err := c.ApplySpec(spec); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplySpec replaces speeds and bindings. Held keys are released and every
// joint stops.
func (c *Controller) ApplySpec(spec *prefabs.ControlsSpec) error {
	if c == nil {
		return nil
	}
	baseSpeed, rotationSpeed := defaultBaseSpeed, defaultRotationSpeed
	bindings := map[string][]Binding{}
	if spec != nil {
		if spec.BaseSpeed > 0 {
			baseSpeed = spec.BaseSpeed
		}
		if spec.RotationSpeed > 0 {
			rotationSpeed = spec.RotationSpeed
		}
		for i, bs := range spec.Bindings {
			id, ok := rig.ParseJointID(bs.Joint)
			if !ok {
				return fmt.Errorf("%w %q in binding %d", ErrUnknownJoint, bs.Joint, i)
			}
			dir, err := parseDirection(bs.Direction)
			if err != nil {
				return fmt.Errorf("control: binding %d: %w", i, err)
			}
			if bs.Key == "" {
				return fmt.Errorf("control: binding %d has no key", i)
			}
			bindings[bs.Key] = append(bindings[bs.Key], Binding{Key: bs.Key, Joint: id, Direction: dir, Label: bs.Label})
		}
	}

	c.baseSpeed = baseSpeed
	c.rotationSpeed = rotationSpeed
	c.bindings = bindings
	c.resetPressed()
	for _, id := range rig.AllJoints() {
		_ = c.Stop(id)
	}
	return nil
}

func (c *Controller) resetPressed() {
	for i := range c.pressed {
		c.pressed[i] = map[Direction]map[string]bool{
			Positive: {},
			Negative: {},
		}
	}
}

// SpeedFor is the magnitude a held key drives the joint at.
func (c *Controller) SpeedFor(id rig.JointID) float64 {
	if c == nil {
		return 0
	}
	if id == rig.JointBase {
		return c.baseSpeed
	}
	return c.rotationSpeed
}

// SetSpeed sets the joint's motor speed directly.
func (c *Controller) SetSpeed(id rig.JointID, speed float64) error {
	if c == nil {
		return nil
	}
	j := c.joints.Joint(id)
	if j == nil {
		return fmt.Errorf("%w %s", ErrUnknownJoint, id)
	}
	j.SetMotorSpeed(speed)
	return nil
}

// Stop sets the joint's motor speed to zero.
func (c *Controller) Stop(id rig.JointID) error {
	return c.SetSpeed(id, 0)
}

// Press marks key as held. It reports whether the key is bound.
func (c *Controller) Press(key string) bool {
	return c.setKey(key, true)
}

// Release marks key as no longer held. It reports whether the key is bound.
func (c *Controller) Release(key string) bool {
	return c.setKey(key, false)
}

func (c *Controller) setKey(key string, down bool) bool {
	if c == nil {
		return false
	}
	bound, ok := c.bindings[key]
	if !ok {
		return false
	}
	for _, b := range bound {
		set := c.pressed[b.Joint][b.Direction]
		if down {
			set[key] = true
		} else {
			delete(set, key)
		}
		speed := c.effectiveSpeed(b.Joint)
		if err := c.SetSpeed(b.Joint, speed); err != nil {
			log.Printf("control: %v", err)
			continue
		}
		if c.Verbose {
			log.Printf("control: %s %s key=%s down=%v speed=%.2f", b.Joint, b.Direction, key, down, speed)
		}
	}
	return true
}

func (c *Controller) effectiveSpeed(id rig.JointID) float64 {
	speed := 0.0
	if len(c.pressed[id][Positive]) > 0 {
		speed += c.SpeedFor(id)
	}
	if len(c.pressed[id][Negative]) > 0 {
		speed -= c.SpeedFor(id)
	}
	return speed
}

// Bindings returns every binding sorted by joint, then direction, then key.
func (c *Controller) Bindings() []Binding {
	if c == nil {
		return nil
	}
	var out []Binding
	for _, bs := range c.bindings {
		out = append(out, bs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Joint != out[j].Joint {
			return out[i].Joint < out[j].Joint
		}
		if out[i].Direction != out[j].Direction {
			return out[i].Direction > out[j].Direction
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Bound reports whether key drives any joint.
func (c *Controller) Bound(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.bindings[key]
	return ok
}
