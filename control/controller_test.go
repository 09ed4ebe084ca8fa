package control

import (
	"errors"
	"testing"

	"github.com/milk9111/roboticarm/physics"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/rig"
)

func newController(t *testing.T) (*Controller, *rig.Rig) {
	t.Helper()
	w := physics.NewWorld(physics.DefaultConfig())
	r, err := rig.Load(w)
	if err != nil {
		t.Fatalf("load rig: %v", err)
	}
	spec, err := prefabs.LoadControlsSpec()
	if err != nil {
		t.Fatalf("load controls: %v", err)
	}
	c, err := New(r, spec)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c, r
}

func TestSetSpeedThenStop(t *testing.T) {
	c, r := newController(t)
	for _, id := range rig.AllJoints() {
		if err := c.SetSpeed(id, 3.5); err != nil {
			t.Fatalf("set speed %s: %v", id, err)
		}
		if got := r.Joint(id).MotorSpeed(); got != 3.5 {
			t.Fatalf("%s: expected speed 3.5, got %v", id, got)
		}
		if err := c.Stop(id); err != nil {
			t.Fatalf("stop %s: %v", id, err)
		}
		if got := r.Joint(id).MotorSpeed(); got != 0 {
			t.Fatalf("%s: expected speed exactly 0, got %v", id, got)
		}
	}
	if err := c.SetSpeed(rig.JointCount, 1); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("expected ErrUnknownJoint, got %v", err)
	}
}

func TestOpposingKeys(t *testing.T) {
	c, r := newController(t)
	base := r.Joint(rig.JointBase)

	steps := []struct {
		key  string
		down bool
		want float64
	}{
		{"A", true, -5},
		{"D", true, 0},
		{"A", false, 5},
		{"D", false, 0},
	}
	for _, s := range steps {
		if s.down {
			c.Press(s.key)
		} else {
			c.Release(s.key)
		}
		if got := base.MotorSpeed(); got != s.want {
			t.Fatalf("after %s down=%v: expected %v, got %v", s.key, s.down, s.want, got)
		}
	}
}

func TestReleasingOtherDirectionKeepsHeldDirection(t *testing.T) {
	c, r := newController(t)
	large := r.Joint(rig.JointLarge)

	c.Press("N")
	c.Press("M")
	c.Release("M")
	if got := large.MotorSpeed(); got != 2 {
		t.Fatalf("expected N to keep driving at 2, got %v", got)
	}
	c.Release("N")
	if got := large.MotorSpeed(); got != 0 {
		t.Fatalf("expected stop, got %v", got)
	}
}

func TestAliasKeysShareDirection(t *testing.T) {
	c, r := newController(t)
	base := r.Joint(rig.JointBase)

	c.Press("A")
	c.Press("ArrowLeft")
	c.Release("A")
	if got := base.MotorSpeed(); got != -5 {
		t.Fatalf("expected ArrowLeft to keep driving left, got %v", got)
	}
	c.Release("ArrowLeft")
	if got := base.MotorSpeed(); got != 0 {
		t.Fatalf("expected stop, got %v", got)
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	c, r := newController(t)
	if c.Press("Q") || c.Release("Q") {
		t.Fatalf("expected Q to be unbound")
	}
	for _, id := range rig.AllJoints() {
		if got := r.Joint(id).MotorSpeed(); got != 0 {
			t.Fatalf("%s moved on unbound key: %v", id, got)
		}
	}
}

func TestApplySpec(t *testing.T) {
	c, r := newController(t)
	c.Press("D")

	err := c.ApplySpec(&prefabs.ControlsSpec{
		BaseSpeed: 2,
		Bindings:  []prefabs.BindingSpec{{Key: "L", Joint: "base", Direction: "positive"}},
	})
	if err != nil {
		t.Fatalf("apply spec: %v", err)
	}
	if got := r.Joint(rig.JointBase).MotorSpeed(); got != 0 {
		t.Fatalf("expected reload to stop joints, got %v", got)
	}
	if c.Bound("D") {
		t.Fatalf("expected old binding dropped")
	}
	c.Press("L")
	if got := r.Joint(rig.JointBase).MotorSpeed(); got != 2 {
		t.Fatalf("expected new speed 2, got %v", got)
	}
	if got := c.SpeedFor(rig.JointHead); got != defaultRotationSpeed {
		t.Fatalf("expected default rotation speed, got %v", got)
	}

	bad := &prefabs.ControlsSpec{Bindings: []prefabs.BindingSpec{{Key: "K", Joint: "elbow", Direction: "positive"}}}
	if err := c.ApplySpec(bad); !errors.Is(err, ErrUnknownJoint) {
		t.Fatalf("expected ErrUnknownJoint, got %v", err)
	}
	if !c.Bound("L") {
		t.Fatalf("failed reload must keep previous bindings")
	}
}

func TestBindingsSorted(t *testing.T) {
	c, _ := newController(t)
	bs := c.Bindings()
	if len(bs) != 12 {
		t.Fatalf("expected 12 bindings, got %d", len(bs))
	}
	for i := 1; i < len(bs); i++ {
		if bs[i].Joint < bs[i-1].Joint {
			t.Fatalf("bindings not sorted by joint: %+v", bs)
		}
	}
	if bs[0].Joint != rig.JointBase || bs[0].Direction != Positive {
		t.Fatalf("expected base positive first, got %+v", bs[0])
	}
}
