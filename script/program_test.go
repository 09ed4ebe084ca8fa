package script

import (
	"testing"

	"github.com/milk9111/roboticarm/rig"
)

type recorder map[rig.JointID]float64

func (r recorder) set(id rig.JointID, speed float64) error {
	r[id] = speed
	return nil
}

func TestUpdateAppliesSpeeds(t *testing.T) {
	p, err := Compile("inline", []byte(`
speeds := {}
speeds.base = elapsed > 1 ? 2 : -2
speeds.head = dt * 10
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got := recorder{}
	if err := p.Update(0.5, 0.1, got.set); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got[rig.JointBase] != -2 || got[rig.JointHead] != 1 {
		t.Fatalf("unexpected speeds %v", got)
	}
	if _, ok := got[rig.JointLarge]; ok {
		t.Fatalf("unlisted joint should not be touched")
	}

	if err := p.Update(2, 0.1, got.set); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got[rig.JointBase] != 2 {
		t.Fatalf("expected base speed 2 after t=2, got %v", got[rig.JointBase])
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"syntax", `speeds := {`},
		{"undefined_global", `speeds := {base: velocity}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Compile(c.name, []byte(c.src)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestUpdateErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"no_speeds", `x := 1`},
		{"unknown_joint", `speeds := {elbow: 1}`},
		{"not_a_map", `speeds := 3`},
		{"not_a_number", `speeds := {base: "fast"}`},
		{"runtime", `speeds := {}; speeds.base = 1 / int(elapsed)`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := Compile(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if err := p.Update(0, 0, recorder{}.set); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBundledPrograms(t *testing.T) {
	for _, name := range []string{"wave", "reach"} {
		t.Run(name, func(t *testing.T) {
			p, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			got := recorder{}
			for _, tm := range []float64{0, 1.3, 5.7} {
				if err := p.Update(tm, 1.0/60.0, got.set); err != nil {
					t.Fatalf("update at %v: %v", tm, err)
				}
			}
			if len(got) == 0 {
				t.Fatalf("expected %s to drive at least one joint", name)
			}
		})
	}

	var nilProgram *Program
	if err := nilProgram.Update(0, 0, recorder{}.set); err != nil {
		t.Fatalf("nil program should be a no-op: %v", err)
	}
}
