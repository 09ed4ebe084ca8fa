package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func newTestWorld(t *testing.T, gravity cp.Vector) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Gravity = gravity
	return NewWorld(cfg)
}

func mustAddBody(t *testing.T, w *World, def BodyDef) *Body {
	t.Helper()
	b, err := w.AddBody(def)
	if err != nil {
		t.Fatalf("add body %q: %v", def.Name, err)
	}
	return b
}

func TestAddBodyValidation(t *testing.T) {
	cases := []struct {
		name    string
		def     BodyDef
		wantErr bool
	}{
		{"circle", BodyDef{Name: "c", Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.5)}}, false},
		{"rectangle_static", BodyDef{Name: "r", Mass: MassInfinite, Fixtures: []Fixture{RectangleFixture(10, 0.6)}}, false},
		{"no_fixtures", BodyDef{Name: "empty"}, true},
		{"zero_radius", BodyDef{Name: "z", Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0)}}, true},
		{"two_vertices", BodyDef{Name: "line", Fixtures: []Fixture{PolygonFixture(cp.Vector{}, cp.Vector{X: 1})}}, true},
		{"clockwise", BodyDef{Name: "cw", Fixtures: []Fixture{PolygonFixture(
			cp.Vector{X: -1, Y: 1}, cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: -1}, cp.Vector{X: -1, Y: -1},
		)}}, true},
		{"unknown_kind", BodyDef{Name: "u", Fixtures: []Fixture{{Kind: ShapeUnknown}}}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, cp.Vector{})
			_, err := w.AddBody(c.def)
			if c.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestUnsupportedShapeError(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	_, err := w.AddBody(BodyDef{Name: "u", Fixtures: []Fixture{{Kind: ShapeKind(42)}}})
	if !errors.Is(err, ErrUnsupportedShape) {
		t.Fatalf("expected ErrUnsupportedShape, got %v", err)
	}
}

func TestBodiesEnumerateFixtures(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	mustAddBody(t, w, BodyDef{Name: "plate", Mass: MassInfinite, Position: cp.Vector{Y: -5.1}, Fixtures: []Fixture{RectangleFixture(10, 0.6)}})
	mustAddBody(t, w, BodyDef{Name: "ball", Position: cp.Vector{Y: 2}, Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.72)}})

	bodies := w.Bodies()
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}
	plate, ball := bodies[0], bodies[1]
	if !plate.Static() || ball.Static() {
		t.Fatalf("unexpected mass kinds: plate static=%v ball static=%v", plate.Static(), ball.Static())
	}
	if got := plate.Position(); got.Y != -5.1 {
		t.Fatalf("expected plate at y=-5.1, got %v", got)
	}

	pf := plate.Fixtures()
	if len(pf) != 1 || pf[0].Kind != ShapePolygon || len(pf[0].Polygon.Vertices) != 4 {
		t.Fatalf("expected one 4-vertex polygon, got %+v", pf)
	}
	bf := ball.Fixtures()
	if len(bf) != 1 || bf[0].Kind != ShapeCircle || bf[0].Circle.Radius != 0.72 {
		t.Fatalf("expected one circle r=0.72, got %+v", bf)
	}
	if bf[0].Shape() == nil {
		t.Fatalf("expected fixture to be backed by a chipmunk shape")
	}
}

func TestStepZeroDoesNotMove(t *testing.T) {
	w := newTestWorld(t, cp.Vector{Y: -9.81})
	b := mustAddBody(t, w, BodyDef{Name: "ball", Position: cp.Vector{X: 1, Y: 2}, Angle: 0.3, Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.5)}})

	w.Step(0.5)
	pos, ang := b.Position(), b.Angle()

	for _, dt := range []float64{0, -1, math.NaN()} {
		w.Step(dt)
		if b.Position() != pos || b.Angle() != ang {
			t.Fatalf("step(%v) moved body: %v/%v -> %v/%v", dt, pos, ang, b.Position(), b.Angle())
		}
	}
}

func TestStepIntegratesGravity(t *testing.T) {
	w := newTestWorld(t, cp.Vector{Y: -10})
	b := mustAddBody(t, w, BodyDef{Name: "ball", Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.5)}})

	w.Step(1)
	// free fall: y = -g t^2 / 2, semi-implicit Euler lands slightly below
	if y := b.Position().Y; y > -4.9 || y < -5.2 {
		t.Fatalf("expected y close to -5, got %v", y)
	}
	if w.Elapsed() != 1 {
		t.Fatalf("expected elapsed 1, got %v", w.Elapsed())
	}
}

func TestAddJointRejectsForeignBody(t *testing.T) {
	w1 := newTestWorld(t, cp.Vector{})
	w2 := newTestWorld(t, cp.Vector{})
	a := mustAddBody(t, w1, BodyDef{Name: "a", Mass: MassInfinite, Fixtures: []Fixture{RectangleFixture(1, 1)}})
	b := mustAddBody(t, w2, BodyDef{Name: "b", Fixtures: []Fixture{CircleFixture(cp.Vector{}, 1)}})

	j, err := NewRotationalJoint("j", a, b, cp.Vector{}, Limits{}, Motor{})
	if err != nil {
		t.Fatalf("new joint: %v", err)
	}
	if err := w1.AddJoint(j); err == nil {
		t.Fatalf("expected error joining bodies from different worlds")
	}
}

func TestBodyAtSkipsStatic(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	mustAddBody(t, w, BodyDef{Name: "plate", Mass: MassInfinite, Fixtures: []Fixture{RectangleFixture(10, 0.6)}})
	ball := mustAddBody(t, w, BodyDef{Name: "ball", Position: cp.Vector{Y: 3}, Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.5)}})

	if _, ok := w.BodyAt(cp.Vector{X: 2}, 0.01); ok {
		t.Fatalf("static plate should not be pickable")
	}
	got, ok := w.BodyAt(cp.Vector{X: 0.1, Y: 3.1}, 0.01)
	if !ok || got != ball {
		t.Fatalf("expected ball, got %v ok=%v", got.Name(), ok)
	}
	if _, ok := w.BodyAt(cp.Vector{X: 8, Y: 8}, 0.01); ok {
		t.Fatalf("expected nothing far away")
	}
}

func TestGrabberDragsBody(t *testing.T) {
	w := newTestWorld(t, cp.Vector{})
	ball := mustAddBody(t, w, BodyDef{Name: "ball", Fixtures: []Fixture{CircleFixture(cp.Vector{}, 0.5)}})
	g := NewGrabber(w)

	if !g.Update(cp.Vector{X: 0.1}) || g.Grabbed() != ball {
		t.Fatalf("expected to grab ball")
	}
	for i := 0; i < 60; i++ {
		g.Update(cp.Vector{X: 2.1})
		w.Step(1.0 / 60.0)
	}
	if x := ball.Position().X; x < 1 {
		t.Fatalf("expected ball dragged toward pointer, x=%v", x)
	}

	g.Release()
	if g.Grabbed() != nil {
		t.Fatalf("expected nothing held after release")
	}
	if g.Update(cp.Vector{X: 5, Y: 5}) {
		t.Fatalf("expected no grab on empty space")
	}
}
