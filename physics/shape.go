package physics

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrUnsupportedShape = errors.New("physics: unsupported shape")

// ShapeKind tags the payload a Fixture carries.
type ShapeKind int

const (
	ShapeUnknown ShapeKind = iota
	ShapeCircle
	ShapePolygon
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapePolygon:
		return "polygon"
	default:
		return fmt.Sprintf("shape(%d)", int(k))
	}
}

type Circle struct {
	Center cp.Vector
	Radius float64
}

type Polygon struct {
	// Vertices are counter-clockwise in body-local coordinates.
	Vertices []cp.Vector
}

// Fixture is a collision shape in body-local coordinates. Only the payload
// matching Kind is meaningful.
type Fixture struct {
	Kind    ShapeKind
	Circle  Circle
	Polygon Polygon

	shape *cp.Shape
}

func CircleFixture(center cp.Vector, radius float64) Fixture {
	return Fixture{Kind: ShapeCircle, Circle: Circle{Center: center, Radius: radius}}
}

// RectangleFixture returns a width×height box centered on the body origin.
func RectangleFixture(width, height float64) Fixture {
	hw, hh := width/2, height/2
	return PolygonFixture(
		cp.Vector{X: -hw, Y: -hh},
		cp.Vector{X: hw, Y: -hh},
		cp.Vector{X: hw, Y: hh},
		cp.Vector{X: -hw, Y: hh},
	)
}

func PolygonFixture(verts ...cp.Vector) Fixture {
	return Fixture{Kind: ShapePolygon, Polygon: Polygon{Vertices: append([]cp.Vector(nil), verts...)}}
}

// Shape returns the Chipmunk shape backing the fixture once its body has been
// added to a world.
func (f Fixture) Shape() *cp.Shape {
	return f.shape
}

func (f Fixture) validate() error {
	switch f.Kind {
	case ShapeCircle:
		if !(f.Circle.Radius > 0) {
			return fmt.Errorf("physics: circle radius %v must be positive", f.Circle.Radius)
		}
		return nil
	case ShapePolygon:
		verts := f.Polygon.Vertices
		if len(verts) < 3 {
			return fmt.Errorf("physics: polygon needs at least 3 vertices, got %d", len(verts))
		}
		for i := range verts {
			a := verts[i]
			b := verts[(i+1)%len(verts)]
			c := verts[(i+2)%len(verts)]
			if b.Sub(a).Cross(c.Sub(b)) <= 0 {
				return fmt.Errorf("physics: polygon must be convex and counter-clockwise (vertex %d)", (i+1)%len(verts))
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedShape, f.Kind)
	}
}

func (f Fixture) area() float64 {
	switch f.Kind {
	case ShapeCircle:
		return cp.AreaForCircle(0, f.Circle.Radius)
	case ShapePolygon:
		return cp.AreaForPoly(len(f.Polygon.Vertices), f.Polygon.Vertices, 0)
	default:
		return 0
	}
}

func (f Fixture) moment(mass float64) float64 {
	switch f.Kind {
	case ShapeCircle:
		return cp.MomentForCircle(mass, 0, f.Circle.Radius, f.Circle.Center)
	case ShapePolygon:
		return cp.MomentForPoly(mass, len(f.Polygon.Vertices), f.Polygon.Vertices, cp.Vector{}, 0)
	default:
		return 0
	}
}

func (f Fixture) newShape(body *cp.Body) (*cp.Shape, error) {
	switch f.Kind {
	case ShapeCircle:
		return cp.NewCircle(body, f.Circle.Radius, f.Circle.Center), nil
	case ShapePolygon:
		return cp.NewPolyShapeRaw(body, len(f.Polygon.Vertices), f.Polygon.Vertices, 0), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, f.Kind)
	}
}
