package physics

import "github.com/jakecoffman/cp"

type MassKind int

const (
	// MassNormal bodies get mass and moment from their fixtures' area.
	MassNormal MassKind = iota
	// MassInfinite bodies are immovable anchors.
	MassInfinite
)

// BodyDef describes a body before it is added to a World.
type BodyDef struct {
	Name     string
	Position cp.Vector
	Angle    float64
	Mass     MassKind
	// Density scales fixture area into mass. Defaults to 1.
	Density       float64
	FixedRotation bool
	// Group keeps shapes of the same non-zero group from colliding.
	Group    uint
	Fixtures []Fixture
}

type Body struct {
	name     string
	body     *cp.Body
	mass     MassKind
	fixtures []Fixture
}

func (b *Body) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Position is the body's translation in world units.
func (b *Body) Position() cp.Vector {
	if b == nil || b.body == nil {
		return cp.Vector{}
	}
	return b.body.Position()
}

// Angle is the body's rotation in radians.
func (b *Body) Angle() float64 {
	if b == nil || b.body == nil {
		return 0
	}
	return b.body.Angle()
}

func (b *Body) Static() bool {
	return b != nil && b.mass == MassInfinite
}

// Fixtures returns the body's shapes in body-local coordinates.
func (b *Body) Fixtures() []Fixture {
	if b == nil {
		return nil
	}
	return append([]Fixture(nil), b.fixtures...)
}

// CP exposes the Chipmunk body for constraint construction.
func (b *Body) CP() *cp.Body {
	if b == nil {
		return nil
	}
	return b.body
}

func (b *Body) worldToLocal(p cp.Vector) cp.Vector {
	return b.body.WorldToLocal(p)
}

func (b *Body) localToWorld(p cp.Vector) cp.Vector {
	return b.body.LocalToWorld(p)
}
