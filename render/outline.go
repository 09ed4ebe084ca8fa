package render

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/physics"
)

const circleSegments = 32

// Outline is a fixture traced in screen space as a closed polygon. Circles
// also carry a spoke from the center along the body's rotation.
type Outline struct {
	Kind   physics.ShapeKind
	Points []cp.Vector
	Spoke  [2]cp.Vector
}

// Bounds returns the axis-aligned box around the outline.
func (o Outline) Bounds() (min, max cp.Vector) {
	if len(o.Points) == 0 {
		return cp.Vector{}, cp.Vector{}
	}
	min, max = o.Points[0], o.Points[0]
	for _, p := range o.Points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// OutlineFixture traces f on a body at pos/angle through the camera
// transform cam.
func OutlineFixture(f physics.Fixture, pos cp.Vector, angle float64, cam ebiten.GeoM) (Outline, error) {
	rot := cp.ForAngle(angle)
	toScreen := func(local cp.Vector) cp.Vector {
		w := pos.Add(rot.Rotate(local))
		x := w.X * common.UnitScale
		y := w.Y * common.UnitScale * common.YAxisScale
		sx, sy := cam.Apply(x, y)
		return cp.Vector{X: sx, Y: sy}
	}

	switch f.Kind {
	case physics.ShapeCircle:
		c := f.Circle
		points := make([]cp.Vector, 0, circleSegments)
		for i := 0; i < circleSegments; i++ {
			t := 2 * math.Pi * float64(i) / circleSegments
			points = append(points, toScreen(c.Center.Add(cp.Vector{X: math.Cos(t) * c.Radius, Y: math.Sin(t) * c.Radius})))
		}
		return Outline{
			Kind:   physics.ShapeCircle,
			Points: points,
			Spoke:  [2]cp.Vector{toScreen(c.Center), toScreen(c.Center.Add(cp.Vector{X: c.Radius}))},
		}, nil
	case physics.ShapePolygon:
		points := make([]cp.Vector, 0, len(f.Polygon.Vertices))
		for _, v := range f.Polygon.Vertices {
			points = append(points, toScreen(v))
		}
		return Outline{Kind: physics.ShapePolygon, Points: points}, nil
	default:
		return Outline{}, fmt.Errorf("%w: %s", physics.ErrUnsupportedShape, f.Kind)
	}
}

// Overlay draws fixture outlines for debug mode. Fixtures that cannot be
// outlined are logged once per kind for the life of the overlay.
type Overlay struct {
	warned map[physics.ShapeKind]bool
}

func NewOverlay() *Overlay {
	return &Overlay{warned: map[physics.ShapeKind]bool{}}
}

// DrawDebug outlines every fixture of every body, skipping the ones that
// cannot be outlined.
func (ov *Overlay) DrawDebug(screen *ebiten.Image, bodies []*physics.Body, cam ebiten.GeoM, clr color.Color) {
	if ov == nil || screen == nil {
		return
	}
	for _, b := range bodies {
		for _, f := range b.Fixtures() {
			o, err := OutlineFixture(f, b.Position(), b.Angle(), cam)
			if err != nil {
				ov.warn(f.Kind, err)
				continue
			}
			drawOutline(screen, o, clr)
		}
	}
}

// warn logs err the first time kind fails and reports whether it logged.
func (ov *Overlay) warn(kind physics.ShapeKind, err error) bool {
	if ov.warned == nil {
		ov.warned = map[physics.ShapeKind]bool{}
	}
	if ov.warned[kind] {
		return false
	}
	ov.warned[kind] = true
	log.Printf("render: skipping fixture: %v", err)
	return true
}

func drawOutline(screen *ebiten.Image, o Outline, clr color.Color) {
	n := len(o.Points)
	for i := 0; i < n; i++ {
		a, b := o.Points[i], o.Points[(i+1)%n]
		ebitenutil.DrawLine(screen, a.X, a.Y, b.X, b.Y, clr)
	}
	if o.Kind == physics.ShapeCircle {
		ebitenutil.DrawLine(screen, o.Spoke[0].X, o.Spoke[0].Y, o.Spoke[1].X, o.Spoke[1].Y, clr)
	}
}
