package camera

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/physics"
)

var ErrSingularTransform = errors.New("camera: transform is not invertible")

// Pick maps a screen point through the inverse of the camera transform cam
// to world units.
func Pick(screenX, screenY float64, cam ebiten.GeoM) (cp.Vector, error) {
	g := WorldGeoM(cam)
	if !g.IsInvertible() {
		return cp.Vector{}, ErrSingularTransform
	}
	g.Invert()
	x, y := g.Apply(screenX, screenY)
	if !common.Finite(x) || !common.Finite(y) {
		return cp.Vector{}, ErrSingularTransform
	}
	return cp.Vector{X: x, Y: y}, nil
}

// Picker tracks the pointer in world space every frame and, while the drag
// button is held, drags the body under it.
type Picker struct {
	grabber *physics.Grabber

	point cp.Vector
	valid bool
}

func NewPicker(grabber *physics.Grabber) *Picker {
	return &Picker{grabber: grabber}
}

// Update picks the pointer's world point. When the transform is singular the
// point is invalid for this frame and any held body is dropped.
func (p *Picker) Update(screenX, screenY float64, cam ebiten.GeoM, dragging bool) {
	if p == nil {
		return
	}
	point, err := Pick(screenX, screenY, cam)
	p.valid = err == nil
	if p.valid {
		p.point = point
	}

	if !dragging || !p.valid {
		p.grabber.Release()
		return
	}
	p.grabber.Update(point)
}

// Point returns the last valid world point and whether this frame's pick
// succeeded.
func (p *Picker) Point() (cp.Vector, bool) {
	if p == nil {
		return cp.Vector{}, false
	}
	return p.point, p.valid
}

// Grabbed returns the body being dragged, if any.
func (p *Picker) Grabbed() *physics.Body {
	if p == nil {
		return nil
	}
	return p.grabber.Grabbed()
}
