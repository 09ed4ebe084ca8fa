// Package camera maps world space to screen space and back.
package camera

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/prefabs"
)

const (
	defaultZoomStep = 1.1
	defaultMinZoom  = 0.25
	defaultMaxZoom  = 4.0
)

// Camera holds the view parameters. Pan is in reference pixels and is applied
// before zoom, so panning feels the same at every zoom level.
type Camera struct {
	PanX float64
	PanY float64

	zoom     float64
	zoomStep float64
	minZoom  float64
	maxZoom  float64

	refW float64
	refH float64
}

// NewCamera creates a camera fitting a refW×refH view into the canvas.
func NewCamera(refW, refH float64) *Camera {
	c := &Camera{
		zoom:     1,
		zoomStep: defaultZoomStep,
		minZoom:  defaultMinZoom,
		maxZoom:  defaultMaxZoom,
		refW:     refW,
		refH:     refH,
	}
	if !(c.refW > 0) {
		c.refW = common.BaseWidth
	}
	if !(c.refH > 0) {
		c.refH = common.BaseHeight
	}
	return c
}

// ApplySpec updates the reference size, zoom and zoom clamps. Pan is kept.
func (c *Camera) ApplySpec(spec *prefabs.CameraSpec) {
	if c == nil || spec == nil {
		return
	}
	if spec.RefWidth > 0 {
		c.refW = spec.RefWidth
	}
	if spec.RefHeight > 0 {
		c.refH = spec.RefHeight
	}
	if spec.ZoomStep > 1 {
		c.zoomStep = spec.ZoomStep
	}
	if spec.MinZoom > 0 {
		c.minZoom = spec.MinZoom
	}
	if spec.MaxZoom >= c.minZoom {
		c.maxZoom = spec.MaxZoom
	}
	if spec.Zoom > 0 {
		c.zoom = spec.Zoom
	}
	c.zoom = common.Clamp(c.zoom, c.minZoom, c.maxZoom)
}

// SetZoom updates the camera zoom within its clamps.
func (c *Camera) SetZoom(z float64) {
	if z <= 0 || !common.Finite(z) {
		return
	}
	c.zoom = common.Clamp(z, c.minZoom, c.maxZoom)
}

// Zoom returns the current camera zoom.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Fit is the uniform scale that fits the reference view into a w×h canvas.
// It is zero for an empty canvas.
func (c *Camera) Fit(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return math.Min(float64(w)/c.refW, float64(h)/c.refH)
}

// ComputeTransform returns the world-pixel to screen transform for a w×h
// canvas: pan, then uniform zoom, then center on the canvas. World pixels are
// world units times common.UnitScale with y pointing up.
func (c *Camera) ComputeTransform(w, h int) ebiten.GeoM {
	s := c.zoom * c.Fit(w, h)

	var g ebiten.GeoM
	g.Translate(c.PanX, c.PanY)
	g.Scale(s, s)
	g.Translate(float64(w)/2, float64(h)/2)
	return g
}

// Pan moves the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float64, w, h int) {
	s := c.zoom * c.Fit(w, h)
	if s == 0 {
		return
	}
	c.PanX += dx / s
	c.PanY += dy / s
}

// ZoomAt steps the zoom in (steps > 0) or out, keeping the screen point
// (sx, sy) over the same world point.
func (c *Camera) ZoomAt(sx, sy, steps float64, w, h int) {
	fit := c.Fit(w, h)
	if fit == 0 || steps == 0 || !common.Finite(steps) {
		return
	}
	cx, cy := sx-float64(w)/2, sy-float64(h)/2

	before := c.zoom * fit
	px, py := cx/before-c.PanX, cy/before-c.PanY

	c.SetZoom(c.zoom * math.Pow(c.zoomStep, steps))

	after := c.zoom * fit
	c.PanX = cx/after - px
	c.PanY = cy/after - py
}

// Reset clears pan and restores zoom 1.
func (c *Camera) Reset() {
	c.PanX, c.PanY = 0, 0
	c.SetZoom(1)
}

// WorldGeoM extends a camera transform so it takes world units: scale by
// common.UnitScale and flip y by common.YAxisScale first.
func WorldGeoM(cam ebiten.GeoM) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(common.UnitScale, common.UnitScale*common.YAxisScale)
	g.Concat(cam)
	return g
}
