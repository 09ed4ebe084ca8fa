package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/roboticarm/common"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/rig"
)

// SpriteGeoM places a w×h sprite for a body at pos/angle. The sprite is
// centered, offset in y-up world pixels, scaled, rotated with the body and
// moved to the body before the camera transform cam is applied.
func SpriteGeoM(sprite prefabs.SpriteSpec, w, h int, pos cp.Vector, angle float64, cam ebiten.GeoM) ebiten.GeoM {
	scale := sprite.Scale
	if scale == 0 {
		scale = 1
	}

	var g ebiten.GeoM
	g.Translate(-float64(w)/2, -float64(h)/2)
	// image rows run down, world y runs up
	g.Scale(1, common.YAxisScale)
	g.Translate(sprite.OffsetX, sprite.OffsetY)
	g.Scale(scale, scale)
	g.Rotate(angle)
	g.Translate(pos.X*common.UnitScale, pos.Y*common.UnitScale)
	g.Scale(1, common.YAxisScale)
	g.Concat(cam)
	return g
}

// DrawSprites draws every part that has a sprite. Parts whose image is missing
// are skipped.
func DrawSprites(screen *ebiten.Image, parts []rig.Part, images *Images, cam ebiten.GeoM) {
	if screen == nil {
		return
	}
	for _, p := range parts {
		if p.Body == nil || p.Sprite.Image == "" {
			continue
		}
		img, err := images.Get(p.Sprite.Image)
		if err != nil {
			continue
		}
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM = SpriteGeoM(p.Sprite, b.Dx(), b.Dy(), p.Body.Position(), p.Body.Angle(), cam)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}
