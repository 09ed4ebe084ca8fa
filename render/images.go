// Package render draws the arm's sprites and the debug overlay.
package render

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/roboticarm/assets"
)

var ErrImageNotFound = errors.New("render: image not found")

// Images caches textures by key. A key that fails to load is logged once and
// remembered as missing.
type Images struct {
	images  map[string]*ebiten.Image
	missing map[string]bool
	load    func(key string) (*ebiten.Image, error)
}

// NewImages creates a cache backed by the embedded textures.
func NewImages() *Images {
	return newImages(assets.LoadImage)
}

func newImages(load func(string) (*ebiten.Image, error)) *Images {
	return &Images{
		images:  map[string]*ebiten.Image{},
		missing: map[string]bool{},
		load:    load,
	}
}

// Register stores an image by key.
func (c *Images) Register(key string, img *ebiten.Image) {
	if c == nil || key == "" || img == nil {
		return
	}
	c.images[key] = img
	delete(c.missing, key)
}

// Get returns the cached image for key, loading it on first use.
func (c *Images) Get(key string) (*ebiten.Image, error) {
	if c == nil || key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrImageNotFound)
	}
	if img, ok := c.images[key]; ok {
		return img, nil
	}
	if c.missing[key] {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, key)
	}
	img, err := c.load(key)
	if err != nil || img == nil {
		c.missing[key] = true
		log.Printf("render: missing sprite %s: %v", key, err)
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, key)
	}
	c.images[key] = img
	return img, nil
}
