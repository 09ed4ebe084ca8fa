package common

const (
	// BaseWidth and BaseHeight are the reference canvas size the camera fits to.
	BaseWidth  = 1920
	BaseHeight = 1000

	// UnitScale converts world units (meters) to pixels. Sprites and the debug
	// overlay must both go through it so their outlines line up.
	UnitScale = 100.0

	// YAxisScale flips physics "up" (+Y) into screen "down" (+Y). It is the only
	// place the convention is spelled out; camera, picker and sprite placement
	// all multiply by it.
	YAxisScale = -1.0

	// Gravity is the default downward acceleration in world units per second².
	Gravity = -9.81
)
