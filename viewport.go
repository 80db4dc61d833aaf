package retrograde

import (
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultWidth and DefaultHeight define the default canvas size in pixels.
	DefaultWidth, DefaultHeight = 800, 800
	// DefaultScale is the default number of pixels per astronomical unit.
	DefaultScale = 50.0
	// DefaultCircleRadius is the default radius, in pixels, of the line of sight circle.
	DefaultCircleRadius = 380.0
)

// Viewport converts world coordinates (meters) into screen coordinates (pixels).
type Viewport struct {
	Width, Height int
	Scale         float64 // pixels per meter
	Offset        r2.Vec  // screen position of the world origin
}

// NewViewport returns a viewport with the world origin at the center of the canvas.
func NewViewport(width, height int, pxPerAU float64) Viewport {
	return Viewport{Width: width, Height: height, Scale: pxPerAU / AU, Offset: r2.Vec{X: float64(width) / 2, Y: float64(height) / 2}}
}

// DefaultViewport returns the 800x800 viewport at 50 pixels per AU.
func DefaultViewport() Viewport {
	return NewViewport(DefaultWidth, DefaultHeight, DefaultScale)
}

// ToScreen returns the screen position of the world position p.
func (v Viewport) ToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.Scale, p), v.Offset)
}

// ToWorld returns the world position of the screen position p.
func (v Viewport) ToWorld(p r2.Vec) r2.Vec {
	return r2.Scale(1/v.Scale, r2.Sub(p, v.Offset))
}

// Circle returns a circle of the provided radius (pixels) centered on the canvas.
func (v Viewport) Circle(radius float64) Circle {
	return Circle{Radius: radius, Center: v.Offset}
}
