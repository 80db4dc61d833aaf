package retrograde

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a celestial body of the simulation.
// Name, mass, radius and whether it's the central body cannot change after creation.
type Body struct {
	R       r2.Vec // Position in meters
	V       r2.Vec // Velocity in m/s
	Color   color.RGBA
	name    string
	mass    float64
	radius  float64 // display radius in pixels
	central bool
	trail   []r2.Vec
}

// NewBody returns a new body from its position (in meters) and velocity (in m/s).
func NewBody(name string, mass, radius float64, R, V r2.Vec, central bool) (*Body, error) {
	if name == "" {
		return nil, &ConfigError{Field: "name", Reason: "empty body name"}
	}
	if mass <= 0 {
		return nil, &ConfigError{Field: name + ".mass", Reason: fmt.Sprintf("mass must be positive (got %g kg)", mass)}
	}
	if radius <= 0 {
		return nil, &ConfigError{Field: name + ".radius", Reason: fmt.Sprintf("radius must be positive (got %g)", radius)}
	}
	b := &Body{name: name, mass: mass, radius: radius, central: central, R: R, V: V}
	if central {
		// The central body is fixed.
		b.V = r2.Vec{}
	}
	return b, nil
}

// NewBodyAU is the same as NewBody but the position is provided in astronomical units.
func NewBodyAU(name string, mass, radius float64, RAU, V r2.Vec, central bool) (*Body, error) {
	return NewBody(name, mass, radius, r2.Scale(AU, RAU), V, central)
}

// Name returns the identifier of this body.
func (b *Body) Name() string {
	return b.name
}

// Mass returns the mass in kg.
func (b *Body) Mass() float64 {
	return b.mass
}

// Radius returns the display radius.
func (b *Body) Radius() float64 {
	return b.radius
}

// Central returns whether this body is the fixed central body.
func (b *Body) Central() bool {
	return b.central
}

// Trail returns the orbit trail, i.e. one position per tick in tick order.
// The returned slice must not be modified.
func (b *Body) Trail() []r2.Vec {
	return b.trail
}

// TrailCopy returns a copy of at most the last n positions of the trail (all of them if n <= 0).
func (b *Body) TrailCopy(n int) []r2.Vec {
	src := b.trail
	if n > 0 && len(src) > n {
		src = src[len(src)-n:]
	}
	dst := make([]r2.Vec, len(src))
	copy(dst, src)
	return dst
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return fmt.Sprintf("%s r=(%.6e, %.6e) m v=(%.3f, %.3f) m/s", b.name, b.R.X, b.R.Y, b.V.X, b.V.Y)
}
