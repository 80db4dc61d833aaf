package retrograde

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Circle is a circle in the plane.
type Circle struct {
	Radius float64
	Center r2.Vec
}

// Contains returns whether p is strictly inside the circle.
func (c Circle) Contains(p r2.Vec) bool {
	return r2.Norm(r2.Sub(p, c.Center)) < c.Radius
}

// Intersect returns the point where the line through p1 and p2 crosses the circle.
// The line through p1 and perpendicular to (p1, p2) splits the plane in two: of the two
// algebraic solutions, the first one, (x0+B·m, y0−A·m), is returned when it lies on the same
// side as p2, otherwise the second one is. When p1 is inside the circle this is the crossing
// reached when going from p1 towards p2.
// Errors: ErrInvalidCircle, ErrDegenerateLine (p1 == p2) and ErrNoIntersection.
func Intersect(c Circle, p1, p2 r2.Vec) (r2.Vec, error) {
	if c.Radius <= 0 {
		return r2.Vec{}, ErrInvalidCircle
	}
	// Move the origin to the center of the circle.
	x1, y1 := p1.X-c.Center.X, p1.Y-c.Center.Y
	x2, y2 := p2.X-c.Center.X, p2.Y-c.Center.Y

	// Line through both points as Ax + By + C = 0.
	A := y1 - y2
	B := x2 - x1
	C := y2*x1 - x2*y1
	AB2 := A*A + B*B
	if AB2 == 0 {
		return r2.Vec{}, ErrDegenerateLine
	}

	// Foot of the perpendicular from the origin.
	x0 := -A * C / AB2
	y0 := -B * C / AB2
	d := c.Radius*c.Radius - C*C/AB2
	if d < 0 {
		return r2.Vec{}, ErrNoIntersection
	}
	m := math.Sqrt(d / AB2)

	ax, ay := x0+B*m, y0-A*m
	bx, by := x0-B*m, y0+A*m

	// Perpendicular through p1: a1*x + b1*y + c1 = 0.
	a1, b1, c1 := -B, A, B*x1-A*y1
	if (a1*ax+b1*ay+c1 > 0) == (a1*x2+b1*y2+c1 > 0) {
		return r2.Vec{X: ax + c.Center.X, Y: ay + c.Center.Y}, nil
	}
	return r2.Vec{X: bx + c.Center.X, Y: by + c.Center.Y}, nil
}
