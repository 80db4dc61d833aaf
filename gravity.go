package retrograde

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.496e11
	// G is the gravitational constant in m^3 kg^-1 s^-2.
	G = 6.67e-11
	// Day is one simulated day in seconds, the default time step.
	Day = 3600 * 24.0
)

// Force returns the gravitational force exerted by the central body on b.
// NOTE: b and central must not be at the same position (the force is undefined).
func Force(b, central *Body) r2.Vec {
	dx := central.R.X - b.R.X
	dy := central.R.Y - b.R.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	F := G * b.mass * central.mass / (dist * dist)
	// cos and sin of the direction angle, atan2(dy, dx).
	cθ, sθ := dx/dist, dy/dist
	return r2.Vec{X: F * cθ, Y: F * sθ}
}

// Step advances b by dt seconds under the attraction of the central body.
// The velocity is updated first and the new velocity moves the body (symplectic Euler).
// The central body is never modified, and a central b is left untouched.
func (b *Body) Step(central *Body, dt float64) {
	if b.central {
		return
	}
	F := Force(b, central)
	b.V.X += F.X / b.mass * dt
	b.V.Y += F.Y / b.mass * dt
	b.R.X += b.V.X * dt
	b.R.Y += b.V.Y * dt
	b.trail = append(b.trail, b.R)
}

// Energyξ returns the specific mechanical energy of b relative to the central body (J/kg).
func Energyξ(b, central *Body) float64 {
	μ := G * central.mass
	r := r2.Norm(r2.Sub(b.R, central.R))
	v := r2.Norm(b.V)
	return v*v/2 - μ/r
}

// CircularVelocity returns the speed of a circular orbit at distance r from the central body.
func CircularVelocity(central *Body, r float64) float64 {
	return math.Sqrt(G * central.mass / r)
}
