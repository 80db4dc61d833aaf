package retrograde

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
	"gonum.org/v1/gonum/spatial/r2"
)

// ReferenceOrbit is an ode.Integrable which propagates a body around the fixed central body
// with RK4. It is only used to measure how far the symplectic Euler step drifts.
type ReferenceOrbit struct {
	R, V    r2.Vec // current position and velocity
	μ       float64
	center  r2.Vec
	target  uint64   // number of states at which the propagation stops
	History []r2.Vec // one position per step
}

// NewReferenceOrbit returns a reference orbit starting from the current state of b.
func NewReferenceOrbit(b, central *Body) *ReferenceOrbit {
	return &ReferenceOrbit{R: b.R, V: b.V, μ: G * central.mass, center: central.R}
}

// GetState returns [x y vx vy].
func (o *ReferenceOrbit) GetState() []float64 {
	return []float64{o.R.X, o.R.Y, o.V.X, o.V.Y}
}

// SetState stores the new state and appends the position to the history.
func (o *ReferenceOrbit) SetState(t float64, s []float64) {
	o.R = r2.Vec{X: s[0], Y: s[1]}
	o.V = r2.Vec{X: s[2], Y: s[3]}
	o.History = append(o.History, o.R)
}

// Stop returns whether the requested number of steps was performed.
func (o *ReferenceOrbit) Stop(t float64) bool {
	return uint64(len(o.History)) >= o.target
}

// Func is the two body equation of motion about a fixed center.
func (o *ReferenceOrbit) Func(t float64, f []float64) []float64 {
	dx := f[0] - o.center.X
	dy := f[1] - o.center.Y
	r := math.Sqrt(dx*dx + dy*dy)
	acc := -o.μ / (r * r * r)
	return []float64{f[2], f[3], acc * dx, acc * dy}
}

// Advance propagates n more steps of dt seconds.
func (o *ReferenceOrbit) Advance(dt float64, n uint64) error {
	if dt <= 0 {
		return &ConfigError{Field: "dt", Reason: fmt.Sprintf("time step must be positive (got %g s)", dt)}
	}
	o.target = uint64(len(o.History)) + n
	ode.NewRK4(0, dt, o).Solve() // Blocking.
	return nil
}

// PropagateReference propagates the state of b for the given number of steps of dt seconds
// with RK4. Neither b nor central are modified.
func PropagateReference(b, central *Body, dt float64, steps uint64) (*ReferenceOrbit, error) {
	o := NewReferenceOrbit(b, central)
	if err := o.Advance(dt, steps); err != nil {
		return nil, err
	}
	return o, nil
}

// Drift returns, for each tick, the distance in meters between the trail of b and the
// reference history. The shortest of both is used.
func Drift(b *Body, ref *ReferenceOrbit) []float64 {
	n := len(b.trail)
	if len(ref.History) < n {
		n = len(ref.History)
	}
	drift := make([]float64, n)
	for i := 0; i < n; i++ {
		drift[i] = r2.Norm(r2.Sub(b.trail[i], ref.History[i]))
	}
	return drift
}
