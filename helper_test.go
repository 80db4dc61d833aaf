package retrograde

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !scalar.EqualWithinAbs(a[i], b[i], 1e-6) {
			return false
		}
	}
	return true
}

// vecEqual returns whether two vectors are equal within tol.
func vecEqual(a, b r2.Vec, tol float64) (bool, error) {
	if d := r2.Norm(r2.Sub(a, b)); d > tol {
		return false, fmt.Errorf("%+v and %+v differ by %g", a, b, d)
	}
	return true, nil
}

//anglesEqual returns whether two angles in degrees are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff < 1e-9 || math.Abs(diff-360) < 1e-9 {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", diff)
}

// sunEarthMars returns a new default system.
func sunEarthMars(t *testing.T) *System {
	sys, err := DefaultScenario().System()
	if err != nil {
		t.Fatalf("could not build the default system: %s", err)
	}
	return sys
}
