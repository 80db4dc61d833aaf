package retrograde

import (
	"errors"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSystemTrailGrowth(t *testing.T) {
	sys := sunEarthMars(t)
	earth, _ := sys.Body("Earth")
	mars, _ := sys.Body("Mars")
	sun := sys.Central()
	const N = 100
	var expEarth, expMars []r2.Vec
	for i := 0; i < N; i++ {
		sys.Tick()
		expEarth = append(expEarth, earth.R)
		expMars = append(expMars, mars.R)
	}
	if sys.Ticks() != N {
		t.Fatalf("ticks=%d", sys.Ticks())
	}
	for _, tc := range []struct {
		b   *Body
		exp []r2.Vec
	}{{earth, expEarth}, {mars, expMars}} {
		trail := tc.b.Trail()
		if len(trail) != N {
			t.Fatalf("%s trail has %d entries", tc.b.Name(), len(trail))
		}
		for i := range trail {
			if trail[i] != tc.exp[i] {
				t.Fatalf("%s trail[%d]=%+v exp %+v", tc.b.Name(), i, trail[i], tc.exp[i])
			}
		}
	}
	if len(sun.Trail()) != 0 || sun.R != (r2.Vec{}) || sun.V != (r2.Vec{}) {
		t.Fatal("the central body moved")
	}
	exp := sys.Epoch.Add(N * 24 * time.Hour)
	if !sys.CurrentDT().Equal(exp) {
		t.Fatalf("current date %s exp %s", sys.CurrentDT(), exp)
	}
}

func TestSystemOrderIndependence(t *testing.T) {
	// Each body only feels the central body, so the order does not matter.
	a := sunEarthMars(t)
	b, err := NewSystem(Day, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	for _, obj := range []CelestialObject{Mars, Sun, Earth} {
		body, err := obj.Body()
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Add(body); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 10; i++ {
		a.Tick()
		b.Tick()
	}
	for _, name := range []string{"Earth", "Mars"} {
		ba, _ := a.Body(name)
		bb, _ := b.Body(name)
		if ba.R != bb.R || ba.V != bb.V {
			t.Fatalf("%s differs", name)
		}
	}
	if names := b.Bodies(); names[0].Name() != "Mars" || names[1].Name() != "Sun" || names[2].Name() != "Earth" {
		t.Fatal("bodies are not returned in insertion order")
	}
}

func TestOneYear(t *testing.T) {
	sys := sunEarthMars(t)
	earth, _ := sys.Body("Earth")
	start := earth.R
	for i := 0; i < 365; i++ {
		sys.Tick()
	}
	// After a year, the Earth is back close to where it started.
	if d := r2.Norm(r2.Sub(earth.R, start)); d > 0.05*AU {
		t.Fatalf("Earth is %f AU away from its starting point", d/AU)
	}
}

func TestSystemErrors(t *testing.T) {
	if _, err := NewSystem(0, time.Now()); err == nil {
		t.Fatal("null time step should fail")
	}
	sys, err := NewSystem(Day, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	var cerr *ConfigError
	if err := sys.Validate(); !errors.As(err, &cerr) {
		t.Fatalf("a system without central body should not be valid: %v", err)
	}
	assertPanic(t, func() {
		sys.Tick()
	})
	earth, _ := Earth.Body()
	if err := sys.Add(earth); err != nil {
		t.Fatal(err)
	}
	dup, _ := Earth.Body()
	if err := sys.Add(dup); !errors.As(err, &cerr) {
		t.Fatalf("duplicate should fail: %v", err)
	}
	// A central body at the position of the Earth.
	bad, _ := NewBody("Star", Sun.Mass, 1, earth.R, r2.Vec{}, true)
	if err := sys.Add(bad); !errors.As(err, &cerr) {
		t.Fatalf("coincident central body should fail: %v", err)
	}
	sun, _ := Sun.Body()
	if err := sys.Add(sun); err != nil {
		t.Fatal(err)
	}
	other, _ := NewBody("Other", Sun.Mass, 1, r2.Vec{X: AU}, r2.Vec{}, true)
	if err := sys.Add(other); !errors.As(err, &cerr) {
		t.Fatalf("second central body should fail: %v", err)
	}
	rock, _ := NewBody("Rock", 1, 1, r2.Vec{}, r2.Vec{}, false)
	if err := sys.Add(rock); !errors.As(err, &cerr) {
		t.Fatalf("body on the central body should fail: %v", err)
	}
	if err := sys.Validate(); err != nil {
		t.Fatal(err)
	}
}
