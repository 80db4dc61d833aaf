package retrograde

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCelestialObjectFromString(t *testing.T) {
	for _, name := range []string{"Sun", "sun", "EARTH", "Mars"} {
		obj, err := CelestialObjectFromString(name)
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if obj.Mass <= 0 {
			t.Fatalf("%s has no mass", obj)
		}
	}
	if _, err := CelestialObjectFromString("Pluto"); err == nil {
		t.Fatal("Pluto is not defined")
	}
}

func TestCelestialObjectBody(t *testing.T) {
	sun, err := Sun.Body()
	if err != nil {
		t.Fatal(err)
	}
	if !sun.Central() || sun.R != (r2.Vec{}) || sun.V != (r2.Vec{}) {
		t.Fatalf("invalid sun %s", sun)
	}
	earth, err := Earth.Body()
	if err != nil {
		t.Fatal(err)
	}
	if earth.Central() || earth.R != (r2.Vec{X: -AU}) || earth.V != (r2.Vec{Y: 29.78e3}) {
		t.Fatalf("invalid earth %s", earth)
	}
	if earth.Color != Earth.Color {
		t.Fatalf("color not kept: %+v", earth.Color)
	}
	if len(earth.Trail()) != 0 {
		t.Fatal("new body has a trail")
	}
	// Earth is close to a circular orbit.
	vc := CircularVelocity(sun, AU)
	if diff := vc - 29.78e3; diff > 50 || diff < -50 {
		t.Fatalf("circular velocity %f m/s", vc)
	}
}
