package retrograde

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// CelestialObject defines the initial conditions of a celestial object.
type CelestialObject struct {
	Name    string
	Mass    float64    // kg
	Radius  float64    // display radius in pixels
	R       r2.Vec     // initial position in AU
	V       r2.Vec     // initial velocity in m/s
	Color   color.RGBA // display color
	Central bool
}

// Body returns a new body initialized from this object.
func (c CelestialObject) Body() (*Body, error) {
	b, err := NewBodyAU(c.Name, c.Mass, c.Radius, c.R, c.V, c.Central)
	if err != nil {
		return nil, err
	}
	b.Color = c.Color
	return b, nil
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined celestial object '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star, and the center of the simulation.
var Sun = CelestialObject{"Sun", 1.989e30, 30, r2.Vec{}, r2.Vec{}, color.RGBA{255, 255, 0, 255}, true}

// Earth is home, and the observer.
var Earth = CelestialObject{"Earth", 5.9722e24, 16, r2.Vec{X: -1}, r2.Vec{Y: 29.78e3}, color.RGBA{100, 149, 237, 255}, false}

// Mars is the vacation place, and looks like it's going backwards every other year.
var Mars = CelestialObject{"Mars", 6.4169e23, 12, r2.Vec{X: -1.5}, r2.Vec{Y: 24.07e3}, color.RGBA{188, 39, 50, 255}, false}
