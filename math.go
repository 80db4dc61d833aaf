package retrograde

import "math"

const (
	deg2rad = math.Pi / 180
)

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Norm returns the norm of a given 3x1 vector.
func Norm(v []float64) float64 {
	return norm(v)
}

// Equatorial2Cartesian returns the Cartesian coordinates of a point at distance r, right
// ascension α and declination δ (both in degrees).
// The x axis points to the vernal equinox and z to the celestial north pole.
func Equatorial2Cartesian(r, α, δ float64) []float64 {
	sα, cα := math.Sincos(α * deg2rad)
	sδ, cδ := math.Sincos(δ * deg2rad)
	return []float64{r * cδ * cα, r * cδ * sα, r * sδ}
}

// Cartesian2Equatorial returns the distance, right ascension and declination (in degrees)
// of the provided Cartesian vector. The right ascension is within [0; 360).
func Cartesian2Equatorial(a []float64) (r, α, δ float64) {
	r = norm(a)
	if r == 0 {
		return 0, 0, 0
	}
	δ = math.Asin(a[2]/r) / deg2rad
	α = Rad2deg(math.Atan2(a[1], a[0]))
	return
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
