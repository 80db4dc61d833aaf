package retrograde

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// ObliquityJ2000 is the obliquity of the ecliptic at J2000 in degrees.
	ObliquityJ2000 = 23.439281
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v []float64) (o []float64) {
	vVec := mat.NewVecDense(len(v), v)
	var rVec mat.VecDense
	rVec.MulVec(m, vVec)
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// Equatorial2Ecliptic rotates an equatorial (ICRF) vector into the J2000 ecliptic frame.
func Equatorial2Ecliptic(v []float64) []float64 {
	return MxV33(R1(ObliquityJ2000*deg2rad), v)
}

// Ecliptic2Equatorial rotates a J2000 ecliptic vector into the equatorial (ICRF) frame.
func Ecliptic2Equatorial(v []float64) []float64 {
	return MxV33(R1(-ObliquityJ2000*deg2rad), v)
}
