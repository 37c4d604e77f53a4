package emath

// Some basic affine transformations, used to rotate spike endpoints

import(
	"image"
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use a local type so we can hang methods off it
type Aff3 f64.Aff3

// Rotation is a pure rotation about the origin, no translation terms.
func Rotation(thetaDeg float64) Aff3 {
	cosTheta := math.Cos(thetaDeg * math.Pi / 180.0)
	sinTheta := math.Sin(thetaDeg * math.Pi / 180.0)
	return Aff3{cosTheta, -1*sinTheta, 0,    sinTheta, cosTheta, 0}
}

// ApplyAboutTrunc maps p through the linear part of m, taken about the
// center c rather than the origin, and truncates back onto the grid:
//
//   x' = cx + dx*m0 + dy*m1,  y' = cy + dx*m3 + dy*m4
//
// evaluated left to right in exactly that order. Composing translations
// into the matrix instead gives different roundings, which move some
// truncated endpoints by a pixel (e.g. 57.999 rather than 58 at 30deg).
// The float64() conversions stop the compiler fusing the multiply-adds.
func (m Aff3)ApplyAboutTrunc(p, c image.Point) image.Point {
	dx, dy := float64(p.X - c.X), float64(p.Y - c.Y)
	cx, cy := float64(c.X), float64(c.Y)

	x := float64(cx + float64(dx*m[0])) + float64(dy*m[1])
	y := float64(cy + float64(dx*m[3])) + float64(dy*m[4])
	return image.Point{int(x), int(y)}
}

// RotatePointAbout rotates p by thetaDeg about c, truncating the result
// towards zero (not rounding). Spike endpoints have always been computed
// this way, and rounding would shift rotated spikes by a pixel relative
// to older renders.
func RotatePointAbout(p, c image.Point, thetaDeg float64) image.Point {
	return Rotation(thetaDeg).ApplyAboutTrunc(p, c)
}
