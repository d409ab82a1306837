package bspline

import (
	"fmt"
	"math"
)

// Point is a position in 3D space.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Pt returns the point (x, y, z).
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (pt Point) Splat() (float64, float64, float64) {
	return pt.X, pt.Y, pt.Z
}

func (pt Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", pt.X, pt.Y, pt.Z)
}

func (pt Point) Translate(o Vec3) Point {
	return Point{
		X: pt.X + o.X,
		Y: pt.Y + o.Y,
		Z: pt.Z + o.Z,
	}
}

func (pt Point) Transform(aff Affine) Point {
	return Point{
		X: aff.N00*pt.X + aff.N01*pt.Y + aff.N02*pt.Z + aff.N03,
		Y: aff.N10*pt.X + aff.N11*pt.Y + aff.N12*pt.Z + aff.N13,
		Z: aff.N20*pt.X + aff.N21*pt.Y + aff.N22*pt.Z + aff.N23,
	}
}

// Sub computes p−o.
// To subtract a vector from p, use Translate and negate the vector.
func (pt Point) Sub(o Point) Vec3 {
	return Vec3{
		X: pt.X - o.X,
		Y: pt.Y - o.Y,
		Z: pt.Z - o.Z,
	}
}

// Lerp linearly interpolates between two points.
func (pt Point) Lerp(o Point, t float64) Point {
	return Point(Vec3(pt).Lerp(Vec3(o), t))
}

// Midpoint returns the midpoint of two points.
func (pt Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (pt.X + o.X),
		Y: 0.5 * (pt.Y + o.Y),
		Z: 0.5 * (pt.Z + o.Z),
	}
}

// Distance returns the euclidean distance between two points.
func (pt Point) Distance(o Point) float64 {
	return pt.Sub(o).Hypot()
}

// DistanceSquared returns the squared euclidean distance between two points.
func (pt Point) DistanceSquared(o Point) float64 {
	return pt.Sub(o).Hypot2()
}

// Magnitude returns the distance of the point from the origin.
func (pt Point) Magnitude() float64 {
	return Vec3(pt).Hypot()
}

// IsInf reports whether at least one of x, y, and z is infinite.
func (pt Point) IsInf() bool {
	return math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) || math.IsInf(pt.Z, 0)
}

// IsNaN reports whether at least one of x, y, and z is NaN.
func (pt Point) IsNaN() bool {
	return math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsNaN(pt.Z)
}

// HomogeneousPoint is a weighted point (wx, wy, wz, w). Knot insertion, knot
// removal and interpolation all operate on this representation so that
// rational and non-rational curves share the same code; for non-rational
// curves w is 1.
type HomogeneousPoint struct {
	X, Y, Z, W float64
}

// Homogenize returns the homogeneous representation of pt with weight w.
func Homogenize(pt Point, w float64) HomogeneousPoint {
	return HomogeneousPoint{X: pt.X * w, Y: pt.Y * w, Z: pt.Z * w, W: w}
}

// Point returns the Cartesian point represented by hp. The result is
// undefined for w == 0.
func (hp HomogeneousPoint) Point() Point {
	return Point{X: hp.X / hp.W, Y: hp.Y / hp.W, Z: hp.Z / hp.W}
}

// Combine returns a*hp + b*o.
func (hp HomogeneousPoint) Combine(a float64, o HomogeneousPoint, b float64) HomogeneousPoint {
	return HomogeneousPoint{
		X: a*hp.X + b*o.X,
		Y: a*hp.Y + b*o.Y,
		Z: a*hp.Z + b*o.Z,
		W: a*hp.W + b*o.W,
	}
}

func (hp HomogeneousPoint) Mul(f float64) HomogeneousPoint {
	return HomogeneousPoint{X: hp.X * f, Y: hp.Y * f, Z: hp.Z * f, W: hp.W * f}
}

func (hp HomogeneousPoint) Add(o HomogeneousPoint) HomogeneousPoint {
	return HomogeneousPoint{X: hp.X + o.X, Y: hp.Y + o.Y, Z: hp.Z + o.Z, W: hp.W + o.W}
}

// Distance returns the euclidean distance of two points in 4D.
func (hp HomogeneousPoint) Distance(o HomogeneousPoint) float64 {
	dx := hp.X - o.X
	dy := hp.Y - o.Y
	dz := hp.Z - o.Z
	dw := hp.W - o.W
	return math.Sqrt(dx*dx + dy*dy + dz*dz + dw*dw)
}

func (hp HomogeneousPoint) String() string {
	return fmt.Sprintf("(%g, %g, %g; %g)", hp.X, hp.Y, hp.Z, hp.W)
}
