package bspline

import (
	"iter"
	"math"
)

// Affine describes a 3D affine transform via the coefficients of the
// augmented matrix
//
//	| N00 N01 N02 N03 |
//	| N10 N11 N12 N13 |
//	| N20 N21 N22 N23 |
//	|  0   0   0   1  |
//
// The idea is that (A * B) * v == A * (B * v).
type Affine struct {
	// We represent Affine as a struct instead of an array because Go applies fuck-all
	// optimizations to arrays, while structs benefit from SROA.

	N00, N01, N02, N03 float64
	N10, N11, N12, N13 float64
	N20, N21, N22, N23 float64
}

// Identity is the identity transform.
var Identity = Affine{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
}

// Scale creates an affine transform representing non-uniform scaling with
// different scale values for x, y, and z.
func Scale(x, y, z float64) Affine {
	return Affine{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
	}
}

// Translate creates an affine transform representing translation.
func Translate(v Vec3) Affine {
	return Affine{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
	}
}

// RotateX creates a rotation of th radians about the x axis. A positive angle
// rotates the positive y axis into the positive z axis.
func RotateX(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{
		1, 0, 0, 0,
		0, cos, -sin, 0,
		0, sin, cos, 0,
	}
}

// RotateY creates a rotation of th radians about the y axis. A positive angle
// rotates the positive z axis into the positive x axis.
func RotateY(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{
		cos, 0, sin, 0,
		0, 1, 0, 0,
		-sin, 0, cos, 0,
	}
}

// RotateZ creates a rotation of th radians about the z axis. A positive angle
// rotates the positive x axis into the positive y axis.
func RotateZ(th float64) Affine {
	sin, cos := math.Sincos(th)
	return Affine{
		cos, -sin, 0, 0,
		sin, cos, 0, 0,
		0, 0, 1, 0,
	}
}

// RotateAbout creates a rotation of th radians about the axis through center
// with the given direction, following the right-hand rule.
func RotateAbout(th float64, center Point, axis Vec3) Affine {
	n := axis.Normalize()
	sin, cos := math.Sincos(th)
	omc := 1 - cos
	rot := Affine{
		cos + n.X*n.X*omc, n.X*n.Y*omc - n.Z*sin, n.X*n.Z*omc + n.Y*sin, 0,
		n.Y*n.X*omc + n.Z*sin, cos + n.Y*n.Y*omc, n.Y*n.Z*omc - n.X*sin, 0,
		n.Z*n.X*omc - n.Y*sin, n.Z*n.Y*omc + n.X*sin, cos + n.Z*n.Z*omc, 0,
	}
	c := Vec3(center)
	return rot.PreTranslate(c.Negate()).ThenTranslate(c)
}

// Coefficients returns the the coefficients of the transform in row-major
// order.
func (aff Affine) Coefficients() [12]float64 {
	return [12]float64{
		aff.N00, aff.N01, aff.N02, aff.N03,
		aff.N10, aff.N11, aff.N12, aff.N13,
		aff.N20, aff.N21, aff.N22, aff.N23,
	}
}

// NewAffine creates a new affine transformation from an array of coefficients
// in row-major order. Alternatively, you can initialize the fields of [Affine]
// manually.
func NewAffine(n [12]float64) Affine {
	return Affine{
		n[0], n[1], n[2], n[3],
		n[4], n[5], n[6], n[7],
		n[8], n[9], n[10], n[11],
	}
}

func (aff Affine) Mul(o Affine) Affine {
	return Affine{
		aff.N00*o.N00 + aff.N01*o.N10 + aff.N02*o.N20,
		aff.N00*o.N01 + aff.N01*o.N11 + aff.N02*o.N21,
		aff.N00*o.N02 + aff.N01*o.N12 + aff.N02*o.N22,
		aff.N00*o.N03 + aff.N01*o.N13 + aff.N02*o.N23 + aff.N03,

		aff.N10*o.N00 + aff.N11*o.N10 + aff.N12*o.N20,
		aff.N10*o.N01 + aff.N11*o.N11 + aff.N12*o.N21,
		aff.N10*o.N02 + aff.N11*o.N12 + aff.N12*o.N22,
		aff.N10*o.N03 + aff.N11*o.N13 + aff.N12*o.N23 + aff.N13,

		aff.N20*o.N00 + aff.N21*o.N10 + aff.N22*o.N20,
		aff.N20*o.N01 + aff.N21*o.N11 + aff.N22*o.N21,
		aff.N20*o.N02 + aff.N21*o.N12 + aff.N22*o.N22,
		aff.N20*o.N03 + aff.N21*o.N13 + aff.N22*o.N23 + aff.N23,
	}
}

// PreScale creates a scale by (x, y, z) followed by aff.
//
// Equivalent to "aff * Scale(x, y, z)"
func (aff Affine) PreScale(x, y, z float64) Affine {
	return aff.Mul(Scale(x, y, z))
}

// ThenScale creates aff followed by a scale of (x, y, z).
//
// Equivalent to "Scale(x, y, z) * aff"
func (aff Affine) ThenScale(x, y, z float64) Affine {
	return Scale(x, y, z).Mul(aff)
}

// PreTranslate creates a translation of v followed by aff.
//
// Equivalent to "aff * Translate(v)"
func (aff Affine) PreTranslate(v Vec3) Affine {
	return aff.Mul(Translate(v))
}

// ThenTranslate creates aff followed by a translation of v.
//
// Equivalent to "Translate(v) * aff"
func (aff Affine) ThenTranslate(v Vec3) Affine {
	aff.N03 += v.X
	aff.N13 += v.Y
	aff.N23 += v.Z
	return aff
}

// Determinant computes the determinant of the linear part.
func (aff Affine) Determinant() float64 {
	return aff.N00*(aff.N11*aff.N22-aff.N12*aff.N21) -
		aff.N01*(aff.N10*aff.N22-aff.N12*aff.N20) +
		aff.N02*(aff.N10*aff.N21-aff.N11*aff.N20)
}

// Invert computes the inverse transform.
//
// Produces NaN values when the determinant is zero.
func (aff Affine) Invert() Affine {
	invDet := 1 / aff.Determinant()
	inv := Affine{
		N00: invDet * (aff.N11*aff.N22 - aff.N12*aff.N21),
		N01: invDet * (aff.N02*aff.N21 - aff.N01*aff.N22),
		N02: invDet * (aff.N01*aff.N12 - aff.N02*aff.N11),
		N10: invDet * (aff.N12*aff.N20 - aff.N10*aff.N22),
		N11: invDet * (aff.N00*aff.N22 - aff.N02*aff.N20),
		N12: invDet * (aff.N02*aff.N10 - aff.N00*aff.N12),
		N20: invDet * (aff.N10*aff.N21 - aff.N11*aff.N20),
		N21: invDet * (aff.N01*aff.N20 - aff.N00*aff.N21),
		N22: invDet * (aff.N00*aff.N11 - aff.N01*aff.N10),
	}
	t := aff.Translation().Transform(inv).Negate()
	return inv.WithTranslation(t)
}

func (aff Affine) IsInf() bool {
	for _, n := range aff.Coefficients() {
		if math.IsInf(n, 0) {
			return true
		}
	}
	return false
}

func (aff Affine) IsNaN() bool {
	for _, n := range aff.Coefficients() {
		if math.IsNaN(n) {
			return true
		}
	}
	return false
}

// Translation returns the translation component of this affine transformation.
func (aff Affine) Translation() Vec3 {
	return Vec3{
		X: aff.N03,
		Y: aff.N13,
		Z: aff.N23,
	}
}

// WithTranslation replaces the translation portion of this affine
// transformation.
func (aff Affine) WithTranslation(v Vec3) Affine {
	aff.N03 = v.X
	aff.N13 = v.Y
	aff.N23 = v.Z
	return aff
}

// TransformBoxBoundingBox computes the bounding box of a transformed box.
//
// The returned box always has non-negative extents.
func (aff Affine) TransformBoxBoundingBox(box Box) Box {
	out := NewBoxFromPoints(Pt(box.X0, box.Y0, box.Z0).Transform(aff), Pt(box.X1, box.Y1, box.Z1).Transform(aff))
	for _, pt := range box.Corners() {
		out = out.UnionPoint(pt.Transform(aff))
	}
	return out
}

func Transform[T interface{ Transform(Affine) T }](seq iter.Seq[T], aff Affine) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			if !yield(v.Transform(aff)) {
				break
			}
		}
	}
}
