package bspline

import "math"

// Box is an axis-aligned box. Boxes constructed by this package always
// have X0 <= X1, Y0 <= Y1 and Z0 <= Z1.
type Box struct {
	X0, Y0, Z0 float64
	X1, Y1, Z1 float64
}

// NewBoxFromPoints returns a box with the extents of p0 and p1, ensuring that
// all extents are non-negative.
func NewBoxFromPoints(p0, p1 Point) Box {
	return Box{p0.X, p0.Y, p0.Z, p1.X, p1.Y, p1.Z}.Abs()
}

// BoxOf returns the smallest box enclosing all points. The zero box is
// returned for no points.
func BoxOf(pts []Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := NewBoxFromPoints(pts[0], pts[0])
	for _, pt := range pts[1:] {
		b = b.UnionPoint(pt)
	}
	return b
}

// Abs returns a new box with the same extents as b, but ensuring that all
// extents are non-negative.
func (b Box) Abs() Box {
	return Box{
		X0: min(b.X0, b.X1),
		Y0: min(b.Y0, b.Y1),
		Z0: min(b.Z0, b.Z1),
		X1: max(b.X0, b.X1),
		Y1: max(b.Y0, b.Y1),
		Z1: max(b.Z0, b.Z1),
	}
}

// Origin returns the corner with the smallest coordinates.
func (b Box) Origin() Point { return Pt(b.X0, b.Y0, b.Z0) }

// Size returns the extents of the box as a vector.
func (b Box) Size() Vec3 {
	return Vec(b.X1-b.X0, b.Y1-b.Y0, b.Z1-b.Z0)
}

// Diagonal returns the length of the box's diagonal.
func (b Box) Diagonal() float64 {
	return b.Size().Hypot()
}

func (b Box) Center() Point {
	return Pt(0.5*(b.X0+b.X1), 0.5*(b.Y0+b.Y1), 0.5*(b.Z0+b.Z1))
}

// Contains reports whether pt lies inside the box. The minimum faces are
// inclusive, the maximum faces exclusive.
func (b Box) Contains(pt Point) bool {
	return pt.X >= b.X0 &&
		pt.X < b.X1 &&
		pt.Y >= b.Y0 &&
		pt.Y < b.Y1 &&
		pt.Z >= b.Z0 &&
		pt.Z < b.Z1
}

// Union returns the smallest box enclosing b and o.
func (b Box) Union(o Box) Box {
	return Box{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		Z0: min(b.Z0, o.Z0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
		Z1: max(b.Z1, o.Z1),
	}
}

// UnionPoint computes the union with one point.
//
// This method includes the faces of zero-volume boxes. Thus, a succession of
// UnionPoint operations on a series of points yields their enclosing box.
func (b Box) UnionPoint(pt Point) Box {
	return Box{
		X0: min(b.X0, pt.X),
		Y0: min(b.Y0, pt.Y),
		Z0: min(b.Z0, pt.Z),
		X1: max(b.X1, pt.X),
		Y1: max(b.Y1, pt.Y),
		Z1: max(b.Z1, pt.Z),
	}
}

// Inflate expands a box by a constant amount in all directions.
func (b Box) Inflate(d float64) Box {
	return Box{
		X0: b.X0 - d,
		Y0: b.Y0 - d,
		Z0: b.Z0 - d,
		X1: b.X1 + d,
		Y1: b.Y1 + d,
		Z1: b.Z1 + d,
	}
}

// Corners returns the eight corners of the box.
func (b Box) Corners() [8]Point {
	return [8]Point{
		Pt(b.X0, b.Y0, b.Z0),
		Pt(b.X1, b.Y0, b.Z0),
		Pt(b.X0, b.Y1, b.Z0),
		Pt(b.X1, b.Y1, b.Z0),
		Pt(b.X0, b.Y0, b.Z1),
		Pt(b.X1, b.Y0, b.Z1),
		Pt(b.X0, b.Y1, b.Z1),
		Pt(b.X1, b.Y1, b.Z1),
	}
}

func (b Box) Translate(v Vec3) Box {
	return Box{
		X0: b.X0 + v.X,
		Y0: b.Y0 + v.Y,
		Z0: b.Z0 + v.Z,
		X1: b.X1 + v.X,
		Y1: b.Y1 + v.Y,
		Z1: b.Z1 + v.Z,
	}
}

func (b Box) IsInf() bool {
	return b.Origin().IsInf() || Pt(b.X1, b.Y1, b.Z1).IsInf()
}

func (b Box) IsNaN() bool {
	return math.IsNaN(b.X0) || math.IsNaN(b.Y0) || math.IsNaN(b.Z0) ||
		math.IsNaN(b.X1) || math.IsNaN(b.Y1) || math.IsNaN(b.Z1)
}
