// Package bspline provides B-spline and NURBS curves and surfaces in 3D, and
// the routines needed to loft surfaces through cross-section curves. It was
// written for modeling applications that need to turn a set of unrelated
// curves into a single tensor product surface.
//
// # Features
//
// We provide the following notable features:
//
//   - Knot insertion (see [Curve.InsertKnot])
//   - Degree elevation (see [Curve.ElevateDegree])
//   - Bounded knot removal (see [Curve.RemoveKnotsBounded])
//   - Making curves compatible (see [MakeCompatible])
//   - C2 cubic interpolation (see [InterpolateC2Cubic] and [InterpolateCurve])
//   - Ruled surfaces (see [RuledSurface])
//   - Lofting (see [Loft])
//   - Affine transformations (see [Affine])
//
// # Curves and knots
//
// [Curve] represents clamped B-spline curves of any order up to [MaxOrder],
// with optional weights. Curves are values: routines that change a curve
// return a modified copy and leave their inputs alone.
//
// Rational curves are processed in homogeneous space, where every pole is
// multiplied by its weight (see [HomogeneousPoint]). That way, knot insertion,
// knot removal and interpolation treat rational and non-rational curves alike.
//
// Knot vectors are compared after normalizing them to [0, 1], with a fixed
// tolerance of [KnotTolerance].
//
// # Compatible curves
//
// Curves are compatible if they have the same order and the same knot vector,
// and therefore the same number of poles. Only compatible curves can be
// combined pole by pole, which is what lofting does.
//
// [CloneCompatible] makes curves compatible exactly, by raising them to a
// common degree and inserting every knot any of them has into all of them.
// The result usually has far more poles than necessary. [MakeCompatible] then
// removes as many knots as a tolerance allows, from all curves at once. Knot
// removal is greedy, trying the cheapest knot first; it does not promise to
// find the smallest possible representation.
//
// Knot removal never stores weights outside of [WeightMin, WeightMax], and can
// be told to leave the derivatives at the ends of the curves alone (see
// [TangentControl]).
//
// # Surfaces
//
// [Surface] represents tensor product B-spline surfaces. [Loft] builds a
// surface from two or more sections: the sections are made compatible, and a
// C2 cubic is fit through every column of corresponding poles. Two sections
// get a ruled surface instead.
//
// # Literature
//
// This package makes use of the following ideas:
//   - [The NURBS Book] by Les Piegl and Wayne Tiller, for knot insertion (A5.1),
//     knot removal (A5.8), degree elevation and basis functions (A2.2, A2.3)
//   - [Knot-removal algorithms for NURBS curves and surfaces] by Wayne Tiller
//   - [Curves and Surfaces for CAGD] by Gerald Farin, for C2 cubic interpolation
//
// [The NURBS Book]: https://doi.org/10.1007/978-3-642-59223-2
// [Knot-removal algorithms for NURBS curves and surfaces]: https://doi.org/10.1016/0010-4485(92)90057-H
// [Curves and Surfaces for CAGD]: https://doi.org/10.1016/B978-1-55860-737-8.X5000-5
package bspline
