package bspline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// EndConditions selects how a C2 cubic interpolant behaves at its ends.
//
// An end with a tangent has that first derivative. Otherwise a smooth end has
// a vanishing second derivative (the natural end condition), and any other end
// takes its tangent from the chord to the neighboring point.
//
// Closed interpolants ignore all of this and are periodic in their first and
// second derivatives.
type EndConditions struct {
	StartTangent *Vec3
	EndTangent   *Vec3
	SmoothStart  bool
	SmoothEnd    bool
	Closed       bool
}

// InterpOptions configures [InterpolateCurve].
type InterpOptions struct {
	EndConditions
	// ChordLength selects chord length parametrization instead of uniform
	// parameters.
	ChordLength bool
}

var DefaultInterp = InterpOptions{
	EndConditions: EndConditions{SmoothStart: true, SmoothEnd: true},
	ChordLength:   true,
}

// InterpolateCurve returns the non-rational C2 cubic curve through points.
// Its knots are normalized to [0, 1].
func InterpolateCurve(points []Point, opts InterpOptions) (*Curve, error) {
	pw := make([]HomogeneousPoint, len(points))
	for i, pt := range points {
		pw[i] = Homogenize(pt, 1)
	}
	var params []float64
	if opts.ChordLength {
		params = ChordParams(closePoints(points, opts.Closed))
	} else {
		params = UniformParams(len(points) + boolToInt(opts.Closed))
	}
	poles, kv, err := InterpolateC2Cubic(pw, params, opts.EndConditions)
	if err != nil {
		return nil, err
	}
	c := &Curve{Order: 4, Knots: kv}
	c.setHomogeneous(poles)
	return c, nil
}

func closePoints(points []Point, closed bool) []Point {
	if !closed || len(points) == 0 {
		return points
	}
	out := make([]Point, len(points), len(points)+1)
	copy(out, points)
	return append(out, points[0])
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UniformParams returns n parameters spaced evenly over [0, 1].
func UniformParams(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	out[n-1] = 1
	return out
}

// ChordParams returns parameters in [0, 1] proportional to the accumulated
// distance between consecutive points. Points that all coincide get uniform
// parameters.
func ChordParams(points []Point) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + points[i].Distance(points[i-1])
	}
	total := out[len(out)-1]
	if total == 0 {
		return UniformParams(len(points))
	}
	for i := range out {
		out[i] /= total
	}
	out[len(out)-1] = 1
	return out
}

// InterpolateC2Cubic computes the poles and knots of the C2 cubic B-spline
// that passes through the weighted points at the given parameters. The
// interpolation happens in homogeneous space, which makes it usable for the
// poles of rational curves.
//
// Open interpolants of n points have n+2 poles and the knots
// [t0 t0 t0 t0 t1 ... tn-2 tn-1 tn-1 tn-1 tn-1]. Closed interpolants first
// repeat the first point at the end and have n+3 poles. params must hold one
// strictly increasing value per point, including the repeated point of closed
// interpolants.
//
// Given tangents are Cartesian first derivatives; the weight is assumed to be
// stationary at that end.
func InterpolateC2Cubic(points []HomogeneousPoint, params []float64, ends EndConditions) ([]HomogeneousPoint, KnotVector, error) {
	if len(points) < 2 {
		return nil, nil, fmt.Errorf("%w: have %d", ErrTooFewPoints, len(points))
	}
	if ends.Closed {
		points = append(points[:len(points):len(points)], points[0])
	}
	np := len(points)
	if len(params) != np {
		return nil, nil, fmt.Errorf("bspline: InterpolateC2Cubic: have %d parameters for %d points", len(params), np)
	}
	for i := 1; i < np; i++ {
		if !(params[i] > params[i-1]) {
			return nil, nil, fmt.Errorf("%w: parameters do not increase at %d", ErrSingular, i)
		}
	}

	const p = 3
	kv := c2CubicKnots(params)

	size := np + 2
	a := mat.NewDense(size, size, nil)
	b := mat.NewDense(size, 4, nil)
	t0, t1 := params[0], params[np-1]

	// row adds f times the d-th derivatives of the basis functions at u to
	// row i.
	row := func(i int, u float64, d int, f float64) {
		span := kv.Span(p, u)
		ders := dersBasisFuncs(kv, span, p, d, u)
		for j, v := range ders[d] {
			a.Set(i, span-p+j, a.At(i, span-p+j)+f*v)
		}
	}
	rhs := func(i int, hp HomogeneousPoint) {
		b.SetRow(i, []float64{hp.X, hp.Y, hp.Z, hp.W})
	}

	row(0, t0, 0, 1)
	rhs(0, points[0])
	for k := 1; k < np-1; k++ {
		row(k+1, params[k], 0, 1)
		rhs(k+1, points[k])
	}
	row(size-1, t1, 0, 1)
	rhs(size-1, points[np-1])

	if ends.Closed {
		row(1, t0, 1, 1)
		row(1, t1, 1, -1)
		row(size-2, t0, 2, 1)
		row(size-2, t1, 2, -1)
	} else {
		endCondition(row, rhs, 1, t0, ends.StartTangent, ends.SmoothStart, points[0], points[1], points[0].W, params[1]-t0)
		endCondition(row, rhs, size-2, t1, ends.EndTangent, ends.SmoothEnd, points[np-2], points[np-1], points[np-1].W, t1-params[np-2])
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	poles := make([]HomogeneousPoint, size)
	for i := range poles {
		poles[i] = HomogeneousPoint{X: x.At(i, 0), Y: x.At(i, 1), Z: x.At(i, 2), W: x.At(i, 3)}
	}
	return poles, kv, nil
}

// c2CubicKnots returns the knots of the C2 cubic interpolant with the given
// parameters.
func c2CubicKnots(params []float64) KnotVector {
	n := len(params)
	kv := make(KnotVector, 0, n+6)
	kv = append(kv, params[0], params[0], params[0])
	kv = append(kv, params...)
	return append(kv, params[n-1], params[n-1], params[n-1])
}

// endCondition fills row i with the condition at the end with parameter u.
// q0 and q1 are the two points closest to that end, in parameter order, and dt
// is the parameter distance between them.
func endCondition(
	row func(i int, u float64, d int, f float64),
	rhs func(i int, hp HomogeneousPoint),
	i int,
	u float64,
	tangent *Vec3,
	smooth bool,
	q0, q1 HomogeneousPoint,
	w, dt float64,
) {
	switch {
	case tangent != nil:
		row(i, u, 1, 1)
		rhs(i, HomogeneousPoint{X: tangent.X * w, Y: tangent.Y * w, Z: tangent.Z * w})
	case smooth:
		row(i, u, 2, 1)
	default:
		row(i, u, 1, 1)
		rhs(i, q1.Combine(1/dt, q0, -1/dt))
	}
}
