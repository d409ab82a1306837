package bspline

import "errors"

var (
	// ErrNoCurves is returned when an operation is given an empty curve set.
	ErrNoCurves = errors.New("bspline: no curves")
	// ErrInvalidOrder is returned for orders below 2 or above MaxOrder.
	ErrInvalidOrder = errors.New("bspline: invalid order")
	// ErrKnotCount is returned when len(knots) != numPoles + order, or there
	// are fewer poles than the order requires.
	ErrKnotCount = errors.New("bspline: knot count does not match poles and order")
	// ErrKnotVector is returned for decreasing or unclamped knot vectors.
	ErrKnotVector = errors.New("bspline: invalid knot vector")
	// ErrInvalidWeights is returned for rational curves whose weights are
	// missing, non-finite or not positive.
	ErrInvalidWeights = errors.New("bspline: invalid weights")
	// ErrInvalidPole is returned for poles with NaN or infinite coordinates.
	ErrInvalidPole = errors.New("bspline: invalid pole")
	// ErrOrderTooLarge is returned when degree elevation would exceed
	// MaxOrder.
	ErrOrderTooLarge = errors.New("bspline: order too large")
	// ErrTooFewSections is returned when lofting fewer than two sections.
	ErrTooFewSections = errors.New("bspline: lofting needs at least two sections")
	// ErrNotCompatible is returned when curves that must share order and knots
	// don't.
	ErrNotCompatible = errors.New("bspline: curves are not compatible")
	// ErrSingular is returned when an interpolation system cannot be solved.
	ErrSingular = errors.New("bspline: singular interpolation system")
	// ErrTooFewPoints is returned when interpolating fewer than two points.
	ErrTooFewPoints = errors.New("bspline: too few points")
	// ErrInvalidSurface is returned by Surface.Validate.
	ErrInvalidSurface = errors.New("bspline: invalid surface")
)
