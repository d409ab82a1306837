package bspline

import (
	"fmt"
	"math"
	"slices"
)

// MaxOrder is the largest order supported by curves and surfaces.
const MaxOrder = 26

// MaxPoles is the largest pole count downstream consumers accept in the u
// direction of a surface. See [Loft].
const MaxPoles = 101

// Curve is a clamped B-spline curve, optionally rational.
//
// Curves are treated as values: none of the functions in this package modify
// a curve passed to them, and all of them return freshly allocated curves.
type Curve struct {
	// Order is the degree plus one. It must be at least 2.
	Order int
	// Poles are the control points.
	Poles []Point
	// Weights holds one weight per pole. It is only used when Rational is
	// set.
	Weights []float64
	// Knots has len(Poles) + Order entries.
	Knots KnotVector
	// Rational marks curves whose weights are meaningful.
	Rational bool
}

// NewCurve returns a validated curve. A nil knot vector is replaced by
// [UniformKnots]; a non-nil weights slice makes the curve rational.
func NewCurve(order int, poles []Point, weights []float64, knots KnotVector) (*Curve, error) {
	if knots == nil && order >= 2 && len(poles) >= order {
		knots = UniformKnots(len(poles), order)
	}
	c := &Curve{
		Order:    order,
		Poles:    slices.Clone(poles),
		Weights:  slices.Clone(weights),
		Knots:    knots.Clone(),
		Rational: weights != nil,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewBezier returns the non-rational Bézier curve with the given poles on the
// parameter range [0, 1]. It panics for fewer than two poles.
func NewBezier(poles ...Point) *Curve {
	if len(poles) < 2 {
		panic("NewBezier needs at least two poles")
	}
	return &Curve{
		Order: len(poles),
		Poles: slices.Clone(poles),
		Knots: UniformKnots(len(poles), len(poles)),
	}
}

// NewUniform returns a non-rational curve with uniformly spaced interior
// knots on [0, 1].
func NewUniform(order int, poles ...Point) (*Curve, error) {
	return NewCurve(order, poles, nil, nil)
}

// Validate checks the structural invariants of the curve.
func (c *Curve) Validate() error {
	if c.Order < 2 || c.Order > MaxOrder {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, c.Order)
	}
	if len(c.Poles) < c.Order {
		return fmt.Errorf("%w: %d poles for order %d", ErrKnotCount, len(c.Poles), c.Order)
	}
	for i, pt := range c.Poles {
		if pt.IsNaN() || pt.IsInf() {
			return fmt.Errorf("%w: pole %d is %s", ErrInvalidPole, i, pt)
		}
	}
	if c.Rational {
		if len(c.Weights) != len(c.Poles) {
			return fmt.Errorf("%w: have %d weights for %d poles", ErrInvalidWeights, len(c.Weights), len(c.Poles))
		}
		for i, w := range c.Weights {
			if !(w > 0) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: weight %d is %g", ErrInvalidWeights, i, w)
			}
		}
	}
	return c.Knots.Validate(len(c.Poles), c.Order)
}

func (c *Curve) Clone() *Curve {
	return &Curve{
		Order:    c.Order,
		Poles:    slices.Clone(c.Poles),
		Weights:  slices.Clone(c.Weights),
		Knots:    c.Knots.Clone(),
		Rational: c.Rational,
	}
}

func (c *Curve) NumPoles() int { return len(c.Poles) }
func (c *Curve) Degree() int   { return c.Order - 1 }

// Domain returns the parameter range of the curve.
func (c *Curve) Domain() (float64, float64) {
	return c.Knots[c.Order-1], c.Knots[len(c.Poles)]
}

// Weight returns the weight of pole i, which is 1 for non-rational curves.
func (c *Curve) Weight(i int) float64 {
	if !c.Rational {
		return 1
	}
	return c.Weights[i]
}

// Homogeneous returns the weighted poles of the curve.
func (c *Curve) Homogeneous() []HomogeneousPoint {
	pw := make([]HomogeneousPoint, len(c.Poles))
	for i, pt := range c.Poles {
		pw[i] = Homogenize(pt, c.Weight(i))
	}
	return pw
}

// setHomogeneous replaces the poles (and weights, for rational curves) with
// the dehomogenized pw.
func (c *Curve) setHomogeneous(pw []HomogeneousPoint) {
	c.Poles = make([]Point, len(pw))
	if c.Rational {
		c.Weights = make([]float64, len(pw))
	}
	for i, hp := range pw {
		if c.Rational {
			c.Poles[i] = hp.Point()
			c.Weights[i] = hp.W
		} else {
			c.Poles[i] = Pt(hp.X, hp.Y, hp.Z)
		}
	}
}

// Eval evaluates the curve at parameter u, which is clamped to the domain.
// This is de Boor's algorithm applied to the weighted poles.
func (c *Curve) Eval(u float64) Point {
	p := c.Degree()
	lo, hi := c.Domain()
	u = min(max(u, lo), hi)
	k := c.Knots.Span(p, u)
	d := make([]HomogeneousPoint, p+1)
	for j := range d {
		d[j] = Homogenize(c.Poles[k-p+j], c.Weight(k-p+j))
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			i := k - p + j
			den := c.Knots[i+p-r+1] - c.Knots[i]
			alpha := 0.0
			if den != 0 {
				alpha = (u - c.Knots[i]) / den
			}
			d[j] = d[j-1].Combine(1-alpha, d[j], alpha)
		}
	}
	return d[p].Point()
}

// Derivative returns the first derivative of the curve at parameter u, which
// is clamped to the domain.
func (c *Curve) Derivative(u float64) Vec3 {
	p := c.Degree()
	lo, hi := c.Domain()
	u = min(max(u, lo), hi)
	k := c.Knots.Span(p, u)
	ders := dersBasisFuncs(c.Knots, k, p, 1, u)
	var a, da HomogeneousPoint
	for j := 0; j <= p; j++ {
		hp := Homogenize(c.Poles[k-p+j], c.Weight(k-p+j))
		a = a.Add(hp.Mul(ders[0][j]))
		da = da.Add(hp.Mul(ders[1][j]))
	}
	// C' = (A' - w'C) / w
	pt := a.Point()
	return Vec(
		(da.X-da.W*pt.X)/a.W,
		(da.Y-da.W*pt.Y)/a.W,
		(da.Z-da.W*pt.Z)/a.W,
	)
}

// Start returns the first point of the curve.
func (c *Curve) Start() Point { return c.Poles[0] }

// End returns the last point of the curve.
func (c *Curve) End() Point { return c.Poles[len(c.Poles)-1] }

// Transform returns a copy of the curve with every pole transformed by aff.
func (c *Curve) Transform(aff Affine) *Curve {
	out := c.Clone()
	for i, pt := range out.Poles {
		out.Poles[i] = pt.Transform(aff)
	}
	return out
}

// BoundingBox returns the bounding box of the poles, which encloses the
// curve.
func (c *Curve) BoundingBox() Box {
	return BoxOf(c.Poles)
}

// NormalizeKnots returns a copy of the curve reparametrized onto [0, 1].
func (c *Curve) NormalizeKnots() *Curve {
	out := c.Clone()
	out.Knots = c.Knots.Normalized()
	n := len(out.Knots)
	for i := range c.Order {
		out.Knots[i] = 0
		out.Knots[n-1-i] = 1
	}
	return out
}

// MinWeight returns the smallest weight, which is 1 for non-rational curves.
func (c *Curve) MinWeight() float64 {
	if !c.Rational {
		return 1
	}
	return slices.Min(c.Weights)
}

// MaxPoleMagnitude returns the largest distance of a pole from the origin.
func (c *Curve) MaxPoleMagnitude() float64 {
	m := 0.0
	for _, pt := range c.Poles {
		m = max(m, pt.Magnitude())
	}
	return m
}

// Compatible reports whether all curves have identical order and knot
// vectors.
func Compatible(curves ...*Curve) bool {
	if len(curves) == 0 {
		return true
	}
	for _, c := range curves[1:] {
		if c.Order != curves[0].Order || !slices.Equal(c.Knots, curves[0].Knots) {
			return false
		}
	}
	return true
}
