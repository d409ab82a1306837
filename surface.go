package bspline

import (
	"fmt"
	"math"
	"slices"
)

// Surface is a clamped tensor product B-spline surface, optionally rational.
//
// The pole grid has NumU poles in the u direction and NumV poles in the v
// direction. Poles are stored row by row: the pole with u index i and v index
// j is Poles[j*NumU+i].
type Surface struct {
	UOrder, VOrder int
	NumU, NumV     int
	Poles          []Point
	// Weights is parallel to Poles and only used when Rational is set.
	Weights        []float64
	UKnots, VKnots KnotVector
	Rational       bool
}

// Validate checks the structural invariants of the surface.
func (s *Surface) Validate() error {
	if s.UOrder < 2 || s.UOrder > MaxOrder || s.VOrder < 2 || s.VOrder > MaxOrder {
		return fmt.Errorf("%w: orders %d and %d", ErrInvalidSurface, s.UOrder, s.VOrder)
	}
	if s.NumU < s.UOrder || s.NumV < s.VOrder {
		return fmt.Errorf("%w: %d×%d poles for orders %d and %d", ErrInvalidSurface, s.NumU, s.NumV, s.UOrder, s.VOrder)
	}
	if len(s.Poles) != s.NumU*s.NumV {
		return fmt.Errorf("%w: have %d poles, want %d", ErrInvalidSurface, len(s.Poles), s.NumU*s.NumV)
	}
	for i, pt := range s.Poles {
		if pt.IsNaN() || pt.IsInf() {
			return fmt.Errorf("%w: %w: pole %d is %s", ErrInvalidSurface, ErrInvalidPole, i, pt)
		}
	}
	if s.Rational {
		if len(s.Weights) != len(s.Poles) {
			return fmt.Errorf("%w: %w: have %d weights for %d poles", ErrInvalidSurface, ErrInvalidWeights, len(s.Weights), len(s.Poles))
		}
		for i, w := range s.Weights {
			if !(w > 0) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: %w: weight %d is %g", ErrInvalidSurface, ErrInvalidWeights, i, w)
			}
		}
	}
	if err := s.UKnots.Validate(s.NumU, s.UOrder); err != nil {
		return fmt.Errorf("%w: u: %w", ErrInvalidSurface, err)
	}
	if err := s.VKnots.Validate(s.NumV, s.VOrder); err != nil {
		return fmt.Errorf("%w: v: %w", ErrInvalidSurface, err)
	}
	return nil
}

func (s *Surface) Clone() *Surface {
	out := *s
	out.Poles = slices.Clone(s.Poles)
	out.Weights = slices.Clone(s.Weights)
	out.UKnots = s.UKnots.Clone()
	out.VKnots = s.VKnots.Clone()
	return &out
}

// Pole returns the pole with u index i and v index j.
func (s *Surface) Pole(i, j int) Point {
	return s.Poles[j*s.NumU+i]
}

// Weight returns the weight of the pole with u index i and v index j, which
// is 1 for non-rational surfaces.
func (s *Surface) Weight(i, j int) float64 {
	if !s.Rational {
		return 1
	}
	return s.Weights[j*s.NumU+i]
}

// Eval evaluates the surface at (u, v). Both parameters are clamped to the
// domain.
func (s *Surface) Eval(u, v float64) Point {
	p, q := s.UOrder-1, s.VOrder-1
	u = min(max(u, s.UKnots[p]), s.UKnots[s.NumU])
	v = min(max(v, s.VKnots[q]), s.VKnots[s.NumV])
	ku := s.UKnots.Span(p, u)
	kv := s.VKnots.Span(q, v)
	nu := basisFuncs(s.UKnots, ku, p, u)
	nv := basisFuncs(s.VKnots, kv, q, v)

	var sum HomogeneousPoint
	for b := 0; b <= q; b++ {
		j := kv - q + b
		var row HomogeneousPoint
		for a := 0; a <= p; a++ {
			i := ku - p + a
			row = row.Add(Homogenize(s.Pole(i, j), s.Weight(i, j)).Mul(nu[a]))
		}
		sum = sum.Add(row.Mul(nv[b]))
	}
	return sum.Point()
}

// SwapUV returns a copy of the surface with the u and v directions
// exchanged.
func (s *Surface) SwapUV() *Surface {
	out := &Surface{
		UOrder:   s.VOrder,
		VOrder:   s.UOrder,
		NumU:     s.NumV,
		NumV:     s.NumU,
		Poles:    make([]Point, len(s.Poles)),
		UKnots:   s.VKnots.Clone(),
		VKnots:   s.UKnots.Clone(),
		Rational: s.Rational,
	}
	if s.Rational {
		out.Weights = make([]float64, len(s.Weights))
	}
	for j := range s.NumV {
		for i := range s.NumU {
			out.Poles[i*s.NumV+j] = s.Poles[j*s.NumU+i]
			if s.Rational {
				out.Weights[i*s.NumV+j] = s.Weights[j*s.NumU+i]
			}
		}
	}
	return out
}

// Transform returns a copy of the surface with every pole transformed by
// aff.
func (s *Surface) Transform(aff Affine) *Surface {
	out := s.Clone()
	for i, pt := range out.Poles {
		out.Poles[i] = pt.Transform(aff)
	}
	return out
}

// BoundingBox returns the bounding box of the poles, which encloses the
// surface.
func (s *Surface) BoundingBox() Box {
	return BoxOf(s.Poles)
}

// UCurve returns the row of poles with v index j as a curve in the u
// direction. It is the iso-curve v = VKnots[j] only where that knot has full
// multiplicity, such as at the ends.
func (s *Surface) UCurve(j int) *Curve {
	c := &Curve{
		Order:    s.UOrder,
		Poles:    slices.Clone(s.Poles[j*s.NumU : (j+1)*s.NumU]),
		Knots:    s.UKnots.Clone(),
		Rational: s.Rational,
	}
	if s.Rational {
		c.Weights = slices.Clone(s.Weights[j*s.NumU : (j+1)*s.NumU])
	}
	return c
}

// VCurve returns the column of poles with u index i as a curve in the v
// direction.
func (s *Surface) VCurve(i int) *Curve {
	c := &Curve{
		Order:    s.VOrder,
		Poles:    make([]Point, s.NumV),
		Knots:    s.VKnots.Clone(),
		Rational: s.Rational,
	}
	if s.Rational {
		c.Weights = make([]float64, s.NumV)
	}
	for j := range s.NumV {
		c.Poles[j] = s.Pole(i, j)
		if s.Rational {
			c.Weights[j] = s.Weight(i, j)
		}
	}
	return c
}
