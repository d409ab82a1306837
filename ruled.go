package bspline

import (
	"fmt"
	"slices"
)

// RuledSurface returns the surface that linearly interpolates between two
// curves. The curves are made compatible without removing knots first.
func RuledSurface(c1, c2 *Curve) (*Surface, error) {
	cs, err := CloneCompatible([]*Curve{c1, c2})
	if err != nil {
		return nil, fmt.Errorf("bspline: RuledSurface: %w", err)
	}
	return RuledSurfaceFromCompatible(cs[0], cs[1])
}

// RuledSurfaceFromCompatible returns the surface that linearly interpolates
// between two compatible curves. The first curve becomes the row v = 0, the
// second the row v = 1, and the u knots are those of the curves.
func RuledSurfaceFromCompatible(c1, c2 *Curve) (*Surface, error) {
	if !Compatible(c1, c2) {
		return nil, fmt.Errorf("bspline: RuledSurfaceFromCompatible: %w", ErrNotCompatible)
	}
	n := c1.NumPoles()
	s := &Surface{
		UOrder:   c1.Order,
		VOrder:   2,
		NumU:     n,
		NumV:     2,
		Poles:    slices.Concat(c1.Poles, c2.Poles),
		UKnots:   c1.Knots.Clone(),
		VKnots:   KnotVector{0, 0, 1, 1},
		Rational: c1.Rational || c2.Rational,
	}
	if s.Rational {
		s.Weights = make([]float64, 2*n)
		for i := range n {
			s.Weights[i] = c1.Weight(i)
			s.Weights[n+i] = c2.Weight(i)
		}
	}
	return s, nil
}
