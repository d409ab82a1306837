package bspline

import (
	"fmt"
	"math"
)

// InsertKnot returns a copy of c with the knot u inserted times times. The
// shape of the curve does not change. Inserting an existing knot raises its
// multiplicity; the multiplicity may not exceed the degree. Knots within
// [KnotTolerance] of u are considered equal to it.
func (c *Curve) InsertKnot(u float64, times int) (*Curve, error) {
	lo, hi := c.Domain()
	if !(u > lo && u < hi) {
		return nil, fmt.Errorf("bspline: InsertKnot: %g is outside the open domain (%g, %g)", u, lo, hi)
	}
	if times <= 0 {
		return c.Clone(), nil
	}
	u = snapKnot(c.Knots, u)
	k := c.Knots.Span(c.Degree(), u)
	s := 0
	if c.Knots[k] == u {
		s = c.Knots.Multiplicity(k)
	}
	if s+times > c.Degree() {
		return nil, fmt.Errorf("%w: inserting %g %d times exceeds degree %d", ErrKnotVector, u, times, c.Degree())
	}
	kv, pw := insertKnot(c.Knots, c.Degree(), c.Homogeneous(), u, times)
	out := &Curve{Order: c.Order, Knots: kv, Rational: c.Rational}
	out.setHomogeneous(pw)
	return out, nil
}

// snapKnot returns the existing knot nearest to u if it lies within
// KnotTolerance, and u otherwise.
func snapKnot(kv KnotVector, u float64) float64 {
	best := u
	bestD := KnotTolerance
	for _, k := range kv {
		if d := math.Abs(k - u); d < bestD {
			best, bestD = k, d
		}
	}
	return best
}

// insertKnot inserts u r times into the knot vector and weighted poles of a
// degree p curve. This is algorithm A5.1 of The NURBS Book. u must be
// interior and its multiplicity plus r must not exceed p.
func insertKnot(kv KnotVector, p int, pw []HomogeneousPoint, u float64, r int) (KnotVector, []HomogeneousPoint) {
	n := len(pw) - 1
	k := kv.Span(p, u)
	s := 0
	if kv[k] == u {
		s = kv.Multiplicity(k)
	}

	uq := make(KnotVector, 0, len(kv)+r)
	uq = append(uq, kv[:k+1]...)
	for range r {
		uq = append(uq, u)
	}
	uq = append(uq, kv[k+1:]...)

	qw := make([]HomogeneousPoint, n+1+r)
	copy(qw, pw[:k-p+1])
	for i := k - s; i <= n; i++ {
		qw[i+r] = pw[i]
	}
	rw := make([]HomogeneousPoint, p-s+1)
	copy(rw, pw[k-p:k-s+1])

	var l int
	for j := 1; j <= r; j++ {
		l = k - p + j
		for i := 0; i <= p-j-s; i++ {
			alpha := (u - kv[l+i]) / (kv[i+k+1] - kv[l+i])
			rw[i] = rw[i+1].Combine(alpha, rw[i], 1-alpha)
		}
		qw[l] = rw[0]
		qw[k+r-j-s] = rw[p-j-s]
	}
	for i := l + 1; i < k-s; i++ {
		qw[i] = rw[i-l]
	}
	return uq, qw
}

// refine inserts every knot of target missing from c, leaving c with exactly
// the knot vector target. Both knot vectors must be normalized and clamped for
// the same order, and target's interior runs must include c's.
func (c *Curve) refine(target KnotVector) *Curve {
	kv, pw := c.Knots, c.Homogeneous()
	p := c.Degree()
	for _, run := range target.InteriorRuns(c.Order) {
		u := snapKnot(kv, run.Value)
		if missing := run.Multiplicity - kv.multiplicityOf(u); missing > 0 {
			kv, pw = insertKnot(kv, p, pw, u, missing)
		}
	}
	out := &Curve{Order: c.Order, Knots: target.Clone(), Rational: c.Rational}
	out.setHomogeneous(pw)
	return out
}
