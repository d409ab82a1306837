package bspline

import (
	"fmt"
	"math"
	"slices"
)

// removal holds the blend coefficients for removing one occurrence of the
// knot whose run ends at index r and has multiplicity s, from a knot vector of
// degree p curves. The coefficients depend only on the knot vector, so one
// removal applies identically to every curve that shares it. This is the
// property that keeps a set of compatible curves compatible while knots are
// removed from all of them at once.
//
// The formulas are those of algorithm A5.8 of The NURBS Book, with the
// averaging of the two candidate poles used for odd p+s from Tiller's bounded
// removal.
type removal struct {
	p, r, s int
	// first and last delimit the poles that change; off = first-1.
	first, last, off int
	// fout is the index of the pole that disappears.
	fout int
	alf  []float64
	bet  []float64
	odd  bool
	// lam blends the two candidate poles when p+s is odd.
	lam float64
	// del locates the middle pole when p+s is even.
	del float64
}

func newRemoval(kv KnotVector, p, r, s int) removal {
	rm := removal{
		p:     p,
		r:     r,
		s:     s,
		first: r - p,
		last:  r - s,
		off:   r - p - 1,
		fout:  (2*r - s - p) / 2,
		odd:   (p+s)%2 == 1,
	}
	rm.alf = make([]float64, rm.last-rm.first+1)
	rm.bet = make([]float64, rm.last-rm.first+1)
	i, j := rm.first, rm.last
	for j-i > 0 {
		rm.alf[i-rm.first] = (kv[i+p+1] - kv[i]) / (kv[r] - kv[i])
		rm.bet[j-rm.first] = (kv[j+p+1] - kv[j]) / (kv[j+p+1] - kv[r])
		i++
		j--
	}
	if rm.odd {
		k := (p + s + 1) / 2
		i0 := r - k
		al := (kv[r] - kv[i0]) / (kv[i0+p+1] - kv[i0])
		be := (kv[r] - kv[i0+1]) / (kv[i0+p+2] - kv[i0+1])
		rm.lam = al / (al + be)
	} else {
		rm.del = (kv[r] - kv[i]) / (kv[i+p+1] - kv[i])
	}
	return rm
}

// sweep computes the candidate poles from both ends towards the middle. The
// result is indexed by pole index minus off.
func (rm removal) sweep(pw []HomogeneousPoint) (tmp []HomogeneousPoint, ii, jj int) {
	tmp = make([]HomogeneousPoint, rm.last-rm.off+2)
	tmp[0] = pw[rm.off]
	tmp[rm.last+1-rm.off] = pw[rm.last+1]
	i, j := rm.first, rm.last
	ii, jj = 1, rm.last-rm.off
	for j-i > 0 {
		a, b := rm.alf[i-rm.first], rm.bet[j-rm.first]
		tmp[ii] = pw[i].Combine(a, tmp[ii-1], 1-a)
		tmp[jj] = pw[j].Combine(b, tmp[jj+1], 1-b)
		i++
		j--
		ii++
		jj--
	}
	return tmp, ii, jj
}

// bound returns the distance, in homogeneous space, between the curve and
// the curve with the knot removed, measured at the poles. It bounds the
// maximum deviation the removal introduces.
func (rm removal) bound(pw []HomogeneousPoint) float64 {
	tmp, ii, jj := rm.sweep(pw)
	if rm.odd {
		return tmp[ii-1].Distance(tmp[jj+1])
	}
	a := tmp[jj+1].Combine(rm.del, tmp[ii-1], 1-rm.del)
	return pw[rm.first+ii-1].Distance(a)
}

// trial returns the poles that would replace pw[first..last], indexed by pole
// index minus off. The entry at fout-off is meaningless.
func (rm removal) trial(pw []HomogeneousPoint) []HomogeneousPoint {
	tmp, ii, jj := rm.sweep(pw)
	if rm.odd {
		tmp[jj+1] = tmp[jj+1].Combine(rm.lam, tmp[ii-1], 1-rm.lam)
	}
	return tmp
}

// stored calls fn for every pole index whose value the removal writes.
func (rm removal) stored(fn func(i int)) {
	for i := rm.first; i <= rm.last; i++ {
		if i != rm.fout {
			fn(i)
		}
	}
}

// apply returns the pole sequence after the removal, given the result of
// trial.
func (rm removal) apply(pw, tmp []HomogeneousPoint) []HomogeneousPoint {
	out := slices.Clone(pw)
	rm.stored(func(i int) { out[i] = tmp[i-rm.off] })
	return slices.Delete(out, rm.fout, rm.fout+1)
}

// RemovalBound returns an upper bound for the deviation caused by removing
// one occurrence of the knot at index r, whose multiplicity is s, from c. The
// index must be that of the last knot in its run, and the knot must be
// interior. For rational curves, the bound is measured in homogeneous space.
func RemovalBound(c *Curve, r, s int) float64 {
	return newRemoval(c.Knots, c.Degree(), r, s).bound(c.Homogeneous())
}

// RemoveKnot removes one occurrence of the interior knot at index r without
// checking the error this introduces. The index must be that of the last knot
// in its run.
func (c *Curve) RemoveKnot(r int) (*Curve, error) {
	p := c.Degree()
	if r <= p || r >= c.NumPoles() {
		return nil, fmt.Errorf("bspline: RemoveKnot: index %d is not an interior knot", r)
	}
	if r+1 < len(c.Knots) && c.Knots[r+1]-c.Knots[r] < KnotTolerance {
		return nil, fmt.Errorf("bspline: RemoveKnot: index %d is not the last knot of its run", r)
	}
	kv, pw := removeKnotExact(c.Knots, p, r, c.Knots.Multiplicity(r), c.Homogeneous())
	out := &Curve{Order: c.Order, Knots: kv, Rational: c.Rational}
	out.setHomogeneous(pw)
	return out, nil
}

func removeKnotExact(kv KnotVector, p, r, s int, pw []HomogeneousPoint) (KnotVector, []HomogeneousPoint) {
	rm := newRemoval(kv, p, r, s)
	pw = rm.apply(pw, rm.trial(pw))
	return slices.Delete(kv.Clone(), r, r+1), pw
}

// weightsInBand reports whether every weight the removal would store lies in
// [WeightMin, WeightMax].
func (rm removal) weightsInBand(tmp []HomogeneousPoint) bool {
	ok := true
	rm.stored(func(i int) {
		w := tmp[i-rm.off].W
		if !(w >= WeightMin && w <= WeightMax) {
			ok = false
		}
	})
	return ok
}

// hugeBound marks knots for which no bound is known.
var hugeBound = math.Inf(1)
