package bspline

import "fmt"

// ElevateDegree returns a copy of c whose degree is raised by t. The shape of
// the curve does not change and the continuity at every interior knot is
// preserved, so each interior knot's multiplicity grows by t.
//
// The curve is split into Bézier segments, each segment is elevated, and the
// knots introduced by the split are removed again. All three steps are exact.
func (c *Curve) ElevateDegree(t int) (*Curve, error) {
	if t < 0 {
		return nil, fmt.Errorf("bspline: ElevateDegree: negative elevation %d", t)
	}
	if c.Order+t > MaxOrder {
		return nil, fmt.Errorf("%w: elevating order %d by %d", ErrOrderTooLarge, c.Order, t)
	}
	if t == 0 {
		return c.Clone(), nil
	}

	p := c.Degree()
	ph := p + t
	kv, pw := c.Knots, c.Homogeneous()
	runs := kv.InteriorRuns(c.Order)

	// Split into Bézier segments.
	for _, run := range runs {
		if run.Multiplicity < p {
			kv, pw = insertKnot(kv, p, pw, run.Value, p-run.Multiplicity)
		}
	}

	// Elevate every segment. Adjacent segments share an end pole.
	out := make([]HomogeneousPoint, 0, (len(runs)+1)*ph+1)
	for e := 0; e <= len(runs); e++ {
		seg := elevateBezier(pw[e*p:e*p+p+1], t)
		if e > 0 {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	lo, hi := c.Domain()
	var nkv KnotVector
	for range ph + 1 {
		nkv = append(nkv, lo)
	}
	for _, run := range runs {
		for range ph {
			nkv = append(nkv, run.Value)
		}
	}
	for range ph + 1 {
		nkv = append(nkv, hi)
	}

	// Remove the knots the split introduced, right to left so the indices of
	// the runs still to be processed stay valid.
	for e := len(runs) - 1; e >= 0; e-- {
		r := ph * (e + 2)
		s := ph
		for range p - runs[e].Multiplicity {
			nkv, out = removeKnotExact(nkv, ph, r, s, out)
			r--
			s--
		}
	}

	res := &Curve{Order: ph + 1, Knots: nkv, Rational: c.Rational}
	res.setHomogeneous(out)
	return res, nil
}

// elevateBezier raises the degree of a Bézier segment by t.
func elevateBezier(bez []HomogeneousPoint, t int) []HomogeneousPoint {
	p := len(bez) - 1
	out := make([]HomogeneousPoint, p+t+1)
	for i := range out {
		for j := max(0, i-t); j <= min(p, i); j++ {
			coef := binomial(p, j) * binomial(t, i-j) / binomial(p+t, i)
			out[i] = out[i].Add(bez[j].Mul(coef))
		}
	}
	return out
}

func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	b := 1.0
	for i := 1; i <= k; i++ {
		b = b * float64(n-k+i) / float64(i)
	}
	return b
}
