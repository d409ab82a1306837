package bspline

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
)

// TangentControl selects the curve ends whose derivatives knot removal must
// preserve.
type TangentControl int

const (
	// NoTangentControl allows removal of any interior knot.
	NoTangentControl TangentControl = iota
	// StartTangent preserves the derivatives at the start of the curves.
	StartTangent
	// EndTangent preserves the derivatives at the end of the curves.
	EndTangent
	// BothTangents preserves the derivatives at both ends.
	BothTangents
)

func (tc TangentControl) String() string {
	switch tc {
	case NoTangentControl:
		return "none"
	case StartTangent:
		return "start"
	case EndTangent:
		return "end"
	case BothTangents:
		return "both"
	default:
		return fmt.Sprintf("TangentControl(%d)", int(tc))
	}
}

// ParseTangentControl parses the names returned by TangentControl.String.
func ParseTangentControl(s string) (TangentControl, error) {
	for tc := NoTangentControl; tc <= BothTangents; tc++ {
		if tc.String() == s {
			return tc, nil
		}
	}
	return 0, fmt.Errorf("bspline: unknown tangent control %q", s)
}

func (tc TangentControl) start() bool { return tc == StartTangent || tc == BothTangents }
func (tc TangentControl) end() bool   { return tc == EndTangent || tc == BothTangents }

// CompatOptions configures [MakeCompatible].
type CompatOptions struct {
	// Tolerance is the maximum deviation knot removal may introduce in any
	// curve. Zero disables knot removal.
	Tolerance float64
	// TangentControl selects the protected curve ends.
	TangentControl TangentControl
	// KeepMagnitude preserves the magnitude of the protected derivatives, not
	// just their direction. Only a Derivative of 1 can trade magnitude for
	// additional removals.
	KeepMagnitude bool
	// Derivative is the highest derivative that is preserved at protected
	// ends.
	Derivative int
	// Logger receives debug events for every removal attempt. It may be nil.
	Logger *zap.Logger
}

// DefaultCompat unifies curves without removing knots.
var DefaultCompat = CompatOptions{
	TangentControl: NoTangentControl,
	KeepMagnitude:  true,
	Derivative:     1,
}

func (o CompatOptions) WithTolerance(tol float64) CompatOptions { o.Tolerance = tol; return o }
func (o CompatOptions) WithTangentControl(tc TangentControl) CompatOptions {
	o.TangentControl = tc
	return o
}
func (o CompatOptions) WithKeepMagnitude(keep bool) CompatOptions { o.KeepMagnitude = keep; return o }
func (o CompatOptions) WithDerivative(der int) CompatOptions      { o.Derivative = der; return o }
func (o CompatOptions) WithLogger(log *zap.Logger) CompatOptions  { o.Logger = log; return o }

// CloneCompatible returns copies of the curves that share one order and one
// knot vector and trace the same shapes. Each curve's knots are
// normalized to [0, 1], its degree is raised to the largest degree in the set,
// and every knot of the union of all knot vectors is inserted with its largest
// multiplicity.
func CloneCompatible(curves []*Curve) ([]*Curve, error) {
	if len(curves) == 0 {
		return nil, ErrNoCurves
	}
	order := 0
	for i, c := range curves {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("bspline: curve %d: %w", i, err)
		}
		order = max(order, c.Order)
	}

	out := make([]*Curve, len(curves))
	kvs := make([]KnotVector, len(curves))
	for i, c := range curves {
		e, err := c.NormalizeKnots().ElevateDegree(order - c.Order)
		if err != nil {
			return nil, fmt.Errorf("bspline: curve %d: %w", i, err)
		}
		out[i] = e
		kvs[i] = e.Knots
	}
	union := clampedKnots(order, mergeKnots(kvs, order))
	for i, c := range out {
		out[i] = c.refine(union)
	}
	return out, nil
}

// MakeCompatible returns copies of the curves that share one order and one
// knot vector, with as many knots removed as the tolerance allows.
//
// The curves are first unified with [CloneCompatible]. Then, while possible,
// the interior knot whose removal bounds summed over all curves is smallest is
// removed from every curve at once. A knot is kept if removing it would
//
//   - change protected end derivatives (see [CompatOptions]),
//   - store a weight outside [WeightMin, WeightMax] in any rational curve, or
//   - let the accumulated deviation of any curve exceed the tolerance on a knot
//     span the removal affects.
//
// Knots that were kept once are not considered again. The greedy order is not
// guaranteed to remove the largest possible number of knots.
//
// MakeCompatible fails only if the curves cannot be unified. Stopping early
// because no knot can be removed is not an error.
func MakeCompatible(curves []*Curve, opts CompatOptions) ([]*Curve, error) {
	out, err := CloneCompatible(curves)
	if err != nil {
		return nil, err
	}
	if opts.Tolerance <= 0 {
		return out, nil
	}
	newRemovalSet(out, opts).run()
	return out, nil
}

// RemoveKnotsBounded removes as many knots from c as the tolerance allows.
// It is MakeCompatible applied to a single curve; the knots of the result are
// normalized to [0, 1].
func (c *Curve) RemoveKnotsBounded(tol float64, tc TangentControl, keepMagnitude bool, der int) (*Curve, error) {
	opts := DefaultCompat.
		WithTolerance(tol).
		WithTangentControl(tc).
		WithKeepMagnitude(keepMagnitude).
		WithDerivative(der)
	out, err := MakeCompatible([]*Curve{c}, opts)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

type rejectReason string

const (
	rejectTangent   rejectReason = "tangent"
	rejectTolerance rejectReason = "tolerance"
	rejectWeight    rejectReason = "weight"
)

// tangentTolerance is the relative tolerance for comparing end tangent
// directions.
const tangentTolerance = 1e-9

// removalSet is the working state of simultaneous knot removal. All curves
// share knots; the per-index slices are indexed like knots and the per-curve
// slices like curves.
type removalSet struct {
	curves []*Curve
	opts   CompatOptions
	log    *zap.Logger

	p     int
	knots KnotVector
	poles [][]HomogeneousPoint
	// tol is each curve's tolerance, in homogeneous space for rational
	// curves.
	tol []float64
	// bounds[c][r] is the removal bound of the knot at r for curve c.
	bounds [][]float64
	// errs[c][i] is the deviation accumulated by curve c on knot span i.
	errs [][]float64
	// mult is the multiplicity of the run ending at each index, and zero for
	// indices that don't end an interior run.
	mult     []int
	rejected []bool
	// startDir and endDir are the end tangent directions of every curve.
	startDir, endDir []Vec3
}

func newRemovalSet(curves []*Curve, opts CompatOptions) *removalSet {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rs := &removalSet{
		curves: curves,
		opts:   opts,
		log:    log,
		p:      curves[0].Degree(),
		knots:  curves[0].Knots.Clone(),
	}
	nk := len(rs.knots)
	rs.mult = make([]int, nk)
	rs.rejected = make([]bool, nk)
	for _, c := range curves {
		pw := c.Homogeneous()
		rs.poles = append(rs.poles, pw)
		rs.tol = append(rs.tol, homogeneousTolerance(c, opts.Tolerance))
		rs.bounds = append(rs.bounds, slices.Repeat([]float64{hugeBound}, nk))
		rs.errs = append(rs.errs, make([]float64, nk))
		rs.startDir = append(rs.startDir, c.Poles[1].Sub(c.Poles[0]))
		rs.endDir = append(rs.endDir, c.Poles[len(c.Poles)-1].Sub(c.Poles[len(c.Poles)-2]))
	}

	n := rs.n()
	for r := rs.p + 1; r <= n; r++ {
		i := r
		for r <= n && rs.knots[r+1]-rs.knots[r] < KnotTolerance {
			r++
		}
		rs.mult[r] = r - i + 1
		rs.updateBound(r)
	}
	return rs
}

// n is the index of the last pole.
func (rs *removalSet) n() int { return len(rs.poles[0]) - 1 }

func (rs *removalSet) updateBound(r int) {
	rm := newRemoval(rs.knots, rs.p, r, rs.mult[r])
	for c, pw := range rs.poles {
		rs.bounds[c][r] = rm.bound(pw)
	}
}

// next returns the candidate knot with the smallest summed bound, or -1.
func (rs *removalSet) next() (int, float64) {
	best, bestSum := -1, math.Inf(1)
	for r := rs.p + 1; r <= rs.n(); r++ {
		if rs.mult[r] == 0 || rs.rejected[r] {
			continue
		}
		sum := 0.0
		for c := range rs.poles {
			sum += rs.bounds[c][r]
		}
		if best == -1 || sum < bestSum {
			best, bestSum = r, sum
		}
	}
	return best, bestSum
}

func (rs *removalSet) run() {
	for rs.n() > rs.p {
		r, sum := rs.next()
		if r == -1 {
			break
		}
		s, u := rs.mult[r], rs.knots[r]
		if reason, ok := rs.try(r, s); !ok {
			rs.rejected[r] = true
			rs.log.Debug("knot kept",
				zap.Int("index", r),
				zap.Float64("value", u),
				zap.Int("multiplicity", s),
				zap.Float64("bound", sum),
				zap.String("reason", string(reason)))
			continue
		}
		rs.log.Debug("knot removed",
			zap.Int("index", r),
			zap.Float64("value", u),
			zap.Int("multiplicity", s),
			zap.Float64("bound", sum),
			zap.Int("poles", rs.n()+1))
	}

	for c, out := range rs.curves {
		out.Knots = rs.knots.Clone()
		out.setHomogeneous(rs.poles[c])
	}
}

// try removes one occurrence of the knot at r from every curve if that is
// allowed.
func (rs *removalSet) try(r, s int) (rejectReason, bool) {
	p, n, der := rs.p, rs.n(), rs.opts.Derivative
	tc := rs.opts.TangentControl
	protectStart := tc.start() && r <= p+der
	protectEnd := tc.end() && r >= n-der+1
	relaxed := !rs.opts.KeepMagnitude && der == 1
	if (protectStart || protectEnd) && !relaxed {
		return rejectTangent, false
	}

	// Spans whose accumulated error grows.
	var lo, hi int
	if (p+s)%2 == 1 {
		k := (p + s + 1) / 2
		lo, hi = r-k, r-k+p+1
	} else {
		k := (p + s) / 2
		lo, hi = r-k, r-k+p
	}
	for c := range rs.poles {
		for i := lo; i <= hi; i++ {
			if rs.knots[i+1]-rs.knots[i] > KnotTolerance && rs.errs[c][i]+rs.bounds[c][r] > rs.tol[c] {
				return rejectTolerance, false
			}
		}
	}

	rm := newRemoval(rs.knots, p, r, s)
	next := make([][]HomogeneousPoint, len(rs.poles))
	for c, pw := range rs.poles {
		tmp := rm.trial(pw)
		if rs.curves[c].Rational && !rm.weightsInBand(tmp) {
			return rejectWeight, false
		}
		next[c] = rm.apply(pw, tmp)
	}
	for c, pw := range next {
		if protectStart && !rs.startDir[c].Parallel(pw[1].Point().Sub(pw[0].Point()), tangentTolerance) {
			return rejectTangent, false
		}
		if protectEnd && !rs.endDir[c].Parallel(pw[len(pw)-1].Point().Sub(pw[len(pw)-2].Point()), tangentTolerance) {
			return rejectTangent, false
		}
	}

	// Accept.
	for c := range rs.poles {
		for i := lo; i <= hi; i++ {
			if rs.knots[i+1]-rs.knots[i] > KnotTolerance {
				rs.errs[c][i] += rs.bounds[c][r]
			}
		}
		rs.poles[c] = next[c]
	}
	rs.compact(r, s)
	if rs.n() == p {
		return "", true
	}
	for i := max(r-p, p+1); i <= min(rs.n(), r+p-s); i++ {
		if rs.mult[i] > 0 && !rs.rejected[i] {
			rs.updateBound(i)
		}
	}
	return "", true
}

// compact deletes the knot at r from the per-index state. The spans on either
// side of it merge and keep the larger accumulated error.
func (rs *removalSet) compact(r, s int) {
	for c := range rs.errs {
		rs.errs[c][r-1] = max(rs.errs[c][r-1], rs.errs[c][r])
		rs.errs[c] = slices.Delete(rs.errs[c], r, r+1)
		rs.bounds[c] = slices.Delete(rs.bounds[c], r, r+1)
	}
	if s > 1 {
		rs.mult[r-1] = s - 1
		rs.rejected[r-1] = false
	}
	rs.mult = slices.Delete(rs.mult, r, r+1)
	rs.rejected = slices.Delete(rs.rejected, r, r+1)
	rs.knots = slices.Delete(rs.knots, r, r+1)
}
