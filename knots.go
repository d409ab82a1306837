package bspline

import (
	"fmt"
	"math"
	"slices"
)

// KnotTolerance is the distance below which two knot values are considered
// equal. Knots are normalized to [0, 1] before they are compared across
// curves, which makes an absolute tolerance meaningful.
const KnotTolerance = 1e-10

// KnotVector is a non-decreasing sequence of parameter values.
type KnotVector []float64

// KnotRun describes a run of equal knots.
type KnotRun struct {
	// Value is the knot value.
	Value float64
	// Last is the index of the last knot of the run.
	Last int
	// Multiplicity is the number of knots in the run.
	Multiplicity int
}

func (kv KnotVector) Clone() KnotVector {
	return slices.Clone(kv)
}

// NumKnots returns the number of knots of a clamped curve with the given
// number of poles and order.
func NumKnots(numPoles, order int) int {
	return numPoles + order
}

// Validate checks that kv is a non-decreasing, clamped knot vector for a curve
// with numPoles poles of the given order.
func (kv KnotVector) Validate(numPoles, order int) error {
	if len(kv) != NumKnots(numPoles, order) {
		return fmt.Errorf("%w: have %d knots, want %d", ErrKnotCount, len(kv), NumKnots(numPoles, order))
	}
	for i, k := range kv {
		if math.IsNaN(k) || math.IsInf(k, 0) {
			return fmt.Errorf("%w: knot %d is %g", ErrKnotVector, i, k)
		}
		if i > 0 && k < kv[i-1] {
			return fmt.Errorf("%w: knot %d decreases", ErrKnotVector, i)
		}
	}
	if kv.Domain() <= 0 {
		return fmt.Errorf("%w: empty domain", ErrKnotVector)
	}
	if !kv.IsClamped(order) {
		return fmt.Errorf("%w: not clamped", ErrKnotVector)
	}
	runs := kv.Runs()
	for i, run := range runs {
		limit := order - 1
		if i == 0 || i == len(runs)-1 {
			limit = order
		}
		if run.Multiplicity > limit {
			return fmt.Errorf("%w: knot %g has multiplicity %d > %d",
				ErrKnotVector, run.Value, run.Multiplicity, limit)
		}
	}
	return nil
}

// IsClamped reports whether the first and last order knots are equal.
func (kv KnotVector) IsClamped(order int) bool {
	if len(kv) < 2*order {
		return false
	}
	n := len(kv)
	for i := 1; i < order; i++ {
		if kv[i]-kv[0] > KnotTolerance*kv.scale() || kv[n-1]-kv[n-1-i] > KnotTolerance*kv.scale() {
			return false
		}
	}
	return true
}

// scale returns the magnitude used to make KnotTolerance relative for knot
// vectors that are not normalized.
func (kv KnotVector) scale() float64 {
	return max(1, math.Abs(kv[0]), math.Abs(kv[len(kv)-1]))
}

// Domain returns the length of the parameter range.
func (kv KnotVector) Domain() float64 {
	return kv[len(kv)-1] - kv[0]
}

// Normalized returns a copy of kv mapped affinely onto [0, 1].
func (kv KnotVector) Normalized() KnotVector {
	out := make(KnotVector, len(kv))
	a, d := kv[0], kv.Domain()
	for i, k := range kv {
		out[i] = (k - a) / d
	}
	out[0] = 0
	out[len(out)-1] = 1
	return out
}

// IsNormalized reports whether kv spans exactly [0, 1].
func (kv KnotVector) IsNormalized() bool {
	return kv[0] == 0 && kv[len(kv)-1] == 1
}

// Equal reports whether both knot vectors have the same length and their
// knots differ by at most tol.
func (kv KnotVector) Equal(o KnotVector, tol float64) bool {
	if len(kv) != len(o) {
		return false
	}
	for i := range kv {
		if math.Abs(kv[i]-o[i]) > tol {
			return false
		}
	}
	return true
}

// Runs returns the runs of equal knots, in increasing order.
func (kv KnotVector) Runs() []KnotRun {
	var out []KnotRun
	for i := 0; i < len(kv); {
		j := i
		for j+1 < len(kv) && kv[j+1]-kv[i] < KnotTolerance {
			j++
		}
		out = append(out, KnotRun{Value: kv[i], Last: j, Multiplicity: j - i + 1})
		i = j + 1
	}
	return out
}

// InteriorRuns returns the runs of knots strictly inside the domain of a
// clamped curve of the given order.
func (kv KnotVector) InteriorRuns(order int) []KnotRun {
	runs := kv.Runs()
	if len(runs) <= 2 {
		return nil
	}
	return slices.Clone(runs[1 : len(runs)-1])
}

// Multiplicity returns the number of knots equal to the knot at index i.
func (kv KnotVector) Multiplicity(i int) int {
	n := 1
	for j := i - 1; j >= 0 && kv[i]-kv[j] < KnotTolerance; j-- {
		n++
	}
	for j := i + 1; j < len(kv) && kv[j]-kv[i] < KnotTolerance; j++ {
		n++
	}
	return n
}

// multiplicityOf returns the number of knots within KnotTolerance of u.
func (kv KnotVector) multiplicityOf(u float64) int {
	n := 0
	for _, k := range kv {
		if math.Abs(k-u) < KnotTolerance {
			n++
		}
	}
	return n
}

// Span finds the knot span index k with kv[k] <= u < kv[k+1] for a curve of
// the given degree, clamping u to the domain. The last non-empty span is
// returned for u at the end of the domain.
func (kv KnotVector) Span(degree int, u float64) int {
	n := len(kv) - degree - 2
	if u >= kv[n+1] {
		return n
	}
	if u <= kv[degree] {
		return degree
	}

	low, high := degree, n+1
	mid := (low + high) / 2
	for u < kv[mid] || u >= kv[mid+1] {
		if u < kv[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// UniformKnots returns a clamped knot vector on [0, 1] with uniformly spaced
// interior knots.
func UniformKnots(numPoles, order int) KnotVector {
	kv := make(KnotVector, NumKnots(numPoles, order))
	segs := numPoles - order + 1
	for i := range kv {
		switch {
		case i < order:
			kv[i] = 0
		case i >= numPoles:
			kv[i] = 1
		default:
			kv[i] = float64(i-order+1) / float64(segs)
		}
	}
	return kv
}

// mergeKnots returns the union of the interior runs of all knot vectors, each
// value taking the maximum multiplicity across the vectors. All knot vectors
// must be normalized and belong to curves of the given order.
func mergeKnots(kvs []KnotVector, order int) []KnotRun {
	var union []KnotRun
	for _, kv := range kvs {
		for _, run := range kv.InteriorRuns(order) {
			i, found := slices.BinarySearchFunc(union, run.Value, func(r KnotRun, v float64) int {
				switch {
				case v-r.Value >= KnotTolerance:
					return -1
				case r.Value-v >= KnotTolerance:
					return 1
				default:
					return 0
				}
			})
			if found {
				union[i].Multiplicity = max(union[i].Multiplicity, run.Multiplicity)
			} else {
				union = slices.Insert(union, i, KnotRun{Value: run.Value, Multiplicity: run.Multiplicity})
			}
		}
	}
	return union
}

// clampedKnots builds a normalized clamped knot vector from interior runs.
func clampedKnots(order int, interior []KnotRun) KnotVector {
	var kv KnotVector
	for range order {
		kv = append(kv, 0)
	}
	for _, run := range interior {
		for range run.Multiplicity {
			kv = append(kv, run.Value)
		}
	}
	for range order {
		kv = append(kv, 1)
	}
	return kv
}
