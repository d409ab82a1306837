package bspline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func assertNear(t *testing.T, p0 Point, p1 Point, epsilon float64) {
	t.Helper()
	if d := p1.Sub(p0).Hypot(); d > epsilon {
		t.Fatalf("got %s, expected %s", p0, p1)
	}
}

func assertNearVec(t *testing.T, v0 Vec3, v1 Vec3, epsilon float64) {
	t.Helper()
	if d := v1.Sub(v0).Hypot(); d > epsilon {
		t.Fatalf("got %s, expected %s", v0, v1)
	}
}

// deviation returns the largest distance between c1 and c2, sampled at n+1
// parameters. Both domains are mapped onto each other linearly.
func deviation(c1, c2 *Curve, n int) float64 {
	lo1, hi1 := c1.Domain()
	lo2, hi2 := c2.Domain()
	d := 0.0
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p1 := c1.Eval(lo1 + t*(hi1-lo1))
		p2 := c2.Eval(lo2 + t*(hi2-lo2))
		d = max(d, p1.Distance(p2))
	}
	return d
}

func mustCurve(t testing.TB, order int, poles []Point, weights []float64, knots KnotVector) *Curve {
	t.Helper()
	c, err := NewCurve(order, poles, weights, knots)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// quarterCircle returns the unit quarter circle in the xy plane from (1, 0, 0)
// to (0, 1, 0) as a rational quadratic.
func quarterCircle(t testing.TB) *Curve {
	return mustCurve(t, 3,
		[]Point{Pt(1, 0, 0), Pt(1, 1, 0), Pt(0, 1, 0)},
		[]float64{1, math.Sqrt2 / 2, 1},
		nil)
}

// wave returns a non-rational cubic with several interior knots.
func wave(t testing.TB, z float64) *Curve {
	return mustCurve(t, 4, []Point{
		Pt(0, 0, z),
		Pt(1, 2, z),
		Pt(2, -1, z),
		Pt(3, 2, z),
		Pt(4, -2, z),
		Pt(5, 1, z),
		Pt(6, 0, z),
	}, nil, KnotVector{0, 0, 0, 0, 0.2, 0.5, 0.7, 1, 1, 1, 1})
}

// straight returns the cubic C(u) = u*dir with numPoles poles and uniform
// knots. The poles lie at the Greville abscissae, so the curve is a single
// polynomial and every interior knot can be removed exactly.
func straight(t testing.TB, numPoles int, dir Vec3) *Curve {
	const order = 4
	kv := UniformKnots(numPoles, order)
	poles := make([]Point, numPoles)
	for i := range poles {
		g := 0.0
		for j := 1; j < order; j++ {
			g += kv[i+j]
		}
		poles[i] = Point{}.Translate(dir.Mul(g / (order - 1)))
	}
	return mustCurve(t, order, poles, nil, kv)
}
