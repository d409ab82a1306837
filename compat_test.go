package bspline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// offset returns an order 3 curve on the parameter range [2, 4].
func offset(t testing.TB) *Curve {
	return mustCurve(t, 3,
		[]Point{Pt(0, 0, 3), Pt(1, 3, 3), Pt(3, 3, 3), Pt(4, 1, 3), Pt(6, 0, 3)},
		nil, KnotVector{2, 2, 2, 2.5, 3.5, 4, 4, 4})
}

func TestTangentControlString(t *testing.T) {
	for tc := NoTangentControl; tc <= BothTangents; tc++ {
		got, err := ParseTangentControl(tc.String())
		if err != nil {
			t.Fatal(err)
		}
		if got != tc {
			t.Errorf("got %v, want %v", got, tc)
		}
	}
	if _, err := ParseTangentControl("sideways"); err == nil {
		t.Error("parsing an unknown tangent control succeeded")
	}
	if s := TangentControl(7).String(); s != "TangentControl(7)" {
		t.Errorf("got %q", s)
	}
}

func TestCloneCompatible(t *testing.T) {
	in := []*Curve{wave(t, 0), quarterCircle(t), offset(t)}
	orig := make([]*Curve, len(in))
	for i, c := range in {
		orig[i] = c.Clone()
	}
	out, err := CloneCompatible(in)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, orig, in)

	if !Compatible(out...) {
		t.Fatal("curves are not compatible")
	}
	for i, c := range out {
		if err := c.Validate(); err != nil {
			t.Fatalf("curve %d: %v", i, err)
		}
		if c.Order != 4 {
			t.Errorf("curve %d has order %d, want 4", i, c.Order)
		}
		if c.Rational != in[i].Rational {
			t.Errorf("curve %d: rational changed to %t", i, c.Rational)
		}
		if d := deviation(in[i], c, 300); d > 1e-10 {
			t.Errorf("curve %d moved by %g", i, d)
		}
	}
	// 0.2 0.5 0.7 from the cubic and 0.25 0.75 from the quadratic, whose
	// knots gain one multiplicity through elevation.
	diff(t, KnotVector{0, 0, 0, 0, 0.2, 0.25, 0.25, 0.5, 0.7, 0.75, 0.75, 1, 1, 1, 1}, out[0].Knots)
}

func TestMakeCompatibleZeroTolerance(t *testing.T) {
	in := []*Curve{wave(t, 0), offset(t)}
	want, err := CloneCompatible(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := MakeCompatible(in, DefaultCompat)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, got)
}

func TestMakeCompatibleTolerance(t *testing.T) {
	in := []*Curve{wave(t, 0), wave(t, 1), offset(t), straight(t, 8, Vec(1, 1, 0))}
	unified, err := CloneCompatible(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, tol := range []float64{1e-6, 1e-3, 0.05, 0.5} {
		out, err := MakeCompatible(in, DefaultCompat.WithTolerance(tol))
		if err != nil {
			t.Fatal(err)
		}
		if !Compatible(out...) {
			t.Fatalf("tolerance %g: curves are not compatible", tol)
		}
		if out[0].NumPoles() > unified[0].NumPoles() {
			t.Errorf("tolerance %g: got %d poles, more than %d", tol, out[0].NumPoles(), unified[0].NumPoles())
		}
		for i, c := range out {
			if err := c.Validate(); err != nil {
				t.Fatalf("tolerance %g, curve %d: %v", tol, i, err)
			}
			if d := deviation(in[i], c, 500); d > tol*(1+1e-9) {
				t.Errorf("tolerance %g: curve %d moved by %g", tol, i, d)
			}
		}
	}
}

func TestMakeCompatibleRemovesInsertedKnots(t *testing.T) {
	c := quarterCircle(t)
	ins, err := c.InsertKnot(0.3, 2)
	if err != nil {
		t.Fatal(err)
	}
	ins, err = ins.InsertKnot(0.8, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := MakeCompatible([]*Curve{ins}, DefaultCompat.WithTolerance(1e-9))
	if err != nil {
		t.Fatal(err)
	}
	got := out[0]
	diff(t, c.Knots, got.Knots)
	for i := range c.Poles {
		assertNear(t, got.Poles[i], c.Poles[i], 1e-9)
		if math.Abs(got.Weights[i]-c.Weights[i]) > 1e-9 {
			t.Errorf("weight %d is %v, want %v", i, got.Weights[i], c.Weights[i])
		}
	}
}

func TestMakeCompatibleKeepsLargeBounds(t *testing.T) {
	c := wave(t, 0)
	for range 2 {
		out, err := MakeCompatible([]*Curve{c}, DefaultCompat.WithTolerance(1e-6))
		if err != nil {
			t.Fatal(err)
		}
		diff(t, c.Knots, out[0].Knots)
		for i := range c.Poles {
			assertNear(t, out[0].Poles[i], c.Poles[i], 1e-12)
		}
		c = out[0]
	}
}

func TestRemoveKnotsBounded(t *testing.T) {
	dir := Vec(1, 2, 3)
	c := straight(t, 10, dir)
	got, err := c.RemoveKnotsBounded(1e-9, NoTangentControl, true, 1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, KnotVector{0, 0, 0, 0, 1, 1, 1, 1}, got.Knots)
	for i := range 4 {
		assertNear(t, got.Poles[i], Point{}.Translate(dir.Mul(float64(i)/3)), 1e-9)
	}
}

// weightScenario returns a rational quadratic whose interior knot can be
// removed exactly, but only by storing a weight of 2*w-1.
func weightScenario(t testing.TB, w float64) *Curve {
	// With P2 = P1 + (d, 0, 0) the two candidate poles agree for d = 3/(2w).
	d := 3 / (2 * w)
	return mustCurve(t, 3,
		[]Point{Pt(0, 0, 0), Pt(1, 1, 0), Pt(1+d, 1, 0), Pt(3, 0, 0)},
		[]float64{1, w, w, 1},
		KnotVector{0, 0, 0, 0.5, 1, 1, 1})
}

func TestMakeCompatibleWeightBand(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := DefaultCompat.WithTolerance(1).WithLogger(zap.New(core))

	c := weightScenario(t, 150.5)
	if b := RemovalBound(c, 3, 1); b > 1e-12 {
		t.Fatalf("removal bound %g should vanish", b)
	}
	out, err := MakeCompatible([]*Curve{c}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := out[0].NumPoles(); n != 4 {
		t.Errorf("got %d poles, want 4", n)
	}
	kept := logs.FilterMessage("knot kept").All()
	if len(kept) != 1 {
		t.Fatalf("got %d kept knots, want 1", len(kept))
	}
	if reason := kept[0].ContextMap()["reason"]; reason != string(rejectWeight) {
		t.Errorf("knot kept for reason %v, want %v", reason, rejectWeight)
	}

	out, err = MakeCompatible([]*Curve{weightScenario(t, 50)}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := out[0].NumPoles(); n != 3 {
		t.Errorf("got %d poles, want 3", n)
	}
	if w := out[0].Weights[1]; math.Abs(w-99) > 1e-9 {
		t.Errorf("got weight %v, want 99", w)
	}
	if !WeightsInBand(out[0]) {
		t.Errorf("weights %v out of band", out[0].Weights)
	}
	if n := logs.FilterMessage("knot removed").Len(); n != 1 {
		t.Errorf("got %d removed knots, want 1", n)
	}
}

func TestMakeCompatibleTangentControl(t *testing.T) {
	c := wave(t, 0)
	out, err := MakeCompatible([]*Curve{c}, DefaultCompat.WithTolerance(10).WithTangentControl(BothTangents))
	if err != nil {
		t.Fatal(err)
	}
	got := out[0]
	// Only the middle knot is far enough from both ends.
	diff(t, KnotVector{0, 0, 0, 0, 0.2, 0.7, 1, 1, 1, 1}, got.Knots)
	for _, u := range []float64{0, 1} {
		assertNearVec(t, got.Derivative(u), c.Derivative(u), 1e-9)
		assertNear(t, got.Eval(u), c.Eval(u), 1e-12)
	}

	out, err = MakeCompatible([]*Curve{c}, DefaultCompat.WithTolerance(10).WithTangentControl(StartTangent))
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Knots[4] != 0.2 {
		t.Errorf("first interior knot was removed: %v", out[0].Knots)
	}
	assertNearVec(t, out[0].Derivative(0), c.Derivative(0), 1e-9)
}

func TestMakeCompatibleRelaxedTangents(t *testing.T) {
	c := straight(t, 10, Vec(0, 0, 2))
	opts := DefaultCompat.WithTolerance(1e-9).WithTangentControl(BothTangents)

	out, err := MakeCompatible([]*Curve{c}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if n := out[0].NumPoles(); n != 6 {
		t.Errorf("keeping magnitudes: got %d poles, want 6", n)
	}

	out, err = MakeCompatible([]*Curve{c}, opts.WithKeepMagnitude(false))
	if err != nil {
		t.Fatal(err)
	}
	if n := out[0].NumPoles(); n != 4 {
		t.Errorf("keeping directions: got %d poles, want 4", n)
	}
	for _, u := range []float64{0, 1} {
		if d := out[0].Derivative(u); !d.Parallel(Vec(0, 0, 1), 1e-9) {
			t.Errorf("tangent at %g is %s", u, d)
		}
	}

	// Relaxation only applies to first derivatives.
	out, err = MakeCompatible([]*Curve{c}, opts.WithKeepMagnitude(false).WithDerivative(2))
	if err != nil {
		t.Fatal(err)
	}
	if n := out[0].NumPoles(); n != 8 {
		t.Errorf("protecting second derivatives: got %d poles, want 8", n)
	}
}

func TestMakeCompatibleErrors(t *testing.T) {
	if _, err := MakeCompatible(nil, DefaultCompat); !errors.Is(err, ErrNoCurves) {
		t.Errorf("got error %v, want %v", err, ErrNoCurves)
	}
	bad := wave(t, 0)
	bad.Knots = bad.Knots[1:]
	_, err := MakeCompatible([]*Curve{wave(t, 0), bad}, DefaultCompat)
	if !errors.Is(err, ErrKnotCount) {
		t.Errorf("got error %v, want %v", err, ErrKnotCount)
	}
	if err == nil || !strings.Contains(err.Error(), "curve 1") {
		t.Errorf("error %v does not name the curve", err)
	}
	high := NewBezier(make([]Point, MaxOrder)...)
	if _, err := CloneCompatible([]*Curve{high, wave(t, 0)}); err != nil {
		t.Errorf("unifying with a curve of order MaxOrder failed: %v", err)
	}
}

func TestMakeCompatibleSingleCurveOptions(t *testing.T) {
	c := offset(t)
	a, err := c.RemoveKnotsBounded(0.1, EndTangent, false, 1)
	if err != nil {
		t.Fatal(err)
	}
	out, err := MakeCompatible([]*Curve{c}, CompatOptions{
		Tolerance:      0.1,
		TangentControl: EndTangent,
		KeepMagnitude:  false,
		Derivative:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, out[0], a, cmpopts.EquateApprox(0, 1e-15))
}

func BenchmarkMakeCompatible(b *testing.B) {
	in := []*Curve{wave(b, 0), wave(b, 1), offset(b), quarterCircle(b), straight(b, 20, Vec(1, 0, 0))}
	opts := DefaultCompat.WithTolerance(1e-3).WithTangentControl(BothTangents)
	for range b.N {
		if _, err := MakeCompatible(in, opts); err != nil {
			b.Fatal(err)
		}
	}
}
