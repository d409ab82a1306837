package bspline

import (
	"errors"
	"math"
	"testing"
)

func ruled(t *testing.T) *Surface {
	t.Helper()
	s, err := RuledSurface(wave(t, 0), quarterCircle(t).Transform(Translate(Vec(0, 0, 2))))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRuledSurface(t *testing.T) {
	c1, c2 := wave(t, 0), quarterCircle(t).Transform(Translate(Vec(0, 0, 2)))
	s := ruled(t)
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if !s.Rational {
		t.Error("ruled surface through a rational curve is not rational")
	}
	diff(t, KnotVector{0, 0, 1, 1}, s.VKnots)
	for _, u := range []float64{0, 0.1, 0.45, 0.8, 1} {
		assertNear(t, s.Eval(u, 0), c1.Eval(u), 1e-10)
		assertNear(t, s.Eval(u, 1), c2.Eval(u), 1e-10)
	}
	if _, err := RuledSurfaceFromCompatible(c1, c2); !errors.Is(err, ErrNotCompatible) {
		t.Errorf("got error %v, want %v", err, ErrNotCompatible)
	}
}

func TestRuledSurfaceLines(t *testing.T) {
	c1 := NewBezier(Pt(0, 0, 0), Pt(1, 0, 0))
	c2 := NewBezier(Pt(0, 1, 0), Pt(1, 1, 0))
	s, err := RuledSurfaceFromCompatible(c1, c2)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []Point{Pt(0, 0, 0), Pt(1, 0, 0), Pt(0, 1, 0), Pt(1, 1, 0)}, s.Poles)
	assertNear(t, s.Eval(0.25, 0.5), Pt(0.25, 0.5, 0), 1e-15)
	if s.Rational {
		t.Error("ruled surface between lines is rational")
	}
}

func TestSurfaceSwapUV(t *testing.T) {
	s := ruled(t)
	sw := s.SwapUV()
	if err := sw.Validate(); err != nil {
		t.Fatal(err)
	}
	diff(t, s, sw.SwapUV())
	if sw.NumU != s.NumV || sw.UOrder != s.VOrder {
		t.Errorf("got %d poles of order %d in u", sw.NumU, sw.UOrder)
	}
	for _, uv := range [][2]float64{{0, 0}, {0.3, 0.6}, {0.9, 0.1}, {1, 1}} {
		assertNear(t, sw.Eval(uv[1], uv[0]), s.Eval(uv[0], uv[1]), 1e-12)
	}
	diff(t, s.Pole(3, 1), sw.Pole(1, 3))
	if s.Weight(3, 1) != sw.Weight(1, 3) {
		t.Errorf("weights differ: %v and %v", s.Weight(3, 1), sw.Weight(1, 3))
	}
}

func TestSurfaceIsoCurves(t *testing.T) {
	s := ruled(t)
	c := s.UCurve(1)
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, u := range []float64{0, 0.5, 1} {
		assertNear(t, c.Eval(u), s.Eval(u, 1), 1e-12)
	}
	v := s.VCurve(0)
	if err := v.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, w := range []float64{0, 0.5, 1} {
		assertNear(t, v.Eval(w), s.Eval(0, w), 1e-12)
	}
}

func TestSurfaceTransform(t *testing.T) {
	s := ruled(t)
	aff := RotateAbout(math.Pi/5, Pt(1, 2, 3), Vec(1, 0, 1)).ThenScale(2, 2, 2)
	ts := s.Transform(aff)
	for _, uv := range [][2]float64{{0, 0}, {0.3, 0.6}, {1, 1}} {
		assertNear(t, ts.Eval(uv[0], uv[1]), s.Eval(uv[0], uv[1]).Transform(aff), 1e-10)
	}
	bb := s.BoundingBox()
	for _, pt := range s.Poles {
		if !bb.Inflate(1e-12).Contains(pt) {
			t.Errorf("pole %s outside bounding box %v", pt, bb)
		}
	}
}

func TestSurfaceValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *Surface)
		want error
	}{
		{"order", func(s *Surface) { s.VOrder = 1 }, ErrInvalidSurface},
		{"pole count", func(s *Surface) { s.Poles = s.Poles[1:] }, ErrInvalidSurface},
		{"too few poles", func(s *Surface) { s.VOrder = 3 }, ErrInvalidSurface},
		{"pole", func(s *Surface) { s.Poles[2].Y = math.Inf(-1) }, ErrInvalidPole},
		{"weight", func(s *Surface) { s.Weights[0] = -1 }, ErrInvalidWeights},
		{"weight count", func(s *Surface) { s.Weights = s.Weights[1:] }, ErrInvalidWeights},
		{"knots", func(s *Surface) { s.VKnots = KnotVector{0, 0.5, 1, 1} }, ErrKnotVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ruled(t)
			tt.edit(s)
			err := s.Validate()
			if !errors.Is(err, tt.want) || !errors.Is(err, ErrInvalidSurface) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}
