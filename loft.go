package bspline

import (
	"fmt"

	"go.uber.org/zap"
)

// LoftOptions configures [Loft].
type LoftOptions struct {
	// StartNormal and EndNormal, if set, are the directions in which the
	// surface leaves the first section and reaches the last one. They are
	// ignored for closed lofts.
	StartNormal, EndNormal *Vec3
	// ApproxCompatibility allows knot removal within Tolerance when making
	// the sections compatible.
	ApproxCompatibility bool
	// Closed makes the surface periodic in v, passing through the first
	// section again after the last one.
	Closed bool
	// SmoothStart and SmoothEnd select natural end conditions at ends without
	// normals. Otherwise the surface leaves the end section along the chord to
	// its neighbor.
	SmoothStart, SmoothEnd bool
	// ChordLength selects chord length parametrization in v.
	ChordLength bool
	// ApplyCompatibility makes the sections compatible. Without it the
	// sections must already be compatible.
	ApplyCompatibility bool
	Tolerance          float64
	// Logger receives debug events. It may be nil.
	Logger *zap.Logger
}

var DefaultLoft = LoftOptions{
	SmoothStart:        true,
	SmoothEnd:          true,
	ChordLength:        true,
	ApplyCompatibility: true,
}

func (o LoftOptions) WithNormals(start, end *Vec3) LoftOptions {
	o.StartNormal, o.EndNormal = start, end
	return o
}
func (o LoftOptions) WithClosed(closed bool) LoftOptions       { o.Closed = closed; return o }
func (o LoftOptions) WithChordLength(chord bool) LoftOptions   { o.ChordLength = chord; return o }
func (o LoftOptions) WithCompatibility(apply bool) LoftOptions { o.ApplyCompatibility = apply; return o }
func (o LoftOptions) WithLogger(log *zap.Logger) LoftOptions   { o.Logger = log; return o }
func (o LoftOptions) WithSmoothEnds(start, end bool) LoftOptions {
	o.SmoothStart, o.SmoothEnd = start, end
	return o
}

// WithApproximation enables knot removal within tol during compatibilization.
func (o LoftOptions) WithApproximation(tol float64) LoftOptions {
	o.ApproxCompatibility = true
	o.Tolerance = tol
	return o
}

const (
	// coincidenceTolerance is the distance below which the poles of a column
	// are considered to be one point.
	coincidenceTolerance = 1e-5
	// initialNudge is the first displacement applied to exactly coincident
	// neighbors of a column. Every further nudge is half the previous one.
	initialNudge = 1e-4
)

// Loft returns a surface through the sections, in order. The sections become
// the rows of poles of the surface in the u direction; in the v direction, the
// surface is a C2 cubic interpolating corresponding poles of all sections. Two
// sections make a ruled surface instead, unless the loft is closed.
//
// Surfaces with more than [MaxPoles] poles in u but not in v have u and v
// swapped.
func Loft(sections []*Curve, opts LoftOptions) (*Surface, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(sections) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrTooFewSections, len(sections))
	}

	var curves []*Curve
	if opts.ApplyCompatibility {
		copts := DefaultCompat.
			WithTangentControl(BothTangents).
			WithKeepMagnitude(true).
			WithDerivative(1).
			WithLogger(log)
		if opts.ApproxCompatibility {
			copts = copts.WithTolerance(opts.Tolerance)
		}
		var err error
		curves, err = MakeCompatible(sections, copts)
		if err != nil {
			return nil, fmt.Errorf("bspline: Loft: %w", err)
		}
	} else {
		for i, c := range sections {
			if err := c.Validate(); err != nil {
				return nil, fmt.Errorf("bspline: Loft: curve %d: %w", i, err)
			}
		}
		if !Compatible(sections...) {
			return nil, fmt.Errorf("bspline: Loft: %w", ErrNotCompatible)
		}
		curves = sections
	}

	var surf *Surface
	var err error
	if len(curves) == 2 && !opts.Closed {
		log.Debug("lofting ruled surface")
		surf, err = RuledSurfaceFromCompatible(curves[0], curves[1])
	} else {
		surf, err = newLofter(curves, opts, log).loft()
	}
	if err != nil {
		return nil, fmt.Errorf("bspline: Loft: %w", err)
	}

	if surf.NumU > MaxPoles && surf.NumV <= MaxPoles {
		log.Debug("swapping u and v", zap.Int("numU", surf.NumU), zap.Int("numV", surf.NumV))
		surf = surf.SwapUV()
	}
	return surf, nil
}

// lofter fits the transverse curves of a loft through compatible sections.
type lofter struct {
	curves   []*Curve
	opts     LoftOptions
	log      *zap.Logger
	rational bool
	numU     int
	// columns[i] holds pole i of every section.
	columns    [][]HomogeneousPoint
	degenerate []bool
	nudge      float64
}

func newLofter(curves []*Curve, opts LoftOptions, log *zap.Logger) *lofter {
	lf := &lofter{
		curves: curves,
		opts:   opts,
		log:    log,
		numU:   curves[0].NumPoles(),
		nudge:  initialNudge,
	}
	for _, c := range curves {
		lf.rational = lf.rational || c.Rational
	}
	lf.columns = make([][]HomogeneousPoint, lf.numU)
	lf.degenerate = make([]bool, lf.numU)
	for i := range lf.numU {
		col := make([]HomogeneousPoint, len(curves))
		for k, c := range curves {
			col[k] = Homogenize(c.Poles[i], c.Weight(i))
		}
		lf.columns[i] = col
		lf.degenerate[i] = coincident(col)
		if !lf.degenerate[i] {
			lf.separate(i)
		}
	}
	return lf
}

// coincident reports whether all points of the column lie within
// coincidenceTolerance of the first one.
func coincident(col []HomogeneousPoint) bool {
	p0 := col[0].Point()
	for _, hp := range col[1:] {
		if hp.Point().Distance(p0) > coincidenceTolerance {
			return false
		}
	}
	return true
}

// separate moves the first of the first pair of exactly coincident neighbors
// in column i along x.
func (lf *lofter) separate(i int) {
	col := lf.columns[i]
	for k := 1; k < len(col); k++ {
		if col[k].Point() != col[k-1].Point() {
			continue
		}
		col[k-1].X += lf.nudge * col[k-1].W
		lf.log.Debug("separating coincident poles",
			zap.Int("column", i),
			zap.Int("section", k-1),
			zap.Float64("offset", lf.nudge))
		lf.nudge /= 2
		return
	}
}

// points returns the Cartesian points of column i, with the first point
// repeated for closed lofts.
func (lf *lofter) points(i int) []Point {
	col := lf.columns[i]
	pts := make([]Point, len(col), len(col)+1)
	for k, hp := range col {
		pts[k] = hp.Point()
	}
	if lf.opts.Closed {
		pts = append(pts, pts[0])
	}
	return pts
}

// params returns the v parameters shared by all columns. Chord length
// parameters are averaged over the columns that are not degenerate.
func (lf *lofter) params() []float64 {
	n := len(lf.curves) + boolToInt(lf.opts.Closed)
	if !lf.opts.ChordLength {
		return UniformParams(n)
	}
	sum := make([]float64, n)
	used := 0
	for i := range lf.numU {
		if lf.degenerate[i] {
			continue
		}
		for k, t := range ChordParams(lf.points(i)) {
			sum[k] += t
		}
		used++
	}
	if used == 0 {
		return UniformParams(n)
	}
	for k := range sum {
		sum[k] /= float64(used)
	}
	sum[0], sum[n-1] = 0, 1
	return sum
}

// chordLength returns the length of the polyline through column i.
func (lf *lofter) chordLength(i int) float64 {
	pts := lf.points(i)
	l := 0.0
	for k := 1; k < len(pts); k++ {
		l += pts[k].Distance(pts[k-1])
	}
	return l
}

func (lf *lofter) ends(i int) EndConditions {
	ends := EndConditions{
		SmoothStart: lf.opts.SmoothStart,
		SmoothEnd:   lf.opts.SmoothEnd,
		Closed:      lf.opts.Closed,
	}
	if lf.opts.Closed || lf.degenerate[i] {
		return ends
	}
	l := lf.chordLength(i)
	if n := lf.opts.StartNormal; n != nil {
		t := n.Normalize().Mul(l)
		ends.StartTangent = &t
	}
	if n := lf.opts.EndNormal; n != nil {
		t := n.Normalize().Mul(l)
		ends.EndTangent = &t
	}
	return ends
}

func (lf *lofter) loft() (*Surface, error) {
	params := lf.params()
	vKnots := c2CubicKnots(params)
	numV := len(params) + 2
	surf := &Surface{
		UOrder:   lf.curves[0].Order,
		VOrder:   4,
		NumU:     lf.numU,
		NumV:     numV,
		Poles:    make([]Point, lf.numU*numV),
		UKnots:   lf.curves[0].Knots.Clone(),
		VKnots:   vKnots,
		Rational: lf.rational,
	}
	if lf.rational {
		surf.Weights = make([]float64, lf.numU*numV)
	}

	for i := range lf.numU {
		col := lf.columns[i]
		if lf.degenerate[i] {
			lf.log.Debug("degenerate column", zap.Int("column", i))
			pt := col[0].Point()
			var weights []HomogeneousPoint
			if lf.rational {
				// Only the weights vary along the column.
				w := make([]HomogeneousPoint, len(col))
				for k, hp := range col {
					w[k] = HomogeneousPoint{W: hp.W}
				}
				var err error
				weights, _, err = InterpolateC2Cubic(w, params, lf.ends(i))
				if err != nil {
					return nil, fmt.Errorf("column %d: %w", i, err)
				}
			}
			for j := range numV {
				surf.Poles[j*lf.numU+i] = pt
				if lf.rational {
					surf.Weights[j*lf.numU+i] = weights[j].W
				}
			}
			continue
		}

		poles, _, err := InterpolateC2Cubic(col, params, lf.ends(i))
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i, err)
		}
		for j, hp := range poles {
			if lf.rational {
				surf.Poles[j*lf.numU+i] = hp.Point()
				surf.Weights[j*lf.numU+i] = hp.W
			} else {
				surf.Poles[j*lf.numU+i] = Pt(hp.X, hp.Y, hp.Z)
			}
		}
	}
	return surf, nil
}
