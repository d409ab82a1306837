package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"honnef.co/go/bspline"
)

// document is the YAML input of all commands.
type document struct {
	Curves         []curveDoc `yaml:"curves"`
	Tolerance      float64    `yaml:"tolerance"`
	TangentControl string     `yaml:"tangentControl"`
	KeepMagnitude  bool       `yaml:"keepMagnitude"`
	Derivative     int        `yaml:"derivative"`
	Loft           loftDoc    `yaml:"loft"`
}

type curveDoc struct {
	Order   int         `yaml:"order"`
	Poles   [][]float64 `yaml:"poles,flow"`
	Weights []float64   `yaml:"weights,omitempty,flow"`
	Knots   []float64   `yaml:"knots,omitempty,flow"`
}

type loftDoc struct {
	Closed              bool      `yaml:"closed"`
	ChordLength         bool      `yaml:"chordLength"`
	SmoothStart         bool      `yaml:"smoothStart"`
	SmoothEnd           bool      `yaml:"smoothEnd"`
	ApproxCompatibility bool      `yaml:"approxCompatibility"`
	ApplyCompatibility  bool      `yaml:"applyCompatibility"`
	StartNormal         []float64 `yaml:"startNormal,omitempty,flow"`
	EndNormal           []float64 `yaml:"endNormal,omitempty,flow"`
}

type surfaceDoc struct {
	UOrder  int         `yaml:"uOrder"`
	VOrder  int         `yaml:"vOrder"`
	NumU    int         `yaml:"numU"`
	NumV    int         `yaml:"numV"`
	UKnots  []float64   `yaml:"uKnots,flow"`
	VKnots  []float64   `yaml:"vKnots,flow"`
	Poles   [][]float64 `yaml:"poles,flow"`
	Weights []float64   `yaml:"weights,omitempty,flow"`
}

type samplesDoc struct {
	Curve  int         `yaml:"curve"`
	Points [][]float64 `yaml:"points,flow"`
}

func defaultDocument() *document {
	return &document{
		TangentControl: bspline.DefaultCompat.TangentControl.String(),
		KeepMagnitude:  bspline.DefaultCompat.KeepMagnitude,
		Derivative:     bspline.DefaultCompat.Derivative,
		Loft: loftDoc{
			ChordLength:        bspline.DefaultLoft.ChordLength,
			SmoothStart:        bspline.DefaultLoft.SmoothStart,
			SmoothEnd:          bspline.DefaultLoft.SmoothEnd,
			ApplyCompatibility: bspline.DefaultLoft.ApplyCompatibility,
		},
	}
}

// loadDocument reads a document from path, or from stdin if path is "-".
// Fields missing from the document keep their defaults.
func loadDocument(path string, stdin io.Reader) (*document, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc := defaultDocument()
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

func (d *document) curves() ([]*bspline.Curve, error) {
	if len(d.Curves) == 0 {
		return nil, bspline.ErrNoCurves
	}
	out := make([]*bspline.Curve, len(d.Curves))
	for i, cd := range d.Curves {
		poles := make([]bspline.Point, len(cd.Poles))
		for j, p := range cd.Poles {
			pt, err := point(p)
			if err != nil {
				return nil, fmt.Errorf("curve %d: pole %d: %w", i, j, err)
			}
			poles[j] = pt
		}
		var knots bspline.KnotVector
		if cd.Knots != nil {
			knots = bspline.KnotVector(cd.Knots)
		}
		c, err := bspline.NewCurve(cd.Order, poles, cd.Weights, knots)
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

func point(p []float64) (bspline.Point, error) {
	if len(p) != 3 {
		return bspline.Point{}, fmt.Errorf("have %d coordinates, want 3", len(p))
	}
	return bspline.Pt(p[0], p[1], p[2]), nil
}

func (d *document) compatOptions() (bspline.CompatOptions, error) {
	tc, err := bspline.ParseTangentControl(d.TangentControl)
	if err != nil {
		return bspline.CompatOptions{}, err
	}
	return bspline.DefaultCompat.
		WithTolerance(d.Tolerance).
		WithTangentControl(tc).
		WithKeepMagnitude(d.KeepMagnitude).
		WithDerivative(d.Derivative), nil
}

func (d *document) loftOptions() (bspline.LoftOptions, error) {
	opts := bspline.DefaultLoft.
		WithClosed(d.Loft.Closed).
		WithChordLength(d.Loft.ChordLength).
		WithSmoothEnds(d.Loft.SmoothStart, d.Loft.SmoothEnd).
		WithCompatibility(d.Loft.ApplyCompatibility)
	if d.Loft.ApproxCompatibility {
		opts = opts.WithApproximation(d.Tolerance)
	}
	var start, end *bspline.Vec3
	for _, n := range []struct {
		in  []float64
		out **bspline.Vec3
	}{{d.Loft.StartNormal, &start}, {d.Loft.EndNormal, &end}} {
		if n.in == nil {
			continue
		}
		pt, err := point(n.in)
		if err != nil {
			return bspline.LoftOptions{}, fmt.Errorf("normal: %w", err)
		}
		v := bspline.Vec(pt.X, pt.Y, pt.Z)
		*n.out = &v
	}
	return opts.WithNormals(start, end), nil
}

func encodeCurve(c *bspline.Curve) curveDoc {
	cd := curveDoc{
		Order: c.Order,
		Poles: encodePoints(c.Poles),
		Knots: c.Knots,
	}
	if c.Rational {
		cd.Weights = c.Weights
	}
	return cd
}

func encodeSurface(s *bspline.Surface) surfaceDoc {
	sd := surfaceDoc{
		UOrder: s.UOrder,
		VOrder: s.VOrder,
		NumU:   s.NumU,
		NumV:   s.NumV,
		UKnots: s.UKnots,
		VKnots: s.VKnots,
		Poles:  encodePoints(s.Poles),
	}
	if s.Rational {
		sd.Weights = s.Weights
	}
	return sd
}

func encodePoints(pts []bspline.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, pt := range pts {
		out[i] = []float64{pt.X, pt.Y, pt.Z}
	}
	return out
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return enc.Close()
}
