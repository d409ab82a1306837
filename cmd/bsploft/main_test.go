package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"honnef.co/go/bspline"
)

const twoLines = `
curves:
  - order: 2
    poles: [[0, 0, 0], [1, 0, 0]]
  - order: 2
    poles: [[0, 1, 0], [1, 1, 0]]
`

const threeSections = `
tolerance: 0.001
curves:
  - order: 3
    poles: [[0, 0, 0], [1, 1, 0], [2, 0, 0]]
  - order: 3
    poles: [[0, 0, 1], [1, 2, 1], [2, 0, 1]]
  - order: 4
    poles: [[0, 0, 2], [0.5, 1, 2], [1.5, 1, 2], [2, 0, 2]]
loft:
  approxCompatibility: true
`

func writeDoc(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadDocumentDefaults(t *testing.T) {
	doc, err := loadDocument(writeDoc(t, twoLines), nil)
	require.NoError(t, err)
	require.Len(t, doc.Curves, 2)
	require.Equal(t, "none", doc.TangentControl)
	require.True(t, doc.KeepMagnitude)
	require.Equal(t, 1, doc.Derivative)
	require.True(t, doc.Loft.ApplyCompatibility)
	require.True(t, doc.Loft.ChordLength)

	curves, err := doc.curves()
	require.NoError(t, err)
	require.Equal(t, bspline.KnotVector{0, 0, 1, 1}, curves[0].Knots)
}

func TestLoadDocumentStdin(t *testing.T) {
	doc, err := loadDocument("-", strings.NewReader(twoLines))
	require.NoError(t, err)
	require.Len(t, doc.Curves, 2)
}

func TestDocumentErrors(t *testing.T) {
	_, err := loadDocument(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)

	doc, err := loadDocument("-", strings.NewReader("curves:\n  - order: 2\n    poles: [[0, 0], [1, 0]]\n"))
	require.NoError(t, err)
	_, err = doc.curves()
	require.ErrorContains(t, err, "pole 0")

	doc, err = loadDocument("-", strings.NewReader("curves:\n  - order: 3\n    poles: [[0, 0, 0], [1, 0, 0]]\n"))
	require.NoError(t, err)
	_, err = doc.curves()
	require.ErrorIs(t, err, bspline.ErrKnotCount)

	doc, err = loadDocument("-", strings.NewReader("tangentControl: sideways\n"))
	require.NoError(t, err)
	_, err = doc.compatOptions()
	require.Error(t, err)
}

func TestCompatCommand(t *testing.T) {
	out, err := run(t, "compat", "-f", writeDoc(t, threeSections), "--tangents", "both")
	require.NoError(t, err)

	var res struct {
		Curves []curveDoc `yaml:"curves"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Len(t, res.Curves, 3)
	for _, c := range res.Curves {
		require.Equal(t, res.Curves[0].Order, c.Order)
		require.Equal(t, res.Curves[0].Knots, c.Knots)
		require.Len(t, c.Poles, len(res.Curves[0].Poles))
	}
	require.Equal(t, 4, res.Curves[0].Order)
}

func TestLoftCommand(t *testing.T) {
	out, err := run(t, "loft", "-f", writeDoc(t, twoLines))
	require.NoError(t, err)

	var surf surfaceDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &surf))
	require.Equal(t, 2, surf.UOrder)
	require.Equal(t, 2, surf.VOrder)
	require.Equal(t, []float64{0, 0, 1, 1}, surf.VKnots)
	require.Equal(t, [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, surf.Poles)
}

func TestLoftCommandCubic(t *testing.T) {
	out, err := run(t, "loft", "-f", writeDoc(t, threeSections), "--chord-length=false")
	require.NoError(t, err)

	var surf surfaceDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &surf))
	require.Equal(t, 4, surf.VOrder)
	require.Equal(t, 5, surf.NumV)
	require.Len(t, surf.Poles, surf.NumU*surf.NumV)
	require.Equal(t, []float64{0, 0, 0, 0, 0.5, 1, 1, 1, 1}, surf.VKnots)
}

func TestEvalCommand(t *testing.T) {
	out, err := run(t, "eval", "-f", writeDoc(t, twoLines), "-n", "3")
	require.NoError(t, err)

	var res []samplesDoc
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	require.Equal(t, [][]float64{{0, 1, 0}, {0.5, 1, 0}, {1, 1, 0}}, res[1].Points)

	_, err = run(t, "eval", "-f", writeDoc(t, twoLines), "-n", "1")
	require.Error(t, err)
}
