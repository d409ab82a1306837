// Command bsploft makes B-spline curves compatible and lofts surfaces through
// them.
//
// All commands read a YAML document holding the curves and the options, and
// write YAML to stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"honnef.co/go/bspline"
)

type app struct {
	verbose bool
	file    string
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bsploft",
		Short:         "Make B-spline curves compatible and loft surfaces through them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			a.logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&a.file, "file", "f", "-", "Input document (- for stdin)")

	root.AddCommand(a.compatCmd(), a.loftCmd(), a.evalCmd())
	return root
}

func (a *app) compatCmd() *cobra.Command {
	var (
		tolerance     float64
		tangents      string
		keepMagnitude bool
		derivative    int
	)
	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Make curves compatible, removing knots within a tolerance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(a.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("tolerance") {
				doc.Tolerance = tolerance
			}
			if flags.Changed("tangents") {
				doc.TangentControl = tangents
			}
			if flags.Changed("keep-magnitude") {
				doc.KeepMagnitude = keepMagnitude
			}
			if flags.Changed("derivative") {
				doc.Derivative = derivative
			}

			curves, err := doc.curves()
			if err != nil {
				return err
			}
			opts, err := doc.compatOptions()
			if err != nil {
				return err
			}
			out, err := bspline.MakeCompatible(curves, opts.WithLogger(a.logger))
			if err != nil {
				return err
			}
			a.logger.Info("curves compatible",
				zap.Int("curves", len(out)),
				zap.Int("order", out[0].Order),
				zap.Int("poles", out[0].NumPoles()))

			docs := make([]curveDoc, len(out))
			for i, c := range out {
				docs[i] = encodeCurve(c)
			}
			return writeYAML(cmd.OutOrStdout(), map[string]any{"curves": docs})
		},
	}
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Maximum deviation introduced by knot removal")
	cmd.Flags().StringVar(&tangents, "tangents", "none", "Protected ends: none, start, end or both")
	cmd.Flags().BoolVar(&keepMagnitude, "keep-magnitude", true, "Preserve the magnitude of protected derivatives")
	cmd.Flags().IntVar(&derivative, "derivative", 1, "Highest protected derivative")
	return cmd
}

func (a *app) loftCmd() *cobra.Command {
	var (
		closed      bool
		chordLength bool
		approx      bool
		tolerance   float64
	)
	cmd := &cobra.Command{
		Use:   "loft",
		Short: "Loft a surface through the curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(a.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("closed") {
				doc.Loft.Closed = closed
			}
			if flags.Changed("chord-length") {
				doc.Loft.ChordLength = chordLength
			}
			if flags.Changed("approx") {
				doc.Loft.ApproxCompatibility = approx
			}
			if flags.Changed("tolerance") {
				doc.Tolerance = tolerance
			}

			curves, err := doc.curves()
			if err != nil {
				return err
			}
			opts, err := doc.loftOptions()
			if err != nil {
				return err
			}
			surf, err := bspline.Loft(curves, opts.WithLogger(a.logger))
			if err != nil {
				return err
			}
			a.logger.Info("surface lofted",
				zap.Int("numU", surf.NumU),
				zap.Int("numV", surf.NumV))
			return writeYAML(cmd.OutOrStdout(), encodeSurface(surf))
		},
	}
	cmd.Flags().BoolVar(&closed, "closed", false, "Close the surface in v")
	cmd.Flags().BoolVar(&chordLength, "chord-length", true, "Use chord length parameters in v")
	cmd.Flags().BoolVar(&approx, "approx", false, "Remove knots within the tolerance while making curves compatible")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Maximum deviation introduced by knot removal")
	return cmd
}

func (a *app) evalCmd() *cobra.Command {
	var samples int
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Sample points on the curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 2 {
				return fmt.Errorf("need at least 2 samples, have %d", samples)
			}
			doc, err := loadDocument(a.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			curves, err := doc.curves()
			if err != nil {
				return err
			}
			out := make([]samplesDoc, len(curves))
			for i, c := range curves {
				lo, hi := c.Domain()
				pts := make([]bspline.Point, samples)
				for j := range pts {
					t := float64(j) / float64(samples-1)
					pts[j] = c.Eval(lo + t*(hi-lo))
				}
				out[i] = samplesDoc{Curve: i, Points: encodePoints(pts)}
			}
			return writeYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVarP(&samples, "samples", "n", 11, "Number of samples per curve")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
