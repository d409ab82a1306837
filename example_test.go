package bspline_test

import (
	"fmt"
	"math"
	"slices"

	"honnef.co/go/bspline"
)

func ExampleMakeCompatible() {
	line := bspline.NewBezier(bspline.Pt(0, 0, 0), bspline.Pt(2, 0, 0))
	arch, err := bspline.NewUniform(3,
		bspline.Pt(0, 1, 0),
		bspline.Pt(1, 2, 0),
		bspline.Pt(2, 2, 0),
		bspline.Pt(3, 1, 0))
	if err != nil {
		panic(err)
	}

	curves, err := bspline.MakeCompatible([]*bspline.Curve{line, arch}, bspline.DefaultCompat)
	if err != nil {
		panic(err)
	}
	for _, c := range curves {
		fmt.Println(c.Order, c.Knots, c.Poles)
	}
	// Output:
	// 3 [0 0 0 0.5 1 1 1] [(0, 0, 0) (0.5, 0, 0) (1.5, 0, 0) (2, 0, 0)]
	// 3 [0 0 0 0.5 1 1 1] [(0, 1, 0) (1, 2, 0) (2, 2, 0) (3, 1, 0)]
}

func ExampleLoft() {
	section := bspline.NewBezier(bspline.Pt(0, 0, 0), bspline.Pt(1, 1, 0), bspline.Pt(2, 0, 0))
	var sections []*bspline.Curve
	for z := range 3 {
		sections = append(sections, section.Transform(bspline.Translate(bspline.Vec(0, 0, float64(z)))))
	}

	surf, err := bspline.Loft(sections, bspline.DefaultLoft)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d×%d poles of orders %d and %d\n", surf.NumU, surf.NumV, surf.UOrder, surf.VOrder)
	fmt.Println("v knots:", surf.VKnots)
	pt := surf.Eval(0.5, 0.5)
	fmt.Printf("(%.3f, %.3f, %.3f)\n", pt.X, pt.Y, pt.Z)
	// Output:
	// 3×5 poles of orders 3 and 4
	// v knots: [0 0 0 0 0.5 1 1 1 1]
	// (1.000, 0.500, 1.000)
}

func ExampleTransform() {
	pts := []bspline.Point{bspline.Pt(1, 0, 0), bspline.Pt(0, 1, 0)}
	rot := bspline.RotateZ(math.Pi / 2)
	for pt := range bspline.Transform(slices.Values(pts), rot) {
		fmt.Printf("(%.1f, %.1f, %.1f)\n", pt.X, pt.Y, pt.Z)
	}
	// Output:
	// (0.0, 1.0, 0.0)
	// (-1.0, 0.0, 0.0)
}
