package bspline

// Knot removal on rational curves rejects any removal that would store a
// weight outside [WeightMin, WeightMax]. Extreme weights amplify rounding
// errors when poles are dehomogenized.
const (
	WeightMin = 1e-5
	WeightMax = 200.0
)

// homogeneousTolerance converts a Euclidean tolerance into one valid for
// deviations measured between weighted poles. For non-rational curves it is
// the tolerance itself.
//
// Deviation of the weighted poles by d moves the curve by at most
// d*(1+|P|max)/wmin (The NURBS Book, eq. 9.84).
func homogeneousTolerance(c *Curve, tol float64) float64 {
	if !c.Rational {
		return tol
	}
	return tol * c.MinWeight() / (1 + c.MaxPoleMagnitude())
}

// WeightsInBand reports whether every weight of c lies in
// [WeightMin, WeightMax]. Non-rational curves always pass.
func WeightsInBand(c *Curve) bool {
	if !c.Rational {
		return true
	}
	for _, w := range c.Weights {
		if !(w >= WeightMin && w <= WeightMax) {
			return false
		}
	}
	return true
}
