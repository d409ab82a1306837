package bspline

// basisFuncs computes the degree+1 non-vanishing basis functions at u in the
// given span. This is algorithm A2.2 of The NURBS Book.
func basisFuncs(kv KnotVector, span, degree int, u float64) []float64 {
	n := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	n[0] = 1
	for j := 1; j <= degree; j++ {
		left[j] = u - kv[span+1-j]
		right[j] = kv[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := n[r] / (right[r+1] + left[j-r])
			n[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		n[j] = saved
	}
	return n
}

// dersBasisFuncs computes the non-vanishing basis functions and their
// derivatives up to order nd at u in the given span. ders[k][j] is the k-th
// derivative of basis function span-degree+j. This is algorithm A2.3 of The
// NURBS Book.
func dersBasisFuncs(kv KnotVector, span, degree, nd int, u float64) [][]float64 {
	p := degree
	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	left := make([]float64, p+1)
	right := make([]float64, p+1)

	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = u - kv[span+1-j]
		right[j] = kv[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			// lower triangle
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			// upper triangle
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	ders := make([][]float64, nd+1)
	for k := range ders {
		ders[k] = make([]float64, p+1)
	}
	// Derivatives above the degree vanish.
	nd = min(nd, p)
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= nd; k++ {
			d := 0.0
			rk := r - k
			pk := p - k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}

	r := float64(p)
	for k := 1; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= r
		}
		r *= float64(p - k)
	}
	return ders
}
