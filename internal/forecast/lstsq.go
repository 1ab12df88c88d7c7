package forecast

import (
	"fmt"
	"math"

	"github.com/quantdesk/quantdesk/internal/contracts"
)

// lstsq solves min ‖Xb − y‖₂ by Householder QR with column pivoting.
// Lagged price levels are near-collinear for trending series, so the
// normal equations are numerically unusable here; pivoting detects the
// effective rank and assigns zero coefficients to redundant columns
// instead of dividing by a vanishing pivot.
func lstsq(x [][]float64, y []float64) ([]float64, error) {
	m := len(x)
	if m == 0 || m != len(y) {
		return nil, fmt.Errorf("%w: design matrix has %d rows, target has %d", contracts.ErrInvalidInput, m, len(y))
	}
	n := len(x[0])
	if m < n {
		return nil, fmt.Errorf("%w: %d rows for %d coefficients", contracts.ErrInsufficientData, m, n)
	}

	// Work on copies; the factorization is in-place.
	a := make([][]float64, m)
	for i := range x {
		a[i] = append([]float64(nil), x[i]...)
	}
	b := append([]float64(nil), y...)
	perm := make([]int, n)
	for j := range perm {
		perm[j] = j
	}

	colNorm := func(j, fromRow int) float64 {
		s := 0.0
		for i := fromRow; i < m; i++ {
			s += a[i][j] * a[i][j]
		}
		return math.Sqrt(s)
	}

	maxNorm := 0.0
	for j := 0; j < n; j++ {
		if nv := colNorm(j, 0); nv > maxNorm {
			maxNorm = nv
		}
	}
	tol := 1e-10 * maxNorm

	rank := n
	for k := 0; k < n; k++ {
		// Pivot: bring the column with the largest remaining norm to k.
		best, bestNorm := k, colNorm(k, k)
		for j := k + 1; j < n; j++ {
			if nv := colNorm(j, k); nv > bestNorm {
				best, bestNorm = j, nv
			}
		}
		if bestNorm <= tol {
			rank = k
			break
		}
		if best != k {
			for i := 0; i < m; i++ {
				a[i][k], a[i][best] = a[i][best], a[i][k]
			}
			perm[k], perm[best] = perm[best], perm[k]
		}

		// Householder reflector for column k.
		alpha := bestNorm
		if a[k][k] > 0 {
			alpha = -alpha
		}
		v := make([]float64, m)
		v[k] = a[k][k] - alpha
		for i := k + 1; i < m; i++ {
			v[i] = a[i][k]
		}
		vNorm2 := 0.0
		for i := k; i < m; i++ {
			vNorm2 += v[i] * v[i]
		}
		if vNorm2 == 0 {
			continue
		}

		for j := k; j < n; j++ {
			dot := 0.0
			for i := k; i < m; i++ {
				dot += v[i] * a[i][j]
			}
			scale := 2 * dot / vNorm2
			for i := k; i < m; i++ {
				a[i][j] -= scale * v[i]
			}
		}
		dot := 0.0
		for i := k; i < m; i++ {
			dot += v[i] * b[i]
		}
		scale := 2 * dot / vNorm2
		for i := k; i < m; i++ {
			b[i] -= scale * v[i]
		}
	}

	// Back substitution over the leading rank×rank triangle; redundant
	// columns keep coefficient zero.
	coef := make([]float64, n)
	for i := rank - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < rank; j++ {
			s -= a[i][j] * coef[perm[j]]
		}
		coef[perm[i]] = s / a[i][i]
	}
	return coef, nil
}
