package krylov

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/cmplxs"
)

// A complex non-hermitian tridiagonal test matrix
type triDiag struct {
	lower, diag, upper complex128
	n                  int
}

func (td triDiag) MulVecTo(dst, x []complex128) {
	for i := 0; i < td.n; i++ {
		v := td.diag * x[i]
		if i > 0 {
			v += td.lower * x[i-1]
		}
		if i < td.n-1 {
			v += td.upper * x[i+1]
		}
		dst[i] = v
	}
}

func residual(a MulVecToer, b, x []complex128) float64 {
	r := make([]complex128, len(b))
	a.MulVecTo(r, x)
	cmplxs.Sub(r, b)
	return cmplxs.Norm(r, 2) / cmplxs.Norm(b, 2)
}

func TestLinearSolve(t *testing.T) {
	var (
		a = triDiag{lower: -1 + 0.2i, diag: 4 + 1i, upper: -1.5, n: 50}
		b = make([]complex128, a.n)
	)
	for i := range b {
		b[i] = complex(float64(i%7), float64(i%3)-1)
	}
	for _, method := range []Method{&BiCGStab{}, &CGS{}} {
		res, err := LinearSolve(a, b, method, Settings{Tolerance: 1e-10})
		require.NoError(t, err)
		assert.Less(t, residual(a, b, res.X), 1e-9)
		assert.Greater(t, res.Stats.Iterations, 0)
		assert.Less(t, res.Stats.ResidualNorm, 1e-10)
	}
	{ // Jacobi preconditioner reaches the same answer
		var calls int
		jacobi := func(dst, rhs []complex128) error {
			calls++
			for i := range rhs {
				dst[i] = rhs[i] / a.diag
			}
			return nil
		}
		res, err := LinearSolve(a, b, &BiCGStab{}, Settings{Tolerance: 1e-10, PSolve: jacobi})
		require.NoError(t, err)
		assert.Less(t, residual(a, b, res.X), 1e-9)
		assert.Equal(t, calls, res.Stats.PSolve)
	}
	{ // Initial guess that already solves the system
		res, err := LinearSolve(a, b, &BiCGStab{}, Settings{Tolerance: 1e-8})
		require.NoError(t, err)
		res2, err := LinearSolve(a, b, &CGS{}, Settings{Tolerance: 1e-6, X0: res.X})
		require.NoError(t, err)
		assert.Equal(t, 0, res2.Stats.Iterations)
		assert.Equal(t, 1, res2.Stats.MatVec)
	}
}

func TestLinearSolveErrors(t *testing.T) {
	var (
		a = triDiag{lower: -1, diag: 2.1, upper: -1, n: 100}
		b = make([]complex128, a.n)
	)
	b[0], b[a.n-1] = 1, 1i
	{ // Iteration limit, the last iterate is still returned
		var its []int
		res, err := LinearSolve(a, b, &BiCGStab{}, Settings{
			Tolerance:     1e-12,
			MaxIterations: 2,
			Callback:      func(s Stats) { its = append(its, s.Iterations) },
		})
		assert.True(t, errors.Is(err, ErrIterationLimit))
		assert.Equal(t, []int{1, 2}, its)
		assert.Len(t, res.X, a.n)
	}
	{ // Preconditioner errors are returned unchanged
		errPrecond := errors.New("preconditioner failed")
		_, err := LinearSolve(a, b, &CGS{}, Settings{
			PSolve: func(dst, rhs []complex128) error { return errPrecond },
		})
		assert.Equal(t, errPrecond, err)
	}
	{ // Zero operator breaks down
		zero := MatVecFunc(func(dst, x []complex128) {
			for i := range dst {
				dst[i] = 0
			}
		})
		_, err := LinearSolve(zero, b, &BiCGStab{}, Settings{})
		assert.True(t, errors.Is(err, ErrBreakdown))
	}
}
