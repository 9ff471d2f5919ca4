package krylov

import (
	"time"

	"gonum.org/v1/gonum/cmplxs"
)

// MulVecToer is the linear operator of the system.
type MulVecToer interface {
	MulVecTo(dst, x []complex128)
}

// MatVecFunc adapts a function to MulVecToer.
type MatVecFunc func(dst, x []complex128)

func (f MatVecFunc) MulVecTo(dst, x []complex128) { f(dst, x) }

type Settings struct {
	// X0 is the initial guess, nil is the zero vector.
	X0 []complex128
	// Tolerance on the relative residual |r|/|b|, zero is 1e-6.
	Tolerance float64
	// MaxIterations, zero is twice the dimension of the system.
	MaxIterations int
	// PSolve stores into dst the solution of M z = rhs. Nil is no
	// preconditioning. A returned error ends the solve and is returned
	// unchanged by LinearSolve.
	PSolve func(dst, rhs []complex128) error
	// Callback is called after every iteration.
	Callback func(stats Stats)
}

func defaultSettings(s *Settings, dim int) {
	if s.Tolerance == 0 {
		s.Tolerance = 1e-6
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 2 * dim
	}
}

type Result struct {
	X     []complex128
	Stats Stats
}

type Stats struct {
	Iterations int
	MatVec     int
	PSolve     int
	// ResidualNorm is the last relative residual norm |r|/|b|.
	ResidualNorm float64
	StartTime    time.Time
	Runtime      time.Duration
}

/*
LinearSolve solves A x = b with method. The dimension is the length of b.
The returned Result always holds the last iterate, also when an error is
returned.
*/
func LinearSolve(a MulVecToer, b []complex128, method Method, settings Settings) (res Result, err error) {
	var (
		stats = Stats{StartTime: time.Now()}
		dim   = len(b)
	)
	if settings.X0 != nil && len(settings.X0) != dim {
		panic("krylov: mismatched length of initial guess")
	}
	if dim == 0 {
		return Result{Stats: stats}, nil
	}
	defaultSettings(&settings, dim)
	if settings.Tolerance <= 0 || settings.Tolerance >= 1 {
		panic("krylov: invalid tolerance")
	}
	ctx := &Context{
		X:        make([]complex128, dim),
		Residual: make([]complex128, dim),
	}
	if settings.X0 != nil {
		copy(ctx.X, settings.X0)
		a.MulVecTo(ctx.Residual, ctx.X)
		stats.MatVec++
		cmplxs.AddScaledTo(ctx.Residual, b, -1, ctx.Residual) // r = b - Ax
	} else {
		copy(ctx.Residual, b)
	}
	bnorm := cmplxs.Norm(b, 2)
	if bnorm == 0 {
		bnorm = 1
	}
	ctx.ResidualNorm = cmplxs.Norm(ctx.Residual, 2)
	stats.ResidualNorm = ctx.ResidualNorm / bnorm
	if stats.ResidualNorm >= settings.Tolerance {
		err = iterate(a, b, bnorm, ctx, settings, method, &stats)
	}
	stats.Runtime = time.Since(stats.StartTime)
	return Result{X: ctx.X, Stats: stats}, err
}

func iterate(a MulVecToer, b []complex128, bnorm float64, ctx *Context, settings Settings,
	method Method, stats *Stats) error {
	method.Init(len(b))
	for {
		op, err := method.Iterate(ctx)
		if err != nil {
			return err
		}
		switch op {
		case NoOperation:
		case ComputeResidual:
			a.MulVecTo(ctx.Residual, ctx.X)
			stats.MatVec++
			cmplxs.AddScaledTo(ctx.Residual, b, -1, ctx.Residual)
		case MatVec:
			a.MulVecTo(ctx.Dst, ctx.Src)
			stats.MatVec++
		case PSolve:
			if settings.PSolve == nil {
				copy(ctx.Dst, ctx.Src)
				continue
			}
			if err = settings.PSolve(ctx.Dst, ctx.Src); err != nil {
				return err
			}
			stats.PSolve++
		case CheckResidualNorm:
			ctx.ResidualNorm = cmplxs.Norm(ctx.Residual, 2)
			ctx.Converged = ctx.ResidualNorm/bnorm < settings.Tolerance
		case EndIteration:
			stats.Iterations++
			stats.ResidualNorm = ctx.ResidualNorm / bnorm
			if settings.Callback != nil {
				settings.Callback(*stats)
			}
			if ctx.Converged {
				return nil
			}
			if stats.Iterations == settings.MaxIterations {
				return ErrIterationLimit
			}
		default:
			panic("krylov: invalid operation")
		}
	}
}
