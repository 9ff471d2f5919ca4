package krylov

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// BiCGStab is the right preconditioned BiConjugate Gradient Stabilized
// method for general complex systems.
type BiCGStab struct {
	first        bool
	rho, rhoPrev complex128
	alpha, omega complex128
	resume       int

	r, rt, p, v, t, phat, shat []complex128
}

func (bicg *BiCGStab) Init(dim int) {
	bicg.first = true
	bicg.resume = 1
	for _, vec := range []*[]complex128{&bicg.r, &bicg.rt, &bicg.p, &bicg.v, &bicg.t, &bicg.phat, &bicg.shat} {
		*vec = make([]complex128, dim)
	}
}

func (bicg *BiCGStab) Iterate(ctx *Context) (Operation, error) {
	switch bicg.resume {
	case 1:
		if bicg.first {
			copy(bicg.r, ctx.Residual)
			copy(bicg.rt, bicg.r)
		}
		bicg.rho = cmplxs.Dot(bicg.rt, bicg.r)
		if cmplx.Abs(bicg.rho) < tiny {
			bicg.resume = 0
			return NoOperation, fmt.Errorf("BiCGStab: rho: %w", ErrBreakdown)
		}
		if bicg.first {
			copy(bicg.p, bicg.r)
		} else {
			beta := (bicg.rho / bicg.rhoPrev) * (bicg.alpha / bicg.omega)
			cmplxs.AddScaled(bicg.p, -bicg.omega, bicg.v) // p -= ω v
			cmplxs.Scale(beta, bicg.p)                    // p *= β
			cmplxs.Add(bicg.p, bicg.r)                    // p += r
		}
		ctx.Src, ctx.Dst = bicg.p, bicg.phat
		bicg.resume = 2
		return PSolve, nil
	case 2:
		ctx.Src, ctx.Dst = bicg.phat, bicg.v
		bicg.resume = 3
		return MatVec, nil
	case 3:
		rtv := cmplxs.Dot(bicg.rt, bicg.v)
		if cmplx.Abs(rtv) < tiny {
			bicg.resume = 0
			return NoOperation, fmt.Errorf("BiCGStab: alpha: %w", ErrBreakdown)
		}
		bicg.alpha = bicg.rho / rtv
		cmplxs.AddScaled(bicg.r, -bicg.alpha, bicg.v) // s = r - α v, kept in r
		copy(ctx.Residual, bicg.r)
		bicg.resume = 4
		return CheckResidualNorm, nil
	case 4:
		if ctx.Converged {
			cmplxs.AddScaled(ctx.X, bicg.alpha, bicg.phat)
			bicg.resume = 0
			return EndIteration, nil
		}
		ctx.Src, ctx.Dst = bicg.r, bicg.shat
		bicg.resume = 5
		return PSolve, nil
	case 5:
		ctx.Src, ctx.Dst = bicg.shat, bicg.t
		bicg.resume = 6
		return MatVec, nil
	case 6:
		tt := cmplxs.Dot(bicg.t, bicg.t)
		if cmplx.Abs(tt) < tiny {
			bicg.resume = 0
			return NoOperation, fmt.Errorf("BiCGStab: t: %w", ErrBreakdown)
		}
		bicg.omega = cmplxs.Dot(bicg.t, bicg.r) / tt
		cmplxs.AddScaled(ctx.X, bicg.alpha, bicg.phat)
		cmplxs.AddScaled(ctx.X, bicg.omega, bicg.shat)
		cmplxs.AddScaled(bicg.r, -bicg.omega, bicg.t)
		copy(ctx.Residual, bicg.r)
		bicg.resume = 7
		return CheckResidualNorm, nil
	case 7:
		if ctx.Converged {
			bicg.resume = 0
			return EndIteration, nil
		}
		if cmplx.Abs(bicg.omega) < tiny {
			bicg.resume = 0
			return NoOperation, fmt.Errorf("BiCGStab: omega: %w", ErrBreakdown)
		}
		bicg.rhoPrev = bicg.rho
		bicg.first = false
		bicg.resume = 1
		return EndIteration, nil
	default:
		panic("krylov: BiCGStab.Init not called")
	}
}
