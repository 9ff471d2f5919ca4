package krylov

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/cmplxs"
)

// CGS is the preconditioned Conjugate Gradient Squared method.
type CGS struct {
	first        bool
	rho, rhoPrev complex128
	alpha        complex128
	resume       int

	r, rt, p, u, q, uq, phat, vhat, uhat, qhat []complex128
}

func (cgs *CGS) Init(dim int) {
	cgs.first = true
	cgs.resume = 1
	for _, vec := range []*[]complex128{&cgs.r, &cgs.rt, &cgs.p, &cgs.u, &cgs.q, &cgs.uq,
		&cgs.phat, &cgs.vhat, &cgs.uhat, &cgs.qhat} {
		*vec = make([]complex128, dim)
	}
}

func (cgs *CGS) Iterate(ctx *Context) (Operation, error) {
	switch cgs.resume {
	case 1:
		if cgs.first {
			copy(cgs.r, ctx.Residual)
			copy(cgs.rt, cgs.r)
		}
		cgs.rho = cmplxs.Dot(cgs.rt, cgs.r)
		if cmplx.Abs(cgs.rho) < tiny {
			cgs.resume = 0
			return NoOperation, fmt.Errorf("CGS: rho: %w", ErrBreakdown)
		}
		if cgs.first {
			copy(cgs.u, cgs.r)
			copy(cgs.p, cgs.u)
		} else {
			beta := cgs.rho / cgs.rhoPrev
			cmplxs.AddScaledTo(cgs.u, cgs.r, beta, cgs.q) // u = r + β q
			cmplxs.AddScaled(cgs.q, beta, cgs.p)          // p = u + β (q + β p)
			cmplxs.AddScaledTo(cgs.p, cgs.u, beta, cgs.q)
		}
		ctx.Src, ctx.Dst = cgs.p, cgs.phat
		cgs.resume = 2
		return PSolve, nil
	case 2:
		ctx.Src, ctx.Dst = cgs.phat, cgs.vhat
		cgs.resume = 3
		return MatVec, nil
	case 3:
		rtv := cmplxs.Dot(cgs.rt, cgs.vhat)
		if cmplx.Abs(rtv) < tiny {
			cgs.resume = 0
			return NoOperation, fmt.Errorf("CGS: alpha: %w", ErrBreakdown)
		}
		cgs.alpha = cgs.rho / rtv
		cmplxs.AddScaledTo(cgs.q, cgs.u, -cgs.alpha, cgs.vhat) // q = u - α v^
		cmplxs.AddTo(cgs.uq, cgs.u, cgs.q)
		ctx.Src, ctx.Dst = cgs.uq, cgs.uhat
		cgs.resume = 4
		return PSolve, nil
	case 4:
		ctx.Src, ctx.Dst = cgs.uhat, cgs.qhat
		cgs.resume = 5
		return MatVec, nil
	case 5:
		cmplxs.AddScaled(ctx.X, cgs.alpha, cgs.uhat)
		cmplxs.AddScaled(cgs.r, -cgs.alpha, cgs.qhat)
		copy(ctx.Residual, cgs.r)
		cgs.resume = 6
		return CheckResidualNorm, nil
	case 6:
		if ctx.Converged {
			cgs.resume = 0
			return EndIteration, nil
		}
		cgs.rhoPrev = cgs.rho
		cgs.first = false
		cgs.resume = 1
		return EndIteration, nil
	default:
		panic("krylov: CGS.Init not called")
	}
}
