/*
Package krylov implements reverse communication Krylov subspace methods for
complex linear systems
	A x = b
where A is only available through matrix-vector products. A Method never
touches A or the preconditioner directly; it returns an Operation that the
driver in LinearSolve carries out on the Context.
*/
package krylov

import "errors"

var (
	ErrIterationLimit = errors.New("krylov: iteration limit reached")
	ErrBreakdown      = errors.New("krylov: breakdown")
)

// Operation is a command from a Method to the driver.
type Operation uint64

const (
	NoOperation Operation = 0
	// MatVec stores A*Src into Dst.
	MatVec Operation = 1 << (iota - 1)
	// PSolve stores the solution of M z = Src into Dst.
	PSolve
	// ComputeResidual stores b - A*X into Residual.
	ComputeResidual
	// CheckResidualNorm computes the norm of Residual and sets Converged.
	CheckResidualNorm
	// EndIteration closes one iteration of the method.
	EndIteration
)

type Method interface {
	// Init allocates the work vectors for a system of dimension dim and
	// resets the method.
	Init(dim int)
	Iterate(ctx *Context) (Operation, error)
}

// Context is the state shared between a Method and the driver.
type Context struct {
	X            []complex128
	Residual     []complex128
	ResidualNorm float64
	Converged    bool
	Src, Dst     []complex128
}

// tiny is the breakdown threshold, the square of the machine epsilon.
const tiny = (1.0 / (1 << 53)) * (1.0 / (1 << 53))
