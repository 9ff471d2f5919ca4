package MG3D

import (
	"github.com/notargets/gocsem/types"
	"github.com/notargets/gocsem/utils"
)

/*
convergence evaluates the residual history of a multigrid run. hist[0] is
the initial residual norm, hist[it] the norm after top level cycle it. The
checks run in a fixed order, the first that applies wins:
	Converged      l2 < tol * l2Refe
	Diverged       l2 > 10 * l2Refe, or l2 is NaN or Inf
	Stagnated      it > 2 and l2 >= the norm maxCycle cycles earlier
	MaxIterations  it == maxit
A preconditioner cycle starts from a zero guess on new data each time and is
judged by checkCycle against its own input norm instead.
*/
type convergence struct {
	tol, l2Refe float64
	maxit       int
	maxCycle    int
	hist        []float64
}

func newConvergence(p *Parameters, l2Refe, l2Init float64, maxit int) *convergence {
	return &convergence{
		tol:      p.Tol,
		l2Refe:   l2Refe,
		maxit:    maxit,
		maxCycle: max(1, p.MaxCycle),
		hist:     []float64{l2Init},
	}
}

// check records l2 as the norm after cycle it and reports whether to stop.
func (c *convergence) check(l2 float64, it int) (done bool, status types.ExitStatus) {
	c.hist = append(c.hist, l2)
	switch {
	case l2 < c.tol*c.l2Refe:
		return true, types.Converged
	case l2 > 10*c.l2Refe || !utils.IsFinite(l2):
		return true, types.Diverged
	case it > 2 && l2 >= c.hist[max(0, it-c.maxCycle)]:
		return true, types.Stagnated
	case it >= c.maxit:
		return true, types.MaxIterations
	}
	return false, types.Converged
}

// checkCycle judges a single cycle whose starting residual is hist[0]. A cycle
// that does not reduce it has stagnated.
func (c *convergence) checkCycle(l2 float64) (status types.ExitStatus) {
	c.hist = append(c.hist, l2)
	switch {
	case l2 < c.tol*c.l2Refe:
		return types.Converged
	case l2 > 10*c.l2Refe || !utils.IsFinite(l2):
		return types.Diverged
	case l2 >= c.hist[0]:
		return types.Stagnated
	}
	return types.MaxIterations
}
