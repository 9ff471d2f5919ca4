package MG3D

import (
	"errors"
	"fmt"

	"github.com/notargets/gocsem/krylov"
	"github.com/notargets/gocsem/types"
)

/*
PreconditionerError is returned by the multigrid preconditioner when its
cycle diverged or stagnated. Returning the degraded output would corrupt the
outer Krylov iteration, so the Krylov solve is stopped instead.
*/
type PreconditionerError struct {
	Status types.ExitStatus
	It     int
	L2     float64
	L2Refe float64
}

func (pe *PreconditionerError) Error() string {
	return fmt.Sprintf("MG3D: preconditioner %v in cycle %d, l2 %.4e (reference %.4e)",
		pe.Status, pe.It, pe.L2, pe.L2Refe)
}

func newKrylovMethod(name string) krylov.Method {
	switch name {
	case "cgs":
		return &krylov.CGS{}
	}
	return &krylov.BiCGStab{}
}

// MulVecTo applies the operator to flat field vectors.
func (op *Operator) MulVecTo(dst, x []complex128) {
	op.Apply(NewFieldFromData(op.Grid, 0, dst), NewFieldFromData(op.Grid, 0, x))
}

/*
runKrylov solves A e = s with the configured Krylov method, starting from
efield. With a multigrid cycle configured, one cycle from a zero guess is the
preconditioner M^-1.
*/
func (sv *solver) runKrylov(sfield, efield *Field, l2Refe float64) (err error) {
	var (
		op       = sv.op0
		settings = krylov.Settings{
			X0:            append([]complex128(nil), efield.Data...),
			Tolerance:     sv.p.Tol,
			MaxIterations: sv.p.MaxIt,
		}
	)
	if sv.p.Cycle != types.CycleNone {
		settings.PSolve = func(dst, rhs []complex128) error {
			return sv.precondition(sfield.Frequency, dst, rhs)
		}
	}
	settings.Callback = func(stats krylov.Stats) {
		sv.info.KrylovIt = stats.Iterations
		sv.trace("krylov", stats.Iterations, stats.ResidualNorm*l2Refe, l2Refe,
			sv.p.Sc.Current(), sv.p.Lr.Current())
		sv.notify(0, stats.Iterations, stats.ResidualNorm, MsgKrylov)
	}
	res, kerr := krylov.LinearSolve(op, sfield.Data, newKrylovMethod(sv.p.Krylov), settings)
	copy(efield.Data, res.X)
	efield.EnforcePEC()
	sv.info.KrylovIt = res.Stats.Iterations
	sv.info.FinalError = op.ResidualNorm(sfield, efield)
	var pe *PreconditionerError
	switch {
	case kerr == nil:
		sv.info.Exit = types.Converged
	case errors.As(kerr, &pe):
		sv.info.Exit = types.Degraded
		sv.info.ExitMessage = fmt.Sprintf("%v (%v)", types.Degraded, pe)
	case errors.Is(kerr, krylov.ErrIterationLimit):
		sv.info.Exit = types.MaxIterations
	default:
		sv.info.Exit = types.Degraded
		sv.info.ExitMessage = fmt.Sprintf("%v (%v)", types.Degraded, kerr)
	}
	return
}

// precondition runs one multigrid cycle on A dst = rhs from dst = 0.
func (sv *solver) precondition(frequency float64, dst, rhs []complex128) (err error) {
	var (
		grid = sv.op0.Grid
		b    = NewFieldFromData(grid, frequency, rhs)
		x    = NewFieldFromData(grid, frequency, dst)
	)
	x.Zero()
	l2Refe := sv.op0.ResidualNorm(b, x)
	if l2Refe == 0 {
		return
	}
	conv := newConvergence(sv.p, l2Refe, l2Refe, 1)
	if err = sv.topCycle(b, x); err != nil {
		return
	}
	sv.info.It++
	l2 := sv.op0.ResidualNorm(b, x)
	sv.advanceSchedules()
	if status := conv.checkCycle(l2); status == types.Diverged || status == types.Stagnated {
		return &PreconditionerError{Status: status, It: sv.info.It, L2: l2, L2Refe: l2Refe}
	}
	return
}
