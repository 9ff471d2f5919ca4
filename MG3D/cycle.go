package MG3D

import (
	"time"

	"github.com/notargets/gocsem/types"
)

/*
solver carries the state of one solve through the recursion. Only the level
0 operator and the counters live here; every coarser level owns its grid,
model and fields inside its own call frame.
*/
type solver struct {
	p     *Parameters
	obs   Observer
	info  *Info
	op0   *Operator
	start time.Time
}

func newSolver(p *Parameters, model *Model, obs Observer, info *Info) *solver {
	return &solver{
		p:     p,
		obs:   obs,
		info:  info,
		op0:   NewOperator(model, p.ParallelDegree),
		start: time.Now(),
	}
}

func (sv *solver) notify(level, it int, l2 float64, message string) {
	if sv.obs != nil {
		sv.obs.OnCycle(level, it, l2, message)
	}
}

func (sv *solver) smooth(op *Operator, sfield, efield *Field, nu int) {
	if nu == 0 {
		return
	}
	op.Smooth(sfield, efield, nu, sv.p.Lr.Current())
	sv.info.Sweeps += nu
}

// childCycles bounds the number of cycles of the next coarser level for the
// cyc-th cycle out of cycmax at the current level.
func (sv *solver) childCycles(cyc, cycmax int) int {
	switch sv.p.Cycle {
	case types.CycleW:
		return 2
	case types.CycleF:
		return cycmax - cyc
	}
	return 1
}

// topCycle runs one multigrid cycle at level 0, improving efield in place.
func (sv *solver) topCycle(sfield, efield *Field) (err error) {
	var (
		sc     = sv.p.Sc.Current()
		coarse = sv.p.MaxLevel(sc)
		cycmax = 2
	)
	if coarse == 0 {
		sv.info.LevelVisits[0]++
		sv.smooth(sv.op0, sfield, efield, sv.p.NuCoarse)
		return
	}
	if sv.p.Cycle == types.CycleV {
		cycmax = 1
	}
	return sv.oneCycle(0, coarse, sv.op0, sfield, efield, cycmax)
}

// cycle runs up to cycmax cycles at level lvl > 0, or the coarse level solve.
func (sv *solver) cycle(lvl, coarse int, op *Operator, sfield, efield *Field, cycmax int) (err error) {
	if lvl == coarse {
		sv.info.LevelVisits[lvl]++
		sv.smooth(op, sfield, efield, sv.p.NuCoarse)
		return
	}
	for cyc := 0; cyc < cycmax; cyc++ {
		if err = sv.oneCycle(lvl, coarse, op, sfield, efield, sv.childCycles(cyc, cycmax)); err != nil {
			return
		}
	}
	return
}

// oneCycle is pre-smoothing, coarse grid correction and post-smoothing.
func (sv *solver) oneCycle(lvl, coarse int, op *Operator, sfield, efield *Field, childCycles int) (err error) {
	var (
		sc       = sv.p.Sc.Current()
		residual = NewField(op.Grid, sfield.Frequency)
	)
	sv.info.LevelVisits[lvl]++
	sv.smooth(op, sfield, efield, sv.p.NuPre)
	op.Residual(residual, sfield, efield)
	cgrid, cmodel, csfield, cefield, err := Restrict(op.Grid, op.Model, sfield, residual, sc)
	if err != nil {
		return
	}
	if sv.obs != nil {
		sv.notify(lvl+1, sv.info.It, csfield.Norm(), MsgDescent)
	}
	cop := NewOperator(cmodel, sv.p.ParallelDegree)
	if err = sv.cycle(lvl+1, coarse, cop, csfield, cefield, childCycles); err != nil {
		return
	}
	Prolongate(op.Grid, efield, cgrid, cefield, sc)
	sv.smooth(op, sfield, efield, sv.p.NuPost)
	return
}

func (sv *solver) advanceSchedules() {
	sv.p.Sc.Advance()
	sv.p.Lr.Advance()
}

// runMG iterates multigrid cycles from efield until the termination check
// stops the loop.
func (sv *solver) runMG(sfield, efield *Field, l2Refe, l2Init float64) (err error) {
	var (
		conv = newConvergence(sv.p, l2Refe, l2Init, sv.p.MaxIt)
		l2   float64
	)
	sv.smooth(sv.op0, sfield, efield, sv.p.NuInit)
	for it := 1; ; it++ {
		var (
			sc = sv.p.Sc.Current()
			lr = sv.p.Lr.Current()
		)
		if err = sv.topCycle(sfield, efield); err != nil {
			return
		}
		l2 = sv.op0.ResidualNorm(sfield, efield)
		sv.info.It = it
		sv.trace("cycle", it, l2, l2Refe, sc, lr)
		sv.notify(0, it, l2, MsgCycle)
		sv.advanceSchedules()
		done, status := conv.check(l2, it)
		if done {
			sv.info.Exit = status
			sv.info.FinalError = l2
			return
		}
	}
}

func (sv *solver) trace(kind string, it int, l2, l2Refe float64, sc types.SemicoarseAxis, lr types.LineRelaxAxes) {
	te := TraceEntry{
		Kind:    kind,
		It:      it,
		L2:      l2,
		Sc:      sc,
		Lr:      lr,
		Elapsed: time.Since(sv.start),
	}
	if l2Refe > 0 {
		te.Relative = l2 / l2Refe
	}
	sv.info.Trace = append(sv.info.Trace, te)
}
