package MG3D

import (
	"fmt"
	"time"

	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

// Info is the diagnostics record of a solve.
type Info struct {
	Exit        types.ExitStatus
	ExitMessage string
	RefError    float64 // norm of the source over the free edges
	InitError   float64 // residual norm of the initial field
	FinalError  float64 // residual norm of the returned field
	It          int     // multigrid cycles, including preconditioner cycles
	KrylovIt    int
	LevelVisits []int // cycles executed per level
	Sweeps      int   // smoothing sweeps over all levels
	Trace       []TraceEntry
	Elapsed     time.Duration
}

// RelError is the final residual norm relative to the source norm.
func (info *Info) RelError() float64 {
	if info.RefError == 0 {
		return 0
	}
	return info.FinalError / info.RefError
}

type TraceEntry struct {
	Kind     string // "cycle" or "krylov"
	It       int
	L2       float64
	Relative float64
	Sc       types.SemicoarseAxis
	Lr       types.LineRelaxAxes
	Elapsed  time.Duration
}

const msgNothingToDo = "CONVERGED (initial field already within tolerance, nothing to do)"

/*
Solve computes the electric field efield satisfying A efield = sfield on grid
for the coefficients of model.

A nil efield starts from zero and the new field is returned, otherwise efield
is improved in place and returned. Configuration problems are returned as
errors wrapping the package sentinels; numerical failure is reported through
Info.Exit only, together with the best available field.
*/
func Solve(grid *geometry3D.TensorGrid, model *Model, sfield, efield *Field, opts Options) (ef *Field, info *Info, err error) {
	var (
		start = time.Now()
		p     *Parameters
	)
	if err = checkInputs(grid, model, sfield, efield); err != nil {
		return
	}
	if p, err = NewParameters(grid, opts); err != nil {
		return
	}
	if efield == nil {
		efield = NewField(grid, sfield.Frequency)
	}
	ef = efield
	ef.EnforcePEC()
	info = &Info{LevelVisits: make([]int, p.Coarsest()+1)}
	if pr, ok := opts.Observer.(interface{ PrintInitialization(*Parameters) }); ok {
		pr.PrintInitialization(p)
	}
	sv := newSolver(p, model, opts.Observer, info)
	defer func() {
		info.Elapsed = time.Since(start)
		if info.ExitMessage == "" {
			info.ExitMessage = info.Exit.String()
		}
		if fo, ok := opts.Observer.(FinalObserver); ok {
			fo.OnFinish(info)
		}
	}()

	sref := sfield.Copy()
	sref.EnforcePEC()
	info.RefError = sref.Norm()
	sv.notify(0, 0, info.RefError, MsgReference)
	if info.RefError == 0 {
		// Zero source, zero field
		ef.Zero()
		info.Exit = types.Converged
		return
	}
	info.InitError = sv.op0.ResidualNorm(sref, ef)
	info.FinalError = info.InitError
	sv.notify(0, 0, info.InitError, MsgInitial)
	if info.InitError < p.Tol*info.RefError {
		info.Exit = types.Converged
		info.ExitMessage = msgNothingToDo
		return
	}
	if p.Krylov != "" {
		err = sv.runKrylov(sref, ef, info.RefError)
	} else {
		err = sv.runMG(sref, ef, info.RefError, info.InitError)
	}
	return
}

func checkInputs(grid *geometry3D.TensorGrid, model *Model, sfield, efield *Field) (err error) {
	switch {
	case grid == nil || model == nil || sfield == nil:
		return fmt.Errorf("Solve: grid, model and source field are required: %w", ErrInvalidParameter)
	case sfield.Frequency == 0:
		return fmt.Errorf("Solve: %w", ErrNoFrequency)
	case !sfield.Grid.SameShape(grid):
		return fmt.Errorf("Solve: source field on %v: %w", sfield.Grid, ErrFieldMismatch)
	case !model.Grid.SameShape(grid):
		return fmt.Errorf("Solve: model on %v: %w", model.Grid, ErrShapeMismatch)
	case efield == nil:
		return
	case !efield.Grid.SameShape(grid):
		return fmt.Errorf("Solve: electric field on %v: %w", efield.Grid, ErrFieldMismatch)
	case efield.IsLaplace() != sfield.IsLaplace():
		return fmt.Errorf("Solve: electric field frequency %g, source field frequency %g: %w",
			efield.Frequency, sfield.Frequency, ErrFieldMismatch)
	}
	return
}
