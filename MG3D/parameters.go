package MG3D

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
	"github.com/notargets/gocsem/utils"
)

var (
	ErrInvalidCycle          = errors.New("MG3D: invalid cycle")
	ErrInvalidSemicoarsening = errors.New("MG3D: invalid semicoarsening")
	ErrInvalidLineRelaxation = errors.New("MG3D: invalid line relaxation")
	ErrNoFrequency           = errors.New("MG3D: source field has no frequency")
	ErrFieldMismatch         = errors.New("MG3D: field does not match grid")
	ErrNothingToDo           = errors.New("MG3D: neither multigrid nor a Krylov solver selected")
	ErrInvalidParameter      = errors.New("MG3D: invalid parameter")
	ErrDegenerateGrid        = geometry3D.ErrDegenerateGrid
	KrylovMethodNames        = []string{"bicgstab", "cgs"}
)

/*
Options configures a solve. Start from DefaultOptions and override fields.

	Cycle           V, W, F or CycleNone (Krylov only)
	Krylov          "" (none), "bicgstab" or "cgs"; with a Cycle set, one
	                multigrid cycle is the preconditioner
	Semicoarsening  direction schedule, see types.ParseSemicoarsening
	LineRelaxation  direction schedule, see types.ParseLineRelaxation
	CLevel          coarsest level cap, < 0 is as coarse as possible
*/
type Options struct {
	Cycle                           types.CycleType
	Krylov                          string
	Semicoarsening                  string
	LineRelaxation                  string
	Tol                             float64
	MaxIt                           int
	NuInit, NuPre, NuCoarse, NuPost int
	CLevel                          int
	ParallelDegree                  int
	Observer                        Observer
}

func DefaultOptions() Options {
	return Options{
		Cycle:          types.CycleF,
		Tol:            1e-6,
		MaxIt:          50,
		NuPre:          2,
		NuCoarse:       1,
		NuPost:         2,
		CLevel:         -1,
		ParallelDegree: utils.DefaultParallelDegree(),
	}
}

// Parameters is the validated, decoded form of Options for one solve.
type Parameters struct {
	Cycle                           types.CycleType
	Krylov                          string
	Sc                              *types.Cyclic[types.SemicoarseAxis]
	Lr                              *types.Cyclic[types.LineRelaxAxes]
	Tol                             float64
	MaxIt                           int
	NuInit, NuPre, NuCoarse, NuPost int
	CLevel                          int
	ParallelDegree                  int
	// MaxCycle is the length of one period of the direction schedules.
	MaxCycle  int
	Grid      *geometry3D.TensorGrid
	maxLevels [8]int
}

func NewParameters(grid *geometry3D.TensorGrid, opts Options) (p *Parameters, err error) {
	p = &Parameters{
		Cycle:          opts.Cycle,
		Krylov:         strings.ToLower(strings.TrimSpace(opts.Krylov)),
		Tol:            opts.Tol,
		MaxIt:          opts.MaxIt,
		NuInit:         opts.NuInit,
		NuPre:          opts.NuPre,
		NuCoarse:       opts.NuCoarse,
		NuPost:         opts.NuPost,
		CLevel:         opts.CLevel,
		ParallelDegree: opts.ParallelDegree,
		Grid:           grid,
	}
	if p.Cycle > types.CycleF {
		return nil, fmt.Errorf("NewParameters: cycle code %d: %w", p.Cycle, ErrInvalidCycle)
	}
	if p.Krylov != "" && !isKrylovMethod(p.Krylov) {
		return nil, fmt.Errorf("NewParameters: unknown Krylov method %q, must be one of %v: %w",
			opts.Krylov, KrylovMethodNames, ErrInvalidParameter)
	}
	if p.Cycle == types.CycleNone && p.Krylov == "" {
		return nil, fmt.Errorf("NewParameters: %w", ErrNothingToDo)
	}
	if !(p.Tol > 0) || math.IsInf(p.Tol, 0) {
		return nil, fmt.Errorf("NewParameters: tolerance %g must be positive: %w", p.Tol, ErrInvalidParameter)
	}
	if p.Krylov != "" && p.Tol >= 1 {
		return nil, fmt.Errorf("NewParameters: Krylov tolerance %g must be below 1: %w", p.Tol, ErrInvalidParameter)
	}
	if p.MaxIt < 1 {
		return nil, fmt.Errorf("NewParameters: maxit %d must be at least 1: %w", p.MaxIt, ErrInvalidParameter)
	}
	for _, nu := range []int{p.NuInit, p.NuPre, p.NuCoarse, p.NuPost} {
		if nu < 0 {
			return nil, fmt.Errorf("NewParameters: negative number of sweeps %d: %w", nu, ErrInvalidParameter)
		}
	}
	if p.ParallelDegree < 1 {
		p.ParallelDegree = 1
	}
	nc := grid.NCells()
	for axis := 0; axis < 3; axis++ {
		if nc[axis] < 2 {
			return nil, fmt.Errorf("NewParameters: axis %d has %d cells: %w", axis, nc[axis], ErrDegenerateGrid)
		}
	}
	if p.Sc, err = types.ParseSemicoarsening(opts.Semicoarsening); err != nil {
		return nil, fmt.Errorf("NewParameters: %v: %w", err, ErrInvalidSemicoarsening)
	}
	if p.Lr, err = types.ParseLineRelaxation(opts.LineRelaxation); err != nil {
		return nil, fmt.Errorf("NewParameters: %v: %w", err, ErrInvalidLineRelaxation)
	}
	p.MaxCycle = max(p.Sc.Len(), p.Lr.Len())
	for sc := types.SemicoarseAll; sc <= types.SemicoarseNone; sc++ {
		p.maxLevels[sc] = grid.MaxLevelFor(sc, p.CLevel)
	}
	return
}

func isKrylovMethod(name string) bool {
	for _, n := range KrylovMethodNames {
		if n == name {
			return true
		}
	}
	return false
}

// MaxLevel is the coarsest level index for semicoarsening direction sc.
func (p *Parameters) MaxLevel(sc types.SemicoarseAxis) int { return p.maxLevels[sc] }

// Coarsest is the deepest level over the configured schedule.
func (p *Parameters) Coarsest() (level int) {
	for _, sc := range p.Sc.Seq {
		level = max(level, p.maxLevels[sc])
	}
	return
}
