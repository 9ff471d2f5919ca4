package types

import (
	"fmt"
	"strings"
)

type CycleType uint8

const (
	CycleNone CycleType = iota
	CycleV
	CycleW
	CycleF
)

var CycleNameMap = map[string]CycleType{
	"":     CycleNone,
	"none": CycleNone,
	"v":    CycleV,
	"w":    CycleW,
	"f":    CycleF,
}

func (ct CycleType) String() string {
	switch ct {
	case CycleV:
		return "V"
	case CycleW:
		return "W"
	case CycleF:
		return "F"
	default:
		return "none"
	}
}

func ParseCycle(name string) (ct CycleType, err error) {
	var ok bool
	if ct, ok = CycleNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown cycle %q, must be one of V, W, F or none", name)
	}
	return
}

/*
SemicoarseAxis names the axes that are NOT coarsened when building the next
multigrid level. SemicoarseAll coarsens every axis, SemicoarseNone coarsens
none. The numeric values are the user codes 0-7.
*/
type SemicoarseAxis uint8

const (
	SemicoarseAll SemicoarseAxis = iota
	SemicoarseX
	SemicoarseY
	SemicoarseZ
	SemicoarseYZ
	SemicoarseXZ
	SemicoarseXY
	SemicoarseNone
)

// Excluded axes per code, indexed [code][axis]
var semicoarseExcluded = [8][3]bool{
	{false, false, false},
	{true, false, false},
	{false, true, false},
	{false, false, true},
	{false, true, true},
	{true, false, true},
	{true, true, false},
	{true, true, true},
}

func (sc SemicoarseAxis) Excluded(axis int) bool { return semicoarseExcluded[sc][axis] }
func (sc SemicoarseAxis) Coarsened(axis int) bool { return !semicoarseExcluded[sc][axis] }

func (sc SemicoarseAxis) String() string {
	return [8]string{"all", "x", "y", "z", "yz", "xz", "xy", "none"}[sc]
}

/*
LineRelaxAxes names the axes along which line relaxation is applied. The
numeric values are the user codes 0-7, LineRelaxNone is point (node-block)
relaxation.
*/
type LineRelaxAxes uint8

const (
	LineRelaxNone LineRelaxAxes = iota
	LineRelaxX
	LineRelaxY
	LineRelaxZ
	LineRelaxYZ
	LineRelaxXZ
	LineRelaxXY
	LineRelaxXYZ
)

var lineRelaxAxes = [8][3]bool{
	{false, false, false},
	{true, false, false},
	{false, true, false},
	{false, false, true},
	{false, true, true},
	{true, false, true},
	{true, true, false},
	{true, true, true},
}

func (lr LineRelaxAxes) Has(axis int) bool { return lineRelaxAxes[lr][axis] }

func (lr LineRelaxAxes) Axes() [3]bool { return lineRelaxAxes[lr] }

func (lr LineRelaxAxes) String() string {
	return [8]string{"none", "x", "y", "z", "yz", "xz", "xy", "xyz"}[lr]
}

// Without returns lr with axis removed from the set.
func (lr LineRelaxAxes) Without(axis int) LineRelaxAxes {
	axes := lineRelaxAxes[lr]
	axes[axis] = false
	return LineRelaxFromAxes(axes)
}

func LineRelaxFromAxes(axes [3]bool) LineRelaxAxes {
	for code, set := range lineRelaxAxes {
		if set == axes {
			return LineRelaxAxes(code)
		}
	}
	panic("unreachable line relaxation axis set")
}

type ExitStatus uint8

const (
	Converged ExitStatus = iota
	MaxIterations
	Stagnated
	Diverged
	Degraded
)

func (es ExitStatus) String() string {
	switch es {
	case Converged:
		return "CONVERGED"
	case MaxIterations:
		return "MAX. ITERATION REACHED, NOT CONVERGED"
	case Stagnated:
		return "STAGNATED"
	case Diverged:
		return "DIVERGED"
	case Degraded:
		return "SOLVER RETURNED DEGRADED FIELD"
	default:
		return "UNKNOWN"
	}
}
