package InputParameters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gocsem/MG3D"
	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

/*
InputParameters3D is the YAML description of one solve:

	Title: "Fullspace"
	Grid:
	  Cells: [16, 16, 16]
	  Width: [50, 50, 50]     # uniform widths, or Hx/Hy/Hz lists
	  Stretch: [1, 1, 1.05]   # optional growth factor per cell
	  Origin: [-400, -400, -400]
	Model:
	  Frequency: 1.0          # negative is the Laplace domain
	  Resistivity: [1.0]      # one value or one per cell, x fastest
	Source:
	  Position: [0, 0, 0]
	  Axis: x
	  Strength: 1
	Solver:
	  Cycle: F
	  Semicoarsening: true    # false, 0-7 or a digit sequence such as 1213
	  LineRelaxation: 0
	  Tol: 1.e-6
	  MaxIt: 50
*/
type InputParameters3D struct {
	Title  string      `json:"Title"`
	Grid   GridInput   `json:"Grid"`
	Model  ModelInput  `json:"Model"`
	Source SourceInput `json:"Source"`
	Solver SolverInput `json:"Solver"`
}

type GridInput struct {
	Cells      [3]int     `json:"Cells"`
	Width      [3]float64 `json:"Width"`
	Stretch    [3]float64 `json:"Stretch"`
	Hx, Hy, Hz []float64
	Origin     [3]float64 `json:"Origin"`
}

type ModelInput struct {
	Frequency    float64   `json:"Frequency"`
	Resistivity  []float64 `json:"Resistivity"`
	ResistivityY []float64 `json:"ResistivityY"`
	ResistivityZ []float64 `json:"ResistivityZ"`
	MuR          []float64 `json:"MuR"`
}

type SourceInput struct {
	Position [3]float64 `json:"Position"`
	Axis     string     `json:"Axis"`
	Strength float64    `json:"Strength"`
}

// SolverInput leaves unset values at the MG3D defaults. The sweep counts and
// the level cap are pointers, zero is a meaningful setting for them.
type SolverInput struct {
	Cycle          string   `json:"Cycle"`
	Krylov         string   `json:"Krylov"`
	Semicoarsening Schedule `json:"Semicoarsening"`
	LineRelaxation Schedule `json:"LineRelaxation"`
	Tol            float64  `json:"Tol"`
	MaxIt          int      `json:"MaxIt"`
	NuInit         *int     `json:"NuInit"`
	NuPre          *int     `json:"NuPre"`
	NuCoarse       *int     `json:"NuCoarse"`
	NuPost         *int     `json:"NuPost"`
	CLevel         *int     `json:"CLevel"`
}

// Schedule is a direction schedule given as a boolean, a number or a string.
type Schedule string

func (s *Schedule) UnmarshalJSON(data []byte) (err error) {
	var v interface{}
	if err = json.Unmarshal(data, &v); err != nil {
		return
	}
	switch val := v.(type) {
	case nil:
		*s = ""
	case bool:
		*s = Schedule(strconv.FormatBool(val))
	case float64:
		if val < 0 || val != float64(int64(val)) {
			return fmt.Errorf("direction schedule %v must be a non-negative integer", val)
		}
		*s = Schedule(strconv.FormatInt(int64(val), 10))
	case string:
		*s = Schedule(val)
	default:
		return fmt.Errorf("direction schedule %s must be a boolean, number or string", string(data))
	}
	return
}

func (ip *InputParameters3D) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters3D) Print() {
	var (
		g = ip.Grid
		s = ip.Solver
	)
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if len(g.Hx) != 0 {
		fmt.Printf("[%d %d %d]\t\t= Cells (explicit widths)\n", len(g.Hx), len(g.Hy), len(g.Hz))
	} else {
		fmt.Printf("%v\t\t= Cells\n", g.Cells)
		fmt.Printf("%v\t\t= Width\n", g.Width)
	}
	fmt.Printf("%v\t\t= Origin\n", g.Origin)
	fmt.Printf("%8.5g\t\t= Frequency\n", ip.Model.Frequency)
	if len(ip.Model.Resistivity) == 1 {
		fmt.Printf("%8.5g\t\t= Resistivity\n", ip.Model.Resistivity[0])
	} else {
		fmt.Printf("[%d values]\t\t= Resistivity\n", len(ip.Model.Resistivity))
	}
	fmt.Printf("%v %s\t\t= Source position, axis\n", ip.Source.Position, ip.Source.Axis)
	fmt.Printf("[%s]\t\t\t= Cycle\n", s.Cycle)
	if s.Krylov != "" {
		fmt.Printf("[%s]\t\t= Krylov\n", s.Krylov)
	}
	fmt.Printf("[%s] [%s]\t\t= Semicoarsening, LineRelaxation\n", s.Semicoarsening, s.LineRelaxation)
}

// BuildGrid returns the tensor grid, explicit widths take precedence over
// the uniform description.
func (ip *InputParameters3D) BuildGrid() (grid *geometry3D.TensorGrid, err error) {
	var (
		g      = ip.Grid
		widths = [3][]float64{g.Hx, g.Hy, g.Hz}
	)
	if len(g.Hx) == 0 && len(g.Hy) == 0 && len(g.Hz) == 0 {
		for axis := 0; axis < 3; axis++ {
			var (
				w      = g.Width[axis]
				factor = g.Stretch[axis]
			)
			if factor == 0 {
				factor = 1
			}
			widths[axis] = make([]float64, g.Cells[axis])
			for i := range widths[axis] {
				widths[axis][i] = w
				w *= factor
			}
		}
	}
	if grid, err = geometry3D.NewTensorGrid(widths[0], widths[1], widths[2], g.Origin); err != nil {
		err = fmt.Errorf("input grid: %w", err)
	}
	return
}

func (ip *InputParameters3D) BuildModel(grid *geometry3D.TensorGrid) (model *MG3D.Model, err error) {
	m := ip.Model
	if m.Frequency == 0 {
		return nil, fmt.Errorf("input model: %w", MG3D.ErrNoFrequency)
	}
	if model, err = MG3D.NewModelFromResistivity(grid, m.Frequency,
		m.Resistivity, m.ResistivityY, m.ResistivityZ, m.MuR); err != nil {
		err = fmt.Errorf("input model: %w", err)
	}
	return
}

func (ip *InputParameters3D) BuildSource(grid *geometry3D.TensorGrid) (sfield *MG3D.Field, err error) {
	var (
		src      = ip.Source
		strength = src.Strength
		axis     int
	)
	switch strings.ToLower(strings.TrimSpace(src.Axis)) {
	case "", "x":
		axis = 0
	case "y":
		axis = 1
	case "z":
		axis = 2
	default:
		return nil, fmt.Errorf("input source: axis %q must be x, y or z: %w", src.Axis, MG3D.ErrInvalidParameter)
	}
	if strength == 0 {
		strength = 1
	}
	return MG3D.NewDipoleSource(grid, ip.Model.Frequency, src.Position, axis, strength)
}

// Options overlays the solver section onto MG3D.DefaultOptions.
func (ip *InputParameters3D) Options() (opts MG3D.Options, err error) {
	s := ip.Solver
	opts = MG3D.DefaultOptions()
	if s.Cycle != "" {
		if opts.Cycle, err = types.ParseCycle(s.Cycle); err != nil {
			err = fmt.Errorf("input solver: %v: %w", err, MG3D.ErrInvalidCycle)
			return
		}
	}
	opts.Krylov = s.Krylov
	opts.Semicoarsening = string(s.Semicoarsening)
	opts.LineRelaxation = string(s.LineRelaxation)
	if s.Tol != 0 {
		opts.Tol = s.Tol
	}
	if s.MaxIt != 0 {
		opts.MaxIt = s.MaxIt
	}
	for _, set := range []struct {
		from *int
		to   *int
	}{
		{s.NuInit, &opts.NuInit},
		{s.NuPre, &opts.NuPre},
		{s.NuCoarse, &opts.NuCoarse},
		{s.NuPost, &opts.NuPost},
		{s.CLevel, &opts.CLevel},
	} {
		if set.from != nil {
			*set.to = *set.from
		}
	}
	return
}
