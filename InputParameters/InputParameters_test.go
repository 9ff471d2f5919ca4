package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsem/MG3D"
	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

var fileInput = []byte(`
Title: Test Case
Grid:
  Cells: [8, 4, 4]
  Width: [10, 20, 20]
  Stretch: [1, 1.5, 1]
  Origin: [-40, -50, -40]
Model:
  Frequency: 2.
  Resistivity: [3.]
  MuR: [1.]
Source:
  Position: [0, 0, 0]
  Axis: z
Solver:
  Cycle: w
  Krylov: cgs
  Semicoarsening: true
  LineRelaxation: 1213
  Tol: 1.e-8
  NuPre: 0
  CLevel: 1
`)

func TestParse(t *testing.T) {
	var input InputParameters3D
	require.NoError(t, input.Parse(fileInput))
	input.Print()
	assert.Equal(t, "Test Case", input.Title)
	assert.Equal(t, [3]int{8, 4, 4}, input.Grid.Cells)
	assert.Equal(t, Schedule("true"), input.Solver.Semicoarsening)
	assert.Equal(t, Schedule("1213"), input.Solver.LineRelaxation)
	{ // Grid
		grid, err := input.BuildGrid()
		require.NoError(t, err)
		assert.Equal(t, [3]int{8, 4, 4}, grid.NCells())
		assert.Equal(t, []float64{20, 30, 45, 67.5}, grid.Widths(1))
		assert.Equal(t, -50., grid.Nodes(1)[0])
		model, err := input.BuildModel(grid)
		require.NoError(t, err)
		assert.True(t, model.Isotropic)
		s, err := input.BuildSource(grid)
		require.NoError(t, err)
		assert.Greater(t, s.Norm(), 0.)
		assert.Equal(t, 0., MG3D.NewFieldFromData(grid, 2, s.Data).PECNorm())
	}
	{ // Options
		opts, err := input.Options()
		require.NoError(t, err)
		def := MG3D.DefaultOptions()
		assert.Equal(t, types.CycleW, opts.Cycle)
		assert.Equal(t, "cgs", opts.Krylov)
		assert.Equal(t, 1.e-8, opts.Tol)
		assert.Equal(t, def.MaxIt, opts.MaxIt)
		assert.Equal(t, 0, opts.NuPre)
		assert.Equal(t, def.NuPost, opts.NuPost)
		assert.Equal(t, 1, opts.CLevel)
		_, err = MG3D.NewParameters(mustGrid(t, &input), opts)
		assert.NoError(t, err)
	}
}

func mustGrid(t *testing.T, ip *InputParameters3D) *geometry3D.TensorGrid {
	grid, err := ip.BuildGrid()
	require.NoError(t, err)
	return grid
}

func TestParseErrors(t *testing.T) {
	{ // Schedules must be integers, booleans or strings
		var input InputParameters3D
		assert.Error(t, input.Parse([]byte("Solver:\n  Semicoarsening: 1.5\n")))
		assert.Error(t, input.Parse([]byte("Solver:\n  LineRelaxation: [1, 2]\n")))
	}
	{
		var input InputParameters3D
		require.NoError(t, input.Parse([]byte(`
Grid:
  Hx: [1, 2, 3]
  Hy: [1, 1]
  Hz: [2, 2]
Source:
  Axis: w
Solver:
  Cycle: X
`)))
		grid, err := input.BuildGrid()
		require.NoError(t, err)
		assert.Equal(t, [3]int{3, 2, 2}, grid.NCells())
		_, err = input.BuildModel(grid)
		assert.ErrorIs(t, err, MG3D.ErrNoFrequency)
		_, err = input.BuildSource(grid)
		assert.ErrorIs(t, err, MG3D.ErrInvalidParameter)
		_, err = input.Options()
		assert.ErrorIs(t, err, MG3D.ErrInvalidCycle)
	}
	{ // Degenerate uniform grid
		var input InputParameters3D
		require.NoError(t, input.Parse([]byte("Grid:\n  Cells: [1, 4, 4]\n  Width: [1, 1, 1]\n")))
		_, err := input.BuildGrid()
		assert.ErrorIs(t, err, MG3D.ErrDegenerateGrid)
	}
}
