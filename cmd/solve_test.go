package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsem/InputParameters"
	"github.com/notargets/gocsem/MG3D"
	"github.com/notargets/gocsem/types"
)

func TestRun3D(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Grid:
  Cells: [8, 8, 8]
  Width: [100, 100, 100]
  Origin: [-400, -400, -400]
Model:
  Frequency: 1.
  Resistivity: [1.]
Source:
  Position: [50, 0, 0]
  Axis: x
Solver:
  Cycle: F
  MaxIt: 40
`)
	var input InputParameters.InputParameters3D
	require.NoError(t, input.Parse(fileInput))
	{
		var buf bytes.Buffer
		info, err := Run3D(&Model3D{Verbose: 2, Parallel: 2}, &input, &buf)
		require.NoError(t, err)
		assert.Equal(t, types.Converged, info.Exit)
		assert.Contains(t, buf.String(), "CONVERGED")
		assert.Contains(t, buf.String(), "|E|")
	}
	{ // Configuration errors surface from the solver
		bad := input
		bad.Solver.Krylov = "gmres"
		_, err := Run3D(&Model3D{}, &bad, &bytes.Buffer{})
		assert.ErrorIs(t, err, MG3D.ErrInvalidParameter)
	}
}
