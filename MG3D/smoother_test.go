package MG3D

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gocsem/types"
	"github.com/notargets/gocsem/utils"
)

func TestCurrentLineRelax(t *testing.T) {
	var (
		cube = uniformGrid(t, [3]int{4, 4, 4}, 1)
		thin = uniformGrid(t, [3]int{8, 2, 4}, 1)
		flat = uniformGrid(t, [3]int{2, 2, 8}, 1)
	)
	for lr := types.LineRelaxNone; lr <= types.LineRelaxXYZ; lr++ {
		assert.Equal(t, lr, CurrentLineRelax(lr, cube))
	}
	for _, tc := range []struct {
		in, thin, flat types.LineRelaxAxes
	}{
		{types.LineRelaxNone, types.LineRelaxNone, types.LineRelaxNone},
		{types.LineRelaxX, types.LineRelaxX, types.LineRelaxNone},
		{types.LineRelaxY, types.LineRelaxNone, types.LineRelaxNone},
		{types.LineRelaxZ, types.LineRelaxZ, types.LineRelaxZ},
		{types.LineRelaxYZ, types.LineRelaxZ, types.LineRelaxZ},
		{types.LineRelaxXZ, types.LineRelaxXZ, types.LineRelaxZ},
		{types.LineRelaxXY, types.LineRelaxX, types.LineRelaxNone},
		{types.LineRelaxXYZ, types.LineRelaxXZ, types.LineRelaxZ},
	} {
		assert.Equal(t, tc.thin, CurrentLineRelax(tc.in, thin), "thin %v", tc.in)
		assert.Equal(t, tc.flat, CurrentLineRelax(tc.in, flat), "flat %v", tc.in)
	}
}

func TestSmoothExactBlocks(t *testing.T) {
	{ // 2x2x2 cells: the six edges of the single interior node are all the unknowns
		grid := stretchedGrid(t, [3]int{2, 2, 2}, 3, 1.7)
		model := randomEtaModel(t, grid, 1, false)
		s := randomField(grid, 5, 2)
		e := NewField(grid, 5)
		Smooth(model, s, e, 1, types.LineRelaxNone)
		assert.Less(t, ResidualNorm(model, s, e), 1e-12*s.Norm())
	}
	{ // 8x2x2 cells: a single line along x holds every unknown
		grid := stretchedGrid(t, [3]int{8, 2, 2}, 1, 1.3)
		model := randomEtaModel(t, grid, 3, true)
		s := randomField(grid, -2, 4)
		e := NewField(grid, -2)
		Smooth(model, s, e, 1, types.LineRelaxX)
		assert.Less(t, ResidualNorm(model, s, e), 1e-10*s.Norm())
		// Point relaxation is not a direct solve there
		e.Zero()
		Smooth(model, s, e, 1, types.LineRelaxNone)
		assert.Greater(t, ResidualNorm(model, s, e), 1e-6*s.Norm())
	}
}

func TestSmoothReducesResidual(t *testing.T) {
	var (
		grid  = stretchedGrid(t, [3]int{6, 5, 4}, 1, 1.2)
		model = constantModel(t, grid, -1)
		s     = randomField(grid, -1, 8)
	)
	for lr := types.LineRelaxNone; lr <= types.LineRelaxXYZ; lr++ {
		e := NewField(grid, -1)
		Smooth(model, s, e, 2, lr)
		r1 := ResidualNorm(model, s, e)
		assert.Less(t, r1, s.Norm(), "lr %v", lr)
		Smooth(model, s, e, 2, lr)
		assert.Less(t, ResidualNorm(model, s, e), r1, "lr %v", lr)
		// Boundary edges are never written
		assert.Equal(t, 0., e.PECNorm(), "lr %v", lr)
	}
	{ // A singular block gives a non-finite field
		zero := constantModel(t, grid, 0)
		e := NewField(grid, 1)
		Smooth(zero, s, e, 1, types.LineRelaxNone)
		assert.False(t, utils.IsFinite(ResidualNorm(zero, s, e)))
	}
}
