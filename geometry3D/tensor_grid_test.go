package geometry3D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsem/types"
)

func TestTensorGrid(t *testing.T) {
	{ // Coordinates and counts
		tg, err := NewTensorGrid([]float64{1, 2, 3}, []float64{1, 1}, []float64{2, 2, 2, 2}, [3]float64{-1, 0, 10})
		require.NoError(t, err)
		assert.Equal(t, [3]int{3, 2, 4}, tg.NCells())
		assert.Equal(t, [3]int{4, 3, 5}, tg.NNodes())
		assert.Equal(t, []float64{-1, 0, 2, 5}, tg.Nodes(0))
		assert.Equal(t, []float64{-0.5, 1, 3.5}, tg.CellCenters(0))
		assert.Equal(t, []float64{10, 12, 14, 16, 18}, tg.Nodes(2))
		assert.Equal(t, 6., tg.Length(0))
		assert.Equal(t, [3]int{3, 3, 5}, tg.EdgeDims(0))
		assert.Equal(t, [3]int{4, 2, 5}, tg.EdgeDims(1))
		assert.Equal(t, [3]int{4, 3, 4}, tg.EdgeDims(2))
		assert.Equal(t, 45+40+48, tg.NEdgesTotal())
		assert.Equal(t, 3.*1*2, tg.Vol(2, 0, 1))
	}
	{ // Degenerate input
		_, err := NewTensorGrid([]float64{1}, []float64{1, 1}, []float64{1, 1}, [3]float64{})
		assert.ErrorIs(t, err, ErrDegenerateGrid)
		_, err = NewTensorGrid([]float64{1, 0}, []float64{1, 1}, []float64{1, 1}, [3]float64{})
		assert.ErrorIs(t, err, ErrDegenerateGrid)
	}
	{ // Coarsening depth
		tg, err := NewUniformGrid([3]int{16, 8, 6}, [3]float64{1, 1, 1}, [3]float64{})
		require.NoError(t, err)
		assert.Equal(t, 3, tg.MaxLevel(0))
		assert.Equal(t, 2, tg.MaxLevel(1))
		assert.Equal(t, 1, tg.MaxLevel(2))
		assert.Equal(t, 1, tg.MaxLevelFor(types.SemicoarseAll, -1))
		assert.Equal(t, 1, tg.MaxLevelFor(types.SemicoarseX, -1))
		assert.Equal(t, 2, tg.MaxLevelFor(types.SemicoarseZ, -1))
		assert.Equal(t, 3, tg.MaxLevelFor(types.SemicoarseYZ, -1))
		assert.Equal(t, 2, tg.MaxLevelFor(types.SemicoarseXZ, -1))
		assert.Equal(t, 0, tg.MaxLevelFor(types.SemicoarseNone, -1))
		assert.Equal(t, 1, tg.MaxLevelFor(types.SemicoarseYZ, 1))
	}
	{ // Coarsen sums width pairs and keeps excluded axes
		tg, err := NewTensorGrid([]float64{1, 2, 3, 4}, []float64{1, 1, 1, 1}, []float64{5, 5}, [3]float64{})
		require.NoError(t, err)
		cg, err := tg.Coarsen(types.SemicoarseZ)
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 7}, cg.Widths(0))
		assert.Equal(t, []float64{2, 2}, cg.Widths(1))
		assert.Equal(t, []float64{5, 5}, cg.Widths(2))
		assert.Equal(t, tg.Nodes(0)[4], cg.Nodes(0)[2])
		_, err = tg.Coarsen(types.SemicoarseAll)
		assert.ErrorIs(t, err, ErrDegenerateGrid)
	}
}
