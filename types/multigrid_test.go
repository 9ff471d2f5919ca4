package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionTables(t *testing.T) {
	{ // Semicoarsening: user code -> excluded axes
		table := []struct {
			code     uint8
			sc       SemicoarseAxis
			excluded [3]bool
		}{
			{0, SemicoarseAll, [3]bool{false, false, false}},
			{1, SemicoarseX, [3]bool{true, false, false}},
			{2, SemicoarseY, [3]bool{false, true, false}},
			{3, SemicoarseZ, [3]bool{false, false, true}},
			{4, SemicoarseYZ, [3]bool{false, true, true}},
			{5, SemicoarseXZ, [3]bool{true, false, true}},
			{6, SemicoarseXY, [3]bool{true, true, false}},
			{7, SemicoarseNone, [3]bool{true, true, true}},
		}
		for _, tc := range table {
			assert.Equal(t, tc.sc, SemicoarseAxis(tc.code))
			for axis := 0; axis < 3; axis++ {
				assert.Equal(t, tc.excluded[axis], tc.sc.Excluded(axis), "code %d axis %d", tc.code, axis)
				assert.Equal(t, !tc.excluded[axis], tc.sc.Coarsened(axis))
			}
		}
	}
	{ // Line relaxation: user code -> relaxed axes, and round trip through the axis set
		table := []struct {
			code uint8
			lr   LineRelaxAxes
			axes [3]bool
		}{
			{0, LineRelaxNone, [3]bool{false, false, false}},
			{1, LineRelaxX, [3]bool{true, false, false}},
			{2, LineRelaxY, [3]bool{false, true, false}},
			{3, LineRelaxZ, [3]bool{false, false, true}},
			{4, LineRelaxYZ, [3]bool{false, true, true}},
			{5, LineRelaxXZ, [3]bool{true, false, true}},
			{6, LineRelaxXY, [3]bool{true, true, false}},
			{7, LineRelaxXYZ, [3]bool{true, true, true}},
		}
		for _, tc := range table {
			assert.Equal(t, tc.lr, LineRelaxAxes(tc.code))
			assert.Equal(t, tc.axes, tc.lr.Axes())
			assert.Equal(t, tc.lr, LineRelaxFromAxes(tc.axes))
		}
		assert.Equal(t, LineRelaxZ, LineRelaxYZ.Without(1))
		assert.Equal(t, LineRelaxXY, LineRelaxXYZ.Without(2))
		assert.Equal(t, LineRelaxNone, LineRelaxX.Without(0))
		assert.Equal(t, LineRelaxY, LineRelaxY.Without(0))
	}
}

func TestParseSchedules(t *testing.T) {
	{
		sc, err := ParseSemicoarsening("")
		require.NoError(t, err)
		assert.Equal(t, []SemicoarseAxis{SemicoarseAll}, sc.Seq)
		assert.False(t, sc.IsCyclic())
	}
	{
		sc, err := ParseSemicoarsening("True")
		require.NoError(t, err)
		assert.Equal(t, []SemicoarseAxis{SemicoarseX, SemicoarseY, SemicoarseZ}, sc.Seq)
		assert.Equal(t, SemicoarseX, sc.Current())
		sc.Advance()
		sc.Advance()
		assert.Equal(t, SemicoarseZ, sc.Current())
		sc.Advance()
		assert.Equal(t, SemicoarseX, sc.Current())
	}
	{
		sc, err := ParseSemicoarsening("1213")
		require.NoError(t, err)
		assert.Equal(t, 4, sc.Len())
		assert.Equal(t, "1213", sc.String())
	}
	{
		_, err := ParseSemicoarsening("19")
		assert.Error(t, err)
		_, err = ParseLineRelaxation("x")
		assert.Error(t, err)
	}
	{
		lr, err := ParseLineRelaxation("true")
		require.NoError(t, err)
		assert.Equal(t, []LineRelaxAxes{LineRelaxYZ, LineRelaxXZ, LineRelaxXY}, lr.Seq)
		lr, err = ParseLineRelaxation("7")
		require.NoError(t, err)
		assert.Equal(t, LineRelaxXYZ, lr.Current())
	}
	{
		ct, err := ParseCycle("f")
		require.NoError(t, err)
		assert.Equal(t, CycleF, ct)
		ct, err = ParseCycle("None")
		require.NoError(t, err)
		assert.Equal(t, CycleNone, ct)
		_, err = ParseCycle("Q")
		assert.Error(t, err)
	}
}
