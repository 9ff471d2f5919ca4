package MG3D

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsem/geometry3D"
)

func uniformGrid(t *testing.T, n [3]int, h float64) *geometry3D.TensorGrid {
	grid, err := geometry3D.NewUniformGrid(n, [3]float64{h, h, h}, [3]float64{})
	require.NoError(t, err)
	return grid
}

// stretchedGrid has cell widths growing by factor along every axis.
func stretchedGrid(t *testing.T, n [3]int, h, factor float64) *geometry3D.TensorGrid {
	var widths [3][]float64
	for axis := 0; axis < 3; axis++ {
		widths[axis] = make([]float64, n[axis])
		w := h
		for i := range widths[axis] {
			widths[axis][i] = w
			w *= factor
		}
	}
	grid, err := geometry3D.NewTensorGrid(widths[0], widths[1], widths[2], [3]float64{-10, 0, 5})
	require.NoError(t, err)
	return grid
}

func fullspace(t *testing.T, grid *geometry3D.TensorGrid, frequency, rho float64) *Model {
	model, err := NewModelFromResistivity(grid, frequency, []float64{rho}, nil, nil, nil)
	require.NoError(t, err)
	return model
}

func constantModel(t *testing.T, grid *geometry3D.TensorGrid, eta complex128) *Model {
	etas := make([]complex128, grid.NC())
	for i := range etas {
		etas[i] = eta
	}
	model, err := NewModel(grid, etas, nil, nil, nil)
	require.NoError(t, err)
	return model
}

// anisotropicModel has random positive conductivities per component and
// random permeabilities.
func anisotropicModel(t *testing.T, grid *geometry3D.TensorGrid, frequency float64, seed int64) *Model {
	var (
		rng = rand.New(rand.NewSource(seed))
		nc  = grid.NC()
		rho [3][]float64
		muR = make([]float64, nc)
	)
	for c := 0; c < 3; c++ {
		rho[c] = make([]float64, nc)
		for i := range rho[c] {
			rho[c][i] = 0.3 + 10*rng.Float64()
		}
	}
	for i := range muR {
		muR[i] = 1 + rng.Float64()
	}
	model, err := NewModelFromResistivity(grid, frequency, rho[0], rho[1], rho[2], muR)
	require.NoError(t, err)
	return model
}

// randomField has random values on the free edges and zero PEC edges.
func randomField(grid *geometry3D.TensorGrid, frequency float64, seed int64) *Field {
	rng := rand.New(rand.NewSource(seed))
	f := NewField(grid, frequency)
	for i := range f.Data {
		f.Data[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	f.EnforcePEC()
	return f
}

// bilinear is the unconjugated product sum_i a_i b_i.
func bilinear(a, b *Field) (sum complex128) {
	for i := range a.Data {
		sum += a.Data[i] * b.Data[i]
	}
	return
}

// randomEtaModel has anisotropic coefficients comparable in size to the
// curl-curl part, real negative in the Laplace domain, imaginary otherwise.
func randomEtaModel(t *testing.T, grid *geometry3D.TensorGrid, seed int64, laplace bool) *Model {
	var (
		rng  = rand.New(rand.NewSource(seed))
		nc   = grid.NC()
		eta  [3][]complex128
		zeta = grid.Vols()
		h    = grid.Widths(0)[0]
	)
	for c := 0; c < 3; c++ {
		eta[c] = make([]complex128, nc)
		for i := range eta[c] {
			v := -h * (0.5 + rng.Float64())
			if laplace {
				eta[c][i] = complex(v, 0)
			} else {
				eta[c][i] = complex(0, v)
			}
		}
	}
	for i := range zeta {
		zeta[i] /= 1 + rng.Float64()
	}
	model, err := NewModel(grid, eta[0], eta[1], eta[2], zeta)
	require.NoError(t, err)
	return model
}
