package MG3D

import (
	"errors"
	"fmt"
	"math"

	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

const Mu0 = 4e-7 * math.Pi // Magnetic permeability of free space [H/m]

var ErrShapeMismatch = errors.New("MG3D: shape mismatch")

// SVal is the Laplace parameter: s = -2 pi i f for f > 0, s = f for f < 0.
func SVal(frequency float64) complex128 {
	if frequency < 0 {
		return complex(frequency, 0)
	}
	return complex(0, -2*math.Pi*frequency)
}

/*
Model holds the volume integrated material coefficients of one multigrid level,
one value per cell:
	Eta[c] = s * mu0 * sigma_c * V
	Zeta   = V / mu_r
When Isotropic is set, Eta[1] and Eta[2] alias Eta[0].
*/
type Model struct {
	Grid      *geometry3D.TensorGrid
	Eta       [3][]complex128
	Zeta      []float64
	Isotropic bool
}

// NewModel takes ownership of the coefficient slices. Nil etaY and etaZ give
// an isotropic model, nil zeta is mu_r = 1.
func NewModel(grid *geometry3D.TensorGrid, etaX, etaY, etaZ []complex128, zeta []float64) (m *Model, err error) {
	nc := grid.NC()
	m = &Model{Grid: grid, Isotropic: etaY == nil && etaZ == nil}
	if etaY == nil {
		etaY = etaX
	}
	if etaZ == nil {
		etaZ = etaX
	}
	m.Eta = [3][]complex128{etaX, etaY, etaZ}
	for c := 0; c < 3; c++ {
		if len(m.Eta[c]) != nc {
			err = fmt.Errorf("NewModel: eta[%d] has %d values, grid has %d cells: %w",
				c, len(m.Eta[c]), nc, ErrShapeMismatch)
			return nil, err
		}
	}
	if zeta == nil {
		zeta = grid.Vols()
	}
	if len(zeta) != nc {
		err = fmt.Errorf("NewModel: zeta has %d values, grid has %d cells: %w", len(zeta), nc, ErrShapeMismatch)
		return nil, err
	}
	m.Zeta = zeta
	return
}

/*
NewModelFromResistivity assembles a Model from cell resistivities [Ohm m] and
relative permeabilities. Each input is either one value per cell or a single
value for the whole grid. Nil rhoY and rhoZ give an isotropic model, nil muR
is mu_r = 1.
*/
func NewModelFromResistivity(grid *geometry3D.TensorGrid, frequency float64,
	rhoX, rhoY, rhoZ, muR []float64) (m *Model, err error) {
	var (
		nc   = grid.NC()
		vol  = grid.Vols()
		smu0 = SVal(frequency) * Mu0
		eta  [3][]complex128
		zeta = make([]float64, nc)
	)
	expand := func(name string, v []float64) ([]float64, error) {
		switch len(v) {
		case 1:
			out := make([]float64, nc)
			for i := range out {
				out[i] = v[0]
			}
			return out, nil
		case nc:
			return v, nil
		}
		return nil, fmt.Errorf("NewModelFromResistivity: %s has %d values, grid has %d cells: %w",
			name, len(v), nc, ErrShapeMismatch)
	}
	for c, rho := range [3][]float64{rhoX, rhoY, rhoZ} {
		if rho == nil {
			continue
		}
		if rho, err = expand(fmt.Sprintf("rho[%d]", c), rho); err != nil {
			return
		}
		eta[c] = make([]complex128, nc)
		for i := range rho {
			eta[c][i] = smu0 * complex(vol[i]/rho[i], 0)
		}
	}
	if muR == nil {
		muR = []float64{1}
	}
	if muR, err = expand("muR", muR); err != nil {
		return
	}
	for i := range zeta {
		zeta[i] = vol[i] / muR[i]
	}
	return NewModel(grid, eta[0], eta[1], eta[2], zeta)
}

func (m *Model) cellIndex(i, j, k int) int {
	nc := m.Grid.NCells()
	return i + nc[0]*(j+nc[1]*k)
}

/*
Restrict sums the fine cells composing each coarse cell of cgrid. The
coefficients are volume integrated, so summation is the conservative choice.
*/
func (m *Model) Restrict(cgrid *geometry3D.TensorGrid, sc types.SemicoarseAxis) (cm *Model) {
	var (
		nCoarse = cgrid.NCells()
		ncc     = cgrid.NC()
		ncomp   = 3
		eta     [3][]complex128
		zeta    = make([]float64, ncc)
		span    [3]int
	)
	if m.Isotropic {
		ncomp = 1
	}
	for axis := 0; axis < 3; axis++ {
		span[axis] = 1
		if sc.Coarsened(axis) {
			span[axis] = 2
		}
	}
	for c := 0; c < ncomp; c++ {
		eta[c] = make([]complex128, ncc)
	}
	var ind int
	for K := 0; K < nCoarse[2]; K++ {
		for J := 0; J < nCoarse[1]; J++ {
			for I := 0; I < nCoarse[0]; I++ {
				for k := K * span[2]; k < (K+1)*span[2]; k++ {
					for j := J * span[1]; j < (J+1)*span[1]; j++ {
						for i := I * span[0]; i < (I+1)*span[0]; i++ {
							fi := m.cellIndex(i, j, k)
							for c := 0; c < ncomp; c++ {
								eta[c][ind] += m.Eta[c][fi]
							}
							zeta[ind] += m.Zeta[fi]
						}
					}
				}
				ind++
			}
		}
	}
	cm = &Model{Grid: cgrid, Isotropic: m.Isotropic, Zeta: zeta}
	if m.Isotropic {
		cm.Eta = [3][]complex128{eta[0], eta[0], eta[0]}
	} else {
		cm.Eta = eta
	}
	return
}
