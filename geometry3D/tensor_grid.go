package geometry3D

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gocsem/types"
)

var ErrDegenerateGrid = errors.New("geometry3D: degenerate grid")

/*
TensorGrid is a rectilinear 3D grid described by the cell widths along each
axis and the origin (the first node). Axis 0 is x, 1 is y, 2 is z.

Edge fields live on the grid edges: component c has one value per cell along
axis c and one per node along the other two axes. Flat indices run x fastest:
	ind = i + d[0]*(j + d[1]*k)
*/
type TensorGrid struct {
	H       [3][]float64
	Origin  [3]float64
	nodes   [3][]float64
	centers [3][]float64
}

func NewTensorGrid(hx, hy, hz []float64, origin [3]float64) (tg *TensorGrid, err error) {
	tg = &TensorGrid{Origin: origin}
	for axis, h := range [3][]float64{hx, hy, hz} {
		if len(h) < 2 {
			err = fmt.Errorf("NewTensorGrid: axis %d has %d cells, need at least 2: %w",
				axis, len(h), ErrDegenerateGrid)
			return nil, err
		}
		if floats.Min(h) <= 0 {
			err = fmt.Errorf("NewTensorGrid: axis %d has a non-positive cell width: %w",
				axis, ErrDegenerateGrid)
			return nil, err
		}
		tg.H[axis] = append([]float64(nil), h...)
		cum := floats.CumSum(make([]float64, len(h)), h)
		tg.nodes[axis] = make([]float64, len(h)+1)
		tg.centers[axis] = make([]float64, len(h))
		tg.nodes[axis][0] = origin[axis]
		for i := range h {
			tg.nodes[axis][i+1] = origin[axis] + cum[i]
			tg.centers[axis][i] = tg.nodes[axis][i] + 0.5*h[i]
		}
	}
	return
}

// NewUniformGrid builds a grid of n[axis] cells of width h[axis].
func NewUniformGrid(n [3]int, h [3]float64, origin [3]float64) (tg *TensorGrid, err error) {
	var widths [3][]float64
	for axis := 0; axis < 3; axis++ {
		widths[axis] = make([]float64, n[axis])
		for i := range widths[axis] {
			widths[axis][i] = h[axis]
		}
	}
	return NewTensorGrid(widths[0], widths[1], widths[2], origin)
}

func (tg *TensorGrid) NCells() (nc [3]int) {
	for axis := 0; axis < 3; axis++ {
		nc[axis] = len(tg.H[axis])
	}
	return
}

func (tg *TensorGrid) NNodes() (nn [3]int) {
	for axis := 0; axis < 3; axis++ {
		nn[axis] = len(tg.H[axis]) + 1
	}
	return
}

func (tg *TensorGrid) NC() int {
	nc := tg.NCells()
	return nc[0] * nc[1] * nc[2]
}

func (tg *TensorGrid) Widths(axis int) []float64      { return tg.H[axis] }
func (tg *TensorGrid) Nodes(axis int) []float64       { return tg.nodes[axis] }
func (tg *TensorGrid) CellCenters(axis int) []float64 { return tg.centers[axis] }

// Length is the extent of the domain along axis.
func (tg *TensorGrid) Length(axis int) float64 { return floats.Sum(tg.H[axis]) }

func (tg *TensorGrid) Vol(i, j, k int) float64 {
	return tg.H[0][i] * tg.H[1][j] * tg.H[2][k]
}

// Vols returns the cell volumes in flat cell order.
func (tg *TensorGrid) Vols() (vol []float64) {
	nc := tg.NCells()
	vol = make([]float64, tg.NC())
	var ind int
	for k := 0; k < nc[2]; k++ {
		for j := 0; j < nc[1]; j++ {
			for i := 0; i < nc[0]; i++ {
				vol[ind] = tg.Vol(i, j, k)
				ind++
			}
		}
	}
	return
}

// EdgeDims is the array shape of edge component comp.
func (tg *TensorGrid) EdgeDims(comp int) (d [3]int) {
	d = tg.NNodes()
	d[comp]--
	return
}

func (tg *TensorGrid) NEdges(comp int) int {
	d := tg.EdgeDims(comp)
	return d[0] * d[1] * d[2]
}

func (tg *TensorGrid) NEdgesTotal() int {
	return tg.NEdges(0) + tg.NEdges(1) + tg.NEdges(2)
}

// SameShape reports whether fields of tg and other are interchangeable.
func (tg *TensorGrid) SameShape(other *TensorGrid) bool {
	return tg == other || tg.NCells() == other.NCells()
}

// MaxLevel is the number of times the cell count along axis can be halved
// while staying even and keeping at least two cells.
func (tg *TensorGrid) MaxLevel(axis int) (level int) {
	n := len(tg.H[axis])
	for n%2 == 0 && n/2 >= 2 {
		n /= 2
		level++
	}
	return
}

// MaxLevelFor is the coarsest reachable level when the axes of sc are held
// fixed. The coarsened axes are halved together, so the shallowest of them
// bounds the depth. clevel < 0 leaves the depth uncapped.
func (tg *TensorGrid) MaxLevelFor(sc types.SemicoarseAxis, clevel int) (level int) {
	level = -1
	for axis := 0; axis < 3; axis++ {
		if sc.Excluded(axis) {
			continue
		}
		if l := tg.MaxLevel(axis); level < 0 || l < level {
			level = l
		}
	}
	if level < 0 {
		level = 0
	}
	if clevel >= 0 && clevel < level {
		level = clevel
	}
	return
}

// Coarsen merges adjacent cell pairs along every axis not excluded by sc.
func (tg *TensorGrid) Coarsen(sc types.SemicoarseAxis) (cg *TensorGrid, err error) {
	var hc [3][]float64
	for axis := 0; axis < 3; axis++ {
		h := tg.H[axis]
		if sc.Excluded(axis) {
			hc[axis] = h
			continue
		}
		if len(h)%2 != 0 || len(h)/2 < 2 {
			err = fmt.Errorf("Coarsen: axis %d with %d cells cannot be halved: %w",
				axis, len(h), ErrDegenerateGrid)
			return
		}
		hc[axis] = make([]float64, len(h)/2)
		for i := range hc[axis] {
			hc[axis][i] = h[2*i] + h[2*i+1]
		}
	}
	return NewTensorGrid(hc[0], hc[1], hc[2], tg.Origin)
}

func (tg *TensorGrid) String() string {
	nc := tg.NCells()
	return fmt.Sprintf("TensorGrid: %d x %d x %d cells; %d edges", nc[0], nc[1], nc[2], tg.NEdgesTotal())
}
