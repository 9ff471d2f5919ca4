package MG3D

import (
	"fmt"

	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

type weight struct {
	ind int
	w   float64
}

/*
axisTransfer holds the 1D interpolation weights of one axis, for the two
kinds of edge index along it:
	cell - the axis is the edge direction, the index counts cells
	node - the axis is transverse to the edge, the index counts nodes
fine[i] lists the coarse indices (and weights) that interpolate fine index i,
coarse[I] is the transpose, the fine indices that coarse index I gathers from.
*/
type axisTransfer struct {
	fine, coarse [2][][]weight
}

const (
	cellType = iota
	nodeType
)

func newAxisTransfer(fnodes, cnodes []float64, coarsened bool) (at *axisTransfer) {
	var (
		nf = len(fnodes) - 1
		nc = len(cnodes) - 1
	)
	at = &axisTransfer{}
	at.fine[cellType] = make([][]weight, nf)
	at.fine[nodeType] = make([][]weight, nf+1)
	switch {
	case !coarsened:
		for i := 0; i <= nf; i++ {
			if i < nf {
				at.fine[cellType][i] = []weight{{i, 1}}
			}
			at.fine[nodeType][i] = []weight{{i, 1}}
		}
	default:
		for i := 0; i < nf; i++ {
			// Piecewise constant along the edge direction
			at.fine[cellType][i] = []weight{{i / 2, 1}}
		}
		for i := 0; i <= nf; i++ {
			I := i / 2
			if i%2 == 0 {
				at.fine[nodeType][i] = []weight{{I, 1}}
				continue
			}
			// Linear in the node coordinate between the two coarse nodes
			wr := (fnodes[i] - cnodes[I]) / (cnodes[I+1] - cnodes[I])
			at.fine[nodeType][i] = []weight{{I, 1 - wr}, {I + 1, wr}}
		}
	}
	for t := cellType; t <= nodeType; t++ {
		n := nc
		if t == nodeType {
			n++
		}
		at.coarse[t] = make([][]weight, n)
		for i, ws := range at.fine[t] {
			for _, w := range ws {
				at.coarse[t][w.ind] = append(at.coarse[t][w.ind], weight{i, w.w})
			}
		}
	}
	return
}

// Transfer moves edge fields between a grid and its coarsened grid.
type Transfer struct {
	Fine, Coarse *geometry3D.TensorGrid
	Sc           types.SemicoarseAxis
	axes         [3]*axisTransfer
}

func NewTransfer(fine, coarse *geometry3D.TensorGrid, sc types.SemicoarseAxis) (tr *Transfer) {
	tr = &Transfer{Fine: fine, Coarse: coarse, Sc: sc}
	for axis := 0; axis < 3; axis++ {
		tr.axes[axis] = newAxisTransfer(fine.Nodes(axis), coarse.Nodes(axis), sc.Coarsened(axis))
	}
	return
}

// tables returns the per axis weights of component c, either towards the fine
// (prolongation) or towards the coarse (restriction) grid.
func (tr *Transfer) tables(c int, toFine bool) (tab [3][][]weight) {
	for axis := 0; axis < 3; axis++ {
		t := nodeType
		if axis == c {
			t = cellType
		}
		if toFine {
			tab[axis] = tr.axes[axis].fine[t]
		} else {
			tab[axis] = tr.axes[axis].coarse[t]
		}
	}
	return
}

// gather computes dst[p] (+)= sum over the tensor product of weights of src.
func gather(dst []complex128, dd [3]int, src []complex128, sd [3]int, tab [3][][]weight, accumulate bool) {
	var (
		ss  = strides(sd)
		ind int
	)
	for k := 0; k < dd[2]; k++ {
		for j := 0; j < dd[1]; j++ {
			for i := 0; i < dd[0]; i++ {
				var sum complex128
				for _, wk := range tab[2][k] {
					for _, wj := range tab[1][j] {
						wjk := wj.w * wk.w
						base := wj.ind*ss[1] + wk.ind*ss[2]
						for _, wi := range tab[0][i] {
							sum += complex(wi.w*wjk, 0) * src[base+wi.ind]
						}
					}
				}
				if accumulate {
					dst[ind] += sum
				} else {
					dst[ind] = sum
				}
				ind++
			}
		}
	}
}

// RestrictField maps a fine grid residual onto the coarse grid, the transpose
// of ProlongateField. The result satisfies the PEC condition.
func (tr *Transfer) RestrictField(residual *Field) (cs *Field) {
	cs = NewField(tr.Coarse, residual.Frequency)
	for c := 0; c < 3; c++ {
		gather(cs.F[c], cs.dims[c], residual.F[c], residual.dims[c], tr.tables(c, false), false)
	}
	cs.EnforcePEC()
	return
}

// ProlongateField adds the interpolated coarse correction to efield.
func (tr *Transfer) ProlongateField(efield, cefield *Field) {
	for c := 0; c < 3; c++ {
		gather(efield.F[c], efield.dims[c], cefield.F[c], cefield.dims[c], tr.tables(c, true), true)
	}
	efield.EnforcePEC()
}

/*
Restrict builds the next coarser level: the grid coarsened along the axes not
excluded by sc, the summed model, the restricted residual as the coarse source
and a zero coarse field.
*/
func Restrict(grid *geometry3D.TensorGrid, model *Model, sfield, residual *Field,
	sc types.SemicoarseAxis) (cgrid *geometry3D.TensorGrid, cmodel *Model, csfield, cefield *Field, err error) {
	if !residual.Grid.SameShape(grid) || !sfield.Grid.SameShape(grid) {
		err = fmt.Errorf("Restrict: field does not match %v: %w", grid, ErrFieldMismatch)
		return
	}
	if cgrid, err = grid.Coarsen(sc); err != nil {
		return
	}
	cmodel = model.Restrict(cgrid, sc)
	csfield = NewTransfer(grid, cgrid, sc).RestrictField(residual)
	cefield = NewField(cgrid, sfield.Frequency)
	return
}

// Prolongate adds the coarse correction cefield to efield in place.
func Prolongate(grid *geometry3D.TensorGrid, efield *Field, cgrid *geometry3D.TensorGrid, cefield *Field,
	sc types.SemicoarseAxis) {
	NewTransfer(grid, cgrid, sc).ProlongateField(efield, cefield)
}
