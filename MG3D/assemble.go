package MG3D

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/notargets/gocsem/geometry3D"
)

/*
AssembleOperator builds the explicit matrix of the operator applied by
Operator.Apply, as the real equivalent system of dimension 2n over the flat
field vector (n = total number of edges):
	[ Re A  -Im A ] [ Re e ]
	[ Im A   Re A ] [ Im e ]
Rows and columns of PEC edges are empty.
*/
func AssembleOperator(grid *geometry3D.TensorGrid, model *Model) (A *sparse.CSR, err error) {
	if !model.Grid.SameShape(grid) {
		err = fmt.Errorf("AssembleOperator: model on %v, grid %v: %w", model.Grid, grid, ErrShapeMismatch)
		return
	}
	var (
		op     = NewOperator(model, 1)
		n      = grid.NEdgesTotal()
		dok    = sparse.NewDOK(2*n, 2*n)
		offset [3]int
		h      = grid.H
	)
	offset[1] = grid.NEdges(0)
	offset[2] = offset[1] + grid.NEdges(1)
	add := func(i, j int, v complex128) {
		if re := real(v); re != 0 {
			dok.Set(i, j, dok.At(i, j)+re)
			dok.Set(i+n, j+n, dok.At(i+n, j+n)+re)
		}
		if im := imag(v); im != 0 {
			dok.Set(i, j+n, dok.At(i, j+n)-im)
			dok.Set(i+n, j, dok.At(i+n, j)+im)
		}
	}
	free := func(c int, p [3]int) (ind int, ok bool) {
		if onBoundary(c, op.ed[c], p) {
			return -1, false
		}
		return offset[c] + dot3(p, op.es[c]), true
	}
	for nrm := 0; nrm < 3; nrm++ {
		var (
			a, b = (nrm + 1) % 3, (nrm + 2) % 3
			d    = op.fd[nrm]
			p    [3]int
		)
		for p[2] = 0; p[2] < d[2]; p[2]++ {
			for p[1] = 0; p[1] < d[1]; p[1]++ {
				for p[0] = 0; p[0] < d[0]; p[0]++ {
					w := op.w[nrm][dot3(p, op.fs[nrm])]
					if w == 0 {
						continue
					}
					var (
						pb, pa = p, p
						comps  = [4]int{a, a, b, b}
						coef   = [4]float64{h[a][p[a]], -h[a][p[a]], h[b][p[b]], -h[b][p[b]]}
						global [4]int
					)
					pb[b]++
					pa[a]++
					for i, q := range [4][3]int{p, pb, pa, p} {
						global[i], _ = free(comps[i], q)
					}
					for i := 0; i < 4; i++ {
						for j := 0; j < 4; j++ {
							if global[i] < 0 || global[j] < 0 {
								continue
							}
							add(global[i], global[j], complex(w*coef[i]*coef[j], 0))
						}
					}
				}
			}
		}
	}
	for c := 0; c < 3; c++ {
		var (
			d = op.ed[c]
			p [3]int
		)
		for p[2] = 0; p[2] < d[2]; p[2]++ {
			for p[1] = 0; p[1] < d[1]; p[1]++ {
				for p[0] = 0; p[0] < d[0]; p[0]++ {
					if ind, ok := free(c, p); ok {
						add(ind, ind, -op.m[c][dot3(p, op.es[c])])
					}
				}
			}
		}
	}
	A = dok.ToCSR()
	return
}

// RealEquivalent splits a field vector into the [Re; Im] layout of
// AssembleOperator.
func RealEquivalent(f *Field) (x []float64) {
	n := len(f.Data)
	x = make([]float64, 2*n)
	for i, v := range f.Data {
		x[i], x[i+n] = real(v), imag(v)
	}
	return
}
