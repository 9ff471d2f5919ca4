package MG3D

import (
	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/utils"
)

/*
Operator is the matrix free finite integration curl-curl operator of one level.

For a face f with normal n and in-plane axes a = (n+1)%3, b = (n+2)%3, the
integrated circulation of the edge field is
	C_f = l_a (E_a[idx] - E_a[idx+e_b]) + l_b (E_b[idx+e_a] - E_b[idx])
and the face weight is
	w_f = (zeta_left + zeta_right) / (2 (l_a l_b)^2)
The operator on interior edges is
	(A e)_e = sum_f w_f C_f dC_f/de - m_e e_e,   m_e = mean of the 4 cell etas
and zero on the boundary (PEC) edges.
*/
type Operator struct {
	Grid  *geometry3D.TensorGrid
	Model *Model
	nc    [3]int
	ed    [3][3]int // edge array shape per component
	es    [3][3]int // edge array strides per component
	fd    [3][3]int // face array shape per normal
	fs    [3][3]int // face array strides per normal
	w     [3][]float64
	m     [3][]complex128
	wc    [3][]complex128 // face scratch, w_f * C_f
	pm    *utils.PartitionMap
}

func NewOperator(model *Model, parallelDegree int) (op *Operator) {
	var (
		grid = model.Grid
	)
	op = &Operator{
		Grid:  grid,
		Model: model,
		nc:    grid.NCells(),
	}
	for c := 0; c < 3; c++ {
		op.ed[c] = grid.EdgeDims(c)
		op.es[c] = strides(op.ed[c])
		op.fd[c] = op.nc
		op.fd[c][c]++
		op.fs[c] = strides(op.fd[c])
		op.w[c] = make([]float64, op.fd[c][0]*op.fd[c][1]*op.fd[c][2])
		op.wc[c] = make([]complex128, len(op.w[c]))
		op.m[c] = make([]complex128, grid.NEdges(c))
	}
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	op.pm = utils.NewPartitionMap(parallelDegree, op.nc[2]+1)
	op.computeFaceWeights()
	op.computeEdgeMass()
	return
}

func strides(d [3]int) [3]int { return [3]int{1, d[0], d[0] * d[1]} }

func dot3(p, s [3]int) int { return p[0]*s[0] + p[1]*s[1] + p[2]*s[2] }

func (op *Operator) cell(p [3]int) int {
	return p[0] + op.nc[0]*(p[1]+op.nc[1]*p[2])
}

func (op *Operator) computeFaceWeights() {
	var (
		zeta = op.Model.Zeta
		h    = op.Grid.H
	)
	for n := 0; n < 3; n++ {
		var (
			a, b = (n + 1) % 3, (n + 2) % 3
			d    = op.fd[n]
			p    [3]int
		)
		for p[2] = 0; p[2] < d[2]; p[2]++ {
			for p[1] = 0; p[1] < d[1]; p[1]++ {
				for p[0] = 0; p[0] < d[0]; p[0]++ {
					if p[n] == 0 || p[n] == op.nc[n] {
						continue // Boundary faces only touch PEC edges
					}
					var (
						left  = p
						area2 = h[a][p[a]] * h[b][p[b]]
					)
					left[n]--
					area2 *= area2
					op.w[n][dot3(p, op.fs[n])] = (zeta[op.cell(left)] + zeta[op.cell(p)]) / (2 * area2)
				}
			}
		}
	}
}

func (op *Operator) computeEdgeMass() {
	for c := 0; c < 3; c++ {
		var (
			d    = op.ed[c]
			eta  = op.Model.Eta[c]
			a, b = (c + 1) % 3, (c + 2) % 3
			p    [3]int
		)
		for p[2] = 0; p[2] < d[2]; p[2]++ {
			for p[1] = 0; p[1] < d[1]; p[1]++ {
				for p[0] = 0; p[0] < d[0]; p[0]++ {
					if onBoundary(c, d, p) {
						continue
					}
					var sum complex128
					for _, da := range [2]int{-1, 0} {
						for _, db := range [2]int{-1, 0} {
							q := p
							q[a] += da
							q[b] += db
							sum += eta[op.cell(q)]
						}
					}
					op.m[c][dot3(p, op.es[c])] = 0.25 * sum
				}
			}
		}
	}
}

// circulation is C_f of the face with normal n at idx.
func (op *Operator) circulation(e [3][]complex128, n int, idx [3]int) complex128 {
	var (
		a, b   = (n + 1) % 3, (n + 2) % 3
		h      = op.Grid.H
		ia, ib = dot3(idx, op.es[a]), dot3(idx, op.es[b])
	)
	return complex(h[a][idx[a]], 0)*(e[a][ia]-e[a][ia+op.es[a][b]]) +
		complex(h[b][idx[b]], 0)*(e[b][ib+op.es[b][a]]-e[b][ib])
}

// Apply computes dst = A e.
func (op *Operator) Apply(dst, e *Field) {
	op.apply(dst.F, e.F)
}

func (op *Operator) apply(dst, e [3][]complex128) {
	// Face pass, each face written once
	op.pm.ParallelFor(func(kMin, kMax int) {
		for n := 0; n < 3; n++ {
			var (
				d  = op.fd[n]
				wn = op.w[n]
				wc = op.wc[n]
				p  [3]int
			)
			for p[2] = kMin; p[2] < kMax && p[2] < d[2]; p[2]++ {
				for p[1] = 0; p[1] < d[1]; p[1]++ {
					for p[0] = 0; p[0] < d[0]; p[0]++ {
						ind := dot3(p, op.fs[n])
						if p[n] == 0 || p[n] == op.nc[n] {
							wc[ind] = 0
							continue
						}
						wc[ind] = complex(wn[ind], 0) * op.circulation(e, n, p)
					}
				}
			}
		}
	})
	// Edge pass, gather the four faces of every edge
	op.pm.ParallelFor(func(kMin, kMax int) {
		for c := 0; c < 3; c++ {
			var (
				d      = op.ed[c]
				h      = op.Grid.H[c]
				n1, b1 = (c + 2) % 3, (c + 1) % 3 // faces where c is the first in-plane axis
				n2, a2 = (c + 1) % 3, (c + 2) % 3 // faces where c is the second in-plane axis
				wc1    = op.wc[n1]
				wc2    = op.wc[n2]
				s1     = op.fs[n1]
				s2     = op.fs[n2]
				p      [3]int
			)
			for p[2] = kMin; p[2] < kMax && p[2] < d[2]; p[2]++ {
				for p[1] = 0; p[1] < d[1]; p[1]++ {
					for p[0] = 0; p[0] < d[0]; p[0]++ {
						ind := dot3(p, op.es[c])
						if onBoundary(c, d, p) {
							dst[c][ind] = 0
							continue
						}
						f1 := dot3(p, s1)
						f2 := dot3(p, s2)
						ke := (wc1[f1] - wc1[f1-s1[b1]]) + (wc2[f2-s2[a2]] - wc2[f2])
						dst[c][ind] = complex(h[p[c]], 0)*ke - op.m[c][ind]*e[c][ind]
					}
				}
			}
		}
	})
}

// Residual computes dst = s - A e, zero on the PEC edges.
func (op *Operator) Residual(dst, s, e *Field) {
	op.Apply(dst, e)
	for c := 0; c < 3; c++ {
		var (
			d = op.ed[c]
			p [3]int
		)
		for p[2] = 0; p[2] < d[2]; p[2]++ {
			for p[1] = 0; p[1] < d[1]; p[1]++ {
				for p[0] = 0; p[0] < d[0]; p[0]++ {
					ind := dot3(p, op.es[c])
					if onBoundary(c, d, p) {
						dst.F[c][ind] = 0
						continue
					}
					dst.F[c][ind] = s.F[c][ind] - dst.F[c][ind]
				}
			}
		}
	}
}

func (op *Operator) ResidualNorm(s, e *Field) float64 {
	r := NewField(op.Grid, s.Frequency)
	op.Residual(r, s, e)
	return r.Norm()
}

// Apply evaluates the curl-curl operator of model on field.
func Apply(model *Model, field *Field) (out *Field) {
	op := NewOperator(model, 1)
	out = NewField(model.Grid, field.Frequency)
	op.Apply(out, field)
	return
}

// Residual returns sfield - A efield.
func Residual(model *Model, sfield, efield *Field) (r *Field) {
	op := NewOperator(model, 1)
	r = NewField(model.Grid, sfield.Frequency)
	op.Residual(r, sfield, efield)
	return
}

// ResidualNorm returns the L2 norm of sfield - A efield.
func ResidualNorm(model *Model, sfield, efield *Field) float64 {
	return Residual(model, sfield, efield).Norm()
}
