package MG3D

import (
	"github.com/notargets/gocsem/geometry3D"
	"github.com/notargets/gocsem/types"
)

// Half bandwidth of a line system, see lineLocal for the unknown ordering.
const lineBandwidth = 8

/*
CurrentLineRelax drops the line relaxation axes along which the grid has only
two cells. A line along such an axis holds a single interior node, which is
exactly the point relaxation.
*/
func CurrentLineRelax(lr types.LineRelaxAxes, grid *geometry3D.TensorGrid) types.LineRelaxAxes {
	nc := grid.NCells()
	for axis := 0; axis < 3; axis++ {
		if nc[axis] == 2 {
			lr = lr.Without(axis)
		}
	}
	return lr
}

/*
Smooth performs nu Gauss-Seidel sweeps on efield in place. Odd sweeps run in
lexicographic order, even sweeps in reverse, so nu = 2 is one symmetric sweep.

With lr = LineRelaxNone every interior node is relaxed collectively: the six
edges meeting at the node are solved together. Otherwise, for each selected
axis, all edges touching the interior nodes of a grid line along that axis are
solved together (banded system). Boundary edges are never written.
*/
func (op *Operator) Smooth(sfield, efield *Field, nu int, lr types.LineRelaxAxes) {
	var (
		sm = newSmoother(op)
	)
	lr = CurrentLineRelax(lr, op.Grid)
	for sweep := 0; sweep < nu; sweep++ {
		reverse := sweep%2 == 1
		if lr == types.LineRelaxNone {
			sm.nodeSweep(sfield, efield, reverse)
			continue
		}
		var axes []int
		for axis, set := range lr.Axes() {
			if set {
				axes = append(axes, axis)
			}
		}
		for i := range axes {
			axis := axes[i]
			if reverse {
				axis = axes[len(axes)-1-i]
			}
			sm.lineSweep(sfield, efield, axis, reverse)
		}
	}
}

// Smooth performs nu Gauss-Seidel sweeps of the curl-curl system of model.
func Smooth(model *Model, sfield, efield *Field, nu int, lr types.LineRelaxAxes) {
	NewOperator(model, 1).Smooth(sfield, efield, nu, lr)
}

type smoother struct {
	op  *Operator
	bm  *bandMatrix
	rhs []complex128
	loc [][2]int // local unknown -> (component, flat index)
}

func newSmoother(op *Operator) (sm *smoother) {
	var (
		nMax = 6
	)
	for axis := 0; axis < 3; axis++ {
		if n := 5*op.nc[axis] - 4; n > nMax {
			nMax = n
		}
	}
	sm = &smoother{
		op:  op,
		bm:  newBandMatrix(nMax, lineBandwidth),
		rhs: make([]complex128, nMax),
		loc: make([][2]int, nMax),
	}
	return
}

// interior yields the interior node indices 1..n-1 of an axis with n cells.
func interior(n int, reverse bool) (idx []int) {
	idx = make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		idx = append(idx, i)
	}
	if reverse {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	return
}

func (sm *smoother) nodeSweep(s, e *Field, reverse bool) {
	var (
		nc = sm.op.nc
		q  [3]int
	)
	is, js, ks := interior(nc[0], reverse), interior(nc[1], reverse), interior(nc[2], reverse)
	for _, q[2] = range ks {
		for _, q[1] = range js {
			for _, q[0] = range is {
				sm.relaxNode(s, e, q)
			}
		}
	}
}

// nodeLocal numbers the six edges of node q: 2c for the edge ending at q, 2c+1
// for the edge starting at q. Other edges return -1.
func nodeLocal(q [3]int, c int, p [3]int) int {
	for a := 0; a < 3; a++ {
		if a != c && p[a] != q[a] {
			return -1
		}
	}
	switch p[c] {
	case q[c] - 1:
		return 2 * c
	case q[c]:
		return 2*c + 1
	}
	return -1
}

func (sm *smoother) relaxNode(s, e *Field, q [3]int) {
	var (
		op  = sm.op
		loc = func(c int, p [3]int) int { return nodeLocal(q, c, p) }
	)
	sm.bm.reset(6, 5)
	for c := 0; c < 3; c++ {
		for _, pc := range [2]int{q[c] - 1, q[c]} {
			p := q
			p[c] = pc
			sm.initUnknown(s, e, nodeLocal(q, c, p), c, dot3(p, op.es[c]))
		}
	}
	// The twelve faces with a corner at q
	for n := 0; n < 3; n++ {
		a, b := (n+1)%3, (n+2)%3
		for _, da := range [2]int{-1, 0} {
			for _, db := range [2]int{-1, 0} {
				idx := q
				idx[a] += da
				idx[b] += db
				sm.accumulateFace(e, n, idx, loc)
			}
		}
	}
	sm.update(e, 6)
}

func (sm *smoother) lineSweep(s, e *Field, d int, reverse bool) {
	var (
		nc     = sm.op.nc
		o1, o2 = transverse(d)
		q      [3]int
	)
	for _, q[o2] = range interior(nc[o2], reverse) {
		for _, q[o1] = range interior(nc[o1], reverse) {
			sm.relaxLine(s, e, d, q)
		}
	}
}

// transverse returns the two axes other than d in ascending order.
func transverse(d int) (o1, o2 int) {
	switch d {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

/*
lineLocal numbers the unknowns of the line along d through q. With t the
interior node index along the line:
	5t          the line edge E_d starting at node t (t = 0..n-1)
	5(t-1)+1..4 the transverse edges at node t, (o1 -, o1 +, o2 -, o2 +)
*/
func lineLocal(d int, q [3]int, nd int, c int, p [3]int) int {
	o1, o2 := transverse(d)
	if c == d {
		if p[o1] != q[o1] || p[o2] != q[o2] {
			return -1
		}
		return 5 * p[d]
	}
	var (
		t     = p[d]
		other = o1
		slot  = 0
	)
	if c == o1 {
		other = o2
	} else {
		slot = 2
	}
	if t < 1 || t > nd-1 || p[other] != q[other] {
		return -1
	}
	switch p[c] {
	case q[c] - 1:
	case q[c]:
		slot++
	default:
		return -1
	}
	return 5*(t-1) + 1 + slot
}

func (sm *smoother) relaxLine(s, e *Field, d int, q [3]int) {
	var (
		op     = sm.op
		nd     = op.nc[d]
		nUnk   = 5*nd - 4
		o1, o2 = transverse(d)
		loc    = func(c int, p [3]int) int { return lineLocal(d, q, nd, c, p) }
	)
	sm.bm.reset(nUnk, lineBandwidth)
	for t := 0; t < nd; t++ {
		p := q
		p[d] = t
		sm.initUnknown(s, e, 5*t, d, dot3(p, op.es[d]))
		if t == 0 {
			continue
		}
		for _, c := range [2]int{o1, o2} {
			for _, pc := range [2]int{q[c] - 1, q[c]} {
				pt := p
				pt[c] = pc
				sm.initUnknown(s, e, lineLocal(d, q, nd, c, pt), c, dot3(pt, op.es[c]))
			}
		}
	}
	// Faces normal to the line at each interior node
	for t := 1; t < nd; t++ {
		for _, d1 := range [2]int{-1, 0} {
			for _, d2 := range [2]int{-1, 0} {
				idx := q
				idx[d] = t
				idx[o1] += d1
				idx[o2] += d2
				sm.accumulateFace(e, d, idx, loc)
			}
		}
	}
	// Faces containing a line edge
	for _, c := range [2]int{o1, o2} {
		other := o1 + o2 - c
		for t := 0; t < nd; t++ {
			for _, do := range [2]int{-1, 0} {
				idx := q
				idx[d] = t
				idx[other] += do
				sm.accumulateFace(e, c, idx, loc)
			}
		}
	}
	sm.update(e, nUnk)
}

// initUnknown loads the local unknown u with r_u = s_u + m_u e_u and the mass
// diagonal -m_u; the face terms are accumulated afterwards.
func (sm *smoother) initUnknown(s, e *Field, u, c, ind int) {
	m := sm.op.m[c][ind]
	sm.loc[u] = [2]int{c, ind}
	sm.rhs[u] = s.F[c][ind] + m*e.F[c][ind]
	sm.bm.add(u, u, -m)
}

// accumulateFace adds one face to the local residual and matrix.
func (sm *smoother) accumulateFace(e *Field, n int, idx [3]int, loc func(c int, p [3]int) int) {
	var (
		op    = sm.op
		a, b  = (n + 1) % 3, (n + 2) % 3
		h     = op.Grid.H
		w     = op.w[n][dot3(idx, op.fs[n])]
		comps = [4]int{a, a, b, b}
		coef  = [4]float64{h[a][idx[a]], -h[a][idx[a]], h[b][idx[b]], -h[b][idx[b]]}
		pos   = [4][3]int{idx, idx, idx, idx}
		local [4]int
	)
	if w == 0 {
		return
	}
	pos[1][b]++
	pos[2][a]++
	wc := complex(w, 0) * op.circulation(e.F, n, idx)
	for i := 0; i < 4; i++ {
		local[i] = loc(comps[i], pos[i])
	}
	for i := 0; i < 4; i++ {
		if local[i] < 0 {
			continue
		}
		sm.rhs[local[i]] -= wc * complex(coef[i], 0)
		for j := 0; j < 4; j++ {
			if local[j] < 0 {
				continue
			}
			sm.bm.add(local[i], local[j], complex(w*coef[i]*coef[j], 0))
		}
	}
}

func (sm *smoother) update(e *Field, nUnk int) {
	sm.bm.solve(sm.rhs[:nUnk])
	for u := 0; u < nUnk; u++ {
		c, ind := sm.loc[u][0], sm.loc[u][1]
		e.F[c][ind] += sm.rhs[u]
	}
}
