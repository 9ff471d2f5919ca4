package MG3D

import (
	"fmt"
	"sort"

	"github.com/notargets/gocsem/geometry3D"
)

/*
NewDipoleSource returns the source field of an infinitesimal electric dipole
of the given strength [A m], oriented along axis, at position. The moment is
spread onto the four surrounding edges of that orientation with the bilinear
weights of the transverse node coordinates:
	s_e = -s mu0 strength w_e
*/
func NewDipoleSource(grid *geometry3D.TensorGrid, frequency float64, position [3]float64, axis int,
	strength float64) (sfield *Field, err error) {
	var (
		cell [3]int
		wt   [3][2]float64
	)
	if axis < 0 || axis > 2 {
		err = fmt.Errorf("NewDipoleSource: axis %d: %w", axis, ErrInvalidParameter)
		return
	}
	if frequency == 0 {
		err = fmt.Errorf("NewDipoleSource: %w", ErrNoFrequency)
		return
	}
	for d := 0; d < 3; d++ {
		nodes := grid.Nodes(d)
		x := position[d]
		if x < nodes[0] || x > nodes[len(nodes)-1] {
			err = fmt.Errorf("NewDipoleSource: position %v outside of the grid along axis %d: %w",
				position, d, ErrInvalidParameter)
			return
		}
		// Interval [nodes[i], nodes[i+1]] containing x
		i := sort.SearchFloat64s(nodes, x) - 1
		i = min(max(i, 0), len(nodes)-2)
		cell[d] = i
		t := (x - nodes[i]) / (nodes[i+1] - nodes[i])
		wt[d] = [2]float64{1 - t, t}
	}
	sfield = NewField(grid, frequency)
	scale := -SVal(frequency) * Mu0 * complex(strength, 0)
	a, b := (axis+1)%3, (axis+2)%3
	for da := 0; da < 2; da++ {
		for db := 0; db < 2; db++ {
			p := cell
			p[a] += da
			p[b] += db
			w := wt[a][da] * wt[b][db]
			sfield.F[axis][dot3(p, strides(sfield.dims[axis]))] += scale * complex(w, 0)
		}
	}
	sfield.EnforcePEC()
	return
}
