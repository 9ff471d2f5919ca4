package MG3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/cmplxs"

	"github.com/notargets/gocsem/geometry3D"
)

/*
Field is an edge-staggered complex vector field on a TensorGrid. The three
components share one contiguous backing slice (Data), so a Field is also a
flat vector for the Krylov methods:
	Data = [Fx..., Fy..., Fz...]
Frequency > 0 is the frequency domain, Frequency < 0 the Laplace domain.
*/
type Field struct {
	Grid      *geometry3D.TensorGrid
	Frequency float64
	Data      []complex128
	F         [3][]complex128
	dims      [3][3]int
}

func NewField(grid *geometry3D.TensorGrid, frequency float64) (f *Field) {
	return NewFieldFromData(grid, frequency, make([]complex128, grid.NEdgesTotal()))
}

// NewFieldFromData wraps data without copying it.
func NewFieldFromData(grid *geometry3D.TensorGrid, frequency float64, data []complex128) (f *Field) {
	if len(data) != grid.NEdgesTotal() {
		panic(fmt.Errorf("field data has %d values, grid has %d edges", len(data), grid.NEdgesTotal()))
	}
	f = &Field{
		Grid:      grid,
		Frequency: frequency,
		Data:      data,
	}
	var offset int
	for c := 0; c < 3; c++ {
		n := grid.NEdges(c)
		f.F[c] = data[offset : offset+n : offset+n]
		f.dims[c] = grid.EdgeDims(c)
		offset += n
	}
	return
}

func (f *Field) Fx() []complex128 { return f.F[0] }
func (f *Field) Fy() []complex128 { return f.F[1] }
func (f *Field) Fz() []complex128 { return f.F[2] }

func (f *Field) Dims(comp int) [3]int { return f.dims[comp] }

func (f *Field) Index(comp, i, j, k int) int {
	d := f.dims[comp]
	return i + d[0]*(j+d[1]*k)
}

func (f *Field) At(comp, i, j, k int) complex128 { return f.F[comp][f.Index(comp, i, j, k)] }

func (f *Field) Set(comp, i, j, k int, v complex128) { f.F[comp][f.Index(comp, i, j, k)] = v }

func (f *Field) IsLaplace() bool { return f.Frequency < 0 }

// SVal is the Laplace parameter of the field's frequency.
func (f *Field) SVal() complex128 { return SVal(f.Frequency) }

func (f *Field) Copy() (fc *Field) {
	fc = NewField(f.Grid, f.Frequency)
	copy(fc.Data, f.Data)
	return
}

func (f *Field) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

func (f *Field) Add(other *Field) {
	f.checkShape(other)
	cmplxs.Add(f.Data, other.Data)
}

func (f *Field) Sub(other *Field) {
	f.checkShape(other)
	cmplxs.Sub(f.Data, other.Data)
}

func (f *Field) Negate() { cmplxs.Scale(-1, f.Data) }

func (f *Field) Scale(c complex128) { cmplxs.Scale(c, f.Data) }

/*
Norm is the Euclidean norm over all components. NaN and Inf are propagated,
the divergence check depends on it.
*/
func (f *Field) Norm() float64 {
	if cmplxs.HasNaN(f.Data) {
		return math.NaN()
	}
	return cmplxs.Norm(f.Data, 2)
}

// EnforcePEC zeroes the tangential components on the six outer faces.
func (f *Field) EnforcePEC() {
	for c := 0; c < 3; c++ {
		var (
			d  = f.dims[c]
			fc = f.F[c]
		)
		for k := 0; k < d[2]; k++ {
			for j := 0; j < d[1]; j++ {
				for i := 0; i < d[0]; i++ {
					if onBoundary(c, d, [3]int{i, j, k}) {
						fc[i+d[0]*(j+d[1]*k)] = 0
					}
				}
			}
		}
	}
}

// PECNorm is the norm over boundary tangential edges only. It is zero for any
// field that satisfies the boundary condition.
func (f *Field) PECNorm() float64 {
	var sum float64
	for c := 0; c < 3; c++ {
		d := f.dims[c]
		for k := 0; k < d[2]; k++ {
			for j := 0; j < d[1]; j++ {
				for i := 0; i < d[0]; i++ {
					if onBoundary(c, d, [3]int{i, j, k}) {
						v := f.F[c][i+d[0]*(j+d[1]*k)]
						sum += real(v)*real(v) + imag(v)*imag(v)
					}
				}
			}
		}
	}
	return math.Sqrt(sum)
}

// onBoundary is true for edges of component c that lie in an outer face.
func onBoundary(c int, d, p [3]int) bool {
	for a := 0; a < 3; a++ {
		if a == c {
			continue
		}
		if p[a] == 0 || p[a] == d[a]-1 {
			return true
		}
	}
	return false
}

func (f *Field) checkShape(other *Field) {
	if !f.Grid.SameShape(other.Grid) {
		panic(fmt.Errorf("field shape mismatch: %v and %v", f.Grid, other.Grid))
	}
}
