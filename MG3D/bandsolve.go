package MG3D

import "math/cmplx"

// Pivots below singularTol times the largest entry of their row are zero.
const singularTol = 1e-13

/*
bandMatrix is a square complex matrix with kd sub- and super-diagonals, stored
row major within the band:
	A[i][j] = data[i*(2kd+1) + j-i+kd],  |i-j| <= kd
The relaxation systems are complex symmetric with a positive semi-definite real
part and a definite imaginary part (or SPD in the Laplace domain), so LU
without pivoting is used. A singular system yields Inf/NaN, which the
termination check reports as divergence.
*/
type bandMatrix struct {
	n, kd int
	data  []complex128
	scale []float64
}

func newBandMatrix(n, kd int) (bm *bandMatrix) {
	bm = &bandMatrix{}
	bm.reset(n, kd)
	return
}

func (bm *bandMatrix) reset(n, kd int) {
	var (
		size = n * (2*kd + 1)
	)
	bm.n, bm.kd = n, kd
	if cap(bm.data) < size {
		bm.data = make([]complex128, size)
	}
	bm.data = bm.data[:size]
	for i := range bm.data {
		bm.data[i] = 0
	}
	if cap(bm.scale) < n {
		bm.scale = make([]float64, n)
	}
	bm.scale = bm.scale[:n]
}

func (bm *bandMatrix) add(i, j int, v complex128) {
	if j-i > bm.kd || i-j > bm.kd {
		panic("band matrix entry outside of band")
	}
	bm.data[i*(2*bm.kd+1)+j-i+bm.kd] += v
}

// solve overwrites b with the solution of A x = b and destroys A.
func (bm *bandMatrix) solve(b []complex128) {
	var (
		n, kd = bm.n, bm.kd
		w     = 2*kd + 1
		a     = bm.data
	)
	for i := 0; i < n; i++ {
		bm.scale[i] = 0
		for _, v := range a[i*w : (i+1)*w] {
			bm.scale[i] = max(bm.scale[i], cmplx.Abs(v))
		}
	}
	for k := 0; k < n; k++ {
		var (
			piv  = a[k*w+kd]
			iMax = min(n-1, k+kd)
		)
		if cmplx.Abs(piv) <= singularTol*bm.scale[k] {
			piv = 0
			a[k*w+kd] = 0
		}
		for i := k + 1; i <= iMax; i++ {
			l := a[i*w+k-i+kd] / piv
			if l == 0 {
				continue
			}
			for j := k + 1; j <= iMax; j++ {
				a[i*w+j-i+kd] -= l * a[k*w+j-k+kd]
			}
			b[i] -= l * b[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		var (
			sum  = b[i]
			jMax = min(n-1, i+kd)
		)
		for j := i + 1; j <= jMax; j++ {
			sum -= a[i*w+j-i+kd] * b[j]
		}
		b[i] = sum / a[i*w+kd]
	}
}
