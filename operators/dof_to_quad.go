package operators

import (
	"sync"

	"github.com/notargets/pafem/utils"
)

// DofToQuad holds the 1D basis tables shared by every element and every
// kernel invocation for a given (degree, quadrature) pair: values and
// derivatives of the D1D Lagrange shape functions at the Q1D Gauss
// points, plus their transposes.
//
// Layouts are first-index-fastest: B and G are (Q1D, D1D), Bt and Gt
// are (D1D, Q1D), matching the tensor.Reshape2 views the kernels use.
type DofToQuad struct {
	D1D, Q1D int
	B, G     []float64 // (Q1D, D1D)
	Bt, Gt   []float64 // (D1D, Q1D)
	R        []float64 // D1D Gauss-Lobatto nodal points on [-1,1]
	X, W     []float64 // Q1D Gauss quadrature points and weights on [-1,1]
}

// NewDofToQuad builds the tables for a degree d1d-1 Lagrange basis on
// Gauss-Lobatto nodes, evaluated at q1d Gauss-Legendre points. The
// Lagrange basis comes from inverting the orthonormal Vandermonde
// matrix on the nodal points.
func NewDofToQuad(d1d, q1d int) (dq *DofToQuad) {
	var (
		N = d1d - 1
	)
	checkLimits(d1d, q1d)
	r := JacobiGL(0, 0, N)
	xq, wq := JacobiGQ(0, 0, q1d-1)

	V := Vandermonde1D(N, r)
	Vinv, err := V.Inverse()
	if err != nil {
		panic(err)
	}
	Bm := Vandermonde1D(N, xq).Mul(Vinv)     // (Q1D x D1D) basis values
	Gm := GradVandermonde1D(N, xq).Mul(Vinv) // (Q1D x D1D) basis derivatives

	dq = &DofToQuad{
		D1D: d1d,
		Q1D: q1d,
		B:   flatten(Bm),
		G:   flatten(Gm),
		Bt:  flatten(Bm.Transpose()),
		Gt:  flatten(Gm.Transpose()),
		R:   r.Copy().DataP(),
		X:   xq.Copy().DataP(),
		W:   wq.Copy().DataP(),
	}
	return
}

// flatten converts a (nr x nc) matrix to first-index-fastest storage,
// so element (i,j) lands at i + nr*j.
func flatten(m utils.Matrix) (data []float64) {
	var (
		nr, nc = m.Dims()
	)
	data = make([]float64, nr*nc)
	for j := 0; j < nc; j++ {
		for i := 0; i < nr; i++ {
			data[i+nr*j] = m.At(i, j)
		}
	}
	return
}

var (
	dofToQuadCache = make(map[int]*DofToQuad)
	dofToQuadMutex sync.Mutex
)

// TensorBasis returns the shared DofToQuad tables for (d1d, q1d),
// building them on first use. Tables are immutable once built.
func TensorBasis(d1d, q1d int) (dq *DofToQuad) {
	var (
		exists bool
		k      = dispatchKey(d1d, q1d)
	)
	dofToQuadMutex.Lock()
	defer dofToQuadMutex.Unlock()
	if dq, exists = dofToQuadCache[k]; !exists {
		dq = NewDofToQuad(d1d, q1d)
		dofToQuadCache[k] = dq
	}
	return
}
