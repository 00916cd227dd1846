package operators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDofToQuad(t *testing.T) {
	for _, sz := range []struct{ d1d, q1d int }{
		{2, 2}, {3, 3}, {3, 5}, {4, 6}, {6, 7},
	} {
		var (
			dq  = NewDofToQuad(sz.d1d, sz.q1d)
			N   = sz.d1d - 1
			tol = 1.e-11
		)
		// Interpolation reproduces monomials up to degree N, and the
		// derivative table differentiates them
		for p := 0; p <= N; p++ {
			for qx := 0; qx < sz.q1d; qx++ {
				var bSum, gSum float64
				for dx := 0; dx < sz.d1d; dx++ {
					v := math.Pow(dq.R[dx], float64(p))
					bSum += dq.B[qx+sz.q1d*dx] * v
					gSum += dq.G[qx+sz.q1d*dx] * v
				}
				assert.True(t, math.Abs(bSum-math.Pow(dq.X[qx], float64(p))) < tol)
				dExact := 0.
				if p > 0 {
					dExact = float64(p) * math.Pow(dq.X[qx], float64(p-1))
				}
				assert.True(t, math.Abs(gSum-dExact) < tol)
			}
		}
		// Transposes agree elementwise with the forward tables
		for qx := 0; qx < sz.q1d; qx++ {
			for dx := 0; dx < sz.d1d; dx++ {
				assert.Equal(t, dq.B[qx+sz.q1d*dx], dq.Bt[dx+sz.d1d*qx])
				assert.Equal(t, dq.G[qx+sz.q1d*dx], dq.Gt[dx+sz.d1d*qx])
			}
		}
	}
}

func TestTensorBasisCache(t *testing.T) {
	a := TensorBasis(4, 5)
	b := TensorBasis(4, 5)
	assert.True(t, a == b)
	c := TensorBasis(4, 6)
	assert.True(t, a != c)
}

func TestCapacityLimits(t *testing.T) {
	assert.Panics(t, func() { NewDofToQuad(MaxD1D+1, 5) })
	assert.Panics(t, func() { NewDofToQuad(1, 5) })
	assert.Panics(t, func() { NewDofToQuad(5, MaxQ1D+1) })
	assert.NotPanics(t, func() { NewDofToQuad(MaxD1D, MaxQ1D) })
}
