package operators

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJacobiGQ(t *testing.T) {
	{ // Two point Gauss-Legendre
		X, W := JacobiGQ(0, 0, 1)
		assert.True(t, near(X.AtVec(0), -1/math.Sqrt(3)))
		assert.True(t, near(X.AtVec(1), 1/math.Sqrt(3)))
		assert.True(t, near(W.AtVec(0), 1))
		assert.True(t, near(W.AtVec(1), 1))
	}
	{ // Three point Gauss-Legendre
		X, W := JacobiGQ(0, 0, 2)
		assert.True(t, near(X.AtVec(0), -math.Sqrt(3./5.)))
		assert.True(t, near(X.AtVec(1), 0))
		assert.True(t, near(X.AtVec(2), math.Sqrt(3./5.)))
		assert.True(t, near(W.AtVec(0), 5./9.))
		assert.True(t, near(W.AtVec(1), 8./9.))
		assert.True(t, near(W.AtVec(2), 5./9.))
	}
	{ // Weights integrate monomials exactly up to degree 2N+1
		for N := 1; N <= 6; N++ {
			X, W := JacobiGQ(0, 0, N)
			for p := 0; p <= 2*N+1; p++ {
				var sum float64
				for i := 0; i < X.Len(); i++ {
					sum += W.AtVec(i) * math.Pow(X.AtVec(i), float64(p))
				}
				exact := 0.
				if p%2 == 0 {
					exact = 2. / float64(p+1)
				}
				assert.True(t, math.Abs(sum-exact) < 1.e-12)
			}
		}
	}
}

func TestJacobiGL(t *testing.T) {
	{
		X := JacobiGL(0, 0, 2)
		assert.True(t, near(X.AtVec(0), -1))
		assert.True(t, near(X.AtVec(1), 0))
		assert.True(t, near(X.AtVec(2), 1))
	}
	{
		X := JacobiGL(0, 0, 4)
		assert.True(t, near(X.AtVec(1), -math.Sqrt(3./7.)))
		assert.True(t, near(X.AtVec(3), math.Sqrt(3./7.)))
		assert.True(t, near(X.AtVec(4), 1))
	}
}

func TestVandermonde1D(t *testing.T) {
	var (
		N = 4
		R = JacobiGL(0, 0, N)
		V = Vandermonde1D(N, R)
	)
	// Orthonormal basis: V V^T approximates the inverse mass matrix,
	// here we only need V to be invertible and consistent with its
	// gradient counterpart
	Vinv, err := V.Inverse()
	assert.Nil(t, err)
	I := V.Mul(Vinv)
	for i := 0; i <= N; i++ {
		for j := 0; j <= N; j++ {
			exact := 0.
			if i == j {
				exact = 1.
			}
			assert.True(t, math.Abs(I.At(i, j)-exact) < 1.e-12)
		}
	}
	// First basis function is the constant 1/sqrt(2)
	for i := 0; i <= N; i++ {
		assert.True(t, near(V.At(i, 0), 1/math.Sqrt(2)))
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
