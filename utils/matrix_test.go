package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Mul and Transpose
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		At := A.Transpose()
		nr, nc := At.Dims()
		assert.Equal(t, nr, 3)
		assert.Equal(t, nc, 2)
		B := A.Mul(At) // (2x3)x(3x2)
		assert.True(t, near(B.At(0, 0), 14))
		assert.True(t, near(B.At(0, 1), 32))
		assert.True(t, near(B.At(1, 1), 77))
	}
	{ // Inverse
		A := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Ainv, err := A.Inverse()
		assert.Nil(t, err)
		I := A.Mul(Ainv)
		assert.True(t, near(I.At(0, 0), 1))
		assert.True(t, near(I.At(0, 1), 0))
		assert.True(t, near(I.At(1, 0), 0))
		assert.True(t, near(I.At(1, 1), 1))
	}
	{ // SetCol / SetRow validate lengths
		A := NewMatrix(2, 2)
		assert.Panics(t, func() { A.SetCol(0, []float64{1, 2, 3}) })
		assert.Panics(t, func() { A.SetRow(0, []float64{1}) })
		A.SetCol(1, []float64{5, 6})
		assert.Equal(t, A.At(0, 1), 5.)
		assert.Equal(t, A.At(1, 1), 6.)
	}
}

func TestVector(t *testing.T) {
	v := NewVector(3, []float64{1, -2, 3})
	assert.Equal(t, v.Min(), -2.)
	assert.Equal(t, v.Max(), 3.)
	w := v.Copy().Scale(2)
	assert.Equal(t, w.AtVec(1), -4.)
	assert.Equal(t, v.AtVec(1), -2.) // Copy detached the data
	w.Add(v)
	assert.Equal(t, w.AtVec(2), 9.)
	p := v.Copy().POW(2)
	assert.Equal(t, p.AtVec(1), 4.)
	s := v.Copy().Apply(math.Abs)
	assert.Equal(t, s.AtVec(1), 2.)
}

func TestPartitionMap(t *testing.T) {
	for _, c := range []struct{ np, n int }{
		{1, 10}, {3, 10}, {4, 4}, {7, 100}, {8, 9},
	} {
		pm := NewPartitionMap(c.np, c.n)
		var total int
		prevMax := 0
		for bn := 0; bn < c.np; bn++ {
			kMin, kMax := pm.GetBucketRange(bn)
			assert.Equal(t, kMin, prevMax)
			assert.True(t, kMax >= kMin)
			assert.Equal(t, pm.GetBucketDimension(bn), kMax-kMin)
			total += kMax - kMin
			prevMax = kMax
		}
		assert.Equal(t, total, c.n)
		assert.Equal(t, prevMax, c.n)
	}
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
