package operators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func identityJacobians(dim, nq, ne int) (j []float64) {
	j = make([]float64, nq*dim*dim*ne)
	for e := 0; e < ne; e++ {
		for d := 0; d < dim; d++ {
			for q := 0; q < nq; q++ {
				j[q+nq*(d+dim*(d+dim*e))] = 1
			}
		}
	}
	return
}

func tensorWeights(dim, q1d int, w1 []float64) (w []float64) {
	if dim == 2 {
		w = make([]float64, q1d*q1d)
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				w[qx+q1d*qy] = w1[qx] * w1[qy]
			}
		}
		return
	}
	w = make([]float64, q1d*q1d*q1d)
	for qz := 0; qz < q1d; qz++ {
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				w[qx+q1d*(qy+q1d*qz)] = w1[qx] * w1[qy] * w1[qz]
			}
		}
	}
	return
}

func randomSlice(rnd *rand.Rand, n int) (v []float64) {
	v = make([]float64, n)
	for i := range v {
		v[i] = 2*rnd.Float64() - 1
	}
	return
}

func maxDiff(a, b []float64) (d float64) {
	for i := range a {
		if m := math.Abs(a[i] - b[i]); m > d {
			d = m
		}
	}
	return
}

func dot(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

func TestConvectionSetup(t *testing.T) {
	{ // 2D, identity Jacobian: the packed tensor is alpha*w*v per point
		var (
			q1d   = 3
			nq    = q1d * q1d
			ne    = 2
			alpha = 1.5
			vel   = []float64{0.7, -0.2}
			dq    = TensorBasis(3, q1d)
			w     = tensorWeights(2, q1d, dq.W)
			op    = ConvectionSetup(2, nq, ne, w, identityJacobians(2, nq, ne), vel, alpha)
		)
		for e := 0; e < ne; e++ {
			for q := 0; q < nq; q++ {
				assert.True(t, near(op[q+nq*(0+2*e)], alpha*w[q]*vel[0]))
				assert.True(t, near(op[q+nq*(1+2*e)], alpha*w[q]*vel[1]))
			}
		}
	}
	{ // 2D, general Jacobian at a single point: adjugate columns
		var (
			a, b, c, d = 2., 0.5, -0.25, 3.
			j          = []float64{a, c, b, d} // (1,2,2,1) layout, column index second
			vel        = []float64{1., 1.}
			w          = []float64{1.}
			op         = ConvectionSetup(2, 1, 1, w, j, vel, 1)
		)
		assert.True(t, near(op[0], d-b))
		assert.True(t, near(op[1], -c+a))
	}
	{ // 3D, identity Jacobian with a per point velocity field
		var (
			q1d = 2
			nq  = q1d * q1d * q1d
			ne  = 2
			dq  = TensorBasis(2, q1d)
			w   = tensorWeights(3, q1d, dq.W)
			rnd = rand.New(rand.NewSource(7))
			vel = randomSlice(rnd, 3*nq*ne)
			op  = ConvectionSetup(3, nq, ne, w, identityJacobians(3, nq, ne), vel, 2)
		)
		for e := 0; e < ne; e++ {
			for q := 0; q < nq; q++ {
				for d := 0; d < 3; d++ {
					vqe := vel[d+3*(q+nq*e)]
					assert.True(t, near(op[q+nq*(d+3*e)], 2*w[q]*vqe))
				}
			}
		}
	}
	// Unsupported dimensions and malformed inputs panic
	assert.Panics(t, func() { ConvectionSetup(1, 1, 1, []float64{1}, nil, []float64{1}, 1) })
	assert.Panics(t, func() { ConvectionSetup(4, 1, 1, []float64{1}, nil, nil, 1) })
	assert.Panics(t, func() {
		ConvectionSetup(2, 4, 1, []float64{1}, identityJacobians(2, 4, 1), []float64{1, 1}, 1)
	})
	assert.Panics(t, func() {
		ConvectionSetup(2, 1, 1, []float64{1}, identityJacobians(2, 1, 1), []float64{1, 1, 1}, 1)
	})
}

func TestConvectionOfConstantIsZero(t *testing.T) {
	check := func(dim, d1d, q1d int) {
		var (
			ne = 3
			dq = TensorBasis(d1d, q1d)
			nq = 1
			nd = 1
		)
		for d := 0; d < dim; d++ {
			nq *= q1d
			nd *= d1d
		}
		var (
			w  = tensorWeights(dim, q1d, dq.W)
			op = ConvectionSetup(dim, nq, ne, w, identityJacobians(dim, nq, ne), []float64{1, 0.5, -1}[:dim], 1)
			x  = make([]float64, nd*ne)
			y  = make([]float64, nd*ne)
		)
		for i := range x {
			x[i] = 1
		}
		ConvectionApply(dim, d1d, q1d, ne, dq, op, x, y)
		assert.True(t, maxDiff(y, make([]float64, len(y))) < 1.e-12)
	}
	check(2, 3, 3) // tiled
	check(2, 3, 7) // generic fallback
	check(3, 3, 4) // tiled
	check(3, 3, 3) // generic fallback
}

func TestTiledMatchesGeneric2D(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(42))
		ne  = 5
	)
	for _, s := range tiledSizes2D {
		var (
			dq = TensorBasis(s.d1d, s.q1d)
			nq = s.q1d * s.q1d
			nd = s.d1d * s.d1d
			op = randomSlice(rnd, 2*nq*ne)
			x  = randomSlice(rnd, nd*ne)
			y1 = make([]float64, nd*ne)
			y2 = make([]float64, nd*ne)
		)
		smemConvectionApply2D(ne, s.d1d, s.q1d, s.nbz, dq, op, x, y1)
		convectionApply2D(ne, s.d1d, s.q1d, dq, op, x, y2)
		assert.True(t, maxDiff(y1, y2) < 1.e-13)

		y1 = make([]float64, nd*ne)
		y2 = make([]float64, nd*ne)
		smemConvectionApplyT2D(ne, s.d1d, s.q1d, s.nbz, dq, op, x, y1)
		convectionApplyT2D(ne, s.d1d, s.q1d, dq, op, x, y2)
		assert.True(t, maxDiff(y1, y2) < 1.e-13)
	}
}

func TestTiledMatchesGeneric3D(t *testing.T) {
	var (
		rnd = rand.New(rand.NewSource(43))
		ne  = 3
	)
	for _, s := range tiledSizes3D {
		var (
			dq = TensorBasis(s.d1d, s.q1d)
			nq = s.q1d * s.q1d * s.q1d
			nd = s.d1d * s.d1d * s.d1d
			op = randomSlice(rnd, 3*nq*ne)
			x  = randomSlice(rnd, nd*ne)
			y1 = make([]float64, nd*ne)
			y2 = make([]float64, nd*ne)
		)
		smemConvectionApply3D(ne, s.d1d, s.q1d, dq, op, x, y1)
		convectionApply3D(ne, s.d1d, s.q1d, dq, op, x, y2)
		assert.True(t, maxDiff(y1, y2) < 1.e-13)

		y1 = make([]float64, nd*ne)
		y2 = make([]float64, nd*ne)
		smemConvectionApplyT3D(ne, s.d1d, s.q1d, dq, op, x, y1)
		convectionApplyT3D(ne, s.d1d, s.q1d, dq, op, x, y2)
		assert.True(t, maxDiff(y1, y2) < 1.e-13)
	}
}

func TestDispatchFallback(t *testing.T) {
	// Sizes absent from the tables must take the generic path and agree
	// with calling it directly
	for _, s := range []struct{ dim, d1d, q1d int }{
		{2, 5, 6},
		{2, 10, 11},
		{3, 3, 3},
		{3, 9, 10},
	} {
		var (
			exists bool
			key    = dispatchKey(s.d1d, s.q1d)
		)
		if s.dim == 2 {
			_, exists = apply2D[key]
		} else {
			_, exists = apply3D[key]
		}
		assert.False(t, exists)

		var (
			rnd = rand.New(rand.NewSource(int64(key)))
			ne  = 2
			dq  = TensorBasis(s.d1d, s.q1d)
			nq  = 1
			nd  = 1
		)
		for d := 0; d < s.dim; d++ {
			nq *= s.q1d
			nd *= s.d1d
		}
		var (
			op = randomSlice(rnd, s.dim*nq*ne)
			x  = randomSlice(rnd, nd*ne)
			y1 = make([]float64, nd*ne)
			y2 = make([]float64, nd*ne)
		)
		ConvectionApply(s.dim, s.d1d, s.q1d, ne, dq, op, x, y1)
		ConvectionApplyGeneric(s.dim, s.d1d, s.q1d, ne, dq, op, x, y2)
		assert.Equal(t, y1, y2)
	}
	assert.Panics(t, func() { ConvectionApply(4, 2, 2, 1, nil, nil, nil, nil) })
	assert.Panics(t, func() { ConvectionApplyTranspose(1, 2, 2, 1, nil, nil, nil, nil) })
}

func TestAdjointIdentity(t *testing.T) {
	// <A x, w> == <x, A^T w> exactly in exact arithmetic, for any
	// packed tensor, since the transpose kernels are the algebraic
	// transpose of the forward chain
	for _, s := range []struct{ dim, d1d, q1d int }{
		{2, 4, 4}, // tiled
		{2, 4, 5}, // generic
		{3, 4, 5}, // tiled
		{3, 4, 4}, // generic
	} {
		var (
			rnd = rand.New(rand.NewSource(11))
			ne  = 4
			dq  = TensorBasis(s.d1d, s.q1d)
			nq  = 1
			nd  = 1
		)
		for d := 0; d < s.dim; d++ {
			nq *= s.q1d
			nd *= s.d1d
		}
		var (
			op  = randomSlice(rnd, s.dim*nq*ne)
			x   = randomSlice(rnd, nd*ne)
			w   = randomSlice(rnd, nd*ne)
			ax  = make([]float64, nd*ne)
			atw = make([]float64, nd*ne)
		)
		ConvectionApply(s.dim, s.d1d, s.q1d, ne, dq, op, x, ax)
		ConvectionApplyTranspose(s.dim, s.d1d, s.q1d, ne, dq, op, w, atw)
		assert.True(t, math.Abs(dot(ax, w)-dot(x, atw)) < 1.e-11)
	}
}

func TestApplyAccumulates(t *testing.T) {
	var (
		rnd      = rand.New(rand.NewSource(3))
		dim, ne  = 2, 3
		d1d, q1d = 3, 3
		dq       = TensorBasis(d1d, q1d)
		nq       = q1d * q1d
		nd       = d1d * d1d
		op       = randomSlice(rnd, dim*nq*ne)
		x        = randomSlice(rnd, nd*ne)
		y0       = randomSlice(rnd, nd*ne)
		once     = append([]float64{}, y0...)
		twice    = append([]float64{}, y0...)
	)
	ConvectionApply(dim, d1d, q1d, ne, dq, op, x, once)
	ConvectionApply(dim, d1d, q1d, ne, dq, op, x, twice)
	ConvectionApply(dim, d1d, q1d, ne, dq, op, x, twice)
	for i := range y0 {
		ax := once[i] - y0[i]
		assert.True(t, math.Abs(twice[i]-(y0[i]+2*ax)) < 1.e-12)
	}
}

func TestConvectionOperator(t *testing.T) {
	check := func(dim int) {
		var (
			order = 2
			q1d   = 4
			ne    = 2
			alpha = 1.25
			vel   = []float64{0.6, -0.4, 0.3}[:dim]
			c     = NewConvection(dim, order, q1d)
		)
		assert.Equal(t, c.D1D, order+1)
		c.AssemblePA(ne, identityJacobians(dim, c.NQ(), ne), vel, alpha)
		// u interpolating the first reference coordinate: summing all
		// entries of A(u) integrates alpha * v . grad(u) = alpha*v0
		// over ne reference elements of volume 2^dim
		var (
			nd = c.NDof()
			x  = make([]float64, nd*ne)
			y  = make([]float64, nd*ne)
			r  = c.Maps().R
		)
		for e := 0; e < ne; e++ {
			for i := 0; i < nd; i++ {
				x[i+nd*e] = r[i%c.D1D]
			}
		}
		c.AddMultPA(x, y)
		var sum float64
		for _, v := range y {
			sum += v
		}
		exact := alpha * vel[0] * math.Pow(2, float64(dim)) * float64(ne)
		assert.True(t, near(sum, exact))
	}
	check(2)
	check(3)

	// Lifecycle errors
	assert.Panics(t, func() { NewConvection(1, 2, 3) })
	assert.Panics(t, func() { NewConvection(4, 2, 3) })
	c := NewConvection(2, 2, 4)
	assert.Panics(t, func() { c.AddMultPA(make([]float64, 9), make([]float64, 9)) })
	assert.Panics(t, func() { c.AssemblePA(1, make([]float64, 3), []float64{1, 0}, 1) })
	c.AssemblePA(1, identityJacobians(2, c.NQ(), 1), []float64{1, 0}, 1)
	assert.Panics(t, func() { c.AddMultPA(make([]float64, 4), make([]float64, 9)) })
	assert.Panics(t, func() { c.AssembleDiagonalPA(make([]float64, 9)) })
}
