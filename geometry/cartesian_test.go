package geometry

import (
	"math"
	"testing"

	"github.com/notargets/pafem/operators"
	"github.com/stretchr/testify/assert"
)

func TestAffineJacobians(t *testing.T) {
	var (
		m   = NewCartesianMesh2D(4, 2, 2, 1)
		dq  = operators.TensorBasis(3, 4)
		nq  = 4 * 4
		ne  = m.NE()
		jac = m.Jacobians(dq)
	)
	assert.Equal(t, ne, 8)
	assert.Equal(t, len(jac), nq*2*2*ne)
	var (
		hx = 2. / 4.
		hy = 1. / 2.
	)
	for e := 0; e < ne; e++ {
		for q := 0; q < nq; q++ {
			assert.True(t, near(jac[q+nq*(0+2*(0+2*e))], hx/2))
			assert.True(t, near(jac[q+nq*(0+2*(1+2*e))], 0))
			assert.True(t, near(jac[q+nq*(1+2*(0+2*e))], 0))
			assert.True(t, near(jac[q+nq*(1+2*(1+2*e))], hy/2))
		}
	}
}

func TestDeformedJacobians(t *testing.T) {
	// A small deformation keeps every Jacobian orientation preserving
	// and varies it across quadrature points
	check := func(m *CartesianMesh, d1d, q1d int) {
		var (
			dim = m.Dim
			dq  = operators.TensorBasis(d1d, q1d)
			nq  = 1
			ne  = m.NE()
		)
		for d := 0; d < dim; d++ {
			nq *= q1d
		}
		var (
			jac   = m.Jacobians(dq)
			at    = func(q, r, c, e int) float64 { return jac[q+nq*(r+dim*(c+dim*e))] }
			detMn = math.MaxFloat64
			detMx = -math.MaxFloat64
		)
		for e := 0; e < ne; e++ {
			for q := 0; q < nq; q++ {
				var det float64
				if dim == 2 {
					det = at(q, 0, 0, e)*at(q, 1, 1, e) - at(q, 0, 1, e)*at(q, 1, 0, e)
				} else {
					det = at(q, 0, 0, e)*(at(q, 1, 1, e)*at(q, 2, 2, e)-at(q, 1, 2, e)*at(q, 2, 1, e)) -
						at(q, 0, 1, e)*(at(q, 1, 0, e)*at(q, 2, 2, e)-at(q, 1, 2, e)*at(q, 2, 0, e)) +
						at(q, 0, 2, e)*(at(q, 1, 0, e)*at(q, 2, 1, e)-at(q, 1, 1, e)*at(q, 2, 0, e))
				}
				assert.True(t, det > 0)
				if det < detMn {
					detMn = det
				}
				if det > detMx {
					detMx = det
				}
			}
		}
		assert.True(t, detMx > detMn)
	}
	m2 := NewCartesianMesh2D(3, 3, 1, 1)
	m2.Eps = 0.05
	check(m2, 3, 4)
	m3 := NewCartesianMesh3D(2, 2, 2, 1, 1, 1)
	m3.Eps = 0.05
	check(m3, 3, 4)
}

func TestElementRestriction(t *testing.T) {
	var (
		order = 2
		m     = NewCartesianMesh2D(2, 2, 1, 1)
		er    = NewElementRestriction(m, order)
		d1d   = order + 1
		nd    = d1d * d1d
	)
	assert.Equal(t, er.NGlobal, 5*5)
	assert.Equal(t, er.NElem, nd*4)

	// A constant gathers to a constant
	var (
		xG = make([]float64, er.NGlobal)
		xE = make([]float64, er.NElem)
	)
	for i := range xG {
		xG[i] = 3
	}
	er.Gather(xG, xE)
	for i := range xE {
		assert.Equal(t, xE[i], 3.)
	}

	// Scattering elementwise ones counts element multiplicity: the
	// center node is shared by all four elements
	var (
		yE = make([]float64, er.NElem)
		yG = make([]float64, er.NGlobal)
	)
	for i := range yE {
		yE[i] = 1
	}
	er.ScatterAdd(yE, yG)
	assert.Equal(t, yG[0], 1.) // corner
	assert.Equal(t, yG[2], 2.) // edge midline node
	assert.Equal(t, yG[2+5*2], 4.) // center
	assert.Equal(t, yG[er.NGlobal-1], 1.)

	assert.Panics(t, func() { er.Gather(xG[:3], xE) })
	assert.Panics(t, func() { er.ScatterAdd(yE, yG[:3]) })
}

// Applying the operator to the interpolant of u = x and summing every
// output entry integrates alpha * v . grad(u) over the whole box.
func TestConvectionIntegral(t *testing.T) {
	check := func(dim int) {
		var (
			order = 2
			q1d   = 4
			alpha = 2.
			vel   = []float64{0.75, -0.5, 0.25}[:dim]
			m     *CartesianMesh
		)
		if dim == 2 {
			m = NewCartesianMesh2D(3, 2, 2, 1)
		} else {
			m = NewCartesianMesh3D(2, 2, 2, 2, 1, 1)
		}
		var (
			c  = operators.NewConvection(dim, order, q1d)
			ne = m.NE()
		)
		c.AssemblePA(ne, m.Jacobians(c.Maps()), vel, alpha)

		// Nodal values of the physical x coordinate, elementwise
		var (
			d1d = order + 1
			nd  = c.NDof()
			r   = c.Maps().R
			hx  = m.LX / float64(m.NX)
			x   = make([]float64, nd*ne)
			y   = make([]float64, nd*ne)
		)
		for e := 0; e < ne; e++ {
			ex := e % m.NX
			for i := 0; i < nd; i++ {
				dx := i % d1d
				x[i+nd*e] = hx * (float64(ex) + 0.5*(r[dx]+1))
			}
		}
		c.AddMultPA(x, y)
		var sum float64
		for _, v := range y {
			sum += v
		}
		var (
			vol   = m.LX * m.LY * m.LZ
			exact = alpha * vel[0] * vol
		)
		assert.True(t, math.Abs(sum-exact) < 1.e-10)
	}
	check(2)
	check(3)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*(math.Abs(a)+1) {
		l = true
	}
	return
}
