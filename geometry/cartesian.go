package geometry

import (
	"fmt"
	"math"

	"github.com/notargets/pafem/operators"
)

// CartesianMesh is a tensor-product box mesh of NX x NY (x NZ)
// quadrilateral or hexahedral elements on [0,LX] x [0,LY] (x [0,LZ]).
// A nonzero Eps composes a smooth trigonometric deformation onto the
// affine element maps, giving Jacobians that genuinely vary from
// quadrature point to quadrature point.
type CartesianMesh struct {
	Dim        int
	NX, NY, NZ int
	LX, LY, LZ float64
	Eps        float64
}

func NewCartesianMesh2D(nx, ny int, lx, ly float64) (m *CartesianMesh) {
	if nx < 1 || ny < 1 {
		panic(fmt.Sprintf("NewCartesianMesh2D: need at least one element per direction, got %d x %d", nx, ny))
	}
	m = &CartesianMesh{
		Dim: 2,
		NX:  nx, NY: ny, NZ: 1,
		LX: lx, LY: ly, LZ: 1,
	}
	return
}

func NewCartesianMesh3D(nx, ny, nz int, lx, ly, lz float64) (m *CartesianMesh) {
	if nx < 1 || ny < 1 || nz < 1 {
		panic(fmt.Sprintf("NewCartesianMesh3D: need at least one element per direction, got %d x %d x %d", nx, ny, nz))
	}
	m = &CartesianMesh{
		Dim: 3,
		NX:  nx, NY: ny, NZ: nz,
		LX: lx, LY: ly, LZ: lz,
	}
	return
}

// NE returns the number of elements in the mesh.
func (m *CartesianMesh) NE() (ne int) {
	ne = m.NX * m.NY
	if m.Dim == 3 {
		ne *= m.NZ
	}
	return
}

// deform evaluates the gradient of the deformation map at the physical
// point x. With Eps == 0 the map is the identity.
func (m *CartesianMesh) deform2D(x, y float64) (g [2][2]float64) {
	var (
		u, v = x / m.LX, y / m.LY
		su   = math.Sin(math.Pi * u)
		sv   = math.Sin(math.Pi * v)
		cu   = math.Cos(math.Pi * u)
		cv   = math.Cos(math.Pi * v)
	)
	g[0][0] = 1 + m.Eps*math.Pi*cu*sv
	g[0][1] = m.Eps * math.Pi * (m.LX / m.LY) * su * cv
	g[1][0] = m.Eps * math.Pi * (m.LY / m.LX) * cu * sv
	g[1][1] = 1 + m.Eps*math.Pi*su*cv
	return
}

func (m *CartesianMesh) deform3D(x, y, z float64) (g [3][3]float64) {
	var (
		u, v, w = x / m.LX, y / m.LY, z / m.LZ
		su, cu  = math.Sin(math.Pi * u), math.Cos(math.Pi * u)
		sv, cv  = math.Sin(math.Pi * v), math.Cos(math.Pi * v)
		sw, cw  = math.Sin(math.Pi * w), math.Cos(math.Pi * w)
	)
	g[0][0] = 1 + m.Eps*math.Pi*cu*sv*sw
	g[0][1] = m.Eps * math.Pi * (m.LX / m.LY) * su * cv * sw
	g[0][2] = m.Eps * math.Pi * (m.LX / m.LZ) * su * sv * cw
	g[1][0] = m.Eps * math.Pi * (m.LY / m.LX) * cu * sv * sw
	g[1][1] = 1 + m.Eps*math.Pi*su*cv*sw
	g[1][2] = m.Eps * math.Pi * (m.LY / m.LZ) * su * sv * cw
	g[2][0] = m.Eps * math.Pi * (m.LZ / m.LX) * cu * sv * sw
	g[2][1] = m.Eps * math.Pi * (m.LZ / m.LY) * su * cv * sw
	g[2][2] = 1 + m.Eps*math.Pi*su*sv*cw
	return
}

// Jacobians evaluates the Jacobian of the element maps at every
// quadrature point, returned flat in (NQ, dim, dim, NE) order with the
// point index fastest, J(r,c) = dx_r/dxi_c. Elements are numbered with
// the x index fastest.
func (m *CartesianMesh) Jacobians(dq *operators.DofToQuad) (jac []float64) {
	var (
		dim = m.Dim
		q1d = dq.Q1D
		nq  = 1
		ne  = m.NE()
	)
	for d := 0; d < dim; d++ {
		nq *= q1d
	}
	jac = make([]float64, nq*dim*dim*ne)
	at := func(q, r, c, e int) int {
		return q + nq*(r+dim*(c+dim*e))
	}
	var (
		hx = m.LX / float64(m.NX)
		hy = m.LY / float64(m.NY)
	)
	if dim == 2 {
		for ey := 0; ey < m.NY; ey++ {
			for ex := 0; ex < m.NX; ex++ {
				e := ex + m.NX*ey
				for qy := 0; qy < q1d; qy++ {
					for qx := 0; qx < q1d; qx++ {
						var (
							q = qx + q1d*qy
							x = hx * (float64(ex) + 0.5*(dq.X[qx]+1))
							y = hy * (float64(ey) + 0.5*(dq.X[qy]+1))
							g = m.deform2D(x, y)
						)
						// chain rule onto the affine map diag(hx/2, hy/2)
						jac[at(q, 0, 0, e)] = g[0][0] * hx / 2
						jac[at(q, 0, 1, e)] = g[0][1] * hy / 2
						jac[at(q, 1, 0, e)] = g[1][0] * hx / 2
						jac[at(q, 1, 1, e)] = g[1][1] * hy / 2
					}
				}
			}
		}
		return
	}
	hz := m.LZ / float64(m.NZ)
	for ez := 0; ez < m.NZ; ez++ {
		for ey := 0; ey < m.NY; ey++ {
			for ex := 0; ex < m.NX; ex++ {
				e := ex + m.NX*(ey+m.NY*ez)
				for qz := 0; qz < q1d; qz++ {
					for qy := 0; qy < q1d; qy++ {
						for qx := 0; qx < q1d; qx++ {
							var (
								q = qx + q1d*(qy+q1d*qz)
								x = hx * (float64(ex) + 0.5*(dq.X[qx]+1))
								y = hy * (float64(ey) + 0.5*(dq.X[qy]+1))
								z = hz * (float64(ez) + 0.5*(dq.X[qz]+1))
								g = m.deform3D(x, y, z)
								h = [3]float64{hx / 2, hy / 2, hz / 2}
							)
							for r := 0; r < 3; r++ {
								for c := 0; c < 3; c++ {
									jac[at(q, r, c, e)] = g[r][c] * h[c]
								}
							}
						}
					}
				}
			}
		}
	}
	return
}
