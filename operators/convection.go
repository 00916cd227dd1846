package operators

import (
	"fmt"
)

// Convection is the partial-assembly form of the convection operator
// alpha * (v . grad(u), w): no element or global matrices are ever
// formed, only the packed per-quadrature-point tensor produced by
// ConvectionSetup. The tensor and the basis tables are rebuilt together
// by AssemblePA whenever the mesh geometry, degree or coefficient
// changes; the apply kernels assume they are consistent.
type Convection struct {
	Dim      int
	D1D, Q1D int
	NE       int
	Alpha    float64

	maps   *DofToQuad
	paData []float64
}

// NewConvection prepares a convection operator for degree order
// elements (D1D = order+1 nodal points per direction) with q1d
// quadrature points per direction.
func NewConvection(dim, order, q1d int) (c *Convection) {
	if dim != 2 && dim != 3 {
		panic(fmt.Sprintf("NewConvection: unsupported dimension %d", dim))
	}
	c = &Convection{
		Dim:  dim,
		D1D:  order + 1,
		Q1D:  q1d,
		maps: TensorBasis(order+1, q1d),
	}
	return
}

// NQ returns the number of quadrature points per element.
func (c *Convection) NQ() (nq int) {
	nq = 1
	for d := 0; d < c.Dim; d++ {
		nq *= c.Q1D
	}
	return
}

// NDof returns the number of degrees of freedom per element.
func (c *Convection) NDof() (nd int) {
	nd = 1
	for d := 0; d < c.Dim; d++ {
		nd *= c.D1D
	}
	return
}

// Maps returns the shared basis tables.
func (c *Convection) Maps() *DofToQuad { return c.maps }

// PAData returns the packed operator tensor, nil before AssemblePA.
func (c *Convection) PAData() []float64 { return c.paData }

// TensorWeights expands the 1D quadrature weights to the dim-fold
// tensor-product weights, ordered qx fastest.
func (c *Convection) TensorWeights() (w []float64) {
	var (
		q1d = c.Q1D
		w1  = c.maps.W
	)
	w = make([]float64, c.NQ())
	if c.Dim == 2 {
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				w[qx+q1d*qy] = w1[qx] * w1[qy]
			}
		}
		return
	}
	for qz := 0; qz < q1d; qz++ {
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				w[qx+q1d*(qy+q1d*qz)] = w1[qx] * w1[qy] * w1[qz]
			}
		}
	}
	return
}

// AssemblePA runs the setup kernel: jac is the Jacobian field shaped
// (NQ, dim, dim, ne) and vel is the convection velocity, constant
// (length dim) or per point (dim, NQ, ne).
func (c *Convection) AssemblePA(ne int, jac, vel []float64, alpha float64) {
	var (
		nq = c.NQ()
	)
	if len(jac) != nq*c.Dim*c.Dim*ne {
		panic(fmt.Sprintf("AssemblePA: len(jac) = %d, want %d", len(jac), nq*c.Dim*c.Dim*ne))
	}
	c.NE = ne
	c.Alpha = alpha
	c.paData = ConvectionSetup(c.Dim, nq, ne, c.TensorWeights(), jac, vel, alpha)
}

func (c *Convection) checkApply(x, y []float64) {
	if c.paData == nil {
		panic("convection operator not assembled - call AssemblePA before applying")
	}
	n := c.NDof() * c.NE
	if len(x) != n || len(y) != n {
		panic(fmt.Sprintf("apply: len(x) = %d, len(y) = %d, want %d", len(x), len(y), n))
	}
}

// AddMultPA accumulates y += A(x). y is never overwritten, so repeated
// applications compose additively.
func (c *Convection) AddMultPA(x, y []float64) {
	c.checkApply(x, y)
	ConvectionApply(c.Dim, c.D1D, c.Q1D, c.NE, c.maps, c.paData, x, y)
}

// AddMultTransposePA accumulates y += A^T(x).
func (c *Convection) AddMultTransposePA(x, y []float64) {
	c.checkApply(x, y)
	ConvectionApplyTranspose(c.Dim, c.D1D, c.Q1D, c.NE, c.maps, c.paData, x, y)
}

// AssembleDiagonalPA is a feature of the operator interface that the
// convection kernels do not provide yet.
func (c *Convection) AssembleDiagonalPA(diag []float64) {
	panic("AssembleDiagonalPA not yet implemented for the convection operator")
}
