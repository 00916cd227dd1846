package operators

import (
	"fmt"

	"github.com/notargets/pafem/device"
	"github.com/notargets/pafem/tensor"
)

// Setup kernels precompute the packed per-quadrature-point operator
// tensor for the convection operator: alpha * w * det(J) * J^{-1} . v,
// evaluated as adj(J) . (alpha*w*v) so no division by det(J) appears.
// The result is stored (NQ, dim, NE), one dim-vector per point.

func convectionSetup2D(nq, ne int, w, j, vel []float64, alpha float64, op []float64) {
	const dim = 2

	constV := len(vel) == dim

	J := tensor.Reshape4(j, nq, dim, dim, ne)
	var V tensor.Array3
	if constV {
		V = tensor.Reshape3(vel, dim, 1, 1)
	} else {
		V = tensor.Reshape3(vel, dim, nq, ne)
	}
	y := tensor.Reshape3(op, nq, dim, ne)

	device.Forall(ne*nq, func(qGlobal int) {
		e := qGlobal / nq
		q := qGlobal % nq
		J11 := J.At(q, 0, 0, e)
		J21 := J.At(q, 1, 0, e)
		J12 := J.At(q, 0, 1, e)
		J22 := J.At(q, 1, 1, e)
		w := alpha * w[q]
		var v0, v1 float64
		if constV {
			v0, v1 = V.At(0, 0, 0), V.At(1, 0, 0)
		} else {
			v0, v1 = V.At(0, q, e), V.At(1, q, e)
		}
		wx := w * v0
		wy := w * v1
		// y = alpha * W * det(J) * J^{-1} . v = adj(J) . { wx, wy }
		y.Set(q, 0, e, wx*J22-wy*J12)
		y.Set(q, 1, e, -wx*J21+wy*J11)
	})
}

func convectionSetup3D(nq, ne int, w, j, vel []float64, alpha float64, op []float64) {
	const dim = 3

	constV := len(vel) == dim

	J := tensor.Reshape4(j, nq, dim, dim, ne)
	var V tensor.Array3
	if constV {
		V = tensor.Reshape3(vel, dim, 1, 1)
	} else {
		V = tensor.Reshape3(vel, dim, nq, ne)
	}
	y := tensor.Reshape3(op, nq, dim, ne)

	device.Forall(ne*nq, func(qGlobal int) {
		e := qGlobal / nq
		q := qGlobal % nq
		J11 := J.At(q, 0, 0, e)
		J12 := J.At(q, 0, 1, e)
		J13 := J.At(q, 0, 2, e)
		J21 := J.At(q, 1, 0, e)
		J22 := J.At(q, 1, 1, e)
		J23 := J.At(q, 1, 2, e)
		J31 := J.At(q, 2, 0, e)
		J32 := J.At(q, 2, 1, e)
		J33 := J.At(q, 2, 2, e)
		w := alpha * w[q]
		var v0, v1, v2 float64
		if constV {
			v0, v1, v2 = V.At(0, 0, 0), V.At(1, 0, 0), V.At(2, 0, 0)
		} else {
			v0, v1, v2 = V.At(0, q, e), V.At(1, q, e), V.At(2, q, e)
		}
		wx := w * v0
		wy := w * v1
		wz := w * v2
		// A = adj(J)
		A11 := (J22 * J33) - (J23 * J32)
		A12 := (J32 * J13) - (J12 * J33)
		A13 := (J12 * J23) - (J22 * J13)
		A21 := (J31 * J23) - (J21 * J33)
		A22 := (J11 * J33) - (J13 * J31)
		A23 := (J21 * J13) - (J11 * J23)
		A31 := (J21 * J32) - (J31 * J22)
		A32 := (J31 * J12) - (J11 * J32)
		A33 := (J11 * J22) - (J12 * J21)
		// y = alpha * W * det(J) * J^{-1} . v = adj(J) . { wx, wy, wz }
		y.Set(q, 0, e, wx*A11+wy*A12+wz*A13)
		y.Set(q, 1, e, wx*A21+wy*A22+wz*A23)
		y.Set(q, 2, e, wx*A31+wy*A32+wz*A33)
	})
}

// ConvectionSetup produces the packed operator tensor from the
// reference quadrature weights w (length nq), the Jacobian field j
// shaped (nq, dim, dim, ne), and the convection velocity vel, either a
// constant dim-vector or a full (dim, nq, ne) field. The velocity form
// is resolved here, once, not in the apply hot loops.
func ConvectionSetup(dim, nq, ne int, w, j, vel []float64, alpha float64) (op []float64) {
	if dim == 1 {
		panic("dim==1 not supported in ConvectionSetup")
	}
	if dim != 2 && dim != 3 {
		panic(fmt.Sprintf("ConvectionSetup: unsupported dimension %d", dim))
	}
	if len(w) != nq {
		panic(fmt.Sprintf("ConvectionSetup: len(w) = %d, want nq = %d", len(w), nq))
	}
	if len(vel) != dim && len(vel) != dim*nq*ne {
		panic(fmt.Sprintf("ConvectionSetup: len(vel) = %d, want %d (constant) or %d (per point)",
			len(vel), dim, dim*nq*ne))
	}
	op = make([]float64, dim*nq*ne)
	if dim == 2 {
		convectionSetup2D(nq, ne, w, j, vel, alpha, op)
	} else {
		convectionSetup3D(nq, ne, w, j, vel, alpha, op)
	}
	return
}
