package operators

import (
	"github.com/notargets/pafem/device"
	"github.com/notargets/pafem/tensor"
)

// Transpose 2D apply, generic path. The contraction chain of the
// forward kernel runs in reverse: interpolate with values only on the
// way in, multiply by the operator tensor componentwise, then carry
// each component back with the derivative matrix on its own axis.
func convectionApplyT2D(ne, d1d, q1d int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
		Gt = tensor.Reshape2(maps.Gt, d1d, q1d)
		O  = tensor.Reshape4(op, q1d, q1d, 2, ne)
		X  = tensor.Reshape3(x, d1d, d1d, ne)
		Y  = tensor.Reshape3(y, d1d, d1d, ne)
	)
	device.Forall(ne, func(e int) {
		var u [MaxD1D][MaxD1D]float64
		for dy := 0; dy < d1d; dy++ {
			for dx := 0; dx < d1d; dx++ {
				u[dy][dx] = X.At(dx, dy, e)
			}
		}
		var Bu [MaxD1D][MaxQ1D]float64
		for dy := 0; dy < d1d; dy++ {
			for qx := 0; qx < q1d; qx++ {
				Bu[dy][qx] = 0.0
				for dx := 0; dx < d1d; dx++ {
					bx := B.At(qx, dx)
					Bu[dy][qx] += bx * u[dy][dx]
				}
			}
		}
		var BBu [MaxQ1D][MaxQ1D]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				BBu[qy][qx] = 0.0
				for dy := 0; dy < d1d; dy++ {
					by := B.At(qy, dy)
					BBu[qy][qx] += by * Bu[dy][qx]
				}
			}
		}
		var DBu [MaxQ1D][MaxQ1D][2]float64
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				O1 := O.At(qx, qy, 0, e)
				O2 := O.At(qx, qy, 1, e)

				val := BBu[qy][qx]

				DBu[qy][qx][0] = O1 * val
				DBu[qy][qx][1] = O2 * val
			}
		}
		var GDBu [MaxD1D][MaxQ1D][2]float64
		for qx := 0; qx < q1d; qx++ {
			for dy := 0; dy < d1d; dy++ {
				GDBu[dy][qx][0] = 0.0
				GDBu[dy][qx][1] = 0.0
				for qy := 0; qy < q1d; qy++ {
					by := Bt.At(dy, qy)
					gy := Gt.At(dy, qy)
					GDBu[dy][qx][0] += by * DBu[qy][qx][0]
					GDBu[dy][qx][1] += gy * DBu[qy][qx][1]
				}
			}
		}
		for dx := 0; dx < d1d; dx++ {
			for dy := 0; dy < d1d; dy++ {
				res := 0.0
				for qx := 0; qx < q1d; qx++ {
					bx := Bt.At(dx, qx)
					gx := Gt.At(dx, qx)
					res += gx*GDBu[dy][qx][0] + bx*GDBu[dy][qx][1]
				}
				Y.Add(dx, dy, e, res)
			}
		}
	})
}

// Transpose 2D apply, tiled path with nbz elements batched per task.
func smemConvectionApplyT2D(ne, d1d, q1d, nbz int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
		Gt = tensor.Reshape2(maps.Gt, d1d, q1d)
		O  = tensor.Reshape4(op, q1d, q1d, 2, ne)
		X  = tensor.Reshape3(x, d1d, d1d, ne)
		Y  = tensor.Reshape3(y, d1d, d1d, ne)
	)
	device.ForallBatch(ne, nbz, func(e int) {
		var u [MaxD1D][MaxD1D]float64
		for dy := 0; dy < d1d; dy++ {
			for dx := 0; dx < d1d; dx++ {
				u[dy][dx] = X.At(dx, dy, e)
			}
		}
		var Bu [MaxD1D][MaxQ1D]float64
		for dy := 0; dy < d1d; dy++ {
			for qx := 0; qx < q1d; qx++ {
				var Bu_ float64
				for dx := 0; dx < d1d; dx++ {
					Bu_ += B.At(qx, dx) * u[dy][dx]
				}
				Bu[dy][qx] = Bu_
			}
		}
		var BBu [MaxQ1D][MaxQ1D]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				var BBu_ float64
				for dy := 0; dy < d1d; dy++ {
					BBu_ += B.At(qy, dy) * Bu[dy][qx]
				}
				BBu[qy][qx] = BBu_
			}
		}
		var DBu [MaxQ1D][MaxQ1D][2]float64
		for qy := 0; qy < q1d; qy++ {
			for qx := 0; qx < q1d; qx++ {
				O1 := O.At(qx, qy, 0, e)
				O2 := O.At(qx, qy, 1, e)

				val := BBu[qy][qx]

				DBu[qy][qx][0] = O1 * val
				DBu[qy][qx][1] = O2 * val
			}
		}
		var GDBu [MaxD1D][MaxQ1D][2]float64
		for qx := 0; qx < q1d; qx++ {
			for dy := 0; dy < d1d; dy++ {
				var g0, g1 float64
				for qy := 0; qy < q1d; qy++ {
					by := Bt.At(dy, qy)
					gy := Gt.At(dy, qy)
					g0 += by * DBu[qy][qx][0]
					g1 += gy * DBu[qy][qx][1]
				}
				GDBu[dy][qx][0] = g0
				GDBu[dy][qx][1] = g1
			}
		}
		for dx := 0; dx < d1d; dx++ {
			for dy := 0; dy < d1d; dy++ {
				res := 0.0
				for qx := 0; qx < q1d; qx++ {
					bx := Bt.At(dx, qx)
					gx := Gt.At(dx, qx)
					res += gx*GDBu[dy][qx][0] + bx*GDBu[dy][qx][1]
				}
				Y.Add(dx, dy, e, res)
			}
		}
	})
}
