package operators

import (
	"github.com/notargets/pafem/device"
	"github.com/notargets/pafem/tensor"
)

// Transpose 3D apply, generic path.
func convectionApplyT3D(ne, d1d, q1d int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
		Gt = tensor.Reshape2(maps.Gt, d1d, q1d)
		O  = tensor.Reshape5(op, q1d, q1d, q1d, 3, ne)
		X  = tensor.Reshape4(x, d1d, d1d, d1d, ne)
		Y  = tensor.Reshape4(y, d1d, d1d, d1d, ne)
	)
	device.Forall(ne, func(e int) {
		var u [MaxD1D][MaxD1D][MaxD1D]float64
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					u[dz][dy][dx] = X.At(dx, dy, dz, e)
				}
			}
		}
		var Bu [MaxD1D][MaxD1D][MaxQ1D]float64
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for qx := 0; qx < q1d; qx++ {
					Bu[dz][dy][qx] = 0.0
					for dx := 0; dx < d1d; dx++ {
						bx := B.At(qx, dx)
						Bu[dz][dy][qx] += bx * u[dz][dy][dx]
					}
				}
			}
		}
		var BBu [MaxD1D][MaxQ1D][MaxQ1D]float64
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for qy := 0; qy < q1d; qy++ {
					BBu[dz][qy][qx] = 0.0
					for dy := 0; dy < d1d; dy++ {
						by := B.At(qy, dy)
						BBu[dz][qy][qx] += by * Bu[dz][dy][qx]
					}
				}
			}
		}
		var BBBu [MaxQ1D][MaxQ1D][MaxQ1D]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for qz := 0; qz < q1d; qz++ {
					BBBu[qz][qy][qx] = 0.0
					for dz := 0; dz < d1d; dz++ {
						bz := B.At(qz, dz)
						BBBu[qz][qy][qx] += bz * BBu[dz][qy][qx]
					}
				}
			}
		}
		var DBu [MaxQ1D][MaxQ1D][MaxQ1D][3]float64
		for qz := 0; qz < q1d; qz++ {
			for qy := 0; qy < q1d; qy++ {
				for qx := 0; qx < q1d; qx++ {
					O1 := O.At(qx, qy, qz, 0, e)
					O2 := O.At(qx, qy, qz, 1, e)
					O3 := O.At(qx, qy, qz, 2, e)

					val := BBBu[qz][qy][qx]

					DBu[qz][qy][qx][0] = O1 * val
					DBu[qz][qy][qx][1] = O2 * val
					DBu[qz][qy][qx][2] = O3 * val
				}
			}
		}
		var GDBu [MaxD1D][MaxQ1D][MaxQ1D][3]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for dz := 0; dz < d1d; dz++ {
					GDBu[dz][qy][qx][0] = 0.0
					GDBu[dz][qy][qx][1] = 0.0
					GDBu[dz][qy][qx][2] = 0.0
					for qz := 0; qz < q1d; qz++ {
						bz := Bt.At(dz, qz)
						gz := Gt.At(dz, qz)
						GDBu[dz][qy][qx][0] += bz * DBu[qz][qy][qx][0]
						GDBu[dz][qy][qx][1] += bz * DBu[qz][qy][qx][1]
						GDBu[dz][qy][qx][2] += gz * DBu[qz][qy][qx][2]
					}
				}
			}
		}
		var GGDBu [MaxD1D][MaxD1D][MaxQ1D][3]float64
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for dy := 0; dy < d1d; dy++ {
					GGDBu[dz][dy][qx][0] = 0.0
					GGDBu[dz][dy][qx][1] = 0.0
					GGDBu[dz][dy][qx][2] = 0.0
					for qy := 0; qy < q1d; qy++ {
						by := Bt.At(dy, qy)
						gy := Gt.At(dy, qy)
						GGDBu[dz][dy][qx][0] += by * GDBu[dz][qy][qx][0]
						GGDBu[dz][dy][qx][1] += gy * GDBu[dz][qy][qx][1]
						GGDBu[dz][dy][qx][2] += by * GDBu[dz][qy][qx][2]
					}
				}
			}
		}
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					res := 0.0
					for qx := 0; qx < q1d; qx++ {
						bx := Bt.At(dx, qx)
						gx := Gt.At(dx, qx)
						res += gx * GGDBu[dz][dy][qx][0]
						res += bx * GGDBu[dz][dy][qx][1]
						res += bx * GGDBu[dz][dy][qx][2]
					}
					Y.Add(dx, dy, dz, e, res)
				}
			}
		}
	})
}

// Transpose 3D apply, tiled path. The dim-vector stages stream through
// two scratch slots of triple size, alternating slot 0 and slot 1 per
// stage as the shared-memory variant does.
func smemConvectionApplyT3D(ne, d1d, q1d int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
		Gt = tensor.Reshape2(maps.Gt, d1d, q1d)
		O  = tensor.Reshape5(op, q1d, q1d, q1d, 3, ne)
		X  = tensor.Reshape4(x, d1d, d1d, d1d, ne)
		Y  = tensor.Reshape4(y, d1d, d1d, d1d, ne)
	)
	device.Forall(ne, func(e int) {
		scr := smemPool.Get().(*smemArena)
		defer smemPool.Put(scr)

		u := tensor.Reshape3(scr.slot(0), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					u.Set(dx, dy, dz, X.At(dx, dy, dz, e))
				}
			}
		}
		Bu := tensor.Reshape3(scr.slot(1), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for qx := 0; qx < q1d; qx++ {
					var Bu_ float64
					for dx := 0; dx < d1d; dx++ {
						Bu_ += B.At(qx, dx) * u.At(dx, dy, dz)
					}
					Bu.Set(qx, dy, dz, Bu_)
				}
			}
		}
		BBu := tensor.Reshape3(scr.slot(0), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for qy := 0; qy < q1d; qy++ {
					var BBu_ float64
					for dy := 0; dy < d1d; dy++ {
						BBu_ += B.At(qy, dy) * Bu.At(qx, dy, dz)
					}
					BBu.Set(qx, qy, dz, BBu_)
				}
			}
		}
		BBBu := tensor.Reshape3(scr.slot(1), MaxDQ, MaxDQ, MaxDQ)
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for qz := 0; qz < q1d; qz++ {
					var BBBu_ float64
					for dz := 0; dz < d1d; dz++ {
						BBBu_ += B.At(qz, dz) * BBu.At(qx, qy, dz)
					}
					BBBu.Set(qx, qy, qz, BBBu_)
				}
			}
		}
		DBu := tensor.Reshape4(scr.slot(0), 3, MaxDQ, MaxDQ, MaxDQ)
		for qz := 0; qz < q1d; qz++ {
			for qy := 0; qy < q1d; qy++ {
				for qx := 0; qx < q1d; qx++ {
					O1 := O.At(qx, qy, qz, 0, e)
					O2 := O.At(qx, qy, qz, 1, e)
					O3 := O.At(qx, qy, qz, 2, e)

					val := BBBu.At(qx, qy, qz)

					DBu.Set(0, qx, qy, qz, O1*val)
					DBu.Set(1, qx, qy, qz, O2*val)
					DBu.Set(2, qx, qy, qz, O3*val)
				}
			}
		}
		GDBu := tensor.Reshape4(scr.slot(1), 3, MaxDQ, MaxDQ, MaxDQ)
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for dz := 0; dz < d1d; dz++ {
					var g0, g1, g2 float64
					for qz := 0; qz < q1d; qz++ {
						bz := Bt.At(dz, qz)
						gz := Gt.At(dz, qz)
						g0 += bz * DBu.At(0, qx, qy, qz)
						g1 += bz * DBu.At(1, qx, qy, qz)
						g2 += gz * DBu.At(2, qx, qy, qz)
					}
					GDBu.Set(0, qx, qy, dz, g0)
					GDBu.Set(1, qx, qy, dz, g1)
					GDBu.Set(2, qx, qy, dz, g2)
				}
			}
		}
		GGDBu := tensor.Reshape4(scr.slot(0), 3, MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for dy := 0; dy < d1d; dy++ {
					var g0, g1, g2 float64
					for qy := 0; qy < q1d; qy++ {
						by := Bt.At(dy, qy)
						gy := Gt.At(dy, qy)
						g0 += by * GDBu.At(0, qx, qy, dz)
						g1 += gy * GDBu.At(1, qx, qy, dz)
						g2 += by * GDBu.At(2, qx, qy, dz)
					}
					GGDBu.Set(0, qx, dy, dz, g0)
					GGDBu.Set(1, qx, dy, dz, g1)
					GGDBu.Set(2, qx, dy, dz, g2)
				}
			}
		}
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					res := 0.0
					for qx := 0; qx < q1d; qx++ {
						bx := Bt.At(dx, qx)
						gx := Gt.At(dx, qx)
						res += gx * GGDBu.At(0, qx, dy, dz)
						res += bx * GGDBu.At(1, qx, dy, dz)
						res += bx * GGDBu.At(2, qx, dy, dz)
					}
					Y.Add(dx, dy, dz, e, res)
				}
			}
		}
	})
}
