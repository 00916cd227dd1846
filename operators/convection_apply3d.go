package operators

import (
	"github.com/notargets/pafem/device"
	"github.com/notargets/pafem/tensor"
)

// Forward 3D apply, generic runtime-sized path.
func convectionApply3D(ne, d1d, q1d int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		G  = tensor.Reshape2(maps.G, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
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
		var Bu, Gu [MaxD1D][MaxD1D][MaxQ1D]float64
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for qx := 0; qx < q1d; qx++ {
					Bu[dz][dy][qx] = 0.0
					Gu[dz][dy][qx] = 0.0
					for dx := 0; dx < d1d; dx++ {
						bx := B.At(qx, dx)
						gx := G.At(qx, dx)
						val := u[dz][dy][dx]
						Bu[dz][dy][qx] += bx * val
						Gu[dz][dy][qx] += gx * val
					}
				}
			}
		}
		var BBu, GBu, BGu [MaxD1D][MaxQ1D][MaxQ1D]float64
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for qy := 0; qy < q1d; qy++ {
					BBu[dz][qy][qx] = 0.0
					GBu[dz][qy][qx] = 0.0
					BGu[dz][qy][qx] = 0.0
					for dy := 0; dy < d1d; dy++ {
						by := B.At(qy, dy)
						gy := G.At(qy, dy)
						BBu[dz][qy][qx] += by * Bu[dz][dy][qx]
						GBu[dz][qy][qx] += gy * Bu[dz][dy][qx]
						BGu[dz][qy][qx] += by * Gu[dz][dy][qx]
					}
				}
			}
		}
		var GBBu, BGBu, BBGu [MaxQ1D][MaxQ1D][MaxQ1D]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for qz := 0; qz < q1d; qz++ {
					GBBu[qz][qy][qx] = 0.0
					BGBu[qz][qy][qx] = 0.0
					BBGu[qz][qy][qx] = 0.0
					for dz := 0; dz < d1d; dz++ {
						bz := B.At(qz, dz)
						gz := G.At(qz, dz)
						GBBu[qz][qy][qx] += gz * BBu[dz][qy][qx]
						BGBu[qz][qy][qx] += bz * GBu[dz][qy][qx]
						BBGu[qz][qy][qx] += bz * BGu[dz][qy][qx]
					}
				}
			}
		}
		// v . grad(u) at each point
		var DGu [MaxQ1D][MaxQ1D][MaxQ1D]float64
		for qz := 0; qz < q1d; qz++ {
			for qy := 0; qy < q1d; qy++ {
				for qx := 0; qx < q1d; qx++ {
					O1 := O.At(qx, qy, qz, 0, e)
					O2 := O.At(qx, qy, qz, 1, e)
					O3 := O.At(qx, qy, qz, 2, e)

					gradX := BBGu[qz][qy][qx]
					gradY := BGBu[qz][qy][qx]
					gradZ := GBBu[qz][qy][qx]

					DGu[qz][qy][qx] = (O1 * gradX) + (O2 * gradY) + (O3 * gradZ)
				}
			}
		}
		var BDGu [MaxD1D][MaxQ1D][MaxQ1D]float64
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for dz := 0; dz < d1d; dz++ {
					BDGu[dz][qy][qx] = 0.0
					for qz := 0; qz < q1d; qz++ {
						w := Bt.At(dz, qz)
						BDGu[dz][qy][qx] += w * DGu[qz][qy][qx]
					}
				}
			}
		}
		var BBDGu [MaxD1D][MaxD1D][MaxQ1D]float64
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for dy := 0; dy < d1d; dy++ {
					BBDGu[dz][dy][qx] = 0.0
					for qy := 0; qy < q1d; qy++ {
						w := Bt.At(dy, qy)
						BBDGu[dz][dy][qx] += w * BDGu[dz][qy][qx]
					}
				}
			}
		}
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					BBBDGu := 0.0
					for qx := 0; qx < q1d; qx++ {
						w := Bt.At(dx, qx)
						BBBDGu += w * BBDGu[dz][dy][qx]
					}
					Y.Add(dx, dy, dz, e, BBBDGu)
				}
			}
		}
	})
}

// Forward 3D apply, tiled path. The intermediate stages live in the six
// scratch slots of a pooled arena rather than on the stack, aliased
// across stages the way the shared-memory variant aliases its sm0..sm5
// buffers: u reuses slot 0, BBu/GBu/BGu use slots 3-5 while Bu/Gu (1,2)
// are still live, then the quadrature-grid stages rotate back onto
// slots 0-2.
func smemConvectionApply3D(ne, d1d, q1d int, maps *DofToQuad, op, x, y []float64) {
	checkLimits(d1d, q1d)
	var (
		B  = tensor.Reshape2(maps.B, q1d, d1d)
		G  = tensor.Reshape2(maps.G, q1d, d1d)
		Bt = tensor.Reshape2(maps.Bt, d1d, q1d)
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
		Gu := tensor.Reshape3(scr.slot(2), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for qx := 0; qx < q1d; qx++ {
					var Bu_, Gu_ float64
					for dx := 0; dx < d1d; dx++ {
						bx := B.At(qx, dx)
						gx := G.At(qx, dx)
						val := u.At(dx, dy, dz)
						Bu_ += bx * val
						Gu_ += gx * val
					}
					Bu.Set(qx, dy, dz, Bu_)
					Gu.Set(qx, dy, dz, Gu_)
				}
			}
		}
		BBu := tensor.Reshape3(scr.slot(3), MaxDQ, MaxDQ, MaxDQ)
		GBu := tensor.Reshape3(scr.slot(4), MaxDQ, MaxDQ, MaxDQ)
		BGu := tensor.Reshape3(scr.slot(5), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for qy := 0; qy < q1d; qy++ {
					var BBu_, GBu_, BGu_ float64
					for dy := 0; dy < d1d; dy++ {
						by := B.At(qy, dy)
						gy := G.At(qy, dy)
						BBu_ += by * Bu.At(qx, dy, dz)
						GBu_ += gy * Bu.At(qx, dy, dz)
						BGu_ += by * Gu.At(qx, dy, dz)
					}
					BBu.Set(qx, qy, dz, BBu_)
					GBu.Set(qx, qy, dz, GBu_)
					BGu.Set(qx, qy, dz, BGu_)
				}
			}
		}
		GBBu := tensor.Reshape3(scr.slot(0), MaxDQ, MaxDQ, MaxDQ)
		BGBu := tensor.Reshape3(scr.slot(1), MaxDQ, MaxDQ, MaxDQ)
		BBGu := tensor.Reshape3(scr.slot(2), MaxDQ, MaxDQ, MaxDQ)
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for qz := 0; qz < q1d; qz++ {
					var GBBu_, BGBu_, BBGu_ float64
					for dz := 0; dz < d1d; dz++ {
						bz := B.At(qz, dz)
						gz := G.At(qz, dz)
						GBBu_ += gz * BBu.At(qx, qy, dz)
						BGBu_ += bz * GBu.At(qx, qy, dz)
						BBGu_ += bz * BGu.At(qx, qy, dz)
					}
					GBBu.Set(qx, qy, qz, GBBu_)
					BGBu.Set(qx, qy, qz, BGBu_)
					BBGu.Set(qx, qy, qz, BBGu_)
				}
			}
		}
		DGu := tensor.Reshape3(scr.slot(3), MaxDQ, MaxDQ, MaxDQ)
		for qz := 0; qz < q1d; qz++ {
			for qy := 0; qy < q1d; qy++ {
				for qx := 0; qx < q1d; qx++ {
					O1 := O.At(qx, qy, qz, 0, e)
					O2 := O.At(qx, qy, qz, 1, e)
					O3 := O.At(qx, qy, qz, 2, e)

					gradX := BBGu.At(qx, qy, qz)
					gradY := BGBu.At(qx, qy, qz)
					gradZ := GBBu.At(qx, qy, qz)

					DGu.Set(qx, qy, qz, (O1*gradX)+(O2*gradY)+(O3*gradZ))
				}
			}
		}
		BDGu := tensor.Reshape3(scr.slot(4), MaxDQ, MaxDQ, MaxDQ)
		for qx := 0; qx < q1d; qx++ {
			for qy := 0; qy < q1d; qy++ {
				for dz := 0; dz < d1d; dz++ {
					var BDGu_ float64
					for qz := 0; qz < q1d; qz++ {
						w := Bt.At(dz, qz)
						BDGu_ += w * DGu.At(qx, qy, qz)
					}
					BDGu.Set(qx, qy, dz, BDGu_)
				}
			}
		}
		BBDGu := tensor.Reshape3(scr.slot(5), MaxDQ, MaxDQ, MaxDQ)
		for dz := 0; dz < d1d; dz++ {
			for qx := 0; qx < q1d; qx++ {
				for dy := 0; dy < d1d; dy++ {
					var BBDGu_ float64
					for qy := 0; qy < q1d; qy++ {
						w := Bt.At(dy, qy)
						BBDGu_ += w * BDGu.At(qx, qy, dz)
					}
					BBDGu.Set(qx, dy, dz, BBDGu_)
				}
			}
		}
		for dz := 0; dz < d1d; dz++ {
			for dy := 0; dy < d1d; dy++ {
				for dx := 0; dx < d1d; dx++ {
					BBBDGu := 0.0
					for qx := 0; qx < q1d; qx++ {
						w := Bt.At(dx, qx)
						BBBDGu += w * BBDGu.At(qx, dy, dz)
					}
					Y.Add(dx, dy, dz, e, BBBDGu)
				}
			}
		}
	})
}
