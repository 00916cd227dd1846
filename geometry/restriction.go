package geometry

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// ElementRestriction maps between the global continuous DOF vector and
// the elementwise (L-vector) layout the kernels consume. The map is a
// boolean sparse matrix R with one entry per element slot: gather is
// xE = R xG, scatter is yG += R^T yE, so shared nodes sum their
// element contributions.
type ElementRestriction struct {
	NGlobal, NElem int
	R              *sparse.CSR
}

// NewElementRestriction builds the restriction for a CartesianMesh and
// degree order elements with a lexicographic global node numbering,
// node index x fastest.
func NewElementRestriction(m *CartesianMesh, order int) (er *ElementRestriction) {
	var (
		d1d = order + 1
		npx = m.NX*order + 1
		npy = m.NY*order + 1
		npz = 1
	)
	if m.Dim == 3 {
		npz = m.NZ*order + 1
	}
	var (
		nd = d1d * d1d
		ng = npx * npy * npz
	)
	if m.Dim == 3 {
		nd *= d1d
	}
	var (
		ne  = m.NE()
		dok = sparse.NewDOK(nd*ne, ng)
	)
	if m.Dim == 2 {
		for ey := 0; ey < m.NY; ey++ {
			for ex := 0; ex < m.NX; ex++ {
				e := ex + m.NX*ey
				for dy := 0; dy < d1d; dy++ {
					for dx := 0; dx < d1d; dx++ {
						var (
							row = dx + d1d*dy + nd*e
							col = (ex*order + dx) + npx*(ey*order+dy)
						)
						dok.Set(row, col, 1)
					}
				}
			}
		}
	} else {
		for ez := 0; ez < m.NZ; ez++ {
			for ey := 0; ey < m.NY; ey++ {
				for ex := 0; ex < m.NX; ex++ {
					e := ex + m.NX*(ey+m.NY*ez)
					for dz := 0; dz < d1d; dz++ {
						for dy := 0; dy < d1d; dy++ {
							for dx := 0; dx < d1d; dx++ {
								var (
									row = dx + d1d*(dy+d1d*dz) + nd*e
									col = (ex*order + dx) +
										npx*((ey*order+dy)+npy*(ez*order+dz))
								)
								dok.Set(row, col, 1)
							}
						}
					}
				}
			}
		}
	}
	er = &ElementRestriction{
		NGlobal: ng,
		NElem:   nd * ne,
		R:       dok.ToCSR(),
	}
	return
}

// Gather copies global DOF values into the elementwise layout.
func (er *ElementRestriction) Gather(xG, xE []float64) {
	if len(xG) != er.NGlobal || len(xE) != er.NElem {
		panic(fmt.Sprintf("Gather: len(xG) = %d, len(xE) = %d, want %d and %d",
			len(xG), len(xE), er.NGlobal, er.NElem))
	}
	for i := range xE {
		xE[i] = 0
	}
	er.R.DoNonZero(func(i, j int, v float64) {
		xE[i] += v * xG[j]
	})
}

// ScatterAdd accumulates elementwise values back onto the global
// vector, summing at shared nodes.
func (er *ElementRestriction) ScatterAdd(yE, yG []float64) {
	if len(yG) != er.NGlobal || len(yE) != er.NElem {
		panic(fmt.Sprintf("ScatterAdd: len(yE) = %d, len(yG) = %d, want %d and %d",
			len(yE), len(yG), er.NElem, er.NGlobal))
	}
	er.R.DoNonZero(func(i, j int, v float64) {
		yG[j] += v * yE[i]
	})
}
