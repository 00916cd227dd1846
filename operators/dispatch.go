package operators

import "fmt"

// Kernel dispatch. Each (D1D, Q1D) pair carried in the tables below is
// served by the tiled kernel bound to those sizes; the 2D entries also
// carry the batch factor NBZ, chosen to trade scratch footprint against
// occupancy for small orders. Any pair absent from a table falls back
// to the generic runtime-sized kernel. The tables are fixed at init and
// never mutated afterward.

type applyKernel func(ne int, maps *DofToQuad, op, x, y []float64)

func dispatchKey(d1d, q1d int) int { return d1d<<4 | q1d }

// Supported specialized sizes. NBZ applies to the 2D kernels only.
var tiledSizes2D = []struct{ d1d, q1d, nbz int }{
	{2, 2, 8},
	{3, 3, 4},
	{3, 4, 4},
	{4, 4, 4},
	{4, 6, 4},
	{5, 5, 2},
	{5, 8, 2},
	{6, 6, 1},
	{7, 7, 1},
	{8, 8, 1},
	{9, 9, 1},
}

var tiledSizes3D = []struct{ d1d, q1d int }{
	{2, 2},
	{2, 3},
	{2, 4},
	{2, 6},
	{3, 4},
	{3, 5},
	{4, 5},
	{4, 8},
	{5, 6},
	{6, 7},
	{7, 8},
	{8, 9},
}

var (
	apply2D  = map[int]applyKernel{}
	apply3D  = map[int]applyKernel{}
	applyT2D = map[int]applyKernel{}
	applyT3D = map[int]applyKernel{}
)

func init() {
	for _, s := range tiledSizes2D {
		d1d, q1d, nbz := s.d1d, s.q1d, s.nbz
		apply2D[dispatchKey(d1d, q1d)] = func(ne int, maps *DofToQuad, op, x, y []float64) {
			smemConvectionApply2D(ne, d1d, q1d, nbz, maps, op, x, y)
		}
		applyT2D[dispatchKey(d1d, q1d)] = func(ne int, maps *DofToQuad, op, x, y []float64) {
			smemConvectionApplyT2D(ne, d1d, q1d, nbz, maps, op, x, y)
		}
	}
	for _, s := range tiledSizes3D {
		d1d, q1d := s.d1d, s.q1d
		apply3D[dispatchKey(d1d, q1d)] = func(ne int, maps *DofToQuad, op, x, y []float64) {
			smemConvectionApply3D(ne, d1d, q1d, maps, op, x, y)
		}
		applyT3D[dispatchKey(d1d, q1d)] = func(ne int, maps *DofToQuad, op, x, y []float64) {
			smemConvectionApplyT3D(ne, d1d, q1d, maps, op, x, y)
		}
	}
}

// ConvectionApply computes y += A(x) over ne elements, selecting the
// tiled kernel registered for (d1d, q1d) or the generic fallback.
func ConvectionApply(dim, d1d, q1d, ne int, maps *DofToQuad, op, x, y []float64) {
	switch dim {
	case 2:
		if k, exists := apply2D[dispatchKey(d1d, q1d)]; exists {
			k(ne, maps, op, x, y)
			return
		}
		convectionApply2D(ne, d1d, q1d, maps, op, x, y)
	case 3:
		if k, exists := apply3D[dispatchKey(d1d, q1d)]; exists {
			k(ne, maps, op, x, y)
			return
		}
		convectionApply3D(ne, d1d, q1d, maps, op, x, y)
	default:
		panic(fmt.Sprintf("ConvectionApply: unknown kernel for dimension %d", dim))
	}
}

// ConvectionApplyGeneric always runs the runtime-sized kernel,
// bypassing the tiled table. Used to cross check the specializations.
func ConvectionApplyGeneric(dim, d1d, q1d, ne int, maps *DofToQuad, op, x, y []float64) {
	switch dim {
	case 2:
		convectionApply2D(ne, d1d, q1d, maps, op, x, y)
	case 3:
		convectionApply3D(ne, d1d, q1d, maps, op, x, y)
	default:
		panic(fmt.Sprintf("ConvectionApplyGeneric: unknown kernel for dimension %d", dim))
	}
}

// ConvectionApplyTransposeGeneric is the transpose counterpart of
// ConvectionApplyGeneric.
func ConvectionApplyTransposeGeneric(dim, d1d, q1d, ne int, maps *DofToQuad, op, x, y []float64) {
	switch dim {
	case 2:
		convectionApplyT2D(ne, d1d, q1d, maps, op, x, y)
	case 3:
		convectionApplyT3D(ne, d1d, q1d, maps, op, x, y)
	default:
		panic(fmt.Sprintf("ConvectionApplyTransposeGeneric: unknown kernel for dimension %d", dim))
	}
}

// ConvectionApplyTranspose computes y += A^T(x) over ne elements.
func ConvectionApplyTranspose(dim, d1d, q1d, ne int, maps *DofToQuad, op, x, y []float64) {
	switch dim {
	case 2:
		if k, exists := applyT2D[dispatchKey(d1d, q1d)]; exists {
			k(ne, maps, op, x, y)
			return
		}
		convectionApplyT2D(ne, d1d, q1d, maps, op, x, y)
	case 3:
		if k, exists := applyT3D[dispatchKey(d1d, q1d)]; exists {
			k(ne, maps, op, x, y)
			return
		}
		convectionApplyT3D(ne, d1d, q1d, maps, op, x, y)
	default:
		panic(fmt.Sprintf("ConvectionApplyTranspose: unknown kernel for dimension %d", dim))
	}
}
