package operators

import "fmt"

// Capacity limits for the specialized kernel paths. The apply kernels
// hold their intermediate stages in fixed-size arrays of these
// dimensions, so exceeding them is a configuration error, not a
// recoverable condition.
const (
	MaxD1D = 14
	MaxQ1D = 14
	MaxDQ  = MaxQ1D // MaxQ1D >= MaxD1D
)

func checkLimits(d1d, q1d int) {
	if d1d < 2 || d1d > MaxD1D {
		panic(fmt.Sprintf("convection kernels require 2 <= D1D <= %d, got D1D=%d", MaxD1D, d1d))
	}
	if q1d < 1 || q1d > MaxQ1D {
		panic(fmt.Sprintf("convection kernels require 1 <= Q1D <= %d, got Q1D=%d", MaxQ1D, q1d))
	}
}
