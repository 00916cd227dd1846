// Package tensor imposes fixed-stride logical shapes on flat float64
// buffers. The first index varies fastest, matching the packed layouts
// used by the partial assembly kernels: a DOF vector stored as
// (D1D, D1D, NE) places dx adjacent in memory, then dy, then the
// element index.
//
// Views alias the backing slice; they never copy. Whether a view is
// read-only, write-only or read-write is part of the kernel contract
// that created it, not enforced here.
package tensor

import "fmt"

type Array2 struct {
	d0, d1 int
	v      []float64
}

type Array3 struct {
	d0, d1, d2 int
	v          []float64
}

type Array4 struct {
	d0, d1, d2, d3 int
	v              []float64
}

type Array5 struct {
	d0, d1, d2, d3, d4 int
	v                  []float64
}

func checkSize(n, have int) {
	if n > have {
		panic(fmt.Sprintf("reshape: logical size %d exceeds backing buffer length %d", n, have))
	}
}

func Reshape2(v []float64, d0, d1 int) Array2 {
	checkSize(d0*d1, len(v))
	return Array2{d0, d1, v}
}

func Reshape3(v []float64, d0, d1, d2 int) Array3 {
	checkSize(d0*d1*d2, len(v))
	return Array3{d0, d1, d2, v}
}

func Reshape4(v []float64, d0, d1, d2, d3 int) Array4 {
	checkSize(d0*d1*d2*d3, len(v))
	return Array4{d0, d1, d2, d3, v}
}

func Reshape5(v []float64, d0, d1, d2, d3, d4 int) Array5 {
	checkSize(d0*d1*d2*d3*d4, len(v))
	return Array5{d0, d1, d2, d3, d4, v}
}

func (a Array2) At(i, j int) float64       { return a.v[i+a.d0*j] }
func (a Array2) Set(i, j int, val float64) { a.v[i+a.d0*j] = val }
func (a Array2) Add(i, j int, val float64) { a.v[i+a.d0*j] += val }

func (a Array3) At(i, j, k int) float64       { return a.v[i+a.d0*(j+a.d1*k)] }
func (a Array3) Set(i, j, k int, val float64) { a.v[i+a.d0*(j+a.d1*k)] = val }
func (a Array3) Add(i, j, k int, val float64) { a.v[i+a.d0*(j+a.d1*k)] += val }

func (a Array4) At(i, j, k, l int) float64 {
	return a.v[i+a.d0*(j+a.d1*(k+a.d2*l))]
}
func (a Array4) Set(i, j, k, l int, val float64) {
	a.v[i+a.d0*(j+a.d1*(k+a.d2*l))] = val
}
func (a Array4) Add(i, j, k, l int, val float64) {
	a.v[i+a.d0*(j+a.d1*(k+a.d2*l))] += val
}

func (a Array5) At(i, j, k, l, m int) float64 {
	return a.v[i+a.d0*(j+a.d1*(k+a.d2*(l+a.d3*m)))]
}
func (a Array5) Set(i, j, k, l, m int, val float64) {
	a.v[i+a.d0*(j+a.d1*(k+a.d2*(l+a.d3*m)))] = val
}
func (a Array5) Add(i, j, k, l, m int, val float64) {
	a.v[i+a.d0*(j+a.d1*(k+a.d2*(l+a.d3*m)))] += val
}
