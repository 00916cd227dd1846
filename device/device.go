// Package device provides the parallel-for primitives the partial
// assembly kernels run on. The element grid is embarrassingly parallel:
// every logical task owns disjoint output slots, so the only
// coordination is the final join.
package device

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/pafem/utils"
)

type Mode uint8

const (
	Serial Mode = iota
	Parallel
)

func (m Mode) String() string {
	switch m {
	case Serial:
		return "Serial"
	case Parallel:
		return "Parallel"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

type Device struct {
	Mode       Mode
	NumWorkers int
}

func NewDevice(mode Mode) (dev *Device) {
	dev = &Device{
		Mode:       mode,
		NumWorkers: runtime.NumCPU(),
	}
	return
}

// The package-level device defaults to parallel execution over all CPUs.
var std = NewDevice(Parallel)

func Get() *Device        { return std }
func Set(dev *Device)     { std = dev }
func SetMode(mode Mode)   { std.Mode = mode }
func Forall(n int, body func(i int)) {
	std.Forall(n, body)
}
func ForallBatch(n, batch int, body func(i int)) {
	std.ForallBatch(n, batch, body)
}

// Forall runs body once for each index in [0,n), partitioned over the
// worker goroutines with at most one item of imbalance. body must not
// write outside the state owned by its index.
func (dev *Device) Forall(n int, body func(i int)) {
	if n <= 0 {
		return
	}
	if dev.Mode == Serial || dev.NumWorkers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			body(i)
		}
		return
	}
	var (
		np = dev.NumWorkers
		wg sync.WaitGroup
	)
	if np > n {
		np = n
	}
	pm := utils.NewPartitionMap(np, n)
	wg.Add(np)
	for bn := 0; bn < np; bn++ {
		go func(bn int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(bn)
			for i := kMin; i < kMax; i++ {
				body(i)
			}
		}(bn)
	}
	wg.Wait()
}

// ForallBatch runs body once per index in [0,n), scheduling consecutive
// groups of batch indices as a single task. This is the host-side form
// of batching NBZ elements onto one thread block: a whole batch shares
// one worker, so per-batch scratch is reused without synchronization.
func (dev *Device) ForallBatch(n, batch int, body func(i int)) {
	if batch < 1 {
		panic(fmt.Sprintf("ForallBatch: batch factor must be >= 1, got %d", batch))
	}
	if batch == 1 {
		dev.Forall(n, body)
		return
	}
	nBlocks := (n + batch - 1) / batch
	dev.Forall(nBlocks, func(blk int) {
		iEnd := (blk + 1) * batch
		if iEnd > n {
			iEnd = n
		}
		for i := blk * batch; i < iEnd; i++ {
			body(i)
		}
	})
}
