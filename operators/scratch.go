package operators

import "sync"

// The 3D tiled kernels stage their intermediates through six scratch
// slots, reusing slots across stages exactly as the shared-memory
// layout does on an accelerator. A slot written in one stage is only
// read after that stage completes, so the aliasing is safe: here each
// block runs on one goroutine and stages execute in order; on a device
// the inter-stage barrier provides the same guarantee.
//
// Slots are sized for the transpose chain's dim-vector stages, the
// largest user.
const scratchSlotSize = 3 * MaxDQ * MaxDQ * MaxDQ

type smemArena struct {
	slots [6][]float64
}

var smemPool = sync.Pool{
	New: func() interface{} {
		a := &smemArena{}
		for i := range a.slots {
			a.slots[i] = make([]float64, scratchSlotSize)
		}
		return a
	},
}

func (a *smemArena) slot(i int) []float64 { return a.slots[i] }
