package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForall(t *testing.T) {
	for _, mode := range []Mode{Serial, Parallel} {
		var (
			dev = NewDevice(mode)
			n   = 1000
			hit = make([]int, n)
		)
		dev.Forall(n, func(i int) {
			hit[i]++
		})
		for i := 0; i < n; i++ {
			assert.Equal(t, hit[i], 1)
		}
	}
	// Degenerate sizes
	NewDevice(Parallel).Forall(0, func(i int) { t.Fail() })
	NewDevice(Parallel).Forall(-3, func(i int) { t.Fail() })
	NewDevice(Parallel).Forall(1, func(i int) {
		assert.Equal(t, i, 0)
	})
}

func TestForallBatch(t *testing.T) {
	for _, batch := range []int{1, 2, 4, 7} {
		var (
			dev = NewDevice(Parallel)
			n   = 37 // not a multiple of any batch factor above
			hit = make([]int, n)
		)
		dev.ForallBatch(n, batch, func(i int) {
			hit[i]++
		})
		for i := 0; i < n; i++ {
			assert.Equal(t, hit[i], 1)
		}
	}
	assert.Panics(t, func() { NewDevice(Serial).ForallBatch(4, 0, func(i int) {}) })
}

func TestDefaultDevice(t *testing.T) {
	saved := Get().Mode
	defer SetMode(saved)

	SetMode(Serial)
	assert.Equal(t, Get().Mode, Serial)
	sum := 0
	Forall(10, func(i int) {
		sum += i // safe, serial mode
	})
	assert.Equal(t, sum, 45)

	SetMode(Parallel)
	assert.Equal(t, Get().Mode.String(), "Parallel")
}
