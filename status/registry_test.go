package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_CachedPointers(t *testing.T) {
	r := NewRegistry()
	hits := r.Ints.Get(KeyMissileHits)
	assert.Same(t, hits, r.Ints.Get(KeyMissileHits))
	assert.True(t, r.Ints.Has(KeyMissileHits))
	assert.False(t, r.Ints.Has(KeyMissileLost))

	hits.Add(3)
	r.Floats.Get(KeyMissileLastHit).Set(2.5)

	snap := r.Snapshot()
	assert.Equal(t, 3.0, snap[KeyMissileHits])
	assert.Equal(t, 2.5, snap[KeyMissileLastHit])
	assert.Equal(t, 2, r.TotalCount())
	assert.Equal(t, []string{KeyMissileHits}, r.Ints.Keys())
}

func TestAtomicFloat_ConcurrentAddAndMax(t *testing.T) {
	var f, peak AtomicFloat
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			f.Add(0.5)
			peak.Max(v)
		}(float64(i))
	}
	wg.Wait()

	assert.Equal(t, 25.0, f.Get())
	assert.Equal(t, 50.0, peak.Get())
	assert.Equal(t, 50.0, peak.Max(10))
}
