package event

import (
	"sync"

	"github.com/lixenwraith/salvo/missile"
)

// Emissions are the highest-rate events (one per smoking missile per tick)
var emissionPool = sync.Pool{
	New: func() any {
		return &EmissionPayload{}
	},
}

// AcquireEmission returns a pooled payload holding e
func AcquireEmission(e missile.Emission) *EmissionPayload {
	p := emissionPool.Get().(*EmissionPayload)
	p.Emission = e
	return p
}

// ReleaseEmission returns payload to pool
// Consumer must not retain p afterward
func ReleaseEmission(p *EmissionPayload) {
	if p == nil {
		return
	}
	p.Emission = missile.Emission{}
	emissionPool.Put(p)
}
