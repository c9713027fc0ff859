package status

import "sync/atomic"

// Metric keys shared by systems, the telemetry feed and the sandbox HUD
const (
	KeyEngineTicks      = "engine.ticks"
	KeyEngineEvents     = "engine.events"
	KeyEventsDropped    = "engine.events_dropped"
	KeyMissileSpawned   = "missile.spawned"
	KeyMissileActive    = "missile.active"
	KeyMissileHits      = "missile.hits"
	KeyMissileLost      = "missile.lost"
	KeyMissileCancelled = "missile.cancelled"
	KeyMissileNumeric   = "missile.numeric"
	KeyMissileLastHit   = "missile.last_hit_time"
	KeyMissilePeakSpeed = "missile.peak_speed"
	KeyTargetsAlive     = "target.alive"
	KeyParticles        = "effects.particles"
	KeyTelemetryClients = "telemetry.clients"
)

// Registry is the central metrics facade
// Systems cache pointers during init; Update loops write directly to atomics
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count()
}

// Snapshot flattens every metric into one map, ints widened to float64
func (r *Registry) Snapshot() map[string]float64 {
	out := make(map[string]float64, r.TotalCount())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out[key] = float64(ptr.Load())
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out[key] = ptr.Get()
	})
	return out
}
