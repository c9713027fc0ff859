package parameter

import "time"

// Engine Timing
const (
	// FrameUpdateInterval is the viewer refresh interval (~30 FPS)
	FrameUpdateInterval = 33 * time.Millisecond

	// GameUpdateInterval is the wall-clock interval between simulation ticks
	// Matches MissileSimulationStep so real time and simulated time advance together
	GameUpdateInterval = 50 * time.Millisecond

	// TelemetryInterval is the minimum interval between telemetry frames
	TelemetryInterval = 100 * time.Millisecond

	// SchedulerMaxBehindTicks is how many ticks the scheduler may lag before resyncing its deadline
	SchedulerMaxBehindTicks = 2
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 4096

	// EventBufferMask is the bitmask for fast modulo operations (4096 - 1)
	EventBufferMask = 4095
)

// Effects
const (
	// EffectsMaxParticles caps live particles held by the effects system
	EffectsMaxParticles = 8192
)

// System priorities, lower runs first
const (
	PriorityScenario  = 50
	PriorityTarget    = 100
	PriorityMissile   = 200
	PriorityEffects   = 300
	PriorityAudio     = 400
	PriorityTelemetry = 500
)
