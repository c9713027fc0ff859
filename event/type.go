package event

// EventType represents the type of simulation event
type EventType int

const (
	// EventTick is reserved; never pushed
	EventTick EventType = iota

	// === Launch Site ===

	// EventClusterLaunchRequest launches one cluster at a target
	// Trigger: ScenarioSystem, sandbox input, external caller
	// Consumer: MissileSystem | Payload: *LaunchRequestPayload
	EventClusterLaunchRequest

	// EventClusterLaunched reports a successful cluster spawn
	// Trigger: MissileSystem after SpawnCluster
	// Consumer: AudioSystem, telemetry | Payload: *ClusterLaunchedPayload
	EventClusterLaunched

	// EventMissileCancelRequest removes one missile
	// Trigger: external caller
	// Consumer: MissileSystem | Payload: *MissileCancelPayload
	EventMissileCancelRequest

	// EventSiteClear cancels every active missile
	// Trigger: reset, sandbox input
	// Consumer: MissileSystem | Payload: nil
	EventSiteClear

	// === Missile Notifications ===

	// EventMissileEmission carries smoke, flame and explosion particle requests
	// Trigger: MissileSystem observer, once per emission
	// Consumer: EffectsSystem | Payload: *EmissionPayload (pooled, released by consumer)
	EventMissileEmission

	// EventMissileIgnition signals the ejection to pursuit handoff
	// Trigger: MissileSystem when a controller enters pursuit
	// Consumer: AudioSystem | Payload: *MissileIgnitionPayload
	EventMissileIgnition

	// EventMissileHit signals a missile reached its target
	// Trigger: MissileSystem observer on explosion
	// Consumer: TargetSystem, AudioSystem | Payload: *MissileHitPayload
	EventMissileHit

	// EventMissileRetired signals a missile left the simulation
	// Trigger: MissileSystem observer, exactly once per missile
	// Consumer: AudioSystem, telemetry | Payload: *MissileRetiredPayload
	EventMissileRetired

	// === Targets ===

	// EventTargetSpawnRequest creates a target body
	// Trigger: ScenarioSystem, sandbox input
	// Consumer: TargetSystem | Payload: *TargetSpawnPayload
	EventTargetSpawnRequest

	// EventTargetDestroyRequest kills a target by ID or name
	// Trigger: TargetSystem on lethal hit, scripted events
	// Consumer: TargetSystem | Payload: *TargetDestroyPayload
	EventTargetDestroyRequest

	// EventTargetDestroyed reports a target death
	// Trigger: TargetSystem
	// Consumer: EffectsSystem | Payload: *TargetDestroyedPayload
	EventTargetDestroyed

	// === Audio ===

	// EventSoundRequest requests cue playback
	// Trigger: systems needing audio feedback
	// Consumer: AudioSystem | Payload: *SoundRequestPayload
	EventSoundRequest
)

// Event is a single queued occurrence
// Tick is the engine tick that produced it
type Event struct {
	Type    EventType
	Payload any
	Tick    uint64
}
