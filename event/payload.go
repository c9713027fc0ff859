package event

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/missile"
)

// LaunchRequestPayload aims a cluster at a target by ID, or by name when ID is zero
type LaunchRequestPayload struct {
	TargetID   uint64     `toml:"target_id"`
	TargetName string     `toml:"target"`
	Position   mgl64.Vec3 `toml:"position"`
	Velocity   mgl64.Vec3 `toml:"velocity"`
}

// ClusterLaunchedPayload describes a spawned cluster
type ClusterLaunchedPayload struct {
	TargetID uint64
	Count    int
	Position mgl64.Vec3
	IDs      []uuid.UUID
}

// MissileCancelPayload names one missile
type MissileCancelPayload struct {
	ID uuid.UUID `toml:"id"`
}

// EmissionPayload wraps a missile emission for the effects consumer
type EmissionPayload struct {
	missile.Emission
}

// MissileIgnitionPayload marks the start of pursuit
type MissileIgnitionPayload struct {
	ID       uuid.UUID
	Position mgl64.Vec3
}

// MissileHitPayload describes an impact
type MissileHitPayload struct {
	ID       uuid.UUID
	TargetID uint64
	Position mgl64.Vec3
	Time     float64 // simulation seconds since engine start
}

// MissileRetiredPayload carries the final record of a missile
type MissileRetiredPayload struct {
	missile.Retirement
	TargetID uint64
}

// TargetSpawnPayload creates a target body
type TargetSpawnPayload struct {
	Name      string     `toml:"name"`
	Position  mgl64.Vec3 `toml:"position"`
	Velocity  mgl64.Vec3 `toml:"velocity"`
	Motion    string     `toml:"motion"`
	Amplitude float64    `toml:"amplitude"`
	Period    float64    `toml:"period"`
	// Axis is the weave direction; zero picks a horizontal perpendicular of Velocity
	Axis mgl64.Vec3 `toml:"axis"`
}

// TargetDestroyPayload selects a target by ID, or by name when ID is zero
type TargetDestroyPayload struct {
	ID   uint64 `toml:"id"`
	Name string `toml:"name"`
}

// TargetDestroyedPayload reports a target death
type TargetDestroyedPayload struct {
	ID       uint64
	Name     string
	Position mgl64.Vec3
}

// SoundRequestPayload contains the cue to play
type SoundRequestPayload struct {
	SoundType core.SoundType `toml:"sound_type"`
}
