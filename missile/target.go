package missile

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/vmath"
)

var (
	// ErrInvalidParams wraps every configuration validation failure
	ErrInvalidParams = errors.New("invalid missile params")

	// ErrNoTarget is returned when a cluster is launched without a resolvable target
	ErrNoTarget = errors.New("missile target unresolvable")
)

// Target is anything a missile can pursue
// Reads must be side-effect free; they may run concurrently from several missiles in one tick
type Target interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	// Alive reports whether the target still exists; false ends pursuit with ReasonLostTarget
	Alive() bool
}

// resolveTarget reads target kinematics, false when nil, dead or non-finite
func resolveTarget(t Target) (pos, vel mgl64.Vec3, ok bool) {
	if t == nil || !t.Alive() {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	pos, vel = t.Position(), t.Velocity()
	if !vmath.V3IsFinite(pos) || !vmath.V3IsFinite(vel) {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return pos, vel, true
}

// FixedTarget is a stationary or constant-velocity target snapshot
// Useful for tests and for aiming at a point in space
type FixedTarget struct {
	Pos  mgl64.Vec3
	Vel  mgl64.Vec3
	Dead bool
}

func (t *FixedTarget) Position() mgl64.Vec3 { return t.Pos }
func (t *FixedTarget) Velocity() mgl64.Vec3 { return t.Vel }
func (t *FixedTarget) Alive() bool          { return !t.Dead }
