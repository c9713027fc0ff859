package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/vmath"
)

// Integrate performs semi-implicit Euler integration: v = v + a*dt; p = p + v*dt
func Integrate(k *core.Kinetic, acc mgl64.Vec3, dt float64) {
	k.Velocity = k.Velocity.Add(acc.Mul(dt))
	k.Position = k.Position.Add(k.Velocity.Mul(dt))
}

// Drift advances position with constant velocity
func Drift(k *core.Kinetic, dt float64) {
	k.Position = k.Position.Add(k.Velocity.Mul(dt))
}

// CapSpeed limits velocity magnitude, maxSpeed may be +Inf
func CapSpeed(k *core.Kinetic, maxSpeed float64) {
	k.Velocity = vmath.V3ClampMagnitude(k.Velocity, maxSpeed)
}

// ApplyImpulse adds velocity delta
func ApplyImpulse(k *core.Kinetic, dv mgl64.Vec3) {
	k.Velocity = k.Velocity.Add(dv)
}

// IsFinite reports whether position and velocity are both finite
func IsFinite(k *core.Kinetic) bool {
	return vmath.V3IsFinite(k.Position) && vmath.V3IsFinite(k.Velocity)
}
