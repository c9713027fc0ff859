package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/vmath"
)

// PursuitTurn returns a pure-pursuit steering acceleration of magnitude maxAcc
// Direction is the part of the line of sight perpendicular to current velocity,
// so the turn bends velocity toward the target without changing speed first order
// A stationary body accelerates straight along the line of sight
func PursuitTurn(k *core.Kinetic, targetPos mgl64.Vec3, maxAcc float64) mgl64.Vec3 {
	los, ok := vmath.V3SafeNormalize(targetPos.Sub(k.Position))
	if !ok || maxAcc <= 0 {
		return mgl64.Vec3{}
	}

	velDir, ok := vmath.V3SafeNormalize(k.Velocity)
	if !ok {
		return los.Mul(maxAcc)
	}

	steer, ok := vmath.V3SafeNormalize(vmath.V3Reject(los, velDir))
	if !ok {
		if velDir.Dot(los) > 0 {
			// Already on the line of sight
			return mgl64.Vec3{}
		}
		// Target directly behind: break the symmetry with any lateral axis
		steer = vmath.V3AnyPerpendicular(velDir)
	}
	return steer.Mul(maxAcc)
}
