package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ForwardAxis is the body axis a missile mesh faces (+Z)
var ForwardAxis = mgl64.Vec3{0, 0, 1}

// QuatForward returns the world-space forward direction of an orientation
func QuatForward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(ForwardAxis)
}

// QuatFacing returns the orientation that turns ForwardAxis onto dir
// Zero dir yields identity
func QuatFacing(dir mgl64.Vec3) mgl64.Quat {
	d, ok := V3SafeNormalize(dir)
	if !ok {
		return mgl64.QuatIdent()
	}
	cos := mgl64.Clamp(ForwardAxis.Dot(d), -1, 1)
	if cos > 1-Epsilon {
		return mgl64.QuatIdent()
	}
	if cos < -1+Epsilon {
		return mgl64.QuatRotate(math.Pi, V3AnyPerpendicular(ForwardAxis))
	}
	axis, _ := V3SafeNormalize(ForwardAxis.Cross(d))
	return mgl64.QuatRotate(math.Acos(cos), axis).Normalize()
}

// RotateToward turns q so its forward axis moves toward dir by at most maxAngle radians
// Returns the new orientation and the angle actually applied
// maxAngle <= 0 or a degenerate dir leaves q untouched
func RotateToward(q mgl64.Quat, dir mgl64.Vec3, maxAngle float64) (mgl64.Quat, float64) {
	if maxAngle <= 0 {
		return q, 0
	}
	d, ok := V3SafeNormalize(dir)
	if !ok {
		return q, 0
	}

	fwd := QuatForward(q)
	angle := math.Acos(mgl64.Clamp(fwd.Dot(d), -1, 1))
	if angle < Epsilon {
		return q, 0
	}

	axis, ok := V3SafeNormalize(fwd.Cross(d))
	if !ok {
		// Antiparallel: any perpendicular axis turns the nose around
		axis = V3AnyPerpendicular(fwd)
	}

	step := math.Min(angle, maxAngle)
	return mgl64.QuatRotate(step, axis).Mul(q).Normalize(), step
}
