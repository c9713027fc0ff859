package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the degeneracy threshold for lengths, rates and angles
const Epsilon = 1e-9

// V3IsFinite reports whether every component is neither NaN nor Inf
func V3IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// V3MagSq returns squared magnitude
func V3MagSq(v mgl64.Vec3) float64 {
	return v.Dot(v)
}

// V3SafeNormalize returns the unit vector and true, or zero and false when |v| < Epsilon
func V3SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	mag := v.Len()
	if mag < Epsilon || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1.0 / mag), true
}

// V3ClampMagnitude limits vector magnitude, maxMag may be +Inf
func V3ClampMagnitude(v mgl64.Vec3, maxMag float64) mgl64.Vec3 {
	if math.IsInf(maxMag, 1) {
		return v
	}
	if maxMag <= 0 {
		return mgl64.Vec3{}
	}
	magSq := v.Dot(v)
	if magSq <= maxMag*maxMag {
		return v
	}
	return v.Mul(maxMag / math.Sqrt(magSq))
}

// V3Project returns the component of v along unit axis
func V3Project(v, axis mgl64.Vec3) mgl64.Vec3 {
	return axis.Mul(v.Dot(axis))
}

// V3Reject returns the component of v perpendicular to unit axis
func V3Reject(v, axis mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(V3Project(v, axis))
}

// V3AnyPerpendicular returns a unit vector perpendicular to v
// Picks the world axis least aligned with v for stability
func V3AnyPerpendicular(v mgl64.Vec3) mgl64.Vec3 {
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	ref := mgl64.Vec3{1, 0, 0}
	switch {
	case ay <= ax && ay <= az:
		ref = mgl64.Vec3{0, 1, 0}
	case az <= ax && az <= ay:
		ref = mgl64.Vec3{0, 0, 1}
	}
	perp, ok := V3SafeNormalize(v.Cross(ref))
	if !ok {
		return mgl64.Vec3{0, 1, 0}
	}
	return perp
}

// V3AngleBetween returns the angle in radians between two non-zero vectors
func V3AngleBetween(a, b mgl64.Vec3) float64 {
	na, okA := V3SafeNormalize(a)
	nb, okB := V3SafeNormalize(b)
	if !okA || !okB {
		return 0
	}
	return math.Acos(mgl64.Clamp(na.Dot(nb), -1, 1))
}
