package vmath

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ClosestApproach finds the point on segment [from, to] nearest to c
// Returns the point, its distance to c and the segment parameter t in [0, 1]
// Zero-length segments collapse to from
func ClosestApproach(from, to, c mgl64.Vec3) (mgl64.Vec3, float64, float64) {
	seg := to.Sub(from)
	lenSq := seg.Dot(seg)
	if lenSq < Epsilon*Epsilon {
		return from, c.Sub(from).Len(), 0
	}

	t := mgl64.Clamp(c.Sub(from).Dot(seg)/lenSq, 0, 1)
	p := from.Add(seg.Mul(t))
	return p, c.Sub(p).Len(), t
}

// Lerp3 linearly interpolates between a and b
func Lerp3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
