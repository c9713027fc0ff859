package vmath

import "github.com/go-gl/mathgl/mgl64"

// TransformPoint applies a 4x4 affine transform to a point (w = 1)
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies only the linear part of m to a direction (w = 0)
// Result is normalized; degenerate input returns the transformed ForwardAxis
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	out, ok := V3SafeNormalize(m.Mul4x1(d.Vec4(0)).Vec3())
	if !ok {
		out, ok = V3SafeNormalize(m.Mul4x1(ForwardAxis.Vec4(0)).Vec3())
		if !ok {
			return ForwardAxis
		}
	}
	return out
}

// TransformOrigin returns the translation column of m
func TransformOrigin(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}
