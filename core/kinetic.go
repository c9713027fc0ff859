package core

import "github.com/go-gl/mathgl/mgl64"

// Kinetic is a point-mass kinematic state in world units
type Kinetic struct {
	// Position in world units
	Position mgl64.Vec3
	// Velocity in world units per second
	Velocity mgl64.Vec3
}
