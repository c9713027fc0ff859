package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/vmath"
)

// LineOfSight holds the proportional-navigation observables of one engagement sample
type LineOfSight struct {
	Range        float64    // |r|, r = target - missile
	Dir          mgl64.Vec3 // r / |r|
	Rate         mgl64.Vec3 // Ω = (r × vr) / |r|², vr = targetVel - missileVel
	ClosingSpeed float64    // Vc = -(r · vr) / |r|, positive while closing
}

// MeasureLineOfSight samples LOS geometry between missile and target
// Returns false when missile and target are coincident (|r| < Epsilon)
func MeasureLineOfSight(m *core.Kinetic, targetPos, targetVel mgl64.Vec3) (LineOfSight, bool) {
	r := targetPos.Sub(m.Position)
	rangeSq := r.Dot(r)
	rng := math.Sqrt(rangeSq)
	if rng < vmath.Epsilon {
		return LineOfSight{}, false
	}

	vr := targetVel.Sub(m.Velocity)
	return LineOfSight{
		Range:        rng,
		Dir:          r.Mul(1.0 / rng),
		Rate:         r.Cross(vr).Mul(1.0 / rangeSq),
		ClosingSpeed: -r.Dot(vr) / rng,
	}, true
}

// ProportionalNavigation returns N·Vc·(Ω × r̂), the lateral command perpendicular to the LOS
// Near-zero closing speed yields zero (hold heading)
func ProportionalNavigation(los LineOfSight, gain float64) mgl64.Vec3 {
	if math.Abs(los.ClosingSpeed) < vmath.Epsilon {
		return mgl64.Vec3{}
	}
	return los.Rate.Cross(los.Dir).Mul(gain * los.ClosingSpeed)
}

// AugmentedTerm returns (N/2)·a_T⊥, compensating target acceleration across the LOS
// Vanishes for a non-maneuvering target
func AugmentedTerm(los LineOfSight, targetAcc mgl64.Vec3, gain float64) mgl64.Vec3 {
	lateral := vmath.V3Reject(targetAcc, los.Dir)
	return lateral.Mul(0.5 * gain)
}

// EstimateAcceleration differentiates two velocity samples dt apart
func EstimateAcceleration(prevVel, vel mgl64.Vec3, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return mgl64.Vec3{}
	}
	return vel.Sub(prevVel).Mul(1.0 / dt)
}

// HitTimeCorrection returns the longitudinal acceleration along the LOS that sets the
// missile's LOS speed to cover the remaining range in timeLeft
// timeLeft is floored at dt so an overdue intercept closes within one step
func HitTimeCorrection(los LineOfSight, m *core.Kinetic, targetVel mgl64.Vec3, timeLeft, dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return mgl64.Vec3{}
	}
	if timeLeft < dt {
		timeLeft = dt
	}
	desired := los.Range/timeLeft + targetVel.Dot(los.Dir)
	current := m.Velocity.Dot(los.Dir)
	return los.Dir.Mul((desired - current) / dt)
}

// SustainSpeed shapes a clamped-mode command: the part of lateral along the heading is dropped so
// steering never brakes, the rest is limited to maxAcc, and the unused budget sqrt(maxAcc² - |a_lat|²)
// thrusts along the heading until speed reaches maxSpeed (which may be +Inf)
// A stationary body gets lateral clamped as is
func SustainSpeed(k *core.Kinetic, lateral mgl64.Vec3, maxAcc, maxSpeed, dt float64) mgl64.Vec3 {
	heading, ok := vmath.V3SafeNormalize(k.Velocity)
	if !ok {
		return vmath.V3ClampMagnitude(lateral, maxAcc)
	}
	turn := vmath.V3ClampMagnitude(vmath.V3Reject(lateral, heading), maxAcc)

	thrust := math.Sqrt(math.Max(maxAcc*maxAcc-turn.Dot(turn), 0))
	if dt > 0 {
		thrust = math.Min(thrust, math.Max((maxSpeed-k.Velocity.Len())/dt, 0))
	}
	if thrust <= 0 {
		return turn
	}
	return turn.Add(heading.Mul(thrust))
}

// TimeToIntercept estimates remaining flight time from range and closing speed
// Returns +Inf while opening or stalled
func TimeToIntercept(los LineOfSight) float64 {
	if los.ClosingSpeed < vmath.Epsilon {
		return math.Inf(1)
	}
	return los.Range / los.ClosingSpeed
}
