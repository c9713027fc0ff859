package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProportionalNavigation_TargetDeadAhead(t *testing.T) {
	m := core.Kinetic{Position: mgl64.Vec3{0, 0, 0}, Velocity: mgl64.Vec3{0, 0, 20}}
	los, ok := MeasureLineOfSight(&m, mgl64.Vec3{0, 0, 100}, mgl64.Vec3{})
	require.True(t, ok)

	assert.InDelta(t, 100.0, los.Range, 1e-12)
	assert.InDelta(t, 20.0, los.ClosingSpeed, 1e-12)
	assert.Equal(t, mgl64.Vec3{}, los.Rate)
	assert.Equal(t, mgl64.Vec3{}, ProportionalNavigation(los, 3))
}

func TestProportionalNavigation_CrossingTarget(t *testing.T) {
	// Missile along +X, target ahead drifting +Y: command must push toward +Y
	m := core.Kinetic{Velocity: mgl64.Vec3{10, 0, 0}}
	los, ok := MeasureLineOfSight(&m, mgl64.Vec3{100, 0, 0}, mgl64.Vec3{0, 5, 0})
	require.True(t, ok)

	acc := ProportionalNavigation(los, 4)
	// N * Vc * vt / R = 4 * 10 * 5 / 100
	assert.InDelta(t, 2.0, acc.Y(), 1e-12)
	assert.InDelta(t, 0.0, acc.Dot(los.Dir), 1e-12, "command must be perpendicular to LOS")
}

func TestMeasureLineOfSight_Coincident(t *testing.T) {
	m := core.Kinetic{Position: mgl64.Vec3{1, 2, 3}}
	_, ok := MeasureLineOfSight(&m, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{})
	assert.False(t, ok)
}

func TestProportionalNavigation_ZeroClosingHoldsHeading(t *testing.T) {
	// Missile and target moving in formation
	m := core.Kinetic{Velocity: mgl64.Vec3{0, 3, 0}}
	los, ok := MeasureLineOfSight(&m, mgl64.Vec3{50, 0, 0}, mgl64.Vec3{0, 3, 0})
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{}, ProportionalNavigation(los, 3))
	assert.True(t, math.IsInf(TimeToIntercept(los), 1))
}

func TestAugmentedTerm_VanishesForConstantVelocity(t *testing.T) {
	m := core.Kinetic{Velocity: mgl64.Vec3{10, 0, 0}}
	los, _ := MeasureLineOfSight(&m, mgl64.Vec3{100, 0, 0}, mgl64.Vec3{0, 5, 0})

	acc := EstimateAcceleration(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 5, 0}, 0.05)
	assert.Equal(t, mgl64.Vec3{}, AugmentedTerm(los, acc, 3))

	// Lateral maneuver is passed through at N/2, the LOS component is dropped
	acc = mgl64.Vec3{7, 2, 0}
	assert.True(t, AugmentedTerm(los, acc, 3).ApproxEqual(mgl64.Vec3{0, 3, 0}))
}

func TestHitTimeCorrection(t *testing.T) {
	m := core.Kinetic{Velocity: mgl64.Vec3{10, 0, 0}}
	los, _ := MeasureLineOfSight(&m, mgl64.Vec3{100, 0, 0}, mgl64.Vec3{})

	// 100 units in 2 s needs 50 u/s along LOS; from 10 u/s in one 0.1 s step
	acc := HitTimeCorrection(los, &m, mgl64.Vec3{}, 2, 0.1)
	assert.InDelta(t, 400.0, acc.X(), 1e-9)

	Integrate(&m, acc, 0.1)
	assert.InDelta(t, 50.0, m.Velocity.X(), 1e-9)
}

func TestPursuitTurn(t *testing.T) {
	k := core.Kinetic{Velocity: mgl64.Vec3{-5, 0, 0}}

	// Target behind: lateral break at full magnitude
	acc := PursuitTurn(&k, mgl64.Vec3{10, 0, 0}, 8)
	assert.InDelta(t, 8.0, acc.Len(), 1e-12)
	assert.InDelta(t, 0.0, acc.X(), 1e-12)

	// Target on the velocity line ahead: nothing to correct
	acc = PursuitTurn(&k, mgl64.Vec3{-10, 0, 0}, 8)
	assert.Equal(t, mgl64.Vec3{}, acc)
}

func TestIntegrate(t *testing.T) {
	k := core.Kinetic{}
	Integrate(&k, mgl64.Vec3{0, 0, 2}, 0.5)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, k.Velocity)
	assert.Equal(t, mgl64.Vec3{0, 0, 0.5}, k.Position)

	k.Velocity = mgl64.Vec3{0, 0, 30}
	CapSpeed(&k, 12)
	assert.InDelta(t, 12.0, k.Velocity.Len(), 1e-12)
	assert.True(t, IsFinite(&k))
}

func TestSustainSpeed_SplitsBudget(t *testing.T) {
	m := core.Kinetic{Velocity: mgl64.Vec3{0, 0, 10}}
	// Lateral request with a braking component along the heading
	acc := SustainSpeed(&m, mgl64.Vec3{6, 0, -5}, 10, math.Inf(1), 0.05)

	assert.InDelta(t, 6.0, acc.X(), 1e-12, "turn keeps only the part across the heading")
	assert.InDelta(t, 8.0, acc.Z(), 1e-12, "remaining budget thrusts forward")
	assert.InDelta(t, 10.0, acc.Len(), 1e-12)
}

func TestSustainSpeed_StopsAtMaxSpeed(t *testing.T) {
	m := core.Kinetic{Velocity: mgl64.Vec3{0, 0, 15.9}}
	acc := SustainSpeed(&m, mgl64.Vec3{}, 10, 16, 0.05)
	assert.InDelta(t, 2.0, acc.Z(), 1e-9, "thrust limited to reach the cap in one step")

	m.Velocity = mgl64.Vec3{0, 0, 20}
	acc = SustainSpeed(&m, mgl64.Vec3{3, 0, 0}, 10, 16, 0.05)
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, acc, "no thrust above the cap")
}

func TestSustainSpeed_SaturatedTurnHasNoThrust(t *testing.T) {
	m := core.Kinetic{Velocity: mgl64.Vec3{0, 0, 10}}
	acc := SustainSpeed(&m, mgl64.Vec3{40, 0, 0}, 10, math.Inf(1), 0.05)
	assert.InDelta(t, 10.0, acc.X(), 1e-12)
	assert.InDelta(t, 0.0, acc.Z(), 1e-12)
}
