package parameter

// Simulation
const (
	// MissileSimulationStep is the fixed integration step (seconds per tick)
	MissileSimulationStep = 0.05
)

// Missile Ejection Phase
const (
	// MissileEjectionVelocity is the launch speed along each member's outward axis (units/sec)
	MissileEjectionVelocity = 10.0

	// MissileEjectionAcc is the boost acceleration along the nose (units/sec²)
	MissileEjectionAcc = 4.0

	// MissileEjectionMaxRotationVel caps how fast the nose slews toward velocity (rad/sec)
	MissileEjectionMaxRotationVel = 5.0

	// MissileSpawnDistanceScale projects generator offsets into world units
	MissileSpawnDistanceScale = 10.0

	// MissileSpawnSphereRadius is the default spawn sphere radius before scaling
	MissileSpawnSphereRadius = 1.0

	// MissileClusterSize is the default number of members per cluster
	MissileClusterSize = 4
)

// Missile Pursuit Phase
const (
	// MissileActivationTime is time after launch when ejection hands over to pursuit (sec)
	MissileActivationTime = 0.5

	// MissileNavigationGain is the proportional navigation coefficient N
	MissileNavigationGain = 3.0

	// MissileHitTime is the intended intercept time after launch, used by hit-time correction (sec)
	MissileHitTime = 3.0

	// MissilePursuitMaxAcc caps commanded acceleration when hit-time correction is off (units/sec²)
	MissilePursuitMaxAcc = 10.0

	// MissilePursuitRecoveryCos is the heading-to-LOS cosine below which clamped pursuit
	// turns at full acceleration toward the target instead of navigating
	MissilePursuitRecoveryCos = 0.5

	// MissileGuidanceEpsilon guards divisions in the guidance law
	MissileGuidanceEpsilon = 1e-9
)

// Missile At Target
const (
	// MissileAtTargetDistance is the hit threshold (units)
	MissileAtTargetDistance = 1.0
)

// Missile Visual
const (
	// MissilePursuitVisualRotationRate is the max lean of the visual orientation toward velocity (rad/step)
	MissilePursuitVisualRotationRate = 0.1

	// MissileBodyScale is the mesh scale
	MissileBodyScale = 0.3

	// MissileSmokeEmissionFrequencyMin/Max bound per-missile smoke emission rate (Hz)
	MissileSmokeEmissionFrequencyMin = 10.0
	MissileSmokeEmissionFrequencyMax = 200.0

	// MissileSmokePerEmissionMin/Max bound particles per emission
	MissileSmokePerEmissionMin = 1
	MissileSmokePerEmissionMax = 1

	// MissileEjectionSmokeSizeMin/Max bound ejection smoke particle size (units)
	MissileEjectionSmokeSizeMin = 2.0
	MissileEjectionSmokeSizeMax = 15.0

	// MissileEjectionSmokeDuration is ejection smoke lifetime (sec)
	MissileEjectionSmokeDuration = 1.0

	// MissileJetPosition is the distance from mesh center to the jet, before scale
	MissileJetPosition = 4.2

	// MissileFlameSmokeSizeMin/Max bound flame particle size (units)
	MissileFlameSmokeSizeMin = 2.0
	MissileFlameSmokeSizeMax = 3.0

	// MissileFlameSmokeDuration is flame particle lifetime (sec)
	MissileFlameSmokeDuration = 0.5

	// MissileExplosionDuration is the impact flash lifetime handed to effects (sec)
	MissileExplosionDuration = 0.8

	// MissileExplosionSize is the impact flash size (units)
	MissileExplosionSize = 6.0
)
