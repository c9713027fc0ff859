package parameter

// Particle Effects
const (
	// EffectsSmokeGrowth multiplies a smoke particle's size over its lifetime
	EffectsSmokeGrowth = 2.5

	// EffectsSmokeDrag is the per-second velocity decay of smoke particles
	EffectsSmokeDrag = 1.5

	// EffectsEmissionSpread is the random velocity added per particle (units/sec)
	EffectsEmissionSpread = 1.0

	// EffectsFlameExhaustSpeed is the rearward speed of flame particles (units/sec)
	EffectsFlameExhaustSpeed = 6.0

	// EffectsDebrisCount is the particle count of a target destruction burst
	EffectsDebrisCount = 24

	// EffectsDebrisSpeed is the outward speed of debris particles (units/sec)
	EffectsDebrisSpeed = 8.0

	// EffectsDebrisDuration is debris lifetime (sec)
	EffectsDebrisDuration = 1.2

	// EffectsDebrisSize is debris particle size (units)
	EffectsDebrisSize = 1.5

	// EffectsSeed seeds particle jitter
	EffectsSeed = 0x5a17
)
