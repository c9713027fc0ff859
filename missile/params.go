package missile

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/parameter"
)

// SpawnTransform places a cluster in the world: (target, launcherPos, launcherVel) -> placement
// Must be pure; called once per cluster spawn
type SpawnTransform func(target Target, launcherPos, launcherVel mgl64.Vec3) mgl64.Mat4

// EjectionFactory builds the phase-one driver for a freshly spawned member
// s is fully initialized; clusterPos/clusterVel describe the launch event
type EjectionFactory func(s *State, clusterPos, clusterVel mgl64.Vec3) Driver

// PursuitFactory builds the phase-two driver from the hand-off state
type PursuitFactory func(s *State) Driver

// HitHandler is notified with the impact position when a missile reaches its target
// May have side effects; invoked on the goroutine that dispatches the tick
type HitHandler func(position mgl64.Vec3, p *Params)

// ResourceID is an opaque handle to a caller-managed asset (mesh, texture)
type ResourceID string

// Rect is a normalized sprite sub-rectangle
type Rect struct {
	X, Y, W, H float32
}

// LongitudinalMode names which control law governs speed along the line of sight
type LongitudinalMode uint8

const (
	// LongitudinalClamped bounds acceleration by PursuitMaxAcc and speed by PursuitMaxVelocity
	LongitudinalClamped LongitudinalMode = iota
	// LongitudinalHitTime throttles to intercept at PursuitHitTime; clamps are bypassed
	LongitudinalHitTime
)

func (m LongitudinalMode) String() string {
	if m == LongitudinalHitTime {
		return "hit-time"
	}
	return "clamped"
}

// VisualParams are passed through to effects collaborators unchanged
type VisualParams struct {
	// PursuitVisualRotationRate is the max radians per step the body leans into its velocity
	PursuitVisualRotationRate float64
	// MissileMesh must face the +Z axis
	MissileMesh      ResourceID
	MissileBodyScale float64

	SmokeTexture              ResourceID
	SmokeSpriteRects          []Rect
	SmokeColor                core.Color
	SmokeEmissionFrequencyMin float64
	SmokeEmissionFrequencyMax float64
	SmokePerEmissionMin       int
	SmokePerEmissionMax       int

	EjectionSmokeSizeMin  float64
	EjectionSmokeSizeMax  float64
	EjectionSmokeDuration float64

	InnerFlameColor core.Color
	OuterFlameColor core.Color
	// JetPosition is the distance from mesh center to the jet, before scale
	JetPosition        float64
	FlameSmokeSizeMin  float64
	FlameSmokeSizeMax  float64
	FlameSmokeDuration float64

	ExplosionSize     float64
	ExplosionDuration float64
}

// Params is the shared, read-only configuration of one weapon type
// Obtain through NewParams; never mutate a *Params after construction
type Params struct {
	SimulationStep float64

	// Ejection
	EjectionVelocity       float64
	EjectionAcc            float64
	EjectionMaxRotationVel float64
	SpawnGenerator         SpawnGenerator
	ClusterSize            int
	SpawnTxfm              SpawnTransform
	SpawnDistanceScale     float64
	CreateEjection         EjectionFactory

	// Pursuit
	ActivationTime           float64
	CreatePursuit            PursuitFactory
	PursuitNavigationGain    float64
	PursuitAugmentedPN       bool
	PursuitHitTimeCorrection bool
	// PursuitHitTime is the intended intercept time after launch, hit-time correction only
	PursuitHitTime float64
	// PursuitMaxVelocity may be +Inf, ignored under hit-time correction
	PursuitMaxVelocity float64
	// PursuitMaxAcc is ignored under hit-time correction
	PursuitMaxAcc float64

	// At target
	AtTargetDistance      float64
	TerminateWhenAtTarget bool
	TargetHitHandlers     []HitHandler

	Visual VisualParams

	DebuggingAid bool
	Seed         int64
}

// DefaultParams returns the stock tuning; adjust fields then pass through NewParams
func DefaultParams() Params {
	return Params{
		SimulationStep: parameter.MissileSimulationStep,

		EjectionVelocity:       parameter.MissileEjectionVelocity,
		EjectionAcc:            parameter.MissileEjectionAcc,
		EjectionMaxRotationVel: parameter.MissileEjectionMaxRotationVel,
		SpawnGenerator:         SphereGenerator{Radius: parameter.MissileSpawnSphereRadius},
		ClusterSize:            parameter.MissileClusterSize,
		SpawnTxfm:              TransformAtLauncher,
		SpawnDistanceScale:     parameter.MissileSpawnDistanceScale,
		CreateEjection:         NewEjection,

		ActivationTime:        parameter.MissileActivationTime,
		CreatePursuit:         NewPursuit,
		PursuitNavigationGain: parameter.MissileNavigationGain,
		PursuitHitTime:        parameter.MissileHitTime,
		PursuitMaxVelocity:    math.Inf(1),
		PursuitMaxAcc:         parameter.MissilePursuitMaxAcc,

		AtTargetDistance:      parameter.MissileAtTargetDistance,
		TerminateWhenAtTarget: true,

		Visual: VisualParams{
			PursuitVisualRotationRate: parameter.MissilePursuitVisualRotationRate,
			MissileMesh:               "missiles/missile.obj",
			MissileBodyScale:          parameter.MissileBodyScale,
			SmokeTexture:              "explosions/fig7.png",
			SmokeSpriteRects: []Rect{
				{0, 0, 0.25, 0.25},
				{0, 0.25, 0.25, 0.25},
				{0.25, 0.25, 0.25, 0.25},
				{0.25, 0, 0.25, 0.25},
			},
			SmokeColor:                core.ColorLightGray,
			SmokeEmissionFrequencyMin: parameter.MissileSmokeEmissionFrequencyMin,
			SmokeEmissionFrequencyMax: parameter.MissileSmokeEmissionFrequencyMax,
			SmokePerEmissionMin:       parameter.MissileSmokePerEmissionMin,
			SmokePerEmissionMax:       parameter.MissileSmokePerEmissionMax,
			EjectionSmokeSizeMin:      parameter.MissileEjectionSmokeSizeMin,
			EjectionSmokeSizeMax:      parameter.MissileEjectionSmokeSizeMax,
			EjectionSmokeDuration:     parameter.MissileEjectionSmokeDuration,
			InnerFlameColor:           core.ColorLightGoldenrodYellow,
			OuterFlameColor:           core.ColorDarkOrange,
			JetPosition:               parameter.MissileJetPosition,
			FlameSmokeSizeMin:         parameter.MissileFlameSmokeSizeMin,
			FlameSmokeSizeMax:         parameter.MissileFlameSmokeSizeMax,
			FlameSmokeDuration:        parameter.MissileFlameSmokeDuration,
			ExplosionSize:             parameter.MissileExplosionSize,
			ExplosionDuration:         parameter.MissileExplosionDuration,
		},
	}
}

// NewParams copies p, fills missing delegates with the stock ones and validates
// The returned pointer may be shared by any number of missiles concurrently
func NewParams(p Params) (*Params, error) {
	if p.SpawnGenerator == nil {
		p.SpawnGenerator = SphereGenerator{Radius: parameter.MissileSpawnSphereRadius}
	}
	if p.SpawnTxfm == nil {
		p.SpawnTxfm = TransformAtLauncher
	}
	if p.CreateEjection == nil {
		p.CreateEjection = NewEjection
	}
	if p.CreatePursuit == nil {
		p.CreatePursuit = NewPursuit
	}
	p.TargetHitHandlers = append([]HitHandler(nil), p.TargetHitHandlers...)
	p.Visual.SmokeSpriteRects = append([]Rect(nil), p.Visual.SmokeSpriteRects...)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LongitudinalMode reports the single mode governing longitudinal control
func (p *Params) LongitudinalMode() LongitudinalMode {
	if p.PursuitHitTimeCorrection {
		return LongitudinalHitTime
	}
	return LongitudinalClamped
}

// Validate checks ranges and the exclusivity of the longitudinal control modes
func (p *Params) Validate() error {
	if !(p.SimulationStep > 0) || math.IsInf(p.SimulationStep, 0) {
		return invalid("SimulationStep", "must be positive and finite, got %v", p.SimulationStep)
	}

	nonNeg := []struct {
		name string
		v    float64
	}{
		{"EjectionVelocity", p.EjectionVelocity},
		{"EjectionAcc", p.EjectionAcc},
		{"EjectionMaxRotationVel", p.EjectionMaxRotationVel},
		{"SpawnDistanceScale", p.SpawnDistanceScale},
		{"ActivationTime", p.ActivationTime},
		{"AtTargetDistance", p.AtTargetDistance},
		{"Visual.PursuitVisualRotationRate", p.Visual.PursuitVisualRotationRate},
		{"Visual.MissileBodyScale", p.Visual.MissileBodyScale},
		{"Visual.SmokeEmissionFrequencyMin", p.Visual.SmokeEmissionFrequencyMin},
		{"Visual.EjectionSmokeSizeMin", p.Visual.EjectionSmokeSizeMin},
		{"Visual.EjectionSmokeDuration", p.Visual.EjectionSmokeDuration},
		{"Visual.JetPosition", p.Visual.JetPosition},
		{"Visual.FlameSmokeSizeMin", p.Visual.FlameSmokeSizeMin},
		{"Visual.FlameSmokeDuration", p.Visual.FlameSmokeDuration},
		{"Visual.ExplosionSize", p.Visual.ExplosionSize},
		{"Visual.ExplosionDuration", p.Visual.ExplosionDuration},
	}
	for _, f := range nonNeg {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return invalid(f.name, "must be finite and non-negative, got %v", f.v)
		}
	}

	if p.ClusterSize < 1 {
		return invalid("ClusterSize", "must be at least 1, got %d", p.ClusterSize)
	}
	if !(p.PursuitNavigationGain > 0) || math.IsInf(p.PursuitNavigationGain, 0) {
		return invalid("PursuitNavigationGain", "must be positive and finite, got %v", p.PursuitNavigationGain)
	}

	switch p.LongitudinalMode() {
	case LongitudinalHitTime:
		if math.IsNaN(p.PursuitHitTime) || math.IsInf(p.PursuitHitTime, 0) || p.PursuitHitTime <= p.ActivationTime {
			return invalid("PursuitHitTime", "must exceed ActivationTime (%v) under hit-time correction, got %v",
				p.ActivationTime, p.PursuitHitTime)
		}
	case LongitudinalClamped:
		if !(p.PursuitMaxAcc > 0) || math.IsInf(p.PursuitMaxAcc, 0) {
			return invalid("PursuitMaxAcc", "must be positive and finite without hit-time correction, got %v", p.PursuitMaxAcc)
		}
		if !(p.PursuitMaxVelocity > 0) {
			return invalid("PursuitMaxVelocity", "must be positive or +Inf without hit-time correction, got %v", p.PursuitMaxVelocity)
		}
	}

	v := &p.Visual
	if v.SmokeEmissionFrequencyMax < v.SmokeEmissionFrequencyMin || math.IsInf(v.SmokeEmissionFrequencyMax, 0) {
		return invalid("Visual.SmokeEmissionFrequencyMax", "must be finite and >= min, got %v", v.SmokeEmissionFrequencyMax)
	}
	if v.SmokePerEmissionMin < 0 || v.SmokePerEmissionMax < v.SmokePerEmissionMin {
		return invalid("Visual.SmokePerEmission", "range [%d, %d] is invalid", v.SmokePerEmissionMin, v.SmokePerEmissionMax)
	}
	if v.EjectionSmokeSizeMax < v.EjectionSmokeSizeMin {
		return invalid("Visual.EjectionSmokeSizeMax", "must be >= min, got %v", v.EjectionSmokeSizeMax)
	}
	if v.FlameSmokeSizeMax < v.FlameSmokeSizeMin {
		return invalid("Visual.FlameSmokeSizeMax", "must be >= min, got %v", v.FlameSmokeSizeMax)
	}

	if p.SpawnGenerator == nil || p.SpawnTxfm == nil || p.CreateEjection == nil || p.CreatePursuit == nil {
		return invalid("delegates", "spawn generator, spawn transform and driver factories are required")
	}
	return nil
}

func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParams, field, fmt.Sprintf(format, args...))
}
