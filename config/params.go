package config

import (
	"fmt"

	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/parameter"
)

// Generator names accepted in [ejection].generator
const (
	GeneratorSphere = "sphere"
	GeneratorRing   = "ring"
)

// fromParams seeds the tuning sections from the stock missile parameters
func (sc *Scenario) fromParams() {
	p := missile.DefaultParams()

	sc.Simulation.Step = p.SimulationStep
	sc.Simulation.Seed = p.Seed
	sc.Simulation.Workers = 1
	sc.Simulation.Debug = p.DebuggingAid

	sc.Ejection = Ejection{
		Velocity:           p.EjectionVelocity,
		Acc:                p.EjectionAcc,
		MaxRotationVel:     p.EjectionMaxRotationVel,
		ClusterSize:        p.ClusterSize,
		SpawnDistanceScale: p.SpawnDistanceScale,
		SpawnTransform:     "launcher",
		Generator:          GeneratorSphere,
		GeneratorRadius:    parameter.MissileSpawnSphereRadius,
	}
	sc.Pursuit = Pursuit{
		ActivationTime:    p.ActivationTime,
		NavigationGain:    p.PursuitNavigationGain,
		Augmented:         p.PursuitAugmentedPN,
		HitTimeCorrection: p.PursuitHitTimeCorrection,
		HitTime:           p.PursuitHitTime,
		MaxVelocity:       p.PursuitMaxVelocity,
		MaxAcc:            p.PursuitMaxAcc,
	}
	sc.TargetHit = TargetHit{
		Distance:  p.AtTargetDistance,
		Terminate: p.TerminateWhenAtTarget,
	}

	v := p.Visual
	rects := make([][4]float32, len(v.SmokeSpriteRects))
	for i, r := range v.SmokeSpriteRects {
		rects[i] = [4]float32{r.X, r.Y, r.W, r.H}
	}
	sc.Visual = Visual{
		RotationRate:          v.PursuitVisualRotationRate,
		Mesh:                  string(v.MissileMesh),
		BodyScale:             v.MissileBodyScale,
		SmokeTexture:          string(v.SmokeTexture),
		SmokeSpriteRects:      rects,
		SmokeColor:            colorArray(v.SmokeColor),
		FrequencyMin:          v.SmokeEmissionFrequencyMin,
		FrequencyMax:          v.SmokeEmissionFrequencyMax,
		PerEmissionMin:        v.SmokePerEmissionMin,
		PerEmissionMax:        v.SmokePerEmissionMax,
		EjectionSmokeSizeMin:  v.EjectionSmokeSizeMin,
		EjectionSmokeSizeMax:  v.EjectionSmokeSizeMax,
		EjectionSmokeDuration: v.EjectionSmokeDuration,
		InnerFlameColor:       colorArray(v.InnerFlameColor),
		OuterFlameColor:       colorArray(v.OuterFlameColor),
		JetPosition:           v.JetPosition,
		FlameSmokeSizeMin:     v.FlameSmokeSizeMin,
		FlameSmokeSizeMax:     v.FlameSmokeSizeMax,
		FlameSmokeDuration:    v.FlameSmokeDuration,
		ExplosionSize:         v.ExplosionSize,
		ExplosionDuration:     v.ExplosionDuration,
	}
}

func colorArray(c core.Color) [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

func arrayColor(a [4]float32) core.Color { return core.Color{R: a[0], G: a[1], B: a[2], A: a[3]} }

// Params builds validated missile parameters; hit handlers are appended verbatim
// Errors wrap ErrScenario for unknown names and missile.ErrInvalidParams for bad values
func (sc *Scenario) Params(handlers ...missile.HitHandler) (*missile.Params, error) {
	p := missile.DefaultParams()

	p.SimulationStep = sc.Simulation.Step
	p.Seed = sc.Simulation.Seed
	p.DebuggingAid = sc.Simulation.Debug

	e := sc.Ejection
	p.EjectionVelocity = e.Velocity
	p.EjectionAcc = e.Acc
	p.EjectionMaxRotationVel = e.MaxRotationVel
	p.ClusterSize = e.ClusterSize
	p.SpawnDistanceScale = e.SpawnDistanceScale

	txfm, ok := missile.LookupSpawnTransform(e.SpawnTransform)
	if !ok {
		return nil, fmt.Errorf("%w: ejection.spawn_transform %q, want one of %v", ErrScenario, e.SpawnTransform, missile.SpawnTransformNames())
	}
	p.SpawnTxfm = txfm

	switch e.Generator {
	case GeneratorSphere, "":
		p.SpawnGenerator = missile.SphereGenerator{Radius: e.GeneratorRadius}
	case GeneratorRing:
		p.SpawnGenerator = missile.RingGenerator{Radius: e.GeneratorRadius, Spread: e.GeneratorSpread}
	default:
		return nil, fmt.Errorf("%w: ejection.generator %q", ErrScenario, e.Generator)
	}
	if e.GeneratorRadius < 0 {
		return nil, fmt.Errorf("%w: ejection.generator_radius %v < 0", ErrScenario, e.GeneratorRadius)
	}

	pu := sc.Pursuit
	p.ActivationTime = pu.ActivationTime
	p.PursuitNavigationGain = pu.NavigationGain
	p.PursuitAugmentedPN = pu.Augmented
	p.PursuitHitTimeCorrection = pu.HitTimeCorrection
	p.PursuitHitTime = pu.HitTime
	p.PursuitMaxVelocity = pu.MaxVelocity
	p.PursuitMaxAcc = pu.MaxAcc

	p.AtTargetDistance = sc.TargetHit.Distance
	p.TerminateWhenAtTarget = sc.TargetHit.Terminate
	p.TargetHitHandlers = handlers

	v := sc.Visual
	rects := make([]missile.Rect, len(v.SmokeSpriteRects))
	for i, r := range v.SmokeSpriteRects {
		rects[i] = missile.Rect{X: r[0], Y: r[1], W: r[2], H: r[3]}
	}
	p.Visual = missile.VisualParams{
		PursuitVisualRotationRate: v.RotationRate,
		MissileMesh:               missile.ResourceID(v.Mesh),
		MissileBodyScale:          v.BodyScale,
		SmokeTexture:              missile.ResourceID(v.SmokeTexture),
		SmokeSpriteRects:          rects,
		SmokeColor:                arrayColor(v.SmokeColor),
		SmokeEmissionFrequencyMin: v.FrequencyMin,
		SmokeEmissionFrequencyMax: v.FrequencyMax,
		SmokePerEmissionMin:       v.PerEmissionMin,
		SmokePerEmissionMax:       v.PerEmissionMax,
		EjectionSmokeSizeMin:      v.EjectionSmokeSizeMin,
		EjectionSmokeSizeMax:      v.EjectionSmokeSizeMax,
		EjectionSmokeDuration:     v.EjectionSmokeDuration,
		InnerFlameColor:           arrayColor(v.InnerFlameColor),
		OuterFlameColor:           arrayColor(v.OuterFlameColor),
		JetPosition:               v.JetPosition,
		FlameSmokeSizeMin:         v.FlameSmokeSizeMin,
		FlameSmokeSizeMax:         v.FlameSmokeSizeMax,
		FlameSmokeDuration:        v.FlameSmokeDuration,
		ExplosionSize:             v.ExplosionSize,
		ExplosionDuration:         v.ExplosionDuration,
	}

	return missile.NewParams(p)
}
