package missile

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/vmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures notifications in delivery order
type recorder struct {
	emissions   []Emission
	retirements []Retirement
}

func (r *recorder) Emit(e Emission)     { r.emissions = append(r.emissions, e) }
func (r *recorder) Retire(x Retirement) { r.retirements = append(r.retirements, x) }

func newTestParams(t *testing.T, mutate func(p *Params)) *Params {
	t.Helper()
	raw := DefaultParams()
	if mutate != nil {
		mutate(&raw)
	}
	p, err := NewParams(raw)
	require.NoError(t, err)
	return p
}

// pursuitState builds a missile already in pursuit, facing along its velocity
func pursuitState(p *Params, pos, vel mgl64.Vec3, tgt Target) State {
	s := State{
		ID:          uuid.New(),
		Orientation: vmath.QuatFacing(vel),
		Target:      tgt,
		Params:      p,
		ElapsedTime: p.ActivationTime,
	}
	s.Position = pos
	s.Velocity = vel
	return s
}

func TestNewParams_Defaults(t *testing.T) {
	p := newTestParams(t, nil)

	assert.Equal(t, LongitudinalClamped, p.LongitudinalMode())
	assert.True(t, math.IsInf(p.PursuitMaxVelocity, 1))
	assert.NotNil(t, p.SpawnGenerator)
	assert.NotNil(t, p.CreateEjection)
	assert.NotNil(t, p.CreatePursuit)
}

func TestNewParams_FillsMissingDelegates(t *testing.T) {
	raw := DefaultParams()
	raw.SpawnGenerator = nil
	raw.SpawnTxfm = nil
	raw.CreateEjection = nil
	raw.CreatePursuit = nil

	p, err := NewParams(raw)
	require.NoError(t, err)
	assert.NotNil(t, p.SpawnTxfm)
	assert.NotNil(t, p.CreatePursuit)
}

func TestNewParams_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero step", func(p *Params) { p.SimulationStep = 0 }},
		{"negative ejection velocity", func(p *Params) { p.EjectionVelocity = -1 }},
		{"NaN ejection acc", func(p *Params) { p.EjectionAcc = math.NaN() }},
		{"empty cluster", func(p *Params) { p.ClusterSize = 0 }},
		{"zero gain", func(p *Params) { p.PursuitNavigationGain = 0 }},
		{"clamped without max acc", func(p *Params) { p.PursuitMaxAcc = 0 }},
		{"clamped with zero max velocity", func(p *Params) { p.PursuitMaxVelocity = 0 }},
		{"hit time before activation", func(p *Params) {
			p.PursuitHitTimeCorrection = true
			p.PursuitHitTime = p.ActivationTime
		}},
		{"inverted smoke sizes", func(p *Params) { p.Visual.EjectionSmokeSizeMax = p.Visual.EjectionSmokeSizeMin - 1 }},
		{"inverted emission count", func(p *Params) { p.Visual.SmokePerEmissionMax = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := DefaultParams()
			tt.mutate(&raw)
			_, err := NewParams(raw)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestNewParams_HitTimeIgnoresClamps(t *testing.T) {
	p := newTestParams(t, func(p *Params) {
		p.PursuitHitTimeCorrection = true
		p.PursuitMaxAcc = 0
		p.PursuitMaxVelocity = 0
	})
	assert.Equal(t, LongitudinalHitTime, p.LongitudinalMode())
}

func TestNewParams_IsolatedFromCaller(t *testing.T) {
	raw := DefaultParams()
	raw.TargetHitHandlers = []HitHandler{func(mgl64.Vec3, *Params) {}}

	p, err := NewParams(raw)
	require.NoError(t, err)

	raw.TargetHitHandlers[0] = nil
	raw.EjectionVelocity = 99
	require.Len(t, p.TargetHitHandlers, 1)
	assert.NotNil(t, p.TargetHitHandlers[0])
	assert.NotEqual(t, 99.0, p.EjectionVelocity)
}

func TestEjection_SpeedGrowsAlongNose(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 1 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}

	cs, err := SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{}, p)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	c := cs[0]

	for n := 1; n < 10; n++ {
		require.True(t, c.Tick(p.SimulationStep))
		want := p.EjectionVelocity + p.EjectionAcc*float64(n)*p.SimulationStep
		assert.InDelta(t, want, c.State().Velocity.Len(), 1e-9, "tick %d", n)
	}
}

func TestEjection_ZeroRotationKeepsOrientation(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.EjectionMaxRotationVel = 0 })

	// Nose on +Z, velocity on +X: nose must not move, thrust stays on +Z
	s := State{ID: uuid.New(), Orientation: mgl64.QuatIdent(), Params: p}
	s.Velocity = mgl64.Vec3{5, 0, 0}
	d := NewEjection(&s, mgl64.Vec3{}, mgl64.Vec3{})

	for n := 1; n <= 5; n++ {
		s, _ = d.Advance(s, p.SimulationStep)
		assert.Equal(t, mgl64.QuatIdent(), s.Orientation)
		assert.InDelta(t, 5.0, s.Velocity.X(), 1e-12)
		assert.InDelta(t, p.EjectionAcc*float64(n)*p.SimulationStep, s.Velocity.Z(), 1e-9)
	}
}

func TestEjection_SlewRateBounded(t *testing.T) {
	p := newTestParams(t, nil)

	s := State{ID: uuid.New(), Orientation: mgl64.QuatIdent(), Params: p}
	s.Velocity = mgl64.Vec3{5, 0, 0}
	d := NewEjection(&s, mgl64.Vec3{}, mgl64.Vec3{})

	before := s.Forward()
	s, _ = d.Advance(s, p.SimulationStep)
	turned := vmath.V3AngleBetween(before, s.Forward())
	assert.InDelta(t, p.EjectionMaxRotationVel*p.SimulationStep, turned, 1e-9)
}

func TestController_PhaseTransitionAtActivation(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 1 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 500}}

	cs, err := SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{}, p)
	require.NoError(t, err)
	c := cs[0]
	assert.Equal(t, PhaseEjecting, c.Phase())

	last := c.State().ElapsedTime
	seenPursuit := false
	for i := 0; i < 30; i++ {
		require.True(t, c.Tick(p.SimulationStep))
		st := c.State()
		assert.Greater(t, st.ElapsedTime, last, "elapsed time must increase")
		last = st.ElapsedTime

		if st.ElapsedTime+timeEpsilon < p.ActivationTime {
			assert.Equal(t, PhaseEjecting, c.Phase(), "tick %d", i)
		} else {
			assert.Equal(t, PhasePursuing, c.Phase(), "tick %d", i)
			seenPursuit = true
		}
		if seenPursuit {
			assert.NotEqual(t, PhaseEjecting, c.Phase(), "no return to ejection")
		}
	}
	assert.True(t, seenPursuit)
	_, isPursuit := c.Driver().(*Pursuit)
	assert.True(t, isPursuit)
}

func TestPursuit_DeadAheadOnlyThrusts(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	d := NewPursuit(&s).(*Pursuit)

	next, out := d.Advance(s, p.SimulationStep)
	assert.Equal(t, SignalContinue, out.Signal)
	assert.Equal(t, 0.0, d.Command().X())
	assert.Equal(t, 0.0, d.Command().Y())
	assert.InDelta(t, p.PursuitMaxAcc, d.Command().Z(), 1e-12)
	assert.InDelta(t, 0.0, next.Velocity.X(), 1e-12)
	assert.InDelta(t, 0.0, next.Velocity.Y(), 1e-12)
	assert.InDelta(t, 20+p.PursuitMaxAcc*p.SimulationStep, next.Velocity.Len(), 1e-9)
}

func TestPursuit_ClampedSteeringNeverBleedsSpeed(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{10, 0, 60}}
	// Off-axis and slow, the way a missile leaves ejection
	s := pursuitState(p, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{8, 6, 0}, tgt)
	d := NewPursuit(&s).(*Pursuit)

	speed := s.Velocity.Len()
	for i := 0; i < 400; i++ {
		var out Outcome
		s, out = d.Advance(s, p.SimulationStep)
		assert.GreaterOrEqual(t, s.Velocity.Len(), speed-1e-9, "tick %d", i)
		speed = s.Velocity.Len()
		if out.Signal == SignalTerminated {
			assert.Equal(t, ReasonHit, out.Reason)
			return
		}
	}
	t.Errorf("Expected intercept within 400 ticks, speed %.2f range %.2f", speed, tgt.Pos.Sub(s.Position).Len())
}

func TestPursuit_HitFiresOnceAndTerminates(t *testing.T) {
	hits := 0
	p := newTestParams(t, func(p *Params) {
		p.TargetHitHandlers = []HitHandler{func(mgl64.Vec3, *Params) { hits++ }}
	})
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 10}}
	rec := &recorder{}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	c := NewController(s, NewPursuit(&s), rec)

	ticks := 0
	for c.Tick(p.SimulationStep) {
		ticks++
		require.Less(t, ticks, 100, "missile never reached target")
		assert.Equal(t, 0, hits, "hit before termination tick")
	}

	assert.Equal(t, 1, hits)
	assert.Equal(t, PhaseTerminated, c.Phase())
	assert.Equal(t, ReasonHit, c.Reason())
	require.Len(t, rec.retirements, 1)
	assert.Equal(t, ReasonHit, rec.retirements[0].Reason)
	assert.Equal(t, PhasePursuing, rec.retirements[0].Phase)

	explosions := 0
	for _, e := range rec.emissions {
		if e.Kind == EmissionExplosion {
			explosions++
			assert.InDelta(t, 10.0, e.Position.Z(), p.AtTargetDistance+1e-9)
		}
	}
	assert.Equal(t, 1, explosions)
}

func TestPursuit_HitReportedOnceWhenNotTerminating(t *testing.T) {
	hits := 0
	p := newTestParams(t, func(p *Params) {
		p.TerminateWhenAtTarget = false
		p.TargetHitHandlers = []HitHandler{func(mgl64.Vec3, *Params) { hits++ }}
	})
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 10}}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	c := NewController(s, NewPursuit(&s), nil)

	for i := 0; i < 200; i++ {
		require.True(t, c.Tick(p.SimulationStep))
	}
	assert.Equal(t, 1, hits)
	assert.True(t, c.State().HitReported)
	assert.Equal(t, PhasePursuing, c.Phase())
}

func TestController_TerminatedTickIsNoop(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 10}}
	rec := &recorder{}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	c := NewController(s, NewPursuit(&s), rec)
	for c.Tick(p.SimulationStep) {
	}

	frozen := c.State()
	emitted := len(rec.emissions)
	for i := 0; i < 5; i++ {
		assert.False(t, c.Tick(p.SimulationStep))
	}
	assert.Equal(t, frozen, c.State())
	assert.Len(t, rec.emissions, emitted)
	assert.Len(t, rec.retirements, 1)
	assert.False(t, c.Cancel())
}

func TestPursuit_LostTarget(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}
	rec := &recorder{}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	c := NewController(s, NewPursuit(&s), rec)
	require.True(t, c.Tick(p.SimulationStep))

	tgt.Dead = true
	assert.False(t, c.Tick(p.SimulationStep))
	assert.Equal(t, ReasonLostTarget, c.Reason())
	require.Len(t, rec.retirements, 1)
	assert.Equal(t, ReasonLostTarget, rec.retirements[0].Reason)
}

func TestController_Cancel(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}
	rec := &recorder{}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	c := NewController(s, NewPursuit(&s), rec)

	assert.True(t, c.Cancel())
	assert.False(t, c.Cancel())
	assert.False(t, c.Tick(p.SimulationStep))
	require.Len(t, rec.retirements, 1)
	assert.Equal(t, ReasonCancelled, rec.retirements[0].Reason)
}

// nanDriver produces a non-finite state to exercise the numeric guard
type nanDriver struct{}

func (nanDriver) Phase() Phase { return PhasePursuing }
func (nanDriver) Advance(s State, dt float64) (State, Outcome) {
	s.Velocity = mgl64.Vec3{math.NaN(), 0, 0}
	return s, Outcome{}
}

func TestController_NumericFailureTerminates(t *testing.T) {
	p := newTestParams(t, nil)
	s := pursuitState(p, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 20}, &FixedTarget{})
	rec := &recorder{}
	c := NewController(s, nanDriver{}, rec)

	assert.False(t, c.Tick(p.SimulationStep))
	assert.Equal(t, ReasonNumeric, c.Reason())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, c.State().Position, "last finite state kept")
	require.Len(t, rec.retirements, 1)
}

func TestSpawnCluster_Members(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 6 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}

	cs, err := SpawnCluster(tgt, mgl64.Vec3{5, 0, 0}, mgl64.Vec3{}, p)
	require.NoError(t, err)
	require.Len(t, cs, 6)

	ids := make(map[uuid.UUID]bool)
	for i, c := range cs {
		st := c.State()
		assert.Equal(t, PhaseEjecting, c.Phase())
		assert.Equal(t, i, st.Index)
		assert.InDelta(t, p.EjectionVelocity, st.Velocity.Len(), 1e-9)
		assert.InDelta(t, 0.0, vmath.V3AngleBetween(st.Forward(), st.Velocity), 1e-6, "nose along ejection")
		ids[st.ID] = true

		for _, other := range cs[:i] {
			assert.Greater(t, st.Position.Sub(other.State().Position).Len(), 1e-6, "positions must be distinct")
		}
	}
	assert.Len(t, ids, 6)
}

func TestSpawnCluster_DeterministicForSeed(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.Seed = 42 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}

	a, err := SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{}, p)
	require.NoError(t, err)
	b, err := SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{}, p)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].ID(), b[i].ID())
		assert.Equal(t, a[i].State().Seed, b[i].State().Seed)
	}
}

func TestSpawnCluster_NoTarget(t *testing.T) {
	p := newTestParams(t, nil)

	_, err := SpawnCluster(nil, mgl64.Vec3{}, mgl64.Vec3{}, p)
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = SpawnCluster(&FixedTarget{Dead: true}, mgl64.Vec3{}, mgl64.Vec3{}, p)
	assert.ErrorIs(t, err, ErrNoTarget)

	_, err = SpawnCluster(&FixedTarget{Pos: mgl64.Vec3{math.Inf(1), 0, 0}}, mgl64.Vec3{}, mgl64.Vec3{}, p)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestSpawnCluster_LauncherVelocityInherited(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 3 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}
	launcherVel := mgl64.Vec3{0, 7, 0}

	cs, err := SpawnCluster(tgt, mgl64.Vec3{}, launcherVel, p)
	require.NoError(t, err)
	for _, c := range cs {
		local := c.State().Velocity.Sub(launcherVel)
		assert.InDelta(t, p.EjectionVelocity, local.Len(), 1e-9)
	}
}

func TestPursuit_AugmentedMatchesBasicForConstantVelocity(t *testing.T) {
	basic := newTestParams(t, nil)
	augmented := newTestParams(t, func(p *Params) { p.PursuitAugmentedPN = true })

	tgt := &FixedTarget{Pos: mgl64.Vec3{40, 10, 200}, Vel: mgl64.Vec3{-3, 2, 0}}
	s1 := pursuitState(basic, mgl64.Vec3{}, mgl64.Vec3{0, 0, 15}, tgt)
	s2 := pursuitState(augmented, mgl64.Vec3{}, mgl64.Vec3{0, 0, 15}, tgt)
	d1 := NewPursuit(&s1).(*Pursuit)
	d2 := NewPursuit(&s2).(*Pursuit)

	dt := basic.SimulationStep
	for i := 0; i < 20; i++ {
		s1, _ = d1.Advance(s1, dt)
		s2, _ = d2.Advance(s2, dt)
		assert.Equal(t, d1.Command(), d2.Command(), "tick %d", i)
		assert.Equal(t, s1.Position, s2.Position, "tick %d", i)
		tgt.Pos = tgt.Pos.Add(tgt.Vel.Mul(dt))
	}
}

func TestPursuit_AugmentedLeadsManeuveringTarget(t *testing.T) {
	augmented := newTestParams(t, func(p *Params) { p.PursuitAugmentedPN = true })
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 200}, Vel: mgl64.Vec3{0, 0, 0}}
	s := pursuitState(augmented, mgl64.Vec3{}, mgl64.Vec3{0, 0, 15}, tgt)
	d := NewPursuit(&s).(*Pursuit)

	dt := augmented.SimulationStep
	s, _ = d.Advance(s, dt)
	// Target starts accelerating along +X
	tgt.Vel = mgl64.Vec3{0.5, 0, 0}
	s, _ = d.Advance(s, dt)

	assert.Greater(t, d.Command().X(), 0.0)
}

func TestPursuit_ClampedRespectsLimits(t *testing.T) {
	p := newTestParams(t, func(p *Params) {
		p.PursuitMaxAcc = 2
		p.PursuitMaxVelocity = 16
	})
	tgt := &FixedTarget{Pos: mgl64.Vec3{30, 0, 30}, Vel: mgl64.Vec3{0, 5, 0}}
	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	d := NewPursuit(&s).(*Pursuit)

	for i := 0; i < 40; i++ {
		s, _ = d.Advance(s, p.SimulationStep)
		assert.LessOrEqual(t, d.Command().Len(), 2.0+1e-9)
		assert.LessOrEqual(t, s.Velocity.Len(), 16.0+1e-9)
	}
}

func TestPursuit_VisualLeanBounded(t *testing.T) {
	p := newTestParams(t, nil)
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}

	s := pursuitState(p, mgl64.Vec3{}, mgl64.Vec3{0, 0, 20}, tgt)
	s.Orientation = mgl64.QuatIdent()
	s.Velocity = mgl64.Vec3{20, 0, 0}
	d := NewPursuit(&s)

	before := s.Forward()
	s, _ = d.Advance(s, p.SimulationStep)
	assert.InDelta(t, p.Visual.PursuitVisualRotationRate, vmath.V3AngleBetween(before, s.Forward()), 1e-9)
}

func TestPursuit_HitTimeCorrectionInterceptsOnSchedule(t *testing.T) {
	p := newTestParams(t, func(p *Params) {
		p.ClusterSize = 1
		p.PursuitHitTimeCorrection = true
		p.PursuitHitTime = 3
	})
	tgt := &FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}
	rec := &recorder{}

	site, err := NewSite(p, WithObserver(rec))
	require.NoError(t, err)
	_, err = site.SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 200 && site.Len() > 0; i++ {
		require.NoError(t, site.Step(ctx))
	}
	require.Len(t, rec.retirements, 1)
	assert.Equal(t, ReasonHit, rec.retirements[0].Reason)
	assert.InDelta(t, p.PursuitHitTime, rec.retirements[0].ElapsedTime, 2*p.SimulationStep)
}

func TestSite_ClusterConvergesOnStationaryTarget(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 8 })
	tgt := &FixedTarget{Pos: mgl64.Vec3{10, 0, 60}}
	rec := &recorder{}

	site, err := NewSite(p, WithObserver(rec), WithWorkers(4))
	require.NoError(t, err)
	_, err = site.SpawnCluster(tgt, mgl64.Vec3{}, mgl64.Vec3{})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 1200 && site.Len() > 0; i++ {
		require.NoError(t, site.Step(ctx))
	}
	assert.Equal(t, 0, site.Len())
	require.Len(t, rec.retirements, 8)
	for _, r := range rec.retirements {
		assert.Equal(t, ReasonHit, r.Reason)
	}
}

func TestSite_ParallelMatchesSequential(t *testing.T) {
	p := newTestParams(t, func(p *Params) { p.ClusterSize = 8 })
	run := func(workers int) ([]State, []Emission, []Retirement) {
		tgt := &FixedTarget{Pos: mgl64.Vec3{0, 20, 80}}
		rec := &recorder{}
		site, err := NewSite(p, WithObserver(rec), WithWorkers(workers), WithSeed(7))
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err = site.SpawnCluster(tgt, mgl64.Vec3{float64(i) * 5, 0, 0}, mgl64.Vec3{})
			require.NoError(t, err)
		}
		for i := 0; i < 40; i++ {
			require.NoError(t, site.Step(context.Background()))
		}
		var states []State
		for _, c := range site.Active() {
			states = append(states, c.State())
		}
		return states, rec.emissions, rec.retirements
	}

	s1, e1, r1 := run(1)
	s4, e4, r4 := run(4)
	assert.Equal(t, s1, s4)
	assert.Equal(t, e1, e4)
	assert.Equal(t, r1, r4)
	assert.NotEmpty(t, e1)
}

func TestSite_AdvanceCarriesRemainder(t *testing.T) {
	p := newTestParams(t, nil)
	site, err := NewSite(p)
	require.NoError(t, err)

	ctx := context.Background()
	n, err := site.Advance(ctx, 0.12)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = site.Advance(ctx, 0.03)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, uint64(3), site.Ticks())
}

// reentrantObserver runs act on the first emission it sees
type reentrantObserver struct {
	recorder
	act  func(e Emission)
	done bool
}

func (o *reentrantObserver) Emit(e Emission) {
	o.recorder.Emit(e)
	if !o.done {
		o.done = true
		o.act(e)
	}
}

func TestSite_StepSurvivesRemovalDuringDispatch(t *testing.T) {
	p := newTestParams(t, func(p *Params) {
		p.ClusterSize = 3
		p.Visual.SmokeEmissionFrequencyMin = 1000
		p.Visual.SmokeEmissionFrequencyMax = 1000
	})

	for _, workers := range []int{1, 4} {
		obs := &reentrantObserver{}
		site, err := NewSite(p, WithObserver(obs), WithWorkers(workers))
		require.NoError(t, err)
		obs.act = func(e Emission) { site.Remove(e.MissileID) }

		_, err = site.SpawnCluster(&FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}, mgl64.Vec3{}, mgl64.Vec3{})
		require.NoError(t, err)

		require.NotPanics(t, func() { require.NoError(t, site.Step(context.Background())) }, "workers=%d", workers)
		require.Equal(t, 2, site.Len(), "workers=%d", workers)
		for _, c := range site.Active() {
			require.NotNil(t, c)
			assert.InDelta(t, p.SimulationStep, c.State().ElapsedTime, 1e-12, "each sibling ticked once, workers=%d", workers)
		}
		require.Len(t, obs.retirements, 1)
		assert.Equal(t, ReasonCancelled, obs.retirements[0].Reason)

		require.NoError(t, site.Step(context.Background()))
		assert.Equal(t, 2, site.Len())
	}
}

func TestSite_StepSurvivesClearDuringDispatch(t *testing.T) {
	p := newTestParams(t, func(p *Params) {
		p.ClusterSize = 4
		p.Visual.SmokeEmissionFrequencyMin = 1000
		p.Visual.SmokeEmissionFrequencyMax = 1000
	})
	obs := &reentrantObserver{}
	site, err := NewSite(p, WithObserver(obs))
	require.NoError(t, err)
	obs.act = func(Emission) { site.Clear() }

	_, err = site.SpawnCluster(&FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}, mgl64.Vec3{}, mgl64.Vec3{})
	require.NoError(t, err)

	require.NotPanics(t, func() { require.NoError(t, site.Step(context.Background())) })
	assert.Equal(t, 0, site.Len())
	assert.Len(t, obs.retirements, 4)
}

func TestSite_RemoveAndClear(t *testing.T) {
	p := newTestParams(t, nil)
	rec := &recorder{}
	site, err := NewSite(p, WithObserver(rec))
	require.NoError(t, err)

	cs, err := site.SpawnCluster(&FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}, mgl64.Vec3{}, mgl64.Vec3{})
	require.NoError(t, err)
	require.Equal(t, p.ClusterSize, site.Len())

	assert.True(t, site.Remove(cs[0].ID()))
	assert.False(t, site.Remove(cs[0].ID()))
	assert.False(t, site.Remove(uuid.New()))
	assert.Equal(t, p.ClusterSize-1, site.Len())
	require.Len(t, rec.retirements, 1)
	assert.Equal(t, ReasonCancelled, rec.retirements[0].Reason)

	site.Clear()
	assert.Equal(t, 0, site.Len())
	assert.Len(t, rec.retirements, p.ClusterSize)
}

func TestSite_StepHonorsContext(t *testing.T) {
	p := newTestParams(t, nil)
	for _, workers := range []int{1, 4} {
		site, err := NewSite(p, WithWorkers(workers))
		require.NoError(t, err)
		_, err = site.SpawnCluster(&FixedTarget{Pos: mgl64.Vec3{0, 0, 100}}, mgl64.Vec3{}, mgl64.Vec3{})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, site.Step(ctx), context.Canceled, "workers=%d", workers)
		assert.Equal(t, uint64(0), site.Ticks())
	}
}

func TestNewSite_RejectsNilParams(t *testing.T) {
	_, err := NewSite(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
