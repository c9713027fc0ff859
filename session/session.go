package session

import (
	"fmt"
	"time"

	"github.com/lixenwraith/salvo/config"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/status"
	"github.com/lixenwraith/salvo/system"
	"github.com/lixenwraith/salvo/target"
)

// Options selects the optional collaborators of a session
type Options struct {
	Player engine.AudioPlayer // nil disables audio
	Sink   system.FrameSink   // nil disables telemetry
	Clock  engine.Clock       // nil uses wall time
}

// Session is one assembled simulation: world, systems and scheduler
type Session struct {
	Scenario  *config.Scenario
	World     *engine.World
	Scheduler *engine.ClockScheduler
	Updates   <-chan struct{}

	Scenarios *system.ScenarioSystem
	Targets   *system.TargetSystem
	Missiles  *system.MissileSystem
	Effects   *system.EffectsSystem
	Telemetry *system.TelemetrySystem
}

// New wires every system for sc; the timeline starts at the first step
func New(sc *config.Scenario, opts Options) (*Session, error) {
	params, err := sc.Params()
	if err != nil {
		return nil, err
	}

	w := engine.NewWorld()
	s := &Session{Scenario: sc, World: w}

	s.Targets = system.NewTargetSystem(w, target.NewRegistry(), sc.Simulation.DestroyOnHit)
	s.Missiles, err = system.NewMissileSystem(w, s.Targets.Registry(), params, missile.WithWorkers(sc.Simulation.Workers))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.Scenarios = system.NewScenarioSystem(w, sc.Cues())
	s.Effects = system.NewEffectsSystem(w)
	s.Telemetry = system.NewTelemetrySystem(w, s.Missiles, s.Targets, s.Effects, opts.Sink)

	w.AddSystem(s.Scenarios)
	w.AddSystem(s.Targets)
	w.AddSystem(s.Missiles)
	w.AddSystem(s.Effects)
	w.AddSystem(system.NewAudioSystem(w, opts.Player))
	w.AddSystem(s.Telemetry)

	// Cues at t=0 are dispatched by the first step
	s.Scenarios.Fire()

	interval := time.Duration(sc.Step() * float64(time.Second))
	s.Scheduler, s.Updates = engine.NewClockScheduler(w, opts.Clock, interval)
	return s, nil
}

// Step advances one fixed step under the world lock
func (s *Session) Step() {
	s.World.Step(s.Scenario.Step())
}

// RunFor steps until the scenario duration elapses; returns steps taken
func (s *Session) RunFor(seconds float64) int {
	step := s.Scenario.Step()
	n := 0
	for float64(n)*step+1e-9 < seconds {
		s.Step()
		n++
	}
	return n
}

// Summary is the end-of-run tally
type Summary struct {
	Ticks     int64
	Time      float64
	Spawned   int64
	Hits      int64
	Lost      int64
	Cancelled int64
	Numeric   int64
	Active    int64
	LastHit   float64
	PeakSpeed float64
}

// Summarize reads the metrics registry
func (s *Session) Summarize() Summary {
	ints := s.World.Status.Ints
	floats := s.World.Status.Floats
	return Summary{
		Ticks:     ints.Get(status.KeyEngineTicks).Load(),
		Time:      s.World.SimTime(),
		Spawned:   ints.Get(status.KeyMissileSpawned).Load(),
		Hits:      ints.Get(status.KeyMissileHits).Load(),
		Lost:      ints.Get(status.KeyMissileLost).Load(),
		Cancelled: ints.Get(status.KeyMissileCancelled).Load(),
		Numeric:   ints.Get(status.KeyMissileNumeric).Load(),
		Active:    ints.Get(status.KeyMissileActive).Load(),
		LastHit:   floats.Get(status.KeyMissileLastHit).Get(),
		PeakSpeed: floats.Get(status.KeyMissilePeakSpeed).Get(),
	}
}
