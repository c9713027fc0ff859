package system

import (
	"log"

	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/telemetry"
)

// FrameSink receives telemetry frames; Broadcast must not block
type FrameSink interface {
	Broadcast(f *telemetry.Frame) error
}

// TelemetrySystem samples the simulation into frames at a fixed simulated interval
type TelemetrySystem struct {
	world    *engine.World
	missiles *MissileSystem
	targets  *TargetSystem
	effects  *EffectsSystem
	sink     FrameSink

	interval float64
	accum    float64
	frames   uint64
}

// NewTelemetrySystem wires a sink; effects may be nil
func NewTelemetrySystem(world *engine.World, missiles *MissileSystem, targets *TargetSystem, effects *EffectsSystem, sink FrameSink) *TelemetrySystem {
	return &TelemetrySystem{
		world:    world,
		missiles: missiles,
		targets:  targets,
		effects:  effects,
		sink:     sink,
		interval: parameter.TelemetryInterval.Seconds(),
	}
}

func (s *TelemetrySystem) Name() string { return "telemetry" }

func (s *TelemetrySystem) Priority() int { return parameter.PriorityTelemetry }

// SetSink replaces the frame sink; call under the world lock once stepping has begun
func (s *TelemetrySystem) SetSink(sink FrameSink) { s.sink = sink }

// Frames is the number of frames handed to the sink
func (s *TelemetrySystem) Frames() uint64 { return s.frames }

func (s *TelemetrySystem) Update(dt float64) {
	if s.sink == nil {
		return
	}
	s.accum += dt
	if s.accum+1e-9 < s.interval {
		return
	}
	s.accum = 0

	if err := s.sink.Broadcast(s.Snapshot()); err != nil {
		log.Printf("telemetry: %v", err)
		return
	}
	s.frames++
}

// Snapshot builds a frame of the current state; callers off the update goroutine must hold the world lock
func (s *TelemetrySystem) Snapshot() *telemetry.Frame {
	f := &telemetry.Frame{
		Tick:    s.world.Tick(),
		Time:    s.world.SimTime(),
		Metrics: s.world.Status.Snapshot(),
	}

	if s.missiles != nil {
		for _, c := range s.missiles.Site().Active() {
			st := c.State()
			tid, _ := s.missiles.TargetOf(st.ID)
			f.Missiles = append(f.Missiles, telemetry.MissileFrame{
				ID:       st.ID.String(),
				Index:    st.Index,
				Phase:    c.Phase().String(),
				TargetID: tid,
				Position: st.Position,
				Velocity: st.Velocity,
				Heading:  st.Forward(),
				Elapsed:  st.ElapsedTime,
			})
		}
	}
	if s.targets != nil {
		for _, b := range s.targets.Registry().Bodies() {
			k := b.Kinetic()
			f.Targets = append(f.Targets, telemetry.TargetFrame{
				ID:       b.ID(),
				Name:     b.Name(),
				Position: k.Position,
				Velocity: k.Velocity,
				Alive:    b.Alive(),
			})
		}
	}
	if s.effects != nil {
		f.Particles = s.effects.Len()
	}
	return f
}
