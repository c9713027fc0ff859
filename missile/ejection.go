package missile

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/physics"
	"github.com/lixenwraith/salvo/vmath"
)

// timeEpsilon absorbs accumulated rounding when comparing elapsed time against thresholds
const timeEpsilon = 1e-9

// Ejection is the phase-one driver: boost along the nose while it slews toward velocity
type Ejection struct {
	clusterPos mgl64.Vec3
	clusterVel mgl64.Vec3
	smoke      emitter
}

// NewEjection is the stock EjectionFactory
func NewEjection(s *State, clusterPos, clusterVel mgl64.Vec3) Driver {
	return &Ejection{
		clusterPos: clusterPos,
		clusterVel: clusterVel,
		smoke:      newEmitter(s.Seed, &s.Params.Visual),
	}
}

func (d *Ejection) Phase() Phase { return PhaseEjecting }

// Advance rotates, accelerates, then integrates; completes once ActivationTime is reached
func (d *Ejection) Advance(s State, dt float64) (State, Outcome) {
	p := s.Params

	s.Orientation, _ = vmath.RotateToward(s.Orientation, s.Velocity, p.EjectionMaxRotationVel*dt)
	physics.Integrate(&s.Kinetic, s.Forward().Mul(p.EjectionAcc), dt)
	s.ElapsedTime += dt

	out := Outcome{Signal: SignalContinue}
	if n := d.smoke.tick(dt); n > 0 {
		v := &p.Visual
		out.Emissions = append(out.Emissions, Emission{
			Kind:      EmissionEjectionSmoke,
			MissileID: s.ID,
			Position:  s.Position,
			Velocity:  d.clusterVel,
			Direction: s.Forward().Mul(-1),
			Count:     n,
			SizeMin:   v.EjectionSmokeSizeMin,
			SizeMax:   v.EjectionSmokeSizeMax,
			Duration:  v.EjectionSmokeDuration,
			Visual:    v,
		})
	}

	if s.ElapsedTime+timeEpsilon >= p.ActivationTime {
		out.Signal = SignalPhaseComplete
	}
	return s, out
}

// ClusterOrigin is where the cluster containing this missile was launched
func (d *Ejection) ClusterOrigin() (pos, vel mgl64.Vec3) {
	return d.clusterPos, d.clusterVel
}
