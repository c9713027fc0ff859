package missile

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/physics"
	"github.com/lixenwraith/salvo/vmath"
)

// Pursuit is the phase-two driver: proportional navigation toward the live target
type Pursuit struct {
	prevTargetVel mgl64.Vec3
	hasHistory    bool
	command       mgl64.Vec3
	flame         emitter
}

// NewPursuit is the stock PursuitFactory
func NewPursuit(s *State) Driver {
	return &Pursuit{
		flame: newEmitter(s.Seed+1, &s.Params.Visual),
	}
}

func (d *Pursuit) Phase() Phase { return PhasePursuing }

// Command is the acceleration commanded on the last advanced tick
func (d *Pursuit) Command() mgl64.Vec3 { return d.command }

// Advance steers, integrates and tests for intercept against the segment flown this tick
func (d *Pursuit) Advance(s State, dt float64) (State, Outcome) {
	p := s.Params

	tgtPos, tgtVel, ok := resolveTarget(s.Target)
	if !ok {
		d.command = mgl64.Vec3{}
		return s, Outcome{Signal: SignalTerminated, Reason: ReasonLostTarget}
	}

	from := s.Position
	acc := d.steer(&s, tgtPos, tgtVel, dt)
	d.command = acc

	physics.Integrate(&s.Kinetic, acc, dt)
	if p.LongitudinalMode() == LongitudinalClamped {
		physics.CapSpeed(&s.Kinetic, p.PursuitMaxVelocity)
	}
	s.ElapsedTime += dt
	s.Orientation, _ = vmath.RotateToward(s.Orientation, s.Velocity, p.Visual.PursuitVisualRotationRate)

	out := Outcome{Signal: SignalContinue}
	if n := d.flame.tick(dt); n > 0 {
		v := &p.Visual
		fwd := s.Forward()
		out.Emissions = append(out.Emissions, Emission{
			Kind:      EmissionFlame,
			MissileID: s.ID,
			Position:  s.Position.Sub(fwd.Mul(v.JetPosition * v.MissileBodyScale)),
			Direction: fwd.Mul(-1),
			Count:     n,
			SizeMin:   v.FlameSmokeSizeMin,
			SizeMax:   v.FlameSmokeSizeMax,
			Duration:  v.FlameSmokeDuration,
			Visual:    v,
		})
	}

	if s.HitReported {
		return s, out
	}

	// Closest approach of the relative path over the tick, target carried along its velocity
	relFrom := from.Sub(tgtPos)
	relTo := s.Position.Sub(tgtPos.Add(tgtVel.Mul(dt)))
	_, dist, t := vmath.ClosestApproach(relFrom, relTo, mgl64.Vec3{})
	if dist <= p.AtTargetDistance {
		out.Hit = &Hit{
			Position: vmath.Lerp3(from, s.Position, t),
			Distance: dist,
			Time:     s.ElapsedTime - dt*(1-t),
		}
		if p.TerminateWhenAtTarget {
			out.Signal = SignalTerminated
			out.Reason = ReasonHit
		}
	}
	return s, out
}

// steer computes the commanded acceleration for this tick
// Clamped mode: PN (+ augmentation) turned across the heading and limited to PursuitMaxAcc, the
// leftover budget thrusting along the heading up to PursuitMaxVelocity; pure pursuit while recovering
// Hit-time mode: PN (+ augmentation) plus the longitudinal LOS correction, unclamped
func (d *Pursuit) steer(s *State, tgtPos, tgtVel mgl64.Vec3, dt float64) mgl64.Vec3 {
	p := s.Params
	mode := p.LongitudinalMode()

	var targetAcc mgl64.Vec3
	if d.hasHistory {
		targetAcc = physics.EstimateAcceleration(d.prevTargetVel, tgtVel, dt)
	}
	d.prevTargetVel = tgtVel
	d.hasHistory = true

	los, ok := physics.MeasureLineOfSight(&s.Kinetic, tgtPos, tgtVel)
	if !ok {
		// Coincident: hold heading
		return mgl64.Vec3{}
	}

	var acc mgl64.Vec3
	if mode == LongitudinalClamped && needsRecovery(s, los) {
		// Opening or far off-boresight: PN would stall, turn onto the target first
		acc = physics.PursuitTurn(&s.Kinetic, tgtPos, p.PursuitMaxAcc)
	} else {
		acc = physics.ProportionalNavigation(los, p.PursuitNavigationGain)
	}

	if p.PursuitAugmentedPN {
		acc = acc.Add(physics.AugmentedTerm(los, targetAcc, p.PursuitNavigationGain))
	}

	if mode == LongitudinalHitTime {
		timeLeft := p.PursuitHitTime - s.ElapsedTime
		return acc.Add(physics.HitTimeCorrection(los, &s.Kinetic, tgtVel, timeLeft, dt))
	}
	return physics.SustainSpeed(&s.Kinetic, acc, p.PursuitMaxAcc, p.PursuitMaxVelocity, dt)
}

// needsRecovery reports whether the missile is flying away from the target or too far off the
// line of sight for a speed-preserving law to bring it around
func needsRecovery(s *State, los physics.LineOfSight) bool {
	if los.ClosingSpeed <= -vmath.Epsilon {
		return true
	}
	heading, ok := vmath.V3SafeNormalize(s.Velocity)
	if !ok {
		return true
	}
	return heading.Dot(los.Dir) < parameter.MissilePursuitRecoveryCos
}
