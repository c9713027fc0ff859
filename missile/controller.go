package missile

import (
	"log"

	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/physics"
)

// Controller owns one missile's canonical state and its active driver
// Not safe for concurrent use; a Site ticks each controller from at most one goroutine per step
type Controller struct {
	state    State
	driver   Driver
	phase    Phase
	reason   Reason
	observer Observer
}

// report buffers one tick's notifications between compute and dispatch
type report struct {
	emissions  []Emission
	hit        *Hit
	retirement *Retirement
}

// NewController pairs a freshly spawned state with its ejection driver
func NewController(s State, d Driver, obs Observer) *Controller {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Controller{
		state:    s,
		driver:   d,
		phase:    d.Phase(),
		observer: obs,
	}
}

func (c *Controller) ID() uuid.UUID  { return c.state.ID }
func (c *Controller) Phase() Phase   { return c.phase }
func (c *Controller) Reason() Reason { return c.reason }
func (c *Controller) Driver() Driver { return c.driver }

// State returns a copy of the current state
func (c *Controller) State() State { return c.state }

// Active reports whether the missile is still simulated
func (c *Controller) Active() bool { return c.phase != PhaseTerminated }

// Tick advances one step and delivers its notifications
// Returns false once the missile is terminated; ticking a terminated missile is a no-op
func (c *Controller) Tick(dt float64) bool {
	r := c.step(dt)
	c.dispatch(r)
	return c.Active()
}

// Cancel terminates the missile on behalf of an external caller
// Returns false if already terminated
func (c *Controller) Cancel() bool {
	if c.phase == PhaseTerminated {
		return false
	}
	r := report{retirement: c.terminate(ReasonCancelled)}
	c.dispatch(r)
	return true
}

// step computes the tick without touching the observer
// Safe to run concurrently across distinct controllers
func (c *Controller) step(dt float64) report {
	if c.phase == PhaseTerminated {
		return report{}
	}

	prev := c.state
	next, out := c.driver.Advance(prev, dt)

	if !physics.IsFinite(&next.Kinetic) {
		return report{retirement: c.terminate(ReasonNumeric)}
	}
	if next.ElapsedTime < prev.ElapsedTime {
		next.ElapsedTime = prev.ElapsedTime
	}
	c.state = next

	r := report{emissions: out.Emissions}
	if out.Hit != nil && !c.state.HitReported {
		c.state.HitReported = true
		r.hit = out.Hit
		v := &c.state.Params.Visual
		r.emissions = append(r.emissions, Emission{
			Kind:      EmissionExplosion,
			MissileID: c.state.ID,
			Position:  out.Hit.Position,
			Count:     1,
			SizeMin:   v.ExplosionSize,
			SizeMax:   v.ExplosionSize,
			Duration:  v.ExplosionDuration,
			Visual:    v,
		})
	}

	switch out.Signal {
	case SignalPhaseComplete:
		if c.phase == PhaseEjecting {
			c.driver = c.state.Params.CreatePursuit(&c.state)
			c.phase = PhasePursuing
			if c.state.Params.DebuggingAid {
				log.Printf("missile %s: pursuit at t=%.3f pos=%v", c.state.ID, c.state.ElapsedTime, c.state.Position)
			}
		}
	case SignalTerminated:
		reason := out.Reason
		if reason == ReasonNone {
			reason = ReasonLostTarget
		}
		r.retirement = c.terminate(reason)
	}
	return r
}

func (c *Controller) terminate(reason Reason) *Retirement {
	from := c.phase
	c.phase = PhaseTerminated
	c.reason = reason
	if c.state.Params != nil && c.state.Params.DebuggingAid {
		log.Printf("missile %s: terminated (%s) in %s at t=%.3f", c.state.ID, reason, from, c.state.ElapsedTime)
	}
	return &Retirement{
		ID:          c.state.ID,
		Index:       c.state.Index,
		Reason:      reason,
		Phase:       from,
		Position:    c.state.Position,
		ElapsedTime: c.state.ElapsedTime,
	}
}

// dispatch delivers buffered notifications: emissions, hit handlers, then retirement
func (c *Controller) dispatch(r report) {
	for _, e := range r.emissions {
		c.observer.Emit(e)
	}
	if r.hit != nil {
		p := c.state.Params
		for _, h := range p.TargetHitHandlers {
			h(r.hit.Position, p)
		}
	}
	if r.retirement != nil {
		c.observer.Retire(*r.retirement)
	}
}
