package missile

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/vmath"
)

// Phase is the lifecycle stage of one missile
type Phase uint8

const (
	PhaseEjecting Phase = iota
	PhasePursuing
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseEjecting:
		return "ejecting"
	case PhasePursuing:
		return "pursuing"
	case PhaseTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Signal is a driver's verdict for the tick it just computed
type Signal uint8

const (
	SignalContinue Signal = iota
	SignalPhaseComplete
	SignalTerminated
)

// Reason records why a missile left the simulation
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonHit
	ReasonLostTarget
	ReasonCancelled
	ReasonNumeric
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonHit:
		return "hit"
	case ReasonLostTarget:
		return "lost_target"
	case ReasonCancelled:
		return "cancelled"
	case ReasonNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// State is the full per-missile kinematic and bookkeeping record
// Drivers receive it by value and return the successor
type State struct {
	core.Kinetic

	ID    uuid.UUID
	Index int // position within its cluster
	// Seed drives per-missile visual randomness (emission cadence)
	Seed uint64

	// Orientation is visual only; guidance never reads it
	Orientation mgl64.Quat
	ElapsedTime float64

	Target Target
	Params *Params

	HitReported bool
}

// Forward is the world-space nose direction
func (s *State) Forward() mgl64.Vec3 {
	return vmath.QuatForward(s.Orientation)
}

// Hit describes the tick on which the missile came within AtTargetDistance
type Hit struct {
	Position mgl64.Vec3 // closest approach point on the missile's path
	Distance float64
	Time     float64 // missile elapsed time at impact
}

// EmissionKind classifies visual notifications
type EmissionKind uint8

const (
	EmissionEjectionSmoke EmissionKind = iota
	EmissionFlame
	EmissionExplosion
)

func (k EmissionKind) String() string {
	switch k {
	case EmissionEjectionSmoke:
		return "ejection_smoke"
	case EmissionFlame:
		return "flame"
	case EmissionExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Emission asks effects collaborators to spawn particles; the simulation never reads them back
type Emission struct {
	Kind      EmissionKind
	MissileID uuid.UUID
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Direction mgl64.Vec3
	Count     int
	SizeMin   float64
	SizeMax   float64
	Duration  float64
	Visual    *VisualParams
}

// Retirement is delivered exactly once when a missile terminates
type Retirement struct {
	ID          uuid.UUID
	Index       int
	Reason      Reason
	Phase       Phase // phase at the moment of termination
	Position    mgl64.Vec3
	ElapsedTime float64
}

// Outcome is what a driver reports alongside the successor state
type Outcome struct {
	Signal    Signal
	Reason    Reason // set with SignalTerminated
	Hit       *Hit
	Emissions []Emission
}

// Driver advances a missile by one fixed step within its phase
// Implementations keep per-missile scratch only; Params is shared and read-only
type Driver interface {
	Phase() Phase
	Advance(s State, dt float64) (State, Outcome)
}

// Observer receives notifications in tick order
// Calls never overlap for one Site
type Observer interface {
	Emit(e Emission)
	Retire(r Retirement)
}

// NopObserver discards all notifications
type NopObserver struct{}

func (NopObserver) Emit(Emission)     {}
func (NopObserver) Retire(Retirement) {}
