package system

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/status"
	"github.com/lixenwraith/salvo/vmath"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ParticleKind classifies effect particles
type ParticleKind uint8

const (
	ParticleSmoke ParticleKind = iota
	ParticleFlame
	ParticleExplosion
	ParticleDebris
)

// Particle is one eased visual element; Size and Alpha are current tween values
type Particle struct {
	Kind     ParticleKind
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Size     float64
	Alpha    float64
	Color    core.Color

	colorFrom core.Color
	colorTo   core.Color
	drag      float64
	age       float64
	life      float64
	size      *gween.Tween
	alpha     *gween.Tween
}

// Progress is the normalized age in [0, 1]
func (p *Particle) Progress() float64 {
	if p.life <= 0 {
		return 1
	}
	return math.Min(p.age/p.life, 1)
}

// EffectsSystem turns emission events into particles and ages them
type EffectsSystem struct {
	world     *engine.World
	rng       *rand.Rand
	particles []Particle
	max       int
	dropped   uint64

	enabled bool

	statParticles *atomic.Int64
}

func NewEffectsSystem(world *engine.World) *EffectsSystem {
	s := &EffectsSystem{
		world:         world,
		max:           parameter.EffectsMaxParticles,
		statParticles: world.Status.Ints.Get(status.KeyParticles),
	}
	s.Init()
	return s
}

func (s *EffectsSystem) Init() {
	s.rng = rand.New(rand.NewPCG(parameter.EffectsSeed, parameter.EffectsSeed))
	s.particles = s.particles[:0]
	s.dropped = 0
	s.enabled = true
}

func (s *EffectsSystem) Name() string { return "effects" }

func (s *EffectsSystem) Priority() int { return parameter.PriorityEffects }

func (s *EffectsSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventMissileEmission,
		event.EventTargetDestroyed,
		event.EventSiteClear,
	}
}

func (s *EffectsSystem) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventMissileEmission:
		p, ok := ev.Payload.(*event.EmissionPayload)
		if !ok {
			return
		}
		if s.enabled {
			s.emit(&p.Emission)
		}
		event.ReleaseEmission(p)
	case event.EventTargetDestroyed:
		if p, ok := ev.Payload.(*event.TargetDestroyedPayload); ok && s.enabled {
			s.debris(p.Position)
		}
	case event.EventSiteClear:
		s.particles = s.particles[:0]
	}
}

// Particles returns a snapshot of live particles
func (s *EffectsSystem) Particles() []Particle {
	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}

func (s *EffectsSystem) Len() int { return len(s.particles) }

// Dropped counts particles refused at the cap
func (s *EffectsSystem) Dropped() uint64 { return s.dropped }

func (s *EffectsSystem) emit(e *missile.Emission) {
	smoke, inner, outer := core.ColorLightGray, core.ColorWhite, core.ColorDarkOrange
	if v := e.Visual; v != nil {
		smoke, inner, outer = v.SmokeColor, v.InnerFlameColor, v.OuterFlameColor
	}

	switch e.Kind {
	case missile.EmissionEjectionSmoke:
		for range e.Count {
			size := s.between(e.SizeMin, e.SizeMax)
			s.add(Particle{
				Kind:      ParticleSmoke,
				Position:  e.Position,
				Velocity:  e.Velocity.Add(s.jitter(parameter.EffectsEmissionSpread)),
				colorFrom: smoke,
				colorTo:   smoke.WithAlpha(0),
				drag:      parameter.EffectsSmokeDrag,
				life:      e.Duration,
				size:      newTween(size, size*parameter.EffectsSmokeGrowth, e.Duration, ease.OutQuad),
				alpha:     newTween(1, 0, e.Duration, ease.InQuad),
			})
		}
	case missile.EmissionFlame:
		for range e.Count {
			size := s.between(e.SizeMin, e.SizeMax)
			vel := e.Direction.Mul(parameter.EffectsFlameExhaustSpeed).Add(s.jitter(parameter.EffectsEmissionSpread))
			s.add(Particle{
				Kind:      ParticleFlame,
				Position:  e.Position,
				Velocity:  vel,
				colorFrom: inner,
				colorTo:   outer,
				life:      e.Duration,
				size:      newTween(size, 0, e.Duration, ease.Linear),
				alpha:     newTween(1, 0, e.Duration, ease.InCubic),
			})
		}
	case missile.EmissionExplosion:
		s.add(Particle{
			Kind:      ParticleExplosion,
			Position:  e.Position,
			colorFrom: inner,
			colorTo:   outer,
			life:      e.Duration,
			size:      newTween(0, e.SizeMax, e.Duration, ease.OutCubic),
			alpha:     newTween(1, 0, e.Duration, ease.InCubic),
		})
	}
}

func (s *EffectsSystem) debris(pos mgl64.Vec3) {
	for range parameter.EffectsDebrisCount {
		dir, ok := vmath.V3SafeNormalize(s.jitter(1))
		if !ok {
			dir = mgl64.Vec3{0, 1, 0}
		}
		s.add(Particle{
			Kind:      ParticleDebris,
			Position:  pos,
			Velocity:  dir.Mul(parameter.EffectsDebrisSpeed),
			colorFrom: core.ColorDarkOrange,
			colorTo:   core.ColorLightGray.WithAlpha(0),
			drag:      parameter.EffectsSmokeDrag,
			life:      parameter.EffectsDebrisDuration,
			size:      newTween(parameter.EffectsDebrisSize, parameter.EffectsDebrisSize, parameter.EffectsDebrisDuration, ease.Linear),
			alpha:     newTween(1, 0, parameter.EffectsDebrisDuration, ease.OutQuad),
		})
	}
}

func newTween(from, to, duration float64, fn ease.TweenFunc) *gween.Tween {
	return gween.New(float32(from), float32(to), float32(duration), fn)
}

// add appends p at its initial tween values; refused when non-positive life or at cap
func (s *EffectsSystem) add(p Particle) {
	if p.life <= 0 {
		return
	}
	if len(s.particles) >= s.max {
		s.dropped++
		return
	}
	sz, _ := p.size.Update(0)
	al, _ := p.alpha.Update(0)
	p.Size, p.Alpha = float64(sz), float64(al)
	p.Color = p.colorFrom.WithAlpha(p.colorFrom.A * al)
	s.particles = append(s.particles, p)
}

func (s *EffectsSystem) between(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// jitter returns a random vector in the cube of half-width r
func (s *EffectsSystem) jitter(r float64) mgl64.Vec3 {
	return mgl64.Vec3{
		(s.rng.Float64()*2 - 1) * r,
		(s.rng.Float64()*2 - 1) * r,
		(s.rng.Float64()*2 - 1) * r,
	}
}

func (s *EffectsSystem) Update(dt float64) {
	if !s.enabled {
		return
	}

	live := s.particles[:0]
	for _, p := range s.particles {
		p.age += dt
		sz, sizeDone := p.size.Update(float32(dt))
		al, alphaDone := p.alpha.Update(float32(dt))
		if (sizeDone && alphaDone) || p.age >= p.life {
			continue
		}

		if p.drag > 0 {
			p.Velocity = p.Velocity.Mul(math.Max(0, 1-p.drag*dt))
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Size, p.Alpha = float64(sz), float64(al)

		c := p.colorFrom.Lerp(p.colorTo, float32(p.Progress()))
		p.Color = c.WithAlpha(c.A * al)
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
	s.statParticles.Store(int64(len(s.particles)))
}
