package system

import (
	"log"
	"sync/atomic"

	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/status"
	"github.com/lixenwraith/salvo/target"
)

// TargetSystem moves target bodies and handles their creation and destruction
type TargetSystem struct {
	world    *engine.World
	registry *target.Registry

	// destroyOnHit kills a target on the first missile hit
	destroyOnHit bool
	enabled      bool

	statAlive *atomic.Int64
}

func NewTargetSystem(world *engine.World, registry *target.Registry, destroyOnHit bool) *TargetSystem {
	s := &TargetSystem{
		world:        world,
		registry:     registry,
		destroyOnHit: destroyOnHit,
		statAlive:    world.Status.Ints.Get(status.KeyTargetsAlive),
	}
	s.Init()
	return s
}

func (s *TargetSystem) Init() {
	s.enabled = true
}

func (s *TargetSystem) Name() string { return "target" }

func (s *TargetSystem) Priority() int { return parameter.PriorityTarget }

// Registry exposes the bodies; callers must hold the world update lock to mutate
func (s *TargetSystem) Registry() *target.Registry { return s.registry }

func (s *TargetSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventTargetSpawnRequest,
		event.EventTargetDestroyRequest,
		event.EventMissileHit,
	}
}

func (s *TargetSystem) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventTargetSpawnRequest:
		if p, ok := ev.Payload.(*event.TargetSpawnPayload); ok {
			s.spawn(p)
		}
	case event.EventTargetDestroyRequest:
		if p, ok := ev.Payload.(*event.TargetDestroyPayload); ok {
			s.destroy(p.ID, p.Name)
		}
	case event.EventMissileHit:
		if !s.destroyOnHit {
			return
		}
		if p, ok := ev.Payload.(*event.MissileHitPayload); ok && p.TargetID != 0 {
			s.destroy(p.TargetID, "")
		}
	}
}

func (s *TargetSystem) spawn(p *event.TargetSpawnPayload) {
	motion, ok := target.ParseMotion(p.Motion)
	if !ok {
		log.Printf("target %q: unknown motion %q", p.Name, p.Motion)
		return
	}
	_, err := s.registry.Spawn(target.Spec{
		Name:      p.Name,
		Position:  p.Position,
		Velocity:  p.Velocity,
		Motion:    motion,
		Amplitude: p.Amplitude,
		Period:    p.Period,
		Axis:      p.Axis,
	})
	if err != nil {
		log.Printf("target: spawn: %v", err)
		return
	}
	s.statAlive.Store(int64(s.registry.Len()))
}

func (s *TargetSystem) destroy(id uint64, name string) {
	var (
		b  *target.Body
		ok bool
	)
	if id != 0 {
		b, ok = s.registry.Get(id)
	} else {
		b, ok = s.registry.Lookup(name)
	}
	if !ok || !b.Destroy() {
		return
	}
	s.world.PushEvent(event.EventTargetDestroyed, &event.TargetDestroyedPayload{
		ID:       b.ID(),
		Name:     b.Name(),
		Position: b.Position(),
	})
}

func (s *TargetSystem) Update(dt float64) {
	if !s.enabled {
		return
	}
	s.registry.Advance(dt)
	s.registry.Prune()
	s.statAlive.Store(int64(s.registry.Len()))
}
