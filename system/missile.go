package system

import (
	"context"
	"errors"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/status"
	"github.com/lixenwraith/salvo/target"
)

// MissileSystem owns the launch site and translates its notifications into events
// It is the site's missile.Observer
type MissileSystem struct {
	world   *engine.World
	targets *target.Registry
	site    *missile.Site
	ctx     context.Context

	targetOf map[uuid.UUID]uint64
	ignited  map[uuid.UUID]struct{}

	enabled bool
	debug   bool

	statSpawned   *atomic.Int64
	statActive    *atomic.Int64
	statHits      *atomic.Int64
	statLost      *atomic.Int64
	statCancelled *atomic.Int64
	statNumeric   *atomic.Int64
	statLastHit   *status.AtomicFloat
	statPeakSpeed *status.AtomicFloat
}

// NewMissileSystem creates the site for params; WithObserver options are overridden
func NewMissileSystem(world *engine.World, targets *target.Registry, params *missile.Params, opts ...missile.SiteOption) (*MissileSystem, error) {
	if targets == nil {
		return nil, errors.New("missile system: nil target registry")
	}
	s := &MissileSystem{
		world:         world,
		targets:       targets,
		ctx:           context.Background(),
		targetOf:      make(map[uuid.UUID]uint64),
		ignited:       make(map[uuid.UUID]struct{}),
		debug:         params != nil && params.DebuggingAid,
		statSpawned:   world.Status.Ints.Get(status.KeyMissileSpawned),
		statActive:    world.Status.Ints.Get(status.KeyMissileActive),
		statHits:      world.Status.Ints.Get(status.KeyMissileHits),
		statLost:      world.Status.Ints.Get(status.KeyMissileLost),
		statCancelled: world.Status.Ints.Get(status.KeyMissileCancelled),
		statNumeric:   world.Status.Ints.Get(status.KeyMissileNumeric),
		statLastHit:   world.Status.Floats.Get(status.KeyMissileLastHit),
		statPeakSpeed: world.Status.Floats.Get(status.KeyMissilePeakSpeed),
	}

	site, err := missile.NewSite(params, append(opts, missile.WithObserver(s))...)
	if err != nil {
		return nil, err
	}
	s.site = site
	s.Init()
	return s, nil
}

func (s *MissileSystem) Init() {
	s.site.Clear()
	s.enabled = true
}

func (s *MissileSystem) Name() string { return "missile" }

func (s *MissileSystem) Priority() int { return parameter.PriorityMissile }

// Site exposes the launch site; callers must hold the world update lock
func (s *MissileSystem) Site() *missile.Site { return s.site }

// TargetOf returns the target ID a missile was launched at
func (s *MissileSystem) TargetOf(id uuid.UUID) (uint64, bool) {
	tid, ok := s.targetOf[id]
	return tid, ok
}

// SetEnabled pauses or resumes missile stepping
func (s *MissileSystem) SetEnabled(enabled bool) { s.enabled = enabled }

func (s *MissileSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventClusterLaunchRequest,
		event.EventMissileCancelRequest,
		event.EventSiteClear,
	}
}

func (s *MissileSystem) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventSiteClear:
		s.site.Clear()
		s.statActive.Store(0)
	case event.EventMissileCancelRequest:
		if p, ok := ev.Payload.(*event.MissileCancelPayload); ok {
			s.site.Remove(p.ID)
		}
	case event.EventClusterLaunchRequest:
		if !s.enabled {
			return
		}
		if p, ok := ev.Payload.(*event.LaunchRequestPayload); ok {
			s.launch(p)
		}
	}
}

func (s *MissileSystem) launch(p *event.LaunchRequestPayload) {
	var (
		body *target.Body
		ok   bool
	)
	if p.TargetID != 0 {
		body, ok = s.targets.Get(p.TargetID)
	} else {
		body, ok = s.targets.Lookup(p.TargetName)
	}
	if !ok {
		log.Printf("missile: launch at unknown target id=%d name=%q", p.TargetID, p.TargetName)
		return
	}

	cs, err := s.site.SpawnCluster(body, p.Position, p.Velocity)
	if err != nil {
		log.Printf("missile: launch at %q: %v", body.Name(), err)
		return
	}

	ids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		ids[i] = c.ID()
		s.targetOf[ids[i]] = body.ID()
	}
	s.statSpawned.Add(int64(len(cs)))
	s.statActive.Store(int64(s.site.Len()))

	if s.debug {
		log.Printf("missile: cluster of %d at target %d from %v", len(cs), body.ID(), p.Position)
	}
	s.world.PushEvent(event.EventClusterLaunched, &event.ClusterLaunchedPayload{
		TargetID: body.ID(),
		Count:    len(cs),
		Position: p.Position,
		IDs:      ids,
	})
}

func (s *MissileSystem) Update(dt float64) {
	if !s.enabled {
		return
	}

	if _, err := s.site.Advance(s.ctx, dt); err != nil {
		log.Printf("missile: step: %v", err)
	}

	peak := 0.0
	for _, c := range s.site.Active() {
		st := c.State()
		if sp := st.Velocity.Len(); sp > peak {
			peak = sp
		}
		if c.Phase() != missile.PhasePursuing {
			continue
		}
		if _, done := s.ignited[st.ID]; done {
			continue
		}
		s.ignited[st.ID] = struct{}{}
		s.world.PushEvent(event.EventMissileIgnition, &event.MissileIgnitionPayload{
			ID:       st.ID,
			Position: st.Position,
		})
	}
	s.statPeakSpeed.Max(peak)
	s.statActive.Store(int64(s.site.Len()))
}

// Emit forwards an emission to effects; explosions also announce the hit
func (s *MissileSystem) Emit(e missile.Emission) {
	if e.Kind == missile.EmissionExplosion {
		now := s.world.SimTime()
		s.statHits.Add(1)
		s.statLastHit.Set(now)
		s.world.PushEvent(event.EventMissileHit, &event.MissileHitPayload{
			ID:       e.MissileID,
			TargetID: s.targetOf[e.MissileID],
			Position: e.Position,
			Time:     now,
		})
	}
	event.EmitEmission(s.world.Events, e, s.world.Tick())
}

// Retire records the outcome and announces the retirement
func (s *MissileSystem) Retire(r missile.Retirement) {
	switch r.Reason {
	case missile.ReasonLostTarget:
		s.statLost.Add(1)
	case missile.ReasonCancelled:
		s.statCancelled.Add(1)
	case missile.ReasonNumeric:
		s.statNumeric.Add(1)
		log.Printf("missile %s: numeric failure at t=%.3f", r.ID, r.ElapsedTime)
	}

	s.world.PushEvent(event.EventMissileRetired, &event.MissileRetiredPayload{
		Retirement: r,
		TargetID:   s.targetOf[r.ID],
	})
	delete(s.targetOf, r.ID)
	delete(s.ignited, r.ID)
}
