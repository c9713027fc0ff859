package system

import (
	"sort"

	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/parameter"
)

// Cue is one scheduled event; At is simulated seconds from scenario start
type Cue struct {
	At      float64
	Type    event.EventType
	Payload any
}

// ScenarioSystem replays a timeline of events against the simulation clock
type ScenarioSystem struct {
	world   *engine.World
	cues    []Cue
	next    int
	elapsed float64

	enabled bool
}

// NewScenarioSystem sorts cues by time, keeping the given order for ties
func NewScenarioSystem(world *engine.World, cues []Cue) *ScenarioSystem {
	sorted := make([]Cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })

	s := &ScenarioSystem{world: world, cues: sorted}
	s.Init()
	return s
}

// Init rewinds the timeline
func (s *ScenarioSystem) Init() {
	s.next = 0
	s.elapsed = 0
	s.enabled = true
}

func (s *ScenarioSystem) Name() string { return "scenario" }

func (s *ScenarioSystem) Priority() int { return parameter.PriorityScenario }

// Done reports whether every cue has fired
func (s *ScenarioSystem) Done() bool { return s.next >= len(s.cues) }

// Elapsed is scenario time in seconds
func (s *ScenarioSystem) Elapsed() float64 { return s.elapsed }

// Fire pushes every cue due at the current time; cues at 0 fire before the first step
func (s *ScenarioSystem) Fire() int {
	n := 0
	for s.next < len(s.cues) && s.cues[s.next].At <= s.elapsed+1e-9 {
		c := s.cues[s.next]
		s.world.PushEvent(c.Type, c.Payload)
		s.next++
		n++
	}
	return n
}

func (s *ScenarioSystem) Update(dt float64) {
	if !s.enabled {
		return
	}
	s.elapsed += dt
	s.Fire()
}
