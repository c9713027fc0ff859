package system

import (
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/parameter"
)

// AudioSystem maps simulation events to cues and plays them
// Decouples missile logic from the audio backend
type AudioSystem struct {
	world  *engine.World
	player engine.AudioPlayer

	enabled bool
}

// NewAudioSystem creates an audio system with the given player
// player may be nil if audio is disabled
func NewAudioSystem(world *engine.World, player engine.AudioPlayer) *AudioSystem {
	s := &AudioSystem{
		world:  world,
		player: player,
	}
	s.Init()
	return s
}

// Init resets session state
func (s *AudioSystem) Init() {
	s.enabled = true
}

func (s *AudioSystem) Name() string { return "audio" }

func (s *AudioSystem) Priority() int { return parameter.PriorityAudio }

// EventTypes returns the event types AudioSystem handles
func (s *AudioSystem) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventClusterLaunched,
		event.EventMissileIgnition,
		event.EventMissileHit,
		event.EventMissileRetired,
		event.EventSoundRequest,
	}
}

// HandleEvent processes sound-bearing events
func (s *AudioSystem) HandleEvent(ev event.Event) {
	if !s.enabled || s.player == nil {
		return
	}

	switch ev.Type {
	case event.EventClusterLaunched:
		s.player.Play(core.SoundLaunch)
	case event.EventMissileIgnition:
		s.player.Play(core.SoundIgnition)
	case event.EventMissileHit:
		s.player.Play(core.SoundHit)
	case event.EventMissileRetired:
		if p, ok := ev.Payload.(*event.MissileRetiredPayload); ok && p.Reason == missile.ReasonLostTarget {
			s.player.Play(core.SoundFizzle)
		}
	case event.EventSoundRequest:
		if p, ok := ev.Payload.(*event.SoundRequestPayload); ok {
			s.player.Play(p.SoundType)
		}
	}
}

// Update implements System interface (no tick-based logic)
func (s *AudioSystem) Update(float64) {}
