package event

import (
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/missile"
)

// EmitEmission pushes a pooled emission event
// The consumer releases the payload with ReleaseEmission
func EmitEmission(q *EventQueue, e missile.Emission, tick uint64) {
	q.Push(Event{
		Type:    EventMissileEmission,
		Payload: AcquireEmission(e),
		Tick:    tick,
	})
}

// EmitSound pushes a cue request
func EmitSound(q *EventQueue, sound core.SoundType, tick uint64) {
	q.Push(Event{
		Type:    EventSoundRequest,
		Payload: &SoundRequestPayload{SoundType: sound},
		Tick:    tick,
	})
}
