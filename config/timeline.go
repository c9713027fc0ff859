package config

import (
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/system"
)

// Cues flattens the scenario into a timeline: targets, then launches, then scripted events
// Entries sharing a time keep that order, so a target always exists before a launch at it
func (sc *Scenario) Cues() []system.Cue {
	cues := make([]system.Cue, 0, len(sc.Targets)+len(sc.Launches)+len(sc.scripted))
	for _, t := range sc.Targets {
		payload := t.TargetSpawnPayload
		cues = append(cues, system.Cue{At: t.At, Type: event.EventTargetSpawnRequest, Payload: &payload})
	}
	for _, l := range sc.Launches {
		payload := l.LaunchRequestPayload
		cues = append(cues, system.Cue{At: l.At, Type: event.EventClusterLaunchRequest, Payload: &payload})
	}
	for _, s := range sc.scripted {
		cues = append(cues, system.Cue{At: s.at, Type: s.et, Payload: s.payload})
	}
	return cues
}
