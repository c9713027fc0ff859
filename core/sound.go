package core

// SoundType identifies an audio cue raised by the simulation
type SoundType int

const (
	SoundLaunch   SoundType = iota // Cluster ejection thump
	SoundIgnition                  // Pursuit motor light-up
	SoundHit                       // Warhead detonation
	SoundFizzle                    // Missile lost its target
	SoundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundLaunch:
		return "launch"
	case SoundIgnition:
		return "ignition"
	case SoundHit:
		return "hit"
	case SoundFizzle:
		return "fizzle"
	default:
		return "unknown"
	}
}
