package engine

import "github.com/lixenwraith/salvo/core"

// AudioPlayer is the playback surface consumed by the audio system
// Implementations must be safe for concurrent use
type AudioPlayer interface {
	Play(core.SoundType) bool
	ToggleMute() bool
	IsMuted() bool
	IsRunning() bool
}
