package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/parameter"
)

// SoundManager plays synthesized cues through a shared mixer
// Implements engine.AudioPlayer
type SoundManager struct {
	mu       sync.Mutex
	cfg      *Config
	mixer    *beep.Mixer
	lastPlay [core.SoundTypeCount]time.Time
	now      func() time.Time

	initialized bool
	muted       bool
	// speakerless managers mix into the buffer only; used by tests and headless runs
	speakerless bool
}

// NewSoundManager creates a manager; nil cfg uses DefaultConfig
func NewSoundManager(cfg *Config) *SoundManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize opens the speaker and starts the mixer
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	rate := beep.SampleRate(sm.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// InitializeSilent marks the manager running without opening a device
// Cues accumulate in the mixer and can be drained with Stream
func (sm *SoundManager) InitializeSilent() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.initialized = true
	sm.speakerless = true
}

// Cleanup stops all sounds and closes the device
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	if !sm.speakerless {
		speaker.Lock()
		sm.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
	} else {
		sm.mixer.Clear()
	}
	sm.initialized = false
}

// Play queues a cue; false when stopped, muted, unknown or rate limited
func (sm *SoundManager) Play(st core.SoundType) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.muted {
		return false
	}
	if st < 0 || st >= core.SoundTypeCount {
		return false
	}
	now := sm.now()
	if last := sm.lastPlay[st]; !last.IsZero() && now.Sub(last) < parameter.MinSoundGap {
		return false
	}

	cue := NewCue(sm.cfg, st)
	if cue == nil {
		return false
	}
	sm.lastPlay[st] = now

	if sm.speakerless {
		sm.mixer.Add(cue)
		return true
	}
	speaker.Lock()
	sm.mixer.Add(cue)
	speaker.Unlock()
	return true
}

// ToggleMute flips mute and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.muted = !sm.muted
	return sm.muted
}

func (sm *SoundManager) IsMuted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

func (sm *SoundManager) IsRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Pending returns the number of cues still in the mixer
func (sm *SoundManager) Pending() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.speakerless && sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return sm.mixer.Len()
}

// Stream pulls mixed samples; only meaningful for silent managers
func (sm *SoundManager) Stream(samples [][2]float64) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	n, _ := sm.mixer.Stream(samples)
	return n
}
