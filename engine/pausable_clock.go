package engine

import (
	"sync"
	"time"
)

// PausableClock derives simulation time from a source clock, frozen while paused
type PausableClock struct {
	mu sync.RWMutex

	source      Clock
	start       time.Time
	paused      bool
	pausedAt    time.Time
	totalPaused time.Duration
}

// NewPausableClock wraps source; nil uses the real clock
func NewPausableClock(source Clock) *PausableClock {
	if source == nil {
		source = NewTimeProvider()
	}
	return &PausableClock{
		source: source,
		start:  source.Now(),
	}
}

// Now returns current simulation time (affected by pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	ref := pc.source.Now()
	if pc.paused {
		ref = pc.pausedAt
	}
	return pc.start.Add(ref.Sub(pc.start) - pc.totalPaused)
}

// Pause stops simulation time advancement
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused {
		return
	}
	pc.paused = true
	pc.pausedAt = pc.source.Now()
}

// Resume continues simulation time advancement
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused {
		return
	}
	pc.totalPaused += pc.source.Now().Sub(pc.pausedAt)
	pc.paused = false
	pc.pausedAt = time.Time{}
}

// Toggle flips pause state and returns the new state
func (pc *PausableClock) Toggle() bool {
	if pc.IsPaused() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

func (pc *PausableClock) IsPaused() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.paused
}

// TotalPaused returns cumulative pause time including an ongoing pause
func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.totalPaused
	if pc.paused {
		total += pc.source.Now().Sub(pc.pausedAt)
	}
	return total
}
