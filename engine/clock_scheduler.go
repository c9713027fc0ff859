package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/salvo/parameter"
)

// ClockScheduler drives World.Step on a fixed wall-clock interval
// Each tick advances the world by the interval expressed in seconds
type ClockScheduler struct {
	world    *World
	clock    Clock
	interval time.Duration
	dt       float64

	mu           sync.Mutex
	nextDeadline time.Time

	tickCount atomic.Uint64
	running   atomic.Bool

	updateDone chan struct{}
}

// NewClockScheduler creates a scheduler; returns it and a channel signaled after each tick
func NewClockScheduler(world *World, clock Clock, interval time.Duration) (*ClockScheduler, <-chan struct{}) {
	if clock == nil {
		clock = NewTimeProvider()
	}
	if interval <= 0 {
		interval = parameter.GameUpdateInterval
	}
	cs := &ClockScheduler{
		world:        world,
		clock:        clock,
		interval:     interval,
		dt:           interval.Seconds(),
		nextDeadline: clock.Now().Add(interval),
		updateDone:   make(chan struct{}, 1),
	}
	return cs, cs.updateDone
}

// TickCount returns ticks processed by this scheduler
func (cs *ClockScheduler) TickCount() uint64 { return cs.tickCount.Load() }

// Interval returns the tick period
func (cs *ClockScheduler) Interval() time.Duration { return cs.interval }

// Poll runs every tick whose deadline has passed and returns how many ran
// Falling more than SchedulerMaxBehindTicks behind drops the backlog
func (cs *ClockScheduler) Poll() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.clock.Now()
	maxBehind := cs.interval * parameter.SchedulerMaxBehindTicks
	if now.Sub(cs.nextDeadline) > maxBehind {
		cs.nextDeadline = now.Add(-maxBehind)
	}

	ran := 0
	for !now.Before(cs.nextDeadline) {
		cs.world.Step(cs.dt)
		cs.tickCount.Add(1)
		cs.nextDeadline = cs.nextDeadline.Add(cs.interval)
		ran++
	}
	if ran > 0 {
		select {
		case cs.updateDone <- struct{}{}:
		default:
		}
	}
	return ran
}

// untilNext returns the wait to the next deadline
func (cs *ClockScheduler) untilNext() time.Duration {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	d := cs.nextDeadline.Sub(cs.clock.Now())
	if d < 0 {
		return 0
	}
	if d > cs.interval {
		// Paused clocks stall; re-check at tick cadence
		return cs.interval
	}
	return d
}

// Run blocks, ticking until ctx is done; returns ctx.Err()
func (cs *ClockScheduler) Run(ctx context.Context) error {
	if !cs.running.CompareAndSwap(false, true) {
		return nil
	}
	defer cs.running.Store(false)

	timer := time.NewTimer(cs.interval)
	defer timer.Stop()

	for {
		cs.Poll()
		timer.Reset(cs.untilNext())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// Running reports whether Run is active
func (cs *ClockScheduler) Running() bool { return cs.running.Load() }
