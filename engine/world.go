package engine

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/status"
)

// System is a unit of per-tick simulation logic
// Systems that also implement event.Handler are registered with the router on AddSystem
type System interface {
	Name() string
	Priority() int // lower runs first
	Update(dt float64)
}

// World holds the event plumbing, metrics and the ordered system list
type World struct {
	mu      sync.RWMutex
	systems []System

	Events *event.EventQueue
	Status *status.Registry
	router *event.Router

	tick    atomic.Uint64
	simTime status.AtomicFloat

	statTicks   *atomic.Int64
	statEvents  *atomic.Int64
	statDropped *atomic.Int64

	updateMutex sync.Mutex
}

// NewWorld creates an empty world with its own queue and metrics
func NewWorld() *World {
	q := event.NewEventQueue()
	reg := status.NewRegistry()
	event.InitRegistry()
	return &World{
		Events:      q,
		Status:      reg,
		router:      event.NewRouter(q),
		statTicks:   reg.Ints.Get(status.KeyEngineTicks),
		statEvents:  reg.Ints.Get(status.KeyEngineEvents),
		statDropped: reg.Ints.Get(status.KeyEventsDropped),
	}
}

// AddSystem adds a system, keeps the list sorted by priority and wires its event handlers
func (w *World) AddSystem(s System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, s)
	sort.SliceStable(w.systems, func(i, j int) bool {
		return w.systems[i].Priority() < w.systems[j].Priority()
	})
	if h, ok := s.(event.Handler); ok {
		w.router.Register(h)
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Tick returns the number of completed steps
func (w *World) Tick() uint64 { return w.tick.Load() }

// SimTime returns simulated seconds since start
func (w *World) SimTime() float64 { return w.simTime.Get() }

// PushEvent emits an event stamped with the current tick
// Safe from any goroutine
func (w *World) PushEvent(t event.EventType, payload any) {
	w.Events.Push(event.Event{
		Type:    t,
		Payload: payload,
		Tick:    w.tick.Load(),
	})
}

// Step dispatches pending events then runs every system once
func (w *World) Step(dt float64) {
	w.RunSafe(func() {
		w.StepLocked(dt)
	})
}

// StepLocked is Step for callers already holding the update lock
func (w *World) StepLocked(dt float64) {
	n := w.router.DispatchAll()
	w.statEvents.Add(int64(n))

	for _, s := range w.Systems() {
		s.Update(dt)
	}

	w.simTime.Add(dt)
	w.statTicks.Store(int64(w.tick.Add(1)))
	w.statDropped.Store(int64(w.Events.Dropped()))
}

// Flush dispatches pending events without advancing time
func (w *World) Flush() {
	w.RunSafe(func() {
		w.statEvents.Add(int64(w.router.DispatchAll()))
	})
}
