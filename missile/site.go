package missile

import (
	"context"
	"fmt"
	"math/rand"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Site is a launch site: spawns clusters and owns the active controllers
// All methods must be called from one goroutine; Step fans out internally
type Site struct {
	params      *Params
	observer    Observer
	workers     int
	rng         *rand.Rand
	controllers []*Controller
	accum       float64
	ticks       uint64
}

// SiteOption configures a Site
type SiteOption func(*Site)

// WithObserver routes emissions and retirements to obs
func WithObserver(obs Observer) SiteOption {
	return func(s *Site) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithWorkers bounds the goroutines advancing missiles in one step; <= 1 runs sequentially
func WithWorkers(n int) SiteOption {
	return func(s *Site) { s.workers = n }
}

// WithSeed overrides Params.Seed for IDs and emission cadence
func WithSeed(seed int64) SiteOption {
	return func(s *Site) { s.rng = rand.New(rand.NewSource(seed)) }
}

// NewSite builds a launch site for one weapon configuration
func NewSite(p *Params, opts ...SiteOption) (*Site, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Site{
		params:   p,
		observer: NopObserver{},
		workers:  1,
		rng:      rand.New(rand.NewSource(p.Seed)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Site) Params() *Params { return s.params }

// Ticks is the number of fixed steps taken
func (s *Site) Ticks() uint64 { return s.ticks }

// SpawnCluster launches ClusterSize missiles at target and takes ownership of them
func (s *Site) SpawnCluster(target Target, launcherPos, launcherVel mgl64.Vec3) ([]*Controller, error) {
	cs, err := spawnCluster(target, launcherPos, launcherVel, s.params, s.observer, s.rng)
	if err != nil {
		return nil, err
	}
	s.controllers = append(s.controllers, cs...)
	return cs, nil
}

// Step advances every active missile by one SimulationStep
// Computation may run in parallel; notifications are delivered afterward in spawn order
func (s *Site) Step(ctx context.Context) error {
	dt := s.params.SimulationStep
	// Observers may Remove, Clear or spawn during dispatch, which rewrites s.controllers
	active := slices.Clone(s.controllers)

	if s.workers <= 1 || len(active) < 2 {
		for _, c := range active {
			if err := ctx.Err(); err != nil {
				s.retire()
				return err
			}
			c.Tick(dt)
		}
		s.ticks++
		s.retire()
		return nil
	}

	reports := make([]report, len(active))
	stepped := make([]bool, len(active))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range active {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = c.step(dt)
			stepped[i] = true
			return nil
		})
	}
	err := g.Wait()

	for i, c := range active {
		if !stepped[i] {
			continue
		}
		// Cancelled by an earlier dispatch; its own retirement is already delivered
		if !c.Active() && reports[i].retirement == nil {
			continue
		}
		c.dispatch(reports[i])
	}
	s.retire()
	if err != nil {
		return err
	}
	s.ticks++
	return nil
}

// Advance consumes elapsed wall time in whole SimulationSteps, carrying the remainder
// Returns the number of steps taken
func (s *Site) Advance(ctx context.Context, elapsed float64) (int, error) {
	if elapsed > 0 {
		s.accum += elapsed
	}
	step := s.params.SimulationStep
	n := 0
	for s.accum+timeEpsilon >= step {
		if err := s.Step(ctx); err != nil {
			return n, err
		}
		s.accum -= step
		n++
	}
	if s.accum < 0 {
		s.accum = 0
	}
	return n, nil
}

// Remove cancels and drops the missile with id; false if not found
func (s *Site) Remove(id uuid.UUID) bool {
	for _, c := range s.controllers {
		if c.ID() == id {
			c.Cancel()
			s.retire()
			return true
		}
	}
	return false
}

// Active returns the live controllers in spawn order
func (s *Site) Active() []*Controller {
	out := make([]*Controller, len(s.controllers))
	copy(out, s.controllers)
	return out
}

func (s *Site) Len() int { return len(s.controllers) }

// Clear cancels every missile
func (s *Site) Clear() {
	for _, c := range s.controllers {
		c.Cancel()
	}
	s.controllers = s.controllers[:0]
	s.accum = 0
}

// retire compacts terminated controllers out of the active set
func (s *Site) retire() {
	live := s.controllers[:0]
	for _, c := range s.controllers {
		if c.Active() {
			live = append(live, c)
		}
	}
	clear(s.controllers[len(live):])
	s.controllers = live
}
