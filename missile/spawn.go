package missile

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/lixenwraith/salvo/vmath"
)

// SpawnBody is one cluster member in the generator's local frame (+Z is launch forward)
type SpawnBody struct {
	Offset    mgl64.Vec3
	Direction mgl64.Vec3 // unit ejection direction
}

// SpawnGenerator samples the local geometry of a cluster
// Must be deterministic for a given count
type SpawnGenerator interface {
	Generate(count int) []SpawnBody
}

// goldenAngle spaces Fibonacci lattice points around the polar axis
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SphereGenerator spreads members over a sphere with a Fibonacci lattice, ejecting radially
type SphereGenerator struct {
	Radius float64
}

func (g SphereGenerator) Generate(count int) []SpawnBody {
	bodies := make([]SpawnBody, 0, count)
	for i := 0; i < count; i++ {
		z := 1 - 2*(float64(i)+0.5)/float64(count)
		r := math.Sqrt(math.Max(0, 1-z*z))
		theta := goldenAngle * float64(i)
		dir := mgl64.Vec3{r * math.Cos(theta), r * math.Sin(theta), z}
		bodies = append(bodies, SpawnBody{Offset: dir.Mul(g.Radius), Direction: dir})
	}
	return bodies
}

// RingGenerator places members on a ring around the forward axis
// Spread tilts each ejection direction outward from +Z; 0 launches straight ahead
type RingGenerator struct {
	Radius float64
	Spread float64 // radians
}

func (g RingGenerator) Generate(count int) []SpawnBody {
	bodies := make([]SpawnBody, 0, count)
	for i := 0; i < count; i++ {
		theta := 2 * math.Pi * float64(i) / float64(count)
		radial := mgl64.Vec3{math.Cos(theta), math.Sin(theta), 0}
		dir := radial.Mul(math.Sin(g.Spread)).Add(vmath.ForwardAxis.Mul(math.Cos(g.Spread)))
		bodies = append(bodies, SpawnBody{Offset: radial.Mul(g.Radius), Direction: dir})
	}
	return bodies
}

// TransformAtLauncher centers the cluster on the launcher without rotating it
func TransformAtLauncher(_ Target, launcherPos, _ mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(launcherPos.X(), launcherPos.Y(), launcherPos.Z())
}

// TransformFacingTarget centers on the launcher with the local +Z axis aimed at the target
func TransformFacingTarget(target Target, launcherPos, launcherVel mgl64.Vec3) mgl64.Mat4 {
	pos, _, ok := resolveTarget(target)
	if !ok {
		return TransformAtLauncher(target, launcherPos, launcherVel)
	}
	return placeFacing(launcherPos, pos.Sub(launcherPos))
}

// TransformAlongVelocity centers on the launcher with the local +Z axis along its velocity
func TransformAlongVelocity(target Target, launcherPos, launcherVel mgl64.Vec3) mgl64.Mat4 {
	return placeFacing(launcherPos, launcherVel)
}

func placeFacing(origin, dir mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(origin.X(), origin.Y(), origin.Z())
	return t.Mul4(vmath.QuatFacing(dir).Mat4())
}

var spawnTransforms = map[string]SpawnTransform{
	"launcher":       TransformAtLauncher,
	"facing_target":  TransformFacingTarget,
	"along_velocity": TransformAlongVelocity,
}

// LookupSpawnTransform resolves a stock transform by name
func LookupSpawnTransform(name string) (SpawnTransform, bool) {
	t, ok := spawnTransforms[name]
	return t, ok
}

// SpawnTransformNames lists the registered transform names, sorted
func SpawnTransformNames() []string {
	names := make([]string, 0, len(spawnTransforms))
	for n := range spawnTransforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SpawnCluster launches one cluster with a NopObserver and randomness seeded from p.Seed
// Controllers are returned unowned; the caller ticks them
func SpawnCluster(target Target, launcherPos, launcherVel mgl64.Vec3, p *Params) ([]*Controller, error) {
	rng := rand.New(rand.NewSource(p.Seed))
	return spawnCluster(target, launcherPos, launcherVel, p, NopObserver{}, rng)
}

func spawnCluster(target Target, launcherPos, launcherVel mgl64.Vec3, p *Params, obs Observer, rng *rand.Rand) ([]*Controller, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil params", ErrInvalidParams)
	}
	if _, _, ok := resolveTarget(target); !ok {
		return nil, ErrNoTarget
	}

	placement := p.SpawnTxfm(target, launcherPos, launcherVel)
	clusterPos := vmath.TransformOrigin(placement)
	clusterVel := launcherVel

	bodies := p.SpawnGenerator.Generate(p.ClusterSize)
	controllers := make([]*Controller, 0, len(bodies))
	for i, b := range bodies {
		id, err := newID(rng)
		if err != nil {
			return nil, fmt.Errorf("missile id: %w", err)
		}

		dir := vmath.TransformDirection(placement, b.Direction)
		s := State{
			ID:          id,
			Index:       i,
			Seed:        rng.Uint64(),
			Orientation: vmath.QuatFacing(dir),
			Target:      target,
			Params:      p,
		}
		s.Position = vmath.TransformPoint(placement, b.Offset.Mul(p.SpawnDistanceScale))
		s.Velocity = clusterVel.Add(dir.Mul(p.EjectionVelocity))

		controllers = append(controllers, NewController(s, p.CreateEjection(&s, clusterPos, clusterVel), obs))
	}
	return controllers, nil
}

// newID draws a version-4 UUID from the site's seeded source
func newID(r io.Reader) (uuid.UUID, error) {
	return uuid.NewRandomFromReader(r)
}
