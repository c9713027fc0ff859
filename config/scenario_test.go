package config

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/missile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ExampleScenario(t *testing.T) {
	sc, err := Load("testdata/intercept.toml")
	require.NoError(t, err)

	assert.Equal(t, int64(7), sc.Simulation.Seed)
	assert.Equal(t, 2, sc.Simulation.Workers)
	require.Len(t, sc.Targets, 2)
	assert.Equal(t, "weave", sc.Targets[0].Motion)
	assert.Equal(t, mgl64.Vec3{-6, 0, 0}, sc.Targets[0].Velocity)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, sc.Targets[0].Axis)
	assert.Equal(t, mgl64.Vec3{}, sc.Targets[1].Axis)
	require.Len(t, sc.Launches, 2)
	assert.Equal(t, "drone", sc.Launches[1].TargetName)

	p, err := sc.Params()
	require.NoError(t, err)
	assert.Equal(t, 6, p.ClusterSize)
	assert.True(t, p.PursuitAugmentedPN)
	assert.True(t, math.IsInf(p.PursuitMaxVelocity, 1))
	assert.Equal(t, 40.0, p.PursuitMaxAcc)
	assert.Equal(t, 1.5, p.AtTargetDistance)
	assert.IsType(t, missile.RingGenerator{}, p.SpawnGenerator)
	// Unset keys keep their defaults
	assert.Equal(t, missile.DefaultParams().EjectionAcc, p.EjectionAcc)
	assert.Equal(t, float32(0.8), p.Visual.SmokeColor.R)

	cues := sc.Cues()
	require.Len(t, cues, 6)
	assert.Equal(t, event.EventTargetSpawnRequest, cues[0].Type)
	assert.Equal(t, event.EventClusterLaunchRequest, cues[2].Type)
	spawn, ok := cues[0].Payload.(*event.TargetSpawnPayload)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, spawn.Axis)

	destroy, ok := cues[4].Payload.(*event.TargetDestroyPayload)
	require.True(t, ok)
	assert.Equal(t, "drone", destroy.Name)
	assert.Equal(t, event.EventSiteClear, cues[5].Type)
	assert.Nil(t, cues[5].Payload)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":        "[pursuit]\nnavigation_gian = 3.0\n",
		"bad syntax":         "[pursuit\n",
		"unknown event":      "[[event]]\ntype = \"EventNope\"\n",
		"payload on nil":     "[[event]]\ntype = \"EventSiteClear\"\npayload = { id = 1 }\n",
		"unnamed target":     "[[target]]\nposition = [0.0, 0.0, 1.0]\n",
		"duplicate target":   "[[target]]\nname = \"a\"\n[[target]]\nname = \"a\"\n",
		"launch untargeted":  "[[launch]]\nat = 1.0\n",
		"launch unknown":     "[[launch]]\ntarget = \"x\"\n",
		"negative time":      "[[target]]\nname = \"a\"\nat = -1.0\n",
		"wrong vector arity": "[[target]]\nname = \"a\"\nposition = [1.0, 2.0]\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrScenario), "got %v", err)
		})
	}
}

func TestParams_NamesAndValidation(t *testing.T) {
	sc := Default()
	sc.Ejection.SpawnTransform = "sideways"
	_, err := sc.Params()
	assert.ErrorIs(t, err, ErrScenario)

	sc = Default()
	sc.Ejection.Generator = "cube"
	_, err = sc.Params()
	assert.ErrorIs(t, err, ErrScenario)

	sc = Default()
	sc.Pursuit.NavigationGain = 0
	_, err = sc.Params()
	assert.ErrorIs(t, err, missile.ErrInvalidParams)

	sc = Default()
	var hits int
	p, err := sc.Params(func(mgl64.Vec3, *missile.Params) { hits++ })
	require.NoError(t, err)
	require.Len(t, p.TargetHitHandlers, 1)
	p.TargetHitHandlers[0](mgl64.Vec3{}, p)
	assert.Equal(t, 1, hits)
}

func TestWrite_RoundTripsDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))
	assert.Contains(t, buf.String(), "[pursuit]")
	assert.Regexp(t, `max_velocity = \+?inf`, buf.String())

	sc, err := Parse(buf.String())
	require.NoError(t, err)

	want, err := Default().Params()
	require.NoError(t, err)
	got, err := sc.Params()
	require.NoError(t, err)
	assert.Equal(t, want.ClusterSize, got.ClusterSize)
	assert.Equal(t, want.Visual, got.Visual)
	assert.True(t, math.IsInf(got.PursuitMaxVelocity, 1))
}
