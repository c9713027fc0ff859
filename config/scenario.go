package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/parameter"
)

// ErrScenario marks a malformed scenario file
var ErrScenario = errors.New("invalid scenario")

// Scenario is a complete run description: weapon tuning, targets and a launch timeline
type Scenario struct {
	Simulation Simulation `toml:"simulation"`
	Ejection   Ejection   `toml:"ejection"`
	Pursuit    Pursuit    `toml:"pursuit"`
	TargetHit  TargetHit  `toml:"target_hit"`
	Visual     Visual     `toml:"visual"`

	Targets  []Target   `toml:"target,omitempty"`
	Launches []Launch   `toml:"launch,omitempty"`
	Events   []Scripted `toml:"event,omitempty"`

	// scripted events resolved against the event registry at parse time
	scripted []scriptedCue
}

type Simulation struct {
	Step         float64 `toml:"step"`
	Seed         int64   `toml:"seed"`
	Workers      int     `toml:"workers"`
	Duration     float64 `toml:"duration"` // headless run length, seconds
	DestroyOnHit bool    `toml:"destroy_on_hit"`
	Debug        bool    `toml:"debug"`
}

type Ejection struct {
	Velocity           float64 `toml:"velocity"`
	Acc                float64 `toml:"acc"`
	MaxRotationVel     float64 `toml:"max_rotation_vel"`
	ClusterSize        int     `toml:"cluster_size"`
	SpawnDistanceScale float64 `toml:"spawn_distance_scale"`
	SpawnTransform     string  `toml:"spawn_transform"`
	Generator          string  `toml:"generator"`
	GeneratorRadius    float64 `toml:"generator_radius"`
	GeneratorSpread    float64 `toml:"generator_spread"`
}

type Pursuit struct {
	ActivationTime    float64 `toml:"activation_time"`
	NavigationGain    float64 `toml:"navigation_gain"`
	Augmented         bool    `toml:"augmented"`
	HitTimeCorrection bool    `toml:"hit_time_correction"`
	HitTime           float64 `toml:"hit_time"`
	MaxVelocity       float64 `toml:"max_velocity"` // inf allowed
	MaxAcc            float64 `toml:"max_acc"`
}

type TargetHit struct {
	Distance  float64 `toml:"distance"`
	Terminate bool    `toml:"terminate"`
}

type Visual struct {
	RotationRate          float64      `toml:"rotation_rate"`
	Mesh                  string       `toml:"mesh"`
	BodyScale             float64      `toml:"body_scale"`
	SmokeTexture          string       `toml:"smoke_texture"`
	SmokeSpriteRects      [][4]float32 `toml:"smoke_sprite_rects,omitempty"`
	SmokeColor            [4]float32   `toml:"smoke_color"`
	FrequencyMin          float64      `toml:"frequency_min"`
	FrequencyMax          float64      `toml:"frequency_max"`
	PerEmissionMin        int          `toml:"per_emission_min"`
	PerEmissionMax        int          `toml:"per_emission_max"`
	EjectionSmokeSizeMin  float64      `toml:"ejection_smoke_size_min"`
	EjectionSmokeSizeMax  float64      `toml:"ejection_smoke_size_max"`
	EjectionSmokeDuration float64      `toml:"ejection_smoke_duration"`
	InnerFlameColor       [4]float32   `toml:"inner_flame_color"`
	OuterFlameColor       [4]float32   `toml:"outer_flame_color"`
	JetPosition           float64      `toml:"jet_position"`
	FlameSmokeSizeMin     float64      `toml:"flame_smoke_size_min"`
	FlameSmokeSizeMax     float64      `toml:"flame_smoke_size_max"`
	FlameSmokeDuration    float64      `toml:"flame_smoke_duration"`
	ExplosionSize         float64      `toml:"explosion_size"`
	ExplosionDuration     float64      `toml:"explosion_duration"`
}

// Target is a body created at At seconds
type Target struct {
	At float64 `toml:"at"`
	event.TargetSpawnPayload
}

// Launch fires one cluster at At seconds
type Launch struct {
	At float64 `toml:"at"`
	event.LaunchRequestPayload
}

// Scripted is any registered event by name, payload decoded into its registered struct
type Scripted struct {
	At      float64         `toml:"at"`
	Type    string          `toml:"type"`
	Payload *toml.Primitive `toml:"payload,omitempty"`
}

type scriptedCue struct {
	at      float64
	et      event.EventType
	payload any
}

// Default returns the stock scenario without targets or launches
func Default() *Scenario {
	sc := &Scenario{}
	sc.fromParams()
	sc.Simulation.Duration = 20
	sc.Simulation.DestroyOnHit = true
	return sc
}

// Load reads and parses a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	sc, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario over the defaults; keys absent from data keep their default
func Parse(data string) (*Scenario, error) {
	sc := Default()
	md, err := toml.Decode(data, sc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScenario, err)
	}

	for i, s := range sc.Events {
		et, ok := event.GetEventType(s.Type)
		if !ok || et == event.EventTick {
			return nil, fmt.Errorf("%w: event[%d]: unknown type %q", ErrScenario, i, s.Type)
		}
		payload := event.NewPayloadStruct(et)
		if payload != nil && s.Payload != nil {
			if err := md.PrimitiveDecode(*s.Payload, payload); err != nil {
				return nil, fmt.Errorf("%w: event[%d] payload: %w", ErrScenario, i, err)
			}
		}
		sc.scripted = append(sc.scripted, scriptedCue{at: s.At, et: et, payload: payload})
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrScenario, undecoded)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks timeline and target entries; weapon tuning is checked by Params
func (sc *Scenario) Validate() error {
	if sc.Simulation.Duration < 0 {
		return fmt.Errorf("%w: simulation.duration %v < 0", ErrScenario, sc.Simulation.Duration)
	}
	names := make(map[string]bool, len(sc.Targets))
	for i, t := range sc.Targets {
		if t.At < 0 {
			return fmt.Errorf("%w: target[%d].at %v < 0", ErrScenario, i, t.At)
		}
		if t.Name == "" {
			return fmt.Errorf("%w: target[%d] needs a name", ErrScenario, i)
		}
		if names[t.Name] {
			return fmt.Errorf("%w: duplicate target %q", ErrScenario, t.Name)
		}
		names[t.Name] = true
	}
	for i, l := range sc.Launches {
		if l.At < 0 {
			return fmt.Errorf("%w: launch[%d].at %v < 0", ErrScenario, i, l.At)
		}
		if l.TargetName == "" && l.TargetID == 0 {
			return fmt.Errorf("%w: launch[%d] needs a target", ErrScenario, i)
		}
		if l.TargetName != "" && !names[l.TargetName] {
			return fmt.Errorf("%w: launch[%d]: unknown target %q", ErrScenario, i, l.TargetName)
		}
	}
	for i, s := range sc.Events {
		if s.At < 0 {
			return fmt.Errorf("%w: event[%d].at %v < 0", ErrScenario, i, s.At)
		}
	}
	return nil
}

// Write encodes sc as TOML
func Write(w io.Writer, sc *Scenario) error {
	enc := toml.NewEncoder(w)
	enc.Indent = ""
	if err := enc.Encode(sc); err != nil {
		return fmt.Errorf("write scenario: %w", err)
	}
	return nil
}

// Step returns the engine tick interval implied by the scenario
func (sc *Scenario) Step() float64 {
	if sc.Simulation.Step > 0 {
		return sc.Simulation.Step
	}
	return parameter.MissileSimulationStep
}

// Demo returns the built-in scenario: one time-on-target cluster against a crossing target
func Demo() *Scenario {
	sc := Default()
	sc.Simulation.Duration = 15
	sc.Pursuit.HitTimeCorrection = true
	sc.Pursuit.HitTime = 5
	sc.Targets = []Target{{
		TargetSpawnPayload: event.TargetSpawnPayload{
			Name:     "bandit",
			Position: [3]float64{20, 15, 90},
			Velocity: [3]float64{-4, 0, 0},
		},
	}}
	sc.Launches = []Launch{{
		LaunchRequestPayload: event.LaunchRequestPayload{TargetName: "bandit"},
	}}
	return sc
}
