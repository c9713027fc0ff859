package telemetry

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Frame is one observation of the simulation, msgpack encoded on the wire
type Frame struct {
	Tick      uint64             `msgpack:"tick"`
	Time      float64            `msgpack:"time"`
	Missiles  []MissileFrame     `msgpack:"missiles"`
	Targets   []TargetFrame      `msgpack:"targets"`
	Particles int                `msgpack:"particles"`
	Metrics   map[string]float64 `msgpack:"metrics,omitempty"`
}

// MissileFrame is the observable state of one live missile
type MissileFrame struct {
	ID       string     `msgpack:"id"`
	Index    int        `msgpack:"index"`
	Phase    string     `msgpack:"phase"`
	TargetID uint64     `msgpack:"target"`
	Position [3]float64 `msgpack:"pos"`
	Velocity [3]float64 `msgpack:"vel"`
	Heading  [3]float64 `msgpack:"fwd"`
	Elapsed  float64    `msgpack:"t"`
}

// TargetFrame is the observable state of one target body
type TargetFrame struct {
	ID       uint64     `msgpack:"id"`
	Name     string     `msgpack:"name,omitempty"`
	Position [3]float64 `msgpack:"pos"`
	Velocity [3]float64 `msgpack:"vel"`
	Alive    bool       `msgpack:"alive"`
}

// Encode marshals f
func Encode(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}
	return data, nil
}

// Decode unmarshals one frame
func Decode(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return &f, nil
}
