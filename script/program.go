// Package script runs tengo motion programs that drive joint speeds.
//
// A program sees the globals elapsed (seconds since the session started) and dt
// (the current frame's elapsed time) and publishes a map named speeds keyed by
// joint name. Joints it leaves out keep their current speed.
package script

import (
	"fmt"
	"sort"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/roboticarm/prefabs"
	"github.com/milk9111/roboticarm/rig"
)

// SpeedSetter applies a speed to a joint.
type SpeedSetter func(id rig.JointID, speed float64) error

type Program struct {
	name     string
	compiled *tengo.Compiled
}

// Load compiles the named program from the prefab scripts.
func Load(name string) (*Program, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile compiles src once; Update re-runs it each frame.
func Compile(name string, src []byte) (*Program, error) {
	s := tengo.NewScript(src)
	_ = s.Add("elapsed", 0.0)
	_ = s.Add("dt", 0.0)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Program{name: name, compiled: compiled}, nil
}

func (p *Program) Name() string {
	if p == nil {
		return ""
	}
	return p.name
}

// Update runs the program for time t and applies every speed it publishes,
// in joint order.
func (p *Program) Update(t, dt float64, set SpeedSetter) error {
	if p == nil || p.compiled == nil {
		return nil
	}
	if err := p.compiled.Set("elapsed", t); err != nil {
		return fmt.Errorf("script: %s: %w", p.name, err)
	}
	if err := p.compiled.Set("dt", dt); err != nil {
		return fmt.Errorf("script: %s: %w", p.name, err)
	}
	if err := p.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s: %w", p.name, err)
	}

	speeds, err := p.speeds()
	if err != nil {
		return err
	}
	ids := make([]rig.JointID, 0, len(speeds))
	for id := range speeds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if err := set(id, speeds[id]); err != nil {
			return fmt.Errorf("script: %s: %w", p.name, err)
		}
	}
	return nil
}

func (p *Program) speeds() (map[rig.JointID]float64, error) {
	if !p.compiled.IsDefined("speeds") {
		return nil, fmt.Errorf("script: %s does not define speeds", p.name)
	}
	v := p.compiled.Get("speeds")
	if v.ValueType() != "map" {
		return nil, fmt.Errorf("script: %s: speeds is %s, want map", p.name, v.ValueType())
	}

	out := map[rig.JointID]float64{}
	for name, raw := range v.Map() {
		id, ok := rig.ParseJointID(name)
		if !ok {
			return nil, fmt.Errorf("script: %s: unknown joint %q", p.name, name)
		}
		switch n := raw.(type) {
		case float64:
			out[id] = n
		case int64:
			out[id] = float64(n)
		default:
			return nil, fmt.Errorf("script: %s: speed for %s is %T", p.name, name, raw)
		}
	}
	return out, nil
}
