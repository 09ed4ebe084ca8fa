package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RigFile        = "rig.yaml"
	ControlsFile   = "controls.yaml"
	CameraFile     = "camera.yaml"
	SimulationFile = "simulation.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// RigSpec describes the arm: bodies in chain order from the fixed base to the
// head, and the joints between consecutive bodies.
type RigSpec struct {
	Name     string      `yaml:"name"`
	MaxForce float64     `yaml:"max_force"`
	Density  float64     `yaml:"density"`
	Bodies   []BodySpec  `yaml:"bodies"`
	Joints   []JointSpec `yaml:"joints"`
}

func LoadRigSpec() (*RigSpec, error) {
	spec, err := LoadSpec[RigSpec](RigFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BodySpec struct {
	Name   string     `yaml:"name"`
	Shape  string     `yaml:"shape"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Radius float64    `yaml:"radius"`
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	Mass   string     `yaml:"mass"`
	Sprite SpriteSpec `yaml:"sprite"`
}

type SpriteSpec struct {
	Image   string  `yaml:"image"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Scale   float64 `yaml:"scale"`
}

type JointSpec struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Parent string    `yaml:"parent"`
	Child  string    `yaml:"child"`
	AxisX  float64   `yaml:"axis_x"`
	AxisY  float64   `yaml:"axis_y"`
	Limit  LimitSpec `yaml:"limit"`
	Motor  MotorSpec `yaml:"motor"`
}

type LimitSpec struct {
	Enabled bool    `yaml:"enabled"`
	Lower   float64 `yaml:"lower"`
	Upper   float64 `yaml:"upper"`
}

type MotorSpec struct {
	Enabled  bool    `yaml:"enabled"`
	Speed    float64 `yaml:"speed"`
	MaxForce float64 `yaml:"max_force"`
}

// ControlsSpec maps keys to joint directions.
type ControlsSpec struct {
	BaseSpeed     float64       `yaml:"base_speed"`
	RotationSpeed float64       `yaml:"rotation_speed"`
	Fullscreen    string        `yaml:"fullscreen"`
	Debug         string        `yaml:"debug"`
	Copy          string        `yaml:"copy"`
	Bindings      []BindingSpec `yaml:"bindings"`
}

func LoadControlsSpec() (*ControlsSpec, error) {
	spec, err := LoadSpec[ControlsSpec](ControlsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type BindingSpec struct {
	Key       string `yaml:"key"`
	Joint     string `yaml:"joint"`
	Direction string `yaml:"direction"`
	Label     string `yaml:"label"`
}

type CameraSpec struct {
	RefWidth  float64 `yaml:"ref_width"`
	RefHeight float64 `yaml:"ref_height"`
	Zoom      float64 `yaml:"zoom"`
	ZoomStep  float64 `yaml:"zoom_step"`
	MinZoom   float64 `yaml:"min_zoom"`
	MaxZoom   float64 `yaml:"max_zoom"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec](CameraFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SimulationSpec struct {
	Gravity       float64    `yaml:"gravity"`
	Iterations    uint       `yaml:"iterations"`
	Substep       float64    `yaml:"substep"`
	MaxFrameDelta float64    `yaml:"max_frame_delta"`
	Background    *YAMLColor `yaml:"background"`
	DebugColor    *YAMLColor `yaml:"debug_color"`
}

func LoadSimulationSpec() (*SimulationSpec, error) {
	spec, err := LoadSpec[SimulationSpec](SimulationFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
