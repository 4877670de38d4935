package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrSectionNotFound = errors.New("prefabs: section not found")

const DefaultConfigFile = "game.yaml"

// Config is the whole game configuration. Viewports and Objects are named
// sections the engine creates things from.
type Config struct {
	Display   DisplaySpec                 `yaml:"display"`
	Clock     ClockSpec                   `yaml:"clock"`
	Physics   PhysicsSpec                 `yaml:"physics"`
	Input     map[string]InputBindingSpec `yaml:"input"`
	Viewports map[string]ViewportSpec     `yaml:"viewports"`
	Objects   map[string]EntityBuildSpec  `yaml:"objects"`
}

type DisplaySpec struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type ClockSpec struct {
	// Frequency is the number of core clock ticks per second.
	Frequency int     `yaml:"frequency"`
	MaxDT     float64 `yaml:"max_dt"`
}

type PhysicsSpec struct {
	Gravity    VectorSpec `yaml:"gravity"`
	Damping    float64    `yaml:"damping"`
	Iterations int        `yaml:"iterations"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type InputBindingSpec struct {
	Keys           []string `yaml:"keys"`
	GamepadButtons []string `yaml:"gamepad_buttons"`
}

type ViewportSpec struct {
	Camera          string     `yaml:"camera"`
	BackgroundColor *YAMLColor `yaml:"background_color"`
	// Rect is the screen area in pixels; unset means the whole screen.
	Rect *RectSpec `yaml:"rect"`
}

type RectSpec struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

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

// LoadConfig reads a config file, preferring the on-disk copy.
func LoadConfig(filename string) (*Config, error) {
	cfg, err := LoadSpec[Config](filename)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// ParseConfig decodes a config document held in memory.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Display.Title == "" {
		c.Display.Title = "AdventureTycoon"
	}
	if c.Display.Width <= 0 {
		c.Display.Width = 1280
	}
	if c.Display.Height <= 0 {
		c.Display.Height = 720
	}
	if c.Clock.Frequency <= 0 {
		c.Clock.Frequency = 60
	}
	if c.Physics.Damping <= 0 {
		c.Physics.Damping = 1
	}
	if c.Physics.Iterations <= 0 {
		c.Physics.Iterations = 10
	}
}

// Object returns the named entity section.
func (c *Config) Object(name string) (EntityBuildSpec, error) {
	if c == nil {
		return EntityBuildSpec{}, fmt.Errorf("object %q: %w", name, ErrSectionNotFound)
	}
	spec, ok := c.Objects[name]
	if !ok {
		return EntityBuildSpec{}, fmt.Errorf("object %q: %w", name, ErrSectionNotFound)
	}
	if spec.Name == "" {
		spec.Name = name
	}
	return spec, nil
}

// Viewport returns the named viewport section.
func (c *Config) Viewport(name string) (ViewportSpec, error) {
	if c == nil {
		return ViewportSpec{}, fmt.Errorf("viewport %q: %w", name, ErrSectionNotFound)
	}
	spec, ok := c.Viewports[name]
	if !ok {
		return ViewportSpec{}, fmt.Errorf("viewport %q: %w", name, ErrSectionNotFound)
	}
	return spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(value string) (color.NRGBA, error) {
	s := strings.TrimPrefix(value, "#")

	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return color.NRGBA{}, err
	}
	g, err := parse(2)
	if err != nil {
		return color.NRGBA{}, err
	}
	b, err := parse(4)
	if err != nil {
		return color.NRGBA{}, err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return color.NRGBA{}, err
		}
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
