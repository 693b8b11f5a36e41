package config

import (
	"fmt"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/ballpit/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCount           = 200
	DefaultGravity         = 0.5
	DefaultFriction        = 0.9975
	DefaultWallBounce      = 0.95
	DefaultMinSize         = 0.5
	DefaultMaxSize         = 1.0
	DefaultAttraction      = 6.0
	DefaultAttractionRange = 3.0
	DefaultMaxSpeed        = 9.0
	DefaultMaxDt           = 1.0 / 20
	DefaultMaxSubsteps     = 4
	DefaultIterations      = 4
	DefaultDepth           = 4.0
	DefaultFOV             = 35.0
	DefaultDistance        = 20.0
	DefaultFPS             = 60
)

// DefaultColors is the palette used when none is configured.
var DefaultColors = []string{"#ff6b6b", "#feca57", "#48dbfb", "#1dd1a1", "#5f27cd"}

// Config is the immutable description of one mounted simulation.
type Config struct {
	Count           int            `yaml:"count"`
	Gravity         float64        `yaml:"gravity"`
	Friction        float64        `yaml:"friction"`
	WallBounce      float64        `yaml:"wall_bounce"`
	MinSize         float64        `yaml:"min_size"`
	MaxSize         float64        `yaml:"max_size"`
	Colors          []string       `yaml:"colors"`
	FollowCursor    bool           `yaml:"follow_cursor"`
	Attraction      float64        `yaml:"attraction"`
	AttractionRange float64        `yaml:"attraction_range"`
	MaxSpeed        float64        `yaml:"max_speed"`
	Seed            int64          `yaml:"seed"`
	MaxDt           float64        `yaml:"max_dt"`
	FixedStep       float64        `yaml:"fixed_step"`
	MaxSubsteps     int            `yaml:"max_substeps"`
	Iterations      int            `yaml:"iterations"`
	Depth           float64        `yaml:"depth"`
	FPS             int            `yaml:"fps"`
	Camera          CameraConfig   `yaml:"camera"`
	Lighting        LightingConfig `yaml:"lighting"`
}

// CameraConfig describes the perspective used to map the surface onto simulation space.
type CameraConfig struct {
	FOV      float64 `yaml:"fov"`
	Distance float64 `yaml:"distance"`
}

// LightingConfig is handed to the renderer untouched; physics never reads it.
type LightingConfig struct {
	AmbientColor     string  `yaml:"ambient_color"`
	AmbientIntensity float64 `yaml:"ambient_intensity"`
	LightIntensity   float64 `yaml:"light_intensity"`
}

func DefaultConfig() *Config {
	colors := make([]string, len(DefaultColors))
	copy(colors, DefaultColors)
	return &Config{
		Count:           DefaultCount,
		Gravity:         DefaultGravity,
		Friction:        DefaultFriction,
		WallBounce:      DefaultWallBounce,
		MinSize:         DefaultMinSize,
		MaxSize:         DefaultMaxSize,
		Colors:          colors,
		FollowCursor:    true,
		Attraction:      DefaultAttraction,
		AttractionRange: DefaultAttractionRange,
		MaxSpeed:        DefaultMaxSpeed,
		MaxDt:           DefaultMaxDt,
		MaxSubsteps:     DefaultMaxSubsteps,
		Iterations:      DefaultIterations,
		Depth:           DefaultDepth,
		FPS:             DefaultFPS,
		Camera: CameraConfig{
			FOV:      DefaultFOV,
			Distance: DefaultDistance,
		},
		Lighting: LightingConfig{
			AmbientColor:     "#ffffff",
			AmbientIntensity: 1.0,
			LightIntensity:   200,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets and loaded files never alias.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Colors = make([]string, len(c.Colors))
	copy(cp.Colors, c.Colors)
	return &cp
}

// Validate reports the first field that cannot start a simulation. Values are never clamped.
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return dynamo.NewConfigurationError("count", c.Count, "must be positive")
	}
	if !finite(c.Gravity) {
		return dynamo.NewConfigurationError("gravity", c.Gravity, "must be finite")
	}
	if !unit(c.Friction) {
		return dynamo.NewConfigurationError("friction", c.Friction, "must be in [0,1]")
	}
	if !unit(c.WallBounce) {
		return dynamo.NewConfigurationError("wall_bounce", c.WallBounce, "must be in [0,1]")
	}
	if !(c.MinSize > 0) || !finite(c.MinSize) {
		return dynamo.NewConfigurationError("min_size", c.MinSize, "must be positive")
	}
	if !(c.MaxSize > 0) || !finite(c.MaxSize) {
		return dynamo.NewConfigurationError("max_size", c.MaxSize, "must be positive")
	}
	if c.MinSize > c.MaxSize {
		return dynamo.NewConfigurationError("min_size", c.MinSize, fmt.Sprintf("exceeds max_size %v", c.MaxSize))
	}
	if len(c.Colors) == 0 {
		return dynamo.NewConfigurationError("colors", c.Colors, "palette must not be empty")
	}
	if _, err := c.Palette(); err != nil {
		return err
	}
	if c.Attraction < 0 || !finite(c.Attraction) {
		return dynamo.NewConfigurationError("attraction", c.Attraction, "must be non-negative")
	}
	if c.AttractionRange <= 0 || !finite(c.AttractionRange) {
		return dynamo.NewConfigurationError("attraction_range", c.AttractionRange, "must be positive")
	}
	if c.MaxSpeed < 0 || !finite(c.MaxSpeed) {
		return dynamo.NewConfigurationError("max_speed", c.MaxSpeed, "must be non-negative")
	}
	if c.MaxDt <= 0 || !finite(c.MaxDt) {
		return dynamo.NewConfigurationError("max_dt", c.MaxDt, "must be positive")
	}
	if c.FixedStep < 0 || c.FixedStep > c.MaxDt || !finite(c.FixedStep) {
		return dynamo.NewConfigurationError("fixed_step", c.FixedStep, "must be in [0, max_dt]")
	}
	if c.FixedStep > 0 && c.MaxSubsteps <= 0 {
		return dynamo.NewConfigurationError("max_substeps", c.MaxSubsteps, "must be positive with fixed_step")
	}
	if c.Iterations <= 0 {
		return dynamo.NewConfigurationError("iterations", c.Iterations, "must be positive")
	}
	if c.Depth <= 0 || !finite(c.Depth) {
		return dynamo.NewConfigurationError("depth", c.Depth, "must be positive")
	}
	if c.FPS <= 0 {
		return dynamo.NewConfigurationError("fps", c.FPS, "must be positive")
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 || !finite(c.Camera.FOV) {
		return dynamo.NewConfigurationError("camera.fov", c.Camera.FOV, "must be in (0,180)")
	}
	if c.Camera.Distance <= 0 || !finite(c.Camera.Distance) {
		return dynamo.NewConfigurationError("camera.distance", c.Camera.Distance, "must be positive")
	}
	return nil
}

// Palette parses the configured hex colors.
func (c *Config) Palette() ([]colorful.Color, error) {
	palette := make([]colorful.Color, 0, len(c.Colors))
	for i, hex := range c.Colors {
		col, err := colorful.Hex(hex)
		if err != nil {
			return nil, dynamo.NewConfigurationError(fmt.Sprintf("colors[%d]", i), hex, "not a #rrggbb color")
		}
		palette = append(palette, col)
	}
	return palette, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
