package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"zero-g": withChanges(func(c *Config) {
		c.Gravity = 0
		c.Friction = 0.999
		c.WallBounce = 1.0
		c.Count = 120
	}),
	"heavy": withChanges(func(c *Config) {
		c.Gravity = 4.0
		c.WallBounce = 0.4
		c.Friction = 0.99
	}),
	"sparse": withChanges(func(c *Config) {
		c.Count = 40
		c.MinSize = 0.3
		c.MaxSize = 0.6
	}),
	"crowd": withChanges(func(c *Config) {
		c.Count = 350
		c.MinSize = 0.3
		c.MaxSize = 0.7
		c.Iterations = 5
	}),
	"mono": withChanges(func(c *Config) {
		c.Colors = []string{"#eeeeee", "#bbbbbb", "#777777"}
		c.FollowCursor = false
	}),
	"deterministic": withChanges(func(c *Config) {
		c.Seed = 42
		c.FixedStep = 1.0 / 120
	}),
}

func withChanges(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil when it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
