// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	Mesh        MeshConfig        `yaml:"mesh"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Wind        WindConfig        `yaml:"wind"`
	Failure     FailureConfig     `yaml:"failure"`
	Interaction InteractionConfig `yaml:"interaction"`
	Render      RenderConfig      `yaml:"render"`
	Terminal    TerminalConfig    `yaml:"terminal"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the window host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// MeshConfig holds the fabric grid layout.
type MeshConfig struct {
	Cols    int     `yaml:"cols"`
	Rows    int     `yaml:"rows"`
	Spacing float64 `yaml:"spacing"`
	Glyphs  string  `yaml:"glyphs"` // Repeating glyph source, row-major
}

// PhysicsConfig holds integration and constraint parameters.
// All accelerations are per sub-step squared; there is no wall-clock dt.
type PhysicsConfig struct {
	SubSteps    int     `yaml:"sub_steps"`
	Stiffness   float64 `yaml:"stiffness"`
	Gravity     float64 `yaml:"gravity"`
	Damping     float64 `yaml:"damping"`    // Velocity retention per sub-step (<= 1)
	ClockStep   float64 `yaml:"clock_step"` // Noise clock advance per sub-step
	Epsilon     float64 `yaml:"epsilon"`    // Distance floor for relaxation
	GroundClamp bool    `yaml:"ground_clamp"`
}

// WindConfig holds the horizontal wind field parameters.
type WindConfig struct {
	Source   string  `yaml:"source"` // "simplex" or "perlin"
	Seed     int64   `yaml:"seed"`
	Scale    float64 `yaml:"scale"`    // Spatial frequency applied to positions
	Strength float64 `yaml:"strength"` // Peak horizontal acceleration
}

// FailureConfig holds structural failure parameters.
type FailureConfig struct {
	UnpinThreshold      float64 `yaml:"unpin_threshold"`   // Stretch ratio that starts unpinning
	UnpinProbability    float64 `yaml:"unpin_probability"` // Per endpoint, per sub-step
	InfluenceRadius     float64 `yaml:"influence_radius"`  // Pointer distance beyond which nothing breaks
	MaxBreakProbability float64 `yaml:"max_break_probability"`
}

// InteractionConfig holds pointer handling parameters.
type InteractionConfig struct {
	PickRadius float64 `yaml:"pick_radius"`
	DragJitter float64 `yaml:"drag_jitter"`
}

// RenderConfig holds drawing parameters.
type RenderConfig struct {
	VisibleStretch float64 `yaml:"visible_stretch"` // Springs below this ratio are not drawn
	MaxStretch     float64 `yaml:"max_stretch"`     // Ratio at which line maps saturate
	LineAlphaMax   float64 `yaml:"line_alpha_max"`
	LineAlphaMin   float64 `yaml:"line_alpha_min"`
	LineWeightMax  float64 `yaml:"line_weight_max"`
	LineWeightMin  float64 `yaml:"line_weight_min"`
	LineJitterMax  float64 `yaml:"line_jitter_max"`
	MaxSpeed       float64 `yaml:"max_speed"` // Speed at which glyph tone saturates
	ToneSlow       uint8   `yaml:"tone_slow"`
	ToneFast       uint8   `yaml:"tone_fast"`
	ToneEdge       uint8   `yaml:"tone_edge"`
	ToneFree       uint8   `yaml:"tone_free"`
	Background     uint8   `yaml:"background"`
	FrameTone      uint8   `yaml:"frame_tone"`    // Outline around the grid as built
	FramePadding   float64 `yaml:"frame_padding"` // Gap between outline and outer particles
	FrameWeight    float64 `yaml:"frame_weight"`
	CullMargin     float64 `yaml:"cull_margin"`
	FontSize       float64 `yaml:"font_size"`
}

// TerminalConfig holds settings for the terminal host.
type TerminalConfig struct {
	CellWidth  float64 `yaml:"cell_width"`  // World units per column
	CellHeight float64 `yaml:"cell_height"` // World units per row
	TargetFPS  int     `yaml:"target_fps"`
	Spacing    float64 `yaml:"spacing"` // Overrides mesh.spacing in terminal mode (0 = keep)
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Ticks per stats window
	PerfWindow  int `yaml:"perf_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	GlyphRunes []rune // Mesh.Glyphs decoded once
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate reports the first parameter that cannot drive the simulation.
func (c *Config) Validate() error {
	switch {
	case c.Mesh.Spacing <= 0:
		return errors.New("mesh.spacing must be positive")
	case c.Mesh.Glyphs == "" || !utf8.ValidString(c.Mesh.Glyphs):
		return errors.New("mesh.glyphs must be a non-empty UTF-8 string")
	case c.Physics.SubSteps < 1:
		return errors.New("physics.sub_steps must be at least 1")
	case c.Physics.Damping < 0 || c.Physics.Damping > 1:
		return fmt.Errorf("physics.damping %v outside [0, 1]", c.Physics.Damping)
	case c.Physics.Epsilon <= 0:
		return errors.New("physics.epsilon must be positive")
	case c.Wind.Source != "simplex" && c.Wind.Source != "perlin":
		return fmt.Errorf("wind.source %q: want simplex or perlin", c.Wind.Source)
	case c.Failure.InfluenceRadius <= 0:
		return errors.New("failure.influence_radius must be positive")
	case c.Failure.UnpinProbability < 0 || c.Failure.UnpinProbability > 1:
		return fmt.Errorf("failure.unpin_probability %v outside [0, 1]", c.Failure.UnpinProbability)
	case c.Failure.MaxBreakProbability < 0 || c.Failure.MaxBreakProbability > 1:
		return fmt.Errorf("failure.max_break_probability %v outside [0, 1]", c.Failure.MaxBreakProbability)
	case c.Render.LineAlphaMin < 0 || c.Render.LineAlphaMin > 255:
		return fmt.Errorf("render.line_alpha_min %v outside [0, 255]", c.Render.LineAlphaMin)
	case c.Render.LineAlphaMax < 0 || c.Render.LineAlphaMax > 255:
		return fmt.Errorf("render.line_alpha_max %v outside [0, 255]", c.Render.LineAlphaMax)
	case c.Render.MaxStretch <= c.Render.VisibleStretch:
		return errors.New("render.max_stretch must exceed render.visible_stretch")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.GlyphRunes = []rune(c.Mesh.Glyphs)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
