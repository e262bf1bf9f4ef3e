package hyper4d

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rotation in degrees for config files (friendlier than radians).
type Rot4Deg struct {
	XY Real `json:"xy" yaml:"xy"`
	XZ Real `json:"xz" yaml:"xz"`
	XW Real `json:"xw" yaml:"xw"`
	YZ Real `json:"yz" yaml:"yz"`
	YW Real `json:"yw" yaml:"yw"`
	ZW Real `json:"zw" yaml:"zw"`
}

func (r Rot4Deg) Radians() Rot4 {
	const k = math.Pi / 180
	return Rot4{
		XY: r.XY * k, XZ: r.XZ * k, XW: r.XW * k,
		YZ: r.YZ * k, YW: r.YW * k, ZW: r.ZW * k,
	}
}

// Signal sources.
const (
	SignalSynthetic = "synthetic"
	SignalIdle      = "idle"
)

type Config struct {
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	FPS      int    `json:"fps" yaml:"fps"`
	Scale    Real   `json:"scale" yaml:"scale"`
	Focus    string `json:"focus,omitempty" yaml:"focus,omitempty"`
	Signal   string `json:"signal,omitempty" yaml:"signal,omitempty"`
	Seed     int64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	EaseRate Real   `json:"easeRate,omitempty" yaml:"easeRate,omitempty"`
	// Snap disables scale easing.
	Snap bool `json:"snap,omitempty" yaml:"snap,omitempty"`
	// NoBrainRotation turns off the DataBrain's per-layer view rotation.
	NoBrainRotation bool `json:"noBrainRotation,omitempty" yaml:"noBrainRotation,omitempty"`

	RotDeg      Rot4Deg `json:"rotDeg" yaml:"rotDeg"`
	Dimension   Real    `json:"dimension" yaml:"dimension"`
	GridDensity Real    `json:"gridDensity" yaml:"gridDensity"`
	Chaos       Real    `json:"chaos,omitempty" yaml:"chaos,omitempty"`
	Speed       Real    `json:"speed" yaml:"speed"`
	Hue         Real    `json:"hue" yaml:"hue"`
	Saturation  Real    `json:"saturation" yaml:"saturation"`
	Intensity   Real    `json:"intensity" yaml:"intensity"`
	Coherence   Real    `json:"coherence,omitempty" yaml:"coherence,omitempty"`

	// headless output
	Frames   int    `json:"frames,omitempty" yaml:"frames,omitempty"`
	GIFOut   string `json:"gifOut,omitempty" yaml:"gifOut,omitempty"`
	GIFDelay int    `json:"gifDelay,omitempty" yaml:"gifDelay,omitempty"`
	Gamma    Real   `json:"gamma,omitempty" yaml:"gamma,omitempty"`
	PNG      bool   `json:"png,omitempty" yaml:"png,omitempty"`
	Snapshot string `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// DefaultConfig returns a config with every default applied. Hue is seeded
// here rather than in applyDefaults since 0° is a valid hue.
func DefaultConfig() *Config {
	cfg := &Config{Hue: Hue}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Width <= 0 {
		cfg.Width = Width
	}
	if cfg.Height <= 0 {
		cfg.Height = Height
	}
	if cfg.FPS <= 0 {
		cfg.FPS = FPS
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Focus == "" {
		cfg.Focus = TrilaticAll.String()
	}
	if cfg.Signal == "" {
		cfg.Signal = SignalSynthetic
	}
	if cfg.EaseRate <= 0 {
		cfg.EaseRate = DefaultEaseRate
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = Dimension
	}
	if cfg.GridDensity <= 0 {
		cfg.GridDensity = GridDensity
	}
	if cfg.Speed <= 0 {
		cfg.Speed = Speed
	}
	if cfg.Saturation <= 0 {
		cfg.Saturation = Saturation
	}
	if cfg.Intensity <= 0 {
		cfg.Intensity = Intensity
	}
	if cfg.Frames <= 0 {
		cfg.Frames = Frames
	}
	if cfg.GIFOut == "" {
		cfg.GIFOut = GIFOut
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
}

func (cfg *Config) validate() error {
	if _, ok := ParseTrilatic(cfg.Focus); !ok {
		return fmt.Errorf("unknown focus %q (want alpha, beta, gamma or all)", cfg.Focus)
	}
	switch cfg.Signal {
	case SignalSynthetic, SignalIdle:
	default:
		return fmt.Errorf("unknown signal source %q", cfg.Signal)
	}
	if cfg.Coherence < 0 || cfg.Coherence > 1 {
		return fmt.Errorf("coherence must be in [0,1], got %.6g", cfg.Coherence)
	}
	return nil
}

// Params returns the host parameter surface the config describes.
func (cfg *Config) Params() Params {
	r := cfg.RotDeg.Radians()
	return Params{
		RotXY: r.XY, RotXZ: r.XZ, RotYZ: r.YZ,
		RotXW: r.XW, RotYW: r.YW, RotZW: r.ZW,
		Dimension:   cfg.Dimension,
		GridDensity: cfg.GridDensity,
		Chaos:       cfg.Chaos,
		Speed:       cfg.Speed,
		Hue:         cfg.Hue,
		Intensity:   cfg.Intensity,
		Saturation:  cfg.Saturation,
		Coherence:   cfg.Coherence,
	}
}

// LoadConfig reads JSON, or YAML when the extension is .yaml/.yml.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Config{Hue: Hue}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	DebugLog("Loaded config from %s: size=(%d, %d), fps=%d, signal=%s, focus=%s", path, cfg.Width, cfg.Height, cfg.FPS, cfg.Signal, cfg.Focus)
	return &cfg, nil
}
