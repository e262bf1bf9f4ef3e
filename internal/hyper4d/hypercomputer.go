package hyper4d

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Params is the flat parameter surface shared with the host application.
// Angles are radians, hue is degrees.
type Params struct {
	RotXY       Real `json:"rot4dXY" yaml:"rot4dXY" mapstructure:"rot4dXY"`
	RotXZ       Real `json:"rot4dXZ" yaml:"rot4dXZ" mapstructure:"rot4dXZ"`
	RotYZ       Real `json:"rot4dYZ" yaml:"rot4dYZ" mapstructure:"rot4dYZ"`
	RotXW       Real `json:"rot4dXW" yaml:"rot4dXW" mapstructure:"rot4dXW"`
	RotYW       Real `json:"rot4dYW" yaml:"rot4dYW" mapstructure:"rot4dYW"`
	RotZW       Real `json:"rot4dZW" yaml:"rot4dZW" mapstructure:"rot4dZW"`
	Dimension   Real `json:"dimension" yaml:"dimension" mapstructure:"dimension"`
	GridDensity Real `json:"gridDensity" yaml:"gridDensity" mapstructure:"gridDensity"`
	Chaos       Real `json:"chaos" yaml:"chaos" mapstructure:"chaos"`
	Speed       Real `json:"speed" yaml:"speed" mapstructure:"speed"`
	Hue         Real `json:"hue" yaml:"hue" mapstructure:"hue"`
	Intensity   Real `json:"intensity" yaml:"intensity" mapstructure:"intensity"`
	Saturation  Real `json:"saturation" yaml:"saturation" mapstructure:"saturation"`
	Coherence   Real `json:"coherence" yaml:"coherence" mapstructure:"coherence"`
}

// DefaultParams matches DefaultConfig().Params().
func DefaultParams() Params {
	return Params{
		Dimension:   Dimension,
		GridDensity: GridDensity,
		Chaos:       Chaos,
		Speed:       Speed,
		Hue:         Hue,
		Intensity:   Intensity,
		Saturation:  Saturation,
		Coherence:   Coherence,
	}
}

// Rotation returns the six angles as a Rot4.
func (p Params) Rotation() Rot4 {
	return Rot4{XY: p.RotXY, XZ: p.RotXZ, XW: p.RotXW, YZ: p.RotYZ, YW: p.RotYW, ZW: p.RotZW}
}

// sanitize replaces non-finite values with prev's and clamps ranges.
func (p Params) sanitize(prev Params) Params {
	fix := func(v *Real, old Real) {
		if !isFinite(*v) {
			*v = old
		}
	}
	fix(&p.RotXY, prev.RotXY)
	fix(&p.RotXZ, prev.RotXZ)
	fix(&p.RotYZ, prev.RotYZ)
	fix(&p.RotXW, prev.RotXW)
	fix(&p.RotYW, prev.RotYW)
	fix(&p.RotZW, prev.RotZW)
	fix(&p.Dimension, prev.Dimension)
	fix(&p.GridDensity, prev.GridDensity)
	fix(&p.Chaos, prev.Chaos)
	fix(&p.Speed, prev.Speed)
	fix(&p.Hue, prev.Hue)
	fix(&p.Intensity, prev.Intensity)
	fix(&p.Saturation, prev.Saturation)
	fix(&p.Coherence, prev.Coherence)
	// the camera must stay outside the unit polytope along W
	if p.Dimension < minDimension {
		p.Dimension = minDimension
	}
	if p.GridDensity < 1 {
		p.GridDensity = 1
	}
	p.Chaos = clamp01(p.Chaos)
	p.Speed = math.Max(p.Speed, 0)
	p.Intensity = clamp01(p.Intensity)
	p.Saturation = clamp01(p.Saturation)
	p.Coherence = clamp01(p.Coherence)
	return p
}

const minDimension = 1.5

// rotationKeys maps parameter names to the plane they drive.
var rotationKeys = map[string]Plane{
	"rot4dXY": PlaneXY,
	"rot4dXZ": PlaneXZ,
	"rot4dYZ": PlaneYZ,
	"rot4dXW": PlaneXW,
	"rot4dYW": PlaneYW,
	"rot4dZW": PlaneZW,
}

// HyperComputer owns one Hexastack and one ExclusionPipeline and drives the
// frame loop.
type HyperComputer struct {
	ID string
	// BrainRotation adds the DataBrain's per-layer double rotation to the
	// view of each layer.
	BrainRotation bool

	params Params
	signal string
	stack  *Hexastack
	pipe   *ExclusionPipeline
	brain  *DataBrain
	synth  *SyntheticSignal
	log    *zap.Logger

	lastEnergy Real
	breathing  uint64
	closed     bool
}

// New builds the constellation and the pipeline. Any pipeline construction
// error is returned unchanged and nothing is rendered.
func New(cfg *Config, dev Device, src ProgramSources, log *zap.Logger) (*HyperComputer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		c := *cfg
		c.applyDefaults()
		if err := c.validate(); err != nil {
			return nil, err
		}
		cfg = &c
	}
	if log == nil {
		log = zap.NewNop()
	}
	pipe, err := NewExclusionPipeline(dev, cfg.Width, cfg.Height, src, log)
	if err != nil {
		return nil, err
	}
	hc := &HyperComputer{
		ID:            uuid.NewString(),
		BrainRotation: !cfg.NoBrainRotation,
		params:        cfg.Params().sanitize(DefaultParams()),
		signal:        cfg.Signal,
		stack:         NewHexastack(cfg.Scale),
		pipe:          pipe,
		brain:         NewDataBrain(),
		synth:         NewSyntheticSignal(cfg.Seed),
	}
	hc.log = log.With(zap.String("session", hc.ID))
	focus, _ := ParseTrilatic(cfg.Focus)
	hc.stack.SetFocus(focus)
	for _, l := range hc.stack.Layers() {
		l.EaseRate = cfg.EaseRate
		l.Smooth = !cfg.Snap
	}
	hc.applyParams(hc.params, true)
	if pipe.Degraded() {
		hc.log.Warn("rendering degraded", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
	}
	hc.log.Info("hypercomputer ready",
		zap.Int("width", cfg.Width), zap.Int("height", cfg.Height),
		zap.String("signal", cfg.Signal), zap.String("focus", focus.String()))
	return hc, nil
}

// applyParams pushes params into the stack; rotation only when asked.
func (hc *HyperComputer) applyParams(p Params, rotation bool) {
	hc.params = p
	hc.stack.SetCoherence(p.Coherence)
	hc.stack.ApplyPalette(p.Hue, p.Saturation, p.Intensity)
	if rotation {
		r := p.Rotation()
		hc.stack.SetRotation(RotationParams{
			XY: &r.XY, XZ: &r.XZ, YZ: &r.YZ,
			XW: &r.XW, YW: &r.YW, ZW: &r.ZW,
		})
	}
}

// nextSignal picks live audio when it carries energy, else the configured
// generator. A nil result means silence.
func (hc *HyperComputer) nextSignal(dt Real, audio []Real) []Real {
	if len(audio) > 0 && Energy(audio) > EnergyFloor {
		return audio
	}
	if hc.signal == SignalSynthetic {
		s := hc.synth.Next(dt, hc.params.Speed, hc.params.Chaos)
		return s[:]
	}
	return nil
}

// viewRotor is layer i's extra 4D rotation for the vertex stage.
func (hc *HyperComputer) viewRotor(host Rotor) func(int) Rotor {
	if !hc.BrainRotation {
		return func(int) Rotor { return host }
	}
	sm := hc.brain.Smoothed()
	return func(i int) Rotor {
		return host.Mul(hc.brain.CreateLayerRotation(i, sm[:]))
	}
}

// Frame advances the simulation by dt and renders one frame. audio may be
// nil. A pipeline error is logged and returned; layer state is kept.
func (hc *HyperComputer) Frame(dt Real, audio []Real) error {
	if hc.closed {
		return ErrDisposed
	}
	dt = sanitizeStep(dt)
	sig := hc.nextSignal(dt, audio)
	if sig != nil {
		hc.stack.ProcessSignalDt(sig, dt)
		b := hc.stack.Blended()
		hc.brain.Process(b[:])
	}
	hc.lastEnergy = Energy(sig)
	if hc.lastEnergy < EnergyFloor {
		hc.stack.AnimateBreathing(hc.params.Speed*BreathSpeed, dt)
		hc.breathing++
	}
	width := LineWidth * hc.params.GridDensity / GridDensity
	meshes := hc.stack.BuildMeshes(hc.viewRotor(RotorFromAngles(hc.stack.Rotation())), hc.params.Dimension, width)
	if _, err := hc.pipe.RenderAllLayers(meshes); err != nil {
		hc.log.Error("render failed", zap.Error(err))
		return err
	}
	if err := hc.pipe.BlitToScreen(); err != nil {
		hc.log.Error("blit failed", zap.Error(err))
		return err
	}
	return nil
}

// SetParameters merges named values into the parameter surface. Missing
// names are unchanged; unknown names are an error and nothing is applied.
func (hc *HyperComputer) SetParameters(values map[string]any) error {
	next := hc.params
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &next,
		Metadata:         &md,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return fmt.Errorf("decode parameters: %w", err)
	}
	next = next.sanitize(hc.params)
	var rp RotationParams
	rotated := false
	for _, k := range md.Keys {
		p, ok := rotationKeys[k]
		if !ok {
			continue
		}
		v := next.Rotation().Get(p)
		switch p {
		case PlaneXY:
			rp.XY = &v
		case PlaneXZ:
			rp.XZ = &v
		case PlaneYZ:
			rp.YZ = &v
		case PlaneXW:
			rp.XW = &v
		case PlaneYW:
			rp.YW = &v
		case PlaneZW:
			rp.ZW = &v
		}
		rotated = true
	}
	hc.applyParams(next, false)
	if rotated {
		hc.stack.SetRotation(rp)
	}
	hc.log.Debug("parameters updated", zap.Strings("keys", md.Keys))
	return nil
}

// SetParameter sets a single named parameter.
func (hc *HyperComputer) SetParameter(name string, v Real) error {
	return hc.SetParameters(map[string]any{name: v})
}

// ApplyConfig takes over a reloaded config between frames. Size changes go
// through Resize.
func (hc *HyperComputer) ApplyConfig(cfg *Config) error {
	c := *cfg
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return err
	}
	focus, _ := ParseTrilatic(c.Focus)
	hc.stack.SetFocus(focus)
	hc.signal = c.Signal
	hc.BrainRotation = !c.NoBrainRotation
	for _, l := range hc.stack.Layers() {
		l.EaseRate = c.EaseRate
		l.Smooth = !c.Snap
	}
	hc.applyParams(c.Params().sanitize(hc.params), true)
	return hc.Resize(c.Width, c.Height)
}

func (hc *HyperComputer) Params() Params               { return hc.params }
func (hc *HyperComputer) Hexastack() *Hexastack        { return hc.stack }
func (hc *HyperComputer) Pipeline() *ExclusionPipeline { return hc.pipe }
func (hc *HyperComputer) Brain() *DataBrain            { return hc.brain }

// Resize reallocates the render targets. Call it between frames.
func (hc *HyperComputer) Resize(width, height int) error {
	if hc.closed {
		return ErrDisposed
	}
	if err := hc.pipe.Resize(width, height); err != nil {
		return err
	}
	if hc.pipe.Degraded() {
		hc.log.Warn("rendering degraded after resize", zap.Int("width", width), zap.Int("height", height))
	}
	return nil
}

// Close releases the device resources.
func (hc *HyperComputer) Close() {
	if hc.closed {
		return
	}
	hc.pipe.Dispose()
	hc.closed = true
	hc.log.Info("hypercomputer closed", zap.Uint64("frames", hc.pipe.FramesRendered()))
}

// Stats summarizes the session.
type Stats struct {
	ID             string
	Stack          Statistics
	Passes         uint64
	Blits          uint64
	FramesRendered uint64
	BreathFrames   uint64
	Degraded       bool
	Energy         Real
	Params         Params
}

func (hc *HyperComputer) Stats() Stats {
	return Stats{
		ID:             hc.ID,
		Stack:          hc.stack.Statistics(),
		Passes:         hc.pipe.Passes(),
		Blits:          hc.pipe.Blits(),
		FramesRendered: hc.pipe.FramesRendered(),
		BreathFrames:   hc.breathing,
		Degraded:       hc.pipe.Degraded(),
		Energy:         hc.lastEnergy,
		Params:         hc.params,
	}
}

type sessionSnapshot struct {
	ID        string     `json:"id"`
	Params    Params     `json:"params"`
	Hexastack *Hexastack `json:"hexastack"`
}

// Snapshot serializes the session: id, parameters and the constellation.
func (hc *HyperComputer) Snapshot() ([]byte, error) {
	return json.MarshalIndent(sessionSnapshot{ID: hc.ID, Params: hc.params, Hexastack: hc.stack}, "", "  ")
}

// Restore replaces the session state with a snapshot. Layer tuning (ease
// rate, smoothing) is kept from the running session.
func (hc *HyperComputer) Restore(data []byte) error {
	var s sessionSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	if s.Hexastack == nil {
		return errors.New("restore snapshot: missing hexastack")
	}
	if s.ID != "" {
		if _, err := uuid.Parse(s.ID); err != nil {
			return fmt.Errorf("restore snapshot: bad id: %w", err)
		}
		hc.ID = s.ID
		hc.log = hc.log.With(zap.String("restored", s.ID))
	}
	old := hc.stack.Layer(0)
	for _, l := range s.Hexastack.Layers() {
		l.EaseRate = old.EaseRate
		l.Smooth = old.Smooth
	}
	hc.stack = s.Hexastack
	p := s.Params.sanitize(hc.params)
	p.Coherence = hc.stack.Coherence()
	hc.params = p
	hc.stack.ApplyPalette(p.Hue, p.Saturation, p.Intensity)
	// the layers' rotors come from the snapshot; only the host angles are
	// taken over, without rebroadcasting them
	hc.stack.rotation = p.Rotation()
	hc.brain.Reset()
	return nil
}
