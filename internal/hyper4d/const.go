package hyper4d

import "math"

// Real is the scalar used by all geometry.
type Real = float64

// Channel and layer counts.
const (
	NumChannels   = 6
	NumLayers     = 6
	NumStructure  = 5 // structural layers tiling the 600-cell; layer 5 is the pilot
	CellVerts     = 24
	CellEdges     = 96
	UniformFloats = 32
	HistoryCap    = 60
)

// Kirigami hysteresis. The stress accumulator is a one-pole EMA of the fold
// channel; a single noisy frame moves it by at most StressGain, so the fold
// state cannot flicker across a threshold on one frame.
const (
	StressDecay       = 0.95
	StressGain        = 0.05
	DeployThreshold   = 0.66
	FoldThreshold     = 0.33
	ScaleGrounded     = 0.0
	ScaleFolded       = 0.5
	ScaleDeployed     = 1.0
	DerivativeBoost   = 0.3
	ZOffsetGain       = 2.0
	DefaultEaseRate   = 0.1
	DefaultSmoothing  = 0.15
	DefaultAngleScale = 2 * math.Pi
	DefaultStep       = 1.0 / 60
)

// Rendering and config defaults.
const (
	Width         = 800
	Height        = 600
	FPS           = 60
	Dimension     = 3.0
	GridDensity   = 15.0
	Chaos         = 0.0
	Speed         = 1.0
	Hue           = 200.0
	Saturation    = 0.8
	Intensity     = 0.9
	Coherence     = 0.0
	BreathSpeed   = 1.0
	EnergyFloor   = 0.05 // summed signal below this counts as silence
	CameraDist    = 5.0
	LineWidth     = 1.5
	FocusDimAlpha = 0.35
	LayerAlpha    = 0.85
	GIFOut        = "hyper4d.gif"
	GIFDelay      = 2 // 100ths of a second per frame
	Gamma         = 1.0
	Frames        = 120
	// hot-loop constants
	epsNorm = 1e-12
	epsProj = 1e-6
	bigProj = 1e6
)
