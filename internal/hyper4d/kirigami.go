package hyper4d

import (
	"fmt"
	"math"
)

// FoldState is one of the three permitted kirigami scale levels.
type FoldState uint8

const (
	Grounded FoldState = iota
	Folded
	Deployed
)

func (s FoldState) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Folded:
		return "folded"
	case Deployed:
		return "deployed"
	}
	return fmt.Sprintf("FoldState(%d)", uint8(s))
}

// ParseFoldState is the inverse of String.
func ParseFoldState(s string) (FoldState, error) {
	for st := Grounded; st <= Deployed; st++ {
		if st.String() == s {
			return st, nil
		}
	}
	return Deployed, fmt.Errorf("unknown fold state %q", s)
}

// Scale is the uniform scale the state targets.
func (s FoldState) Scale() Real {
	switch s {
	case Grounded:
		return ScaleGrounded
	case Folded:
		return ScaleFolded
	}
	return ScaleDeployed
}

// foldFromStress is level-triggered: the same stress always maps to the same
// state, so a decaying accumulator walks the state back down.
func foldFromStress(stress Real) FoldState {
	switch {
	case stress > DeployThreshold:
		return Deployed
	case stress > FoldThreshold:
		return Folded
	}
	return Grounded
}

func foldFromScale(scale Real) FoldState {
	switch {
	case scale < 0.25:
		return Grounded
	case scale < 0.75:
		return Folded
	}
	return Deployed
}

// ChannelBindings select which signal channels drive a layer.
type ChannelBindings struct {
	Left, Right, Fold int
}

// DefaultBindings spreads the six channels over the six layers.
func DefaultBindings(id int) ChannelBindings {
	return ChannelBindings{
		Left:  id % NumChannels,
		Right: (id + 1) % NumChannels,
		Fold:  (id + 2) % NumChannels,
	}
}

// RGBA color, each component in [0,1].
type RGBA struct {
	R, G, B, A Real
}

// preferredPlanes gives each layer its own left plane; the right factor uses
// the complement.
var preferredPlanes = [NumLayers]Plane{PlaneXY, PlaneZW, PlaneXZ, PlaneYW, PlaneXW, PlaneYZ}

// KirigamiLayer owns one 24-cell of the constellation.
type KirigamiLayer struct {
	ID        int
	Bindings  ChannelBindings
	Smooth    bool // ease toward the target scale instead of snapping
	EaseRate  Real
	Primary   RGBA
	Secondary RGBA

	base    [CellVerts]Point4
	current [CellVerts]Point4
	offset  Rotor // set once in NewKirigamiLayer

	qLeft        Rotor
	qRight       Rotor
	state        FoldState
	targetScale  Real
	currentScale Real
	stress       Real
	zOffset      Real
}

// NewKirigamiLayer builds layer id from shared polytope data. The layer keeps
// its own copy of the base vertices.
func NewKirigamiLayer(id int, base [CellVerts]Point4, offset Rotor) *KirigamiLayer {
	l := &KirigamiLayer{
		ID:       id,
		Bindings: DefaultBindings(id),
		Smooth:   true,
		EaseRate: DefaultEaseRate,
		base:     base,
		offset:   offset.Normalize(),
	}
	l.Reset()
	return l
}

// PreferredPlane is the plane of the layer's left isoclinic factor.
func (l *KirigamiLayer) PreferredPlane() Plane {
	id := l.ID % NumLayers
	if id < 0 {
		id += NumLayers
	}
	return preferredPlanes[id]
}

func channel(data []Real, ch int) Real {
	if ch < 0 || ch >= len(data) || !isFinite(data[ch]) {
		return 0
	}
	return clamp01(data[ch])
}

func sanitizeStep(dt Real) Real {
	if !(dt > 0) || !isFinite(dt) {
		return DefaultStep
	}
	return dt
}

// Update advances the layer by one frame of signal.
func (l *KirigamiLayer) Update(data []Real, dt Real) {
	dt = sanitizeStep(dt)

	// (a) isoclinic factors
	left := channel(data, l.Bindings.Left) * 2 * math.Pi
	right := channel(data, l.Bindings.Right) * 2 * math.Pi
	p := l.PreferredPlane()
	l.qLeft = LeftOnly(FromPlaneAngle(p, left))
	l.qRight = RightOnly(FromPlaneAngle(p.Complement(), right))

	// (b) stress integrator, (c) thresholds
	fold := channel(data, l.Bindings.Fold)
	l.stress = l.stress*StressDecay + fold*StressGain
	l.state = foldFromStress(l.stress)
	l.targetScale = l.state.Scale()

	// (d) easing
	l.ease(l.targetScale, dt)

	// (e) extrusion
	sum := 0.0
	for ch := 0; ch < NumChannels; ch++ {
		sum += channel(data, ch)
	}
	l.zOffset = sum / NumChannels * ZOffsetGain

	// (f) vertices
	l.recompute()
}

func (l *KirigamiLayer) ease(target Real, dt Real) {
	if !l.Smooth {
		l.currentScale = clamp01(target)
		return
	}
	k := clamp01(l.EaseRate * dt * 60)
	l.currentScale = clamp01(l.currentScale + (target-l.currentScale)*k)
}

// recompute rewrites current in place: scale·qRight(offset·qLeft(base)).
func (l *KirigamiLayer) recompute() {
	combined := l.offset.Mul(l.qLeft)
	for i, v := range l.base {
		l.current[i] = l.qRight.Rotate(combined.Rotate(v)).Mul(l.currentScale)
	}
}

// SetState forces a fold state. The stress accumulator is moved to the
// middle of the state's band so the next signal frames start from there.
func (l *KirigamiLayer) SetState(s FoldState, immediate bool) {
	if s > Deployed {
		s = Deployed
	}
	l.state = s
	l.targetScale = s.Scale()
	switch s {
	case Grounded:
		l.stress = 0
	case Folded:
		l.stress = (FoldThreshold + DeployThreshold) / 2
	case Deployed:
		l.stress = 1
	}
	if immediate {
		l.currentScale = l.targetScale
	}
	l.recompute()
}

// SetRotationFromAngles replaces the layer rotation with one rotor built from
// all six plane angles.
func (l *KirigamiLayer) SetRotationFromAngles(r Rot4) {
	l.qLeft = RotorFromAngles(r)
	l.qRight = Identity()
	l.recompute()
}

// Breathe is the idle animation: a continuous sine scale and a small
// rotation. The target scale stays on the nearest kirigami level.
func (l *KirigamiLayer) Breathe(phase, dt Real) {
	dt = sanitizeStep(dt)
	s := 0.5 + 0.5*math.Sin(phase)
	l.state = foldFromScale(s)
	l.targetScale = l.state.Scale()
	l.ease(s, dt)
	p := l.PreferredPlane()
	l.qLeft = LeftOnly(FromPlaneAngle(p, 0.15*math.Sin(phase)))
	l.qRight = RightOnly(FromPlaneAngle(p.Complement(), 0.15*math.Cos(phase)))
	l.zOffset = 0.2 * math.Sin(phase)
	l.recompute()
}

// Reset returns to Deployed, full scale, no stress, identity rotors.
func (l *KirigamiLayer) Reset() {
	l.qLeft = Identity()
	l.qRight = Identity()
	l.state = Deployed
	l.targetScale = ScaleDeployed
	l.currentScale = ScaleDeployed
	l.stress = 0
	l.zOffset = 0
	l.recompute()
}

func (l *KirigamiLayer) State() FoldState        { return l.state }
func (l *KirigamiLayer) TargetScale() Real       { return l.targetScale }
func (l *KirigamiLayer) CurrentScale() Real      { return l.currentScale }
func (l *KirigamiLayer) Stress() Real            { return l.stress }
func (l *KirigamiLayer) ZOffset() Real           { return l.zOffset }
func (l *KirigamiLayer) Offset() Rotor           { return l.offset }
func (l *KirigamiLayer) QLeft() Rotor            { return l.qLeft }
func (l *KirigamiLayer) QRight() Rotor           { return l.qRight }
func (l *KirigamiLayer) Base() [CellVerts]Point4 { return l.base }

// CurrentVertices exposes the transformed vertices without copying; callers
// must not keep the slice across frames.
func (l *KirigamiLayer) CurrentVertices() []Point4 { return l.current[:] }

// RenderData is the structured per-layer export.
type RenderData struct {
	ID          int
	Vertices    [CellVerts]Point4
	Edges       [CellEdges]Edge
	State       FoldState
	Scale       Real
	ZOffset     Real
	Primary     RGBA
	Secondary   RGBA
	LeftMatrix  Mat4
	RightMatrix Mat4
	Trilatic    [3][8]int
}

func (l *KirigamiLayer) RenderData() RenderData {
	return RenderData{
		ID:          l.ID,
		Vertices:    l.current,
		Edges:       Cell24Edges(),
		State:       l.state,
		Scale:       l.currentScale,
		ZOffset:     l.zOffset,
		Primary:     l.Primary,
		Secondary:   l.Secondary,
		LeftMatrix:  l.offset.Mul(l.qLeft).ToMatrix(),
		RightMatrix: l.qRight.ToMatrix(),
		Trilatic:    TrilaticPartition(),
	}
}

// Uniform buffer layout.
const (
	UniformLeftMatrix = 0  // 16 floats, column-major
	UniformScale      = 16
	UniformZOffset    = 17
	UniformID         = 18
	UniformState      = 19 // state value: 0, 0.5 or 1
	UniformPrimary    = 20 // RGBA
	UniformSecondary  = 24 // RGBA
	UniformReserved   = 28 // 4 zeros
)

// UniformData packs the layer into 32 floats.
func (l *KirigamiLayer) UniformData() [UniformFloats]float32 {
	var u [UniformFloats]float32
	m := l.offset.Mul(l.qLeft).ToMatrix().ColumnMajor()
	copy(u[UniformLeftMatrix:], m[:])
	u[UniformScale] = float32(l.currentScale)
	u[UniformZOffset] = float32(l.zOffset)
	u[UniformID] = float32(l.ID)
	u[UniformState] = float32(l.state.Scale())
	for i, c := range [2]RGBA{l.Primary, l.Secondary} {
		o := UniformPrimary + 4*i
		u[o+0] = float32(c.R)
		u[o+1] = float32(c.G)
		u[o+2] = float32(c.B)
		u[o+3] = float32(c.A)
	}
	return u
}
