package hyper4d

import "math"

// signalRing is a fixed FIFO of past signal frames.
type signalRing struct {
	buf   [HistoryCap][NumChannels]Real
	start int
	n     int
}

func (r *signalRing) push(v [NumChannels]Real) {
	if r.n < HistoryCap {
		r.buf[(r.start+r.n)%HistoryCap] = v
		r.n++
		return
	}
	r.buf[r.start] = v
	r.start = (r.start + 1) % HistoryCap
}

func (r *signalRing) len() int { return r.n }

// last returns the newest entry.
func (r *signalRing) last() ([NumChannels]Real, bool) {
	if r.n == 0 {
		return [NumChannels]Real{}, false
	}
	return r.buf[(r.start+r.n-1)%HistoryCap], true
}

// slice returns entries oldest first.
func (r *signalRing) slice() [][NumChannels]Real {
	out := make([][NumChannels]Real, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.start+i)%HistoryCap]
	}
	return out
}

func (r *signalRing) reset() { r.start, r.n = 0, 0 }

// RotationParams carries host rotation angles in radians; nil means unchanged.
type RotationParams struct {
	XY, XZ, YZ, XW, YW, ZW *Real
}

func (p RotationParams) apply(r Rot4) Rot4 {
	set := func(dst *Real, v *Real) {
		if v != nil && isFinite(*v) {
			*dst = *v
		}
	}
	set(&r.XY, p.XY)
	set(&r.XZ, p.XZ)
	set(&r.YZ, p.YZ)
	set(&r.XW, p.XW)
	set(&r.YW, p.YW)
	set(&r.ZW, p.ZW)
	return r
}

// Hexastack is the six-layer constellation: five 24-cells tiling the 600-cell
// plus the pilot layer. Layers are owned by index and hold no reference back.
type Hexastack struct {
	layers [NumLayers]*KirigamiLayer
	scale  Real

	channels   [NumChannels]Real
	derivative [NumChannels]Real
	blended    [NumChannels]Real
	average    Real
	history    signalRing

	coherence Real
	focus     Trilatic
	rotation  Rot4
	breath    Real
	frames    uint64
	skipped   uint64
}

// NewHexastack generates the polytope data once and builds the six layers.
func NewHexastack(scale Real) *Hexastack {
	if !(scale > 0) || !isFinite(scale) {
		scale = 1
	}
	h := &Hexastack{scale: scale, focus: TrilaticAll}
	base := Cell24Vertices(scale)
	offsets := EpitaxialOffsets()
	for i := 0; i < NumLayers; i++ {
		off := ControlOffset()
		if i < NumStructure {
			off = offsets[i]
		}
		h.layers[i] = NewKirigamiLayer(i, base, off)
	}
	DebugLog("Created hexastack: scale=%.4g layers=%d", scale, NumLayers)
	return h
}

func (h *Hexastack) Layers() []*KirigamiLayer { return h.layers[:] }

func (h *Hexastack) Layer(i int) *KirigamiLayer {
	if i < 0 || i >= NumLayers {
		return nil
	}
	return h.layers[i]
}

// sanitizeSignal pads or truncates to six channels and clamps to [0,1].
// Non-finite values reuse the previous frame's channel; a frame with no
// finite value at all is rejected.
func sanitizeSignal(data []Real, prev [NumChannels]Real) ([NumChannels]Real, bool) {
	var out [NumChannels]Real
	finite := 0
	for ch := 0; ch < NumChannels; ch++ {
		if ch >= len(data) {
			continue
		}
		v := data[ch]
		if !isFinite(v) {
			out[ch] = prev[ch]
			continue
		}
		out[ch] = clamp01(v)
		finite++
	}
	if finite == 0 && len(data) > 0 {
		return prev, false
	}
	return out, true
}

// ProcessSignal feeds one frame at the default 60 Hz step.
func (h *Hexastack) ProcessSignal(data []Real) { h.ProcessSignalDt(data, DefaultStep) }

// ProcessSignalDt feeds one frame: each layer sees raw + 0.3·derivative,
// pulled toward the cross-channel mean by coherence.
func (h *Hexastack) ProcessSignalDt(data []Real, dt Real) {
	sig, ok := sanitizeSignal(data, h.channels)
	if !ok {
		h.skipped++
		DebugLog("Skipped malformed signal frame: %v", data)
		return
	}
	prev, hadPrev := h.history.last()
	h.channels = sig
	h.history.push(sig)

	sum := 0.0
	for ch := 0; ch < NumChannels; ch++ {
		if hadPrev {
			h.derivative[ch] = sig[ch] - prev[ch]
		} else {
			h.derivative[ch] = 0
		}
		sum += sig[ch]
	}
	h.average = sum / NumChannels

	c := h.coherence
	for ch := 0; ch < NumChannels; ch++ {
		v := sig[ch] + DerivativeBoost*h.derivative[ch]
		v = v*(1-c) + h.average*c
		h.blended[ch] = clamp01(v)
	}
	for _, l := range h.layers {
		l.Update(h.blended[:], dt)
	}
	h.frames++
}

// SetRotation merges the given angles into the stored host rotation and
// broadcasts it to every layer.
func (h *Hexastack) SetRotation(p RotationParams) {
	h.rotation = p.apply(h.rotation)
	for _, l := range h.layers {
		l.SetRotationFromAngles(h.rotation)
	}
}

func (h *Hexastack) Rotation() Rot4 { return h.rotation }

// AnimateBreathing is the idle animation; layer i lags by i·π/3.
func (h *Hexastack) AnimateBreathing(speed, dt Real) {
	dt = sanitizeStep(dt)
	if !isFinite(speed) {
		speed = BreathSpeed
	}
	h.breath = math.Mod(h.breath+speed*dt, 2*math.Pi)
	for i, l := range h.layers {
		l.Breathe(h.breath+Real(i)*math.Pi/3, dt)
	}
}

// CombinedUniformBuffer concatenates all layers' uniform blocks.
func (h *Hexastack) CombinedUniformBuffer() [NumLayers * UniformFloats]float32 {
	var out [NumLayers * UniformFloats]float32
	for i, l := range h.layers {
		u := l.UniformData()
		copy(out[i*UniformFloats:], u[:])
	}
	return out
}

func (h *Hexastack) SetCoherence(c Real) {
	if !isFinite(c) {
		return
	}
	h.coherence = clamp01(c)
}

func (h *Hexastack) Coherence() Real { return h.coherence }

func (h *Hexastack) SetFocus(f Trilatic) {
	if f > TrilaticAll {
		f = TrilaticAll
	}
	h.focus = f
}

func (h *Hexastack) Focus() Trilatic { return h.focus }

// FocusIndices lists the vertex indices in the computational focus.
func (h *Hexastack) FocusIndices() []int {
	if h.focus == TrilaticAll {
		out := make([]int, CellVerts)
		for i := range out {
			out[i] = i
		}
		return out
	}
	set := TrilaticPartition()[h.focus]
	return append([]int(nil), set[:]...)
}

func (h *Hexastack) Scale() Real                   { return h.scale }
func (h *Hexastack) Channels() [NumChannels]Real   { return h.channels }
func (h *Hexastack) Derivative() [NumChannels]Real { return h.derivative }
func (h *Hexastack) Blended() [NumChannels]Real    { return h.blended }
func (h *Hexastack) Average() Real                 { return h.average }
func (h *Hexastack) History() [][NumChannels]Real  { return h.history.slice() }
func (h *Hexastack) HistoryDepth() int             { return h.history.len() }
func (h *Hexastack) Frames() uint64                { return h.frames }
func (h *Hexastack) SkippedFrames() uint64         { return h.skipped }

// Reset returns every layer to its initial state and clears the signal.
func (h *Hexastack) Reset() {
	for _, l := range h.layers {
		l.Reset()
	}
	h.channels = [NumChannels]Real{}
	h.derivative = [NumChannels]Real{}
	h.blended = [NumChannels]Real{}
	h.average = 0
	h.history.reset()
	h.breath = 0
	h.frames = 0
	h.skipped = 0
}

// Statistics is a diagnostic summary.
type Statistics struct {
	States       [3]int
	AvgScale     Real
	AvgZOffset   Real
	AvgStress    Real
	Coherence    Real
	Focus        Trilatic
	HistoryDepth int
	Frames       uint64
	Skipped      uint64
}

func (h *Hexastack) Statistics() Statistics {
	s := Statistics{
		Coherence:    h.coherence,
		Focus:        h.focus,
		HistoryDepth: h.history.len(),
		Frames:       h.frames,
		Skipped:      h.skipped,
	}
	for _, l := range h.layers {
		s.States[l.State()]++
		s.AvgScale += l.CurrentScale()
		s.AvgZOffset += l.ZOffset()
		s.AvgStress += l.Stress()
	}
	s.AvgScale /= NumLayers
	s.AvgZOffset /= NumLayers
	s.AvgStress /= NumLayers
	return s
}
