package hyper4d

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// quaternions shorter than this are treated as missing
	minRotorNorm = 1e-6
	// drift below this is kept as is so a round trip stays byte-stable
	rotorNormTol = 1e-9
)

type layerSnapshot struct {
	ID                int    `json:"id"`
	FoldState         string `json:"foldState"`
	CurrentScale      Real   `json:"currentScale"`
	ZOffset           Real   `json:"zOffset"`
	QLeft             Rotor  `json:"qLeft"`
	QRight            Rotor  `json:"qRight"`
	OffsetRotation    Rotor  `json:"offsetRotation"`
	StressAccumulator Real   `json:"stressAccumulator"`
}

type hexastackSnapshot struct {
	Scale              Real              `json:"scale"`
	Coherence          Real              `json:"coherence"`
	ComputationalFocus string            `json:"computationalFocus"`
	DataChannels       [NumChannels]Real `json:"dataChannels"`
	Layers             []layerSnapshot   `json:"layers"`
}

func (h *Hexastack) snapshot() hexastackSnapshot {
	s := hexastackSnapshot{
		Scale:              h.scale,
		Coherence:          h.coherence,
		ComputationalFocus: h.focus.String(),
		DataChannels:       h.channels,
		Layers:             make([]layerSnapshot, 0, NumLayers),
	}
	for _, l := range h.layers {
		s.Layers = append(s.Layers, layerSnapshot{
			ID:                l.ID,
			FoldState:         l.state.String(),
			CurrentScale:      l.currentScale,
			ZOffset:           l.zOffset,
			QLeft:             l.qLeft,
			QRight:            l.qRight,
			OffsetRotation:    l.offset,
			StressAccumulator: l.stress,
		})
	}
	return s
}

// MarshalJSON serializes the persistent state of the constellation.
func (h *Hexastack) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.snapshot())
}

// UnmarshalJSON rebuilds the constellation from a snapshot. Layer offsets are
// taken from the snapshot as construction-time values.
func (h *Hexastack) UnmarshalJSON(data []byte) error {
	var s hexastackSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	r, err := restoreHexastack(s)
	if err != nil {
		return err
	}
	*h = *r
	return nil
}

// HexastackFromJSON is the inverse of MarshalJSON.
func HexastackFromJSON(data []byte) (*Hexastack, error) {
	h := &Hexastack{}
	if err := h.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return h, nil
}

func restoreHexastack(s hexastackSnapshot) (*Hexastack, error) {
	if len(s.Layers) != NumLayers {
		return nil, fmt.Errorf("snapshot has %d layers, want %d", len(s.Layers), NumLayers)
	}
	focus, ok := ParseTrilatic(s.ComputationalFocus)
	if !ok {
		return nil, fmt.Errorf("unknown computational focus %q", s.ComputationalFocus)
	}
	scale := s.Scale
	if !(scale > 0) || !isFinite(scale) {
		return nil, fmt.Errorf("invalid snapshot scale %v", s.Scale)
	}
	h := &Hexastack{scale: scale, focus: focus}
	h.SetCoherence(s.Coherence)
	for ch, v := range s.DataChannels {
		h.channels[ch] = clamp01(v)
	}
	base := Cell24Vertices(scale)
	for _, ls := range s.Layers {
		if ls.ID < 0 || ls.ID >= NumLayers || h.layers[ls.ID] != nil {
			return nil, fmt.Errorf("invalid or duplicate layer id %d", ls.ID)
		}
		st, err := ParseFoldState(ls.FoldState)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", ls.ID, err)
		}
		var rotors [3]Rotor
		for i, r := range [3]Rotor{ls.OffsetRotation, ls.QLeft, ls.QRight} {
			if rotors[i], err = checkRotor(r); err != nil {
				return nil, fmt.Errorf("layer %d %s: %w", ls.ID, [3]string{"offsetRotation", "qLeft", "qRight"}[i], err)
			}
		}
		l := &KirigamiLayer{
			ID:       ls.ID,
			Bindings: DefaultBindings(ls.ID),
			Smooth:   true,
			EaseRate: DefaultEaseRate,
			base:     base,
			offset:   rotors[0],
		}
		l.qLeft = rotors[1]
		l.qRight = rotors[2]
		l.state = st
		l.targetScale = st.Scale()
		l.currentScale = clamp01(ls.CurrentScale)
		l.zOffset = ls.ZOffset
		l.stress = ls.StressAccumulator
		l.recompute()
		h.layers[ls.ID] = l
	}
	h.ApplyPalette(Hue, Saturation, Intensity)
	DebugLog("Restored hexastack: scale=%.4g focus=%s", scale, focus)
	return h, nil
}

// checkRotor rejects missing or non-finite quaternions and renormalizes
// drifted ones.
func checkRotor(r Rotor) (Rotor, error) {
	drift := false
	for _, q := range [2]Quat{r.L, r.R} {
		n := q.Norm()
		if !isFinite(n) || n < minRotorNorm {
			return Rotor{}, fmt.Errorf("degenerate quaternion %+v (norm %.3g)", q, n)
		}
		drift = drift || math.Abs(n-1) > rotorNormTol
	}
	if drift {
		DebugLog("Renormalizing snapshot rotor %+v", r)
		return r.Normalize(), nil
	}
	return r, nil
}
