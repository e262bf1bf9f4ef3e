package hyper4d

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func busyHexastack() *Hexastack {
	h := NewHexastack(1.5)
	h.SetCoherence(0.25)
	h.SetFocus(TrilaticGamma)
	sig := NewSyntheticSignal(11)
	for i := 0; i < 90; i++ {
		s := sig.Next(DefaultStep, 1.3, 0.2)
		h.ProcessSignal(s[:])
	}
	return h
}

func TestSnapshotRoundTrip(t *testing.T) {
	h := busyHexastack()
	first, err := json.Marshal(h)
	require.NoError(t, err)

	r, err := HexastackFromJSON(first)
	require.NoError(t, err)

	// restored state matches up to float tolerance
	approx := cmpopts.EquateApprox(0, 1e-12)
	if d := cmp.Diff(h.snapshot(), r.snapshot(), approx); d != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", d)
	}
	for i, l := range h.Layers() {
		if d := cmp.Diff(l.CurrentVertices(), r.Layer(i).CurrentVertices(), approx); d != "" {
			t.Fatalf("layer %d vertices differ:\n%s", i, d)
		}
	}

	second, err := json.Marshal(r)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second), "serialize is stable after a round trip")
}

func TestSnapshotFields(t *testing.T) {
	data, err := json.Marshal(busyHexastack())
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, k := range []string{"scale", "coherence", "computationalFocus", "dataChannels", "layers"} {
		require.Contains(t, raw, k)
	}
	require.Equal(t, "gamma", raw["computationalFocus"])
	layers := raw["layers"].([]any)
	require.Len(t, layers, NumLayers)
	for _, k := range []string{"id", "foldState", "currentScale", "zOffset", "qLeft", "qRight", "offsetRotation", "stressAccumulator"} {
		require.Contains(t, layers[0], k)
	}
}

func TestSnapshotRejectsBadInput(t *testing.T) {
	good, err := json.Marshal(NewHexastack(1))
	require.NoError(t, err)

	mutate := func(f func(s *hexastackSnapshot)) []byte {
		var s hexastackSnapshot
		require.NoError(t, json.Unmarshal(good, &s))
		f(&s)
		out, err := json.Marshal(s)
		require.NoError(t, err)
		return out
	}
	cases := map[string][]byte{
		"not json":     []byte("{"),
		"few layers":   mutate(func(s *hexastackSnapshot) { s.Layers = s.Layers[:3] }),
		"bad focus":    mutate(func(s *hexastackSnapshot) { s.ComputationalFocus = "delta" }),
		"bad scale":    mutate(func(s *hexastackSnapshot) { s.Scale = -2 }),
		"duplicate id": mutate(func(s *hexastackSnapshot) { s.Layers[1].ID = 0 }),
		"bad state":    mutate(func(s *hexastackSnapshot) { s.Layers[2].FoldState = "crumpled" }),
		"no offset":    mutate(func(s *hexastackSnapshot) { s.Layers[0].OffsetRotation = Rotor{} }),
		"zero qRight":  mutate(func(s *hexastackSnapshot) { s.Layers[4].QRight.R = Quat{} }),
	}
	for name, data := range cases {
		_, err := HexastackFromJSON(data)
		require.Error(t, err, name)
	}

	// offsetRotation left out of the document entirely
	var raw map[string]any
	require.NoError(t, json.Unmarshal(good, &raw))
	delete(raw["layers"].([]any)[0].(map[string]any), "offsetRotation")
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	_, err = HexastackFromJSON(data)
	require.ErrorContains(t, err, "offsetRotation")
}

func TestSnapshotRenormalizesRotors(t *testing.T) {
	good, err := json.Marshal(NewHexastack(1))
	require.NoError(t, err)
	var s hexastackSnapshot
	require.NoError(t, json.Unmarshal(good, &s))
	s.Layers[0].QLeft.L = Quat{W: 2}
	data, err := json.Marshal(s)
	require.NoError(t, err)

	h, err := HexastackFromJSON(data)
	require.NoError(t, err)
	l := h.Layer(0)
	require.InDelta(t, 1, l.QLeft().L.Norm(), 1e-12)
	for _, v := range l.CurrentVertices() {
		require.InDelta(t, l.CurrentScale(), v.Len(), 1e-9)
	}
	for i := 0; i < 300; i++ {
		h.ProcessSignal([]Real{1, 1, 1, 1, 1, 1})
	}
	require.InDelta(t, l.CurrentScale(), l.CurrentVertices()[0].Len(), 1e-9)
	require.Greater(t, l.CurrentScale(), 0.5)
}

func TestSnapshotRestoresDefaultPalette(t *testing.T) {
	data, err := json.Marshal(NewHexastack(1))
	require.NoError(t, err)
	h, err := HexastackFromJSON(data)
	require.NoError(t, err)
	for _, l := range h.Layers() {
		p, q := LayerPalette(Hue, Saturation, Intensity, l.ID)
		require.Equal(t, p, l.Primary)
		require.Equal(t, q, l.Secondary)
		require.NotZero(t, l.UniformData()[UniformPrimary+3])
	}
}
