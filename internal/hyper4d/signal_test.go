package hyper4d

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

func TestSyntheticSignalOscillators(t *testing.T) {
	s := NewSyntheticSignal(1)
	out := s.Next(0.5, 1, 0)
	for i, v := range out {
		want := 0.5 + 0.5*math.Sin(0.5*oscillatorFreqs[i]+Real(i)*math.Pi/3)
		require.InDelta(t, want, v, 1e-12, "channel %d", i)
	}
}

func TestSyntheticSignalChaosIsSeededAndBounded(t *testing.T) {
	a, b := NewSyntheticSignal(9), NewSyntheticSignal(9)
	for i := 0; i < 200; i++ {
		x := a.Next(DefaultStep, 2, 1)
		y := b.Next(DefaultStep, 2, 1)
		require.Equal(t, x, y)
		for _, v := range x {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestEnergy(t *testing.T) {
	require.Zero(t, Energy(nil))
	require.InDelta(t, 1.5, Energy([]Real{0.5, -0.5, math.NaN(), 0.5, math.Inf(1)}), 1e-12)
}

func TestLayerPalette(t *testing.T) {
	for id := 0; id < NumLayers; id++ {
		p, s := LayerPalette(200, 0.8, 0.9, id)
		h, sat, v := colorful.Color{R: p.R, G: p.G, B: p.B}.Hsv()
		require.InDelta(t, math.Mod(200+Real(id)*60, 360), h, 1e-6)
		require.InDelta(t, 0.8, sat, 1e-9)
		require.InDelta(t, 0.9, v, 1e-9)
		require.Equal(t, LayerAlpha, p.A)
		_, _, sv := colorful.Color{R: s.R, G: s.G, B: s.B}.Hsv()
		require.InDelta(t, 0.9*0.7, sv, 1e-9)
	}
	p, _ := LayerPalette(-60, 2, -1, 0)
	require.Equal(t, RGBA{0, 0, 0, LayerAlpha}, p, "zero intensity is black whatever the hue")
}
