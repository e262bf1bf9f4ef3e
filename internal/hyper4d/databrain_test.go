package hyper4d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataBrainSmoothing(t *testing.T) {
	b := NewDataBrain()
	data := []Real{1, 0.5, 0, 0, 0, 0}
	out := b.Process(data)
	require.InDelta(t, DefaultSmoothing, out[PlaneXY].Value, 1e-12)
	require.InDelta(t, DefaultSmoothing*2*math.Pi, out[PlaneXY].Angle, 1e-12)
	require.InDelta(t, DefaultSmoothing*0.5, out[PlaneZW].Value, 1e-12)

	for i := 0; i < 500; i++ {
		out = b.Process(data)
	}
	require.InDelta(t, 1, out[PlaneXY].Value, 1e-9)
	require.InDelta(t, 0.5, b.Smoothed()[1], 1e-9)
	require.InDelta(t, math.Pi, b.Angles().ZW, 1e-8)

	b.Reset()
	require.Equal(t, [NumChannels]Real{}, b.Smoothed())
}

func TestDataBrainIgnoresBadChannels(t *testing.T) {
	b := NewDataBrain()
	b.Process([]Real{0.4, 0.4, 0.4, 0.4, 0.4, 0.4})
	before := b.Smoothed()
	b.Process([]Real{math.NaN()})
	after := b.Smoothed()
	require.Equal(t, before, after, "missing and NaN channels hold their state")
}

func TestCreateLayerRotation(t *testing.T) {
	b := NewDataBrain()
	data := []Real{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	for layer := 0; layer < NumLayers; layer++ {
		cl, cr := (2*layer)%6, (2*layer+1)%6
		want := DoubleRotation(
			DefaultMapping[cl], data[cl]*DefaultAngleScale,
			DefaultMapping[cr], data[cr]*DefaultAngleScale,
		)
		require.Equal(t, want, b.CreateLayerRotation(layer, data), "layer %d", layer)
	}
	// layers 0 and 3 share channels 0 and 1
	require.Equal(t, b.CreateLayerRotation(0, data), b.CreateLayerRotation(3, data))
}
