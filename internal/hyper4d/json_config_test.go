package hyper4d

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRot4DegRadians(t *testing.T) {
	r := Rot4Deg{XY: 90, XZ: 180, XW: 0, YZ: 30, YW: -45, ZW: 10}.Radians()
	if math.Abs(r.XY-math.Pi/2) > 1e-12 || math.Abs(r.XZ-math.Pi) > 1e-12 {
		t.Fatal("degree->radian conversion wrong")
	}
	if math.Abs(r.YW+math.Pi/4) > 1e-12 {
		t.Fatal("negative angles must convert too")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfigJSONDefaults(t *testing.T) {
	p := writeFile(t, "c.json", `{"width": 320, "rotDeg": {"xw": 90}}`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, 320, cfg.Width)
	require.Equal(t, Height, cfg.Height)
	require.Equal(t, FPS, cfg.FPS)
	require.Equal(t, "all", cfg.Focus)
	require.Equal(t, SignalSynthetic, cfg.Signal)
	require.Equal(t, Dimension, cfg.Dimension)
	require.Equal(t, GIFOut, cfg.GIFOut)
	require.Equal(t, Hue, cfg.Hue)
	require.InDelta(t, math.Pi/2, cfg.Params().RotXW, 1e-12)
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeFile(t, "c.yaml", `
width: 200
height: 100
focus: beta
signal: idle
coherence: 0.4
snap: true
rotDeg:
  xy: 45
hue: 10
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, 200, cfg.Width)
	require.Equal(t, 100, cfg.Height)
	require.Equal(t, "beta", cfg.Focus)
	require.Equal(t, SignalIdle, cfg.Signal)
	require.True(t, cfg.Snap)
	require.Equal(t, 0.4, cfg.Params().Coherence)
	require.Equal(t, 10.0, cfg.Params().Hue)
	require.InDelta(t, math.Pi/4, cfg.Params().RotXY, 1e-12)
}

func TestLoadConfigKeepsZeroHue(t *testing.T) {
	for _, name := range []string{"red.json", "red.yaml"} {
		body := `{"hue": 0}`
		if name == "red.yaml" {
			body = "hue: 0\n"
		}
		cfg, err := LoadConfig(writeFile(t, name, body))
		require.NoError(t, err, name)
		require.Zero(t, cfg.Params().Hue, name)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	cases := map[string]string{
		"broken.json":    `{"width": `,
		"focus.json":     `{"focus": "delta"}`,
		"signal.yaml":    "signal: microphone\n",
		"coherence.json": `{"coherence": 1.5}`,
	}
	for name, body := range cases {
		_, err := LoadConfig(writeFile(t, name, body))
		require.Error(t, err, name)
	}
}

func TestDefaultConfigMatchesDefaultParams(t *testing.T) {
	require.Equal(t, DefaultParams(), DefaultConfig().Params())
}
