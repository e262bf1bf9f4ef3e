package hyper4d

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunHeadlessGIFAndSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 32, 24
	cfg.Frames = 4
	cfg.GIFOut = filepath.Join(dir, "gifs", "run.gif")
	cfg.Snapshot = filepath.Join(dir, "session.json")

	stats, err := RunHeadless(cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(4), stats.FramesRendered)
	require.Equal(t, uint64(4*NumLayers), stats.Passes)
	require.FileExists(t, cfg.GIFOut)

	data, err := os.ReadFile(cfg.Snapshot)
	require.NoError(t, err)
	hc, err := New(cfg, NewSoftDevice(), SoftSources(), nil)
	require.NoError(t, err)
	defer hc.Close()
	require.NoError(t, hc.Restore(data))
	require.Equal(t, stats.ID, hc.ID)
}

func TestRunHeadlessPNGWithAudio(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 16, 16
	cfg.Frames = 3
	cfg.PNG = true
	cfg.GIFOut = filepath.Join(dir, "x.gif")

	calls := 0
	stats, err := RunHeadless(cfg, nil, func(k int) []Real {
		calls++
		return filled(Real(k) / 3)
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	matches, err := filepath.Glob(filepath.Join(dir, "x_*_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 3)
	require.True(t, strings.Contains(matches[0], stats.ID[:8]))
	require.NoFileExists(t, cfg.GIFOut)
}

func TestWriteReports(t *testing.T) {
	hc, _ := newTestComputer(t, smallConfig())
	require.NoError(t, hc.Frame(DefaultStep, nil))

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, hc))
	out := buf.String()
	require.Contains(t, out, hc.ID[:8])
	require.Contains(t, out, "pilot")
	require.Contains(t, out, "structure")

	buf.Reset()
	require.NoError(t, WritePolytopeReport(&buf))
	out = buf.String()
	require.Contains(t, out, "gamma")
	require.Contains(t, out, "600-cell vertices")
	require.Contains(t, out, "0.6180")
}

func TestExportPrefix(t *testing.T) {
	require.Equal(t, "pngs/run_12345678", exportPrefix("gifs/run.gif", "12345678-aaaa"))
	require.Equal(t, "out_ab", exportPrefix("out.gif", "ab"))
}
