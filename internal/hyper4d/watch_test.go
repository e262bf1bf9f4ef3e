package hyper4d

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConfigWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 100\n"), 0o644))

	cw, err := NewConfigWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	cw.debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, cw.Start(ctx))
	defer cw.Stop()

	// unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("width: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("width: 321\nfocus: gamma\n"), 0o644))

	select {
	case cfg := <-cw.Updates():
		require.Equal(t, 321, cfg.Width)
		require.Equal(t, "gamma", cfg.Focus)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}

	// a broken file keeps the previous config and counts a failure
	require.NoError(t, os.WriteFile(path, []byte("focus: delta\n"), 0o644))
	require.Eventually(t, func() bool {
		_, failures := cw.Counts()
		return failures > 0
	}, 5*time.Second, 10*time.Millisecond)
	select {
	case cfg := <-cw.Updates():
		t.Fatalf("unexpected config %+v", cfg)
	default:
	}
}

func TestConfigWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	cw, err := NewConfigWatcher(path, nil)
	require.NoError(t, err)
	require.NoError(t, cw.Start(context.Background()))
	require.NoError(t, cw.Start(context.Background()))
	cw.Stop()
	cw.Stop()
}
