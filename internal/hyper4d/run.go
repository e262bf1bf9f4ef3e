package hyper4d

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// exportPrefix derives the PNG prefix from the GIF path, like gifs/x.gif ->
// pngs/x_<session>.
func exportPrefix(gifOut, id string) string {
	prefix := strings.Replace(gifOut, ".gif", "", 1)
	prefix = strings.Replace(prefix, "gifs/", "pngs/", 1)
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + "_" + id
}

// RunHeadless renders cfg.Frames frames on the software device and saves
// them as a GIF (or a PNG sequence when PNG is set), then an optional
// snapshot. audio, when not nil, supplies the signal for frame k.
func RunHeadless(cfg *Config, log *zap.Logger, audio func(k int) []Real) (Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		c := *cfg
		c.applyDefaults()
		cfg = &c
	}
	dev := NewSoftDevice()
	hc, err := New(cfg, dev, SoftSources(), log)
	if err != nil {
		return Stats{}, err
	}
	defer hc.Close()

	pngs := PNG || cfg.PNG
	prefix := exportPrefix(cfg.GIFOut, hc.ID)
	out := cfg.GIFOut
	if pngs {
		out = prefix
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return hc.Stats(), err
	}
	rec := NewGIFRecorder(cfg.GIFDelay, cfg.Gamma)
	dt := 1.0 / Real(cfg.FPS)

	start := time.Now()
	for k := 0; k < cfg.Frames; k++ {
		var in []Real
		if audio != nil {
			in = audio(k)
		}
		if err := hc.Frame(dt, in); err != nil {
			return hc.Stats(), fmt.Errorf("frame %d: %w", k, err)
		}
		fr := dev.Screen()
		if fr == nil {
			continue
		}
		if pngs {
			if err := SavePNG16(fr, pngName(prefix, k, cfg.Frames), cfg.Gamma); err != nil {
				return hc.Stats(), err
			}
		} else {
			rec.Add(fr)
		}
		if Debug {
			s := hc.Hexastack().Statistics()
			DebugLog("Frame %d: states=%v scale=%.3f stress=%.3f", k, s.States, s.AvgScale, s.AvgStress)
		}
	}
	elapsed := time.Since(start)
	log.Info("headless run done", zap.Int("frames", cfg.Frames), zap.Duration("elapsed", elapsed))

	if pngs {
		DebugLog("Saved PNG sequence with prefix: %s", prefix)
	} else {
		if err := rec.Save(cfg.GIFOut); err != nil {
			return hc.Stats(), err
		}
		DebugLog("Saved animated GIF: %s", cfg.GIFOut)
	}
	if cfg.Snapshot != "" {
		data, err := hc.Snapshot()
		if err != nil {
			return hc.Stats(), err
		}
		if err := os.WriteFile(cfg.Snapshot, data, 0o644); err != nil {
			return hc.Stats(), err
		}
		log.Info("snapshot written", zap.String("path", cfg.Snapshot))
	}
	return hc.Stats(), nil
}
