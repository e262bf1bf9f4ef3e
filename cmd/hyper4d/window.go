package main

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lukaszgryglicki/hyper4d/internal/ebitengpu"
	"github.com/lukaszgryglicki/hyper4d/internal/hyper4d"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type game struct {
	hc      *hyper4d.HyperComputer
	dev     *ebitengpu.Device
	updates <-chan *hyper4d.Config
	dt      hyper4d.Real
	log     *zap.Logger
}

// Update drains config reloads, then advances one frame. Reloads are only
// applied here, so parameters never change inside a frame.
func (g *game) Update() error {
	select {
	case cfg := <-g.updates:
		if err := g.hc.ApplyConfig(cfg); err != nil {
			g.log.Warn("config not applied", zap.Error(err))
		}
		if cfg.FPS > 0 {
			ebiten.SetTPS(cfg.FPS)
			g.dt = 1.0 / hyper4d.Real(cfg.FPS)
		}
	default:
	}
	if err := g.hc.Frame(g.dt, nil); err != nil {
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if img := g.dev.Present(); img != nil {
		screen.DrawImage(img, nil)
	}
}

// Layout runs between frames, which makes it the one safe place to resize.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.hc.Pipeline().Size()
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != w || outsideHeight != h) {
		if err := g.hc.Resize(outsideWidth, outsideHeight); err != nil {
			g.log.Error("resize failed", zap.Error(err))
			return w, h
		}
		w, h = outsideWidth, outsideHeight
	}
	return w, h
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig(args)
	if err != nil {
		return err
	}
	dev := ebitengpu.New()
	hc, err := hyper4d.New(cfg, dev, ebitengpu.Sources(), logger)
	if err != nil {
		return err
	}
	defer hc.Close()

	g := &game{hc: hc, dev: dev, dt: 1.0 / hyper4d.Real(cfg.FPS), log: logger}
	if watch && path != "" {
		cw, err := hyper4d.NewConfigWatcher(path, logger)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := cw.Start(ctx); err != nil {
			return err
		}
		defer cw.Stop()
		g.updates = cw.Updates()
	}

	ebiten.SetWindowTitle(fmt.Sprintf("hyper4d (%s)", hc.ID[:8]))
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)
	return ebiten.RunGame(g)
}
