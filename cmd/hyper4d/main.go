package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/lukaszgryglicki/hyper4d/internal/hyper4d"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	frames  int
	watch   bool
	pngOut  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hyper4d",
	Short: "Six-layer 4D polytope constellation driven by a six-channel signal",
	Long: `hyper4d renders five 24-cells tiling the 600-cell plus a pilot 24-cell.
Each layer folds between three scale states as the signal stresses it, and
the layers are composited with the exclusion blend in ping-pong passes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run [config]",
	Short: "Open a window and render live",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWindow,
}

var headlessCmd = &cobra.Command{
	Use:   "headless [config]",
	Short: "Render frames on the CPU and save a GIF or PNG sequence",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHeadless,
}

var polytopeCmd = &cobra.Command{
	Use:   "polytope",
	Short: "Print the 24-cell, its trilatic subsets and the 600-cell tiling",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hyper4d.WritePolytopeReport(cmd.OutOrStdout())
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file> [config]",
	Short: "Restore a saved session and print its state",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  inspectSnapshot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	headlessCmd.Flags().IntVar(&frames, "frames", 0, "Number of frames to render (default: from config)")
	headlessCmd.Flags().BoolVar(&pngOut, "png", false, "Save a 16-bit PNG sequence instead of a GIF")
	runCmd.Flags().BoolVar(&watch, "watch", false, "Reload the config file when it changes")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(polytopeCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// loadConfig reads the optional config argument.
func loadConfig(args []string) (*hyper4d.Config, string, error) {
	if len(args) == 0 || args[0] == "" {
		return hyper4d.DefaultConfig(), "", nil
	}
	cfg, err := hyper4d.LoadConfig(args[0])
	return cfg, args[0], err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(args)
	if err != nil {
		return err
	}
	if frames > 0 {
		cfg.Frames = frames
	}
	if pngOut {
		cfg.PNG = true
	}
	stats, err := hyper4d.RunHeadless(cfg, logger, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "session %s: %d frames, %d passes, %d blits\n",
		stats.ID, stats.FramesRendered, stats.Passes, stats.Blits)
	return nil
}

func inspectSnapshot(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	cfg, _, err := loadConfig(args[1:])
	if err != nil {
		return err
	}
	hc, err := hyper4d.New(cfg, hyper4d.NewSoftDevice(), hyper4d.SoftSources(), logger)
	if err != nil {
		return err
	}
	defer hc.Close()
	if err := hc.Restore(data); err != nil {
		return err
	}
	return hyper4d.WriteStats(cmd.OutOrStdout(), hc)
}

func main() {
	hyper4d.Debug = os.Getenv("DEBUG") != ""
	hyper4d.PNG = os.Getenv("PNG") != ""
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Error: %v\n", err)
		// deferred profile stop must run before exiting
		if profile {
			pprof.StopCPUProfile()
		}
		os.Exit(1)
	}
}
