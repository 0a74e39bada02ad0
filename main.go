package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/game"
	"github.com/pthm-cable/unravel/renderer"
	"github.com/pthm-cable/unravel/telemetry"
	"github.com/pthm-cable/unravel/terminal"
	"github.com/pthm-cable/unravel/window"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "window", "Host: window, terminal or headless")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop a headless run after N ticks (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for headless PNG frames")
	snapshotEvery := flag.Int("snapshot-every", 60, "Ticks between headless PNG frames")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logFile := flag.String("log-file", "unravel.log", "Log destination in terminal mode")
	script := flag.Bool("script", true, "Drive a headless run with a scripted drag")

	flag.Parse()

	if err := run(*configPath, *mode, *seed, *maxTicks, *outputDir, *snapshotDir,
		*snapshotEvery, *logStats, *logFile, *script); err != nil {
		slog.Error("unravel failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mode string, seed int64, maxTicks int, outputDir, snapshotDir string,
	snapshotEvery int, logStats bool, logFile string, script bool) error {

	// stdout belongs to the screen in terminal mode
	logOut := os.Stdout
	if mode == "terminal" {
		f, err := os.Create(logFile)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	output, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:     seed,
		Output:   output,
		LogStats: logStats,
	}
	slog.Info("starting", "mode", mode, "seed", seed, "config", configPath)

	switch mode {
	case "window":
		return window.Run(ctx, cfg, opts)
	case "terminal":
		return terminal.Run(ctx, cfg, opts)
	case "headless":
		return runHeadless(ctx, cfg, opts, int32(maxTicks), snapshotDir, int32(snapshotEvery), script)
	}
	return fmt.Errorf("unknown mode %q: want window, terminal or headless", mode)
}

func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options,
	maxTicks int32, snapshotDir string, snapshotEvery int32, script bool) error {

	w, h := cfg.Screen.Width, cfg.Screen.Height

	var frames *renderer.ImageSurface
	if snapshotDir != "" {
		frames = renderer.NewImageSurface(w, h)
		opts.Surface = frames
	}

	sim, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer sim.Close()
	sim.Init(float64(w), float64(h))

	hopts := game.HeadlessOptions{
		MaxTicks:      maxTicks,
		SnapshotDir:   snapshotDir,
		SnapshotEvery: snapshotEvery,
	}
	if frames != nil {
		hopts.Snapshots = frames
	}
	if script {
		s := game.DefaultDragScript()
		hopts.Script = &s
	}

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"scripted", script,
	)
	if err := game.RunHeadless(ctx, sim, hopts); err != nil {
		return err
	}

	st := sim.Status()
	slog.Info("headless run finished",
		"tick", st.Tick,
		"springs", st.Springs,
		"torn_fraction", st.TornFraction,
		"free", st.Free,
	)
	return nil
}
