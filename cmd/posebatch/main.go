package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"mu-bmd-pose/internal/batch"
	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/config"
	"mu-bmd-pose/internal/logx"
	"mu-bmd-pose/internal/preview"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Process only first N models for testing")
	action := flag.Int("action", -1, "Action index to export (default: 0)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: Data/Pose-previews)")
	format := flag.String("format", "", "Preview format: webp or tga (default: webp)")
	leaKey := flag.String("key", "", "LEA-256 key (64 hex digits) for v15 files")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		LEAKey:    *leaKey,
		Action:    *action,
		Format:    *format,
		Workers:   *workers,
	})

	if cfg.BaseDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find Data directory. Use -data flag or config.json.")
		os.Exit(1)
	}

	key, err := cfg.Key()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	files, err := batch.Find(cfg.ModelDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Limit for testing
	if *testN > 0 && *testN < len(files) {
		files = files[:*testN]
	}

	if len(files) == 0 {
		fmt.Println("No models to process.")
		os.Exit(0)
	}

	fmt.Printf("MU Online BMD bone poses → %s previews\n", cfg.PreviewFormat)
	fmt.Printf("Models: %d, Action: %d, Workers: %d\n", len(files), cfg.Action, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	// Run batch
	results := batch.Run(ctx, batch.Config{
		ModelDir:  cfg.ModelDir,
		OutputDir: cfg.OutputDir,
		Decode:    bmd.Options{LEAKey: key},
		Action:    cfg.Action,
		Preview: preview.Options{
			Width:       cfg.PreviewWidth,
			RowHeight:   cfg.RowHeight,
			Supersample: cfg.Supersample,
		},
		Format:  cfg.PreviewFormat,
		Workers: cfg.Workers,
	}, files)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	var failures []batch.Result
	gimbal := 0
	for _, r := range results {
		gimbal += r.GimbalLocks
		if !r.Success {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Exported: %d/%d (gimbal-locked keys: %d)\n", len(results)-len(failures), len(results), gimbal)

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		limit := min(20, len(failures))
		for _, e := range failures[:limit] {
			fmt.Printf("  %s: %s\n", e.File, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
