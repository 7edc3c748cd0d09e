package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/config"
	"mu-bmd-pose/internal/logx"
	"mu-bmd-pose/internal/skeleton"
	"mu-bmd-pose/internal/track"
)

func main() {
	action := flag.Int("action", 0, "Action (animation clip) index")
	frame := flag.Int("frame", 0, "Key index used by -world")
	world := flag.Bool("world", false, "Print world rotations at -action/-frame")
	asJSON := flag.Bool("json", false, "Emit per-bone summaries as JSON (NaN/Inf written as strings)")
	leaKey := flag.String("key", "", "LEA-256 key (64 hex digits) for v15 files")
	verbose := flag.Bool("v", false, "Debug logging to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := config.Config{LEAKey: *leaKey}
	key, err := cfg.Key()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	opts := bmd.Options{LEAKey: key}

	failed := false
	for _, arg := range flag.Args() {
		m, err := bmd.Parse(arg, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Parse error %s: %v\n", arg, err)
			failed = true
			continue
		}

		summaries := track.SummarizeAll(m, *action)
		if *asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(struct {
				File   string          `json:"file"`
				Model  string          `json:"model"`
				Action int             `json:"action"`
				Bones  []track.Summary `json:"bones"`
			}{arg, m.Name, *action, summaries}); err != nil {
				fmt.Fprintf(os.Stderr, "JSON error %s: %v\n", arg, err)
				failed = true
			}
			continue
		}

		fmt.Printf("\n=== %s %q v%d (meshes=%d bones=%d actions=%d) ===\n",
			arg, m.Name, m.Version, len(m.Meshes), len(m.Bones), len(m.Actions))
		for i, a := range m.Actions {
			lock := ""
			if a.LockPositions {
				lock = " [LOCKPOS]"
			}
			fmt.Printf("  Action[%d]: keys=%d%s\n", i, a.Keys, lock)
		}

		fmt.Printf("--- ACTION %d ---\n", *action)
		for _, s := range summaries {
			flags := ""
			if s.Static() {
				flags += " [STATIC]"
			}
			if s.GimbalLocks > 0 {
				flags += fmt.Sprintf(" [GIMBAL x%d]", s.GimbalLocks)
			}
			fmt.Printf("  Bone[%d] %q parent=%d keys=%d distinct=%d holds=%d%s\n",
				s.Bone, s.Name, s.Parent, s.Keys, s.Distinct, len(s.Holds), flags)
			for k, e := range s.Euler {
				unit := "deg"
				if e.Radians {
					unit = "rad"
				}
				fmt.Printf("    key %3d  q=%v  euler=(%.3f, %.3f, %.3f) %s\n",
					k, e.Rotation, e.Euler.X, e.Euler.Y, e.Euler.Z, unit)
			}
		}

		if *world {
			fmt.Printf("--- WORLD (action %d, key %d) ---\n", *action, *frame)
			for i, t := range skeleton.Pose(m.Bones, *action, *frame) {
				if m.Bones[i].IsDummy {
					continue
				}
				e := t.Rotation.ToEuler()
				fmt.Printf("  Bone[%d] pos=%v q=%v euler=(%.3f, %.3f, %.3f)\n",
					i, t.Position, t.Rotation, e.X, e.Y, e.Z)
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}
