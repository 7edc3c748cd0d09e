package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"mu-bmd-pose/internal/bmd"
	"mu-bmd-pose/internal/logx"
	"mu-bmd-pose/internal/preview"
	"mu-bmd-pose/internal/track"
)

// Config holds all shared settings for a batch run.
type Config struct {
	ModelDir  string
	OutputDir string
	Decode    bmd.Options
	Action    int
	Preview   preview.Options
	Format    string // preview extension: webp or tga
	Workers   int

	// ProgressEvery is the progress log interval. Zero means 2s.
	ProgressEvery time.Duration
}

// Result holds the outcome of processing one model file.
type Result struct {
	File        string
	Model       string
	Bones       int
	Actions     int
	Keys        int
	GimbalLocks int
	StaticBones int
	Preview     string // relative to OutputDir
	Success     bool
	Error       string

	Summaries []track.Summary
}

// Find returns the .bmd files under dir relative to it, sorted.
func Find(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".bmd") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Files not started before ctx is
// cancelled are reported with the context error.
func Run(ctx context.Context, cfg Config, files []string) []Result {
	log := logx.Logger()
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	every := cfg.ProgressEvery
	if every <= 0 {
		every = 2 * time.Second
	}

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("batch: progress", "done", p, "total", total, "per_sec", fmt.Sprintf("%.1f", rate))
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{File: files[idx], Error: err.Error()}
				} else {
					results[idx] = processFile(cfg, files[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range files {
		if ctx.Err() != nil {
			results[i] = Result{File: files[i], Error: ctx.Err().Error()}
			continue
		}
		select {
		case fileChan <- i:
		case <-ctx.Done():
			results[i] = Result{File: files[i], Error: ctx.Err().Error()}
		}
	}
	close(fileChan)

	wg.Wait()
	close(done)

	log.Info("batch: finished", "files", total, "elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

func processFile(cfg Config, file string) Result {
	res := Result{File: file}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ModelDir, file)
	}

	m, err := bmd.Parse(path, cfg.Decode)
	if err != nil {
		logx.Logger().Warn("batch: skip", "file", file, "err", err)
		res.Error = err.Error()
		return res
	}

	res.Model = m.Name
	res.Bones = len(m.Bones)
	res.Actions = len(m.Actions)
	if cfg.Action >= len(m.Actions) {
		res.Error = fmt.Sprintf("action %d not present (%d actions)", cfg.Action, len(m.Actions))
		return res
	}

	res.Summaries = track.SummarizeAll(m, cfg.Action)
	for _, s := range res.Summaries {
		res.Keys += s.Keys
		res.GimbalLocks += s.GimbalLocks
		if s.Static() {
			res.StaticBones++
		}
	}

	format := cfg.Format
	if format == "" {
		format = "webp"
	}
	rel := strings.TrimSuffix(file, filepath.Ext(file)) + "." + format
	if filepath.IsAbs(rel) {
		rel = filepath.Base(rel)
	}
	img := preview.Render(res.Summaries, cfg.Preview)
	if err := preview.WriteFile(filepath.Join(cfg.OutputDir, rel), img); err != nil {
		logx.Logger().Warn("batch: preview", "file", file, "err", err)
		res.Error = err.Error()
		return res
	}

	res.Preview = filepath.ToSlash(rel)
	res.Success = true
	return res
}
