package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrBadKey is returned when lea_key is not 64 hex digits.
var ErrBadKey = errors.New("config: lea_key must be 64 hex digits")

// Config holds all configurable paths and pose-export settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	ModelDir  string `json:"model_dir"`
	OutputDir string `json:"output_dir"`

	// LEAKey decrypts v15 BMD files, as hex.
	LEAKey string `json:"lea_key"`

	// Export settings
	Action        int    `json:"action"`
	PreviewWidth  int    `json:"preview_width"`
	RowHeight     int    `json:"row_height"`
	Supersample   int    `json:"supersample"`
	PreviewFormat string `json:"preview_format"`
	Workers       int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	LEAKey    string
	Action    int // negative means unset
	Format    string
	Workers   int
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.LEAKey != "" {
		c.LEAKey = flags.LEAKey
	}
	if flags.Action >= 0 {
		c.Action = flags.Action
	}
	if flags.Format != "" {
		c.PreviewFormat = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Auto-detect base dir if still empty
	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		c.ModelDir = resolvePath(c.BaseDir, c.ModelDir, filepath.Join("Data", "Player"))
		c.OutputDir = resolvePath(c.BaseDir, c.OutputDir, filepath.Join("Data", "Pose-previews"))
	}

	// Defaults for export settings
	if c.Action < 0 {
		c.Action = 0
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = 512
	}
	if c.RowHeight <= 0 {
		c.RowHeight = 48
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	c.PreviewFormat = strings.ToLower(c.PreviewFormat)
	if c.PreviewFormat == "" {
		c.PreviewFormat = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Key decodes LEAKey. It returns nil when no key is configured.
func (c *Config) Key() (*[32]byte, error) {
	if c.LEAKey == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimSpace(c.LEAKey))
	if err != nil || len(raw) != 32 {
		return nil, ErrBadKey
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

func resolvePath(base, p, def string) string {
	if p == "" {
		return filepath.Join(base, def)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(base, p)
	}
	return p
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if hasData(base) {
				return base
			}
		}
	}

	// Try current working directory, then its parent
	cwd, _ := os.Getwd()
	if hasData(cwd) {
		return cwd
	}
	if parent := filepath.Dir(cwd); hasData(parent) {
		return parent
	}

	return ""
}

func hasData(base string) bool {
	_, err := os.Stat(filepath.Join(base, "Data"))
	return err == nil
}
