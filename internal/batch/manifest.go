package batch

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry represents one model in the output manifest.
type ManifestEntry struct {
	File        string `json:"file"`
	Model       string `json:"model,omitempty"`
	Bones       int    `json:"bones"`
	Actions     int    `json:"actions"`
	Keys        int    `json:"keys"`
	GimbalLocks int    `json:"gimbal_locks"`
	StaticBones int    `json:"static_bones"`
	Preview     string `json:"preview,omitempty"`
	Error       string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json for a batch run.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			File:        r.File,
			Model:       r.Model,
			Bones:       r.Bones,
			Actions:     r.Actions,
			Keys:        r.Keys,
			GimbalLocks: r.GimbalLocks,
			StaticBones: r.StaticBones,
			Preview:     r.Preview,
			Error:       r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
