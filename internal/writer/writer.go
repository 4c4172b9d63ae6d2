package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"confcollect/internal/link"
	"confcollect/internal/logger"
)

// WriteConfigs writes one JSON file per config into dir, plus a
// merged.json holding the full array. Existing files with the same
// names are overwritten, other files in dir are left alone.
func WriteConfigs(dir string, configs []*link.Config) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output dir: %w", err)
	}

	written := 0
	for i, c := range configs {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			logger.Log.Warnf("Skipping unserializable config %s: %v", c.CanonicalKey(), err)
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("config_%04d.json", i+1))
		if err := os.WriteFile(name, data, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", name, err)
		}
		written++
	}

	merged, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return written, fmt.Errorf("failed to marshal merged output: %w", err)
	}
	mergedPath := filepath.Join(dir, "merged.json")
	if err := os.WriteFile(mergedPath, merged, 0644); err != nil {
		return written, fmt.Errorf("failed to write %s: %w", mergedPath, err)
	}

	logger.Log.Infof("💾 Wrote %d config files + merged.json to %s", written, dir)
	return written, nil
}
