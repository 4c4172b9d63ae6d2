package file

import (
	"fmt"
	"os"

	"confcollect/internal/collectors"
)

// Collector reads a local feed file: either a base64 blob or a link
// list, exactly like a downloaded subscription body.
type Collector struct{}

func (c *Collector) Collect(config map[string]interface{}) ([]collectors.Feed, error) {
	pathVal, ok := config["path"]
	if !ok {
		return nil, fmt.Errorf("missing 'path' in collector config")
	}
	path, ok := pathVal.(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("'path' must be a non-empty string")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed file: %w", err)
	}
	return []collectors.Feed{{Source: path, Body: string(data)}}, nil
}

func init() {
	collectors.Register("file", func() collectors.Collector {
		return &Collector{}
	})
}
