package http

import (
	"fmt"
	"time"

	"confcollect/internal/collectors"
	"confcollect/internal/fetch"
)

type URLCollector struct{}

func (c *URLCollector) Collect(config map[string]interface{}) ([]collectors.Feed, error) {
	urlVal, ok := config["url"]
	if !ok {
		return nil, fmt.Errorf("missing 'url' in collector config")
	}
	targetURL, ok := urlVal.(string)
	if !ok || targetURL == "" {
		return nil, fmt.Errorf("'url' must be a non-empty string")
	}

	opts := fetch.Options{Timeout: 30 * time.Second}
	if t, ok := config["_timeout"].(time.Duration); ok {
		opts.Timeout = t
	}
	if ua, ok := config["_user_agent"].(string); ok {
		opts.UserAgent = ua
	}
	if proxyStr, ok := config["_proxy_url"].(string); ok {
		opts.ProxyURL = proxyStr
	}

	body, err := fetch.Fetch(targetURL, opts)
	if err != nil {
		return nil, err
	}
	return []collectors.Feed{{Source: targetURL, Body: body}}, nil
}

func init() {
	collectors.Register("http", func() collectors.Collector {
		return &URLCollector{}
	})
}
