package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"confcollect/internal/logger"
)

// Options controls a single subscription download.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	ProxyURL  string // optional outbound proxy, e.g. socks5://127.0.0.1:1080
}

// Fetch downloads a subscription body. Non-200 responses and transport
// failures are errors; interpreting an empty body is left to the caller.
func Fetch(target string, opts Options) (string, error) {
	client := &http.Client{Timeout: opts.Timeout}

	if opts.ProxyURL != "" {
		if pURL, err := url.Parse(opts.ProxyURL); err == nil {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(pURL)}
			logger.Log.Debugf("Fetching via proxy: %s", opts.ProxyURL)
		}
	}

	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("invalid subscription url: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}

	logger.Log.Debugf("Fetching URL: %s", target)
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}
