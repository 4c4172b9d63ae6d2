package xray

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"confcollect/internal/logger"
	"confcollect/internal/model"

	"github.com/xtls/xray-core/core"
	"gorm.io/gorm"
)

// Manager serves a working stored proxy as a local socks endpoint so
// collectors can run behind it. Candidates are raced concurrently and
// the first one that answers the probe wins.
type Manager struct {
	db              *gorm.DB
	fallback        string
	probeURL        string
	timeout         time.Duration
	currentInstance *core.Instance
	currentPort     int
}

func NewManager(database *gorm.DB, fallback, probeURL string, timeout time.Duration) *Manager {
	return &Manager{
		db:       database,
		fallback: fallback,
		probeURL: probeURL,
		timeout:  timeout,
	}
}

// GetProxy returns a socks5 URL for a verified working proxy, or the
// configured fallback when none of the candidates respond.
func (m *Manager) GetProxy() (string, error) {
	var records []model.Record
	result := m.db.Where("alive = ?", true).
		Order("checked_at DESC").
		Limit(20). // bound the port allocation per attempt
		Find(&records)
	if result.Error != nil || len(records) == 0 {
		return m.fallback, nil
	}

	var raws []string
	for _, rec := range records {
		raws = append(raws, rec.Raw)
	}

	portMap, instance, err := StartBatch(raws)
	if err != nil {
		logger.Log.Warnf("System proxy: failed to start batch: %v", err)
		return m.fallback, nil
	}

	winChan := make(chan int, 1)
	doneChan := make(chan struct{})

	var wg sync.WaitGroup
	for _, raw := range raws {
		port, ok := portMap[raw]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			select {
			case <-doneChan:
				return
			default:
			}
			if m.checkConnection(p) {
				select {
				case winChan <- p:
					close(doneChan)
				default:
				}
			}
		}(port)
	}

	go func() {
		wg.Wait()
		close(winChan)
	}()

	winnerPort, ok := <-winChan
	if ok {
		m.currentInstance = instance
		m.currentPort = winnerPort
		logger.Log.Debugf("System proxy: found working proxy on port %d", winnerPort)
		return fmt.Sprintf("socks5://127.0.0.1:%d", winnerPort), nil
	}

	instance.Close()
	logger.Log.Warn("System proxy: no working stored proxies. Using fallback.")
	return m.fallback, nil
}

func (m *Manager) Stop() {
	if m.currentInstance != nil {
		m.currentInstance.Close()
	}
}

func (m *Manager) checkConnection(port int) bool {
	proxyURL, _ := url.Parse(fmt.Sprintf("socks5://127.0.0.1:%d", port))
	client := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
			DialContext: (&net.Dialer{
				Timeout: m.timeout,
			}).DialContext,
			ResponseHeaderTimeout: m.timeout,
		},
		Timeout: m.timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 400
}
