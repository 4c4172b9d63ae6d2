package checker

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"confcollect/internal/config"
	"confcollect/internal/geoip"
	"confcollect/internal/logger"
	"confcollect/internal/model"
	"confcollect/internal/xray"

	"github.com/schollz/progressbar/v3"
	"gorm.io/gorm"
)

// Checker probes stored records through an embedded Xray instance and
// writes the verdicts back. Records are handled in batches sized by the
// worker count, all outbounds of a batch share one instance.
type Checker struct {
	cfg config.CheckerConfig
}

func New(cfg config.CheckerConfig) *Checker {
	return &Checker{cfg: cfg}
}

// CheckAll probes every record and updates Alive, Country and CheckedAt
// in the database. Returns the number of records that answered.
func (c *Checker) CheckAll(database *gorm.DB, records []model.Record) int {
	total := len(records)
	if total == 0 {
		return 0
	}

	batchSize := c.cfg.WorkerCount
	if batchSize <= 0 {
		batchSize = 20
	}

	poolPorts, err := xray.GetFreePorts(batchSize)
	if err != nil {
		logger.Log.Errorf("Failed to allocate port pool: %v", err)
		return 0
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan]Checking...[reset]"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var alive int
	var aliveLock sync.Mutex

	for i := 0; i < total; i += batchSize {
		end := i + batchSize
		if end > total {
			end = total
		}
		batch := records[i:end]

		var raws []string
		for _, rec := range batch {
			raws = append(raws, rec.Raw)
		}

		portMap, instance, err := xray.StartOnPorts(raws, poolPorts[:len(batch)])
		if err != nil {
			logger.Log.Warnf("Batch failed Xray start: %v", err)
			markDead(database, batch)
			bar.Add(len(batch))
			continue
		}

		var wg sync.WaitGroup
		for _, rec := range batch {
			port, ok := portMap[rec.Raw]
			if !ok {
				markDead(database, []model.Record{rec})
				bar.Add(1)
				continue
			}

			wg.Add(1)
			go func(rec model.Record, localPort int) {
				defer wg.Done()
				defer bar.Add(1)

				_, err := c.Probe(c.MakeClient(localPort))
				updates := map[string]interface{}{
					"alive":      err == nil,
					"checked_at": time.Now(),
				}
				if err == nil {
					if rec.Country == "" {
						updates["country"] = geoip.CountryOfHost(rec.Server)
					}
					aliveLock.Lock()
					alive++
					bar.Describe(fmt.Sprintf("[cyan]Alive: %d[reset]", alive))
					aliveLock.Unlock()
				}
				database.Model(&model.Record{}).Where("id = ?", rec.ID).Updates(updates)
			}(rec, port)
		}
		wg.Wait()
		instance.Close()
	}

	bar.Finish()
	fmt.Print("\n")
	logger.Log.Infof("✅ Check complete. Alive: %d/%d", alive, total)
	return alive
}

// Probe does one GET against the probe URL through the given client and
// returns the observed latency.
func (c *Checker) Probe(client *http.Client) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.cfg.ProbeURL, nil)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("probe failed with status: %d", resp.StatusCode)
	}
	return time.Since(start), nil
}

// MakeClient builds an HTTP client routed through the local socks
// inbound serving one outbound.
func (c *Checker) MakeClient(port int) *http.Client {
	proxyURL, _ := url.Parse(fmt.Sprintf("socks5://127.0.0.1:%d", port))
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
			DialContext: (&net.Dialer{
				Timeout:   c.cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ResponseHeaderTimeout: c.cfg.Timeout,
		},
		Timeout: c.cfg.Timeout,
	}
}

func markDead(database *gorm.DB, batch []model.Record) {
	var ids []uint
	for _, rec := range batch {
		ids = append(ids, rec.ID)
	}
	database.Model(&model.Record{}).Where("id IN ?", ids).Updates(map[string]interface{}{
		"alive":      false,
		"checked_at": time.Now(),
	})
}
