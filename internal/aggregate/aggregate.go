package aggregate

import (
	"sync"
	"time"

	"confcollect/internal/collectors"
	"confcollect/internal/fetch"
	"confcollect/internal/link"
	"confcollect/internal/logger"
	"confcollect/internal/model"
	"confcollect/internal/stats"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Aggregator turns raw feed bodies into deduplicated records. The seen
// map spans the whole run, so a config appearing in two subscriptions
// counts as a duplicate in the second one regardless of worker order.
type Aggregator struct {
	db    *gorm.DB
	Stats *stats.Collector

	mu   sync.Mutex
	seen map[string]bool
}

func New(database *gorm.DB) *Aggregator {
	return &Aggregator{
		db:    database,
		Stats: stats.New(),
		seen:  make(map[string]bool),
	}
}

// Process parses one feed body, deduplicates by canonical key and
// upserts the survivors. Line-level failures are counted, not reported.
func (a *Aggregator) Process(feed collectors.Feed) stats.SubResult {
	start := time.Now()
	configs, candidates := link.ParseSubscription(feed.Body)

	var batch []model.Record
	duplicates := 0
	now := time.Now()

	a.mu.Lock()
	for _, c := range configs {
		c.Source = feed.Source
		key := c.CanonicalKey()
		if a.seen[key] {
			duplicates++
			continue
		}
		a.seen[key] = true
		batch = append(batch, model.Record{
			Key:       key,
			Kind:      string(c.Kind),
			Name:      c.Name,
			Server:    c.Server,
			Port:      c.Port,
			Raw:       c.ToURI(),
			Source:    feed.Source,
			CreatedAt: now,
			LastSeen:  now,
		})
	}
	a.mu.Unlock()

	if len(batch) > 0 {
		result := a.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
		}).CreateInBatches(batch, 500)
		if result.Error != nil {
			logger.Log.Errorf("Batch insert failed for %s: %v", feed.Source, result.Error)
		}
	}

	r := stats.SubResult{
		URL:        feed.Source,
		Status:     "ok",
		TotalLines: candidates,
		Parsed:     len(configs),
		Unique:     len(batch),
		Duplicates: duplicates,
		Elapsed:    time.Since(start),
	}
	a.Stats.Record(r)
	a.recordSubscription(r)
	return r
}

// FetchAll downloads subscription URLs with a bounded worker pool and
// feeds each body through Process. Download failures are recorded in
// the run summary but never abort the run.
func (a *Aggregator) FetchAll(urls []string, opts fetch.Options, maxConcurrent int) {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, u := range urls {
		wg.Add(1)
		sem <- struct{}{}
		go func(target string) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			body, err := fetch.Fetch(target, opts)
			if err != nil {
				logger.Log.Warnf("Fetch failed: %s: %v", target, err)
				r := stats.SubResult{
					URL:     target,
					Status:  "fetch_error",
					Error:   err.Error(),
					Elapsed: time.Since(start),
				}
				a.Stats.Record(r)
				a.recordSubscription(r)
				return
			}
			a.Process(collectors.Feed{Source: target, Body: body})
		}(u)
	}
	wg.Wait()
}

func (a *Aggregator) recordSubscription(r stats.SubResult) {
	sub := model.Subscription{
		URL:        r.URL,
		Status:     r.Status,
		TotalLines: r.TotalLines,
		Parsed:     r.Parsed,
		Unique:     r.Unique,
		Duplicates: r.Duplicates,
		FetchedAt:  time.Now(),
	}
	err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		UpdateAll: true,
	}).Create(&sub).Error
	if err != nil {
		logger.Log.Debugf("Subscription bookkeeping failed for %s: %v", r.URL, err)
	}
}
