package model

import (
	"time"
)

// Record is a stored proxy configuration. Key is the canonical identity
// (kind://server:port) and enforces deduplication at the database level.
type Record struct {
	ID        uint   `gorm:"primaryKey"`
	Key       string `gorm:"uniqueIndex"`
	Kind      string
	Name      string
	Server    string
	Port      int
	Raw       string // original link as collected
	Source    string // originating subscription URL or collector name
	Country   string
	Alive     bool
	CreatedAt time.Time
	LastSeen  time.Time
	CheckedAt time.Time
}

// Subscription keeps per-feed bookkeeping for the run summary.
type Subscription struct {
	ID         uint   `gorm:"primaryKey"`
	URL        string `gorm:"uniqueIndex"`
	Status     string
	TotalLines int
	Parsed     int
	Unique     int
	Duplicates int
	FetchedAt  time.Time
}
