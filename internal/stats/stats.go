package stats

import (
	"fmt"
	"os"
	"sync"
	"text/tabwriter"
	"time"
)

// SubResult is the outcome of processing one subscription feed.
type SubResult struct {
	URL        string
	Status     string
	Error      string
	TotalLines int
	Parsed     int
	Unique     int
	Duplicates int
	Elapsed    time.Duration
}

// Failed returns the number of candidate lines that produced no record.
func (r *SubResult) Failed() int {
	return r.TotalLines - r.Parsed
}

// Collector aggregates per-subscription results across concurrent
// workers. Individual line failures are not itemized, only counted.
type Collector struct {
	mu      sync.Mutex
	results []SubResult
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(r SubResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *Collector) Results() []SubResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SubResult, len(c.results))
	copy(out, c.results)
	return out
}

// PrintReport writes the collection summary table to stdout.
func (c *Collector) PrintReport() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var totalLines, totalParsed, totalUnique, totalDup int
	for _, r := range c.results {
		totalLines += r.TotalLines
		totalParsed += r.Parsed
		totalUnique += r.Unique
		totalDup += r.Duplicates
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Println("\n📊 \033[1mCOLLECTION SUMMARY\033[0m")
	fmt.Println("────────────────────────────────────────")
	fmt.Fprintf(w, "  Subscriptions processed:\t%d\n", len(c.results))
	fmt.Fprintf(w, "  Candidate lines:\t%d\n", totalLines)
	fmt.Fprintf(w, "  Parsed configs:\t%d\n", totalParsed)
	fmt.Fprintf(w, "  Failed lines:\t%d\n", totalLines-totalParsed)
	fmt.Fprintf(w, "  Unique configs:\t%d\n", totalUnique)
	fmt.Fprintf(w, "  Duplicates removed:\t%d\n", totalDup)
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "\033[1;36m[ PER-SUBSCRIPTION ]\033[0m")
	for _, r := range c.results {
		fmt.Fprintf(w, "  %s\t%s\tparsed %d/%d\tunique %d\tdup %d\n",
			r.URL, r.Status, r.Parsed, r.TotalLines, r.Unique, r.Duplicates)
		if r.Error != "" {
			fmt.Fprintf(w, "  \t↳ %s\n", r.Error)
		}
	}
	w.Flush()
	fmt.Println("")
}
