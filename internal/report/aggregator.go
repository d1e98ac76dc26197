// Package report collects job candidates from all crawled sites, removes
// duplicates, and writes the numbered text report.
package report

import (
	"jobscout-scraper/internal/extract"
	"jobscout-scraper/internal/normalize"
)

// Aggregator deduplicates candidates by URL across sites. The first
// occurrence of a URL wins; insertion order is preserved.
type Aggregator struct {
	seen  map[string]struct{}
	order []extract.Candidate
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		seen: make(map[string]struct{}),
	}
}

// Add records candidates, skipping any whose URL was already seen. URLs are
// normalized first so fragment variants of the same posting collapse to one
// entry.
func (a *Aggregator) Add(candidates ...extract.Candidate) {
	for _, c := range candidates {
		c.URL = normalize.NormalizeURL(c.URL)
		if c.URL == "" {
			continue
		}
		if _, dup := a.seen[c.URL]; dup {
			continue
		}
		a.seen[c.URL] = struct{}{}
		a.order = append(a.order, c)
	}
}

// Jobs returns the deduplicated candidates in insertion order.
func (a *Aggregator) Jobs() []extract.Candidate {
	return a.order
}
