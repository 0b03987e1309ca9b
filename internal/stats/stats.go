// Package stats computes read-only dashboard statistics over an item
// snapshot. All functions are pure; the store is never touched.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// trendWindowDays is how far back the items-by-date trend reaches.
const trendWindowDays = 30

// topN caps the frequency rankings.
const topN = 10

// Totals holds the headline counters.
type Totals struct {
	TotalItems   int     `json:"totalItems"`
	LostItems    int     `json:"lostItems"`
	FoundItems   int     `json:"foundItems"`
	ActiveItems  int     `json:"activeItems"`
	ClaimedItems int     `json:"claimedItems"`
	PendingItems int     `json:"pendingItems"`
	ClaimRate    float64 `json:"claimRate"`
}

// NameCount is one row of a frequency ranking.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Snapshot is the full dashboard payload.
type Snapshot struct {
	Stats         Totals      `json:"stats"`
	TopCategories []NameCount `json:"topCategories"`
	TopLocations  []NameCount `json:"topLocations"`
	MostLostItems []NameCount `json:"mostLostItems"`
	ItemsByDate   map[int]int `json:"itemsByDate"`
}

// Compute aggregates dashboard statistics from the given items. The trend
// buckets are relative to now (0 = today).
func Compute(items []model.Item, now time.Time) Snapshot {
	var totals Totals
	totals.TotalItems = len(items)

	for _, item := range items {
		switch item.Type {
		case model.TypeLost:
			totals.LostItems++
		case model.TypeFound:
			totals.FoundItems++
		}
		switch item.Status {
		case model.StatusActive:
			totals.ActiveItems++
		case model.StatusClaimed:
			totals.ClaimedItems++
		case model.StatusPending:
			totals.PendingItems++
		}
	}

	if totals.TotalItems > 0 {
		rate := float64(totals.ClaimedItems) / float64(totals.TotalItems) * 100
		totals.ClaimRate = math.Round(rate*10) / 10
	}

	categories := newFrequency()
	locations := newFrequency()
	lostTitles := newFrequency()
	for _, item := range items {
		categories.add(orUnknown(item.Category))
		locations.add(orUnknown(item.Location))
		if item.Type == model.TypeLost {
			lostTitles.add(strings.ToLower(item.Title))
		}
	}

	return Snapshot{
		Stats:         totals,
		TopCategories: categories.top(topN),
		TopLocations:  locations.top(topN),
		MostLostItems: lostTitles.top(topN),
		ItemsByDate:   itemsByDate(items, now),
	}
}

// itemsByDate buckets items by whole days before now, keeping the last
// trendWindowDays. Items whose createdAt doesn't parse are skipped.
func itemsByDate(items []model.Item, now time.Time) map[int]int {
	buckets := make(map[int]int)
	for _, item := range items {
		created, ok := parseCreatedAt(item.CreatedAt)
		if !ok {
			continue
		}
		daysAgo := int(now.Sub(created).Hours() / 24)
		if daysAgo <= trendWindowDays {
			buckets[daysAgo]++
		}
	}
	return buckets
}

// parseCreatedAt accepts RFC 3339 timestamps as written by the store, plus
// zone-less ones left over from imported data.
func parseCreatedAt(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// frequency counts occurrences while remembering first-encounter order so
// ranking ties stay stable.
type frequency struct {
	counts map[string]int
	order  []string
}

func newFrequency() *frequency {
	return &frequency{counts: make(map[string]int)}
}

func (f *frequency) add(key string) {
	if _, seen := f.counts[key]; !seen {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

// top returns the n most frequent keys, descending by count, ties broken by
// first-encountered order.
func (f *frequency) top(n int) []NameCount {
	ranked := make([]NameCount, 0, len(f.order))
	for _, key := range f.order {
		ranked = append(ranked, NameCount{Name: key, Count: f.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
