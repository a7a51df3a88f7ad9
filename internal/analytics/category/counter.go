package category

import (
	"sort"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

// Counter counts label occurrences while remembering the order in which
// each label was first seen. Ranking ties are broken by that order, so two
// employers with the same vacancy count rank in input order instead of
// flapping between runs.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Add records one occurrence of label.
func (c *Counter) Add(label string) {
	if _, seen := c.counts[label]; !seen {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// Distinct returns the number of different labels recorded.
func (c *Counter) Distinct() int {
	return len(c.counts)
}

// MostCommon returns entries ordered by descending count, ties in
// first-seen order. A limit of zero or less returns all entries.
func (c *Counter) MostCommon(limit int) []domain.CategoryCount {
	entries := make([]domain.CategoryCount, 0, len(c.order))
	for _, label := range c.order {
		entries = append(entries, domain.CategoryCount{Label: label, Count: c.counts[label]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
