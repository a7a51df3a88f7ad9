// Package salary converts vacancy salary ranges to rubles and computes
// aggregate statistics over them, both for the whole batch and partitioned
// by experience tier.
package salary

import (
	"sort"

	"github.com/hh-tools/go-analyzer/internal/analytics/category"
	"github.com/hh-tools/go-analyzer/internal/analytics/normalizer"
	"github.com/hh-tools/go-analyzer/internal/domain"
)

const topCurrencies = 5

// histogram edges in rubles, ascending. A value falls into the bucket of
// the first edge it is strictly less than, else into the open top bucket.
var bucketEdges = []float64{100000, 150000, 200000, 250000, 300000, 400000}

var bucketLabels = []string{
	"до 100к",
	"100-150к",
	"150-200к",
	"200-250к",
	"250-300к",
	"300-400к",
	"400к+",
}

// sample accumulates converted salary data for one group of vacancies.
type sample struct {
	reps       []float64
	froms      []float64
	tos        []float64
	currencies *category.Counter
}

func newSample() *sample {
	return &sample{currencies: category.NewCounter()}
}

// Collector feeds vacancies into the overall sample and into the sample of
// their experience tier.
type Collector struct {
	rates   Rates
	overall *sample
	byTier  map[domain.ExperienceTier]*sample
}

func NewCollector(rates Rates) *Collector {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Collector{
		rates:   rates,
		overall: newSample(),
		byTier:  make(map[domain.ExperienceTier]*sample),
	}
}

// Collect runs the whole batch through a fresh collector.
func Collect(vacancies []domain.RawVacancy, rates Rates) *Collector {
	c := NewCollector(rates)
	for _, v := range vacancies {
		rng, ok := normalizer.Salary(v)
		if !ok {
			continue
		}
		c.Add(rng, normalizer.Experience(v))
	}
	return c
}

// Add records one salary range. The original currency is counted even when
// the range has no usable bound; the representative value only exists when
// at least one bound is present, and then contributes to exactly one tier
// sample besides the overall one.
func (c *Collector) Add(rng domain.SalaryRange, tier domain.ExperienceTier) {
	c.overall.currencies.Add(rng.Currency)

	from, to := c.rates.Convert(rng)
	if from != nil {
		c.overall.froms = append(c.overall.froms, *from)
	}
	if to != nil {
		c.overall.tos = append(c.overall.tos, *to)
	}

	rep, ok := representative(from, to)
	if !ok {
		return
	}
	c.overall.reps = append(c.overall.reps, rep)

	ts, exists := c.byTier[tier]
	if !exists {
		ts = newSample()
		c.byTier[tier] = ts
	}
	ts.currencies.Add(rng.Currency)
	if from != nil {
		ts.froms = append(ts.froms, *from)
	}
	if to != nil {
		ts.tos = append(ts.tos, *to)
	}
	ts.reps = append(ts.reps, rep)
}

// Overall computes statistics over the whole batch.
func (c *Collector) Overall() domain.SalaryStats {
	return compute(c.overall)
}

// ByTier computes statistics per experience tier, keyed by tier label.
// Tiers without a single data point are omitted.
func (c *Collector) ByTier() map[string]*domain.SalaryStats {
	result := make(map[string]*domain.SalaryStats, len(c.byTier))
	for tier, s := range c.byTier {
		if len(s.reps) == 0 {
			continue
		}
		stats := compute(s)
		result[tier.Label()] = &stats
	}
	return result
}

// representative collapses a converted range to one value: the midpoint
// when both bounds are present, otherwise the present bound.
func representative(from, to *float64) (float64, bool) {
	switch {
	case from != nil && to != nil:
		return (*from + *to) / 2, true
	case from != nil:
		return *from, true
	case to != nil:
		return *to, true
	}
	return 0, false
}

// compute derives the stats block for one sample. Point statistics are
// truncated to whole rubles, not rounded.
func compute(s *sample) domain.SalaryStats {
	if len(s.reps) == 0 {
		return domain.SalaryStats{Available: false}
	}

	sorted := make([]float64, len(s.reps))
	copy(sorted, s.reps)
	sort.Float64s(sorted)

	stats := domain.SalaryStats{
		Available:  true,
		Count:      len(sorted),
		Min:        int(sorted[0]),
		Max:        int(sorted[len(sorted)-1]),
		Mean:       int(mean(sorted)),
		Median:     int(median(sorted)),
		Histogram:  histogram(s.reps),
		Currencies: s.currencies.MostCommon(topCurrencies),
	}
	if len(s.froms) > 0 {
		v := int(mean(s.froms))
		stats.MeanFrom = &v
	}
	if len(s.tos) > 0 {
		v := int(mean(s.tos))
		stats.MeanTo = &v
	}
	return stats
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median expects values sorted ascending and averages the two middle
// values for even-sized samples.
func median(values []float64) float64 {
	n := len(values)
	if n%2 == 1 {
		return values[n/2]
	}
	return (values[n/2-1] + values[n/2]) / 2
}

func histogram(reps []float64) []domain.HistogramBucket {
	buckets := make([]domain.HistogramBucket, len(bucketLabels))
	for i, label := range bucketLabels {
		buckets[i].Label = label
	}
	for _, rep := range reps {
		buckets[bucketIndex(rep)].Count++
	}
	return buckets
}

func bucketIndex(v float64) int {
	for i, edge := range bucketEdges {
		if v < edge {
			return i
		}
	}
	return len(bucketEdges)
}
