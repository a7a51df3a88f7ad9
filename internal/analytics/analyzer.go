// Package analytics derives a statistical summary from a batch of raw
// hh.ru vacancies: salary distributions overall and by experience tier,
// categorical breakdowns and skill keyword frequencies.
//
// The whole pipeline is a pure single pass over an in-memory slice. It
// performs no I/O and keeps no state between calls, so independent
// analyses can run concurrently without coordination.
package analytics

import (
	"errors"

	"github.com/hh-tools/go-analyzer/internal/analytics/category"
	"github.com/hh-tools/go-analyzer/internal/analytics/salary"
	"github.com/hh-tools/go-analyzer/internal/analytics/skills"
	"github.com/hh-tools/go-analyzer/internal/domain"
)

// ErrNoVacancies is returned when the batch is empty. Callers are expected
// to check for it instead of rendering a zero summary.
var ErrNoVacancies = errors.New("no vacancies to analyze")

// Analyzer assembles analysis summaries. The conversion rate table is
// fixed at construction so repeated analyses stay comparable.
type Analyzer struct {
	rates salary.Rates
}

func New(rates salary.Rates) *Analyzer {
	if rates == nil {
		rates = salary.DefaultRates()
	}
	return &Analyzer{rates: rates}
}

// Analyze runs every stage over the batch and packs the results into one
// immutable summary owned by the caller.
func (a *Analyzer) Analyze(vacancies []domain.RawVacancy) (*domain.AnalysisSummary, error) {
	if len(vacancies) == 0 {
		return nil, ErrNoVacancies
	}

	salaries := salary.Collect(vacancies, a.rates)
	categories := category.Aggregate(vacancies)

	return &domain.AnalysisSummary{
		Total:              len(vacancies),
		Salary:             salaries.Overall(),
		SalaryByExperience: salaries.ByTier(),
		Employers:          categories.Employers,
		Experience:         categories.Experience,
		Employment:         categories.Employment,
		Schedule:           categories.Schedule,
		Skills:             skills.Extract(vacancies),
	}, nil
}
