// Package category builds the categorical breakdowns of a vacancy batch:
// employers, employment types, schedules and experience tiers.
package category

import (
	"github.com/hh-tools/go-analyzer/internal/analytics/normalizer"
	"github.com/hh-tools/go-analyzer/internal/domain"
)

const topEmployers = 20

// Result holds all categorical breakdowns for one batch.
type Result struct {
	Employers  domain.EmployerStats
	Experience []domain.CategoryCount
	Employment []domain.CategoryCount
	Schedule   []domain.CategoryCount
}

// Aggregate counts categorical fields across the batch. Vacancies without
// an employer, employment or schedule field are left out of that
// breakdown; experience always counts, with unknown values in the
// unspecified tier.
func Aggregate(vacancies []domain.RawVacancy) Result {
	employers := NewCounter()
	experience := NewCounter()
	employment := NewCounter()
	schedule := NewCounter()

	for _, v := range vacancies {
		if name, ok := normalizer.Employer(v); ok {
			employers.Add(name)
		}
		experience.Add(normalizer.Experience(v).Label())
		if label, ok := normalizer.Employment(v); ok {
			employment.Add(label)
		}
		if label, ok := normalizer.Schedule(v); ok {
			schedule.Add(label)
		}
	}

	return Result{
		Employers: domain.EmployerStats{
			Unique: employers.Distinct(),
			Top:    employers.MostCommon(topEmployers),
		},
		Experience: experience.MostCommon(0),
		Employment: employment.MostCommon(0),
		Schedule:   schedule.MostCommon(0),
	}
}
