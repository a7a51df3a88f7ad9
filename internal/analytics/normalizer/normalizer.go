// Package normalizer resolves the loosely-typed fields of raw hh.ru
// vacancies into canonical scalar values. The API ships the same field as a
// nested object, a bare code string, or not at all depending on the source
// of the posting; every resolver here accepts all three shapes and degrades
// to "not present" instead of failing.
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

const unspecifiedLabel = "Не указано"

// experienceTiers maps hh.ru experience codes to tiers. Unknown or absent
// codes resolve to TierUnspecified.
var experienceTiers = map[string]domain.ExperienceTier{
	"noExperience": domain.TierNone,
	"between1And3": domain.TierJunior,
	"between3And6": domain.TierMid,
	"moreThan6":    domain.TierSenior,
}

// employmentLabels maps hh.ru employment codes to display labels.
var employmentLabels = map[string]string{
	"full":      "Полная занятость",
	"part":      "Частичная занятость",
	"project":   "Проектная работа",
	"volunteer": "Волонтёрство",
	"probation": "Стажировка",
}

// Experience resolves the vacancy's experience requirement to a tier.
func Experience(v domain.RawVacancy) domain.ExperienceTier {
	switch exp := v.RawData["experience"].(type) {
	case map[string]any:
		if tier, ok := experienceTiers[getString(exp, "id")]; ok {
			return tier
		}
	case string:
		if tier, ok := experienceTiers[exp]; ok {
			return tier
		}
	}
	return domain.TierUnspecified
}

// Employer resolves the employer name. The second return is false when the
// vacancy carries no employer field at all; such vacancies are excluded
// from the employer breakdown rather than bucketed as unspecified.
func Employer(v domain.RawVacancy) (string, bool) {
	switch emp := v.RawData["employer"].(type) {
	case map[string]any:
		if name := getString(emp, "name"); name != "" {
			return name, true
		}
		return unspecifiedLabel, true
	case string:
		if emp != "" {
			return emp, true
		}
	}
	return "", false
}

// Employment resolves the employment type label. Known codes map through
// the fixed table; an object with an unknown code falls back to its name
// field, then to the unspecified label. Absent field resolves to not
// present.
func Employment(v domain.RawVacancy) (string, bool) {
	switch emp := v.RawData["employment"].(type) {
	case map[string]any:
		if label, ok := employmentLabels[getString(emp, "id")]; ok {
			return label, true
		}
		if name := getString(emp, "name"); name != "" {
			return name, true
		}
		return unspecifiedLabel, true
	case string:
		if emp == "" {
			return "", false
		}
		if label, ok := employmentLabels[emp]; ok {
			return label, true
		}
		return emp, true
	}
	return "", false
}

// Schedule resolves the work schedule label.
func Schedule(v domain.RawVacancy) (string, bool) {
	switch sched := v.RawData["schedule"].(type) {
	case map[string]any:
		if name := getString(sched, "name"); name != "" {
			return name, true
		}
		return unspecifiedLabel, true
	case string:
		if sched != "" {
			return sched, true
		}
	}
	return "", false
}

// Salary extracts the salary range. The second return is false when the
// vacancy has no salary object; a range with neither bound still reports
// its currency so currency frequencies match the upstream data.
func Salary(v domain.RawVacancy) (domain.SalaryRange, bool) {
	salary, ok := v.RawData["salary"].(map[string]any)
	if !ok || len(salary) == 0 {
		return domain.SalaryRange{}, false
	}

	rng := domain.SalaryRange{Currency: "RUR"}
	if c := getString(salary, "currency"); c != "" {
		rng.Currency = c
	}
	if from := getFloat(salary, "from"); from != 0 {
		rng.From = from
		rng.HasFrom = true
	}
	if to := getFloat(salary, "to"); to != 0 {
		rng.To = to
		rng.HasTo = true
	}
	return rng, true
}

// SnippetText returns the lower-cased requirement and responsibility text
// joined into one search buffer. Missing fields contribute nothing.
func SnippetText(v domain.RawVacancy) string {
	snippet, ok := v.RawData["snippet"].(map[string]any)
	if !ok {
		return ""
	}
	requirement := strings.ToLower(getString(snippet, "requirement"))
	responsibility := strings.ToLower(getString(snippet, "responsibility"))
	return requirement + " " + responsibility
}

// Flatten builds the canonical archive record from a raw vacancy.
func Flatten(v domain.RawVacancy) *domain.Vacancy {
	out := &domain.Vacancy{
		ID:        v.ID,
		Name:      getString(v.RawData, "name"),
		URL:       getString(v.RawData, "alternate_url"),
		FetchedAt: v.FetchedAt,
	}
	if out.ID == "" {
		out.ID = getString(v.RawData, "id")
	}
	if out.URL == "" {
		out.URL = v.URL
	}

	if name, ok := Employer(v); ok {
		out.Employer = name
	}
	if area, ok := v.RawData["area"].(map[string]any); ok {
		out.Area = getString(area, "name")
	}
	if rng, ok := Salary(v); ok {
		out.SalaryFrom = int(rng.From)
		out.SalaryTo = int(rng.To)
		out.SalaryCurrency = rng.Currency
	}
	out.Experience = Experience(v).Label()
	if label, ok := Employment(v); ok {
		out.Employment = label
	}
	if label, ok := Schedule(v); ok {
		out.Schedule = label
	}
	if snippet, ok := v.RawData["snippet"].(map[string]any); ok {
		out.Requirement = getString(snippet, "requirement")
		out.Responsibility = getString(snippet, "responsibility")
	}
	if published := getString(v.RawData, "published_at"); published != "" {
		out.PublishedAt = parseTime(published)
	}
	return out
}

// getString tries a key and coerces scalar values to a trimmed string.
func getString(data map[string]any, key string) string {
	switch v := data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return ""
}

// getFloat extracts a numeric value, accepting the types JSON decoding and
// upstream quirks can produce.
func getFloat(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func parseTime(s string) time.Time {
	formats := []string{
		"2006-01-02T15:04:05-0700",
		time.RFC3339,
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
