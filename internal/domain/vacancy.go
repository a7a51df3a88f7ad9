package domain

import "time"

// RawVacancy is one vacancy record exactly as the HH API returned it.
// Fields on hh.ru vacancies are loosely typed: salary/employer/experience
// may be nested objects, bare strings, or absent entirely, so the payload
// is kept as an opaque map and resolved by the normalizer.
type RawVacancy struct {
	ID        string         `json:"id"`
	URL       string         `json:"url,omitempty"`
	RawData   map[string]any `json:"raw_data"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Vacancy is the flattened canonical record used by the archive indexer.
type Vacancy struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Employer       string    `json:"employer"`
	Area           string    `json:"area"`
	SalaryFrom     int       `json:"salary_from"`
	SalaryTo       int       `json:"salary_to"`
	SalaryCurrency string    `json:"salary_currency"`
	Experience     string    `json:"experience"`
	Employment     string    `json:"employment"`
	Schedule       string    `json:"schedule"`
	Requirement    string    `json:"requirement"`
	Responsibility string    `json:"responsibility"`
	URL            string    `json:"url"`
	PublishedAt    time.Time `json:"published_at"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// SalaryRange is one vacancy's salary offer before conversion. A bound
// equal to zero counts as missing, matching how the upstream API omits it.
type SalaryRange struct {
	From     float64
	To       float64
	HasFrom  bool
	HasTo    bool
	Currency string
}

// ExperienceTier buckets the experience requirement of a vacancy.
type ExperienceTier int

const (
	TierUnspecified ExperienceTier = iota
	TierNone
	TierJunior
	TierMid
	TierSenior
)

var tierLabels = map[ExperienceTier]string{
	TierUnspecified: "Не указано",
	TierNone:        "Без опыта",
	TierJunior:      "1-3 года",
	TierMid:         "3-6 лет",
	TierSenior:      "6+ лет",
}

// Label returns the fixed display label for the tier.
func (t ExperienceTier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return tierLabels[TierUnspecified]
}

// TierOrder is the fixed rendering order for per-tier breakdowns.
var TierOrder = []ExperienceTier{TierNone, TierJunior, TierMid, TierSenior, TierUnspecified}
