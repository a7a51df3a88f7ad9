// Package skills counts keyword mentions across vacancy snippets against a
// fixed vocabulary.
package skills

import (
	"strings"

	"github.com/hh-tools/go-analyzer/internal/analytics/category"
	"github.com/hh-tools/go-analyzer/internal/analytics/normalizer"
	"github.com/hh-tools/go-analyzer/internal/domain"
)

const topSkills = 20

// Extract scans each vacancy's requirement and responsibility text for
// vocabulary keywords. A keyword counts at most once per vacancy no matter
// how often it appears in the text. Counts are keyed by the keyword
// upper-cased.
func Extract(vacancies []domain.RawVacancy) domain.SkillStats {
	counter := category.NewCounter()

	for _, v := range vacancies {
		text := normalizer.SnippetText(v)
		if text == "" {
			continue
		}
		for _, keyword := range vocabulary {
			if strings.Contains(text, keyword) {
				counter.Add(strings.ToUpper(keyword))
			}
		}
	}

	return domain.SkillStats{
		Top:        counter.MostCommon(topSkills),
		TotalFound: counter.Distinct(),
	}
}
