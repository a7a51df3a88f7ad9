package category

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

func vacancy(data map[string]any) domain.RawVacancy {
	return domain.RawVacancy{RawData: data}
}

func TestAggregate_AbsentFieldsAreOmitted(t *testing.T) {
	vacancies := []domain.RawVacancy{
		vacancy(map[string]any{
			"employer":   map[string]any{"name": "Яндекс"},
			"employment": map[string]any{"id": "full"},
			"schedule":   map[string]any{"name": "Полный день"},
		}),
		// No employer, employment or schedule at all.
		vacancy(map[string]any{"name": "Стажёр"}),
	}

	result := Aggregate(vacancies)

	require.Len(t, result.Employers.Top, 1)
	assert.Equal(t, 1, result.Employers.Unique)
	assert.Equal(t, []domain.CategoryCount{{Label: "Полная занятость", Count: 1}}, result.Employment)
	assert.Equal(t, []domain.CategoryCount{{Label: "Полный день", Count: 1}}, result.Schedule)
}

func TestAggregate_ExperienceAlwaysCounts(t *testing.T) {
	vacancies := []domain.RawVacancy{
		vacancy(map[string]any{"experience": map[string]any{"id": "between1And3"}}),
		vacancy(map[string]any{"experience": "nonsense"}),
		vacancy(map[string]any{}),
	}

	result := Aggregate(vacancies)

	// Unknown and absent experience both land in the unspecified bucket.
	assert.Equal(t, []domain.CategoryCount{
		{Label: "Не указано", Count: 2},
		{Label: "1-3 года", Count: 1},
	}, result.Experience)
}

func TestAggregate_EmployerTopIsCapped(t *testing.T) {
	var vacancies []domain.RawVacancy
	for i := 0; i < 25; i++ {
		vacancies = append(vacancies, vacancy(map[string]any{
			"employer": fmt.Sprintf("Компания %d", i),
		}))
	}

	result := Aggregate(vacancies)
	assert.Len(t, result.Employers.Top, 20)
	assert.Equal(t, 25, result.Employers.Unique)
}

func TestAggregate_CountsSumToResolvableVacancies(t *testing.T) {
	vacancies := []domain.RawVacancy{
		vacancy(map[string]any{"employment": "full"}),
		vacancy(map[string]any{"employment": "part"}),
		vacancy(map[string]any{"employment": map[string]any{"id": "full"}}),
		vacancy(map[string]any{}),
	}

	result := Aggregate(vacancies)

	total := 0
	for _, entry := range result.Employment {
		total += entry.Count
	}
	assert.Equal(t, 3, total)
}
