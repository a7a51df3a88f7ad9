package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

// Integration test, needs a running PostgreSQL:
//
//	TEST_POSTGRES_URL=postgres://localhost/hh_test?sslmode=disable go test ./internal/store/
func testStore(t *testing.T) *Store {
	t.Helper()
	connStr := os.Getenv("TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("TEST_POSTGRES_URL not set, skipping postgres integration test")
	}
	s, err := New(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndRecentByChat(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	chatID := int64(424242)

	summary := &domain.AnalysisSummary{
		Total: 7,
		Employers: domain.EmployerStats{
			Unique: 2,
			Top:    []domain.CategoryCount{{Label: "Яндекс", Count: 5}},
		},
	}

	id, err := s.SaveAnalysis(ctx, "golang разработчик", "Москва", chatID, summary)
	require.NoError(t, err)
	assert.Positive(t, id)

	recent, err := s.RecentByChat(ctx, chatID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, recent)

	latest := recent[0]
	assert.Equal(t, "golang разработчик", latest.Query)
	assert.Equal(t, "Москва", latest.Area)
	assert.Equal(t, 7, latest.TotalVacancies)
	require.NotNil(t, latest.Summary)
	assert.Equal(t, 7, latest.Summary.Total)
	assert.Equal(t, "Яндекс", latest.Summary.Employers.Top[0].Label)
}

func TestUsage(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.SaveAnalysis(ctx, "python", "", 111, &domain.AnalysisSummary{Total: 1})
	require.NoError(t, err)

	usage, err := s.Usage(ctx)
	require.NoError(t, err)
	assert.Positive(t, usage.TotalAnalyses)
	assert.Positive(t, usage.TodayAnalyses)
	assert.Positive(t, usage.UniqueChats)
	assert.NotEmpty(t, usage.TopQueries)
}
