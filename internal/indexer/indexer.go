// Package indexer archives flattened vacancies for long-term search.
package indexer

import (
	"context"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

// Indexer archives vacancy records.
type Indexer interface {
	// Index archives a single vacancy
	Index(ctx context.Context, vacancy *domain.Vacancy) error
	// BulkIndex archives a batch of vacancies
	BulkIndex(ctx context.Context, vacancies []*domain.Vacancy) error
}
