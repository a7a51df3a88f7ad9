// Package archive feeds fetched vacancies into long-term storage. Every
// analyzed batch is also archived, so the same search can later be studied
// across time instead of one snapshot.
package archive

import (
	"context"
	"log"
	"sync"

	"github.com/hh-tools/go-analyzer/internal/analytics/normalizer"
	"github.com/hh-tools/go-analyzer/internal/cleaner"
	"github.com/hh-tools/go-analyzer/internal/domain"
	"github.com/hh-tools/go-analyzer/internal/indexer"
)

// Config holds archiver configuration
type Config struct {
	Concurrency int
	BatchSize   int
}

// Archiver cleans, flattens and bulk-indexes vacancies through a worker pool.
type Archiver struct {
	indexer indexer.Indexer
	cleaner *cleaner.Cleaner

	concurrency int
	batchSize   int
}

func New(idx indexer.Indexer, cfg Config) *Archiver {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Archiver{
		indexer:     idx,
		cleaner:     cleaner.New(),
		concurrency: cfg.Concurrency,
		batchSize:   cfg.BatchSize,
	}
}

// Archive indexes the whole batch. Vacancies that fail to index are logged
// and skipped; the first indexing error is returned after all workers stop.
func (a *Archiver) Archive(ctx context.Context, vacancies []domain.RawVacancy) error {
	if len(vacancies) == 0 {
		return nil
	}

	batches := make(chan []domain.RawVacancy)
	errChan := make(chan error, a.concurrency)

	var wg sync.WaitGroup
	for i := 0; i < a.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range batches {
				docs := a.process(batch)
				if len(docs) == 0 {
					continue
				}
				if err := a.indexer.BulkIndex(ctx, docs); err != nil {
					log.Printf("archive worker %d index error: %v", workerID, err)
					select {
					case errChan <- err:
					default:
					}
					continue
				}
				log.Printf("archive worker %d indexed %d vacancies", workerID, len(docs))
			}
		}(i)
	}

feed:
	for start := 0; start < len(vacancies); start += a.batchSize {
		end := start + a.batchSize
		if end > len(vacancies) {
			end = len(vacancies)
		}
		select {
		case batches <- vacancies[start:end]:
		case <-ctx.Done():
			break feed
		}
	}
	close(batches)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case err := <-errChan:
		return err
	default:
		return nil
	}
}

func (a *Archiver) process(batch []domain.RawVacancy) []*domain.Vacancy {
	docs := make([]*domain.Vacancy, 0, len(batch))
	for _, raw := range batch {
		if raw.RawData != nil {
			raw.RawData = a.cleaner.CleanMap(raw.RawData)
		}
		doc := normalizer.Flatten(raw)
		if doc.ID == "" {
			log.Printf("skipping vacancy without id: %q", doc.Name)
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
