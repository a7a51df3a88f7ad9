// Package store persists completed analyses to PostgreSQL. Each run is
// one row: the query, where it searched, who asked, and the full summary
// as JSONB for later inspection.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

// Analysis is one saved analysis run.
type Analysis struct {
	ID             int64
	Query          string
	Area           string
	ChatID         int64
	TotalVacancies int
	Summary        *domain.AnalysisSummary
	CreatedAt      time.Time
}

// UsageStats aggregates activity across all saved analyses.
type UsageStats struct {
	TotalAnalyses int
	TodayAnalyses int
	UniqueChats   int
	TopQueries    []QueryCount
}

type QueryCount struct {
	Query string
	Count int
}

// Store writes and reads analyses from PostgreSQL.
type Store struct {
	db *sql.DB
}

// New opens a connection and makes sure the analyses table exists.
func New(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureTable(); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}
	return s, nil
}

func (s *Store) ensureTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS analyses (
			id BIGSERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			area TEXT,
			chat_id BIGINT,
			total_vacancies INTEGER,
			stats JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_analyses_chat_id ON analyses(chat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at)`,
	}
	for _, idx := range indexes {
		if _, err := s.db.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

// SaveAnalysis inserts one run and returns its row ID.
func (s *Store) SaveAnalysis(ctx context.Context, query, area string, chatID int64, summary *domain.AnalysisSummary) (int64, error) {
	stats, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("marshal summary: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO analyses (query, area, chat_id, total_vacancies, stats)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, query, area, chatID, summary.Total, stats).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// RecentByChat returns the latest analyses requested from one chat,
// newest first.
func (s *Store) RecentByChat(ctx context.Context, chatID int64, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, COALESCE(area, ''), chat_id, total_vacancies, stats, created_at
		FROM analyses
		WHERE chat_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []Analysis
	for rows.Next() {
		var a Analysis
		var stats []byte
		if err := rows.Scan(&a.ID, &a.Query, &a.Area, &a.ChatID, &a.TotalVacancies, &stats, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal(stats, &a.Summary); err != nil {
			return nil, fmt.Errorf("unmarshal summary for analysis %d: %w", a.ID, err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}

// Usage reports totals across all chats.
func (s *Store) Usage(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE created_at::date = NOW()::date),
			COUNT(DISTINCT chat_id)
		FROM analyses
	`).Scan(&stats.TotalAnalyses, &stats.TodayAnalyses, &stats.UniqueChats)
	if err != nil {
		return nil, fmt.Errorf("query usage totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS count
		FROM analyses
		GROUP BY query
		ORDER BY count DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("query top queries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scan top query: %w", err)
		}
		stats.TopQueries = append(stats.TopQueries, qc)
	}
	return stats, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
