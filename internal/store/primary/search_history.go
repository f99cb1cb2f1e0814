package primary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"vitrine/internal/models"
)

// --- Search History ---

func (s *StoreImpl) RecordSearchQuery(ctx context.Context, query string, resultsCount int, confidence float64) (*models.SearchQuery, error) {
	sql := `
		INSERT INTO search_queries (query, results_count, confidence, executed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4, $4)
		RETURNING id, executed_at, created_at, updated_at`

	now := time.Now()
	searchQuery := &models.SearchQuery{
		Query:        query,
		ResultsCount: resultsCount,
		Confidence:   confidence,
	}

	err := s.db.QueryRow(ctx, sql, query, resultsCount, confidence, now).Scan(
		&searchQuery.ID, &searchQuery.ExecutedAt, &searchQuery.CreatedAt, &searchQuery.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record search query: %w", err)
	}
	return searchQuery, nil
}

func (s *StoreImpl) ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error) {
	if limit <= 0 {
		limit = 20 // Default limit
	}
	sql := `
		SELECT id, query, results_count, confidence, executed_at, created_at, updated_at
		FROM search_queries
		ORDER BY executed_at DESC
		LIMIT $1`

	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*models.SearchQuery{}, nil
		}
		return nil, fmt.Errorf("failed to list search queries: %w", err)
	}
	defer rows.Close()

	var queries []*models.SearchQuery
	for rows.Next() {
		q := &models.SearchQuery{}
		err := rows.Scan(
			&q.ID, &q.Query, &q.ResultsCount, &q.Confidence, &q.ExecutedAt, &q.CreatedAt, &q.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search query row: %w", err)
		}
		queries = append(queries, q)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search query rows: %w", err)
	}
	return queries, nil
}
