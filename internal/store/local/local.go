// Package local provides a sqlite-backed store for demo mode and tests,
// implementing the same interfaces as the PostgreSQL primary store.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vitrine/internal/models"
	"vitrine/internal/store"
)

type Store struct {
	db *sql.DB
}

var (
	_ store.CatalogStore       = (*Store)(nil)
	_ store.SearchHistoryStore = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	tags TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	condition TEXT NOT NULL DEFAULT 'new',
	price_cents INTEGER NOT NULL DEFAULT 0,
	view_count INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	deleted_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS search_queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query TEXT NOT NULL,
	results_count INTEGER NOT NULL DEFAULT 0,
	confidence REAL NOT NULL DEFAULT 0,
	executed_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// NewStore opens (creating if needed) the sqlite database at path. Use
// ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("sqlite database path cannot be empty")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

// --- Catalog ---

const productColumns = `id, name, description, tags, category, condition, price_cents, view_count, created_at, updated_at`

// AddProduct inserts a product, used by demo seeding and tests.
func (s *Store) AddProduct(ctx context.Context, p *models.Product) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, description, tags, category, condition, price_cents, view_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, strings.Join(p.Tags, ","), p.Category, p.Condition,
		p.PriceCents, p.ViewCount, p.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted product id: %w", err)
	}
	p.UpdatedAt = now
	return nil
}

func (s *Store) ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`, productColumns), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT %s FROM products WHERE id = ? AND deleted_at IS NULL`, productColumns), id)

	var p models.Product
	var tags string
	err := row.Scan(&p.ID, &p.Name, &p.Description, &tags, &p.Category, &p.Condition,
		&p.PriceCents, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	p.Tags = splitTags(tags)
	return &p, nil
}

func (s *Store) ProductNames(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM products
		WHERE deleted_at IS NULL
		ORDER BY view_count DESC, created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list product names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan product name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) IncrementViewCount(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET view_count = view_count + 1, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment view count for product %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Search History ---

func (s *Store) RecordSearchQuery(ctx context.Context, query string, resultsCount int, confidence float64) (*models.SearchQuery, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO search_queries (query, results_count, confidence, executed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		query, resultsCount, confidence, now, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to record search query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted search query id: %w", err)
	}
	return &models.SearchQuery{
		ID:           id,
		Query:        query,
		ResultsCount: resultsCount,
		Confidence:   confidence,
		ExecutedAt:   now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Store) ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, results_count, confidence, executed_at, created_at, updated_at
		FROM search_queries
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search queries: %w", err)
	}
	defer rows.Close()

	var queries []*models.SearchQuery
	for rows.Next() {
		q := &models.SearchQuery{}
		err := rows.Scan(&q.ID, &q.Query, &q.ResultsCount, &q.Confidence, &q.ExecutedAt, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search query row: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func scanProduct(rows *sql.Rows) (models.Product, error) {
	var p models.Product
	var tags string
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &tags, &p.Category, &p.Condition,
		&p.PriceCents, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, fmt.Errorf("failed to scan product row: %w", err)
	}
	p.Tags = splitTags(tags)
	return p, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
