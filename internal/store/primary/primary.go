package primary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitrine/internal/models"
	"vitrine/internal/store"
)

// StoreImpl implements CatalogStore and SearchHistoryStore using PostgreSQL.
type StoreImpl struct {
	db *pgxpool.Pool
}

var (
	_ store.CatalogStore       = (*StoreImpl)(nil)
	_ store.SearchHistoryStore = (*StoreImpl)(nil)
)

// NewPrimaryStore creates the PostgreSQL-backed store.
func NewPrimaryStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &StoreImpl{db: dbpool}, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the connection pool.
func (s *StoreImpl) Close() {
	s.db.Close()
}

const productColumns = `id, name, description, tags, category, condition, price_cents, view_count, created_at, updated_at`

func scanProduct(row pgx.Row, dest *models.Product) error {
	return row.Scan(
		&dest.ID,
		&dest.Name,
		&dest.Description,
		&dest.Tags,
		&dest.Category,
		&dest.Condition,
		&dest.PriceCents,
		&dest.ViewCount,
		&dest.CreatedAt,
		&dest.UpdatedAt,
	)
}
