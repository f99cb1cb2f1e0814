package store

import (
	"context"

	"github.com/hibiken/asynq"

	"vitrine/internal/models"
)

// --- Catalog Store ---

// CatalogStore provides read access to the product catalog plus the
// view-count bump that feeds the most-viewed sort.
type CatalogStore interface {
	ListProducts(ctx context.Context, limit, offset int) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	// ProductNames returns up to limit catalog names, used as context for
	// query interpretation.
	ProductNames(ctx context.Context, limit int) ([]string, error)
	IncrementViewCount(ctx context.Context, id int64) error

	Ping(ctx context.Context) error
	Close()
}

// --- Search History Store ---

type SearchHistoryStore interface {
	RecordSearchQuery(ctx context.Context, query string, resultsCount int, confidence float64) (*models.SearchQuery, error)
	ListSearchQueries(ctx context.Context, limit int) ([]*models.SearchQuery, error)
}

// --- Job Client ---

// JobClient enqueues background tasks so the request path never waits on
// analytics writes.
type JobClient interface {
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueSearchRecord(ctx context.Context, query string, resultsCount int, confidence float64) error
	EnqueueProductView(ctx context.Context, productID int64) error
	Close() error
}
