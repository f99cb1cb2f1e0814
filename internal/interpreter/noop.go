package interpreter

import (
	"context"

	"vitrine/internal/models"
)

// NoopService is the interpreter used when AI interpretation is disabled. It
// always answers with the fallback shape.
type NoopService struct{}

var _ Service = (*NoopService)(nil)

func NewNoopService() *NoopService { return &NoopService{} }

func (n *NoopService) Available() bool { return false }

func (n *NoopService) Interpret(_ context.Context, query string, _ []string) models.Interpretation {
	return Fallback(query)
}

func (n *NoopService) InterpretBatch(ctx context.Context, queries []string, productNames []string) []models.Interpretation {
	results := make([]models.Interpretation, len(queries))
	for i, q := range queries {
		results[i] = n.Interpret(ctx, q, productNames)
	}
	return results
}
