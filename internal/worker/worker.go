// Package worker holds the Asynq task handlers for background analytics
// writes: search history recording and product view counting.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"vitrine/internal/store"
	"vitrine/internal/tasks"
)

// Deps are the stores the handlers write to.
type Deps struct {
	History store.SearchHistoryStore
	Catalog store.CatalogStore
}

// RegisterHandlers wires all task handlers onto the mux.
func RegisterHandlers(mux *asynq.ServeMux, deps Deps) {
	mux.HandleFunc(tasks.TypeSearchRecord, HandleSearchRecord(deps))
	mux.HandleFunc(tasks.TypeProductView, HandleProductView(deps))
}

// HandleSearchRecord persists one executed search to the history store.
func HandleSearchRecord(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload tasks.SearchRecordPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Malformed payloads will never succeed; don't retry.
			return fmt.Errorf("unmarshal search record payload: %v: %w", err, asynq.SkipRetry)
		}
		record, err := deps.History.RecordSearchQuery(ctx, payload.Query, payload.ResultsCount, payload.Confidence)
		if err != nil {
			return fmt.Errorf("record search query %q: %w", payload.Query, err)
		}
		log.Debugf("Recorded search query %q (id=%d, results=%d)", payload.Query, record.ID, payload.ResultsCount)
		return nil
	}
}

// HandleProductView bumps a product's view counter. A deleted product is
// not an error worth retrying.
func HandleProductView(deps Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload tasks.ProductViewPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal product view payload: %v: %w", err, asynq.SkipRetry)
		}
		if err := deps.Catalog.IncrementViewCount(ctx, payload.ProductID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warnf("Product %d vanished before its view was counted", payload.ProductID)
				return nil
			}
			return fmt.Errorf("increment view count for product %d: %w", payload.ProductID, err)
		}
		return nil
	}
}
