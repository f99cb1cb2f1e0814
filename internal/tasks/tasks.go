package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants used with Asynq.
const (
	// TypeSearchRecord persists one executed search to the history table.
	TypeSearchRecord = "search:record"
	// TypeProductView increments a product's view counter.
	TypeProductView = "product:view"
)

type SearchRecordPayload struct {
	Query        string  `json:"query"`
	ResultsCount int     `json:"results_count"`
	Confidence   float64 `json:"confidence"`
}

type ProductViewPayload struct {
	ProductID int64 `json:"product_id"`
}

func NewSearchRecordTask(query string, resultsCount int, confidence float64) (*asynq.Task, error) {
	payload, err := json.Marshal(SearchRecordPayload{
		Query:        query,
		ResultsCount: resultsCount,
		Confidence:   confidence,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSearchRecord, payload), nil
}

func NewProductViewTask(productID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(ProductViewPayload{ProductID: productID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProductView, payload), nil
}
