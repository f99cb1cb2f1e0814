package models

import (
	"time"
)

// Product is a single catalog item. From the search core's perspective it is
// read-only: the haystack for keyword matching and the subject of the
// category/price/condition filters.
type Product struct {
	ID          int64      `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description *string    `db:"description" json:"description"` // nullable
	Tags        []string   `db:"tags" json:"tags"`
	Category    string     `db:"category" json:"category"`
	Condition   string     `db:"condition" json:"condition"` // e.g. "new", "used"
	PriceCents  int64      `db:"price_cents" json:"price_cents"`
	ViewCount   int64      `db:"view_count" json:"view_count"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at" json:"deleted_at,omitempty"` // soft delete, nullable
}

// Interpretation is the structured result of analyzing one search query.
//
// Invariants:
//   - Keywords is never empty when the input query is non-empty; every
//     fallback path produces exactly []string{query}.
//   - Confidence == 0 means the AI was NOT consulted (missing credential,
//     short query, transport failure, parse failure). Callers must not read
//     it as a low-but-real model confidence; a non-numeric confidence in an
//     otherwise valid response is repaired to 0.5, not 0.
type Interpretation struct {
	Keywords   []string `json:"keywords"`
	Category   *string  `json:"category"`
	Confidence float64  `json:"confidence"`
}

// FromAI reports whether this interpretation came from the interpretation
// backend, per the confidence sentinel rule above.
func (i Interpretation) FromAI() bool {
	return i.Confidence > 0
}

// SearchQuery records one executed search for history/analytics.
type SearchQuery struct {
	ID           int64     `db:"id" json:"id"`
	Query        string    `db:"query" json:"query"`
	ResultsCount int       `db:"results_count" json:"results_count"`
	Confidence   float64   `db:"confidence" json:"confidence"`
	ExecutedAt   time.Time `db:"executed_at" json:"executed_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
