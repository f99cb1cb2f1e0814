package interpreter

import (
	"context"
	"strings"
	"sync"

	"vitrine/internal/models"
)

// Service turns a free-text storefront query into a structured Interpretation.
//
// Implementations never return errors: a missing credential, a too-short
// query, a transport failure and a malformed backend response all converge to
// the same fallback shape (see Fallback). Only the logs distinguish the
// causes. Callers detect the non-AI path through the confidence sentinel
// documented on models.Interpretation.
type Service interface {
	// Available reports whether the interpretation backend is configured.
	Available() bool
	// Interpret analyzes one query, optionally grounded on known product names.
	Interpret(ctx context.Context, query string, productNames []string) models.Interpretation
	// InterpretBatch analyzes queries independently and concurrently,
	// returning results in input order.
	InterpretBatch(ctx context.Context, queries []string, productNames []string) []models.Interpretation
}

const (
	defaultTemperature     = 0.1
	defaultMaxOutputTokens = 150
	defaultMinQueryLength  = 2
	defaultCatalogLimit    = 100
)

// Options carries the generation parameters shared by all providers.
type Options struct {
	Model           string
	Temperature     float32
	TemperatureSet  bool // distinguishes an explicit 0 temperature from "use default"
	MaxOutputTokens int32
	MinQueryLength  int
	CatalogLimit    int    // max product names appended to the system prompt
	SystemPrompt    string // overrides the built-in instruction when non-empty
}

func (o *Options) applyDefaults() {
	if !o.TemperatureSet && o.Temperature == 0 {
		o.Temperature = defaultTemperature
	}
	if o.MaxOutputTokens == 0 {
		o.MaxOutputTokens = defaultMaxOutputTokens
	}
	if o.MinQueryLength == 0 {
		o.MinQueryLength = defaultMinQueryLength
	}
	if o.CatalogLimit == 0 {
		o.CatalogLimit = defaultCatalogLimit
	}
}

// Fallback is the deterministic non-AI result: the query itself as the only
// keyword, no category suggestion, confidence 0.
func Fallback(query string) models.Interpretation {
	return models.Interpretation{
		Keywords:   []string{query},
		Category:   nil,
		Confidence: 0,
	}
}

const systemPrompt = `You are the search assistant of a DTF printing storefront.
Interpret the customer's search query, tolerating typos, slang, and mixed French/English input.
Respond with JSON only, shaped exactly as:
{"keywords": ["..."], "category": "..." or null, "confidence": 0.0}
Keywords are lowercase terms likely to match product names in the catalog.
Category is one of the catalog categories if the intent is clear, otherwise null.
Confidence is a number between 0 and 1.`

// buildSystemPrompt appends up to opts.CatalogLimit catalog names to the
// instruction. Truncation is positional, not relevance-ranked.
func buildSystemPrompt(opts Options, productNames []string) string {
	base := opts.SystemPrompt
	if base == "" {
		base = systemPrompt
	}
	if len(productNames) == 0 {
		return base
	}
	if len(productNames) > opts.CatalogLimit {
		productNames = productNames[:opts.CatalogLimit]
	}
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("\n\nKnown products:\n")
	sb.WriteString(strings.Join(productNames, "\n"))
	return sb.String()
}

// interpretConcurrently fans one Interpret call out per query and collects
// the results in input order, whatever the completion order.
func interpretConcurrently(ctx context.Context, s Service, queries []string, productNames []string) []models.Interpretation {
	results := make([]models.Interpretation, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			results[i] = s.Interpret(ctx, q, productNames)
		}(i, q)
	}
	wg.Wait()
	return results
}
