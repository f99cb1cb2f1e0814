package search

import (
	"sort"
	"strings"

	"vitrine/internal/models"
)

// Filters are the independently selected, AND-combined product filters
// applied alongside the keyword predicate.
type Filters struct {
	Category      string
	Condition     string
	PriceMin      *int64 // cents, inclusive
	PriceMax      *int64 // cents, inclusive
	FavoritesOnly bool
	Favorites     map[int64]bool
}

// SortOrder selects the post-filter ordering.
type SortOrder string

const (
	SortNewest     SortOrder = "newest" // default
	SortOldest     SortOrder = "oldest"
	SortMostViewed SortOrder = "most_viewed"
)

// EffectiveKeywords prefers the session's interpreted keywords and falls
// back to the raw typed query while the AI path has produced nothing yet.
func EffectiveKeywords(state State) []string {
	if len(state.Keywords) > 0 {
		return state.Keywords
	}
	if state.OriginalQuery != "" {
		return []string{state.OriginalQuery}
	}
	return nil
}

// MatchesKeywords reports whether any keyword case-insensitively
// substring-matches any of name, description, tags or category. No keywords
// means match-all, so category or price browsing works without typing.
func MatchesKeywords(p models.Product, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if containsFold(p.Name, kw) || containsFold(p.Category, kw) {
			return true
		}
		if p.Description != nil && containsFold(*p.Description, kw) {
			return true
		}
		for _, tag := range p.Tags {
			if containsFold(tag, kw) {
				return true
			}
		}
	}
	return false
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}

// Apply filters products by the keyword predicate AND every set filter,
// preserving input order.
func Apply(products []models.Product, keywords []string, f Filters) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !MatchesKeywords(p, keywords) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Condition != "" && p.Condition != f.Condition {
			continue
		}
		if f.PriceMin != nil && p.PriceCents < *f.PriceMin {
			continue
		}
		if f.PriceMax != nil && p.PriceCents > *f.PriceMax {
			continue
		}
		if f.FavoritesOnly && !f.Favorites[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products in place. Missing timestamps sort as the epoch and
// missing view counts as zero.
func Sort(products []models.Product, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		})
	case SortMostViewed:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ViewCount > products[j].ViewCount
		})
	default: // SortNewest
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		})
	}
}
