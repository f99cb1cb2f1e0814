// Package clix holds shared flag-parsing helpers for the CLI commands.
package clix

import (
	"fmt"

	"github.com/spf13/pflag"

	"vitrine/internal/search"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParsePriceRange reads the price-min/price-max flags, distinguishing an
// explicit 0 from an unset flag.
func ParsePriceRange(flags *pflag.FlagSet) (min, max *int64, err error) {
	if flags.Changed("price-min") {
		v, _ := flags.GetInt64("price-min")
		if v < 0 {
			return nil, nil, fmt.Errorf("price-min must not be negative, got %d", v)
		}
		min = &v
	}
	if flags.Changed("price-max") {
		v, _ := flags.GetInt64("price-max")
		if v < 0 {
			return nil, nil, fmt.Errorf("price-max must not be negative, got %d", v)
		}
		max = &v
	}
	if min != nil && max != nil && *min > *max {
		return nil, nil, fmt.Errorf("price-min (%d) exceeds price-max (%d)", *min, *max)
	}
	return min, max, nil
}

func ParseSortOrder(flags *pflag.FlagSet) (search.SortOrder, error) {
	raw, _ := flags.GetString("sort")
	switch order := search.SortOrder(raw); order {
	case search.SortNewest, search.SortOldest, search.SortMostViewed:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (expected newest, oldest or most_viewed)", raw)
	}
}
