package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/models"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func sampleCatalog() []models.Product {
	return []models.Product{
		{
			ID:          1,
			Name:        "T-Shirt Blanc Premium",
			Description: strPtr("T-shirt blanc 100% coton, idéal pour transfert DTF"),
			Tags:        []string{"textile", "blanc"},
			Category:    "DTF Transfers",
			Condition:   "new",
			PriceCents:  1999,
			ViewCount:   50,
			CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         2,
			Name:       "Casquette Noire",
			Tags:       []string{"accessoire"},
			Category:   "Accessoires",
			Condition:  "new",
			PriceCents: 1499,
			ViewCount:  120,
			CreatedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          3,
			Name:        "Chaise Pliante",
			Description: strPtr("Chaise d'appoint pour stand"),
			Category:    "Mobilier",
			Condition:   "used",
			PriceCents:  4500,
			ViewCount:   5,
			CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestMatchesKeywords(t *testing.T) {
	products := sampleCatalog()

	testCases := []struct {
		name     string
		keywords []string
		expected []int64
	}{
		{"No Keywords Matches All", nil, []int64{1, 2, 3}},
		{"Name Substring", []string{"t-shirt blanc"}, []int64{1}},
		{"Case Insensitive", []string{"CASQUETTE"}, []int64{2}},
		{"Description Match", []string{"stand"}, []int64{3}},
		{"Tag Match", []string{"accessoire"}, []int64{2}},
		{"Category Match", []string{"mobilier"}, []int64{3}},
		{"OR Across Keywords", []string{"zzz-no-match", "chaise"}, []int64{3}},
		{"No Match", []string{"imprimante"}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(products, tc.keywords, Filters{})
			ids := make([]int64, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if tc.expected == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tc.expected, ids)
			}
		})
	}
}

func TestApply_FiltersAreANDCombined(t *testing.T) {
	products := sampleCatalog()

	got := Apply(products, nil, Filters{Category: "Accessoires"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got = Apply(products, nil, Filters{PriceMin: i64Ptr(1500), PriceMax: i64Ptr(2500)})
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	got = Apply(products, nil, Filters{Condition: "used"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)

	got = Apply(products, nil, Filters{FavoritesOnly: true, Favorites: map[int64]bool{2: true}})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	// Search keyword AND category filter together.
	got = Apply(products, []string{"chaise"}, Filters{Category: "Accessoires"})
	assert.Empty(t, got)
}

func TestSort(t *testing.T) {
	products := sampleCatalog()
	// A product with the zero timestamp sorts as the epoch.
	products = append(products, models.Product{ID: 4, Name: "Sans Date"})

	Sort(products, SortNewest)
	assert.Equal(t, []int64{1, 2, 3, 4}, productIDs(products))

	Sort(products, SortOldest)
	assert.Equal(t, []int64{4, 3, 2, 1}, productIDs(products))

	Sort(products, SortMostViewed)
	assert.Equal(t, []int64{2, 1, 3, 4}, productIDs(products))
}

func productIDs(products []models.Product) []int64 {
	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

// End-to-end: a typo'd query interpreted by the backend drives the filter.
func TestSearchEndToEnd_InterpretedTypo(t *testing.T) {
	svc := newStubService()
	svc.results["tshrt blnc"] = models.Interpretation{
		Keywords:   []string{"t-shirt blanc", "tshrt blnc"},
		Category:   strPtr("DTF Transfers"),
		Confidence: 0.82,
	}
	s := NewSession(svc, immediate())
	defer s.Close()

	s.Submit("tshrt blnc")
	waitSettled(t, s)

	st := s.State()
	assert.Equal(t, []string{"t-shirt blanc", "tshrt blnc"}, st.Keywords)
	require.NotNil(t, st.Category)
	assert.Equal(t, "DTF Transfers", *st.Category)
	assert.Equal(t, 0.82, st.Confidence)

	got := Apply(sampleCatalog(), EffectiveKeywords(st), Filters{})
	ids := productIDs(got)
	assert.Contains(t, ids, int64(1), "typo'd query must still reach T-Shirt Blanc Premium")
	assert.NotContains(t, ids, int64(2))
}

// End-to-end: with no credential the filter equals plain substring matching
// on the typed text.
func TestSearchEndToEnd_NoCredential(t *testing.T) {
	svc := newStubService()
	svc.available = false
	s := NewSession(svc, immediate())
	defer s.Close()

	s.Submit("chaise")
	st := s.State()
	assert.Zero(t, st.Confidence)
	assert.False(t, st.AIAvailable)

	got := Apply(sampleCatalog(), EffectiveKeywords(st), Filters{})
	plain := Apply(sampleCatalog(), []string{"chaise"}, Filters{})
	assert.Equal(t, plain, got)
	require.Len(t, got, 1)
	assert.Equal(t, "Chaise Pliante", got[0].Name)
	assert.Zero(t, svc.totalCalls())
}
