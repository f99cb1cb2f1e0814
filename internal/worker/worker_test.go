package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/models"
	"vitrine/internal/store/local"
	"vitrine/internal/tasks"
)

func TestHandleSearchRecord(t *testing.T) {
	s, err := local.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	deps := Deps{History: s, Catalog: s}
	task, err := tasks.NewSearchRecordTask("tshrt blnc", 2, 0.82)
	require.NoError(t, err)

	require.NoError(t, HandleSearchRecord(deps)(context.Background(), task))

	queries, err := s.ListSearchQueries(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	assert.Equal(t, "tshrt blnc", queries[0].Query)
	assert.Equal(t, 2, queries[0].ResultsCount)
	assert.Equal(t, 0.82, queries[0].Confidence)
}

func TestHandleProductView(t *testing.T) {
	s, err := local.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	p := &models.Product{Name: "Mug Personnalisé"}
	require.NoError(t, s.AddProduct(context.Background(), p))

	deps := Deps{History: s, Catalog: s}
	task, err := tasks.NewProductViewTask(p.ID)
	require.NoError(t, err)

	require.NoError(t, HandleProductView(deps)(context.Background(), task))

	got, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestHandleProductView_MissingProductIsNotRetried(t *testing.T) {
	s, err := local.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	deps := Deps{History: s, Catalog: s}
	task, err := tasks.NewProductViewTask(424242)
	require.NoError(t, err)

	assert.NoError(t, HandleProductView(deps)(context.Background(), task))
}
