package apihandlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/app"
	"vitrine/internal/config"
	"vitrine/internal/interpreter"
	"vitrine/internal/models"
	"vitrine/internal/store"
	"vitrine/internal/store/local"
)

// stubInterpreter returns a scripted interpretation per query and falls back
// otherwise.
type stubInterpreter struct {
	results map[string]models.Interpretation
}

var _ interpreter.Service = (*stubInterpreter)(nil)

func (s *stubInterpreter) Available() bool { return true }

func (s *stubInterpreter) Interpret(_ context.Context, query string, _ []string) models.Interpretation {
	if res, ok := s.results[query]; ok {
		return res
	}
	return interpreter.Fallback(query)
}

func (s *stubInterpreter) InterpretBatch(ctx context.Context, queries []string, productNames []string) []models.Interpretation {
	out := make([]models.Interpretation, len(queries))
	for i, q := range queries {
		out[i] = s.Interpret(ctx, q, productNames)
	}
	return out
}

// stubJobClient records enqueued analytics instead of talking to Redis.
type stubJobClient struct {
	searchRecords []string
	productViews  []int64
}

var _ store.JobClient = (*stubJobClient)(nil)

func (s *stubJobClient) Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{}, nil
}

func (s *stubJobClient) EnqueueSearchRecord(_ context.Context, query string, _ int, _ float64) error {
	s.searchRecords = append(s.searchRecords, query)
	return nil
}

func (s *stubJobClient) EnqueueProductView(_ context.Context, productID int64) error {
	s.productViews = append(s.productViews, productID)
	return nil
}

func (s *stubJobClient) Close() error { return nil }

type testEnv struct {
	router *gin.Engine
	store  *local.Store
	jobs   *stubJobClient
}

func newTestEnv(t *testing.T, interp interpreter.Service) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := local.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	cfg := &config.Config{}
	cfg.Interpreter.CatalogLimit = 100

	jobs := &stubJobClient{}
	h := NewAPIHandler(&app.App{
		Config:       cfg,
		CatalogStore: s,
		HistoryStore: s,
		JobClient:    jobs,
		Interpreter:  interp,
	})

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", h.SearchHandler)
		v1.POST("/interpret", h.InterpretHandler)
		v1.GET("/products", h.ListProductsHandler)
		v1.GET("/products/:id", h.GetProductHandler)
		v1.GET("/searches", h.SearchHistoryHandler)
	}
	router.GET("/health", h.HealthHandler)

	return &testEnv{router: router, store: s, jobs: jobs}
}

func (e *testEnv) seedCatalog(t *testing.T) []*models.Product {
	t.Helper()
	desc := "T-shirt blanc 100% coton, parfait pour transfert DTF"
	products := []*models.Product{
		{Name: "T-Shirt Blanc Premium", Description: &desc, Tags: []string{"textile", "blanc"},
			Category: "DTF Transfers", Condition: "new", PriceCents: 1999,
			CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Casquette Noire", Category: "Accessories", Condition: "new", PriceCents: 1499,
			CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Name: "Chaise Pliante", Category: "Furniture", Condition: "used", PriceCents: 4999,
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, p := range products {
		require.NoError(t, e.store.AddProduct(context.Background(), p))
	}
	return products
}

func (e *testEnv) get(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	e.router.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func (e *testEnv) postJSON(t *testing.T, path, payload string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	e.router.ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestSearchHandler_InterpretedQuery(t *testing.T) {
	cat := "DTF Transfers"
	env := newTestEnv(t, &stubInterpreter{results: map[string]models.Interpretation{
		"tshrt blnc": {Keywords: []string{"t-shirt blanc", "tshrt blnc"}, Category: &cat, Confidence: 0.82},
	}})
	env.seedCatalog(t)

	w, body := env.get(t, "/api/v1/search?query=tshrt+blnc")
	require.Equal(t, http.StatusOK, w.Code)

	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "T-Shirt Blanc Premium", results[0].(map[string]any)["name"])

	interp := body["interpretation"].(map[string]any)
	assert.Equal(t, true, interp["from_ai"])
	assert.Equal(t, 0.82, interp["confidence"])

	assert.Equal(t, []string{"tshrt blnc"}, env.jobs.searchRecords)
}

func TestSearchHandler_FiltersAndSort(t *testing.T) {
	env := newTestEnv(t, &stubInterpreter{})
	env.seedCatalog(t)

	// No query: filters alone select the result set.
	w, body := env.get(t, "/api/v1/search?condition=new&price_max=1500")
	require.Equal(t, http.StatusOK, w.Code)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "Casquette Noire", results[0].(map[string]any)["name"])
	assert.Empty(t, env.jobs.searchRecords, "empty queries are not recorded")

	// Oldest first.
	_, body = env.get(t, "/api/v1/search?sort=oldest")
	results = body["results"].([]any)
	require.Len(t, results, 3)
	assert.Equal(t, "Chaise Pliante", results[0].(map[string]any)["name"])
}

func TestSearchHandler_InvalidParams(t *testing.T) {
	env := newTestEnv(t, &stubInterpreter{})

	for _, path := range []string{
		"/api/v1/search?limit=zero",
		"/api/v1/search?price_min=-5",
		"/api/v1/search?sort=relevance",
	} {
		w, _ := env.get(t, path)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestInterpretHandler(t *testing.T) {
	cat := "Accessories"
	env := newTestEnv(t, &stubInterpreter{results: map[string]models.Interpretation{
		"caskett": {Keywords: []string{"casquette", "caskett"}, Category: &cat, Confidence: 0.7},
	}})

	w, body := env.postJSON(t, "/api/v1/interpret", `{"query": "caskett"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, 0.7, data["confidence"])
	assert.Equal(t, "Accessories", data["category"])

	w, body = env.postJSON(t, "/api/v1/interpret", `{"queries": ["caskett", "xyz"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	batch := body["data"].([]any)
	require.Len(t, batch, 2)
	assert.Equal(t, 0.7, batch[0].(map[string]any)["confidence"])
	assert.Equal(t, 0.0, batch[1].(map[string]any)["confidence"])

	w, _ = env.postJSON(t, "/api/v1/interpret", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.postJSON(t, "/api/v1/interpret", `{"query": "a", "queries": ["b"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProductHandler(t *testing.T) {
	env := newTestEnv(t, &stubInterpreter{})
	products := env.seedCatalog(t)

	w, body := env.get(t, "/api/v1/products/"+strconv.FormatInt(products[0].ID, 10))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T-Shirt Blanc Premium", body["data"].(map[string]any)["name"])
	assert.Equal(t, []int64{products[0].ID}, env.jobs.productViews)

	w, body = env.get(t, "/api/v1/products/999999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", body["error"].(map[string]any)["code"])

	w, body = env.get(t, "/api/v1/products/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", body["error"].(map[string]any)["code"])
}

func TestSearchHistoryHandler(t *testing.T) {
	env := newTestEnv(t, &stubInterpreter{})
	_, err := env.store.RecordSearchQuery(context.Background(), "mug", 4, 0.9)
	require.NoError(t, err)

	w, body := env.get(t, "/api/v1/searches")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "mug", items[0].(map[string]any)["query"])
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, &stubInterpreter{})

	w, body := env.get(t, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ai_available"])
}
