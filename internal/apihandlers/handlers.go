package apihandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"vitrine/internal/app"
	"vitrine/internal/models"
	"vitrine/internal/search"
	"vitrine/internal/store"
	"vitrine/internal/util"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// SearchHandler handles GET requests for catalog search. The query is
// interpreted by the AI backend when available, then the result set is
// filtered and sorted in the handler.
func (h *APIHandler) SearchHandler(c *gin.Context) {
	params, err := parseSearchParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	ctx := c.Request.Context()

	interp := h.interpretQuery(c, params.Query)

	products, err := h.App.CatalogStore.ListProducts(ctx, params.Limit, params.Offset)
	if err != nil {
		Internal(c, fmt.Sprintf("SearchHandler: failed to list products: %v", err))
		return
	}

	keywords := interp.Keywords
	results := search.Apply(products, keywords, params.Filters)
	search.Sort(results, params.Sort)

	// History recording is best effort and happens off the request path.
	if params.Query != "" {
		if err := h.App.JobClient.EnqueueSearchRecord(ctx, params.Query, len(results), interp.Confidence); err != nil {
			log.Warnf("Failed to enqueue search record for %q: %v", params.Query, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"interpretation": gin.H{
			"keywords":   interp.Keywords,
			"category":   interp.Category,
			"confidence": interp.Confidence,
			"from_ai":    interp.FromAI(),
		},
	})
}

// interpretQuery runs the interpreter for a non-empty query, falling back to
// the raw query otherwise.
func (h *APIHandler) interpretQuery(c *gin.Context, query string) models.Interpretation {
	if query == "" {
		return models.Interpretation{}
	}
	names, err := h.App.CatalogStore.ProductNames(c.Request.Context(), h.App.Config.Interpreter.CatalogLimit)
	if err != nil {
		log.Warnf("Failed to load product names for interpretation: %v", err)
	}
	return h.App.Interpreter.Interpret(c.Request.Context(), query, names)
}

type searchParams struct {
	Query   string
	Filters search.Filters
	Sort    search.SortOrder
	Limit   int
	Offset  int
}

// parseSearchParams parses and validates query parameters for catalog search.
func parseSearchParams(c *gin.Context) (searchParams, error) {
	params := searchParams{
		Query: util.CleanQuery(c.Query("query")),
		Limit: 100,
		Sort:  search.SortNewest,
	}

	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			return params, fmt.Errorf("invalid limit: %s", l)
		}
		params.Limit = parsed
	}
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			return params, fmt.Errorf("invalid offset: %s", o)
		}
		params.Offset = parsed
	}

	params.Filters.Category = c.Query("category")
	params.Filters.Condition = c.Query("condition")

	if v := c.Query("price_min"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil || cents < 0 {
			return params, fmt.Errorf("invalid price_min: %s", v)
		}
		params.Filters.PriceMin = &cents
	}
	if v := c.Query("price_max"); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil || cents < 0 {
			return params, fmt.Errorf("invalid price_max: %s", v)
		}
		params.Filters.PriceMax = &cents
	}

	switch sortParam := c.DefaultQuery("sort", string(search.SortNewest)); search.SortOrder(sortParam) {
	case search.SortNewest, search.SortOldest, search.SortMostViewed:
		params.Sort = search.SortOrder(sortParam)
	default:
		return params, fmt.Errorf("invalid sort order: %s", sortParam)
	}

	return params, nil
}

// InterpretRequest represents the JSON body to interpret one or more queries.
// Exactly one of query and queries must be set.
type InterpretRequest struct {
	Query   string   `json:"query"`
	Queries []string `json:"queries"`
}

// InterpretHandler exposes the query interpreter directly, single or batch.
func (h *APIHandler) InterpretHandler(c *gin.Context) {
	var req InterpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" && len(req.Queries) == 0 {
		BadRequest(c, "missing required fields: either query or queries")
		return
	}
	if req.Query != "" && len(req.Queries) > 0 {
		BadRequest(c, "query and queries are mutually exclusive")
		return
	}

	ctx := c.Request.Context()
	names, err := h.App.CatalogStore.ProductNames(ctx, h.App.Config.Interpreter.CatalogLimit)
	if err != nil {
		log.Warnf("Failed to load product names for interpretation: %v", err)
	}

	if req.Query != "" {
		c.JSON(http.StatusOK, gin.H{"data": h.App.Interpreter.Interpret(ctx, util.CleanQuery(req.Query), names)})
		return
	}
	queries := make([]string, len(req.Queries))
	for i, q := range req.Queries {
		queries[i] = util.CleanQuery(q)
	}
	c.JSON(http.StatusOK, gin.H{"data": h.App.Interpreter.InterpretBatch(ctx, queries, names)})
}

// ListProductsHandler handles GET requests for the product catalog.
func (h *APIHandler) ListProductsHandler(c *gin.Context) {
	limit := 100
	offset := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		} else {
			BadRequest(c, "invalid limit: "+l)
			return
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		} else {
			BadRequest(c, "invalid offset: "+o)
			return
		}
	}

	products, err := h.App.CatalogStore.ListProducts(c.Request.Context(), limit, offset)
	if err != nil {
		Internal(c, fmt.Sprintf("ListProductsHandler: failed to list products: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": products})
}

// GetProductHandler handles GET requests for a single product by ID. Each
// successful lookup enqueues a view-count bump.
func (h *APIHandler) GetProductHandler(c *gin.Context) {
	id, err := parseProductIDFromRequest(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	product, err := h.App.CatalogStore.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("Product not found with ID: %d", id))
		} else {
			Internal(c, fmt.Sprintf("GetProductHandler: failed to retrieve product: %v", err))
		}
		return
	}

	if err := h.App.JobClient.EnqueueProductView(c.Request.Context(), id); err != nil {
		log.Warnf("Failed to enqueue view count for product %d: %v", id, err)
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

// parseProductIDFromRequest parses the product ID from path or query.
func parseProductIDFromRequest(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	if idStr == "" {
		idStr = c.Query("id")
	}
	if idStr == "" {
		return 0, fmt.Errorf("missing product ID parameter (expected in path /:id or query ?id=)")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid product ID format: %s", idStr)
	}
	return id, nil
}

// SearchHistoryHandler handles GET requests for recent search queries.
func (h *APIHandler) SearchHistoryHandler(c *gin.Context) {
	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		} else {
			BadRequest(c, "invalid limit: "+l)
			return
		}
	}

	queries, err := h.App.HistoryStore.ListSearchQueries(c.Request.Context(), limit)
	if err != nil {
		Internal(c, fmt.Sprintf("SearchHistoryHandler: failed to list search queries: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": queries})
}

// HealthHandler reports process and store health.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	if err := h.App.CatalogStore.Ping(c.Request.Context()); err != nil {
		JSONError(c, http.StatusServiceUnavailable, "unavailable", "store ping failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"ai_available": h.App.Interpreter.Available(),
	})
}
