package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vitrine/internal/models"
)

func TestFIFOCache_EvictsByInsertionOrderNotRecency(t *testing.T) {
	c := newFIFOCache(2)
	c.Put("a", models.Interpretation{Keywords: []string{"a"}, Confidence: 0.9})
	c.Put("b", models.Interpretation{Keywords: []string{"b"}, Confidence: 0.9})

	// Reading "a" must not save it: FIFO, not LRU.
	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Put("c", models.Interpretation{Keywords: []string{"c"}, Confidence: 0.9})

	_, ok = c.Get("a")
	assert.False(t, ok, "oldest-inserted entry evicted despite recent access")
	_, ok = c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestFIFOCache_OverwriteDoesNotGrow(t *testing.T) {
	c := newFIFOCache(2)
	c.Put("a", models.Interpretation{Confidence: 0.1})
	c.Put("a", models.Interpretation{Confidence: 0.7})

	res, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 0.7, res.Confidence)
	assert.Equal(t, 1, c.Len())
}
