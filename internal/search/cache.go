package search

import (
	"vitrine/internal/models"
)

// fifoCache maps normalized queries to interpretations, evicting by
// insertion order once full. Deliberately FIFO, not LRU: Get does not
// refresh an entry's position.
type fifoCache struct {
	max     int
	entries map[string]models.Interpretation
	order   []string
}

func newFIFOCache(max int) *fifoCache {
	return &fifoCache{
		max:     max,
		entries: make(map[string]models.Interpretation, max),
	}
}

func (c *fifoCache) Get(key string) (models.Interpretation, bool) {
	res, ok := c.entries[key]
	return res, ok
}

func (c *fifoCache) Put(key string, res models.Interpretation) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = res
		return
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = res
	c.order = append(c.order, key)
}

func (c *fifoCache) Len() int { return len(c.entries) }
