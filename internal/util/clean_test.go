package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanQuery(t *testing.T) {
	assert.Equal(t, "t-shirt 'blanc'", CleanQuery(" t-shirt ‘blanc’ "))
	assert.Equal(t, "Café", CleanQuery("Café"), "case and accents are preserved")
	assert.Equal(t, "mug �", CleanQuery("mug \xff"))
}
