package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReloadAndGet(t *testing.T) {
	c := NewCache()
	c.Reload(sampleProducts())
	assert.Equal(t, 5, c.Len())

	p, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "Royal Canin", p.Brand)

	_, ok = c.Get(99)
	assert.False(t, ok)
}

func TestCacheAllAscendingByID(t *testing.T) {
	c := NewCache()
	in := sampleProducts()
	// Insert in scrambled order; All must come back id-ascending.
	c.Reload([]Product{in[3], in[0], in[4], in[2], in[1]})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(c.All()))
}

func TestCacheReloadReplacesSnapshot(t *testing.T) {
	c := NewCache()
	c.Reload(sampleProducts())
	c.Reload(sampleProducts()[:2])
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(5)
	assert.False(t, ok)
}
