package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache_SetGet(t *testing.T) {
	c := NewInMemoryCache[string, int](time.Minute)

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache[string, string](time.Minute)

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInMemoryCache_Items(t *testing.T) {
	c := NewInMemoryCache[string, int](time.Minute)

	c.Set("live", 1, time.Minute)
	c.Set("dead", 2, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	items := c.Items()
	assert.Equal(t, map[string]int{"live": 1}, items)
}

func TestInMemoryCache_DeleteClear(t *testing.T) {
	c := NewInMemoryCache[string, int](time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}
