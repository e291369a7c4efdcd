package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := New()
	c.Set("k", 42, time.Minute)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheMiss(t *testing.T) {
	c := New()
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New()
	clock := time.Now()
	c.now = func() time.Time { return clock }

	c.Set("k", "v", 30*time.Second)
	clock = clock.Add(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheEvict(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)
	c.Evict("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCacheOverwrite(t *testing.T) {
	c := New()
	c.Set("k", 1, time.Minute)
	c.Set("k", 2, time.Minute)

	v, _ := c.Get("k")
	assert.Equal(t, 2, v)
}
