package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Danilo-Alfa/AvivaNacoes-sub000/pkg/cache"
)

func TestTTLCache(t *testing.T) {
	t.Run("set then get", func(t *testing.T) {
		c := cache.New[string, bool](time.Minute, time.Minute)
		defer c.Close()

		c.Set("maria@example.com", true)

		got, ok := c.Get("maria@example.com")
		assert.True(t, ok)
		assert.True(t, got)
	})

	t.Run("missing key", func(t *testing.T) {
		c := cache.New[string, bool](time.Minute, time.Minute)
		defer c.Close()

		_, ok := c.Get("ninguem@example.com")
		assert.False(t, ok)
	})

	t.Run("entry expires after ttl", func(t *testing.T) {
		c := cache.New[string, int](30*time.Millisecond, time.Minute)
		defer c.Close()

		c.Set("k", 42)
		time.Sleep(40 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("delete removes immediately", func(t *testing.T) {
		c := cache.New[string, int](time.Minute, time.Minute)
		defer c.Close()

		c.Set("k", 1)
		c.Delete("k")

		_, ok := c.Get("k")
		assert.False(t, ok)
	})

	t.Run("set refreshes the expiry", func(t *testing.T) {
		c := cache.New[string, int](50*time.Millisecond, time.Minute)
		defer c.Close()

		c.Set("k", 1)
		time.Sleep(30 * time.Millisecond)
		c.Set("k", 2)
		time.Sleep(30 * time.Millisecond)

		got, ok := c.Get("k")
		assert.True(t, ok)
		assert.Equal(t, 2, got)
	})
}
