package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		store := New()

		_, found := store.Get("non-existent")
		assert.False(t, found)

		store.Set("key1", "value1", 5*time.Minute)

		v, found := store.Get("key1")
		assert.True(t, found)
		assert.Equal(t, "value1", v)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("expiration removes entry", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := NewWithClock(func() time.Time { return now })

		store.Set("key", 42, time.Hour)

		_, found := store.Get("key")
		assert.True(t, found)

		// Advance past expiry
		now = now.Add(time.Hour + time.Second)

		_, found = store.Get("key")
		assert.False(t, found)
		// Lazy eviction: the expired read removed the entry
		assert.Equal(t, 0, store.Len())
	})

	t.Run("round trip before expiry returns identical value", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		store := NewWithClock(func() time.Time { return now })

		type payload struct {
			Name  string
			Price int
		}
		want := payload{Name: "iPhone 16", Price: 79900}
		store.Set("prices:IN:iphone 16", want, TTLPrices)

		now = now.Add(TTLPrices - time.Minute)

		got, found := Get[payload](store, "prices:IN:iphone 16")
		require.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("typed get with wrong type is a miss", func(t *testing.T) {
		store := New()
		store.Set("key", "a string", time.Minute)

		_, found := Get[int](store, "key")
		assert.False(t, found)
	})

	t.Run("concurrent access", func(t *testing.T) {
		store := New()

		done := make(chan bool)
		go func() {
			for i := 0; i < 100; i++ {
				store.Set("concurrent", i, time.Minute)
			}
			done <- true
		}()
		go func() {
			for i := 0; i < 100; i++ {
				_, _ = store.Get("concurrent")
			}
			done <- true
		}()
		for i := 0; i < 2; i++ {
			<-done
		}

		store.Set("after", "ok", time.Minute)
		_, found := store.Get("after")
		assert.True(t, found)
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "prices:IN:iphone 16 pro", Key("prices", "in", "  iPhone 16 Pro "))
	assert.Equal(t, "launch:US:macbook", Key("launch", "US", "MacBook"))
}
