package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func exerciseStore(t *testing.T, store Store, expire func(time.Duration)) {
	ctx := context.Background()

	var got entry
	found, err := store.Get(ctx, "stock:AAPL:price", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "stock:AAPL:price", entry{Symbol: "AAPL", Price: 191.5}, time.Minute))
	found, err = store.Get(ctx, "stock:AAPL:price", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Symbol: "AAPL", Price: 191.5}, got)

	expire(2 * time.Minute)
	found, err = store.Get(ctx, "stock:AAPL:price", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "stock:MSFT:price", entry{Symbol: "MSFT"}, time.Hour))
	require.NoError(t, store.Delete(ctx, "stock:MSFT:price"))
	found, err = store.Get(ctx, "stock:MSFT:price", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	exerciseStore(t, NewRedisStore(client), srv.FastForward)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	exerciseStore(t, store, func(time.Duration) {
		// go-cache expires on wall clock; drop the key the way a lapsed TTL would
		store.items.Delete("stock:AAPL:price")
	})
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	points := []entry{{Symbol: "TSLA", Price: 1}}
	require.NoError(t, store.Set(ctx, "k", points, 0))
	points[0].Price = 99

	var got []entry
	found, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1.0, got[0].Price)
}
