package market

import (
	"context"
	"fmt"
	"time"

	"stocks-tracker-web/cache"
	"stocks-tracker-web/models"

	"github.com/rs/zerolog/log"
)

// Cached serves quotes and series from a store before asking the provider.
// Failures are never cached.
type Cached struct {
	provider  Provider
	store     cache.Store
	quoteTTL  time.Duration
	seriesTTL time.Duration
}

func NewCached(provider Provider, store cache.Store, quoteTTL, seriesTTL time.Duration) *Cached {
	return &Cached{provider: provider, store: store, quoteTTL: quoteTTL, seriesTTL: seriesTTL}
}

func (c *Cached) Name() string { return c.provider.Name() }

func (c *Cached) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	key := fmt.Sprintf("stock:%s:%s:price", c.provider.Name(), symbol)

	var cached models.Quote
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	q, err := c.provider.Quote(ctx, symbol)
	if err != nil {
		return models.Quote{}, err
	}
	c.save(ctx, key, q, c.quoteTTL)
	return q, nil
}

func (c *Cached) Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error) {
	key := fmt.Sprintf("stock:%s:%s:history:%d", c.provider.Name(), symbol, days)

	var cached []models.SeriesPoint
	if c.lookup(ctx, key, &cached) {
		return cached, nil
	}

	points, err := c.provider.Series(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, points, c.seriesTTL)
	return points, nil
}

func (c *Cached) lookup(ctx context.Context, key string, dst any) bool {
	found, err := c.store.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("market cache read failed")
		return false
	}
	return found
}

func (c *Cached) save(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("market cache write failed")
	}
}
