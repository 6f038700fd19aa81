package market

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocks-tracker-web/models"

	"golang.org/x/time/rate"
)

// ErrNoData is returned when a provider answers but has nothing for the symbol.
var ErrNoData = errors.New("no market data for symbol")

// QuoteSource retrieves the current price and percent change of a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (models.Quote, error)
}

// SeriesSource retrieves the last days daily closes of a symbol, oldest first.
type SeriesSource interface {
	Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error)
}

type Provider interface {
	QuoteSource
	SeriesSource
	Name() string
}

// Options configures a provider built by New.
type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
}

// New builds the named provider: alphavantage, twelvedata or yahoo.
func New(name string, opts Options) (Provider, error) {
	limiter := NewLimiter(opts.RequestsPerMinute)
	switch strings.ToLower(name) {
	case "alphavantage":
		return NewAlphaVantage(opts.BaseURL, opts.APIKey, opts.Timeout, limiter), nil
	case "twelvedata":
		return NewTwelveData(opts.BaseURL, opts.APIKey, opts.Timeout, limiter), nil
	case "yahoo":
		return NewYahoo(limiter), nil
	default:
		return nil, fmt.Errorf("unknown market data provider %q", name)
	}
}

// NewLimiter spreads requestsPerMinute evenly; zero or less disables throttling.
func NewLimiter(requestsPerMinute int) *rate.Limiter {
	if requestsPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), burst)
}

// Normalize trims and upper-cases a ticker.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}

// lastDays keeps the newest days points of an oldest-first series.
func lastDays(points []models.SeriesPoint, days int) []models.SeriesPoint {
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	return points
}
