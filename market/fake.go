package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stocks-tracker-web/models"
)

// Fake is an in-memory provider for tests and offline development.
type Fake struct {
	Quotes map[string]models.Quote
	Closes map[string][]models.SeriesPoint
	// Fail makes every request for the symbol return the error.
	Fail  map[string]error
	Delay time.Duration

	mu    sync.Mutex
	calls map[string]int
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	if err := f.begin(ctx, "quote:"+symbol); err != nil {
		return models.Quote{}, err
	}
	if err := f.Fail[symbol]; err != nil {
		return models.Quote{}, err
	}
	q, ok := f.Quotes[symbol]
	if !ok {
		return models.Quote{}, fmt.Errorf("fake quote %s: %w", symbol, ErrNoData)
	}
	q.Symbol = symbol
	return q, nil
}

func (f *Fake) Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error) {
	if err := f.begin(ctx, "series:"+symbol); err != nil {
		return nil, err
	}
	if err := f.Fail[symbol]; err != nil {
		return nil, err
	}
	points, ok := f.Closes[symbol]
	if !ok {
		return nil, fmt.Errorf("fake series %s: %w", symbol, ErrNoData)
	}
	out := make([]models.SeriesPoint, len(points))
	copy(out, points)
	return lastDays(out, days), nil
}

// Calls reports how many quote or series requests reached the fake,
// keyed "quote:SYM" or "series:SYM".
func (f *Fake) Calls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *Fake) begin(ctx context.Context, key string) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[key]++
	f.mu.Unlock()

	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}
