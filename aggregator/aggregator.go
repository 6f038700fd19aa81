package aggregator

import (
	"context"
	"fmt"

	"stocks-tracker-web/market"
	"stocks-tracker-web/models"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWatchlistDays = 7
	DefaultHoldingDays   = 10
	DefaultConcurrency   = 8
)

type Options struct {
	WatchlistDays int
	HoldingDays   int
	Concurrency   int
}

// Aggregator joins quote and series fetches into view models. A failing
// symbol degrades to a placeholder and never blocks the rest of its batch.
type Aggregator struct {
	watchlist market.Provider
	holdings  market.SeriesSource
	opts      Options
}

func New(watchlist market.Provider, holdings market.SeriesSource, opts Options) *Aggregator {
	if opts.WatchlistDays <= 0 {
		opts.WatchlistDays = DefaultWatchlistDays
	}
	if opts.HoldingDays <= 0 {
		opts.HoldingDays = DefaultHoldingDays
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Aggregator{watchlist: watchlist, holdings: holdings, opts: opts}
}

// Symbol fetches the quote and recent closes of ticker concurrently.
func (a *Aggregator) Symbol(ctx context.Context, ticker string) models.StockView {
	symbol := market.Normalize(ticker)
	view := models.PlaceholderView(symbol)
	if symbol == "" {
		return view
	}

	var (
		quote  models.Quote
		series []models.SeriesPoint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := a.watchlist.Quote(gctx, symbol)
		if err != nil {
			return fmt.Errorf("quote: %w", err)
		}
		quote = q
		return nil
	})
	g.Go(func() error {
		s, err := a.watchlist.Series(gctx, symbol, a.opts.WatchlistDays)
		if err != nil {
			return fmt.Errorf("series: %w", err)
		}
		series = s
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Str("provider", a.watchlist.Name()).Msg("stock data unavailable")
		return view
	}
	if !quote.Price.Valid {
		return view
	}

	view.Price = quote.Price
	view.ChangePercent = quote.ChangePercent
	if series != nil {
		view.Series = series
	}
	return view
}

// Batch aggregates every ticker and returns once all have settled, in input
// order. It returns ctx.Err() when the caller has gone away meanwhile, so
// late results are never published.
func (a *Aggregator) Batch(ctx context.Context, tickers []string) ([]models.StockView, error) {
	views := make([]models.StockView, len(tickers))

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			views[i] = a.Symbol(ctx, ticker)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// Holdings enriches each holding with its recent closes, current price,
// profit/loss and percent change against the buy price.
func (a *Aggregator) Holdings(ctx context.Context, holdings []models.Holding) ([]models.HoldingView, error) {
	views := make([]models.HoldingView, len(holdings))

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, h := range holdings {
		g.Go(func() error {
			views[i] = a.holding(ctx, h)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func (a *Aggregator) holding(ctx context.Context, h models.Holding) models.HoldingView {
	view := models.HoldingView{Series: []models.SeriesPoint{}}
	if err := copier.Copy(&view, &h); err != nil {
		log.Error().Err(err).Str("symbol", h.Symbol).Msg("copy holding")
	}
	view.Symbol = market.Normalize(view.Symbol)

	series, err := a.holdings.Series(ctx, view.Symbol, a.opts.HoldingDays)
	if err != nil || len(series) == 0 {
		log.Warn().Err(err).Str("symbol", view.Symbol).Msg("holding price unavailable")
		return view
	}

	current := series[len(series)-1].Price
	view.Series = series
	view.CurrentPrice = models.Float(current)
	view.ProfitLoss = models.Float(ProfitLoss(current, h.BuyPrice, h.Quantity))
	view.ChangePercent = ChangePercent(current, h.BuyPrice)
	return view
}

// ChangePercent is (current - buy) / buy * 100, unavailable for a zero buy price.
func ChangePercent(current, buy float64) models.NullFloat {
	if buy == 0 {
		return models.NullFloat{}
	}
	return models.Float((current - buy) / buy * 100)
}

// ProfitLoss is (current - buy) * quantity rounded to cents.
func ProfitLoss(current, buy float64, quantity int) float64 {
	pl := decimal.NewFromFloat(current).
		Sub(decimal.NewFromFloat(buy)).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2)
	f, _ := pl.Float64()
	return f
}

// Summarize totals the cost of every holding and the value and profit/loss
// of the ones with a known price.
func Summarize(views []models.HoldingView) models.PortfolioSummary {
	cost, value, pl := decimal.Zero, decimal.Zero, decimal.Zero
	summary := models.PortfolioSummary{Holdings: len(views)}

	for _, v := range views {
		qty := decimal.NewFromInt(int64(v.Quantity))
		cost = cost.Add(decimal.NewFromFloat(v.BuyPrice).Mul(qty))
		if !v.CurrentPrice.Valid {
			continue
		}
		summary.Priced++
		value = value.Add(decimal.NewFromFloat(v.CurrentPrice.Float64).Mul(qty))
		pl = pl.Add(decimal.NewFromFloat(v.ProfitLoss.Float64))
	}

	summary.TotalCost, _ = cost.Round(2).Float64()
	summary.MarketValue, _ = value.Round(2).Float64()
	summary.ProfitLoss, _ = pl.Round(2).Float64()
	return summary
}
