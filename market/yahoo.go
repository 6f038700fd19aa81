package market

import (
	"context"
	"fmt"
	"time"

	"stocks-tracker-web/models"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/quote"
	"golang.org/x/time/rate"
)

// Yahoo serves quotes and daily charts through Yahoo Finance. The underlying
// client has no context support, so cancellation is only checked between calls.
type Yahoo struct {
	limiter *rate.Limiter
	now     func() time.Time
	quote   func(symbol string) (*finance.Quote, error)
	closes  func(ctx context.Context, params *chart.Params) ([]models.SeriesPoint, error)
}

func NewYahoo(limiter *rate.Limiter) *Yahoo {
	return &Yahoo{limiter: limiter, now: time.Now, quote: quote.Get, closes: chartCloses}
}

func (y *Yahoo) Name() string { return "yahoo" }

func (y *Yahoo) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	if err := wait(ctx, y.limiter); err != nil {
		return models.Quote{}, err
	}
	q, err := y.quote(symbol)
	if err != nil {
		return models.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice == 0 {
		return models.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, ErrNoData)
	}
	return models.Quote{
		Symbol:        symbol,
		Price:         models.Float(q.RegularMarketPrice),
		ChangePercent: models.Float(q.RegularMarketChangePercent),
	}, nil
}

func (y *Yahoo) Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error) {
	if err := wait(ctx, y.limiter); err != nil {
		return nil, err
	}

	points, err := y.closes(ctx, chartParams(symbol, days, y.now()))
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}
	return lastDays(points, days), nil
}

// chartParams asks for about twice as many calendar days as trading days
// so weekends and holidays still leave enough sessions.
func chartParams(symbol string, days int, end time.Time) *chart.Params {
	start := end.AddDate(0, 0, -(days*2 + 7))
	return &chart.Params{
		Symbol:   symbol,
		Start:    &datetime.Datetime{Month: int(start.Month()), Day: start.Day(), Year: start.Year()},
		End:      &datetime.Datetime{Month: int(end.Month()), Day: end.Day(), Year: end.Year()},
		Interval: datetime.OneDay,
	}
}

func chartCloses(ctx context.Context, params *chart.Params) ([]models.SeriesPoint, error) {
	var points []models.SeriesPoint
	iter := chart.Get(params)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		closePrice, _ := bar.Close.Float64()
		points = append(points, models.SeriesPoint{
			Time:  time.Unix(int64(bar.Timestamp), 0).UTC().Format("Jan 2"),
			Price: closePrice,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
