package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocks-tracker-web/models"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartParamsWindow(t *testing.T) {
	end := time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC)

	params := chartParams("AAPL", 10, end)

	assert.Equal(t, "AAPL", params.Symbol)
	assert.Equal(t, datetime.OneDay, params.Interval)
	assert.Equal(t, datetime.Datetime{Month: 3, Day: 8, Year: 2024}, *params.End)
	// 10 trading days -> 27 calendar days back, across the leap day
	assert.Equal(t, datetime.Datetime{Month: 2, Day: 10, Year: 2024}, *params.Start)
}

func TestYahoo_Series(t *testing.T) {
	y := NewYahoo(NewLimiter(0))
	y.now = func() time.Time { return time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC) }

	var asked *chart.Params
	y.closes = func(_ context.Context, params *chart.Params) ([]models.SeriesPoint, error) {
		asked = params
		return []models.SeriesPoint{
			{Time: "Mar 5", Price: 1},
			{Time: "Mar 6", Price: 2},
			{Time: "Mar 7", Price: 3},
		}, nil
	}

	points, err := y.Series(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, []models.SeriesPoint{{Time: "Mar 6", Price: 2}, {Time: "Mar 7", Price: 3}}, points)
	require.NotNil(t, asked)
	assert.Equal(t, 8, asked.End.Day)
}

func TestYahoo_SeriesErrors(t *testing.T) {
	y := NewYahoo(NewLimiter(0))

	y.closes = func(context.Context, *chart.Params) ([]models.SeriesPoint, error) { return nil, nil }
	_, err := y.Series(context.Background(), "ZZZZ", 7)
	assert.ErrorIs(t, err, ErrNoData)

	boom := errors.New("rate limited")
	y.closes = func(context.Context, *chart.Params) ([]models.SeriesPoint, error) { return nil, boom }
	_, err = y.Series(context.Background(), "AAPL", 7)
	assert.ErrorIs(t, err, boom)
}

func TestYahoo_Quote(t *testing.T) {
	y := NewYahoo(NewLimiter(0))
	y.quote = func(symbol string) (*finance.Quote, error) {
		switch symbol {
		case "AAPL":
			return &finance.Quote{RegularMarketPrice: 190.5, RegularMarketChangePercent: 1.25}, nil
		case "ZERO":
			return &finance.Quote{}, nil
		default:
			return nil, nil
		}
	}

	q, err := y.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, models.Float(190.5), q.Price)
	assert.Equal(t, models.Float(1.25), q.ChangePercent)

	_, err = y.Quote(context.Background(), "ZERO")
	assert.ErrorIs(t, err, ErrNoData)
	_, err = y.Quote(context.Background(), "NONE")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestYahoo_HonoursCancelledContext(t *testing.T) {
	y := NewYahoo(NewLimiter(1))
	y.quote = func(string) (*finance.Quote, error) {
		t.Fatal("quote called after cancel")
		return nil, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := y.Quote(ctx, "AAPL")
	assert.Error(t, err)
}
