package market

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"stocks-tracker-web/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const alphaVantageURL = "https://www.alphavantage.co"

// AlphaVantage serves watchlist quotes (GLOBAL_QUOTE) and daily closes
// (TIME_SERIES_DAILY).
type AlphaVantage struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

func NewAlphaVantage(baseURL, apiKey string, timeout time.Duration, limiter *rate.Limiter) *AlphaVantage {
	if baseURL == "" {
		baseURL = alphaVantageURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &AlphaVantage{client: client, apiKey: apiKey, limiter: limiter}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// avStatus holds the fields Alpha Vantage uses to report throttling and bad symbols
// with a 200 status.
type avStatus struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (s avStatus) err() error {
	switch {
	case s.ErrorMessage != "":
		return fmt.Errorf("alpha vantage: %s", s.ErrorMessage)
	case s.Note != "":
		return fmt.Errorf("alpha vantage: %s", s.Note)
	case s.Information != "":
		return fmt.Errorf("alpha vantage: %s", s.Information)
	}
	return nil
}

type avQuoteResponse struct {
	avStatus
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

type avSeriesResponse struct {
	avStatus
	TimeSeriesDaily map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
}

func (a *AlphaVantage) query(ctx context.Context, function, symbol string, extra map[string]string, out any) error {
	if err := wait(ctx, a.limiter); err != nil {
		return err
	}

	params := map[string]string{
		"function": function,
		"symbol":   symbol,
		"apikey":   a.apiKey,
	}
	for k, v := range extra {
		params[k] = v
	}

	resp, err := a.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get("/query")
	if err != nil {
		return fmt.Errorf("alpha vantage %s %s: %w", function, symbol, err)
	}
	if resp.IsError() {
		return fmt.Errorf("alpha vantage %s %s: status %d", function, symbol, resp.StatusCode())
	}
	return nil
}

func (a *AlphaVantage) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var result avQuoteResponse
	if err := a.query(ctx, "GLOBAL_QUOTE", symbol, nil, &result); err != nil {
		return models.Quote{}, err
	}
	if err := result.err(); err != nil {
		return models.Quote{}, err
	}
	if result.GlobalQuote.Price == "" {
		return models.Quote{}, fmt.Errorf("alpha vantage quote %s: %w", symbol, ErrNoData)
	}

	price, err := strconv.ParseFloat(result.GlobalQuote.Price, 64)
	if err != nil {
		return models.Quote{}, fmt.Errorf("alpha vantage quote %s: parse price: %w", symbol, err)
	}

	quote := models.Quote{Symbol: symbol, Price: models.Float(price)}
	change := strings.TrimSuffix(strings.TrimSpace(result.GlobalQuote.ChangePercent), "%")
	if pct, err := strconv.ParseFloat(change, 64); err == nil {
		quote.ChangePercent = models.Float(pct)
	}
	return quote, nil
}

func (a *AlphaVantage) Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error) {
	var result avSeriesResponse
	extra := map[string]string{"outputsize": "compact"}
	if err := a.query(ctx, "TIME_SERIES_DAILY", symbol, extra, &result); err != nil {
		return nil, err
	}
	if err := result.err(); err != nil {
		return nil, err
	}
	if len(result.TimeSeriesDaily) == 0 {
		return nil, fmt.Errorf("alpha vantage series %s: %w", symbol, ErrNoData)
	}

	dates := make([]string, 0, len(result.TimeSeriesDaily))
	for date := range result.TimeSeriesDaily {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]models.SeriesPoint, 0, len(dates))
	for _, date := range dates {
		closePrice, err := strconv.ParseFloat(result.TimeSeriesDaily[date].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alpha vantage series %s: parse close on %s: %w", symbol, date, err)
		}
		label := date
		if ts, err := time.Parse("2006-01-02", date); err == nil {
			label = ts.Format("Jan 2")
		}
		points = append(points, models.SeriesPoint{Time: label, Price: closePrice})
	}
	return lastDays(points, days), nil
}
