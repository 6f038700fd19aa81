package market

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"stocks-tracker-web/models"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const twelveDataURL = "https://api.twelvedata.com"

// TwelveData serves the daily series used to price portfolio holdings.
type TwelveData struct {
	client  *resty.Client
	apiKey  string
	limiter *rate.Limiter
}

func NewTwelveData(baseURL, apiKey string, timeout time.Duration, limiter *rate.Limiter) *TwelveData {
	if baseURL == "" {
		baseURL = twelveDataURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &TwelveData{client: client, apiKey: apiKey, limiter: limiter}
}

func (t *TwelveData) Name() string { return "twelvedata" }

// tdStatus is how Twelve Data reports failures, usually with a 200 status.
type tdStatus struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s tdStatus) err() error {
	if s.Status == "error" {
		return fmt.Errorf("twelve data: %d %s", s.Code, s.Message)
	}
	return nil
}

type tdSeriesResponse struct {
	tdStatus
	Values []struct {
		Datetime string `json:"datetime"`
		Close    string `json:"close"`
	} `json:"values"`
}

type tdQuoteResponse struct {
	tdStatus
	Symbol        string `json:"symbol"`
	Close         string `json:"close"`
	PercentChange string `json:"percent_change"`
}

func (t *TwelveData) get(ctx context.Context, path string, params map[string]string, out any) error {
	if err := wait(ctx, t.limiter); err != nil {
		return err
	}
	params["apikey"] = t.apiKey

	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("twelve data %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("twelve data %s: status %d", path, resp.StatusCode())
	}
	return nil
}

func (t *TwelveData) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	var result tdQuoteResponse
	if err := t.get(ctx, "/quote", map[string]string{"symbol": symbol}, &result); err != nil {
		return models.Quote{}, err
	}
	if err := result.err(); err != nil {
		return models.Quote{}, err
	}
	if result.Close == "" {
		return models.Quote{}, fmt.Errorf("twelve data quote %s: %w", symbol, ErrNoData)
	}

	price, err := strconv.ParseFloat(result.Close, 64)
	if err != nil {
		return models.Quote{}, fmt.Errorf("twelve data quote %s: parse close: %w", symbol, err)
	}
	quote := models.Quote{Symbol: symbol, Price: models.Float(price)}
	if pct, err := strconv.ParseFloat(result.PercentChange, 64); err == nil {
		quote.ChangePercent = models.Float(pct)
	}
	return quote, nil
}

func (t *TwelveData) Series(ctx context.Context, symbol string, days int) ([]models.SeriesPoint, error) {
	params := map[string]string{
		"symbol":     symbol,
		"interval":   "1day",
		"outputsize": strconv.Itoa(days),
	}
	var result tdSeriesResponse
	if err := t.get(ctx, "/time_series", params, &result); err != nil {
		return nil, err
	}
	if err := result.err(); err != nil {
		return nil, err
	}
	if len(result.Values) == 0 {
		return nil, fmt.Errorf("twelve data series %s: %w", symbol, ErrNoData)
	}

	// values arrive newest first
	points := make([]models.SeriesPoint, 0, len(result.Values))
	for i := len(result.Values) - 1; i >= 0; i-- {
		v := result.Values[i]
		closePrice, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("twelve data series %s: parse close on %s: %w", symbol, v.Datetime, err)
		}
		points = append(points, models.SeriesPoint{Time: v.Datetime, Price: closePrice})
	}
	return lastDays(points, days), nil
}
