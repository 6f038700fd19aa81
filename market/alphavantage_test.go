package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"stocks-tracker-web/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaVantageServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		body, ok := bodies[r.URL.Query().Get("function")+":"+r.URL.Query().Get("symbol")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAlphaVantage_Quote(t *testing.T) {
	srv := alphaVantageServer(t, map[string]string{
		"GLOBAL_QUOTE:AAPL": `{"Global Quote":{"01. symbol":"AAPL","05. price":"191.4500","10. change percent":"-1.2345%"}}`,
		"GLOBAL_QUOTE:NOPE": `{"Global Quote":{}}`,
		"GLOBAL_QUOTE:IBM":  `{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`,
	})
	av := NewAlphaVantage(srv.URL, "test-key", 0, NewLimiter(0))
	ctx := context.Background()

	q, err := av.Quote(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, models.Quote{Symbol: "AAPL", Price: models.Float(191.45), ChangePercent: models.Float(-1.2345)}, q)

	_, err = av.Quote(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = av.Quote(ctx, "IBM")
	assert.ErrorContains(t, err, "call frequency")

	_, err = av.Quote(ctx, "DOWN")
	assert.ErrorContains(t, err, "status 500")
}

func TestAlphaVantage_SeriesKeepsLastDaysOldestFirst(t *testing.T) {
	srv := alphaVantageServer(t, map[string]string{
		"TIME_SERIES_DAILY:MSFT": `{"Time Series (Daily)":{
			"2024-03-08":{"4. close":"406.22"},
			"2024-03-01":{"4. close":"415.50"},
			"2024-03-07":{"4. close":"409.14"},
			"2024-03-04":{"4. close":"414.92"},
			"2024-03-05":{"4. close":"402.65"},
			"2024-03-06":{"4. close":"402.09"}
		}}`,
	})
	av := NewAlphaVantage(srv.URL, "test-key", 0, nil)

	points, err := av.Series(context.Background(), "MSFT", 3)
	require.NoError(t, err)
	assert.Equal(t, []models.SeriesPoint{
		{Time: "Mar 6", Price: 402.09},
		{Time: "Mar 7", Price: 409.14},
		{Time: "Mar 8", Price: 406.22},
	}, points)

	_, err = av.Series(context.Background(), "GONE", 7)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, name := range []string{"alphavantage", "TwelveData", "yahoo"} {
		p, err := New(name, Options{})
		require.NoError(t, err)
		assert.NotEmpty(t, p.Name())
	}

	_, err := New("bloomberg", Options{})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "BRK.B", Normalize("  brk.b "))
}
