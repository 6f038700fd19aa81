package models

import (
	"bytes"
	"encoding/json"
)

// NotAvailable is what the views show for a figure that could not be fetched.
const NotAvailable = "N/A"

// NullFloat is a market figure that may be missing. It encodes as a JSON
// number, or as "N/A" when not valid.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" || string(data) == `"`+NotAvailable+`"` {
		*n = NullFloat{}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// Quote is a snapshot of a symbol's current price and percent change.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         NullFloat `json:"price"`
	ChangePercent NullFloat `json:"change_percent"`
}

// SeriesPoint is one closing price of a series, ordered oldest to newest.
type SeriesPoint struct {
	Time  string  `json:"time"`
	Price float64 `json:"price"`
}

// StockView is the aggregated quote + series record rendered as a watchlist card.
type StockView struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	Price         NullFloat     `json:"price"`
	ChangePercent NullFloat     `json:"change_percent"`
	Series        []SeriesPoint `json:"series"`
}

var displayNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com",
	"TSLA":  "Tesla Inc.",
}

// DisplayName returns the company name shown on the card, or N/A.
func DisplayName(symbol string) string {
	if name, ok := displayNames[symbol]; ok {
		return name
	}
	return NotAvailable
}

// PlaceholderView is the degraded record shown when a symbol could not be fetched.
func PlaceholderView(symbol string) StockView {
	return StockView{
		Symbol: symbol,
		Name:   DisplayName(symbol),
		Series: []SeriesPoint{},
	}
}
