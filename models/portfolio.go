package models

import (
	"time"

	"gorm.io/gorm"
)

// Holding is a purchased position as stored by the portfolio backend.
type Holding struct {
	Symbol   string  `json:"symbol"`
	Quantity int     `json:"quantity"`
	BuyPrice float64 `json:"buy_price"`
	BuyDate  string  `json:"buy_date"`
}

// HoldingView is a holding enriched with live market data. The enrichment is
// recomputed on every fetch and never persisted.
type HoldingView struct {
	Symbol        string        `json:"symbol"`
	Quantity      int           `json:"quantity"`
	BuyPrice      float64       `json:"buy_price"`
	BuyDate       string        `json:"buy_date"`
	CurrentPrice  NullFloat     `json:"current_price"`
	ProfitLoss    NullFloat     `json:"profit_loss"`
	ChangePercent NullFloat     `json:"change_percent"`
	Series        []SeriesPoint `json:"series"`
}

// PortfolioSummary totals a portfolio. MarketValue and ProfitLoss only count
// holdings with a known current price.
type PortfolioSummary struct {
	TotalCost   float64 `json:"total_cost"`
	MarketValue float64 `json:"market_value"`
	ProfitLoss  float64 `json:"profit_loss"`
	Priced      int     `json:"priced"`
	Holdings    int     `json:"holdings"`
}

// PortfolioView is the payload of the portfolio page.
type PortfolioView struct {
	Stocks  []HoldingView    `json:"stocks"`
	Summary PortfolioSummary `json:"summary"`
}

// WatchlistSymbol is one persisted entry of a user's watchlist.
type WatchlistSymbol struct {
	gorm.Model
	Owner    string `gorm:"index;not null"`
	Symbol   string `gorm:"not null"`
	Position int
	AddedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
