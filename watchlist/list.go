package watchlist

import (
	"sync"

	"stocks-tracker-web/models"
)

const DefaultCapacity = 5

// DefaultSymbols is the board shown to a visitor with no saved watchlist.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}

// List is a bounded, most-recent-first list of watchlist cards.
type List struct {
	mu       sync.RWMutex
	capacity int
	views    []models.StockView
}

func NewList(capacity int) *List {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &List{capacity: capacity}
}

// Push puts view first, dropping any older card for the same symbol and
// anything past capacity.
func (l *List) Push(view models.StockView) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]models.StockView, 0, l.capacity)
	next = append(next, view)
	for _, v := range l.views {
		if len(next) == l.capacity {
			break
		}
		if v.Symbol != view.Symbol {
			next = append(next, v)
		}
	}
	l.views = next
}

// Replace swaps the whole list, keeping at most capacity cards.
func (l *List) Replace(views []models.StockView) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(views) > l.capacity {
		views = views[:l.capacity]
	}
	l.views = append([]models.StockView(nil), views...)
}

// Merge refreshes the cards whose symbol appears in fresh and leaves order
// and the other cards untouched, so a search landing mid-refresh survives.
func (l *List) Merge(fresh []models.StockView) {
	bySymbol := make(map[string]models.StockView, len(fresh))
	for _, v := range fresh {
		bySymbol[v.Symbol] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, v := range l.views {
		if f, ok := bySymbol[v.Symbol]; ok {
			l.views[i] = f
		}
	}
}

func (l *List) Views() []models.StockView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.StockView(nil), l.views...)
}

func (l *List) Symbols() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	symbols := make([]string, len(l.views))
	for i, v := range l.views {
		symbols[i] = v.Symbol
	}
	return symbols
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.views)
}
