package watchlist

import (
	"context"
	"errors"
	"strings"
	"time"

	"stocks-tracker-web/models"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidSymbol is returned by Search when the symbol has no quote.
	ErrInvalidSymbol = errors.New("invalid stock symbol")
	ErrReadOnlyBoard = errors.New("guest board is read-only")
)

const (
	boardIdleTTL = 30 * time.Minute

	userPrefix    = "user:"
	visitorPrefix = "visitor:"

	// GuestOwner is the board shown to browsers without a session. It is
	// read-only: searches always run against a session's own board.
	GuestOwner = "guest"
)

func UserOwner(userID string) string { return userPrefix + userID }

func VisitorOwner(sessionID string) string { return visitorPrefix + sessionID }

// persistent reports whether owner's symbols outlive its in-memory board.
// Visitor boards die with the anonymous session, so they are never stored.
func persistent(owner string) bool {
	return strings.HasPrefix(owner, userPrefix)
}

// Fetcher runs the aggregation pipeline.
type Fetcher interface {
	Symbol(ctx context.Context, ticker string) models.StockView
	Batch(ctx context.Context, tickers []string) ([]models.StockView, error)
}

// Service keeps one board per owner: a signed-in user, an anonymous
// visitor or the shared guest board. Boards idle for 30 minutes are
// dropped; only user symbols are kept in the SymbolStore.
type Service struct {
	fetcher  Fetcher
	store    SymbolStore
	capacity int
	defaults []string
	boards   *gocache.Cache
}

func NewService(fetcher Fetcher, store SymbolStore, capacity int, defaults []string) *Service {
	if len(defaults) == 0 {
		defaults = DefaultSymbols
	}
	return &Service{
		fetcher:  fetcher,
		store:    store,
		capacity: capacity,
		defaults: defaults,
		boards:   gocache.New(boardIdleTTL, 10*time.Minute),
	}
}

// Board re-runs the pipeline for every card of the owner's board.
func (s *Service) Board(ctx context.Context, owner string) ([]models.StockView, error) {
	list, fresh, err := s.board(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !fresh {
		views, err := s.fetcher.Batch(ctx, list.Symbols())
		if err != nil {
			return nil, err
		}
		list.Merge(views)
	}
	return list.Views(), nil
}

// Search aggregates one symbol and puts it first on the owner's board.
// A symbol without a price leaves the board unchanged.
func (s *Service) Search(ctx context.Context, owner, ticker string) ([]models.StockView, error) {
	if owner == GuestOwner {
		return nil, ErrReadOnlyBoard
	}
	view := s.fetcher.Symbol(ctx, ticker)
	if !view.Price.Valid {
		return nil, ErrInvalidSymbol
	}

	list, _, err := s.board(ctx, owner)
	if err != nil {
		return nil, err
	}
	list.Push(view)

	if persistent(owner) {
		if err := s.store.Save(ctx, owner, list.Symbols()); err != nil {
			log.Error().Err(err).Str("owner", owner).Msg("persist watchlist")
		}
	}
	return list.Views(), nil
}

// board returns the owner's list, building it when absent. fresh reports
// whether it was just fetched.
func (s *Service) board(ctx context.Context, owner string) (*List, bool, error) {
	if cached, found := s.boards.Get(owner); found {
		s.boards.Set(owner, cached, gocache.DefaultExpiration)
		return cached.(*List), false, nil
	}

	var symbols []string
	if persistent(owner) {
		var err error
		if symbols, err = s.store.Load(ctx, owner); err != nil {
			log.Warn().Err(err).Str("owner", owner).Msg("load watchlist, using defaults")
		}
	}
	if len(symbols) == 0 {
		symbols = s.defaults
	}

	views, err := s.fetcher.Batch(ctx, symbols)
	if err != nil {
		return nil, false, err
	}
	list := NewList(s.capacity)
	list.Replace(views)

	// a concurrent request may have built the board meanwhile; keep the first
	if err := s.boards.Add(owner, list, gocache.DefaultExpiration); err != nil {
		if cached, found := s.boards.Get(owner); found {
			return cached.(*List), true, nil
		}
		s.boards.Set(owner, list, gocache.DefaultExpiration)
	}
	return list, true, nil
}

// Forget drops the in-memory board of owner.
func (s *Service) Forget(owner string) {
	s.boards.Delete(owner)
}
