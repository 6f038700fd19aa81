package watchlist

import (
	"context"
	"fmt"
	"sync"

	"stocks-tracker-web/database"
	"stocks-tracker-web/models"

	"gorm.io/gorm"
)

// SymbolStore persists the symbols of an owner's watchlist, most recent first.
// Load returns nil for an owner with nothing saved.
type SymbolStore interface {
	Load(ctx context.Context, owner string) ([]string, error)
	Save(ctx context.Context, owner string, symbols []string) error
}

// GormStore keeps watchlists in PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context, owner string) ([]string, error) {
	var rows []models.WatchlistSymbol
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load watchlist %s: %w", owner, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	symbols := make([]string, len(rows))
	for i, r := range rows {
		symbols[i] = r.Symbol
	}
	return symbols, nil
}

func (s *GormStore) Save(ctx context.Context, owner string, symbols []string) error {
	rows := make([]models.WatchlistSymbol, len(symbols))
	for i, sym := range symbols {
		rows[i] = models.WatchlistSymbol{Owner: owner, Symbol: sym, Position: i}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("owner = ?", owner).Delete(&models.WatchlistSymbol{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return database.CreateInBatches(tx, rows, 50)
	})
	if err != nil {
		return fmt.Errorf("save watchlist %s: %w", owner, err)
	}
	return nil
}

// MemoryStore keeps watchlists for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]string)}
}

func (s *MemoryStore) Load(_ context.Context, owner string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols, ok := s.lists[owner]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), symbols...), nil
}

func (s *MemoryStore) Save(_ context.Context, owner string, symbols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[owner] = append([]string(nil), symbols...)
	return nil
}
