// Package storage persists shopping lists, in memory or in SQLite via gorm.
package storage

import (
	"context"
	"sync"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
)

// MemoryStore keeps lists in process memory. Lists are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string]*shopping.List
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string]*shopping.List)}
}

// Get implements ports.ShoppingListRepository.
func (s *MemoryStore) Get(_ context.Context, id string) (*shopping.List, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lists[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityShoppingList, id)
	}

	return l.Clone(), nil
}

// Save implements ports.ShoppingListRepository.
func (s *MemoryStore) Save(_ context.Context, list *shopping.List) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[list.ID] = list.Clone()

	return nil
}

// Delete implements ports.ShoppingListRepository.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, id)

	return nil
}

// Name implements ports.HealthChecker.
func (s *MemoryStore) Name() string {
	return "storage"
}

// Check implements ports.HealthChecker. Memory is always available.
func (s *MemoryStore) Check(context.Context) error {
	return nil
}
