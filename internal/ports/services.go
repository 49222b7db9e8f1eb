// Package ports defines the interfaces the application layer depends on.
// Adapters implement them; the app layer never imports an adapter.
//
// Conventions:
//   - Context is the first parameter of every blocking method
//   - Methods return domain types, never provider DTOs
//   - Failures are reported with domain errors (ErrNotFound, ErrUnavailable)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
)

// RecipeCatalog is the read-only recipe source.
type RecipeCatalog interface {
	// List returns every recipe in catalog order.
	List(ctx context.Context) ([]domain.Recipe, error)

	// Get returns one recipe.
	// Returns domain.ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (*domain.Recipe, error)
}

// ShoppingListRepository persists shopping lists.
// Implementations return copies; mutating a returned list has no effect
// until Save is called.
type ShoppingListRepository interface {
	// Get loads a list.
	// Returns domain.ErrNotFound if the list has never been saved.
	Get(ctx context.Context, id string) (*shopping.List, error)

	// Save creates or replaces a list.
	Save(ctx context.Context, list *shopping.List) error

	// Delete removes a list. Deleting an unknown list is not an error.
	Delete(ctx context.Context, id string) error
}

// LanguageModel generates text completions.
type LanguageModel interface {
	// Generate returns the model's reply to prompt.
	// Returns domain.ErrUnavailable when the provider cannot be reached.
	Generate(ctx context.Context, prompt domain.Prompt) (string, error)
}

// Cache stores opaque values for a bounded time.
type Cache interface {
	// Get retrieves a value.
	// Returns domain.ErrNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Missing keys are ignored.
	Delete(ctx context.Context, key string) error
}
