// Package catalog serves the read-only recipe catalog. Recipes are decoded
// from a YAML document read from a local file or an S3 object and held in
// memory; Reload swaps the whole catalog atomically.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/kondate/internal/domain"
)

// ErrEmptyCatalog is returned when a document holds no recipes.
var ErrEmptyCatalog = errors.New("catalog has no recipes")

// Source reads the raw catalog document.
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// Catalog implements ports.RecipeCatalog.
type Catalog struct {
	source Source

	mu      sync.RWMutex
	recipes []domain.Recipe
	byID    map[string]int
}

// New creates a catalog and performs the first load.
func New(ctx context.Context, source Source) (*Catalog, error) {
	c := &Catalog{source: source}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// Reload re-reads the source. On failure the previous recipes stay in place.
func (c *Catalog) Reload(ctx context.Context) error {
	data, err := c.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading catalog from %s: %w", c.source.Name(), err)
	}

	recipes, err := Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding catalog from %s: %w", c.source.Name(), err)
	}

	byID := make(map[string]int, len(recipes))
	for i, r := range recipes {
		byID[r.ID] = i
	}

	c.mu.Lock()
	c.recipes, c.byID = recipes, byID
	c.mu.Unlock()

	return nil
}

// List returns every recipe in document order.
func (c *Catalog) List(_ context.Context) ([]domain.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = clone(r)
	}

	return out, nil
}

// Get returns one recipe.
func (c *Catalog) Get(_ context.Context, id string) (*domain.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityRecipe, id)
	}

	r := clone(c.recipes[i])

	return &r, nil
}

// Name implements ports.HealthChecker.
func (c *Catalog) Name() string {
	return "catalog"
}

// Check reports the catalog unhealthy when it holds no recipes.
func (c *Catalog) Check(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.recipes) == 0 {
		return ErrEmptyCatalog
	}

	return nil
}

type document struct {
	Recipes []recipeDoc `yaml:"recipes"`
}

type recipeDoc struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Category     string   `yaml:"category"`
	Servings     int      `yaml:"servings"`
	CookingTime  string   `yaml:"cookingTime"`
	Difficulty   string   `yaml:"difficulty"`
	Image        string   `yaml:"image"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions []string `yaml:"instructions"`
	Tags         []string `yaml:"tags"`
}

// Decode parses a catalog document. Every recipe needs a unique id, a name
// and a positive serving count.
func Decode(r io.Reader) ([]domain.Recipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, err
	}

	if len(doc.Recipes) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(doc.Recipes))
	recipes := make([]domain.Recipe, 0, len(doc.Recipes))

	for i, d := range doc.Recipes {
		id := strings.TrimSpace(d.ID)

		switch {
		case id == "":
			return nil, fmt.Errorf("recipe %d: %w", i, domain.NewValidationError("id", "required"))
		case seen[id]:
			return nil, fmt.Errorf("recipe %s: %w", id, domain.NewValidationError("id", "duplicate"))
		case strings.TrimSpace(d.Name) == "":
			return nil, fmt.Errorf("recipe %s: %w", id, domain.NewValidationError("name", "required"))
		case d.Servings <= 0:
			return nil, fmt.Errorf("recipe %s: %w",
				id, domain.NewValidationErrorWithValue("servings", "must be positive", d.Servings))
		}

		seen[id] = true
		recipes = append(recipes, domain.Recipe{
			ID:           id,
			Name:         d.Name,
			Description:  d.Description,
			Category:     d.Category,
			Servings:     d.Servings,
			CookingTime:  d.CookingTime,
			Difficulty:   d.Difficulty,
			Image:        d.Image,
			Ingredients:  d.Ingredients,
			Instructions: d.Instructions,
			Tags:         d.Tags,
		})
	}

	return recipes, nil
}

func clone(r domain.Recipe) domain.Recipe {
	r.Ingredients = append([]string(nil), r.Ingredients...)
	r.Instructions = append([]string(nil), r.Instructions...)
	r.Tags = append([]string(nil), r.Tags...)

	return r
}
