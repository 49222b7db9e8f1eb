package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/quantity"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
	"github.com/jsamuelsen/kondate/internal/ports"
)

// MaxServings bounds serving selections.
const MaxServings = 100

// RecipeService serves the recipe catalog and per-serving ingredient lists.
type RecipeService struct {
	catalog     ports.RecipeCatalog
	categorizer *ingredient.Categorizer
	logger      *slog.Logger
}

// RecipeServiceConfig contains the dependencies of RecipeService.
type RecipeServiceConfig struct {
	Catalog     ports.RecipeCatalog
	Categorizer *ingredient.Categorizer
	Logger      *slog.Logger
}

// NewRecipeService panics without a catalog.
func NewRecipeService(cfg RecipeServiceConfig) *RecipeService {
	if cfg.Catalog == nil {
		panic("app: RecipeService requires a catalog")
	}

	categorizer := cfg.Categorizer
	if categorizer == nil {
		categorizer = ingredient.NewDefaultCategorizer()
	}

	return &RecipeService{
		catalog:     cfg.Catalog,
		categorizer: categorizer,
		logger:      defaultLogger(cfg.Logger, "app.RecipeService"),
	}
}

// List returns the recipes matching query. An empty query lists everything.
func (s *RecipeService) List(ctx context.Context, query string) ([]domain.Recipe, error) {
	all, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	matched := make([]domain.Recipe, 0, len(all))
	for _, r := range all {
		if r.Matches(query) {
			matched = append(matched, r)
		}
	}

	loggerFor(ctx, s.logger).DebugContext(ctx, "listed recipes",
		slog.String("query", query),
		slog.Int("matched", len(matched)),
	)

	return matched, nil
}

// Get returns one recipe.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting recipe %s: %w", id, err)
	}

	return r, nil
}

// ScaledIngredient is one ingredient line prepared for display.
type ScaledIngredient struct {
	Line     string
	Name     string
	Amount   string
	Category ingredient.Category
	Scalable bool
}

// Step is an instruction with its optional timer.
type Step struct {
	Text  string
	Timer time.Duration
}

// ScaledRecipe is a recipe rendered for a serving count.
type ScaledRecipe struct {
	Recipe      domain.Recipe
	Servings    int
	Ratio       float64
	Ingredients []ScaledIngredient
	Steps       []Step
}

// Scaled renders recipe id for servings. Zero servings means the recipe's
// base. The lines are always scaled from the catalog's base servings.
func (s *RecipeService) Scaled(ctx context.Context, id string, servings int) (*ScaledRecipe, error) {
	if err := validateServings(servings); err != nil {
		return nil, err
	}

	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if servings == 0 {
		servings = r.Servings
	}

	ratio, ok := quantity.Ratio(r.Servings, servings)
	if !ok {
		ratio = 1
	}

	lines := r.IngredientsFor(servings)
	out := &ScaledRecipe{
		Recipe:      *r,
		Servings:    servings,
		Ratio:       ratio,
		Ingredients: make([]ScaledIngredient, len(lines)),
		Steps:       make([]Step, len(r.Instructions)),
	}

	for i, line := range lines {
		out.Ingredients[i] = s.describe(line)
	}

	for i, text := range r.Instructions {
		timer, _ := domain.StepDuration(text)
		out.Steps[i] = Step{Text: text, Timer: timer}
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "scaled recipe",
		slog.String("recipe_id", id),
		slog.Int("base_servings", r.Servings),
		slog.Int("servings", servings),
	)

	return out, nil
}

// DescribeLines categorizes free lines without a catalog lookup.
func (s *RecipeService) DescribeLines(lines []string) []ScaledIngredient {
	out := make([]ScaledIngredient, len(lines))
	for i, line := range lines {
		out[i] = s.describe(line)
	}

	return out
}

// Categorize exposes the service's categorizer.
func (s *RecipeService) Categorize(name string) ingredient.Category {
	return s.categorizer.Categorize(name)
}

func (s *RecipeService) describe(line string) ScaledIngredient {
	name, amount := shopping.SplitLine(line)
	d := ScaledIngredient{Line: line, Name: name, Amount: amount}

	d.Scalable = quantity.Parse(line).Matched()
	d.Category = s.categorizer.Categorize(d.Name)

	return d
}
