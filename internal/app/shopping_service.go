package app

import (
	"context"
	"fmt"
	"hash/maphash"
	"log/slog"
	"strings"
	"sync"

	reqctx "github.com/jsamuelsen/kondate/internal/app/context"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
	"github.com/jsamuelsen/kondate/internal/ports"
)

const defaultMenuFetchLimit = 4

// listLockStripes is the number of mutexes list ids are hashed onto. Lists
// sharing a stripe serialize against each other.
const listLockStripes = 64

// MaxMenuDays bounds a weekly menu request.
const MaxMenuDays = 21

// ShoppingService manages shopping lists. Updates to one list are serialized
// within the process; concurrent writers in other processes are not detected.
type ShoppingService struct {
	repo        ports.ShoppingListRepository
	catalog     ports.RecipeCatalog
	categorizer *ingredient.Categorizer
	fetchLimit  int
	logger      *slog.Logger

	seed  maphash.Seed
	locks [listLockStripes]sync.Mutex
}

// ShoppingServiceConfig contains the dependencies of ShoppingService.
type ShoppingServiceConfig struct {
	Repository  ports.ShoppingListRepository
	Catalog     ports.RecipeCatalog
	Categorizer *ingredient.Categorizer
	// MenuFetchLimit caps concurrent catalog lookups for AddMenu.
	MenuFetchLimit int
	Logger         *slog.Logger
}

// NewShoppingService panics without a repository or catalog.
func NewShoppingService(cfg ShoppingServiceConfig) *ShoppingService {
	if cfg.Repository == nil {
		panic("app: ShoppingService requires a repository")
	}

	if cfg.Catalog == nil {
		panic("app: ShoppingService requires a catalog")
	}

	limit := cfg.MenuFetchLimit
	if limit <= 0 {
		limit = defaultMenuFetchLimit
	}

	categorizer := cfg.Categorizer
	if categorizer == nil {
		categorizer = ingredient.NewDefaultCategorizer()
	}

	return &ShoppingService{
		repo:        cfg.Repository,
		catalog:     cfg.Catalog,
		categorizer: categorizer,
		fetchLimit:  limit,
		logger:      defaultLogger(cfg.Logger, "app.ShoppingService"),
		seed:        maphash.MakeSeed(),
	}
}

// Get returns a list. Lists that were never saved are returned empty.
func (s *ShoppingService) Get(ctx context.Context, listID string) (*shopping.List, error) {
	return s.load(ctx, listID)
}

// AddRecipe adds every ingredient of a recipe, scaled to servings (zero
// means the recipe's base).
func (s *ShoppingService) AddRecipe(ctx context.Context, listID, recipeID string, servings int) (*shopping.List, error) {
	if err := validateServings(servings); err != nil {
		return nil, err
	}

	r, err := s.catalog.Get(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("getting recipe %s: %w", recipeID, err)
	}

	list, err := s.update(ctx, listID, func(l *shopping.List) error {
		addRecipeLines(l, r, servings)
		return nil
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "added recipe to shopping list",
		slog.String("list_id", listID),
		slog.String("recipe_id", recipeID),
		slog.Int("servings", servings),
		slog.Int("entries", len(list.Entries)),
	)

	return list, nil
}

// AddItem adds a single hand-entered item.
func (s *ShoppingService) AddItem(ctx context.Context, listID, name, qty string) (*shopping.Entry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name", "食材名を入力してください")
	}

	var entry shopping.Entry

	_, err := s.update(ctx, listID, func(l *shopping.List) error {
		entry = *l.AddIngredient(name, qty, "")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// SetChecked sets an item's checked flag, or toggles it when checked is nil.
func (s *ShoppingService) SetChecked(ctx context.Context, listID, itemID string, checked *bool) (*shopping.Entry, error) {
	var entry shopping.Entry

	_, err := s.update(ctx, listID, func(l *shopping.List) error {
		var (
			e   *shopping.Entry
			err error
		)

		if checked == nil {
			e, err = l.Toggle(itemID)
		} else {
			e, err = l.SetChecked(itemID, *checked)
		}

		if err != nil {
			return err
		}

		entry = *e

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// RemoveItem deletes one item.
func (s *ShoppingService) RemoveItem(ctx context.Context, listID, itemID string) error {
	_, err := s.update(ctx, listID, func(l *shopping.List) error {
		return l.Remove(itemID)
	})

	return err
}

// ClearChecked removes every checked item and returns how many were removed.
func (s *ShoppingService) ClearChecked(ctx context.Context, listID string) (int, error) {
	var removed int

	_, err := s.update(ctx, listID, func(l *shopping.List) error {
		removed = l.ClearChecked()
		return nil
	})
	if err != nil {
		return 0, err
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "cleared checked items",
		slog.String("list_id", listID),
		slog.Int("removed", removed),
	)

	return removed, nil
}

// MenuDay is one planned meal of a weekly menu.
type MenuDay struct {
	Day      string
	RecipeID string
	Servings int
}

// AddMenu adds the ingredients of every planned meal. Recipes are fetched
// concurrently and each distinct recipe is looked up once. Either every day
// is applied or the list is left unchanged.
func (s *ShoppingService) AddMenu(ctx context.Context, listID string, days []MenuDay) (*shopping.List, error) {
	if len(days) == 0 || len(days) > MaxMenuDays {
		return nil, domain.NewValidationErrorWithValue("days",
			fmt.Sprintf("献立は1〜%d件で指定してください", MaxMenuDays), len(days))
	}

	for _, d := range days {
		if err := validateServings(d.Servings); err != nil {
			return nil, err
		}
	}

	rc := reqctx.New(ctx)
	ctx = reqctx.WithContext(ctx, rc)

	ids := make([]string, len(days))
	for i, d := range days {
		ids[i] = d.RecipeID
	}

	recipes, err := fetchEach(ctx, s.fetchLimit, ids, func(ctx context.Context, id string) (*domain.Recipe, error) {
		return reqctx.Fetch(rc, "recipe:"+id, func(context.Context) (*domain.Recipe, error) {
			return s.catalog.Get(ctx, id)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("loading menu recipes: %w", err)
	}

	list, err := s.update(ctx, listID, func(l *shopping.List) error {
		for i, d := range days {
			if err := rc.AddAction(&addMenuDayAction{list: l, day: d, recipe: recipes[i]}); err != nil {
				return err
			}
		}

		return rc.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "added menu to shopping list",
		slog.String("list_id", listID),
		slog.Any("days", rc.Staged()),
		slog.Int("entries", len(list.Entries)),
	)

	return list, nil
}

// update runs fn on the stored list under the list's lock and saves it.
// Nothing is saved when fn fails.
func (s *ShoppingService) update(ctx context.Context, listID string, fn func(*shopping.List) error) (*shopping.List, error) {
	mu := s.lock(listID)
	mu.Lock()
	defer mu.Unlock()

	list, err := s.load(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := fn(list); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, list); err != nil {
		return nil, fmt.Errorf("saving shopping list %s: %w", listID, err)
	}

	return list, nil
}

func (s *ShoppingService) load(ctx context.Context, listID string) (*shopping.List, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, domain.NewValidationError("listId", "required")
	}

	list, err := s.repo.Get(ctx, listID)
	switch {
	case domain.IsNotFound(err):
		list = shopping.NewList(listID)
	case err != nil:
		return nil, fmt.Errorf("loading shopping list %s: %w", listID, err)
	}

	list.SetCategorizer(s.categorizer)

	return list, nil
}

// lock returns the mutex guarding listID. The set of mutexes is fixed, so
// arbitrary ids from clients cannot grow it.
func (s *ShoppingService) lock(listID string) *sync.Mutex {
	return &s.locks[maphash.String(s.seed, listID)%listLockStripes]
}

func validateServings(servings int) error {
	if servings < 0 || servings > MaxServings {
		return domain.NewValidationErrorWithValue("servings",
			fmt.Sprintf("人数は1〜%d人で指定してください", MaxServings), servings)
	}

	return nil
}

func addRecipeLines(l *shopping.List, r *domain.Recipe, servings int) {
	for _, line := range r.IngredientsFor(servings) {
		l.AddLine(line, r.Name)
	}
}

// addMenuDayAction adds one day's recipe. Rollback restores the entries as
// they were before Execute.
type addMenuDayAction struct {
	list     *shopping.List
	day      MenuDay
	recipe   *domain.Recipe
	snapshot []*shopping.Entry
}

func (a *addMenuDayAction) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.snapshot = a.list.Clone().Entries
	addRecipeLines(a.list, a.recipe, a.day.Servings)

	return nil
}

func (a *addMenuDayAction) Rollback(context.Context) error {
	a.list.Entries = a.snapshot

	return nil
}

func (a *addMenuDayAction) Description() string {
	return fmt.Sprintf("add %s (%s)", a.recipe.ID, a.day.Day)
}
