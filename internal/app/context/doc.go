// Package context holds request-scoped state for multi-step use cases such as
// adding a weekly menu to a shopping list.
//
// # Memoized lookups
//
// A menu often repeats a recipe. Lookups go through Fetch so each recipe is
// loaded from the catalog once per request:
//
//	rc := reqctx.New(ctx)
//	recipe, err := reqctx.Fetch(rc, "recipe:"+id, func(ctx context.Context) (*domain.Recipe, error) {
//	    return catalog.Get(ctx, id)
//	})
//
// # Staged writes
//
// Each menu day becomes an Action. Commit runs them in order and rolls the
// executed ones back in reverse order when one fails, so the list is either
// fully updated or left as it was.
package context
