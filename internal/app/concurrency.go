package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchEach calls fetch once per distinct key, at most limit at a time
// (negative for no bound), and returns the values aligned with keys. A
// failing key cancels the remaining fetches.
func fetchEach[K comparable, V any](ctx context.Context, limit int, keys []K, fetch func(context.Context, K) (V, error)) ([]V, error) {
	index := make(map[K]int, len(keys))
	distinct := make([]K, 0, len(keys))

	for _, k := range keys {
		if _, seen := index[k]; !seen {
			index[k] = len(distinct)
			distinct = append(distinct, k)
		}
	}

	fetched := make([]V, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, k := range distinct {
		g.Go(func() error {
			v, err := fetch(gctx, k)
			if err != nil {
				return fmt.Errorf("%v: %w", k, err)
			}

			fetched[i] = v

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = fetched[index[k]]
	}

	return out, nil
}
