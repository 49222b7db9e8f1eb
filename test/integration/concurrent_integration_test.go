//go:build integration

package integration

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/adapters/storage"
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/platform/config"
	"github.com/jsamuelsen/kondate/internal/ports"
)

// TestConcurrent_AddItemMergesEveryUpdate verifies that concurrent updates
// of one list are serialized, so no merge is lost.
func TestConcurrent_AddItemMergesEveryUpdate(t *testing.T) {
	repositories := map[string]func(t *testing.T) ports.ShoppingListRepository{
		"memory": func(*testing.T) ports.ShoppingListRepository { return storage.NewMemoryStore() },
		"sqlite": func(t *testing.T) ports.ShoppingListRepository {
			store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "kondate.db"), discardLogger())
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}

	for name, newRepo := range repositories {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s, err := newStack(ctx, stackOptions{repository: newRepo(t)})
			require.NoError(t, err)

			const workers = 20

			var wg sync.WaitGroup
			var failures int32

			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := s.Shopping.AddItem(ctx, "party", "卵", "1個"); err != nil {
						atomic.AddInt32(&failures, 1)
					}
				}()
			}

			wg.Wait()

			require.Zero(t, atomic.LoadInt32(&failures))

			list, err := s.Shopping.Get(ctx, "party")
			require.NoError(t, err)
			require.Len(t, list.Entries, 1)
			assert.Equal(t, "20個", list.Entries[0].Quantity)
		})
	}
}

// TestConcurrent_IndependentLists verifies that different lists do not
// block or corrupt each other.
func TestConcurrent_IndependentLists(t *testing.T) {
	ctx := context.Background()

	s, err := newStack(ctx, stackOptions{})
	require.NoError(t, err)

	lists := []string{"a", "b", "c", "d", "e"}

	var wg sync.WaitGroup
	errs := make(chan error, len(lists))

	for _, id := range lists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Shopping.AddMenu(ctx, id, []app.MenuDay{
				{Day: "月", RecipeID: "nikujaga"},
				{Day: "火", RecipeID: "oyakodon"},
				{Day: "水", RecipeID: "curry"},
			})
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	first, err := s.Shopping.Get(ctx, "a")
	require.NoError(t, err)

	for _, id := range lists[1:] {
		list, err := s.Shopping.Get(ctx, id)
		require.NoError(t, err)
		assert.Len(t, list.Entries, len(first.Entries), "list %s", id)
	}
}

// TestConcurrent_AdvisorRateLimitPerClient verifies the advisor limiter
// admits exactly the burst from one client under concurrent load.
func TestConcurrent_AdvisorRateLimitPerClient(t *testing.T) {
	ctx := context.Background()

	s, err := newStack(ctx, stackOptions{
		rateLimit: &config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 3},
	})
	require.NoError(t, err)

	srv := s.serve()
	defer srv.Close()

	const requests = 10

	var wg sync.WaitGroup
	var limited, served int32

	body := `{"recipe":{"name":"肉じゃが","ingredients":["豚肉 200g"]},` +
		`"ingredientsToOptimize":[{"ingredient":"豚肉","currentAmount":"200g","desiredAmount":"300g"}]}`

	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()

			resp, err := http.Post(srv.URL+"/api/v1/advisor/optimize-ingredients", "application/json", strings.NewReader(body))
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusTooManyRequests:
				atomic.AddInt32(&limited, 1)
				assert.NotEmpty(t, resp.Header.Get("Retry-After"))
			case http.StatusOK:
				atomic.AddInt32(&served, 1)
			default:
				t.Errorf("unexpected status %d", resp.StatusCode)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&served))
	assert.Equal(t, int32(requests-3), atomic.LoadInt32(&limited))

	// quantity endpoints are not limited
	resp, err := http.Post(srv.URL+"/api/v1/quantities/merge", "application/json", strings.NewReader(`{"a":"1個","b":"1個"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
