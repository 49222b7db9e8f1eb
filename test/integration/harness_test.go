//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/cache"
	"github.com/jsamuelsen/kondate/internal/adapters/catalog"
	"github.com/jsamuelsen/kondate/internal/adapters/flags"
	kondatehttp "github.com/jsamuelsen/kondate/internal/adapters/http"
	"github.com/jsamuelsen/kondate/internal/adapters/http/handlers"
	"github.com/jsamuelsen/kondate/internal/adapters/http/middleware"
	"github.com/jsamuelsen/kondate/internal/adapters/storage"
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/platform/config"
	"github.com/jsamuelsen/kondate/internal/ports"
)

const (
	configDir   = "../../configs"
	catalogPath = configDir + "/recipes.yaml"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stack is the service wired the way cmd/service wires it, with the
// shopping list repository and language model chosen by the test.
type stack struct {
	Catalog  *catalog.Catalog
	Shopping *app.ShoppingService
	Advisor  *app.AdvisorService
	Engine   *gin.Engine
}

type stackOptions struct {
	repository ports.ShoppingListRepository
	model      ports.LanguageModel
	rateLimit  *config.RateLimitConfig
}

func newStack(ctx context.Context, opts stackOptions) (*stack, error) {
	logger := discardLogger()

	recipes, err := catalog.New(ctx, catalog.FileSource{Path: catalogPath})
	if err != nil {
		return nil, err
	}

	repo := opts.repository
	if repo == nil {
		repo = storage.NewMemoryStore()
	}

	categorizer := ingredient.NewDefaultCategorizer()

	shoppingService := app.NewShoppingService(app.ShoppingServiceConfig{
		Repository:  repo,
		Catalog:     recipes,
		Categorizer: categorizer,
		Logger:      logger,
	})

	advisorService := app.NewAdvisorService(app.AdvisorServiceConfig{
		Model:  opts.model,
		Cache:  cache.NewMemory(time.Minute, time.Minute),
		Flags:  flags.NewStatic(map[string]any{"advisor.fallback": true}),
		Logger: logger,
	})

	registry := ports.NewHealthRegistry()
	if err := registry.Register(recipes); err != nil {
		return nil, err
	}

	routerCfg := kondatehttp.RouterConfig{
		Logger:   logger,
		AppName:  "kondate-integration",
		Health:   handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now").WithRuntime("test", "none")),
		Quantity: handlers.NewQuantityHandler(categorizer),
		Recipe: handlers.NewRecipeHandler(app.NewRecipeService(app.RecipeServiceConfig{
			Catalog:     recipes,
			Categorizer: categorizer,
			Logger:      logger,
		})),
		Shopping: handlers.NewShoppingHandler(shoppingService),
		Advisor:  handlers.NewAdvisorHandler(advisorService),
		Timeout:  5 * time.Second,
	}

	if opts.rateLimit != nil {
		routerCfg.AdvisorRateLimit = &middleware.RateLimitConfig{
			RPS:   opts.rateLimit.RPS,
			Burst: opts.rateLimit.Burst,
		}
	}

	engine := gin.New()
	kondatehttp.SetupRouter(engine, routerCfg)

	return &stack{
		Catalog:  recipes,
		Shopping: shoppingService,
		Advisor:  advisorService,
		Engine:   engine,
	}, nil
}

// serve starts the stack on a local listener.
func (s *stack) serve() *httptest.Server {
	return httptest.NewServer(s.Engine)
}
