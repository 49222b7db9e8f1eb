// Package main is the entry point for the kondate API server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/kondate/internal/adapters/cache"
	"github.com/jsamuelsen/kondate/internal/adapters/catalog"
	"github.com/jsamuelsen/kondate/internal/adapters/clients"
	"github.com/jsamuelsen/kondate/internal/adapters/clients/acl"
	"github.com/jsamuelsen/kondate/internal/adapters/flags"
	"github.com/jsamuelsen/kondate/internal/adapters/http"
	"github.com/jsamuelsen/kondate/internal/adapters/http/handlers"
	"github.com/jsamuelsen/kondate/internal/adapters/http/middleware"
	"github.com/jsamuelsen/kondate/internal/adapters/llm/bedrock"
	"github.com/jsamuelsen/kondate/internal/adapters/storage"
	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/platform/config"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
	"github.com/jsamuelsen/kondate/internal/platform/telemetry"
	"github.com/jsamuelsen/kondate/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("llm_provider", cfg.LLM.Provider),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,

		LLMProvider:   cfg.LLM.Provider,
		StorageDriver: cfg.Storage.Driver,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Outbound adapters
	recipes, err := openCatalog(ctx, &cfg.Catalog)
	if err != nil {
		return err
	}

	if all, err := recipes.List(ctx); err == nil {
		logger.Info("recipe catalog loaded", slog.Int("recipes", len(all)))
	}

	lists, closeStore, err := openStorage(&cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	model, err := newLanguageModel(ctx, cfg, logger)
	if err != nil {
		return err
	}

	improvements := cache.NewMemory(cfg.Advisor.CacheTTL, cfg.Advisor.CacheCleanup)
	featureFlags := flags.NewStatic(cfg.Flags)

	// 6. Health registry: the catalog and storage are critical, the model
	// only degrades readiness since the advisor falls back without it.
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(recipes); err != nil {
		return fmt.Errorf("registering catalog health check: %w", err)
	}

	if checker, ok := lists.(ports.HealthChecker); ok {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering storage health check: %w", err)
		}
	}

	if checker, ok := model.(ports.HealthChecker); ok {
		if err := healthRegistry.RegisterOptional(checker); err != nil {
			return fmt.Errorf("registering language model health check: %w", err)
		}
	}

	// 7. Application services
	categorizer := ingredient.NewDefaultCategorizer()

	recipeService := app.NewRecipeService(app.RecipeServiceConfig{
		Catalog:     recipes,
		Categorizer: categorizer,
		Logger:      logger,
	})

	shoppingService := app.NewShoppingService(app.ShoppingServiceConfig{
		Repository:     lists,
		Catalog:        recipes,
		Categorizer:    categorizer,
		MenuFetchLimit: cfg.Advisor.MenuFetchLimit,
		Logger:         logger,
	})

	advisorService := app.NewAdvisorService(app.AdvisorServiceConfig{
		Model:    model,
		Cache:    improvements,
		Flags:    featureFlags,
		CacheTTL: cfg.Advisor.CacheTTL,
		Logger:   logger,
	})

	// 8. Handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).
		WithRuntime(cfg.App.Environment, cfg.LLM.Provider)

	// 9. HTTP server
	server, err := http.New(&cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	// 10. Router with all middleware and routes
	routerCfg := http.RouterConfig{
		Logger:         logger,
		AppName:        cfg.App.Name,
		Health:         handlers.NewHealthHandler(healthRegistry, buildInfo),
		Quantity:       handlers.NewQuantityHandler(categorizer),
		Recipe:         handlers.NewRecipeHandler(recipeService),
		Shopping:       handlers.NewShoppingHandler(shoppingService),
		Advisor:        handlers.NewAdvisorHandler(advisorService),
		Timeout:        cfg.Server.APITimeout,
		AdvisorTimeout: cfg.Server.RequestTimeout,
		CORSOrigins:    cfg.Server.CORSOrigins,
	}

	if cfg.Advisor.RateLimit.Enabled {
		routerCfg.AdvisorRateLimit = &middleware.RateLimitConfig{
			RPS:   cfg.Advisor.RateLimit.RPS,
			Burst: cfg.Advisor.RateLimit.Burst,
		}
	}

	http.SetupRouter(server.Engine(), routerCfg)

	// 11. Serve until SIGINT or SIGTERM
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

func openCatalog(ctx context.Context, cfg *config.CatalogConfig) (*catalog.Catalog, error) {
	var source catalog.Source

	switch cfg.Source {
	case "s3":
		client, err := catalog.NewS3Client(ctx, cfg.Region, cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("creating s3 client: %w", err)
		}

		source = catalog.NewS3Source(client, cfg.Bucket, cfg.Key)
	default:
		source = catalog.FileSource{Path: cfg.Path}
	}

	recipes, err := catalog.New(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("loading recipe catalog: %w", err)
	}

	return recipes, nil
}

func openStorage(cfg *config.StorageConfig, logger *slog.Logger) (ports.ShoppingListRepository, func(), error) {
	if cfg.Driver != "sqlite" {
		return storage.NewMemoryStore(), func() {}, nil
	}

	store, err := storage.OpenSQLite(cfg.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
	}

	return store, closer(store, logger, "sqlite store"), nil
}

// newLanguageModel returns nil for the "none" provider. The advisor then
// answers with its fallbacks.
func newLanguageModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.LanguageModel, error) {
	llm := cfg.LLM

	switch llm.Provider {
	case "ollama":
		httpClient, err := clients.New(&clients.Config{
			BaseURL:     llm.Ollama.BaseURL,
			ServiceName: "ollama",
			Timeout:     llm.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating ollama client: %w", err)
		}

		return acl.NewOllamaModel(acl.OllamaConfig{
			Client:      httpClient,
			Model:       llm.Ollama.Model,
			Temperature: llm.Temperature,
			TopP:        llm.TopP,
			MaxTokens:   llm.MaxTokens,
			Logger:      logger,
		}), nil

	case "bedrock":
		region := llm.Bedrock.Region
		if region == "" {
			region = cfg.Catalog.Region
		}

		runtime, err := bedrock.NewClient(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("creating bedrock client: %w", err)
		}

		return bedrock.New(runtime, bedrock.Config{
			ModelID:     llm.Bedrock.ModelID,
			Temperature: llm.Temperature,
			TopP:        llm.TopP,
			MaxTokens:   llm.MaxTokens,
			Timeout:     llm.Timeout,
			Logger:      logger,
		}), nil

	default:
		logger.Warn("no language model configured, advisor serves fallbacks only")
		return nil, nil
	}
}

func closer(c io.Closer, logger *slog.Logger, name string) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error("close failed", slog.String("component", name), slog.Any("error", err))
		}
	}
}

