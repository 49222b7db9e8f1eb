package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/adapters/http/handlers"
	"github.com/jsamuelsen/kondate/internal/adapters/http/middleware"
	"github.com/jsamuelsen/kondate/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers and middleware settings of the API.
// Nil handlers are not routed.
type RouterConfig struct {
	Logger *slog.Logger

	// AppName names the service in traces.
	AppName string

	Health   *handlers.HealthHandler
	Quantity *handlers.QuantityHandler
	Recipe   *handlers.RecipeHandler
	Shopping *handlers.ShoppingHandler
	Advisor  *handlers.AdvisorHandler

	// Timeout is the deadline of each API request. Advisor requests wait on
	// the language model and get AdvisorTimeout instead when it is set.
	Timeout        time.Duration
	AdvisorTimeout time.Duration

	// AdvisorRateLimit, when set, limits advisor requests per client IP.
	AdvisorRateLimit *middleware.RateLimitConfig

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery
//  2. CORS, answering preflight requests before anything else runs
//  3. Context logger, request ID and correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Logging (skips the /-/ probes)
//  6. Timeout, and for /advisor the rate limiter
//
// Route groups:
//   - /-/: probes, build info and Prometheus metrics
//   - /api/v1/: the kondate API
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(appName(cfg), "/-/live", "/-/ready", "/-/metrics")...)
	engine.Use(middleware.Logging())

	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "指定されたエンドポイントは存在しません")
	})

	if cfg.Health != nil {
		cfg.Health.Register(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	advisorTimeout := cfg.AdvisorTimeout
	if advisorTimeout <= 0 {
		advisorTimeout = timeout
	}

	apiV1 := engine.Group("/api/v1")
	setupAPIRoutes(apiV1, cfg, timeout, advisorTimeout)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig, timeout, advisorTimeout time.Duration) {
	api := rg.Group("", middleware.Timeout(timeout))

	if cfg.Quantity != nil {
		cfg.Quantity.RegisterRoutes(api)
	}

	if cfg.Recipe != nil {
		cfg.Recipe.RegisterRoutes(api)
	}

	if cfg.Shopping != nil {
		cfg.Shopping.RegisterRoutes(api)
	}

	if cfg.Advisor != nil {
		advisor := []gin.HandlerFunc{middleware.Timeout(advisorTimeout)}
		if cfg.AdvisorRateLimit != nil {
			advisor = append(advisor, middleware.NewRateLimiter(*cfg.AdvisorRateLimit).Middleware())
		}

		cfg.Advisor.RegisterRoutes(rg, advisor...)
	}
}

func appName(cfg RouterConfig) string {
	if cfg.AppName == "" {
		return "kondate"
	}

	return cfg.AppName
}
