// Package handlers provides the HTTP handlers of the kondate API.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/kondate/internal/ports"
)

// BuildInfo is served at /-/build. Version, Commit and BuildTime come from
// ldflags.
type BuildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	BuildTime   string `json:"buildTime"`
	GoVersion   string `json:"goVersion"`
	Environment string `json:"environment,omitempty"`
	LLMProvider string `json:"llmProvider,omitempty"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// WithRuntime records the config profile and the language model provider
// ("none" when the advisor only serves fallbacks).
func (b BuildInfo) WithRuntime(environment, llmProvider string) BuildInfo {
	b.Environment = environment
	b.LLMProvider = llmProvider

	return b
}

// Advisor modes reported by the readiness probe.
const (
	AdvisorModeModel    = "model"
	AdvisorModeFallback = "fallback"
)

// HealthHandler serves the /-/ probe, build and metrics endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{registry: registry, buildInfo: buildInfo}
}

// Register mounts the probes under /-.
func (h *HealthHandler) Register(engine *gin.Engine) {
	rg := engine.Group("/-")
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Liveness never looks at dependencies; a slow model must not get the pod
// restarted.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type readiness struct {
	Status      string                        `json:"status"`
	AdvisorMode string                        `json:"advisorMode"`
	Checks      map[string]*ports.CheckResult `json:"checks,omitempty"`
	Timestamp   time.Time                     `json:"timestamp"`
}

// Readiness answers 503 only when a required check fails. A failing
// optional check, which is the language model, leaves the service ready
// with the advisor in fallback mode.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	resp := readiness{
		Status:      string(result.Status),
		AdvisorMode: advisorMode(h.buildInfo.LLMProvider, result.Checks),
		Checks:      result.Checks,
		Timestamp:   result.Timestamp,
	}

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

func advisorMode(provider string, checks map[string]*ports.CheckResult) string {
	if provider == "none" {
		return AdvisorModeFallback
	}

	for _, cr := range checks {
		if cr.Optional && cr.Status != ports.HealthStatusHealthy {
			return AdvisorModeFallback
		}
	}

	return AdvisorModeModel
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}
