package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/mocks"
	"github.com/jsamuelsen/kondate/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func healthRouter(registry ports.HealthRegistry, info BuildInfo) *gin.Engine {
	engine := gin.New()
	NewHealthHandler(registry, info).Register(engine)

	return engine
}

func probe(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))

	return w
}

func TestBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2026-10-01T10:00:00Z").WithRuntime("prod", "bedrock")

	assert.Equal(t, runtime.Version(), bi.GoVersion)

	w := probe(healthRouter(mocks.NewMockHealthRegistry(t), bi), "/-/build")
	require.Equal(t, http.StatusOK, w.Code)

	var got BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, bi, got)
}

// TestLiveness_IgnoresDependencies uses a registry mock without expectations,
// so any readiness check call fails the test.
func TestLiveness_IgnoresDependencies(t *testing.T) {
	w := probe(healthRouter(mocks.NewMockHealthRegistry(t), BuildInfo{}), "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadiness(t *testing.T) {
	healthy := &ports.CheckResult{Status: ports.HealthStatusHealthy}

	tests := []struct {
		name       string
		provider   string
		result     *ports.HealthResult
		wantStatus int
		wantHealth string
		wantMode   string
	}{
		{
			name:     "everything up",
			provider: "ollama",
			result: &ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{
				"catalog": healthy,
				"ollama":  {Status: ports.HealthStatusHealthy, Optional: true},
			}},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
			wantMode:   AdvisorModeModel,
		},
		{
			name:     "storage down",
			provider: "ollama",
			result: &ports.HealthResult{Status: ports.HealthStatusUnhealthy, Checks: map[string]*ports.CheckResult{
				"catalog": healthy,
				"storage": {Status: ports.HealthStatusUnhealthy, Message: "database is locked"},
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantHealth: "unhealthy",
			wantMode:   AdvisorModeModel,
		},
		{
			name:     "model not pulled",
			provider: "ollama",
			result: &ports.HealthResult{Status: ports.HealthStatusDegraded, Checks: map[string]*ports.CheckResult{
				"catalog": healthy,
				"ollama":  {Status: ports.HealthStatusUnhealthy, Optional: true, Message: "model not pulled"},
			}},
			wantStatus: http.StatusOK,
			wantHealth: "degraded",
			wantMode:   AdvisorModeFallback,
		},
		{
			name:       "no provider configured",
			provider:   "none",
			result:     &ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{"catalog": healthy}},
			wantStatus: http.StatusOK,
			wantHealth: "healthy",
			wantMode:   AdvisorModeFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result)

			w := probe(healthRouter(registry, BuildInfo{LLMProvider: tt.provider}), "/-/ready")

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp readiness
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantHealth, resp.Status)
			assert.Equal(t, tt.wantMode, resp.AdvisorMode)
		})
	}
}

func TestReadiness_WithRegistry(t *testing.T) {
	catalog := mocks.NewMockHealthChecker(t)
	catalog.EXPECT().Name().Return("catalog")
	catalog.EXPECT().Check(mock.Anything).Return(nil)

	model := mocks.NewMockHealthChecker(t)
	model.EXPECT().Name().Return("bedrock")
	model.EXPECT().Check(mock.Anything).Return(errors.New("throttled"))

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(catalog))
	require.NoError(t, registry.RegisterOptional(model))

	w := probe(healthRouter(registry, BuildInfo{LLMProvider: "bedrock"}), "/-/ready")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp readiness
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(ports.HealthStatusDegraded), resp.Status)
	assert.Equal(t, AdvisorModeFallback, resp.AdvisorMode)
	assert.True(t, resp.Checks["bedrock"].Optional)
	assert.Equal(t, "throttled", resp.Checks["bedrock"].Message)
}

func TestMetrics(t *testing.T) {
	w := probe(healthRouter(mocks.NewMockHealthRegistry(t), BuildInfo{}), "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
