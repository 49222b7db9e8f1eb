package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func do(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())

	return resp
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "generates UUID when no header present"},
		{name: "passes through existing header", header: "existing-req-123", wantSame: true},
		{name: "replaces header with spaces", header: "bad id"},
		{name: "replaces overlong header", header: strings.Repeat("a", maxInboundIDLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ginID, ctxID string

			router := gin.New()
			router.Use(RequestID())
			router.GET("/test", func(c *gin.Context) {
				ginID = GetRequestID(c)
				ctxID = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}

			w := do(router, req)

			require.Equal(t, http.StatusOK, w.Code)

			header := w.Header().Get(HeaderRequestID)
			assert.NotEmpty(t, header)
			assert.Equal(t, header, ginID)
			assert.Equal(t, ginID, ctxID)

			if tt.wantSame {
				assert.Equal(t, tt.header, ginID)
			} else {
				assert.NotEqual(t, tt.header, ginID)
				assert.Len(t, ginID, 36)
			}
		})
	}
}

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Parallel()

	var ginID, ctxID string

	router := gin.New()
	router.Use(CorrelationID())
	router.GET("/test", func(c *gin.Context) {
		ginID = GetCorrelationID(c)
		ctxID = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderCorrelationID, "cooking-session-1")

	w := do(router, req)

	assert.Equal(t, "cooking-session-1", w.Header().Get(HeaderCorrelationID))
	assert.Equal(t, "cooking-session-1", ginID)
	assert.Equal(t, "cooking-session-1", ctxID)
}

func TestGetIDs_OutsideMiddleware(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
	assert.Empty(t, GetCorrelationID(c))
}

func TestContextLogger_IDsReachLogs(t *testing.T) {
	t.Parallel()

	logger, buf := bufferLogger()

	router := gin.New()
	router.Use(ContextLogger(logger), RequestID(), CorrelationID(), Logging())
	router.GET("/api/v1/recipes", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes?q=%E4%B8%BC", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderCorrelationID, "corr-1")

	do(router, req)

	out := buf.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"correlation_id":"corr-1"`)
	assert.Contains(t, out, `"route":"/api/v1/recipes"`)
	assert.Contains(t, out, `"status":200`)
}

func TestLogging_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			logger, buf := bufferLogger()

			router := gin.New()
			router.Use(ContextLogger(logger), Logging())
			router.GET("/test", func(c *gin.Context) {
				c.Status(tt.status)
			})

			do(router, httptest.NewRequest(http.MethodGet, "/test", nil))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.NotEmpty(t, lines)
			assert.Contains(t, lines[len(lines)-1], `"level":"`+tt.level+`"`)
		})
	}
}

func TestLogging_SkipsProbesAndListedPaths(t *testing.T) {
	t.Parallel()

	logger, buf := bufferLogger()

	router := gin.New()
	router.Use(ContextLogger(logger), Logging("/metrics"))
	router.GET("/-/liveness", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(router, httptest.NewRequest(http.MethodGet, "/-/liveness", nil))
	do(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Empty(t, buf.String())
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	logger, buf := bufferLogger()

	router := gin.New()
	router.Use(ContextLogger(logger), Recovery())
	router.GET("/panic", func(*gin.Context) {
		panic("鍋が焦げた")
	})

	w := do(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, dto.ErrorCodeInternal, decodeError(t, w).Error.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "鍋が焦げた")
}

func TestRecovery_AfterWrite(t *testing.T) {
	t.Parallel()

	router := gin.New()
	router.Use(Recovery())
	router.GET("/panic", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})

	w := do(router, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("writes timeout when handler gives up silently", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(20 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := do(router, httptest.NewRequest(http.MethodGet, "/slow", nil))

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Equal(t, dto.ErrorCodeTimeout, decodeError(t, w).Error.Code)
	})

	t.Run("keeps handler response", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(20 * time.Millisecond))
		router.GET("/slow", func(c *gin.Context) {
			<-c.Request.Context().Done()
			dto.HandleError(c, c.Request.Context().Err())
		})

		w := do(router, httptest.NewRequest(http.MethodGet, "/slow", nil))

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		assert.Equal(t, dto.TimeoutMessage, decodeError(t, w).Error.Message)
	})

	t.Run("sets a deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Minute))
		router.GET("/fast", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := do(router, httptest.NewRequest(http.MethodGet, "/fast", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("skips listed paths", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(time.Minute, "/stream"))
		router.GET("/stream", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		do(router, httptest.NewRequest(http.MethodGet, "/stream", nil))

		assert.False(t, hasDeadline)
	})
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(RateLimitConfig{RPS: 0.001, Burst: 2})

	ok, _ := limiter.Allow("192.0.2.1")
	assert.True(t, ok)
	ok, _ = limiter.Allow("192.0.2.1")
	assert.True(t, ok)

	ok, delay := limiter.Allow("192.0.2.1")
	assert.False(t, ok)
	assert.Positive(t, delay)

	// other clients have their own bucket
	ok, _ = limiter.Allow("192.0.2.2")
	assert.True(t, ok)
}

func TestRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(RateLimitConfig{RPS: 0.5, Burst: 1})

	router := gin.New()
	router.Use(limiter.Middleware())
	router.POST("/api/v1/advisor/cooking-chat", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/advisor/cooking-chat", nil)
		req.RemoteAddr = "198.51.100.7:40000"
		return req
	}

	assert.Equal(t, http.StatusOK, do(router, newReq()).Code)

	w := do(router, newReq())

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, dto.ErrorCodeTooManyRequests, decodeError(t, w).Error.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestCORS(t *testing.T) {
	t.Parallel()

	newRouter := func(origins ...string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(origins))
		router.GET("/api/v1/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allowed origin", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "https://kondate.example")

		w := do(newRouter("https://kondate.example/"), req)

		assert.Equal(t, "https://kondate.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), HeaderRequestID)
	})

	t.Run("unknown origin", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "https://evil.example")

		w := do(newRouter("https://kondate.example"), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "http://localhost:5173")

		w := do(newRouter("*"), req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/shopping-lists/home/items", nil)
		req.Header.Set("Origin", "https://kondate.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

		w := do(newRouter("https://kondate.example"), req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
		req.Header.Set("Origin", "https://kondate.example")

		w := do(newRouter(), req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestContextLogger_KeepsExistingLogger(t *testing.T) {
	t.Parallel()

	outer, outerBuf := bufferLogger()
	inner, innerBuf := bufferLogger()

	router := gin.New()
	router.Use(ContextLogger(outer), ContextLogger(inner), Logging())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(router, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.NotEmpty(t, outerBuf.String())
	assert.Empty(t, innerBuf.String())
}
