package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/adapters/http/dto"
	"github.com/jsamuelsen/kondate/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve runs one request through a fresh engine configured by register.
func serve(register func(rg *gin.RouterGroup), method, path, body string) *httptest.ResponseRecorder {
	engine := gin.New()
	register(engine.Group("/api/v1"))

	return serveEngine(engine, method, path, body)
}

func serveEngine(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func requireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()

	require.Equal(t, status, w.Code, w.Body.String())

	resp := decode[dto.ErrorResponse](t, w)
	require.Equal(t, code, resp.Error.Code)

	return resp
}

func nikujaga() *domain.Recipe {
	return &domain.Recipe{
		ID:          "nikujaga",
		Name:        "肉じゃが",
		Description: "ほっとする定番の家庭料理",
		Category:    "和食",
		Servings:    2,
		CookingTime: "30分",
		Difficulty:  "簡単",
		Ingredients: []string{"豚肉 200g", "じゃがいも 3個", "醤油大さじ2", "塩 少々"},
		Instructions: []string{
			"じゃがいもを一口大に切る",
			"落とし蓋をして中火で15分煮る",
		},
		Tags: []string{"煮物", "定番"},
	}
}

func oyakodon() *domain.Recipe {
	return &domain.Recipe{
		ID:          "oyakodon",
		Name:        "親子丼",
		Category:    "和食",
		Servings:    2,
		Ingredients: []string{"鶏もも肉 200g", "卵 3個", "玉ねぎ 1/2個"},
		Tags:        []string{"丼"},
	}
}
