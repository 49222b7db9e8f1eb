package dto

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/kondate/internal/app"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := map[string]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeBadRequest:      http.StatusBadRequest,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeTimeout:         http.StatusGatewayTimeout,
		ErrorCodeTooManyRequests: http.StatusTooManyRequests,
		ErrorCodeInternal:        http.StatusInternalServerError,
		"SOMETHING_ELSE":         http.StatusInternalServerError,
	}

	for code, want := range tests {
		assert.Equal(t, want, HTTPStatusFromCode(code), code)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "recipe not found",
			err:         domain.NewNotFoundError("recipe", "nikujaga"),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "レシピ「nikujaga」が見つかりません",
		},
		{
			name:        "validation with field",
			err:         domain.NewValidationError("recipe.name", "レシピ名が必要です"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "レシピ名が必要です",
			wantDetails: map[string]string{"recipe.name": "レシピ名が必要です"},
		},
		{
			name:        "validation without field",
			err:         domain.NewValidationError("", "調整する材料がありません"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "調整する材料がありません",
		},
		{
			name:        "wrapped unavailable",
			err:         errors.Join(errors.New("chat"), domain.NewUnavailableError("ollama", "connection refused")),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "ollama",
		},
		{
			name:        "unavailable model with a validation cause",
			err:         domain.WrapUnavailable(domain.ServiceLanguageModel, domain.NewValidationError("", "invalid options")),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "invalid options",
		},
		{
			name:        "unavailable model that timed out",
			err:         domain.WrapUnavailable(domain.ServiceLanguageModel, context.DeadlineExceeded),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: domain.ServiceLanguageModel,
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("generating cooking_chat: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: TimeoutMessage,
		},
		{
			name:        "unknown error hides details",
			err:         errors.New("disk full at /var/lib"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Contains(t, resp.Error.Message, tt.wantMessage)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

func TestMapDomainError_Nil(t *testing.T) {
	status, resp := MapDomainError(nil)

	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
}

func TestTraceID(t *testing.T) {
	t.Run("gin context value", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Set(TraceIDKey, "trace-123")
		c.Request.Header.Set("X-Request-ID", "req-456")

		assert.Equal(t, "trace-123", TraceID(c))
	})

	t.Run("request id header", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request.Header.Set("X-Request-ID", "req-456")

		assert.Equal(t, "req-456", TraceID(c))
	})

	t.Run("none", func(t *testing.T) {
		c, _ := newTestContext(http.MethodGet, "/", "")

		assert.Empty(t, TraceID(c))
	})
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.NewNotFoundError("shopping entry", "x"), http.StatusNotFound, ErrorCodeNotFound},
		{"domain validation", domain.NewValidationError("servings", "人数は1〜100で指定してください"), http.StatusBadRequest, ErrorCodeValidation},
		{"unavailable", domain.NewUnavailableError("bedrock", "throttled"), http.StatusServiceUnavailable, ErrorCodeUnavailable},
		{"binding", ErrBinding, http.StatusBadRequest, ErrorCodeValidation},
		{"cursor", ErrInvalidCursor, http.StatusBadRequest, ErrorCodeBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/", "")
			c.Set(TraceIDKey, "trace-"+tt.name)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "trace-"+tt.name, resp.TraceID)
		})
	}
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", "")

	AbortWithErrorCode(c, ErrorCodeTooManyRequests, "しばらくしてから再度お試しください")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ErrorCodeTooManyRequests, decodeError(t, w).Error.Code)
}

func TestAbortWithError(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", "")

	AbortWithError(c, domain.NewUnavailableError("language-model", "down"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		wantDetails []string
	}{
		{
			name: "valid",
			body: `{"lines":["豚肉 200g"],"baseServings":2,"targetServings":4}`,
		},
		{
			name:    "malformed json",
			body:    `{"lines":`,
			wantErr: true,
		},
		{
			name:        "missing fields",
			body:        `{"lines":[]}`,
			wantErr:     true,
			wantDetails: []string{"lines", "baseServings", "targetServings"},
		},
		{
			name:        "servings out of range",
			body:        `{"lines":["卵 1個"],"baseServings":2,"targetServings":101}`,
			wantErr:     true,
			wantDetails: []string{"targetServings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/", tt.body)

			var req ScaleRequest
			err := BindAndValidate(c, &req)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, 4, req.TargetServings)

				return
			}

			require.Error(t, err)
			HandleError(c, err)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			resp := decodeError(t, w)
			for _, field := range tt.wantDetails {
				assert.Contains(t, resp.Error.Details, field)
			}
		})
	}
}

func TestBindAndValidate_CallsValidatable(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/", `{"a":"","b":""}`)

	var req MergeRequest
	err := BindAndValidate(c, &req)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestBindQueryAndValidate(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/recipes?q=%E5%92%8C%E9%A3%9F&limit=5", "")

	var req RecipeListRequest
	require.NoError(t, BindQueryAndValidate(c, &req))

	assert.Equal(t, "和食", req.Query)
	assert.Equal(t, 5, req.GetLimit())

	c, _ = newTestContext(http.MethodGet, "/recipes?limit=500", "")
	err := BindQueryAndValidate(c, &RecipeListRequest{})
	require.Error(t, err)
	assert.Contains(t, ValidationErrors(err), "limit")
}

func TestValidationMessages(t *testing.T) {
	type sample struct {
		Name  string   `json:"name"  validate:"required,notempty,max=3"`
		Lines []string `json:"lines" validate:"min=1"`
		Role  string   `json:"role"  validate:"oneof=user assistant"`
		ID    string   `json:"id"    validate:"omitempty,uuid"`
	}

	err := Validate(sample{Name: "  ", Role: "system", ID: "not-a-uuid"})
	require.Error(t, err)

	details := ValidationErrors(err)
	assert.Equal(t, "空にできません", details["name"])
	assert.Equal(t, "1件以上で指定してください", details["lines"])
	assert.Equal(t, "次のいずれかを指定してください: user assistant", details["role"])
	assert.Equal(t, "UUID形式で指定してください", details["id"])

	err = Validate(sample{Name: "ながいなまえ", Lines: []string{"x"}, Role: "user"})
	require.Error(t, err)
	assert.Equal(t, "3文字以下で指定してください", ValidationErrors(err)["name"])
}

func TestServingsRule(t *testing.T) {
	type sample struct {
		Servings int `json:"servings" validate:"servings"`
		Base     int `json:"base"     validate:"required,servings"`
	}

	require.NoError(t, Validate(sample{Servings: 0, Base: 2}))
	require.NoError(t, Validate(sample{Servings: 100, Base: 1}))

	err := Validate(sample{Servings: 101, Base: 2})
	require.Error(t, err)
	assert.Equal(t, "人数は1〜100人で指定してください", ValidationErrors(err)["servings"])

	err = Validate(sample{Servings: -1})
	require.Error(t, err)

	details := ValidationErrors(err)
	assert.Equal(t, "人数は1〜100人で指定してください", details["servings"])
	assert.Equal(t, "必須項目です", details["base"])
}

func TestCursorRoundTrip(t *testing.T) {
	encoded := EncodeCursor(&CursorData{ID: "curry"})
	require.NotEmpty(t, encoded)

	got, err := DecodeCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, "curry", got.ID)

	assert.Empty(t, EncodeCursor(nil))
	assert.Empty(t, EncodeCursor(&CursorData{}))
}

func TestDecodeCursor_Errors(t *testing.T) {
	_, err := DecodeCursor("")
	require.ErrorIs(t, err, ErrNoCursor)

	_, err = DecodeCursor("not base64!")
	require.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte("not json")))
	require.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor(base64.RawURLEncoding.EncodeToString([]byte(`{"id":""}`)))
	require.ErrorIs(t, err, ErrInvalidCursor)
}

func TestPaginate(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	idOf := func(s string) string { return s }

	first, err := Paginate(ids, PaginationRequest{Limit: 2}, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, first.Items)
	assert.True(t, first.HasMore)

	second, err := Paginate(ids, PaginationRequest{Limit: 2, Cursor: first.NextCursor}, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, second.Items)

	last, err := Paginate(ids, PaginationRequest{Limit: 2, Cursor: second.NextCursor}, idOf)
	require.NoError(t, err)
	assert.Equal(t, []string{"e"}, last.Items)
	assert.False(t, last.HasMore)
	assert.Empty(t, last.NextCursor)

	_, err = Paginate(ids, PaginationRequest{Cursor: EncodeCursor(&CursorData{ID: "zzz"})}, idOf)
	require.ErrorIs(t, err, ErrInvalidCursor)

	empty, err := Paginate([]string{}, PaginationRequest{}, idOf)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)
}

func TestGetLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, (&PaginationRequest{}).GetLimit())
	assert.Equal(t, 7, (&PaginationRequest{Limit: 7}).GetLimit())
	assert.Equal(t, MaxLimit, (&PaginationRequest{Limit: 1000}).GetLimit())
}

func TestNewRecipeDetailResponse(t *testing.T) {
	r := &domain.Recipe{
		ID:           "miso-soup",
		Name:         "豆腐とわかめの味噌汁",
		Servings:     2,
		Ingredients:  []string{"豆腐 1/2丁"},
		Instructions: []string{"だし汁を温める", "わかめを加えて1分煮る"},
	}

	resp := NewRecipeDetailResponse(r)

	assert.Equal(t, "miso-soup", resp.ID)
	assert.NotNil(t, resp.Tags)
	require.Len(t, resp.Steps, 2)
	assert.Zero(t, resp.Steps[0].TimerSeconds)
	assert.Equal(t, 60, resp.Steps[1].TimerSeconds)
}

func TestNewScaledRecipeResponse(t *testing.T) {
	resp := NewScaledRecipeResponse(&app.ScaledRecipe{
		Recipe:   domain.Recipe{ID: "nikujaga", Servings: 2},
		Servings: 4,
		Ratio:    2,
		Ingredients: []app.ScaledIngredient{
			{Line: "豚肉 400g", Name: "豚肉", Amount: "400g", Category: ingredient.Meat, Scalable: true},
		},
		Steps: []app.Step{{Text: "15分煮る", Timer: 15 * time.Minute}},
	})

	assert.Equal(t, 2, resp.BaseServings)
	assert.Equal(t, "肉類", resp.Ingredients[0].Label)
	assert.Equal(t, 900, resp.Steps[0].TimerSeconds)
}

func TestNewShoppingListResponse(t *testing.T) {
	l := shopping.NewList("home")
	l.AddIngredient("醤油", "大さじ2", "肉じゃが")
	pork := l.AddIngredient("豚肉", "200g", "肉じゃが")
	l.AddIngredient("食パン", "1斤", "")

	_, err := l.Toggle(pork.ID)
	require.NoError(t, err)

	resp := NewShoppingListResponse(l)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 1, resp.Checked)
	require.Len(t, resp.Groups, 3)
	assert.Equal(t, ingredient.Meat, resp.Groups[0].Category)
	assert.Equal(t, ingredient.Seasoning, resp.Groups[1].Category)
	assert.Equal(t, "その他", resp.Groups[2].Label)
	assert.Equal(t, []string{"肉じゃが"}, resp.Groups[0].Entries[0].SourceRecipes)
}

func TestCookingChatRequest_ToApp(t *testing.T) {
	req := CookingChatRequest{
		Message:       "もっと甘くしたい",
		CurrentRecipe: &RecipeDraftRequest{Name: "肉じゃが"},
		ChatHistory:   []ChatMessageRequest{{Role: "assistant", Content: "こんにちは"}},
	}

	got := req.ToApp()

	require.NotNil(t, got.Recipe)
	assert.Equal(t, "肉じゃが", got.Recipe.Name)
	assert.Equal(t, []domain.Message{{Role: domain.RoleAssistant, Content: "こんにちは"}}, got.History)
	assert.Nil(t, CookingChatRequest{Message: "塩加減は?"}.ToApp().Recipe)
}

func TestAddMenuRequest_MenuDays(t *testing.T) {
	req := AddMenuRequest{Days: []MenuDayRequest{{Day: "月", RecipeID: "curry", Servings: 4}}}

	assert.Equal(t, []app.MenuDay{{Day: "月", RecipeID: "curry", Servings: 4}}, req.MenuDays())
}
