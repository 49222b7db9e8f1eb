package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/platform/telemetry"
	"github.com/jsamuelsen/kondate/internal/ports"
)

// ChatReplyLimit is the longest chat answer returned, in characters.
const ChatReplyLimit = 300

// FallbackNote accompanies canned optimizations served while the model is down.
const FallbackNote = "AIモデルが利用できないため、モックレスポンスを返しています。"

const (
	rawReplySummary        = "調整案を生成しました。"
	defaultChatHistory     = 10
	defaultImprovementsTTL = 30 * time.Minute
)

var fallbackTips = []string{
	"食材の量を増やした場合は、調味料も比例して調整してください。",
	"火の通り具合に注意して、必要に応じて調理時間を延長してください。",
	"味見をしながら塩・胡椒で最終調整することをお勧めします。",
}

var errModelNotConfigured = domain.NewUnavailableError(domain.ServiceLanguageModel, "no provider configured")

var (
	advisorRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kondate",
		Subsystem: "advisor",
		Name:      "requests_total",
		Help:      "Advisor requests by operation and outcome (ok, fallback, cached, error).",
	}, []string{"operation", "outcome"})

	advisorModelDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kondate",
		Subsystem: "advisor",
		Name:      "model_duration_seconds",
		Help:      "Latency of language model calls.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"operation"})
)

// AdvisorService turns recipe questions into language model prompts and the
// replies back into domain values.
type AdvisorService struct {
	model    ports.LanguageModel
	cache    ports.Cache
	flags    ports.FeatureFlags
	cacheTTL time.Duration
	exec     *Executor
	logger   *slog.Logger
}

// AdvisorServiceConfig contains the dependencies of AdvisorService.
// Model may be nil, in which case every call behaves as a model outage.
// Cache and Flags are optional.
type AdvisorServiceConfig struct {
	Model    ports.LanguageModel
	Cache    ports.Cache
	Flags    ports.FeatureFlags
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// NewAdvisorService creates an AdvisorService.
func NewAdvisorService(cfg AdvisorServiceConfig) *AdvisorService {
	logger := defaultLogger(cfg.Logger, "app.AdvisorService")

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultImprovementsTTL
	}

	return &AdvisorService{
		model:    cfg.Model,
		cache:    cfg.Cache,
		flags:    cfg.Flags,
		cacheTTL: ttl,
		exec:     NewExecutor(logger),
		logger:   logger,
	}
}

// OptimizeRequest asks for a recipe rebalanced around changed quantities.
type OptimizeRequest struct {
	Recipe  domain.RecipeDraft
	Changes []domain.QuantityChange
}

// OptimizeIngredients proposes adjusted amounts for every ingredient. When
// the model is unreachable and the fallback flag is on, a canned proposal
// echoing the requested changes is returned with Fallback set.
func (s *AdvisorService) OptimizeIngredients(ctx context.Context, req OptimizeRequest) (*domain.Optimization, error) {
	const operation = "optimize_ingredients"

	op := Operation[OptimizeRequest, string, domain.Optimization, *domain.Optimization]{
		Name:     operation,
		Validate: validateOptimize,
		Perform: func(ctx context.Context, in OptimizeRequest) (string, error) {
			return s.generate(ctx, operation, domain.Prompt{
				System:   optimizeSystemPrompt,
				Messages: []domain.Message{{Role: domain.RoleUser, Content: optimizeUserPrompt(in.Recipe, in.Changes)}},
			})
		},
		Verify: func(_ context.Context, _ OptimizeRequest, raw string) (domain.Optimization, error) {
			return decodeOptimization(raw), nil
		},
		Respond: func(_ context.Context, _ OptimizeRequest, v domain.Optimization) (*domain.Optimization, error) {
			return &v, nil
		},
	}

	result, err := Execute(ctx, s.exec, op, req)
	if err == nil {
		advisorRequests.WithLabelValues(operation, "ok").Inc()
		return result, nil
	}

	if step, _ := FailedStep(err); step == StepPerform && s.enabled(ctx, ports.FlagAdvisorFallback, true) {
		loggerFor(ctx, s.logger).WarnContext(ctx, "serving fallback optimization",
			slog.String("recipe", req.Recipe.Name),
			slog.Any("error", err),
		)
		advisorRequests.WithLabelValues(operation, "fallback").Inc()

		return fallbackOptimization(req), nil
	}

	advisorRequests.WithLabelValues(operation, "error").Inc()

	return nil, err
}

// ChatRequest is one user question, optionally about a recipe.
type ChatRequest struct {
	Message string
	Recipe  *domain.RecipeDraft
	History []domain.Message
}

// CookingChat answers a cooking question in at most ChatReplyLimit
// characters. Only the most recent history turns are sent to the model.
func (s *AdvisorService) CookingChat(ctx context.Context, req ChatRequest) (string, error) {
	const operation = "cooking_chat"

	op := Operation[ChatRequest, string, string, string]{
		Name: operation,
		Validate: func(_ context.Context, in ChatRequest) error {
			if strings.TrimSpace(in.Message) == "" {
				return domain.NewValidationError("message", "メッセージを入力してください")
			}
			return nil
		},
		Perform: func(ctx context.Context, in ChatRequest) (string, error) {
			limit := s.intFlag(ctx, ports.FlagChatHistoryLimit, defaultChatHistory)
			return s.generate(ctx, operation, domain.Prompt{
				System:   chatSystemPrompt(in.Recipe),
				Messages: append(recentHistory(in.History, limit), domain.Message{Role: domain.RoleUser, Content: in.Message}),
			})
		},
		Verify: func(_ context.Context, _ ChatRequest, reply string) (string, error) {
			reply = strings.TrimSpace(reply)
			if reply == "" {
				return "", domain.NewUnavailableError(domain.ServiceLanguageModel, "empty reply")
			}
			return truncateRunes(reply, ChatReplyLimit), nil
		},
		Respond: func(_ context.Context, _ ChatRequest, reply string) (string, error) {
			return reply, nil
		},
	}

	reply, err := Execute(ctx, s.exec, op, req)
	if err != nil {
		advisorRequests.WithLabelValues(operation, "error").Inc()
		return "", err
	}

	advisorRequests.WithLabelValues(operation, "ok").Inc()

	return reply, nil
}

// ImprovementsRequest asks for a review of a recipe.
type ImprovementsRequest struct {
	Recipe      domain.RecipeDraft
	Preferences map[string]string
}

// SuggestImprovements reviews a recipe. Results are cached per recipe and
// preferences when a cache is configured and the cache flag is on.
func (s *AdvisorService) SuggestImprovements(ctx context.Context, req ImprovementsRequest) (*domain.Improvements, error) {
	const operation = "suggest_improvements"

	useCache := s.cache != nil && s.enabled(ctx, ports.FlagAdvisorCache, true)
	key := improvementsKey(req)

	if useCache && validateDraft(req.Recipe) == nil {
		if cached, ok := s.cachedImprovements(ctx, key); ok {
			advisorRequests.WithLabelValues(operation, "cached").Inc()
			return cached, nil
		}
	}

	op := Operation[ImprovementsRequest, string, domain.Improvements, *domain.Improvements]{
		Name: operation,
		Validate: func(_ context.Context, in ImprovementsRequest) error {
			return validateDraft(in.Recipe)
		},
		Perform: func(ctx context.Context, in ImprovementsRequest) (string, error) {
			return s.generate(ctx, operation, domain.Prompt{
				System:   improvementsSystemPrompt,
				Messages: []domain.Message{{Role: domain.RoleUser, Content: improvementsUserPrompt(in.Recipe, in.Preferences)}},
			})
		},
		Verify: func(_ context.Context, _ ImprovementsRequest, raw string) (domain.Improvements, error) {
			return decodeImprovements(raw), nil
		},
		Respond: func(_ context.Context, _ ImprovementsRequest, v domain.Improvements) (*domain.Improvements, error) {
			return &v, nil
		},
		BestEffortArchive: true,
	}

	if useCache {
		op.Archive = func(ctx context.Context, _ ImprovementsRequest, v domain.Improvements) error {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encoding improvements: %w", err)
			}
			return s.cache.Set(ctx, key, data, s.cacheTTL)
		}
	}

	result, err := Execute(ctx, s.exec, op, req)
	if err != nil {
		advisorRequests.WithLabelValues(operation, "error").Inc()
		return nil, err
	}

	advisorRequests.WithLabelValues(operation, "ok").Inc()

	return result, nil
}

func (s *AdvisorService) cachedImprovements(ctx context.Context, key string) (*domain.Improvements, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !domain.IsNotFound(err) {
			loggerFor(ctx, s.logger).WarnContext(ctx, "improvements cache lookup failed", slog.Any("error", err))
		}
		return nil, false
	}

	var v domain.Improvements
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}

	return &v, true
}

func (s *AdvisorService) generate(ctx context.Context, operation string, prompt domain.Prompt) (string, error) {
	if s.model == nil {
		return "", errModelNotConfigured
	}

	ctx, span := telemetry.StartSpan(ctx, "advisor."+operation,
		attribute.Int("prompt.messages", len(prompt.Messages)),
	)
	defer span.End()

	start := time.Now()
	reply, err := s.model.Generate(ctx, prompt)
	advisorModelDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")

		return "", fmt.Errorf("generating %s: %w", operation, err)
	}

	span.SetAttributes(attribute.Int("reply.runes", utf8.RuneCountInString(reply)))

	return reply, nil
}

func (s *AdvisorService) enabled(ctx context.Context, flag string, def bool) bool {
	if s.flags == nil {
		return def
	}

	return s.flags.IsEnabled(ctx, flag, def)
}

func (s *AdvisorService) intFlag(ctx context.Context, flag string, def int) int {
	if s.flags == nil {
		return def
	}

	return s.flags.GetInt(ctx, flag, def)
}

func validateDraft(r domain.RecipeDraft) error {
	if len(r.Ingredients) == 0 {
		return domain.NewValidationError("recipe.ingredients", "レシピデータが不正です。ingredientsプロパティが必要です。")
	}

	return nil
}

func validateOptimize(_ context.Context, in OptimizeRequest) error {
	if err := validateDraft(in.Recipe); err != nil {
		return err
	}

	if len(in.Changes) == 0 {
		return domain.NewValidationError("ingredientsToOptimize", "調整する食材が選択されていません。")
	}

	for _, c := range in.Changes {
		if strings.TrimSpace(c.Ingredient) == "" {
			return domain.NewValidationError("ingredientsToOptimize", "調整データが不正です。食材名が必要です。")
		}
	}

	return nil
}

func fallbackOptimization(req OptimizeRequest) *domain.Optimization {
	adjusted := make([]domain.AdjustedIngredient, len(req.Changes))
	for i, c := range req.Changes {
		adjusted[i] = domain.AdjustedIngredient{
			Ingredient:     c.Ingredient,
			OriginalAmount: c.CurrentAmount,
			AdjustedAmount: c.DesiredAmount,
			Reason:         fmt.Sprintf("%sの量を%sから%sに調整しました。", c.Ingredient, c.CurrentAmount, c.DesiredAmount),
		}
	}

	return &domain.Optimization{
		AdjustedIngredients: adjusted,
		CookingTips:         append([]string(nil), fallbackTips...),
		Summary:             req.Recipe.Name + "の材料を調整しました。バランスを保つために他の調味料も適切に調整することをお勧めします。",
		Fallback:            true,
		Note:                FallbackNote,
	}
}

// decodeOptimization never fails: a reply that is not the requested JSON is
// surfaced as a single cooking tip.
func decodeOptimization(raw string) domain.Optimization {
	var v domain.Optimization
	if err := decodeJSONObject(raw, &v); err != nil {
		return domain.Optimization{
			AdjustedIngredients: []domain.AdjustedIngredient{},
			CookingTips:         []string{raw},
			Summary:             rawReplySummary,
		}
	}

	if v.AdjustedIngredients == nil {
		v.AdjustedIngredients = []domain.AdjustedIngredient{}
	}

	if v.CookingTips == nil {
		v.CookingTips = []string{}
	}

	return v
}

func decodeImprovements(raw string) domain.Improvements {
	var v domain.Improvements
	if err := decodeJSONObject(raw, &v); err != nil {
		v = domain.Improvements{CookingTips: []string{raw}}
	}

	if v.NutritionImprovements == nil {
		v.NutritionImprovements = []string{}
	}
	if v.CookingTips == nil {
		v.CookingTips = []string{}
	}
	if v.IngredientAlternatives == nil {
		v.IngredientAlternatives = []domain.IngredientAlternative{}
	}
	if v.TimeOptimization == nil {
		v.TimeOptimization = []string{}
	}
	if v.FlavorEnhancements == nil {
		v.FlavorEnhancements = []string{}
	}

	return v
}

var errNoJSONObject = errors.New("reply contains no JSON object")

// decodeJSONObject decodes the outermost {...} of a model reply, which lets
// replies wrapped in Markdown code fences or prose still decode.
func decodeJSONObject(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return errNoJSONObject
	}

	return json.Unmarshal([]byte(raw[start:end+1]), v)
}

func recentHistory(history []domain.Message, limit int) []domain.Message {
	if limit < 0 {
		limit = 0
	}

	if len(history) > limit {
		history = history[len(history)-limit:]
	}

	out := make([]domain.Message, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}

		role := m.Role
		if role != domain.RoleAssistant {
			role = domain.RoleUser
		}

		out = append(out, domain.Message{Role: role, Content: m.Content})
	}

	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-1]) + "…"
}

func improvementsKey(req ImprovementsRequest) string {
	h := sha256.New()
	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}

	write(req.Recipe.Name, req.Recipe.CookingTime, req.Recipe.Difficulty)
	write(req.Recipe.Ingredients...)
	write(req.Recipe.Instructions...)

	prefs, _ := json.Marshal(req.Preferences) // map keys are marshaled sorted
	h.Write(prefs)

	return "improvements:" + hex.EncodeToString(h.Sum(nil))
}
