package acl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/kondate/internal/adapters/clients"
	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

const ollamaService = "ollama"

// OllamaConfig configures OllamaModel.
type OllamaConfig struct {
	// Client must have its BaseURL set to the Ollama server.
	Client *clients.Client

	// Model is the Ollama model tag, e.g. "gemma3:4b".
	Model string

	// Defaults for prompts that leave sampling fields zero.
	Temperature float64
	TopP        float64
	MaxTokens   int

	Logger *slog.Logger
}

// OllamaModel implements ports.LanguageModel over Ollama's /api/chat.
type OllamaModel struct {
	BaseAdapter

	model       string
	temperature float64
	topP        float64
	maxTokens   int
	logger      *slog.Logger
}

// NewOllamaModel creates an Ollama adapter.
// Panics if Client is nil or Model is empty.
func NewOllamaModel(cfg OllamaConfig) *OllamaModel {
	if cfg.Client == nil {
		panic("OllamaModel: Client is required")
	}

	if cfg.Model == "" {
		panic("OllamaModel: Model is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OllamaModel{
		BaseAdapter: NewBaseAdapter(cfg.Client, ollamaService),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Model      string        `json:"model"`
	Message    ollamaMessage `json:"message"`
	Done       bool          `json:"done"`
	DoneReason string        `json:"done_reason"`
	EvalCount  int           `json:"eval_count"`
}

type ollamaTag struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

type ollamaTagsResponse struct {
	Models []ollamaTag `json:"models"`
}

// Generate implements ports.LanguageModel.
func (m *OllamaModel) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	req := m.toChatRequest(prompt.WithDefaults(m.temperature, m.topP, m.maxTokens))

	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "sending chat request",
		slog.String("model", m.model),
		slog.Int("messages", len(req.Messages)),
	)

	body, err := m.PostJSON(ctx, "/api/chat", req, "chat")
	if err != nil {
		return "", AsUnavailable(err, ollamaService)
	}

	resp, err := DecodeResponseForService[ollamaChatResponse](body, ollamaService)
	if err != nil {
		return "", err
	}

	if resp.DoneReason == "length" {
		logger.WarnContext(ctx, "model reply truncated by token limit",
			slog.String("model", m.model),
			slog.Int("max_tokens", req.Options.NumPredict),
		)
	}

	logger.Log(ctx, logging.LevelTrace, "chat response received",
		slog.String("model", resp.Model),
		slog.Int("eval_count", resp.EvalCount),
	)

	return resp.Message.Content, nil
}

func (m *OllamaModel) toChatRequest(prompt domain.Prompt) ollamaChatRequest {
	messages := make([]ollamaMessage, 0, len(prompt.Messages)+1)
	if prompt.System != "" {
		messages = append(messages, ollamaMessage{Role: "system", Content: prompt.System})
	}

	for _, msg := range prompt.Messages {
		role := string(domain.RoleUser)
		if msg.Role == domain.RoleAssistant {
			role = string(domain.RoleAssistant)
		}
		messages = append(messages, ollamaMessage{Role: role, Content: msg.Content})
	}

	return ollamaChatRequest{
		Model:    m.model,
		Messages: messages,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: prompt.Temperature,
			TopP:        prompt.TopP,
			NumPredict:  prompt.MaxTokens,
		},
	}
}

// Name implements ports.HealthChecker.
func (m *OllamaModel) Name() string {
	return ollamaService
}

// Check implements ports.HealthChecker. The server must be reachable and
// have the configured model pulled.
func (m *OllamaModel) Check(ctx context.Context) error {
	body, err := m.Get(ctx, "/api/tags", "list models")
	if err != nil {
		return err
	}

	tags, err := DecodeResponseForService[ollamaTagsResponse](body, ollamaService)
	if err != nil {
		return err
	}

	names, err := TranslateSlice[ollamaTag, string](tags.Models, tagName)
	if err != nil {
		return domain.WrapUnavailable(ollamaService, err)
	}

	for _, name := range names {
		if sameModel(name, m.model) {
			return nil
		}
	}

	return domain.NewUnavailableError(ollamaService, fmt.Sprintf("model %q is not pulled", m.model))
}

func tagName(t *ollamaTag) (string, error) {
	name := t.Name
	if name == "" {
		name = t.Model
	}

	if name == "" {
		return "", domain.NewValidationError("name", "model tag without a name")
	}

	return name, nil
}

// sameModel treats an untagged name as ":latest".
func sameModel(a, b string) bool {
	return withTag(a) == withTag(b)
}

func withTag(name string) string {
	if strings.Contains(name, ":") {
		return name
	}

	return name + ":latest"
}
