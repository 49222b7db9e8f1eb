// Package bedrock implements ports.LanguageModel with the Amazon Bedrock
// Converse API.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

const serviceName = "bedrock"

type runtimeClient interface {
	Converse(context.Context, *bedrockruntime.ConverseInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Config configures Model.
type Config struct {
	ModelID string

	// Defaults for prompts that leave sampling fields zero.
	Temperature float64
	TopP        float64
	MaxTokens   int

	// Timeout bounds one Converse call. Zero leaves the caller's deadline.
	Timeout time.Duration

	Logger *slog.Logger
}

// Model is a Bedrock-backed language model.
type Model struct {
	client runtimeClient
	cfg    Config
	logger *slog.Logger

	mu      sync.RWMutex
	lastErr error
}

// New creates a Model. Panics if client is nil or ModelID is empty.
func New(client runtimeClient, cfg Config) *Model {
	if client == nil {
		panic("bedrock.Model: client is required")
	}

	if cfg.ModelID == "" {
		panic("bedrock.Model: ModelID is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Model{client: client, cfg: cfg, logger: logger}
}

// NewClient builds a bedrockruntime client from the default AWS credential chain.
func NewClient(ctx context.Context, region string) (*bedrockruntime.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return bedrockruntime.NewFromConfig(awsCfg), nil
}

// Generate implements ports.LanguageModel.
func (m *Model) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	in := m.converseInput(prompt.WithDefaults(m.cfg.Temperature, m.cfg.TopP, m.cfg.MaxTokens))

	out, err := m.client.Converse(ctx, in)
	if err != nil {
		err = mapError(err)
		m.setLastErr(err)
		logging.FromContext(ctx).ErrorContext(ctx, "bedrock converse failed",
			slog.String("model_id", m.cfg.ModelID),
			slog.Any("error", err),
		)
		return "", err
	}

	m.setLastErr(nil)

	logger := logging.FromContext(ctx)
	if out.Usage != nil {
		logger.DebugContext(ctx, "bedrock converse succeeded",
			slog.String("stop_reason", string(out.StopReason)),
			slog.Int("input_tokens", int(aws.ToInt32(out.Usage.InputTokens))),
			slog.Int("output_tokens", int(aws.ToInt32(out.Usage.OutputTokens))),
		)
	}

	switch out.StopReason {
	case types.StopReasonGuardrailIntervened, types.StopReasonContentFiltered:
		return "", domain.NewUnavailableError(serviceName, "response blocked by content filter")
	case types.StopReasonMaxTokens:
		logger.WarnContext(ctx, "model reply truncated by token limit", slog.Int("max_tokens", int(aws.ToInt32(in.InferenceConfig.MaxTokens))))
	}

	return textFromOutput(out), nil
}

func (m *Model) converseInput(prompt domain.Prompt) *bedrockruntime.ConverseInput {
	var system []types.SystemContentBlock
	if prompt.System != "" {
		system = append(system, &types.SystemContentBlockMemberText{Value: prompt.System})
	}

	messages := make([]types.Message, 0, len(prompt.Messages))
	for _, msg := range prompt.Messages {
		role := types.ConversationRoleUser
		if msg.Role == domain.RoleAssistant {
			role = types.ConversationRoleAssistant
		}

		// Converse rejects consecutive turns from the same role.
		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, &types.ContentBlockMemberText{Value: msg.Content})
			continue
		}

		messages = append(messages, types.Message{
			Role:    role,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: msg.Content}},
		})
	}

	return &bedrockruntime.ConverseInput{
		ModelId:  aws.String(m.cfg.ModelID),
		System:   system,
		Messages: messages,
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(min(prompt.MaxTokens, 1<<20))), //nolint:gosec // bounded above
			Temperature: aws.Float32(float32(prompt.Temperature)),
			TopP:        aws.Float32(float32(prompt.TopP)),
		},
	}
}

// textFromOutput joins the assistant's text blocks.
func textFromOutput(out *bedrockruntime.ConverseOutput) string {
	if out == nil {
		return ""
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || msg == nil {
		return ""
	}

	texts := make([]string, 0, len(msg.Value.Content))
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok && text.Value != "" {
			texts = append(texts, text.Value)
		}
	}

	return strings.Join(texts, "\n")
}

func mapError(err error) error {
	var (
		throttled   *types.ThrottlingException
		denied      *types.AccessDeniedException
		notReady    *types.ModelNotReadyException
		unavailable *types.ServiceUnavailableException
	)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NewUnavailableError(serviceName, "request timed out")
	case errors.As(err, &throttled):
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")
	case errors.As(err, &denied):
		return domain.NewUnavailableError(serviceName, "access denied to model")
	case errors.As(err, &notReady), errors.As(err, &unavailable):
		return domain.NewUnavailableError(serviceName, "model not ready")
	default:
		return domain.WrapUnavailable(serviceName, err)
	}
}

func (m *Model) setLastErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastErr = err
}

// Name implements ports.HealthChecker.
func (m *Model) Name() string {
	return serviceName
}

// Check implements ports.HealthChecker. Bedrock has no free ping, so the
// outcome of the most recent call stands in for one.
func (m *Model) Check(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastErr
}
