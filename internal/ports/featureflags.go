package ports

import "context"

// Flags read by the application.
const (
	// FlagAdvisorFallback serves canned advice when the language model fails.
	FlagAdvisorFallback = "advisor.fallback"

	// FlagAdvisorCache caches improvement suggestions.
	FlagAdvisorCache = "advisor.cache"

	// FlagChatHistoryLimit caps how many chat turns are sent to the model.
	FlagChatHistoryLimit = "advisor.chat_history_limit"
)

// FeatureFlags evaluates runtime switches without tying the app to a provider.
// Every getter takes a default returned when the flag is unset or malformed.
//
//	if flags.IsEnabled(ctx, ports.FlagAdvisorFallback, true) {
//	    return fallbackOptimization(req), nil
//	}
type FeatureFlags interface {
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
	GetString(ctx context.Context, flag string, defaultValue string) string
	GetInt(ctx context.Context, flag string, defaultValue int) int
	GetFloat(ctx context.Context, flag string, defaultValue float64) float64
}
