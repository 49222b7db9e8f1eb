package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"

	"github.com/jsamuelsen/kondate/internal/domain"
)

// credentialFields never reach the logs, whatever their value looks like.
var credentialFields = []string{
	"password", "secret", "token", "auth", "authorization", "cookie",
	"api_key", "apiKey", "apikey",
	"access_token", "accessToken", "session_token", "sessionToken",
	"access_key_id", "secret_access_key", "privateKey", "secretKey",
}

// chatFields hold what users type into the cooking chat. It can mention
// allergies or health, so it is kept out of the logs.
var chatFields = []string{"prompt", "chat_history", "reply", "content"}

var credentialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`),
	// AWS access key ids leak through bedrock and s3 error messages.
	regexp.MustCompile(`^(AKIA|ASIA)[A-Z0-9]{16}$`),
}

// DefaultRedactOptions is the masq policy of every json and text logger.
func DefaultRedactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithType[domain.Message](),
	}

	for _, f := range credentialFields {
		opts = append(opts, masq.WithFieldName(f))
	}

	for _, f := range chatFields {
		opts = append(opts, masq.WithFieldName(f))
	}

	for _, re := range credentialPatterns {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr applying DefaultRedactOptions
// and opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
