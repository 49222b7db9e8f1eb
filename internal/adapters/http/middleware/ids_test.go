package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "request-123")
	ctx = ContextWithCorrelationID(ctx, "cooking-session-9")

	assert.Equal(t, "request-123", RequestIDFromContext(ctx))
	assert.Equal(t, "cooking-session-9", CorrelationIDFromContext(ctx))

	//nolint:staticcheck // nil context is accepted
	assert.Empty(t, RequestIDFromContext(nil))
}

// TestContextIDs_KeysDoNotCollide guards against a plain string key, which
// another package could set by accident.
func TestContextIDs_KeysDoNotCollide(t *testing.T) {
	ctx := context.WithValue(context.Background(), "request_id", "spoofed") //nolint:staticcheck // deliberate collision

	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestAcceptableID(t *testing.T) {
	tests := map[string]bool{
		"":                       false,
		"req-1":                  true,
		"bad id":                 false,
		"タブ":                     false,
		"0123456789abcdef":       true,
		string(make([]byte, 10)): false,
	}

	for id, want := range tests {
		assert.Equal(t, want, acceptableID(id), "%q", id)
	}
}
