// Package middleware provides the Gin middleware of the kondate API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

// Headers the API reads and echoes. The PWA sends one correlation ID per
// cooking session so a chat conversation can be followed across requests.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// Inbound ids longer than this, or with non-printable bytes, are replaced.
const maxInboundIDLength = 128

// tracedID is an id that follows a request from the PWA through the logs
// and out to the language model host.
type tracedID struct {
	header string
	ctxKey struct{ name string }
	logAs  func(context.Context, string) context.Context
}

var (
	requestID = &tracedID{
		header: HeaderRequestID,
		ctxKey: struct{ name string }{"request_id"},
		logAs:  logging.WithRequestID,
	}
	correlationID = &tracedID{
		header: HeaderCorrelationID,
		ctxKey: struct{ name string }{"correlation_id"},
		logAs:  logging.WithCorrelationID,
	}
)

// RequestID takes X-Request-ID from the client, or generates one, and echoes
// it in the response.
func RequestID() gin.HandlerFunc { return requestID.middleware() }

// CorrelationID propagates X-Correlation-ID, or starts a new correlation.
func CorrelationID() gin.HandlerFunc { return correlationID.middleware() }

func GetRequestID(c *gin.Context) string     { return c.GetString(requestID.header) }
func GetCorrelationID(c *gin.Context) string { return c.GetString(correlationID.header) }

// RequestIDFromContext is read by the outbound clients, which forward it.
func RequestIDFromContext(ctx context.Context) string     { return requestID.from(ctx) }
func CorrelationIDFromContext(ctx context.Context) string { return correlationID.from(ctx) }

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return requestID.with(ctx, id)
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return correlationID.with(ctx, id)
}

func (t *tracedID) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(t.header, id)
		c.Header(t.header, id)

		ctx := t.logAs(c.Request.Context(), id)
		c.Request = c.Request.WithContext(t.with(ctx, id))

		c.Next()
	}
}

func (t *tracedID) with(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, t.ctxKey, id)
}

func (t *tracedID) from(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(t.ctxKey).(string)

	return id
}

func acceptableID(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}
