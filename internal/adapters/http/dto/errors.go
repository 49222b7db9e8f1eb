// Package dto provides the request and response shapes of the HTTP API and
// the helpers that turn domain errors into the shared error envelope.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound        = "NOT_FOUND"
	ErrorCodeValidation      = "VALIDATION_ERROR"
	ErrorCodeUnavailable     = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal        = "INTERNAL_ERROR"
	ErrorCodeTimeout         = "TIMEOUT"
	ErrorCodeBadRequest      = "BAD_REQUEST"
	ErrorCodeTooManyRequests = "TOO_MANY_REQUESTS"
)

// internalErrorMessage hides unexpected failures from clients.
const internalErrorMessage = "サーバーエラーが発生しました"

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors become 500 with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, err.Error())

	case domain.IsNotFound(err):
		message := err.Error()

		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			message = notFound.UserMessage()
		}

		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, message)

	case domain.IsValidation(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			resp.Error.Message = validationErr.Message
			if validationErr.Field != "" {
				resp.Error.Details = map[string]string{
					validationErr.Field: validationErr.Message,
				}
			}
		}

		return http.StatusBadRequest, resp

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, TimeoutMessage)

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, internalErrorMessage)
	}
}

// TimeoutMessage is returned when a request runs past its deadline.
const TimeoutMessage = "リクエストがタイムアウトしました"

// TraceIDKey is the gin context key a trace id may be stored under when no
// span is active.
const TraceIDKey = "trace_id"

// TraceID returns the id that lets a client quote a failed request: the
// active span's trace id, else a trace id set on the gin context, else the
// request id header.
func TraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.GetString(TraceIDKey); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes err as an error envelope. Binding and validator
// failures become 400; everything else goes through MapDomainError.
func HandleError(c *gin.Context, err error) {
	if errors.Is(err, ErrBinding) || IsValidationError(err) {
		RespondWithValidationErrors(c, err)
		return
	}

	if errors.Is(err, ErrInvalidCursor) {
		RespondWithErrorCode(c, ErrorCodeBadRequest, "カーソルが不正です")
		return
	}

	status, resp := MapDomainError(err)
	resp.TraceID = TraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// RespondWithErrorCode writes an error response with a specific error code,
// for failures that do not originate in the domain.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(TraceID(c))
	c.JSON(HTTPStatusFromCode(code), resp)
}

// RespondWithValidationErrors writes a 400 with the field messages of a
// binding or validator error.
func RespondWithValidationErrors(c *gin.Context, err error) {
	details := ValidationErrors(err)
	message := "リクエストの形式が正しくありません"

	if len(details) > 0 {
		message = "入力内容に誤りがあります"
	}

	resp := NewErrorResponseWithDetails(ErrorCodeValidation, message, details).WithTraceID(TraceID(c))
	c.JSON(http.StatusBadRequest, resp)
}

// AbortWithError aborts the handler chain with the envelope for err.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = TraceID(c)
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithErrorCode aborts the handler chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(TraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}
