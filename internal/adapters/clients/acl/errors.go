package acl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/kondate/internal/adapters/clients"
	"github.com/jsamuelsen/kondate/internal/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4 << 10

// ErrorResponse is a provider error body. Ollama sends {"error":"..."};
// OpenAI-style servers send {"error":{"message":"...","code":"..."}}.
type ErrorResponse struct {
	Code    string
	Message string
}

type nestedError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UnmarshalJSON accepts both the flat and the nested error shapes.
func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	e.Code = envelope.Code
	e.Message = envelope.Message

	raw := bytes.TrimSpace(envelope.Error)
	switch {
	case len(raw) == 0:
	case raw[0] == '"':
		return json.Unmarshal(raw, &e.Message)
	case raw[0] == '{':
		var nested nestedError
		if err := json.Unmarshal(raw, &nested); err != nil {
			return err
		}
		if nested.Code != "" {
			e.Code = nested.Code
		}
		if nested.Message != "" {
			e.Message = nested.Message
		}
	}

	return nil
}

// ParseErrorResponse reads a provider error body. It returns nil when the
// body is empty or carries no message.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.Message == "" && errResp.Code == "" {
		return nil
	}

	return &errResp
}

// MapHTTPError translates a failed call into a domain error. Pass the
// client error when no response was received.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, "no response received")
	}

	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	message := fmt.Sprintf("%s failed with status %d", operation, resp.StatusCode)
	if errResp := ParseErrorResponse(resp.Body); errResp != nil && errResp.Message != "" {
		message = errResp.Message
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &domain.NotFoundError{Entity: serviceName + " resource", ID: message}
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.NewUnavailableError(serviceName, "rate limit exceeded")
	case resp.StatusCode >= http.StatusInternalServerError:
		return domain.NewUnavailableError(serviceName, message)
	default:
		return domain.NewValidationError("", message)
	}
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName, "circuit breaker open during "+operation)
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName, "max retries exceeded during "+operation)
	default:
		return domain.WrapUnavailable(serviceName, fmt.Errorf("%s failed: %w", operation, err))
	}
}

// AsUnavailable keeps Unavailable errors and rewraps anything else as one.
// A provider's validation or not-found answer is reduced to its text, so it
// cannot surface as a client error of the caller's request.
func AsUnavailable(err error, serviceName string) error {
	switch {
	case err == nil, domain.IsUnavailable(err):
		return err
	case domain.IsValidation(err), domain.IsNotFound(err):
		return domain.NewUnavailableError(serviceName, err.Error())
	default:
		return domain.WrapUnavailable(serviceName, err)
	}
}
