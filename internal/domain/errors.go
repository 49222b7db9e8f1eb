// Package domain contains the recipe, shopping and advisor entities and the
// errors shared by every layer.
//
// Three kinds of failure cross layer boundaries: a missing recipe, list or
// entry; a request that breaks a rule of the quantity engine; and a language
// model or catalog store that cannot answer. Adapters map each to a status.
package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// Entities that can be missing.
const (
	EntityRecipe        = "recipe"
	EntityShoppingList  = "shopping list"
	EntityShoppingEntry = "shopping entry"
	EntityCacheEntry    = "cache entry"
)

// Dependencies that can be unavailable.
const (
	ServiceLanguageModel = "language-model"
	ServiceCatalog       = "catalog"
)

var entityLabels = map[string]string{
	EntityRecipe:        "レシピ",
	EntityShoppingList:  "買い物リスト",
	EntityShoppingEntry: "買い物リストの項目",
}

// NotFoundError names what was looked up and under which id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UserMessage is the Japanese text shown to the app's user.
func (e *NotFoundError) UserMessage() string {
	label, ok := entityLabels[e.Entity]
	if !ok {
		label = "データ"
	}

	if e.ID == "" {
		return label + "が見つかりません"
	}

	return fmt.Sprintf("%s「%s」が見つかりません", label, e.ID)
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries a user facing Message, usually Japanese, and the
// request field it refers to when there is one.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	switch {
	case e.Field == "":
		return "validation failed: " + e.Message
	case e.Value != nil:
		return fmt.Sprintf("validation failed for %s=%v: %s", e.Field, e.Value, e.Message)
	default:
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue records the rejected value, e.g. a servings
// count of zero.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError reports a dependency that could not answer. Cause, when
// set, stays reachable through errors.Is and errors.As.
type UnavailableError struct {
	Service string
	Reason  string
	Cause   error
}

func (e *UnavailableError) Error() string {
	reason := e.Reason
	if reason == "" && e.Cause != nil {
		reason = e.Cause.Error()
	}

	if reason == "" {
		return fmt.Sprintf("service %q unavailable", e.Service)
	}

	return fmt.Sprintf("service %q unavailable: %s", e.Service, reason)
}

func (e *UnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnavailable}
	}

	return []error{ErrUnavailable, e.Cause}
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// WrapUnavailable marks cause as a failure of service.
func WrapUnavailable(service string, cause error) error {
	return &UnavailableError{Service: service, Cause: cause}
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
