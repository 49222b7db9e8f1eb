// Package acl is the anti-corruption layer between HTTP model providers and
// the domain. Provider DTOs stay unexported here; callers see only
// domain.Prompt, plain strings and domain errors.
//
// Error translation:
//   - transport failures, open circuit, 429 and 5xx map to domain.ErrUnavailable
//   - 404 maps to domain.ErrNotFound
//   - other 4xx map to domain.ErrValidation
//
// A language model adapter returns only Unavailable errors to the app layer;
// a model that rejects a request is as useless to the advisor as one that is
// down. See OllamaModel.
package acl
