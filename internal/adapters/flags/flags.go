// Package flags implements ports.FeatureFlags over static configuration.
// Values may be typed (from YAML) or strings (from environment variables).
package flags

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Static serves flags from a map keyed by dotted flag name.
type Static struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewStatic copies values into a new provider.
func NewStatic(values map[string]any) *Static {
	s := &Static{values: make(map[string]any, len(values))}
	for k, v := range values {
		s.values[k] = v
	}

	return s
}

// Set overrides one flag at runtime.
func (s *Static) Set(flag string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[flag] = value
}

// Snapshot returns a copy of every flag value.
func (s *Static) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}

	return out
}

func (s *Static) lookup(flag string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[flag]

	return v, ok && v != nil
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	v, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return defaultValue
		}
		return parsed
	default:
		return defaultValue
	}
}

// GetString implements ports.FeatureFlags.
func (s *Static) GetString(_ context.Context, flag string, defaultValue string) string {
	v, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	if str, ok := v.(string); ok {
		return str
	}

	return fmt.Sprint(v)
}

// GetInt implements ports.FeatureFlags.
func (s *Static) GetInt(_ context.Context, flag string, defaultValue int) int {
	v, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n != float64(int(n)) {
			return defaultValue
		}
		return int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return defaultValue
		}
		return parsed
	default:
		return defaultValue
	}
}

// GetFloat implements ports.FeatureFlags.
func (s *Static) GetFloat(_ context.Context, flag string, defaultValue float64) float64 {
	v, ok := s.lookup(flag)
	if !ok {
		return defaultValue
	}

	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	default:
		return defaultValue
	}
}
