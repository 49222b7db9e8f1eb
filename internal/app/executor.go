package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Advisor calls run as a five step operation:
//
//  1. validate  reject malformed requests before the model is called
//  2. perform   call the language model
//  3. verify    decode the reply into a domain value
//  4. archive   store the verified value (improvement cache)
//  5. respond   shape the value for the caller
//
// Each failure is tagged with its step, so callers can tell a model outage
// (perform) from a bad request (validate) and choose a fallback.

// ExecutionStep names a step of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in.
type ExecutionError struct {
	Step  ExecutionStep
	Cause error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Cause)
}

// Unwrap exposes the cause so domain errors stay visible to errors.Is.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs Operations, logging each step.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger uses slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation holds the step functions. Nil steps are skipped; a skipped
// Verify yields the zero value, so set it whenever Respond reads its input.
type Operation[I, P, V, O any] struct {
	Name string

	Validate func(ctx context.Context, input I) error
	Perform  func(ctx context.Context, input I) (P, error)
	Verify   func(ctx context.Context, input I, performed P) (V, error)
	Archive  func(ctx context.Context, input I, verified V) error
	Respond  func(ctx context.Context, input I, verified V) (O, error)

	// BestEffortArchive logs archive failures instead of failing the
	// operation. Caches use it; durable stores should not.
	BestEffortArchive bool
}

// Execute runs op for input, stopping at the first failing step.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
	)

	logger := loggerFor(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	step := func(name ExecutionStep, run func() error) error {
		logger.DebugContext(ctx, "step started", slog.String("step", string(name)))

		if err := run(); err != nil {
			logger.WarnContext(ctx, "step failed", slog.String("step", string(name)), slog.Any("error", err))
			return &ExecutionError{Step: name, Cause: err}
		}

		return nil
	}

	if op.Validate != nil {
		if err := step(StepValidate, func() error { return op.Validate(ctx, input) }); err != nil {
			return zero, err
		}
	}

	if op.Perform != nil {
		err := step(StepPerform, func() (err error) {
			performed, err = op.Perform(ctx, input)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	if op.Verify != nil {
		err := step(StepVerify, func() (err error) {
			verified, err = op.Verify(ctx, input, performed)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	if op.Archive != nil {
		err := step(StepArchive, func() error { return op.Archive(ctx, input, verified) })
		if err != nil && !op.BestEffortArchive {
			return zero, err
		}
	}

	result := zero
	if op.Respond != nil {
		err := step(StepRespond, func() (err error) {
			result, err = op.Respond(ctx, input, verified)
			return err
		})
		if err != nil {
			return zero, err
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

// FailedStep reports the step an Execute error came from.
func FailedStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
