package context

import (
	"context"
	"fmt"
	"strings"
)

// Action is one staged write, such as adding a menu day's recipe to a
// shopping list.
type Action interface {
	Execute(ctx context.Context) error
	Rollback(ctx context.Context) error
	Description() string
}

// CommitError names the action that failed. Rollback holds the errors of
// undo steps that failed afterwards, in the order they ran.
type CommitError struct {
	Action   string
	Err      error
	Rollback []error
}

func (e *CommitError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "action %q failed: %v", e.Action, e.Err)

	for _, err := range e.Rollback {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}

	return b.String()
}

func (e *CommitError) Unwrap() []error {
	return append([]error{e.Err}, e.Rollback...)
}

// AddAction stages action for Commit.
func (rc *RequestContext) AddAction(action Action) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	rc.actions = append(rc.actions, action)

	return nil
}

// Commit runs the staged actions in order. If one fails, those that ran
// are undone newest first and a *CommitError is returned; the context stays
// open so the caller may retry.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.committed {
		return ErrAlreadyCommitted
	}

	for i, action := range rc.actions {
		if err := action.Execute(ctx); err != nil {
			return &CommitError{
				Action:   action.Description(),
				Err:      err,
				Rollback: undo(ctx, rc.actions[:i]),
			}
		}
	}

	rc.committed = true

	return nil
}

func undo(ctx context.Context, done []Action) []error {
	var errs []error

	for i := len(done) - 1; i >= 0; i-- {
		if err := done[i].Rollback(ctx); err != nil {
			errs = append(errs, fmt.Errorf("rollback %q: %w", done[i].Description(), err))
		}
	}

	return errs
}

// Staged describes the staged actions in order.
func (rc *RequestContext) Staged() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	out := make([]string, len(rc.actions))
	for i, a := range rc.actions {
		out[i] = a.Description()
	}

	return out
}
