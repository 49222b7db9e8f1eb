package context

import "errors"

// ErrAlreadyCommitted is returned when actions are added or committed after
// a successful Commit.
var ErrAlreadyCommitted = errors.New("request context already committed")

// ErrUnexpectedType is returned by Fetch when a memoized value has a
// different type than requested for the same key.
var ErrUnexpectedType = errors.New("memoized value has unexpected type")
