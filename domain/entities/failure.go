package entities

import (
	"errors"
	"fmt"
)

// FailureKind classifies why an interaction did not succeed
type FailureKind string

const (
	FailureNotFound    FailureKind = "not_found"
	FailureTimeout     FailureKind = "timeout"
	FailureStale       FailureKind = "stale"
	FailureIntercepted FailureKind = "intercepted"
	FailureUnexpected  FailureKind = "unexpected"
)

// Transient reports whether a retry of the full resolve+act cycle may succeed
func (k FailureKind) Transient() bool {
	return k == FailureStale || k == FailureIntercepted
}

var (
	ErrNotFound    = errors.New("element not found")
	ErrTimeout     = errors.New("condition not met before timeout")
	ErrStale       = errors.New("stale element reference")
	ErrIntercepted = errors.New("click intercepted")
	ErrUnexpected  = errors.New("unexpected driver failure")
)

var kindSentinels = []struct {
	kind FailureKind
	err  error
}{
	{FailureNotFound, ErrNotFound},
	{FailureTimeout, ErrTimeout},
	{FailureStale, ErrStale},
	{FailureIntercepted, ErrIntercepted},
	{FailureUnexpected, ErrUnexpected},
}

// Sentinel returns the sentinel error for a kind
func (k FailureKind) Sentinel() error {
	for _, ks := range kindSentinels {
		if ks.kind == k {
			return ks.err
		}
	}
	return ErrUnexpected
}

// KindOf maps an error onto the failure taxonomy. Errors that carry no
// sentinel are Unexpected.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}
	var ie *InteractionError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return FailureUnexpected
}

// MarkFailure wraps a driver error with the sentinel of kind
func MarkFailure(kind FailureKind, err error) error {
	if err == nil {
		return kind.Sentinel()
	}
	if errors.Is(err, kind.Sentinel()) {
		return err
	}
	return fmt.Errorf("%w: %w", kind.Sentinel(), err)
}

// InteractionError is the single typed failure surfaced by the driver wrapper
type InteractionError struct {
	Op      string      `json:"op"`
	Locator Locator     `json:"locator"`
	Kind    FailureKind `json:"kind"`
	State   RetryState  `json:"state"`
	Err     error       `json:"-"`
}

func (e *InteractionError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Op, e.Locator, e.Kind)
	if e.State.MaxAttempts > 0 {
		msg += fmt.Sprintf(" after %d/%d attempts", e.State.Attempt, e.State.MaxAttempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InteractionError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind even when Err carries another one
func (e *InteractionError) Is(target error) bool {
	return target == e.Kind.Sentinel()
}
