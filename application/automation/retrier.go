package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

// RetryPolicy bounds the resolve+act cycles of one interaction
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy - three cycles, half a second apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     500 * time.Millisecond,
	}
}

// Action is performed on a freshly resolved element
type Action func(ctx context.Context, el interfaces.Element) error

// Retrier resolves an element and acts on it, repeating the whole cycle
// when the action fails for a transient reason
type Retrier struct {
	waiter   *Waiter
	reporter interfaces.Reporter
	policy   RetryPolicy
	logger   logrus.FieldLogger
}

// NewRetrier - creates a retrier; MaxAttempts below one is treated as one
func NewRetrier(waiter *Waiter, reporter interfaces.Reporter, policy RetryPolicy, logger logrus.FieldLogger) *Retrier {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Retrier{
		waiter:   waiter,
		reporter: reporter,
		policy:   policy,
		logger:   logger,
	}
}

// Do runs exactly policy.MaxAttempts resolve+act cycles at most. Every
// cycle resolves the locator again, so a handle is never reused after it
// failed. Only Stale and Intercepted failures are retried.
func (r *Retrier) Do(ctx context.Context, op string, locator entities.Locator, cfg entities.WaitConfig, act Action) (entities.RetryState, error) {
	state := entities.RetryState{MaxAttempts: r.policy.MaxAttempts}
	log := r.logger.WithFields(logrus.Fields{
		"op":        op,
		"locator":   locator.String(),
		"condition": cfg.Condition,
	})

	var lastErr error
	for !state.Exhausted() {
		state.Attempt++

		err := r.attempt(ctx, locator, cfg, act, log)
		if err == nil {
			log.WithField("attempt", state.Attempt).Debug("Interaction succeeded")
			return state, nil
		}
		lastErr = err

		kind := entities.KindOf(err)
		if !kind.Transient() {
			return state, r.fail(ctx, op, locator, kind, state, err, log)
		}
		if state.Exhausted() {
			break
		}

		log.WithFields(logrus.Fields{
			"attempt": state.Attempt,
			"kind":    kind,
		}).WithError(err).Warn("Transient failure, retrying")
		r.reporter.Capture(ctx, locator, fmt.Sprintf("retry_%d", state.Attempt), kind)

		if err := sleep(ctx, r.policy.Backoff); err != nil {
			return state, r.fail(ctx, op, locator, entities.FailureUnexpected, state, err, log)
		}
	}

	return state, r.fail(ctx, op, locator, entities.KindOf(lastErr), state, lastErr, log)
}

func (r *Retrier) attempt(ctx context.Context, locator entities.Locator, cfg entities.WaitConfig, act Action, log logrus.FieldLogger) error {
	el, err := r.waiter.Wait(ctx, locator, cfg)
	if err != nil {
		return err
	}
	if el != nil {
		if err := el.ScrollIntoView(ctx); err != nil {
			log.WithError(err).Debug("Scroll into view failed")
		}
	}
	return act(ctx, el)
}

// fail reports the failure and wraps it in an InteractionError for op
func (r *Retrier) fail(ctx context.Context, op string, locator entities.Locator, kind entities.FailureKind, state entities.RetryState, err error, log logrus.FieldLogger) error {
	log.WithFields(logrus.Fields{
		"attempt": state.Attempt,
		"kind":    kind,
	}).WithError(err).Error("Interaction failed")
	r.reporter.Capture(ctx, locator, op, kind)

	return &entities.InteractionError{
		Op:      op,
		Locator: locator,
		Kind:    kind,
		State:   state,
		Err:     cause(err),
	}
}

// cause strips a nested InteractionError so the locator is not repeated
func cause(err error) error {
	var ie *entities.InteractionError
	if errors.As(err, &ie) && ie.Err != nil {
		return ie.Err
	}
	return err
}
