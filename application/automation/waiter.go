package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

// Waiter polls the live document until a locator satisfies a condition.
// It only queries; reporting failures is left to the caller.
type Waiter struct {
	driver interfaces.Driver
	logger logrus.FieldLogger
}

// NewWaiter - creates a waiter querying through driver
func NewWaiter(driver interfaces.Driver, logger logrus.FieldLogger) *Waiter {
	return &Waiter{
		driver: driver,
		logger: logger,
	}
}

// Wait blocks until the locator satisfies cfg.Condition and returns the
// first matching element. For ConditionInvisible the element is nil.
//
// A zero timeout performs a single query and fails with ErrNotFound when
// nothing matches. Otherwise the failure is ErrTimeout, reported no
// earlier than cfg.Timeout and no later than one poll interval after it.
func (w *Waiter) Wait(ctx context.Context, locator entities.Locator, cfg entities.WaitConfig) (interfaces.Element, error) {
	if err := locator.Validate(); err != nil {
		return nil, waitError(locator, entities.FailureUnexpected, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, waitError(locator, entities.FailureUnexpected, err)
	}

	var found interfaces.Element
	check := func(ctx context.Context) (bool, error) {
		el, ok, err := w.evaluate(ctx, locator, cfg.Condition)
		if err != nil {
			if notYet(err) {
				w.logger.WithFields(logrus.Fields{
					"locator": locator.String(),
					"kind":    entities.KindOf(err),
				}).Debug("Element changed while polling, querying again")
				return false, nil
			}
			return false, err
		}
		if ok {
			found = el
		}
		return ok, nil
	}

	if cfg.Timeout == 0 {
		ok, err := check(ctx)
		if err != nil {
			return nil, waitError(locator, entities.KindOf(err), err)
		}
		if !ok {
			return nil, waitError(locator, entities.FailureNotFound,
				fmt.Errorf("no element is %s", cfg.Condition))
		}
		return found, nil
	}

	started := time.Now()
	if err := Poll(ctx, cfg.Timeout, cfg.PollInterval, check); err != nil {
		kind := entities.KindOf(err)
		w.logger.WithFields(logrus.Fields{
			"locator":   locator.String(),
			"condition": cfg.Condition,
			"kind":      kind,
			"elapsed":   time.Since(started).Round(time.Millisecond),
		}).Debug("Wait failed")
		if kind == entities.FailureTimeout {
			err = fmt.Errorf("element not %s within %s", cfg.Condition, cfg.Timeout)
		}
		return nil, waitError(locator, kind, err)
	}
	return found, nil
}

// Count resolves the locator once, without waiting
func (w *Waiter) Count(ctx context.Context, locator entities.Locator) (int, error) {
	if err := locator.Validate(); err != nil {
		return 0, waitError(locator, entities.FailureUnexpected, err)
	}
	elements, err := w.resolve(ctx, locator)
	if err != nil {
		return 0, waitError(locator, entities.KindOf(err), err)
	}
	return len(elements), nil
}

// resolve walks the parent chain; every child step is queried under each
// element matched by the previous step
func (w *Waiter) resolve(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	chain := locator.Chain()

	current, err := w.driver.FindElements(ctx, chain[0].Kind, chain[0].Value)
	if err != nil {
		return nil, err
	}
	for _, step := range chain[1:] {
		var next []interfaces.Element
		for _, parent := range current {
			children, err := parent.FindElements(ctx, step.Kind, step.Value)
			if err != nil {
				return nil, err
			}
			next = append(next, children...)
		}
		current = next
	}
	return current, nil
}

func (w *Waiter) evaluate(ctx context.Context, locator entities.Locator, cond entities.Condition) (interfaces.Element, bool, error) {
	candidates, err := w.resolve(ctx, locator)
	if err != nil {
		return nil, false, err
	}

	switch cond {
	case entities.ConditionPresent:
		if len(candidates) > 0 {
			return candidates[0], true, nil
		}
		return nil, false, nil

	case entities.ConditionInvisible:
		for _, el := range candidates {
			displayed, err := el.IsDisplayed(ctx)
			if err != nil {
				return nil, false, err
			}
			if displayed {
				return nil, false, nil
			}
		}
		return nil, true, nil
	}

	for _, el := range candidates {
		displayed, err := el.IsDisplayed(ctx)
		if err != nil {
			return nil, false, err
		}
		if !displayed {
			continue
		}
		if cond == entities.ConditionClickable {
			enabled, err := el.IsEnabled(ctx)
			if err != nil {
				return nil, false, err
			}
			if !enabled {
				continue
			}
		}
		return el, true, nil
	}
	return nil, false, nil
}

// notYet reports driver failures that mean the document is still changing
func notYet(err error) bool {
	switch entities.KindOf(err) {
	case entities.FailureStale, entities.FailureNotFound:
		return true
	}
	return false
}

func waitError(locator entities.Locator, kind entities.FailureKind, err error) error {
	return &entities.InteractionError{
		Op:      "wait",
		Locator: locator,
		Kind:    kind,
		Err:     err,
	}
}

// Poll evaluates fn until it reports done or returns an error. Between
// evaluations it sleeps interval; the last sleep is clipped to the deadline
// so fn always runs once at the deadline before ErrTimeout is returned.
func Poll(ctx context.Context, timeout, interval time.Duration, fn func(context.Context) (bool, error)) error {
	if interval <= 0 {
		return entities.MarkFailure(entities.FailureUnexpected,
			fmt.Errorf("poll interval must be positive, got %s", interval))
	}

	deadline := time.Now().Add(timeout)
	for {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return entities.MarkFailure(entities.FailureTimeout,
				fmt.Errorf("gave up after %s", timeout))
		}
		if remaining > interval {
			remaining = interval
		}
		if err := sleep(ctx, remaining); err != nil {
			return err
		}
	}
}

// sleep pauses for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return entities.MarkFailure(entities.FailureUnexpected, ctx.Err())
	case <-timer.C:
		return nil
	}
}
