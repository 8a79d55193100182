package automation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/config"
)

// ScrollDirection is the vertical direction of Session.Scroll
type ScrollDirection string

const (
	ScrollUp   ScrollDirection = "up"
	ScrollDown ScrollDirection = "down"

	scrollStep = 800
)

// Options configures a Session
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	PollInterval    time.Duration
	PageLoadTimeout time.Duration
	Retry           RetryPolicy
	DOMDump         bool
}

// DefaultOptions - options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		BaseURL:         config.DefaultBaseURL,
		Timeout:         entities.DefaultWaitTimeout,
		PollInterval:    entities.DefaultPollInterval,
		PageLoadTimeout: 30 * time.Second,
		Retry:           DefaultRetryPolicy(),
		DOMDump:         true,
	}
}

// OptionsFromConfig - maps the suite configuration onto session options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Wait.Timeout,
		PollInterval:    cfg.Wait.PollInterval,
		PageLoadTimeout: cfg.Wait.PageLoadTimeout,
		Retry: RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     cfg.Retry.Backoff,
		},
		DOMDump: cfg.Artifacts.DOMDump,
	}
}

// Session is the driver wrapper page objects work through. It owns the
// waiter, retrier and reporter of one browser session.
type Session struct {
	driver   interfaces.Driver
	waiter   *Waiter
	retrier  *Retrier
	reporter *FailureReporter
	opts     Options
	logger   logrus.FieldLogger
}

// NewSession - wires the automation components around driver
func NewSession(driver interfaces.Driver, store interfaces.ArtifactStore, opts Options, logger logrus.FieldLogger) *Session {
	logger = logger.WithField("driver", driver.Name())
	waiter := NewWaiter(driver, logger)
	reporter := NewFailureReporter(driver, store, opts.DOMDump, logger)

	return &Session{
		driver:   driver,
		waiter:   waiter,
		retrier:  NewRetrier(waiter, reporter, opts.Retry, logger),
		reporter: reporter,
		opts:     opts,
		logger:   logger,
	}
}

// Within returns a session sharing the browser whose waits use timeout.
// Used for short presence probes.
func (s *Session) Within(timeout time.Duration) *Session {
	c := *s
	c.opts.Timeout = timeout
	return &c
}

// Driver - returns the underlying driver
func (s *Session) Driver() interfaces.Driver {
	return s.driver
}

// Logger - returns the session logger
func (s *Session) Logger() logrus.FieldLogger {
	return s.logger
}

func (s *Session) waitConfig(cond entities.Condition) entities.WaitConfig {
	return entities.WaitConfig{
		Timeout:      s.opts.Timeout,
		PollInterval: s.opts.PollInterval,
		Condition:    cond,
	}
}

// URL resolves path against the base URL
func (s *Session) URL(path string) (string, error) {
	base, err := url.Parse(s.opts.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// Open - navigates to a path under the base URL and waits for the page to load
func (s *Session) Open(ctx context.Context, path string) error {
	target, err := s.URL(path)
	if err != nil {
		return err
	}
	if err := s.Navigate(ctx, target); err != nil {
		return err
	}
	return s.WaitForPageLoad(ctx)
}

// Navigate - loads an absolute URL
func (s *Session) Navigate(ctx context.Context, target string) error {
	s.logger.WithField("url", target).Info("Navigating")
	if err := s.driver.Navigate(ctx, target); err != nil {
		s.reporter.Capture(ctx, entities.Locator{}, "navigate", entities.KindOf(err))
		return err
	}
	return nil
}

// GetElement - waits for locator to satisfy cond and returns the element.
// Failures are reported before they are returned.
func (s *Session) GetElement(ctx context.Context, locator entities.Locator, cond entities.Condition) (interfaces.Element, error) {
	el, err := s.waiter.Wait(ctx, locator, s.waitConfig(cond))
	if err != nil {
		kind := entities.KindOf(err)
		s.logger.WithFields(logrus.Fields{
			"locator":   locator.String(),
			"condition": cond,
			"kind":      kind,
		}).Error("Element not available")
		s.reporter.Capture(ctx, locator, "wait", kind)
		return nil, err
	}
	return el, nil
}

// Click - clicks once the element is clickable, retrying stale or intercepted clicks
func (s *Session) Click(ctx context.Context, locator entities.Locator) error {
	_, err := s.retrier.Do(ctx, "click", locator, s.waitConfig(entities.ConditionClickable),
		func(ctx context.Context, el interfaces.Element) error {
			return el.Click(ctx)
		})
	return err
}

// Type - clears the field and types text into it
func (s *Session) Type(ctx context.Context, locator entities.Locator, text string) error {
	_, err := s.retrier.Do(ctx, "type", locator, s.waitConfig(entities.ConditionVisible),
		func(ctx context.Context, el interfaces.Element) error {
			if err := el.Clear(ctx); err != nil {
				return err
			}
			return el.SendKeys(ctx, text)
		})
	return err
}

// SelectByValue - picks the option with value in a <select>
func (s *Session) SelectByValue(ctx context.Context, locator entities.Locator, value string) error {
	_, err := s.retrier.Do(ctx, "select", locator, s.waitConfig(entities.ConditionVisible),
		func(ctx context.Context, el interfaces.Element) error {
			return el.SelectByValue(ctx, value)
		})
	return err
}

// UploadFile - sets local files on a file input; hidden inputs are allowed
func (s *Session) UploadFile(ctx context.Context, locator entities.Locator, paths ...string) error {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		abs = append(abs, a)
	}
	_, err := s.retrier.Do(ctx, "upload", locator, s.waitConfig(entities.ConditionPresent),
		func(ctx context.Context, el interfaces.Element) error {
			return el.SetFiles(ctx, abs...)
		})
	return err
}

// Text - returns the visible text of the element
func (s *Session) Text(ctx context.Context, locator entities.Locator) (string, error) {
	var text string
	_, err := s.retrier.Do(ctx, "text", locator, s.waitConfig(entities.ConditionVisible),
		func(ctx context.Context, el interfaces.Element) error {
			t, err := el.Text(ctx)
			text = strings.TrimSpace(t)
			return err
		})
	return text, err
}

// Attribute - returns an attribute of a present element
func (s *Session) Attribute(ctx context.Context, locator entities.Locator, name string) (string, error) {
	var value string
	_, err := s.retrier.Do(ctx, "attribute", locator, s.waitConfig(entities.ConditionPresent),
		func(ctx context.Context, el interfaces.Element) error {
			v, err := el.Attribute(ctx, name)
			value = v
			return err
		})
	return value, err
}

// IsPresent - waits for the element to exist. A timeout is false, not an error.
func (s *Session) IsPresent(ctx context.Context, locator entities.Locator) (bool, error) {
	return s.probe(ctx, locator, entities.ConditionPresent)
}

// IsVisible - waits for the element to be displayed. A timeout is false, not an error.
func (s *Session) IsVisible(ctx context.Context, locator entities.Locator) (bool, error) {
	return s.probe(ctx, locator, entities.ConditionVisible)
}

func (s *Session) probe(ctx context.Context, locator entities.Locator, cond entities.Condition) (bool, error) {
	_, err := s.waiter.Wait(ctx, locator, s.waitConfig(cond))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, entities.ErrTimeout), errors.Is(err, entities.ErrNotFound):
		s.logger.WithFields(logrus.Fields{
			"locator":   locator.String(),
			"condition": cond,
		}).Debug("Element not found")
		return false, nil
	}
	return false, err
}

// Count - number of elements matching locator right now, without waiting
func (s *Session) Count(ctx context.Context, locator entities.Locator) (int, error) {
	return s.waiter.Count(ctx, locator)
}

// WaitInvisible - waits until no matching element is displayed
func (s *Session) WaitInvisible(ctx context.Context, locator entities.Locator) error {
	_, err := s.GetElement(ctx, locator, entities.ConditionInvisible)
	return err
}

// WaitForPageLoad - waits for document.readyState to become complete
func (s *Session) WaitForPageLoad(ctx context.Context) error {
	err := Poll(ctx, s.opts.PageLoadTimeout, s.opts.PollInterval, func(ctx context.Context) (bool, error) {
		state, err := s.driver.ExecuteScript(ctx, "document.readyState")
		if err != nil {
			if notYet(err) {
				return false, nil
			}
			return false, err
		}
		return state == "complete", nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Page did not finish loading")
		s.reporter.Capture(ctx, entities.Locator{}, "page_load", entities.KindOf(err))
		return fmt.Errorf("page load: %w", err)
	}
	return nil
}

// Scroll - scrolls the window one step up or down
func (s *Session) Scroll(ctx context.Context, direction ScrollDirection) error {
	offset := scrollStep
	switch direction {
	case ScrollUp:
		offset = -scrollStep
	case ScrollDown:
	default:
		return fmt.Errorf("scroll direction %q not supported", direction)
	}
	_, err := s.driver.ExecuteScript(ctx, fmt.Sprintf("window.scrollBy(0, %d)", offset))
	return err
}

// Screenshot - captures the page under label regardless of failures
func (s *Session) Screenshot(ctx context.Context, label string) []entities.Artifact {
	return s.reporter.Capture(ctx, entities.Locator{}, label, "")
}

// CurrentURL - returns the URL of the active page
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	return s.driver.CurrentURL(ctx)
}

// Title - returns the title of the active page
func (s *Session) Title(ctx context.Context) (string, error) {
	return s.driver.Title(ctx)
}

// Artifacts - returns every diagnostic file captured in this session
func (s *Session) Artifacts() []entities.Artifact {
	return s.reporter.Artifacts()
}

// Close - ends the browser session
func (s *Session) Close() error {
	return s.driver.Close()
}
