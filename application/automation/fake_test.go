package automation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/logging"
	"course_e2e/infrastructure/storage"
)

// fakeElement is a scripted DOM node. Errors queued in clickErrs are
// returned by successive clicks.
type fakeElement struct {
	mu        sync.Mutex
	name      string
	displayed bool
	enabled   bool
	text      string
	attrs     map[string]string
	children  map[string][]*fakeElement
	clickErrs []error
	clicks    int
	keys      []string
	cleared   int
	selected  string
	files     []string
	scrolls   int
}

func newFakeElement(name string) *fakeElement {
	return &fakeElement{name: name, displayed: true, enabled: true}
}

func (e *fakeElement) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return toElements(e.children[string(kind)+"="+value]), nil
}

func (e *fakeElement) IsDisplayed(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayed, nil
}

func (e *fakeElement) IsEnabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled, nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++
	if len(e.clickErrs) > 0 {
		err := e.clickErrs[0]
		e.clickErrs = e.clickErrs[1:]
		return err
	}
	return nil
}

func (e *fakeElement) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleared++
	e.keys = nil
	return nil
}

func (e *fakeElement) SendKeys(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.keys = append(e.keys, text)
	return nil
}

func (e *fakeElement) SelectByValue(ctx context.Context, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = value
	return nil
}

func (e *fakeElement) SetFiles(ctx context.Context, paths ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files = append(e.files, paths...)
	return nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, nil
}

func (e *fakeElement) Attribute(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attrs[name], nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scrolls++
	return nil
}

func (e *fakeElement) clickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func toElements(found []*fakeElement) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(found))
	for _, f := range found {
		elements = append(elements, f)
	}
	return elements
}

// query answers one FindElements call; n counts calls for that locator from 1
type query func(n int) ([]*fakeElement, error)

type fakeDriver struct {
	mu            sync.Mutex
	queries       map[string]query
	calls         map[string]int
	scripts       []string
	readyStates   []string
	navigated     []string
	url           string
	screenshots   int
	screenshotErr error
	closed        bool
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		queries: make(map[string]query),
		calls:   make(map[string]int),
		url:     "about:blank",
	}
}

// on scripts the answer for locator
func (d *fakeDriver) on(locator string, q query) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries[locator] = q
}

// always returns the same elements on every query
func always(els ...*fakeElement) query {
	return func(int) ([]*fakeElement, error) { return els, nil }
}

// after returns els once d has elapsed since the first query
func after(d time.Duration, els ...*fakeElement) query {
	var start time.Time
	return func(n int) ([]*fakeElement, error) {
		if n == 1 {
			start = time.Now()
		}
		if time.Since(start) >= d {
			return els, nil
		}
		return nil, nil
	}
}

func (d *fakeDriver) callCount(locator string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[locator]
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	d.url = url
	return nil
}

func (d *fakeDriver) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, entities.MarkFailure(entities.FailureUnexpected, err)
	}
	key := string(kind) + "=" + value

	d.mu.Lock()
	d.calls[key]++
	n := d.calls[key]
	q, ok := d.queries[key]
	d.mu.Unlock()

	if !ok {
		return nil, nil
	}
	found, err := q(n)
	if err != nil {
		return nil, err
	}
	return toElements(found), nil
}

func (d *fakeDriver) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scripts = append(d.scripts, script)
	if script == "document.readyState" {
		if len(d.readyStates) == 0 {
			return "complete", nil
		}
		state := d.readyStates[0]
		d.readyStates = d.readyStates[1:]
		return state, nil
	}
	return nil, nil
}

func (d *fakeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.screenshotErr != nil {
		return nil, d.screenshotErr
	}
	d.screenshots++
	return []byte("\x89PNG fake"), nil
}

func (d *fakeDriver) PageSource(ctx context.Context) (string, error) {
	return "<html><body></body></html>", nil
}

func (d *fakeDriver) CurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url, nil
}

func (d *fakeDriver) Title(ctx context.Context) (string, error) {
	return "Courses", nil
}

func (d *fakeDriver) Name() string {
	return "fake/chromium"
}

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDriver) screenshotCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.screenshots
}

// testOptions keeps timings short enough for unit tests
func testOptions() Options {
	return Options{
		BaseURL:         "http://127.0.0.1:8000/",
		Timeout:         300 * time.Millisecond,
		PollInterval:    10 * time.Millisecond,
		PageLoadTimeout: 300 * time.Millisecond,
		Retry:           RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond},
		DOMDump:         true,
	}
}

func newTestSession(t *testing.T, d *fakeDriver) (*Session, interfaces.ArtifactStore) {
	t.Helper()
	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	return NewSession(d, store, testOptions(), logging.Discard()), store
}
