package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"course_e2e/application/automation"
	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/logging"
	"course_e2e/infrastructure/storage"
)

// fakeBrowser renders every locator as a single visible element unless it
// is listed as missing or hidden, and records what the page objects do.
// Keys use Locator.String() form so chained locators can be scripted.
type fakeBrowser struct {
	mu      sync.Mutex
	missing map[string]bool
	hidden  map[string]bool
	texts   map[string]string
	attrs   map[string]map[string]string
	onClick map[string]func(b *fakeBrowser)
	actions []string
}

func newFakeBrowser() *fakeBrowser {
	return &fakeBrowser{
		missing: make(map[string]bool),
		hidden:  make(map[string]bool),
		texts:   make(map[string]string),
		attrs:   make(map[string]map[string]string),
		onClick: make(map[string]func(b *fakeBrowser)),
	}
}

// hide marks key as rendered but not displayed
func (b *fakeBrowser) hide(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hidden[key] = true
}

func (b *fakeBrowser) record(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, fmt.Sprintf(format, args...))
}

func (b *fakeBrowser) recorded() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.actions...)
}

func (b *fakeBrowser) find(key string) []interfaces.Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.missing[key] {
		return nil
	}
	return []interfaces.Element{&fakeNode{browser: b, key: key}}
}

func (b *fakeBrowser) Navigate(ctx context.Context, url string) error {
	b.record("open %s", url)
	return nil
}

func (b *fakeBrowser) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	return b.find(fmt.Sprintf("%s=%s", kind, value)), nil
}

func (b *fakeBrowser) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	if script == "document.readyState" {
		return "complete", nil
	}
	b.record("script %s", script)
	return nil, nil
}

func (b *fakeBrowser) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("\x89PNG fake"), nil
}

func (b *fakeBrowser) PageSource(ctx context.Context) (string, error) {
	return "<html></html>", nil
}

func (b *fakeBrowser) CurrentURL(ctx context.Context) (string, error) {
	return "http://shop.test/", nil
}

func (b *fakeBrowser) Title(ctx context.Context) (string, error) {
	return "Courses", nil
}

func (b *fakeBrowser) Name() string {
	return "fake/chromium"
}

func (b *fakeBrowser) Close() error {
	return nil
}

type fakeNode struct {
	browser *fakeBrowser
	key     string
}

func (n *fakeNode) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	return n.browser.find(fmt.Sprintf("%s >> %s=%s", n.key, kind, value)), nil
}

func (n *fakeNode) IsDisplayed(ctx context.Context) (bool, error) {
	n.browser.mu.Lock()
	defer n.browser.mu.Unlock()
	return !n.browser.hidden[n.key], nil
}

func (n *fakeNode) IsEnabled(ctx context.Context) (bool, error) {
	return true, nil
}

func (n *fakeNode) Click(ctx context.Context) error {
	n.browser.record("click %s", n.key)
	n.browser.mu.Lock()
	hook := n.browser.onClick[n.key]
	n.browser.mu.Unlock()
	if hook != nil {
		hook(n.browser)
	}
	return nil
}

func (n *fakeNode) Clear(ctx context.Context) error {
	return nil
}

func (n *fakeNode) SendKeys(ctx context.Context, text string) error {
	n.browser.record("type %s %s", n.key, text)
	return nil
}

func (n *fakeNode) SelectByValue(ctx context.Context, value string) error {
	n.browser.record("select %s %s", n.key, value)
	return nil
}

func (n *fakeNode) SetFiles(ctx context.Context, paths ...string) error {
	n.browser.record("upload %s %s", n.key, strings.Join(paths, ","))
	return nil
}

func (n *fakeNode) Text(ctx context.Context) (string, error) {
	n.browser.mu.Lock()
	defer n.browser.mu.Unlock()
	return n.browser.texts[n.key], nil
}

func (n *fakeNode) Attribute(ctx context.Context, name string) (string, error) {
	n.browser.mu.Lock()
	defer n.browser.mu.Unlock()
	return n.browser.attrs[n.key][name], nil
}

func (n *fakeNode) ScrollIntoView(ctx context.Context) error {
	return nil
}

func newPageSession(t *testing.T, b *fakeBrowser) *automation.Session {
	t.Helper()
	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)
	return automation.NewSession(b, store, automation.Options{
		BaseURL:         "http://shop.test/",
		Timeout:         100 * time.Millisecond,
		PollInterval:    5 * time.Millisecond,
		PageLoadTimeout: 100 * time.Millisecond,
		Retry:           automation.RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond},
	}, logging.Discard())
}
