package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/config"
	"course_e2e/infrastructure/storage"
)

// stubDriver serves a page holding a single login button
type stubDriver struct {
	mu        sync.Mutex
	navigated []string
	clicks    int
	closed    bool
}

func (d *stubDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *stubDriver) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	if kind == entities.LocatorID && value == "login-button" {
		return []interfaces.Element{&stubElement{driver: d}}, nil
	}
	return nil, nil
}

func (d *stubDriver) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	return "complete", nil
}

func (d *stubDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("\x89PNG stub"), nil
}

func (d *stubDriver) PageSource(ctx context.Context) (string, error) {
	return "<html></html>", nil
}

func (d *stubDriver) CurrentURL(ctx context.Context) (string, error) {
	return "http://shop.test/", nil
}

func (d *stubDriver) Title(ctx context.Context) (string, error) {
	return "Courses", nil
}

func (d *stubDriver) Name() string {
	return "stub/chromium"
}

func (d *stubDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

type stubElement struct {
	driver *stubDriver
}

func (e *stubElement) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	return nil, nil
}

func (e *stubElement) IsDisplayed(ctx context.Context) (bool, error) {
	return true, nil
}

func (e *stubElement) IsEnabled(ctx context.Context) (bool, error) {
	return true, nil
}

func (e *stubElement) Clear(ctx context.Context) error {
	return nil
}

func (e *stubElement) SendKeys(ctx context.Context, text string) error {
	return nil
}

func (e *stubElement) SelectByValue(ctx context.Context, value string) error {
	return nil
}

func (e *stubElement) SetFiles(ctx context.Context, paths ...string) error {
	return nil
}

func (e *stubElement) Text(ctx context.Context) (string, error) {
	return "Login", nil
}

func (e *stubElement) Attribute(ctx context.Context, name string) (string, error) {
	return "", nil
}

func (e *stubElement) ScrollIntoView(ctx context.Context) error {
	return nil
}

func (e *stubElement) Click(ctx context.Context) error {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	e.driver.clicks++
	return nil
}

// newTestApp returns an app writing artifacts under a temp dir and driving d
func newTestApp(t *testing.T, d *stubDriver) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	a := NewApp()
	a.out = out
	a.v.Set("artifacts.dir", t.TempDir())
	a.v.Set("wait.timeout", "200ms")
	a.v.Set("wait.poll_interval", "10ms")
	a.v.Set("log.level", "panic")
	a.newDriver = func(cfg *config.Config, logger logrus.FieldLogger) (interfaces.Driver, error) {
		if d == nil {
			t.Fatal("browser must not be started")
		}
		return d, nil
	}
	return a, out
}

func execute(a *App, args ...string) error {
	cmd := a.Command()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestVersionCommand(t *testing.T) {
	a, out := newTestApp(t, nil)

	require.NoError(t, execute(a, "version"))
	assert.Equal(t, Version+"\n", out.String())
}

func TestVersionSkipsConfiguration(t *testing.T) {
	a, out := newTestApp(t, nil)

	require.NoError(t, execute(a, "--driver", "puppeteer", "version"))
	assert.Equal(t, Version+"\n", out.String())
	assert.Nil(t, a.cfg)
}

func TestFlagsOverrideConfiguration(t *testing.T) {
	a, _ := newTestApp(t, &stubDriver{})

	require.NoError(t, execute(a, "--driver", "rod", "--browser", "firefox", "--base-url", "http://shop.test/", "doctor"))
	assert.Equal(t, config.DriverRod, a.cfg.Driver)
	assert.Equal(t, "firefox", a.cfg.Browser)
	assert.Equal(t, "http://shop.test/", a.cfg.BaseURL)
}

func TestInvalidConfigurationFails(t *testing.T) {
	a, _ := newTestApp(t, nil)

	err := execute(a, "--driver", "puppeteer", "doctor")
	assert.ErrorContains(t, err, `driver "puppeteer" not supported`)
}

func TestDoctorCommand(t *testing.T) {
	d := &stubDriver{}
	a, out := newTestApp(t, d)

	require.NoError(t, execute(a, "doctor"))
	assert.Contains(t, out.String(), "stub/chromium ok")
	assert.True(t, d.closed)
}

func TestCheckRejectsBadInputBeforeLaunching(t *testing.T) {
	for _, args := range [][]string{
		{"check", "--locator", "login-button"},
		{"check", "--locator", "id=login-button", "--condition", "focused"},
		{"check", "--locator", "id=login-button", "--timeout=-1s"},
	} {
		a, _ := newTestApp(t, nil)
		assert.Error(t, execute(a, args...), args)
	}
}

func TestCheckFindsAndClicks(t *testing.T) {
	d := &stubDriver{}
	a, out := newTestApp(t, d)

	require.NoError(t, execute(a, "--base-url", "http://shop.test/",
		"check", "--path", "login/", "--locator", "id=login-button", "--condition", "clickable", "--click"))

	assert.Equal(t, []string{"http://shop.test/login/"}, d.navigated)
	assert.Equal(t, 1, d.clicks)
	assert.Contains(t, out.String(), "id=login-button: clickable after")
	assert.Contains(t, out.String(), "id=login-button: clicked")
	assert.True(t, d.closed)
}

func TestCheckReportsTimeout(t *testing.T) {
	d := &stubDriver{}
	a, out := newTestApp(t, d)

	err := execute(a, "check", "--locator", "id=missing", "--timeout", "50ms")
	assert.True(t, errors.Is(err, entities.ErrTimeout))
	assert.Contains(t, out.String(), "id=missing: timeout after")
}

func TestSmokeSavesSummary(t *testing.T) {
	d := &stubDriver{}
	a, out := newTestApp(t, d)

	require.NoError(t, execute(a, "smoke"))

	runs, err := os.ReadDir(a.cfg.Artifacts.Dir)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	store, err := storage.NewArtifactStore(filepath.Join(a.cfg.Artifacts.Dir, runs[0].Name()))
	require.NoError(t, err)
	summary, err := store.LoadSummary()
	require.NoError(t, err)

	assert.Equal(t, runs[0].Name(), summary.RunID)
	assert.Equal(t, "stub/chromium", summary.Browser)
	assert.True(t, summary.Passed())
	assert.Len(t, summary.Checks, 2)
	assert.NotEmpty(t, summary.Artifacts)
	assert.Contains(t, out.String(), "PASS  page loaded")
}
