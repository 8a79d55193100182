package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

type playwrightDriver struct {
	pw          *playwright.Playwright
	browser     playwright.Browser
	context     playwright.BrowserContext
	pages       *pageSet
	engine      Engine
	storagePath string
	timeout     float64
	logger      logrus.FieldLogger
}

// pageSet tracks the open tabs. The newest tab is active; when the active
// tab closes the first remaining one takes over.
type pageSet struct {
	mu      sync.Mutex
	pages   []playwright.Page
	current playwright.Page
}

// add makes page active and reports whether it was not tracked yet
func (s *pageSet) add(page playwright.Page) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = page
	for _, p := range s.pages {
		if p == page {
			return false
		}
	}
	s.pages = append(s.pages, page)
	return true
}

func (s *pageSet) remove(page playwright.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pages {
		if p == page {
			s.pages = append(s.pages[:i], s.pages[i+1:]...)
			break
		}
	}
	if s.current == page && len(s.pages) > 0 {
		s.current = s.pages[0]
	}
}

func (s *pageSet) active() playwright.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// NewPlaywrightDriver - starts playwright and opens a page in the selected engine
func NewPlaywrightDriver(opts Options, logger logrus.FieldLogger) (interfaces.Driver, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	engine, forceHeadless := ParseBrowser(opts.Browser)
	browserType := pw.Chromium
	switch engine {
	case EngineFirefox:
		browserType = pw.Firefox
	case EngineWebKit:
		browserType = pw.WebKit
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless || forceHeadless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	}
	if engine == EngineChromium {
		launchOptions.Args = []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-notifications",
		}
	}

	browser, err := browserType.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", engine, err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if opts.StorageStatePath != "" {
		if data, err := os.ReadFile(opts.StorageStatePath); err == nil {
			var storageState playwright.StorageState
			if err := json.Unmarshal(data, &storageState); err == nil {
				contextOptions.StorageState = storageState.ToOptionalStorageState()
				logger.WithField("path", opts.StorageStatePath).Info("Reusing saved browser session")
			}
		}
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	d := &playwrightDriver{
		pw:          pw,
		browser:     browser,
		context:     browserContext,
		pages:       &pageSet{},
		engine:      engine,
		storagePath: opts.StorageStatePath,
		timeout:     float64(opts.ActionTimeout.Milliseconds()),
		logger:      logger,
	}

	d.track(page)

	// links opening a new tab become the active page
	browserContext.OnPage(d.track)

	return d, nil
}

// track - makes page active, accepts its dialogs and drops it from the set once closed
func (d *playwrightDriver) track(page playwright.Page) {
	if !d.pages.add(page) {
		return
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		d.logger.WithField("message", dialog.Message()).Info("Accepting browser dialog")
		if err := dialog.Accept(); err != nil {
			d.logger.WithError(err).Warn("Failed to accept dialog")
		}
	})

	page.OnClose(func(closed playwright.Page) {
		d.pages.remove(closed)
		d.logger.WithField("url", closed.URL()).Debug("Page closed")
	})
}

func (d *playwrightDriver) currentPage() playwright.Page {
	return d.pages.active()
}

// Name - returns backend and engine
func (d *playwrightDriver) Name() string {
	return "playwright/" + string(d.engine)
}

// Navigate - navigates to the specified URL and waits for the load event
func (d *playwrightDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	_, err := d.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, classify(err))
	}
	return nil
}

// FindElements - queries the page once, without auto-waiting
func (d *playwrightDriver) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	selector, err := playwrightSelector(kind, value, false)
	if err != nil {
		return nil, err
	}
	handles, err := d.currentPage().QuerySelectorAll(selector)
	if err != nil {
		return nil, classify(err)
	}
	return d.wrap(handles), nil
}

func (d *playwrightDriver) wrap(handles []playwright.ElementHandle) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &playwrightElement{handle: h, driver: d})
	}
	return elements
}

// ExecuteScript - evaluates a JavaScript expression in the page
func (d *playwrightDriver) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	result, err := d.currentPage().Evaluate(script)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// Screenshot - takes a screenshot of the current viewport
func (d *playwrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	return d.currentPage().Screenshot()
}

// PageSource - returns the serialized DOM of the current page
func (d *playwrightDriver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(err)
	}
	return d.currentPage().Content()
}

// CurrentURL - returns the current page URL
func (d *playwrightDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.currentPage().URL(), nil
}

// Title - returns the current page title
func (d *playwrightDriver) Title(ctx context.Context) (string, error) {
	return d.currentPage().Title()
}

// saveState - saves cookies and local storage for the next run
func (d *playwrightDriver) saveState() error {
	if d.context == nil || d.storagePath == "" {
		return nil
	}
	if _, err := d.context.StorageState(d.storagePath); err != nil && !isClosedError(err) {
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - saves state and shuts the browser down
func (d *playwrightDriver) Close() error {
	closeErr := d.saveState()

	if d.context != nil {
		if err := d.context.Close(); err != nil && !isClosedError(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		d.context = nil
	}

	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !isClosedError(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		d.browser = nil
	}

	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		d.pw = nil
	}

	return closeErr
}

// playwrightSelector - translates a locator step into a playwright selector
func playwrightSelector(kind entities.LocatorKind, value string, scoped bool) (string, error) {
	qk, query, err := toQuery(kind, value, scoped)
	if err != nil {
		return "", err
	}
	if qk == queryXPath {
		return "xpath=" + query, nil
	}
	return "css=" + query, nil
}

type playwrightElement struct {
	handle playwright.ElementHandle
	driver *playwrightDriver
}

func (e *playwrightElement) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	selector, err := playwrightSelector(kind, value, true)
	if err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, classify(err)
	}
	return e.driver.wrap(handles), nil
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.handle.IsVisible()
	return visible, classify(err)
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.handle.IsEnabled()
	return enabled, classify(err)
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return classify(e.handle.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	return classify(e.handle.Fill("", playwright.ElementHandleFillOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	return classify(e.handle.Type(text, playwright.ElementHandleTypeOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}

func (e *playwrightElement) SelectByValue(ctx context.Context, value string) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{
		Values: playwright.StringSlice(value),
	}, playwright.ElementHandleSelectOptionOptions{
		Timeout: playwright.Float(e.driver.timeout),
	})
	return classify(err)
}

func (e *playwrightElement) SetFiles(ctx context.Context, paths ...string) error {
	return classify(e.handle.SetInputFiles(paths))
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	text, err := e.handle.InnerText()
	return text, classify(err)
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.handle.GetAttribute(name)
	return value, classify(err)
}

func (e *playwrightElement) ScrollIntoView(ctx context.Context) error {
	return classify(e.handle.ScrollIntoViewIfNeeded(playwright.ElementHandleScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(e.driver.timeout),
	}))
}
