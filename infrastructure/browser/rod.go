package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// NewRodDriver - launches a local Chromium over the DevTools protocol
func NewRodDriver(opts Options, logger logrus.FieldLogger) (interfaces.Driver, error) {
	engine, forceHeadless := ParseBrowser(opts.Browser)
	if engine != EngineChromium {
		return nil, fmt.Errorf("rod backend supports chromium only, not %s", opts.Browser)
	}

	l := launcher.New().
		Headless(opts.Headless || forceHeadless).
		Set("disable-dev-shm-usage").
		Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))
	if opts.BrowserPath != "" {
		l = l.Bin(opts.BrowserPath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}
	logger.WithField("control_url", controlURL).Debug("Chromium launched")

	browser := rod.New().ControlURL(controlURL)
	if opts.SlowMo > 0 {
		browser = browser.SlowMotion(opts.SlowMo)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to chromium: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  opts.Width,
		Height: opts.Height,
	}); err != nil {
		logger.WithError(err).Warn("Failed to set viewport")
	}

	return &rodDriver{
		launcher: l,
		browser:  browser,
		page:     page,
		timeout:  opts.ActionTimeout,
		logger:   logger,
	}, nil
}

// Name - returns backend and engine
func (d *rodDriver) Name() string {
	return "rod/" + string(EngineChromium)
}

// Navigate - navigates to url and waits for the load event
func (d *rodDriver) Navigate(ctx context.Context, url string) error {
	page := d.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, classifyRod(ctx, err))
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to load %s: %w", url, classifyRod(ctx, err))
	}
	return nil
}

// FindElements - queries the page once; rod only retries on the Must/Element helpers
func (d *rodDriver) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	qk, query, err := toQuery(kind, value, false)
	if err != nil {
		return nil, err
	}
	page := d.page.Context(ctx)

	var found rod.Elements
	if qk == queryXPath {
		found, err = page.ElementsX(query)
	} else {
		found, err = page.Elements(query)
	}
	if err != nil {
		return nil, classifyRod(ctx, err)
	}
	return d.wrap(found), nil
}

func (d *rodDriver) wrap(found rod.Elements) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &rodElement{el: el, driver: d})
	}
	return elements
}

// ExecuteScript - evaluates a JavaScript expression in the page
func (d *rodDriver) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	res, err := d.page.Context(ctx).Eval("() => (" + script + ")")
	if err != nil {
		return nil, classifyRod(ctx, err)
	}
	return res.Value.Val(), nil
}

// Screenshot - captures the current viewport as PNG
func (d *rodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

// PageSource - returns the serialized DOM
func (d *rodDriver) PageSource(ctx context.Context) (string, error) {
	return d.page.Context(ctx).HTML()
}

// CurrentURL - returns the current page URL
func (d *rodDriver) CurrentURL(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", classifyRod(ctx, err)
	}
	return info.URL, nil
}

// Title - returns the current page title
func (d *rodDriver) Title(ctx context.Context) (string, error) {
	info, err := d.page.Context(ctx).Info()
	if err != nil {
		return "", classifyRod(ctx, err)
	}
	return info.Title, nil
}

// Close - closes the browser and removes the launcher's profile dir
func (d *rodDriver) Close() error {
	var closeErr error
	if d.browser != nil {
		if err := d.browser.Close(); err != nil && !isClosedError(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		d.browser = nil
	}
	if d.launcher != nil {
		d.launcher.Kill()
		d.launcher.Cleanup()
		d.launcher = nil
	}
	return closeErr
}

// classifyRod maps rod's typed errors before falling back to message
// matching. An action deadline that expires while the caller's context is
// still live means the element never became interactable.
func classifyRod(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var (
		covered      *rod.CoveredError
		noPointer    *rod.NoPointerEventsError
		invisible    *rod.InvisibleShapeError
		notFound     *rod.ElementNotFoundError
		objectGone   *rod.ObjectNotFoundError
		interactable *rod.NotInteractableError
	)
	switch {
	case errors.As(err, &covered), errors.As(err, &noPointer), errors.As(err, &invisible), errors.As(err, &interactable):
		return entities.MarkFailure(entities.FailureIntercepted, err)
	case errors.As(err, &objectGone):
		return entities.MarkFailure(entities.FailureStale, err)
	case errors.As(err, &notFound):
		return entities.MarkFailure(entities.FailureNotFound, err)
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return entities.MarkFailure(entities.FailureIntercepted, err)
	}
	return classify(err)
}

type rodElement struct {
	el     *rod.Element
	driver *rodDriver
}

// action scopes el to the per-action timeout under ctx
func (e *rodElement) action(ctx context.Context) *rod.Element {
	el := e.el.Context(ctx)
	if e.driver.timeout > 0 {
		el = el.Timeout(e.driver.timeout)
	}
	return el
}

func (e *rodElement) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	qk, query, err := toQuery(kind, value, true)
	if err != nil {
		return nil, err
	}
	el := e.el.Context(ctx)

	var found rod.Elements
	if qk == queryXPath {
		found, err = el.ElementsX(query)
	} else {
		found, err = el.Elements(query)
	}
	if err != nil {
		return nil, classifyRod(ctx, err)
	}
	return e.driver.wrap(found), nil
}

func (e *rodElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.el.Context(ctx).Visible()
	return visible, classifyRod(ctx, err)
}

func (e *rodElement) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := e.el.Context(ctx).Disabled()
	return !disabled, classifyRod(ctx, err)
}

// Click - fails fast when covered instead of waiting out rod's interactable loop
func (e *rodElement) Click(ctx context.Context) error {
	if _, err := e.el.Context(ctx).Interactable(); err != nil {
		return classifyRod(ctx, err)
	}
	return classifyRod(ctx, e.action(ctx).Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) Clear(ctx context.Context) error {
	el := e.action(ctx)
	if err := el.SelectAllText(); err != nil {
		return classifyRod(ctx, err)
	}
	return classifyRod(ctx, el.Input(""))
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	return classifyRod(ctx, e.action(ctx).Input(text))
}

func (e *rodElement) SelectByValue(ctx context.Context, value string) error {
	return classifyRod(ctx, e.action(ctx).Select([]string{cssAttr("value", value)}, true, rod.SelectorTypeCSSSector))
}

func (e *rodElement) SetFiles(ctx context.Context, paths ...string) error {
	return classifyRod(ctx, e.action(ctx).SetFiles(paths))
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return text, classifyRod(ctx, err)
}

func (e *rodElement) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", classifyRod(ctx, err)
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

func (e *rodElement) ScrollIntoView(ctx context.Context) error {
	return classifyRod(ctx, e.action(ctx).ScrollIntoView())
}
