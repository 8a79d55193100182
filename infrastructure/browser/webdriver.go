package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"go.uber.org/multierr"

	"course_e2e/domain/entities"
	"course_e2e/domain/interfaces"
)

type webDriver struct {
	wd      selenium.WebDriver
	service *selenium.Service
	engine  Engine
	logger  logrus.FieldLogger
}

var (
	chromeDriverPaths = []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
	}
	geckoDriverPaths = []string{
		"/usr/local/bin/geckodriver",
		"/usr/bin/geckodriver",
		"/opt/homebrew/bin/geckodriver",
	}
)

// findDriverBinary - finds the chromedriver/geckodriver executable
func findDriverBinary(explicit string, engine Engine) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("driver binary %s does not exist", explicit)
	}

	name, candidates := "chromedriver", chromeDriverPaths
	if engine == EngineFirefox {
		name, candidates = "geckodriver", geckoDriverPaths
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "bin", name))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("%s not found. Please install it or set E2E_WEBDRIVER_DRIVER_PATH", name)
}

// NewWebDriver - creates a W3C WebDriver session, starting a local driver
// service unless a remote hub URL is configured
func NewWebDriver(opts Options, logger logrus.FieldLogger) (interfaces.Driver, error) {
	engine, forceHeadless := ParseBrowser(opts.Browser)
	if engine == EngineWebKit {
		return nil, fmt.Errorf("webdriver backend supports chrome and firefox, not %s", opts.Browser)
	}
	headless := opts.Headless || forceHeadless

	caps := selenium.Capabilities{"browserName": "chrome"}
	windowSize := fmt.Sprintf("--window-size=%d,%d", opts.Width, opts.Height)

	if engine == EngineFirefox {
		caps["browserName"] = "firefox"
		ffCaps := firefox.Capabilities{
			Args: []string{fmt.Sprintf("--width=%d", opts.Width), fmt.Sprintf("--height=%d", opts.Height)},
		}
		if headless {
			ffCaps.Args = append(ffCaps.Args, "-headless")
		}
		if opts.BrowserPath != "" {
			ffCaps.Binary = opts.BrowserPath
		}
		caps.AddFirefox(ffCaps)
	} else {
		chromeCaps := chrome.Capabilities{
			Args: []string{
				"--disable-dev-shm-usage",
				"--no-sandbox",
				windowSize,
			},
		}
		if headless {
			chromeCaps.Args = append(chromeCaps.Args, "--headless=new", "--disable-gpu")
		}
		if opts.BrowserPath != "" {
			chromeCaps.Path = opts.BrowserPath
		}
		caps.AddChrome(chromeCaps)
	}

	d := &webDriver{engine: engine, logger: logger}

	hubURL := opts.WebDriverURL
	if hubURL == "" {
		driverPath, err := findDriverBinary(opts.DriverPath, engine)
		if err != nil {
			return nil, err
		}
		logger.Infof("Using driver at: %s", driverPath)

		var service *selenium.Service
		if engine == EngineFirefox {
			service, err = selenium.NewGeckoDriverService(driverPath, opts.DriverPort)
		} else {
			service, err = selenium.NewChromeDriverService(driverPath, opts.DriverPort)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to start driver service: %w", err)
		}
		d.service = service
		hubURL = fmt.Sprintf("http://localhost:%d/wd/hub", opts.DriverPort)
		if engine == EngineFirefox {
			hubURL = fmt.Sprintf("http://localhost:%d", opts.DriverPort)
		}
	}

	wd, err := selenium.NewRemote(caps, hubURL)
	if err != nil {
		if d.service != nil {
			d.service.Stop()
		}
		return nil, fmt.Errorf("failed to create webdriver session: %w", err)
	}
	d.wd = wd

	return d, nil
}

// Name - returns backend and engine
func (d *webDriver) Name() string {
	return "webdriver/" + string(d.engine)
}

// Navigate - navigates browser to specified URL
func (d *webDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, classify(err))
	}
	return nil
}

// FindElements - runs one query; an empty result is not an error
func (d *webDriver) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	by, query, err := seleniumBy(kind, value)
	if err != nil {
		return nil, err
	}
	found, err := d.wd.FindElements(by, query)
	if err != nil {
		if entities.KindOf(classify(err)) == entities.FailureNotFound {
			return nil, nil
		}
		return nil, classify(err)
	}
	return d.wrap(found), nil
}

func (d *webDriver) wrap(found []selenium.WebElement) []interfaces.Element {
	elements := make([]interfaces.Element, 0, len(found))
	for _, we := range found {
		elements = append(elements, &webElement{we: we, driver: d})
	}
	return elements
}

// ExecuteScript - runs a JavaScript expression and returns its value
func (d *webDriver) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	return d.executeScript(ctx, "return "+script+";", nil)
}

func (d *webDriver) executeScript(ctx context.Context, script string, args []interface{}) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	result, err := d.wd.ExecuteScript(script, args)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// Screenshot - takes screenshot of current page
func (d *webDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.wd.Screenshot()
}

// PageSource - returns the current DOM
func (d *webDriver) PageSource(ctx context.Context) (string, error) {
	return d.wd.PageSource()
}

// CurrentURL - returns current page URL
func (d *webDriver) CurrentURL(ctx context.Context) (string, error) {
	return d.wd.CurrentURL()
}

// Title - returns current page title
func (d *webDriver) Title(ctx context.Context) (string, error) {
	return d.wd.Title()
}

// Close - ends the session and stops the driver service
func (d *webDriver) Close() error {
	var closeErr error
	if d.wd != nil {
		if err := d.wd.Quit(); err != nil && !isClosedError(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to quit session: %w", err))
		}
		d.wd = nil
	}
	if d.service != nil {
		if err := d.service.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop driver service: %w", err))
		}
		d.service = nil
	}
	return closeErr
}

// seleniumBy - maps a locator kind to a native WebDriver strategy
func seleniumBy(kind entities.LocatorKind, value string) (string, string, error) {
	switch kind {
	case entities.LocatorID:
		return selenium.ByID, value, nil
	case entities.LocatorName:
		return selenium.ByName, value, nil
	case entities.LocatorXPath:
		return selenium.ByXPATH, value, nil
	case entities.LocatorCSS:
		return selenium.ByCSSSelector, value, nil
	case entities.LocatorClass:
		// compound class names are not valid for the class-name strategy
		return selenium.ByCSSSelector, classSelector(value), nil
	case entities.LocatorLinkText:
		return selenium.ByLinkText, value, nil
	case entities.LocatorPartialLinkText:
		return selenium.ByPartialLinkText, value, nil
	}
	return "", "", entities.MarkFailure(entities.FailureUnexpected, fmt.Errorf("locator kind %q not supported", kind))
}

type webElement struct {
	we     selenium.WebElement
	driver *webDriver
}

func (e *webElement) FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]interfaces.Element, error) {
	by, query, err := seleniumBy(kind, value)
	if err != nil {
		return nil, err
	}
	found, err := e.we.FindElements(by, query)
	if err != nil {
		if entities.KindOf(classify(err)) == entities.FailureNotFound {
			return nil, nil
		}
		return nil, classify(err)
	}
	return e.driver.wrap(found), nil
}

func (e *webElement) IsDisplayed(ctx context.Context) (bool, error) {
	displayed, err := e.we.IsDisplayed()
	return displayed, classify(err)
}

func (e *webElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.we.IsEnabled()
	return enabled, classify(err)
}

func (e *webElement) Click(ctx context.Context) error {
	return classify(e.we.Click())
}

func (e *webElement) Clear(ctx context.Context) error {
	return classify(e.we.Clear())
}

func (e *webElement) SendKeys(ctx context.Context, text string) error {
	return classify(e.we.SendKeys(text))
}

// SelectByValue - clicks the option carrying value inside a <select>
func (e *webElement) SelectByValue(ctx context.Context, value string) error {
	option, err := e.we.FindElement(selenium.ByXPATH, ".//option[@value="+entities.XPathLiteral(value)+"]")
	if err != nil {
		return classify(err)
	}
	return classify(option.Click())
}

// SetFiles - file inputs take the local path as keystrokes
func (e *webElement) SetFiles(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if err := e.we.SendKeys(p); err != nil {
			return classify(err)
		}
	}
	return nil
}

func (e *webElement) Text(ctx context.Context) (string, error) {
	text, err := e.we.Text()
	return text, classify(err)
}

func (e *webElement) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.we.GetAttribute(name)
	return value, classify(err)
}

func (e *webElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.driver.executeScript(ctx,
		"arguments[0].scrollIntoView({block: 'center', inline: 'center'});",
		[]interface{}{e.we})
	return err
}
