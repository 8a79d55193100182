package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"course_e2e/domain/interfaces"
	"course_e2e/infrastructure/config"
)

// Options carries the launch parameters shared by every backend
type Options struct {
	Browser          string
	Headless         bool
	SlowMo           time.Duration
	Width            int
	Height           int
	ActionTimeout    time.Duration
	StorageStatePath string

	WebDriverURL string
	DriverPath   string
	DriverPort   int
	BrowserPath  string
}

// OptionsFromConfig maps the suite configuration onto launch options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Browser:          cfg.Browser,
		Headless:         cfg.Headless,
		SlowMo:           cfg.SlowMo,
		Width:            cfg.WindowWidth,
		Height:           cfg.WindowHeight,
		ActionTimeout:    defaultActionTimeout,
		StorageStatePath: cfg.StorageStatePath,
		WebDriverURL:     cfg.WebDriver.URL,
		DriverPath:       cfg.WebDriver.DriverPath,
		DriverPort:       cfg.WebDriver.Port,
		BrowserPath:      cfg.WebDriver.BrowserPath,
	}
}

// defaultActionTimeout bounds a single action on an already resolved element
const defaultActionTimeout = 3 * time.Second

// Engine is the browser family a backend should launch
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebKit   Engine = "webkit"
)

// ParseBrowser maps a browser name to an engine and headless override.
// "chrome-headless" forces headless; unknown names fall back to chromium.
func ParseBrowser(name string) (engine Engine, forceHeadless bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "chrome-headless":
		return EngineChromium, true
	case strings.Contains(name, "firefox"):
		return EngineFirefox, strings.HasSuffix(name, "-headless")
	case name == "webkit" || name == "safari":
		return EngineWebKit, false
	}
	return EngineChromium, false
}

// NewDriver creates the driver selected by cfg.Driver
func NewDriver(cfg *config.Config, logger logrus.FieldLogger) (interfaces.Driver, error) {
	opts := OptionsFromConfig(cfg)
	switch cfg.Driver {
	case config.DriverPlaywright:
		return NewPlaywrightDriver(opts, logger)
	case config.DriverWebDriver:
		return NewWebDriver(opts, logger)
	case config.DriverRod:
		return NewRodDriver(opts, logger)
	}
	return nil, fmt.Errorf("driver %q not supported", cfg.Driver)
}
