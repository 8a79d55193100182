package interfaces

import (
	"context"

	"course_e2e/domain/entities"
)

// Driver defines the browser session the automation layer drives.
// Implementations translate native failures into the entities failure
// sentinels (ErrStale, ErrIntercepted, ...).
type Driver interface {
	// Navigate loads a URL in the current page
	Navigate(ctx context.Context, url string) error

	// FindElements runs a single query without waiting
	FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]Element, error)

	// ExecuteScript evaluates a JavaScript expression and returns its value
	ExecuteScript(ctx context.Context, script string) (interface{}, error)

	// Screenshot captures the current viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// PageSource returns the serialized DOM
	PageSource(ctx context.Context) (string, error)

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// Name identifies the backend and browser, e.g. "playwright/chromium"
	Name() string

	// Close ends the browser session
	Close() error
}

// Element is a handle to a resolved DOM node. Handles may go stale.
type Element interface {
	FindElements(ctx context.Context, kind entities.LocatorKind, value string) ([]Element, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	SelectByValue(ctx context.Context, value string) error
	SetFiles(ctx context.Context, paths ...string) error
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	ScrollIntoView(ctx context.Context) error
}
