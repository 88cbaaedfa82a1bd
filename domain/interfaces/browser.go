package interfaces

import (
	"context"

	"route_automation/domain/entities"
)

// BrowserController defines the page operations the route extraction needs
type BrowserController interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// FindElements returns every element currently matched by the locator.
	// No match is an empty slice, not an error.
	FindElements(ctx context.Context, locator entities.Locator) ([]Element, error)

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// FullPageScreenshot resizes to the full content size and writes a PNG to path
	FullPageScreenshot(ctx context.Context, path string) error

	// Close closes the browser
	Close() error
}

// Element is a live handle to a page element, valid for the current session only
type Element interface {
	Click(ctx context.Context) error

	// Fill clears the element and types text into it
	Fill(ctx context.Context, text string) error

	// Press sends a single named key, e.g. "Enter"
	Press(ctx context.Context, key string) error

	Text(ctx context.Context) (string, error)
	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
}
