package browser

import (
	"context"
	"fmt"
	"strings"

	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"
	"route_automation/infrastructure/config"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	navigationTimeoutMs = 30000
	actionTimeoutMs     = 10000
)

// fullSizeScript measures the rendered content, not just the viewport
const fullSizeScript = `() => {
	const doc = document.documentElement;
	const body = document.body || doc;
	return {
		width: Math.max(doc.scrollWidth, body.scrollWidth, doc.clientWidth),
		height: Math.max(doc.scrollHeight, body.scrollHeight, doc.clientHeight)
	};
}`

// PlaywrightController drives Chromium through playwright
type PlaywrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logrus.Logger
}

// NewPlaywrightController - starts playwright and opens a single page
func NewPlaywrightController(cfg config.Config, logger *logrus.Logger) (*PlaywrightController, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, failure.Driver("start playwright", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--start-maximized",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, failure.Driver("launch browser", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		NoViewport: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, failure.Driver("create context", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, failure.Driver("create page", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	logger.Infof("Launched Chromium via playwright (headless=%t)", cfg.Headless)

	return &PlaywrightController{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		logger:  logger,
	}, nil
}

// Navigate - navigates to the specified URL
func (p *PlaywrightController) Navigate(ctx context.Context, url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(navigationTimeoutMs),
	})
	return failure.Driver("navigate", err)
}

// FindElements - resolves every element currently matched by the locator
func (p *PlaywrightController) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	selector, err := playwrightSelector(locator)
	if err != nil {
		return nil, err
	}

	matches := p.page.Locator(selector)
	count, err := matches.Count()
	if err != nil {
		return nil, failure.Driver("count "+locator.String(), err)
	}

	elements := make([]interfaces.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &playwrightElement{locator: matches.Nth(i)})
	}
	return elements, nil
}

// CurrentURL - returns the current page URL
func (p *PlaywrightController) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

// FullPageScreenshot - grows the viewport to the content size and captures it
func (p *PlaywrightController) FullPageScreenshot(ctx context.Context, path string) error {
	result, err := p.page.Evaluate(fullSizeScript)
	if err != nil {
		return failure.Driver("measure page", err)
	}

	size, ok := result.(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected page size result: %v", result)
	}
	width, height := getInt(size, "width"), getInt(size, "height")
	if width > 0 && height > 0 {
		if err := p.page.SetViewportSize(width, height); err != nil {
			return failure.Driver("resize viewport", err)
		}
		p.logger.Debugf("Resized viewport to %dx%d", width, height)
	}

	_, err = p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
		Type:     playwright.ScreenshotTypePng,
	})
	return failure.Driver("screenshot", err)
}

// Close - closes the context, the browser and the playwright driver
func (p *PlaywrightController) Close() error {
	var closeErr error

	if p.context != nil {
		if err := p.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		p.context = nil
	}

	if p.browser != nil {
		if err := p.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		p.browser = nil
	}

	if p.pw != nil {
		if err := p.pw.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		p.pw = nil
	}

	return closeErr
}

type playwrightElement struct {
	locator playwright.Locator
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return failure.Driver("click", e.locator.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}))
}

func (e *playwrightElement) Fill(ctx context.Context, text string) error {
	if err := e.locator.Clear(); err != nil {
		return failure.Driver("clear", err)
	}
	return failure.Driver("fill", e.locator.Fill(text, playwright.LocatorFillOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}))
}

func (e *playwrightElement) Press(ctx context.Context, key string) error {
	return failure.Driver("press "+key, e.locator.Press(key, playwright.LocatorPressOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	}))
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	text, err := e.locator.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	})
	if err != nil {
		return "", failure.Driver("read text", err)
	}
	return text, nil
}

func (e *playwrightElement) IsVisible(ctx context.Context) (bool, error) {
	visible, err := e.locator.IsVisible()
	if err != nil {
		return false, failure.Driver("check visibility", err)
	}
	return visible, nil
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.locator.IsEnabled(playwright.LocatorIsEnabledOptions{
		Timeout: playwright.Float(actionTimeoutMs),
	})
	if err != nil {
		return false, failure.Driver("check enabled", err)
	}
	return enabled, nil
}

// playwrightSelector - prefixes the value with the playwright selector engine
func playwrightSelector(locator entities.Locator) (string, error) {
	switch locator.Strategy {
	case entities.StrategyCSS:
		return "css=" + locator.Value, nil
	case entities.StrategyXPath:
		return "xpath=" + locator.Value, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", locator.Strategy)
	}
}

// isClosedErr - reports errors raised when the target is already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

// getInt - extracts integer value from map
func getInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case int64:
			return int(val)
		case float64:
			return int(val)
		}
	}
	return 0
}

var _ interfaces.BrowserController = (*PlaywrightController)(nil)
