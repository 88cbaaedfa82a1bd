package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"
	"route_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"go.uber.org/multierr"
)

const chromeDriverPort = 9515

// fullSizeSeleniumScript returns [width, height] of the rendered content
const fullSizeSeleniumScript = `
	var doc = document.documentElement;
	var body = document.body || doc;
	return [
		Math.max(doc.scrollWidth, body.scrollWidth, doc.clientWidth),
		Math.max(doc.scrollHeight, body.scrollHeight, doc.clientHeight)
	];
`

// seleniumKeys maps key names to WebDriver key codes
var seleniumKeys = map[string]string{
	"Enter":  selenium.EnterKey,
	"Tab":    selenium.TabKey,
	"Escape": selenium.EscapeKey,
}

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// chromeArgs - builds the Chrome command line for a run
func chromeArgs(headless bool) []string {
	args := []string{
		"--start-maximized",
		"--disable-notifications",
	}
	if headless {
		args = append(args, "--headless=new", "--window-size=1280,800")
	}
	return args
}

// NewSeleniumController - starts ChromeDriver and opens a Chrome session
func NewSeleniumController(cfg config.Config, logger *logrus.Logger) (*SeleniumController, error) {
	driverPath, err := findChromeDriver(cfg.DriverPath)
	if err != nil {
		return nil, failure.Driver("find chromedriver", err)
	}

	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(cfg.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	service, err := selenium.NewChromeDriverService(driverPath, chromeDriverPort)
	if err != nil {
		return nil, failure.Driver("start chromedriver", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	chromeCaps := chrome.Capabilities{
		Args: chromeArgs(cfg.Headless),
	}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", chromeDriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, failure.Driver("create webdriver", fmt.Errorf("Chrome browser not found, install Google Chrome or set CHROME_BINARY_PATH: %w", err))
		}
		return nil, failure.Driver("create webdriver", err)
	}

	return &SeleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	return failure.Driver("navigate", s.wd.Get(url))
}

// FindElements - returns every element matched by the locator
func (s *SeleniumController) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	by, err := seleniumBy(locator)
	if err != nil {
		return nil, err
	}

	found, err := s.wd.FindElements(by, locator.Value)
	if err != nil {
		return nil, failure.Driver("find "+locator.String(), err)
	}

	elements := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &seleniumElement{el: el})
	}
	return elements, nil
}

// CurrentURL - returns current page URL
func (s *SeleniumController) CurrentURL(ctx context.Context) (string, error) {
	url, err := s.wd.CurrentURL()
	if err != nil {
		return "", failure.Driver("current url", err)
	}
	return url, nil
}

// FullPageScreenshot - resizes the window to the content size and saves a PNG
func (s *SeleniumController) FullPageScreenshot(ctx context.Context, path string) error {
	result, err := s.wd.ExecuteScript(fullSizeSeleniumScript, nil)
	if err != nil {
		return failure.Driver("measure page", err)
	}

	dims, ok := result.([]interface{})
	if !ok || len(dims) != 2 {
		return fmt.Errorf("unexpected page size result: %v", result)
	}
	width, height := toInt(dims[0]), toInt(dims[1])
	if width > 0 && height > 0 {
		if err := s.wd.ResizeWindow("", width, height); err != nil {
			return failure.Driver("resize window", err)
		}
		s.logger.Debugf("Resized window to %dx%d", width, height)
	}

	data, err := s.wd.Screenshot()
	if err != nil {
		return failure.Driver("screenshot", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var closeErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to quit webdriver: %w", err))
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
		s.service = nil
	}
	return closeErr
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return failure.Driver("click", e.el.Click())
}

func (e *seleniumElement) Fill(ctx context.Context, text string) error {
	if err := e.el.Clear(); err != nil {
		return failure.Driver("clear", err)
	}
	return failure.Driver("type", e.el.SendKeys(text))
}

func (e *seleniumElement) Press(ctx context.Context, key string) error {
	code, ok := seleniumKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	return failure.Driver("press "+key, e.el.SendKeys(code))
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Text()
	if err != nil {
		return "", failure.Driver("read text", err)
	}
	return text, nil
}

func (e *seleniumElement) IsVisible(ctx context.Context) (bool, error) {
	visible, err := e.el.IsDisplayed()
	if err != nil {
		return false, failure.Driver("check visibility", err)
	}
	return visible, nil
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.el.IsEnabled()
	if err != nil {
		return false, failure.Driver("check enabled", err)
	}
	return enabled, nil
}

// seleniumBy - maps a locator strategy to a WebDriver "by" value
func seleniumBy(locator entities.Locator) (string, error) {
	switch locator.Strategy {
	case entities.StrategyCSS:
		return selenium.ByCSSSelector, nil
	case entities.StrategyXPath:
		return selenium.ByXPATH, nil
	default:
		return "", fmt.Errorf("unsupported locator strategy %q", locator.Strategy)
	}
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return 0
}

// Ensure SeleniumController implements BrowserController interface
var _ interfaces.BrowserController = (*SeleniumController)(nil)
