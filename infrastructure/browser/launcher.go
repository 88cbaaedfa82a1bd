// Package browser adapts playwright and selenium to the BrowserController
// interface used by the directions extractor.
package browser

import (
	"fmt"

	"route_automation/domain/interfaces"
	"route_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// Launch - starts the browser backend selected in cfg
func Launch(cfg config.Config, logger *logrus.Logger) (interfaces.BrowserController, error) {
	switch cfg.Backend {
	case config.BackendPlaywright:
		return NewPlaywrightController(cfg, logger)
	case config.BackendSelenium:
		return NewSeleniumController(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown browser backend %q", cfg.Backend)
	}
}
