package terminal

import (
	"context"
	"fmt"

	"route_automation/application/directions"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"
	"route_automation/infrastructure/browser"
	"route_automation/infrastructure/config"
	"route_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

// Launcher starts a browser session
type Launcher func(cfg config.Config, logger *logrus.Logger) (interfaces.BrowserController, error)

type TerminalInterface struct {
	cfg           config.Config
	logger        *logrus.Logger
	launch        Launcher
	extractorOpts []directions.Option
}

func NewTerminalInterface() (*TerminalInterface, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &TerminalInterface{
		cfg:    cfg,
		logger: logger,
		launch: browser.Launch,
	}, nil
}

// Run performs one extraction and returns the process exit code
func (t *TerminalInterface) Run(ctx context.Context) int {
	t.logger.Info("Starting Google Maps route extraction...")

	err := t.run(ctx)
	t.report(err)
	return failure.ExitCode(err)
}

func (t *TerminalInterface) run(ctx context.Context) error {
	browserCtrl, err := t.launch(t.cfg, t.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := browserCtrl.Close(); err != nil {
			t.logger.Warnf("Failed to close browser: %v", err)
		}
	}()

	store := storage.NewSpreadsheetStore(t.cfg.SpreadsheetPath())
	extractor := directions.NewExtractor(browserCtrl, store, t.cfg.ScreenshotPath(), t.logger, t.extractorOpts...)

	if _, err := extractor.Run(ctx, t.cfg.Route); err != nil {
		return err
	}
	return nil
}

func (t *TerminalInterface) report(err error) {
	switch failure.Classify(err) {
	case failure.KindNone:
		t.logger.Info("Done.")
	case failure.KindTimeout:
		t.logger.WithError(err).Error("Timed out waiting for a page element. Please check selectors or network.")
	case failure.KindDriver:
		t.logger.Errorf("Browser driver error: %v", err)
	default:
		t.logger.Errorf("Unexpected error: %v", err)
	}
}
