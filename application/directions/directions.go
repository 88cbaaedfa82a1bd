// Package directions drives the mapping site through a directions request and
// collects the turn-by-turn instructions.
package directions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"route_automation/application/locator"
	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Timeouts bounds every wait of a run
type Timeouts struct {
	Consent          time.Duration
	DirectionsButton time.Duration
	LocationInput    time.Duration
	DirectionsURL    time.Duration
	RouteCards       time.Duration
	StepsToggle      time.Duration
	Steps            time.Duration
}

// DefaultTimeouts returns the timeouts used for real runs
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Consent:          5 * time.Second,
		DirectionsButton: 25 * time.Second,
		LocationInput:    25 * time.Second,
		DirectionsURL:    30 * time.Second,
		RouteCards:       30 * time.Second,
		StepsToggle:      5 * time.Second,
		Steps:            60 * time.Second,
	}
}

// Extractor runs one directions extraction against a browser
type Extractor struct {
	browser        interfaces.BrowserController
	locator        *locator.Locator
	store          interfaces.InstructionStore
	screenshotPath string
	timeouts       Timeouts
	logger         logrus.FieldLogger
}

// Option configures an Extractor
type Option func(*extractorOptions)

type extractorOptions struct {
	timeouts     Timeouts
	pollInterval time.Duration
}

// WithTimeouts overrides DefaultTimeouts
func WithTimeouts(timeouts Timeouts) Option {
	return func(o *extractorOptions) {
		o.timeouts = timeouts
	}
}

// WithPollInterval overrides the locator poll interval
func WithPollInterval(interval time.Duration) Option {
	return func(o *extractorOptions) {
		o.pollInterval = interval
	}
}

// NewExtractor - creates new extractor instance
func NewExtractor(browser interfaces.BrowserController, store interfaces.InstructionStore, screenshotPath string, logger logrus.FieldLogger, opts ...Option) *Extractor {
	o := extractorOptions{
		timeouts:     DefaultTimeouts(),
		pollInterval: locator.DefaultInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Extractor{
		browser:        browser,
		locator:        locator.New(browser, logger, locator.WithInterval(o.pollInterval)),
		store:          store,
		screenshotPath: screenshotPath,
		timeouts:       o.timeouts,
		logger:         logger,
	}
}

// Run - requests directions for req and writes the spreadsheet and screenshot
func (e *Extractor) Run(ctx context.Context, req entities.RouteRequest) (*entities.RouteResult, error) {
	e.logger.Infof("Opening %s", req.MapsURL)
	if err := e.browser.Navigate(ctx, req.MapsURL); err != nil {
		return nil, fmt.Errorf("open maps: %w", err)
	}

	dismissed, err := e.locator.TryClickOptional(ctx, ConsentButtons, e.timeouts.Consent)
	if err != nil {
		return nil, fmt.Errorf("dismiss consent dialog: %w", err)
	}
	if dismissed {
		e.logger.Info("Dismissed consent dialog")
	}

	button, err := e.locator.FirstClickable(ctx, DirectionsButtons, e.timeouts.DirectionsButton)
	if err != nil {
		return nil, fmt.Errorf("find directions button: %w", err)
	}
	if err := button.Click(ctx); err != nil {
		return nil, fmt.Errorf("click directions button: %w", err)
	}
	e.logger.Info("Clicked Directions")

	if err := e.enterLocation(ctx, StartInputs, req.Origin); err != nil {
		return nil, fmt.Errorf("enter starting point: %w", err)
	}
	e.logger.Infof("Entered starting location: %s", req.Origin)

	if err := e.enterLocation(ctx, DestinationInputs, req.Destination); err != nil {
		return nil, fmt.Errorf("enter destination: %w", err)
	}
	e.logger.Infof("Entered destination: %s", req.Destination)

	if err := e.locator.WaitForURL(ctx, DirectionsURLMarker, e.timeouts.DirectionsURL); err != nil {
		return nil, fmt.Errorf("wait for directions view: %w", err)
	}

	// No route cards is fatal, unlike missing steps below.
	cards, err := e.locator.All(ctx, RouteCards, e.timeouts.RouteCards)
	if err != nil {
		return nil, fmt.Errorf("no routes found for the provided locations: %w", err)
	}
	if err := cards[0].Click(ctx); err != nil {
		return nil, fmt.Errorf("select route: %w", err)
	}
	e.logger.Info("Selected first available route")

	expanded, err := e.locator.TryClickOptional(ctx, StepsToggles, e.timeouts.StepsToggle)
	if err != nil {
		return nil, fmt.Errorf("expand steps panel: %w", err)
	}
	if expanded {
		e.logger.Debug("Expanded steps panel")
	}

	texts, err := e.stepTexts(ctx)
	if err != nil {
		return nil, err
	}

	instructions := entities.NumberInstructions(FilterStepTexts(texts))
	if len(instructions) == 0 {
		e.logger.Warn("No step-by-step instructions were found")
	} else {
		e.logger.Infof("Captured %d instructions", len(instructions))
	}

	if err := e.store.SaveInstructions(instructions); err != nil {
		return nil, fmt.Errorf("save instructions: %w", err)
	}
	e.logger.Infof("Saved instructions to %s", e.store.Path())

	if err := e.browser.FullPageScreenshot(ctx, e.screenshotPath); err != nil {
		return nil, fmt.Errorf("save screenshot: %w", err)
	}
	e.logger.Infof("Saved screenshot to %s", e.screenshotPath)

	return &entities.RouteResult{
		Instructions:    instructions,
		SpreadsheetPath: e.store.Path(),
		ScreenshotPath:  e.screenshotPath,
	}, nil
}

// enterLocation - types text into the first matching input and submits it
func (e *Extractor) enterLocation(ctx context.Context, candidates []entities.Locator, text string) error {
	input, err := e.locator.First(ctx, candidates, e.timeouts.LocationInput)
	if err != nil {
		return err
	}
	if err := input.Fill(ctx, text); err != nil {
		return err
	}
	return input.Press(ctx, "Enter")
}

// stepTexts - reads the step elements, falling back to none when they never appear
func (e *Extractor) stepTexts(ctx context.Context) ([]string, error) {
	steps, err := e.locator.All(ctx, StepElements, e.timeouts.Steps)
	if errors.Is(err, failure.ErrTimeout) {
		e.logger.Warn("No step elements found after waiting. Proceeding with empty list.")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find step elements: %w", err)
	}

	texts := make([]string, 0, len(steps))
	for _, step := range steps {
		text, err := step.Text(ctx)
		if err != nil {
			return nil, fmt.Errorf("read step text: %w", err)
		}
		texts = append(texts, text)
	}
	return texts, nil
}
