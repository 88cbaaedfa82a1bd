// Package locator resolves page elements from ranked lists of candidate
// locators. Each wait polls the page at a fixed interval until one candidate
// yields a usable result or the deadline passes.
package locator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the poll interval used when none is configured
const DefaultInterval = 250 * time.Millisecond

// Locator polls a browser page for elements
type Locator struct {
	browser  interfaces.BrowserController
	logger   logrus.FieldLogger
	interval time.Duration
}

// Option configures a Locator
type Option func(*Locator)

// WithInterval sets the poll interval
func WithInterval(interval time.Duration) Option {
	return func(l *Locator) {
		if interval > 0 {
			l.interval = interval
		}
	}
}

// New creates a locator bound to browser
func New(browser interfaces.BrowserController, logger logrus.FieldLogger, opts ...Option) *Locator {
	l := &Locator{
		browser:  browser,
		logger:   logger,
		interval: DefaultInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// First returns the first element matched by the first candidate that has any match
func (l *Locator) First(ctx context.Context, candidates []entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	return poll(ctx, l, timeout, describe(candidates), func(ctx context.Context) (interfaces.Element, bool, error) {
		for _, candidate := range candidates {
			elements, err := l.browser.FindElements(ctx, candidate)
			if err != nil {
				return nil, false, err
			}
			if len(elements) > 0 {
				l.logger.Debugf("Matched %s", candidate)
				return elements[0], true, nil
			}
		}
		return nil, false, nil
	})
}

// FirstClickable returns the first element, scanning candidates in order, that is
// both visible and enabled. Matched but unusable elements are skipped.
func (l *Locator) FirstClickable(ctx context.Context, candidates []entities.Locator, timeout time.Duration) (interfaces.Element, error) {
	return poll(ctx, l, timeout, "clickable "+describe(candidates), func(ctx context.Context) (interfaces.Element, bool, error) {
		for _, candidate := range candidates {
			elements, err := l.browser.FindElements(ctx, candidate)
			if err != nil {
				return nil, false, err
			}
			for _, element := range elements {
				if l.clickable(ctx, element) {
					l.logger.Debugf("Matched clickable %s", candidate)
					return element, true, nil
				}
			}
		}
		return nil, false, nil
	})
}

// All returns every element matched by the first candidate that has any match.
// Matches are never merged across candidates.
func (l *Locator) All(ctx context.Context, candidates []entities.Locator, timeout time.Duration) ([]interfaces.Element, error) {
	return poll(ctx, l, timeout, describe(candidates), func(ctx context.Context) ([]interfaces.Element, bool, error) {
		for _, candidate := range candidates {
			elements, err := l.browser.FindElements(ctx, candidate)
			if err != nil {
				return nil, false, err
			}
			if len(elements) > 0 {
				l.logger.Debugf("Matched %d elements for %s", len(elements), candidate)
				return elements, true, nil
			}
		}
		return nil, false, nil
	})
}

// TryClickOptional clicks the first clickable candidate. A timeout means the
// element is absent and reports false without an error.
func (l *Locator) TryClickOptional(ctx context.Context, candidates []entities.Locator, timeout time.Duration) (bool, error) {
	element, err := l.FirstClickable(ctx, candidates, timeout)
	if errors.Is(err, failure.ErrTimeout) {
		l.logger.Debugf("Optional element absent: %s", describe(candidates))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := element.Click(ctx); err != nil {
		return false, fmt.Errorf("click optional element: %w", err)
	}
	return true, nil
}

// WaitForURL waits until the current URL contains substr
func (l *Locator) WaitForURL(ctx context.Context, substr string, timeout time.Duration) error {
	_, err := poll(ctx, l, timeout, fmt.Sprintf("url containing %q", substr), func(ctx context.Context) (string, bool, error) {
		url, err := l.browser.CurrentURL(ctx)
		if err != nil {
			return "", false, err
		}
		return url, strings.Contains(url, substr), nil
	})
	return err
}

// clickable treats a failed probe (usually a stale handle) as not usable
func (l *Locator) clickable(ctx context.Context, element interfaces.Element) bool {
	visible, err := element.IsVisible(ctx)
	if err != nil {
		l.logger.Debugf("Visibility probe failed: %v", err)
		return false
	}
	if !visible {
		return false
	}
	enabled, err := element.IsEnabled(ctx)
	if err != nil {
		l.logger.Debugf("Enabled probe failed: %v", err)
		return false
	}
	return enabled
}

// poll runs check until it reports a match, returns an error, or the deadline passes.
// check always runs at least once.
func poll[T any](ctx context.Context, l *Locator, timeout time.Duration, what string, check func(context.Context) (T, bool, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)

	for {
		value, ok, err := check(ctx)
		if err != nil {
			return zero, err
		}
		if ok {
			return value, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return zero, failure.Timeoutf("%s after %s", what, timeout)
		}

		wait := l.interval
		if remaining < wait {
			wait = remaining
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

func describe(candidates []entities.Locator) string {
	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts = append(parts, c.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
