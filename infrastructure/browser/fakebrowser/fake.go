// Package fakebrowser is an in-memory BrowserController for tests. Elements are
// registered per locator and can be made to appear after a number of lookups.
package fakebrowser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"route_automation/domain/entities"
	"route_automation/domain/interfaces"
)

// Element is a scripted page element
type Element struct {
	mu       sync.Mutex
	name     string
	text     string
	visible  bool
	enabled  bool
	value    string
	pressed  []string
	clicks   int
	clickErr error
	probeErr error
	onClick  func()
	onPress  func(key string)
}

// NewElement creates a visible, enabled element
func NewElement(name, text string) *Element {
	return &Element{name: name, text: text, visible: true, enabled: true}
}

// Hidden marks the element as not visible
func (e *Element) Hidden() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = false
	return e
}

// Disabled marks the element as not enabled
func (e *Element) Disabled() *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = false
	return e
}

// Stale makes visibility probes fail
func (e *Element) Stale(err error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.probeErr = err
	return e
}

// FailClick makes Click return err
func (e *Element) FailClick(err error) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickErr = err
	return e
}

// OnClick registers a hook run after each successful click
func (e *Element) OnClick(fn func()) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onClick = fn
	return e
}

// OnPress registers a hook run after each key press
func (e *Element) OnPress(fn func(key string)) *Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPress = fn
	return e
}

func (e *Element) Name() string {
	return e.name
}

func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func (e *Element) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

func (e *Element) Pressed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.pressed...)
}

func (e *Element) Click(ctx context.Context) error {
	e.mu.Lock()
	if e.clickErr != nil {
		err := e.clickErr
		e.mu.Unlock()
		return err
	}
	e.clicks++
	hook := e.onClick
	e.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (e *Element) Fill(ctx context.Context, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = text
	return nil
}

func (e *Element) Press(ctx context.Context, key string) error {
	e.mu.Lock()
	e.pressed = append(e.pressed, key)
	hook := e.onPress
	e.mu.Unlock()

	if hook != nil {
		hook(key)
	}
	return nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text, nil
}

func (e *Element) IsVisible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.probeErr != nil {
		return false, e.probeErr
	}
	return e.visible, nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.probeErr != nil {
		return false, e.probeErr
	}
	return e.enabled, nil
}

type entry struct {
	elements    []*Element
	appearAfter int
}

// Browser is a scripted page
type Browser struct {
	mu            sync.Mutex
	url           string
	entries       map[entities.Locator]entry
	lookups       map[entities.Locator]int
	findErr       error
	screenshotErr error
	navigations   []string
	screenshots   []string
	closed        int
}

// New creates an empty page at about:blank
func New() *Browser {
	return &Browser{
		url:     "about:blank",
		entries: make(map[entities.Locator]entry),
		lookups: make(map[entities.Locator]int),
	}
}

// Set registers the elements matched by locator, replacing earlier ones
func (b *Browser) Set(locator entities.Locator, elements ...*Element) {
	b.SetAfter(locator, 0, elements...)
}

// SetAfter registers elements that only match once locator was looked up n times
func (b *Browser) SetAfter(locator entities.Locator, n int, elements ...*Element) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[locator] = entry{elements: elements, appearAfter: n}
}

// Remove drops every element registered for locator
func (b *Browser) Remove(locator entities.Locator) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, locator)
}

func (b *Browser) SetURL(url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
}

// FailFind makes every lookup return err
func (b *Browser) FailFind(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.findErr = err
}

// FailScreenshot makes FullPageScreenshot return err
func (b *Browser) FailScreenshot(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screenshotErr = err
}

// Lookups returns how many times locator was queried
func (b *Browser) Lookups(locator entities.Locator) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lookups[locator]
}

func (b *Browser) Navigations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.navigations...)
}

func (b *Browser) Screenshots() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.screenshots...)
}

// CloseCount returns how many times Close was called
func (b *Browser) CloseCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.navigations = append(b.navigations, url)
	b.url = url
	return nil
}

func (b *Browser) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findErr != nil {
		return nil, b.findErr
	}

	b.lookups[locator]++
	e, ok := b.entries[locator]
	if !ok || b.lookups[locator] <= e.appearAfter {
		return []interfaces.Element{}, nil
	}

	result := make([]interfaces.Element, 0, len(e.elements))
	for _, el := range e.elements {
		result = append(result, el)
	}
	return result, nil
}

func (b *Browser) CurrentURL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

// FullPageScreenshot writes a 1x1 PNG to path
func (b *Browser) FullPageScreenshot(ctx context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.screenshotErr != nil {
		return b.screenshotErr
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}

	b.screenshots = append(b.screenshots, path)
	return nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

var _ interfaces.BrowserController = (*Browser)(nil)
