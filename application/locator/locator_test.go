package locator

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/infrastructure/browser/fakebrowser"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	byData  = entities.CSS("button[data-value='Directions']")
	byAria  = entities.CSS("button[aria-label='Directions']")
	byXPath = entities.XPath("//button[@data-value='Directions']")
)

func newLocator(b *fakebrowser.Browser) *Locator {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(b, logger, WithInterval(5*time.Millisecond))
}

func TestFirstStopsAtFirstMatchingCandidate(t *testing.T) {
	b := fakebrowser.New()
	second := fakebrowser.NewElement("aria", "Directions")
	b.Set(byAria, second, fakebrowser.NewElement("aria-2", ""))
	b.Set(byXPath, fakebrowser.NewElement("xpath", "Directions"))

	el, err := newLocator(b).First(context.Background(), []entities.Locator{byData, byAria, byXPath}, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, second, el)
	assert.Equal(t, 1, b.Lookups(byData))
	assert.Equal(t, 0, b.Lookups(byXPath))
}

func TestFirstIgnoresUsability(t *testing.T) {
	b := fakebrowser.New()
	hidden := fakebrowser.NewElement("hidden", "").Hidden()
	b.Set(byAria, hidden)
	b.Set(byXPath, fakebrowser.NewElement("visible", ""))

	el, err := newLocator(b).First(context.Background(), []entities.Locator{byData, byAria, byXPath}, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, hidden, el)
}

func TestFirstTimesOut(t *testing.T) {
	b := fakebrowser.New()

	start := time.Now()
	_, err := newLocator(b).First(context.Background(), []entities.Locator{byData, byAria}, 40*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure.ErrTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Greater(t, b.Lookups(byData), 1)
}

func TestFirstWithNoCandidatesTimesOut(t *testing.T) {
	_, err := newLocator(fakebrowser.New()).First(context.Background(), nil, 10*time.Millisecond)
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestFirstClickableSkipsUnusableElements(t *testing.T) {
	b := fakebrowser.New()
	usable := fakebrowser.NewElement("usable", "")
	b.Set(byData, fakebrowser.NewElement("hidden", "").Hidden(), fakebrowser.NewElement("disabled", "").Disabled())
	b.Set(byAria, fakebrowser.NewElement("stale", "").Stale(errors.New("stale element reference")), usable)

	el, err := newLocator(b).FirstClickable(context.Background(), []entities.Locator{byData, byAria, byXPath}, 100*time.Millisecond)
	require.NoError(t, err)
	assert.Same(t, usable, el)
	assert.Equal(t, 0, b.Lookups(byXPath))
}

func TestFirstClickableTimesOutWhenNothingQualifies(t *testing.T) {
	b := fakebrowser.New()
	b.Set(byData, fakebrowser.NewElement("hidden", "").Hidden())
	b.Set(byAria, fakebrowser.NewElement("disabled", "").Disabled())

	_, err := newLocator(b).FirstClickable(context.Background(), []entities.Locator{byData, byAria}, 30*time.Millisecond)
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestFirstClickableKeepsPolling(t *testing.T) {
	b := fakebrowser.New()
	late := fakebrowser.NewElement("late", "")
	b.SetAfter(byAria, 3, late)

	el, err := newLocator(b).FirstClickable(context.Background(), []entities.Locator{byData, byAria}, time.Second)
	require.NoError(t, err)
	assert.Same(t, late, el)
	assert.Equal(t, 4, b.Lookups(byAria))
}

func TestAllReturnsOnlyFirstMatchingCandidate(t *testing.T) {
	b := fakebrowser.New()
	first := fakebrowser.NewElement("card-0", "")
	second := fakebrowser.NewElement("card-1", "").Hidden()
	b.Set(byAria, first, second)
	b.Set(byXPath, fakebrowser.NewElement("other", ""))

	elements, err := newLocator(b).All(context.Background(), []entities.Locator{byData, byAria, byXPath}, 100*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Same(t, first, elements[0])
	assert.Same(t, second, elements[1])
}

func TestAllTimesOut(t *testing.T) {
	_, err := newLocator(fakebrowser.New()).All(context.Background(), []entities.Locator{byData}, 20*time.Millisecond)
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestTryClickOptional(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		clicked, err := newLocator(fakebrowser.New()).TryClickOptional(context.Background(), []entities.Locator{byData, byAria}, 20*time.Millisecond)
		require.NoError(t, err)
		assert.False(t, clicked)
	})

	t.Run("present", func(t *testing.T) {
		b := fakebrowser.New()
		button := fakebrowser.NewElement("accept", "Accept all")
		b.Set(byAria, button)

		clicked, err := newLocator(b).TryClickOptional(context.Background(), []entities.Locator{byData, byAria}, 20*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, clicked)
		assert.Equal(t, 1, button.Clicks())
	})

	t.Run("click fails", func(t *testing.T) {
		b := fakebrowser.New()
		b.Set(byData, fakebrowser.NewElement("broken", "").FailClick(failure.Driver("click", errors.New("intercepted"))))
		fallback := fakebrowser.NewElement("fallback", "")
		b.Set(byAria, fallback)

		clicked, err := newLocator(b).TryClickOptional(context.Background(), []entities.Locator{byData, byAria}, 20*time.Millisecond)
		require.Error(t, err)
		assert.False(t, clicked)
		assert.Equal(t, failure.KindDriver, failure.Classify(err))
		assert.Equal(t, 0, fallback.Clicks())
	})
}

func TestLookupErrorAbortsWait(t *testing.T) {
	b := fakebrowser.New()
	b.FailFind(failure.Driver("find elements", errors.New("session not created")))

	start := time.Now()
	_, err := newLocator(b).First(context.Background(), []entities.Locator{byData}, time.Second)
	require.Error(t, err)
	assert.Equal(t, failure.KindDriver, failure.Classify(err))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	clicked, err := newLocator(b).TryClickOptional(context.Background(), []entities.Locator{byData}, time.Second)
	assert.False(t, clicked)
	assert.Equal(t, failure.KindDriver, failure.Classify(err))
}

func TestWaitForURL(t *testing.T) {
	b := fakebrowser.New()
	b.SetURL("https://maps.google.com/")
	timer := time.AfterFunc(20*time.Millisecond, func() {
		b.SetURL("https://maps.google.com/maps/dir/Koramangala/Vikhroli")
	})
	defer timer.Stop()

	require.NoError(t, newLocator(b).WaitForURL(context.Background(), "/dir/", time.Second))

	b.SetURL("https://maps.google.com/")
	err := newLocator(b).WaitForURL(context.Background(), "/dir/", 20*time.Millisecond)
	assert.ErrorIs(t, err, failure.ErrTimeout)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	_, err := newLocator(fakebrowser.New()).First(ctx, []entities.Locator{byData}, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
