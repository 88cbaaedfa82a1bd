package terminal

import (
	"context"
	"errors"
	"image/png"
	"os"
	"testing"
	"time"

	"route_automation/application/directions"
	"route_automation/domain/entities"
	"route_automation/domain/failure"
	"route_automation/domain/interfaces"
	"route_automation/infrastructure/browser/fakebrowser"
	"route_automation/infrastructure/config"
	"route_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const dirURL = "https://maps.google.com/maps/dir/Koramangala,+Bangalore/91+Springboard,+Vikhroli"

type scenario struct {
	routeCards bool
	steps      []string
}

// scriptedMaps builds a fake maps page for s
func scriptedMaps(s scenario) *fakebrowser.Browser {
	b := fakebrowser.New()
	b.Set(directions.DirectionsButtons[0], fakebrowser.NewElement("directions", "Directions"))
	b.Set(directions.StartInputs[0], fakebrowser.NewElement("start", ""))

	card := fakebrowser.NewElement("card", "1 hr 5 min")
	if len(s.steps) > 0 {
		card.OnClick(func() {
			els := make([]*fakebrowser.Element, 0, len(s.steps))
			for _, text := range s.steps {
				els = append(els, fakebrowser.NewElement("step", text))
			}
			b.Set(directions.StepElements[0], els...)
		})
	}

	destination := fakebrowser.NewElement("destination", "").OnPress(func(key string) {
		b.SetURL(dirURL)
		if s.routeCards {
			b.Set(directions.RouteCards[0], card)
		}
	})
	b.Set(directions.DestinationInputs[0], destination)
	return b
}

func newTestInterface(t *testing.T, launch Launcher) (*TerminalInterface, *test.Hook, config.Config) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	cfg := config.Config{
		Backend:   config.BackendPlaywright,
		OutputDir: t.TempDir(),
		Route: entities.RouteRequest{
			MapsURL:     config.DefaultMapsURL,
			Origin:      config.DefaultOrigin,
			Destination: config.DefaultDestination,
		},
		LogLevel: logrus.InfoLevel,
	}

	ti := &TerminalInterface{
		cfg:    cfg,
		logger: logger,
		launch: launch,
		extractorOpts: []directions.Option{
			directions.WithTimeouts(directions.Timeouts{
				Consent:          10 * time.Millisecond,
				DirectionsButton: 50 * time.Millisecond,
				LocationInput:    50 * time.Millisecond,
				DirectionsURL:    50 * time.Millisecond,
				RouteCards:       50 * time.Millisecond,
				StepsToggle:      10 * time.Millisecond,
				Steps:            60 * time.Millisecond,
			}),
			directions.WithPollInterval(2 * time.Millisecond),
		},
	}
	return ti, hook, cfg
}

func launcherFor(b *fakebrowser.Browser) Launcher {
	return func(config.Config, *logrus.Logger) (interfaces.BrowserController, error) {
		return b, nil
	}
}

func sheetRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(storage.SheetName)
	require.NoError(t, err)
	return rows
}

func assertValidPNG(t *testing.T, path string) {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	_, err = png.Decode(file)
	assert.NoError(t, err)
}

func TestRunSuccess(t *testing.T) {
	b := scriptedMaps(scenario{routeCards: true, steps: []string{"Directions", "Head north", "", "Turn left"}})
	ti, _, cfg := newTestInterface(t, launcherFor(b))

	code := ti.Run(context.Background())

	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{
		{"Step Number", "Instruction Text"},
		{"1", "Head north"},
		{"2", "Turn left"},
	}, sheetRows(t, cfg.SpreadsheetPath()))
	assertValidPNG(t, cfg.ScreenshotPath())
	assert.Equal(t, 1, b.CloseCount())
}

func TestRunWithoutRouteCardsFails(t *testing.T) {
	b := scriptedMaps(scenario{routeCards: false})
	ti, hook, cfg := newTestInterface(t, launcherFor(b))

	code := ti.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.NoFileExists(t, cfg.SpreadsheetPath())
	assert.NoFileExists(t, cfg.ScreenshotPath())
	assert.Equal(t, 1, b.CloseCount())

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "Timed out waiting for a page element")
}

func TestRunWithoutStepsStillSucceeds(t *testing.T) {
	b := scriptedMaps(scenario{routeCards: true})
	ti, _, cfg := newTestInterface(t, launcherFor(b))

	code := ti.Run(context.Background())

	assert.Equal(t, 0, code)
	assert.Equal(t, [][]string{{"Step Number", "Instruction Text"}}, sheetRows(t, cfg.SpreadsheetPath()))
	assertValidPNG(t, cfg.ScreenshotPath())
	assert.Equal(t, 1, b.CloseCount())
}

func TestRunDriverFailure(t *testing.T) {
	b := scriptedMaps(scenario{routeCards: true})
	b.FailFind(failure.Driver("find elements", errors.New("invalid session id")))
	ti, hook, cfg := newTestInterface(t, launcherFor(b))

	code := ti.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.NoFileExists(t, cfg.SpreadsheetPath())
	assert.Equal(t, 1, b.CloseCount())
	assert.Contains(t, hook.LastEntry().Message, "Browser driver error")
}

func TestRunUnexpectedError(t *testing.T) {
	b := scriptedMaps(scenario{routeCards: true, steps: []string{"Turn left"}})
	b.FailScreenshot(errors.New("disk full"))
	ti, hook, cfg := newTestInterface(t, launcherFor(b))

	code := ti.Run(context.Background())

	assert.Equal(t, 1, code)
	assert.FileExists(t, cfg.SpreadsheetPath())
	assert.Equal(t, 1, b.CloseCount())
	assert.Contains(t, hook.LastEntry().Message, "Unexpected error")
}

func TestRunLaunchFailure(t *testing.T) {
	ti, hook, _ := newTestInterface(t, func(config.Config, *logrus.Logger) (interfaces.BrowserController, error) {
		return nil, failure.Driver("launch browser", errors.New("executable doesn't exist"))
	})

	assert.Equal(t, 1, ti.Run(context.Background()))
	assert.Contains(t, hook.LastEntry().Message, "Browser driver error")
}
