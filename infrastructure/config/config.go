// Package config reads run settings from the environment, with an optional
// .env file. Every setting has a default, so a bare run needs no configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"route_automation/domain/entities"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Backend selects the browser automation library
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendSelenium   Backend = "selenium"
)

const (
	SpreadsheetFile = "driving_instructions.xlsx"
	ScreenshotFile  = "route_screenshot.png"

	DefaultMapsURL     = "https://maps.google.com"
	DefaultOrigin      = "Koramangala, Bangalore"
	DefaultDestination = "91 Springboard, Vikhroli"
)

type Config struct {
	Backend      Backend
	Headless     bool
	DriverPath   string
	ChromeBinary string
	OutputDir    string
	Route        entities.RouteRequest
	LogLevel     logrus.Level
}

// SpreadsheetPath is where the instructions workbook is written
func (c Config) SpreadsheetPath() string {
	return filepath.Join(c.OutputDir, SpreadsheetFile)
}

// ScreenshotPath is where the page screenshot is written
func (c Config) ScreenshotPath() string {
	return filepath.Join(c.OutputDir, ScreenshotFile)
}

// Load reads .env from the working directory if present, then the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (Config, error) {
	cfg := Config{
		Backend:      Backend(strings.ToLower(getEnv("BROWSER_BACKEND", string(BackendPlaywright)))),
		DriverPath:   os.Getenv("BROWSER_DRIVER_PATH"),
		ChromeBinary: os.Getenv("CHROME_BINARY_PATH"),
		OutputDir:    os.Getenv("OUTPUT_DIR"),
		Route: entities.RouteRequest{
			MapsURL:     getEnv("MAPS_URL", DefaultMapsURL),
			Origin:      getEnv("ROUTE_ORIGIN", DefaultOrigin),
			Destination: getEnv("ROUTE_DESTINATION", DefaultDestination),
		},
	}

	switch cfg.Backend {
	case BackendPlaywright, BackendSelenium:
	default:
		return Config{}, fmt.Errorf("unknown BROWSER_BACKEND %q (want %q or %q)", cfg.Backend, BackendPlaywright, BackendSelenium)
	}

	headless, err := strconv.ParseBool(getEnv("BROWSER_HEADLESS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid BROWSER_HEADLESS: %w", err)
	}
	cfg.Headless = headless

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.OutputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("failed to resolve output directory: %w", err)
		}
		cfg.OutputDir = wd
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
