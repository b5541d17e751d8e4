package scraper

import (
	"context"

	"go.uber.org/zap"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/logging"
)

// Page is a loaded document snapshot
type Page struct {
	URL         string // final location, after redirects
	StatusCode  int
	ContentType string
	Body        []byte
	ProxyUsed   string
}

// OK reports whether navigation succeeded with a 2xx status
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}

// Navigator loads pages for extraction
type Navigator interface {
	Navigate(ctx context.Context, url string) (*Page, error)
	Name() string
	Close() error
}

// New creates a navigator based on the configuration
func New(config *config.AppConfig, logger *zap.Logger) (Navigator, error) {
	logger = logging.OrNop(logger)
	if config.Browser.Enabled {
		logger.Info("using headless browser", zap.Bool("headless", config.Browser.Headless))
		return NewBrowserNavigator(config)
	}
	return NewHTTPNavigator(config), nil
}
