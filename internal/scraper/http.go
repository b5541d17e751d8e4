package scraper

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-resty/resty/v2"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/proxy"
)

// HTTPNavigator fetches pages with plain HTTP requests
type HTTPNavigator struct {
	Config *config.AppConfig
	Proxy  *proxy.Manager
	client *resty.Client
}

// NewHTTPNavigator creates a new HTTP navigator
func NewHTTPNavigator(config *config.AppConfig) *HTTPNavigator {
	n := &HTTPNavigator{
		Config: config,
		Proxy:  proxy.NewManager(&config.Proxies),
	}
	n.client = n.newClient()
	return n
}

// newClient never retries; a failed page is reported once.
func (n *HTTPNavigator) newClient() *resty.Client {
	return resty.New().
		SetTimeout(n.Config.Scraper.Timeout).
		SetRetryCount(0)
}

// Name identifies the navigator in results
func (n *HTTPNavigator) Name() string {
	return "http"
}

// Navigate fetches url and returns the response body as the page snapshot
func (n *HTTPNavigator) Navigate(ctx context.Context, url string) (*Page, error) {
	client := n.client
	var proxyUsed string

	// A proxy is per request, so it gets its own client
	if n.Proxy.Enabled() {
		proxyURL, err := n.Proxy.GetProxyURL()
		if err != nil {
			return nil, fmt.Errorf("select proxy: %w", err)
		}
		client = n.newClient().SetProxy(proxyURL.String())
		proxyUsed = proxyURL.Redacted()
	}

	req := client.R().SetContext(ctx)
	if agents := n.Config.Scraper.UserAgents; len(agents) > 0 {
		req.SetHeader("User-Agent", agents[rand.Intn(len(agents))])
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	location := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		location = raw.Request.URL.String()
	}

	return &Page{
		URL:         location,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
		ProxyUsed:   proxyUsed,
	}, nil
}

// Close releases idle connections
func (n *HTTPNavigator) Close() error {
	n.client.GetClient().CloseIdleConnections()
	return nil
}
