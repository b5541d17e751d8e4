package scraper

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/proxy"
)

// BrowserNavigator renders pages in a shared headless browser, one tab per page
type BrowserNavigator struct {
	Config        *config.AppConfig
	proxyUsed     string
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

// NewBrowserNavigator launches the browser used for every page of a run
func NewBrowserNavigator(config *config.AppConfig) (*BrowserNavigator, error) {
	// Configure browser options
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Browser.Headless),
		chromedp.UserAgent(config.Browser.UserAgent),
	)

	server, err := proxy.NewManager(&config.Proxies).ServerAddress()
	if err != nil {
		return nil, fmt.Errorf("select proxy: %w", err)
	}
	if server != "" {
		opts = append(opts, chromedp.ProxyServer(server))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser now so every tab shares it
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &BrowserNavigator{
		Config:        config,
		proxyUsed:     server,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		cancelAlloc:   cancelAlloc,
	}, nil
}

// Name identifies the navigator in results
func (n *BrowserNavigator) Name() string {
	return "browser"
}

// Navigate opens url in a new tab and returns the rendered DOM
func (n *BrowserNavigator) Navigate(ctx context.Context, url string) (*Page, error) {
	tabCtx, cancelTab := chromedp.NewContext(n.browserCtx)
	defer cancelTab()

	// Allocate the tab before deriving a timeout, so the timeout only aborts actions
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}

	runCtx, cancel := context.WithTimeout(tabCtx, n.Config.Scraper.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(url))
	if err != nil {
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}

	var html, location string
	tasks := chromedp.Tasks{}
	if wait := n.Config.Browser.WaitTime; wait > 0 {
		tasks = append(tasks, chromedp.Sleep(wait))
	}
	tasks = append(tasks,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err := chromedp.Run(runCtx, tasks); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", url, err)
	}

	status := 0
	if resp != nil {
		status = int(resp.Status)
	}

	return &Page{
		URL:        location,
		StatusCode: status,
		// OuterHTML is already a UTF-8 Go string
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(html),
		ProxyUsed:   n.proxyUsed,
	}, nil
}

// Close shuts the browser down
func (n *BrowserNavigator) Close() error {
	n.cancelBrowser()
	n.cancelAlloc()
	return nil
}
