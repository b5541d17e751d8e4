package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/dom"
	"github.com/williampepple1/selector-scraper/internal/extraction"
	"github.com/williampepple1/selector-scraper/internal/logging"
	"github.com/williampepple1/selector-scraper/internal/metrics"
	"github.com/williampepple1/selector-scraper/internal/scraper"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

// Job is a page waiting to be processed, tagged with its configuration order
type Job struct {
	Index  int
	Target models.Target
}

// Pool manages a pool of worker goroutines
type Pool struct {
	Config    *config.ScraperConfig
	Navigator scraper.Navigator
	Extractor *extraction.Extractor
	Syntax    dom.Syntax
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	Jobs      chan Job
	Results   chan models.PageResult
	WaitGroup *sync.WaitGroup
}

// NewPool creates a new worker pool sized for n pages
func NewPool(config *config.ScraperConfig, navigator scraper.Navigator, extractor *extraction.Extractor, syntax dom.Syntax, logger *zap.Logger, recorder *metrics.Recorder, n int) *Pool {
	return &Pool{
		Config:    config,
		Navigator: navigator,
		Extractor: extractor,
		Syntax:    syntax,
		Logger:    logging.OrNop(logger),
		Metrics:   recorder,
		Jobs:      make(chan Job, n),
		Results:   make(chan models.PageResult, n),
		WaitGroup: &sync.WaitGroup{},
	}
}

// Start starts the worker pool
func (p *Pool) Start(ctx context.Context) {
	workers := p.Config.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 1; w <= workers; w++ {
		p.WaitGroup.Add(1)
		go p.worker(ctx, w)
	}

	// Close the results channel once every worker has drained the jobs
	go func() {
		p.WaitGroup.Wait()
		close(p.Results)
	}()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.WaitGroup.Done()

	for job := range p.Jobs {
		p.Logger.Debug("processing page",
			zap.Int("worker", id),
			zap.Int("index", job.Index),
			zap.String("url", job.Target.URL),
		)
		p.Results <- p.process(ctx, job)
	}
}

// AddJobs queues the targets in order and closes the jobs channel
func (p *Pool) AddJobs(targets []models.Target) {
	for i, target := range targets {
		p.Jobs <- Job{Index: i, Target: target}
	}
	close(p.Jobs)
}

// Collect drains the results channel into configuration order
func (p *Pool) Collect(n int) []models.PageResult {
	results := make([]models.PageResult, n)
	for result := range p.Results {
		if result.Index >= 0 && result.Index < n {
			results[result.Index] = result
		}
	}
	return results
}

// Run processes every target and returns one result per target, in order
func (p *Pool) Run(ctx context.Context, targets []models.Target) []models.PageResult {
	p.Start(ctx)
	p.AddJobs(targets)
	return p.Collect(len(targets))
}

// process loads and extracts one page. Any panic is contained to the page.
func (p *Pool) process(ctx context.Context, job Job) (result models.PageResult) {
	start := time.Now()
	result = models.PageResult{
		Index:     job.Index,
		URL:       job.Target.URL,
		Timestamp: start,
		Renderer:  p.Navigator.Name(),
	}

	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			p.Logger.Error("page processing panicked",
				zap.String("url", job.Target.URL),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			result.Values = nil
			result.Text = ""
			result.OK = false
			result.Err = fmt.Sprintf("panic: %v", r)
			p.Metrics.PageDone(metrics.OutcomePanic, result.Duration)
			return
		}
		outcome := metrics.OutcomeOK
		if !result.OK {
			outcome = metrics.OutcomeFailed
		}
		p.Metrics.PageDone(outcome, result.Duration)
	}()

	root, finalURL, err := p.load(ctx, job.Target.URL, &result)
	if err != nil {
		p.Logger.Warn("navigation failed", zap.String("url", job.Target.URL), zap.Error(err))
		result.Values = []string{troubleWith(job.Target.URL)}
		result.Text = result.Values[0]
		result.Err = err.Error()
		return result
	}

	result.Values = p.Extractor.Extract(job.Target.Specs, root, finalURL)
	result.Text = strings.Join(result.Values, "")
	result.OK = true
	return result
}

// load navigates to the page and parses the snapshot. It fills the transport
// details of result as it learns them.
func (p *Pool) load(ctx context.Context, url string, result *models.PageResult) (extraction.Node, string, error) {
	timeout := p.Config.Timeout
	navCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	page, err := p.Navigator.Navigate(navCtx, url)
	if err != nil {
		return nil, "", err
	}
	result.StatusCode = page.StatusCode
	result.ProxyUsed = page.ProxyUsed
	if !page.OK() {
		return nil, "", fmt.Errorf("unexpected status %d", page.StatusCode)
	}

	root, err := dom.Parse(page.Body, page.ContentType, p.Syntax)
	if err != nil {
		return nil, "", fmt.Errorf("parse document: %w", err)
	}

	base := page.URL
	if base == "" {
		base = url
	}
	return root, base, nil
}

func troubleWith(url string) string {
	return "Had trouble with: " + url
}
