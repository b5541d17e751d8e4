// Package metrics counts what a scrape run did and can dump the counters in
// the Prometheus text format, for pickup by a node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Page outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "navigation_failed"
	OutcomePanic  = "panic"
)

// Fallback kinds.
const (
	FallbackNoMatch    = "no_match"
	FallbackEmptyValue = "empty_value"
)

// Config file statuses.
const (
	FileLoaded   = "loaded"
	FileRejected = "rejected"
)

// Recorder holds the counters of a single run. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	pages        *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	configFiles  *prometheus.CounterVec
	pageDuration prometheus.Histogram
}

// New creates a recorder backed by its own registry
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selector_scraper",
			Name:      "pages_total",
			Help:      "Pages processed, by outcome.",
		}, []string{"outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selector_scraper",
			Name:      "fallbacks_total",
			Help:      "Fallback messages emitted instead of extracted values, by kind.",
		}, []string{"kind"}),
		configFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "selector_scraper",
			Name:      "config_files_total",
			Help:      "Configuration files seen, by status.",
		}, []string{"status"}),
		pageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "selector_scraper",
			Name:      "page_duration_seconds",
			Help:      "Time spent navigating and extracting one page.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}
	r.registry.MustRegister(r.pages, r.fallbacks, r.configFiles, r.pageDuration)
	return r
}

// PageDone records a finished page
func (r *Recorder) PageDone(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(outcome).Inc()
	r.pageDuration.Observe(d.Seconds())
}

// Fallback records an emitted fallback message
func (r *Recorder) Fallback(kind string) {
	if r == nil {
		return
	}
	r.fallbacks.WithLabelValues(kind).Inc()
}

// ConfigFile records a loaded or rejected configuration file
func (r *Recorder) ConfigFile(status string) {
	if r == nil {
		return
	}
	r.configFiles.WithLabelValues(status).Inc()
}

// Gatherer exposes the underlying registry
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
