package extraction

import (
	"go.uber.org/zap"

	"github.com/williampepple1/selector-scraper/internal/logging"
	"github.com/williampepple1/selector-scraper/internal/metrics"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

// Extract walks specs against root and returns one string per extraction
// slot, in spec order then document order. It never fails: a selector that
// matches nothing or a node without a value produces a fallback message.
func Extract(specs []models.Spec, root Node, pageURL string) []string {
	w := walker{pageURL: pageURL}
	return w.walk(specs, root, make([]string, 0, len(specs)))
}

type walker struct {
	pageURL  string
	fallback func(kind, selector string)
}

func (w *walker) walk(specs []models.Spec, root Node, out []string) []string {
	for _, s := range specs {
		candidates := root.QueryAll(s.Target())
		if len(candidates) == 0 {
			w.record(metrics.FallbackNoMatch, s.Target())
			out = append(out, NoMatch(s.Target()))
			continue
		}

		switch s := s.(type) {
		case *models.Container:
			for _, candidate := range pick(candidates, s.Multiple) {
				out = w.walk(s.Children, candidate, out)
			}
		case *models.Leaf:
			for _, candidate := range pick(candidates, s.Multiple) {
				value, fellBack := render(candidate, s, w.pageURL)
				if fellBack {
					w.record(metrics.FallbackEmptyValue, s.Selector)
				}
				out = append(out, value)
			}
		}
	}
	return out
}

func (w *walker) record(kind, selector string) {
	if w.fallback != nil {
		w.fallback(kind, selector)
	}
}

// pick keeps the first candidate unless all of them were asked for.
func pick(candidates []Node, multiple bool) []Node {
	if multiple {
		return candidates
	}
	return candidates[:1]
}

// Extractor runs Extract and reports fallbacks to a logger and a metrics recorder
type Extractor struct {
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// NewExtractor creates a new extractor
func NewExtractor(logger *zap.Logger, recorder *metrics.Recorder) *Extractor {
	return &Extractor{
		Logger:  logging.OrNop(logger),
		Metrics: recorder,
	}
}

// Extract behaves like the package level Extract
func (e *Extractor) Extract(specs []models.Spec, root Node, pageURL string) []string {
	w := walker{
		pageURL: pageURL,
		fallback: func(kind, selector string) {
			e.Metrics.Fallback(kind)
			e.Logger.Debug("fallback emitted",
				zap.String("kind", kind),
				zap.String("selector", selector),
				zap.String("url", pageURL),
			)
		},
	}
	return w.walk(specs, root, make([]string, 0, len(specs)))
}
