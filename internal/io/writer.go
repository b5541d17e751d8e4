package io

import (
	"fmt"
	goio "io"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

// ReportWriter writes results to various outputs
type ReportWriter struct {
	Config *config.IOConfig
	Out    goio.Writer
}

// NewReportWriter creates a new report writer printing to out
func NewReportWriter(config *config.IOConfig, out goio.Writer) *ReportWriter {
	return &ReportWriter{
		Config: config,
		Out:    out,
	}
}

// JoinPages joins the page texts with newlines, in result order
func JoinPages(results []models.PageResult) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}
	return strings.Join(texts, "\n")
}

// Render formats the results in the configured format
func (w *ReportWriter) Render(results []models.PageResult) ([]byte, error) {
	switch w.Config.OutputFormat {
	case config.FormatText, "":
		return []byte(JoinPages(results) + "\n"), nil

	case config.FormatJSON:
		if results == nil {
			results = []models.PageResult{}
		}
		data, err := sonic.ConfigStd.MarshalIndent(results, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode report: %w", err)
		}
		return append(data, '\n'), nil

	default:
		return nil, fmt.Errorf("unsupported output format: %s", w.Config.OutputFormat)
	}
}

// Write prints the report and saves it to the output file when one is configured
func (w *ReportWriter) Write(results []models.PageResult) error {
	data, err := w.Render(results)
	if err != nil {
		return err
	}

	if w.Config.OutputFormat != config.FormatJSON {
		// Separate the report from whatever was printed before it
		if _, err := fmt.Fprintln(w.Out); err != nil {
			return err
		}
	}
	if _, err := w.Out.Write(data); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	if w.Config.OutputFile != "" {
		if err := os.WriteFile(w.Config.OutputFile, data, 0644); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}
	return nil
}
