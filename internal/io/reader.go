package io

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/logging"
	"github.com/williampepple1/selector-scraper/internal/metrics"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

// ErrNoConfigFiles is returned when no valid configuration file was found
var ErrNoConfigFiles = errors.New("no config files found")

// ValidationError lists every schema violation of one configuration file
type ValidationError struct {
	File     string
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := "invalid configuration: " + strings.Join(e.Problems, "; ")
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

// ConfigLoader reads page configuration files
type ConfigLoader struct {
	Config    *config.IOConfig
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	validator *validator.Validate
}

// NewConfigLoader creates a new configuration loader
func NewConfigLoader(config *config.IOConfig, logger *zap.Logger, recorder *metrics.Recorder) *ConfigLoader {
	return &ConfigLoader{
		Config:    config,
		Logger:    logging.OrNop(logger),
		Metrics:   recorder,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Discover returns the configuration files under the config directory, in path order
func (l *ConfigLoader) Discover() ([]string, error) {
	dir := l.Config.ConfigDir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoConfigFiles, dir)
	}

	pattern := l.Config.ConfigPattern
	if pattern == "" {
		pattern = config.DefaultConfigPattern
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("match %q in %s: %w", pattern, dir, err)
	}
	sort.Strings(matches)

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(match)))
	}
	return files, nil
}

// LoadFile decodes and validates a single configuration file
func (l *ConfigLoader) LoadFile(filename string) (models.ConfigFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var file models.ConfigFile
	switch strings.ToLower(path.Ext(filepath.ToSlash(filename))) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	default:
		err = sonic.ConfigStd.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}

	if err := l.Validate(file); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.File = filename
		}
		return nil, err
	}
	return file, nil
}

// Validate checks a decoded file against the configuration schema
func (l *ConfigLoader) Validate(file models.ConfigFile) error {
	var problems []string
	if file == nil {
		problems = append(problems, "expected an array of pages")
	}

	for i, page := range file {
		prefix := fmt.Sprintf("[%d]", i)
		if err := l.validator.Struct(page); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				problems = append(problems, fmt.Sprintf("%s.%s: failed %q", prefix, trimNamespace(fe.Namespace()), fe.Tag()))
			}
		}
		problems = append(problems, emptyContainers(prefix+".Elements", page.Elements)...)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// emptyContainers reports every "elements" array that is present but empty.
func emptyContainers(prefix string, elements []models.ElementSpec) []string {
	var problems []string
	for i, e := range elements {
		at := fmt.Sprintf("%s[%d].Elements", prefix, i)
		if e.Elements != nil && len(e.Elements) == 0 {
			problems = append(problems, at+": can't be empty")
			continue
		}
		problems = append(problems, emptyContainers(at, e.Elements)...)
	}
	return problems
}

func trimNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Load discovers, decodes and validates every configuration file. Invalid
// files are logged and skipped; the pages of the others are returned in file
// order, compiled and ready for extraction.
func (l *ConfigLoader) Load() ([]models.Target, error) {
	files, err := l.Discover()
	if err != nil {
		return nil, err
	}

	var targets []models.Target
	loaded := 0
	for _, filename := range files {
		file, err := l.LoadFile(filename)
		if err != nil {
			l.Metrics.ConfigFile(metrics.FileRejected)
			l.Logger.Warn("skipping config file", zap.String("file", filename), zap.Error(err))
			continue
		}

		l.Metrics.ConfigFile(metrics.FileLoaded)
		l.Logger.Debug("loaded config file", zap.String("file", filename), zap.Int("pages", len(file)))
		loaded++
		for _, page := range file {
			targets = append(targets, models.NewTarget(page, filename))
		}
	}

	if loaded == 0 {
		return nil, ErrNoConfigFiles
	}
	return targets, nil
}
