package io

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/selector-scraper/internal/config"
	"github.com/williampepple1/selector-scraper/internal/metrics"
	"github.com/williampepple1/selector-scraper/pkg/models"
)

const validJSON = `[
  {
    "url": "https://e.test",
    "elements": [
      { "selector": "h1" },
      { "selector": "ul", "elements": [ { "selector": "li", "multiple": true, "before": "- " } ] },
      { "selector": "a.next", "attribute": "href", "after": ";" }
    ]
  }
]`

const validYAML = `
- url: https://e.test
  elements:
    - selector: h1
    - selector: ul
      elements:
        - selector: li
          multiple: true
          before: "- "
    - selector: a.next
      attribute: href
      after: ";"
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func newLoader(dir string) *ConfigLoader {
	return NewConfigLoader(&config.IOConfig{ConfigDir: dir}, nil, nil)
}

func TestDiscover(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.json":        "[]",
		"a.yaml":        "[]",
		"nested/c.yml":  "[]",
		"notes.txt":     "ignored",
		"nested/d.json": "[]",
	})

	files, err := newLoader(dir).Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "nested", "c.yml"),
		filepath.Join(dir, "nested", "d.json"),
	}, files)
}

func TestDiscover_CustomPattern(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json":     "[]",
		"sub/b.json": "[]",
		"sub/c.yaml": "[]",
	})
	loader := NewConfigLoader(&config.IOConfig{ConfigDir: dir, ConfigPattern: "*.json"}, nil, nil)

	files, err := loader.Discover()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json")}, files)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := newLoader(filepath.Join(t.TempDir(), "absent")).Discover()
	assert.True(t, errors.Is(err, ErrNoConfigFiles))
}

func TestLoadFile_JSONAndYAMLAgree(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"page.json": validJSON,
		"page.yaml": validYAML,
	})
	loader := newLoader(dir)

	fromJSON, err := loader.LoadFile(filepath.Join(dir, "page.json"))
	require.NoError(t, err)
	fromYAML, err := loader.LoadFile(filepath.Join(dir, "page.yaml"))
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	require.Len(t, fromJSON, 1)
	assert.Equal(t, "https://e.test", fromJSON[0].URL)
	require.Len(t, fromJSON[0].Elements, 3)
	assert.Equal(t, "href", fromJSON[0].Elements[2].Attribute)
	assert.True(t, fromJSON[0].Elements[1].Elements[0].Multiple)
}

func TestLoadFile_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		problem string
	}{
		{
			name:    "malformed json",
			content: `[{"url": "https://e.test", "elements": [`,
		},
		{
			name:    "not an array",
			content: `{"url": "https://e.test", "elements": [{"selector": "h1"}]}`,
		},
		{
			name:    "null document",
			content: `null`,
			problem: "expected an array of pages",
		},
		{
			name:    "missing url",
			content: `[{"elements": [{"selector": "h1"}]}]`,
			problem: `[0].URL: failed "required"`,
		},
		{
			name:    "relative url",
			content: `[{"url": "/path/only", "elements": [{"selector": "h1"}]}]`,
			problem: `[0].URL: failed "url"`,
		},
		{
			name:    "empty top level elements",
			content: `[{"url": "https://e.test", "elements": []}]`,
			problem: `[0].Elements: failed "min"`,
		},
		{
			name:    "missing top level elements",
			content: `[{"url": "https://e.test"}]`,
			problem: `[0].Elements: failed "required"`,
		},
		{
			name:    "empty selector",
			content: `[{"url": "https://e.test", "elements": [{"selector": ""}]}]`,
			problem: `[0].Elements[0].Selector: failed "required"`,
		},
		{
			name:    "nested empty selector",
			content: `[{"url": "https://e.test", "elements": [{"selector": "ul", "elements": [{"attribute": "href"}]}]}]`,
			problem: `[0].Elements[0].Elements[0].Selector: failed "required"`,
		},
		{
			name:    "empty container",
			content: `[{"url": "https://e.test", "elements": [{"selector": "ul", "elements": []}]}]`,
			problem: `[0].Elements[0].Elements: can't be empty`,
		},
		{
			name:    "deep empty container",
			content: `[{"url": "https://e.test", "elements": [{"selector": "ul", "elements": [{"selector": "li", "elements": []}]}]}]`,
			problem: `[0].Elements[0].Elements[0].Elements: can't be empty`,
		},
		{
			name:    "wrong field type",
			content: `[{"url": "https://e.test", "elements": [{"selector": "h1", "multiple": "yes"}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeFiles(t, map[string]string{"page.json": tt.content})
			path := filepath.Join(dir, "page.json")

			_, err := newLoader(dir).LoadFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)

			if tt.problem != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
				assert.Equal(t, path, verr.File)
				assert.Contains(t, verr.Problems, tt.problem)
			}
		})
	}
}

func TestLoadFile_YAMLEmptyContainer(t *testing.T) {
	dir := writeFiles(t, map[string]string{"page.yml": `
- url: https://e.test
  elements:
    - selector: ul
      elements: []
`})

	_, err := newLoader(dir).LoadFile(filepath.Join(dir, "page.yml"))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"[0].Elements[0].Elements: can't be empty"}, verr.Problems)
}

func TestLoad_SkipsInvalidFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"1-good.json": validJSON,
		"2-bad.json":  `[{"url": "nope", "elements": []}]`,
		"3-good.yaml": `
- url: https://f.test/a
  elements:
    - selector: title
- url: https://f.test/b
  elements:
    - selector: h2
      multiple: true
`,
	})
	recorder := metrics.New()
	loader := NewConfigLoader(&config.IOConfig{ConfigDir: dir}, nil, recorder)

	targets, err := loader.Load()
	require.NoError(t, err)

	require.Len(t, targets, 3)
	assert.Equal(t, "https://e.test", targets[0].URL)
	assert.Equal(t, filepath.Join(dir, "1-good.json"), targets[0].Source)
	assert.Equal(t, "https://f.test/a", targets[1].URL)
	assert.Equal(t, "https://f.test/b", targets[2].URL)

	require.Len(t, targets[0].Specs, 3)
	assert.IsType(t, &models.Leaf{}, targets[0].Specs[0])
	container, ok := targets[0].Specs[1].(*models.Container)
	require.True(t, ok)
	assert.Equal(t, "ul", container.Selector)
	require.Len(t, container.Children, 1)
	assert.Equal(t, &models.Leaf{Selector: "li", Multiple: true, Before: "- "}, container.Children[0])
}

func TestLoad_NoValidFiles(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := newLoader(t.TempDir()).Load()
		assert.ErrorIs(t, err, ErrNoConfigFiles)
	})

	t.Run("only invalid files", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"bad.json": "{"})
		_, err := newLoader(dir).Load()
		assert.ErrorIs(t, err, ErrNoConfigFiles)
	})
}
