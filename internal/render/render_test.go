package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/conneroisu/embedloader/internal/bundle"
	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/pkg/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, html bool) *Renderer {
	t.Helper()

	registry := bundle.NewRegistry().
		MustRegister("site", fstest.MapFS{
			"hello.txt":        {Data: []byte("Hello, {{.Name}}!")},
			"page.html":        {Data: []byte("<p>{{.Name}}</p>")},
			"broken.txt":       {Data: []byte("{{.Name")},
			"layout/base.html": {Data: []byte(`[{{template "title.html" .}}]`)},
		}).
		MustRegister("site.partials", fstest.MapFS{
			"title.html": {Data: []byte("{{.Name}}")},
		})

	l, err := loader.New(registry, loader.DefaultConfig("site"))
	require.NoError(t, err)

	return &Renderer{Loader: l, HTML: html}
}

func TestRender(t *testing.T) {
	data := map[string]any{"Name": "<World>"}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, newRenderer(t, false).Render(context.Background(), &buf, "hello.txt", data))
		assert.Equal(t, "Hello, <World>!", buf.String())
	})

	t.Run("html escapes", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, newRenderer(t, true).Render(context.Background(), &buf, "page.html", data))
		assert.Equal(t, "<p>&lt;World&gt;</p>", buf.String())
	})

	t.Run("missing template is not found", func(t *testing.T) {
		err := newRenderer(t, false).Render(context.Background(), &bytes.Buffer{}, "nope.txt", data)
		assert.True(t, loader.IsNotFound(err))
	})

	t.Run("parse error", func(t *testing.T) {
		err := newRenderer(t, false).Render(context.Background(), &bytes.Buffer{}, "broken.txt", data)
		require.Error(t, err)
		assert.False(t, loader.IsNotFound(err))

		var le *loaderrors.LoaderError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, loaderrors.ErrCodeTemplateParse, le.Code)
		assert.Equal(t, loaderrors.ErrorTypeValidation, le.Type)
	})
}

func TestParseFSAcrossContainers(t *testing.T) {
	r := newRenderer(t, false)

	tmpl, err := r.ParseFS("layout/base.html", "partials/title.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "base.html", map[string]any{"Name": "T"}))
	assert.Equal(t, "[T]", buf.String())
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte("Name: World\nItems: [a, b]\n"), 0o644))

	data, err := LoadData(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, "World", data["Name"])
	assert.Equal(t, []any{"a", "b"}, data["Items"])

	jsonFile := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(`{"Name": "JSON"}`), 0o644))
	data, err = LoadData(jsonFile)
	require.NoError(t, err)
	assert.Equal(t, "JSON", data["Name"])

	data, err = LoadData("")
	require.NoError(t, err)
	assert.Empty(t, data)

	var le *loaderrors.LoaderError

	_, err = LoadData(filepath.Join(dir, "missing.yaml"))
	require.True(t, errors.As(err, &le))
	assert.Equal(t, loaderrors.ErrCodeDataRead, le.Code)

	badFile := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badFile, []byte("Name: [unclosed"), 0o644))
	_, err = LoadData(badFile)
	require.True(t, errors.As(err, &le))
	assert.Equal(t, loaderrors.ErrCodeDataParse, le.Code)
}
