package bundle

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/internal/testutils"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		check   func(t *testing.T, m *Manifest)
	}{
		{
			name:  "empty manifest uses defaults",
			input: "",
			check: func(t *testing.T, m *Manifest) {
				assert.True(t, m.IsolateEnabled())
				assert.Empty(t, m.Containers)
			},
		},
		{
			name: "explicit containers",
			input: `
marker: .pkg
isolate: false
containers:
  - id: app.assets
    path: static/assets
  - id: app.empty
    no_resources: true
`,
			check: func(t *testing.T, m *Manifest) {
				assert.Equal(t, ".pkg", m.Marker)
				assert.False(t, m.IsolateEnabled())
				require.Len(t, m.Containers, 2)
				assert.Equal(t, "static/assets", m.Containers[0].dir())
				assert.True(t, m.Containers[1].NoResources)
			},
		},
		{name: "invalid yaml", input: "containers: [", wantErr: true},
		{name: "invalid id", input: "containers:\n  - id: bad..id\n", wantErr: true},
		{name: "duplicate id", input: "containers:\n  - id: a\n  - id: a\n", wantErr: true},
		{name: "escaping path", input: "containers:\n  - id: a\n    path: ../x\n", wantErr: true},
		{name: "marker with directory", input: "marker: a/b\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, loaderrors.IsConfigurationError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, m)
		})
	}
}

func TestManifestBuild(t *testing.T) {
	tree := fstest.MapFS{
		"app/templates/__init__.py": {},
		"app/templates/a.html":      {Data: []byte("A")},
		"static/assets/site.css":    {Data: []byte("css")},
		"legacy/views/page.html":    {Data: []byte("page")},
	}

	m, err := ParseManifest([]byte(`
marker: __init__.py
containers:
  - id: app.assets
    path: static/assets
  - id: legacy.views
  - id: app.empty
    no_resources: true
`))
	require.NoError(t, err)

	registry, err := m.Build(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.assets", "app.empty", "app.templates", "legacy.views"}, registry.Containers())

	names, err := registry.Resources("legacy.views")
	require.NoError(t, err)
	assert.Equal(t, []string{"page.html"}, names)
}

func TestManifestBuildWithoutMarkerSkipsDiscovery(t *testing.T) {
	tree := fstest.MapFS{
		"app/__init__.py": {},
		"static/a.css":    {},
	}
	m := &Manifest{Containers: []ContainerSpec{{ID: "static"}}}

	registry, err := m.Build(tree)
	require.NoError(t, err)
	assert.Equal(t, []string{"static"}, registry.Containers())
}

func TestNewArchiveDiscovers(t *testing.T) {
	r := testutils.BuildZip(t, map[string]string{
		"app/templates/__init__.py":         "",
		"app/templates/test.html":           "BAR",
		"app/templates/foo/bar/__init__.py": "",
		"app/templates/foo/bar/x.html":      "YYY",
	})

	archive, err := NewArchive(r, r.Size(), nil)
	require.NoError(t, err)
	defer archive.Close()

	assert.Equal(t, []string{"app.templates", "app.templates.foo.bar"}, archive.Containers())

	names, err := archive.Resources("app.templates")
	require.NoError(t, err)
	assert.NotContains(t, names, "foo/bar/x.html")
}

func TestNewArchiveManifest(t *testing.T) {
	r := testutils.BuildZip(t, map[string]string{
		ManifestName:        "containers:\n  - id: site\n    path: public\n",
		"public/index.html": "hi",
		"pkg/__init__.py":   "",
		"pkg/ignored.html":  "x",
	})

	archive, err := NewArchive(r, r.Size(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"site"}, archive.Containers())
	require.NotNil(t, archive.Manifest)
}

func TestNewArchiveFallbackManifest(t *testing.T) {
	r := testutils.BuildZip(t, map[string]string{
		"pkg/.marker":   "",
		"pkg/page.html": "x",
	})

	archive, err := NewArchive(r, r.Size(), &Manifest{Marker: ".marker"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg"}, archive.Containers())
}

func TestNewArchiveErrors(t *testing.T) {
	_, err := NewArchive(bytes.NewReader([]byte("not a zip")), 9, nil)
	assert.Error(t, err)

	r := testutils.BuildZip(t, map[string]string{ManifestName: "containers: ["})
	_, err = NewArchive(r, r.Size(), nil)
	assert.True(t, loaderrors.IsConfigurationError(err))

	_, err = OpenArchive("/nonexistent/bundle.zip", nil)
	assert.Error(t, err)
}
