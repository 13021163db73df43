package bundle

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file looked up at the root of an archive.
const ManifestName = "bundle.yaml"

// Manifest describes how a bundle maps onto containers.
//
//	marker: __init__.py
//	isolate: true
//	containers:
//	  - id: app.assets
//	    path: static/assets
//	  - id: app.empty
//	    no_resources: true
type Manifest struct {
	// Marker enables discovery of marked directories. Empty means
	// DefaultMarker when Containers is empty, and no discovery otherwise.
	Marker string `yaml:"marker,omitempty"`
	// Isolate hides discovered sub-containers from their ancestors.
	// Defaults to true.
	Isolate *bool `yaml:"isolate,omitempty"`
	// Containers are registered explicitly, in addition to discovered ones.
	Containers []ContainerSpec `yaml:"containers,omitempty"`
}

// ContainerSpec is one explicitly declared container.
type ContainerSpec struct {
	ID          string `yaml:"id"`
	Path        string `yaml:"path,omitempty"`
	NoResources bool   `yaml:"no_resources,omitempty"`
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, loaderrors.WrapConfig(err, loaderrors.ErrCodeManifestInvalid, "cannot parse bundle manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads the manifest at name in fsys. A missing manifest is
// reported with an error wrapping fs.ErrNotExist.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return ParseManifest(data)
}

// Validate checks identifiers and paths.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Containers))
	for i, c := range m.Containers {
		if err := ValidateIdentifier(c.ID); err != nil {
			return loaderrors.WrapConfig(err, loaderrors.ErrCodeManifestInvalid,
				fmt.Sprintf("containers[%d]", i))
		}
		if seen[c.ID] {
			return loaderrors.NewConfigurationError(loaderrors.ErrCodeManifestInvalid,
				fmt.Sprintf("containers[%d]: duplicate id %q", i, c.ID), nil)
		}
		seen[c.ID] = true

		if !c.NoResources && !fs.ValidPath(c.dir()) {
			return loaderrors.NewConfigurationError(loaderrors.ErrCodeManifestInvalid,
				fmt.Sprintf("containers[%d]: invalid path %q", i, c.Path), nil)
		}
	}
	if m.Marker != "" && (path.Base(m.Marker) != m.Marker || m.Marker == "." || m.Marker == "..") {
		return loaderrors.NewConfigurationError(loaderrors.ErrCodeManifestInvalid,
			fmt.Sprintf("marker %q must be a plain file name", m.Marker), nil)
	}
	return nil
}

// dir returns the container's directory, defaulting to the identifier in
// path form.
func (c ContainerSpec) dir() string {
	if c.Path != "" {
		return path.Clean(c.Path)
	}
	return identifierPath(c.ID)
}

// IsolateEnabled reports the effective isolate setting.
func (m *Manifest) IsolateEnabled() bool {
	return m.Isolate == nil || *m.Isolate
}

// Build creates a registry for fsys according to the manifest.
func (m *Manifest) Build(fsys fs.FS) (*Registry, error) {
	registry := NewRegistry()

	marker := m.Marker
	if marker == "" && len(m.Containers) == 0 {
		marker = DefaultMarker
	}
	if marker != "" {
		if err := registry.discover(fsys, DiscoverOptions{Marker: marker, Isolate: m.IsolateEnabled()}); err != nil {
			return nil, err
		}
	}

	for _, c := range m.Containers {
		var sub fs.FS
		if !c.NoResources {
			var err error
			if sub, err = fs.Sub(fsys, c.dir()); err != nil {
				return nil, err
			}
		}
		if err := registry.Register(c.ID, sub); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// identifierPath converts a dotted identifier into a slash separated path.
func identifierPath(id string) string {
	return strings.ReplaceAll(id, ".", "/")
}
