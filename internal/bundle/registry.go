// Package bundle provides a container registry that serves bundled
// resources to the template loader.
//
// A container is addressed by a dotted identifier ("app.templates") and is
// backed by an fs.FS: an embed.FS, a zip archive, or anything else that
// implements the interface. Registering an identifier is what a package
// marker does for a real bundler: it makes that directory independently
// addressable. A container registered with a nil fs.FS exists but offers
// no resources.
package bundle

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/pkg/loader"
)

// Registry maps container identifiers to their resources. It implements
// loader.ContainerResolver and is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	containers map[string]fs.FS
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{containers: make(map[string]fs.FS)}
}

// Register adds a container. fsys may be nil for a container without
// resources. Registering the same identifier twice is an error.
func (r *Registry) Register(id string, fsys fs.FS) error {
	if err := ValidateIdentifier(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.containers[id]; exists {
		return loaderrors.NewValidationError(loaderrors.ErrCodeInvalidIdentifier,
			fmt.Sprintf("container %q is already registered", id))
	}
	r.containers[id] = fsys

	return nil
}

// MustRegister is like Register but panics on error. Intended for package
// level registration of embed.FS values.
func (r *Registry) MustRegister(id string, fsys fs.FS) *Registry {
	if err := r.Register(id, fsys); err != nil {
		panic(err)
	}
	return r
}

// ResolveContainer implements loader.ContainerResolver.
func (r *Registry) ResolveContainer(id string) (loader.ContainerLoader, error) {
	if _, ok := r.lookup(id); !ok {
		return nil, fmt.Errorf("%w: %s", loader.ErrContainerNotFound, id)
	}
	return &containerLoader{registry: r, id: id}, nil
}

// Containers returns all registered identifiers in sorted order.
func (r *Registry) Containers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.containers))
	for id := range r.containers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Len returns the number of registered containers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.containers)
}

// Resources lists the regular files reachable in container id, as slash
// separated paths relative to the container, in lexical order.
func (r *Registry) Resources(id string) ([]string, error) {
	fsys, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loader.ErrContainerNotFound, id)
	}
	if fsys == nil {
		return nil, nil
	}

	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, loaderrors.WrapIO(err, loaderrors.ErrCodeInternalError, "list resources of "+id)
	}

	return names, nil
}

func (r *Registry) lookup(id string) (fs.FS, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fsys, ok := r.containers[id]
	return fsys, ok
}

// ValidateIdentifier checks that id is a dotted identifier made of
// non-empty segments without separators or whitespace.
func ValidateIdentifier(id string) error {
	if id == "" {
		return loaderrors.NewValidationError(loaderrors.ErrCodeInvalidIdentifier, "container identifier is empty")
	}
	for _, segment := range strings.Split(id, ".") {
		if segment == "" || strings.ContainsAny(segment, "/\\ \t\r\n") {
			return loaderrors.NewValidationError(loaderrors.ErrCodeInvalidIdentifier,
				fmt.Sprintf("invalid container identifier %q", id))
		}
	}
	return nil
}

// containerLoader is the loader.ContainerLoader handed out by a Registry.
// It can produce readers for any registered container.
type containerLoader struct {
	registry *Registry
	id       string
}

func (c *containerLoader) SupportsResources() bool { return true }

func (c *containerLoader) ResourceReader(id string) (loader.ResourceReader, error) {
	fsys, ok := c.registry.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", loader.ErrContainerNotFound, id)
	}
	if fsys == nil {
		return nil, nil
	}
	return &fsReader{fsys: fsys}, nil
}

// fsReader opens regular files of one container.
type fsReader struct {
	fsys fs.FS
}

func (r *fsReader) OpenResource(name string) (io.ReadCloser, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	f, err := r.fsys.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return f, nil
}
