package loader

import (
	"errors"
	"io"
)

// ErrContainerNotFound is wrapped by ContainerResolver and ContainerLoader
// implementations when an identifier does not name a loadable container.
var ErrContainerNotFound = errors.New("container not found")

// ContainerResolver turns a dotted identifier such as "app.templates" into
// a loader for that container. It is consulted once, when a Loader is
// constructed.
type ContainerResolver interface {
	ResolveContainer(id string) (ContainerLoader, error)
}

// ContainerLoader hands out resource readers for the container it was
// resolved for and for containers nested below it.
type ContainerLoader interface {
	// SupportsResources reports whether the loader implements the resource
	// protocol at all.
	SupportsResources() bool

	// ResourceReader returns a reader scoped to the container named by id.
	// A nil reader with a nil error means the container exists but exposes
	// no resources. An error wrapping ErrContainerNotFound means id cannot
	// be resolved.
	ResourceReader(id string) (ResourceReader, error)
}

// ResourceReader opens resources stored directly under one container.
// Names are slash separated and relative to the container. A missing
// resource is reported with an error wrapping fs.ErrNotExist.
type ResourceReader interface {
	OpenResource(name string) (io.ReadCloser, error)
}
