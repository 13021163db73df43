// Package loader resolves slash separated template names to their text by
// reading resources bundled inside containers (packages) instead of files on
// disk.
//
// A name such as "foo/bar/x.html" is first opened as a nested path under the
// root container. If the root container does not have it, the leading
// segments are turned into a nested container identifier
// ("<root>.foo.bar") and only the leaf "x.html" is opened there. Bundlers
// either keep subdirectories reachable from the root or split directories
// that carry a package marker into containers of their own; trying both
// tiers makes the layout invisible to callers.
//
// Bundled content is immutable for the life of the process, so every
// resolved Source reports itself up to date.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/internal/logging"
)

// Reason attached to NotFound when a container offers no resource reader.
const reasonNoReader = "Could not create ResourceReader."

var (
	// ErrTemplateNotFound matches every error returned when a template cannot
	// be located, via errors.Is.
	ErrTemplateNotFound = loaderrors.ErrTemplateNotFound
	// ErrConfiguration matches every error returned by New, via errors.Is.
	ErrConfiguration = loaderrors.ErrConfiguration
)

// Config configures a Loader.
type Config struct {
	// Root is the dotted identifier of the container anchoring all lookups.
	Root string
	// Encoding names the text encoding of the bundled templates.
	Encoding string
	// Logger receives debug records for each lookup tier. Optional.
	Logger logging.Logger
}

// DefaultConfig returns a configuration for root using the default encoding.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:     root,
		Encoding: DefaultEncoding,
	}
}

// Source is a resolved template.
type Source struct {
	// Text is the decoded template source.
	Text string
	// Path is the canonical slash joined template path.
	Path string
	// UpToDate reports whether Text is still current. It always returns true.
	UpToDate func() bool
}

// Loader resolves template names against a root container. It holds no
// mutable state and is safe for concurrent use when the underlying
// ContainerLoader is.
type Loader struct {
	root      string
	codec     *codec
	container ContainerLoader
	logger    logging.Logger
}

// New validates config and resolves the root container once. Any failure
// is a configuration error and no Loader is returned.
func New(resolver ContainerResolver, config *Config) (*Loader, error) {
	if config == nil || strings.TrimSpace(config.Root) == "" {
		return nil, loaderrors.NewConfigurationError(loaderrors.ErrCodeConfigInvalid,
			"root container identifier must not be empty", nil)
	}
	if resolver == nil {
		return nil, loaderrors.NewConfigurationError(loaderrors.ErrCodeConfigInvalid,
			"container resolver must not be nil", nil)
	}

	c, err := lookupEncoding(config.Encoding)
	if err != nil {
		return nil, loaderrors.NewConfigurationError(loaderrors.ErrCodeUnknownEncoding,
			"cannot use template encoding", err)
	}

	container, err := resolver.ResolveContainer(config.Root)
	if err == nil && container == nil {
		err = ErrContainerNotFound
	}
	if err != nil {
		return nil, loaderrors.NewConfigurationError(loaderrors.ErrCodeRootUnresolvable,
			fmt.Sprintf("cannot load container %q: is it missing its package marker? "+
				"A marker is only required in %q itself; subdirectories may have one but need not",
				config.Root, config.Root),
			err).WithContext("root", config.Root)
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Loader{
		root:      config.Root,
		codec:     c,
		container: container,
		logger:    logger.WithComponent("loader").With("root", config.Root),
	}, nil
}

// Root returns the root container identifier.
func (l *Loader) Root() string { return l.root }

// Encoding returns the configured encoding label.
func (l *Loader) Encoding() string { return l.codec.name }

// GetSource resolves name and returns its decoded text. ctx is only used for
// logging. Every failure is reported as a not-found error carrying name.
func (l *Loader) GetSource(ctx context.Context, name string) (*Source, error) {
	segments, err := SplitTemplatePath(name)
	if err != nil {
		return nil, err
	}
	path := strings.Join(segments, "/")

	data, err := l.readRoot(ctx, name, path)
	if err != nil {
		var miss *localMiss
		if !errors.As(err, &miss) {
			return nil, err
		}
		if len(segments) < 2 {
			return nil, loaderrors.NewNotFoundError(name, "", miss.cause)
		}

		data, err = l.readNested(ctx, name, segments)
		if err != nil {
			return nil, err
		}
	}

	text, err := l.codec.decode(data)
	if err != nil {
		return nil, loaderrors.NewNotFoundError(name, "cannot decode template", err)
	}

	return &Source{
		Text:     text,
		Path:     path,
		UpToDate: alwaysCurrent,
	}, nil
}

func alwaysCurrent() bool { return true }

// localMiss marks a clean "resource absent" result from the root tier, the
// only outcome that allows falling back to the nested container.
type localMiss struct {
	cause error
}

func (m *localMiss) Error() string { return m.cause.Error() }

func (m *localMiss) Unwrap() error { return m.cause }

// readRoot opens the whole path under the root container.
func (l *Loader) readRoot(ctx context.Context, name, path string) ([]byte, error) {
	reader, err := l.reader(l.root)
	if err != nil || reader == nil {
		l.logger.Debug(ctx, "root container has no resource reader", "template", name)
		return nil, loaderrors.NewNotFoundError(name, reasonNoReader, err)
	}

	data, err := readResource(reader, path)
	switch {
	case err == nil:
		l.logger.Debug(ctx, "template resolved", "template", name, "tier", 1, "container", l.root)
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, &localMiss{cause: err}
	default:
		l.logger.Warn(ctx, err, "root container read failed", "template", name)
		return nil, loaderrors.NewNotFoundError(name, "cannot read resource", err)
	}
}

// readNested opens the leaf segment under the container formed by the
// root identifier and the directory segments.
func (l *Loader) readNested(ctx context.Context, name string, segments []string) ([]byte, error) {
	nested := NestedContainerID(l.root, segments[:len(segments)-1])

	reader, err := l.reader(nested)
	if err != nil {
		l.logger.Debug(ctx, "nested container unresolvable", "template", name, "container", nested)
		return nil, loaderrors.NewNotFoundError(name, "", err)
	}
	if reader == nil {
		return nil, loaderrors.NewNotFoundError(name, reasonNoReader, nil)
	}

	data, err := readResource(reader, segments[len(segments)-1])
	if err != nil {
		return nil, loaderrors.NewNotFoundError(name, "", err)
	}

	l.logger.Debug(ctx, "template resolved", "template", name, "tier", 2, "container", nested)
	return data, nil
}

// reader obtains a fresh resource reader for id. A loader without the
// resource protocol yields (nil, nil).
func (l *Loader) reader(id string) (ResourceReader, error) {
	if !l.container.SupportsResources() {
		return nil, nil
	}
	return l.container.ResourceReader(id)
}

// readResource reads one resource fully and always releases it.
func readResource(reader ResourceReader, name string) (data []byte, err error) {
	rc, err := reader.OpenResource(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			data, err = nil, cerr
		}
	}()

	return io.ReadAll(rc)
}

// NestedContainerID appends dirs to root using the dotted identifier form,
// e.g. ("app.templates", ["foo", "bar"]) gives "app.templates.foo.bar".
func NestedContainerID(root string, dirs []string) string {
	if len(dirs) == 0 {
		return root
	}
	return root + "." + strings.Join(dirs, ".")
}

// SplitTemplatePath splits a template name on "/". Empty and "." segments
// are dropped; a ".." segment makes the name invalid and is reported as
// not found.
func SplitTemplatePath(name string) ([]string, error) {
	var segments []string
	for _, piece := range strings.Split(name, "/") {
		switch piece {
		case "", ".":
			continue
		case "..":
			return nil, loaderrors.NewNotFoundError(name, "path escapes the root container", nil)
		}
		segments = append(segments, piece)
	}

	return segments, nil
}

// IsNotFound reports whether err means the template does not exist.
func IsNotFound(err error) bool {
	return loaderrors.IsNotFound(err)
}

// IsConfigurationError reports whether err was returned by New.
func IsConfigurationError(err error) bool {
	return loaderrors.IsConfigurationError(err)
}
