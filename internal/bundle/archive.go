package bundle

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/klauspost/compress/zip"
)

// Archive is a zip bundle opened as a container registry.
type Archive struct {
	*Registry
	Manifest *Manifest

	closer io.Closer
}

// OpenArchive opens the zip file at name. The archive's bundle.yaml is
// used when present; otherwise marked directories are discovered with
// defaults overridden by fallback, which may be nil.
func OpenArchive(name string, fallback *Manifest) (*Archive, error) {
	rc, err := zip.OpenReader(name)
	if err != nil {
		return nil, loaderrors.WrapIO(err, loaderrors.ErrCodeArchiveOpen, "cannot open bundle archive "+name)
	}

	archive, err := newArchive(&rc.Reader, fallback)
	if err != nil {
		rc.Close()
		return nil, err
	}
	archive.closer = rc

	return archive, nil
}

// NewArchive reads a zip bundle from r.
func NewArchive(r io.ReaderAt, size int64, fallback *Manifest) (*Archive, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, loaderrors.WrapIO(err, loaderrors.ErrCodeArchiveOpen, "cannot read bundle archive")
	}
	return newArchive(zr, fallback)
}

func newArchive(zr *zip.Reader, fallback *Manifest) (*Archive, error) {
	for _, f := range zr.File {
		if strings.Contains(f.Name, "\\") || strings.HasPrefix(f.Name, "/") {
			return nil, loaderrors.NewConfigurationError(loaderrors.ErrCodeArchiveOpen,
				"archive entry has an unsafe name: "+f.Name, nil)
		}
	}

	manifest, err := LoadManifest(zr, ManifestName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		manifest = fallback
		if manifest == nil {
			manifest = &Manifest{}
		}
	case err != nil:
		return nil, err
	}

	registry, err := manifest.Build(zr)
	if err != nil {
		return nil, err
	}

	return &Archive{Registry: registry, Manifest: manifest}, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
