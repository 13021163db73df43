package bundle

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// DefaultMarker is the file whose presence turns a directory into a
// container.
const DefaultMarker = "__init__.py"

// DiscoverOptions controls Discover.
type DiscoverOptions struct {
	// Marker is the package marker file name. Defaults to DefaultMarker.
	Marker string
	// Isolate hides every marked subdirectory from its ancestor containers,
	// the way bundlers that split packages apart lay out their resources.
	Isolate bool
}

// Discover walks fsys and registers every directory holding the marker
// file, using the directory path with "/" replaced by "." as identifier.
// Directories whose names contain a dot cannot form an identifier and are
// left to their ancestors.
func Discover(fsys fs.FS, opts DiscoverOptions) (*Registry, error) {
	registry := NewRegistry()
	if err := registry.discover(fsys, opts); err != nil {
		return nil, err
	}
	return registry, nil
}

func (r *Registry) discover(fsys fs.FS, opts DiscoverOptions) error {
	marker := opts.Marker
	if marker == "" {
		marker = DefaultMarker
	}

	var dirs []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || p == "." {
			return nil
		}
		if strings.Contains(d.Name(), ".") {
			return nil
		}
		if info, err := fs.Stat(fsys, path.Join(p, marker)); err == nil && info.Mode().IsRegular() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Strings(dirs)
	for _, dir := range dirs {
		sub, err := fs.Sub(fsys, dir)
		if err != nil {
			return err
		}
		if opts.Isolate {
			if hidden := descendants(dir, dirs); len(hidden) > 0 {
				sub = &isolatedFS{base: sub, hidden: hidden}
			}
		}
		if err := r.Register(strings.ReplaceAll(dir, "/", "."), sub); err != nil {
			return err
		}
	}

	return nil
}

// descendants returns the marked directories below dir, relative to it.
func descendants(dir string, dirs []string) []string {
	prefix := dir + "/"
	var out []string
	for _, d := range dirs {
		if strings.HasPrefix(d, prefix) {
			out = append(out, strings.TrimPrefix(d, prefix))
		}
	}
	return out
}

// isolatedFS is an fs.FS with some subtrees removed.
type isolatedFS struct {
	base   fs.FS
	hidden []string
}

func (f *isolatedFS) isHidden(name string) bool {
	for _, h := range f.hidden {
		if name == h || strings.HasPrefix(name, h+"/") {
			return true
		}
	}
	return false
}

func (f *isolatedFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if f.isHidden(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	file, err := f.base.Open(name)
	if err != nil {
		return nil, err
	}

	if dir, ok := file.(fs.ReadDirFile); ok {
		return &isolatedDir{ReadDirFile: dir, fsys: f, name: name}, nil
	}
	return file, nil
}

func (f *isolatedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if f.isHidden(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	entries, err := fs.ReadDir(f.base, name)
	if err != nil {
		return nil, err
	}
	return f.filter(name, entries), nil
}

func (f *isolatedFS) filter(dir string, entries []fs.DirEntry) []fs.DirEntry {
	kept := entries[:0]
	for _, e := range entries {
		if !f.isHidden(path.Join(dir, e.Name())) {
			kept = append(kept, e)
		}
	}
	return kept
}

// isolatedDir filters directory listings made through an open handle.
type isolatedDir struct {
	fs.ReadDirFile
	fsys *isolatedFS
	name string
}

func (d *isolatedDir) ReadDir(n int) ([]fs.DirEntry, error) {
	entries, err := d.ReadDirFile.ReadDir(n)
	return d.fsys.filter(d.name, entries), err
}
