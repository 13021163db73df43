package loader

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"time"
)

// FS returns a read-only fs.FS view of the loader, so templates can be
// parsed with text/template.ParseFS or html/template.ParseFS. Only literal
// template names can be opened; directories cannot be listed, so glob
// patterns match nothing. File contents are the decoded text as UTF-8.
func (l *Loader) FS() fs.FS {
	return &sourceFS{loader: l}
}

type sourceFS struct {
	loader *Loader
}

// Open implements fs.FS.
func (s *sourceFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	src, err := s.loader.GetSource(context.Background(), name)
	if err != nil {
		if IsNotFound(err) {
			return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &sourceFile{
		Reader: bytes.NewReader([]byte(src.Text)),
		info: sourceInfo{
			name: path.Base(src.Path),
			size: int64(len(src.Text)),
		},
	}, nil
}

// ReadFile implements fs.ReadFileFS.
func (s *sourceFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) || name == "." {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	src, err := s.loader.GetSource(context.Background(), name)
	if err != nil {
		if IsNotFound(err) {
			return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
		}
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}

	return []byte(src.Text), nil
}

type sourceFile struct {
	*bytes.Reader
	info sourceInfo
}

func (f *sourceFile) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *sourceFile) Close() error { return nil }

type sourceInfo struct {
	name string
	size int64
}

func (i sourceInfo) Name() string       { return i.name }
func (i sourceInfo) Size() int64        { return i.size }
func (i sourceInfo) Mode() fs.FileMode  { return 0o444 }
func (i sourceInfo) ModTime() time.Time { return time.Time{} }
func (i sourceInfo) IsDir() bool        { return false }
func (i sourceInfo) Sys() any           { return nil }
