package loader_test

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSParse(t *testing.T) {
	l := newTestLoader(t)

	tmpl, err := template.ParseFS(l.FS(), "foo/bar/x.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "x.html", nil))
	assert.Equal(t, "YYY\n", buf.String())
}

func TestFSOpen(t *testing.T) {
	fsys := newTestLoader(t).FS()

	f, err := fsys.Open("foo/test.html")
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "test.html", info.Name())
	assert.EqualValues(t, 4, info.Size())
	assert.False(t, info.IsDir())

	data, err := fs.ReadFile(fsys, "test.html")
	require.NoError(t, err)
	assert.Equal(t, "BAR\n", string(data))
}

func TestFSErrors(t *testing.T) {
	fsys := newTestLoader(t).FS()

	_, err := fsys.Open("missing.html")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = fsys.Open("../escape")
	assert.True(t, errors.Is(err, fs.ErrInvalid))

	_, err = fs.ReadFile(fsys, "foo/missing.html")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = template.ParseFS(fsys, "missing.html")
	assert.Error(t, err)
}
