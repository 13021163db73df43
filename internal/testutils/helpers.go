// Package testutils builds bundle fixtures shared by package tests.
package testutils

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// SplitBundle is a bundle where foo/bar carries its own package marker, so
// a splitting bundler exposes it only as <root>.foo.bar.
func SplitBundle(root string) map[string]string {
	return map[string]string{
		root + "/__init__.py":         "",
		root + "/test.html":           "BAR",
		root + "/foo/test.html":       "FOO",
		root + "/foo/bar/__init__.py": "",
		root + "/foo/bar/x.html":      "YYY",
	}
}

// BuildZip returns an in-memory zip archive holding files. Entries are
// written in name order so archives are reproducible.
func BuildZip(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(files[name]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return bytes.NewReader(buf.Bytes())
}

// WriteZipBundle writes files as bundle.zip in a temporary directory and
// returns its path.
func WriteZipBundle(t *testing.T, files map[string]string) string {
	t.Helper()

	r := BuildZip(t, files)
	data := make([]byte, r.Size())
	_, err := r.ReadAt(data, 0)
	require.NoError(t, err)

	name := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, os.WriteFile(name, data, 0o600))

	return name
}

// MaliciousNames holds template names that try to escape a container.
// None of them may resolve.
var MaliciousNames = []string{
	"../../../etc/passwd",
	"..\\..\\..\\windows\\system32\\config\\sam",
	"....//....//....//etc/passwd",
	"..%2F..%2F..%2Fetc%2Fpasswd",
	"/%2e%2e/%2e%2e/%2e%2e/etc/passwd",
	"/./../../etc/passwd",
	"foo/../../__init__.py",
	"foo/bar/../../../../etc/passwd",
}
