package errors

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      *LoaderError
		expected string
	}{
		{
			name:     "not found with reason and cause",
			err:      NewNotFoundError("foo/x.html", "Could not create ResourceReader.", fs.ErrNotExist),
			expected: "[ERR_TEMPLATE_NOT_FOUND] template:foo/x.html template not found (Could not create ResourceReader.): file does not exist",
		},
		{
			name:     "configuration error",
			err:      NewConfigurationError(ErrCodeRootUnresolvable, "cannot load container", nil),
			expected: "[ERR_ROOT_UNRESOLVABLE] cannot load container",
		},
		{
			name:     "validation error",
			err:      NewValidationError(ErrCodeInvalidIdentifier, "bad id"),
			expected: "[ERR_INVALID_IDENTIFIER] bad id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestLoaderErrorIs(t *testing.T) {
	notFound := NewNotFoundError("x.html", "", fs.ErrNotExist)
	assert.True(t, errors.Is(notFound, ErrTemplateNotFound))
	assert.True(t, errors.Is(notFound, fs.ErrNotExist))
	assert.False(t, errors.Is(notFound, ErrConfiguration))
	assert.True(t, IsNotFound(notFound))

	// Any configuration code matches the configuration sentinel.
	for _, code := range []string{ErrCodeConfigInvalid, ErrCodeRootUnresolvable, ErrCodeUnknownEncoding} {
		err := NewConfigurationError(code, "bad", nil)
		assert.True(t, IsConfigurationError(err), code)
		assert.False(t, IsNotFound(err), code)
	}

	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsConfigurationError(nil))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, "X", "msg"))

	inner := NewNotFoundError("a.html", "", nil).WithContext("root", "app")
	wrapped := WrapConfig(inner, ErrCodeConfigInvalid, "outer")
	require.NotNil(t, wrapped)
	assert.Equal(t, "a.html", wrapped.Template)
	assert.Equal(t, "app", wrapped.Context["root"])
	assert.False(t, wrapped.Recoverable)
	assert.True(t, IsConfigurationError(wrapped))
	assert.True(t, IsNotFound(wrapped))

	io := WrapIO(fs.ErrPermission, ErrCodeArchiveOpen, "open")
	assert.Equal(t, ErrorTypeIO, io.Type)
	assert.True(t, errors.Is(io, fs.ErrPermission))
}

func TestGetErrorContext(t *testing.T) {
	err := NewNotFoundError("a.html", "cannot decode template", nil).WithContext("root", "app")

	ctx := GetErrorContext(err)
	assert.Equal(t, "a.html", ctx["template"])
	assert.Equal(t, "cannot decode template", ctx["reason"])
	assert.Equal(t, "app", ctx["root"])
	assert.Equal(t, "not_found", ctx["type"])
	assert.Equal(t, true, ctx["recoverable"])

	plain := GetErrorContext(errors.New("boom"))
	assert.Equal(t, "boom", plain["message"])
	assert.Equal(t, "unknown", plain["type"])
}

func TestExtractCause(t *testing.T) {
	root := errors.New("disk on fire")
	err := WrapIO(NewNotFoundError("a.html", "", root), ErrCodeInternalError, "outer")
	assert.Equal(t, root, ExtractCause(err))

	leaf := NewValidationError("X", "leaf")
	assert.Equal(t, leaf, ExtractCause(leaf))
	assert.Nil(t, ExtractCause(nil))
}

func TestTemplateNotFoundSuggestions(t *testing.T) {
	ctx := &SuggestionContext{
		Root:       "app.templates",
		Containers: []string{"app.templates", "app.templates.foo.bar"},
		Available:  []string{"foo/test.html", "test.html", "foo/bar/x.html", "bar/test.html.jinja2"},
	}

	suggestions := TemplateNotFoundSuggestions("foo/bar/test.html", ctx)

	var titles []string
	for _, s := range suggestions {
		titles = append(titles, s.Title)
	}
	assert.Contains(t, titles, "List bundled containers")
	assert.Contains(t, titles, "Check the nested container")
	assert.Contains(t, titles, "Did you mean 'foo/test.html'?")
	assert.Contains(t, titles, "Did you mean 'test.html'?")

	for _, s := range suggestions {
		if s.Title == "Check the nested container" {
			assert.Contains(t, s.Description, "app.templates.foo.bar")
		}
	}

	assert.Len(t, TemplateNotFoundSuggestions("x.html", nil), 1)
}

func TestSimilarNamesLimit(t *testing.T) {
	available := []string{"a/x.html", "b/x.html", "c/x.html", "d/x.html", "x.html"}
	assert.Equal(t, []string{"a/x.html", "b/x.html", "c/x.html"}, similarNames("x.html", available))
	assert.Empty(t, similarNames("nothing.txt", available))
}

func TestEnhancedError(t *testing.T) {
	cause := NewNotFoundError("x.html", "", nil)
	err := NewEnhancedError("Template 'x.html' not found", cause, ConfigurationSuggestions("root", &SuggestionContext{
		ConfigPath: ".embedloader.yml",
		Containers: []string{"app"},
	}))

	msg := FormatError(err)
	assert.Contains(t, msg, "Template 'x.html' not found")
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "Run: embedloader config show")
	assert.Contains(t, msg, "Run: cat .embedloader.yml")
	assert.Contains(t, msg, "Mark the root container")
	assert.Contains(t, msg, "Available containers")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "", FormatError(nil))
	assert.Equal(t, "title", FormatSuggestions("title", nil))
}
