// Package render executes bundled templates with the standard library
// template engines. Templates are parsed on every call; sources come from a
// loader.Loader through its fs.FS view.
package render

import (
	"context"
	htmltemplate "html/template"
	"io"
	"os"
	"path"
	texttemplate "text/template"

	loaderrors "github.com/conneroisu/embedloader/internal/errors"
	"github.com/conneroisu/embedloader/pkg/loader"
	"gopkg.in/yaml.v3"
)

// Renderer renders templates resolved by a Loader.
type Renderer struct {
	Loader *loader.Loader
	// HTML selects html/template, which escapes data for HTML contexts.
	HTML bool
}

// Render executes the template name with data and writes the result to w.
// Names that cannot be resolved produce a not-found error.
func (r *Renderer) Render(ctx context.Context, w io.Writer, name string, data any) error {
	// Resolve first so a missing template keeps its not-found error kind.
	src, err := r.Loader.GetSource(ctx, name)
	if err != nil {
		return err
	}

	base := path.Base(src.Path)
	if r.HTML {
		tmpl, err := htmltemplate.New(base).Parse(src.Text)
		if err != nil {
			return loaderrors.NewValidationError(loaderrors.ErrCodeTemplateParse, err.Error()).WithContext("template", src.Path)
		}
		return tmpl.Execute(w, data)
	}

	tmpl, err := texttemplate.New(base).Parse(src.Text)
	if err != nil {
		return loaderrors.NewValidationError(loaderrors.ErrCodeTemplateParse, err.Error()).WithContext("template", src.Path)
	}
	return tmpl.Execute(w, data)
}

// ParseFS parses the named templates into one text template set, so
// templates can reference each other with {{template "x.html"}}.
func (r *Renderer) ParseFS(names ...string) (*texttemplate.Template, error) {
	return texttemplate.ParseFS(r.Loader.FS(), names...)
}

// LoadData reads YAML (or JSON) render data from file. An empty filename
// yields an empty map.
func LoadData(filename string) (map[string]any, error) {
	data := make(map[string]any)
	if filename == "" {
		return data, nil
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, loaderrors.WrapIO(err, loaderrors.ErrCodeDataRead, "cannot read render data")
	}

	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, loaderrors.Wrap(err, loaderrors.ErrorTypeValidation, loaderrors.ErrCodeDataParse, "cannot parse render data")
	}

	return data, nil
}
