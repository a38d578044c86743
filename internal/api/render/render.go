// Package render serves the browser views from embedded pongo2 templates.
package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/flosch/pongo2/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates
var templateFS embed.FS

// ContextFunc supplies values every page needs (current identity, flashes).
type ContextFunc func(c echo.Context) pongo2.Context

// Renderer implements echo.Renderer over a pongo2 template set.
type Renderer struct {
	set     *pongo2.TemplateSet
	globals ContextFunc
}

var registerFilters sync.Once

// New builds the renderer. In debug mode templates are re-parsed on every
// render.
func New(debug bool, globals ContextFunc) (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	loader, err := pongo2.NewHttpFileSystemLoader(http.FS(sub), "")
	if err != nil {
		return nil, err
	}

	registerFilters.Do(func() {
		pongo2.RegisterFilter("salary", salaryFilter)
		pongo2.RegisterFilter("isodate", isoDateFilter)
	})

	set := pongo2.NewSet("views", loader)
	set.Debug = debug
	return &Renderer{set: set, globals: globals}, nil
}

// Render executes the named template with data, which must be a
// pongo2.Context, a map[string]any or nil.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return fmt.Errorf("load template %s: %w", name, err)
	}

	ctx := pongo2.Context{}
	if r.globals != nil && c != nil {
		ctx.Update(r.globals(c))
	}
	switch d := data.(type) {
	case pongo2.Context:
		ctx.Update(d)
	case map[string]any:
		ctx.Update(d)
	case nil:
	default:
		return fmt.Errorf("render %s: unsupported data type %T", name, data)
	}

	return tpl.ExecuteWriter(ctx, w)
}

var printer = message.NewPrinter(language.English)

// salaryFilter formats a salary with thousands separators; nil renders "-".
func salaryFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch v := in.Interface().(type) {
	case *float64:
		if v == nil {
			return pongo2.AsValue("-"), nil
		}
		return pongo2.AsValue(printer.Sprintf("%.2f", *v)), nil
	case float64:
		return pongo2.AsValue(printer.Sprintf("%.2f", v)), nil
	default:
		return pongo2.AsValue("-"), nil
	}
}

// isoDateFilter renders a date as YYYY-MM-DD, the value format of <input type="date">.
func isoDateFilter(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	switch v := in.Interface().(type) {
	case time.Time:
		if v.IsZero() {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(v.Format("2006-01-02")), nil
	case *time.Time:
		if v == nil || v.IsZero() {
			return pongo2.AsValue(""), nil
		}
		return pongo2.AsValue(v.Format("2006-01-02 15:04")), nil
	default:
		return pongo2.AsValue(""), nil
	}
}
