package template

import (
	"io"
)

// TemplateRenderer executes a named template. HTML renderers depend on this
// seam only; the bundled implementation is pongo2 based.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
}
