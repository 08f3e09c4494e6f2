package render

import (
	"context"

	"github.com/goliatone/go-credform/pkg/model"
)

// Renderer converts a FormModel into a byte representation (HTML, terminal
// session output, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
