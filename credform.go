// Package credform renders provider credential forms: schema-driven inputs
// whose visibility follows show_on conditions, whose dependents are cleared
// when a controlling field changes, and whose identity fields lock in edit
// mode.
package credform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/orchestrator"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/schema"
)

// FormValue is the parent-owned value snapshot.
type FormValue = schema.FormValue

// Schemas is the ordered credential field list.
type Schemas = schema.Schemas

// Props are the component props supplied by the parent.
type Props = form.Props

// FormModel is the renderer-facing projection of a form.
type FormModel = model.FormModel

// RenderOptions describes per-request overrides such as server-side errors.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML builds the form for props and renders it with the vanilla
// renderer. It is the simplest entry point for callers that just want HTML.
func RenderHTML(ctx context.Context, props Props, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{Props: props})
}

// RenderHTMLWithErrors renders props and attaches validation messages keyed by
// variable.
func RenderHTMLWithErrors(ctx context.Context, props Props, errors map[string][]string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Props:         props,
		RenderOptions: render.RenderOptions{Errors: errors},
	})
}

// WithLocale selects the label locale, e.g. "en_US" or "zh-Hans".
func WithLocale(tag string) orchestrator.Option {
	return orchestrator.WithLocale(locale.Static(locale.Normalize(tag)))
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithRegistry renders with the renderers in registry.
func WithRegistry(registry *render.Registry) orchestrator.Option {
	return orchestrator.WithRegistry(registry)
}
