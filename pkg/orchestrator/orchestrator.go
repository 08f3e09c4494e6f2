package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-credform/pkg/visibility"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that can patch the form model
// before rendering.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLocale selects the locale used to resolve labels.
func WithLocale(accessor locale.Accessor) Option {
	return func(o *Orchestrator) {
		o.locale = accessor
	}
}

// WithEvaluator overrides the show_on evaluator.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluator = eval
	}
}

// WithThemeSelector resolves Request.ThemeName/ThemeVariant through selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks sets the partials used when a theme does not override
// them. Defaults to the vanilla component templates.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// Orchestrator renders credential forms. It applies sensible defaults
// (vanilla renderer, embedded templates) while remaining open to dependency
// injection for advanced callers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	locale          locale.Accessor
	evaluator       visibility.Evaluator
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Props are the component props as the parent currently holds them.
	Props form.Props

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are resolved through the theme selector when
	// RenderOptions.Theme is not already set.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions such as the form id or
	// server-side errors.
	RenderOptions render.RenderOptions
}

// Build returns the form model for props without rendering it.
func (o *Orchestrator) Build(props form.Props) model.FormModel {
	return form.NewHost(props, o.formOptions()...).Build()
}

// Generate builds the form model, applies the transformer and theme, and
// renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	fm := o.Build(req.Props)
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &fm); err != nil {
			return nil, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}

	options := req.RenderOptions
	if options.Theme == nil && o.themeSelector != nil {
		cfg, err := render.ResolveTheme(o.themeSelector, req.ThemeName, req.ThemeVariant, o.themeFallbacks)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		options.Theme = cfg
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, fm, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) formOptions() []form.Option {
	var options []form.Option
	if o.locale != nil {
		options = append(options, form.WithLocale(o.locale))
	}
	if o.evaluator != nil {
		options = append(options, form.WithEvaluator(o.evaluator))
	}
	return options
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = components.DefaultPartials()
	}
}
