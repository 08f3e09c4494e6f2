package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/render"
	rendertemplate "github.com/goliatone/go-credform/pkg/render/template"
	"github.com/goliatone/go-credform/pkg/render/template/pongo"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the vanilla renderer.
const Name = "vanilla"

type Option func(*config)

// DefaultValidatingLabel is shown next to the field being validated.
const DefaultValidatingLabel = "Validating"

type config struct {
	templateFS       fs.FS
	templatesDir     string
	validatingLabel  string
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	kindComponents   map[model.FieldKind]string
	stylesheets      []string
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir searches path before the template bundle. The directory
// mirrors the bundle layout (templates/form.tmpl, templates/components/...),
// so it only needs the files being overridden.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithValidatingLabel replaces the text of the validating indicator.
func WithValidatingLabel(label string) Option {
	return func(cfg *config) {
		if label = strings.TrimSpace(label); label != "" {
			cfg.validatingLabel = label
		}
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithKindComponent renders every field of kind with the named component.
func WithKindComponent(kind model.FieldKind, component string) Option {
	return func(cfg *config) {
		component = strings.TrimSpace(component)
		if component == "" {
			return
		}
		if cfg.kindComponents == nil {
			cfg.kindComponents = make(map[model.FieldKind]string)
		}
		cfg.kindComponents[kind] = component
	}
}

// WithStylesheet links an external stylesheet ahead of the form.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// WithDefaultStyles inlines the bundled stylesheet.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// Renderer turns a form model into HTML using pongo2 templates.
type Renderer struct {
	templates      rendertemplate.TemplateRenderer
	registry       *components.Registry
	kindComponents map[model.FieldKind]string
	stylesheets    []string
	inlineStyles   string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), validatingLabel: DefaultValidatingLabel}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithBaseDir(cfg.templatesDir),
			pongo.WithExtension(".tmpl"),
			pongo.WithGlobals(map[string]any{"validating_label": cfg.validatingLabel}),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	renderer := &Renderer{
		templates:      templates,
		registry:       registry,
		kindComponents: cfg.kindComponents,
		stylesheets:    cfg.stylesheets,
	}
	if cfg.inlineStyles {
		renderer.inlineStyles = defaultStylesheet()
	}
	return renderer, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup. Messages in options.Errors are attached to
// their fields; messages for fields that are not rendered are listed at the
// top of the form.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form = render.ApplyErrors(form, options.Errors)
	formID := options.FormIDOrDefault()

	partials := components.DefaultPartials()
	if options.Theme != nil {
		for key := range partials {
			if candidate := options.Theme.Partial(key); candidate != "" {
				partials[key] = candidate
			}
		}
	}

	fields := newComponentRenderer(r.templates, r.registry, r.kindComponents, partials, formID)
	markup := make([]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		rendered, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		if rendered != "" {
			markup = append(markup, rendered)
		}
	}

	componentStyles, componentScripts := fields.assets()
	stylesheets := make([]any, 0, len(r.stylesheets)+len(componentStyles)+1)
	for _, href := range r.stylesheets {
		stylesheets = append(stylesheets, href)
	}
	if options.Theme != nil {
		if href := options.Theme.Assets["stylesheet"]; href != "" {
			stylesheets = append(stylesheets, href)
		}
	}
	for _, href := range componentStyles {
		stylesheets = append(stylesheets, href)
	}

	scripts := make([]any, 0, len(componentScripts))
	for _, script := range componentScripts {
		scripts = append(scripts, map[string]any{
			"src":    script.Src,
			"inline": script.Inline,
			"defer":  script.Defer,
			"module": script.Module,
		})
	}

	var formErrors []any
	if joined := strings.TrimSpace(form.Metadata["errors"]); joined != "" {
		for _, message := range strings.Split(joined, "\n") {
			formErrors = append(formErrors, message)
		}
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", map[string]any{
		"form_id":       formID,
		"locale":        form.Locale,
		"style":         options.Theme.Style(),
		"endpoint":      options.Endpoint,
		"edit_mode":     form.IsEditMode,
		"validating":    form.Validating,
		"validated":     form.ValidatedSuccess,
		"fields":        markup,
		"form_errors":   formErrors,
		"stylesheets":   stylesheets,
		"scripts":       scripts,
		"inline_styles": r.inlineStyles,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
