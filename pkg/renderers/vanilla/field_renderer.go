package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/render/template"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla/components"
)

const requiredMarker = `<span class="ml-1 text-red-500">*</span>`

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	overrides map[model.FieldKind]string
	partials  map[string]string
	formID    string

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, overrides map[model.FieldKind]string, partials map[string]string, formID string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates:      templates,
		registry:       registry,
		overrides:      overrides,
		partials:       partials,
		formID:         formID,
		usedComponents: make(map[string]struct{}),
	}
}

// render returns the markup for one field. Fields whose kind has no component
// render nothing.
func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := r.overrides[field.Kind]
	if componentName == "" {
		componentName = components.ForKind(field.Kind)
	}
	if componentName == "" {
		return "", nil
	}

	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Variable)
	}

	id := controlID(r.formID, field.Variable)
	data := components.ComponentData{
		Template:      r.templates,
		ControlID:     id,
		Payload:       fieldPayload(field, id),
		ThemePartials: r.partials,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Variable, err)
	}
	r.usedComponents[componentName] = struct{}{}

	var indicator bytes.Buffer
	if field.ShowValidating {
		validating, ok := r.registry.Descriptor(components.NameValidating)
		if !ok {
			return "", fmt.Errorf("component %q not registered for field %q", components.NameValidating, field.Variable)
		}
		if err := validating.Renderer(&indicator, field, data); err != nil {
			return "", fmt.Errorf("render validating indicator for field %q: %w", field.Variable, err)
		}
		r.usedComponents[components.NameValidating] = struct{}{}
	}

	return buildFieldMarkup(field, componentName, id, control.String(), indicator.String()), nil
}

func (r *componentRenderer) assets() (stylesheets []string, scripts []components.Script) {
	if r.registry == nil || len(r.usedComponents) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Assets(names)
}

// fieldPayload is the template view of field. Numbers stay ints so pongo2
// prints them without a fraction.
func fieldPayload(field model.Field, id string) map[string]any {
	options := make([]any, 0, len(field.Options))
	hasSelection := false
	for _, option := range field.Options {
		if option.Selected {
			hasSelection = true
		}
		options = append(options, map[string]any{
			"id":       optionID(id, option.Value),
			"value":    option.Value,
			"label":    sanitizeText(option.Label),
			"selected": option.Selected,
		})
	}

	return map[string]any{
		"variable":       field.Variable,
		"kind":           string(field.Kind),
		"label":          sanitizeText(field.Label),
		"placeholder":    sanitizeText(field.Placeholder),
		"value":          field.Value,
		"hasValue":       field.HasValue,
		"maxLength":      field.MaxLength,
		"required":       field.Required,
		"disabled":       field.Disabled,
		"secret":         field.Secret,
		"validated":      field.Validated,
		"showValidating": field.ShowValidating,
		"hasSelection":   hasSelection,
		"options":        options,
	}
}

func buildFieldMarkup(field model.Field, componentName, id, control, indicator string) string {
	var builder strings.Builder
	builder.Grow(len(control) + len(indicator) + 256)

	builder.WriteString(`<div class="grid gap-2" data-field data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-kind="`)
	builder.WriteString(html.EscapeString(string(field.Kind)))
	builder.WriteString(`" data-variable="`)
	builder.WriteString(html.EscapeString(field.Variable))
	builder.WriteString(`"`)
	if field.Disabled {
		builder.WriteString(` data-disabled="true"`)
	}
	if field.ShowValidating {
		builder.WriteString(` aria-busy="true"`)
	}
	if len(field.Errors) > 0 {
		builder.WriteString(` data-invalid="true"`)
	}
	builder.WriteString(">\n")

	if label := sanitizeText(field.Label); label != "" {
		builder.WriteString(`    <label id="`)
		builder.WriteString(html.EscapeString(id))
		builder.WriteString(`-label"`)
		if labelSupportsFor(componentName) {
			builder.WriteString(` for="`)
			builder.WriteString(html.EscapeString(id))
			builder.WriteString(`"`)
		}
		builder.WriteString(` class="text-sm font-medium text-gray-900">`)
		builder.WriteString(html.EscapeString(label))
		if field.Required {
			builder.WriteString(requiredMarker)
		}
		builder.WriteString("</label>\n")
	}

	writeIndented(&builder, control)
	writeIndented(&builder, indicator)

	for _, message := range field.Errors {
		builder.WriteString(`    <p class="text-sm text-red-600" data-error>`)
		builder.WriteString(html.EscapeString(message))
		builder.WriteString("</p>\n")
	}

	builder.WriteString("</div>\n")
	return builder.String()
}

func writeIndented(builder *strings.Builder, markup string) {
	for _, line := range strings.Split(markup, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("    ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
}
