package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-credform/pkg/model"
)

const (
	templatePrefix = "templates/components/"
)

// Partial keys a theme can override.
const (
	PartialInput      = "forms.input"
	PartialRadio      = "forms.radio"
	PartialSelect     = "forms.select"
	PartialValidating = "forms.validating"
)

// DefaultPartials maps each partial key to its bundled template.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialInput:      templatePrefix + "input.tmpl",
		PartialRadio:      templatePrefix + "radio.tmpl",
		PartialSelect:     templatePrefix + "select.tmpl",
		PartialValidating: templatePrefix + "validating.tmpl",
	}
}

// NewDefaultRegistry constructs a registry pre-populated with the built-in
// components used by the vanilla renderer.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(PartialInput, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameRadio, Descriptor{
		Renderer: templateComponentRenderer(PartialRadio, templatePrefix+"radio.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(PartialSelect, templatePrefix+"select.tmpl"),
	})
	registry.MustRegister(NameValidating, Descriptor{
		Renderer: templateComponentRenderer(PartialValidating, templatePrefix+"validating.tmpl"),
	})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := data.Payload
		if payload == nil {
			payload = map[string]any{"variable": field.Variable}
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, map[string]any{
			"id":    data.ControlID,
			"field": payload,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
