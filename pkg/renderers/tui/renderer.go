package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/schema"
)

// Name is the registry name of the terminal renderer.
const Name = "tui"

// Renderer implements render.Renderer for terminal-driven sessions. Render
// runs a Session over the fields of a form model and returns the collected
// answers in the configured output format.
type Renderer struct {
	options []Option
	cfg     config
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	cfg := newConfig(options)
	if cfg.driver == nil {
		return nil, ErrNoDriver
	}
	return &Renderer{options: options, cfg: cfg}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return contentType(r.cfg.outputFormat)
}

// Render prompts for every field in form. The model only carries fields that
// were visible when it was built, so show_on rules do not apply here; use
// NewSession with the schemas for reveal-on-change behaviour.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, _ render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	props := propsFromModel(fm)
	options := append([]Option{WithLocale(locale.Static(fm.Locale))}, r.options...)
	session, err := NewSession(props, options...)
	if err != nil {
		return nil, err
	}

	values, err := session.Run(ctx)
	if err != nil {
		return nil, err
	}
	return session.Serialize(r.cfg.outputFormat, values)
}

// propsFromModel rebuilds schema entries from rendered fields. Labels are keyed
// by the model locale so lookups resolve to the same text.
func propsFromModel(fm model.FormModel) form.Props {
	lang := fm.Locale
	if lang == "" {
		lang = locale.Default
	}
	text := func(value string) schema.I18nText {
		if value == "" {
			return nil
		}
		return schema.I18nText{lang: value}
	}

	schemas := make(schema.Schemas, 0, len(fm.Fields))
	values := schema.FormValue{}
	for _, field := range fm.Fields {
		common := schema.Common{
			Variable: field.Variable,
			Label:    text(field.Label),
			Required: field.Required,
			ShowOn:   []schema.ShowOnItem{},
		}
		options := make([]schema.Option, 0, len(field.Options))
		for _, option := range field.Options {
			options = append(options, schema.Option{
				Value:  option.Value,
				Label:  text(option.Label),
				ShowOn: []schema.ShowOnItem{},
			})
		}

		switch field.Kind {
		case model.FieldKindTextInput:
			schemas = append(schemas, &schema.TextInput{Common: common, Placeholder: text(field.Placeholder), MaxLength: field.MaxLength})
		case model.FieldKindSecretInput:
			schemas = append(schemas, &schema.SecretInput{Common: common, Placeholder: text(field.Placeholder), MaxLength: field.MaxLength})
		case model.FieldKindRadio:
			schemas = append(schemas, &schema.Radio{Common: common, Options: options})
		case model.FieldKindSelect:
			schemas = append(schemas, &schema.Select{Common: common, Options: options, Placeholder: text(field.Placeholder)})
		default:
			continue
		}
		if field.HasValue {
			values[field.Variable] = schema.Str(field.Value)
		}
	}

	return form.Props{
		Value:             values,
		Schemas:           schemas,
		ShowOnVariableMap: schema.ShowOnVariableMap{},
		IsEditMode:        fm.IsEditMode,
	}
}

func contentType(format OutputFormat) string {
	switch format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Serialize encodes values. Pretty text follows the schema order and masks
// every secret field, hidden or not; undefined entries are omitted in every
// format.
func Serialize(format OutputFormat, schemas schema.Schemas, values schema.FormValue) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(schemas, values)), nil
	case OutputFormatJSON, "":
		return encodeJSON(values)
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", format)
	}
}
