package form

import (
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/visibility"
)

// Props are supplied by the parent on every render. The parent owns Value and
// receives replacement snapshots through OnChange.
type Props struct {
	Value             schema.FormValue
	Schemas           schema.Schemas
	Validating        bool
	ValidatedSuccess  bool
	ShowOnVariableMap schema.ShowOnVariableMap
	IsEditMode        bool
	OnChange          func(schema.FormValue)
}

// Option customises a Form.
type Option func(*Form)

// WithEvaluator overrides the show_on evaluator.
func WithEvaluator(eval visibility.Evaluator) Option {
	return func(f *Form) {
		if eval != nil {
			f.evaluator = eval
		}
	}
}

// WithLocale sets the locale accessor used to resolve labels.
func WithLocale(accessor locale.Accessor) Option {
	return func(f *Form) {
		if accessor != nil {
			f.locale = accessor
		}
	}
}

// Form is the credential form component. It is a function of its Props plus a
// single piece of local state: the variable edited most recently, used to
// place the validating indicator. That state survives SetProps and is only
// reset by constructing a new Form.
//
// Form is not safe for concurrent use; callers that share it across
// goroutines must serialise access.
type Form struct {
	props     Props
	evaluator visibility.Evaluator
	locale    locale.Accessor
	changeKey string
}

// New constructs a Form for the given props.
func New(props Props, options ...Option) *Form {
	f := &Form{
		props:     props,
		evaluator: visibility.Default(),
		locale:    locale.Static(locale.Default),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// SetProps replaces the props for the next render pass.
func (f *Form) SetProps(props Props) {
	f.props = props
}

// Props returns the current props.
func (f *Form) Props() Props {
	return f.props
}

// LastChanged returns the variable most recently accepted by HandleChange.
func (f *Form) LastChanged() string {
	return f.changeKey
}

// Locale returns the active locale key.
func (f *Form) Locale() string {
	return f.locale.Locale()
}

// HandleChange applies an edit of key. Identity fields are immutable in edit
// mode, so such calls are ignored and report false. Otherwise the key becomes
// the last changed field and OnChange receives a new snapshot where key holds
// value and every dependent listed in the clearing map is undefined. The
// current Value is never written to.
func (f *Form) HandleChange(key, value string) bool {
	if f.props.IsEditMode && schema.IsIdentity(key) {
		return false
	}

	f.changeKey = key

	next := f.props.Value.With(key, value)
	for _, dependent := range f.props.ShowOnVariableMap.Dependents(key) {
		next[dependent] = nil
	}

	if f.props.OnChange != nil {
		f.props.OnChange(next)
	}
	return true
}

// Visible reports whether field passes its show_on conditions.
func (f *Form) Visible(field schema.Field) bool {
	return visibility.FieldVisible(f.evaluator, field, f.props.Value)
}

// VisibleFields returns the schema entries whose show_on currently holds, in
// schema order. Unknown kinds are included; Build skips them.
func (f *Form) VisibleFields() []schema.Field {
	out := make([]schema.Field, 0, len(f.props.Schemas))
	for _, field := range f.props.Schemas {
		if f.Visible(field) {
			out = append(out, field)
		}
	}
	return out
}

// VisibleOptions returns the options of a radio/select field that currently
// pass their own show_on conditions.
func (f *Form) VisibleOptions(field schema.Field) []schema.Option {
	return visibility.FilterOptions(f.evaluator, schema.OptionsOf(field), f.props.Value)
}

// Disabled reports whether field is locked by edit mode. The lock covers
// text, secret and radio fields; select fields are never locked.
func (f *Form) Disabled(field schema.Field) bool {
	if !f.props.IsEditMode || field == nil {
		return false
	}
	switch field.(type) {
	case *schema.TextInput, *schema.SecretInput, *schema.Radio:
		return schema.IsIdentity(field.Base().Variable)
	default:
		return false
	}
}

// Build runs one render pass and returns the view model.
func (f *Form) Build() model.FormModel {
	lang := f.Locale()
	out := model.FormModel{
		Locale:           lang,
		Fields:           make([]model.Field, 0, len(f.props.Schemas)),
		Validating:       f.props.Validating,
		ValidatedSuccess: f.props.ValidatedSuccess,
		IsEditMode:       f.props.IsEditMode,
	}

	for _, field := range f.props.Schemas {
		kind, ok := kindOf(field)
		if !ok || !f.Visible(field) {
			continue
		}

		base := field.Base()
		value, hasValue := f.props.Value.Get(base.Variable)
		rendered := model.Field{
			Kind:           kind,
			Variable:       base.Variable,
			Label:          base.Label.Get(lang),
			Placeholder:    schema.PlaceholderOf(field).Get(lang),
			Required:       base.Required,
			Value:          value,
			HasValue:       hasValue,
			Disabled:       f.Disabled(field),
			ShowValidating: f.props.Validating && f.changeKey == base.Variable,
			Validated:      f.props.ValidatedSuccess,
		}

		switch typed := field.(type) {
		case *schema.TextInput:
			rendered.MaxLength = typed.MaxLength
		case *schema.SecretInput:
			rendered.MaxLength = typed.MaxLength
			rendered.Secret = true
		case *schema.Radio, *schema.Select:
			rendered.Options = f.buildOptions(field, lang, value, hasValue)
		}

		out.Fields = append(out.Fields, rendered)
	}

	return out
}

func (f *Form) buildOptions(field schema.Field, lang, value string, hasValue bool) []model.Option {
	visible := f.VisibleOptions(field)
	out := make([]model.Option, 0, len(visible))
	for _, option := range visible {
		out = append(out, model.Option{
			Value:    option.Value,
			Label:    option.Label.Get(lang),
			Selected: hasValue && option.Value == value,
		})
	}
	return out
}

func kindOf(field schema.Field) (model.FieldKind, bool) {
	switch field.(type) {
	case *schema.TextInput:
		return model.FieldKindTextInput, true
	case *schema.SecretInput:
		return model.FieldKindSecretInput, true
	case *schema.Radio:
		return model.FieldKindRadio, true
	case *schema.Select:
		return model.FieldKindSelect, true
	default:
		return "", false
	}
}

// Defaults returns a new snapshot seeded with the declared schema defaults.
// Fields without a default are left out.
func Defaults(schemas schema.Schemas) schema.FormValue {
	out := make(schema.FormValue)
	for _, field := range schemas {
		if field == nil {
			continue
		}
		base := field.Base()
		if base.Default == nil || base.Variable == "" {
			continue
		}
		out[base.Variable] = schema.Str(*base.Default)
	}
	return out
}
