package schema

// FormType is the discriminator for credential field kinds. Values match the
// `type` keys used by provider credential manifests.
type FormType string

const (
	FormTypeTextInput   FormType = "text-input"
	FormTypeSecretInput FormType = "secret-input"
	FormTypeRadio       FormType = "radio"
	FormTypeSelect      FormType = "select"
)

// Identity variables name the provider/model pairing. They are locked once a
// credential is being edited.
const (
	ModelTypeVariable = "__model_type"
	ModelNameVariable = "__model_name"
)

// IsIdentity reports whether key is one of the identity variables.
func IsIdentity(key string) bool {
	return key == ModelTypeVariable || key == ModelNameVariable
}

// I18nText maps a locale key (e.g. "en_US") to a pre-translated string.
type I18nText map[string]string

// Get returns the string for locale, or "" when no translation exists.
func (t I18nText) Get(locale string) string {
	if t == nil {
		return ""
	}
	return t[locale]
}

// ShowOnItem is a single visibility condition: the field (or option) is shown
// only while Variable currently holds exactly Value.
type ShowOnItem struct {
	Variable string `json:"variable" yaml:"variable" validate:"required"`
	Value    string `json:"value" yaml:"value"`
}

// Option is a selectable choice of a radio or select field.
type Option struct {
	Value  string       `json:"value" yaml:"value" validate:"required"`
	Label  I18nText     `json:"label" yaml:"label"`
	ShowOn []ShowOnItem `json:"show_on,omitempty" yaml:"show_on,omitempty" validate:"dive"`
}

// Common holds the attributes shared by every field kind.
type Common struct {
	Variable string       `json:"variable" yaml:"variable" validate:"required"`
	Label    I18nText     `json:"label" yaml:"label"`
	Required bool         `json:"required,omitempty" yaml:"required,omitempty"`
	ShowOn   []ShowOnItem `json:"show_on,omitempty" yaml:"show_on,omitempty" validate:"dive"`
	Default  *string      `json:"default,omitempty" yaml:"default,omitempty"`
}

// Field is the sum type over credential field kinds. Only the types declared in
// this package implement it.
type Field interface {
	Kind() FormType
	Base() *Common
	isField()
}

// TextInput is a plain single-line input.
type TextInput struct {
	Common      `yaml:",inline"`
	Placeholder I18nText `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	MaxLength   int      `json:"max_length,omitempty" yaml:"max_length,omitempty" validate:"gte=0"`
}

// SecretInput is an input whose value must not be echoed back.
type SecretInput struct {
	Common      `yaml:",inline"`
	Placeholder I18nText `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	MaxLength   int      `json:"max_length,omitempty" yaml:"max_length,omitempty" validate:"gte=0"`
}

// Radio renders one tile per visible option.
type Radio struct {
	Common  `yaml:",inline"`
	Options []Option `json:"options" yaml:"options" validate:"min=1,dive"`
}

// Select renders a dropdown of the visible options.
type Select struct {
	Common      `yaml:",inline"`
	Options     []Option `json:"options" yaml:"options" validate:"min=1,dive"`
	Placeholder I18nText `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Unknown preserves entries whose type is not recognised. The form renders
// nothing for them.
type Unknown struct {
	Common `yaml:",inline"`
	Type   FormType `json:"type" yaml:"type"`
}

func (f *TextInput) Kind() FormType   { return FormTypeTextInput }
func (f *SecretInput) Kind() FormType { return FormTypeSecretInput }
func (f *Radio) Kind() FormType       { return FormTypeRadio }
func (f *Select) Kind() FormType      { return FormTypeSelect }
func (f *Unknown) Kind() FormType     { return f.Type }

func (f *TextInput) Base() *Common   { return &f.Common }
func (f *SecretInput) Base() *Common { return &f.Common }
func (f *Radio) Base() *Common       { return &f.Common }
func (f *Select) Base() *Common      { return &f.Common }
func (f *Unknown) Base() *Common     { return &f.Common }

func (*TextInput) isField()   {}
func (*SecretInput) isField() {}
func (*Radio) isField()       {}
func (*Select) isField()      {}
func (*Unknown) isField()     {}

// OptionsOf returns the options of radio/select fields and nil otherwise.
func OptionsOf(field Field) []Option {
	switch f := field.(type) {
	case *Radio:
		return f.Options
	case *Select:
		return f.Options
	default:
		return nil
	}
}

// PlaceholderOf returns the placeholder map of fields that carry one.
func PlaceholderOf(field Field) I18nText {
	switch f := field.(type) {
	case *TextInput:
		return f.Placeholder
	case *SecretInput:
		return f.Placeholder
	case *Select:
		return f.Placeholder
	default:
		return nil
	}
}

// Schemas is the ordered list of fields making up a credential form.
type Schemas []Field

// Lookup returns the field declaring variable.
func (s Schemas) Lookup(variable string) (Field, bool) {
	for _, field := range s {
		if field == nil {
			continue
		}
		if field.Base().Variable == variable {
			return field, true
		}
	}
	return nil, false
}

// ShowOnVariableMap lists, per variable, the dependent variables that must be
// cleared when it changes.
type ShowOnVariableMap map[string][]string
