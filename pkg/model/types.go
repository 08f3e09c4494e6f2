package model

// FieldKind is the renderer-facing field kind.
type FieldKind string

const (
	FieldKindTextInput   FieldKind = "text-input"
	FieldKindSecretInput FieldKind = "secret-input"
	FieldKindRadio       FieldKind = "radio"
	FieldKindSelect      FieldKind = "select"
)

// Option is a visible choice of a radio or select field.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Field is a single rendered block. Labels and placeholders are already
// resolved for the active locale; hidden fields and hidden options never make
// it into the model.
type Field struct {
	Kind        FieldKind `json:"kind"`
	Variable    string    `json:"variable"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Value       string    `json:"value,omitempty"`
	HasValue    bool      `json:"hasValue"`
	MaxLength   int       `json:"maxLength,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	// Disabled marks identity fields locked by edit mode.
	Disabled bool `json:"disabled,omitempty"`
	// ShowValidating places the validating indicator next to this field.
	ShowValidating bool `json:"showValidating,omitempty"`
	// Validated mirrors the parent's validatedSuccess flag.
	Validated bool     `json:"validated,omitempty"`
	Secret    bool     `json:"secret,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	Locale           string            `json:"locale"`
	Fields           []Field           `json:"fields"`
	Validating       bool              `json:"validating"`
	ValidatedSuccess bool              `json:"validatedSuccess"`
	IsEditMode       bool              `json:"isEditMode"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Field returns the rendered field for variable.
func (m FormModel) Field(variable string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Variable == variable {
			return field, true
		}
	}
	return Field{}, false
}

// Variables lists the rendered variables in order.
func (m FormModel) Variables() []string {
	out := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		out = append(out, field.Variable)
	}
	return out
}

// SelectedOption returns the option currently selected, if any.
func (f Field) SelectedOption() (Option, bool) {
	for _, option := range f.Options {
		if option.Selected {
			return option, true
		}
	}
	return Option{}, false
}
