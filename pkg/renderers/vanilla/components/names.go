package components

import "github.com/goliatone/go-credform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput      = "input"
	NameRadio      = "radio"
	NameSelect     = "select"
	NameValidating = "validating"
)

// ForKind returns the component that renders kind. Text and secret inputs
// share the input component.
func ForKind(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindTextInput, model.FieldKindSecretInput:
		return NameInput
	case model.FieldKindRadio:
		return NameRadio
	case model.FieldKindSelect:
		return NameSelect
	default:
		return ""
	}
}
