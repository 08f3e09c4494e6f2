package form

import (
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/schema"
)

// Host plays the parent role for callers that do not have a UI tree of their
// own (terminal sessions, the preview server). It owns the value snapshot,
// replaces it whenever the Form emits a change, and re-supplies props before
// every render pass.
type Host struct {
	form  *Form
	props Props
	// Observer, when set, receives every accepted snapshot.
	Observer func(schema.FormValue)
}

// NewHost builds a Host around props. When props.ShowOnVariableMap is nil the
// clearing map is derived from the schemas. props.OnChange is ignored; use
// Observer to watch changes.
func NewHost(props Props, options ...Option) *Host {
	if props.ShowOnVariableMap == nil {
		props.ShowOnVariableMap = schema.BuildShowOnVariableMap(props.Schemas)
	}
	if props.Value == nil {
		props.Value = Defaults(props.Schemas)
	}
	h := &Host{props: props}
	h.props.OnChange = h.accept
	h.form = New(h.props, options...)
	return h
}

func (h *Host) accept(next schema.FormValue) {
	h.props.Value = next
	h.form.SetProps(h.props)
	if h.Observer != nil {
		h.Observer(next.Clone())
	}
}

// Form exposes the hosted component.
func (h *Host) Form() *Form {
	return h.form
}

// Change forwards an edit to the component.
func (h *Host) Change(key, value string) bool {
	return h.form.HandleChange(key, value)
}

// Value returns a copy of the current snapshot.
func (h *Host) Value() schema.FormValue {
	return h.props.Value.Clone()
}

// SetValidation updates the validation flags reported by the caller's
// validator.
func (h *Host) SetValidation(validating, success bool) {
	h.props.Validating = validating
	h.props.ValidatedSuccess = success
	h.form.SetProps(h.props)
}

// Validating reports the current validating flag.
func (h *Host) Validating() bool {
	return h.props.Validating
}

// Schemas returns the hosted schema list.
func (h *Host) Schemas() schema.Schemas {
	return h.props.Schemas
}

// Build renders the current state.
func (h *Host) Build() model.FormModel {
	return h.form.Build()
}
