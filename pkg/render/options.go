package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the form model.
type RenderOptions struct {
	// FormID is used as the id of the root element and as a prefix for control
	// ids so several forms can share a page.
	FormID string
	// Errors surfaces validation feedback keyed by variable. The empty key holds
	// form-level messages. Renderers attach them via MapErrors.
	Errors map[string][]string
	// Theme carries resolved theme tokens and partial overrides.
	Theme *ThemeConfig
	// Endpoint is where browser clients post change events. Renderers that emit
	// a runtime script wire it up; others ignore it.
	Endpoint string
}

// FormIDOrDefault returns FormID or the built-in default.
func (o RenderOptions) FormIDOrDefault() string {
	if o.FormID != "" {
		return o.FormID
	}
	return "credential-form"
}
