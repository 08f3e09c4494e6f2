package render

import (
	"strings"

	"github.com/goliatone/go-credform/pkg/model"
)

// ErrorMapping splits a validation payload into messages for rendered fields
// and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MapErrors routes payload messages to the variables present in form. Messages
// for variables that are not rendered (hidden or unknown) and messages under
// form-level keys are kept as form-level messages so nothing is lost.
func MapErrors(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	rendered := make(map[string]struct{}, len(form.Fields))
	for _, field := range form.Fields {
		rendered[field.Variable] = struct{}{}
	}

	for _, key := range sortedKeys(payload) {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		variable := strings.TrimSpace(key)
		if _, ok := rendered[variable]; ok && !isFormLevelKey(variable) {
			mapping.Fields[variable] = append(mapping.Fields[variable], messages...)
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// ApplyErrors returns a copy of form with mapped field messages attached. The
// form-level list is stored under Metadata["errors"], newline separated.
func ApplyErrors(form model.FormModel, payload map[string][]string) model.FormModel {
	mapping := MapErrors(form, payload)
	if mapping.Fields == nil && len(mapping.Form) == 0 {
		return form
	}

	fields := make([]model.Field, len(form.Fields))
	copy(fields, form.Fields)
	for i := range fields {
		if messages, ok := mapping.Fields[fields[i].Variable]; ok {
			fields[i].Errors = append([]string(nil), messages...)
		}
	}
	form.Fields = fields

	if len(mapping.Form) > 0 {
		metadata := make(map[string]string, len(form.Metadata)+1)
		for key, value := range form.Metadata {
			metadata[key] = value
		}
		metadata["errors"] = strings.Join(mapping.Form, "\n")
		form.Metadata = metadata
	}
	return form
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "form", "credentials", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
