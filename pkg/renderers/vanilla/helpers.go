package vanilla

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-credform/pkg/render/template/pongo"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla/components"
)

// plainText strips every tag from labels, placeholders and option labels.
var plainText = bluemonday.StrictPolicy()

// sanitizeText returns value without markup. The result is unescaped text;
// templates escape it again on output.
func sanitizeText(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(value)))
}

func controlID(formID, variable string) string {
	variable = pongo.DOMID(variable)
	if variable == "" {
		return ""
	}
	if prefix := pongo.DOMID(formID); prefix != "" {
		return prefix + "-" + variable
	}
	return variable
}

func optionID(control, value string) string {
	return control + "-" + pongo.DOMID(value)
}

// labelSupportsFor reports whether the field label can point at a single
// control. Radio groups are labelled through aria-labelledby instead.
func labelSupportsFor(componentName string) bool {
	return strings.TrimSpace(componentName) != components.NameRadio
}
