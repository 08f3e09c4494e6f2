package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-credform/pkg/schema"
)

func encodeJSON(values schema.FormValue) ([]byte, error) {
	payload, err := json.MarshalIndent(values.Strings(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode json: %w", err)
	}
	return append(payload, '\n'), nil
}

func encodeForm(values schema.FormValue) string {
	out := url.Values{}
	for key, value := range values.Strings() {
		out.Set(key, value)
	}
	return out.Encode()
}

// prettyPrint writes one key=value line per defined answer, in schema order
// followed by any extra keys sorted. Secret fields are masked whether or not
// show_on currently hides them.
func prettyPrint(schemas schema.Schemas, values schema.FormValue) string {
	defined := values.Strings()
	var b strings.Builder

	written := make(map[string]bool, len(defined))
	for _, field := range schemas {
		if field == nil {
			continue
		}
		variable := field.Base().Variable
		value, ok := defined[variable]
		if !ok || written[variable] {
			continue
		}
		writePretty(&b, variable, value, field.Kind() == schema.FormTypeSecretInput)
		written[variable] = true
	}

	rest := make([]string, 0, len(defined))
	for key := range defined {
		if !written[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		writePretty(&b, key, defined[key], false)
	}
	return b.String()
}

func writePretty(b *strings.Builder, key, value string, secret bool) {
	if secret {
		value = maskSecret(value)
	}
	fmt.Fprintf(b, "%s=%s\n", key, value)
}
