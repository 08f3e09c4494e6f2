// Package locale supplies the active locale key used to pick strings out of
// pre-translated label maps. It performs no translation itself.
package locale

import "strings"

// Default matches the locale keys used by provider credential manifests.
const Default = "en_US"

// Accessor returns the current locale key.
type Accessor interface {
	Locale() string
}

// Func adapts a function into an Accessor.
type Func func() string

// Locale delegates to the underlying function.
func (fn Func) Locale() string {
	return fn()
}

// Static always reports the same locale.
type Static string

// Locale implements Accessor.
func (s Static) Locale() string {
	if s == "" {
		return Default
	}
	return string(s)
}

// Normalize converts user supplied tags ("en-US", "en_us", "zh-hans") into the
// manifest key form ("en_US", "zh_Hans"). Empty input yields Default.
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Default
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 {
		return Default
	}
	out := strings.ToLower(parts[0])
	for _, part := range parts[1:] {
		switch len(part) {
		case 2:
			out += "_" + strings.ToUpper(part)
		case 4:
			out += "_" + strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		default:
			out += "_" + part
		}
	}
	return out
}
