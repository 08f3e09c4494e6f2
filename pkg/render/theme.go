package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig is the renderer-facing projection of a go-theme selection.
type ThemeConfig struct {
	Theme   string
	Variant string
	// Tokens merges manifest tokens with the selected variant's overrides.
	Tokens map[string]string
	// CSSVars exposes Tokens as custom properties ("--brand").
	CSSVars map[string]string
	// Partials maps component keys ("forms.input") to template paths.
	Partials map[string]string
	// Assets maps asset keys to URLs joined with the asset prefix.
	Assets map[string]string
}

// ResolveTheme asks selector for name/variant and projects the selection.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*ThemeConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("render: select theme %q/%q: %w", name, variant, err)
	}
	return ThemeConfigFromSelection(selection, fallbacks), nil
}

// ThemeConfigFromSelection merges manifest and variant data. Fallback
// partials fill keys the theme does not override.
func ThemeConfigFromSelection(selection *theme.Selection, fallbacks map[string]string) *ThemeConfig {
	cfg := &ThemeConfig{
		Tokens:   make(map[string]string),
		CSSVars:  make(map[string]string),
		Partials: make(map[string]string),
		Assets:   make(map[string]string),
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}
	if selection == nil {
		return cfg
	}

	cfg.Theme = selection.Theme
	cfg.Variant = selection.Variant

	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	prefix := manifest.Assets.Prefix
	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	mergeAssets(cfg.Assets, prefix, manifest.Assets.Files)

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(cfg.Tokens, variant.Tokens)
		mergeInto(cfg.Partials, variant.Templates)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
		mergeAssets(cfg.Assets, prefix, variant.Assets.Files)
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return cfg
}

// Style renders CSSVars as an inline style declaration, sorted by name.
func (c *ThemeConfig) Style() string {
	if c == nil || len(c.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.CSSVars))
	for name := range c.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(c.CSSVars[name])
		b.WriteByte(';')
	}
	return b.String()
}

// Partial returns the template override for key.
func (c *ThemeConfig) Partial(key string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Partials[key])
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

func mergeAssets(dst map[string]string, prefix string, files map[string]string) {
	prefix = strings.TrimRight(prefix, "/")
	for key, file := range files {
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			dst[key] = file
			continue
		}
		dst[key] = prefix + "/" + strings.TrimLeft(file, "/")
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
