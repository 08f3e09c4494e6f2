package components

import (
	"bytes"
	"io"
	"testing"

	"github.com/goliatone/go-credform/pkg/model"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("TEST")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	reg := New()
	if err := reg.Register(" ", Descriptor{Renderer: func(*bytes.Buffer, model.Field, ComponentData) error { return nil }}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := reg.Register("input", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryAssetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	reg.MustRegister("input", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/input.css"},
		Scripts:     []Script{{Src: "/shared.js"}},
	})
	reg.MustRegister("select", Descriptor{
		Renderer:    renderer,
		Stylesheets: []string{"/shared.css", "/select.css"},
		Scripts:     []Script{{Src: "/shared.js"}, {Src: "/select.js"}},
	})

	styles, scripts := reg.Assets([]string{"input", "select"})
	if len(styles) != 3 {
		t.Fatalf("expected 3 unique stylesheets, got %d: %v", len(styles), styles)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 unique scripts, got %d: %v", len(scripts), scripts)
	}
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	reg := NewDefaultRegistry()
	for _, kind := range []model.FieldKind{
		model.FieldKindTextInput,
		model.FieldKindSecretInput,
		model.FieldKindRadio,
		model.FieldKindSelect,
	} {
		if _, ok := reg.Descriptor(ForKind(kind)); !ok {
			t.Fatalf("no component registered for %s", kind)
		}
	}
	if ForKind("switch") != "" {
		t.Fatalf("unknown kinds should not map to a component")
	}
}

func TestTemplateComponentUsesThemePartial(t *testing.T) {
	tpl := &recordingTemplate{}
	desc, _ := NewDefaultRegistry().Descriptor(NameSelect)

	var buf bytes.Buffer
	err := desc.Renderer(&buf, model.Field{Variable: "mode"}, ComponentData{
		Template:      tpl,
		ControlID:     "credential-form-mode",
		ThemePartials: map[string]string{PartialSelect: "themes/acme/select.tmpl"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(tpl.calls) != 1 || tpl.calls[0] != "themes/acme/select.tmpl" {
		t.Fatalf("theme partial not applied: %v", tpl.calls)
	}
	if tpl.data["id"] != "credential-form-mode" {
		t.Fatalf("control id not passed: %v", tpl.data)
	}
}

type recordingTemplate struct {
	calls []string
	data  map[string]any
}

func (r *recordingTemplate) RenderTemplate(name string, data map[string]any, _ ...io.Writer) (string, error) {
	r.calls = append(r.calls, name)
	r.data = data
	return "<select></select>", nil
}
