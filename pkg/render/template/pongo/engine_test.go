package pongo_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-credform/pkg/render/template/pongo"
	"github.com/goliatone/go-credform/pkg/testsupport"
)

func templatesFS() fstest.MapFS {
	return fstest.MapFS{
		"hello.tmpl":       {Data: []byte("Hello {{ name }}!")},
		"status.tmpl":      {Data: []byte("{{ validating_label }} {{ name|trim }}")},
		"field.tmpl":       {Data: []byte(`<label for="{{ variable|domid:form_id }}">{{ label }}</label>`)},
		"parts/badge.tmpl": {Data: []byte("embedded")},
	}
}

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()

	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(templatesFS())}, options...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch\nwant: %q\n got: %q", result, written)
	}
}

func TestEngine_Globals(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobals(map[string]any{"validating_label": "Checking"}))

	result, err := engine.RenderTemplate("status.tmpl", map[string]any{"name": "  api_key "})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Checking api_key" {
		t.Fatalf("unexpected result %q", result)
	}

	result, err = engine.RenderTemplate("status", map[string]any{"validating_label": "Verifying", "name": "x"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Verifying x" {
		t.Fatalf("render data should win over globals, got %q", result)
	}
}

func TestEngine_BaseDirOverridesFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.tmpl"), []byte("Hi {{ name }}"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	engine := newEngine(t, pongo.WithBaseDir(dir))

	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render override: %v", err)
	}
	if result != "Hi Ada" {
		t.Fatalf("override not used, got %q", result)
	}

	result, err = engine.RenderTemplate("parts/badge", nil)
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if result != "embedded" {
		t.Fatalf("embedded fallback not used, got %q", result)
	}
}

func TestEngine_EscapesAndBuildsIDs(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("field", map[string]any{
		"variable": "__model_name",
		"form_id":  "credential form",
		"label":    "<b>Model</b>",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<label for="credential-form-__model_name">&lt;b&gt;Model&lt;/b&gt;</label>`
	if result != want {
		t.Fatalf("unexpected output\nwant: %s\n got: %s", want, result)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template sources")
	}
	if _, err := pongo.New(pongo.WithBaseDir(filepath.Join(t.TempDir(), "missing"))); err == nil {
		t.Fatalf("expected error for missing template dir")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func TestDOMID(t *testing.T) {
	cases := map[string]string{
		"api_key":        "api_key",
		" auth type ":    "auth-type",
		"region.primary": "region-primary",
	}
	for in, want := range cases {
		if got := pongo.DOMID(in); got != want {
			t.Fatalf("DOMID(%q) = %q, want %q", in, got, want)
		}
	}
}
