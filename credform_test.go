package credform_test

import (
	"strings"
	"testing"

	credform "github.com/goliatone/go-credform"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/testsupport"
)

func TestRenderHTML(t *testing.T) {
	props := credform.Props{
		Schemas:    testsupport.Schemas(t, testsupport.OpenAICompatibleJSON),
		IsEditMode: true,
		Value: credform.FormValue{
			schema.ModelTypeVariable: schema.Str("llm"),
			schema.ModelNameVariable: schema.Str("gpt-4o"),
			"auth_type":              schema.Str("key"),
		},
	}

	output, err := credform.RenderHTML(testsupport.Context(), props, credform.WithLocale("en-US"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(output)
	for _, want := range []string{`<form id="credential-form"`, `name="api_key"`, `data-edit-mode="true"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRenderHTMLWithErrors(t *testing.T) {
	props := credform.Props{
		Schemas: testsupport.Schemas(t, testsupport.OpenAICompatibleJSON),
		Value:   credform.FormValue{"auth_type": schema.Str("key")},
	}

	output, err := credform.RenderHTMLWithErrors(testsupport.Context(), props, map[string][]string{
		"api_key": {"Invalid API key"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(output), "Invalid API key") {
		t.Fatalf("error message not rendered:\n%s", output)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := credform.EmbeddedTemplates().Open("templates/form.tmpl"); err != nil {
		t.Fatalf("templates: %v", err)
	}
	if _, err := credform.AssetsFS().Open("credform.css"); err != nil {
		t.Fatalf("assets: %v", err)
	}
}
