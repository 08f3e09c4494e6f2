package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/orchestrator"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/testsupport"
)

const snapshotRendererName = "form-model-snapshot"

type snapshotRenderer struct {
	path string
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return "application/json"
}

func (r *snapshotRenderer) Render(_ context.Context, form model.FormModel, _ render.RenderOptions) ([]byte, error) {
	payload, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return nil, err
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	var (
		schemaPath = flag.String("schema", "pkg/testsupport/fixtures/openai_compatible.json", "credential schema fixture (json or yaml)")
		valuesJSON = flag.String("values", `{"__model_type":"llm","auth_type":"key"}`, "form values as a JSON object")
		editMode   = flag.Bool("edit-mode", false, "lock identity fields")
		lang       = flag.String("locale", locale.Default, "label locale")
		outputPath = flag.String("output", "form_model.json", "output path for the serialized form model")
	)
	flag.Parse()

	schemas, err := testsupport.LoadSchemasFromPath(*schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load schemas: %v\n", err)
		os.Exit(1)
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*valuesJSON), &values); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -values: %v\n", err)
		os.Exit(1)
	}

	registry := render.NewRegistry()
	registry.MustRegister(&snapshotRenderer{path: *outputPath})

	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
		orchestrator.WithLocale(locale.Static(locale.Normalize(*lang))),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{
		Props: form.Props{
			Schemas:    schemas,
			Value:      schema.FromStrings(values),
			IsEditMode: *editMode,
		},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate form model: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("form model written to %s\n", *outputPath)
}
