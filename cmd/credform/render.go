package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-credform/pkg/orchestrator"
	"github.com/goliatone/go-credform/pkg/render"
	"github.com/goliatone/go-credform/pkg/renderers/vanilla"
)

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		output     string
		formID     string
		stylesheet string
		inlineCSS  bool
		templates  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			options := []vanilla.Option{vanilla.WithTemplatesDir(templates)}
			if stylesheet != "" {
				options = append(options, vanilla.WithStylesheet(stylesheet))
			}
			if inlineCSS {
				options = append(options, vanilla.WithDefaultStyles())
			}
			renderer, err := vanilla.New(options...)
			if err != nil {
				return err
			}
			registry := render.NewRegistry()
			registry.MustRegister(renderer)

			orch := orchestrator.New(
				orchestrator.WithRegistry(registry),
				orchestrator.WithLocale(app.cfg.LocaleAccessor()),
			)
			html, err := orch.Generate(cmd.Context(), orchestrator.Request{
				Props:         app.cfg.Props(),
				RenderOptions: render.RenderOptions{FormID: formID},
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			app.logger.Info("form written", zap.String("path", output), zap.Int("bytes", len(html)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&formID, "form-id", "", "id attribute of the form element")
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "", "link an external stylesheet")
	cmd.Flags().BoolVar(&inlineCSS, "inline-css", false, "inline the bundled stylesheet")
	cmd.Flags().StringVar(&templates, "templates-dir", "", "directory searched before the bundled templates")
	return cmd
}
