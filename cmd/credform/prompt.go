package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-credform/pkg/renderers/tui"
)

func newPromptCmd(flags *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill the form interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			options := []tui.Option{
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithLocale(app.cfg.LocaleAccessor()),
				tui.WithLogger(app.logger),
			}
			if v := flags.validator(); v != nil {
				options = append(options, tui.WithValidator(v))
			}

			session, err := tui.NewSession(app.cfg.Props(), options...)
			if err != nil {
				return err
			}
			values, runErr := session.Run(cmd.Context())
			if errors.Is(runErr, tui.ErrAborted) {
				return runErr
			}
			if values == nil {
				return runErr
			}

			payload, err := session.Serialize(tui.OutputFormat(format), values)
			if err != nil {
				return err
			}
			if output == "" {
				if _, err := cmd.OutOrStdout().Write(payload); err != nil {
					return err
				}
			} else if err := os.WriteFile(output, payload, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatJSON), "output format (json, form, pretty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
