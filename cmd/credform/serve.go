package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-credform/internal/preview"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := flags.load(cmd)
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			addr := app.cfg.Server.Listen
			if cmd.Flags().Changed("listen") {
				addr = listen
			}

			options := []preview.Option{
				preview.WithLogger(app.logger),
				preview.WithLocale(app.cfg.LocaleAccessor()),
				preview.WithListen(addr),
			}
			if v := flags.validator(); v != nil {
				options = append(options, preview.WithValidator(v))
			}

			srv, err := preview.New(app.cfg.Props(), options...)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (defaults to server.listen)")
	return cmd
}
