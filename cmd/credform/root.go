package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-credform/internal/config"
	"github.com/goliatone/go-credform/internal/logging"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/validation"
)

type globalFlags struct {
	configPath string
	envFile    string
	locale     string
	editMode   bool
	logLevel   string
	logDev     bool
	required   bool
}

// app is what every subcommand needs once flags and the config file have
// been merged.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "credform",
		Short:         "Render and fill provider credential forms",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "credform.yaml", "config file (yaml or json)")
	pf.StringVar(&flags.envFile, "env-file", "", "load environment variables from this .env file")
	pf.StringVar(&flags.locale, "locale", "", "label locale, e.g. en_US or zh-Hans")
	pf.BoolVar(&flags.editMode, "edit-mode", false, "lock the model identity fields")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&flags.logDev, "log-dev", false, "human readable logs")
	pf.BoolVar(&flags.required, "check-required", false, "validate required fields after each change")

	root.AddCommand(
		newRenderCmd(flags),
		newPromptCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// load merges the config file, the environment and the flags, in that order
// of precedence from lowest to highest.
func (f *globalFlags) load(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(f.configPath, f.envFile)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("locale") {
		cfg.Locale = f.locale
	}
	if pf.Changed("edit-mode") {
		cfg.EditMode = f.editMode
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if pf.Changed("log-dev") {
		cfg.Log.Development = f.logDev
	}
	cfg.Locale = locale.Normalize(cfg.Locale)

	logger, err := logging.New(logging.Options{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
		Output:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}

	logger.Debug("config loaded",
		zap.String("path", f.configPath),
		zap.String("provider", cfg.Provider),
		zap.String("locale", cfg.Locale),
		zap.Bool("edit_mode", cfg.EditMode),
		zap.Int("fields", len(cfg.Schemas)),
	)
	return &app{cfg: cfg, logger: logger}, nil
}

func (f *globalFlags) validator() validation.Validator {
	if !f.required {
		return nil
	}
	return validation.Required{}
}
