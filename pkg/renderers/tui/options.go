package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/validation"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary with secrets
	// masked.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

type config struct {
	driver       PromptDriver
	outputFormat OutputFormat
	validator    validation.Validator
	locale       locale.Accessor
	theme        Theme
	logger       *zap.Logger
}

func newConfig(options []Option) config {
	cfg := config{
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.driver == nil {
		cfg.driver = NewSurveyDriver(nil)
	}
	return cfg
}

// Option configures sessions and the renderer.
type Option func(*config)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(cfg *config) {
		if driver != nil {
			cfg.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(cfg *config) {
		if format != "" {
			cfg.outputFormat = format
		}
	}
}

// WithValidator runs v after every accepted change.
func WithValidator(v validation.Validator) Option {
	return func(cfg *config) {
		cfg.validator = v
	}
}

// WithLocale selects the label language.
func WithLocale(accessor locale.Accessor) Option {
	return func(cfg *config) {
		cfg.locale = accessor
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithLogger receives debug events for each prompt, change and validation.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
