// Package config loads the credform CLI configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/locale"
	"github.com/goliatone/go-credform/pkg/schema"
)

// Environment overrides applied after the file is decoded.
const (
	EnvLocale   = "CREDFORM_LOCALE"
	EnvListen   = "CREDFORM_LISTEN"
	EnvLogLevel = "CREDFORM_LOG_LEVEL"
	EnvEditMode = "CREDFORM_EDIT_MODE"
)

// DefaultListen is used when neither the file nor the environment sets one.
const DefaultListen = "127.0.0.1:8080"

// ErrNoSchemas is returned when the file declares no credential fields.
var ErrNoSchemas = errors.New("config: no credential schemas")

// Config is the decoded CLI file.
type Config struct {
	Locale            string                   `yaml:"locale" json:"locale"`
	EditMode          bool                     `yaml:"edit_mode" json:"edit_mode"`
	Provider          string                   `yaml:"provider" json:"provider" validate:"omitempty,max=128"`
	Schemas           schema.Schemas           `yaml:"schemas" json:"schemas" validate:"-"`
	Values            map[string]string        `yaml:"values" json:"values"`
	ShowOnVariableMap schema.ShowOnVariableMap `yaml:"show_on_variable_map" json:"show_on_variable_map"`
	Server            Server                   `yaml:"server" json:"server"`
	Log               Log                      `yaml:"log" json:"log"`
}

// Server configures the preview server.
type Server struct {
	Listen string `yaml:"listen" json:"listen" validate:"required,hostname_port"`
}

// Log configures internal/logging.
type Log struct {
	Level       string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Development bool   `yaml:"development" json:"development"`
}

// Load reads path, applies envFile (when set) and the CREDFORM_* overrides,
// then validates the result.
func Load(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses data as YAML or JSON depending on the extension of name.
// Files without a .json extension are read as YAML.
func Decode(name string, data []byte) (*Config, error) {
	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", name, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", name, err)
		}
	}
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = DefaultListen
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if value, ok := os.LookupEnv(EnvLocale); ok && value != "" {
		c.Locale = value
	}
	if value, ok := os.LookupEnv(EnvListen); ok && value != "" {
		c.Server.Listen = value
	}
	if value, ok := os.LookupEnv(EnvLogLevel); ok && value != "" {
		c.Log.Level = value
	}
	if value, ok := os.LookupEnv(EnvEditMode); ok && value != "" {
		editMode, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvEditMode, err)
		}
		c.EditMode = editMode
	}
	c.Locale = locale.Normalize(c.Locale)
	return nil
}

// Validate checks the struct tags and the schema list.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.Schemas) == 0 {
		return ErrNoSchemas
	}
	if err := schema.Validate(c.Schemas); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Props builds the form props described by the file. Missing values and a
// missing show_on_variable_map stay nil so the host seeds defaults and derives
// the clearing map.
func (c *Config) Props() form.Props {
	var value schema.FormValue
	if len(c.Values) > 0 {
		value = schema.FromStrings(c.Values)
	}
	return form.Props{
		Value:             value,
		Schemas:           c.Schemas,
		ShowOnVariableMap: c.ShowOnVariableMap,
		IsEditMode:        c.EditMode,
	}
}

// LocaleAccessor returns the configured locale.
func (c *Config) LocaleAccessor() locale.Accessor {
	return locale.Static(c.Locale)
}
