package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/goliatone/go-credform/pkg/form"
	"github.com/goliatone/go-credform/pkg/model"
	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/validation"
)

// Session walks a terminal user through a credential form. It acts as the
// parent of the form component: it owns the value snapshot, feeds answers
// through HandleChange and re-renders after each one, so fields revealed by an
// answer are prompted next.
type Session struct {
	host    *form.Host
	cfg     config
	failure error
	errors  map[string][]string
}

// NewSession prepares a session. props.Value seeds the answers; when nil the
// schema defaults are used.
func NewSession(props form.Props, options ...Option) (*Session, error) {
	cfg := newConfig(options)
	if cfg.driver == nil {
		return nil, ErrNoDriver
	}
	var formOptions []form.Option
	if cfg.locale != nil {
		formOptions = append(formOptions, form.WithLocale(cfg.locale))
	}
	return &Session{
		host: form.NewHost(props, formOptions...),
		cfg:  cfg,
	}, nil
}

// Value returns a copy of the current answers.
func (s *Session) Value() schema.FormValue {
	return s.host.Value()
}

// Model renders the current state.
func (s *Session) Model() model.FormModel {
	return s.host.Build()
}

// Serialize encodes values against the session schemas.
func (s *Session) Serialize(format OutputFormat, values schema.FormValue) ([]byte, error) {
	return Serialize(format, s.host.Schemas(), values)
}

// Errors returns the messages reported by the last validation run.
func (s *Session) Errors() map[string][]string {
	return s.errors
}

// Run prompts every visible field once, in schema order. Locked identity
// fields are announced and skipped. When a validator is configured it runs
// after every change; if the final run fails the user may go through the
// failing fields again. The returned value is the final snapshot; err is
// the validation failure when the user declines to retry.
func (s *Session) Run(ctx context.Context) (schema.FormValue, error) {
	prompted := make(map[string]bool)
	requeued := make(map[string]map[string]bool)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		field, ok := s.next(prompted)
		if !ok {
			if s.failure == nil {
				return s.host.Value(), nil
			}
			retry, err := s.reportFailure(ctx)
			if err != nil {
				return nil, err
			}
			if !retry {
				return s.host.Value(), s.failure
			}
			if s.hasFieldErrors() {
				for variable := range s.errors {
					delete(prompted, variable)
				}
			} else {
				prompted = make(map[string]bool)
			}
			s.failure = nil
			requeued = make(map[string]map[string]bool)
			continue
		}
		prompted[field.Variable] = true

		if field.Disabled {
			current := field.Value
			if field.Secret {
				current = maskSecret(current)
			}
			if err := s.info(ctx, fmt.Sprintf("%s is locked while editing (%s)", displayLabel(field), current)); err != nil {
				return nil, err
			}
			continue
		}

		answer, err := s.prompt(ctx, field)
		if err != nil {
			return nil, err
		}
		if !s.host.Change(field.Variable, answer) {
			continue
		}
		s.cfg.logger.Debug("field changed",
			zap.String("variable", field.Variable),
			zap.String("kind", string(field.Kind)),
		)
		s.requeue(field.Variable, prompted, requeued)

		if s.cfg.validator != nil {
			if err := s.validate(ctx); err != nil {
				return nil, err
			}
		}
	}
}

// requeue marks the dependents of controller for prompting again. Each
// controller re-queues a dependent at most once per pass, so fields whose
// show_on rules refer to each other cannot keep the session going forever.
func (s *Session) requeue(controller string, prompted map[string]bool, requeued map[string]map[string]bool) {
	for _, dependent := range s.host.Form().Props().ShowOnVariableMap.Dependents(controller) {
		if dependent == controller || !prompted[dependent] {
			continue
		}
		if requeued[controller][dependent] {
			s.cfg.logger.Debug("dependent already re-prompted",
				zap.String("controller", controller),
				zap.String("dependent", dependent),
			)
			continue
		}
		if requeued[controller] == nil {
			requeued[controller] = make(map[string]bool)
		}
		requeued[controller][dependent] = true
		delete(prompted, dependent)
	}
}

func (s *Session) hasFieldErrors() bool {
	for variable := range s.errors {
		if variable != "" {
			return true
		}
	}
	return false
}

// next returns the first rendered field not yet prompted.
func (s *Session) next(prompted map[string]bool) (model.Field, bool) {
	for _, field := range s.host.Build().Fields {
		if !prompted[field.Variable] {
			return field, true
		}
	}
	return model.Field{}, false
}

func (s *Session) prompt(ctx context.Context, field model.Field) (string, error) {
	label := displayLabel(field)
	switch field.Kind {
	case model.FieldKindRadio, model.FieldKindSelect:
		return s.promptChoice(ctx, field, label)
	case model.FieldKindSecretInput:
		answer, err := s.cfg.driver.Password(ctx, InputConfig{
			Message:   label,
			Help:      passwordHelp(field),
			Validator: inputValidator(field, field.HasValue),
		})
		if err != nil {
			return "", err
		}
		if answer == "" && field.HasValue {
			return field.Value, nil
		}
		return answer, nil
	default:
		return s.cfg.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   field.Value,
			Help:      field.Placeholder,
			Validator: inputValidator(field, false),
		})
	}
}

func (s *Session) promptChoice(ctx context.Context, field model.Field, label string) (string, error) {
	if len(field.Options) == 0 {
		if err := s.info(ctx, fmt.Sprintf("%s has no options available", label)); err != nil {
			return "", err
		}
		return field.Value, nil
	}

	labels := make([]string, 0, len(field.Options))
	defaultIdx := -1
	for idx, option := range field.Options {
		text := option.Label
		if text == "" {
			text = option.Value
		}
		labels = append(labels, text)
		if option.Selected {
			defaultIdx = idx
		}
	}

	for {
		idx, err := s.cfg.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(field.Options) {
			return field.Options[idx].Value, nil
		}
		if err := s.info(ctx, fmt.Sprintf("%sInvalid %s selection", s.cfg.theme.ErrorPrefix, field.Variable)); err != nil {
			return "", err
		}
	}
}

// validate runs the configured validator with the validating flag raised, the
// way a parent reports progress to the form. A rejection is kept in s.failure;
// only cancellation and driver errors are returned.
func (s *Session) validate(ctx context.Context) error {
	changed := s.host.Form().LastChanged()
	s.host.SetValidation(true, false)

	if field, ok := s.host.Build().Field(changed); ok && field.ShowValidating {
		if err := s.info(ctx, fmt.Sprintf("Validating %s...", displayLabel(field))); err != nil {
			return err
		}
	}

	verr := s.cfg.validator.ValidateCredentials(ctx, s.host.Schemas(), s.host.Value())
	if errors.Is(verr, context.Canceled) || errors.Is(verr, context.DeadlineExceeded) {
		return verr
	}
	s.host.SetValidation(false, verr == nil)
	s.failure = verr
	s.errors = validation.AsFieldErrors(verr)

	if verr != nil {
		s.cfg.logger.Debug("validation failed", zap.String("changed", changed), zap.Error(verr))
	} else {
		s.cfg.logger.Debug("validation passed", zap.String("changed", changed))
	}
	return nil
}

func (s *Session) reportFailure(ctx context.Context) (bool, error) {
	verr := s.failure
	variables := make([]string, 0, len(s.errors))
	for variable := range s.errors {
		variables = append(variables, variable)
	}
	sort.Strings(variables)

	if len(variables) == 0 {
		if err := s.info(ctx, s.cfg.theme.ErrorPrefix+verr.Error()); err != nil {
			return false, err
		}
	}
	for _, variable := range variables {
		for _, message := range s.errors[variable] {
			line := message
			if variable != "" {
				line = variable + ": " + message
			}
			if err := s.info(ctx, s.cfg.theme.ErrorPrefix+line); err != nil {
				return false, err
			}
		}
	}

	return s.cfg.driver.Confirm(ctx, ConfirmConfig{
		Message: "Credentials were rejected. Edit them again?",
		Default: true,
	})
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.cfg.driver.Info(ctx, s.cfg.theme.InfoPrefix+msg)
}

func displayLabel(field model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Variable
	}
	if field.Required {
		label += " *"
	}
	return label
}

func passwordHelp(field model.Field) string {
	if field.HasValue && field.Value != "" {
		return "Leave empty to keep the current value"
	}
	return field.Placeholder
}

// inputValidator rejects empty answers for required fields and answers longer
// than MaxLength. keepExisting allows an empty answer that keeps the current
// value.
func inputValidator(field model.Field, keepExisting bool) func(string) error {
	return func(answer string) error {
		if strings.TrimSpace(answer) == "" {
			if field.Required && !keepExisting {
				return errors.New("a value is required")
			}
			return nil
		}
		if field.MaxLength > 0 && utf8.RuneCountInString(answer) > field.MaxLength {
			return fmt.Errorf("must be at most %d characters", field.MaxLength)
		}
		return nil
	}
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}
