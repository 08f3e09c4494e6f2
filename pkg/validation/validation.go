package validation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-credform/pkg/schema"
	"github.com/goliatone/go-credform/pkg/visibility"
)

// ErrValidationFailed is the sentinel every *Error unwraps to.
var ErrValidationFailed = errors.New("validation: credentials rejected")

// Validator checks a credential snapshot. It is the collaborator behind the
// form's validating/validatedSuccess flags; the form itself never validates.
type Validator interface {
	ValidateCredentials(ctx context.Context, schemas schema.Schemas, values schema.FormValue) error
}

// Func adapts a function into a Validator.
type Func func(ctx context.Context, schemas schema.Schemas, values schema.FormValue) error

// ValidateCredentials delegates to the underlying function.
func (fn Func) ValidateCredentials(ctx context.Context, schemas schema.Schemas, values schema.FormValue) error {
	return fn(ctx, schemas, values)
}

// Issue is a single field-level problem.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error aggregates issues keyed by variable. An empty Field marks a
// form-level message.
type Error struct {
	Issues []Issue `json:"issues"`
}

func (e *Error) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed.Error(), strings.Join(parts, "; "))
}

// Unwrap exposes ErrValidationFailed to errors.Is.
func (e *Error) Unwrap() error {
	return ErrValidationFailed
}

// Fields groups messages by variable, the shape render.MapErrors expects.
func (e *Error) Fields() map[string][]string {
	if e == nil {
		return nil
	}
	out := make(map[string][]string, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// AsFieldErrors extracts field messages from err. Errors that are not *Error
// become a single form-level message.
func AsFieldErrors(err error) map[string][]string {
	if err == nil {
		return nil
	}
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return map[string][]string{"": {err.Error()}}
}

var (
	varOnce     sync.Once
	varInstance *validator.Validate
)

func fieldValidator() *validator.Validate {
	varOnce.Do(func() {
		varInstance = validator.New()
	})
	return varInstance
}

// Required rejects snapshots where a required, currently visible field has no
// value or an empty one. Hidden fields are ignored because the user cannot
// fill them in. Secret inputs with a max length are checked against it too.
type Required struct {
	Evaluator visibility.Evaluator
	// Message overrides the default "is required" text.
	Message string
}

// ValidateCredentials implements Validator.
func (r Required) ValidateCredentials(ctx context.Context, schemas schema.Schemas, values schema.FormValue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := r.Message
	if message == "" {
		message = "is required"
	}

	var issues []Issue
	for _, field := range schemas {
		if field == nil || !visibility.FieldVisible(r.Evaluator, field, values) {
			continue
		}
		if _, unknown := field.(*schema.Unknown); unknown {
			continue
		}
		base := field.Base()
		value, _ := values.Get(base.Variable)

		if base.Required {
			if err := fieldValidator().VarCtx(ctx, strings.TrimSpace(value), "required"); err != nil {
				issues = append(issues, Issue{Field: base.Variable, Message: message})
				continue
			}
		}

		if limit := maxLength(field); limit > 0 && value != "" {
			if err := fieldValidator().VarCtx(ctx, value, fmt.Sprintf("max=%d", limit)); err != nil {
				issues = append(issues, Issue{Field: base.Variable, Message: fmt.Sprintf("must be at most %d characters", limit)})
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return &Error{Issues: issues}
}

func maxLength(field schema.Field) int {
	switch f := field.(type) {
	case *schema.TextInput:
		return f.MaxLength
	case *schema.SecretInput:
		return f.MaxLength
	default:
		return 0
	}
}

// Chain runs validators in order and stops at the first failure.
func Chain(validators ...Validator) Validator {
	return Func(func(ctx context.Context, schemas schema.Schemas, values schema.FormValue) error {
		for _, v := range validators {
			if v == nil {
				continue
			}
			if err := v.ValidateCredentials(ctx, schemas, values); err != nil {
				return err
			}
		}
		return nil
	})
}
