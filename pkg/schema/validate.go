package schema

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce     sync.Once
	validateInstance *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validateInstance = validator.New()
	})
	return validateInstance
}

// Validate checks structural consistency of a schema list: every field has a
// variable, variables are unique, radio/select fields carry options with
// values, option values are unique per field, and show_on rules do not
// clear each other in a loop. The form itself never calls this; loaders use
// it before handing schemas over.
func Validate(schemas Schemas) error {
	var problems []string
	variables := make(map[string]struct{}, len(schemas))

	for idx, field := range schemas {
		if field == nil {
			problems = append(problems, fmt.Sprintf("entry %d: nil field", idx))
			continue
		}
		if _, unknown := field.(*Unknown); unknown {
			continue
		}

		if err := structValidator().Struct(field); err != nil {
			problems = append(problems, describe(idx, field, err)...)
		}

		variable := field.Base().Variable
		if variable != "" {
			if _, dup := variables[variable]; dup {
				problems = append(problems, fmt.Sprintf("entry %d: duplicate variable %q", idx, variable))
			}
			variables[variable] = struct{}{}
		}

		optionValues := make(map[string]struct{})
		for _, option := range OptionsOf(field) {
			if _, dup := optionValues[option.Value]; dup && option.Value != "" {
				problems = append(problems, fmt.Sprintf("entry %d (%s): duplicate option %q", idx, variable, option.Value))
			}
			optionValues[option.Value] = struct{}{}
		}
	}

	if cycle := BuildShowOnVariableMap(schemas).Cycle(); cycle != nil {
		problems = append(problems, fmt.Sprintf("show_on cycle %s", strings.Join(cycle, " -> ")))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("schema: invalid schemas: %s", strings.Join(problems, "; "))
}

func describe(idx int, field Field, err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("entry %d: %v", idx, err)}
	}
	out := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		out = append(out, fmt.Sprintf("entry %d (%s): %s failed %q", idx, field.Kind(), verr.Namespace(), verr.Tag()))
	}
	return out
}
