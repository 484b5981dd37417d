// Package validation wraps go-playground/validator for request structs.
// Field names in errors are the json names the client sent.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator checks struct tags. It satisfies fiber.StructValidator.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with json field names and the notblank tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

// RegisterStructValidation adds a cross-field rule for the given types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Validate validates out.
func (v *Validator) Validate(out any) error {
	return v.validate.Struct(out)
}

// Message renders validation errors as "a is required", "a and b are
// required" or "a, b and c are required". ok is false for other errors.
func Message(err error) (msg string, ok bool) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "", false
	}

	fields := make([]string, 0, len(errs))
	seen := map[string]bool{}
	for _, fe := range errs {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, fe.Field())
	}

	switch len(fields) {
	case 0:
		return "invalid request", true
	case 1:
		return fields[0] + " is required", true
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1] + " are required", true
	}
}
