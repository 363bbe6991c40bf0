package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"libraryapi/model"

	"github.com/go-playground/validator/v10"
)

// Validator wraps one validator.Validate configured for request DTOs:
// field names are reported by their json tag and the "notblank" and "genre"
// rules are registered.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
		return model.Genre(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// FieldError describes one rejected field.
type FieldError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Value   any    `json:"value"`
}

// Details is the error payload of a validation failure.
type Details struct {
	Name   string                `json:"name"`
	Errors map[string]FieldError `json:"errors"`
}

// Describe turns a Validate error into per-field details. ok is false when err
// is not a validation failure.
func Describe(err error) (Details, bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return Details{}, false
	}
	d := Details{Name: "ValidationError", Errors: make(map[string]FieldError, len(ves))}
	for _, fe := range ves {
		d.Errors[fe.Field()] = FieldError{
			Message: message(fe),
			Name:    "ValidatorError",
			Kind:    fe.Tag(),
			Path:    fe.Field(),
			Value:   fe.Value(),
		}
	}
	return d, true
}

// Field builds details for a single field rejected outside the struct rules.
func Field(path, kind, msg string, value any) Details {
	return Details{Name: "ValidationError", Errors: map[string]FieldError{
		path: {Message: msg, Name: "ValidatorError", Kind: kind, Path: path, Value: value},
	}}
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", f)
	case "genre":
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`", fe.Value(), f)
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", f, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be %s or less", f, fe.Param())
	}
	return fmt.Sprintf("%s failed on the %q rule", f, fe.Tag())
}
