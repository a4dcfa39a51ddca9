package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FormKey is the field name used for errors that belong to the whole form.
const FormKey = ""

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ModelState is the result of validating user input. The zero value is valid.
type ModelState struct {
	errors []FieldError
}

// AddError returns a copy of the state with an extra error attached.
func (s ModelState) AddError(field, message string) ModelState {
	errs := make([]FieldError, len(s.errors), len(s.errors)+1)
	copy(errs, s.errors)
	return ModelState{errors: append(errs, FieldError{Field: field, Message: message})}
}

// Merge returns a state holding the errors of both.
func (s ModelState) Merge(other ModelState) ModelState {
	out := s
	for _, e := range other.errors {
		out = out.AddError(e.Field, e.Message)
	}
	return out
}

func (s ModelState) IsValid() bool {
	return len(s.errors) == 0
}

// Errors returns a copy of the collected errors.
func (s ModelState) Errors() []FieldError {
	out := make([]FieldError, len(s.errors))
	copy(out, s.errors)
	return out
}

// FieldErrors returns the messages recorded for one field.
func (s ModelState) FieldErrors(field string) []string {
	var msgs []string
	for _, e := range s.errors {
		if e.Field == field {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so messages line up with request bodies
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Validate runs the `validate` struct tags of v and returns the resulting model state.
func Validate(v interface{}) ModelState {
	var state ModelState
	err := validate.Struct(v)
	if err == nil {
		return state
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return state.AddError(FormKey, err.Error())
	}
	for _, fe := range verrs {
		state = state.AddError(fe.Field(), message(fe))
	}
	return state
}

func message(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter a %s", label)
	case "gte":
		return fmt.Sprintf("Please enter a %s of at least %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("Please enter a %s greater than %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("The %s must be at most %s characters", label, fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid", label)
	}
}
