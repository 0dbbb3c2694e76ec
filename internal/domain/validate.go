package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(JSONFieldName)
	return v
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field that failed validation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%q %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, ", ")
}

// Registration is the input accepted when a user signs up.
type Registration struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// ValidateProduct checks a product before it is written to the catalog.
func ValidateProduct(p Product) error {
	errs := structErrors(p)
	if p.Cost.IsNegative() {
		errs = append(errs, FieldError{Field: "cost", Message: "must not be negative"})
	}
	return errs.orNil()
}

// ValidateRegistration checks sign-up input. Passwords need at least one
// letter and one digit.
func ValidateRegistration(r Registration) error {
	errs := structErrors(r)
	if r.Password != "" && !hasLetterAndDigit(r.Password) {
		errs = append(errs, FieldError{Field: "password", Message: "must contain at least 1 letter and 1 number"})
	}
	return errs.orNil()
}

// ValidateAddress checks a delivery address.
func ValidateAddress(address string) error {
	trimmed := strings.TrimSpace(address)
	switch {
	case len(trimmed) < 20:
		return ValidationErrors{{Field: "address", Message: "must be at least 20 characters"}}
	case len(trimmed) > 128:
		return ValidationErrors{{Field: "address", Message: "must be at most 128 characters"}}
	case trimmed == DefaultAddress:
		return ValidationErrors{{Field: "address", Message: "is reserved"}}
	}
	return nil
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func structErrors(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if verrs, ok := FromValidator(err).(ValidationErrors); ok {
		return verrs
	}
	return ValidationErrors{{Field: "", Message: err.Error()}}
}

// FromValidator converts go-playground validator errors, including those
// produced by request binding, into ValidationErrors. Other errors are
// returned unchanged.
func FromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

// JSONFieldName reports the json tag name of f, for use as a validator tag
// name function.
func JSONFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid url"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return "is invalid"
	}
}

func hasLetterAndDigit(s string) bool {
	hasLetter := false
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
