package loan

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	domain "loanbook/internal/domain/loan"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field. errors.Is matches the domain
// error of each field (ErrInvalidName, ErrInvalidAmount, ErrInvalidDate).
type ValidationError struct {
	Fields []FieldError
	causes []error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.causes }

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// dd-mm-yyyy that survives a calendar round trip
	_ = v.RegisterValidation("displaydate", func(fl validator.FieldLevel) bool {
		return domain.ValidDisplayDate(fl.Field().String())
	})
	// non-empty after trimming whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &CustomValidator{v: v}
}

// Validate returns nil or a *ValidationError.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	fields := ToFieldErrors(err)
	ve := &ValidationError{Fields: fields}
	for _, f := range fields {
		if cause := fieldCause(f.Field); cause != nil {
			ve.causes = append(ve.causes, cause)
		}
	}
	if len(ve.causes) == 0 {
		ve.causes = []error{err}
	}
	return ve
}

func fieldCause(field string) error {
	switch field {
	case "Name":
		return domain.ErrInvalidName
	case "Amount":
		return domain.ErrInvalidAmount
	case "Date":
		return domain.ErrInvalidDate
	}
	return nil
}

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required", "notblank":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "displaydate":
			out = append(out, FieldError{Field: field, Message: "must be a valid date in dd-mm-yyyy format"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
