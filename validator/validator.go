package validator

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"urology-records/models"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("isodate", validateISODate)
	v.RegisterValidation("isodatetime", validateISODateTime)
	v.RegisterValidation("sex", validateSex)
	v.RegisterValidation("category", validateCategory)

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var validationErrs ValidationErrors
	for _, fe := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   fieldPath(fe),
			Message: msgForTag(fe),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
		})
	}

	return validationErrs
}

// fieldPath drops the root struct name, leaving e.g. prescriptions[0].drug_name.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "isodate":
		return fmt.Sprintf("%s must be in YYYY-MM-DD format", field)
	case "isodatetime":
		return fmt.Sprintf("%s must be in YYYY-MM-DDTHH:MM:SS format", field)
	case "sex":
		return fmt.Sprintf("%s must be one of: Male, Female, Other", field)
	case "category":
		return fmt.Sprintf("%s is not a known dropdown category", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// Custom validators. Empty values pass; pair with required where needed.

func validateISODate(fl validator.FieldLevel) bool {
	return matchesLayout(fl.Field().String(), models.DateLayout)
}

func validateISODateTime(fl validator.FieldLevel) bool {
	return matchesLayout(fl.Field().String(), models.DateTimeLayout)
}

func matchesLayout(value, layout string) bool {
	if value == "" {
		return true
	}
	_, err := time.Parse(layout, value)
	return err == nil
}

func validateSex(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "Male", "Female", "Other":
		return true
	}
	return false
}

func validateCategory(fl validator.FieldLevel) bool {
	return models.IsDropdownCategory(fl.Field().String())
}
