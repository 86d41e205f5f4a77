// internal/forms/validate.go
package forms

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nexuscatalog/storefront-go/internal/api"
)

var validate = validator.New()

// Validate checks a form struct against its validate tags and maps
// failures onto the inline ValidationError taxonomy, so client-side and
// server-side validation failures surface the same way.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string][]string, len(validationErrs))
	for _, e := range validationErrs {
		name := strings.ToLower(e.Field())
		fields[name] = append(fields[name], message(e))
	}
	return &api.ValidationError{Fields: fields}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "max":
		return fmt.Sprintf("must be no longer than %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %s validation", e.Tag())
	}
}
