// Package impl contains the implementation of the application's business logic.
package impl

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/errors"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration never fails for a func with a non-empty tag name.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// validateInput runs struct tag validation and converts violations into the
// field-grouped validation error of the domain taxonomy.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate input")
	}

	grouped := make(map[string][]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := lowerFirst(fe.Field())
		grouped[field] = append(grouped[field], violationMessage(fe))
	}

	return domainerrors.NewValidationError(grouped)
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "username":
		return "must contain only letters, digits, underscores, and hyphens"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])

	return string(r)
}

// singleFieldError builds a validation error for one field.
func singleFieldError(field string, messages ...string) error {
	return domainerrors.NewValidationError(map[string][]string{field: messages})
}

// normalizeEmail canonicalizes an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
