package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cadencehq/cadence/internal/dateutil"
	"github.com/cadencehq/cadence/internal/recurrence"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for domain value types
	if err := Validate.RegisterValidation("recurrence_rule", validateRecurrenceRule); err != nil {
		panic(fmt.Sprintf("failed to register recurrence_rule validator: %v", err))
	}
	if err := Validate.RegisterValidation("local_date", validateLocalDate); err != nil {
		panic(fmt.Sprintf("failed to register local_date validator: %v", err))
	}
}

// validateRecurrenceRule validates that a string is a supported recurrence rule token
func validateRecurrenceRule(fl validator.FieldLevel) bool {
	_, err := recurrence.ParseRule(fl.Field().String())
	return err == nil
}

// validateLocalDate validates that a string is a calendar date in YYYY-MM-DD form
func validateLocalDate(fl validator.FieldLevel) bool {
	_, err := dateutil.Parse(fl.Field().String())
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateRule validates a recurrence rule string value
func ValidateRule(value string) error {
	if _, err := recurrence.ParseRule(value); err != nil {
		return fmt.Errorf("invalid recurrence_rule: %q", value)
	}
	return nil
}
