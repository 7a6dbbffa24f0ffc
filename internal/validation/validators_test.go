package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRule(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRule("DAILY"))
	assert.NoError(t, ValidateRule("BIWEEKLY"))
	assert.Error(t, ValidateRule("YEARLY"))
	assert.Error(t, ValidateRule("daily"))
	assert.Error(t, ValidateRule(""))
}

func TestCustomValidators(t *testing.T) {
	t.Parallel()

	type payload struct {
		Rule string `validate:"recurrence_rule"`
		Day  string `validate:"local_date"`
	}

	require.NoError(t, Validate.Struct(payload{Rule: "WEEKLY_MONDAY", Day: "2024-02-29"}))
	assert.Error(t, Validate.Struct(payload{Rule: "FORTNIGHTLY", Day: "2024-02-29"}))
	assert.Error(t, Validate.Struct(payload{Rule: "DAILY", Day: "2023-02-29"}))
	assert.Error(t, Validate.Struct(payload{Rule: "DAILY", Day: "01/02/2024"}))
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", SanitizeText("  hello  "))
	assert.Equal(t, "a\nb", SanitizeText("a\nb\x00"))
	assert.Equal(t, "tab\tok", SanitizeText("tab\tok\x1b"))
}
