package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordPolicy_Validate(t *testing.T) {
	t.Parallel()

	policy := DefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "too short and missing classes", password: "abc", valid: false},
		{name: "satisfies all rules", password: "Abcdefg1!", valid: true},
		{name: "no lowercase", password: "ALLCAPS1!", valid: false},
		{name: "no uppercase", password: "alllower1!", valid: false},
		{name: "no digit", password: "Abcdefgh!", valid: false},
		{name: "no symbol", password: "Abcdefg12", valid: false},
		{name: "too long", password: strings.Repeat("Aa1!", 33), valid: false},
		{name: "exactly max length", password: "Aa1!" + strings.Repeat("x", 124), valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			violations := policy.Validate(tt.password)
			if tt.valid {
				assert.Empty(t, violations)
			} else {
				assert.NotEmpty(t, violations)
			}
		})
	}
}

func TestPasswordPolicy_ShortPasswordReportsEveryMissingClass(t *testing.T) {
	t.Parallel()

	violations := DefaultPasswordPolicy().Validate("abc")

	// short, no uppercase, no digit, no symbol
	assert.Len(t, violations, 4)
}
