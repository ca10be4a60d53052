package service

import (
	"fmt"
	"strings"
)

// PasswordSymbols is the set of characters accepted as the required symbol.
const PasswordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// PasswordPolicy is the composed credential policy applied on registration
// and password change. The zero value is not useful; construct with
// DefaultPasswordPolicy or from configuration.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	RequireSymbol    bool
}

// DefaultPasswordPolicy returns the stock policy: length 8-128 with at least
// one uppercase, one lowercase, one digit, and one symbol.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		RequireSymbol:    true,
	}
}

// Validate returns the list of violated rules, empty when the password
// satisfies the policy. Messages are phrased for direct inclusion in
// field-level validation output.
func (p PasswordPolicy) Validate(password string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", p.MinLength))
	}
	if p.MaxLength > 0 && len(password) > p.MaxLength {
		violations = append(violations, fmt.Sprintf("must be at most %d characters", p.MaxLength))
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}

	if p.RequireUppercase && !upper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if p.RequireLowercase && !lower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if p.RequireDigit && !digit {
		violations = append(violations, "must contain a digit")
	}
	if p.RequireSymbol && !symbol {
		violations = append(violations, "must contain a symbol")
	}

	return violations
}
