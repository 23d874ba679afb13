package identity

import (
	"fmt"
	"unicode"

	"github.com/craftelio/storefront/internal/config"
)

// PasswordPolicy lists the requirements a new password must meet.
type PasswordPolicy struct {
	MinLength      int
	RequireDigit   bool
	RequireLower   bool
	RequireUpper   bool
	RequireSpecial bool
}

// PolicyFromConfig maps the identity config onto a password policy.
func PolicyFromConfig(cfg config.IdentityConfig) PasswordPolicy {
	return PasswordPolicy{
		MinLength:      cfg.PasswordMinLength,
		RequireDigit:   cfg.PasswordRequireDigit,
		RequireLower:   cfg.PasswordRequireLower,
		RequireUpper:   cfg.PasswordRequireUpper,
		RequireSpecial: cfg.PasswordRequireSpecial,
	}
}

// Validate returns every rule the password breaks, in a stable order.
func (p PasswordPolicy) Validate(password string) []Error {
	var errs []Error

	if len([]rune(password)) < p.MinLength {
		errs = append(errs, Error{
			Code:        "PasswordTooShort",
			Description: fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength),
		})
	}

	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasSpecial = true
		}
	}

	if p.RequireSpecial && !hasSpecial {
		errs = append(errs, Error{
			Code:        "PasswordRequiresNonAlphanumeric",
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}
	if p.RequireDigit && !hasDigit {
		errs = append(errs, Error{
			Code:        "PasswordRequiresDigit",
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if p.RequireLower && !hasLower {
		errs = append(errs, Error{
			Code:        "PasswordRequiresLower",
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if p.RequireUpper && !hasUpper {
		errs = append(errs, Error{
			Code:        "PasswordRequiresUpper",
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}
	return errs
}
