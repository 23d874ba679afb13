// Package identity manages accounts and roles: validation, password policy,
// hashing and role membership on top of the repositories.
package identity

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateRole is returned when a role with the same normalized name exists.
	ErrDuplicateRole = errors.New("role already exists")
	// ErrRoleNotFound is returned when a named role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrAlreadyInRole is returned when the user already holds the role.
	ErrAlreadyInRole = errors.New("user already in role")
	// ErrUserNotSaved is returned for users that were never persisted.
	ErrUserNotSaved = errors.New("user has no id")
)

// Error is a single validation failure reported by the identity subsystem.
type Error struct {
	Code        string
	Description string
}

// Result is the outcome of an account operation. Validation failures are
// reported here; store failures are returned as a Go error instead.
type Result struct {
	Succeeded bool
	Errors    []Error
}

// Success is the result of an operation with no validation failures.
var Success = Result{Succeeded: true}

// Failed builds a failed result from the given errors.
func Failed(errs ...Error) Result {
	return Result{Succeeded: false, Errors: errs}
}

// Descriptions returns every error description in reporting order.
func (r Result) Descriptions() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Description)
	}
	return out
}

// String joins the descriptions the way they are logged.
func (r Result) String() string {
	if r.Succeeded {
		return "Succeeded"
	}
	return "Failed: " + strings.Join(r.Descriptions(), ", ")
}

// Normalize produces the lookup key used for user names, emails and role names.
func Normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
