package domain

import "time"

// User is an account known to the identity subsystem. Customers, employees
// and administrators all share this shape and differ only by role.
type User struct {
	ID                 string
	UserName           string
	NormalizedUserName string
	Email              string
	NormalizedEmail    string
	EmailConfirmed     bool
	PasswordHash       string
	Name               string
	PhoneNumber        string
	StreetAddress      string
	City               string
	State              string
	PostalCode         string
	CompanyID          *int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
