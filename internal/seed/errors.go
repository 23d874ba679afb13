package seed

import "fmt"

// MigrationError wraps a failure to check or apply schema migrations.
type MigrationError struct {
	Op  string
	Err error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s: %v", e.Op, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// ProvisioningError wraps a failure to create a role or link the admin account.
type ProvisioningError struct {
	Step string
	Err  error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision %s: %v", e.Step, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}
