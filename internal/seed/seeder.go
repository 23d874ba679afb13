// Package seed brings the schema up to date and provisions the baseline
// roles and administrator account once per process start.
package seed

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/identity"
)

// Migrator reports and applies pending schema migrations.
type Migrator interface {
	HasPending(ctx context.Context) (bool, error)
	Apply(ctx context.Context) error
}

// RoleManager is the role capability the seeder needs.
type RoleManager interface {
	RoleExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) error
}

// UserManager is the account capability the seeder needs.
type UserManager interface {
	Create(ctx context.Context, user *domain.User, password string) (identity.Result, error)
	AddToRole(ctx context.Context, user *domain.User, roleName string) error
}

// Recorder receives seeding outcomes for metrics.
type Recorder interface {
	RecordSeed(outcome string)
	RecordMigrationFailure()
}

// Outcome is the terminal state of a seeding pass.
type Outcome string

const (
	OutcomeSkipped               Outcome = "skipped"
	OutcomeAccountCreated        Outcome = "account_created"
	OutcomeAccountCreationFailed Outcome = "account_creation_failed"
	OutcomeRoleCreationFailed    Outcome = "role_creation_failed"
	OutcomeRoleAssignmentFailed  Outcome = "role_assignment_failed"
	OutcomeMigrationFailed       Outcome = "migration_failed"
)

// Report describes what a seeding pass did.
type Report struct {
	MigrationsApplied bool
	MigrationErr      error
	RolesCreated      []string
	Outcome           Outcome
	AccountErrors     []string
}

// Dependencies bundles the collaborators of a Seeder.
type Dependencies struct {
	Migrator Migrator
	Roles    RoleManager
	Users    UserManager
	Recorder Recorder
}

// Seeder runs the startup provisioning pass.
type Seeder struct {
	migrator Migrator
	roles    RoleManager
	users    UserManager
	recorder Recorder
	cfg      config.SeedConfig
	logger   *zap.Logger
}

// NewSeeder builds a seeder. An empty role list falls back to the stock roles.
func NewSeeder(cfg config.SeedConfig, deps Dependencies, logger *zap.Logger) *Seeder {
	if len(cfg.Roles) == 0 {
		cfg.Roles = config.DefaultSeedConfig().Roles
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		migrator: deps.Migrator,
		roles:    deps.Roles,
		users:    deps.Users,
		recorder: deps.Recorder,
		cfg:      cfg,
		logger:   logger.Named("seed"),
	}
}

// Seed runs one provisioning pass. Migration failures are logged and the
// pass continues unless the seeder is strict. A failing account creation is
// logged and reported, never returned. Role creation and role assignment
// failures stop the pass and are returned as *ProvisioningError.
func (s *Seeder) Seed(ctx context.Context) (*Report, error) {
	report := &Report{}

	applied, err := s.migrate(ctx)
	report.MigrationsApplied = applied
	if err != nil {
		report.MigrationErr = err
		s.recordMigrationFailure()
		if s.cfg.Strict {
			report.Outcome = OutcomeMigrationFailed
			s.record(report.Outcome)
			return report, err
		}
		s.logger.Error("an error occurred while applying migrations", zap.Error(err))
	}

	exists, err := s.roles.RoleExists(ctx, config.RoleAdmin)
	if err != nil {
		report.Outcome = OutcomeRoleCreationFailed
		s.record(report.Outcome)
		return report, &ProvisioningError{Step: "check role " + config.RoleAdmin, Err: err}
	}
	if exists {
		s.logger.Debug("baseline roles present; skipping provisioning")
		report.Outcome = OutcomeSkipped
		s.record(report.Outcome)
		return report, nil
	}

	for _, name := range s.cfg.Roles {
		if err := s.roles.Create(ctx, name); err != nil {
			report.Outcome = OutcomeRoleCreationFailed
			s.record(report.Outcome)
			return report, &ProvisioningError{Step: "create role " + name, Err: err}
		}
		report.RolesCreated = append(report.RolesCreated, name)
		s.logger.Info("role created", zap.String("role", name))
	}

	admin := s.adminUser()
	result, err := s.users.Create(ctx, admin, s.cfg.Admin.Password)
	if err != nil {
		result = identity.Failed(identity.Error{Code: "StoreFailure", Description: err.Error()})
	}
	if !result.Succeeded {
		report.AccountErrors = result.Descriptions()
		report.Outcome = OutcomeAccountCreationFailed
		s.record(report.Outcome)
		s.logger.Error("failed to create admin user",
			zap.String("email", admin.Email),
			zap.String("errors", strings.Join(report.AccountErrors, ", ")))
		return report, nil
	}

	if err := s.users.AddToRole(ctx, admin, config.RoleAdmin); err != nil {
		report.Outcome = OutcomeRoleAssignmentFailed
		s.record(report.Outcome)
		return report, &ProvisioningError{Step: "assign role " + config.RoleAdmin, Err: err}
	}

	report.Outcome = OutcomeAccountCreated
	s.record(report.Outcome)
	s.logger.Info("admin user created successfully", zap.String("email", admin.Email), zap.String("user_id", admin.ID))
	return report, nil
}

func (s *Seeder) migrate(ctx context.Context) (bool, error) {
	if s.migrator == nil {
		return false, nil
	}
	pending, err := s.migrator.HasPending(ctx)
	if err != nil {
		return false, &MigrationError{Op: "check", Err: err}
	}
	if !pending {
		return false, nil
	}
	if err := s.migrator.Apply(ctx); err != nil {
		return false, &MigrationError{Op: "apply", Err: err}
	}
	return true, nil
}

func (s *Seeder) adminUser() *domain.User {
	a := s.cfg.Admin
	userName := a.UserName
	if userName == "" {
		userName = a.Email
	}
	return &domain.User{
		UserName:      userName,
		Email:         a.Email,
		Name:          a.Name,
		PhoneNumber:   a.PhoneNumber,
		StreetAddress: a.StreetAddress,
		City:          a.City,
		State:         a.State,
		PostalCode:    a.PostalCode,
	}
}

func (s *Seeder) record(outcome Outcome) {
	if s.recorder != nil {
		s.recorder.RecordSeed(string(outcome))
	}
}

func (s *Seeder) recordMigrationFailure() {
	if s.recorder != nil {
		s.recorder.RecordMigrationFailure()
	}
}
