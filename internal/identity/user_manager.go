package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	"github.com/craftelio/storefront/internal/auth"
	"github.com/craftelio/storefront/internal/config"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/repository"
)

// UserManager creates accounts, checks credentials and manages role membership.
type UserManager struct {
	users              repository.UserRepository
	roles              repository.RoleRepository
	hasher             *auth.PasswordHasher
	policy             PasswordPolicy
	requireUniqueEmail bool
	validate           *validator.Validate
}

// NewUserManager builds a user manager.
func NewUserManager(users repository.UserRepository, roles repository.RoleRepository, hasher *auth.PasswordHasher, cfg config.IdentityConfig) *UserManager {
	return &UserManager{
		users:              users,
		roles:              roles,
		hasher:             hasher,
		policy:             PolicyFromConfig(cfg),
		requireUniqueEmail: cfg.RequireUniqueEmail,
		validate:           validator.New(),
	}
}

// Create validates the user and password and persists the account with a
// hashed password. All validation failures are collected into the result.
func (m *UserManager) Create(ctx context.Context, user *domain.User, password string) (Result, error) {
	user.UserName = strings.TrimSpace(user.UserName)
	user.Email = strings.TrimSpace(user.Email)
	user.NormalizedUserName = Normalize(user.UserName)
	user.NormalizedEmail = Normalize(user.Email)

	errs, err := m.validateUser(ctx, user)
	if err != nil {
		return Result{}, err
	}
	errs = append(errs, m.policy.Validate(password)...)
	if len(errs) > 0 {
		return Failed(errs...), nil
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return Result{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Failed(duplicateUserName(user.UserName)), nil
		}
		return Result{}, fmt.Errorf("create user: %w", err)
	}
	return Success, nil
}

func (m *UserManager) validateUser(ctx context.Context, user *domain.User) ([]Error, error) {
	var errs []Error

	if user.UserName == "" {
		errs = append(errs, Error{Code: "InvalidUserName", Description: fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", user.UserName)})
	} else {
		_, err := m.users.GetByNormalizedUserName(ctx, user.NormalizedUserName)
		switch {
		case err == nil:
			errs = append(errs, duplicateUserName(user.UserName))
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("lookup user name: %w", err)
		}
	}

	if user.Email == "" || m.validate.Var(user.Email, "email") != nil {
		errs = append(errs, Error{Code: "InvalidEmail", Description: fmt.Sprintf("Email '%s' is invalid.", user.Email)})
	} else if m.requireUniqueEmail {
		_, err := m.users.GetByNormalizedEmail(ctx, user.NormalizedEmail)
		switch {
		case err == nil:
			errs = append(errs, Error{Code: "DuplicateEmail", Description: fmt.Sprintf("Email '%s' is already taken.", user.Email)})
		case !errors.Is(err, pgx.ErrNoRows):
			return nil, fmt.Errorf("lookup email: %w", err)
		}
	}
	return errs, nil
}

func duplicateUserName(name string) Error {
	return Error{Code: "DuplicateUserName", Description: fmt.Sprintf("Username '%s' is already taken.", name)}
}

// AddToRole links the user to the named role.
func (m *UserManager) AddToRole(ctx context.Context, user *domain.User, roleName string) error {
	if user == nil || user.ID == "" {
		return ErrUserNotSaved
	}
	role, err := m.roles.GetByNormalizedName(ctx, Normalize(roleName))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, roleName)
	}
	if err != nil {
		return fmt.Errorf("lookup role %s: %w", roleName, err)
	}

	inRole, err := m.users.IsInRole(ctx, user.ID, role.ID)
	if err != nil {
		return fmt.Errorf("check role membership: %w", err)
	}
	if inRole {
		return fmt.Errorf("%w: %s", ErrAlreadyInRole, roleName)
	}
	if err := m.users.AddToRole(ctx, user.ID, role.ID); err != nil {
		return fmt.Errorf("add user to role %s: %w", roleName, err)
	}
	return nil
}

// Delete removes the account and its role links.
func (m *UserManager) Delete(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return ErrUserNotSaved
	}
	return m.users.Delete(ctx, user.ID)
}

// FindByEmail returns the account registered with email, or pgx.ErrNoRows.
func (m *UserManager) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users.GetByNormalizedEmail(ctx, Normalize(email))
}

// CheckPassword reports whether password matches the stored hash.
func (m *UserManager) CheckPassword(user *domain.User, password string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return m.hasher.Compare(user.PasswordHash, password) == nil
}

// Roles returns the names of every role the user belongs to.
func (m *UserManager) Roles(ctx context.Context, user *domain.User) ([]string, error) {
	return m.users.RoleNames(ctx, user.ID)
}

// IsInRole reports whether the user belongs to the named role.
func (m *UserManager) IsInRole(ctx context.Context, user *domain.User, roleName string) (bool, error) {
	role, err := m.roles.GetByNormalizedName(ctx, Normalize(roleName))
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.users.IsInRole(ctx, user.ID, role.ID)
}
