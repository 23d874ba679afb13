package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/repository"
)

// RoleManager creates and looks up authorization roles.
type RoleManager struct {
	roles repository.RoleRepository
}

// NewRoleManager builds a role manager.
func NewRoleManager(roles repository.RoleRepository) *RoleManager {
	return &RoleManager{roles: roles}
}

// RoleExists reports whether a role with the given name exists.
func (m *RoleManager) RoleExists(ctx context.Context, name string) (bool, error) {
	return m.roles.ExistsByNormalizedName(ctx, Normalize(name))
}

// Create adds a role. Creating a role that already exists returns ErrDuplicateRole.
func (m *RoleManager) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("role name is required")
	}
	role := &domain.Role{Name: name, NormalizedName: Normalize(name)}
	if err := m.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("%w: %s", ErrDuplicateRole, name)
		}
		return fmt.Errorf("create role %s: %w", name, err)
	}
	return nil
}

// List returns every role.
func (m *RoleManager) List(ctx context.Context) ([]domain.Role, error) {
	return m.roles.List(ctx)
}
