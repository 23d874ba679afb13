package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/craftelio/storefront/internal/domain"
)

// RoleRepository defines persistence access for authorization roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	GetByNormalizedName(ctx context.Context, normalizedName string) (*domain.Role, error)
	ExistsByNormalizedName(ctx context.Context, normalizedName string) (bool, error)
	List(ctx context.Context) ([]domain.Role, error)
}

type roleRepository struct {
	db DB
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(db DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (name, normalized_name)
        VALUES ($1, $2)
        RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, role.Name, role.NormalizedName).Scan(&role.ID, &role.CreatedAt)
	return mapWriteError(err)
}

func (r *roleRepository) GetByNormalizedName(ctx context.Context, normalizedName string) (*domain.Role, error) {
	const query = `
        SELECT id, name, normalized_name, created_at
        FROM roles WHERE normalized_name=$1`

	var role domain.Role
	if err := r.db.QueryRow(ctx, query, normalizedName).Scan(
		&role.ID,
		&role.Name,
		&role.NormalizedName,
		&role.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ExistsByNormalizedName(ctx context.Context, normalizedName string) (bool, error) {
	const query = `SELECT 1 FROM roles WHERE normalized_name=$1`

	var one int
	err := r.db.QueryRow(ctx, query, normalizedName).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `
        SELECT id, name, normalized_name, created_at
        FROM roles ORDER BY created_at, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.NormalizedName, &role.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}
