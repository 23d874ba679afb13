package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/craftelio/storefront/internal/domain"
)

// UserRepository defines persistence access for accounts and their role links.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error)
	GetByNormalizedUserName(ctx context.Context, normalizedUserName string) (*domain.User, error)
	AddToRole(ctx context.Context, userID, roleID string) error
	IsInRole(ctx context.Context, userID, roleID string) (bool, error)
	RoleNames(ctx context.Context, userID string) ([]string, error)
}

type userRepository struct {
	db DB
}

const userColumns = `id, user_name, normalized_user_name, email, normalized_email, email_confirmed,
        password_hash, name, phone_number, street_address, city, state, postal_code, company_id,
        created_at, updated_at`

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (user_name, normalized_user_name, email, normalized_email, email_confirmed,
            password_hash, name, phone_number, street_address, city, state, postal_code, company_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.UserName,
		user.NormalizedUserName,
		user.Email,
		user.NormalizedEmail,
		user.EmailConfirmed,
		user.PasswordHash,
		user.Name,
		user.PhoneNumber,
		user.StreetAddress,
		user.City,
		user.State,
		user.PostalCode,
		user.CompanyID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return mapWriteError(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET user_name=$1, normalized_user_name=$2, email=$3, normalized_email=$4,
            email_confirmed=$5, password_hash=$6, name=$7, phone_number=$8, street_address=$9,
            city=$10, state=$11, postal_code=$12, company_id=$13, updated_at=NOW()
        WHERE id=$14`

	cmd, err := r.db.Exec(ctx, query,
		user.UserName,
		user.NormalizedUserName,
		user.Email,
		user.NormalizedEmail,
		user.EmailConfirmed,
		user.PasswordHash,
		user.Name,
		user.PhoneNumber,
		user.StreetAddress,
		user.City,
		user.State,
		user.PostalCode,
		user.CompanyID,
		user.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE normalized_email=$1 ORDER BY created_at LIMIT 1`, normalizedEmail)
}

func (r *userRepository) GetByNormalizedUserName(ctx context.Context, normalizedUserName string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE normalized_user_name=$1`, normalizedUserName)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.UserName,
		&user.NormalizedUserName,
		&user.Email,
		&user.NormalizedEmail,
		&user.EmailConfirmed,
		&user.PasswordHash,
		&user.Name,
		&user.PhoneNumber,
		&user.StreetAddress,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.CompanyID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) AddToRole(ctx context.Context, userID, roleID string) error {
	const query = `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, userID, roleID); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *userRepository) IsInRole(ctx context.Context, userID, roleID string) (bool, error) {
	const query = `SELECT 1 FROM user_roles WHERE user_id=$1 AND role_id=$2`

	var one int
	err := r.db.QueryRow(ctx, query, userID, roleID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) RoleNames(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT r.name
        FROM user_roles ur
        JOIN roles r ON r.id = ur.role_id
        WHERE ur.user_id=$1
        ORDER BY r.name`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
