package repository

import (
	"context"

	"github.com/craftelio/storefront/internal/domain"
)

// CategoryRepository reads product categories.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

// CoverTypeRepository reads product cover types.
type CoverTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.CoverType, error)
	List(ctx context.Context) ([]domain.CoverType, error)
}

type categoryRepository struct {
	db DB
}

type coverTypeRepository struct {
	db DB
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(db DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// NewCoverTypeRepository builds the repository.
func NewCoverTypeRepository(db DB) CoverTypeRepository {
	return &coverTypeRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	const query = `SELECT id, name, display_order, created_at FROM categories WHERE id=$1`

	var category domain.Category
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.DisplayOrder,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name, display_order, created_at FROM categories ORDER BY display_order, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.DisplayOrder, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *coverTypeRepository) GetByID(ctx context.Context, id int64) (*domain.CoverType, error) {
	var coverType domain.CoverType
	if err := r.db.QueryRow(ctx, `SELECT id, name FROM cover_types WHERE id=$1`, id).Scan(
		&coverType.ID,
		&coverType.Name,
	); err != nil {
		return nil, err
	}
	return &coverType, nil
}

func (r *coverTypeRepository) List(ctx context.Context) ([]domain.CoverType, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM cover_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CoverType
	for rows.Next() {
		var coverType domain.CoverType
		if err := rows.Scan(&coverType.ID, &coverType.Name); err != nil {
			return nil, err
		}
		result = append(result, coverType)
	}
	return result, rows.Err()
}
