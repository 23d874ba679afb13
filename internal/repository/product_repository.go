package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/craftelio/storefront/internal/domain"
)

// ProductRepository manages catalog product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productRepository struct {
	db DB
}

const productSelect = `
        SELECT p.id, p.title, p.description, p.sku, p.artisan, p.list_price, p.price, p.price_50,
            p.price_100, p.image_url, p.category_id, p.cover_type_id, p.created_at, p.updated_at,
            c.id, c.name, c.display_order, c.created_at, ct.id, ct.name
        FROM products p
        JOIN categories c ON c.id = p.category_id
        JOIN cover_types ct ON ct.id = p.cover_type_id`

// NewProductRepository builds the repository.
func NewProductRepository(db DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (title, description, sku, artisan, list_price, price, price_50, price_100,
            image_url, category_id, cover_type_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		product.Title,
		product.Description,
		product.SKU,
		product.Artisan,
		product.ListPrice,
		product.Price,
		product.Price50,
		product.Price100,
		product.ImageURL,
		product.CategoryID,
		product.CoverTypeID,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return mapWriteError(err)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET title=$1, description=$2, sku=$3, artisan=$4, list_price=$5, price=$6,
            price_50=$7, price_100=$8, image_url=$9, category_id=$10, cover_type_id=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.db.Exec(ctx, query,
		product.Title,
		product.Description,
		product.SKU,
		product.Artisan,
		product.ListPrice,
		product.Price,
		product.Price50,
		product.Price100,
		product.ImageURL,
		product.CategoryID,
		product.CoverTypeID,
		product.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, productSelect+` WHERE p.id=$1`, id)
	product, err := scanProduct(row)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product   domain.Product
		category  domain.Category
		coverType domain.CoverType
	)
	if err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.SKU,
		&product.Artisan,
		&product.ListPrice,
		&product.Price,
		&product.Price50,
		&product.Price100,
		&product.ImageURL,
		&product.CategoryID,
		&product.CoverTypeID,
		&product.CreatedAt,
		&product.UpdatedAt,
		&category.ID,
		&category.Name,
		&category.DisplayOrder,
		&category.CreatedAt,
		&coverType.ID,
		&coverType.Name,
	); err != nil {
		return nil, err
	}
	product.Category = &category
	product.CoverType = &coverType
	return &product, nil
}
