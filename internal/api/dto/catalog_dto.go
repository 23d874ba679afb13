package dto

import (
	"github.com/shopspring/decimal"

	"github.com/craftelio/storefront/internal/domain"
)

// ProductForm is the multipart payload of the product upsert form.
type ProductForm struct {
	ID          int64  `form:"id"`
	Title       string `form:"title" validate:"required"`
	Description string `form:"description"`
	SKU         string `form:"sku" validate:"required"`
	Artisan     string `form:"artisan" validate:"required"`
	ListPrice   string `form:"list_price" validate:"required,numeric"`
	Price       string `form:"price" validate:"required,numeric"`
	Price50     string `form:"price_50" validate:"required,numeric"`
	Price100    string `form:"price_100" validate:"required,numeric"`
	CategoryID  int64  `form:"category_id" validate:"required,gt=0"`
	CoverTypeID int64  `form:"cover_type_id" validate:"required,gt=0"`
}

// ToProduct converts the form. Prices must already have passed validation.
func (f ProductForm) ToProduct() (*domain.Product, error) {
	prices := make([]decimal.Decimal, 4)
	for i, raw := range []string{f.ListPrice, f.Price, f.Price50, f.Price100} {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, err
		}
		prices[i] = d
	}
	return &domain.Product{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		SKU:         f.SKU,
		Artisan:     f.Artisan,
		ListPrice:   prices[0],
		Price:       prices[1],
		Price50:     prices[2],
		Price100:    prices[3],
		CategoryID:  f.CategoryID,
		CoverTypeID: f.CoverTypeID,
	}, nil
}

// CategoryResponse response.
type CategoryResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// CoverTypeResponse response.
type CoverTypeResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProductResponse response.
type ProductResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	SKU         string             `json:"sku"`
	Artisan     string             `json:"artisan"`
	ListPrice   decimal.Decimal    `json:"list_price"`
	Price       decimal.Decimal    `json:"price"`
	Price50     decimal.Decimal    `json:"price_50"`
	Price100    decimal.Decimal    `json:"price_100"`
	ImageURL    string             `json:"image_url"`
	CategoryID  int64              `json:"category_id"`
	CoverTypeID int64              `json:"cover_type_id"`
	Category    *CategoryResponse  `json:"category,omitempty"`
	CoverType   *CoverTypeResponse `json:"cover_type,omitempty"`
}

// NewCategoryResponse maps a category.
func NewCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, DisplayOrder: c.DisplayOrder}
}

// NewCoverTypeResponse maps a cover type.
func NewCoverTypeResponse(c domain.CoverType) CoverTypeResponse {
	return CoverTypeResponse{ID: c.ID, Name: c.Name}
}

// NewProductResponse maps a product with its joined references.
func NewProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		SKU:         p.SKU,
		Artisan:     p.Artisan,
		ListPrice:   p.ListPrice,
		Price:       p.Price,
		Price50:     p.Price50,
		Price100:    p.Price100,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		CoverTypeID: p.CoverTypeID,
	}
	if p.Category != nil {
		c := NewCategoryResponse(*p.Category)
		resp.Category = &c
	}
	if p.CoverType != nil {
		ct := NewCoverTypeResponse(*p.CoverType)
		resp.CoverType = &ct
	}
	return resp
}
