package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products on the storefront.
type Category struct {
	ID           int64
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
}

// CoverType describes the packaging or finish a product ships with.
type CoverType struct {
	ID   int64
	Name string
}

// Product is a catalog item managed from the admin area.
type Product struct {
	ID          int64
	Title       string
	Description string
	SKU         string
	Artisan     string
	ListPrice   decimal.Decimal
	Price       decimal.Decimal
	Price50     decimal.Decimal
	Price100    decimal.Decimal
	ImageURL    string
	CategoryID  int64
	CoverTypeID int64
	Category    *Category
	CoverType   *CoverType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
