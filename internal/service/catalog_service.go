package service

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/events"
	"github.com/craftelio/storefront/internal/repository"
	"github.com/craftelio/storefront/internal/storage"
	apperrors "github.com/craftelio/storefront/pkg/util"
)

const productImageDir = "images/products"

var (
	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.NewFromInt(10000)
)

// Upload is an image submitted with a product form.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// CatalogService manages products and their form options.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	coverTypes repository.CoverTypeRepository
	images     storage.ImageStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CatalogDependencies encapsulates collaborators for the catalog service.
type CatalogDependencies struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	CoverTypes repository.CoverTypeRepository
	Images     storage.ImageStore
	Dispatcher events.Dispatcher
}

// NewCatalogService builds the service.
func NewCatalogService(deps CatalogDependencies, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		products:   deps.Products,
		categories: deps.Categories,
		coverTypes: deps.CoverTypes,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     logger.Named("catalog"),
	}
}

// ListProducts returns every product with its category and cover type.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct loads one product.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// UpsertProduct creates the product when its ID is zero and updates it
// otherwise. The stored image is only ever taken from the existing row; a
// non-nil upload replaces it once the row is written.
func (s *CatalogService) UpsertProduct(ctx context.Context, product *domain.Product, upload *Upload) (created bool, err error) {
	if err := validateProduct(product); err != nil {
		return false, err
	}
	if err := s.checkReferences(ctx, product); err != nil {
		return false, err
	}

	created = product.ID == 0
	previousImage := ""
	if !created {
		existing, err := s.products.GetByID(ctx, product.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewNotFound("product", map[string]any{"id": product.ID})
		}
		if err != nil {
			return false, apperrors.MapError(err)
		}
		previousImage = existing.ImageURL
	}
	product.ImageURL = previousImage

	uploaded := ""
	if upload != nil && upload.Body != nil {
		url, err := s.images.Save(ctx, imageKey(upload.Filename), upload.ContentType, upload.Body)
		if err != nil {
			return false, apperrors.NewInternalError(err)
		}
		uploaded = url
		product.ImageURL = url
	}

	if err := s.save(ctx, product, created); err != nil {
		if uploaded != "" {
			s.removeImage(ctx, uploaded, "failed to remove unused upload")
		}
		product.ImageURL = previousImage
		return false, err
	}
	if uploaded != "" && previousImage != "" {
		s.removeImage(ctx, previousImage, "failed to delete previous image")
	}

	s.logger.Info("product saved", zap.Int64("product_id", product.ID), zap.Bool("created", created))
	s.publish(ctx, events.Event{
		Type:    events.EventProductSaved,
		Payload: events.ProductSavedPayload{ProductID: product.ID, Title: product.Title, Created: created},
	})
	return created, nil
}

func (s *CatalogService) save(ctx context.Context, product *domain.Product, create bool) error {
	var err error
	if create {
		err = s.products.Create(ctx, product)
	} else {
		err = s.products.Update(ctx, product)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict("a product with this sku already exists", map[string]any{"sku": product.SKU})
	case !create && errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("product", map[string]any{"id": product.ID})
	}
	return apperrors.MapError(err)
}

func (s *CatalogService) removeImage(ctx context.Context, url, msg string) {
	if err := s.images.Delete(ctx, url); err != nil {
		s.logger.Warn(msg, zap.String("url", url), zap.Error(err))
	}
}

// DeleteProduct removes the product image and then the product.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if product.ImageURL != "" {
		if err := s.images.Delete(ctx, product.ImageURL); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id))
	s.publish(ctx, events.Event{
		Type:    events.EventProductDeleted,
		Payload: events.ProductDeletedPayload{ProductID: id, Title: product.Title},
	})
	return nil
}

// ListCategories returns category options.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(categories) == 0 {
		s.logger.Warn("no categories found in database")
		categories = []domain.Category{}
	}
	return categories, nil
}

// ListCoverTypes returns cover type options.
func (s *CatalogService) ListCoverTypes(ctx context.Context) ([]domain.CoverType, error) {
	coverTypes, err := s.coverTypes.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if coverTypes == nil {
		coverTypes = []domain.CoverType{}
	}
	return coverTypes, nil
}

func (s *CatalogService) checkReferences(ctx context.Context, product *domain.Product) error {
	if _, err := s.categories.GetByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("category does not exist", map[string]any{"category_id": product.CategoryID})
		}
		return apperrors.MapError(err)
	}
	if _, err := s.coverTypes.GetByID(ctx, product.CoverTypeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("cover type does not exist", map[string]any{"cover_type_id": product.CoverTypeID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func validateProduct(p *domain.Product) error {
	details := map[string]any{}
	if strings.TrimSpace(p.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(p.SKU) == "" {
		details["sku"] = "required"
	}
	if strings.TrimSpace(p.Artisan) == "" {
		details["artisan"] = "required"
	}
	prices := map[string]decimal.Decimal{
		"list_price": p.ListPrice,
		"price":      p.Price,
		"price_50":   p.Price50,
		"price_100":  p.Price100,
	}
	for field, value := range prices {
		if value.LessThan(minPrice) || value.GreaterThan(maxPrice) {
			details[field] = "must be between 1 and 10000"
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details)
	}
	return nil
}

func imageKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(productImageDir, uuid.NewString()+ext)
}

func (s *CatalogService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
