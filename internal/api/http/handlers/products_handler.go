package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/craftelio/storefront/internal/api/dto"
	"github.com/craftelio/storefront/internal/domain"
	"github.com/craftelio/storefront/internal/service"
	apperrors "github.com/craftelio/storefront/pkg/util"
)

// CatalogAPI is the catalog capability the handler serves.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	UpsertProduct(ctx context.Context, product *domain.Product, upload *service.Upload) (bool, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListCoverTypes(ctx context.Context) ([]domain.CoverType, error)
}

// ProductsHandler exposes the admin catalog endpoints.
type ProductsHandler struct {
	catalog CatalogAPI
	logger  *zap.Logger
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog CatalogAPI, logger *zap.Logger) *ProductsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsHandler{catalog: catalog, logger: logger}
}

// List handles GET /admin/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(c.UserContext())
	if err != nil {
		return err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, dto.NewProductResponse(p))
	}
	return c.JSON(fiber.Map{"data": data})
}

// Get handles GET /admin/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid product id", nil)
	}
	product, err := h.catalog.GetProduct(c.UserContext(), int64(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProductResponse(*product)})
}

// Upsert handles POST /admin/products. The optional "file" part replaces the image.
func (h *ProductsHandler) Upsert(c *fiber.Ctx) error {
	var form dto.ProductForm
	if err := c.BodyParser(&form); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details, ok := dto.Validate(form); !ok {
		return apperrors.NewValidationError("invalid product", details)
	}
	product, err := form.ToProduct()
	if err != nil {
		return apperrors.NewValidationError("invalid price", nil)
	}

	var upload *service.Upload
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		defer f.Close()
		upload = &service.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Body:        f,
		}
	}

	created, err := h.catalog.UpsertProduct(c.UserContext(), product, upload)
	if err != nil {
		return err
	}

	status, message := fiber.StatusOK, "Product updated successfully"
	if created {
		status, message = fiber.StatusCreated, "Product created successfully"
	}
	return c.Status(status).JSON(fiber.Map{
		"data":    dto.NewProductResponse(*product),
		"message": message,
	})
}

// Delete handles DELETE /admin/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(c.UserContext(), int64(id)); err != nil {
		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus == fiber.StatusNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Product not found"})
		}
		h.logger.Error("error deleting product", zap.Int("product_id", id), zap.Error(err))
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"success": false, "message": "An error occurred while deleting the product"})
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted successfully"})
}

// Categories handles GET /admin/categories.
func (h *ProductsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	data := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		data = append(data, dto.NewCategoryResponse(cat))
	}
	return c.JSON(fiber.Map{"data": data})
}

// CoverTypes handles GET /admin/cover-types.
func (h *ProductsHandler) CoverTypes(c *fiber.Ctx) error {
	coverTypes, err := h.catalog.ListCoverTypes(c.UserContext())
	if err != nil {
		return err
	}
	data := make([]dto.CoverTypeResponse, 0, len(coverTypes))
	for _, ct := range coverTypes {
		data = append(data, dto.NewCoverTypeResponse(ct))
	}
	return c.JSON(fiber.Map{"data": data})
}
