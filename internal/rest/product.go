package rest

import (
	"context"
	"fmt"
	"net/http"
	"shoply/domain"
	"shoply/internal/repository/postgres"
	"shoply/internal/repository/search"
	"shoply/pkg/logger"
	"shoply/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ProductService interface {
	GetAllProducts(ctx context.Context, opts ListOptions) ([]domain.Product, int64, error)
	GetProductByID(ctx context.Context, id uint, includeInactive bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	GetLowStockProducts(ctx context.Context, threshold int, categoryID uint, offset, limit int) ([]domain.Product, int64, error)
	SearchProducts(ctx context.Context, q search.Query) (search.Result, error)
}

// ListOptions narrows catalog listings by category, stock ceiling and ordering.
type ListOptions = postgres.ProductListOptions

const defaultLowStockThreshold = 10

type ProductHandler struct {
	productService ProductService
	validator      *validator.Validate
	mediaDir       string
	timeout        time.Duration
}

func NewProductHandler(productService ProductService, mediaDir string) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		validator:      validator.New(),
		mediaDir:       mediaDir,
		timeout:        10 * time.Second,
	}
}

type ProductRequest struct {
	Title         string  `json:"title" form:"title" validate:"required"`
	Description   string  `json:"description" form:"description"`
	Price         float64 `json:"price" form:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" form:"stock_quantity" validate:"gte=0"`
	CategoryID    uint    `json:"category" form:"category" validate:"required"`
}

// GetAllProducts lists the catalog with optional ?category, ?ordering and
// pagination. Inactive products only show up for administrators.
func (h *ProductHandler) GetAllProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p := getPageParams(c)

	var categoryID uint
	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category filter"})
		}
		categoryID = uint(parsed)
	}

	opts := ListOptions{
		ActiveOnly: !isAdmin(c),
		CategoryID: categoryID,
		Ordering:   c.QueryParam("ordering"),
		Offset:     p.Offset(),
		Limit:      p.PageSize,
	}

	products, count, err := h.productService.GetAllProducts(ctx, opts)
	if err != nil {
		logger.Error("Failed to get all products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, p, count, products))
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	id := c.Param("id")

	var productID uint
	if _, err := fmt.Sscan(id, &productID); err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.productService.GetProductByID(ctx, productID, isAdmin(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles product creation (admin), multipart to allow an image.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	product := domain.Product{
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveUploadedImage(file, h.mediaDir, "product_images")
		if err != nil {
			logger.Error("Failed to save product image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		product.Image = path
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.productService.CreateProduct(ctx, &product)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "required") ||
			strings.Contains(err.Error(), "must be") || strings.Contains(err.Error(), "cannot be") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"product": created,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id := c.Param("id")

	var productID uint
	if _, err := fmt.Sscan(id, &productID); err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate product", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	product := domain.Product{
		ID:            productID,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveUploadedImage(file, h.mediaDir, "product_images")
		if err != nil {
			logger.Error("Failed to save product image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		product.Image = path
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.productService.UpdateProduct(ctx, &product)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "must be") ||
			strings.Contains(err.Error(), "cannot be") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product updated successfully",
		"product": updated,
	})
}

// DeleteProduct deactivates a product (admin) and drops it from search.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")

	var productID uint
	if _, err := fmt.Sscan(id, &productID); err != nil {
		logger.Error("Invalid product ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.productService.DeleteProduct(ctx, productID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to delete product", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted successfully",
	})
}

// GetLowStockProducts lists products at or under ?threshold (admin), default
// threshold 10, optionally scoped to ?category.
func (h *ProductHandler) GetLowStockProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	threshold := defaultLowStockThreshold
	if raw := c.QueryParam("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid threshold"})
		}
		threshold = parsed
	}

	var categoryID uint
	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category filter"})
		}
		categoryID = uint(parsed)
	}

	p := getPageParams(c)

	products, count, err := h.productService.GetLowStockProducts(ctx, threshold, categoryID, p.Offset(), p.PageSize)
	if err != nil {
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to get low stock products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"threshold": threshold,
		"count":     count,
		"results":   products,
	})
}

// SearchProducts serves full-text search from the index. Supports ?q,
// ?category, ?min_price, ?max_price, ?in_stock and ?ordering.
func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p := getPageParams(c)

	term := c.QueryParam("search")
	if term == "" {
		term = c.QueryParam("q")
	}

	q := search.Query{
		Term:     term,
		Ordering: c.QueryParam("ordering"),
		Offset:   p.Offset(),
		Limit:    p.PageSize,
	}

	if raw := c.QueryParam("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category filter"})
		}
		q.CategoryID = uint(parsed)
	}

	if raw := c.QueryParam("min_price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid min_price"})
		}
		q.MinPrice = &parsed
	}

	if raw := c.QueryParam("max_price"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid max_price"})
		}
		q.MaxPrice = &parsed
	}

	if raw := c.QueryParam("in_stock"); raw != "" {
		q.InStock = raw == "true" || raw == "1"
	}

	result, err := h.productService.SearchProducts(ctx, q)
	if err != nil {
		logger.Error("Failed to search products", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, p, result.Total, result.Documents))
}
