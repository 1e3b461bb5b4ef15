package product

import (
	"context"
	"errors"
	"fmt"
	"shoply/domain"
	"shoply/internal/repository/postgres"
	"shoply/internal/repository/search"
	"shoply/pkg/logger"
	"shoply/pkg/metrics"
	"time"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindAll(ctx context.Context, opts postgres.ProductListOptions) ([]domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) error
	Deactivate(ctx context.Context, id uint) error
}

// CategoryRepository contract interface (products validate their category)
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Category, error)
}

// SearchRepository contract interface for the external search index mirror
type SearchRepository interface {
	IndexProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, q search.Query) (search.Result, error)
}

const searchSyncTimeout = 5 * time.Second

type productService struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	searchRepo   SearchRepository
}

func NewProductService(productRepo ProductRepository, categoryRepo CategoryRepository, searchRepo SearchRepository) *productService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		searchRepo:   searchRepo,
	}
}

// ListOptions mirrors the repository options handlers may set.
type ListOptions = postgres.ProductListOptions

func (s *productService) GetAllProducts(ctx context.Context, opts ListOptions) ([]domain.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all products")
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	products, count, err := s.productRepo.FindAll(ctx, opts)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, 0, err
	}

	return products, count, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint, includeInactive bool) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get product by id")
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	if !product.IsActive && !includeInactive {
		return nil, errors.New("product not found")
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if err := s.validateProduct(product); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil || !category.IsActive {
		logger.Error("Invalid product data: category not found")
		return nil, errors.New("category not found")
	}

	product.IsActive = true

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("failed to create new product", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.Category = &category
	s.syncToIndex(*product)

	logger.Info("product created successfully", "product_id", product.ID)

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating product")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.ID == 0 {
		logger.Error("Invalid product data: ID is required")
		return nil, errors.New("product ID is required")
	}

	if err := s.validateProduct(product); err != nil {
		return nil, err
	}

	// Verify product exists
	existing, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("product not found", err)
		return nil, errors.New("product not found")
	}

	if product.CategoryID != existing.CategoryID {
		category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
		if err != nil || !category.IsActive {
			logger.Error("Invalid product data: category not found")
			return nil, errors.New("category not found")
		}
	}

	// updates never resurrect or hide a product; that is Deactivate's job
	product.IsActive = existing.IsActive

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.Error("failed to update product", err)
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	updatedProduct, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		logger.Error("failed to fetch updated product", err)
		return nil, fmt.Errorf("failed to fetch updated product: %w", err)
	}

	s.syncToIndex(updatedProduct)

	logger.Info("product updated successfully", "product_id", product.ID)

	return &updatedProduct, nil
}

// DeleteProduct flips the active flag and drops the search document. The row
// stays queryable for administrators.
func (s *productService) DeleteProduct(ctx context.Context, id uint) error {
	if id == 0 {
		logger.Error("Invalid product id when deleting product")
		return errors.New("invalid product id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting product")
		return fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("product not found", err)
		return errors.New("product not found")
	}

	if err := s.productRepo.Deactivate(ctx, id); err != nil {
		logger.Error("failed to delete product", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	product.IsActive = false
	s.syncToIndex(product)

	logger.Info("product deleted successfully", "product_id", id)

	return nil
}

// GetLowStockProducts lists products at or below the stock threshold,
// optionally narrowed to a category.
func (s *productService) GetLowStockProducts(ctx context.Context, threshold int, categoryID uint, offset, limit int) ([]domain.Product, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	if threshold < 0 {
		return nil, 0, errors.New("invalid threshold")
	}

	opts := postgres.ProductListOptions{
		ActiveOnly: true,
		CategoryID: categoryID,
		MaxStock:   &threshold,
		Offset:     offset,
		Limit:      limit,
	}

	products, count, err := s.productRepo.FindAll(ctx, opts)
	if err != nil {
		logger.Error("Failed to find low stock products", err)
		return nil, 0, err
	}

	return products, count, nil
}

// SearchProducts serves the read path entirely from the search index. A down
// index is an error here; the catalog endpoints are unaffected.
func (s *productService) SearchProducts(ctx context.Context, q search.Query) (search.Result, error) {
	if err := ctx.Err(); err != nil {
		return search.Result{}, fmt.Errorf("context error: %w", err)
	}

	result, err := s.searchRepo.Search(ctx, q)
	if err != nil {
		logger.Error("search query failed", err)
		return search.Result{}, errors.New("search is temporarily unavailable")
	}

	return result, nil
}

func (s *productService) validateProduct(product *domain.Product) error {
	if product.Title == "" {
		logger.Error("Invalid product data: title is required")
		return errors.New("title is required")
	}

	if product.Price <= 0 {
		logger.Error("Invalid product data: price must be greater than 0")
		return errors.New("price must be greater than 0")
	}

	if product.StockQuantity < 0 {
		logger.Error("Invalid product data: stock quantity cannot be negative")
		return errors.New("stock quantity cannot be negative")
	}

	if product.CategoryID == 0 {
		logger.Error("Invalid product data: category is required")
		return errors.New("category is required")
	}

	return nil
}

// syncToIndex mirrors the product to the search index without blocking or
// failing the request. The store is the source of truth; failures are logged
// and counted, never retried or surfaced.
func (s *productService) syncToIndex(product domain.Product) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchSyncTimeout)
		defer cancel()

		var err error
		if product.IsActive {
			err = s.searchRepo.IndexProduct(ctx, product)
		} else {
			err = s.searchRepo.DeleteProduct(ctx, product.ID)
		}

		if err != nil {
			metrics.SearchSyncFailures.Inc()
			logger.Warn("search index sync failed", "product_id", product.ID, "error", err.Error())
		}
	}()
}
