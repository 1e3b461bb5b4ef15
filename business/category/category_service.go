package category

import (
	"context"
	"errors"
	"fmt"
	"shoply/domain"
	"shoply/pkg/logger"
)

// CategoryRepository contract interface
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindAll(ctx context.Context, activeOnly bool, offset, limit int) ([]domain.Category, int64, error)
	Update(ctx context.Context, category *domain.Category) error
	Deactivate(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo CategoryRepository
}

func NewCategoryService(categoryRepo CategoryRepository) *categoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
	}
}

// GetAllCategories lists categories. Public callers only see active rows;
// admins may include soft-deleted ones.
func (s *categoryService) GetAllCategories(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.Category, int64, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all categories")
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	categories, count, err := s.categoryRepo.FindAll(ctx, !includeInactive, offset, limit)
	if err != nil {
		logger.Error("Failed to find all categories", err)
		return nil, 0, err
	}

	return categories, count, nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uint, includeInactive bool) (domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get category by id")
		return domain.Category{}, fmt.Errorf("context error: %w", err)
	}

	if id == 0 {
		logger.Error("Invalid category id")
		return domain.Category{}, errors.New("invalid category id")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find category", err)
		return domain.Category{}, err
	}

	// soft-deleted rows stay reachable for administrators only
	if !category.IsActive && !includeInactive {
		return domain.Category{}, errors.New("category not found")
	}

	return category, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if category.Title == "" {
		logger.Error("Invalid category data: title is required")
		return nil, errors.New("title is required")
	}

	category.IsActive = true

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.Error("failed to create new category", err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	logger.Info("category created successfully", "category_id", category.ID)

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when updating category")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if category.ID == 0 {
		logger.Error("Invalid category data: ID is required")
		return nil, errors.New("category ID is required")
	}

	if category.Title == "" {
		logger.Error("Invalid category data: title is required")
		return nil, errors.New("title is required")
	}

	// Verify category exists
	_, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		logger.Error("category not found", err)
		return nil, errors.New("category not found")
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		logger.Error("failed to update category", err)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	updatedCategory, err := s.categoryRepo.FindByID(ctx, category.ID)
	if err != nil {
		logger.Error("failed to fetch updated category", err)
		return nil, fmt.Errorf("failed to fetch updated category: %w", err)
	}

	logger.Info("category updated successfully", "category_id", category.ID)

	return &updatedCategory, nil
}

// DeleteCategory flips the active flag. The row is never removed so historical
// product references remain valid.
func (s *categoryService) DeleteCategory(ctx context.Context, id uint) error {
	if id == 0 {
		logger.Error("Invalid category id when deleting category")
		return errors.New("invalid category id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting category")
		return fmt.Errorf("context error: %w", err)
	}

	_, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("category not found", err)
		return errors.New("category not found")
	}

	if err := s.categoryRepo.Deactivate(ctx, id); err != nil {
		logger.Error("failed to delete category", err)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	logger.Info("category deleted successfully", "category_id", id)

	return nil
}
