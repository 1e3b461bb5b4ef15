package rest

import (
	"context"
	"fmt"
	"net/http"
	"shoply/domain"
	"shoply/pkg/logger"
	"shoply/pkg/utils"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context, includeInactive bool, offset, limit int) ([]domain.Category, int64, error)
	GetCategoryByID(ctx context.Context, id uint, includeInactive bool) (domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	categoryService CategoryService
	validator       *validator.Validate
	mediaDir        string
	timeout         time.Duration
}

func NewCategoryHandler(categoryService CategoryService, mediaDir string) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		validator:       validator.New(),
		mediaDir:        mediaDir,
		timeout:         10 * time.Second,
	}
}

type CategoryRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description"`
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == domain.RoleAdmin
}

// GetAllCategories lists categories, paginated. Inactive rows only show up for
// administrators.
func (h *CategoryHandler) GetAllCategories(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p := getPageParams(c)

	categories, count, err := h.categoryService.GetAllCategories(ctx, isAdmin(c), p.Offset(), p.PageSize)
	if err != nil {
		logger.Error("Failed to get all categories", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, paginatedResponse(c, p, count, categories))
}

func (h *CategoryHandler) GetCategoryByID(c echo.Context) error {
	id := c.Param("id")

	var categoryID uint
	if _, err := fmt.Sscan(id, &categoryID); err != nil {
		logger.Error("Invalid category ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	category, err := h.categoryService.GetCategoryByID(ctx, categoryID, isAdmin(c))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles category creation (admin). Accepts multipart so an
// image can ride along with the fields.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req CategoryRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate category", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	category := domain.Category{
		Title:       req.Title,
		Description: req.Description,
	}

	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveUploadedImage(file, h.mediaDir, "category_images")
		if err != nil {
			logger.Error("Failed to save category image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		category.Image = path
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.categoryService.CreateCategory(ctx, &category)
	if err != nil {
		if strings.Contains(err.Error(), "required") || strings.Contains(err.Error(), "already exists") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to create category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":  "Category created successfully",
		"category": created,
	})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id := c.Param("id")

	var categoryID uint
	if _, err := fmt.Sscan(id, &categoryID); err != nil {
		logger.Error("Invalid category ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category ID"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate category", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	existing, err := h.categoryService.GetCategoryByID(ctx, categoryID, true)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	existing.Title = req.Title
	existing.Description = req.Description

	if file, err := c.FormFile("image"); err == nil {
		path, err := utils.SaveUploadedImage(file, h.mediaDir, "category_images")
		if err != nil {
			logger.Error("Failed to save category image", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		existing.Image = path
	}

	updated, err := h.categoryService.UpdateCategory(ctx, &existing)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "required") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to update category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Category updated successfully",
		"category": updated,
	})
}

// DeleteCategory deactivates a category (admin). Products keep their
// references; nothing is physically removed.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id := c.Param("id")

	var categoryID uint
	if _, err := fmt.Sscan(id, &categoryID); err != nil {
		logger.Error("Invalid category ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.categoryService.DeleteCategory(ctx, categoryID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		if strings.Contains(err.Error(), "invalid") {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to delete category", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Category deleted successfully",
		"category_id": categoryID,
	})
}
