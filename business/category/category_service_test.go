package category

import (
	"context"
	"testing"

	"shoply/domain"
	"shoply/internal/repository/postgres"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCategoryTest(t *testing.T) (*categoryService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Category{}))

	return NewCategoryService(postgres.NewCategoryRepository(db)), db
}

func TestCreateCategory(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &domain.Category{
		Title:       "Lighting",
		Description: "Lamps and fixtures",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.True(t, created.IsActive)
}

func TestCreateCategoryRequiresTitle(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &domain.Category{Description: "no title"})
	require.Error(t, err)
	assert.Equal(t, "title is required", err.Error())
}

func TestGetCategoryByIDHidesInactiveFromPublic(t *testing.T) {
	svc, db := setupCategoryTest(t)
	ctx := context.Background()

	category := domain.Category{Title: "Retired", IsActive: false}
	require.NoError(t, db.Create(&category).Error)

	_, err := svc.GetCategoryByID(ctx, category.ID, false)
	require.Error(t, err)
	assert.Equal(t, "category not found", err.Error())

	found, err := svc.GetCategoryByID(ctx, category.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Retired", found.Title)
}

func TestGetAllCategoriesFiltersInactive(t *testing.T) {
	svc, db := setupCategoryTest(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.Category{Title: "Active", IsActive: true}).Error)
	require.NoError(t, db.Create(&domain.Category{Title: "Retired", IsActive: false}).Error)

	categories, count, err := svc.GetAllCategories(ctx, false, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	require.Len(t, categories, 1)
	assert.Equal(t, "Active", categories[0].Title)

	_, count, err = svc.GetAllCategories(ctx, true, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &domain.Category{Title: "Lighting"})
	require.NoError(t, err)

	created.Title = "Lighting & Lamps"
	created.Description = "Updated"

	updated, err := svc.UpdateCategory(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "Lighting & Lamps", updated.Title)
	assert.Equal(t, "Updated", updated.Description)
}

func TestUpdateCategoryNotFound(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	_, err := svc.UpdateCategory(ctx, &domain.Category{ID: 999, Title: "Ghost"})
	require.Error(t, err)
	assert.Equal(t, "category not found", err.Error())
}

func TestDeleteCategoryIsSoft(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, &domain.Category{Title: "Lighting"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(ctx, created.ID))

	// row survives the delete, only the flag flips
	found, err := svc.GetCategoryByID(ctx, created.ID, true)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	_, err = svc.GetCategoryByID(ctx, created.ID, false)
	require.Error(t, err)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	svc, _ := setupCategoryTest(t)
	ctx := context.Background()

	err := svc.DeleteCategory(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, "category not found", err.Error())
}
