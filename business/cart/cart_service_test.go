package cart

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

func setupCartTest(t *testing.T) (*cartService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
	))

	cartRepo := postgres.NewCartRepository(db)
	productRepo := postgres.NewProductRepository(db)

	return NewCartService(cartRepo, productRepo), db
}

func seedProduct(t *testing.T, db *gorm.DB, title string, price float64, stock int, active bool) domain.Product {
	t.Helper()

	category := domain.Category{Title: "Seed " + title, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	product := domain.Product{
		Title:         title,
		Price:         price,
		StockQuantity: stock,
		IsActive:      active,
		CategoryID:    category.ID,
	}
	require.NoError(t, db.Create(&product).Error)

	return product
}

func TestAddItemCreatesCartAndComputesTotals(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	cart, title, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", title)
	assert.Equal(t, 2, cart.TotalItems())
	assert.InDelta(t, 200.00, cart.TotalPrice(), 0.001)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	cart, _, err := svc.AddItem(ctx, 1, product.ID, 3)
	require.NoError(t, err)

	// still one line, quantity merged
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems())
	assert.InDelta(t, 500.00, cart.TotalPrice(), 0.001)
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 3, true)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available in stock")

	// nothing was written
	cart, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
}

func TestAddItemRejectsCombinedQuantityOverStock(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 5, true)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 4)
	require.NoError(t, err)

	_, _, err = svc.AddItem(ctx, 1, product.ID, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available in stock")

	cart, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, false)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "product not found", err.Error())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be at least 1")
}

func TestUpdateItemOverwritesQuantity(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	added, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	cart, item, err := svc.UpdateItem(ctx, 1, itemID, 5)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, 5, item.Quantity)
	assert.InDelta(t, 500.00, item.TotalPrice(), 0.001)
	assert.Equal(t, 5, cart.TotalItems())
	assert.InDelta(t, 500.00, cart.TotalPrice(), 0.001)
}

func TestUpdateItemZeroQuantityRemoves(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	added, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	cart, item, err := svc.UpdateItem(ctx, 1, itemID, 0)
	require.NoError(t, err)

	assert.Nil(t, item)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
	assert.InDelta(t, 0.0, cart.TotalPrice(), 0.001)
}

func TestUpdateItemRejectsOverStock(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 5, true)

	added, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	_, _, err = svc.UpdateItem(ctx, 1, itemID, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available in stock")

	cart, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateItemEnforcesOwnership(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	added, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	itemID := added.Items[0].ID

	// user 2 cannot touch user 1's item
	_, _, err = svc.UpdateItem(ctx, 2, itemID, 1)
	require.Error(t, err)
	assert.Equal(t, "cart item not found", err.Error())
}

func TestRemoveItemDeletesLine(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	lamp := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)
	chair := seedProduct(t, db, "Office Chair", 50.00, 10, true)

	_, _, err := svc.AddItem(ctx, 1, lamp.ID, 2)
	require.NoError(t, err)
	added, _, err := svc.AddItem(ctx, 1, chair.ID, 1)
	require.NoError(t, err)

	var lampItemID uint
	for _, item := range added.Items {
		if item.ProductID == lamp.ID {
			lampItemID = item.ID
		}
	}
	require.NotZero(t, lampItemID)

	cart, title, err := svc.RemoveItem(ctx, 1, lampItemID)
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", title)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, chair.ID, cart.Items[0].ProductID)
	assert.Equal(t, 1, cart.TotalItems())
	assert.InDelta(t, 50.00, cart.TotalPrice(), 0.001)
}

func TestRemoveItemEnforcesOwnership(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	added, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)

	_, _, err = svc.RemoveItem(ctx, 2, added.Items[0].ID)
	require.Error(t, err)
	assert.Equal(t, "cart item not found", err.Error())
}

func TestGetCartReturnsEmptyDefaultWithoutCart(t *testing.T) {
	svc, _ := setupCartTest(t)
	ctx := context.Background()

	cart, err := svc.GetCart(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, uint(42), cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.TotalItems())
	assert.InDelta(t, 0.0, cart.TotalPrice(), 0.001)
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	svc, db := setupCartTest(t)
	ctx := context.Background()

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	_, _, err := svc.AddItem(ctx, 1, product.ID, 2)
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, 2, product.ID, 5)
	require.NoError(t, err)

	cartOne, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	cartTwo, err := svc.GetCart(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, cartOne.TotalItems())
	assert.Equal(t, 5, cartTwo.TotalItems())
}

func TestAddItemCancelledContext(t *testing.T) {
	svc, db := setupCartTest(t)

	product := seedProduct(t, db, "Desk Lamp", 100.00, 10, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.AddItem(ctx, 1, product.ID, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context error")
}
