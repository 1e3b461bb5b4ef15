package postgres

import (
	"context"
	"errors"
	"fmt"
	"shoply/domain"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{
		DB: db,
	}
}

// FindByUserID loads a user's cart with items and their products so totals can
// be computed on read.
func (r *CartRepository) FindByUserID(ctx context.Context, userID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart

	err := r.DB.WithContext(ctx).Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Cart{}, errors.New("cart not found")
		}
		return domain.Cart{}, fmt.Errorf("failed to find cart: %w", err)
	}

	return cart, nil
}

// GetOrCreate returns the user's cart, creating an empty one on first use.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	var cart domain.Cart

	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Cart{}, fmt.Errorf("failed to find cart: %w", err)
	}

	cart = domain.Cart{UserID: userID}
	if err := r.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return domain.Cart{}, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, productID uint) (domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.CartItem

	err := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, errors.New("cart item not found")
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

// FindItemByID resolves an item only within the given cart, which is how
// ownership is enforced.
func (r *CartRepository) FindItemByID(ctx context.Context, itemID, cartID uint) (domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CartItem{}, fmt.Errorf("context error: %w", err)
	}

	var item domain.CartItem

	err := r.DB.WithContext(ctx).Preload("Product").Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CartItem{}, errors.New("cart item not found")
		}
		return domain.CartItem{}, fmt.Errorf("failed to find cart item: %w", err)
	}

	return item, nil
}

func (r *CartRepository) CreateItem(ctx context.Context, item *domain.CartItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}

	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Model(&domain.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("cart item not found")
	}

	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).Delete(&domain.CartItem{}, itemID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("cart item not found")
	}

	return nil
}
