package cart

import (
	"context"
	"errors"
	"fmt"
	"shoply/domain"
	"shoply/pkg/logger"
	"shoply/pkg/metrics"
)

// CartRepository contract interface
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint) (domain.Cart, error)
	GetOrCreate(ctx context.Context, userID uint) (domain.Cart, error)
	FindItem(ctx context.Context, cartID, productID uint) (domain.CartItem, error)
	FindItemByID(ctx context.Context, itemID, cartID uint) (domain.CartItem, error)
	CreateItem(ctx context.Context, item *domain.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
}

// ProductRepository contract interface (carts need price and stock)
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Product, error)
}

type cartService struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartService(cartRepo CartRepository, productRepo ProductRepository) *cartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func insufficientStockErr(available int) error {
	return fmt.Errorf("only %d items available in stock", available)
}

// AddItem puts quantity of a product into the user's cart, creating the cart
// on first use. Adding a product already in the cart increments the existing
// row instead of creating a duplicate; the combined quantity must still fit
// the product's stock. Stock itself is not decremented here — that happens at
// checkout, which lives outside this service.
func (s *cartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, string, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, "", fmt.Errorf("context error: %w", err)
	}

	if quantity < 1 {
		return domain.Cart{}, "", errors.New("quantity must be at least 1")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil || !product.IsActive {
		logger.Error("product not found for cart add", "product_id", productID)
		return domain.Cart{}, "", errors.New("product not found")
	}

	if product.StockQuantity < quantity {
		return domain.Cart{}, "", insufficientStockErr(product.StockQuantity)
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		logger.Error("failed to get or create cart", err)
		return domain.Cart{}, "", err
	}

	item, err := s.cartRepo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		newQuantity := item.Quantity + quantity
		if product.StockQuantity < newQuantity {
			return domain.Cart{}, "", insufficientStockErr(product.StockQuantity)
		}
		if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, newQuantity); err != nil {
			logger.Error("failed to increment cart item", err)
			return domain.Cart{}, "", err
		}
	case err.Error() == "cart item not found":
		newItem := domain.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(ctx, &newItem); err != nil {
			logger.Error("failed to create cart item", err)
			return domain.Cart{}, "", err
		}
	default:
		logger.Error("failed to look up cart item", err)
		return domain.Cart{}, "", err
	}

	updated, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("failed to reload cart", err)
		return domain.Cart{}, "", err
	}

	metrics.CartOperations.WithLabelValues("add").Inc()

	return updated, product.Title, nil
}

// UpdateItem overwrites an owned item's quantity. A quantity of zero or below
// removes the item. The item must belong to the requesting user's cart.
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (domain.Cart, *domain.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, nil, fmt.Errorf("context error: %w", err)
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("cart not found for update", err)
		return domain.Cart{}, nil, errors.New("cart item not found")
	}

	item, err := s.cartRepo.FindItemByID(ctx, itemID, cart.ID)
	if err != nil {
		logger.Error("cart item not found for update", err)
		return domain.Cart{}, nil, errors.New("cart item not found")
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
			logger.Error("failed to delete cart item", err)
			return domain.Cart{}, nil, err
		}

		updated, err := s.cartRepo.FindByUserID(ctx, userID)
		if err != nil {
			return domain.Cart{}, nil, err
		}

		metrics.CartOperations.WithLabelValues("update").Inc()

		return updated, nil, nil
	}

	if item.Product == nil {
		return domain.Cart{}, nil, errors.New("product not found")
	}

	if item.Product.StockQuantity < quantity {
		return domain.Cart{}, nil, insufficientStockErr(item.Product.StockQuantity)
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		logger.Error("failed to update cart item", err)
		return domain.Cart{}, nil, err
	}

	updated, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Cart{}, nil, err
	}

	item.Quantity = quantity

	metrics.CartOperations.WithLabelValues("update").Inc()

	return updated, &item, nil
}

// RemoveItem deletes an owned item unconditionally.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uint) (domain.Cart, string, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, "", fmt.Errorf("context error: %w", err)
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		logger.Error("cart not found for remove", err)
		return domain.Cart{}, "", errors.New("cart item not found")
	}

	item, err := s.cartRepo.FindItemByID(ctx, itemID, cart.ID)
	if err != nil {
		logger.Error("cart item not found for remove", err)
		return domain.Cart{}, "", errors.New("cart item not found")
	}

	productTitle := ""
	if item.Product != nil {
		productTitle = item.Product.Title
	}

	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		logger.Error("failed to delete cart item", err)
		return domain.Cart{}, "", err
	}

	updated, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Cart{}, "", err
	}

	metrics.CartOperations.WithLabelValues("remove").Inc()

	return updated, productTitle, nil
}

// GetCart returns the user's cart, or an empty zero-valued cart when none
// exists yet. A missing cart is a defensive default, not an error.
func (s *cartService) GetCart(ctx context.Context, userID uint) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("context error: %w", err)
	}

	cart, err := s.cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err.Error() == "cart not found" {
			return domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		logger.Error("failed to fetch cart", err)
		return domain.Cart{}, err
	}

	return cart, nil
}
