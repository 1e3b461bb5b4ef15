package rest

import (
	"context"
	"fmt"
	"net/http"
	"shoply/domain"
	"shoply/pkg/logger"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type CartService interface {
	AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, string, error)
	UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (domain.Cart, *domain.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID uint) (domain.Cart, string, error)
	GetCart(ctx context.Context, userID uint) (domain.Cart, error)
}

type CartHandler struct {
	cartService CartService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func cartUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// cartStatus maps cart service sentinels onto HTTP codes.
func cartStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "available in stock"),
		strings.Contains(msg, "must be"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetCart returns the caller's cart with computed totals. A user with no cart
// yet gets empty items and zeroed totals, never an error.
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, ok := cartUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		logger.Error("Failed to get cart", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":          true,
		"items":            cart.Items,
		"cart_total_items": cart.TotalItems(),
		"cart_total_price": cart.TotalPrice(),
	})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	userID, ok := cartUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate cart add", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, productTitle, err := h.cartService.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		logger.Error("Failed to add cart item", err)
		return c.JSON(cartStatus(err), map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          fmt.Sprintf("Added %s to cart", productTitle),
		"cart_total_items": cart.TotalItems(),
		"cart_total_price": cart.TotalPrice(),
	})
}

// UpdateItem overwrites an item's quantity. Zero or negative removes the item.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	userID, ok := cartUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	id := c.Param("id")

	var itemID uint
	if _, err := fmt.Sscan(id, &itemID); err != nil {
		logger.Error("Invalid cart item ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cart item ID"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if req.Quantity == nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "quantity is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, item, err := h.cartService.UpdateItem(ctx, userID, itemID, *req.Quantity)
	if err != nil {
		logger.Error("Failed to update cart item", err)
		return c.JSON(cartStatus(err), map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	if item == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":          true,
			"message":          "Item removed from cart",
			"cart_total_items": cart.TotalItems(),
			"cart_total_price": cart.TotalPrice(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          "Cart updated",
		"item_total_price": item.TotalPrice(),
		"cart_total_items": cart.TotalItems(),
		"cart_total_price": cart.TotalPrice(),
	})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, ok := cartUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "unauthorized"})
	}

	id := c.Param("id")

	var itemID uint
	if _, err := fmt.Sscan(id, &itemID); err != nil {
		logger.Error("Invalid cart item ID", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cart item ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cart, productTitle, err := h.cartService.RemoveItem(ctx, userID, itemID)
	if err != nil {
		logger.Error("Failed to remove cart item", err)
		return c.JSON(cartStatus(err), map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
	}

	message := "Item removed from cart"
	if productTitle != "" {
		message = fmt.Sprintf("Removed %s from cart", productTitle)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":          true,
		"message":          message,
		"cart_total_items": cart.TotalItems(),
		"cart_total_price": cart.TotalPrice(),
	})
}
