package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shoply/domain"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCartService struct {
	cart  domain.Cart
	item  *domain.CartItem
	title string
	err   error

	gotUserID    uint
	gotProductID uint
	gotItemID    uint
	gotQuantity  int
}

func (f *fakeCartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (domain.Cart, string, error) {
	f.gotUserID, f.gotProductID, f.gotQuantity = userID, productID, quantity
	return f.cart, f.title, f.err
}

func (f *fakeCartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (domain.Cart, *domain.CartItem, error) {
	f.gotUserID, f.gotItemID, f.gotQuantity = userID, itemID, quantity
	return f.cart, f.item, f.err
}

func (f *fakeCartService) RemoveItem(ctx context.Context, userID, itemID uint) (domain.Cart, string, error) {
	f.gotUserID, f.gotItemID = userID, itemID
	return f.cart, f.title, f.err
}

func (f *fakeCartService) GetCart(ctx context.Context, userID uint) (domain.Cart, error) {
	f.gotUserID = userID
	return f.cart, f.err
}

func cartWith(price float64, quantity int) domain.Cart {
	return domain.Cart{
		ID:     1,
		UserID: 1,
		Items: []domain.CartItem{
			{
				ID:        10,
				CartID:    1,
				ProductID: 5,
				Quantity:  quantity,
				Product:   &domain.Product{ID: 5, Title: "Desk Lamp", Price: price},
			},
		},
	}
}

func newCartContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint(1))
	c.Set("role", domain.RoleCustomer)

	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCartAddItemResponseShape(t *testing.T) {
	svc := &fakeCartService{cart: cartWith(100.00, 2), title: "Desk Lamp"}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":5,"quantity":2}`)
	require.NoError(t, h.AddItem(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Added Desk Lamp to cart", body["message"])
	assert.Equal(t, float64(2), body["cart_total_items"])
	assert.InDelta(t, 200.00, body["cart_total_price"], 0.001)

	assert.Equal(t, uint(1), svc.gotUserID)
	assert.Equal(t, uint(5), svc.gotProductID)
	assert.Equal(t, 2, svc.gotQuantity)
}

func TestCartAddItemStockErrorIsBadRequest(t *testing.T) {
	svc := &fakeCartService{err: errors.New("only 3 items available in stock")}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":5,"quantity":9}`)
	require.NoError(t, h.AddItem(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "only 3 items available in stock", body["message"])
}

func TestCartAddItemUnknownProductIsNotFound(t *testing.T) {
	svc := &fakeCartService{err: errors.New("product not found")}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":999,"quantity":1}`)
	require.NoError(t, h.AddItem(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAddItemValidatesBody(t *testing.T) {
	svc := &fakeCartService{}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPost, "/api/v1/cart/items", `{"product_id":5}`)
	require.NoError(t, h.AddItem(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAddItemRequiresAuth(t *testing.T) {
	svc := &fakeCartService{}
	h := NewCartHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"product_id":5,"quantity":1}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.AddItem(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartUpdateItemReturnsItemTotal(t *testing.T) {
	cart := cartWith(100.00, 5)
	svc := &fakeCartService{cart: cart, item: &cart.Items[0]}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPut, "/api/v1/cart/items/10", `{"quantity":5}`)
	c.SetParamNames("id")
	c.SetParamValues("10")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.InDelta(t, 500.00, body["item_total_price"], 0.001)
	assert.Equal(t, float64(5), body["cart_total_items"])

	assert.Equal(t, uint(10), svc.gotItemID)
	assert.Equal(t, 5, svc.gotQuantity)
}

func TestCartUpdateItemZeroQuantityReportsRemoval(t *testing.T) {
	svc := &fakeCartService{cart: domain.Cart{ID: 1, UserID: 1, Items: []domain.CartItem{}}}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPut, "/api/v1/cart/items/10", `{"quantity":0}`)
	c.SetParamNames("id")
	c.SetParamValues("10")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Item removed from cart", body["message"])
	assert.Equal(t, float64(0), body["cart_total_items"])
	assert.NotContains(t, body, "item_total_price")

	assert.Equal(t, 0, svc.gotQuantity)
}

func TestCartUpdateItemNotFound(t *testing.T) {
	svc := &fakeCartService{err: errors.New("cart item not found")}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodPut, "/api/v1/cart/items/99", `{"quantity":1}`)
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.UpdateItem(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartRemoveItem(t *testing.T) {
	svc := &fakeCartService{cart: domain.Cart{ID: 1, UserID: 1}, title: "Desk Lamp"}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodDelete, "/api/v1/cart/items/10", "")
	c.SetParamNames("id")
	c.SetParamValues("10")

	require.NoError(t, h.RemoveItem(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Removed Desk Lamp from cart", body["message"])
	assert.Equal(t, uint(10), svc.gotItemID)
}

func TestCartGetEmptyDefaults(t *testing.T) {
	svc := &fakeCartService{cart: domain.Cart{UserID: 1, Items: []domain.CartItem{}}}
	h := NewCartHandler(svc)

	c, rec := newCartContext(t, http.MethodGet, "/api/v1/cart", "")
	require.NoError(t, h.GetCart(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["cart_total_items"])
	assert.InDelta(t, 0.0, body["cart_total_price"], 0.001)
}
