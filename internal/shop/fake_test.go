package shop

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeBackendRoundTrip(t *testing.T) {
	c := NewClient("")
	ctx := context.Background()

	err := c.Register(ctx, RegisterRequest{
		Username: "jdoe", Email: "jdoe@example.com", Mobile: "5551234567", Password: "hunter22",
	})
	require.NoError(t, err)

	token, err := c.Login(ctx, "jdoe@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	products, err := c.Products(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	err = c.CreateOrder(ctx, token, Order{
		TotalAmount:  products[0].Price,
		ShippingInfo: ShippingInfo{Name: "John Doe", Address: "123 Main St", City: "City", Country: "Country", PostalCode: "00000"},
		Products:     []OrderProduct{{ID: products[0].ID, Name: products[0].Name, Price: products[0].Price, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.fake.orderCount())
}

func TestFakeBackendRejectsDuplicateAccounts(t *testing.T) {
	c := NewClient("")
	ctx := context.Background()
	req := RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "x"}
	require.NoError(t, c.Register(ctx, req))

	err := c.Register(ctx, req)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email already registered", apiErr.Message)

	err = c.Register(ctx, RegisterRequest{Username: "jdoe", Email: "other@example.com", Password: "x"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Username already taken", apiErr.Message)
}

func TestFakeBackendLoginFailures(t *testing.T) {
	c := NewClient("")
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "right"}))

	_, err := c.Login(ctx, "jdoe@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)

	_, err = c.Login(ctx, "nobody@example.com", "right")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestFakeBackendOrderAuth(t *testing.T) {
	c := NewClient("")
	order := Order{
		TotalAmount: 999,
		Products:    []OrderProduct{{ID: 1, Name: "Widget", Price: 999, Quantity: 1}},
	}

	err := c.CreateOrder(context.Background(), "", order)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	err = c.CreateOrder(context.Background(), "not-a-jwt", order)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid or expired token", apiErr.Message)
}

func TestFakeBackendRejectsEmptyOrders(t *testing.T) {
	c := NewClient("")
	ctx := context.Background()
	require.NoError(t, c.Register(ctx, RegisterRequest{Username: "jdoe", Email: "jdoe@example.com", Password: "x"}))
	token, err := c.Login(ctx, "jdoe@example.com", "x")
	require.NoError(t, err)

	err = c.CreateOrder(ctx, token, Order{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Products must be a non-empty list", apiErr.Message)
}

func TestFakeProductByID(t *testing.T) {
	c := NewClient("")
	p, err := c.ProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = c.ProductByID(context.Background(), 9999)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}
