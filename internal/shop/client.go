// Package shop is the HTTP client for the KYT backend API: registration,
// login, the product catalog, and order submission. With no base URL the
// client serves built-in demo data so the frontend runs standalone.
package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimeout    = 8 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

// APIError is a non-2xx backend response. Message is the server-supplied
// {message} body, empty when the body was absent or unparseable; callers fall
// back to a generic message in that case.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("shop: api status %d", e.Status)
	}
	return fmt.Sprintf("shop: api status %d: %s", e.Status, e.Message)
}

// Client issues calls against the backend API service.
type Client struct {
	baseURL string
	http    *http.Client
	fake    *fakeBackend
}

// NewClient constructs an API client. When baseURL is empty, the client serves
// demo data from an in-process fake backend.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	if c.baseURL == "" {
		c.fake = newFakeBackend()
	}
	return c
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	if c.fake != nil {
		return c.fake.register(req)
	}
	body := map[string]string{
		"username": strings.TrimSpace(req.Username),
		"email":    strings.TrimSpace(req.Email),
		"mobile":   strings.TrimSpace(req.Mobile),
		"password": req.Password,
	}
	return c.post(ctx, nil, body, nil, "auth", "register")
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if c.fake != nil {
		return c.fake.login(email, password)
	}
	body := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.post(ctx, nil, body, &resp, "auth", "login"); err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.AccessToken), nil
}

// Products fetches the full catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	if c.fake != nil {
		return c.fake.products(), nil
	}
	var payload []productPayload
	if err := c.get(ctx, &payload, "products"); err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(payload))
	for _, p := range payload {
		out = append(out, p.toProduct())
	}
	return out, nil
}

// ProductByID fetches a single catalog entry.
func (c *Client) ProductByID(ctx context.Context, id int64) (Product, error) {
	if c.fake != nil {
		return c.fake.productByID(id)
	}
	var payload productPayload
	if err := c.get(ctx, &payload, "products", fmt.Sprint(id)); err != nil {
		return Product{}, err
	}
	return payload.toProduct(), nil
}

// CreateOrder submits an order on behalf of the authenticated user. Each call
// carries a fresh idempotency key; the caller decides whether to resubmit.
func (c *Client) CreateOrder(ctx context.Context, token string, order Order) error {
	if c.fake != nil {
		return c.fake.createOrder(token, order)
	}
	headers := map[string]string{
		"Authorization":   "Bearer " + strings.TrimSpace(token),
		idempotencyHeader: uuid.NewString(),
	}
	products := make([]orderProductPayload, 0, len(order.Products))
	for _, p := range order.Products {
		products = append(products, orderProductPayload{
			ID:       p.ID,
			Name:     p.Name,
			Price:    Dollars(p.Price),
			Quantity: p.Quantity,
		})
	}
	body := orderPayload{
		TotalAmount:  Dollars(order.TotalAmount),
		ShippingInfo: order.ShippingInfo,
		Products:     products,
	}
	return c.post(ctx, headers, body, nil, "orders")
}

func (c *Client) get(ctx context.Context, out any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, headers map[string]string, body, out any, parts ...string) error {
	endpoint, err := c.endpoint(parts...)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			apiErr.Message = strings.TrimSpace(msg.Message)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) endpoint(parts ...string) (string, error) {
	return url.JoinPath(c.baseURL, append([]string{"api"}, parts...)...)
}

type productPayload struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
}

func (p productPayload) toProduct() Product {
	return Product{
		ID:          p.ID,
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
		Price:       Minor(p.Price),
		ImageURL:    strings.TrimSpace(p.ImageURL),
		Stock:       p.Stock,
	}
}

type orderPayload struct {
	TotalAmount  float64               `json:"total_amount"`
	ShippingInfo ShippingInfo          `json:"shipping_info"`
	Products     []orderProductPayload `json:"products"`
}

type orderProductPayload struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
