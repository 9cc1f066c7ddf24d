package shop

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// fakeBackend stands in for the API service when no base URL is configured.
// It keeps accounts and orders in memory and mints real HS256 tokens with a
// process-ephemeral secret, so the auth flow behaves like the live backend.
type fakeBackend struct {
	mu      sync.Mutex
	users   map[string]fakeUser // keyed by email
	orders  []Order
	secret  []byte
	catalog []Product
}

type fakeUser struct {
	username string
	password string
}

func newFakeBackend() *fakeBackend {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	return &fakeBackend{
		users:   make(map[string]fakeUser),
		secret:  secret,
		catalog: demoCatalog(),
	}
}

func (f *fakeBackend) register(req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return &APIError{Status: http.StatusBadRequest, Message: "Missing fields"}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return &APIError{Status: http.StatusBadRequest, Message: "Email already registered"}
	}
	for _, u := range f.users {
		if u.username == username {
			return &APIError{Status: http.StatusBadRequest, Message: "Username already taken"}
		}
	}
	f.users[email] = fakeUser{username: username, password: req.Password}
	return nil
}

func (f *fakeBackend) login(email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	f.mu.Lock()
	user, ok := f.users[email]
	f.mu.Unlock()
	if !ok || user.password != password {
		return "", &APIError{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(f.secret)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (f *fakeBackend) products() []Product {
	out := make([]Product, len(f.catalog))
	copy(out, f.catalog)
	return out
}

func (f *fakeBackend) productByID(id int64) (Product, error) {
	for _, p := range f.catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, &APIError{Status: http.StatusNotFound, Message: "Product not found"}
}

func (f *fakeBackend) createOrder(token string, order Order) error {
	if strings.TrimSpace(token) == "" {
		return &APIError{Status: http.StatusUnauthorized, Message: "Missing Authorization Header"}
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return f.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return &APIError{Status: http.StatusUnauthorized, Message: "Invalid or expired token"}
	}
	if len(order.Products) == 0 {
		return &APIError{Status: http.StatusBadRequest, Message: "Products must be a non-empty list"}
	}

	f.mu.Lock()
	f.orders = append(f.orders, order)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func demoCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Wireless Mouse", Description: "Compact 2.4GHz mouse with silent clicks.", Price: 1999, ImageURL: "/assets/img/mouse.jpg", Stock: 10},
		{ID: 2, Name: "Mechanical Keyboard", Description: "Tenkeyless board with hot-swappable switches.", Price: 7450, ImageURL: "/assets/img/keyboard.jpg", Stock: 10},
		{ID: 3, Name: "USB-C Hub", Description: "7-in-1 hub with HDMI and card reader.", Price: 3299, ImageURL: "/assets/img/hub.jpg", Stock: 10},
		{ID: 4, Name: "Laptop Stand", Description: "Aluminium stand, six height settings.", Price: 2850, ImageURL: "/assets/img/stand.jpg", Stock: 10},
		{ID: 5, Name: "Noise-Cancelling Headphones", Description: "Over-ear, 30h battery, USB-C charging.", Price: 12900, ImageURL: "/assets/img/headphones.jpg", Stock: 10},
		{ID: 6, Name: "Desk Mat", Description: "900x400mm stitched-edge desk mat.", Price: 1450, ImageURL: "/assets/img/mat.jpg", Stock: 10},
	}
}
