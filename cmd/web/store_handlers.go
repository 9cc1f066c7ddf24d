package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kytstore.org/kyt-web/internal/content"
	mw "kytstore.org/kyt-web/internal/middleware"
	"kytstore.org/kyt-web/internal/shop"
)

// StoreHandler renders the product grid plus the cart sidebar in whatever
// state the session left it. A catalog failure still renders the page so the
// cart stays usable; the error rides along as a banner message.
func StoreHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)

	data := PageData{
		Title:         "KYT Store",
		Authenticated: true,
		Email:         s.Email,
		CSRFToken:     s.CSRFToken,
		Cart:          buildCartView(carts.Cart(s.ID), s.Sidebar, s.CSRFToken),
	}

	products, err := apiClient.Products(r.Context())
	if err != nil {
		appLogger.Warn("catalog fetch failed", zap.Error(err))
		data.Message = msgCannotConnect
		data.MessageError = true
	}
	for _, p := range products {
		data.Products = append(data.Products, buildProductView(p))
	}

	renderPage(w, r, "page_store", data)
}

// ProductModalFrag renders the detail modal for one product.
func ProductModalFrag(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := apiClient.ProductByID(r.Context(), id)
	if err != nil {
		var apiErr *shop.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		appLogger.Warn("product fetch failed", zap.Int64("id", id), zap.Error(err))
		http.Error(w, msgCannotConnect, http.StatusBadGateway)
		return
	}

	s := mw.GetSession(r)
	renderTemplate(w, r, "frag_product_modal", struct {
		Product   ProductView
		CSRFToken string
	}{buildProductView(p), s.CSRFToken})
}

// ContentPageHandler serves a markdown-backed static page such as the
// about or shipping policy page. Unknown slugs 404.
func ContentPageHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := contentStore.Page(slug)
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		appLogger.Error("content page failed", zap.String("slug", slug), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s := mw.GetSession(r)
	data := PageData{
		Title:         page.Title,
		Authenticated: s.Authenticated(),
		Email:         s.Email,
		CSRFToken:     s.CSRFToken,
		Content:       &page,
	}
	if data.Authenticated {
		data.Cart = buildCartView(carts.Cart(s.ID), s.Sidebar, s.CSRFToken)
	}
	renderPage(w, r, "page_content", data)
}
