package main

import (
	"kytstore.org/kyt-web/internal/cart"
	"kytstore.org/kyt-web/internal/content"
	"kytstore.org/kyt-web/internal/format"
	"kytstore.org/kyt-web/internal/shop"
)

// PageData is the view model shared by full-page renders.
type PageData struct {
	Title         string
	Authenticated bool
	Email         string
	Message       string
	MessageError  bool
	CSRFToken     string
	Products      []ProductView
	Cart          CartView
	Content       *content.Page
}

// ProductView is one card in the product grid. PriceCents rides along in the
// add-to-cart form so the cart mutation needs no catalog round trip.
type ProductView struct {
	ID          int64
	Name        string
	Description string
	PriceLabel  string
	PriceCents  int64
	ImageURL    string
	InStock     bool
}

// CartView is the sidebar view model: the full line list plus the derived
// total and count labels, rebuilt from the store on every render.
type CartView struct {
	Open         bool
	Items        []CartLineView
	TotalLabel   string
	Count        int
	Message      string
	MessageError bool
	CSRFToken    string
}

// CartLineView is one rendered cart line.
type CartLineView struct {
	Index      int
	Name       string
	PriceLabel string
	Quantity   int
	LineTotal  string
}

func buildProductView(p shop.Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PriceLabel:  format.Price(p.Price),
		PriceCents:  p.Price,
		ImageURL:    p.ImageURL,
		InStock:     p.Stock > 0,
	}
}

func buildCartView(c *cart.Cart, sidebar cart.SidebarState, csrf string) CartView {
	items := c.Items()
	view := CartView{
		Open:       sidebar == cart.SidebarOpen,
		Items:      make([]CartLineView, 0, len(items)),
		TotalLabel: format.Amount(c.Total()),
		Count:      c.Count(),
		CSRFToken:  csrf,
	}
	for i, it := range items {
		view.Items = append(view.Items, CartLineView{
			Index:      i,
			Name:       it.Name,
			PriceLabel: format.Price(it.Price),
			Quantity:   it.Quantity,
			LineTotal:  format.Price(it.Price * int64(it.Quantity)),
		})
	}
	return view
}

func (v CartView) withMessage(msg string, isErr bool) CartView {
	v.Message = msg
	v.MessageError = isErr
	return v
}
