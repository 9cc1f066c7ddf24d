package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"kytstore.org/kyt-web/internal/cart"
	mw "kytstore.org/kyt-web/internal/middleware"
	"kytstore.org/kyt-web/internal/shop"
)

// User-visible cart/checkout messages.
const (
	msgCartEmpty       = "Cart is empty"
	msgOrderPlaced     = "Order placed successfully!"
	msgCheckoutFailed  = "Checkout failed"
	msgCannotConnect   = "Cannot connect to backend"
	msgInvalidItem     = "invalid item index"
	msgInvalidQuantity = "invalid quantity"
)

// Checkout ships to a fixed demo address unless the form overrides it,
// matching the storefront's one-click flow.
var defaultShipping = shop.ShippingInfo{
	Name:       "John Doe",
	Address:    "123 Main St",
	City:       "City",
	Country:    "Country",
	PostalCode: "00000",
}

// CartSidebarFrag renders the sidebar in its current state.
func CartSidebarFrag(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(carts.Cart(s.ID), s.Sidebar, s.CSRFToken))
}

// CartOpenHandler opens the sidebar.
func CartOpenHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	s.SetSidebar(cart.SidebarOpen)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(carts.Cart(s.ID), s.Sidebar, s.CSRFToken))
}

// CartCloseHandler closes the sidebar. The close button, a click outside the
// panel, and checkout completion all funnel into this one transition.
func CartCloseHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	s.SetSidebar(cart.SidebarClosed)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(carts.Cart(s.ID), s.Sidebar, s.CSRFToken))
}

// CartAddHandler adds a product from the grid. The grid form carries the
// product's id, name, and price, so adding never needs a catalog call and
// never fails. Lines merge by name.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Error(w, "missing product name", http.StatusBadRequest)
		return
	}
	id, _ := strconv.ParseInt(r.FormValue("id"), 10, 64)
	price, err := strconv.ParseInt(r.FormValue("price_cents"), 10, 64)
	if err != nil || price < 0 {
		http.Error(w, "invalid price", http.StatusBadRequest)
		return
	}

	s := mw.GetSession(r)
	c := carts.Cart(s.ID)
	c.AddItem(id, name, price)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken))
}

// CartQuantityHandler assigns a line's quantity. Values below 1 clamp to 1.
func CartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	c := carts.Cart(s.ID)
	idx, ok := lineIndex(r, c)
	if !ok {
		http.Error(w, msgInvalidItem, http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil {
		http.Error(w, msgInvalidQuantity, http.StatusBadRequest)
		return
	}
	c.SetQuantity(idx, qty)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken))
}

// CartRemoveHandler deletes a line, keeping the rest in order.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	c := carts.Cart(s.ID)
	idx, ok := lineIndex(r, c)
	if !ok {
		http.Error(w, msgInvalidItem, http.StatusBadRequest)
		return
	}
	c.RemoveItem(idx)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken))
}

// CartClearHandler empties the cart.
func CartClearHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	c := carts.Cart(s.ID)
	c.Clear()
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken))
}

// CheckoutHandler submits the cart as an order. An empty cart short-circuits
// with an error and no network call. On success the cart is cleared and the
// sidebar closes; on any failure the cart is left untouched and the message
// is surfaced. There is no retry and no double-submission guard: two rapid
// checkouts race to the backend just like two rapid clicks in a browser.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	c := carts.Cart(s.ID)

	if c.Empty() {
		renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken).withMessage(msgCartEmpty, true))
		return
	}

	_ = r.ParseForm()
	order := shop.Order{
		TotalAmount:  c.Total(),
		ShippingInfo: shippingFromForm(r),
	}
	for _, it := range c.Items() {
		order.Products = append(order.Products, shop.OrderProduct{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		})
	}

	if err := apiClient.CreateOrder(r.Context(), s.Token, order); err != nil {
		msg := apiFailureMessage(err, msgCheckoutFailed)
		renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken).withMessage(msg, true))
		return
	}

	c.Clear()
	s.SetSidebar(cart.SidebarClosed)
	renderTemplate(w, r, "frag_cart_sidebar", buildCartView(c, s.Sidebar, s.CSRFToken).withMessage(msgOrderPlaced, false))
}

// lineIndex parses and bounds-checks the {index} URL parameter. The cart
// store itself treats a bad index as a programming error, so user input is
// validated here at the boundary.
func lineIndex(r *http.Request, c *cart.Cart) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 || idx >= c.Len() {
		return 0, false
	}
	return idx, true
}

func shippingFromForm(r *http.Request) shop.ShippingInfo {
	info := defaultShipping
	if v := strings.TrimSpace(r.FormValue("ship_name")); v != "" {
		info.Name = v
	}
	if v := strings.TrimSpace(r.FormValue("ship_address")); v != "" {
		info.Address = v
	}
	if v := strings.TrimSpace(r.FormValue("ship_city")); v != "" {
		info.City = v
	}
	if v := strings.TrimSpace(r.FormValue("ship_country")); v != "" {
		info.Country = v
	}
	if v := strings.TrimSpace(r.FormValue("ship_postal")); v != "" {
		info.PostalCode = v
	}
	return info
}
