package main

import (
	"errors"
	"net/http"
	"strings"

	mw "kytstore.org/kyt-web/internal/middleware"
	"kytstore.org/kyt-web/internal/shop"
	"kytstore.org/kyt-web/internal/validate"
)

const msgRegistered = "Registered Successfully! Please login to continue."

// IndexHandler serves the landing page with the login and registration
// forms. A visitor who already holds a token is sent straight to the store.
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	if s.Authenticated() {
		redirect(w, r, "/store")
		return
	}
	renderPage(w, r, "page_index", PageData{
		Title:     "KYT Store",
		CSRFToken: s.CSRFToken,
	})
}

// LoginHandler exchanges the login form for an access token. The token and
// email live in the signed session cookie; nothing is stored server-side
// beyond the cart registry entry.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := validate.LoginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := form.Validate(); err != nil {
		renderIndexMessage(w, r, err.Error(), true)
		return
	}

	token, err := apiClient.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		renderIndexMessage(w, r, apiFailureMessage(err, "Login failed"), true)
		return
	}

	s := mw.GetSession(r)
	s.SignIn(token, form.Email)
	redirect(w, r, "/store")
}

// RegisterHandler creates an account and bounces back to the login form.
// Registration never signs the user in.
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := validate.RegisterForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Surname:  strings.TrimSpace(r.FormValue("surname")),
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Mobile:   strings.TrimSpace(r.FormValue("mobile")),
		Password: r.FormValue("password"),
		Retype:   r.FormValue("retype"),
	}
	if err := form.Validate(); err != nil {
		renderIndexMessage(w, r, err.Error(), true)
		return
	}

	req := shop.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Mobile:   form.Mobile,
		Password: form.Password,
	}
	if err := apiClient.Register(r.Context(), req); err != nil {
		renderIndexMessage(w, r, apiFailureMessage(err, "Registration failed"), true)
		return
	}
	renderIndexMessage(w, r, msgRegistered, false)
}

// LogoutHandler drops the cart, clears the session, and returns to the
// landing page.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	s := mw.GetSession(r)
	carts.Drop(s.ID)
	s.SignOut()
	redirect(w, r, "/")
}

func renderIndexMessage(w http.ResponseWriter, r *http.Request, msg string, isErr bool) {
	s := mw.GetSession(r)
	data := PageData{
		Title:        "KYT Store",
		Message:      msg,
		MessageError: isErr,
		CSRFToken:    s.CSRFToken,
	}
	if mw.IsHTMX(r.Context()) {
		renderTemplate(w, r, "frag_message", data)
		return
	}
	renderPage(w, r, "page_index", data)
}

// apiFailureMessage maps a client error to what the user sees: the backend's
// own message when it sent one, the fallback for a mute rejection, and the
// connectivity message for transport failures.
func apiFailureMessage(err error, fallback string) string {
	var apiErr *shop.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return msgCannotConnect
}

// redirect sends the browser to target, using HX-Redirect for htmx requests
// so the swap turns into a full navigation.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
