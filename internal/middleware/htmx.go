package middleware

import "net/http"

// HTMX flags fragment requests in the context. Downstream code branches on
// this for redirects (HX-Redirect vs Location) and error envelopes.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithHTMX(r.Context(), r.Header.Get("HX-Request") == "true")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
