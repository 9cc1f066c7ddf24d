package middleware

import (
	"net/http"
)

// RequireAuth gates the storefront pages on the stored access token. Without
// one the request is sent back to the entry page and the handler never runs.
// Token validity is not checked here; the backend judges it on the next call.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		if !s.Authenticated() {
			if IsHTMX(r.Context()) {
				// htmx follows HX-Redirect instead of a Location header
				w.Header().Set("HX-Redirect", "/")
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
